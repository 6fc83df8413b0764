package pg

import (
	"papertrade/biz/model"
)

// GetPosition 查询某用户某标的在指定资产类别下的持仓，不存在时返回 (nil, nil)
func GetPosition(userID uint64, symbol string, class model.AssetClass) (*model.Position, error) {
	return FindPositionTx(GormDB, userID, symbol, class)
}

// ListPositions 查询用户在某资产类别下的全部持仓
func ListPositions(userID uint64, class model.AssetClass) ([]model.Position, error) {
	var positions []model.Position
	err := GormDB.
		Where("user_id = ? AND asset_class = ?", userID, class).
		Order("symbol asc").
		Find(&positions).Error
	return positions, err
}

// ListAllPositions 查询用户两类资产的全部持仓（快照任务用）
func ListAllPositions(userID uint64) ([]model.Position, error) {
	var positions []model.Position
	err := GormDB.Where("user_id = ?", userID).Find(&positions).Error
	return positions, err
}

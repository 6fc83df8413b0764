package pg

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"papertrade/biz/model"
)

// 账本引擎的事务内数据操作。所有函数都在调用方给定的 *gorm.DB 上执行，
// 由 service 层用 GormDB.Transaction 把一次下单的读写包成同一个事务。

// FindPositionTx 事务内查询持仓，不存在时返回 (nil, nil)
func FindPositionTx(db *gorm.DB, userID uint64, symbol string, class model.AssetClass) (*model.Position, error) {
	var pos model.Position
	err := db.Where("user_id = ? AND symbol = ? AND asset_class = ?", userID, symbol, class).
		First(&pos).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pos, nil
}

// SavePositionTx 事务内写入/覆盖持仓行，按 (user_id, symbol, asset_class) 冲突合并
func SavePositionTx(db *gorm.DB, pos *model.Position) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "symbol"}, {Name: "asset_class"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "avg_cost"}),
	}).Create(pos).Error
}

// DeletePositionTx 事务内删除持仓行（清仓）
func DeletePositionTx(db *gorm.DB, userID uint64, symbol string, class model.AssetClass) error {
	return db.Where("user_id = ? AND symbol = ? AND asset_class = ?", userID, symbol, class).
		Delete(&model.Position{}).Error
}

// AppendTransactionTx 事务内追加一条成交流水
func AppendTransactionTx(db *gorm.DB, tx *model.Transaction) error {
	return db.Create(tx).Error
}

// AdjustBalanceTx 事务内调整用户现金余额：balance += delta。
// 不做余额下限检查，买入的偿付能力由调用方在下单前校验。
func AdjustBalanceTx(db *gorm.DB, userID uint64, delta float64) error {
	res := db.Model(&model.User{}).Where("id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetBalanceTx 事务内读取用户现金余额
func GetBalanceTx(db *gorm.DB, userID uint64) (float64, error) {
	var user model.User
	if err := db.Select("balance").Where("id = ?", userID).First(&user).Error; err != nil {
		return 0, err
	}
	return user.Balance, nil
}

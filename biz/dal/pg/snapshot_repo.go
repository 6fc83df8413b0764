package pg

import (
	"papertrade/biz/model"
)

// InsertSnapshot 写入账户净值快照
func InsertSnapshot(snap *model.AccountSnapshot) error {
	return GormDB.Create(snap).Error
}

// ListSnapshots 查询用户净值快照，按时间升序
func ListSnapshots(userID uint64, limit int) ([]model.AccountSnapshot, error) {
	var snaps []model.AccountSnapshot
	err := GormDB.
		Where("user_id = ?", userID).
		Order("timestamp asc").
		Limit(limit).
		Find(&snaps).Error
	return snaps, err
}

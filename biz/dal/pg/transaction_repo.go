package pg

import (
	"time"

	"papertrade/biz/model"
)

// ListTransactions 查询用户成交流水，按时间倒序
func ListTransactions(userID uint64, limit int) ([]model.Transaction, error) {
	var txs []model.Transaction
	db := GormDB.Model(&model.Transaction{}).Where("user_id = ?", userID)
	err := db.Order("timestamp desc, tx_id desc").Limit(limit).Find(&txs).Error
	return txs, err
}

// ListTransactionsBySymbolAndTime 查询某标的在指定时间段的成交流水
func ListTransactionsBySymbolAndTime(userID uint64, symbol string, start, end time.Time) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := GormDB.
		Where("user_id = ? AND symbol = ? AND timestamp >= ? AND timestamp < ?",
			userID, symbol, start.UnixMilli(), end.UnixMilli()).
		Order("timestamp asc, tx_id asc").
		Find(&txs).Error
	return txs, err
}

// CountTransactions 用户成交流水总数
func CountTransactions(userID uint64) (int64, error) {
	var n int64
	err := GormDB.Model(&model.Transaction{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

package model

// Transaction 成交流水模型（GORM）。只追加，不更新不删除。
type Transaction struct {
	TxID       uint64     `gorm:"primaryKey;column:tx_id" json:"tx_id"`
	UserID     uint64     `gorm:"column:user_id;index:idx_user_ts;not null" json:"user_id"`
	Symbol     string     `gorm:"column:symbol;index;not null" json:"symbol"`
	AssetClass AssetClass `gorm:"column:asset_class;not null" json:"asset_class"`
	Side       Side       `gorm:"column:side;not null" json:"side"`
	Quantity   float64    `gorm:"column:quantity;not null" json:"quantity"`
	Price      float64    `gorm:"column:price;not null" json:"price"`
	Timestamp  int64      `gorm:"column:timestamp;index:idx_user_ts;not null" json:"timestamp"`
}

func (Transaction) TableName() string {
	return "transactions"
}

package model

// AccountSnapshot 账户市值快照（定时任务写入，用于净值曲线）。
type AccountSnapshot struct {
	ID        uint64  `gorm:"primaryKey;column:id" json:"-"`
	UserID    uint64  `gorm:"column:user_id;index:idx_snap_user_ts;not null" json:"user_id"`
	Cash      float64 `gorm:"column:cash;not null" json:"cash"`
	Holdings  float64 `gorm:"column:holdings;not null" json:"holdings"` // Σ quantity*avg_cost，成本口径
	Total     float64 `gorm:"column:total;not null" json:"total"`
	Timestamp int64   `gorm:"column:timestamp;index:idx_snap_user_ts;not null" json:"timestamp"`
}

func (AccountSnapshot) TableName() string {
	return "account_snapshots"
}

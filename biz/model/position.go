package model

// 资产类别：股票与加密货币共用同一套持仓算法，但互不串仓。
type AssetClass string

const (
	AssetEquity AssetClass = "EQUITY"
	AssetCrypto AssetClass = "CRYPTO"
)

func (a AssetClass) Valid() bool {
	return a == AssetEquity || a == AssetCrypto
}

// 买卖方向
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Position 持仓模型（GORM）。
// 不变量：行存在 ⟺ Quantity > 0；清仓时整行删除，不保留零持仓行。
type Position struct {
	ID         uint64     `gorm:"primaryKey;column:id" json:"-"`
	UserID     uint64     `gorm:"column:user_id;uniqueIndex:idx_user_symbol_class;not null" json:"user_id"`
	Symbol     string     `gorm:"column:symbol;uniqueIndex:idx_user_symbol_class;not null" json:"symbol"`
	AssetClass AssetClass `gorm:"column:asset_class;uniqueIndex:idx_user_symbol_class;not null" json:"asset_class"`
	Quantity   float64    `gorm:"column:quantity;not null" json:"quantity"`
	AvgCost    float64    `gorm:"column:avg_cost;not null" json:"avg_cost"`
}

func (Position) TableName() string {
	return "positions"
}

package model

// User 用户模型（GORM）。Balance 只允许账本引擎修改。
type User struct {
	ID           uint64  `gorm:"primaryKey;column:id" json:"id"`
	Name         string  `gorm:"column:name;not null" json:"name"`
	Email        string  `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"column:password_hash;not null" json:"-"`
	Balance      float64 `gorm:"column:balance;not null" json:"balance"`
	CreatedAt    int64   `gorm:"column:created_at" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"gorm.io/gorm"

	"papertrade/biz/dal/pg"
	"papertrade/biz/model"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// hashPassword sha256 摘要，hex 编码。
// TODO: 换成带盐的 bcrypt，sha256 裸摘要可被彩虹表攻击
func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Register 注册新用户，初始现金余额由配置给定
func Register(name, email, password string, startingBalance float64) (*model.User, error) {
	if _, err := pg.GetUserByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashPassword(password),
		Balance:      startingBalance,
		CreatedAt:    time.Now().UnixMilli(),
	}
	if err := pg.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate 校验邮箱与密码摘要
func Authenticate(email, password string) (*model.User, error) {
	user, err := pg.GetUserByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.PasswordHash != hashPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser 按ID查询用户（余额展示用）
func GetUser(userID uint64) (*model.User, error) {
	return pg.GetUserByID(userID)
}

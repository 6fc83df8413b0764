package pg

import (
	"papertrade/biz/model"
)

// CreateUser 插入用户，email 唯一冲突时返回错误
func CreateUser(user *model.User) error {
	return GormDB.Create(user).Error
}

// GetUserByEmail 按邮箱查询用户
func GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	err := GormDB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID 按ID查询用户
func GetUserByID(userID uint64) (*model.User, error) {
	var user model.User
	err := GormDB.Where("id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUserIDs 返回所有用户ID（快照任务用）
func ListUserIDs() ([]uint64, error) {
	var ids []uint64
	err := GormDB.Model(&model.User{}).Pluck("id", &ids).Error
	return ids, err
}

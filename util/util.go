package util

import (
	"sync"

	"github.com/sony/sonyflake"
)

var (
	sonyFlake *sonyflake.Sonyflake
	once      sync.Once
)

// InitSonyFlake 初始化 Snowflake 实例
func InitSonyFlake() {
	once.Do(func() {
		sonyFlake = sonyflake.NewSonyflake(sonyflake.Settings{})
	})
}

// GenerateTxID 生成唯一成交流水ID
func GenerateTxID() (uint64, error) {
	if sonyFlake == nil {
		InitSonyFlake()
	}
	return sonyFlake.NextID()
}

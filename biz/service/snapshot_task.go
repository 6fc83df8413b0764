package service

import (
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/hashicorp/consul/api"

	"papertrade/biz/dal/pg"
	"papertrade/biz/model"
)

// StartSnapshotTask 定时给每个用户写一条账户净值快照（现金 + 持仓成本市值）。
// 多实例部署时用 Consul 锁保证同一时刻只有一个节点在算。
func StartSnapshotTask(consulClient *api.Client, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			<-ticker.C
			lock, err := acquireConsulLock(consulClient, "papertrade/snapshot_lock")
			if err != nil {
				hlog.Warnf("snapshot task lock error: %v", err)
				continue
			}
			if lock == nil {
				continue
			}
			if err := SnapshotAllAccounts(); err != nil {
				hlog.Errorf("snapshot task failed: %v", err)
			}
			_ = lock.Unlock()
		}
	}()
}

// acquireConsulLock 获取分布式锁，未抢到返回 (nil, nil)
func acquireConsulLock(client *api.Client, key string) (*api.Lock, error) {
	lock, err := client.LockOpts(&api.LockOptions{
		Key:          key,
		LockTryOnce:  true,
		LockWaitTime: 5 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	stopCh := make(chan struct{})
	leaderCh, err := lock.Lock(stopCh)
	if err != nil || leaderCh == nil {
		return nil, nil
	}
	return lock, nil
}

// SnapshotAllAccounts 逐用户计算并写入净值快照
func SnapshotAllAccounts() error {
	userIDs, err := pg.ListUserIDs()
	if err != nil {
		return err
	}
	now := time.Now().UnixMilli()
	for _, userID := range userIDs {
		user, err := pg.GetUserByID(userID)
		if err != nil {
			hlog.Warnf("snapshot: load user %d failed: %v", userID, err)
			continue
		}
		positions, err := pg.ListAllPositions(userID)
		if err != nil {
			hlog.Warnf("snapshot: load positions for %d failed: %v", userID, err)
			continue
		}
		var holdings float64
		for _, p := range positions {
			holdings += p.Quantity * p.AvgCost
		}
		snap := &model.AccountSnapshot{
			UserID:    userID,
			Cash:      user.Balance,
			Holdings:  holdings,
			Total:     user.Balance + holdings,
			Timestamp: now,
		}
		if err := pg.InsertSnapshot(snap); err != nil {
			hlog.Warnf("snapshot: insert for %d failed: %v", userID, err)
		}
	}
	return nil
}

// ListSnapshots 查询用户净值曲线
func ListSnapshots(userID uint64, limit int) ([]model.AccountSnapshot, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	return pg.ListSnapshots(userID, limit)
}

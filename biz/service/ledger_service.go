package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"papertrade/biz/dal/pg"
	"papertrade/biz/model"
	"papertrade/util"
)

var (
	// ErrInsufficientHoldings 卖出数量超过持仓（或无持仓），业务性失败，无任何状态变更
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	// ErrInvalidOrder 前置条件不满足（数量/价格非正、symbol为空、方向或资产类别非法），属调用方错误
	ErrInvalidOrder = errors.New("invalid order")
)

// OrderRequest 一笔已经过外层校验的订单
type OrderRequest struct {
	UserID     uint64
	Symbol     string
	Quantity   float64
	Price      float64
	Side       model.Side
	AssetClass model.AssetClass
}

// ExecutionResult 下单成功后的结果。Position 为 nil 表示该标的已清仓。
type ExecutionResult struct {
	TxID         uint64          `json:"tx_id"`
	BalanceDelta float64         `json:"balance_delta"`
	NewBalance   float64         `json:"new_balance"`
	Position     *model.Position `json:"position"`
}

// 同一用户的订单串行执行，避免均价的读-改-写在事务间交错丢更新。
// 不同用户之间互不阻塞。
var userLocks sync.Map // map[uint64]*sync.Mutex

func lockUser(userID uint64) *sync.Mutex {
	v, _ := userLocks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// ExecuteOrder 账本引擎：读取持仓、重算均价、更新/删除持仓行、追加成交流水、
// 调整现金余额，全部包在同一个数据库事务内，要么全部提交要么全部回滚。
//
// 买入的偿付能力（quantity*price <= balance）由调用方在下单前校验，
// 引擎本身不设余额下限——这是刻意的：引擎只做记账，可负担性是外层策略。
func ExecuteOrder(ctx context.Context, req OrderRequest) (*ExecutionResult, error) {
	if req.Symbol == "" || req.Quantity <= 0 || req.Price <= 0 ||
		!req.Side.Valid() || !req.AssetClass.Valid() {
		return nil, ErrInvalidOrder
	}

	mu := lockUser(req.UserID)
	mu.Lock()
	defer mu.Unlock()

	txID, err := util.GenerateTxID()
	if err != nil {
		return nil, fmt.Errorf("generate tx id: %w", err)
	}
	now := time.Now().UnixMilli()

	result := &ExecutionResult{TxID: txID}
	err = pg.GormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pos, err := pg.FindPositionTx(tx, req.UserID, req.Symbol, req.AssetClass)
		if err != nil {
			return err
		}

		var newQty, newAvg float64
		switch req.Side {
		case model.SideBuy:
			if pos != nil {
				// 成交量加权的成本均价
				newQty = pos.Quantity + req.Quantity
				newAvg = (pos.Quantity*pos.AvgCost + req.Quantity*req.Price) / newQty
			} else {
				newQty = req.Quantity
				newAvg = req.Price
			}
			result.BalanceDelta = -req.Quantity * req.Price

		case model.SideSell:
			if pos == nil || pos.Quantity < req.Quantity {
				return ErrInsufficientHoldings
			}
			// 卖出不改变剩余持仓的成本均价
			newQty = pos.Quantity - req.Quantity
			newAvg = pos.AvgCost
			result.BalanceDelta = req.Quantity * req.Price
		}

		if newQty > 0 {
			held := &model.Position{
				UserID:     req.UserID,
				Symbol:     req.Symbol,
				AssetClass: req.AssetClass,
				Quantity:   newQty,
				AvgCost:    newAvg,
			}
			if err := pg.SavePositionTx(tx, held); err != nil {
				return fmt.Errorf("save position: %w", err)
			}
			result.Position = held
		} else {
			// 清仓即删行，不保留零持仓
			if err := pg.DeletePositionTx(tx, req.UserID, req.Symbol, req.AssetClass); err != nil {
				return fmt.Errorf("delete position: %w", err)
			}
			result.Position = nil
		}

		if err := pg.AppendTransactionTx(tx, &model.Transaction{
			TxID:       txID,
			UserID:     req.UserID,
			Symbol:     req.Symbol,
			AssetClass: req.AssetClass,
			Side:       req.Side,
			Quantity:   req.Quantity,
			Price:      req.Price,
			Timestamp:  now,
		}); err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}

		if err := pg.AdjustBalanceTx(tx, req.UserID, result.BalanceDelta); err != nil {
			return fmt.Errorf("adjust balance: %w", err)
		}

		balance, err := pg.GetBalanceTx(tx, req.UserID)
		if err != nil {
			return err
		}
		result.NewBalance = balance
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientHoldings) {
			return nil, ErrInsufficientHoldings
		}
		return nil, err
	}

	notifyFill(&model.Transaction{
		TxID:       txID,
		UserID:     req.UserID,
		Symbol:     req.Symbol,
		AssetClass: req.AssetClass,
		Side:       req.Side,
		Quantity:   req.Quantity,
		Price:      req.Price,
		Timestamp:  now,
	})
	return result, nil
}

// GetPosition 查询单个持仓，不存在返回 (nil, nil)
func GetPosition(userID uint64, symbol string, class model.AssetClass) (*model.Position, error) {
	return pg.GetPosition(userID, symbol, class)
}

// ListPositions 查询用户某资产类别的全部持仓
func ListPositions(userID uint64, class model.AssetClass) ([]model.Position, error) {
	return pg.ListPositions(userID, class)
}

// ListTransactions 查询用户成交流水，按时间倒序
func ListTransactions(userID uint64, limit int) ([]model.Transaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return pg.ListTransactions(userID, limit)
}

package service

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"papertrade/biz/dal/kafka"
	"papertrade/biz/model"
	"papertrade/util"
)

// FillEvent 对外发布的成交事件（kafka / websocket）
type FillEvent struct {
	Type       string  `json:"type"`
	TxID       uint64  `json:"tx_id"`
	UserID     uint64  `json:"user_id"`
	Symbol     string  `json:"symbol"`
	AssetClass string  `json:"asset_class"`
	Side       string  `json:"side"`
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
	Timestamp  int64   `json:"timestamp"`
}

// FillHook 成交提交后的回调，事务外执行
type FillHook func(*model.Transaction)

var (
	fillHookMu sync.RWMutex
	fillHooks  []FillHook
)

// RegisterFillHook 注册成交回调（审计日志、kafka、websocket 推送），在 main 中装配
func RegisterFillHook(h FillHook) {
	fillHookMu.Lock()
	defer fillHookMu.Unlock()
	fillHooks = append(fillHooks, h)
}

func notifyFill(txn *model.Transaction) {
	fillHookMu.RLock()
	hooks := fillHooks
	fillHookMu.RUnlock()
	for _, h := range hooks {
		h(txn)
	}
}

// EncodeFillEvent 序列化成交事件
func EncodeFillEvent(txn *model.Transaction) []byte {
	payload, _ := json.Marshal(FillEvent{
		Type:       "fill",
		TxID:       txn.TxID,
		UserID:     txn.UserID,
		Symbol:     txn.Symbol,
		AssetClass: string(txn.AssetClass),
		Side:       string(txn.Side),
		Quantity:   txn.Quantity,
		Price:      txn.Price,
		Timestamp:  txn.Timestamp,
	})
	return payload
}

// KafkaFillHook 把成交事件异步写入指定 topic
func KafkaFillHook(topic string) FillHook {
	writer := kafka.GetWriter(topic)
	return func(txn *model.Transaction) {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		err := writer.WriteMessages(ctx, kafkago.Message{
			Key:   []byte(strconv.FormatUint(txn.UserID, 10)),
			Value: EncodeFillEvent(txn),
		})
		if err != nil {
			hlog.Warnf("kafka fill publish failed: %v", err)
		}
	}
}

// AuditFillHook 每笔成交写一条结构化审计日志
func AuditFillHook() FillHook {
	return func(txn *model.Transaction) {
		util.AuditLogger().Info("order executed",
			zap.Uint64("tx_id", txn.TxID),
			zap.Uint64("user_id", txn.UserID),
			zap.String("symbol", txn.Symbol),
			zap.String("asset_class", string(txn.AssetClass)),
			zap.String("side", string(txn.Side)),
			zap.Float64("quantity", txn.Quantity),
			zap.Float64("price", txn.Price),
			zap.Int64("timestamp", txn.Timestamp),
		)
	}
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	goredis "github.com/redis/go-redis/v9"

	"papertrade/biz/dal/redis"
	"papertrade/biz/marketdata"
	"papertrade/conf"
)

var (
	quoteClient  *marketdata.Client
	quoteTTL     time.Duration
	priceHistory = marketdata.NewHistory(4096)
)

// InitQuoteService 初始化外部行情源客户端
func InitQuoteService() {
	mdConf := conf.GetConf().MarketData
	quoteClient = marketdata.NewClient(
		mdConf.BaseURL,
		mdConf.APIKey,
		time.Duration(mdConf.TimeoutSec)*time.Second,
	)
	quoteTTL = time.Duration(mdConf.QuoteCacheTTL) * time.Second
}

func quoteKey(symbol string) string {
	return "quote:" + symbol
}

// GetQuote 查询最新行情：redis 缓存命中直接返回，未命中回源并写缓存。
// 缓存读写失败只降级回源，不影响主流程。
func GetQuote(ctx context.Context, symbol string) (*marketdata.Quote, error) {
	cached, err := redis.Client.Get(ctx, quoteKey(symbol)).Bytes()
	if err == nil {
		var q marketdata.Quote
		if jsonErr := json.Unmarshal(cached, &q); jsonErr == nil {
			return &q, nil
		}
	} else if !errors.Is(err, goredis.Nil) {
		hlog.Warnf("quote cache read failed: %v", err)
	}

	q, err := quoteClient.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	priceHistory.Record(symbol, q.Timestamp, q.Price)

	if payload, jsonErr := json.Marshal(q); jsonErr == nil {
		if err := redis.Client.Set(ctx, quoteKey(symbol), payload, quoteTTL).Err(); err != nil {
			hlog.Warnf("quote cache write failed: %v", err)
		}
	}
	return q, nil
}

// GetPriceHistory 查询进程内价格历史，[from, to] 秒级时间戳
func GetPriceHistory(symbol string, from, to int64) []marketdata.PricePoint {
	return priceHistory.Range(symbol, from, to)
}

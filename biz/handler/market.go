package handler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"papertrade/biz/service"
)

// GetQuote 查询最新行情（redis 缓存 + 外部行情源）
func GetQuote(ctx context.Context, c *app.RequestContext) {
	symbol := strings.ToUpper(c.Query("symbol"))
	if symbol == "" {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "missing symbol"})
		return
	}
	quote, err := service.GetQuote(ctx, symbol)
	if err != nil {
		c.JSON(consts.StatusBadGateway, map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, quote)
}

// GetHistory 查询进程内价格历史，from/to 秒级时间戳，缺省最近一小时
func GetHistory(ctx context.Context, c *app.RequestContext) {
	symbol := strings.ToUpper(c.Query("symbol"))
	if symbol == "" {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "missing symbol"})
		return
	}
	now := time.Now().Unix()
	from := now - 3600
	to := now
	if v := c.Query("from"); v != "" {
		if ts, err := strconv.ParseInt(string(v), 10, 64); err == nil {
			from = ts
		}
	}
	if v := c.Query("to"); v != "" {
		if ts, err := strconv.ParseInt(string(v), 10, 64); err == nil {
			to = ts
		}
	}
	points := service.GetPriceHistory(symbol, from, to)
	c.JSON(consts.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"points": points,
	})
}

package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"papertrade/biz/model"
	"papertrade/biz/service"
)

type ExecuteOrderRequest struct {
	Symbol     string  `json:"symbol"`
	Quantity   float64 `json:"quantity"`
	Side       string  `json:"side"`        // BUY / SELL
	AssetClass string  `json:"asset_class"` // EQUITY / CRYPTO
}

// ExecuteOrder RESTful 下单接口。按当前行情价成交：
// 先拉最新报价，买入先做余额校验（账本引擎本身不设余额下限），再进引擎。
func ExecuteOrder(ctx context.Context, c *app.RequestContext) {
	var req ExecuteOrderRequest
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": err.Error()})
		return
	}
	if req.Symbol == "" || req.Quantity <= 0 || req.Side == "" || req.AssetClass == "" {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "missing required fields"})
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	side := model.Side(strings.ToUpper(req.Side))
	class := model.AssetClass(strings.ToUpper(req.AssetClass))
	if !side.Valid() || !class.Valid() {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "invalid side or asset_class"})
		return
	}

	userID := currentUserID(c)

	quote, err := service.GetQuote(ctx, symbol)
	if err != nil {
		c.JSON(consts.StatusBadGateway, map[string]interface{}{"error": "quote unavailable: " + err.Error()})
		return
	}
	if quote.Price <= 0 {
		c.JSON(consts.StatusBadGateway, map[string]interface{}{"error": "no valid price for " + symbol})
		return
	}

	// 买入可负担性检查在这里，不在引擎里
	if side == model.SideBuy {
		user, err := service.GetUser(userID)
		if err != nil {
			c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
			return
		}
		if req.Quantity*quote.Price > user.Balance {
			c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "insufficient funds"})
			return
		}
	}

	result, err := service.ExecuteOrder(ctx, service.OrderRequest{
		UserID:     userID,
		Symbol:     symbol,
		Quantity:   req.Quantity,
		Price:      quote.Price,
		Side:       side,
		AssetClass: class,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientHoldings):
			c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "insufficient holdings"})
		case errors.Is(err, service.ErrInvalidOrder):
			c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "invalid order"})
		default:
			c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		}
		return
	}

	c.JSON(consts.StatusOK, map[string]interface{}{
		"tx_id":         result.TxID,
		"symbol":        symbol,
		"side":          string(side),
		"quantity":      req.Quantity,
		"price":         quote.Price,
		"balance_delta": result.BalanceDelta,
		"new_balance":   result.NewBalance,
		"position":      result.Position,
	})
}

// ListTransactions 查询成交流水
func ListTransactions(ctx context.Context, c *app.RequestContext) {
	userID := currentUserID(c)
	limit := parseLimit(c.Query("limit"), 50)
	txs, err := service.ListTransactions(userID, limit)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, txs)
}

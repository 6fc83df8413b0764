package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"papertrade/biz/model"
	"papertrade/biz/service"
)

func parseLimit(limitStr string, defaultLimit int) int {
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			return l
		}
	}
	return defaultLimit
}

func parseAssetClass(s string) (model.AssetClass, bool) {
	if s == "" {
		return model.AssetEquity, true
	}
	class := model.AssetClass(strings.ToUpper(s))
	return class, class.Valid()
}

// GetBalance 查询现金余额
func GetBalance(ctx context.Context, c *app.RequestContext) {
	userID := currentUserID(c)
	user, err := service.GetUser(userID)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, map[string]interface{}{"user_id": userID, "balance": user.Balance})
}

// GetPositions 查询持仓列表，asset_class 缺省为 EQUITY
func GetPositions(ctx context.Context, c *app.RequestContext) {
	userID := currentUserID(c)
	class, ok := parseAssetClass(c.Query("asset_class"))
	if !ok {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "invalid asset_class"})
		return
	}
	positions, err := service.ListPositions(userID, class)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, positions)
}

// GetPosition 查询单个持仓，无持仓时返回 404
func GetPosition(ctx context.Context, c *app.RequestContext) {
	userID := currentUserID(c)
	symbol := strings.ToUpper(c.Param("symbol"))
	class, ok := parseAssetClass(c.Query("asset_class"))
	if !ok {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "invalid asset_class"})
		return
	}
	pos, err := service.GetPosition(userID, symbol, class)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	if pos == nil {
		c.JSON(consts.StatusNotFound, map[string]interface{}{"error": "no position for " + symbol})
		return
	}
	c.JSON(consts.StatusOK, pos)
}

// GetSnapshots 查询账户净值曲线
func GetSnapshots(ctx context.Context, c *app.RequestContext) {
	userID := currentUserID(c)
	limit := parseLimit(c.Query("limit"), 200)
	snaps, err := service.ListSnapshots(userID, limit)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, snaps)
}

package handler

import (
	"bytes"
	"testing"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/stretchr/testify/assert"
)

func performJSON(t *testing.T, h *server.Hertz, method, path, body string) *ut.ResponseRecorder {
	t.Helper()
	return ut.PerformRequest(h.Engine, method, path,
		&ut.Body{Body: bytes.NewBufferString(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/json"})
}

func TestExecuteOrderRejectsMissingFields(t *testing.T) {
	h := server.New()
	h.POST("/api/orders", ExecuteOrder)

	w := performJSON(t, h, "POST", "/api/orders", `{}`)
	resp := w.Result()
	assert.Equal(t, consts.StatusBadRequest, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "missing required fields")
}

func TestExecuteOrderRejectsInvalidSide(t *testing.T) {
	h := server.New()
	h.POST("/api/orders", ExecuteOrder)

	w := performJSON(t, h, "POST", "/api/orders",
		`{"symbol":"aapl","quantity":1,"side":"HOLD","asset_class":"EQUITY"}`)
	resp := w.Result()
	assert.Equal(t, consts.StatusBadRequest, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "invalid side or asset_class")
}

func TestExecuteOrderRejectsInvalidAssetClass(t *testing.T) {
	h := server.New()
	h.POST("/api/orders", ExecuteOrder)

	w := performJSON(t, h, "POST", "/api/orders",
		`{"symbol":"AAPL","quantity":1,"side":"BUY","asset_class":"FUTURES"}`)
	resp := w.Result()
	assert.Equal(t, consts.StatusBadRequest, resp.StatusCode())
}

func TestParseAssetClassDefaultsToEquity(t *testing.T) {
	class, ok := parseAssetClass("")
	assert.True(t, ok)
	assert.EqualValues(t, "EQUITY", class)

	class, ok = parseAssetClass("crypto")
	assert.True(t, ok)
	assert.EqualValues(t, "CRYPTO", class)

	_, ok = parseAssetClass("bonds")
	assert.False(t, ok)
}

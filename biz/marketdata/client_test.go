package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{
			"symbol":"AAPL",
			"regularMarketPrice":187.42,
			"regularMarketVolume":52000000,
			"regularMarketTime":1700000000
		}}],"error":null}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 2*time.Second)
	q, err := c.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.InDelta(t, 187.42, q.Price, 1e-9)
	assert.EqualValues(t, 52000000, q.Volume)
	assert.EqualValues(t, 1700000000, q.Timestamp)
}

func TestGetQuoteProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 2*time.Second)
	_, err := c.GetQuote(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delisted")
}

func TestGetQuoteHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 2*time.Second)
	_, err := c.GetQuote(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

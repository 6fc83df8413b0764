package marketdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRange(t *testing.T) {
	h := NewHistory(100)
	h.Record("AAPL", 100, 150.0)
	h.Record("AAPL", 200, 151.0)
	h.Record("AAPL", 300, 152.0)

	points := h.Range("AAPL", 150, 300)
	require.Len(t, points, 2)
	assert.EqualValues(t, 200, points[0].Timestamp)
	assert.InDelta(t, 151.0, points[0].Price, 1e-9)
	assert.EqualValues(t, 300, points[1].Timestamp)

	assert.Empty(t, h.Range("AAPL", 301, 400))
	assert.Empty(t, h.Range("TSLA", 0, 1000))
}

func TestHistoryOverwritesSameTimestamp(t *testing.T) {
	h := NewHistory(100)
	h.Record("BTC-USD", 100, 60000.0)
	h.Record("BTC-USD", 100, 60100.0)

	points := h.Range("BTC-USD", 0, 1000)
	require.Len(t, points, 1)
	assert.InDelta(t, 60100.0, points[0].Price, 1e-9)
}

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewHistory(3)
	for i := int64(1); i <= 5; i++ {
		h.Record("ETH-USD", i, float64(i)*1000)
	}
	points := h.Range("ETH-USD", 0, 100)
	require.Len(t, points, 3)
	assert.EqualValues(t, 3, points[0].Timestamp)
	assert.EqualValues(t, 5, points[2].Timestamp)
}

func TestHistoryLatest(t *testing.T) {
	h := NewHistory(10)
	_, ok := h.Latest("AAPL")
	assert.False(t, ok)

	h.Record("AAPL", 100, 150.0)
	h.Record("AAPL", 50, 149.0) // 乱序写入也取最大时间戳
	latest, ok := h.Latest("AAPL")
	require.True(t, ok)
	assert.EqualValues(t, 100, latest.Timestamp)
	assert.InDelta(t, 150.0, latest.Price, 1e-9)
}

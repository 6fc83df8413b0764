package marketdata

import (
	"sync"

	"github.com/huandu/skiplist"
)

// PricePoint 历史价格点
type PricePoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
}

// History 进程内价格历史：每个 symbol 一个按时间戳升序的跳表。
// 只服务短窗口走势查询，超出容量丢最旧的点。
type History struct {
	mu        sync.RWMutex
	series    map[string]*skiplist.SkipList
	maxPoints int
}

func NewHistory(maxPoints int) *History {
	if maxPoints <= 0 {
		maxPoints = 4096
	}
	return &History{
		series:    make(map[string]*skiplist.SkipList),
		maxPoints: maxPoints,
	}
}

// Record 记录一个价格点，同一时间戳后写覆盖
func (h *History) Record(symbol string, ts int64, price float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	list, ok := h.series[symbol]
	if !ok {
		list = skiplist.New(skiplist.Int64)
		h.series[symbol] = list
	}
	list.Set(ts, price)
	for list.Len() > h.maxPoints {
		front := list.Front()
		if front == nil {
			break
		}
		list.Remove(front.Key())
	}
}

// Range 返回 [from, to] 区间内的价格点，升序
func (h *History) Range(symbol string, from, to int64) []PricePoint {
	h.mu.RLock()
	defer h.mu.RUnlock()
	list, ok := h.series[symbol]
	if !ok {
		return nil
	}
	var points []PricePoint
	for elem := list.Find(from); elem != nil; elem = elem.Next() {
		ts := elem.Key().(int64)
		if ts > to {
			break
		}
		points = append(points, PricePoint{Timestamp: ts, Price: elem.Value.(float64)})
	}
	return points
}

// Latest 返回最新价格点，没有数据时 ok 为 false
func (h *History) Latest(symbol string) (PricePoint, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	list, ok := h.series[symbol]
	if !ok || list.Len() == 0 {
		return PricePoint{}, false
	}
	back := list.Back()
	return PricePoint{Timestamp: back.Key().(int64), Price: back.Value.(float64)}, true
}

package server

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/hertz-contrib/websocket"
	"github.com/panjf2000/ants/v2"
)

const shardNum = 32

var upgrader = websocket.HertzUpgrader{
	CheckOrigin: func(ctx *app.RequestContext) bool {
		return true // 允许所有跨域 WebSocket 连接
	},
}

// SymbolShard 按 symbol 分片的订阅表，降低锁竞争
type SymbolShard struct {
	Mu     sync.RWMutex
	Subs   map[string]map[*websocket.Conn]struct{}
	MsgBuf map[string]chan []byte // 每个symbol的消息缓冲区
}

var symbolShards [shardNum]*SymbolShard

var broadcastPool *ants.Pool

func init() {
	for i := 0; i < shardNum; i++ {
		symbolShards[i] = &SymbolShard{
			Subs:   make(map[string]map[*websocket.Conn]struct{}),
			MsgBuf: make(map[string]chan []byte),
		}
	}
	pool, err := ants.NewPool(1024)
	if err != nil {
		panic(err)
	}
	broadcastPool = pool
}

// 启动symbol消息分发 goroutine
func ensureSymbolDispatcher(shard *SymbolShard, symbol string) {
	if _, ok := shard.MsgBuf[symbol]; ok {
		return
	}
	msgBuf := make(chan []byte, 4096)
	shard.MsgBuf[symbol] = msgBuf
	go func() {
		for msg := range msgBuf {
			shard.Mu.RLock()
			conns := shard.Subs[symbol]
			for conn := range conns {
				conn := conn
				err := broadcastPool.Submit(func() {
					if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						log.Printf("broadcast error: %v, remove conn %v", err, conn.RemoteAddr())
						dropConn(symbol, conn)
					}
				})
				if err != nil {
					log.Printf("broadcastPool.Submit error: %v, conn: %v", err, conn.RemoteAddr())
				}
			}
			shard.Mu.RUnlock()
		}
	}()
}

func dropConn(symbol string, conn *websocket.Conn) {
	shard := GetSymbolShard(symbol)
	shard.Mu.Lock()
	delete(shard.Subs[symbol], conn)
	if len(shard.Subs[symbol]) == 0 {
		delete(shard.Subs, symbol)
	}
	shard.Mu.Unlock()
	cleanConnFromAllSymbols(conn)
	_ = conn.Close()
}

func GetSymbolShard(symbol string) *SymbolShard {
	h := fnv32(symbol)
	return symbolShards[h%shardNum]
}

func fnv32(key string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(key); i++ {
		h ^= uint32(key[i])
		h *= 16777619
	}
	return h
}

// 解析 action/symbol

type Message struct {
	Action string `json:"action"`
	Symbol string `json:"symbol"`
}

func parseAction(msg []byte) (string, string) {
	var m Message
	if err := json.Unmarshal(msg, &m); err != nil {
		return "", ""
	}
	return m.Action, m.Symbol
}

// 清理连接所有symbol订阅
func cleanConnFromAllSymbols(c *websocket.Conn) {
	for i := 0; i < shardNum; i++ {
		shard := symbolShards[i]
		shard.Mu.Lock()
		for sym, conns := range shard.Subs {
			if conns != nil {
				if _, ok := conns[c]; ok {
					delete(conns, c)
					if len(conns) == 0 {
						delete(shard.Subs, sym)
					}
				}
			}
		}
		shard.Mu.Unlock()
	}
}

func subscribe(symbol string, conn *websocket.Conn) {
	shard := GetSymbolShard(symbol)
	shard.Mu.Lock()
	if shard.Subs[symbol] == nil {
		shard.Subs[symbol] = make(map[*websocket.Conn]struct{})
	}
	shard.Subs[symbol][conn] = struct{}{}
	ensureSymbolDispatcher(shard, symbol)
	shard.Mu.Unlock()
}

func unsubscribe(symbol string, conn *websocket.Conn) {
	shard := GetSymbolShard(symbol)
	shard.Mu.Lock()
	delete(shard.Subs[symbol], conn)
	if len(shard.Subs[symbol]) == 0 {
		delete(shard.Subs, symbol)
	}
	shard.Mu.Unlock()
}

// Broadcast 广播消息到symbol的所有订阅连接
func Broadcast(symbol string, msg []byte) {
	shard := GetSymbolShard(symbol)
	shard.Mu.Lock()
	ensureSymbolDispatcher(shard, symbol)
	buf, ok := shard.MsgBuf[symbol]
	shard.Mu.Unlock()
	if ok && buf != nil {
		select {
		case buf <- msg:
			// 写入成功
		default:
			log.Printf("symbol %s ring buffer full, drop message", symbol)
		}
	}
}

// RegisterWebSocket 挂载 /ws 路由：订阅/退订成交与行情推送
func RegisterWebSocket(h *server.Hertz) {
	h.GET("/ws", func(ctx context.Context, c *app.RequestContext) {
		err := upgrader.Upgrade(c, func(conn *websocket.Conn) {
			defer func() {
				cleanConnFromAllSymbols(conn)
				_ = conn.Close()
			}()
			for {
				mt, msg, err := conn.ReadMessage()
				if err != nil {
					return
				}
				action, symbol := parseAction(msg)
				switch action {
				case "subscribe":
					if symbol == "" {
						continue
					}
					subscribe(symbol, conn)
					ack := []byte(`{"type":"subscribed","symbol":"` + symbol + `"}`)
					if err := conn.WriteMessage(mt, ack); err != nil {
						log.Printf("subscribe ack error: %v", err)
					}
				case "unsubscribe":
					if symbol == "" {
						continue
					}
					unsubscribe(symbol, conn)
					ack := []byte(`{"type":"unsubscribed","symbol":"` + symbol + `"}`)
					if err := conn.WriteMessage(mt, ack); err != nil {
						log.Printf("unsubscribe ack error: %v", err)
					}
				case "ping":
					_ = conn.WriteMessage(mt, []byte(`{"type":"pong"}`))
				}
			}
		})
		if err != nil {
			log.Printf("upgrade error: %v", err)
		}
	})
}

package main

import (
	"net"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/hertz-contrib/cors"
	"github.com/hertz-contrib/gzip"
	"github.com/hertz-contrib/logger/accesslog"
	"github.com/hertz-contrib/pprof"
	"github.com/joho/godotenv"

	"papertrade/biz/dal"
	"papertrade/biz/handler"
	"papertrade/biz/model"
	"papertrade/biz/service"
	"papertrade/conf"
	"papertrade/middleware"
	ws "papertrade/server"
	"papertrade/util"
)

func main() {
	_ = godotenv.Load()
	cfg := conf.GetConf()
	hlog.SetLevel(conf.LogLevel())

	util.InitSonyFlake()
	util.InitAuditLogger()
	dal.Init()
	service.InitQuoteService()

	// 成交回调：审计日志、kafka、websocket 推送
	service.RegisterFillHook(service.AuditFillHook())
	if cfg.Kafka.FillTopic != "" {
		service.RegisterFillHook(service.KafkaFillHook(cfg.Kafka.FillTopic))
	}
	service.RegisterFillHook(func(txn *model.Transaction) {
		ws.Broadcast(txn.Symbol, service.EncodeFillEvent(txn))
	})

	// Consul 注册 + 快照任务
	if len(cfg.Registry.RegistryAddress) > 0 {
		helper, err := service.NewConsulHelperWithAddrs(cfg.Registry.RegistryAddress)
		if err != nil {
			hlog.Warnf("consul unavailable, skip registration: %v", err)
		} else {
			host := util.GetLocalIP()
			port := parsePort(cfg.Hertz.Address)
			if err := helper.RegisterAPIService(cfg.Registry.ServiceName, cfg.Registry.NodeID, host, port); err != nil {
				hlog.Warnf("consul register failed: %v", err)
			}
			if cfg.Trading.SnapshotInterval > 0 {
				service.StartSnapshotTask(helper.Client(),
					time.Duration(cfg.Trading.SnapshotInterval)*time.Minute)
			}
		}
	}

	h := server.New(server.WithHostPorts(cfg.Hertz.Address))
	if cfg.Hertz.EnableAccessLog {
		h.Use(accesslog.New())
	}
	if cfg.Hertz.EnableGzip {
		h.Use(gzip.Gzip(gzip.DefaultCompression))
	}
	if cfg.Hertz.EnablePprof {
		pprof.Register(h)
	}
	h.Use(cors.Default())

	registerRoutes(h)
	ws.RegisterWebSocket(h)

	h.Spin()
}

func registerRoutes(h *server.Hertz) {
	api := h.Group("/api")
	api.POST("/register", handler.Register)
	api.POST("/login", handler.Login)
	api.GET("/quote", handler.GetQuote)
	api.GET("/history", handler.GetHistory)

	authed := api.Group("/", middleware.SessionAuth())
	authed.POST("/orders", handler.ExecuteOrder)
	authed.POST("/logout", handler.Logout)
	authed.GET("/balance", handler.GetBalance)
	authed.GET("/positions", handler.GetPositions)
	authed.GET("/positions/:symbol", handler.GetPosition)
	authed.GET("/transactions", handler.ListTransactions)
	authed.GET("/snapshots", handler.GetSnapshots)
}

func parsePort(address string) int {
	_, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return 8888
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 8888
	}
	return port
}

package util

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"papertrade/conf"
)

var auditLogger *zap.Logger

// InitAuditLogger 初始化账本审计日志：结构化 JSON，写入滚动文件。
// 每笔成交一条记录，滚动参数走 hertz 日志配置。
func InitAuditLogger() *zap.Logger {
	hc := conf.GetConf().Hertz
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   hc.LogFileName,
		MaxSize:    hc.LogMaxSize,
		MaxBackups: hc.LogMaxBackups,
		MaxAge:     hc.LogMaxAge,
	})

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), sink, zap.InfoLevel)

	auditLogger = zap.New(core)
	return auditLogger
}

// AuditLogger 返回审计日志实例，未初始化时退化为 Nop，便于单测
func AuditLogger() *zap.Logger {
	if auditLogger == nil {
		return zap.NewNop()
	}
	return auditLogger
}

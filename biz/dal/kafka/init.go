package kafka

import (
	"sync"

	"github.com/segmentio/kafka-go"

	"papertrade/conf"
)

var (
	writers sync.Map // map[string]*kafka.Writer
)

// GetWriter 获取指定 topic 的 kafka.Writer，自动复用
func GetWriter(topic string) *kafka.Writer {
	val, ok := writers.Load(topic)
	if ok {
		return val.(*kafka.Writer)
	}
	kafkaConf := conf.GetConf().Kafka
	brokers := kafkaConf.Brokers
	if len(brokers) == 0 {
		panic("Kafka brokers not configured")
	}
	writer := &kafka.Writer{
		Addr:  kafka.TCP(brokers...),
		Topic: topic,
		Async: true,
	}
	writers.Store(topic, writer)
	return writer
}

// Init 预初始化成交事件 topic 的 writer
func Init() {
	topic := conf.GetConf().Kafka.FillTopic
	if topic != "" {
		GetWriter(topic)
	}
}

// Close 关闭所有 writer
func Close() {
	writers.Range(func(key, val any) bool {
		_ = val.(*kafka.Writer).Close()
		writers.Delete(key)
		return true
	})
}

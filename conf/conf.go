package conf

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/kr/pretty"
	"gopkg.in/validator.v2"
	"gopkg.in/yaml.v2"
)

var (
	conf *Config
	once sync.Once
)

type Config struct {
	Env        string
	Hertz      Hertz      `yaml:"hertz"`
	Postgres   Postgres   `yaml:"postgres"`
	Redis      Redis      `yaml:"redis"`
	Kafka      Kafka      `yaml:"kafka"`
	Registry   Registry   `yaml:"registry"`
	MarketData MarketData `yaml:"market_data"`
	Trading    Trading    `yaml:"trading"`
}

type Postgres struct {
	DSN string `yaml:"dsn" validate:"nonzero"`
}

type Redis struct {
	Address  string `yaml:"address" validate:"nonzero"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Kafka struct {
	Brokers   []string `yaml:"brokers"`
	FillTopic string   `yaml:"fill_topic"`
}

type Registry struct {
	RegistryAddress []string `yaml:"registry_address"`
	ServiceName     string   `yaml:"service_name"`
	NodeID          string   `yaml:"node_id"`
}

// MarketData points at the external quote provider.
type MarketData struct {
	BaseURL       string `yaml:"base_url" validate:"nonzero"`
	APIKey        string `yaml:"api_key"`
	TimeoutSec    int    `yaml:"timeout_sec"`
	QuoteCacheTTL int    `yaml:"quote_cache_ttl"` // seconds
}

type Trading struct {
	StartingBalance  float64 `yaml:"starting_balance"`
	SnapshotInterval int     `yaml:"snapshot_interval"` // minutes, 0 disables the task
}

type Hertz struct {
	Service         string `yaml:"service"`
	Address         string `yaml:"address"`
	EnablePprof     bool   `yaml:"enable_pprof"`
	EnableGzip      bool   `yaml:"enable_gzip"`
	EnableAccessLog bool   `yaml:"enable_access_log"`
	LogLevel        string `yaml:"log_level"`
	LogFileName     string `yaml:"log_file_name"`
	LogMaxSize      int    `yaml:"log_max_size"`
	LogMaxBackups   int    `yaml:"log_max_backups"`
	LogMaxAge       int    `yaml:"log_max_age"`
}

// GetConf gets configuration instance
func GetConf() *Config {
	once.Do(initConf)
	return conf
}

func initConf() {
	prefix := "conf"
	confFileRelPath := filepath.Join(prefix, filepath.Join(GetEnv(), "conf.yaml"))
	content, err := os.ReadFile(confFileRelPath)
	if err != nil {
		panic(err)
	}

	conf = new(Config)
	err = yaml.Unmarshal(content, conf)
	if err != nil {
		hlog.Error("parse yaml error - %v", err)
		panic(err)
	}
	if err := validator.Validate(conf); err != nil {
		hlog.Error("validate config error - %v", err)
		panic(err)
	}

	conf.Env = GetEnv()

	if conf.Trading.StartingBalance == 0 {
		conf.Trading.StartingBalance = 100000.0
	}
	if conf.MarketData.QuoteCacheTTL == 0 {
		conf.MarketData.QuoteCacheTTL = 300
	}
	if conf.MarketData.TimeoutSec == 0 {
		conf.MarketData.TimeoutSec = 5
	}

	pretty.Printf("%+v\n", conf)
}

func GetEnv() string {
	e := os.Getenv("GO_ENV")
	if len(e) == 0 {
		return "test"
	}
	return e
}

func LogLevel() hlog.Level {
	level := GetConf().Hertz.LogLevel
	switch level {
	case "trace":
		return hlog.LevelTrace
	case "debug":
		return hlog.LevelDebug
	case "info":
		return hlog.LevelInfo
	case "notice":
		return hlog.LevelNotice
	case "warn":
		return hlog.LevelWarn
	case "error":
		return hlog.LevelError
	case "fatal":
		return hlog.LevelFatal
	default:
		return hlog.LevelInfo
	}
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"quant-backtest-go/infrastructure/logger"
)

// AppConfig holds the main runtime configuration for a backtest run.
type AppConfig struct {
	Env     string  `yaml:"env"`
	Market  string  `yaml:"market"`  // 全局市场标识
	Cash    float64 `yaml:"cash"`    // 每条通道初始资金
	Workers int     `yaml:"workers"` // 并行通道数，0表示按CPU数

	Risk    RiskConfig              `yaml:"risk"`
	Symbols map[string]SymbolConfig `yaml:"symbols"`
	Units   UnitsConfig             `yaml:"units"`
	Store   StoreConfig             `yaml:"store"`
	Logger  logger.Config           `yaml:"logger"`

	MetricsAddr string `yaml:"metricsAddr"` // 为空则不启动指标服务
}

// RiskConfig 全局风险参数缺省，可被因子覆盖。
type RiskConfig struct {
	PosMax      float64 `yaml:"posMax"`
	DepositRate float64 `yaml:"depositRate"`
}

// SymbolConfig 保存单个symbol的数据来源与市场覆盖。
type SymbolConfig struct {
	Market string `yaml:"market"` // 覆盖全局市场，可为空
	Data   string `yaml:"data"`   // CSV行情文件路径
}

// UnitsConfig 按市场的最小交易单位表（港股每手、期货最小单位）。
type UnitsConfig struct {
	HK        map[string]float64 `yaml:"hk"`
	FuturesCN map[string]float64 `yaml:"futuresCN"`
	FuturesGB map[string]float64 `yaml:"futuresGB"`
}

type StoreConfig struct {
	Path string `yaml:"path"` // SQLite文件路径，为空则不落库
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides selected fields from
// env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("QB_MARKET"); v != "" {
		cfg.Market = v
	}
	if v := os.Getenv("QB_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	return cfg, Validate(cfg)
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Risk.PosMax == 0 {
		cfg.Risk.PosMax = 0.75
	}
	if cfg.Risk.DepositRate == 0 {
		cfg.Risk.DepositRate = 1.0
	}
	if cfg.Logger.Level == "" {
		cfg.Logger = logger.DefaultConfig()
	}
}

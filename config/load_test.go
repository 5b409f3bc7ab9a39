package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
env: test
market: us
cash: 100000
workers: 4
risk:
  posMax: 0.5
  depositRate: 1.0
symbols:
  usAAPL:
    data: data/aapl.csv
  hk00700:
    market: hk
    data: data/tencent.csv
units:
  hk:
    hk00700: 500
store:
  path: out/orders.db
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if cfg.Market != "us" || cfg.Cash != 100000 || cfg.Workers != 4 {
		t.Fatalf("got %+v", cfg)
	}
	if cfg.Risk.PosMax != 0.5 {
		t.Fatalf("got %+v", cfg.Risk)
	}
	if cfg.Symbols["hk00700"].Market != "hk" {
		t.Fatalf("got %+v", cfg.Symbols)
	}
	if cfg.Units.HK["hk00700"] != 500 {
		t.Fatalf("got %+v", cfg.Units)
	}
	if cfg.Logger.Level != "info" {
		t.Fatalf("logger defaults not applied: %+v", cfg.Logger)
	}
}

func TestLoadDefaultsRisk(t *testing.T) {
	body := `
env: test
market: us
cash: 1000
symbols:
  usAAPL:
    data: a.csv
`
	cfg, err := Load(writeConfig(t, body))
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if cfg.Risk.PosMax != 0.75 || cfg.Risk.DepositRate != 1.0 {
		t.Fatalf("got %+v", cfg.Risk)
	}
}

func TestValidateErrors(t *testing.T) {
	base := func() AppConfig {
		return AppConfig{
			Env:    "test",
			Market: "us",
			Cash:   1000,
			Risk:   RiskConfig{PosMax: 0.75, DepositRate: 1},
			Symbols: map[string]SymbolConfig{
				"usAAPL": {Data: "a.csv"},
			},
		}
	}

	if err := Validate(base()); err != nil {
		t.Fatalf("unexpected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"missing env", func(c *AppConfig) { c.Env = "" }},
		{"missing market", func(c *AppConfig) { c.Market = "" }},
		{"unknown market", func(c *AppConfig) { c.Market = "MARS_COLONY" }},
		{"no cash", func(c *AppConfig) { c.Cash = 0 }},
		{"bad posMax", func(c *AppConfig) { c.Risk.PosMax = 1.5 }},
		{"bad deposit", func(c *AppConfig) { c.Risk.DepositRate = 0 }},
		{"no symbols", func(c *AppConfig) { c.Symbols = nil }},
		{"symbol without data", func(c *AppConfig) { c.Symbols["usAAPL"] = SymbolConfig{} }},
		{"symbol unknown market", func(c *AppConfig) { c.Symbols["usAAPL"] = SymbolConfig{Market: "x", Data: "a.csv"} }},
		{"bad hk unit", func(c *AppConfig) { c.Units.HK = map[string]float64{"hk1": 0} }},
	}
	for _, tc := range cases {
		cfg := base()
		tc.mutate(&cfg)
		if err := Validate(cfg); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("QB_STORE_PATH", "override.db")
	cfg, err := LoadWithEnvOverrides(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if cfg.Store.Path != "override.db" {
		t.Fatalf("got %q", cfg.Store.Path)
	}
}

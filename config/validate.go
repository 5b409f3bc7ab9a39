package config

import (
	"errors"
	"fmt"

	"quant-backtest-go/market"
)

// Validate ensures required fields are present and markets are known.
// An unknown market here is the same configuration bug the rounding
// policy would hit mid-sweep; failing at load time is strictly better.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if cfg.Market == "" {
		return errors.New("market is required")
	}
	if !market.Known(market.Market(cfg.Market)) {
		return fmt.Errorf("unknown market %q", cfg.Market)
	}
	if cfg.Cash <= 0 {
		return errors.New("cash must be > 0")
	}
	if cfg.Workers < 0 {
		return errors.New("workers must be >= 0")
	}
	if cfg.Risk.PosMax <= 0 || cfg.Risk.PosMax > 1 {
		return errors.New("risk.posMax must be in (0, 1]")
	}
	if cfg.Risk.DepositRate <= 0 {
		return errors.New("risk.depositRate must be > 0")
	}
	if len(cfg.Symbols) == 0 {
		return errors.New("symbols config is required")
	}
	for sym, sc := range cfg.Symbols {
		if sc.Data == "" {
			return fmt.Errorf("symbol %s data path is required", sym)
		}
		if sc.Market != "" && !market.Known(market.Market(sc.Market)) {
			return fmt.Errorf("symbol %s unknown market %q", sym, sc.Market)
		}
	}
	for sym, u := range cfg.Units.HK {
		if u <= 0 {
			return fmt.Errorf("units.hk.%s must be > 0", sym)
		}
	}
	for sym, u := range cfg.Units.FuturesCN {
		if u <= 0 {
			return fmt.Errorf("units.futuresCN.%s must be > 0", sym)
		}
	}
	for sym, u := range cfg.Units.FuturesGB {
		if u <= 0 {
			return fmt.Errorf("units.futuresGB.%s must be > 0", sym)
		}
	}
	return nil
}

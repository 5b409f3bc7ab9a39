// Package engine orchestrates buy and sell evaluation over bar series:
// whether a trade fills, at what price and quantity, and how it exits.
package engine

import (
	"quant-backtest-go/factor"
	"quant-backtest-go/infrastructure/logger"
	"quant-backtest-go/market"
	"quant-backtest-go/metrics"
	"quant-backtest-go/order"
	"quant-backtest-go/position"
	"quant-backtest-go/slippage"
)

// Config threads the run-level settings through the engine. It replaces
// the ambient globals of the legacy stack: the market target and risk
// defaults are explicit fields, a per-symbol override is explicit data.
type Config struct {
	Market        market.Market                // 全局市场
	SymbolMarkets map[string]market.Market     // symbol级市场覆盖
	Rounder       market.Rounder
	Risk          position.Params // 因子未指定时的风险参数缺省
}

// MarketFor resolves the market for a symbol, symbol override first.
func (c Config) MarketFor(symbol string) market.Market {
	if m, ok := c.SymbolMarkets[symbol]; ok {
		return m
	}
	return c.Market
}

// Fulfiller 订单成交引擎。
//
// All vetoes (slippage refusal, sizer veto, below-minimum lot, sell
// halt) are expected per-day control flow: they leave the record
// untouched and are reported only through debug logs and counters. The
// single fatal condition is an unrecognized market, which propagates.
type Fulfiller struct {
	cfg Config
	log *logger.Logger
}

// NewFulfiller creates the engine. A nil logger falls back to a no-op.
func NewFulfiller(cfg Config, log *logger.Logger) *Fulfiller {
	if log == nil {
		log = logger.Nop()
	}
	return &Fulfiller{cfg: cfg, log: log}
}

// FitBuyOrder evaluates the entry for a signal at day index i. The
// realization bar is i+1: signals always trade one bar after the signal
// bar. On success every buy-side field is written together and the
// record transitions to open; on any veto the record stays empty.
func (f *Fulfiller) FitBuyOrder(rec *order.Record, series *market.Series, i int, buyer factor.Buyer, cash float64) error {
	if rec.Filled {
		return nil
	}
	bar, ok := series.Next(i)
	if !ok {
		// 历史用尽，无法成交，属正常终止
		return nil
	}

	price, ok := buyer.Slippage().Decide(bar, buyer.Name(), slippage.Buy)
	if !ok {
		f.veto(metrics.VetoSlippage, series.Symbol, bar.Date)
		return nil
	}

	risk := buyer.Risk()
	if risk.PosMax <= 0 {
		risk.PosMax = f.cfg.Risk.PosMax
	}
	if risk.DepositRate <= 0 {
		risk.DepositRate = f.cfg.Risk.DepositRate
	}
	sizer := buyer.Sizer()
	qty, ok := sizer.Size(position.Context{
		Bar:        bar,
		History:    series.Window(i),
		FactorName: buyer.Name(),
		Symbol:     series.Symbol,
		Price:      price,
		Cash:       cash,
		Risk:       risk,
	})
	if !ok {
		f.veto(metrics.VetoSizer, series.Symbol, bar.Date)
		return nil
	}

	mkt := f.cfg.MarketFor(series.Symbol)
	rounded, minUnit, err := f.cfg.Rounder.RoundToLot(mkt, qty, series.Symbol)
	if err != nil {
		// 市场配置错误是致命的：整个symbol的定价都会错，必须中止回测
		return err
	}
	if rounded <= 0 || rounded < minUnit {
		f.veto(metrics.VetoMinUnit, series.Symbol, bar.Date)
		return nil
	}

	rec.FillBuy(order.BuyFill{
		Symbol:      series.Symbol,
		Day:         bar.Date,
		Factor:      buyer.Name(),
		FactorClass: buyer.Class(),
		Price:       price,
		Qty:         rounded,
		Sizer:       sizer.Name(),
		Direction:   buyer.Direction(),
	})
	metrics.OrdersFilled.Inc()
	f.log.LogOrder("buy_fill", series.Symbol, map[string]interface{}{
		"day": bar.Date, "price": price, "qty": rounded, "factor": buyer.Name(),
	})
	return nil
}

// FitSellOrder evaluates the exit for an order at day index i. Closed
// orders short-circuit before any work; a sell-side halt leaves the
// order open for the next day.
func (f *Fulfiller) FitSellOrder(rec *order.Record, series *market.Series, i int, seller factor.Seller) {
	if !rec.Open() {
		return
	}
	if !seller.ShouldSell(rec, series, i) {
		return
	}
	bar, ok := series.Next(i)
	if !ok {
		return
	}
	price, ok := seller.Slippage().Decide(bar, seller.Name(), slippage.Sell)
	if !ok {
		// 例如跌停无法卖出，明日重试
		f.veto(metrics.VetoSellHalt, series.Symbol, bar.Date)
		return
	}
	rec.FillSell(bar.Date, price, seller.Reason())
	metrics.OrdersClosed.WithLabelValues(rec.SellState.String()).Inc()
	f.log.LogOrder("sell_fill", series.Symbol, map[string]interface{}{
		"day": bar.Date, "price": price, "result": rec.SellState.String(), "keep_days": rec.KeepDays,
	})
}

func (f *Fulfiller) veto(reason, symbol string, day int) {
	metrics.Vetoes.WithLabelValues(reason).Inc()
	f.log.LogVeto(reason, symbol, day)
}

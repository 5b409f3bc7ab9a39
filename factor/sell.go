package factor

import (
	"fmt"

	"github.com/markcheno/go-talib"

	"quant-backtest-go/market"
	"quant-backtest-go/order"
	"quant-backtest-go/slippage"
)

// StopSeller exits on a fixed stop-loss or take-profit level measured in
// the order's expected direction.
type StopSeller struct {
	Slip       slippage.Decider
	StopLoss   float64 // 比例，0.05即5%止损
	TakeProfit float64
}

// Name implements Seller.
func (s *StopSeller) Name() string {
	return fmt.Sprintf("stop_%.2f_%.2f", s.stop(), s.take())
}

// Reason implements Seller.
func (*StopSeller) Reason() string { return "stop" }

// Slippage implements Seller.
func (s *StopSeller) Slippage() slippage.Decider {
	if s.Slip == nil {
		return slippage.OpenFill{}
	}
	return s.Slip
}

func (s *StopSeller) stop() float64 {
	if s.StopLoss <= 0 {
		return 0.05
	}
	return s.StopLoss
}

func (s *StopSeller) take() float64 {
	if s.TakeProfit <= 0 {
		return 0.12
	}
	return s.TakeProfit
}

// ShouldSell implements Seller. It records the evaluated profit ratio
// and holding days into the order's feature bag before answering.
func (s *StopSeller) ShouldSell(rec *order.Record, series *market.Series, i int) bool {
	bar, ok := series.At(i)
	if !ok || rec.BuyPrice <= 0 {
		return false
	}
	// 方向化收益率：put单下跌为正
	profit := (bar.Close - rec.BuyPrice) / rec.BuyPrice * rec.ExpectDirection
	rec.SetFeature("profit_pct", profit)
	rec.SetFeature("keep_days", float64(rec.KeepDays))
	return profit <= -s.stop() || profit >= s.take()
}

// AtrTrailSeller exits when the close falls more than Mult ATRs below
// the highest close reached since entry (call direction; mirrored for
// put orders).
type AtrTrailSeller struct {
	Slip   slippage.Decider
	Period int
	Mult   float64
}

// Name implements Seller.
func (a *AtrTrailSeller) Name() string {
	return fmt.Sprintf("atr_trail_%d_%.1f", a.period(), a.mult())
}

// Reason implements Seller.
func (*AtrTrailSeller) Reason() string { return "atr_trail" }

// Slippage implements Seller.
func (a *AtrTrailSeller) Slippage() slippage.Decider {
	if a.Slip == nil {
		return slippage.OpenFill{}
	}
	return a.Slip
}

func (a *AtrTrailSeller) period() int {
	if a.Period <= 0 {
		return 14
	}
	return a.Period
}

func (a *AtrTrailSeller) mult() float64 {
	if a.Mult <= 0 {
		return 3.0
	}
	return a.Mult
}

// ShouldSell implements Seller.
func (a *AtrTrailSeller) ShouldSell(rec *order.Record, series *market.Series, i int) bool {
	period := a.period()
	if i <= period {
		return false
	}
	bar, ok := series.At(i)
	if !ok {
		return false
	}
	window := series.Window(i)
	atrs := talib.Atr(market.Highs(window), market.Lows(window), market.Closes(window), period)
	atr := atrs[len(atrs)-1]
	if atr <= 0 {
		return false
	}
	rec.SetFeature("atr", atr)

	// 自买入日起的方向化最优收盘
	start := i - rec.KeepDays
	if start < 0 {
		start = 0
	}
	best := series.Bars[start].Close
	for _, b := range series.Bars[start : i+1] {
		if (b.Close-best)*rec.ExpectDirection > 0 {
			best = b.Close
		}
	}
	drop := (best - bar.Close) * rec.ExpectDirection
	return drop > a.mult()*atr
}

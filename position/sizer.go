// Package position computes how many units to buy for a candidate fill.
package position

import (
	"github.com/markcheno/go-talib"

	"quant-backtest-go/market"
)

// 默认单笔最大仓位75%资金，保证金比例1即无杠杆。
const (
	DefaultPosMax      = 0.75
	DefaultDepositRate = 1.0
)

// Params are the per-factor risk parameters. They replace the legacy
// process-wide g_pos_max/g_deposit_rate globals: defaults live here and
// a runtime override is an explicit field, never ambient state.
type Params struct {
	PosMax      float64 // 单笔最大占可用资金比例
	DepositRate float64 // 保证金比例，<1表示使用杠杆
}

// WithDefaults fills unset fields with the package defaults.
func (p Params) WithDefaults() Params {
	if p.PosMax <= 0 {
		p.PosMax = DefaultPosMax
	}
	if p.DepositRate <= 0 {
		p.DepositRate = DefaultDepositRate
	}
	return p
}

// Context carries everything a sizer may inspect for one candidate fill.
type Context struct {
	Bar        market.Bar   // 执行日bar
	History    []market.Bar // 信号日及之前的历史，供ATR类仓位管理使用
	FactorName string
	Symbol     string
	Price      float64 // 滑点决策后的买入价
	Cash       float64 // 账户可用资金，只读
	Risk       Params
}

// budget is the cash a single position may consume, margin-adjusted.
// Operand order is fixed for reproducibility: cash*posMax first, then
// the deposit division.
func (c Context) budget() float64 {
	r := c.Risk.WithDefaults()
	return c.Cash * r.PosMax / r.DepositRate
}

// Sizer turns a fill price plus risk parameters into a raw quantity.
// ok=false vetoes the trade (insufficient cash, unusable history); a
// vetoed size must never become an order. Sizers are deterministic.
type Sizer interface {
	Size(ctx Context) (qty float64, ok bool)
	Name() string
}

// FractionSizer spends a fixed fraction of available cash, capped by the
// position budget.
type FractionSizer struct {
	Fraction float64
}

// Name implements Sizer.
func (FractionSizer) Name() string { return "FractionSizer" }

// Size implements Sizer.
func (s FractionSizer) Size(ctx Context) (float64, bool) {
	if ctx.Price <= 0 || ctx.Cash <= 0 {
		return 0, false
	}
	frac := s.Fraction
	if frac <= 0 {
		frac = 1.0
	}
	r := ctx.Risk.WithDefaults()
	spend := ctx.Cash * frac / r.DepositRate
	if budget := ctx.budget(); spend > budget {
		spend = budget
	}
	return spend / ctx.Price, true
}

// FixedUnitSizer always requests the same quantity, vetoing when the
// position budget cannot cover it.
type FixedUnitSizer struct {
	Units float64
}

// Name implements Sizer.
func (FixedUnitSizer) Name() string { return "FixedUnitSizer" }

// Size implements Sizer.
func (s FixedUnitSizer) Size(ctx Context) (float64, bool) {
	if s.Units <= 0 || ctx.Price <= 0 {
		return 0, false
	}
	if s.Units*ctx.Price > ctx.budget() {
		return 0, false
	}
	return s.Units, true
}

// AtrSizer risks a fixed fraction of cash per ATR of adverse movement,
// capped by the position budget. It needs Period+1 bars of history.
type AtrSizer struct {
	Period       int
	RiskFraction float64 // 每笔愿意承担的资金回撤比例
}

// Name implements Sizer.
func (AtrSizer) Name() string { return "AtrSizer" }

// Size implements Sizer.
func (s AtrSizer) Size(ctx Context) (float64, bool) {
	period := s.Period
	if period <= 0 {
		period = 21
	}
	risk := s.RiskFraction
	if risk <= 0 {
		risk = 0.01
	}
	if ctx.Price <= 0 || ctx.Cash <= 0 || len(ctx.History) <= period {
		return 0, false
	}
	atrs := talib.Atr(
		market.Highs(ctx.History),
		market.Lows(ctx.History),
		market.Closes(ctx.History),
		period,
	)
	atr := atrs[len(atrs)-1]
	if atr <= 0 {
		return 0, false
	}
	qty := ctx.Cash * risk / atr
	if maxQty := ctx.budget() / ctx.Price; qty > maxQty {
		qty = maxQty
	}
	return qty, true
}

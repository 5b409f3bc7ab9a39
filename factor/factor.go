// Package factor defines the buy-side and sell-side trading rules the
// fulfillment engine consults, plus a set of classic implementations.
package factor

import (
	"quant-backtest-go/market"
	"quant-backtest-go/order"
	"quant-backtest-go/position"
	"quant-backtest-go/slippage"
)

// Buyer is the buy-side collaborator: a per-day entry predicate plus the
// strategy set needed to realize the trade once the predicate fires.
type Buyer interface {
	// FitDay reports whether the signal bar at day index i triggers an
	// entry. The trade itself executes on bar i+1.
	FitDay(series *market.Series, i int) bool
	// Name 含运行参数的唯一因子名
	Name() string
	// Class 因子类型名，不含参数
	Class() string
	Direction() order.Direction
	Slippage() slippage.Decider
	Sizer() position.Sizer
	Risk() position.Params
}

// Seller is the sell-side collaborator. ShouldSell may synthesize ML
// features into the record's feature bag as a side effect before
// answering; the engine never reads the bag.
type Seller interface {
	ShouldSell(rec *order.Record, series *market.Series, i int) bool
	Name() string
	Slippage() slippage.Decider
	// Reason 卖出原因附加描述，写入订单
	Reason() string
}

// Base carries the strategy wiring shared by the concrete buy factors.
type Base struct {
	Slip   slippage.Decider
	Pos    position.Sizer
	Dir    order.Direction
	Params position.Params
}

// Slippage returns the configured decider, defaulting to OpenFill.
func (b Base) Slippage() slippage.Decider {
	if b.Slip == nil {
		return slippage.OpenFill{}
	}
	return b.Slip
}

// Sizer returns the configured sizer, defaulting to a full-budget
// FractionSizer.
func (b Base) Sizer() position.Sizer {
	if b.Pos == nil {
		return position.FractionSizer{}
	}
	return b.Pos
}

// Direction returns the order's profit direction tag.
func (b Base) Direction() order.Direction { return b.Dir }

// Risk returns the per-factor risk parameters.
func (b Base) Risk() position.Params { return b.Params }

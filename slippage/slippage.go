// Package slippage decides the realistically achievable fill price for a
// single day's bar.
package slippage

import "quant-backtest-go/market"

// Side distinguishes entry and exit price decisions.
type Side uint8

const (
	Buy Side = iota
	Sell
)

// String returns the side name.
func (s Side) String() string {
	if s == Sell {
		return "sell"
	}
	return "buy"
}

// Decider 日内滑点决策。
//
// ok=false on the buy side means "do not buy today"; on the sell side it
// means the exit cannot execute (limit-locked bar and similar halts) and
// the order stays open for another attempt the next day. Deciders are
// pure functions of the bar and side.
type Decider interface {
	Decide(bar market.Bar, factorName string, side Side) (price float64, ok bool)
}

// OpenFill fills at the bar's open price.
type OpenFill struct{}

// Decide implements Decider.
func (OpenFill) Decide(bar market.Bar, _ string, _ Side) (float64, bool) {
	if bar.Open <= 0 {
		return 0, false
	}
	return bar.Open, true
}

// OpenSlip fills at the open shifted against the trade by a fixed number
// of basis points.
type OpenSlip struct {
	Bps float64
}

// Decide implements Decider.
func (o OpenSlip) Decide(bar market.Bar, _ string, side Side) (float64, bool) {
	if bar.Open <= 0 {
		return 0, false
	}
	slip := o.Bps / 10000.0
	if side == Buy {
		return bar.Open * (1 + slip), true
	}
	return bar.Open * (1 - slip), true
}

// MeanFill fills at the bar's high/low midpoint.
type MeanFill struct{}

// Decide implements Decider.
func (MeanFill) Decide(bar market.Bar, _ string, _ Side) (float64, bool) {
	price := (bar.High + bar.Low) / 2.0
	if price <= 0 {
		return 0, false
	}
	return price, true
}

// LimitGuard wraps another decider and refuses to trade one-price bars:
// a bar whose high equals its low is limit-locked all day, so a buy would
// chase a limit-up and a sell could not execute into a limit-down.
type LimitGuard struct {
	Inner Decider
}

// Decide implements Decider.
func (g LimitGuard) Decide(bar market.Bar, factorName string, side Side) (float64, bool) {
	if bar.High == bar.Low {
		return 0, false
	}
	if g.Inner == nil {
		return OpenFill{}.Decide(bar, factorName, side)
	}
	return g.Inner.Decide(bar, factorName, side)
}

package factor

import (
	"fmt"

	"github.com/markcheno/go-talib"

	"quant-backtest-go/market"
)

// Breakout buys when the close breaks above the highest high of the
// previous Window bars (the classic N-day breakout entry).
type Breakout struct {
	Base
	Window int
}

// Name implements Buyer.
func (b *Breakout) Name() string { return fmt.Sprintf("breakout_%d", b.window()) }

// Class implements Buyer.
func (*Breakout) Class() string { return "Breakout" }

func (b *Breakout) window() int {
	if b.Window <= 0 {
		return 20
	}
	return b.Window
}

// FitDay implements Buyer.
func (b *Breakout) FitDay(series *market.Series, i int) bool {
	w := b.window()
	if i < w {
		return false
	}
	bar, ok := series.At(i)
	if !ok {
		return false
	}
	high := series.Bars[i-w].High
	for _, prev := range series.Bars[i-w+1 : i] {
		if prev.High > high {
			high = prev.High
		}
	}
	return bar.Close > high
}

// MACross buys on the golden cross: the fast SMA closing above the slow
// SMA after being at or below it the day before.
type MACross struct {
	Base
	Fast int
	Slow int
}

// Name implements Buyer.
func (m *MACross) Name() string {
	fast, slow := m.periods()
	return fmt.Sprintf("ma_cross_%d_%d", fast, slow)
}

// Class implements Buyer.
func (*MACross) Class() string { return "MACross" }

func (m *MACross) periods() (int, int) {
	fast, slow := m.Fast, m.Slow
	if fast <= 0 {
		fast = 10
	}
	if slow <= fast {
		slow = fast * 3
	}
	return fast, slow
}

// FitDay implements Buyer.
func (m *MACross) FitDay(series *market.Series, i int) bool {
	fast, slow := m.periods()
	if i < slow {
		return false
	}
	closes := market.Closes(series.Window(i))
	fastMA := talib.Sma(closes, fast)
	slowMA := talib.Sma(closes, slow)
	n := len(closes) - 1
	return fastMA[n-1] <= slowMA[n-1] && fastMA[n] > slowMA[n]
}

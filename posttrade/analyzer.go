// Package posttrade summarizes the outcome of a backtest sweep.
package posttrade

import (
	"sort"

	"quant-backtest-go/order"
)

// Stats 回测结果统计
type Stats struct {
	Orders int // 全部成交订单
	Open   int // 扫描结束仍持有
	Closed int

	Wins    int
	Losses  int
	WinRate float64

	TotalPnL     float64
	GrossProfit  float64
	GrossLoss    float64
	ProfitFactor float64
	MaxDrawdown  float64 // 按平仓序列的累计盈亏最大回撤

	AvgKeepDays float64
}

// Analyze computes summary statistics over the sweep's order records.
// Open orders count toward Orders/Open but contribute no PnL. Closed
// orders are walked in sell-day order so the drawdown is well defined.
func Analyze(orders []*order.Record) Stats {
	var s Stats
	s.Orders = len(orders)

	closed := make([]*order.Record, 0, len(orders))
	for _, rec := range orders {
		if rec.Closed() {
			closed = append(closed, rec)
		} else if rec.Open() {
			s.Open++
		}
	}
	s.Closed = len(closed)
	if s.Closed == 0 {
		return s
	}

	sort.SliceStable(closed, func(i, j int) bool {
		return closed[i].SellDay < closed[j].SellDay
	})

	var cum, peak float64
	var keepDays int
	for _, rec := range closed {
		switch rec.SellState {
		case order.Win:
			s.Wins++
		case order.Loss:
			s.Losses++
		}

		pnl := rec.PnL()
		s.TotalPnL += pnl
		if pnl > 0 {
			s.GrossProfit += pnl
		} else {
			s.GrossLoss -= pnl
		}

		cum += pnl
		if cum > peak {
			peak = cum
		}
		if dd := peak - cum; dd > s.MaxDrawdown {
			s.MaxDrawdown = dd
		}

		keepDays += rec.KeepDays
	}

	s.WinRate = float64(s.Wins) / float64(s.Closed)
	if s.GrossLoss > 0 {
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	}
	s.AvgKeepDays = float64(keepDays) / float64(s.Closed)
	return s
}

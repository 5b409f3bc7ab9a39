package factor

import (
	"testing"

	"quant-backtest-go/market"
	"quant-backtest-go/order"
)

func flatThenBreak(n int, breakAt int) *market.Series {
	s := &market.Series{Symbol: "usAAPL"}
	for i := 0; i < n; i++ {
		price := 100.0
		if i == breakAt {
			price = 120.0
		}
		s.Bars = append(s.Bars, market.Bar{
			Date: 20260101 + i, Open: price, High: price + 1, Low: price - 1, Close: price, Volume: 1000,
		})
	}
	return s
}

func TestBreakoutFitDay(t *testing.T) {
	b := &Breakout{Window: 5}
	s := flatThenBreak(10, 8)

	if b.FitDay(s, 3) {
		t.Fatal("not enough history yet")
	}
	if b.FitDay(s, 7) {
		t.Fatal("no breakout on a flat day")
	}
	if !b.FitDay(s, 8) {
		t.Fatal("expected breakout signal")
	}
	if b.Name() != "breakout_5" || b.Class() != "Breakout" {
		t.Fatalf("got %s/%s", b.Name(), b.Class())
	}
}

func TestMACrossFitDay(t *testing.T) {
	m := &MACross{Fast: 2, Slow: 4}
	s := &market.Series{Symbol: "usAAPL"}
	// 下跌后急涨，制造快线上穿慢线
	prices := []float64{110, 108, 106, 104, 102, 100, 99, 98, 110, 120}
	for i, p := range prices {
		s.Bars = append(s.Bars, market.Bar{Date: 20260101 + i, Open: p, High: p + 1, Low: p - 1, Close: p})
	}

	crossed := false
	for i := range prices {
		if m.FitDay(s, i) {
			crossed = true
		}
	}
	if !crossed {
		t.Fatal("expected a golden cross somewhere in the rally")
	}
	if m.FitDay(s, 2) {
		t.Fatal("short history must not signal")
	}
}

func TestStopSeller(t *testing.T) {
	s := &StopSeller{StopLoss: 0.05, TakeProfit: 0.10}
	series := flatThenBreak(10, 9)

	rec := &order.Record{}
	rec.FillBuy(order.BuyFill{Symbol: "usAAPL", Day: 20260101, Price: 100, Qty: 10, Direction: order.Call})

	if s.ShouldSell(rec, series, 5) {
		t.Fatal("flat price must not exit")
	}
	// day 9 close 120: +20% >= take profit
	if !s.ShouldSell(rec, series, 9) {
		t.Fatal("expected take-profit exit")
	}
	if rec.Features["profit_pct"] != 0.2 {
		t.Fatalf("feature bag: %v", rec.Features)
	}
	if _, ok := rec.Features["keep_days"]; !ok {
		t.Fatal("expected keep_days feature")
	}
}

func TestStopSellerPutDirection(t *testing.T) {
	s := &StopSeller{StopLoss: 0.05, TakeProfit: 0.10}
	series := flatThenBreak(10, 9)

	rec := &order.Record{}
	rec.FillBuy(order.BuyFill{Symbol: "usAAPL", Day: 20260101, Price: 100, Qty: 10, Direction: order.Put})

	// put单在价格上涨20%时是-20%收益，触发止损
	if !s.ShouldSell(rec, series, 9) {
		t.Fatal("expected stop-loss exit for put order")
	}
	if rec.Features["profit_pct"] != -0.2 {
		t.Fatalf("feature bag: %v", rec.Features)
	}
}

func TestAtrTrailSeller(t *testing.T) {
	a := &AtrTrailSeller{Period: 3, Mult: 2}
	s := &market.Series{Symbol: "usAAPL"}
	prices := []float64{100, 101, 102, 103, 104, 105, 106, 107, 96}
	for i, p := range prices {
		s.Bars = append(s.Bars, market.Bar{Date: 20260101 + i, Open: p, High: p + 1, Low: p - 1, Close: p})
	}

	rec := &order.Record{}
	rec.FillBuy(order.BuyFill{Symbol: "usAAPL", Day: 20260101, Price: 100, Qty: 10, Direction: order.Call})
	rec.KeepDays = 8

	if a.ShouldSell(rec, s, 7) {
		t.Fatal("uptrend must not exit")
	}
	if !a.ShouldSell(rec, s, 8) {
		t.Fatal("expected trailing stop after the drop")
	}
	if _, ok := rec.Features["atr"]; !ok {
		t.Fatal("expected atr feature")
	}
}

func TestBaseDefaults(t *testing.T) {
	var b Base
	if b.Slippage() == nil || b.Sizer() == nil {
		t.Fatal("base must provide defaults")
	}
	if b.Direction() != order.Call {
		t.Fatal("default direction is call")
	}
}

package position

import (
	"testing"

	"quant-backtest-go/market"
)

func ctxWith(price, cash float64) Context {
	return Context{
		Bar:        market.Bar{Date: 20260105, Open: price, High: price, Low: price, Close: price},
		FactorName: "f",
		Symbol:     "usAAPL",
		Price:      price,
		Cash:       cash,
	}
}

func TestParamsWithDefaults(t *testing.T) {
	p := Params{}.WithDefaults()
	if p.PosMax != DefaultPosMax || p.DepositRate != DefaultDepositRate {
		t.Fatalf("got %+v", p)
	}
	p = Params{PosMax: 0.5, DepositRate: 0.5}.WithDefaults()
	if p.PosMax != 0.5 || p.DepositRate != 0.5 {
		t.Fatalf("override lost: %+v", p)
	}
}

func TestFractionSizer(t *testing.T) {
	qty, ok := FractionSizer{Fraction: 0.1}.Size(ctxWith(100, 100000))
	if !ok || qty != 100 {
		t.Fatalf("got %v ok=%v", qty, ok)
	}

	// 无参数时花满仓位预算：cash*posMax/price
	qty, ok = FractionSizer{}.Size(ctxWith(100, 100000))
	if !ok || qty != 750 {
		t.Fatalf("got %v ok=%v", qty, ok)
	}

	// fraction超出posMax时被预算封顶
	qty, ok = FractionSizer{Fraction: 0.9}.Size(ctxWith(100, 100000))
	if !ok || qty != 750 {
		t.Fatalf("got %v ok=%v", qty, ok)
	}
}

func TestFractionSizerMargin(t *testing.T) {
	ctx := ctxWith(100, 100000)
	ctx.Risk = Params{PosMax: 0.75, DepositRate: 0.5}
	// 保证金减半，购买力翻倍
	qty, ok := FractionSizer{Fraction: 0.1}.Size(ctx)
	if !ok || qty != 200 {
		t.Fatalf("got %v ok=%v", qty, ok)
	}
}

func TestFractionSizerVeto(t *testing.T) {
	if _, ok := (FractionSizer{Fraction: 0.1}).Size(ctxWith(100, 0)); ok {
		t.Fatal("no cash must veto")
	}
	if _, ok := (FractionSizer{Fraction: 0.1}).Size(ctxWith(0, 100000)); ok {
		t.Fatal("zero price must veto")
	}
}

func TestFixedUnitSizer(t *testing.T) {
	qty, ok := FixedUnitSizer{Units: 300}.Size(ctxWith(100, 100000))
	if !ok || qty != 300 {
		t.Fatalf("got %v ok=%v", qty, ok)
	}
	// 预算不足：100000*0.75 < 800*100
	if _, ok := (FixedUnitSizer{Units: 800}).Size(ctxWith(100, 100000)); ok {
		t.Fatal("expected budget veto")
	}
	if _, ok := (FixedUnitSizer{}).Size(ctxWith(100, 100000)); ok {
		t.Fatal("zero units must veto")
	}
}

func TestAtrSizerNeedsHistory(t *testing.T) {
	ctx := ctxWith(100, 100000)
	ctx.History = []market.Bar{{High: 101, Low: 99, Close: 100}}
	if _, ok := (AtrSizer{Period: 5}).Size(ctx); ok {
		t.Fatal("short history must veto")
	}
}

func TestAtrSizer(t *testing.T) {
	ctx := ctxWith(100, 100000)
	for i := 0; i < 30; i++ {
		// 恒定2元真实波幅
		ctx.History = append(ctx.History, market.Bar{High: 101, Low: 99, Close: 100})
	}
	qty, ok := AtrSizer{Period: 5, RiskFraction: 0.01}.Size(ctx)
	if !ok {
		t.Fatal("expected size")
	}
	// 100000*0.01/2 = 500，低于预算上限750
	if qty < 499.9 || qty > 500.1 {
		t.Fatalf("got %v", qty)
	}
}

func TestSizerNames(t *testing.T) {
	for _, s := range []Sizer{FractionSizer{}, FixedUnitSizer{}, AtrSizer{}} {
		if s.Name() == "" {
			t.Fatal("sizer must expose its class name")
		}
	}
}

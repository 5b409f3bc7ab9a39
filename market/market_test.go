package market

import (
	"errors"
	"testing"
)

func TestRoundToLotUS(t *testing.T) {
	r := Rounder{}
	rounded, minUnit, err := r.RoundToLot(US, 150.7, "AAPL")
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if rounded != 150 || minUnit != 1 {
		t.Fatalf("got rounded=%v minUnit=%v", rounded, minUnit)
	}
}

func TestRoundToLotCrypto(t *testing.T) {
	r := Rounder{}
	rounded, minUnit, err := r.RoundToLot(TC, 1.2345, "btc")
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	// 保留三位小数截断，而不是向lot取整
	if rounded != 1.234 {
		t.Fatalf("got rounded=%v", rounded)
	}
	if minUnit != 0.01 {
		t.Fatalf("got minUnit=%v", minUnit)
	}
}

func TestRoundToLotCN(t *testing.T) {
	r := Rounder{}
	rounded, minUnit, err := r.RoundToLot(CN, 250, "sz000001")
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if rounded != 200 || minUnit != 100 {
		t.Fatalf("got rounded=%v minUnit=%v", rounded, minUnit)
	}
}

func TestRoundToLotCNBelowMinimum(t *testing.T) {
	r := Rounder{}
	rounded, minUnit, err := r.RoundToLot(CN, 50, "sz000001")
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if rounded != 0 {
		t.Fatalf("got rounded=%v", rounded)
	}
	if rounded >= minUnit {
		t.Fatalf("expected below-minimum result, rounded=%v minUnit=%v", rounded, minUnit)
	}
}

func TestRoundToLotOptionsUS(t *testing.T) {
	r := Rounder{}
	rounded, minUnit, err := r.RoundToLot(OptionsUS, 350.9, "AAPL")
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if rounded != 300 || minUnit != 100 {
		t.Fatalf("got rounded=%v minUnit=%v", rounded, minUnit)
	}
}

func TestRoundToLotHKUnitLookup(t *testing.T) {
	r := Rounder{HKUnits: UnitTable{"hk00700": 500}}

	rounded, minUnit, err := r.RoundToLot(HK, 1234.5, "hk00700")
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if rounded != 1000 || minUnit != 500 {
		t.Fatalf("got rounded=%v minUnit=%v", rounded, minUnit)
	}

	// 未收录symbol：不成交，不报错
	rounded, minUnit, err = r.RoundToLot(HK, 1234.5, "hk99999")
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if rounded != 0 || minUnit != 0 {
		t.Fatalf("expected veto, got rounded=%v minUnit=%v", rounded, minUnit)
	}
}

func TestRoundToLotFuturesUnits(t *testing.T) {
	r := Rounder{
		FuturesCNUnits: UnitTable{"RB0": 10},
		FuturesGBUnits: UnitTable{"CL": 5},
	}
	rounded, minUnit, err := r.RoundToLot(FuturesCN, 37.6, "RB0")
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if rounded != 30 || minUnit != 10 {
		t.Fatalf("got rounded=%v minUnit=%v", rounded, minUnit)
	}
	rounded, minUnit, err = r.RoundToLot(FuturesGB, 12.2, "CL")
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if rounded != 10 || minUnit != 5 {
		t.Fatalf("got rounded=%v minUnit=%v", rounded, minUnit)
	}
}

func TestRoundToLotUnsupportedMarket(t *testing.T) {
	r := Rounder{}
	_, _, err := r.RoundToLot(Market("MARS_COLONY"), 100, "x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ume *UnsupportedMarketError
	if !errors.As(err, &ume) {
		t.Fatalf("expected UnsupportedMarketError, got %T", err)
	}
	if ume.Market != "MARS_COLONY" {
		t.Fatalf("error should carry offending market, got %q", ume.Market)
	}
}

func TestKnown(t *testing.T) {
	for _, m := range []Market{US, TC, CN, HK, FuturesCN, OptionsUS, FuturesGB} {
		if !Known(m) {
			t.Fatalf("%s should be known", m)
		}
	}
	if Known("nasdaq") {
		t.Fatal("nasdaq should be unknown")
	}
}

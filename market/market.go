package market

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Market 市场标识，决定最小交易单位与取整规则。
type Market string

const (
	// US 美股
	US Market = "us"
	// TC 币类市场
	TC Market = "tc"
	// CN A股
	CN Market = "cn"
	// HK 港股
	HK Market = "hk"
	// FuturesCN 国内期货
	FuturesCN Market = "futures_cn"
	// OptionsUS 美股期权
	OptionsUS Market = "options_us"
	// FuturesGB 国际期货
	FuturesGB Market = "futures_global"
)

// Known reports whether m belongs to the closed market set.
func Known(m Market) bool {
	switch m {
	case US, TC, CN, HK, FuturesCN, OptionsUS, FuturesGB:
		return true
	default:
		return false
	}
}

// UnsupportedMarketError signals a misconfigured run. It is the only
// fatal condition on the fulfillment path: every trade for the symbol
// would be mis-priced, so it must abort the sweep instead of being
// swallowed like a per-trade veto.
type UnsupportedMarketError struct {
	Market Market
}

func (e *UnsupportedMarketError) Error() string {
	return fmt.Sprintf("unsupported market %q", string(e.Market))
}

// UnitSource resolves symbol-specific minimum lot sizes for markets whose
// units are not fixed (HK equities, CN and global futures). A miss is a
// per-trade veto, not an error.
type UnitSource interface {
	MinUnit(symbol string) (float64, bool)
}

// UnitTable is a map-backed UnitSource, typically loaded from config.
type UnitTable map[string]float64

// MinUnit looks up the minimum lot for symbol.
func (t UnitTable) MinUnit(symbol string) (float64, bool) {
	u, ok := t[symbol]
	if !ok || u <= 0 {
		return 0, false
	}
	return u, true
}

// 币类市场保留三位小数，最小支持0.01个。
const (
	cryptoScale   = 3
	cryptoMinUnit = 0.01
)

// Rounder applies per-market lot rounding. The zero value handles the
// fixed-unit markets; lookup-backed markets need their UnitSource set.
type Rounder struct {
	HKUnits        UnitSource
	FuturesCNUnits UnitSource
	FuturesGBUnits UnitSource
}

// RoundToLot rounds a raw quantity down to the nearest tradeable lot for
// the given market and reports the market's minimum unit. A result below
// the minimum unit (including 0 from a unit-lookup miss) means the trade
// must not happen. An unknown market returns UnsupportedMarketError.
func (r Rounder) RoundToLot(mkt Market, raw float64, symbol string) (rounded, minUnit float64, err error) {
	switch mkt {
	case US:
		// 美股最小1股，向下取整
		return math.Floor(raw), 1, nil
	case TC:
		// 币类可买非整数个。decimal截断避免浮点尾数导致的进位
		rounded = decimal.NewFromFloat(raw).Truncate(cryptoScale).InexactFloat64()
		return rounded, cryptoMinUnit, nil
	case CN:
		// A股最小100股一手
		return lotAlign(raw, 100), 100, nil
	case OptionsUS:
		// 1 contract = 100股权利
		return lotAlign(raw, 100), 100, nil
	case HK:
		return lookupAlign(r.HKUnits, raw, symbol)
	case FuturesCN:
		return lookupAlign(r.FuturesCNUnits, raw, symbol)
	case FuturesGB:
		return lookupAlign(r.FuturesGBUnits, raw, symbol)
	default:
		return 0, 0, &UnsupportedMarketError{Market: mkt}
	}
}

// lotAlign floors raw to a whole number of shares, then aligns down to a
// whole number of lots: floor(raw) - floor(raw) mod unit. The operand
// order is fixed so results reproduce bit-for-bit.
func lotAlign(raw, unit float64) float64 {
	cnt := math.Floor(raw)
	return cnt - math.Mod(cnt, unit)
}

func lookupAlign(src UnitSource, raw float64, symbol string) (float64, float64, error) {
	if src == nil {
		return 0, 0, nil
	}
	unit, ok := src.MinUnit(symbol)
	if !ok {
		// symbol未收录：按无法成交处理
		return 0, 0, nil
	}
	return lotAlign(raw, unit), unit, nil
}

package order

import "fmt"

// SellState 订单卖出状态。
type SellState uint8

const (
	// Keep 持有中，等待卖出信号
	Keep SellState = iota
	// Win 盈利卖出，终态
	Win
	// Loss 亏损卖出，终态
	Loss
)

// String returns the lower-case state name.
func (s SellState) String() string {
	switch s {
	case Keep:
		return "keep"
	case Win:
		return "win"
	case Loss:
		return "loss"
	default:
		return "unknown"
	}
}

// Direction tags an order's profit direction. Call profits from price
// increase, Put from decline. It is a direction convention on the order,
// not a literal options contract.
type Direction uint8

const (
	Call Direction = iota
	Put
)

// String returns the legacy call/put tag.
func (d Direction) String() string {
	if d == Put {
		return "put"
	}
	return "call"
}

// Multiplier returns the expected direction as a factor: +1 for Call,
// -1 for Put.
func (d Direction) Multiplier() float64 {
	if d == Put {
		return -1.0
	}
	return 1.0
}

// Record is one attempted trade. A multi-factor sweep can hold millions
// of these, so it stays a flat fixed-field struct; the only map is the
// feature bag, nil until a sell factor populates it.
//
// Field writes are phased: the buy side is written together in one step
// by FillBuy, the sell side together by FillSell. A record that never
// fills keeps its zero values and is simply dropped by the caller.
type Record struct {
	Filled    bool
	SellState SellState

	// 买入信息，FillBuy一次性写入
	Symbol          string
	BuyDay          int
	BuyFactor       string // 含参数的唯一因子名
	BuyFactorClass  string // 因子类型名，不含参数
	BuyPrice        float64
	BuyQty          float64
	BuySizer        string
	Direction       Direction
	ExpectDirection float64

	// 卖出信息，FillSell一次性写入
	SellDay    int
	SellPrice  float64
	SellReason string

	// 交易日持有天数，由外层按日循环递增
	KeepDays int

	// 卖出因子合成的机器学习特征，仅透传，引擎不解读
	Features map[string]float64
}

// BuyFill carries the buy-side facts written in one atomic step.
type BuyFill struct {
	Symbol      string
	Day         int
	Factor      string
	FactorClass string
	Price       float64
	Qty         float64
	Sizer       string
	Direction   Direction
}

// FillBuy writes all buy-side fields together and opens the position.
// A record fills at most once; a second call is a no-op.
func (r *Record) FillBuy(f BuyFill) {
	if r.Filled {
		return
	}
	r.Symbol = f.Symbol
	r.BuyDay = f.Day
	r.BuyFactor = f.Factor
	r.BuyFactorClass = f.FactorClass
	r.BuyPrice = f.Price
	r.BuyQty = f.Qty
	r.BuySizer = f.Sizer
	r.Direction = f.Direction
	r.ExpectDirection = f.Direction.Multiplier()
	r.SellState = Keep
	r.KeepDays = 0
	r.Filled = true
}

// Open reports whether the record holds a live position awaiting exit.
func (r *Record) Open() bool {
	return r.Filled && r.SellState == Keep
}

// Closed reports whether the record reached a terminal sell state.
func (r *Record) Closed() bool {
	return r.Filled && r.SellState != Keep
}

// FillSell writes the sell side and classifies the outcome. It returns
// false without touching any field unless the record is open; once
// classified the record is terminal and later calls are no-ops.
func (r *Record) FillSell(day int, price float64, reason string) bool {
	if !r.Open() {
		return false
	}
	r.SellDay = day
	r.SellPrice = price
	r.SellReason = reason
	r.SellState = r.classify(price)
	return true
}

// classify keeps the legacy rule verbatim, including the asymmetric flat
// exit: call counts sell == buy as loss, put counts it as win.
func (r *Record) classify(sellPrice float64) SellState {
	if r.Direction == Call {
		// call: win = sell_price > buy_price
		if sellPrice > r.BuyPrice {
			return Win
		}
		return Loss
	}
	// put: loss = sell_price > buy_price
	if sellPrice > r.BuyPrice {
		return Loss
	}
	return Win
}

// SetFeature stores a named feature for later offline labeling.
func (r *Record) SetFeature(name string, v float64) {
	if r.Features == nil {
		r.Features = make(map[string]float64, 8)
	}
	r.Features[name] = v
}

// PnL returns the realized profit in the order's expected direction, or
// 0 for a record that has not closed.
func (r *Record) PnL() float64 {
	if !r.Closed() {
		return 0
	}
	return (r.SellPrice - r.BuyPrice) * r.BuyQty * r.ExpectDirection
}

func (r *Record) String() string {
	return fmt.Sprintf("order{%s buy=%v cnt=%v day=%d factor=%s sell=%v day=%d state=%s}",
		r.Symbol, r.BuyPrice, r.BuyQty, r.BuyDay, r.BuyFactor, r.SellPrice, r.SellDay, r.SellState)
}

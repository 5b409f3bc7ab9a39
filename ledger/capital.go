// Package ledger tracks the cash of a single backtest lane.
package ledger

// Capital 维护单条回测通道的资金。
//
// Each lane owns exactly one Capital and replays strictly in day order,
// so there is no locking here. The fulfillment engine only reads Cash;
// debits and credits are the lane loop's responsibility.
type Capital struct {
	initial float64
	cash    float64
}

// New creates a ledger with the given starting cash.
func New(initial float64) *Capital {
	if initial < 0 {
		initial = 0
	}
	return &Capital{initial: initial, cash: initial}
}

// Cash returns the currently available cash.
func (c *Capital) Cash() float64 { return c.cash }

// Initial returns the starting cash.
func (c *Capital) Initial() float64 { return c.initial }

// Debit removes the cost of a fill. Cash may legitimately go slightly
// negative on margin-sized fills; sizer vetoes keep it bounded.
func (c *Capital) Debit(v float64) {
	c.cash -= v
}

// Credit returns sale proceeds to the lane.
func (c *Capital) Credit(v float64) {
	c.cash += v
}

package engine

import (
	"context"

	"quant-backtest-go/factor"
	"quant-backtest-go/ledger"
	"quant-backtest-go/market"
	"quant-backtest-go/metrics"
	"quant-backtest-go/order"
)

// Lane replays one (symbol, buy-factor, sell-factor) combination in
// strict chronological day order. A lane owns its ledger and its order
// list; nothing here is shared with other lanes, so the whole replay is
// lock-free.
type Lane struct {
	Series *market.Series
	Buyer  factor.Buyer
	Seller factor.Seller

	fulfiller *Fulfiller
	capital   *ledger.Capital
	orders    []*order.Record
	open      *order.Record
}

// NewLane wires a lane with its own cash ledger.
func NewLane(f *Fulfiller, series *market.Series, buyer factor.Buyer, seller factor.Seller, cash float64) *Lane {
	return &Lane{
		Series:    series,
		Buyer:     buyer,
		Seller:    seller,
		fulfiller: f,
		capital:   ledger.New(cash),
	}
}

// Run walks every signal day in order. The context is only consulted
// between days so a fatal error in a sibling lane can stop the sweep;
// within a day's evaluation nothing is reordered or interrupted.
func (l *Lane) Run(ctx context.Context) error {
	for i := 0; i < l.Series.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.step(i); err != nil {
			return err
		}
	}
	metrics.LanesCompleted.Inc()
	return nil
}

// step evaluates one day. At most one order is open per lane: an open
// order is exit-evaluated; a new entry is only attempted when nothing
// is held.
func (l *Lane) step(i int) error {
	if l.open != nil {
		// 持有天数由外层循环递增，卖出评估自身不计天
		l.open.KeepDays++
		l.fulfiller.FitSellOrder(l.open, l.Series, i, l.Seller)
		if l.open.Closed() {
			l.capital.Credit(l.open.SellPrice * l.open.BuyQty)
			l.open = nil
		}
		return nil
	}

	if !l.Buyer.FitDay(l.Series, i) {
		return nil
	}
	rec := &order.Record{}
	if err := l.fulfiller.FitBuyOrder(rec, l.Series, i, l.Buyer, l.capital.Cash()); err != nil {
		return err
	}
	if rec.Filled {
		l.capital.Debit(rec.BuyPrice * rec.BuyQty)
		l.orders = append(l.orders, rec)
		l.open = rec
	}
	// 未成交的record不会出现在结果里，直接丢弃
	return nil
}

// Orders returns the records this lane filled, in entry order.
func (l *Lane) Orders() []*order.Record { return l.orders }

// Cash returns the lane's current available cash.
func (l *Lane) Cash() float64 { return l.capital.Cash() }

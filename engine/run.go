package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"quant-backtest-go/infrastructure/logger"
	"quant-backtest-go/order"
)

// Sweep fans independent lanes out across a bounded worker pool. Lanes
// share no mutable state, so the only coordination is the error group:
// the first fatal error (a misconfigured market) cancels the rest.
type Sweep struct {
	Lanes   []*Lane
	Workers int

	log *logger.Logger
}

// NewSweep creates a sweep over the given lanes. workers <= 0 uses one
// worker per CPU.
func NewSweep(lanes []*Lane, workers int, log *logger.Logger) *Sweep {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Sweep{Lanes: lanes, Workers: workers, log: log}
}

// Run replays every lane and blocks until all finish or one fails.
func (s *Sweep) Run(ctx context.Context) error {
	s.log.LogSweep("start", map[string]interface{}{
		"lanes": len(s.Lanes), "workers": s.Workers,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers)
	for _, lane := range s.Lanes {
		lane := lane
		g.Go(func() error { return lane.Run(ctx) })
	}
	if err := g.Wait(); err != nil {
		s.log.LogError(err, map[string]interface{}{"phase": "sweep"})
		return err
	}

	s.log.LogSweep("done", map[string]interface{}{
		"orders": len(s.Orders()),
	})
	return nil
}

// Orders concatenates every lane's records, lane order preserved.
func (s *Sweep) Orders() []*order.Record {
	var out []*order.Record
	for _, lane := range s.Lanes {
		out = append(out, lane.Orders()...)
	}
	return out
}

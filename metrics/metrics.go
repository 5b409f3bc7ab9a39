// Package metrics provides Prometheus metrics for the backtest engine
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// OrdersFilled 买入成交订单总数
	OrdersFilled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backtest_orders_filled_total",
		Help: "Number of orders whose buy evaluation filled.",
	})

	// Vetoes 各类静默否决计数
	Vetoes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backtest_vetoes_total",
		Help: "Silent per-day vetoes by reason.",
	}, []string{"reason"})

	// OrdersClosed 终态订单计数
	OrdersClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backtest_orders_closed_total",
		Help: "Orders reaching a terminal sell state, by result.",
	}, []string{"result"})

	// LanesCompleted 完成回放的通道数
	LanesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backtest_lanes_completed_total",
		Help: "Backtest lanes that finished their replay.",
	})
)

// 否决原因标签值
const (
	VetoSlippage = "slippage"
	VetoSizer    = "sizer"
	VetoMinUnit  = "min_unit"
	VetoSellHalt = "sell_halt"
)

// StartMetricsServer 启动Prometheus指标服务器
func StartMetricsServer(addr string) {
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, nil)
	}()
}

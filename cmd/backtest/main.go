package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"quant-backtest-go/config"
	"quant-backtest-go/engine"
	"quant-backtest-go/factor"
	"quant-backtest-go/infrastructure/logger"
	"quant-backtest-go/market"
	"quant-backtest-go/metrics"
	"quant-backtest-go/order"
	"quant-backtest-go/position"
	"quant-backtest-go/posttrade"
	"quant-backtest-go/slippage"
	"quant-backtest-go/store"
)

// 配置驱动的回测扫描入口。
// 用法：
//
//	go run ./cmd/backtest -config configs/config.yaml -buy breakout -sell stop -out orders.csv
func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	buyName := flag.String("buy", "breakout", "买入因子：breakout 或 ma_cross")
	sellName := flag.String("sell", "stop", "卖出因子：stop 或 atr_trail")
	direction := flag.String("direction", "call", "订单方向：call 或 put")
	window := flag.Int("window", 20, "breakout 突破窗口")
	fast := flag.Int("fast", 10, "ma_cross 快线周期")
	slow := flag.Int("slow", 30, "ma_cross 慢线周期")
	stopLoss := flag.Float64("stopLoss", 0.05, "stop 止损比例")
	takeProfit := flag.Float64("takeProfit", 0.12, "stop 止盈比例")
	atrPeriod := flag.Int("atrPeriod", 14, "atr_trail ATR周期")
	atrMult := flag.Float64("atrMult", 3.0, "atr_trail ATR倍数")
	slipBps := flag.Float64("slipBps", 0, "开盘价滑点，基点；0表示开盘价直接成交")
	fraction := flag.Float64("fraction", 0, "仓位资金占比；0表示用满预算")
	outPath := flag.String("out", "", "若指定则写入订单明细 CSV")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	zlog, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zlog.Close()

	if cfg.MetricsAddr != "" {
		metrics.StartMetricsServer(cfg.MetricsAddr)
	}

	dir := order.Call
	if *direction == "put" {
		dir = order.Put
	}
	slip := slippage.LimitGuard{Inner: buildSlip(*slipBps)}
	buyer, err := buildBuyer(*buyName, buyerOpts{
		window: *window, fast: *fast, slow: *slow,
		dir: dir, slip: slip, fraction: *fraction,
	})
	if err != nil {
		log.Fatalf("买入因子: %v", err)
	}
	seller, err := buildSeller(*sellName, sellerOpts{
		stopLoss: *stopLoss, takeProfit: *takeProfit,
		atrPeriod: *atrPeriod, atrMult: *atrMult, slip: slip,
	})
	if err != nil {
		log.Fatalf("卖出因子: %v", err)
	}

	fulfiller := engine.NewFulfiller(engine.Config{
		Market:        market.Market(cfg.Market),
		SymbolMarkets: symbolMarkets(cfg),
		Rounder: market.Rounder{
			HKUnits:        market.UnitTable(cfg.Units.HK),
			FuturesCNUnits: market.UnitTable(cfg.Units.FuturesCN),
			FuturesGBUnits: market.UnitTable(cfg.Units.FuturesGB),
		},
		Risk: position.Params{PosMax: cfg.Risk.PosMax, DepositRate: cfg.Risk.DepositRate},
	}, zlog)

	// symbol按字典序建通道，结果顺序可复现
	symbols := make([]string, 0, len(cfg.Symbols))
	for sym := range cfg.Symbols {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var lanes []*engine.Lane
	for _, sym := range symbols {
		sc := cfg.Symbols[sym]
		series, err := market.LoadSeriesCSV(sc.Data, sym)
		if err != nil {
			log.Printf("symbol %s 读取 %s 失败: %v", sym, sc.Data, err)
			continue
		}
		lanes = append(lanes, engine.NewLane(fulfiller, series, buyer, seller, cfg.Cash))
	}
	if len(lanes) == 0 {
		log.Fatal("没有任何可回测的symbol")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweep := engine.NewSweep(lanes, cfg.Workers, zlog)
	if err := sweep.Run(ctx); err != nil {
		log.Fatalf("回测失败: %v", err)
	}

	orders := sweep.Orders()
	stats := posttrade.Analyze(orders)
	log.Printf("orders=%d closed=%d open=%d win=%d loss=%d winRate=%.2f%% pnl=%.2f pf=%.2f maxDD=%.2f avgKeep=%.1f",
		stats.Orders, stats.Closed, stats.Open, stats.Wins, stats.Losses,
		stats.WinRate*100, stats.TotalPnL, stats.ProfitFactor, stats.MaxDrawdown, stats.AvgKeepDays)

	if cfg.Store.Path != "" {
		if err := saveRun(cfg.Store.Path, orders); err != nil {
			log.Printf("落库失败: %v", err)
		}
	}
	if *outPath != "" {
		if err := writeOrdersCSV(*outPath, orders); err != nil {
			log.Printf("写入订单 CSV 失败: %v", err)
		} else {
			log.Printf("已写入订单明细: %s", *outPath)
		}
	}
}

func buildSlip(bps float64) slippage.Decider {
	if bps > 0 {
		return slippage.OpenSlip{Bps: bps}
	}
	return slippage.OpenFill{}
}

type buyerOpts struct {
	window, fast, slow int
	dir                order.Direction
	slip               slippage.Decider
	fraction           float64
}

func buildBuyer(name string, o buyerOpts) (factor.Buyer, error) {
	base := factor.Base{
		Slip: o.slip,
		Pos:  position.FractionSizer{Fraction: o.fraction},
		Dir:  o.dir,
	}
	switch name {
	case "breakout":
		return &factor.Breakout{Base: base, Window: o.window}, nil
	case "ma_cross":
		return &factor.MACross{Base: base, Fast: o.fast, Slow: o.slow}, nil
	}
	return nil, fmt.Errorf("unknown buy factor %q", name)
}

type sellerOpts struct {
	stopLoss, takeProfit float64
	atrPeriod            int
	atrMult              float64
	slip                 slippage.Decider
}

func buildSeller(name string, o sellerOpts) (factor.Seller, error) {
	switch name {
	case "stop":
		return &factor.StopSeller{Slip: o.slip, StopLoss: o.stopLoss, TakeProfit: o.takeProfit}, nil
	case "atr_trail":
		return &factor.AtrTrailSeller{Slip: o.slip, Period: o.atrPeriod, Mult: o.atrMult}, nil
	}
	return nil, fmt.Errorf("unknown sell factor %q", name)
}

func symbolMarkets(cfg config.AppConfig) map[string]market.Market {
	out := make(map[string]market.Market)
	for sym, sc := range cfg.Symbols {
		if sc.Market != "" {
			out[sym] = market.Market(sc.Market)
		}
	}
	return out
}

func saveRun(path string, orders []*order.Record) error {
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()
	runID := store.NewRunID()
	if err := s.SaveRun(runID, orders); err != nil {
		return err
	}
	log.Printf("已落库 run=%s orders=%d", runID, len(orders))
	return nil
}

func writeOrdersCSV(path string, orders []*order.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	header := []string{"symbol", "buyDay", "buyFactor", "buyPrice", "buyQty", "direction",
		"sellDay", "sellPrice", "sellReason", "state", "keepDays", "pnl"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, rec := range orders {
		row := []string{
			rec.Symbol,
			fmt.Sprintf("%d", rec.BuyDay),
			rec.BuyFactor,
			fmt.Sprintf("%.6f", rec.BuyPrice),
			fmt.Sprintf("%.6f", rec.BuyQty),
			rec.Direction.String(),
			fmt.Sprintf("%d", rec.SellDay),
			fmt.Sprintf("%.6f", rec.SellPrice),
			rec.SellReason,
			rec.SellState.String(),
			fmt.Sprintf("%d", rec.KeepDays),
			fmt.Sprintf("%.6f", rec.PnL()),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Package store persists completed backtest orders to SQLite.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"quant-backtest-go/order"
)

// OrderModel is the persisted projection of an order record. The hot
// in-memory Record stays a flat struct; mapping to the ORM model only
// happens here at the storage boundary.
type OrderModel struct {
	ID    uint   `gorm:"primaryKey"`
	RunID string `gorm:"index;size:36"`

	Symbol         string `gorm:"index"`
	BuyDay         int
	BuyFactor      string
	BuyFactorClass string
	BuyPrice       float64
	BuyQty         float64
	BuySizer       string
	Direction      string

	SellDay    int
	SellPrice  float64
	SellState  string `gorm:"index"`
	SellReason string
	KeepDays   int
	PnL        float64

	CreatedAt time.Time
}

// TableName 固定表名
func (OrderModel) TableName() string { return "backtest_orders" }

// Store wraps a gorm SQLite handle for sweep results.
type Store struct {
	db *gorm.DB
}

// Open creates or opens the orders database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("store: path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&OrderModel{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// NewRunID returns a fresh identifier for one sweep.
func NewRunID() string { return uuid.NewString() }

// SaveRun writes all filled orders of a sweep under one run id.
func (s *Store) SaveRun(runID string, orders []*order.Record) error {
	if len(orders) == 0 {
		return nil
	}
	models := make([]OrderModel, 0, len(orders))
	for _, rec := range orders {
		if !rec.Filled {
			continue
		}
		models = append(models, toModel(runID, rec))
	}
	if len(models) == 0 {
		return nil
	}
	if err := s.db.CreateInBatches(models, 500).Error; err != nil {
		return fmt.Errorf("store: save run %s: %w", runID, err)
	}
	return nil
}

// Orders returns the persisted orders of one run, insertion order.
func (s *Store) Orders(runID string) ([]OrderModel, error) {
	var out []OrderModel
	if err := s.db.Where("run_id = ?", runID).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("store: load run %s: %w", runID, err)
	}
	return out, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toModel(runID string, rec *order.Record) OrderModel {
	return OrderModel{
		RunID:          runID,
		Symbol:         rec.Symbol,
		BuyDay:         rec.BuyDay,
		BuyFactor:      rec.BuyFactor,
		BuyFactorClass: rec.BuyFactorClass,
		BuyPrice:       rec.BuyPrice,
		BuyQty:         rec.BuyQty,
		BuySizer:       rec.BuySizer,
		Direction:      rec.Direction.String(),
		SellDay:        rec.SellDay,
		SellPrice:      rec.SellPrice,
		SellState:      rec.SellState.String(),
		SellReason:     rec.SellReason,
		KeepDays:       rec.KeepDays,
		PnL:            rec.PnL(),
	}
}

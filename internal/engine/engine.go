// Package engine orchestrates the transform-and-validate pipeline: extract,
// per-entity transform, referential integrity filter, load, verify,
// reconcile. A run walks a fixed stage sequence; any stage failure aborts
// the run and is propagated to the caller, and Close releases the warehouse
// connection on every exit path.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/leapstack-labs/refinery/internal/state"
	"github.com/leapstack-labs/refinery/internal/warehouse"
)

// Stage identifies a point in the pipeline lifecycle.
type Stage string

const (
	StageIdle              Stage = "idle"
	StageConnected         Stage = "connected"
	StageTablesReady       Stage = "tables_ready"
	StageExtracted         Stage = "extracted"
	StageTransformed       Stage = "transformed"
	StageIntegrityFiltered Stage = "integrity_filtered"
	StageLoaded            Stage = "loaded"
	StageVerified          Stage = "verified"
	StageReconciled        Stage = "reconciled"
	StageClosed            Stage = "closed"
)

// Config holds engine configuration.
type Config struct {
	// DataDir is the directory containing the three source CSV files.
	DataDir string
	// WarehousePath is the path to the warehouse SQLite database.
	WarehousePath string
	// StatePath is the path to the run-history SQLite database.
	StatePath string
	// Logger is the structured logger (uses discard if nil).
	Logger *slog.Logger
}

// Engine runs the pipeline. The warehouse connection is opened lazily at the
// start of a run and held until Close.
type Engine struct {
	cfg    Config
	logger *slog.Logger

	wh    *warehouse.Warehouse
	store *state.SQLiteStore
}

// New creates an engine and opens the run-history store. The warehouse is
// not connected until Run is called.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("initializing engine", "data_dir", cfg.DataDir, "warehouse", cfg.WarehousePath)

	store := state.NewSQLiteStore()
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open run-history store: %w", err)
	}
	if err := store.InitSchema(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize run-history schema: %w", err)
	}

	return &Engine{cfg: cfg, logger: logger, store: store}, nil
}

// Close releases all resources. It is safe to call after a failed run; the
// warehouse connection is released regardless of which stage failed.
func (e *Engine) Close() error {
	e.logger.Debug("closing engine", "stage", StageClosed)

	var errs []error
	if e.wh != nil {
		if err := e.wh.Close(); err != nil {
			errs = append(errs, err)
		}
		e.wh = nil
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			errs = append(errs, err)
		}
		e.store = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing engine: %v", errs)
	}
	return nil
}

// Store exposes the run-history store.
func (e *Engine) Store() *state.SQLiteStore {
	return e.store
}

// TopRevenue returns the top customers by total revenue from the warehouse.
// Only valid between a successful Run and Close.
func (e *Engine) TopRevenue(ctx context.Context, limit int) ([]warehouse.RevenueRow, error) {
	if e.wh == nil {
		return nil, fmt.Errorf("warehouse not connected")
	}
	return e.wh.TopRevenue(ctx, limit)
}

func (e *Engine) sourcePath(name string) string {
	return filepath.Join(e.cfg.DataDir, name)
}

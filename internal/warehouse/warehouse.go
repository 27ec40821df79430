// Package warehouse is the SQLite sink for cleaned entity sets.
//
// Each entity table is recreated in full on every pipeline run (delete all
// rows, insert the surviving records). The derived customer_revenue table is
// a recomputed materialization rebuilt from scratch each run via an upsert.
package warehouse

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// Warehouse wraps the single database handle held for the pipeline lifetime.
type Warehouse struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens the warehouse database at path. Use ":memory:" for an
// in-memory database.
func Open(path string, logger *slog.Logger) (*Warehouse, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse database: %w", err)
	}

	// The pipeline holds one connection for its whole lifetime; the handle
	// is not safe for concurrent use by multiple stages.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping warehouse database: %w", err)
	}

	logger.Debug("warehouse connected", "path", path)

	return &Warehouse{db: db, path: path, logger: logger}, nil
}

// NewWithDB wraps an existing database handle. Used by tests that inject a
// mock connection.
func NewWithDB(db *sql.DB, logger *slog.Logger) *Warehouse {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Warehouse{db: db, logger: logger}
}

// Close releases the database handle.
func (w *Warehouse) Close() error {
	if w.db != nil {
		return w.db.Close()
	}
	return nil
}

// Path returns the database path the warehouse was opened with.
func (w *Warehouse) Path() string {
	return w.path
}

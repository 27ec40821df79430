package state

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore persists run history using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new run-history store instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	// SQLite creates the database file but not its parent directory; the
	// default state path lives under .refinery/.
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create state directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema initializes the database schema.
func (s *SQLiteStore) InitSchema() error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// CreateRun creates a new pipeline run record.
func (s *SQLiteStore) CreateRun(env string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &Run{
		ID:          generateID(),
		Environment: env,
		Status:      RunStatusRunning,
		Stage:       "idle",
		StartedAt:   time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, environment, status, stage, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Environment, run.Status, run.Stage, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	return run, nil
}

// SetStage records the stage a run has reached.
func (s *SQLiteStore) SetStage(id, stage string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	result, err := s.db.Exec(`UPDATE runs SET stage = ? WHERE id = ?`, stage, id)
	if err != nil {
		return fmt.Errorf("failed to set stage: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// CompleteRun marks a run as completed with the given status.
func (s *SQLiteStore) CompleteRun(id string, status RunStatus, errMsg string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	now := time.Now().UTC()
	var errorPtr *string
	if errMsg != "" {
		errorPtr = &errMsg
	}

	result, err := s.db.Exec(
		`UPDATE runs SET status = ?, completed_at = ?, error = ? WHERE id = ?`,
		status, now, errorPtr, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// SaveEntityCounts records the count snapshot for one entity of a run.
func (s *SQLiteStore) SaveEntityCounts(ec EntityCounts) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	reconciled := 0
	if ec.Reconciled {
		reconciled = 1
	}

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO run_counts (run_id, entity, extracted, transformed, loaded, reconciled)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ec.RunID, ec.Entity, ec.Extracted, ec.Transformed, ec.Loaded, reconciled,
	)
	if err != nil {
		return fmt.Errorf("failed to save entity counts: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(id string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(
		`SELECT id, environment, status, stage, started_at, completed_at, error FROM runs WHERE id = ?`,
		id,
	)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// GetLatestRun retrieves the most recent run for an environment, or nil when
// none exists.
func (s *SQLiteStore) GetLatestRun(env string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(
		`SELECT id, environment, status, stage, started_at, completed_at, error
		 FROM runs WHERE environment = ? ORDER BY started_at DESC LIMIT 1`,
		env,
	)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, most recent first.
func (s *SQLiteStore) ListRuns(limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, environment, status, stage, started_at, completed_at, error
		 FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}

// GetEntityCounts retrieves the count snapshots for a run, keyed by entity.
func (s *SQLiteStore) GetEntityCounts(runID string) (map[string]EntityCounts, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT run_id, entity, extracted, transformed, loaded, reconciled
		 FROM run_counts WHERE run_id = ?`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get entity counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]EntityCounts)
	for rows.Next() {
		var ec EntityCounts
		var reconciled int
		if err := rows.Scan(&ec.RunID, &ec.Entity, &ec.Extracted, &ec.Transformed, &ec.Loaded, &reconciled); err != nil {
			return nil, fmt.Errorf("failed to scan entity counts: %w", err)
		}
		ec.Reconciled = reconciled == 1
		counts[ec.Entity] = ec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entity counts: %w", err)
	}
	return counts, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	run := &Run{}
	var completedAt sql.NullTime
	var errMsg sql.NullString

	err := sc.Scan(&run.ID, &run.Environment, &run.Status, &run.Stage, &run.StartedAt, &completedAt, &errMsg)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	if errMsg.Valid {
		run.Error = errMsg.String
	}
	return run, nil
}

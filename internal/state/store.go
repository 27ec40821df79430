// Package state records pipeline run history in SQLite: one row per run plus
// per-entity count snapshots, so past runs and their reconciliation results
// can be listed after the fact.
package state

import "time"

// RunStatus is the lifecycle state of a pipeline run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one pipeline execution.
type Run struct {
	ID          string
	Environment string
	Status      RunStatus
	Stage       string
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
}

// EntityCounts is the per-entity count snapshot recorded for a run.
type EntityCounts struct {
	RunID       string
	Entity      string
	Extracted   int
	Transformed int
	Loaded      int
	Reconciled  bool
}

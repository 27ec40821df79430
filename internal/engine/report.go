package engine

import (
	"time"

	"github.com/leapstack-labs/refinery/internal/model"
)

// EntityReport is the reconciliation result for one entity: transformed
// (pre-load) count against the count read back from the warehouse.
type EntityReport struct {
	Entity      string
	Extracted   int
	Transformed int
	Loaded      int
}

// Match reports whether the transformed and loaded counts agree. This is a
// count-based oracle only; it does not compare row contents.
func (r EntityReport) Match() bool {
	return r.Transformed == r.Loaded
}

// Report summarizes a completed pipeline run.
type Report struct {
	RunID    string
	Entities []EntityReport
	Elapsed  time.Duration
}

// Pass reports whether every entity reconciled.
func (r *Report) Pass() bool {
	for _, e := range r.Entities {
		if !e.Match() {
			return false
		}
	}
	return true
}

// Entity returns the report for the named entity, if present.
func (r *Report) Entity(name string) (EntityReport, bool) {
	for _, e := range r.Entities {
		if e.Entity == name {
			return e, true
		}
	}
	return EntityReport{}, false
}

func buildReport(runID string, rawCounts, transformed, loaded model.Counts, elapsed time.Duration) *Report {
	return &Report{
		RunID:   runID,
		Elapsed: elapsed,
		Entities: []EntityReport{
			{Entity: model.EntityCustomers, Extracted: rawCounts.Customers, Transformed: transformed.Customers, Loaded: loaded.Customers},
			{Entity: model.EntityProducts, Extracted: rawCounts.Products, Transformed: transformed.Products, Loaded: loaded.Products},
			{Entity: model.EntityTransactions, Extracted: rawCounts.Transactions, Transformed: transformed.Transactions, Loaded: loaded.Transactions},
		},
	}
}

package engine

// run.go - staged execution of a single pipeline run

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/refinery/internal/extract"
	"github.com/leapstack-labs/refinery/internal/model"
	"github.com/leapstack-labs/refinery/internal/state"
	"github.com/leapstack-labs/refinery/internal/transform"
	"github.com/leapstack-labs/refinery/internal/warehouse"
)

// Run executes the full pipeline for one environment and returns the
// reconciliation report. Row-level rejections never surface as errors; a
// returned error means a stage failed and the run was aborted.
func (e *Engine) Run(ctx context.Context, env string) (*Report, error) {
	e.logger.Info("starting run", "environment", env)
	startTime := time.Now()

	run, err := e.store.CreateRun(env)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	report, err := e.runStages(ctx, run.ID)
	if err != nil {
		e.logger.Error("run failed", "run_id", run.ID, "error", err)
		if herr := e.store.CompleteRun(run.ID, state.RunStatusFailed, err.Error()); herr != nil {
			e.logger.Warn("failed to record run failure", "run_id", run.ID, "error", herr)
		}
		return nil, err
	}

	report.Elapsed = time.Since(startTime)
	if err := e.store.CompleteRun(run.ID, state.RunStatusCompleted, ""); err != nil {
		e.logger.Warn("failed to record run completion", "run_id", run.ID, "error", err)
	}

	if report.Pass() {
		e.logger.Info("run completed", "run_id", run.ID, "status", "PASS")
	} else {
		e.logger.Warn("run completed with count mismatch", "run_id", run.ID, "status", "FAIL")
	}
	return report, nil
}

func (e *Engine) runStages(ctx context.Context, runID string) (*Report, error) {
	advance := func(stage Stage) {
		e.logger.Info("stage complete", "run_id", runID, "stage", string(stage))
		if err := e.store.SetStage(runID, string(stage)); err != nil {
			e.logger.Warn("failed to record stage", "run_id", runID, "stage", string(stage), "error", err)
		}
	}
	fail := func(stage Stage, err error) error {
		return fmt.Errorf("stage %s: %w", stage, err)
	}

	// Connect the warehouse; the single connection is held until Close.
	wh, err := warehouse.Open(e.cfg.WarehousePath, e.logger)
	if err != nil {
		return nil, fail(StageConnected, err)
	}
	e.wh = wh
	advance(StageConnected)

	if err := wh.Migrate(); err != nil {
		return nil, fail(StageTablesReady, err)
	}
	advance(StageTablesReady)

	// Extract the three sources. The reads are independent of each other
	// and of the warehouse connection, so they run concurrently.
	var (
		rawCustomers    []model.RawCustomer
		rawProducts     []model.RawProduct
		rawTransactions []model.RawTransaction
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		rawCustomers, err = extract.Customers(e.sourcePath(extract.CustomersFile))
		return err
	})
	g.Go(func() error {
		var err error
		rawProducts, err = extract.Products(e.sourcePath(extract.ProductsFile))
		return err
	})
	g.Go(func() error {
		var err error
		rawTransactions, err = extract.Transactions(e.sourcePath(extract.TransactionsFile))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fail(StageExtracted, err)
	}
	rawCounts := model.Counts{
		Customers:    len(rawCustomers),
		Products:     len(rawProducts),
		Transactions: len(rawTransactions),
	}
	e.logger.Info("raw data extracted",
		"customers", rawCounts.Customers,
		"products", rawCounts.Products,
		"transactions", rawCounts.Transactions)
	advance(StageExtracted)

	// The three transforms share no state; the rejection rules are pure
	// filters over each entity's own batch.
	var (
		customers    []model.Customer
		products     []model.Product
		transactions []model.Transaction
	)
	var tg errgroup.Group
	tg.Go(func() error { customers = transform.Customers(rawCustomers); return nil })
	tg.Go(func() error { products = transform.Products(rawProducts); return nil })
	tg.Go(func() error { transactions = transform.Transactions(rawTransactions); return nil })
	_ = tg.Wait()

	e.logger.Info("batches transformed",
		"customers", len(customers),
		"products", len(products),
		"transactions", len(transactions))
	advance(StageTransformed)

	// Integrity filtering depends on all three deduplicated outputs: a
	// transaction referencing a customer dropped during dedup goes too.
	transactions = transform.FilterIntegrity(customers, products, transactions)
	e.logger.Info("referential integrity enforced", "transactions", len(transactions))
	advance(StageIntegrityFiltered)

	transformed := model.Counts{
		Customers:    len(customers),
		Products:     len(products),
		Transactions: len(transactions),
	}

	// Loads are sequential on the single connection.
	if err := wh.ReplaceCustomers(ctx, customers); err != nil {
		return nil, fail(StageLoaded, err)
	}
	if err := wh.ReplaceProducts(ctx, products); err != nil {
		return nil, fail(StageLoaded, err)
	}
	if err := wh.ReplaceTransactions(ctx, transactions); err != nil {
		return nil, fail(StageLoaded, err)
	}
	if err := wh.RebuildCustomerRevenue(ctx); err != nil {
		return nil, fail(StageLoaded, err)
	}
	advance(StageLoaded)

	loaded, err := wh.Counts(ctx)
	if err != nil {
		return nil, fail(StageVerified, err)
	}
	e.logger.Info("warehouse counts verified",
		"customers", loaded.Customers,
		"products", loaded.Products,
		"transactions", loaded.Transactions)
	advance(StageVerified)

	report := buildReport(runID, rawCounts, transformed, loaded, 0)
	for _, er := range report.Entities {
		if err := e.store.SaveEntityCounts(stateCounts(runID, er)); err != nil {
			e.logger.Warn("failed to save entity counts", "run_id", runID, "entity", er.Entity, "error", err)
		}
	}
	advance(StageReconciled)

	return report, nil
}

func stateCounts(runID string, er EntityReport) state.EntityCounts {
	return state.EntityCounts{
		RunID:       runID,
		Entity:      er.Entity,
		Extracted:   er.Extracted,
		Transformed: er.Transformed,
		Loaded:      er.Loaded,
		Reconciled:  er.Match(),
	}
}

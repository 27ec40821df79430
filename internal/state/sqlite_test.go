package state

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s := NewSQLiteStore()
	if err := s.Open(":memory:"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.InitSchema(); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	return s
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	// The default state path nests the database under .refinery/, which does
	// not exist on a fresh project.
	path := filepath.Join(t.TempDir(), ".refinery", "state.db")

	s := NewSQLiteStore()
	if err := s.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.InitSchema(); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	if _, err := s.CreateRun("dev"); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected database file to exist: %v", err)
	}
}

func TestCreateAndGetRun(t *testing.T) {
	s := openTestStore(t)

	run, err := s.CreateRun("dev")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected a generated run id")
	}
	if run.Status != RunStatusRunning {
		t.Errorf("new run status = %s, want %s", run.Status, RunStatusRunning)
	}

	got, err := s.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Environment != "dev" || got.Stage != "idle" {
		t.Errorf("unexpected run: %+v", got)
	}
	if got.CompletedAt != nil {
		t.Error("running run should have nil CompletedAt")
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetRun("missing")
	if err == nil || !strings.Contains(err.Error(), "run not found") {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestSetStage(t *testing.T) {
	s := openTestStore(t)

	run, err := s.CreateRun("dev")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	if err := s.SetStage(run.ID, "loaded"); err != nil {
		t.Fatalf("SetStage: %v", err)
	}
	got, err := s.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Stage != "loaded" {
		t.Errorf("stage = %s, want loaded", got.Stage)
	}

	if err := s.SetStage("missing", "loaded"); err == nil {
		t.Error("expected error for unknown run id")
	}
}

func TestCompleteRun(t *testing.T) {
	s := openTestStore(t)

	run, err := s.CreateRun("dev")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	if err := s.CompleteRun(run.ID, RunStatusCompleted, ""); err != nil {
		t.Fatalf("CompleteRun: %v", err)
	}
	got, err := s.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Status != RunStatusCompleted {
		t.Errorf("status = %s, want %s", got.Status, RunStatusCompleted)
	}
	if got.CompletedAt == nil {
		t.Error("completed run should have CompletedAt set")
	}
	if got.Error != "" {
		t.Errorf("expected empty error, got %q", got.Error)
	}
}

func TestCompleteRunWithError(t *testing.T) {
	s := openTestStore(t)

	run, err := s.CreateRun("dev")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	if err := s.CompleteRun(run.ID, RunStatusFailed, "stage extracted: boom"); err != nil {
		t.Fatalf("CompleteRun: %v", err)
	}
	got, err := s.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Status != RunStatusFailed || got.Error != "stage extracted: boom" {
		t.Errorf("unexpected run: %+v", got)
	}
}

func TestGetLatestRun(t *testing.T) {
	s := openTestStore(t)

	if run, err := s.GetLatestRun("dev"); err != nil || run != nil {
		t.Fatalf("expected nil, nil for empty store, got %v, %v", run, err)
	}

	first, err := s.CreateRun("dev")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	second, err := s.CreateRun("dev")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if _, err := s.CreateRun("prod"); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	latest, err := s.GetLatestRun("dev")
	if err != nil {
		t.Fatalf("GetLatestRun: %v", err)
	}
	if latest.ID != second.ID && latest.ID != first.ID {
		t.Errorf("latest run id %s not among created dev runs", latest.ID)
	}
	if latest.Environment != "dev" {
		t.Errorf("latest run environment = %s, want dev", latest.Environment)
	}
}

func TestListRuns(t *testing.T) {
	s := openTestStore(t)

	for range 3 {
		if _, err := s.CreateRun("dev"); err != nil {
			t.Fatalf("CreateRun: %v", err)
		}
	}

	runs, err := s.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected limit to cap results at 2, got %d", len(runs))
	}
}

func TestSaveAndGetEntityCounts(t *testing.T) {
	s := openTestStore(t)

	run, err := s.CreateRun("dev")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	ec := EntityCounts{
		RunID:       run.ID,
		Entity:      "customers",
		Extracted:   10,
		Transformed: 7,
		Loaded:      7,
		Reconciled:  true,
	}
	if err := s.SaveEntityCounts(ec); err != nil {
		t.Fatalf("SaveEntityCounts: %v", err)
	}

	// Saving again for the same (run, entity) replaces the snapshot.
	ec.Loaded = 6
	ec.Reconciled = false
	if err := s.SaveEntityCounts(ec); err != nil {
		t.Fatalf("SaveEntityCounts replace: %v", err)
	}

	counts, err := s.GetEntityCounts(run.ID)
	if err != nil {
		t.Fatalf("GetEntityCounts: %v", err)
	}
	got, ok := counts["customers"]
	if !ok {
		t.Fatalf("missing customers snapshot: %+v", counts)
	}
	if got.Loaded != 6 || got.Reconciled {
		t.Errorf("unexpected snapshot: %+v", got)
	}
}

func TestOperationsRequireOpenDatabase(t *testing.T) {
	s := NewSQLiteStore()

	if _, err := s.CreateRun("dev"); err == nil {
		t.Error("CreateRun should fail before Open")
	}
	if err := s.InitSchema(); err == nil {
		t.Error("InitSchema should fail before Open")
	}
}

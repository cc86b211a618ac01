package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/opskit/diagflow/pkg/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history", "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleResult(runID, workflowID string, status models.HealthStatus) *models.WorkflowResult {
	return &models.WorkflowResult{
		WorkflowID:    workflowID,
		RunID:         runID,
		Status:        status,
		StartedAt:     time.Now().UTC().Truncate(time.Second),
		ExecutionTime: 1500 * time.Millisecond,
		TaskResults: map[string]*models.DiagnosticResult{
			"a": {Step: "a", Status: status, Findings: []string{"observed"}},
		},
		ExecutionOrder: [][]string{{"a"}},
		Summary: models.Summary{
			StatusCounts:       map[models.HealthStatus]int{status: 1},
			ParallelEfficiency: 1.0,
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	db := testDB(t)

	saved := sampleResult("run1", "cluster-triage", models.StatusWarning)
	if err := db.SaveRun(saved); err != nil {
		t.Fatalf("save run: %v", err)
	}

	loaded, err := db.GetRun("run1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if loaded == nil {
		t.Fatal("saved run not found")
	}
	if loaded.WorkflowID != "cluster-triage" || loaded.Status != models.StatusWarning {
		t.Errorf("loaded run mismatch: %+v", loaded)
	}
	if loaded.TaskResults["a"] == nil || loaded.TaskResults["a"].Findings[0] != "observed" {
		t.Errorf("task results not preserved: %+v", loaded.TaskResults)
	}
}

func TestGetRunUnknown(t *testing.T) {
	db := testDB(t)
	loaded, err := db.GetRun("missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded != nil {
		t.Error("unknown run should load as nil")
	}
}

func TestSaveRunReplaces(t *testing.T) {
	db := testDB(t)
	db.SaveRun(sampleResult("run1", "wf", models.StatusHealthy))
	db.SaveRun(sampleResult("run1", "wf", models.StatusCritical))

	loaded, err := db.GetRun("run1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if loaded.Status != models.StatusCritical {
		t.Errorf("second save should replace the first, got %s", loaded.Status)
	}

	records, err := db.ListRuns(0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected one row after replace, got %d", len(records))
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	db := testDB(t)

	for i, runID := range []string{"old", "mid", "new"} {
		r := sampleResult(runID, "wf", models.StatusHealthy)
		r.StartedAt = time.Date(2026, 8, 1+i, 12, 0, 0, 0, time.UTC)
		if err := db.SaveRun(r); err != nil {
			t.Fatalf("save %s: %v", runID, err)
		}
	}

	records, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].RunID != "new" || records[2].RunID != "old" {
		t.Errorf("expected newest first, got %s %s %s", records[0].RunID, records[1].RunID, records[2].RunID)
	}
	if records[0].ExecutionTime != 1500*time.Millisecond {
		t.Errorf("execution time not preserved: %v", records[0].ExecutionTime)
	}
}

func TestListRunsLimit(t *testing.T) {
	db := testDB(t)
	for i := 0; i < 5; i++ {
		r := sampleResult(string(rune('a'+i)), "wf", models.StatusHealthy)
		r.StartedAt = time.Date(2026, 8, 1+i, 0, 0, 0, 0, time.UTC)
		db.SaveRun(r)
	}

	records, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
}

package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/opskit/diagflow/pkg/models"
)

// RunRecord is one row of the run history listing.
type RunRecord struct {
	// RunID identifies the run.
	RunID string
	// WorkflowID identifies the workflow that was executed.
	WorkflowID string
	// Status is the derived run-level status.
	Status models.HealthStatus
	// StartedAt is when the run began.
	StartedAt time.Time
	// ExecutionTime is the run's wall-clock duration.
	ExecutionTime time.Duration
}

// SaveRun persists a finished workflow result. The full result is
// stored as JSON alongside the indexed columns.
func (db *DB) SaveRun(result *models.WorkflowResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode run %s: %w", result.RunID, err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	_, err = db.conn.Exec(`
		INSERT OR REPLACE INTO runs (run_id, workflow_id, status, started_at, execution_time_ms, result_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		result.RunID,
		result.WorkflowID,
		string(result.Status),
		result.StartedAt.UTC(),
		result.ExecutionTime.Milliseconds(),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", result.RunID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first, up to limit.
// A non-positive limit defaults to 20.
func (db *DB) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.Query(`
		SELECT run_id, workflow_id, status, started_at, execution_time_ms
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var status string
		var ms int64
		if err := rows.Scan(&rec.RunID, &rec.WorkflowID, &status, &rec.StartedAt, &ms); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		rec.Status = models.HealthStatus(status)
		rec.ExecutionTime = time.Duration(ms) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetRun loads a stored workflow result by run ID. Returns nil when
// the run is unknown.
func (db *DB) GetRun(runID string) (*models.WorkflowResult, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var payload string
	err := db.conn.QueryRow(`SELECT result_json FROM runs WHERE run_id = ?`, runID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}

	var result models.WorkflowResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", runID, err)
	}
	return &result, nil
}

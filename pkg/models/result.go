package models

import "time"

// HealthStatus represents the outcome severity of a task or run.
type HealthStatus string

const (
	// StatusHealthy indicates no problems were found.
	StatusHealthy HealthStatus = "healthy"
	// StatusWarning indicates non-critical problems were found.
	StatusWarning HealthStatus = "warning"
	// StatusCritical indicates problems needing immediate attention.
	StatusCritical HealthStatus = "critical"
	// StatusError indicates the diagnostic itself failed to run.
	StatusError HealthStatus = "error"
)

// Valid returns true if the status is a known value.
func (s HealthStatus) Valid() bool {
	switch s {
	case StatusHealthy, StatusWarning, StatusCritical, StatusError:
		return true
	default:
		return false
	}
}

// Severity returns a comparable rank for status aggregation.
// Higher values dominate when deriving a run-level status.
func (s HealthStatus) Severity() int {
	switch s {
	case StatusError:
		return 3
	case StatusCritical:
		return 2
	case StatusWarning:
		return 1
	case StatusHealthy:
		return 0
	default:
		return -1
	}
}

// Detail keys stamped into DiagnosticResult.Details by executors and
// the orchestrator.
const (
	// DetailDuration is the task's own execution wall-clock duration.
	DetailDuration = "duration"
	// DetailExecutor identifies which executor produced the result.
	DetailExecutor = "executor"
	// DetailPhase is the zero-based index of the phase the task ran in.
	DetailPhase = "phase"
	// DetailPhaseDuration is the wall-clock duration of the whole phase.
	DetailPhaseDuration = "phase_duration"
)

// DiagnosticResult is the standard unit of output for one task's
// execution. It is created once per execution and never mutated after
// the owning run returns it.
type DiagnosticResult struct {
	// Step is the task ID this result belongs to.
	Step string `json:"step"`
	// Status is the outcome severity.
	Status HealthStatus `json:"status"`
	// Findings is the ordered list of observations.
	Findings []string `json:"findings,omitempty"`
	// Recommendations is the ordered list of suggested actions.
	Recommendations []string `json:"recommendations,omitempty"`
	// Details holds open-ended metadata. Once finalized it always
	// includes the execution duration and executor identity.
	Details map[string]any `json:"details,omitempty"`
}

// Detail returns the named detail value, or nil if absent.
func (r *DiagnosticResult) Detail(key string) any {
	if r.Details == nil {
		return nil
	}
	return r.Details[key]
}

// Summary aggregates a run's task results.
type Summary struct {
	// StatusCounts maps each status to the number of tasks that
	// finished with it.
	StatusCounts map[HealthStatus]int `json:"status_counts"`
	// ParallelEfficiency scores how much of the theoretically possible
	// parallelism the phase plan achieved, in [0,1].
	ParallelEfficiency float64 `json:"parallel_efficiency"`
	// Recommendations is the deduplicated recommendation list across
	// all tasks, first-seen order preserved.
	Recommendations []string `json:"recommendations,omitempty"`
	// TopFindings holds up to the first 10 findings across all tasks.
	TopFindings []string `json:"top_findings,omitempty"`
}

// WorkflowResult is the aggregate outcome of one workflow run.
type WorkflowResult struct {
	// WorkflowID identifies the workflow that was executed.
	WorkflowID string `json:"workflow_id"`
	// RunID uniquely identifies this run.
	RunID string `json:"run_id"`
	// Status is the derived run-level status.
	Status HealthStatus `json:"status"`
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
	// ExecutionTime is the total wall-clock duration of the run.
	ExecutionTime time.Duration `json:"execution_time"`
	// TaskResults maps task ID to its diagnostic result.
	TaskResults map[string]*DiagnosticResult `json:"task_results"`
	// DependencyGraph is the adjacency map the run was planned from.
	DependencyGraph map[string][]string `json:"dependency_graph"`
	// ExecutionOrder lists the phases in the order they ran, each
	// phase being the task IDs that ran concurrently.
	ExecutionOrder [][]string `json:"execution_order"`
	// Summary aggregates counts, efficiency, and recommendations.
	Summary Summary `json:"summary"`
}

// DeriveStatus computes the run-level status from task results using
// severity precedence: any error wins, then critical, then warning,
// then healthy. An empty result set is an error.
func DeriveStatus(results map[string]*DiagnosticResult) HealthStatus {
	if len(results) == 0 {
		return StatusError
	}
	worst := StatusHealthy
	for _, r := range results {
		if r == nil {
			return StatusError
		}
		if r.Status.Severity() > worst.Severity() {
			worst = r.Status
		}
	}
	return worst
}

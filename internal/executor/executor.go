// Package executor defines the task execution contract consumed by
// the workflow engine, plus the two bundled implementations: a
// deterministic rule-based executor and an LLM-backed
// instruction-following executor.
package executor

import (
	"context"
	"time"

	"github.com/opskit/diagflow/pkg/models"
)

// ExecutionContext carries everything one task execution may read.
// It exists only for the duration of that execution and is owned by
// the orchestrator call that created it.
type ExecutionContext struct {
	// Task is the definition of the task being executed.
	Task models.TaskDefinition
	// RunID identifies the workflow run this execution belongs to.
	RunID string
	// Diagnostic is the run-level diagnostic context (time range,
	// focus filters, and similar). Read-only.
	Diagnostic map[string]any
	// Defaults is the workflow's default context, consulted after
	// Diagnostic during template resolution. Read-only.
	Defaults map[string]any
	// DependencyResults maps each of the task's direct dependencies
	// to its already-recorded result. Read-only.
	DependencyResults map[string]*models.DiagnosticResult
}

// Value resolves a context variable, diagnostic context first, then
// workflow defaults. The second return reports whether it was found.
func (ec *ExecutionContext) Value(name string) (any, bool) {
	if v, ok := ec.Diagnostic[name]; ok {
		return v, true
	}
	if v, ok := ec.Defaults[name]; ok {
		return v, true
	}
	return nil, false
}

// TaskExecutor produces a DiagnosticResult for one task. A returned
// error is converted by the orchestrator into an error-status result;
// it never aborts sibling tasks or the run.
type TaskExecutor interface {
	// ExecuteTask runs one task with its resolved execution context.
	ExecuteTask(ctx context.Context, ec *ExecutionContext) (*models.DiagnosticResult, error)
	// Identity names the executor for result attribution.
	Identity() string
}

// taskContext applies the task's advisory timeout, falling back to
// the executor's default for tasks that carry none. The orchestrator
// never enforces timeouts; executors read them here.
func taskContext(ctx context.Context, task *models.TaskDefinition, fallback time.Duration) (context.Context, context.CancelFunc) {
	timeout := task.Timeout
	if timeout <= 0 {
		timeout = fallback
	}
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

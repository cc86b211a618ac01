package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opskit/diagflow/internal/executor"
	"github.com/opskit/diagflow/internal/graph"
	"github.com/opskit/diagflow/pkg/models"
)

// RunStore persists finished workflow results. The state package
// provides the sqlite-backed implementation.
type RunStore interface {
	SaveRun(result *models.WorkflowResult) error
}

// Orchestrator drives workflow runs phase by phase. Tasks within a
// phase execute concurrently; the orchestrator blocks at each phase
// boundary before threading results into the next phase's contexts.
type Orchestrator struct {
	registry *Registry
	executor executor.TaskExecutor
	notifier Notifier
	logger   *DebugLogger
	store    RunStore
	events   chan Event
}

// New creates an Orchestrator over a registry and a task executor.
// The executor is injected, never constructed here: callers choose
// between the rule-based and instruction-following implementations.
func New(registry *Registry, exec executor.TaskExecutor, opts ...Option) *Orchestrator {
	options := orchestratorOptions{
		notifier:    NopNotifier{},
		logger:      NopLogger(),
		eventBuffer: 100,
	}
	for _, opt := range opts {
		opt(&options)
	}

	setPackageLogger(options.logger)

	return &Orchestrator{
		registry: registry,
		executor: exec,
		notifier: options.notifier,
		logger:   options.logger,
		store:    options.store,
		events:   make(chan Event, options.eventBuffer),
	}
}

// Registry returns the workflow registry backing this orchestrator.
func (o *Orchestrator) Registry() *Registry {
	return o.registry
}

// Events returns the engine's event stream. Consumers that fall
// behind lose events; runs never block on delivery.
func (o *Orchestrator) Events() <-chan Event {
	return o.events
}

// emit sends an event without blocking.
func (o *Orchestrator) emit(event Event) {
	event.Timestamp = time.Now()
	select {
	case o.events <- event:
	default:
		debugLog("[engine] event buffer full, dropped %s", event.Type)
	}
}

// Execute runs the named workflow against the given diagnostic
// context. It fails only when the workflow ID is unknown; every task
// failure is recorded inside the returned WorkflowResult instead.
func (o *Orchestrator) Execute(ctx context.Context, workflowID string, diagCtx map[string]any) (*models.WorkflowResult, error) {
	wf, ok := o.registry.Get(workflowID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, workflowID)
	}

	runID := uuid.New().String()[:8]
	deps := graph.Build(wf.Tasks)
	phases := graph.PlanPhases(wf.Tasks, deps)

	if graph.Unresolvable(wf.Tasks, deps) {
		// Documented recovery: the plan's terminal phase holds the
		// tasks that could not be ordered. Surface it loudly anyway.
		msg := fmt.Sprintf("workflow %s has an unresolvable dependency graph; forcing remaining tasks into a final phase", wf.ID)
		debugLog("[engine] %s", msg)
		o.notify(false, msg)
	}

	debugLog("[engine] run %s: workflow %s, %d tasks in %d phases", runID, wf.ID, len(wf.Tasks), len(phases))
	o.emit(Event{Type: EventRunStarted, WorkflowID: wf.ID, RunID: runID, PhaseTotal: len(phases)})
	o.notify(true, fmt.Sprintf("workflow %s: starting run %s (%d tasks, %d phases)", wf.ID, runID, len(wf.Tasks), len(phases)))

	started := time.Now()
	results := make(map[string]*models.DiagnosticResult, len(wf.Tasks))

	for phaseIdx, phase := range phases {
		o.emit(Event{Type: EventPhaseStarted, WorkflowID: wf.ID, RunID: runID, Phase: phaseIdx, PhaseTotal: len(phases)})
		o.notify(true, fmt.Sprintf("workflow %s: phase %d/%d with %d tasks", wf.ID, phaseIdx+1, len(phases), len(phase)))

		phaseStart := time.Now()
		out := make([]*models.DiagnosticResult, len(phase))
		var wg sync.WaitGroup

		for i, taskID := range phase {
			task := wf.Task(taskID)
			if task == nil {
				// Plans are built from wf.Tasks, so this cannot
				// happen; guard anyway to keep the run alive.
				out[i] = errorResult(taskID, "task definition missing from workflow", 0)
				continue
			}

			ec := &executor.ExecutionContext{
				Task:              *task,
				RunID:             runID,
				Diagnostic:        diagCtx,
				Defaults:          wf.DefaultContext,
				DependencyResults: dependencySubset(task.Dependencies, results),
			}

			o.emit(Event{Type: EventTaskStarted, WorkflowID: wf.ID, RunID: runID, TaskID: taskID, Phase: phaseIdx, PhaseTotal: len(phases)})

			wg.Add(1)
			go func(slot int, ec *executor.ExecutionContext) {
				defer wg.Done()
				out[slot] = o.runTask(ctx, ec)
			}(i, ec)
		}

		// Fan-in barrier: results only become visible to later phases
		// (and to the shared map) after every task in the phase ends.
		wg.Wait()
		phaseDuration := time.Since(phaseStart)

		for i, taskID := range phase {
			result := out[i]
			if result == nil {
				result = errorResult(taskID, "executor returned no result", 0)
			}
			if result.Details == nil {
				result.Details = make(map[string]any)
			}
			result.Details[models.DetailPhase] = phaseIdx
			result.Details[models.DetailPhaseDuration] = phaseDuration.String()
			results[taskID] = result

			eventType := EventTaskCompleted
			if result.Status == models.StatusError {
				eventType = EventTaskFailed
			}
			o.emit(Event{Type: eventType, WorkflowID: wf.ID, RunID: runID, TaskID: taskID, Phase: phaseIdx, PhaseTotal: len(phases), Status: result.Status})
		}

		debugLog("[engine] run %s: phase %d done in %s", runID, phaseIdx, phaseDuration)
		o.emit(Event{Type: EventPhaseCompleted, WorkflowID: wf.ID, RunID: runID, Phase: phaseIdx, PhaseTotal: len(phases)})
	}

	result := &models.WorkflowResult{
		WorkflowID:      wf.ID,
		RunID:           runID,
		Status:          models.DeriveStatus(results),
		StartedAt:       started,
		ExecutionTime:   time.Since(started),
		TaskResults:     results,
		DependencyGraph: deps,
		ExecutionOrder:  phases,
		Summary:         buildSummary(phases, results),
	}

	if o.store != nil {
		if err := o.store.SaveRun(result); err != nil {
			debugLog("[engine] run %s: persist failed: %v", runID, err)
			o.notify(false, fmt.Sprintf("run %s: could not persist result: %v", runID, err))
		}
	}

	o.emit(Event{Type: EventRunCompleted, WorkflowID: wf.ID, RunID: runID, PhaseTotal: len(phases), Status: result.Status})
	o.notify(true, fmt.Sprintf("workflow %s: run %s finished %s in %s", wf.ID, runID, result.Status, result.ExecutionTime.Round(time.Millisecond)))

	return result, nil
}

// runTask executes one task, converting errors and panics into an
// error-status result so sibling tasks and later phases keep going.
func (o *Orchestrator) runTask(ctx context.Context, ec *executor.ExecutionContext) (result *models.DiagnosticResult) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			debugLog("[engine] task %s: executor panic: %v", ec.Task.ID, r)
			result = errorResult(ec.Task.ID, fmt.Sprintf("executor panic: %v", r), time.Since(started))
		}
	}()

	res, err := o.executor.ExecuteTask(ctx, ec)
	if err != nil {
		debugLog("[engine] task %s: %v", ec.Task.ID, err)
		return errorResult(ec.Task.ID, err.Error(), time.Since(started))
	}
	if res == nil {
		return errorResult(ec.Task.ID, "executor returned no result", time.Since(started))
	}
	return res
}

// notify forwards a progress message, swallowing any panic from the
// sink: notification failures must never abort execution.
func (o *Orchestrator) notify(info bool, message string) {
	defer func() {
		if r := recover(); r != nil {
			debugLog("[engine] notifier panic: %v", r)
		}
	}()

	if info {
		o.notifier.Info(message)
	} else {
		o.notifier.Error(message)
	}
}

// dependencySubset picks exactly the results of the listed
// dependencies out of the accumulating result map.
func dependencySubset(depIDs []string, results map[string]*models.DiagnosticResult) map[string]*models.DiagnosticResult {
	subset := make(map[string]*models.DiagnosticResult, len(depIDs))
	for _, depID := range depIDs {
		if r, ok := results[depID]; ok {
			subset[depID] = r
		}
	}
	return subset
}

// errorResult builds the standard error-status result for a task
// whose execution failed. Finalized results always carry a duration
// and executor identity, so both are stamped here too.
func errorResult(taskID, reason string, elapsed time.Duration) *models.DiagnosticResult {
	return &models.DiagnosticResult{
		Step:     taskID,
		Status:   models.StatusError,
		Findings: []string{reason},
		Details: map[string]any{
			models.DetailExecutor: "orchestrator",
			models.DetailDuration: elapsed.String(),
		},
	}
}

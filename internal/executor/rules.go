package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opskit/diagflow/internal/capability"
	"github.com/opskit/diagflow/internal/retry"
	"github.com/opskit/diagflow/pkg/models"
)

// Handler executes one task kind deterministically. The invoker is
// passed explicitly; handlers must not reach for shared process state.
type Handler func(ctx context.Context, ec *ExecutionContext, invoke capability.Invoker) (*models.DiagnosticResult, error)

// RuleExecutor routes tasks to handlers registered per task kind.
// Dispatch is a lookup table keyed by TaskKind, never inference from
// task identifiers.
type RuleExecutor struct {
	invoker        capability.Invoker
	handlers       map[models.TaskKind]Handler
	policy         retry.Policy
	classify       retry.Classifier
	defaultTimeout time.Duration
}

// NewRuleExecutor creates a rule-based executor over the given
// capability invoker, with handlers for every built-in task kind.
func NewRuleExecutor(invoker capability.Invoker) *RuleExecutor {
	e := &RuleExecutor{
		invoker:  invoker,
		handlers: make(map[models.TaskKind]Handler),
		policy:   retry.DefaultPolicy(),
		classify: retry.DefaultClassifier,
	}

	e.Register(models.TaskKindHealth, e.capabilityHandler)
	e.Register(models.TaskKindIndices, e.capabilityHandler)
	e.Register(models.TaskKindSearch, e.capabilityHandler)
	e.Register(models.TaskKindAnalysis, analysisHandler)
	e.Register(models.TaskKindSummary, summaryHandler)
	return e
}

// SetRetryPolicy overrides the retry policy for capability calls.
func (e *RuleExecutor) SetRetryPolicy(policy retry.Policy, classify retry.Classifier) {
	e.policy = policy
	if classify != nil {
		e.classify = classify
	}
}

// SetDefaultTimeout sets the timeout applied to tasks whose
// definition carries none. Zero disables the fallback.
func (e *RuleExecutor) SetDefaultTimeout(d time.Duration) {
	e.defaultTimeout = d
}

// Register binds a task kind to a handler, replacing any existing
// binding for that kind.
func (e *RuleExecutor) Register(kind models.TaskKind, handler Handler) {
	e.handlers[kind] = handler
}

// Identity names this executor for result attribution.
func (e *RuleExecutor) Identity() string {
	return "rule-based"
}

// ExecuteTask dispatches the task to its kind's handler.
func (e *RuleExecutor) ExecuteTask(ctx context.Context, ec *ExecutionContext) (*models.DiagnosticResult, error) {
	handler, ok := e.handlers[ec.Task.Kind]
	if !ok {
		return nil, fmt.Errorf("no handler registered for task kind %q", ec.Task.Kind)
	}

	ctx, cancel := taskContext(ctx, &ec.Task, e.defaultTimeout)
	defer cancel()

	started := time.Now()
	result, err := handler(ctx, ec, e.invoker)
	if err != nil {
		return nil, err
	}

	if result.Details == nil {
		result.Details = make(map[string]any)
	}
	result.Details[models.DetailDuration] = time.Since(started).String()
	result.Details[models.DetailExecutor] = e.Identity()
	return result, nil
}

// invokeWithRetry calls one capability, retrying transient and
// rate-limit failures per the executor's policy.
func (e *RuleExecutor) invokeWithRetry(ctx context.Context, name string, args map[string]any) (capability.Result, error) {
	var result capability.Result
	err := e.policy.Do(ctx, e.classify, func() error {
		result = e.invoker.Invoke(ctx, name, args)
		if !result.Success {
			return errors.New(result.Error)
		}
		return nil
	})
	return result, err
}

// capabilityHandler runs every capability the task declares and folds
// the outcomes into one result. Interpreting the returned data is the
// capabilities' business; this handler only reports what they said.
func (e *RuleExecutor) capabilityHandler(ctx context.Context, ec *ExecutionContext, _ capability.Invoker) (*models.DiagnosticResult, error) {
	if len(ec.Task.RequiredCapabilities) == 0 {
		return nil, fmt.Errorf("task %s declares no required capabilities", ec.Task.ID)
	}

	args := make(map[string]any, len(ec.Task.ContextRequirements))
	for _, name := range ec.Task.ContextRequirements {
		if v, ok := ec.Value(name); ok {
			args[name] = v
		}
	}

	result := &models.DiagnosticResult{
		Step:    ec.Task.ID,
		Status:  models.StatusHealthy,
		Details: make(map[string]any),
	}

	for _, name := range ec.Task.RequiredCapabilities {
		outcome, err := e.invokeWithRetry(ctx, name, args)
		if err != nil {
			return nil, fmt.Errorf("capability %s: %w", name, err)
		}
		result.Findings = append(result.Findings, fmt.Sprintf("%s: %v", name, outcome.Data))
		result.Details[name] = outcome.Data
	}
	return result, nil
}

// analysisHandler is the deterministic fallback for analysis tasks
// when no instruction-following executor is wired. It reports the
// prepared instructions so an operator can run the analysis by hand.
func analysisHandler(_ context.Context, ec *ExecutionContext, _ capability.Invoker) (*models.DiagnosticResult, error) {
	return &models.DiagnosticResult{
		Step:   ec.Task.ID,
		Status: models.StatusWarning,
		Findings: []string{
			"analysis task executed without an instruction-following executor",
		},
		Recommendations: []string{
			"rerun with an LLM executor configured to get " + ec.Task.Name + " analyzed",
		},
		Details: map[string]any{
			"instructions": InstructionsWithDependencies(ec),
		},
	}, nil
}

// summaryHandler aggregates the task's dependency results: worst
// status wins, recommendations are merged in first-seen order.
func summaryHandler(_ context.Context, ec *ExecutionContext, _ capability.Invoker) (*models.DiagnosticResult, error) {
	result := &models.DiagnosticResult{
		Step:    ec.Task.ID,
		Status:  models.StatusHealthy,
		Details: make(map[string]any),
	}

	seen := make(map[string]bool)
	counted := 0
	for _, depID := range ec.Task.Dependencies {
		dep, ok := ec.DependencyResults[depID]
		if !ok || dep == nil {
			continue
		}
		counted++
		if dep.Status.Severity() > result.Status.Severity() {
			result.Status = dep.Status
		}
		result.Findings = append(result.Findings,
			fmt.Sprintf("%s finished %s with %d findings", depID, dep.Status, len(dep.Findings)))
		for _, rec := range dep.Recommendations {
			if !seen[rec] {
				seen[rec] = true
				result.Recommendations = append(result.Recommendations, rec)
			}
		}
	}

	result.Details["summarized_tasks"] = counted
	if counted == 0 {
		result.Status = models.StatusWarning
		result.Findings = append(result.Findings, "no dependency results available to summarize")
	}
	return result, nil
}

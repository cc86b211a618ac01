package models

import "time"

// TaskKind identifies which handler a deterministic executor routes a
// task to. Kinds are an explicit dispatch key; executors must never
// infer behavior from task id substrings.
type TaskKind string

const (
	// TaskKindHealth checks overall system health via capabilities.
	TaskKindHealth TaskKind = "health"
	// TaskKindIndices inspects index-level state via capabilities.
	TaskKindIndices TaskKind = "indices"
	// TaskKindSearch probes search behavior via capabilities.
	TaskKindSearch TaskKind = "search"
	// TaskKindAnalysis is free-form analysis, typically handled by an
	// instruction-following executor.
	TaskKindAnalysis TaskKind = "analysis"
	// TaskKindSummary aggregates dependency results into a verdict.
	TaskKindSummary TaskKind = "summary"
)

// Valid returns true if the kind is a known value.
func (k TaskKind) Valid() bool {
	switch k {
	case TaskKindHealth, TaskKindIndices, TaskKindSearch, TaskKindAnalysis, TaskKindSummary:
		return true
	default:
		return false
	}
}

// TaskDefinition describes one diagnostic task inside a workflow.
type TaskDefinition struct {
	// ID is the unique identifier for this task within its workflow.
	ID string `json:"task_id"`
	// Name is the short human-readable name of the task.
	Name string `json:"name"`
	// Description explains what the task investigates.
	Description string `json:"description,omitempty"`
	// Kind selects the handler used by deterministic executors.
	Kind TaskKind `json:"kind"`
	// Instructions is a template string. {name} tokens are resolved
	// from the run context before execution.
	Instructions string `json:"instructions"`
	// RequiredCapabilities lists capability names the executor needs.
	RequiredCapabilities []string `json:"required_capabilities,omitempty"`
	// Dependencies lists task IDs that must complete before this task.
	Dependencies []string `json:"dependencies,omitempty"`
	// ContextRequirements lists context variable names the task reads.
	ContextRequirements []string `json:"context_requirements,omitempty"`
	// Timeout is the advisory per-task execution limit. The
	// orchestrator does not enforce it; executors may.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// WorkflowDefinition is an immutable, registered diagnostic workflow.
type WorkflowDefinition struct {
	// ID is the unique identifier for this workflow in the registry.
	ID string `json:"workflow_id"`
	// Name is the short human-readable name of the workflow.
	Name string `json:"name"`
	// Description explains what the workflow diagnoses.
	Description string `json:"description,omitempty"`
	// Tasks is the ordered, non-empty list of task definitions.
	// Task IDs are unique within the workflow.
	Tasks []TaskDefinition `json:"tasks"`
	// DefaultContext holds variables merged into every task's context.
	// Run-level context values take priority over these.
	DefaultContext map[string]any `json:"default_context,omitempty"`
}

// Task returns the task definition with the given ID, or nil.
func (w *WorkflowDefinition) Task(taskID string) *TaskDefinition {
	for i := range w.Tasks {
		if w.Tasks[i].ID == taskID {
			return &w.Tasks[i]
		}
	}
	return nil
}

// TaskIDs returns the workflow's task IDs in definition order.
func (w *WorkflowDefinition) TaskIDs() []string {
	ids := make([]string, 0, len(w.Tasks))
	for i := range w.Tasks {
		ids = append(ids, w.Tasks[i].ID)
	}
	return ids
}

package engine

import (
	"time"

	"github.com/opskit/diagflow/pkg/models"
)

// EventType represents the type of engine event.
type EventType string

const (
	// EventRunStarted indicates a workflow run has begun.
	EventRunStarted EventType = "run_started"
	// EventPhaseStarted indicates a phase's tasks are fanning out.
	EventPhaseStarted EventType = "phase_started"
	// EventPhaseCompleted indicates all tasks of a phase have joined.
	EventPhaseCompleted EventType = "phase_completed"
	// EventTaskStarted indicates a task has started execution.
	EventTaskStarted EventType = "task_started"
	// EventTaskCompleted indicates a task produced a result.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskFailed indicates a task's execution failed and was
	// recorded as an error-status result.
	EventTaskFailed EventType = "task_failed"
	// EventRunCompleted indicates the whole run is done.
	EventRunCompleted EventType = "run_completed"
)

// Event is a structured notification emitted by the engine. Events
// are fire-and-forget: slow or absent consumers never block a run.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// WorkflowID identifies the workflow being run.
	WorkflowID string
	// RunID identifies the run.
	RunID string
	// TaskID is the related task, if applicable.
	TaskID string
	// Phase is the zero-based phase index, if applicable.
	Phase int
	// PhaseTotal is the total number of planned phases.
	PhaseTotal int
	// Status carries the task or run status for completion events.
	Status models.HealthStatus
	// Message provides additional context about the event.
	Message string
	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Notifier receives human-oriented progress messages at phase
// boundaries. Implementations must never block or fail the run.
type Notifier interface {
	Info(message string)
	Error(message string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

// Info implements Notifier.
func (NopNotifier) Info(string) {}

// Error implements Notifier.
func (NopNotifier) Error(string) {}

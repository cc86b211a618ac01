package engine

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/opskit/diagflow/pkg/models"
)

// ErrWorkflowNotFound indicates an execute or get request named a
// workflow ID that is not registered.
var ErrWorkflowNotFound = errors.New("workflow not found")

// Registry holds the registered workflow definitions. Definitions are
// immutable once registered; they disappear only via Unregister or
// process shutdown.
type Registry struct {
	mu        sync.RWMutex
	workflows map[string]models.WorkflowDefinition
}

// NewRegistry creates an empty workflow registry.
func NewRegistry() *Registry {
	return &Registry{workflows: make(map[string]models.WorkflowDefinition)}
}

// Register adds a workflow definition. The definition must carry a
// non-empty workflow ID and a non-empty task list with unique,
// non-empty task IDs; schema-level validation beyond that is the
// loader's job, not the registry's.
func (r *Registry) Register(wf models.WorkflowDefinition) error {
	if wf.ID == "" {
		return fmt.Errorf("workflow has no ID")
	}
	if len(wf.Tasks) == 0 {
		return fmt.Errorf("workflow %s has no tasks", wf.ID)
	}

	seen := make(map[string]bool, len(wf.Tasks))
	for i := range wf.Tasks {
		id := wf.Tasks[i].ID
		if id == "" {
			return fmt.Errorf("workflow %s has a task with no ID", wf.ID)
		}
		if seen[id] {
			return fmt.Errorf("workflow %s has duplicate task ID %s", wf.ID, id)
		}
		seen[id] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.workflows[wf.ID]; exists {
		return fmt.Errorf("workflow %s is already registered", wf.ID)
	}
	r.workflows[wf.ID] = wf
	return nil
}

// Unregister removes a workflow definition. Removing an unknown ID is
// a no-op.
func (r *Registry) Unregister(workflowID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.workflows, workflowID)
}

// Get returns the workflow with the given ID.
func (r *Registry) Get(workflowID string) (models.WorkflowDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wf, ok := r.workflows[workflowID]
	return wf, ok
}

// List returns all registered workflows, sorted by ID.
func (r *Registry) List() []models.WorkflowDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.WorkflowDefinition, 0, len(r.workflows))
	for _, wf := range r.workflows {
		list = append(list, wf)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

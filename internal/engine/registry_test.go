package engine

import (
	"testing"

	"github.com/opskit/diagflow/pkg/models"
)

func definition(id string, taskIDs ...string) models.WorkflowDefinition {
	wf := models.WorkflowDefinition{ID: id, Name: id}
	for _, taskID := range taskIDs {
		wf.Tasks = append(wf.Tasks, models.TaskDefinition{ID: taskID, Kind: models.TaskKindHealth})
	}
	return wf
}

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(definition("wf", "a", "b")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wf, ok := reg.Get("wf")
	if !ok {
		t.Fatal("registered workflow not found")
	}
	if len(wf.Tasks) != 2 {
		t.Errorf("expected 2 tasks, got %d", len(wf.Tasks))
	}

	if _, ok := reg.Get("missing"); ok {
		t.Error("unknown ID should not be found")
	}
}

func TestRegistryRejectsInvalidDefinitions(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(models.WorkflowDefinition{}); err == nil {
		t.Error("empty workflow ID should be rejected")
	}
	if err := reg.Register(definition("no-tasks")); err == nil {
		t.Error("workflow without tasks should be rejected")
	}
	if err := reg.Register(definition("blank-task", "")); err == nil {
		t.Error("task without ID should be rejected")
	}
	if err := reg.Register(definition("dup-task", "a", "a")); err == nil {
		t.Error("duplicate task IDs should be rejected")
	}
}

func TestRegistryRejectsDuplicateWorkflow(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(definition("wf", "a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := reg.Register(definition("wf", "b")); err == nil {
		t.Error("re-registering the same ID should fail")
	}
}

func TestRegistryUnregister(t *testing.T) {
	reg := NewRegistry()
	reg.Register(definition("wf", "a"))
	reg.Unregister("wf")
	if _, ok := reg.Get("wf"); ok {
		t.Error("unregistered workflow still present")
	}

	// Unknown ID is a no-op.
	reg.Unregister("never-registered")
}

func TestRegistryListSorted(t *testing.T) {
	reg := NewRegistry()
	reg.Register(definition("zeta", "a"))
	reg.Register(definition("alpha", "a"))
	reg.Register(definition("mid", "a"))

	list := reg.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 workflows, got %d", len(list))
	}
	if list[0].ID != "alpha" || list[1].ID != "mid" || list[2].ID != "zeta" {
		t.Errorf("expected sorted order, got %s %s %s", list[0].ID, list[1].ID, list[2].ID)
	}
}

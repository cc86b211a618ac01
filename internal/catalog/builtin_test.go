package catalog

import (
	"context"
	"testing"

	"github.com/opskit/diagflow/internal/engine"
	"github.com/opskit/diagflow/internal/executor"
	"github.com/opskit/diagflow/internal/graph"
	"github.com/opskit/diagflow/pkg/models"
)

func TestBuiltinsWellFormed(t *testing.T) {
	builtins := Builtins()
	if len(builtins) == 0 {
		t.Fatal("no built-in workflows")
	}

	for _, wf := range builtins {
		if wf.ID == "" || wf.Name == "" {
			t.Errorf("workflow %q missing ID or name", wf.ID)
		}
		ids := make(map[string]bool, len(wf.Tasks))
		for _, task := range wf.Tasks {
			if !task.Kind.Valid() {
				t.Errorf("%s/%s: invalid kind %q", wf.ID, task.ID, task.Kind)
			}
			ids[task.ID] = true
		}
		for _, task := range wf.Tasks {
			for _, dep := range task.Dependencies {
				if !ids[dep] {
					t.Errorf("%s/%s: dependency %q not in workflow", wf.ID, task.ID, dep)
				}
			}
		}
	}
}

func TestBuiltinsResolvable(t *testing.T) {
	for _, wf := range Builtins() {
		deps := graph.Build(wf.Tasks)
		if graph.Unresolvable(wf.Tasks, deps) {
			t.Errorf("workflow %s has an unresolvable graph", wf.ID)
		}
		phases := graph.PlanPhases(wf.Tasks, deps)
		planned := 0
		for _, phase := range phases {
			planned += len(phase)
		}
		if planned != len(wf.Tasks) {
			t.Errorf("workflow %s: plan covers %d of %d tasks", wf.ID, planned, len(wf.Tasks))
		}
	}
}

func TestRegisterBuiltins(t *testing.T) {
	reg := engine.NewRegistry()
	if err := RegisterBuiltins(reg); err != nil {
		t.Fatalf("register builtins: %v", err)
	}
	if got := len(reg.List()); got != len(Builtins()) {
		t.Errorf("expected %d registered workflows, got %d", len(Builtins()), got)
	}
}

func TestSampleCapabilitiesCoverBuiltins(t *testing.T) {
	samples := SampleCapabilities()
	for _, wf := range Builtins() {
		for _, task := range wf.Tasks {
			for _, name := range task.RequiredCapabilities {
				if !samples.Has(name) {
					t.Errorf("%s/%s: no sample capability %q", wf.ID, task.ID, name)
				}
			}
		}
	}
}

func TestBuiltinsRunEndToEnd(t *testing.T) {
	reg := engine.NewRegistry()
	if err := RegisterBuiltins(reg); err != nil {
		t.Fatal(err)
	}
	o := engine.New(reg, executor.NewRuleExecutor(SampleCapabilities()))

	for _, wf := range Builtins() {
		result, err := o.Execute(context.Background(), wf.ID, nil)
		if err != nil {
			t.Fatalf("execute %s: %v", wf.ID, err)
		}
		if len(result.TaskResults) != len(wf.Tasks) {
			t.Errorf("%s: expected %d results, got %d", wf.ID, len(wf.Tasks), len(result.TaskResults))
		}
		// Sample data never fails, so the run should never be an error.
		if result.Status == models.StatusError {
			t.Errorf("%s: unexpected error status", wf.ID)
		}
	}
}

package executor

import (
	"strings"
	"testing"

	"github.com/opskit/diagflow/pkg/models"
)

func TestResolveInstructions(t *testing.T) {
	ec := &ExecutionContext{
		Task: models.TaskDefinition{
			Instructions: "Check {index_pattern} over the last {time_range}",
		},
		Diagnostic: map[string]any{"time_range": "24h"},
		Defaults:   map[string]any{"index_pattern": "logs-*"},
	}

	got := ResolveInstructions(ec)
	want := "Check logs-* over the last 24h"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveInstructionsDiagnosticPriority(t *testing.T) {
	ec := &ExecutionContext{
		Task:       models.TaskDefinition{Instructions: "focus: {focus}"},
		Diagnostic: map[string]any{"focus": "latency"},
		Defaults:   map[string]any{"focus": "general"},
	}
	if got := ResolveInstructions(ec); got != "focus: latency" {
		t.Errorf("diagnostic context should win, got %q", got)
	}
}

func TestResolveInstructionsUnknownTokenPassesThrough(t *testing.T) {
	ec := &ExecutionContext{
		Task: models.TaskDefinition{Instructions: "value is {unknown_var}"},
	}
	if got := ResolveInstructions(ec); got != "value is {unknown_var}" {
		t.Errorf("unresolved token should pass through verbatim, got %q", got)
	}
}

func TestResolveInstructionsNonStringValues(t *testing.T) {
	ec := &ExecutionContext{
		Task:       models.TaskDefinition{Instructions: "threshold {threshold}ms"},
		Diagnostic: map[string]any{"threshold": 500},
	}
	if got := ResolveInstructions(ec); got != "threshold 500ms" {
		t.Errorf("got %q", got)
	}
}

func TestDependencySummaryEmpty(t *testing.T) {
	ec := &ExecutionContext{Task: models.TaskDefinition{Dependencies: []string{"a"}}}
	if got := DependencySummary(ec); got != "" {
		t.Errorf("no completed dependencies should produce empty summary, got %q", got)
	}
}

func TestDependencySummaryOrderAndTruncation(t *testing.T) {
	ec := &ExecutionContext{
		Task: models.TaskDefinition{Dependencies: []string{"first", "second"}},
		DependencyResults: map[string]*models.DiagnosticResult{
			"second": {
				Step:     "second",
				Status:   models.StatusWarning,
				Findings: []string{"f1", "f2", "f3", "f4", "f5"},
			},
			"first": {
				Step:     "first",
				Status:   models.StatusHealthy,
				Findings: []string{"all good"},
				Details:  map[string]any{models.DetailDuration: "120ms"},
			},
		},
	}

	got := DependencySummary(ec)
	firstIdx := strings.Index(got, "first: healthy")
	secondIdx := strings.Index(got, "second: warning")
	if firstIdx < 0 || secondIdx < 0 {
		t.Fatalf("missing dependency lines in summary:\n%s", got)
	}
	if firstIdx > secondIdx {
		t.Error("dependencies should appear in declaration order")
	}
	if !strings.Contains(got, "(2 more findings omitted)") {
		t.Errorf("expected truncation marker for findings beyond 3:\n%s", got)
	}
	if strings.Contains(got, "f4") {
		t.Error("findings past the cap should not appear")
	}
	if !strings.Contains(got, "duration: 120ms") {
		t.Errorf("expected duration detail surfaced:\n%s", got)
	}
}

func TestInstructionsWithDependencies(t *testing.T) {
	ec := &ExecutionContext{
		Task: models.TaskDefinition{
			Instructions: "Analyze {focus}",
			Dependencies: []string{"dep"},
		},
		Diagnostic: map[string]any{"focus": "shards"},
		DependencyResults: map[string]*models.DiagnosticResult{
			"dep": {Step: "dep", Status: models.StatusCritical, Findings: []string{"red index"}},
		},
	}

	got := InstructionsWithDependencies(ec)
	if !strings.HasPrefix(got, "Analyze shards") {
		t.Errorf("resolved instructions should lead:\n%s", got)
	}
	if !strings.Contains(got, "dep: critical") {
		t.Errorf("dependency summary should be appended:\n%s", got)
	}
}

func TestExecutionContextValue(t *testing.T) {
	ec := &ExecutionContext{
		Diagnostic: map[string]any{"a": 1},
		Defaults:   map[string]any{"a": 2, "b": 3},
	}
	if v, ok := ec.Value("a"); !ok || v != 1 {
		t.Errorf("expected diagnostic value 1, got %v", v)
	}
	if v, ok := ec.Value("b"); !ok || v != 3 {
		t.Errorf("expected default value 3, got %v", v)
	}
	if _, ok := ec.Value("c"); ok {
		t.Error("missing variable should not be found")
	}
}

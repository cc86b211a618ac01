package executor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/opskit/diagflow/internal/retry"
	"github.com/opskit/diagflow/pkg/models"
)

// completerFunc adapts a function to the Completer interface.
type completerFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

func (f completerFunc) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f(ctx, systemPrompt, userPrompt)
}

func TestAgentExecutorParsesReply(t *testing.T) {
	reply := `STATUS: critical
FINDINGS:
- heap pressure above 90%
- old GC runs every 3s
RECOMMENDATIONS:
- increase heap or add nodes`

	e := NewAgentExecutor(completerFunc(func(_ context.Context, _, prompt string) (string, error) {
		if !strings.Contains(prompt, "Check heap on node-1") {
			t.Errorf("resolved instructions should reach the model, got %q", prompt)
		}
		return reply, nil
	}))

	ec := &ExecutionContext{
		Task: models.TaskDefinition{
			ID:           "heap-check",
			Kind:         models.TaskKindAnalysis,
			Instructions: "Check heap on {node}",
		},
		Diagnostic: map[string]any{"node": "node-1"},
	}

	result, err := e.ExecuteTask(context.Background(), ec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != models.StatusCritical {
		t.Errorf("expected critical, got %s", result.Status)
	}
	if len(result.Findings) != 2 {
		t.Errorf("expected 2 findings, got %v", result.Findings)
	}
	if len(result.Recommendations) != 1 {
		t.Errorf("expected 1 recommendation, got %v", result.Recommendations)
	}
	if result.Detail(models.DetailExecutor) != "llm-agent" {
		t.Errorf("expected llm-agent attribution, got %v", result.Detail(models.DetailExecutor))
	}
}

func TestAgentExecutorRetriesRateLimit(t *testing.T) {
	calls := 0
	e := NewAgentExecutor(completerFunc(func(context.Context, string, string) (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New("429 rate limit, try again in 0.001s")
		}
		return "STATUS: healthy", nil
	}))
	e.SetRetryPolicy(retry.Policy{MaxRetries: 2, BaseDelay: 1, ExponentialBase: 2.0}, nil)

	ec := &ExecutionContext{Task: models.TaskDefinition{ID: "t", Kind: models.TaskKindAnalysis}}
	result, err := e.ExecuteTask(context.Background(), ec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected one retry, got %d calls", calls)
	}
	if result.Status != models.StatusHealthy {
		t.Errorf("expected healthy, got %s", result.Status)
	}
}

func TestAgentExecutorFatalFailure(t *testing.T) {
	e := NewAgentExecutor(completerFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("invalid api key")
	}))

	ec := &ExecutionContext{Task: models.TaskDefinition{ID: "t", Kind: models.TaskKindAnalysis}}
	if _, err := e.ExecuteTask(context.Background(), ec); err == nil {
		t.Fatal("fatal API failure should surface as error")
	}
}

func TestParseAgentReplyFormats(t *testing.T) {
	t.Run("case insensitive status", func(t *testing.T) {
		r := parseAgentReply("t", "status: WARNING\nFINDINGS:\n- something")
		if r.Status != models.StatusWarning {
			t.Errorf("got %s", r.Status)
		}
	})

	t.Run("invalid status ignored", func(t *testing.T) {
		r := parseAgentReply("t", "STATUS: splendid\nFINDINGS:\n- item")
		if r.Status != models.StatusWarning {
			t.Errorf("invalid status should keep the warning default, got %s", r.Status)
		}
		if len(r.Findings) != 1 {
			t.Errorf("findings should still parse, got %v", r.Findings)
		}
	})

	t.Run("free text degrades to finding", func(t *testing.T) {
		r := parseAgentReply("t", "Everything looks broken to me.")
		if r.Status != models.StatusWarning {
			t.Errorf("unparseable reply should warn, got %s", r.Status)
		}
		if len(r.Findings) != 1 || r.Findings[0] != "Everything looks broken to me." {
			t.Errorf("raw text should become the finding, got %v", r.Findings)
		}
	})

	t.Run("empty bullet skipped", func(t *testing.T) {
		r := parseAgentReply("t", "STATUS: healthy\nFINDINGS:\n-\n- real finding")
		if len(r.Findings) != 1 {
			t.Errorf("empty bullets should be dropped, got %v", r.Findings)
		}
	})
}

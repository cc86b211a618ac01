package executor

import (
	"context"
	"strings"
	"time"

	"github.com/opskit/diagflow/internal/retry"
	"github.com/opskit/diagflow/pkg/models"
)

// Completer is the narrow LLM surface the agent executor needs. The
// llm.Client satisfies it; tests inject function-backed fakes.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const agentSystemPrompt = `You are a diagnostics analyst for search infrastructure.
Execute the diagnostic instructions you are given and respond in exactly this format:

STATUS: one of healthy, warning, critical
FINDINGS:
- one observation per line
RECOMMENDATIONS:
- one suggested action per line

Base findings only on the data included in the instructions. If the data
is insufficient, say so in a finding rather than guessing.`

// AgentExecutor delegates task instructions to an LLM backend. It
// resolves the instruction template, appends dependency summaries,
// and parses the model's sectioned reply into a DiagnosticResult.
type AgentExecutor struct {
	completer      Completer
	policy         retry.Policy
	classify       retry.Classifier
	defaultTimeout time.Duration
	identity       string
}

// NewAgentExecutor creates an instruction-following executor over the
// given completion backend.
func NewAgentExecutor(completer Completer) *AgentExecutor {
	return &AgentExecutor{
		completer: completer,
		policy:    retry.DefaultPolicy(),
		classify:  retry.DefaultClassifier,
		identity:  "llm-agent",
	}
}

// SetRetryPolicy overrides the retry policy for LLM calls.
func (e *AgentExecutor) SetRetryPolicy(policy retry.Policy, classify retry.Classifier) {
	e.policy = policy
	if classify != nil {
		e.classify = classify
	}
}

// SetDefaultTimeout sets the timeout applied to tasks whose
// definition carries none. Zero disables the fallback.
func (e *AgentExecutor) SetDefaultTimeout(d time.Duration) {
	e.defaultTimeout = d
}

// Identity names this executor for result attribution.
func (e *AgentExecutor) Identity() string {
	return e.identity
}

// ExecuteTask prepares the task's instructions and asks the LLM to
// perform the analysis. Rate-limited and transient API failures are
// retried; the final failure is returned to the orchestrator.
func (e *AgentExecutor) ExecuteTask(ctx context.Context, ec *ExecutionContext) (*models.DiagnosticResult, error) {
	ctx, cancel := taskContext(ctx, &ec.Task, e.defaultTimeout)
	defer cancel()

	prompt := InstructionsWithDependencies(ec)

	started := time.Now()
	var reply string
	err := e.policy.Do(ctx, e.classify, func() error {
		var callErr error
		reply, callErr = e.completer.Complete(ctx, agentSystemPrompt, prompt)
		return callErr
	})
	if err != nil {
		return nil, err
	}

	result := parseAgentReply(ec.Task.ID, reply)
	result.Details[models.DetailDuration] = time.Since(started).String()
	result.Details[models.DetailExecutor] = e.identity
	return result, nil
}

// parseAgentReply converts the model's sectioned text into a result.
// Replies that do not follow the format degrade to a warning carrying
// the raw text, never to an error.
func parseAgentReply(taskID, reply string) *models.DiagnosticResult {
	result := &models.DiagnosticResult{
		Step:    taskID,
		Status:  models.StatusWarning,
		Details: make(map[string]any),
	}

	section := ""
	sawStatus := false
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(strings.ToUpper(line), "STATUS:"):
			value := strings.ToLower(strings.TrimSpace(line[len("STATUS:"):]))
			status := models.HealthStatus(value)
			if status.Valid() {
				result.Status = status
				sawStatus = true
			}
			section = ""
		case strings.EqualFold(line, "FINDINGS:"):
			section = "findings"
		case strings.EqualFold(line, "RECOMMENDATIONS:"):
			section = "recommendations"
		case strings.HasPrefix(line, "-"):
			item := strings.TrimSpace(strings.TrimPrefix(line, "-"))
			if item == "" {
				continue
			}
			switch section {
			case "findings":
				result.Findings = append(result.Findings, item)
			case "recommendations":
				result.Recommendations = append(result.Recommendations, item)
			}
		}
	}

	if !sawStatus && len(result.Findings) == 0 {
		result.Findings = []string{strings.TrimSpace(reply)}
	}
	return result
}

package executor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/opskit/diagflow/pkg/models"
)

// tokenPattern matches {name} placeholders in instruction templates.
var tokenPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ResolveInstructions substitutes {name} tokens in the task's
// instruction template from the execution context, diagnostic context
// first, then workflow defaults. Tokens with no matching value pass
// through verbatim; unresolved placeholders are never an error.
func ResolveInstructions(ec *ExecutionContext) string {
	return tokenPattern.ReplaceAllStringFunc(ec.Task.Instructions, func(token string) string {
		name := token[1 : len(token)-1]
		if v, ok := ec.Value(name); ok {
			return fmt.Sprintf("%v", v)
		}
		return token
	})
}

// maxSummaryFindings caps how many findings of each dependency are
// carried into a downstream task's instructions.
const maxSummaryFindings = 3

// summaryDetailKeys are the detail entries worth surfacing to
// downstream tasks.
var summaryDetailKeys = []string{models.DetailExecutor, models.DetailDuration}

// DependencySummary renders the results of the task's direct
// dependencies, in dependency declaration order, for appending to the
// resolved instructions. Returns "" when the task has no completed
// dependencies.
func DependencySummary(ec *ExecutionContext) string {
	if len(ec.DependencyResults) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Results from prerequisite diagnostics:\n")
	for _, depID := range ec.Task.Dependencies {
		result, ok := ec.DependencyResults[depID]
		if !ok || result == nil {
			continue
		}

		fmt.Fprintf(&sb, "- %s: %s\n", depID, result.Status)
		for i, finding := range result.Findings {
			if i >= maxSummaryFindings {
				fmt.Fprintf(&sb, "    (%d more findings omitted)\n", len(result.Findings)-maxSummaryFindings)
				break
			}
			fmt.Fprintf(&sb, "    finding: %s\n", finding)
		}
		for _, key := range summaryDetailKeys {
			if v := result.Detail(key); v != nil {
				fmt.Fprintf(&sb, "    %s: %v\n", key, v)
			}
		}
	}
	return sb.String()
}

// InstructionsWithDependencies returns the fully prepared instruction
// text for a task: resolved template plus dependency summaries.
func InstructionsWithDependencies(ec *ExecutionContext) string {
	instructions := ResolveInstructions(ec)
	summary := DependencySummary(ec)
	if summary == "" {
		return instructions
	}
	return instructions + "\n\n" + summary
}

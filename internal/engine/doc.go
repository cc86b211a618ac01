// Package engine coordinates diagnostic workflow runs: it plans
// execution phases from each workflow's dependency graph, fans task
// executions out within a phase, joins at phase boundaries, and
// aggregates per-task results into a WorkflowResult.
package engine

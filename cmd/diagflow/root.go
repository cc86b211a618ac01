package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "diagflow",
	Short: "Phase-based diagnostic workflow runner",
	Long: `Diagflow runs diagnostic workflows against search infrastructure.

A workflow is a set of tasks with dependencies between them. Diagflow
plans the tasks into phases, runs each phase's tasks in parallel, and
threads results from earlier tasks into the ones that depend on them.

Individual diagnostics are performed by capabilities: either bundled
sample data, an MCP tool server, or an LLM analyst for free-form
analysis tasks.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(workflowsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

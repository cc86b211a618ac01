package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/opskit/diagflow/internal/catalog"
	"github.com/opskit/diagflow/internal/engine"
	"github.com/opskit/diagflow/internal/graph"
)

var workflowsCmd = &cobra.Command{
	Use:   "workflows [workflow-id]",
	Short: "List registered workflows or show one workflow's plan",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := engine.NewRegistry()
		if err := catalog.RegisterBuiltins(registry); err != nil {
			return err
		}

		if len(args) == 0 {
			for _, wf := range registry.List() {
				fmt.Printf("%s  %s\n", color.New(color.Bold).Sprint(wf.ID), wf.Description)
			}
			return nil
		}

		wf, ok := registry.Get(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", engine.ErrWorkflowNotFound, args[0])
		}

		fmt.Printf("%s — %s\n%s\n\n", color.New(color.Bold).Sprint(wf.ID), wf.Name, wf.Description)

		deps := graph.Build(wf.Tasks)
		phases := graph.PlanPhases(wf.Tasks, deps)
		for phaseIdx, phase := range phases {
			fmt.Printf("Phase %d\n", phaseIdx+1)
			for _, taskID := range phase {
				task := wf.Task(taskID)
				fmt.Printf("  %s (%s)", taskID, task.Kind)
				if len(task.Dependencies) > 0 {
					fmt.Printf("  after %v", task.Dependencies)
				}
				fmt.Println()
			}
		}
		fmt.Printf("\nParallel efficiency: %.2f\n", graph.ParallelEfficiency(len(phases), len(wf.Tasks)))
		return nil
	},
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/opskit/diagflow/pkg/models"
)

// renderReport prints a workflow result in the requested format.
func renderReport(result *models.WorkflowResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(result)
	case "", "text":
		renderTextReport(result)
		return nil
	default:
		return fmt.Errorf("unknown output format %q, want text, json, or yaml", format)
	}
}

// renderTextReport prints the human-readable report.
func renderTextReport(result *models.WorkflowResult) {
	fmt.Printf("Workflow %s (run %s): %s in %s\n\n",
		result.WorkflowID, result.RunID,
		coloredStatus(result.Status),
		result.ExecutionTime.Round(time.Millisecond))

	for phaseIdx, phase := range result.ExecutionOrder {
		fmt.Printf("Phase %d\n", phaseIdx+1)
		for _, taskID := range phase {
			taskResult, ok := result.TaskResults[taskID]
			if !ok {
				fmt.Printf("  %s: no result recorded\n", taskID)
				continue
			}
			fmt.Printf("  %s %s\n", coloredStatus(taskResult.Status), taskID)
			for _, finding := range taskResult.Findings {
				fmt.Printf("      %s\n", finding)
			}
		}
	}

	fmt.Printf("\nParallel efficiency: %.2f\n", result.Summary.ParallelEfficiency)

	if len(result.Summary.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range result.Summary.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}
}

// coloredStatus renders a status with its conventional color.
func coloredStatus(status models.HealthStatus) string {
	switch status {
	case models.StatusHealthy:
		return color.GreenString(string(status))
	case models.StatusWarning:
		return color.YellowString(string(status))
	case models.StatusCritical:
		return color.RedString(string(status))
	case models.StatusError:
		return color.New(color.FgRed, color.Bold).Sprint(string(status))
	default:
		return string(status)
	}
}

package engine

import (
	"github.com/opskit/diagflow/internal/graph"
	"github.com/opskit/diagflow/pkg/models"
)

// maxTopFindings caps how many findings the run summary carries.
const maxTopFindings = 10

// buildSummary aggregates task results into the run summary. Results
// are walked in phase-major order so recommendation deduplication and
// finding selection are deterministic.
func buildSummary(phases [][]string, results map[string]*models.DiagnosticResult) models.Summary {
	summary := models.Summary{
		StatusCounts:       make(map[models.HealthStatus]int),
		ParallelEfficiency: graph.ParallelEfficiency(len(phases), len(results)),
	}

	seenRecs := make(map[string]bool)
	for _, phase := range phases {
		for _, taskID := range phase {
			result, ok := results[taskID]
			if !ok || result == nil {
				continue
			}

			summary.StatusCounts[result.Status]++

			for _, rec := range result.Recommendations {
				if !seenRecs[rec] {
					seenRecs[rec] = true
					summary.Recommendations = append(summary.Recommendations, rec)
				}
			}

			for _, finding := range result.Findings {
				if len(summary.TopFindings) < maxTopFindings {
					summary.TopFindings = append(summary.TopFindings, finding)
				}
			}
		}
	}

	return summary
}

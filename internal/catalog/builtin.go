// Package catalog ships the built-in diagnostic workflow definitions
// and registers them with the engine. Definitions are data only; what
// each task actually does lives behind the capability contract.
package catalog

import (
	"time"

	"github.com/opskit/diagflow/internal/engine"
	"github.com/opskit/diagflow/pkg/models"
)

// Builtins returns the built-in workflow definitions.
func Builtins() []models.WorkflowDefinition {
	return []models.WorkflowDefinition{
		clusterTriage(),
		indexReview(),
		searchPerformance(),
	}
}

// RegisterBuiltins registers every built-in workflow with the registry.
func RegisterBuiltins(reg *engine.Registry) error {
	for _, wf := range Builtins() {
		if err := reg.Register(wf); err != nil {
			return err
		}
	}
	return nil
}

func clusterTriage() models.WorkflowDefinition {
	return models.WorkflowDefinition{
		ID:          "cluster-triage",
		Name:        "Cluster Triage",
		Description: "First-response health check across the cluster: health, nodes, and indices in parallel, then a combined verdict.",
		DefaultContext: map[string]any{
			"time_range": "15m",
			"focus":      "all",
		},
		Tasks: []models.TaskDefinition{
			{
				ID:                   "cluster-health",
				Name:                 "Cluster health",
				Kind:                 models.TaskKindHealth,
				Instructions:         "Check overall cluster health for the last {time_range}.",
				RequiredCapabilities: []string{"cluster_health"},
				ContextRequirements:  []string{"time_range"},
				Timeout:              30 * time.Second,
			},
			{
				ID:                   "node-stats",
				Name:                 "Node statistics",
				Kind:                 models.TaskKindHealth,
				Instructions:         "Collect node-level resource statistics for the last {time_range}.",
				RequiredCapabilities: []string{"node_stats"},
				ContextRequirements:  []string{"time_range"},
				Timeout:              30 * time.Second,
			},
			{
				ID:                   "index-overview",
				Name:                 "Index overview",
				Kind:                 models.TaskKindIndices,
				Instructions:         "List indices and their basic state, focused on {focus}.",
				RequiredCapabilities: []string{"list_indices"},
				ContextRequirements:  []string{"focus"},
				Timeout:              30 * time.Second,
			},
			{
				ID:                  "bottleneck-analysis",
				Name:                "Bottleneck analysis",
				Kind:                models.TaskKindAnalysis,
				Instructions:        "Given the cluster health and node statistics below, identify resource bottlenecks and their likely causes. Time range: {time_range}.",
				Dependencies:        []string{"cluster-health", "node-stats"},
				ContextRequirements: []string{"time_range"},
				Timeout:             2 * time.Minute,
			},
			{
				ID:           "triage-summary",
				Name:         "Triage summary",
				Kind:         models.TaskKindSummary,
				Instructions: "Summarize the triage outcome.",
				Dependencies: []string{"cluster-health", "node-stats", "index-overview", "bottleneck-analysis"},
			},
		},
	}
}

func indexReview() models.WorkflowDefinition {
	return models.WorkflowDefinition{
		ID:          "index-review",
		Name:        "Index Review",
		Description: "Reviews index layout: shard balance and mapping hygiene after an index inventory.",
		DefaultContext: map[string]any{
			"index_pattern": "*",
		},
		Tasks: []models.TaskDefinition{
			{
				ID:                   "index-inventory",
				Name:                 "Index inventory",
				Kind:                 models.TaskKindIndices,
				Instructions:         "List indices matching {index_pattern} with sizes and document counts.",
				RequiredCapabilities: []string{"list_indices"},
				ContextRequirements:  []string{"index_pattern"},
				Timeout:              30 * time.Second,
			},
			{
				ID:                   "shard-balance",
				Name:                 "Shard balance",
				Kind:                 models.TaskKindIndices,
				Instructions:         "Check shard distribution for indices matching {index_pattern}.",
				RequiredCapabilities: []string{"shard_allocation"},
				Dependencies:         []string{"index-inventory"},
				ContextRequirements:  []string{"index_pattern"},
				Timeout:              30 * time.Second,
			},
			{
				ID:                  "mapping-audit",
				Name:                "Mapping audit",
				Kind:                models.TaskKindAnalysis,
				Instructions:        "Review the index inventory below for mapping problems: oversized mappings, dynamic mapping explosions, deprecated field types. Pattern: {index_pattern}.",
				Dependencies:        []string{"index-inventory"},
				ContextRequirements: []string{"index_pattern"},
				Timeout:             2 * time.Minute,
			},
			{
				ID:           "review-summary",
				Name:         "Review summary",
				Kind:         models.TaskKindSummary,
				Instructions: "Summarize the index review.",
				Dependencies: []string{"shard-balance", "mapping-audit"},
			},
		},
	}
}

func searchPerformance() models.WorkflowDefinition {
	return models.WorkflowDefinition{
		ID:          "search-performance",
		Name:        "Search Performance",
		Description: "Investigates slow search behavior: slowlog, latency profile, and cache pressure feeding one analysis.",
		DefaultContext: map[string]any{
			"time_range": "1h",
			"threshold":  "500ms",
		},
		Tasks: []models.TaskDefinition{
			{
				ID:                   "slow-queries",
				Name:                 "Slow queries",
				Kind:                 models.TaskKindSearch,
				Instructions:         "Fetch search slowlog entries above {threshold} from the last {time_range}.",
				RequiredCapabilities: []string{"search_slowlog"},
				ContextRequirements:  []string{"time_range", "threshold"},
				Timeout:              time.Minute,
			},
			{
				ID:                   "latency-profile",
				Name:                 "Latency profile",
				Kind:                 models.TaskKindSearch,
				Instructions:         "Profile search latency percentiles over the last {time_range}.",
				RequiredCapabilities: []string{"search_latency"},
				ContextRequirements:  []string{"time_range"},
				Timeout:              time.Minute,
			},
			{
				ID:                   "cache-stats",
				Name:                 "Cache statistics",
				Kind:                 models.TaskKindHealth,
				Instructions:         "Collect query and request cache statistics.",
				RequiredCapabilities: []string{"cache_stats"},
				Timeout:              30 * time.Second,
			},
			{
				ID:                  "perf-analysis",
				Name:                "Performance analysis",
				Kind:                models.TaskKindAnalysis,
				Instructions:        "Using the slowlog, latency profile, and cache statistics below, explain where search time is going and what to tune first. Threshold of interest: {threshold}.",
				Dependencies:        []string{"slow-queries", "latency-profile", "cache-stats"},
				ContextRequirements: []string{"threshold"},
				Timeout:             2 * time.Minute,
			},
			{
				ID:           "perf-summary",
				Name:         "Performance summary",
				Kind:         models.TaskKindSummary,
				Instructions: "Summarize the performance investigation.",
				Dependencies: []string{"perf-analysis"},
			},
		},
	}
}

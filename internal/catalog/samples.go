package catalog

import (
	"context"
	"fmt"

	"github.com/opskit/diagflow/internal/capability"
)

// SampleCapabilities returns an in-process capability registry with
// canned data for every capability the built-in workflows declare.
// It exists so the engine can be exercised end to end without a live
// cluster; real deployments inject an MCP-backed invoker instead.
func SampleCapabilities() *capability.Registry {
	reg := capability.NewRegistry()

	canned := map[string]any{
		"cluster_health": map[string]any{
			"status": "green", "nodes": 3, "unassigned_shards": 0,
		},
		"node_stats": map[string]any{
			"heap_used_percent": 62, "cpu_percent": 41, "disk_free_percent": 55,
		},
		"list_indices": []map[string]any{
			{"index": "logs-2026.08", "docs": 1823400, "size": "9.2gb", "health": "green"},
			{"index": "metrics-2026.08", "docs": 421500, "size": "2.1gb", "health": "green"},
		},
		"shard_allocation": map[string]any{
			"balanced": true, "relocating": 0,
		},
		"search_slowlog": []map[string]any{
			{"index": "logs-2026.08", "took": "740ms", "query": "wildcard on message"},
		},
		"search_latency": map[string]any{
			"p50": "35ms", "p95": "210ms", "p99": "890ms",
		},
		"cache_stats": map[string]any{
			"query_cache_hit_rate": 0.84, "request_cache_evictions": 12,
		},
	}

	for name, data := range canned {
		data := data
		reg.Register(name, func(_ context.Context, _ map[string]any) (any, error) {
			return fmt.Sprintf("(sample data) %v", data), nil
		})
	}

	return reg
}

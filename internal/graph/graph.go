// Package graph builds task dependency graphs and plans their
// phase-by-phase execution order.
package graph

import (
	"github.com/opskit/diagflow/pkg/models"
)

// Build constructs the dependency adjacency map for a task list.
// Each task's dependency list is copied verbatim, keyed by task ID.
// Referenced IDs are not validated here: registration is expected to
// have checked them, and the planner treats unknown IDs as never
// satisfiable rather than failing.
func Build(tasks []models.TaskDefinition) map[string][]string {
	deps := make(map[string][]string, len(tasks))
	for i := range tasks {
		task := &tasks[i]
		copied := make([]string, len(task.Dependencies))
		copy(copied, task.Dependencies)
		deps[task.ID] = copied
	}
	return deps
}

// HasCycle reports whether the dependency map contains a cycle.
// Uses depth-first search with coloring to detect back edges. Edges
// pointing at IDs absent from the map are ignored; the planner handles
// those as unsatisfiable instead.
func HasCycle(deps map[string][]string) bool {
	// Color states: 0 = white (unvisited), 1 = gray (in progress), 2 = black (done).
	colors := make(map[string]int, len(deps))

	var visit func(id string) bool
	visit = func(id string) bool {
		colors[id] = 1

		for _, depID := range deps[id] {
			if _, known := deps[depID]; !known {
				continue
			}
			switch colors[depID] {
			case 1:
				// Back edge, cycle found.
				return true
			case 0:
				if visit(depID) {
					return true
				}
			}
		}

		colors[id] = 2
		return false
	}

	for id := range deps {
		if colors[id] == 0 {
			if visit(id) {
				return true
			}
		}
	}
	return false
}

// Dependents returns the reverse adjacency: for each task, the IDs of
// tasks that list it as a dependency, in the iteration order of ids.
func Dependents(ids []string, deps map[string][]string) map[string][]string {
	rev := make(map[string][]string, len(ids))
	for _, id := range ids {
		rev[id] = nil
	}
	for _, id := range ids {
		for _, depID := range deps[id] {
			rev[depID] = append(rev[depID], id)
		}
	}
	return rev
}

package graph

import (
	"github.com/opskit/diagflow/pkg/models"
)

// PlanPhases converts a task list and its dependency map into an
// ordered list of execution phases using wave-level topological
// sorting. A phase holds every not-yet-scheduled task whose
// dependencies are all satisfied by earlier phases; tasks within a
// phase keep their definition order, so the plan is deterministic for
// a deterministic input ordering.
//
// If at some point no task is ready but tasks remain (a cycle, or a
// dependency on an ID that is not in the workflow), the remaining
// tasks are flushed into one final phase instead of looping forever.
// Callers that want to fail hard on that condition can check
// Unresolvable first.
func PlanPhases(tasks []models.TaskDefinition, deps map[string][]string) [][]string {
	completed := make(map[string]bool, len(tasks))
	scheduled := make(map[string]bool, len(tasks))
	remaining := len(tasks)

	var phases [][]string
	for remaining > 0 {
		var ready []string
		for i := range tasks {
			id := tasks[i].ID
			if scheduled[id] {
				continue
			}
			satisfied := true
			for _, depID := range deps[id] {
				if !completed[depID] {
					satisfied = false
					break
				}
			}
			if satisfied {
				ready = append(ready, id)
			}
		}

		if len(ready) == 0 {
			// Unresolvable graph: flush everything left as a terminal
			// phase so the run still terminates and reports per task.
			var flush []string
			for i := range tasks {
				if !scheduled[tasks[i].ID] {
					flush = append(flush, tasks[i].ID)
				}
			}
			phases = append(phases, flush)
			break
		}

		for _, id := range ready {
			scheduled[id] = true
			completed[id] = true
		}
		remaining -= len(ready)
		phases = append(phases, ready)
	}

	return phases
}

// Unresolvable reports whether the task list cannot be fully ordered:
// either the dependency map has a cycle, or a task depends on an ID
// that no task in the list carries.
func Unresolvable(tasks []models.TaskDefinition, deps map[string][]string) bool {
	for i := range tasks {
		for _, depID := range tasks[i].Dependencies {
			if _, known := deps[depID]; !known {
				return true
			}
		}
	}
	return HasCycle(deps)
}

// ParallelEfficiency scores a phase plan in [0,1]: 1.0 means every
// task ran in a single phase, 0.0 means fully serialized. A plan for
// one task (or none) is trivially efficient.
func ParallelEfficiency(phaseCount, taskCount int) float64 {
	if taskCount <= 1 {
		return 1.0
	}
	eff := 1.0 - float64(phaseCount-1)/float64(taskCount-1)
	if eff < 0 {
		eff = 0
	}
	if eff > 1 {
		eff = 1
	}
	return eff
}

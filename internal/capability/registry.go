// Package capability defines the narrow contract through which task
// executors reach external diagnostic operations, plus an in-process
// registry implementation.
package capability

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Result is the outcome of one capability invocation.
type Result struct {
	// Success indicates the capability ran and produced usable data.
	Success bool `json:"success"`
	// Data is the capability's payload when Success is true.
	Data any `json:"data,omitempty"`
	// Error describes the failure when Success is false.
	Error string `json:"error,omitempty"`
}

// Invoker invokes a named capability with the given arguments.
// Implementations must be safe for concurrent use within a single
// workflow run.
type Invoker interface {
	Invoke(ctx context.Context, name string, args map[string]any) Result
}

// Func is a single registered capability implementation.
type Func func(ctx context.Context, args map[string]any) (any, error)

// Registry is an in-process Invoker backed by named Go functions.
// Capabilities are registered at wiring time; invocation is read-only
// and safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry creates an empty capability registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register binds a capability name to an implementation. Registering
// an existing name replaces the previous implementation.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
}

// Names returns the registered capability names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a capability is registered under the name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.funcs[name]
	return ok
}

// Invoke runs the named capability. Unknown names and implementation
// errors are reported through the Result, never panicked.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) Result {
	r.mu.RLock()
	fn, ok := r.funcs[name]
	r.mu.RUnlock()

	if !ok {
		return Result{Error: fmt.Sprintf("unknown capability %q", name)}
	}

	data, err := fn(ctx, args)
	if err != nil {
		return Result{Error: err.Error()}
	}
	return Result{Success: true, Data: data}
}

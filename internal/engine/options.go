package engine

// Option configures an Orchestrator. Use With* functions to create Options.
type Option func(*orchestratorOptions)

// orchestratorOptions holds all optional configuration.
type orchestratorOptions struct {
	notifier    Notifier
	logger      *DebugLogger
	store       RunStore
	eventBuffer int
}

// WithNotifier sets the progress notifier called at phase boundaries.
func WithNotifier(n Notifier) Option {
	return func(o *orchestratorOptions) { o.notifier = n }
}

// WithLogger sets the debug logger for engine internals.
func WithLogger(l *DebugLogger) Option {
	return func(o *orchestratorOptions) { o.logger = l }
}

// WithStore sets the run store used to persist workflow results.
// Persistence failures are logged, never fatal to a run.
func WithStore(s RunStore) Option {
	return func(o *orchestratorOptions) { o.store = s }
}

// WithEventBuffer sets the capacity of the event channel. Events
// beyond the buffer are dropped rather than blocking a run.
func WithEventBuffer(n int) Option {
	return func(o *orchestratorOptions) { o.eventBuffer = n }
}

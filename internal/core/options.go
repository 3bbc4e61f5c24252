package core

// Option applies configuration to an Interpreter via the functional
// options pattern.
type Option func(*Interpreter)

// WithEvaluator configures the Interpreter with a code evaluator. Without
// one, any non-empty guard/action/entry/exit code fails with a
// CodeEvaluationError.
func WithEvaluator(e Evaluator) Option {
	return func(in *Interpreter) {
		in.evaluator = e
	}
}

// WithClock configures the time source. Defaults to WallClock.
func WithClock(c Clock) Option {
	return func(in *Interpreter) {
		in.clock = c
	}
}

// WithIgnoreContracts disables all contract (precondition, postcondition,
// invariant) checking; contract errors are then never raised.
func WithIgnoreContracts() Option {
	return func(in *Interpreter) {
		in.ignoreContracts = true
	}
}

// WithListener attaches a listener at construction time.
func WithListener(l Listener) Option {
	return func(in *Interpreter) {
		in.Attach(l)
	}
}

// WithProperty attaches a property statechart monitor at construction time.
func WithProperty(property *Interpreter) Option {
	return func(in *Interpreter) {
		in.Attach(PropertyMonitor(property))
	}
}

package core

import "github.com/calmweave/statechart/internal/primitives"

// Evaluator executes the opaque code fragments attached to states and
// transitions. The interpreter never interprets code itself; it only calls
// this interface. Full implementations live in internal/extensibility.
//
// The interpreter short-circuits empty code (empty guard is vacuously true,
// empty action emits nothing), so implementations only see non-empty code.
// Any failure must be reported as a plain error; the interpreter wraps it
// in a CodeEvaluationError.
type Evaluator interface {
	// EvaluateGuard evaluates a guard condition against the current context.
	// event is the event being consumed, or nil for eventless transitions.
	EvaluateGuard(code string, event *primitives.Event) (bool, error)

	// ExecuteAction executes transition action code and returns the events
	// it raised, in emission order.
	ExecuteAction(code string, event *primitives.Event) ([]primitives.Event, error)

	// ExecuteOnEntry executes a state's entry code.
	ExecuteOnEntry(state primitives.State) ([]primitives.Event, error)

	// ExecuteOnExit executes a state's exit code.
	ExecuteOnExit(state primitives.State) ([]primitives.Event, error)

	// EvaluatePreconditions/EvaluatePostconditions/EvaluateInvariants
	// evaluate the given condition list and return the conditions that
	// failed (empty means all passed).
	EvaluatePreconditions(conditions []string, event *primitives.Event) ([]string, error)
	EvaluatePostconditions(conditions []string, event *primitives.Event) ([]string, error)
	EvaluateInvariants(conditions []string, event *primitives.Event) ([]string, error)

	// Context exposes the evaluator's variables as a read-only view for
	// inspection and testing.
	Context() map[string]any
}

// ContextRestorer is optionally implemented by evaluators that can rebuild
// their variable store from a snapshot (used by Interpreter.Restore).
type ContextRestorer interface {
	RestoreContext(data map[string]any)
}

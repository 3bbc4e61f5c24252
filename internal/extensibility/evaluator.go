// Package extensibility provides pluggable Evaluator implementations for
// the statechart engine. The engine itself never interprets guard/action
// code; everything here is replaceable by embedding a real host-language
// evaluator behind the same interface.
package extensibility

import (
	"fmt"
	"sync"

	"github.com/calmweave/statechart/internal/primitives"
)

// GuardFunc is a registered guard implementation.
type GuardFunc func(vars map[string]any, event *primitives.Event) bool

// ActionFunc is a registered action implementation; returned events are
// raised on the interpreter's internal queue.
type ActionFunc func(vars map[string]any, event *primitives.Event) []primitives.Event

// DefaultEvaluator implements core.Evaluator with a thread-safe variable
// store and a registry of named guard and action functions. Code fragments
// that match no registered name fall back to the expression language (see
// expression.go); anything else is an evaluation error.
type DefaultEvaluator struct {
	mu      sync.RWMutex
	vars    map[string]any
	guards  map[string]GuardFunc
	actions map[string]ActionFunc
}

// NewDefaultEvaluator creates an evaluator with an empty variable store.
func NewDefaultEvaluator() *DefaultEvaluator {
	return &DefaultEvaluator{
		vars:    make(map[string]any),
		guards:  make(map[string]GuardFunc),
		actions: make(map[string]ActionFunc),
	}
}

// RegisterGuard binds a guard name usable as transition guard code.
func (e *DefaultEvaluator) RegisterGuard(name string, fn GuardFunc) *DefaultEvaluator {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.guards[name] = fn
	return e
}

// RegisterAction binds an action name usable as action/entry/exit code.
func (e *DefaultEvaluator) RegisterAction(name string, fn ActionFunc) *DefaultEvaluator {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.actions[name] = fn
	return e
}

// SetVariable stores a context variable.
func (e *DefaultEvaluator) SetVariable(key string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vars[key] = value
}

// Variable retrieves a context variable.
func (e *DefaultEvaluator) Variable(key string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.vars[key]
	return v, ok
}

// Context returns a defensive copy of the variable store.
func (e *DefaultEvaluator) Context() map[string]any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	snapshot := make(map[string]any, len(e.vars))
	for k, v := range e.vars {
		snapshot[k] = v
	}
	return snapshot
}

// RestoreContext atomically replaces the variable store from a snapshot.
func (e *DefaultEvaluator) RestoreContext(data map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vars = make(map[string]any, len(data))
	for k, v := range data {
		e.vars[k] = v
	}
}

// EvaluateGuard evaluates a registered guard by name, or an expression of
// the form "key op value".
func (e *DefaultEvaluator) EvaluateGuard(code string, event *primitives.Event) (bool, error) {
	e.mu.RLock()
	guard, registered := e.guards[code]
	e.mu.RUnlock()
	if registered {
		return guard(e.Context(), event), nil
	}
	return e.evalExpression(code, event)
}

// ExecuteAction executes a registered action by name, or ";"-separated
// expression statements ("key = value", "raise eventName").
func (e *DefaultEvaluator) ExecuteAction(code string, event *primitives.Event) ([]primitives.Event, error) {
	e.mu.RLock()
	action, registered := e.actions[code]
	e.mu.RUnlock()
	if registered {
		return e.runRegistered(action, event), nil
	}
	return e.execStatements(code, event)
}

func (e *DefaultEvaluator) runRegistered(action ActionFunc, event *primitives.Event) []primitives.Event {
	vars := e.Context()
	sent := action(vars, event)
	e.RestoreContext(vars)
	return sent
}

// ExecuteOnEntry executes a state's entry code.
func (e *DefaultEvaluator) ExecuteOnEntry(state primitives.State) ([]primitives.Event, error) {
	return e.ExecuteAction(state.OnEntry, nil)
}

// ExecuteOnExit executes a state's exit code.
func (e *DefaultEvaluator) ExecuteOnExit(state primitives.State) ([]primitives.Event, error) {
	return e.ExecuteAction(state.OnExit, nil)
}

// EvaluatePreconditions returns the conditions that do not hold.
func (e *DefaultEvaluator) EvaluatePreconditions(conditions []string, event *primitives.Event) ([]string, error) {
	return e.evaluateConditions(conditions, event)
}

// EvaluatePostconditions returns the conditions that do not hold.
func (e *DefaultEvaluator) EvaluatePostconditions(conditions []string, event *primitives.Event) ([]string, error) {
	return e.evaluateConditions(conditions, event)
}

// EvaluateInvariants returns the conditions that do not hold.
func (e *DefaultEvaluator) EvaluateInvariants(conditions []string, event *primitives.Event) ([]string, error) {
	return e.evaluateConditions(conditions, event)
}

func (e *DefaultEvaluator) evaluateConditions(conditions []string, event *primitives.Event) ([]string, error) {
	var failed []string
	for _, condition := range conditions {
		ok, err := e.EvaluateGuard(condition, event)
		if err != nil {
			return nil, fmt.Errorf("condition %q: %w", condition, err)
		}
		if !ok {
			failed = append(failed, condition)
		}
	}
	return failed, nil
}

package core

import (
	"fmt"
	"strings"

	"github.com/calmweave/statechart/internal/primitives"
)

// NonDeterminismError reports two simultaneously selected transitions that
// are not safely concurrent: their sources' least common ancestor is not an
// Orthogonal state. The configuration is left untouched when this is raised.
type NonDeterminismError struct {
	Transitions []primitives.Transition
}

func (e *NonDeterminismError) Error() string {
	return "non-determinism: transitions are not in distinct orthogonal regions: " + formatTransitions(e.Transitions)
}

// ConflictingTransitionsError reports two orthogonal-region transitions
// whose targets cross region boundaries.
type ConflictingTransitionsError struct {
	Transitions []primitives.Transition
}

func (e *ConflictingTransitionsError) Error() string {
	return "conflicting transitions: targets cross orthogonal region boundaries: " + formatTransitions(e.Transitions)
}

func formatTransitions(transitions []primitives.Transition) string {
	parts := make([]string, len(transitions))
	for i, t := range transitions {
		parts[i] = t.String()
	}
	return strings.Join(parts, "; ")
}

// CodeEvaluationError is the uniform error kind for any failure inside
// guard/action/entry/exit evaluation. It carries the original cause.
type CodeEvaluationError struct {
	Code  string
	Cause error
}

func (e *CodeEvaluationError) Error() string {
	return fmt.Sprintf("code evaluation failed for %q: %v", e.Code, e.Cause)
}

func (e *CodeEvaluationError) Unwrap() error { return e.Cause }

// ContractKind discriminates contract condition failures.
type ContractKind string

const (
	PreconditionContract  ContractKind = "precondition"
	PostconditionContract ContractKind = "postcondition"
	InvariantContract     ContractKind = "invariant"
)

// ContractError reports a failed contract condition. Owner names the state
// or transition carrying the condition; Configuration is the active
// configuration at failure time, for diagnostics.
type ContractError struct {
	Kind          ContractKind
	Condition     string
	Owner         string
	Configuration []string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s failed on %s: %q (configuration: %s)",
		e.Kind, e.Owner, e.Condition, strings.Join(e.Configuration, ", "))
}

// PropertyError is raised through the monitored interpreter's call stack
// when a bound property statechart reaches its final configuration,
// signaling that the monitored property was violated.
type PropertyError struct {
	Property string
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("property statechart %q reached final configuration", e.Property)
}

// Package primitives defines the foundational data structures for the
// statechart engine.
//
// State is a closed tagged variant over the six state kinds. All graph
// queries and the interpreter match on Kind explicitly; there is no
// behavior attached to states themselves.
package primitives

import "fmt"

// StateKind discriminates the closed set of state variants.
type StateKind string

const (
	// Basic is a leaf state.
	Basic StateKind = "basic"
	// Compound is an OR-state: exactly one child active at a time.
	Compound StateKind = "compound"
	// Orthogonal is an AND-state: all children active simultaneously.
	Orthogonal StateKind = "orthogonal"
	// ShallowHistory remembers the last active direct child of its parent.
	ShallowHistory StateKind = "shallowHistory"
	// DeepHistory remembers the full active descendant set of its parent.
	DeepHistory StateKind = "deepHistory"
	// Final marks a branch (or the whole machine, directly under the root)
	// as done. Final states have no outgoing transitions.
	Final StateKind = "final"
)

// IsHistory reports whether the kind is a history pseudo-state.
func (k StateKind) IsHistory() bool {
	return k == ShallowHistory || k == DeepHistory
}

// IsComposite reports whether the kind owns children.
func (k StateKind) IsComposite() bool {
	return k == Compound || k == Orthogonal
}

// State is a node in the state tree. Name is the unique identity used as
// map key everywhere. Initial names the initial child for Compound states
// and the default memory target for history states. OnEntry/OnExit and the
// contract condition lists are opaque code fragments handed to the
// Evaluator; the engine never interprets them.
type State struct {
	Name    string
	Kind    StateKind
	Initial string

	OnEntry string
	OnExit  string

	Preconditions  []string
	Postconditions []string
	Invariants     []string
}

func (s State) String() string {
	return fmt.Sprintf("%s(%s)", s.Kind, s.Name)
}

// Priority breaks ties among transitions sharing the same source state.
type Priority int

const (
	PriorityLow     Priority = -1
	PriorityDefault Priority = 0
	PriorityHigh    Priority = 1
)

// Transition connects a source state to an optional target. An empty Target
// means internal (no state change), an empty Event means eventless. Guard
// and Action are opaque code fragments for the Evaluator.
type Transition struct {
	Source   string
	Target   string
	Event    string
	Guard    string
	Action   string
	Priority Priority
}

// Internal reports whether the transition changes no state.
func (t Transition) Internal() bool {
	return t.Target == ""
}

// Eventless reports whether the transition needs no triggering event.
func (t Transition) Eventless() bool {
	return t.Event == ""
}

func (t Transition) String() string {
	target := t.Target
	if target == "" {
		target = t.Source
	}
	if t.Event == "" {
		return fmt.Sprintf("%s -> %s", t.Source, target)
	}
	return fmt.Sprintf("%s --(%s)--> %s", t.Source, t.Event, target)
}

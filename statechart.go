// Package statechart implements a hierarchical statechart interpreter with
// compound and orthogonal states, shallow and deep history, guarded and
// prioritized transitions, delayed events and design-by-contract checks.
//
// The package root is a facade: the engine lives in internal packages and
// everything needed to describe and run a chart is re-exported here. A
// typical session builds a Statechart (usually through Builder), wraps it
// in an Interpreter, queues events and calls Execute:
//
//	chart, err := statechart.NewBuilder("lamp").
//		Root("root", "off").
//		Basic("off", "root").
//		Basic("on", "root").
//		On("off", "toggle", "on").
//		On("on", "toggle", "off").
//		Build()
//	if err != nil { ... }
//	interp, err := statechart.NewInterpreter(chart)
//	if err != nil { ... }
//	interp.QueueName("toggle")
//	steps, err := interp.Execute(-1)
package statechart

import (
	"time"

	"github.com/calmweave/statechart/internal/core"
	"github.com/calmweave/statechart/internal/extensibility"
	"github.com/calmweave/statechart/internal/primitives"
)

// Structural types.
type (
	// Event is a named occurrence, optionally carrying a payload and a
	// delivery delay.
	Event = primitives.Event

	// MetaEvent notifies listeners about interpreter internals.
	MetaEvent = primitives.MetaEvent

	// State is one node of the statechart graph.
	State = primitives.State

	// StateKind discriminates the state variants.
	StateKind = primitives.StateKind

	// Transition connects a source state to a target state.
	Transition = primitives.Transition

	// Priority orders transitions sharing a source state.
	Priority = primitives.Priority

	// Statechart is the immutable state graph shared by interpreters.
	Statechart = primitives.Statechart
)

// State kinds.
const (
	Basic          = primitives.Basic
	Compound       = primitives.Compound
	Orthogonal     = primitives.Orthogonal
	ShallowHistory = primitives.ShallowHistory
	DeepHistory    = primitives.DeepHistory
	Final          = primitives.Final
)

// Transition priorities. Any int works; these cover the common cases.
const (
	PriorityLow     = primitives.PriorityLow
	PriorityDefault = primitives.PriorityDefault
	PriorityHigh    = primitives.PriorityHigh
)

// Runtime types.
type (
	// Interpreter executes a statechart deterministically.
	Interpreter = core.Interpreter

	// Status is the interpreter lifecycle state.
	Status = core.Status

	// MacroStep groups the micro-steps of one run-to-completion step.
	MacroStep = core.MacroStep

	// MicroStep is one atomic configuration change.
	MicroStep = core.MicroStep

	// Snapshot captures resumable interpreter state.
	Snapshot = core.Snapshot

	// Listener observes interpreter meta-events.
	Listener = core.Listener

	// Clock abstracts the interpreter's time source.
	Clock = core.Clock

	// WallClock reads the system time.
	WallClock = core.WallClock

	// SimulatedClock is a manually advanced time source for tests and
	// simulations.
	SimulatedClock = core.SimulatedClock

	// Evaluator interprets guard and action code on behalf of the engine.
	Evaluator = core.Evaluator

	// ContextRestorer is implemented by evaluators whose variable store can
	// be replaced from a snapshot.
	ContextRestorer = core.ContextRestorer

	// Option configures an Interpreter at construction.
	Option = core.Option

	// DefaultEvaluator is the built-in Evaluator: registered Go functions
	// plus a small "key op value" expression notation.
	DefaultEvaluator = extensibility.DefaultEvaluator

	// GuardFunc is a guard registered with DefaultEvaluator.
	GuardFunc = extensibility.GuardFunc

	// ActionFunc is an action registered with DefaultEvaluator.
	ActionFunc = extensibility.ActionFunc
)

// Interpreter lifecycle statuses.
const (
	StatusNotStarted = core.StatusNotStarted
	StatusRunning    = core.StatusRunning
	StatusFinal      = core.StatusFinal
)

// Meta-event names delivered to listeners.
const (
	MetaStepStarted         = primitives.MetaStepStarted
	MetaStepEnded           = primitives.MetaStepEnded
	MetaEventConsumed       = primitives.MetaEventConsumed
	MetaEventSent           = primitives.MetaEventSent
	MetaStateEntered        = primitives.MetaStateEntered
	MetaStateExited         = primitives.MetaStateExited
	MetaTransitionProcessed = primitives.MetaTransitionProcessed
)

// Error types.
type (
	// NoSuchStateError reports a reference to an unknown state name.
	NoSuchStateError = primitives.NoSuchStateError

	// StructureError reports an invalid statechart graph.
	StructureError = primitives.StructureError

	// NonDeterminismError reports transitions competing outside distinct
	// orthogonal regions.
	NonDeterminismError = core.NonDeterminismError

	// ConflictingTransitionsError reports a parallel transition whose
	// target escapes its own region.
	ConflictingTransitionsError = core.ConflictingTransitionsError

	// CodeEvaluationError reports failed guard or action code.
	CodeEvaluationError = core.CodeEvaluationError

	// ContractError reports a violated precondition, postcondition or
	// invariant.
	ContractError = core.ContractError

	// ContractKind discriminates contract condition kinds.
	ContractKind = core.ContractKind

	// PropertyError reports a property statechart that reached its final
	// configuration.
	PropertyError = core.PropertyError
)

// Contract kinds.
const (
	PreconditionContract  = core.PreconditionContract
	PostconditionContract = core.PostconditionContract
	InvariantContract     = core.InvariantContract
)

// NewStatechart creates an empty named statechart.
func NewStatechart(name string) *Statechart {
	return primitives.NewStatechart(name)
}

// NewEvent creates an event with the given name and payload.
func NewEvent(name string, data map[string]any) Event {
	return primitives.NewEvent(name, data)
}

// NewInterpreter creates an interpreter for the given chart, validating the
// chart first.
func NewInterpreter(chart *Statechart, opts ...Option) (*Interpreter, error) {
	return core.NewInterpreter(chart, opts...)
}

// NewDefaultEvaluator creates the built-in evaluator.
func NewDefaultEvaluator() *DefaultEvaluator {
	return extensibility.NewDefaultEvaluator()
}

// NewSimulatedClock creates a simulated clock starting at the given time.
func NewSimulatedClock(start time.Time) *SimulatedClock {
	return core.NewSimulatedClock(start)
}

// WithEvaluator configures the interpreter's code evaluator.
func WithEvaluator(e Evaluator) Option { return core.WithEvaluator(e) }

// WithClock configures the interpreter's time source.
func WithClock(c Clock) Option { return core.WithClock(c) }

// WithIgnoreContracts disables contract checking.
func WithIgnoreContracts() Option { return core.WithIgnoreContracts() }

// WithListener attaches a meta-event listener at construction.
func WithListener(l Listener) Option { return core.WithListener(l) }

// WithProperty attaches a property statechart monitor at construction.
func WithProperty(property *Interpreter) Option { return core.WithProperty(property) }

// PropertyMonitor wraps a property statechart interpreter as a Listener.
func PropertyMonitor(property *Interpreter) Listener {
	return core.PropertyMonitor(property)
}

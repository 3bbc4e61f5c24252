package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/calmweave/statechart/internal/primitives"
)

// MicroStep is the atomic effect of firing exactly one transition or one
// stabilization expansion: the event consumed (if any), the transition
// fired (nil for pure stabilization steps), the exited states in
// leaf-to-root order, the entered states in root-to-leaf order, and the
// events emitted by action/entry/exit code during the step.
type MicroStep struct {
	Event         *primitives.Event
	Transition    *primitives.Transition
	EnteredStates []string
	ExitedStates  []string
	SentEvents    []primitives.Event
}

func (s MicroStep) String() string {
	var parts []string
	if s.Event != nil {
		parts = append(parts, "event="+s.Event.Name)
	}
	if s.Transition != nil {
		parts = append(parts, "transition="+s.Transition.String())
	}
	if len(s.ExitedStates) > 0 {
		parts = append(parts, "exited="+strings.Join(s.ExitedStates, ","))
	}
	if len(s.EnteredStates) > 0 {
		parts = append(parts, "entered="+strings.Join(s.EnteredStates, ","))
	}
	return fmt.Sprintf("MicroStep(%s)", strings.Join(parts, " "))
}

// MacroStep is one run-to-completion reaction: at most one consumed event
// plus all resulting micro-steps (transitions and stabilization). It is
// immutable once returned; the aggregation views are derived on demand.
type MacroStep struct {
	Time  time.Time
	Steps []MicroStep
}

// Event returns the event consumed during this macro-step, or nil.
func (m MacroStep) Event() *primitives.Event {
	for _, step := range m.Steps {
		if step.Event != nil {
			return step.Event
		}
	}
	return nil
}

// Transitions returns every transition processed, in firing order.
func (m MacroStep) Transitions() []primitives.Transition {
	var out []primitives.Transition
	for _, step := range m.Steps {
		if step.Transition != nil {
			out = append(out, *step.Transition)
		}
	}
	return out
}

// EnteredStates returns every entered state, in entry order.
func (m MacroStep) EnteredStates() []string {
	var out []string
	for _, step := range m.Steps {
		out = append(out, step.EnteredStates...)
	}
	return out
}

// ExitedStates returns every exited state, in exit order.
func (m MacroStep) ExitedStates() []string {
	var out []string
	for _, step := range m.Steps {
		out = append(out, step.ExitedStates...)
	}
	return out
}

// SentEvents returns every event emitted by executed code, in emission order.
func (m MacroStep) SentEvents() []primitives.Event {
	var out []primitives.Event
	for _, step := range m.Steps {
		out = append(out, step.SentEvents...)
	}
	return out
}

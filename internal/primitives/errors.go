package primitives

import "fmt"

// NoSuchStateError is returned by graph queries for unknown state names.
type NoSuchStateError struct {
	Name string
}

func (e *NoSuchStateError) Error() string {
	return fmt.Sprintf("no such state %q", e.Name)
}

// StructureError is returned by Validate (and by graph mutation) when the
// statechart violates a structural invariant: unknown state referenced,
// malformed history/initial targeting, composite state with no children,
// degenerate transition. It identifies the offending state or transition.
type StructureError struct {
	Reason     string
	State      string
	Transition *Transition
}

func (e *StructureError) Error() string {
	switch {
	case e.Transition != nil:
		return fmt.Sprintf("invalid statechart: transition %s: %s", e.Transition, e.Reason)
	case e.State != "":
		return fmt.Sprintf("invalid statechart: state %q: %s", e.State, e.Reason)
	default:
		return "invalid statechart: " + e.Reason
	}
}

func structureErr(state, format string, args ...any) *StructureError {
	return &StructureError{Reason: fmt.Sprintf(format, args...), State: state}
}

func transitionErr(t Transition, format string, args ...any) *StructureError {
	return &StructureError{Reason: fmt.Sprintf(format, args...), Transition: &t}
}

// Event provides the immutable event primitive for statechart transitions.
//
// Events are value types. Once created, Events should not be mutated; use
// NewEvent for construction and WithDelay to derive a delayed copy.
package primitives

import "time"

// Event is an external or internal stimulus consumed by the interpreter.
// Delay postpones eligibility relative to the enqueue time; it is honored
// for externally queued events and ignored for internally raised ones.
type Event struct {
	Name  string
	Data  map[string]any
	Delay time.Duration
}

// NewEvent creates and returns a new Event.
func NewEvent(name string, data map[string]any) Event {
	return Event{
		Name: name,
		Data: data,
	}
}

// WithDelay returns a copy of the event that becomes eligible only after d.
func (e Event) WithDelay(d time.Duration) Event {
	e.Delay = d
	return e
}

// Meta-event names emitted on the listener bus, in the fixed per-macro-step
// order: step started, event consumed, then per micro-step state exited /
// transition processed / state entered / event sent, then step ended.
const (
	MetaStepStarted         = "step started"
	MetaStepEnded           = "step ended"
	MetaEventConsumed       = "event consumed"
	MetaEventSent           = "event sent"
	MetaStateEntered        = "state entered"
	MetaStateExited         = "state exited"
	MetaTransitionProcessed = "transition processed"
)

// MetaEvent is a lifecycle notification broadcast to listeners.
// Data keys depend on Name: "state" for entered/exited, "event" for
// consumed/sent, "source"/"target"/"event" for transition processed,
// "time" for step started/ended.
type MetaEvent struct {
	Name string
	Data map[string]any
}

// NewMetaEvent creates a MetaEvent.
func NewMetaEvent(name string, data map[string]any) MetaEvent {
	return MetaEvent{Name: name, Data: data}
}

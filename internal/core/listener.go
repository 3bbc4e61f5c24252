package core

import (
	"sort"

	"github.com/calmweave/statechart/internal/primitives"
)

// Listener receives lifecycle meta-events synchronously (no buffering).
// A non-nil error aborts the current ExecuteOnce call and propagates to
// the caller; property monitors use this to surface PropertyError.
type Listener func(primitives.MetaEvent) error

// Attach registers a listener and returns a token for Detach.
func (in *Interpreter) Attach(l Listener) int {
	token := in.nextListener
	in.nextListener++
	in.listeners[token] = l
	return token
}

// Detach removes a previously attached listener.
func (in *Interpreter) Detach(token int) {
	delete(in.listeners, token)
}

// emit broadcasts a meta-event to all listeners in attachment order.
func (in *Interpreter) emit(name string, data map[string]any) error {
	if len(in.listeners) == 0 {
		return nil
	}
	tokens := make([]int, 0, len(in.listeners))
	for token := range in.listeners {
		tokens = append(tokens, token)
	}
	sort.Ints(tokens)
	me := primitives.NewMetaEvent(name, data)
	for _, token := range tokens {
		if err := in.listeners[token](me); err != nil {
			return err
		}
	}
	return nil
}

// Bind forwards every event sent by this interpreter's executed code to
// another interpreter's external queue, re-typed as an externally visible
// event. This is how statecharts compose (parent/child interpreters).
func (in *Interpreter) Bind(other *Interpreter) int {
	return in.BindFunc(func(event primitives.Event) {
		other.Queue(event)
	})
}

// BindFunc is like Bind for an arbitrary callable.
func (in *Interpreter) BindFunc(fn func(primitives.Event)) int {
	return in.Attach(func(me primitives.MetaEvent) error {
		if me.Name != primitives.MetaEventSent {
			return nil
		}
		if event, ok := me.Data["event"].(primitives.Event); ok {
			fn(event)
		}
		return nil
	})
}

// PropertyMonitor wraps a property statechart interpreter as a listener on
// a monitored interpreter. Every meta-event of the monitored interpreter is
// queued into the property interpreter (meta-event name as event name,
// meta-event data as payload) and executed immediately; when the property
// interpreter reaches its final configuration the monitored property is
// violated and a PropertyError propagates through the monitored
// interpreter's call stack.
func PropertyMonitor(property *Interpreter) Listener {
	return func(me primitives.MetaEvent) error {
		property.Queue(primitives.NewEvent(me.Name, me.Data))
		if _, err := property.Execute(-1); err != nil {
			return err
		}
		if property.Final() {
			return &PropertyError{Property: property.chart.Name()}
		}
		return nil
	}
}

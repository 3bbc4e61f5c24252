package core

import (
	"fmt"
	"time"

	"github.com/calmweave/statechart/internal/primitives"
)

// Snapshot is the serializable runtime state of an interpreter: active
// configuration, history memory, evaluator context and pending events.
// The statechart graph itself is not snapshotted; Restore requires an
// interpreter built on a chart with the same name.
type Snapshot struct {
	InterpreterID string              `json:"interpreterID" yaml:"interpreterID"`
	Statechart    string              `json:"statechart" yaml:"statechart"`
	Status        Status              `json:"status" yaml:"status"`
	Configuration []string            `json:"configuration" yaml:"configuration"`
	Memory        map[string][]string `json:"memory,omitempty" yaml:"memory,omitempty"`
	Context       map[string]any      `json:"context,omitempty" yaml:"context,omitempty"`
	QueuedEvents  []primitives.Event  `json:"queuedEvents,omitempty" yaml:"queuedEvents,omitempty"`
	Timestamp     time.Time           `json:"timestamp" yaml:"timestamp"`
}

// Snapshot captures the interpreter's current runtime state. Pending
// delayed events are stored with their remaining delay.
func (in *Interpreter) Snapshot() Snapshot {
	now := in.clock.Now()
	memory := make(map[string][]string, len(in.memory))
	for name, states := range in.memory {
		memory[name] = append([]string(nil), states...)
	}
	var context map[string]any
	if in.evaluator != nil {
		context = in.evaluator.Context()
	}
	queued := in.internal.pending(now)
	queued = append(queued, in.external.pending(now)...)
	return Snapshot{
		InterpreterID: in.id,
		Statechart:    in.chart.Name(),
		Status:        in.status,
		Configuration: in.Configuration(),
		Memory:        memory,
		Context:       context,
		QueuedEvents:  queued,
		Timestamp:     now,
	}
}

// Restore rebuilds the interpreter's runtime state from a snapshot taken
// on an interpreter running the same statechart. Queued events are
// re-queued externally with their remaining delay; the evaluator context
// is restored if the evaluator implements ContextRestorer.
func (in *Interpreter) Restore(snapshot Snapshot) error {
	if snapshot.Statechart != in.chart.Name() {
		return fmt.Errorf("statechart mismatch: have %q, snapshot %q", in.chart.Name(), snapshot.Statechart)
	}
	for _, name := range snapshot.Configuration {
		if _, err := in.chart.State(name); err != nil {
			return fmt.Errorf("restore configuration: %w", err)
		}
	}

	in.status = snapshot.Status
	in.configuration = make(map[string]struct{}, len(snapshot.Configuration))
	for _, name := range snapshot.Configuration {
		in.configuration[name] = struct{}{}
	}
	in.memory = make(map[string][]string, len(snapshot.Memory))
	for name, states := range snapshot.Memory {
		in.memory[name] = append([]string(nil), states...)
	}
	in.internal = newEventQueue()
	in.external = newEventQueue()
	now := in.clock.Now()
	for _, event := range snapshot.QueuedEvents {
		in.external.push(event, now)
	}
	if restorer, ok := in.evaluator.(ContextRestorer); ok && snapshot.Context != nil {
		restorer.RestoreContext(snapshot.Context)
	}
	return nil
}

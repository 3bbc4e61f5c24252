package production

import (
	"github.com/calmweave/statechart/internal/core"
	"github.com/calmweave/statechart/internal/primitives"
)

// PublishedMetaEvent bundles a meta-event with the interpreter it came from.
type PublishedMetaEvent struct {
	InterpreterID string
	MetaEvent     primitives.MetaEvent
}

// ChannelPublisher forwards interpreter meta-events to a Go channel.
// Non-blocking: meta-events are dropped on backpressure so a slow consumer
// can never stall a macro-step.
type ChannelPublisher struct {
	ch chan<- PublishedMetaEvent
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- PublishedMetaEvent) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

// Listener returns a core.Listener publishing every meta-event of the
// given interpreter. Attach it with Interpreter.Attach.
func (p *ChannelPublisher) Listener(interpreterID string) core.Listener {
	return func(me primitives.MetaEvent) error {
		select {
		case p.ch <- PublishedMetaEvent{InterpreterID: interpreterID, MetaEvent: me}:
		default:
			// drop on backpressure
		}
		return nil
	}
}

// Close closes the output channel.
func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}

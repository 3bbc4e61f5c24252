package core

import (
	"sort"
	"time"

	"github.com/calmweave/statechart/internal/primitives"
)

// queuedEvent adds eligibility time and sequencing metadata to an event.
// Ordering is (readyAt, sequence): earlier ready time first, and stable
// FIFO via sequence number for equal ready times.
type queuedEvent struct {
	readyAt  time.Time
	sequence uint64
	event    primitives.Event
}

// eventQueue is a delay-aware stable FIFO. Entries are kept sorted by
// (readyAt, sequence); an entry is eligible only once its ready time has
// been reached. Peeking and popping never reorder unrelated entries.
type eventQueue struct {
	entries  []queuedEvent
	sequence uint64
}

func newEventQueue() *eventQueue {
	return &eventQueue{}
}

// push enqueues an event; its ready time is now plus the event's delay.
func (q *eventQueue) push(event primitives.Event, now time.Time) {
	entry := queuedEvent{
		readyAt:  now.Add(event.Delay),
		sequence: q.sequence,
		event:    event,
	}
	q.sequence++

	idx := sort.Search(len(q.entries), func(i int) bool {
		if !q.entries[i].readyAt.Equal(entry.readyAt) {
			return q.entries[i].readyAt.After(entry.readyAt)
		}
		return q.entries[i].sequence > entry.sequence
	})
	q.entries = append(q.entries, queuedEvent{})
	copy(q.entries[idx+1:], q.entries[idx:])
	q.entries[idx] = entry
}

// peek returns the head event if it is eligible at the given time.
func (q *eventQueue) peek(now time.Time) (primitives.Event, bool) {
	if len(q.entries) == 0 || q.entries[0].readyAt.After(now) {
		return primitives.Event{}, false
	}
	return q.entries[0].event, true
}

// pop removes and returns the head event if it is eligible at the given time.
func (q *eventQueue) pop(now time.Time) (primitives.Event, bool) {
	event, ok := q.peek(now)
	if !ok {
		return primitives.Event{}, false
	}
	q.entries = q.entries[1:]
	return event, true
}

func (q *eventQueue) len() int {
	return len(q.entries)
}

// pending returns the queued events with their remaining delay relative to
// now, for snapshotting. Already-eligible events get a zero delay.
func (q *eventQueue) pending(now time.Time) []primitives.Event {
	if len(q.entries) == 0 {
		return nil
	}
	events := make([]primitives.Event, 0, len(q.entries))
	for _, entry := range q.entries {
		e := entry.event
		if remaining := entry.readyAt.Sub(now); remaining > 0 {
			e.Delay = remaining
		} else {
			e.Delay = 0
		}
		events = append(events, e)
	}
	return events
}

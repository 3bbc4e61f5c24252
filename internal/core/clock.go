package core

import (
	"sync"
	"time"
)

// Clock supplies the interpreter's notion of time. The interpreter reads
// the clock exactly once at the start of each ExecuteOnce call and holds
// that reading fixed for the duration of the call, so delay expiry is
// consistent within one step.
type Clock interface {
	Now() time.Time
}

// WallClock is the real-time clock.
type WallClock struct{}

func (WallClock) Now() time.Time { return time.Now() }

// SimulatedClock is a manually driven clock for deterministic execution
// and tests. The zero value starts at the zero time; use SetTime or
// Advance to move it forward.
type SimulatedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewSimulatedClock creates a SimulatedClock starting at start.
func NewSimulatedClock(start time.Time) *SimulatedClock {
	return &SimulatedClock{now: start}
}

func (c *SimulatedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// SetTime moves the clock to t. Moving backwards is not prevented but
// breaks delay expiry guarantees; callers should only move forward.
func (c *SimulatedClock) SetTime(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *SimulatedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Package runner drives a statechart interpreter asynchronously on a fixed
// tick. The interpreter itself is synchronous and single-threaded; the
// runner owns it exclusively after Start, collecting events from any
// goroutine into a batch and feeding them to the interpreter in arrival
// order once per tick. Delayed events expire naturally as wall time (or a
// simulated clock) advances between ticks.
package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/calmweave/statechart"
)

// Config configures a Runner.
type Config struct {
	// TickRate is the interval between execution passes. Defaults to
	// 16667µs (roughly 60 passes per second).
	TickRate time.Duration

	// MaxQueuedEvents caps the number of events waiting for the next tick
	// (default 1000). SendEvent fails once the cap is reached.
	MaxQueuedEvents int

	// OnStep, when set, receives every macro-step produced, in order, from
	// the runner's goroutine.
	OnStep func(statechart.MacroStep)

	// OnError, when set, receives the error that stopped execution.
	// Execution errors (non-determinism, contract violations, failed
	// code) halt the tick loop.
	OnError func(error)
}

type queuedEvent struct {
	event    statechart.Event
	sequence uint64
}

// Runner executes an interpreter on a fixed tick until it reaches its
// final configuration, its context is cancelled, or a step fails.
type Runner struct {
	interp *statechart.Interpreter
	cfg    Config

	mu       sync.Mutex
	batch    []queuedEvent
	sequence uint64
	paused   bool
	ticks    uint64

	cancel  context.CancelFunc
	stopped chan struct{}
	started bool
}

var errQueueFull = errors.New("runner: event queue full")

// New creates a runner for the given interpreter. The interpreter must not
// be used directly between Start and Stop.
func New(interp *statechart.Interpreter, cfg Config) *Runner {
	if cfg.TickRate == 0 {
		cfg.TickRate = 16667 * time.Microsecond
	}
	if cfg.MaxQueuedEvents == 0 {
		cfg.MaxQueuedEvents = 1000
	}
	return &Runner{
		interp:  interp,
		cfg:     cfg,
		batch:   make([]queuedEvent, 0, cfg.MaxQueuedEvents),
		stopped: make(chan struct{}),
	}
}

// Start launches the tick loop. The first tick enters the chart's root
// state. Returns an error if the runner was already started.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return errors.New("runner: already started")
	}
	r.started = true

	ctx, r.cancel = context.WithCancel(ctx)
	go r.loop(ctx)
	return nil
}

// Stop cancels the tick loop and waits for it to exit. Safe to call more
// than once.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	started := r.started
	r.mu.Unlock()
	if !started {
		return
	}
	if cancel != nil {
		cancel()
	}
	<-r.stopped
}

// Wait blocks until the tick loop has exited (final configuration,
// execution error, or Stop).
func (r *Runner) Wait() {
	<-r.stopped
}

// SendEvent queues an event for the next tick. Thread-safe; the event is
// processed on the runner's goroutine.
func (r *Runner) SendEvent(event statechart.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.batch) >= cap(r.batch) {
		return errQueueFull
	}
	r.batch = append(r.batch, queuedEvent{event: event, sequence: r.sequence})
	r.sequence++
	return nil
}

// SendEventName queues a payload-free event by name.
func (r *Runner) SendEventName(name string) error {
	return r.SendEvent(statechart.NewEvent(name, nil))
}

// Pause suspends execution; queued events accumulate until Resume.
func (r *Runner) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = true
}

// Resume restarts a paused runner.
func (r *Runner) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = false
}

// Ticks returns the number of completed ticks.
func (r *Runner) Ticks() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks
}

func (r *Runner) loop(ctx context.Context) {
	defer close(r.stopped)

	ticker := time.NewTicker(r.cfg.TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if r.isPaused() {
				continue
			}
			if err := r.tick(); err != nil {
				if r.cfg.OnError != nil {
					r.cfg.OnError(err)
				}
				return
			}
			r.mu.Lock()
			r.ticks++
			final := r.interp.Final()
			r.mu.Unlock()
			if final {
				return
			}
		}
	}
}

func (r *Runner) isPaused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

// tick drains the batch into the interpreter in arrival order, then runs
// macro-steps until the interpreter has nothing eligible left to do.
func (r *Runner) tick() error {
	r.mu.Lock()
	events := r.batch
	r.batch = make([]queuedEvent, 0, cap(r.batch))
	r.mu.Unlock()

	for _, qe := range events {
		r.interp.Queue(qe.event)
	}

	steps, err := r.interp.Execute(-1)
	if r.cfg.OnStep != nil {
		for _, step := range steps {
			r.cfg.OnStep(step)
		}
	}
	return err
}

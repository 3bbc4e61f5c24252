package statechart

import "github.com/calmweave/statechart/internal/primitives"

// StateOption customizes a state added through the Builder.
type StateOption func(*State)

// OnEntry sets the code executed when the state is entered.
func OnEntry(code string) StateOption {
	return func(s *State) { s.OnEntry = code }
}

// OnExit sets the code executed when the state is exited.
func OnExit(code string) StateOption {
	return func(s *State) { s.OnExit = code }
}

// Precondition adds a condition checked before the state is entered.
func Precondition(condition string) StateOption {
	return func(s *State) { s.Preconditions = append(s.Preconditions, condition) }
}

// Postcondition adds a condition checked after the state is exited.
func Postcondition(condition string) StateOption {
	return func(s *State) { s.Postconditions = append(s.Postconditions, condition) }
}

// Invariant adds a condition checked while the state is active.
func Invariant(condition string) StateOption {
	return func(s *State) { s.Invariants = append(s.Invariants, condition) }
}

// Builder assembles a Statechart fluently. Each call appends a state or
// transition; the first error sticks and is reported by Build, which also
// validates the finished graph. The zero value is not usable; use
// NewBuilder.
type Builder struct {
	chart *Statechart
	err   error
}

// NewBuilder starts a builder for a chart with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{chart: primitives.NewStatechart(name)}
}

// Root adds the root compound state with its initial child.
func (b *Builder) Root(name, initial string, opts ...StateOption) *Builder {
	return b.add(State{Name: name, Kind: Compound, Initial: initial}, "", opts)
}

// Basic adds a basic state under parent.
func (b *Builder) Basic(name, parent string, opts ...StateOption) *Builder {
	return b.add(State{Name: name, Kind: Basic}, parent, opts)
}

// Compound adds a compound state with its initial child under parent.
func (b *Builder) Compound(name, parent, initial string, opts ...StateOption) *Builder {
	return b.add(State{Name: name, Kind: Compound, Initial: initial}, parent, opts)
}

// Orthogonal adds an orthogonal state under parent. All of its children
// are active simultaneously whenever it is.
func (b *Builder) Orthogonal(name, parent string, opts ...StateOption) *Builder {
	return b.add(State{Name: name, Kind: Orthogonal}, parent, opts)
}

// Final adds a final state under parent.
func (b *Builder) Final(name, parent string, opts ...StateOption) *Builder {
	return b.add(State{Name: name, Kind: Final}, parent, opts)
}

// ShallowHistory adds a shallow history pseudo-state under parent.
// defaultTarget may be empty; the parent's initial child is then the
// fallback when no history was recorded.
func (b *Builder) ShallowHistory(name, parent, defaultTarget string) *Builder {
	return b.add(State{Name: name, Kind: ShallowHistory, Initial: defaultTarget}, parent, nil)
}

// DeepHistory adds a deep history pseudo-state under parent.
func (b *Builder) DeepHistory(name, parent, defaultTarget string) *Builder {
	return b.add(State{Name: name, Kind: DeepHistory, Initial: defaultTarget}, parent, nil)
}

// AddState adds a fully specified state under parent.
func (b *Builder) AddState(s State, parent string) *Builder {
	return b.add(s, parent, nil)
}

// On adds an external transition from source to target fired by event.
func (b *Builder) On(source, event, target string) *Builder {
	return b.Transition(Transition{Source: source, Event: event, Target: target})
}

// OnGuarded adds a guarded external transition with an action.
func (b *Builder) OnGuarded(source, event, guard, target, action string) *Builder {
	return b.Transition(Transition{
		Source: source,
		Event:  event,
		Guard:  guard,
		Target: target,
		Action: action,
	})
}

// Eventless adds an automatic transition from source to target, fired as
// soon as source is active and guard (possibly empty) holds.
func (b *Builder) Eventless(source, guard, target string) *Builder {
	return b.Transition(Transition{Source: source, Guard: guard, Target: target})
}

// Internal adds an internal transition on source: event triggers the
// action without exiting or entering any state.
func (b *Builder) Internal(source, event, action string) *Builder {
	return b.Transition(Transition{Source: source, Event: event, Action: action})
}

// Transition adds a fully specified transition.
func (b *Builder) Transition(t Transition) *Builder {
	if b.err != nil {
		return b
	}
	b.err = b.chart.AddTransition(t)
	return b
}

// Build validates and returns the chart, or the first error encountered.
func (b *Builder) Build() (*Statechart, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.chart.Validate(); err != nil {
		return nil, err
	}
	return b.chart, nil
}

func (b *Builder) add(s State, parent string, opts []StateOption) *Builder {
	if b.err != nil {
		return b
	}
	for _, opt := range opts {
		opt(&s)
	}
	b.err = b.chart.AddState(s, parent)
	return b
}

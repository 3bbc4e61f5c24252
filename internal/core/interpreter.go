package core

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/calmweave/statechart/internal/primitives"
)

// Status is the interpreter's own lifecycle state, distinct from the
// statechart states it runs.
type Status string

const (
	StatusNotStarted Status = "not started"
	StatusRunning    Status = "running"
	StatusFinal      Status = "final"
)

var errNoEvaluator = errors.New("no evaluator configured")

// Interpreter owns the active configuration, the event queues, the history
// memory and the clock, and advances the configuration deterministically in
// response to queued events and the passage of time.
//
// Single-threaded and synchronous: one macro-step runs to completion (or
// fails) atomically from the caller's point of view. The statechart graph
// is never mutated and may be shared across interpreter instances;
// configuration, queues and history memory are exclusively owned.
type Interpreter struct {
	id    string
	chart *primitives.Statechart

	evaluator       Evaluator
	clock           Clock
	ignoreContracts bool

	status        Status
	configuration map[string]struct{}
	memory        map[string][]string
	internal      *eventQueue
	external      *eventQueue

	listeners    map[int]Listener
	nextListener int

	// clock reading held fixed for the duration of one ExecuteOnce call
	now time.Time
}

// NewInterpreter creates an interpreter for the given statechart. The
// chart is validated first; a StructureError aborts construction.
func NewInterpreter(chart *primitives.Statechart, opts ...Option) (*Interpreter, error) {
	if err := chart.Validate(); err != nil {
		return nil, err
	}
	in := &Interpreter{
		id:            uuid.NewString(),
		chart:         chart,
		clock:         WallClock{},
		status:        StatusNotStarted,
		configuration: make(map[string]struct{}),
		memory:        make(map[string][]string),
		internal:      newEventQueue(),
		external:      newEventQueue(),
		listeners:     make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in, nil
}

// ID returns the interpreter instance identity.
func (in *Interpreter) ID() string { return in.id }

// Statechart returns the graph this interpreter runs.
func (in *Interpreter) Statechart() *primitives.Statechart { return in.chart }

// Status returns the interpreter lifecycle status.
func (in *Interpreter) Status() Status { return in.status }

// Final reports whether the interpreter reached its final configuration.
func (in *Interpreter) Final() bool { return in.status == StatusFinal }

// Context exposes the evaluator's variables as a read-only view.
func (in *Interpreter) Context() map[string]any {
	if in.evaluator == nil {
		return nil
	}
	return in.evaluator.Context()
}

// Configuration returns the active state names, sorted by depth then name.
func (in *Interpreter) Configuration() []string {
	names := make([]string, 0, len(in.configuration))
	for name := range in.configuration {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		di, dj := in.depth(names[i]), in.depth(names[j])
		if di != dj {
			return di < dj
		}
		return names[i] < names[j]
	})
	return names
}

// Queue appends an event to the external queue. The event's Delay postpones
// its eligibility relative to now.
func (in *Interpreter) Queue(event primitives.Event) {
	in.external.push(event, in.clock.Now())
}

// QueueName is a convenience for queuing a payload-free event by name.
func (in *Interpreter) QueueName(name string) {
	in.Queue(primitives.NewEvent(name, nil))
}

// Execute repeatedly calls ExecuteOnce until it returns no step, or until
// maxSteps macro-steps were produced (maxSteps < 0 means unbounded).
func (in *Interpreter) Execute(maxSteps int) ([]MacroStep, error) {
	var steps []MacroStep
	for maxSteps < 0 || len(steps) < maxSteps {
		step, err := in.ExecuteOnce()
		if err != nil {
			return steps, err
		}
		if step == nil {
			break
		}
		steps = append(steps, *step)
	}
	return steps, nil
}

// ExecuteOnce processes at most one externally visible event and returns
// the resulting macro-step, or nil if nothing happened. The very first call
// enters the root state. Once the interpreter is final, calls are no-ops.
func (in *Interpreter) ExecuteOnce() (*MacroStep, error) {
	if in.status == StatusFinal {
		return nil, nil
	}
	in.now = in.clock.Now()

	var steps []MicroStep
	var consumed *primitives.Event

	if in.status == StatusNotStarted {
		in.status = StatusRunning
		steps = []MicroStep{{EnteredStates: []string{in.chart.Root()}}}
	} else {
		candidate, hasCandidate := in.peekEvent()

		// Eventless transitions take precedence; a step firing them
		// consumes no event.
		transitions, err := in.selectTransitions(nil)
		if err != nil {
			return nil, err
		}
		if len(transitions) == 0 {
			if !hasCandidate {
				return nil, nil
			}
			transitions, err = in.selectTransitions(&candidate)
			if err != nil {
				return nil, err
			}
			event, _ := in.popEvent()
			consumed = &event
		}

		if len(transitions) == 0 {
			// Unmatched events are consumed by an empty micro-step so they
			// are discarded rather than retried forever.
			steps = []MicroStep{{Event: consumed}}
		} else {
			sorted, err := in.sortTransitions(transitions)
			if err != nil {
				return nil, err
			}
			steps, err = in.createSteps(consumed, sorted)
			if err != nil {
				return nil, err
			}
		}
	}

	if err := in.emit(primitives.MetaStepStarted, map[string]any{"time": in.now}); err != nil {
		return nil, err
	}
	if consumed != nil {
		if err := in.emit(primitives.MetaEventConsumed, map[string]any{"event": *consumed}); err != nil {
			return nil, err
		}
	}

	macro := &MacroStep{Time: in.now}
	for i := range steps {
		if err := in.applyStep(&steps[i]); err != nil {
			return nil, err
		}
		macro.Steps = append(macro.Steps, steps[i])
		if err := in.stabilize(macro); err != nil {
			return nil, err
		}
	}

	if len(in.configuration) == 0 {
		in.status = StatusFinal
	}

	if err := in.checkInvariants(consumed); err != nil {
		return nil, err
	}
	if err := in.emit(primitives.MetaStepEnded, map[string]any{"time": in.now}); err != nil {
		return nil, err
	}
	return macro, nil
}

// peekEvent prefers the internal queue head over the external one; an
// event is returned only if its ready time has been reached.
func (in *Interpreter) peekEvent() (primitives.Event, bool) {
	if event, ok := in.internal.peek(in.now); ok {
		return event, true
	}
	return in.external.peek(in.now)
}

func (in *Interpreter) popEvent() (primitives.Event, bool) {
	if event, ok := in.internal.pop(in.now); ok {
		return event, true
	}
	return in.external.pop(in.now)
}

// selectTransitions gathers every transition whose source is active, whose
// event matches (nil selects eventless transitions) and whose guard holds,
// then applies inner-first semantics: sources are visited deepest first,
// and once a source fires, the source and its whole ancestor chain are
// suppressed for the remainder of the pass. Within one source, priority
// breaks ties; all transitions of equal highest priority are returned.
func (in *Interpreter) selectTransitions(event *primitives.Event) ([]primitives.Transition, error) {
	bySource := make(map[string][]primitives.Transition)
	var sources []string
	for _, t := range in.chart.Transitions() {
		if !in.active(t.Source) {
			continue
		}
		if event == nil {
			if !t.Eventless() {
				continue
			}
		} else if t.Event != event.Name {
			continue
		}
		ok, err := in.evaluateGuard(t, event)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if _, seen := bySource[t.Source]; !seen {
			sources = append(sources, t.Source)
		}
		bySource[t.Source] = append(bySource[t.Source], t)
	}
	if len(sources) == 0 {
		return nil, nil
	}

	sort.Slice(sources, func(i, j int) bool {
		di, dj := in.depth(sources[i]), in.depth(sources[j])
		if di != dj {
			return di > dj
		}
		return sources[i] < sources[j]
	})

	ignored := make(map[string]bool)
	var selected []primitives.Transition
	for _, source := range sources {
		if ignored[source] {
			continue
		}
		candidates := bySource[source]
		best := candidates[0].Priority
		for _, t := range candidates[1:] {
			if t.Priority > best {
				best = t.Priority
			}
		}
		for _, t := range candidates {
			if t.Priority == best {
				selected = append(selected, t)
			}
		}
		ignored[source] = true
		ancestors, err := in.chart.Ancestors(source)
		if err != nil {
			return nil, err
		}
		for _, anc := range ancestors {
			ignored[anc] = true
		}
	}
	return selected, nil
}

// sortTransitions checks that simultaneously selected transitions are
// safely concurrent and fixes their deterministic firing order. Every pair
// must sit in distinct regions of a common Orthogonal ancestor
// (NonDeterminismError otherwise), and no target may escape its source's
// region (ConflictingTransitionsError). Survivors are ordered by
// decreasing source depth, then source name.
func (in *Interpreter) sortTransitions(transitions []primitives.Transition) ([]primitives.Transition, error) {
	for i := 0; i < len(transitions); i++ {
		for j := i + 1; j < len(transitions); j++ {
			t1, t2 := transitions[i], transitions[j]
			pair := []primitives.Transition{t1, t2}

			lca, err := in.chart.LeastCommonAncestor(t1.Source, t2.Source)
			if err != nil {
				return nil, err
			}
			if lca == "" {
				return nil, &NonDeterminismError{Transitions: pair}
			}
			lcaState, err := in.chart.State(lca)
			if err != nil {
				return nil, err
			}
			if lcaState.Kind != primitives.Orthogonal {
				return nil, &NonDeterminismError{Transitions: pair}
			}

			for _, t := range pair {
				if t.Internal() {
					continue
				}
				branch, err := in.branchRoot(t.Source, lca)
				if err != nil {
					return nil, err
				}
				inside, err := in.withinBranch(t.Target, branch)
				if err != nil {
					return nil, err
				}
				if !inside {
					return nil, &ConflictingTransitionsError{Transitions: pair}
				}
			}
		}
	}

	sorted := append([]primitives.Transition(nil), transitions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := in.depth(sorted[i].Source), in.depth(sorted[j].Source)
		if di != dj {
			return di > dj
		}
		return sorted[i].Source < sorted[j].Source
	})
	return sorted, nil
}

// createSteps turns the sorted transitions into micro-steps. For an
// external transition the exit set is every active descendant of (and
// including) the highest ancestor of the source below the LCA, deepest
// first; the entry set is the target plus its ancestors up to (excluding)
// the LCA, shallowest first. Internal transitions carry no state change.
func (in *Interpreter) createSteps(event *primitives.Event, transitions []primitives.Transition) ([]MicroStep, error) {
	steps := make([]MicroStep, 0, len(transitions))
	for _, t := range transitions {
		t := t
		if t.Internal() {
			steps = append(steps, MicroStep{Event: event, Transition: &t})
			continue
		}

		lca, err := in.chart.LeastCommonAncestor(t.Source, t.Target)
		if err != nil {
			return nil, err
		}
		branch, err := in.branchRoot(t.Source, lca)
		if err != nil {
			return nil, err
		}

		var exited []string
		for name := range in.configuration {
			if name == branch {
				exited = append(exited, name)
				continue
			}
			isDesc, err := in.withinBranch(name, branch)
			if err != nil {
				return nil, err
			}
			if isDesc {
				exited = append(exited, name)
			}
		}
		sort.Slice(exited, func(i, j int) bool {
			di, dj := in.depth(exited[i]), in.depth(exited[j])
			if di != dj {
				return di > dj
			}
			return exited[i] < exited[j]
		})

		entered := []string{t.Target}
		ancestors, err := in.chart.Ancestors(t.Target)
		if err != nil {
			return nil, err
		}
		for _, anc := range ancestors {
			if anc == lca {
				break
			}
			entered = append(entered, anc)
		}
		reverseStrings(entered)

		steps = append(steps, MicroStep{
			Event:         event,
			Transition:    &t,
			EnteredStates: entered,
			ExitedStates:  exited,
		})
	}
	return steps, nil
}

// applyStep mutates the configuration according to one micro-step, running
// exit code, the transition action and entry code through the Evaluator.
// Emitted events are appended to the step's SentEvents and pushed onto the
// internal queue. Mutations already applied are not rolled back on error.
func (in *Interpreter) applyStep(step *MicroStep) error {
	before := make(map[string]struct{}, len(in.configuration))
	for name := range in.configuration {
		before[name] = struct{}{}
	}

	for _, name := range step.ExitedStates {
		state, err := in.chart.State(name)
		if err != nil {
			return err
		}
		if state.OnExit != "" {
			sent, err := in.execute(state.OnExit, func() ([]primitives.Event, error) {
				return in.evaluator.ExecuteOnExit(state)
			})
			if err != nil {
				return err
			}
			in.raise(step, sent)
		}
		if err := in.checkContract(PostconditionContract, state.Postconditions, name, step.Event); err != nil {
			return err
		}
		if err := in.recordHistory(name, before); err != nil {
			return err
		}
		delete(in.configuration, name)
		if err := in.emit(primitives.MetaStateExited, map[string]any{"state": name}); err != nil {
			return err
		}
	}

	if t := step.Transition; t != nil {
		if t.Action != "" {
			sent, err := in.execute(t.Action, func() ([]primitives.Event, error) {
				return in.evaluator.ExecuteAction(t.Action, step.Event)
			})
			if err != nil {
				return err
			}
			in.raise(step, sent)
		}
		data := map[string]any{"source": t.Source, "target": t.Target}
		if step.Event != nil {
			data["event"] = *step.Event
		}
		if err := in.emit(primitives.MetaTransitionProcessed, data); err != nil {
			return err
		}
	}

	for _, name := range step.EnteredStates {
		state, err := in.chart.State(name)
		if err != nil {
			return err
		}
		if err := in.checkContract(PreconditionContract, state.Preconditions, name, step.Event); err != nil {
			return err
		}
		if state.OnEntry != "" {
			sent, err := in.execute(state.OnEntry, func() ([]primitives.Event, error) {
				return in.evaluator.ExecuteOnEntry(state)
			})
			if err != nil {
				return err
			}
			in.raise(step, sent)
		}
		in.configuration[name] = struct{}{}
		if err := in.emit(primitives.MetaStateEntered, map[string]any{"state": name}); err != nil {
			return err
		}
	}

	for _, event := range step.SentEvents {
		if err := in.emit(primitives.MetaEventSent, map[string]any{"event": event}); err != nil {
			return err
		}
	}
	return nil
}

// recordHistory snapshots history memory when a compound state carrying a
// history child is exited: the active direct child for shallow history,
// the full active descendant set for deep history, both taken from the
// configuration as it was at the start of the micro-step.
func (in *Interpreter) recordHistory(name string, before map[string]struct{}) error {
	children, err := in.chart.Children(name)
	if err != nil {
		return err
	}
	for _, childName := range children {
		child, err := in.chart.State(childName)
		if err != nil {
			return err
		}
		switch child.Kind {
		case primitives.ShallowHistory:
			in.memory[childName] = in.activeAmong(children, before)
		case primitives.DeepHistory:
			descendants, err := in.chart.Descendants(name)
			if err != nil {
				return err
			}
			in.memory[childName] = in.activeAmong(descendants, before)
		}
	}
	return nil
}

func (in *Interpreter) activeAmong(names []string, active map[string]struct{}) []string {
	var out []string
	for _, name := range names {
		if _, ok := active[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// stabilize applies stabilization steps until the configuration is stable,
// appending each applied micro-step to the macro-step.
func (in *Interpreter) stabilize(macro *MacroStep) error {
	for {
		step, err := in.stabilizationStep()
		if err != nil {
			return err
		}
		if step == nil {
			return nil
		}
		if err := in.applyStep(step); err != nil {
			return err
		}
		macro.Steps = append(macro.Steps, *step)
	}
}

// stabilizationStep computes at most one micro-step developing the first
// unstable leaf of the configuration (deepest first): root-level finals
// exit everything, history pseudo-states restore their memory, orthogonal
// states enter all children, compound states enter their initial child.
// Returns nil when the configuration is stable.
func (in *Interpreter) stabilizationStep() (*MicroStep, error) {
	if len(in.configuration) == 0 {
		return nil, nil
	}
	leaves, err := in.chart.Leaves(in.Configuration())
	if err != nil {
		return nil, err
	}
	sort.Slice(leaves, func(i, j int) bool {
		di, dj := in.depth(leaves[i]), in.depth(leaves[j])
		if di != dj {
			return di > dj
		}
		return leaves[i] < leaves[j]
	})

	root := in.chart.Root()
	allFinal := len(leaves) > 0
	for _, leaf := range leaves {
		state, err := in.chart.State(leaf)
		if err != nil {
			return nil, err
		}
		parent, err := in.chart.Parent(leaf)
		if err != nil {
			return nil, err
		}
		if state.Kind != primitives.Final || parent != root {
			allFinal = false
			break
		}
	}
	if allFinal {
		exited := in.Configuration()
		sort.Slice(exited, func(i, j int) bool {
			di, dj := in.depth(exited[i]), in.depth(exited[j])
			if di != dj {
				return di > dj
			}
			return exited[i] < exited[j]
		})
		return &MicroStep{ExitedStates: exited}, nil
	}

	for _, leaf := range leaves {
		state, err := in.chart.State(leaf)
		if err != nil {
			return nil, err
		}
		switch state.Kind {
		case primitives.ShallowHistory, primitives.DeepHistory:
			entered := append([]string(nil), in.memory[leaf]...)
			if len(entered) == 0 {
				entered = []string{in.historyDefault(leaf, state)}
			}
			sort.Slice(entered, func(i, j int) bool {
				di, dj := in.depth(entered[i]), in.depth(entered[j])
				if di != dj {
					return di < dj
				}
				return entered[i] < entered[j]
			})
			return &MicroStep{EnteredStates: entered, ExitedStates: []string{leaf}}, nil
		case primitives.Orthogonal:
			children, err := in.chart.Children(leaf)
			if err != nil {
				return nil, err
			}
			return &MicroStep{EnteredStates: children}, nil
		case primitives.Compound:
			return &MicroStep{EnteredStates: []string{state.Initial}}, nil
		}
	}
	return nil, nil
}

// historyDefault resolves the entry target for a history state that was
// never recorded: its declared default, falling back to the parent
// compound's initial child.
func (in *Interpreter) historyDefault(name string, state primitives.State) string {
	if state.Initial != "" {
		return state.Initial
	}
	parent, err := in.chart.Parent(name)
	if err != nil {
		return ""
	}
	parentState, err := in.chart.State(parent)
	if err != nil {
		return ""
	}
	return parentState.Initial
}

// raise queues events emitted by executed code onto the internal queue.
// Internal events ignore Delay; they become eligible immediately at the
// current step's clock reading.
func (in *Interpreter) raise(step *MicroStep, events []primitives.Event) {
	for _, event := range events {
		event.Delay = 0
		in.internal.push(event, in.now)
		step.SentEvents = append(step.SentEvents, event)
	}
}

// execute runs one evaluator call, wrapping any failure (including a
// missing evaluator) in a CodeEvaluationError.
func (in *Interpreter) execute(code string, call func() ([]primitives.Event, error)) ([]primitives.Event, error) {
	if in.evaluator == nil {
		return nil, &CodeEvaluationError{Code: code, Cause: errNoEvaluator}
	}
	events, err := call()
	if err != nil {
		return nil, &CodeEvaluationError{Code: code, Cause: err}
	}
	return events, nil
}

func (in *Interpreter) evaluateGuard(t primitives.Transition, event *primitives.Event) (bool, error) {
	if t.Guard == "" {
		return true, nil
	}
	if in.evaluator == nil {
		return false, &CodeEvaluationError{Code: t.Guard, Cause: errNoEvaluator}
	}
	ok, err := in.evaluator.EvaluateGuard(t.Guard, event)
	if err != nil {
		return false, &CodeEvaluationError{Code: t.Guard, Cause: err}
	}
	return ok, nil
}

// checkContract evaluates one contract condition list and converts the
// first failure into a ContractError. Suppressed wholesale by the
// ignore-contracts option.
func (in *Interpreter) checkContract(kind ContractKind, conditions []string, owner string, event *primitives.Event) error {
	if in.ignoreContracts || len(conditions) == 0 {
		return nil
	}
	if in.evaluator == nil {
		return &CodeEvaluationError{Code: conditions[0], Cause: errNoEvaluator}
	}
	var failed []string
	var err error
	switch kind {
	case PreconditionContract:
		failed, err = in.evaluator.EvaluatePreconditions(conditions, event)
	case PostconditionContract:
		failed, err = in.evaluator.EvaluatePostconditions(conditions, event)
	case InvariantContract:
		failed, err = in.evaluator.EvaluateInvariants(conditions, event)
	}
	if err != nil {
		return &CodeEvaluationError{Code: conditions[0], Cause: err}
	}
	if len(failed) > 0 {
		return &ContractError{
			Kind:          kind,
			Condition:     failed[0],
			Owner:         owner,
			Configuration: in.Configuration(),
		}
	}
	return nil
}

// checkInvariants evaluates every active state's invariants, once per
// macro-step after stabilization.
func (in *Interpreter) checkInvariants(event *primitives.Event) error {
	if in.ignoreContracts {
		return nil
	}
	for _, name := range in.Configuration() {
		state, err := in.chart.State(name)
		if err != nil {
			return err
		}
		if err := in.checkContract(InvariantContract, state.Invariants, name, event); err != nil {
			return err
		}
	}
	return nil
}

// branchRoot returns the ancestor-or-self of name that is a direct child
// of lca ("" means the implicit super-root, yielding the chart root).
func (in *Interpreter) branchRoot(name, lca string) (string, error) {
	parent, err := in.chart.Parent(name)
	if err != nil {
		return "", err
	}
	if parent == lca {
		return name, nil
	}
	ancestors, err := in.chart.Ancestors(name)
	if err != nil {
		return "", err
	}
	for _, anc := range ancestors {
		p, err := in.chart.Parent(anc)
		if err != nil {
			return "", err
		}
		if p == lca {
			return anc, nil
		}
	}
	return "", &primitives.NoSuchStateError{Name: lca}
}

// withinBranch reports whether name is branch or one of its descendants.
func (in *Interpreter) withinBranch(name, branch string) (bool, error) {
	if name == branch {
		return true, nil
	}
	ancestors, err := in.chart.Ancestors(name)
	if err != nil {
		return false, err
	}
	for _, anc := range ancestors {
		if anc == branch {
			return true, nil
		}
	}
	return false, nil
}

func (in *Interpreter) active(name string) bool {
	_, ok := in.configuration[name]
	return ok
}

// depth returns a state's depth, 0 for unknown names. Only called with
// names already validated against the chart.
func (in *Interpreter) depth(name string) int {
	d, err := in.chart.Depth(name)
	if err != nil {
		return 0
	}
	return d
}

func reverseStrings(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

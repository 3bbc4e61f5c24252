// Package primitives defines the foundational data structures for the
// statechart engine.
//
// Statechart owns all states (keyed by name) and all transitions, and
// answers the structural queries the interpreter is built on: ancestors,
// descendants, depth, least common ancestor, leaves. The graph is meant to
// be immutable after Validate() and may then be shared by any number of
// concurrent interpreter instances; the lazy query caches are guarded by a
// mutex for that reason.
package primitives

import (
	"sort"
	"sync"
)

// Statechart is the single-rooted state tree plus its transitions.
type Statechart struct {
	name        string
	root        string
	states      map[string]State
	parent      map[string]string
	children    map[string][]string
	transitions []Transition

	mu              sync.RWMutex
	ancestorCache   map[string][]string
	descendantCache map[string][]string
	depthCache      map[string]int
}

// NewStatechart creates an empty statechart with the given name.
func NewStatechart(name string) *Statechart {
	return &Statechart{
		name:     name,
		states:   make(map[string]State),
		parent:   make(map[string]string),
		children: make(map[string][]string),
	}
}

// Name returns the statechart's name.
func (sc *Statechart) Name() string { return sc.name }

// Root returns the name of the root state, or "" if no state was added yet.
func (sc *Statechart) Root() string { return sc.root }

// StateNames returns all state names, sorted.
func (sc *Statechart) StateNames() []string {
	names := make([]string, 0, len(sc.states))
	for name := range sc.states {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// State returns the state with the given name.
func (sc *Statechart) State(name string) (State, error) {
	s, ok := sc.states[name]
	if !ok {
		return State{}, &NoSuchStateError{Name: name}
	}
	return s, nil
}

// AddState adds a state under the given parent. An empty parent makes the
// state the root; only one root is allowed. Child order is insertion order.
func (sc *Statechart) AddState(s State, parent string) error {
	if s.Name == "" {
		return structureErr("", "state name is required")
	}
	if _, exists := sc.states[s.Name]; exists {
		return structureErr(s.Name, "duplicate state name")
	}
	if parent == "" {
		if sc.root != "" {
			return structureErr(s.Name, "root already defined as %q", sc.root)
		}
		sc.root = s.Name
	} else {
		p, ok := sc.states[parent]
		if !ok {
			return structureErr(s.Name, "parent %q does not exist", parent)
		}
		if p.Kind.IsHistory() || p.Kind == Final {
			return structureErr(s.Name, "parent %q (%s) cannot have children", parent, p.Kind)
		}
		sc.parent[s.Name] = parent
		sc.children[parent] = append(sc.children[parent], s.Name)
	}
	sc.states[s.Name] = s
	sc.invalidateCaches()
	return nil
}

// AddTransition registers a transition. Structural checks beyond source
// existence are deferred to Validate.
func (sc *Statechart) AddTransition(t Transition) error {
	if _, ok := sc.states[t.Source]; !ok {
		return transitionErr(t, "source %q does not exist", t.Source)
	}
	sc.transitions = append(sc.transitions, t)
	return nil
}

// Transitions returns all transitions in declaration order.
func (sc *Statechart) Transitions() []Transition {
	return append([]Transition(nil), sc.transitions...)
}

// TransitionsFrom returns transitions whose source is the given state.
func (sc *Statechart) TransitionsFrom(name string) []Transition {
	var out []Transition
	for _, t := range sc.transitions {
		if t.Source == name {
			out = append(out, t)
		}
	}
	return out
}

// TransitionsTo returns transitions whose target is the given state.
func (sc *Statechart) TransitionsTo(name string) []Transition {
	var out []Transition
	for _, t := range sc.transitions {
		if t.Target == name {
			out = append(out, t)
		}
	}
	return out
}

// TransitionsWith returns transitions triggered by the given event name.
func (sc *Statechart) TransitionsWith(event string) []Transition {
	var out []Transition
	for _, t := range sc.transitions {
		if t.Event == event {
			out = append(out, t)
		}
	}
	return out
}

// Parent returns the parent of a state; "" for the root.
func (sc *Statechart) Parent(name string) (string, error) {
	if _, ok := sc.states[name]; !ok {
		return "", &NoSuchStateError{Name: name}
	}
	return sc.parent[name], nil
}

// Children returns the direct children of a state in insertion order.
func (sc *Statechart) Children(name string) ([]string, error) {
	if _, ok := sc.states[name]; !ok {
		return nil, &NoSuchStateError{Name: name}
	}
	return append([]string(nil), sc.children[name]...), nil
}

// Ancestors returns ancestors ordered from immediate parent to root.
func (sc *Statechart) Ancestors(name string) ([]string, error) {
	if _, ok := sc.states[name]; !ok {
		return nil, &NoSuchStateError{Name: name}
	}
	sc.mu.RLock()
	if cached, ok := sc.ancestorCache[name]; ok {
		sc.mu.RUnlock()
		return append([]string(nil), cached...), nil
	}
	sc.mu.RUnlock()

	var ancestors []string
	for current := sc.parent[name]; current != ""; current = sc.parent[current] {
		ancestors = append(ancestors, current)
	}

	sc.mu.Lock()
	if sc.ancestorCache == nil {
		sc.ancestorCache = make(map[string][]string)
	}
	sc.ancestorCache[name] = ancestors
	sc.mu.Unlock()
	return append([]string(nil), ancestors...), nil
}

// Descendants returns all descendants in BFS order (increasing depth), so
// higher-level states appear before deeper ones.
func (sc *Statechart) Descendants(name string) ([]string, error) {
	if _, ok := sc.states[name]; !ok {
		return nil, &NoSuchStateError{Name: name}
	}
	sc.mu.RLock()
	if cached, ok := sc.descendantCache[name]; ok {
		sc.mu.RUnlock()
		return append([]string(nil), cached...), nil
	}
	sc.mu.RUnlock()

	var descendants []string
	queue := append([]string(nil), sc.children[name]...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		descendants = append(descendants, current)
		queue = append(queue, sc.children[current]...)
	}

	sc.mu.Lock()
	if sc.descendantCache == nil {
		sc.descendantCache = make(map[string][]string)
	}
	sc.descendantCache[name] = descendants
	sc.mu.Unlock()
	return append([]string(nil), descendants...), nil
}

// Depth returns the depth of a state; the root has depth 1.
func (sc *Statechart) Depth(name string) (int, error) {
	if _, ok := sc.states[name]; !ok {
		return 0, &NoSuchStateError{Name: name}
	}
	sc.mu.RLock()
	if cached, ok := sc.depthCache[name]; ok {
		sc.mu.RUnlock()
		return cached, nil
	}
	sc.mu.RUnlock()

	depth := 1
	for current := sc.parent[name]; current != ""; current = sc.parent[current] {
		depth++
	}

	sc.mu.Lock()
	if sc.depthCache == nil {
		sc.depthCache = make(map[string]int)
	}
	sc.depthCache[name] = depth
	sc.mu.Unlock()
	return depth, nil
}

// LeastCommonAncestor returns the deepest state that is a strict ancestor of
// both a and b, or "" if they share none. Note that for a state and its
// descendant this is the state's parent, not the state itself.
func (sc *Statechart) LeastCommonAncestor(a, b string) (string, error) {
	aAnc, err := sc.Ancestors(a)
	if err != nil {
		return "", err
	}
	bAnc, err := sc.Ancestors(b)
	if err != nil {
		return "", err
	}
	bSet := make(map[string]struct{}, len(bAnc))
	for _, name := range bAnc {
		bSet[name] = struct{}{}
	}
	for _, name := range aAnc {
		if _, ok := bSet[name]; ok {
			return name, nil
		}
	}
	return "", nil
}

// Leaves returns the subset of names having no descendant also in names:
// the deepest active states per branch when called on a configuration.
func (sc *Statechart) Leaves(names []string) ([]string, error) {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := sc.states[name]; !ok {
			return nil, &NoSuchStateError{Name: name}
		}
		set[name] = struct{}{}
	}
	var leaves []string
	for _, name := range names {
		isLeaf := true
		descendants, err := sc.Descendants(name)
		if err != nil {
			return nil, err
		}
		for _, d := range descendants {
			if _, ok := set[d]; ok {
				isLeaf = false
				break
			}
		}
		if isLeaf {
			leaves = append(leaves, name)
		}
	}
	return leaves, nil
}

func (sc *Statechart) invalidateCaches() {
	sc.mu.Lock()
	sc.ancestorCache = nil
	sc.descendantCache = nil
	sc.depthCache = nil
	sc.mu.Unlock()
}

// Validate checks the structural invariants of the statechart:
//   - a single root exists
//   - every Compound state's Initial names one of its own children
//   - every history state's parent is a Compound state, and its declared
//     default (if any) names a sibling under the same parent
//   - every composite state has at least one child
//   - every transition's source/target name existing states, transitions do
//     not originate from Final or history states, and no transition is
//     degenerate (no target, no event, no guard)
//
// Validate is idempotent and side-effect-free; it can be called at any time.
func (sc *Statechart) Validate() error {
	if sc.root == "" {
		return structureErr("", "statechart has no root state")
	}

	for _, name := range sc.StateNames() {
		s := sc.states[name]
		children := sc.children[name]

		switch s.Kind {
		case Compound, Orthogonal:
			// Count real children; history pseudo-states don't satisfy the
			// composite invariant on their own.
			real := 0
			for _, c := range children {
				if !sc.states[c].Kind.IsHistory() {
					real++
				}
			}
			if real == 0 {
				return structureErr(name, "%s state requires at least one child", s.Kind)
			}
			if s.Kind == Compound {
				if s.Initial == "" {
					return structureErr(name, "compound state requires an initial child")
				}
				if !contains(children, s.Initial) {
					return structureErr(name, "initial child %q is not a child", s.Initial)
				}
			}
		case ShallowHistory, DeepHistory:
			if len(children) > 0 {
				return structureErr(name, "history state cannot have children")
			}
			parent := sc.parent[name]
			if parent == "" || sc.states[parent].Kind != Compound {
				return structureErr(name, "history state must be a child of a compound state")
			}
			if s.Initial != "" && !contains(sc.children[parent], s.Initial) {
				return structureErr(name, "history default %q is not a sibling", s.Initial)
			}
		case Basic, Final:
			if len(children) > 0 {
				return structureErr(name, "%s state cannot have children", s.Kind)
			}
			if s.Initial != "" {
				return structureErr(name, "%s state cannot declare an initial child", s.Kind)
			}
		default:
			return structureErr(name, "unknown state kind %q", s.Kind)
		}
	}

	for _, t := range sc.transitions {
		source, ok := sc.states[t.Source]
		if !ok {
			return transitionErr(t, "source %q does not exist", t.Source)
		}
		if source.Kind == Final {
			return transitionErr(t, "final state cannot have outgoing transitions")
		}
		if source.Kind.IsHistory() {
			return transitionErr(t, "history state cannot have outgoing transitions")
		}
		if t.Target != "" {
			if _, ok := sc.states[t.Target]; !ok {
				return transitionErr(t, "target %q does not exist", t.Target)
			}
		}
		if t.Target == "" && t.Event == "" && t.Guard == "" {
			return transitionErr(t, "degenerate transition: no target, no event, no guard")
		}
	}

	return nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

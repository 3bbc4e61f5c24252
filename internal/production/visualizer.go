package production

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/calmweave/statechart/internal/primitives"
)

// Visualizer renders a statechart as Graphviz DOT or structural JSON.
type Visualizer struct{}

// ExportDOT generates Graphviz DOT source for the statechart, highlighting
// the given active configuration.
func (v *Visualizer) ExportDOT(chart *primitives.Statechart, configuration []string) string {
	active := make(map[string]bool, len(configuration))
	for _, name := range configuration {
		active[name] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph Statechart {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, fontsize=10, style=rounded];\n")
	buf.WriteString("  edge [fontsize=9];\n")

	if root := chart.Root(); root != "" {
		v.renderState(&buf, chart, root, active, "  ")
	}

	for _, t := range chart.Transitions() {
		target := t.Target
		if target == "" {
			target = t.Source // internal transition drawn as self-loop
		}
		label := t.Event
		if t.Guard != "" {
			label = fmt.Sprintf("%s [%s]", label, t.Guard)
		}
		buf.WriteString(fmt.Sprintf("  %q -> %q [label=%q];\n", t.Source, target, label))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func (v *Visualizer) renderState(buf *bytes.Buffer, chart *primitives.Statechart, name string, active map[string]bool, indent string) {
	state, err := chart.State(name)
	if err != nil {
		return
	}
	children, _ := chart.Children(name)

	if len(children) > 0 {
		buf.WriteString(fmt.Sprintf("%ssubgraph \"cluster_%s\" {\n", indent, name))
		buf.WriteString(fmt.Sprintf("%s  label=\"%s (%s)\";\n", indent, name, state.Kind))
		if state.Kind == primitives.Orthogonal {
			buf.WriteString(indent + "  style=filled; fillcolor=lightblue;\n")
		}
		style := ""
		if active[name] {
			style = " style=filled fillcolor=orange"
		}
		buf.WriteString(fmt.Sprintf("%s  %q [label=%q shape=ellipse%s];\n", indent, name, name, style))
		for _, child := range children {
			v.renderState(buf, chart, child, active, indent+"  ")
		}
		buf.WriteString(indent + "}\n")
		return
	}

	shape := ""
	switch state.Kind {
	case primitives.Final:
		shape = " shape=doublecircle"
	case primitives.ShallowHistory, primitives.DeepHistory:
		shape = " shape=circle"
	}
	style := ""
	if active[name] {
		style = " style=filled fillcolor=lightgreen"
	}
	buf.WriteString(fmt.Sprintf("%s%q [label=%q%s%s];\n", indent, name, name, shape, style))
}

// chartJSON is the JSON shape of ExportJSON.
type chartJSON struct {
	Name        string                  `json:"name"`
	Root        string                  `json:"root"`
	States      []stateJSON             `json:"states"`
	Transitions []primitives.Transition `json:"transitions,omitempty"`
}

type stateJSON struct {
	Name     string               `json:"name"`
	Kind     primitives.StateKind `json:"kind"`
	Parent   string               `json:"parent,omitempty"`
	Initial  string               `json:"initial,omitempty"`
	Children []string             `json:"children,omitempty"`
}

// ExportJSON serializes the statechart structure to JSON.
func (v *Visualizer) ExportJSON(chart *primitives.Statechart) ([]byte, error) {
	out := chartJSON{
		Name:        chart.Name(),
		Root:        chart.Root(),
		Transitions: chart.Transitions(),
	}
	for _, name := range chart.StateNames() {
		state, err := chart.State(name)
		if err != nil {
			return nil, err
		}
		parent, _ := chart.Parent(name)
		children, _ := chart.Children(name)
		out.States = append(out.States, stateJSON{
			Name:     name,
			Kind:     state.Kind,
			Parent:   parent,
			Initial:  state.Initial,
			Children: children,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

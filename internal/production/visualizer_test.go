package production

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calmweave/statechart/internal/primitives"
)

func visualChart(t *testing.T) *primitives.Statechart {
	t.Helper()
	sc := primitives.NewStatechart("visual")
	require.NoError(t, sc.AddState(primitives.State{Name: "root", Kind: primitives.Compound, Initial: "work"}, ""))
	require.NoError(t, sc.AddState(primitives.State{Name: "work", Kind: primitives.Compound, Initial: "w1"}, "root"))
	require.NoError(t, sc.AddState(primitives.State{Name: "w1", Kind: primitives.Basic}, "work"))
	require.NoError(t, sc.AddState(primitives.State{Name: "done", Kind: primitives.Final}, "root"))
	require.NoError(t, sc.AddTransition(primitives.Transition{Source: "w1", Event: "finish", Guard: "ready == true", Target: "done"}))
	require.NoError(t, sc.AddTransition(primitives.Transition{Source: "w1", Event: "poke", Action: "log"}))
	return sc
}

func TestVisualizer_ExportDOT(t *testing.T) {
	v := &Visualizer{}
	dot := v.ExportDOT(visualChart(t), []string{"root", "work", "w1"})

	require.True(t, strings.HasPrefix(dot, "digraph Statechart {"))
	require.Contains(t, dot, `subgraph "cluster_root"`)
	require.Contains(t, dot, `subgraph "cluster_work"`)
	// Active leaf is highlighted, inactive final state is not.
	require.Contains(t, dot, `"w1" [label="w1" style=filled fillcolor=lightgreen]`)
	require.Contains(t, dot, `"done" [label="done" shape=doublecircle]`)
	// Guard shows up in the edge label; internal transition loops back.
	require.Contains(t, dot, `"w1" -> "done" [label="finish [ready == true]"]`)
	require.Contains(t, dot, `"w1" -> "w1" [label="poke"]`)
	require.True(t, strings.HasSuffix(strings.TrimSpace(dot), "}"))
}

func TestVisualizer_ExportJSON(t *testing.T) {
	v := &Visualizer{}
	data, err := v.ExportJSON(visualChart(t))
	require.NoError(t, err)

	var decoded struct {
		Name        string `json:"name"`
		Root        string `json:"root"`
		States      []struct {
			Name   string `json:"name"`
			Kind   string `json:"kind"`
			Parent string `json:"parent"`
		} `json:"states"`
		Transitions []struct {
			Source string `json:"Source"`
			Target string `json:"Target"`
		} `json:"transitions"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "visual", decoded.Name)
	require.Equal(t, "root", decoded.Root)
	require.Len(t, decoded.States, 4)
	require.Len(t, decoded.Transitions, 2)

	byName := map[string]string{}
	for _, s := range decoded.States {
		byName[s.Name] = s.Parent
	}
	require.Equal(t, "work", byName["w1"])
	require.Equal(t, "", byName["root"])
}

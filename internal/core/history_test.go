package core

import (
	"testing"

	"github.com/calmweave/statechart/internal/primitives"
)

func TestHistory_DeepResume(t *testing.T) {
	in := mustInterpreter(t, historyChart(t))
	mustExecuteOnce(t, in)

	if got, want := in.Configuration(), []string{"root", "work", "inner", "i1"}; !equalStringSlices(got, want) {
		t.Fatalf("Configuration = %v, want %v", got, want)
	}

	in.QueueName("step")
	mustExecuteOnce(t, in)
	in.QueueName("interrupt")
	mustExecuteOnce(t, in)

	if got, want := in.Configuration(), []string{"root", "paused"}; !equalStringSlices(got, want) {
		t.Fatalf("Configuration after interrupt = %v, want %v", got, want)
	}

	// Deep history restores the full nested configuration, not just the
	// direct child.
	in.QueueName("resume")
	mustExecuteOnce(t, in)
	if got, want := in.Configuration(), []string{"root", "work", "inner", "i2"}; !equalStringSlices(got, want) {
		t.Errorf("Configuration after resume = %v, want %v", got, want)
	}
}

func TestHistory_ShallowResume(t *testing.T) {
	sc := primitives.NewStatechart("shallow")
	mustAdd(t, sc, primitives.State{Name: "root", Kind: primitives.Compound, Initial: "work"}, "")
	mustAdd(t, sc, primitives.State{Name: "work", Kind: primitives.Compound, Initial: "inner"}, "root")
	mustAdd(t, sc, primitives.State{Name: "inner", Kind: primitives.Compound, Initial: "i1"}, "work")
	mustAdd(t, sc, primitives.State{Name: "i1", Kind: primitives.Basic}, "inner")
	mustAdd(t, sc, primitives.State{Name: "i2", Kind: primitives.Basic}, "inner")
	mustAdd(t, sc, primitives.State{Name: "flat", Kind: primitives.Compound, Initial: "f1"}, "work")
	mustAdd(t, sc, primitives.State{Name: "f1", Kind: primitives.Basic}, "flat")
	mustAdd(t, sc, primitives.State{Name: "memory", Kind: primitives.ShallowHistory}, "work")
	mustAdd(t, sc, primitives.State{Name: "paused", Kind: primitives.Basic}, "root")
	mustTransition(t, sc, primitives.Transition{Source: "i1", Event: "step", Target: "i2"})
	mustTransition(t, sc, primitives.Transition{Source: "work", Event: "interrupt", Target: "paused"})
	mustTransition(t, sc, primitives.Transition{Source: "paused", Event: "resume", Target: "memory"})

	in := mustInterpreter(t, sc)
	mustExecuteOnce(t, in)
	in.QueueName("step")
	mustExecuteOnce(t, in)
	in.QueueName("interrupt")
	mustExecuteOnce(t, in)
	in.QueueName("resume")
	mustExecuteOnce(t, in)

	// Shallow history remembers only the direct child "inner"; its own
	// initial child i1 is re-entered by stabilization, discarding i2.
	if got, want := in.Configuration(), []string{"root", "work", "inner", "i1"}; !equalStringSlices(got, want) {
		t.Errorf("Configuration after shallow resume = %v, want %v", got, want)
	}
}

func TestHistory_DefaultWithoutMemory(t *testing.T) {
	sc := primitives.NewStatechart("defaulted")
	mustAdd(t, sc, primitives.State{Name: "root", Kind: primitives.Compound, Initial: "idle"}, "")
	mustAdd(t, sc, primitives.State{Name: "idle", Kind: primitives.Basic}, "root")
	mustAdd(t, sc, primitives.State{Name: "work", Kind: primitives.Compound, Initial: "w1"}, "root")
	mustAdd(t, sc, primitives.State{Name: "w1", Kind: primitives.Basic}, "work")
	mustAdd(t, sc, primitives.State{Name: "w2", Kind: primitives.Basic}, "work")
	mustAdd(t, sc, primitives.State{Name: "memory", Kind: primitives.ShallowHistory, Initial: "w2"}, "work")
	mustTransition(t, sc, primitives.Transition{Source: "idle", Event: "enter", Target: "memory"})

	// Without recorded memory the declared default target wins over the
	// parent's initial child.
	in := mustInterpreter(t, sc)
	mustExecuteOnce(t, in)
	in.QueueName("enter")
	mustExecuteOnce(t, in)

	if got, want := in.Configuration(), []string{"root", "work", "w2"}; !equalStringSlices(got, want) {
		t.Errorf("Configuration = %v, want %v", got, want)
	}
}

func TestHistory_FallbackToParentInitial(t *testing.T) {
	sc := primitives.NewStatechart("fallback")
	mustAdd(t, sc, primitives.State{Name: "root", Kind: primitives.Compound, Initial: "idle"}, "")
	mustAdd(t, sc, primitives.State{Name: "idle", Kind: primitives.Basic}, "root")
	mustAdd(t, sc, primitives.State{Name: "work", Kind: primitives.Compound, Initial: "w1"}, "root")
	mustAdd(t, sc, primitives.State{Name: "w1", Kind: primitives.Basic}, "work")
	mustAdd(t, sc, primitives.State{Name: "w2", Kind: primitives.Basic}, "work")
	mustAdd(t, sc, primitives.State{Name: "memory", Kind: primitives.ShallowHistory}, "work")
	mustTransition(t, sc, primitives.Transition{Source: "idle", Event: "enter", Target: "memory"})

	in := mustInterpreter(t, sc)
	mustExecuteOnce(t, in)
	in.QueueName("enter")
	mustExecuteOnce(t, in)

	if got, want := in.Configuration(), []string{"root", "work", "w1"}; !equalStringSlices(got, want) {
		t.Errorf("Configuration = %v, want %v", got, want)
	}
}

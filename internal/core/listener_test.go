package core

import (
	"errors"
	"testing"

	"github.com/calmweave/statechart/internal/primitives"
)

func collectingListener(names *[]string) Listener {
	return func(me primitives.MetaEvent) error {
		*names = append(*names, me.Name)
		return nil
	}
}

func TestListener_MetaEventOrder(t *testing.T) {
	var names []string
	in := mustInterpreter(t, simpleChart(t), WithListener(collectingListener(&names)))
	mustExecuteOnce(t, in)

	names = nil
	in.QueueName("go")
	mustExecuteOnce(t, in)

	want := []string{
		primitives.MetaStepStarted,
		primitives.MetaEventConsumed,
		primitives.MetaStateExited,         // s1
		primitives.MetaTransitionProcessed, // s1 -> s2
		primitives.MetaStateEntered,        // s2
		primitives.MetaStepEnded,
	}
	if !equalStringSlices(names, want) {
		t.Errorf("meta-event order = %v, want %v", names, want)
	}
}

func TestListener_AttachDetach(t *testing.T) {
	in := mustInterpreter(t, simpleChart(t))

	var first, second []string
	token := in.Attach(collectingListener(&first))
	in.Attach(collectingListener(&second))
	in.Detach(token)

	mustExecuteOnce(t, in)
	if len(first) != 0 {
		t.Errorf("detached listener received %v", first)
	}
	if len(second) == 0 {
		t.Error("attached listener received nothing")
	}
}

func TestListener_ErrorAbortsStep(t *testing.T) {
	boom := errors.New("boom")
	in := mustInterpreter(t, simpleChart(t), WithListener(func(primitives.MetaEvent) error {
		return boom
	}))

	_, err := in.ExecuteOnce()
	if !errors.Is(err, boom) {
		t.Errorf("ExecuteOnce error = %v, want %v", err, boom)
	}
}

func TestListener_BindForwardsSentEvents(t *testing.T) {
	sc := primitives.NewStatechart("sender")
	mustAdd(t, sc, primitives.State{Name: "root", Kind: primitives.Compound, Initial: "s1"}, "")
	mustAdd(t, sc, primitives.State{Name: "s1", Kind: primitives.Basic}, "root")
	mustAdd(t, sc, primitives.State{Name: "s2", Kind: primitives.Basic}, "root")
	mustTransition(t, sc, primitives.Transition{Source: "s1", Event: "e", Target: "s2", Action: "notify"})

	ev := newFakeEvaluator()
	ev.actions["notify"] = func(*primitives.Event) []primitives.Event {
		return []primitives.Event{primitives.NewEvent("ping", map[string]any{"n": 1})}
	}
	sender := mustInterpreter(t, sc, WithEvaluator(ev))

	var forwarded []primitives.Event
	sender.BindFunc(func(event primitives.Event) {
		forwarded = append(forwarded, event)
	})

	mustExecuteOnce(t, sender)
	sender.QueueName("e")
	mustExecuteOnce(t, sender)

	if len(forwarded) != 1 || forwarded[0].Name != "ping" {
		t.Fatalf("forwarded = %v, want [ping]", forwarded)
	}
}

func TestListener_BindQueuesIntoOtherInterpreter(t *testing.T) {
	sc := primitives.NewStatechart("sender")
	mustAdd(t, sc, primitives.State{Name: "root", Kind: primitives.Compound, Initial: "s1"}, "")
	mustAdd(t, sc, primitives.State{Name: "s1", Kind: primitives.Basic}, "root")
	mustAdd(t, sc, primitives.State{Name: "s2", Kind: primitives.Basic}, "root")
	mustTransition(t, sc, primitives.Transition{Source: "s1", Event: "e", Target: "s2", Action: "notify"})

	rc := primitives.NewStatechart("receiver")
	mustAdd(t, rc, primitives.State{Name: "root", Kind: primitives.Compound, Initial: "waiting"}, "")
	mustAdd(t, rc, primitives.State{Name: "waiting", Kind: primitives.Basic}, "root")
	mustAdd(t, rc, primitives.State{Name: "notified", Kind: primitives.Basic}, "root")
	mustTransition(t, rc, primitives.Transition{Source: "waiting", Event: "ping", Target: "notified"})

	ev := newFakeEvaluator()
	ev.actions["notify"] = func(*primitives.Event) []primitives.Event {
		return []primitives.Event{primitives.NewEvent("ping", nil)}
	}
	sender := mustInterpreter(t, sc, WithEvaluator(ev))
	receiver := mustInterpreter(t, rc)
	sender.Bind(receiver)

	mustExecuteOnce(t, sender)
	sender.QueueName("e")
	mustExecuteOnce(t, sender)

	if _, err := receiver.Execute(-1); err != nil {
		t.Fatal(err)
	}
	if got, want := receiver.Configuration(), []string{"root", "notified"}; !equalStringSlices(got, want) {
		t.Errorf("receiver Configuration = %v, want %v", got, want)
	}
}

func TestListener_PropertyMonitorViolation(t *testing.T) {
	// The property reaches its final configuration as soon as the monitored
	// interpreter consumes the "go" event.
	pc := primitives.NewStatechart("never-go")
	mustAdd(t, pc, primitives.State{Name: "root", Kind: primitives.Compound, Initial: "watching"}, "")
	mustAdd(t, pc, primitives.State{Name: "watching", Kind: primitives.Basic}, "root")
	mustAdd(t, pc, primitives.State{Name: "violated", Kind: primitives.Final}, "root")
	mustTransition(t, pc, primitives.Transition{
		Source: "watching",
		Event:  primitives.MetaEventConsumed,
		Guard:  "is-go",
		Target: "violated",
	})

	pev := newFakeEvaluator()
	pev.guards["is-go"] = func(event *primitives.Event) bool {
		if event == nil {
			return false
		}
		consumed, ok := event.Data["event"].(primitives.Event)
		return ok && consumed.Name == "go"
	}
	property := mustInterpreter(t, pc, WithEvaluator(pev))

	in := mustInterpreter(t, simpleChart(t), WithProperty(property))
	mustExecuteOnce(t, in)

	in.QueueName("go")
	_, err := in.ExecuteOnce()
	var pe *PropertyError
	if !errors.As(err, &pe) {
		t.Fatalf("ExecuteOnce error = %v, want PropertyError", err)
	}
	if pe.Property != "never-go" {
		t.Errorf("Property = %q, want %q", pe.Property, "never-go")
	}
}

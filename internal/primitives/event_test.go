package primitives

import (
	"testing"
	"time"
)

func TestNewEvent(t *testing.T) {
	e := NewEvent("click", map[string]any{"x": 3})
	if e.Name != "click" {
		t.Errorf("Name = %q, want %q", e.Name, "click")
	}
	if e.Data["x"] != 3 {
		t.Errorf("Data[x] = %v, want 3", e.Data["x"])
	}
	if e.Delay != 0 {
		t.Errorf("Delay = %v, want 0", e.Delay)
	}
}

func TestEvent_WithDelay(t *testing.T) {
	e := NewEvent("tick", nil)
	delayed := e.WithDelay(2 * time.Second)
	if delayed.Delay != 2*time.Second {
		t.Errorf("Delay = %v, want 2s", delayed.Delay)
	}
	if e.Delay != 0 {
		t.Error("WithDelay mutated the original event")
	}
}

func TestTransition_Flags(t *testing.T) {
	internal := Transition{Source: "a", Event: "e"}
	if !internal.Internal() {
		t.Error("transition without target should be internal")
	}
	eventless := Transition{Source: "a", Target: "b"}
	if !eventless.Eventless() {
		t.Error("transition without event should be eventless")
	}
}

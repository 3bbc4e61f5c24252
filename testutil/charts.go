// Package testutil provides shared statechart fixtures used by tests and
// example programs across the module.
package testutil

import "github.com/calmweave/statechart"

// SimpleChart is a flat three-state chart:
//
//	root{ s1 -go-> s2 -(eventless)-> s3 -done-> end }
//
// with a root-level final state, so the interpreter finishes after "done".
func SimpleChart() *statechart.Statechart {
	chart, err := statechart.NewBuilder("simple").
		Root("root", "s1").
		Basic("s1", "root").
		Basic("s2", "root").
		Basic("s3", "root").
		Final("end", "root").
		On("s1", "go", "s2").
		Eventless("s2", "", "s3").
		On("s3", "done", "end").
		Build()
	if err != nil {
		panic(err)
	}
	return chart
}

// ParallelChart is a chart with two orthogonal regions that advance
// independently:
//
//	root{ p[ r1{a1 -next-> a2}, r2{b1 -next-> b2} ] }
func ParallelChart() *statechart.Statechart {
	chart, err := statechart.NewBuilder("parallel").
		Root("root", "p").
		Orthogonal("p", "root").
		Compound("r1", "p", "a1").
		Basic("a1", "r1").
		Basic("a2", "r1").
		Compound("r2", "p", "b1").
		Basic("b1", "r2").
		Basic("b2", "r2").
		On("a1", "next", "a2").
		On("b1", "next", "b2").
		Build()
	if err != nil {
		panic(err)
	}
	return chart
}

// HistoryChart is a chart whose compound "work" state carries a deep
// history pseudo-state, with an interrupt/resume pair of transitions:
//
//	root{ work{ inner{ i1 -step-> i2 } , H* }, paused }
//	work -interrupt-> paused -resume-> work.H*
func HistoryChart() *statechart.Statechart {
	chart, err := statechart.NewBuilder("history").
		Root("root", "work").
		Compound("work", "root", "inner").
		Compound("inner", "work", "i1").
		Basic("i1", "inner").
		Basic("i2", "inner").
		DeepHistory("memory", "work", "").
		Basic("paused", "root").
		On("i1", "step", "i2").
		On("work", "interrupt", "paused").
		On("paused", "resume", "memory").
		Build()
	if err != nil {
		panic(err)
	}
	return chart
}

// MicrowaveChart is a small appliance controller exercising guards,
// actions and delayed events through the default evaluator's expression
// notation. The door must be closed for cooking to start; "tick" events
// decrement the timer and cooking stops when it reaches zero.
func MicrowaveChart() *statechart.Statechart {
	chart, err := statechart.NewBuilder("microwave").
		Root("root", "idle").
		Basic("idle", "root").
		Basic("cooking", "root", statechart.OnEntry("lamp = true"), statechart.OnExit("lamp = false")).
		Basic("door_open", "root").
		OnGuarded("idle", "start", "closed == true", "cooking", "").
		On("idle", "open", "door_open").
		On("door_open", "close", "idle").
		On("cooking", "open", "door_open").
		OnGuarded("cooking", "tick", "timer == 0", "idle", "").
		Build()
	if err != nil {
		panic(err)
	}
	return chart
}

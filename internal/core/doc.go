// Package core provides the runtime tier of the statechart engine: event
// queues, the clock, the micro/macro step model, and the interpreter that
// advances an active configuration deterministically.
//
// The interpreter is single-threaded and synchronous. ExecuteOnce never
// suspends; all Evaluator calls are expected to return without blocking.
// Orthogonal states model logical concurrency only - transitions are still
// processed one at a time within a macro-step, in a deterministic order.
//
// Dependencies: internal/primitives. Pluggable Evaluator implementations
// live in internal/extensibility.
package core

// Package primitives provides the foundational, zero-dependency data structures
// for the statechart engine: events, states, transitions, and the statechart
// graph with its structural queries.
//
// This package uses ONLY the Go standard library. External dependencies live
// in the outer tiers (production adapters, runner).
//
// Core invariants:
// - State names are unique within one statechart and are the only identity
//   used for cross-references (no raw pointers between states).
// - The graph is immutable after Validate(); query caches are populated
//   lazily and guarded for shared read access by concurrent interpreters.
package primitives

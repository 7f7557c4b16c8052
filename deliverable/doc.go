// Package deliverable implements the dependency-routing core: the
// Deliverable payload container and the Registry that matches producers
// of data to consumers of data by declared type.
//
// A stage that finishes producing a value wraps it in a Deliverable,
// tagged with the producing stage's identity. The orchestrator registers
// it; a later stage asks the registry for a value of some type and the
// registry returns the single matching entry or a precise failure.
//
// When several producers emit the same type, resolution filters by
// consumer tags and otherwise fails with AmbiguousError — the registry
// never guesses. Silent last-write-wins would let a pipeline consume
// stale or wrong-producer data, so ambiguity is always a caller-visible
// error.
package deliverable

// Package conveyor provides typed deliverable routing for data
// pipelines. Stages declare the runtime types they need; producers
// publish deliverables tagged with their declared type; a registry
// matches the two with no naming convention and no wiring DSL.
//
// Conveyor is designed as a library, not a service. Import it, build
// stages as ordinary Go functions, and let the registry route their
// outputs.
//
// # Quick Start
//
//	p, err := conveyor.New(
//	    conveyor.WithStageTimeout(30 * time.Second),
//	)
//	p.AddStage(extract).AddStage(transform).AddStage(load)
//	err = p.Run(ctx)
//
// # Matching Rules
//
// Resolution is by declared runtime type alone. No producer for a type
// is an error; more than one untagged producer for the same type is an
// ambiguity error, never a silent pick. A producer can narrow its
// audience by tagging intended consumers, and a requester can name the
// producer it wants.
//
// Pipeline runs are identified by TypeID — type-prefixed, K-sortable,
// UUIDv7-based identifiers.
package conveyor

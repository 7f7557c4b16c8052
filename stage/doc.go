// Package stage defines the contract a pipeline stage implements to take
// part in deliverable routing: declare the input types it needs, receive
// the resolved values, and produce one output deliverable.
//
// Stages never reference each other directly — an orchestrator resolves
// their declared input types against a deliverable.Registry and collects
// their outputs into it.
//
// Most stages are a single typed function; Definition, Source and Sink
// wrap such functions into the untyped Stage contract, capturing the
// input and output type keys once at construction.
package stage

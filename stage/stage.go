package stage

import (
	"context"

	"github.com/axiondata/conveyor/deliverable"
	"github.com/axiondata/conveyor/identity"
)

// Stage is a unit of pipeline work. The orchestrator calls Consume with
// the resolved values for the declared input types, then Produce for the
// stage's output.
//
// A stage is polymorphic over its capabilities: a pure producer declares
// no input types, and a pure consumer returns a nil deliverable from
// Produce.
type Stage interface {
	// ID is the stage's identity, used as the producer tag on its
	// output and as the requester in consumer-tag disambiguation.
	ID() identity.StageID

	// RequiredInputTypes declares, before execution, the types this
	// stage needs resolved.
	RequiredInputTypes() []identity.TypeKey

	// Consume receives exactly the resolved values for the declared
	// input types, keyed by type. Called once per run, before Produce.
	Consume(ctx context.Context, inputs map[identity.TypeKey]any) error

	// Produce is invoked once per run after Consume. A nil deliverable
	// with a nil error means the stage produces no output.
	Produce(ctx context.Context) (*deliverable.Deliverable, error)
}

// Options configures the deliverable a wrapped stage emits.
type Options struct {
	// DeliverTo pre-tags the output for downstream stages, so that
	// resolution can disambiguate when several producers emit the
	// same type.
	DeliverTo []identity.StageID
}

// Option configures Options.
type Option func(*Options)

// DeliverTo tags the stage's output deliverable for the given consumers.
func DeliverTo(stages ...identity.StageID) Option {
	return func(o *Options) {
		o.DeliverTo = append(o.DeliverTo, stages...)
	}
}

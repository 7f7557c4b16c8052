package conveyor

import (
	"context"

	"github.com/axiondata/conveyor/identity"
)

type runIDKey struct{}

// WithRunID returns a context carrying the pipeline run identifier.
func WithRunID(ctx context.Context, id identity.RunID) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext extracts the run identifier set by Pipeline.Run.
// Stages can use it to correlate their own logs with the run.
func RunIDFromContext(ctx context.Context) (identity.RunID, bool) {
	id, ok := ctx.Value(runIDKey{}).(identity.RunID)
	return id, ok
}

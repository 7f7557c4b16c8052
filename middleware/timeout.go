package middleware

import (
	"context"
	"time"

	"github.com/axiondata/conveyor/stage"
)

// Timeout returns middleware that enforces a per-stage execution
// deadline. A non-positive duration disables the deadline. When the
// deadline is exceeded the context is cancelled and the stage should
// return context.DeadlineExceeded.
func Timeout(d time.Duration) Middleware {
	return func(ctx context.Context, _ stage.Stage, next Handler) error {
		if d > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
		return next(ctx)
	}
}

package middleware

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/axiondata/conveyor/stage"
)

// RateLimit returns middleware that throttles stage execution through a
// shared token-bucket limiter. Wait blocks until a token is available or
// the context is cancelled.
func RateLimit(limiter *rate.Limiter) Middleware {
	return func(ctx context.Context, _ stage.Stage, next Handler) error {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		return next(ctx)
	}
}

// Package middleware provides composable middleware for stage execution.
// Middleware wraps a stage's Produce call synchronously and can modify
// execution (recover from panics, log, enforce deadlines, rate-limit).
package middleware

import (
	"context"

	"github.com/axiondata/conveyor/stage"
)

// Handler is the terminal function that executes stage logic.
type Handler func(ctx context.Context) error

// Middleware wraps a Handler with cross-cutting logic. It receives the
// current context, the stage being executed, and the next handler to
// call. Middleware MUST call next to continue the chain (unless
// short-circuiting on error).
type Middleware func(ctx context.Context, s stage.Stage, next Handler) error

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(logging, recover, ratelimit) executes as:
//
//	logging → recover → ratelimit → handler
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, s stage.Stage, next Handler) error {
		// Build the chain from the end backwards.
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) error {
				return mw(ctx, s, prev)
			}
		}
		return h(ctx)
	}
}

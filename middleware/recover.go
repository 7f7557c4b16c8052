package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/axiondata/conveyor/stage"
)

// Recover returns middleware that recovers from panics in the handler
// chain. Panics are converted to errors and logged with a stack trace.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, s stage.Stage, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("stage panicked",
					slog.String("stage", s.ID().String()),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				retErr = fmt.Errorf("panic in stage %s: %v", s.ID(), r)
			}
		}()
		return next(ctx)
	}
}

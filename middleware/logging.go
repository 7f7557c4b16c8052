package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/axiondata/conveyor/stage"
)

// Logging returns middleware that logs stage start and completion.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, s stage.Stage, next Handler) error {
		logger.Info("stage started",
			slog.String("stage", s.ID().String()),
		)

		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("stage failed",
				slog.String("stage", s.ID().String()),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("stage completed",
				slog.String("stage", s.ID().String()),
				slog.Duration("elapsed", elapsed),
			)
		}

		return err
	}
}

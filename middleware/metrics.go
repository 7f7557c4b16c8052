package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/axiondata/conveyor/stage"
)

// meterName is the instrumentation scope name for conveyor metrics.
const meterName = "github.com/axiondata/conveyor"

// Metrics returns middleware that records per-stage execution metrics
// using the global OTel MeterProvider. If no MeterProvider is
// configured, noop instruments are used and this middleware becomes a
// pass-through.
//
// Instruments:
//   - conveyor.stage.duration (Float64Histogram): execution time in
//     seconds, with attributes: stage_id, status ("ok" or "error")
//   - conveyor.stage.executions (Int64Counter): total executions,
//     with attributes: stage_id, status ("ok" or "error")
func Metrics() Middleware {
	meter := otel.Meter(meterName)
	return MetricsWithMeter(meter)
}

// MetricsWithMeter returns metrics middleware using the provided meter.
// This variant allows injecting a specific MeterProvider for testing.
func MetricsWithMeter(meter metric.Meter) Middleware {
	// Create instruments once at middleware construction time.
	// OTel instruments are safe for concurrent use. On error, the API
	// returns noop instruments so the middleware degrades gracefully.
	duration, dErr := meter.Float64Histogram(
		"conveyor.stage.duration",
		metric.WithDescription("Duration of stage execution in seconds"),
		metric.WithUnit("s"),
	)
	_ = dErr // noop fallback guaranteed by OTel API contract

	executions, eErr := meter.Int64Counter(
		"conveyor.stage.executions",
		metric.WithDescription("Total number of stage executions"),
		metric.WithUnit("{execution}"),
	)
	_ = eErr // noop fallback guaranteed by OTel API contract

	return func(ctx context.Context, s stage.Stage, next Handler) error {
		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start).Seconds()

		status := "ok"
		if err != nil {
			status = "error"
		}

		attrs := metric.WithAttributes(
			attribute.String("stage_id", s.ID().String()),
			attribute.String("status", status),
		)

		duration.Record(ctx, elapsed, attrs)
		executions.Add(ctx, 1, attrs)

		return err
	}
}

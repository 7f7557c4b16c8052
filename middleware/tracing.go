package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/axiondata/conveyor/stage"
)

// tracerName is the instrumentation scope name for conveyor tracing.
const tracerName = "github.com/axiondata/conveyor"

// Tracing returns middleware that wraps stage execution in an
// OpenTelemetry span. If no TracerProvider is configured globally, the
// default noop tracer is used and this middleware becomes a
// pass-through with zero overhead.
//
// Span attributes include: conveyor.stage.id and conveyor.stage.inputs
// (the number of declared input types). On error, the span status is
// set to codes.Error with the error message.
func Tracing() Middleware {
	tracer := otel.Tracer(tracerName)
	return TracingWithTracer(tracer)
}

// TracingWithTracer returns tracing middleware using the provided
// tracer. This variant allows injecting a specific TracerProvider for
// testing or when multiple providers are in use.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, s stage.Stage, next Handler) error {
		ctx, span := tracer.Start(ctx, "conveyor.stage.execute",
			trace.WithAttributes(
				attribute.String("conveyor.stage.id", s.ID().String()),
				attribute.Int("conveyor.stage.inputs", len(s.RequiredInputTypes())),
			),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		err := next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}

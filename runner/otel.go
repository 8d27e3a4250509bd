package runner

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/amp-labs/fsm/runner"

// startActionSpan creates a span for processing one queued action.
// Uses the global tracer provider, typically initialized by
// github.com/amp-labs/fsm/telemetry. The caller ends the span.
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startActionSpan(ctx context.Context, runnerName string, state, kind any) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)

	ctx, span := tracer.Start(ctx, "runner.action")
	span.SetAttributes(
		attribute.String("runner", runnerName),
		attribute.String("state", valueLabel(state)),
		attribute.String("action", valueLabel(kind)),
	)

	return ctx, span
}

// recordSpanError marks the span failed with the handler's error.
func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// recordSpanOK marks the span completed.
func recordSpanOK(span trace.Span) {
	span.SetStatus(codes.Ok, "completed")
}

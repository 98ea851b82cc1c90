// Package tracing wraps the OpenTelemetry tracer used across handlers, services and
// repositories. With no exporter configured every helper is a no-op.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	HeaderTraceParent = "traceparent"
	HeaderTraceState  = "tracestate"
)

var tracer trace.Tracer

// SetTracer installs the tracer. nil switches tracing off.
func SetTracer(t trace.Tracer) {
	tracer = t
}

// StartSpan starts a child span. Without a tracer the span already on ctx is returned
// so callers can always defer span.End().
func StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name)
}

// GetActiveSpan returns the recorded span on ctx, or nil.
func GetActiveSpan(ctx context.Context) trace.Span {
	if tracer == nil {
		return nil
	}
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		return span
	}
	return nil
}

func GetTraceID(ctx context.Context) string {
	if span := GetActiveSpan(ctx); span != nil {
		return span.SpanContext().TraceID().String()
	}
	return ""
}

// PropagationHeaders returns the W3C trace context headers for the active span, empty
// when nothing is being traced. Event publishers copy these onto outgoing messages.
func PropagationHeaders(ctx context.Context) map[string]string {
	if GetActiveSpan(ctx) == nil {
		return nil
	}
	carrier := propagation.MapCarrier{}
	propagation.TraceContext{}.Inject(ctx, carrier)
	return carrier
}

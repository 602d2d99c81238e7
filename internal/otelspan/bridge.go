// internal/otelspan/bridge.go
// Helper utilities that let Gateway.Request/platform-query round trips carry
// an OpenTelemetry span annotated with their correlation id, so a trace
// backend can line up a request and its reply even though they cross the
// wire as two independent frames. Grounded on the teacher's
// pkg/otel/spanlink.go (StartLinkedSpan attaching a goroutine-id attribute,
// WithGID propagating it via baggage), generalised from a goroutine id to
// the request/message correlation id fjagego already has on hand.
package otelspan

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/trace"
)

const attrCorrelationKey = "fjage.correlation_id"

// StartLinkedSpan starts a child span of the span in ctx (or a root span if
// ctx has none) and attaches correlationID as an attribute, so the gateway's
// own request/reply log lines and any downstream platform tracing can be
// cross-referenced by the same value.
func StartLinkedSpan(ctx context.Context, tracer trace.Tracer, name, correlationID string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	attr := attribute.String(attrCorrelationKey, correlationID)
	opts = append(opts, trace.WithAttributes(attr))
	return tracer.Start(ctx, name, opts...)
}

// WithCorrelationID returns a context carrying correlationID as a baggage
// member, so it survives even if span propagation itself is dropped
// somewhere downstream.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	member, err := baggage.NewMember(attrCorrelationKey, correlationID)
	if err != nil {
		return ctx
	}
	bg, err := baggage.FromContext(ctx).SetMember(member)
	if err != nil {
		return ctx
	}
	return baggage.ContextWithBaggage(ctx, bg)
}

package otelx

import (
	"context"

	"go.opentelemetry.io/otel/propagation"
)

// TraceContext is the W3C trace context persisted next to a deferred unit of work, such as
// an outbox row, so the worker that finishes it joins the originating trace.
type TraceContext struct {
	Traceparent string
	Tracestate  string
}

var w3c propagation.TraceContext

// CaptureTraceContext serializes the span context of ctx. It works without a configured
// global propagator.
func CaptureTraceContext(ctx context.Context) TraceContext {
	carrier := propagation.MapCarrier{}
	w3c.Inject(ctx, carrier)
	return TraceContext{
		Traceparent: carrier.Get("traceparent"),
		Tracestate:  carrier.Get("tracestate"),
	}
}

func (tc TraceContext) Empty() bool {
	return tc.Traceparent == ""
}

// Restore returns ctx carrying tc as its remote parent. An empty or malformed tc leaves ctx
// untouched.
func (tc TraceContext) Restore(ctx context.Context) context.Context {
	if tc.Empty() {
		return ctx
	}
	return w3c.Extract(ctx, propagation.MapCarrier{
		"traceparent": tc.Traceparent,
		"tracestate":  tc.Tracestate,
	})
}

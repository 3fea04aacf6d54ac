package otelx

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestTraceContextRoundTrip(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	tc := CaptureTraceContext(ctx)
	if tc.Empty() {
		t.Fatal("expected traceparent to be set")
	}
	if tc.Traceparent != "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01" {
		t.Fatalf("unexpected traceparent %q", tc.Traceparent)
	}

	restored := trace.SpanContextFromContext(tc.Restore(context.Background()))
	if restored.TraceID() != traceID || !restored.IsRemote() {
		t.Fatalf("expected remote parent in trace %s, got %+v", traceID, restored)
	}
}

func TestEmptyTraceContext(t *testing.T) {
	if tc := CaptureTraceContext(context.Background()); !tc.Empty() {
		t.Fatalf("expected empty trace context without a span, got %+v", tc)
	}
	ctx := context.Background()
	if got := (TraceContext{}).Restore(ctx); got != ctx {
		t.Fatal("expected the same context back")
	}
	if got := (TraceContext{Traceparent: "garbage"}).Restore(ctx); trace.SpanContextFromContext(got).IsValid() {
		t.Fatal("malformed traceparent must not produce a span context")
	}
}

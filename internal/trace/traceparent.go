// Package trace implements the W3C traceparent codec the broker uses to
// carry trace context across MQTT and AMQP hops, grounded on
// original_source/infra/src/otel/amqp.rs's Traceparent.
package trace

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// version is the W3C trace-context version Encode emits, matching
// TRACE_VERSION in otel/amqp.rs. Decode does not check the version field.
const version = "00"

// Encode formats the span context ambient in ctx as a traceparent
// header value: "{version}-{trace_id}-{span_id}-{flags}". Returns ""
// if ctx carries no valid span context.
func Encode(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return fmt.Sprintf("%s-%032x-%016x-%02x", version, sc.TraceID(), sc.SpanID(), sc.TraceFlags())
}

// Decode parses a traceparent header value into a remote SpanContext a
// consumer can use as the parent of its own span. An empty or malformed
// input yields an invalid (zero) SpanContext rather than an error, since
// a missing traceparent is routine (the first hop of a trace) rather
// than exceptional.
func Decode(traceparent string) trace.SpanContext {
	parts := strings.Split(traceparent, "-")
	if len(parts) != 4 {
		return trace.SpanContext{}
	}

	tid, err := trace.TraceIDFromHex(parts[1])
	if err != nil {
		return trace.SpanContext{}
	}

	sid, err := trace.SpanIDFromHex(parts[2])
	if err != nil {
		return trace.SpanContext{}
	}

	flagsByte, err := strconv.ParseUint(parts[3], 16, 8)
	if err != nil {
		return trace.SpanContext{}
	}

	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    tid,
		SpanID:     sid,
		TraceFlags: trace.TraceFlags(flagsByte),
		Remote:     true,
	})
}

// WithRemoteParent returns a context carrying sc as the active (remote)
// span context, suitable for starting a new span as its child.
func WithRemoteParent(ctx context.Context, sc trace.SpanContext) context.Context {
	if !sc.IsValid() {
		return ctx
	}
	return trace.ContextWithRemoteSpanContext(ctx, sc)
}

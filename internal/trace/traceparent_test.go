package trace_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	otrace "go.opentelemetry.io/otel/trace"

	"github.com/coldtrail/iot-broker/internal/trace"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	sc := otrace.NewSpanContext(otrace.SpanContextConfig{
		TraceID:    otrace.TraceID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		SpanID:     otrace.SpanID{1, 2, 3, 4, 5, 6, 7, 8},
		TraceFlags: otrace.FlagsSampled,
	})
	ctx := otrace.ContextWithSpanContext(context.Background(), sc)

	encoded := trace.Encode(ctx)
	require.NotEmpty(t, encoded)

	decoded := trace.Decode(encoded)
	require.True(t, decoded.IsValid())
	require.Equal(t, sc.TraceID(), decoded.TraceID())
	require.Equal(t, sc.SpanID(), decoded.SpanID())
	require.Equal(t, sc.TraceFlags(), decoded.TraceFlags())
}

func TestEncode_NoSpanContext(t *testing.T) {
	require.Empty(t, trace.Encode(context.Background()))
}

func TestDecode_Malformed(t *testing.T) {
	require.False(t, trace.Decode("").IsValid())
	require.False(t, trace.Decode("not-a-traceparent").IsValid())
	require.False(t, trace.Decode("00-zz-zz-zz").IsValid())
}

func TestWithRemoteParent_InvalidIsNoop(t *testing.T) {
	ctx := context.Background()
	got := trace.WithRemoteParent(ctx, otrace.SpanContext{})
	require.Equal(t, ctx, got)
}

package amqp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	amqpinfra "github.com/coldtrail/iot-broker/internal/amqp"
	amqp091 "github.com/rabbitmq/amqp091-go"
)

func TestNewEnvelope(t *testing.T) {
	envelope, err := amqpinfra.NewEnvelope("temp", "00-trace-span-01", map[string]any{"temp": 39.9})
	require.NoError(t, err)
	require.Equal(t, "temp", envelope.Kind)
	require.Equal(t, "00-trace-span-01", envelope.Traceparent)
	require.JSONEq(t, `{"temp":39.9}`, string(envelope.Payload))
}

func TestExtractMetadata_EmptyHeaders(t *testing.T) {
	meta := amqpinfra.ExtractMetadata(nil)
	require.Equal(t, int64(0), meta.Count)
	require.Empty(t, meta.Traceparent)
}

func TestExtractMetadata_PresentHeaders(t *testing.T) {
	headers := amqp091.Table{
		"traceparent": "00-abc-def-01",
		"x-death": []interface{}{
			amqp091.Table{"count": int64(2)},
		},
	}

	meta := amqpinfra.ExtractMetadata(headers)
	require.Equal(t, int64(2), meta.Count)
	require.Equal(t, "00-abc-def-01", meta.Traceparent)
}

func TestExtractMetadata_Int32Count(t *testing.T) {
	headers := amqp091.Table{
		"x-death": []interface{}{
			amqp091.Table{"count": int32(7)},
		},
	}

	meta := amqpinfra.ExtractMetadata(headers)
	require.Equal(t, int64(7), meta.Count)
}

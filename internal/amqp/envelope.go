// Package amqp wraps github.com/rabbitmq/amqp091-go with the broker's
// connection lifecycle, topology installation, and consumer runtime.
package amqp

import (
	"encoding/json"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/coldtrail/iot-broker/internal/topology"
)

// PublishEnvelope holds what Client.Publish sends, mirroring
// original_source/infra/src/amqp/types.rs's PublishData: Payload becomes
// the message body, Kind the message type property, and Traceparent the
// traceparent header. The envelope itself is not serialized as the body.
type PublishEnvelope struct {
	Payload     json.RawMessage `json:"payload"`
	Kind        string          `json:"msg_type"`
	Traceparent string          `json:"traceparent"`
}

// NewEnvelope marshals payload and stamps the message kind and trace
// context onto the envelope.
func NewEnvelope(kind, traceparent string, payload any) (PublishEnvelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return PublishEnvelope{}, err
	}
	return PublishEnvelope{Payload: body, Kind: kind, Traceparent: traceparent}, nil
}

// ExtractMetadata reads x-death[0].count and traceparent off the
// delivery's headers, defaulting both to their zero value when absent —
// the same fallback chain as topology.rs's Metadata::extract.
func ExtractMetadata(headers amqp091.Table) topology.Metadata {
	meta := topology.Metadata{}

	if deaths, ok := headers["x-death"].([]interface{}); ok && len(deaths) > 0 {
		if first, ok := deaths[0].(amqp091.Table); ok {
			switch v := first["count"].(type) {
			case int64:
				meta.Count = v
			case int32:
				meta.Count = int64(v)
			case int:
				meta.Count = int64(v)
			}
		}
	}

	if tp, ok := headers["traceparent"].(string); ok {
		meta.Traceparent = tp
	}

	return meta
}

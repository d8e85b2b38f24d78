// Package business implements the three consumer-side roles spec.md §1
// names: normalizing ingested telemetry, dispatching it to downstream
// subscribers after a business-logic round trip, and serving the latest
// reading over gRPC.
package business

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqpinfra "github.com/coldtrail/iot-broker/internal/amqp"
	"github.com/coldtrail/iot-broker/internal/topology"
	tracecontext "github.com/coldtrail/iot-broker/internal/trace"
)

// NormalizeExchange is where a validated reading is republished to,
// for the dispatcher queue to pick up.
const NormalizeExchange = "telemetry.normalized"

// NormalizeService is the AMQP consumer handler for the ingest queue: it
// validates a raw decoded reading and republishes it, carrying the
// inbound trace context forward — the second hop of spec.md §4.6's
// propagation chain. Grounded on
// original_source/app/src/consume_iot_msgs/mod.rs.
type NormalizeService struct {
	client *amqpinfra.Client
	log    *slog.Logger
}

func NewNormalizeService(client *amqpinfra.Client, log *slog.Logger) *NormalizeService {
	return &NormalizeService{client: client, log: log}
}

var _ topology.Handler = (*NormalizeService)(nil)

func (s *NormalizeService) Exec(ctx context.Context, meta topology.Metadata, body []byte) error {
	var reading Reading
	if err := json.Unmarshal(body, &reading); err != nil {
		return fmt.Errorf("normalize: decode payload: %w", err)
	}

	if reading.Time == 0 {
		return fmt.Errorf("normalize: reading missing time field")
	}
	if reading.DeviceID == "" {
		return fmt.Errorf("normalize: reading missing device id")
	}

	envelope, err := amqpinfra.NewEnvelope("temp", tracecontext.Encode(ctx), reading)
	if err != nil {
		return fmt.Errorf("normalize: encode envelope: %w", err)
	}

	if err := s.client.Publish(ctx, NormalizeExchange, "", envelope); err != nil {
		return fmt.Errorf("normalize: publish: %w", err)
	}

	s.log.Info("normalized reading published", "deviceId", reading.DeviceID, "temp", reading.Temp, "time", reading.Time)

	return nil
}

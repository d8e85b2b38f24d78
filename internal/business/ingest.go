package business

import (
	"context"
	"fmt"
	"log/slog"

	amqpinfra "github.com/coldtrail/iot-broker/internal/amqp"
	"github.com/coldtrail/iot-broker/internal/mqtt"
	tracecontext "github.com/coldtrail/iot-broker/internal/trace"
)

// IngestExchange is where cmd/ingestor republishes every decoded MQTT
// reading, for cmd/normalizer to pick up.
const IngestExchange = "telemetry.ingest"

// IngestService is the mqtt.Controller the ingestor registers for
// IoT(Temp) topics: decode, then hand straight to AMQP with the inbound
// trace context carried forward (spec.md §4.6's first hop).
type IngestService struct {
	client *amqpinfra.Client
	log    *slog.Logger
}

func NewIngestService(client *amqpinfra.Client, log *slog.Logger) *IngestService {
	return &IngestService{client: client, log: log}
}

func (s *IngestService) Exec(ctx context.Context, meta mqtt.MessageMetadata, msg mqtt.Message) error {
	if msg.Temp == nil {
		return fmt.Errorf("ingest: no temperature payload for topic %s", meta.Topic)
	}

	reading := Reading{DeviceID: meta.DeviceID, Temp: msg.Temp.Temp, Time: msg.Temp.Time}

	envelope, err := amqpinfra.NewEnvelope("temp", tracecontext.Encode(ctx), reading)
	if err != nil {
		return fmt.Errorf("ingest: encode envelope: %w", err)
	}

	if err := s.client.Publish(ctx, IngestExchange, "", envelope); err != nil {
		return fmt.Errorf("ingest: publish: %w", err)
	}

	s.log.Debug("ingested mqtt reading", "topic", meta.Topic, "deviceId", meta.DeviceID)

	return nil
}

package business

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqpinfra "github.com/coldtrail/iot-broker/internal/amqp"
	"github.com/coldtrail/iot-broker/internal/cache"
	"github.com/coldtrail/iot-broker/internal/history"
	"github.com/coldtrail/iot-broker/internal/repository"
	"github.com/coldtrail/iot-broker/internal/topology"
	tracecontext "github.com/coldtrail/iot-broker/internal/trace"
)

// AlertExchange is the fanout exchange dispatched readings are published to
// for downstream subscribers, per spec.md §1.
const AlertExchange = "telemetry.alerts"

// DispatchService is the AMQP consumer handler for the normalized queue: it
// runs the stub repository round trip, writes the read-cache and history
// archive, then fans the reading out to downstream subscribers. Grounded on
// original_source/app/src/consume_iot_msgs/mod.rs.
type DispatchService struct {
	client *amqpinfra.Client
	repo   repository.Repository
	cache  *cache.ReadingCache
	store  *history.Store
	log    *slog.Logger
}

func NewDispatchService(client *amqpinfra.Client, repo repository.Repository, c *cache.ReadingCache, store *history.Store, log *slog.Logger) *DispatchService {
	return &DispatchService{client: client, repo: repo, cache: c, store: store, log: log}
}

var _ topology.Handler = (*DispatchService)(nil)

func (s *DispatchService) Exec(ctx context.Context, meta topology.Metadata, body []byte) error {
	var reading Reading
	if err := json.Unmarshal(body, &reading); err != nil {
		return fmt.Errorf("dispatch: decode payload: %w", err)
	}

	if err := s.repo.Get(ctx, reading.DeviceID); err != nil {
		return fmt.Errorf("dispatch: repository get: %w", err)
	}
	if err := s.repo.Save(ctx, reading.DeviceID); err != nil {
		return fmt.Errorf("dispatch: repository save: %w", err)
	}

	if err := s.cache.Set(ctx, cache.Reading{
		DeviceID: reading.DeviceID,
		Temp:     reading.Temp,
		Time:     reading.Time,
	}); err != nil {
		return fmt.Errorf("dispatch: cache set: %w", err)
	}

	if err := s.store.Append(ctx, history.Record{
		DeviceID:   reading.DeviceID,
		Temp:       reading.Temp,
		Time:       reading.Time,
		RecordedAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("dispatch: history append: %w", err)
	}

	envelope, err := amqpinfra.NewEnvelope("temp", tracecontext.Encode(ctx), reading)
	if err != nil {
		return fmt.Errorf("dispatch: encode envelope: %w", err)
	}
	if err := s.client.Publish(ctx, AlertExchange, "", envelope); err != nil {
		return fmt.Errorf("dispatch: publish alert: %w", err)
	}

	s.log.Info("dispatched reading", "deviceId", reading.DeviceID)

	return nil
}

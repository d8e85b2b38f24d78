package business

import (
	"context"
	"errors"
	"fmt"

	"github.com/coldtrail/iot-broker/internal/cache"
	"github.com/coldtrail/iot-broker/internal/history"
	"github.com/coldtrail/iot-broker/internal/repository"
)

// ReadService serves the latest reading for a device, cache-aside: try the
// Redis read-cache first, fall back to the history archive on a miss.
// Grounded on original_source/infra/src/grpc_services/mod.rs's
// ExampleService wrapping IoTRepository.
type ReadService struct {
	repo  repository.Repository
	cache *cache.ReadingCache
	store *history.Store
}

func NewReadService(repo repository.Repository, c *cache.ReadingCache, store *history.Store) *ReadService {
	return &ReadService{repo: repo, cache: c, store: store}
}

// Latest returns the most recent reading for deviceID, and whether one was
// found at all.
func (s *ReadService) Latest(ctx context.Context, deviceID string) (Reading, bool, error) {
	if err := s.repo.Get(ctx, deviceID); err != nil {
		return Reading{}, false, fmt.Errorf("read: repository get: %w", err)
	}

	if cached, err := s.cache.Get(ctx, deviceID); err == nil {
		return Reading{DeviceID: cached.DeviceID, Temp: cached.Temp, Time: cached.Time}, true, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		return Reading{}, false, fmt.Errorf("read: cache get: %w", err)
	}

	record, err := s.store.Latest(ctx, deviceID)
	if errors.Is(err, history.ErrNotFound) {
		return Reading{}, false, nil
	}
	if err != nil {
		return Reading{}, false, fmt.Errorf("read: history latest: %w", err)
	}

	reading := Reading{DeviceID: record.DeviceID, Temp: record.Temp, Time: record.Time}

	if err := s.cache.Set(ctx, cache.Reading{DeviceID: reading.DeviceID, Temp: reading.Temp, Time: reading.Time}); err != nil {
		return reading, true, nil
	}

	return reading, true, nil
}

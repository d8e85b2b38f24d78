// Package cache is a cache-aside store for each device's latest
// telemetry reading, grounded on stock/cache.go's ItemCache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Reading is the cached shape: the latest decoded temperature reading
// for a device.
type Reading struct {
	DeviceID string  `json:"device_id"`
	Temp     float32 `json:"temp"`
	Time     uint64  `json:"time"`
}

// ErrMiss is returned by Get on a cache miss.
var ErrMiss = errors.New("cache: miss")

type ReadingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(addr string, ttl time.Duration) (*ReadingCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: connect to redis: %w", err)
	}

	return &ReadingCache{client: client, ttl: ttl}, nil
}

func (c *ReadingCache) Close() error {
	return c.client.Close()
}

func key(deviceID string) string { return "reading:" + deviceID }

// Get returns the cached reading for deviceID, or ErrMiss if absent.
func (c *ReadingCache) Get(ctx context.Context, deviceID string) (Reading, error) {
	data, err := c.client.Get(ctx, key(deviceID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Reading{}, ErrMiss
	}
	if err != nil {
		return Reading{}, fmt.Errorf("cache: get %s: %w", deviceID, err)
	}

	var r Reading
	if err := json.Unmarshal(data, &r); err != nil {
		return Reading{}, fmt.Errorf("cache: unmarshal %s: %w", deviceID, err)
	}

	return r, nil
}

// Set stores r under its DeviceID with the cache's TTL.
func (c *ReadingCache) Set(ctx context.Context, r Reading) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", r.DeviceID, err)
	}

	if err := c.client.Set(ctx, key(r.DeviceID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", r.DeviceID, err)
	}

	return nil
}

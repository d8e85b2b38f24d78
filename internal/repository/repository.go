// Package repository is the stub database interaction spec.md §1 calls
// for: a latency-simulating round trip, not a real store. Grounded on
// original_source/infra/src/repositories/iot_repository.rs, which sleeps
// 50ms/100ms in place of a real query.
package repository

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("repository")

// Repository is the business layer's only database dependency.
type Repository interface {
	Get(ctx context.Context, deviceID string) error
	Save(ctx context.Context, deviceID string) error
}

type stub struct{}

func New() Repository { return &stub{} }

func (s *stub) Get(ctx context.Context, deviceID string) error {
	_, span := tracer.Start(ctx, "repository.get")
	defer span.End()
	time.Sleep(50 * time.Millisecond)
	return nil
}

func (s *stub) Save(ctx context.Context, deviceID string) error {
	_, span := tracer.Start(ctx, "repository.save")
	defer span.End()
	time.Sleep(100 * time.Millisecond)
	return nil
}

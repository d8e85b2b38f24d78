// Package app holds the startup/shutdown scaffolding shared by every
// cmd/ binary: config, logging, tracing, metrics, and service discovery
// registration, matching the shape of the teacher's per-service app.go
// files but factored into one shared helper since these binaries share
// a single module.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coldtrail/iot-broker/internal/config"
	"github.com/coldtrail/iot-broker/internal/discovery"
	"github.com/coldtrail/iot-broker/internal/discovery/consul"
	"github.com/coldtrail/iot-broker/internal/logging"
	"github.com/coldtrail/iot-broker/internal/telemetry"
)

// Bootstrap is the ambient stack every binary starts with: config,
// logger, tracer provider, and a Consul-backed registry.
type Bootstrap struct {
	Config   *config.Config
	Log      *slog.Logger
	Registry discovery.Registry

	shutdownTracer func(context.Context) error
}

// Start loads config.Load(appName), builds the logger, installs the OTLP
// tracer provider, and connects to Consul.
func Start(ctx context.Context, appName string) (*Bootstrap, error) {
	cfg := config.Load(appName)
	log := logging.New(appName, cfg)

	shutdownTracer, err := telemetry.Init(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: init tracer: %w", err)
	}

	registry, err := consul.NewRegistry(cfg.ConsulAddr)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: connect consul: %w", err)
	}

	return &Bootstrap{Config: cfg, Log: log, Registry: registry, shutdownTracer: shutdownTracer}, nil
}

// Register registers addr under serviceName and starts its TTL health
// check loop.
func (b *Bootstrap) Register(ctx context.Context, serviceName, addr string) (*discovery.ServiceRegistration, error) {
	instanceID := discovery.GenerateInstanceID(serviceName)
	return discovery.Register(ctx, b.Registry, instanceID, serviceName, addr)
}

// ServeMetrics starts a background HTTP server exposing /metrics on addr.
func (b *Bootstrap) ServeMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			b.Log.Error("metrics server failed", "error", err)
		}
	}()

	return srv
}

// Shutdown flushes pending spans.
func (b *Bootstrap) Shutdown(ctx context.Context) error {
	return b.shutdownTracer(ctx)
}

package rpc

import (
	"log/slog"

	"github.com/coldtrail/iot-broker/internal/business"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
)

// NewServer builds the gRPC server cmd/apiserver listens with, wired the
// way orders/app.go wires otelgrpc's server stats handler.
func NewServer(read *business.ReadService, log *slog.Logger) *grpc.Server {
	srv := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	Register(srv, read, log)
	return srv
}

package discovery

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ServiceConnection discovers instances of serviceName, picks one at
// random, and dials it with OTel gRPC instrumentation attached.
func ServiceConnection(ctx context.Context, serviceName string, registry Registry) (*grpc.ClientConn, error) {
	addrs, err := registry.Discover(ctx, serviceName)
	if err != nil {
		return nil, err
	}

	if len(addrs) == 0 {
		return nil, fmt.Errorf("no instances found for service %s", serviceName)
	}

	selected := addrs[rand.Intn(len(addrs))]
	log.Printf("discovered %d instances of %s, dialing %s", len(addrs), serviceName, selected)

	return grpc.NewClient(
		selected,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
}

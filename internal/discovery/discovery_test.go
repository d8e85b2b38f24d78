package discovery_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coldtrail/iot-broker/internal/discovery"
	"github.com/coldtrail/iot-broker/internal/discovery/inmem"
)

func TestRegister_DiscoverableUntilDeregistered(t *testing.T) {
	ctx := context.Background()
	registry := inmem.NewRegistry()

	reg, err := discovery.Register(ctx, registry, "apiserver-1", "apiserver", "localhost:9090")
	require.NoError(t, err)

	addrs, err := registry.Discover(ctx, "apiserver")
	require.NoError(t, err)
	require.Equal(t, []string{"localhost:9090"}, addrs)

	require.NoError(t, reg.Deregister(ctx))

	_, err = registry.Discover(ctx, "apiserver")
	require.Error(t, err)
}

func TestServiceConnection_NoInstances(t *testing.T) {
	registry := inmem.NewRegistry()
	_, err := discovery.ServiceConnection(context.Background(), "apiserver", registry)
	require.Error(t, err)
}

func TestServiceConnection_DialsDiscoveredAddr(t *testing.T) {
	ctx := context.Background()
	registry := inmem.NewRegistry()
	require.NoError(t, registry.Register(ctx, "apiserver-1", "apiserver", "localhost:9090"))

	conn, err := discovery.ServiceConnection(ctx, "apiserver", registry)
	require.NoError(t, err)
	defer conn.Close()
}

func TestGenerateInstanceID_Unique(t *testing.T) {
	a := discovery.GenerateInstanceID("apiserver")
	time.Sleep(time.Millisecond)
	b := discovery.GenerateInstanceID("apiserver")
	require.NotEqual(t, a, b)
}

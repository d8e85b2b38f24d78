package inmem_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coldtrail/iot-broker/internal/discovery/inmem"
)

func TestRegisterAndDiscover(t *testing.T) {
	ctx := context.Background()
	r := inmem.NewRegistry()

	require.NoError(t, r.Register(ctx, "apiserver-1", "apiserver", "10.0.0.1:9090"))

	addrs, err := r.Discover(ctx, "apiserver")
	require.NoError(t, err)
	require.Equal(t, []string{"10.0.0.1:9090"}, addrs)
}

func TestDiscover_NoInstances(t *testing.T) {
	r := inmem.NewRegistry()
	_, err := r.Discover(context.Background(), "apiserver")
	require.Error(t, err)
}

func TestHealthCheck_UnknownInstance(t *testing.T) {
	r := inmem.NewRegistry()
	err := r.HealthCheck("ghost", "apiserver")
	require.Error(t, err)
}

func TestDeregister(t *testing.T) {
	ctx := context.Background()
	r := inmem.NewRegistry()

	require.NoError(t, r.Register(ctx, "apiserver-1", "apiserver", "10.0.0.1:9090"))
	require.NoError(t, r.Deregister(ctx, "apiserver-1", "apiserver"))

	_, err := r.Discover(ctx, "apiserver")
	require.Error(t, err)
}

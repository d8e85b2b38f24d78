package topology_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coldtrail/iot-broker/internal/topology"
)

type noopHandler struct{}

func (noopHandler) Exec(ctx context.Context, meta topology.Metadata, body []byte) error { return nil }

func TestValidate_BindingToUndeclaredExchange(t *testing.T) {
	top := topology.New().
		Queue(topology.Queue("q1").Binding(topology.Binding("missing-exchange", "q1", "")))

	err := top.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "undeclared exchange")
}

func TestValidate_ConsumerOnUndeclaredQueue(t *testing.T) {
	top := topology.New().
		ConsumerDef(topology.Consumer("c1").OnQueue("ghost").WithHandler(noopHandler{}))

	err := top.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "undeclared queue")
}

func TestValidate_RetryConsumerRequiresRetryQueue(t *testing.T) {
	top := topology.New().
		Queue(topology.Queue("q1")).
		ConsumerDef(topology.Consumer("c1").OnQueue("q1").WithHandler(noopHandler{}).Retry(3))

	err := top.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "not built WithRetry")
}

func TestValidate_ConsumerRequiresHandler(t *testing.T) {
	top := topology.New().
		Queue(topology.Queue("q1")).
		ConsumerDef(topology.Consumer("c1").OnQueue("q1"))

	err := top.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "no handler")
}

func TestValidate_WellFormedTopology(t *testing.T) {
	top := topology.New().
		Exchange(topology.Exchange("ex1").Fanout()).
		Queue(topology.Queue("q1").
			WithDLQ().
			WithRetry(5000, 3).
			Binding(topology.Binding("ex1", "q1", ""))).
		ConsumerDef(topology.Consumer("c1").OnQueue("q1").WithHandler(noopHandler{}).DLQ().Retry(3))

	require.NoError(t, top.Validate())
}

func TestQueueDefinition_EscortNames(t *testing.T) {
	q := topology.Queue("orders")
	require.Equal(t, "orders-retry", q.RetryName())
	require.Equal(t, "orders-dlq", q.DLQName())
}

func TestValidate_RetryNeedsPositiveTTL(t *testing.T) {
	top := topology.New().
		Queue(topology.Queue("q1").WithRetry(0, 3)).
		ConsumerDef(topology.Consumer("c1").OnQueue("q1").WithHandler(noopHandler{}).Retry(3))

	err := top.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "retry_ttl_ms > 0")
}

func TestValidate_RetryNeedsAtLeastOneRetry(t *testing.T) {
	top := topology.New().
		Queue(topology.Queue("q1").WithRetry(5000, 0)).
		ConsumerDef(topology.Consumer("c1").OnQueue("q1").WithHandler(noopHandler{}).Retry(1))

	err := top.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "max_retries >= 1")
}

func TestValidate_QueueNameCollision(t *testing.T) {
	top := topology.New().
		Queue(topology.Queue("orders")).
		Queue(topology.Queue("orders-dlq"))

	err := top.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "collides")
}

func TestConsumerFor_DerivesRetryAndDLQFromQueue(t *testing.T) {
	top := topology.New().
		Queue(topology.Queue("q1").WithDLQ().WithRetry(5000, 3))

	c, ok := top.ConsumerFor("q1")
	require.True(t, ok)
	require.Equal(t, "q1", c.Queue)
	require.True(t, c.WithDLQ)
	require.True(t, c.WithRetry)
	require.Equal(t, int64(3), c.MaxRetries)
}

func TestConsumerFor_NoDeclaredQueue(t *testing.T) {
	top := topology.New()

	_, ok := top.ConsumerFor("ghost")
	require.False(t, ok)
}

func TestConsumerFor_NoRetryNoDLQ(t *testing.T) {
	top := topology.New().Queue(topology.Queue("q1"))

	c, ok := top.ConsumerFor("q1")
	require.True(t, ok)
	require.False(t, c.WithDLQ)
	require.False(t, c.WithRetry)
}

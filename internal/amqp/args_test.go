package amqp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coldtrail/iot-broker/internal/topology"
)

func TestPlanQueue_NeitherRetryNorDLQ(t *testing.T) {
	plan := planQueue(topology.Queue("plain"))

	require.Nil(t, plan.RetryArgs)
	require.Nil(t, plan.DLQArgs)
	require.Empty(t, plan.MainArgs)
}

func TestPlanQueue_DLQOnly(t *testing.T) {
	plan := planQueue(topology.Queue("orders").WithDLQ())

	require.Nil(t, plan.RetryArgs)
	require.NotNil(t, plan.DLQArgs)
	require.Equal(t, "orders-dlq", plan.DLQName)
	require.Equal(t, "", plan.MainArgs["x-dead-letter-exchange"])
	require.Equal(t, "orders-dlq", plan.MainArgs["x-dead-letter-routing-key"])
}

func TestPlanQueue_RetryOnly(t *testing.T) {
	plan := planQueue(topology.Queue("orders").WithRetry(5000, 3))

	require.NotNil(t, plan.RetryArgs)
	require.Equal(t, "orders-retry", plan.RetryName)
	require.Equal(t, "orders", plan.RetryArgs["x-dead-letter-routing-key"])
	require.Equal(t, int32(5000), plan.RetryArgs["x-message-ttl"])

	require.NotNil(t, plan.DLQArgs)
	require.Equal(t, "orders-dlq", plan.DLQName)

	require.Equal(t, "orders-retry", plan.MainArgs["x-dead-letter-routing-key"])
}

func TestPlanQueue_RetryAndDLQ(t *testing.T) {
	plan := planQueue(topology.Queue("orders").WithDLQ().WithRetry(1000, 5))

	require.NotNil(t, plan.RetryArgs)
	require.NotNil(t, plan.DLQArgs)
	require.Equal(t, "orders-retry", plan.MainArgs["x-dead-letter-routing-key"])
}

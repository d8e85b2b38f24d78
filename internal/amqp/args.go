package amqp

import (
	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/coldtrail/iot-broker/internal/topology"
)

// queuePlan is the pure derivation of every queue argument map the
// installer needs for one QueueDefinition, split out from the broker
// round-trips in installer.go so it is unit-testable without a live
// connection.
type queuePlan struct {
	RetryName string
	RetryArgs amqp091.Table // nil if def has no retry
	DLQName   string
	DLQArgs   amqp091.Table // nil if def has no DLQ/retry
	MainArgs  amqp091.Table
}

// planQueue derives the retry/DLQ queue names and dead-letter argument
// maps for def, following install_retry/install_dlq in
// original_source/infra/src/amqp/client.rs exactly: the retry queue dead
// letters back to the main queue by name over the default exchange; the
// main queue dead letters into the retry queue if one exists, or
// straight into the DLQ if it doesn't.
func planQueue(def topology.QueueDefinition) queuePlan {
	plan := queuePlan{MainArgs: amqp091.Table{}}

	if def.WithRetry_ {
		plan.RetryName = def.RetryName()
		plan.RetryArgs = amqp091.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": def.Name,
			"x-message-ttl":             def.RetryTTLMs,
		}
		plan.MainArgs["x-dead-letter-exchange"] = ""
		plan.MainArgs["x-dead-letter-routing-key"] = plan.RetryName
	}

	if def.WithDLQFlag || def.WithRetry_ {
		plan.DLQName = def.DLQName()
		plan.DLQArgs = amqp091.Table{}

		if !def.WithRetry_ {
			plan.MainArgs["x-dead-letter-exchange"] = ""
			plan.MainArgs["x-dead-letter-routing-key"] = plan.DLQName
		}
	}

	return plan
}

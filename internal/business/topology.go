package business

import "github.com/coldtrail/iot-broker/internal/topology"

const (
	ingestQueue     = "telemetry.ingest.queue"
	normalizedQueue = "telemetry.normalized.queue"

	retryTTLMs = int32(5000)
	maxRetries = int64(3)
)

// IngestTopology is the slice cmd/ingestor installs: just the exchange it
// publishes decoded readings to.
func IngestTopology() *topology.Topology {
	return topology.New().
		Exchange(topology.Exchange(IngestExchange).Fanout())
}

// NormalizeTopology is the slice cmd/normalizer installs: the ingest
// exchange/queue it consumes (with a retry/DLQ policy) and the exchange it
// republishes normalized readings to.
func NormalizeTopology(handler topology.Handler) *topology.Topology {
	queue := topology.Queue(ingestQueue).
		WithDLQ().
		WithRetry(retryTTLMs, maxRetries).
		Binding(topology.Binding(IngestExchange, ingestQueue, ""))

	t := topology.New().
		Exchange(topology.Exchange(IngestExchange).Fanout()).
		Exchange(topology.Exchange(NormalizeExchange).Fanout()).
		Queue(queue)

	consumer, ok := t.ConsumerFor(ingestQueue)
	if !ok {
		panic("topology: ingest queue not declared")
	}
	consumer.Name = "normalizer"
	consumer = consumer.WithHandler(handler)

	return t.ConsumerDef(consumer)
}

// DispatchTopology is the slice cmd/dispatcher installs: the normalized
// exchange/queue it consumes and the alert exchange it fans out to.
func DispatchTopology(handler topology.Handler) *topology.Topology {
	queue := topology.Queue(normalizedQueue).
		WithDLQ().
		WithRetry(retryTTLMs, maxRetries).
		Binding(topology.Binding(NormalizeExchange, normalizedQueue, ""))

	t := topology.New().
		Exchange(topology.Exchange(NormalizeExchange).Fanout()).
		Exchange(topology.Exchange(AlertExchange).Fanout()).
		Queue(queue)

	consumer, ok := t.ConsumerFor(normalizedQueue)
	if !ok {
		panic("topology: normalized queue not declared")
	}
	consumer.Name = "dispatcher"
	consumer = consumer.WithHandler(handler)

	return t.ConsumerDef(consumer)
}

package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	amqp091 "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/coldtrail/iot-broker/internal/metrics"
	"github.com/coldtrail/iot-broker/internal/topology"
	tracecontext "github.com/coldtrail/iot-broker/internal/trace"
)

var tracer = otel.Tracer("amqp")

// RunConsumer subscribes to def's queue and dispatches every delivery to
// def.Handler until ctx is canceled, following the ack/nack/DLQ-escalation
// state machine spec.md §4.4 specifies:
//
//   - handler succeeds            -> ack
//   - handler fails, no retry     -> nack, no requeue (broker dead-letters
//     straight to the DLQ if the queue was built WithDLQ)
//   - handler fails, with retry,
//     x-death count < max retries -> nack, no requeue (broker dead-letters
//     into the retry queue, which TTL-expires back onto this queue)
//   - handler fails, with retry,
//     x-death count >= max retries -> direct-publish to the DLQ and ack
//     the original delivery, so it is not redelivered once more.
func RunConsumer(ctx context.Context, c *Client, def topology.ConsumerDefinition, m *metrics.AMQPMetrics, log *slog.Logger) error {
	deliveries, err := c.Consume(def.Queue, def.Name)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				handleDelivery(ctx, c, def, d, m, log)
			}
		}
	}()

	return nil
}

func handleDelivery(ctx context.Context, c *Client, def topology.ConsumerDefinition, d amqp091.Delivery, m *metrics.AMQPMetrics, log *slog.Logger) {
	start := time.Now()
	meta := ExtractMetadata(d.Headers)

	spanCtx := tracecontext.WithRemoteParent(ctx, tracecontext.Decode(meta.Traceparent))
	spanCtx, span := tracer.Start(spanCtx, fmt.Sprintf("AMQP - consume - %s", def.Name))
	defer span.End()

	err := def.Handler.Exec(spanCtx, meta, d.Body)

	switch {
	case err == nil:
		if ackErr := c.Ack(d, true); ackErr != nil {
			log.Error("ack failed", "queue", def.Queue, "error", ackErr)
			span.SetStatus(codes.Error, "ack failed")
		} else {
			span.SetStatus(codes.Ok, "")
		}
		m.RecordConsume(def.Queue, "ack", time.Since(start))

	case def.WithRetry && meta.Count < def.MaxRetries:
		if nackErr := c.Nack(d, true); nackErr != nil {
			log.Error("nack for retry failed", "queue", def.Queue, "error", nackErr)
			span.SetStatus(codes.Error, "retry nack failed")
		}
		m.RecordConsume(def.Queue, "retry", time.Since(start))

	case def.WithRetry:
		if pubErr := c.PublishRaw(spanCtx, "", def.DLQName(), d.Body); pubErr != nil {
			log.Error("escalate to dlq failed", "queue", def.Queue, "error", pubErr)
			span.SetStatus(codes.Error, "dlq publish failed")
		} else if ackErr := c.Ack(d, true); ackErr != nil {
			log.Error("ack after dlq escalation failed", "queue", def.Queue, "error", ackErr)
		}
		m.RecordConsume(def.Queue, "dlq", time.Since(start))

	default:
		if nackErr := c.Nack(d, true); nackErr != nil {
			log.Error("nack failed", "queue", def.Queue, "error", nackErr)
			span.SetStatus(codes.Error, "nack failed")
		}
		m.RecordConsume(def.Queue, "nack", time.Since(start))
	}
}

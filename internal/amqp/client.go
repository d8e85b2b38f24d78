package amqp

import (
	"context"

	"github.com/google/uuid"
	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/coldtrail/iot-broker/internal/config"
	"github.com/coldtrail/iot-broker/internal/topology"
)

// Client owns one connection and one channel, and implements the
// declare/bind/consume/publish surface spec.md §4.2 names.
type Client struct {
	conn *amqp091.Connection
	ch   *amqp091.Channel
}

// Connect dials the broker and opens a channel.
func Connect(cfg *config.Config) (*Client, error) {
	conn, err := amqp091.Dial(cfg.AMQPUri())
	if err != nil {
		return nil, wrap(ErrConnection, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, wrap(ErrChannel, err)
	}

	return &Client{conn: conn, ch: ch}, nil
}

// Close tears down the channel and connection.
func (c *Client) Close() error {
	if err := c.ch.Close(); err != nil {
		return err
	}
	return c.conn.Close()
}

func toAMQPKind(k topology.ExchangeKind) string {
	switch k {
	case topology.ExchangeFanout:
		return amqp091.ExchangeFanout
	case topology.ExchangeTopic:
		return amqp091.ExchangeTopic
	case topology.ExchangeHeader:
		return amqp091.ExchangeHeaders
	default:
		return amqp091.ExchangeDirect
	}
}

// DeclareExchange declares a durable, non-auto-deleted exchange of kind.
func (c *Client) DeclareExchange(name string, kind topology.ExchangeKind) error {
	err := c.ch.ExchangeDeclare(name, toAMQPKind(kind), true, false, false, false, nil)
	return wrapExchange(name, err)
}

// DeclareQueue declares a durable, non-exclusive queue with the given
// extra arguments (used for retry/DLQ dead-letter wiring).
func (c *Client) DeclareQueue(name string, args amqp091.Table) (amqp091.Queue, error) {
	q, err := c.ch.QueueDeclare(name, true, false, false, false, args)
	return q, wrapQueue(name, err)
}

// BindQueue binds queue to exchange under routingKey.
func (c *Client) BindQueue(queue, exchange, routingKey string) error {
	err := c.ch.QueueBind(queue, routingKey, exchange, false, nil)
	return wrapBinding(exchange, queue, err)
}

// Consume opens a delivery channel for queue under tag.
func (c *Client) Consume(queue, tag string) (<-chan amqp091.Delivery, error) {
	deliveries, err := c.ch.Consume(queue, tag, false, false, false, false, nil)
	return deliveries, wrapConsumer(tag, err)
}

// Publish sends envelope to exchange/key with the same basic properties
// original_source/infra/src/amqp/client.rs's publish sets: JSON content
// type, the message kind, a fresh UUIDv4 message-id, and the traceparent
// header.
func (c *Client) Publish(ctx context.Context, exchange, routingKey string, envelope PublishEnvelope) error {
	headers := InjectTraceContext(ctx)
	headers["traceparent"] = envelope.Traceparent

	err := c.ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp091.Publishing{
		ContentType: "application/json",
		Type:        envelope.Kind,
		MessageId:   uuid.NewString(),
		Headers:     headers,
		Body:        []byte(envelope.Payload),
	})
	return wrap(ErrPublish, err)
}

// PublishRaw publishes body directly to exchange/key, used by the
// consumer runtime's direct-to-DLQ escalation (no envelope re-wrap).
func (c *Client) PublishRaw(ctx context.Context, exchange, routingKey string, body []byte) error {
	err := c.ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp091.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	return wrap(ErrPublish, err)
}

// Ack acknowledges a delivery.
func (c *Client) Ack(d amqp091.Delivery, multiple bool) error {
	return wrap(ErrAck, d.Ack(multiple))
}

// Nack negatively acknowledges a delivery without requeueing it (the
// retry escort queue, not broker requeue, owns redelivery).
func (c *Client) Nack(d amqp091.Delivery, multiple bool) error {
	return wrap(ErrNack, d.Nack(multiple, false))
}

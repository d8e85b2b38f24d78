package mqtt

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.opentelemetry.io/otel"

	"github.com/coldtrail/iot-broker/internal/config"
	"github.com/coldtrail/iot-broker/internal/metrics"
)

var tracer = otel.Tracer("mqtt")

// Client wraps a paho client with the kind-keyed controller dispatch
// table client.rs builds over rumqttc's AsyncClient/EventLoop split.
type Client struct {
	paho paho.Client

	mu         sync.RWMutex
	dispatch   map[MetadataKind]Controller
	metrics    *metrics.MQTTMetrics
	log        *slog.Logger
}

// Connect dials the broker with a 5s keep-alive, matching
// infra/src/mqtt/client.rs's connect().
func Connect(cfg *config.Config, m *metrics.MQTTMetrics, log *slog.Logger) (*Client, error) {
	opts := paho.NewClientOptions().
		AddBroker(cfg.MQTTBrokerUri()).
		SetClientID(cfg.MQTTClientID).
		SetKeepAlive(5 * time.Second).
		SetAutoReconnect(true)

	if cfg.MQTTUser != "" {
		opts.SetUsername(cfg.MQTTUser)
		opts.SetPassword(cfg.MQTTPassword)
	}

	c := &Client{
		dispatch: map[MetadataKind]Controller{},
		metrics:  m,
		log:      log,
	}

	opts.SetDefaultPublishHandler(c.handleEvent)

	c.paho = paho.NewClient(opts)
	if token := c.paho.Connect(); token.Wait() && token.Error() != nil {
		return nil, &Error{Kind: ErrInternal, Cause: token.Error()}
	}

	return c, nil
}

// Subscribe registers controller as the handler for every event whose
// topic parses to kind, and subscribes topicFilter at qos.
func (c *Client) Subscribe(topicFilter string, kind MetadataKind, qos byte, controller Controller) error {
	c.mu.Lock()
	c.dispatch[kind] = controller
	c.mu.Unlock()

	token := c.paho.Subscribe(topicFilter, qos, c.handleEvent)
	if token.Wait() && token.Error() != nil {
		return &Error{Kind: ErrSubscribe, Topic: topicFilter, Cause: token.Error()}
	}

	return nil
}

// Publish sends body to topic inside a "mqtt publish" span, matching
// client.rs's publish().
func (c *Client) Publish(ctx context.Context, topic string, qos byte, retained bool, body []byte) error {
	_, span := tracer.Start(ctx, "mqtt publish")
	defer span.End()

	token := c.paho.Publish(topic, qos, retained, body)
	if token.Wait() && token.Error() != nil {
		return &Error{Kind: ErrPublish, Topic: topic, Cause: token.Error()}
	}

	return nil
}

// handleEvent is the paho message handler: parse the topic, open a new
// root span per event (client.rs starts a fresh span per inbound
// message rather than threading the connection's span), decode the
// payload, and dispatch to the registered controller.
func (c *Client) handleEvent(_ paho.Client, msg paho.Message) {
	start := time.Now()
	topic := msg.Topic()

	meta, err := ParseTopic(topic)
	if err != nil {
		c.log.Warn("dropping message on unparseable topic", "topic", topic, "error", err)
		c.metrics.RecordEvent("unknown", "error", time.Since(start))
		return
	}

	ctx, span := tracer.Start(context.Background(), fmt.Sprintf("mqtt::event::%s", meta.Kind.Category))
	defer span.End()

	kindLabel := string(meta.Kind.Category)
	if meta.Kind.Category == "iot" {
		kindLabel = "iot." + string(meta.Kind.IoTKind)
	}

	decoded, err := DecodePayload(meta.Kind, msg.Payload())
	if err != nil {
		c.log.Warn("failed to decode mqtt payload", "topic", topic, "error", err)
		c.metrics.RecordEvent(kindLabel, "error", time.Since(start))
		return
	}

	c.mu.RLock()
	controller, ok := c.dispatch[meta.Kind]
	c.mu.RUnlock()

	if !ok {
		c.log.Error("no controller registered for kind", "topic", topic, "kind", kindLabel)
		c.metrics.RecordEvent(kindLabel, "error", time.Since(start))
		return
	}

	if err := controller.Exec(ctx, meta, decoded); err != nil {
		c.log.Error("controller failed", "topic", topic, "error", err)
		c.metrics.RecordEvent(kindLabel, "error", time.Since(start))
		return
	}

	c.metrics.RecordEvent(kindLabel, "ok", time.Since(start))
}

// Disconnect closes the underlying connection.
func (c *Client) Disconnect() {
	c.paho.Disconnect(250)
}

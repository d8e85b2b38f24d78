// Package metrics defines the Prometheus instrumentation for each
// component of the broker.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AMQPMetrics tracks publish and consume outcomes.
type AMQPMetrics struct {
	PublishedTotal *prometheus.CounterVec
	ConsumedTotal  *prometheus.CounterVec
	ConsumeLatency *prometheus.HistogramVec
}

// MQTTMetrics tracks ingress events.
type MQTTMetrics struct {
	EventsTotal    *prometheus.CounterVec
	HandlerLatency *prometheus.HistogramVec
}

// GRPCMetrics tracks gRPC read-endpoint requests.
type GRPCMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func NewAMQPMetrics(serviceName string) *AMQPMetrics {
	return &AMQPMetrics{
		PublishedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: serviceName + "_amqp_published_total",
				Help: "Total number of AMQP messages published.",
			},
			[]string{"exchange"},
		),
		ConsumedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: serviceName + "_amqp_consumed_total",
				Help: "Total number of AMQP deliveries handled, by outcome.",
			},
			[]string{"queue", "outcome"}, // outcome: ack, nack, retry, dlq
		),
		ConsumeLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    serviceName + "_amqp_consume_duration_seconds",
				Help:    "Handler latency per AMQP delivery.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"queue"},
		),
	}
}

func NewMQTTMetrics(serviceName string) *MQTTMetrics {
	return &MQTTMetrics{
		EventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: serviceName + "_mqtt_events_total",
				Help: "Total number of MQTT events handled, by outcome.",
			},
			[]string{"kind", "outcome"},
		),
		HandlerLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    serviceName + "_mqtt_handler_duration_seconds",
				Help:    "Controller latency per MQTT event.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
	}
}

func NewGRPCMetrics(serviceName string) *GRPCMetrics {
	return &GRPCMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: serviceName + "_grpc_requests_total",
				Help: "Total number of gRPC requests.",
			},
			[]string{"method", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    serviceName + "_grpc_request_duration_seconds",
				Help:    "gRPC request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
}

func (m *AMQPMetrics) RecordConsume(queue, outcome string, d time.Duration) {
	m.ConsumedTotal.WithLabelValues(queue, outcome).Inc()
	m.ConsumeLatency.WithLabelValues(queue).Observe(d.Seconds())
}

func (m *AMQPMetrics) RecordPublish(exchange string) {
	m.PublishedTotal.WithLabelValues(exchange).Inc()
}

func (m *MQTTMetrics) RecordEvent(kind, outcome string, d time.Duration) {
	m.EventsTotal.WithLabelValues(kind, outcome).Inc()
	m.HandlerLatency.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *GRPCMetrics) RecordRequest(method, status string, d time.Duration) {
	m.RequestsTotal.WithLabelValues(method, status).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

package amqp

import (
	"context"

	amqp091 "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
)

// HeaderCarrier adapts amqp091.Table to propagation.TextMapCarrier so the
// W3C TraceContext propagator can inject/extract through AMQP headers.
type HeaderCarrier struct {
	headers amqp091.Table
}

func (c HeaderCarrier) Get(key string) string {
	v, ok := c.headers[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func (c HeaderCarrier) Set(key, value string) {
	c.headers[key] = value
}

func (c HeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for k := range c.headers {
		keys = append(keys, k)
	}
	return keys
}

// InjectTraceContext writes the ambient span context into a fresh
// amqp091.Table suitable for a publish's headers.
func InjectTraceContext(ctx context.Context) amqp091.Table {
	headers := amqp091.Table{}
	otel.GetTextMapPropagator().Inject(ctx, HeaderCarrier{headers: headers})
	return headers
}

// ExtractTraceContext restores a context carrying the remote span
// described by headers, for a consumer to parent its own span under.
func ExtractTraceContext(ctx context.Context, headers amqp091.Table) context.Context {
	if headers == nil {
		return ctx
	}
	return otel.GetTextMapPropagator().Extract(ctx, HeaderCarrier{headers: headers})
}

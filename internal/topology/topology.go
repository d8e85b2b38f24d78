// Package topology is the declarative model for the broker's exchanges,
// queues, bindings, and consumers. Building a Topology never fails;
// Validate surfaces structural mistakes before installation.
package topology

import (
	"context"
	"fmt"
)

// ExchangeKind mirrors the AMQP 0-9-1 exchange types the broker declares.
type ExchangeKind string

const (
	ExchangeDirect ExchangeKind = "direct"
	ExchangeFanout ExchangeKind = "fanout"
	ExchangeTopic  ExchangeKind = "topic"
	ExchangeHeader ExchangeKind = "headers"
)

// ExchangeDefinition describes one exchange to declare.
type ExchangeDefinition struct {
	Name string
	Kind ExchangeKind
}

func Exchange(name string) ExchangeDefinition {
	return ExchangeDefinition{Name: name, Kind: ExchangeDirect}
}

func (e ExchangeDefinition) Direct() ExchangeDefinition { e.Kind = ExchangeDirect; return e }
func (e ExchangeDefinition) Fanout() ExchangeDefinition { e.Kind = ExchangeFanout; return e }
func (e ExchangeDefinition) Topic() ExchangeDefinition  { e.Kind = ExchangeTopic; return e }
func (e ExchangeDefinition) Header() ExchangeDefinition { e.Kind = ExchangeHeader; return e }

// QueueBinding binds a queue to an exchange under a routing key.
type QueueBinding struct {
	Exchange   string
	Queue      string
	RoutingKey string
}

func Binding(exchange, queue, routingKey string) QueueBinding {
	return QueueBinding{Exchange: exchange, Queue: queue, RoutingKey: routingKey}
}

// QueueDefinition describes a queue and, optionally, its retry/DLQ
// escort queues.
type QueueDefinition struct {
	Name        string
	Bindings    []QueueBinding
	WithDLQFlag bool
	WithRetry_  bool
	RetryTTLMs  int32
	MaxRetries  int64
}

func Queue(name string) QueueDefinition {
	return QueueDefinition{Name: name, MaxRetries: 1}
}

// WithDLQ marks the queue as needing a dead-letter escort queue.
func (q QueueDefinition) WithDLQ() QueueDefinition {
	q.WithDLQFlag = true
	return q
}

// WithRetry sets both the retry TTL and the max-retry count atomically,
// per spec.md §4.1 — the single-arg with_retry(ttl) draft in
// original_source/infra/src/amqp/topology.rs is superseded.
func (q QueueDefinition) WithRetry(ttlMs int32, maxRetries int64) QueueDefinition {
	q.WithRetry_ = true
	q.RetryTTLMs = ttlMs
	q.MaxRetries = maxRetries
	return q
}

func (q QueueDefinition) Binding(b QueueBinding) QueueDefinition {
	q.Bindings = append(q.Bindings, b)
	return q
}

// RetryName and DLQName are the escort queue names the installer declares.
func (q QueueDefinition) RetryName() string { return q.Name + "-retry" }
func (q QueueDefinition) DLQName() string   { return q.Name + "-dlq" }

// Reserved routing keys for a future non-default DLX; the default
// exchange routes by queue name directly (see DESIGN.md Open Question 1).
func (q QueueDefinition) RetryKey() string { return q.Name + "-retry-key" }
func (q QueueDefinition) DLQKey() string   { return q.Name + "-dlq-key" }

// Handler is implemented by business logic invoked per delivery.
type Handler interface {
	Exec(ctx context.Context, meta Metadata, body []byte) error
}

// ConsumerDefinition binds a queue to a Handler with retry/DLQ policy.
type ConsumerDefinition struct {
	Name       string
	Queue      string
	WithRetry  bool
	MaxRetries int64
	WithDLQ    bool
	Handler    Handler
}

func Consumer(name string) ConsumerDefinition {
	return ConsumerDefinition{Name: name, MaxRetries: 1}
}

func (c ConsumerDefinition) OnQueue(queue string) ConsumerDefinition { c.Queue = queue; return c }
func (c ConsumerDefinition) WithHandler(h Handler) ConsumerDefinition {
	c.Handler = h
	return c
}
func (c ConsumerDefinition) DLQ() ConsumerDefinition { c.WithDLQ = true; return c }
func (c ConsumerDefinition) Retry(maxRetries int64) ConsumerDefinition {
	c.WithRetry = true
	c.MaxRetries = maxRetries
	return c
}

func (c ConsumerDefinition) DLQName() string { return c.Queue + "-dlq" }

// Metadata carries the per-delivery retry count and trace context
// extracted from AMQP headers (x-death[0].count and traceparent).
type Metadata struct {
	Count       int64
	Traceparent string
}

// Topology is the full declarative set of exchanges, queues, and consumers
// one or more binaries install against the broker.
type Topology struct {
	Exchanges []ExchangeDefinition
	Queues    []QueueDefinition
	Consumers []ConsumerDefinition
}

func New() *Topology {
	return &Topology{}
}

func (t *Topology) Exchange(e ExchangeDefinition) *Topology {
	t.Exchanges = append(t.Exchanges, e)
	return t
}

func (t *Topology) Queue(q QueueDefinition) *Topology {
	t.Queues = append(t.Queues, q)
	return t
}

func (t *Topology) ConsumerDef(c ConsumerDefinition) *Topology {
	t.Consumers = append(t.Consumers, c)
	return t
}

// queueByName looks up a stored queue definition by name.
func (t *Topology) queueByName(name string) (QueueDefinition, bool) {
	for _, q := range t.Queues {
		if q.Name == name {
			return q, true
		}
	}
	return QueueDefinition{}, false
}

// ConsumerFor synthesizes a ConsumerDefinition from the stored queue named
// queue, deriving its retry/DLQ policy from that queue's WithDLQ/WithRetry
// settings rather than requiring the caller to repeat them — mirroring
// spec.md §4.1's AmqpTopology.get_consumer_def(queue_name). Returns
// false if no such queue was declared on t.
func (t *Topology) ConsumerFor(queue string) (ConsumerDefinition, bool) {
	q, ok := t.queueByName(queue)
	if !ok {
		return ConsumerDefinition{}, false
	}

	c := Consumer(queue).OnQueue(queue)
	if q.WithDLQFlag {
		c = c.DLQ()
	}
	if q.WithRetry_ {
		c = c.Retry(q.MaxRetries)
	}

	return c, true
}

// Validate checks the invariants spec.md §3 places on the data model:
// every binding and consumer must reference a declared queue, every
// binding must reference a declared exchange, a consumer requesting
// retry must target a queue built WithRetry, a queue built WithRetry must
// carry a positive TTL and at least one retry, and every queue's name,
// dlq_name, and retry_name must be pairwise distinct across the topology.
func (t *Topology) Validate() error {
	exchanges := make(map[string]bool, len(t.Exchanges))
	for _, e := range t.Exchanges {
		exchanges[e.Name] = true
	}

	queues := make(map[string]QueueDefinition, len(t.Queues))
	for _, q := range t.Queues {
		queues[q.Name] = q
	}

	names := make(map[string]string, len(t.Queues)*3)
	for _, q := range t.Queues {
		for _, n := range []string{q.Name, q.DLQName(), q.RetryName()} {
			if owner, seen := names[n]; seen {
				return fmt.Errorf("topology: queue name %q collides between %q and %q", n, owner, q.Name)
			}
			names[n] = q.Name
		}

		if q.WithRetry_ && (q.RetryTTLMs <= 0 || q.MaxRetries < 1) {
			return fmt.Errorf("topology: queue %q built WithRetry needs retry_ttl_ms > 0 and max_retries >= 1, got ttl=%d max_retries=%d", q.Name, q.RetryTTLMs, q.MaxRetries)
		}
	}

	for _, q := range t.Queues {
		for _, b := range q.Bindings {
			if _, ok := queues[b.Queue]; !ok {
				return fmt.Errorf("topology: queue %q has a binding for undeclared queue %q", q.Name, b.Queue)
			}
			if !exchanges[b.Exchange] {
				return fmt.Errorf("topology: queue %q binds to undeclared exchange %q", q.Name, b.Exchange)
			}
		}
	}

	for _, c := range t.Consumers {
		q, ok := queues[c.Queue]
		if !ok {
			return fmt.Errorf("topology: consumer %q references undeclared queue %q", c.Name, c.Queue)
		}
		if c.WithRetry && !q.WithRetry_ {
			return fmt.Errorf("topology: consumer %q requests retry but queue %q was not built WithRetry", c.Name, c.Queue)
		}
		if c.Handler == nil {
			return fmt.Errorf("topology: consumer %q has no handler", c.Name)
		}
	}

	return nil
}

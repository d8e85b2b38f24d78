package amqp

import (
	"github.com/coldtrail/iot-broker/internal/topology"
)

// Install declares every exchange then every queue in t, exchanges first
// so queue bindings always target an already-declared exchange — the
// same order original_source/infra/src/amqp/client.rs's install_topology
// uses.
func Install(c *Client, t *topology.Topology) error {
	if err := t.Validate(); err != nil {
		return err
	}

	for _, e := range t.Exchanges {
		if err := c.DeclareExchange(e.Name, e.Kind); err != nil {
			return err
		}
	}

	for _, q := range t.Queues {
		if err := installQueue(c, q); err != nil {
			return err
		}
	}

	return nil
}

// installQueue declares the retry and DLQ escort queues from the queue's
// plan, then the main queue with the dead-letter arguments those escorts
// imply, then its exchange bindings.
func installQueue(c *Client, def topology.QueueDefinition) error {
	plan := planQueue(def)

	if plan.RetryArgs != nil {
		if _, err := c.DeclareQueue(plan.RetryName, plan.RetryArgs); err != nil {
			return err
		}
	}

	if plan.DLQArgs != nil {
		if _, err := c.DeclareQueue(plan.DLQName, plan.DLQArgs); err != nil {
			return err
		}
	}

	if _, err := c.DeclareQueue(def.Name, plan.MainArgs); err != nil {
		return err
	}

	for _, b := range def.Bindings {
		if err := c.BindQueue(b.Queue, b.Exchange, b.RoutingKey); err != nil {
			return err
		}
	}

	return nil
}

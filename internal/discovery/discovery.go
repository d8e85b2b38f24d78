// Package discovery provides a Registry abstraction over Consul (or an
// in-memory stand-in for tests) so worker processes can find the gRPC
// read endpoint without a hardcoded address.
package discovery

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"
)

// Registry registers, deregisters, and discovers service instances.
type Registry interface {
	Register(ctx context.Context, instanceID, serviceName, hostPort string) error
	Deregister(ctx context.Context, instanceID, serviceName string) error
	Discover(ctx context.Context, serviceName string) ([]string, error)
	HealthCheck(instanceID, serviceName string) error
}

// GenerateInstanceID builds a unique registry ID for a service instance.
func GenerateInstanceID(serviceName string) string {
	return fmt.Sprintf("%s-%d", serviceName, rand.New(rand.NewSource(time.Now().UnixNano())).Int())
}

// ServiceRegistration registers a service instance and keeps its TTL
// health check alive until Deregister is called.
type ServiceRegistration struct {
	registry    Registry
	instanceID  string
	serviceName string
	stopChan    chan struct{}
}

// Register registers the instance and starts its health-check loop.
func Register(ctx context.Context, registry Registry, instanceID, serviceName, addr string) (*ServiceRegistration, error) {
	if err := registry.Register(ctx, instanceID, serviceName, addr); err != nil {
		return nil, err
	}

	sr := &ServiceRegistration{
		registry:    registry,
		instanceID:  instanceID,
		serviceName: serviceName,
		stopChan:    make(chan struct{}),
	}

	go sr.runHealthCheck()

	return sr, nil
}

func (sr *ServiceRegistration) runHealthCheck() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-sr.stopChan:
			return
		case <-ticker.C:
			if err := sr.registry.HealthCheck(sr.instanceID, sr.serviceName); err != nil {
				log.Printf("health check failed for %s: %v", sr.instanceID, err)
			}
		}
	}
}

// Deregister stops the health-check loop and deregisters the instance.
func (sr *ServiceRegistration) Deregister(ctx context.Context) error {
	close(sr.stopChan)
	return sr.registry.Deregister(ctx, sr.instanceID, sr.serviceName)
}

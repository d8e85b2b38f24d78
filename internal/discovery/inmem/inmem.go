// Package inmem is an in-memory discovery.Registry for tests and local
// development without a Consul agent.
package inmem

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/coldtrail/iot-broker/internal/discovery"
)

const ttl = 5 * time.Second

type Registry struct {
	mu    sync.RWMutex
	addrs map[string]map[string]*instance
}

type instance struct {
	hostPort   string
	lastActive time.Time
}

func NewRegistry() *Registry {
	return &Registry{addrs: map[string]map[string]*instance{}}
}

func (r *Registry) Register(ctx context.Context, instanceID, serviceName, hostPort string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.addrs[serviceName]; !ok {
		r.addrs[serviceName] = map[string]*instance{}
	}

	r.addrs[serviceName][instanceID] = &instance{hostPort: hostPort, lastActive: time.Now()}

	return nil
}

func (r *Registry) Deregister(ctx context.Context, instanceID, serviceName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.addrs[serviceName], instanceID)

	return nil
}

func (r *Registry) HealthCheck(instanceID, serviceName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	svc, ok := r.addrs[serviceName]
	if !ok {
		return errors.New("service is not registered")
	}

	inst, ok := svc[instanceID]
	if !ok {
		return errors.New("service instance is not registered")
	}

	inst.lastActive = time.Now()

	return nil
}

// Discover returns instances whose last health check is within ttl,
// mirroring Consul's DeregisterCriticalServiceAfter behavior.
func (r *Registry) Discover(ctx context.Context, serviceName string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.addrs[serviceName]) == 0 {
		return nil, errors.New("no service address found")
	}

	cutoff := time.Now().Add(-ttl)
	var res []string
	for _, inst := range r.addrs[serviceName] {
		if inst.lastActive.Before(cutoff) {
			continue
		}
		res = append(res, inst.hostPort)
	}

	if len(res) == 0 {
		return nil, errors.New("no service address found")
	}

	return res, nil
}

var _ discovery.Registry = (*Registry)(nil)

package loadbalancer

import (
	"sync"

	"github.com/tair/sweet-shop/pkg/logger"
)

// RoundRobin distributes requests across API instances in rotation.
type RoundRobin struct {
	instances []string
	current   int
	mu        sync.Mutex
}

// NewRoundRobin creates a load balancer over the given instances.
func NewRoundRobin(instances []string) *RoundRobin {
	if len(instances) == 0 {
		instances = []string{"http://localhost:8080"}
	}

	logger.Logger.Info().
		Int("instance_count", len(instances)).
		Strs("instances", instances).
		Msg("Round-robin load balancer initialized")

	return &RoundRobin{instances: instances}
}

// Next returns the next instance in rotation.
func (rr *RoundRobin) Next() string {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if len(rr.instances) == 0 {
		return ""
	}

	instance := rr.instances[rr.current]
	rr.current = (rr.current + 1) % len(rr.instances)
	return instance
}

// Instances returns a copy of the instance list.
func (rr *RoundRobin) Instances() []string {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return append([]string{}, rr.instances...)
}

// Len returns the number of instances in the pool.
func (rr *RoundRobin) Len() int {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return len(rr.instances)
}

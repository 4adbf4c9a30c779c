package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/tair/sweet-shop/pkg/logger"
)

// InstanceHealth is the probe result for one API instance.
type InstanceHealth struct {
	URL       string        `json:"url"`
	Status    string        `json:"status"`
	Latency   time.Duration `json:"latency_ms"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// GatewayHealth is the aggregate status across all instances.
type GatewayHealth struct {
	Gateway   string           `json:"gateway"`
	Status    string           `json:"status"`
	Instances []InstanceHealth `json:"instances"`
	Uptime    float64          `json:"uptime_seconds"`
}

// Checker probes the API instances behind the gateway.
type Checker struct {
	instances []string
	client    *http.Client
	startTime time.Time
}

// NewChecker creates a health checker over the given instances.
func NewChecker(instances []string) *Checker {
	return &Checker{
		instances: instances,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		startTime: time.Now(),
	}
}

// CheckInstance probes one instance's health endpoint.
func (h *Checker) CheckInstance(ctx context.Context, instance string) InstanceHealth {
	start := time.Now()

	result := InstanceHealth{
		URL:       instance,
		Timestamp: time.Now(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, instance+"/health", nil)
	if err != nil {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("Failed to create request: %v", err)
		result.Latency = time.Since(start)
		return result
	}

	resp, err := h.client.Do(req)
	if err != nil {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("Failed to reach instance: %v", err)
		result.Latency = time.Since(start)
		return result
	}
	defer resp.Body.Close()

	result.Latency = time.Since(start)

	if resp.StatusCode == http.StatusOK {
		result.Status = "healthy"
	} else {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("Unexpected status code: %d", resp.StatusCode)
	}

	return result
}

// CheckAll probes every instance concurrently.
func (h *Checker) CheckAll(ctx context.Context) GatewayHealth {
	results := make([]InstanceHealth, len(h.instances))
	var wg sync.WaitGroup

	for i, instance := range h.instances {
		wg.Add(1)
		go func(idx int, url string) {
			defer wg.Done()
			result := h.CheckInstance(ctx, url)
			results[idx] = result

			if result.Status != "healthy" {
				logger.Logger.Warn().
					Str("instance", url).
					Str("error", result.Error).
					Msg("Instance health check failed")
			}
		}(i, instance)
	}
	wg.Wait()

	healthy := 0
	for _, r := range results {
		if r.Status == "healthy" {
			healthy++
		}
	}

	status := "unhealthy"
	if healthy == len(results) {
		status = "healthy"
	} else if healthy > 0 {
		status = "degraded"
	}

	return GatewayHealth{
		Gateway:   "sweetshop-gateway",
		Status:    status,
		Instances: results,
		Uptime:    time.Since(h.startTime).Seconds(),
	}
}

// QuickCheck reports the gateway's own liveness without probing the
// backend.
func (h *Checker) QuickCheck() map[string]interface{} {
	return map[string]interface{}{
		"status":    "healthy",
		"gateway":   "sweetshop-gateway",
		"uptime":    time.Since(h.startTime).Seconds(),
		"timestamp": time.Now(),
	}
}

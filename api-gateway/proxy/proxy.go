package proxy

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/sweet-shop/api-gateway/config"
	"github.com/tair/sweet-shop/api-gateway/loadbalancer"
	"github.com/tair/sweet-shop/pkg/logger"
)

// ReverseProxy forwards requests to the Sweet Shop API instances.
type ReverseProxy struct {
	lb     *loadbalancer.RoundRobin
	client *http.Client
}

// NewReverseProxy creates a proxy over the configured instances.
func NewReverseProxy(cfg *config.Config) *ReverseProxy {
	return &ReverseProxy{
		lb: loadbalancer.NewRoundRobin(cfg.APIInstances),
		client: &http.Client{
			Timeout: cfg.APITimeout,
		},
	}
}

// LoadBalancer exposes the instance pool for health checks.
func (p *ReverseProxy) LoadBalancer() *loadbalancer.RoundRobin {
	return p.lb
}

// Forward proxies the request to the next healthy instance. Connection
// failures fall through to the next instance, at most once per
// instance in the pool.
func (p *ReverseProxy) Forward(c *fiber.Ctx) error {
	attempts := p.lb.Len()

	var lastErr error
	for i := 0; i < attempts; i++ {
		instance := p.lb.Next()
		if instance == "" {
			break
		}

		resp, err := p.forwardTo(c, instance)
		if err != nil {
			logger.Logger.Warn().
				Err(err).
				Str("instance", instance).
				Str("path", c.Path()).
				Msg("Instance unreachable, trying next")
			lastErr = err
			continue
		}
		defer resp.Body.Close()

		return p.writeResponse(c, resp)
	}

	logger.Logger.Error().
		Err(lastErr).
		Str("path", c.Path()).
		Msg("All backend instances unreachable")

	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error": "Failed to reach backend service",
	})
}

func (p *ReverseProxy) forwardTo(c *fiber.Ctx, instance string) (*http.Response, error) {
	targetURL := instance + c.Path()
	if qs := string(c.Request().URI().QueryString()); qs != "" {
		targetURL += "?" + qs
	}

	req, err := http.NewRequestWithContext(
		c.UserContext(),
		c.Method(),
		targetURL,
		bytes.NewReader(c.Body()),
	)
	if err != nil {
		return nil, err
	}

	c.Request().Header.VisitAll(func(key, value []byte) {
		if strings.EqualFold(string(key), "host") {
			return
		}
		req.Header.Set(string(key), string(value))
	})

	req.Header.Set("X-Forwarded-For", c.IP())
	req.Header.Set("X-Forwarded-Proto", c.Protocol())
	req.Header.Set("X-Forwarded-Host", c.Hostname())

	return p.client.Do(req)
}

func (p *ReverseProxy) writeResponse(c *fiber.Ctx, resp *http.Response) error {
	for key, values := range resp.Header {
		if strings.EqualFold(key, "content-length") {
			continue
		}
		for _, value := range values {
			c.Set(key, value)
		}
	}

	c.Status(resp.StatusCode)

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read backend response",
		})
	}

	return c.Send(buf.Bytes())
}

// PingBackend reports whether at least one instance answers its health
// endpoint within the timeout.
func (p *ReverseProxy) PingBackend(timeout time.Duration) bool {
	client := &http.Client{Timeout: timeout}
	for _, instance := range p.lb.Instances() {
		resp, err := client.Get(instance + "/health")
		if err != nil {
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return true
		}
	}
	return false
}

package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the gateway configuration. The gateway fronts one
// backend, the Sweet Shop API, running as one or more instances.
type Config struct {
	Port           string        `envconfig:"GATEWAY_PORT" default:"8000"`
	Environment    string        `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	AllowedOrigins string        `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	JaegerEndpoint string        `envconfig:"JAEGER_ENDPOINT" default:"http://localhost:14268/api/traces"`
	APIInstances   []string      `envconfig:"API_INSTANCES" default:"http://localhost:8080"`
	APITimeout     time.Duration `envconfig:"API_TIMEOUT" default:"30s"`
	RedisAddr      string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string        `envconfig:"REDIS_PASSWORD" default:""`
	JWTSecret      string        `envconfig:"JWT_SECRET" required:"true"`
	RateLimit      int           `envconfig:"RATE_LIMIT_PER_MINUTE" default:"100"`
	CacheTTL       time.Duration `envconfig:"CACHE_TTL" default:"1m"`
}

// Load reads the gateway configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load gateway configuration: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether the gateway runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/tair/sweet-shop/pkg/database"
)

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
	// Tokens issued by /api/auth expire after this duration.
	TTL time.Duration `envconfig:"JWT_TTL" default:"168h"`
}

// KafkaConfig holds event streaming settings. When disabled, stock
// events are simply not published.
type KafkaConfig struct {
	Enabled bool     `envconfig:"KAFKA_ENABLED" default:"false"`
	Brokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	GroupID string   `envconfig:"KAFKA_GROUP_ID" default:"sweetshop-auditor"`
}

// Config is the complete configuration of the Sweet Shop API service.
// It is loaded once at startup and passed explicitly into construction.
type Config struct {
	ServiceName    string   `envconfig:"SERVICE_NAME" default:"sweetshop-api"`
	Environment    string   `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"info"`
	HTTPPort       string   `envconfig:"HTTP_PORT" default:"8080"`
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	JaegerEndpoint string   `envconfig:"JAEGER_ENDPOINT" default:"http://localhost:14268/api/traces"`

	Database database.Config
	JWT      JWTConfig
	Kafka    KafkaConfig
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/sweet-shop/pkg/logger"
)

// LoggingMiddleware logs each proxied request with its trace context.
func LoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		statusCode := c.Response().StatusCode()

		event := logger.Info(c.UserContext())
		if statusCode >= 500 {
			event = logger.Error(c.UserContext())
		} else if statusCode >= 400 {
			event = logger.Warn(c.UserContext())
		}

		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", c.IP()).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("request_id", c.Get("X-Request-Id")).
			Msg("Gateway request completed")

		if err != nil {
			logger.Error(c.UserContext()).
				Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("Gateway request error")
		}

		return err
	}
}

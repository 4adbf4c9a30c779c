package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"github.com/tair/sweet-shop/api-gateway/config"
	"github.com/tair/sweet-shop/api-gateway/middleware"
	"github.com/tair/sweet-shop/api-gateway/proxy"
	"github.com/tair/sweet-shop/api-gateway/routes"
	"github.com/tair/sweet-shop/pkg/auth"
	"github.com/tair/sweet-shop/pkg/logger"
	"github.com/tair/sweet-shop/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init("sweetshop-gateway", cfg.LogLevel, cfg.IsDevelopment())

	logger.Logger.Info().
		Str("environment", cfg.Environment).
		Msg("Starting Sweet Shop Gateway")

	// Initialize tracer
	tp, err := tracing.InitTracer("sweetshop-gateway", cfg.JaegerEndpoint)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Redis backs rate limiting and the catalog cache. The gateway
	// still runs without it, just without those two features.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", cfg.RedisAddr).
			Msg("Failed to connect to Redis, rate limiting and caching disabled")
		redisClient = nil
	} else {
		logger.Logger.Info().
			Str("redis_addr", cfg.RedisAddr).
			Msg("Connected to Redis")
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, 0)
	reverseProxy := proxy.NewReverseProxy(cfg)
	breaker := middleware.NewCircuitBreaker(5, 30*time.Second)

	app := fiber.New(fiber.Config{
		AppName:      "Sweet Shop Gateway",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		ErrorHandler: errorHandler,
	})

	setupMiddleware(app, cfg, redisClient, breaker)
	routes.SetupRoutes(app, cfg, reverseProxy, jwtManager)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logger.Logger.Info().
			Str("addr", addr).
			Strs("instances", cfg.APIInstances).
			Msg("Gateway listening")

		if err := app.Listen(addr); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start gateway")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down gateway...")

	if err := app.Shutdown(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Gateway forced to shutdown")
	}
}

func setupMiddleware(app *fiber.App, cfg *config.Config, redisClient *redis.Client, breaker *middleware.CircuitBreaker) {
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// Request ID first, then tracing, then logging so every log line
	// carries both identifiers.
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.LoggingMiddleware())

	if redisClient != nil {
		app.Use(middleware.CacheMiddleware(redisClient, cfg.CacheTTL))
		logger.Logger.Info().
			Dur("ttl", cfg.CacheTTL).
			Msg("Catalog caching enabled")
	}

	app.Use(middleware.CircuitBreakerMiddleware(breaker))

	if redisClient != nil {
		limiter := middleware.NewRateLimiter(redisClient, cfg.RateLimit, time.Minute)
		app.Use(limiter.Middleware())
		logger.Logger.Info().
			Int("limit", cfg.RateLimit).
			Msg("Rate limiting enabled")
	} else {
		logger.Logger.Warn().Msg("Rate limiting disabled (Redis not available)")
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-Id, traceparent, tracestate",
		AllowCredentials: true,
		ExposeHeaders:    "X-Request-Id, X-Trace-Id, X-Cache, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset",
		MaxAge:           86400,
	}))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":      err.Error(),
		"statusCode": code,
		"path":       c.Path(),
		"requestId":  c.Get("X-Request-Id"),
	})
}

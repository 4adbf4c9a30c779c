package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/tair/sweet-shop/docs"
	"github.com/tair/sweet-shop/internal/config"
	"github.com/tair/sweet-shop/internal/sweet"
	sweetHTTP "github.com/tair/sweet-shop/internal/sweet/delivery/http"
	"github.com/tair/sweet-shop/internal/sweet/repository"
	"github.com/tair/sweet-shop/internal/user"
	userHTTP "github.com/tair/sweet-shop/internal/user/delivery/http"
	userRepository "github.com/tair/sweet-shop/internal/user/repository"
	"github.com/tair/sweet-shop/kafka"
	"github.com/tair/sweet-shop/pkg/auth"
	"github.com/tair/sweet-shop/pkg/database"
	"github.com/tair/sweet-shop/pkg/logger"
	"github.com/tair/sweet-shop/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Logger is not configured yet at this point.
		panic(err)
	}

	// Initialize logger
	logger.Init(cfg.ServiceName, cfg.LogLevel, cfg.IsDevelopment())

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Sweet Shop API")

	// Initialize tracer
	tp, err := tracing.InitTracer(cfg.ServiceName, cfg.JaegerEndpoint)
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

	// Connect to database
	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	if err := userRepository.NewGormUserRepository(db).AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to migrate users")
	}
	if err := repository.NewGormSweetRepository(db).AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to migrate sweets")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Stock event publisher (optional; a nil publisher is a no-op)
	var publisher *kafka.Publisher
	if cfg.Kafka.Enabled {
		publisher, err = kafka.NewPublisher(cfg.Kafka.Brokers)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka publisher")
		}
		defer publisher.Close()
	} else {
		logger.Logger.Info().Msg("Kafka disabled, stock events will not be published")
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)

	// Initialize handlers with Wire DI
	userHandler, err := user.InitializeHTTPHandler(db, jwtManager)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize user handler")
	}

	sweetHandler, err := sweet.InitializeHTTPHandler(db, jwtManager, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize sweet handler")
	}

	srv := buildHTTPServer(cfg, userHandler, sweetHandler, sqlDB)

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger_endpoint", "/swagger/index.html").
			Msg("HTTP server started")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server shutdown failed")
	}
}

func buildHTTPServer(cfg *config.Config, userHandler *userHTTP.UserHandler, sweetHandler *sweetHTTP.SweetHandler, db *sql.DB) *http.Server {
	// Setup router
	router := mux.NewRouter()

	// Register routes
	userHandler.RegisterRoutes(router)
	sweetHandler.RegisterRoutes(router)

	// Health check endpoint
	sweetHandler.RegisterHealthCheck(router, db)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Swagger documentation
	userHTTP.RegisterSwaggerDocs(router, httpSwagger.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: otelhttp.NewHandler(c.Handler(router), "sweetshop-api"),
	}
}

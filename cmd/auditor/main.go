package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/tair/sweet-shop/internal/audit"
	"github.com/tair/sweet-shop/internal/config"
	"github.com/tair/sweet-shop/kafka"
	"github.com/tair/sweet-shop/pkg/logger"
	"github.com/tair/sweet-shop/pkg/tracing"
)

// The auditor consumes stock events and persists them as an append-only
// movement log, so the API service never blocks on audit writes.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init("sweetshop-auditor", cfg.LogLevel, cfg.IsDevelopment())

	logger.Logger.Info().
		Str("environment", cfg.Environment).
		Msg("Starting stock auditor")

	// Initialize tracer
	tp, err := tracing.InitTracer("sweetshop-auditor", cfg.JaegerEndpoint)
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
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	store := audit.NewStore(db)
	if err := store.EnsureSchema(context.Background()); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to ensure audit schema")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, func(ctx context.Context, event kafka.StockChangedEvent) error {
		if err := store.Record(ctx, event); err != nil {
			return err
		}

		logger.Info(ctx).
			Str("event_id", event.EventID).
			Str("sweet_id", event.SweetID).
			Str("operation", event.Operation).
			Int("amount", event.Amount).
			Int("quantity", event.Quantity).
			Msg("Stock movement recorded")
		return nil
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	consumer.Start(ctx)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down auditor...")
	cancel()
}

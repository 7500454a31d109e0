// Command trade_consumer records fee events published on the trade topic.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"cascade/internal/config"
	"cascade/internal/ingest"
	"cascade/internal/logger"
	"cascade/internal/repositories"
	"cascade/internal/repositories/cache"
	"cascade/internal/services"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	db, err := repositories.InitDB(cfg.DB)
	if err != nil {
		logger.L.Fatalf("Database setup failed: %v", err)
	}
	store := cache.NewCacheService(cache.NewRedisClient(cfg.Redis), cfg.CacheTTL)
	defer func() {
		if err := repositories.CloseDB(db); err != nil {
			logger.L.Warnf("Failed to close database connection: %v", err)
		}
		if err := store.Close(); err != nil {
			logger.L.Warnf("Failed to close Redis connection: %v", err)
		}
	}()

	reg, err := services.New(cfg, db, store)
	if err != nil {
		logger.L.Fatalf("Invalid service configuration: %v", err)
	}

	reader := ingest.NewReader(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID)
	defer reader.Close()

	ingester := ingest.NewTradeIngester(reader, reg.Trade, ingest.Config{
		BatchSize:    cfg.Kafka.BatchSize,
		BatchTimeout: cfg.Kafka.BatchTimeout,
		KeyIsTradeID: cfg.Kafka.KeyIsTradeID,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.L.Infof("Consuming %s as %s", cfg.Kafka.Topic, cfg.Kafka.GroupID)
	if err := ingester.Start(ctx); err != nil {
		logger.L.Errorf("Ingester stopped with error: %v", err)
		os.Exit(1)
	}
	logger.L.Info("Ingester shutdown complete")
}

// Package main is the entry point of the HTTP API.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cascade/internal/config"
	"cascade/internal/handlers"
	"cascade/internal/logger"
	"cascade/internal/repositories"
	"cascade/internal/repositories/cache"
	"cascade/internal/routes"
	"cascade/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	db, err := repositories.InitDB(cfg.DB)
	if err != nil {
		logger.L.Fatalf("Database setup failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.L.Fatalf("Failed to get database instance: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		logger.L.Fatalf("Failed to ping database: %v", err)
	}
	logger.L.Info("Connected to database with connection pooling")

	store := cache.NewCacheService(cache.NewRedisClient(cfg.Redis), cfg.CacheTTL)
	if err := store.HealthCheck(context.Background()); err != nil {
		logger.L.Warnf("Redis unavailable at startup: %v", err)
	}

	defer func() {
		if err := repositories.CloseDB(db); err != nil {
			logger.L.Warnf("Failed to close database connection: %v", err)
		}
		if err := store.Close(); err != nil {
			logger.L.Warnf("Failed to close Redis connection: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Periodic check of connection pool stats
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := sqlDB.Stats()
				logger.L.Debugf("DB Stats: Open=%d, Idle=%d, InUse=%d, WaitCount=%d, WaitDuration=%s",
					stats.OpenConnections, stats.Idle, stats.InUse, stats.WaitCount, stats.WaitDuration)
			}
		}
	}()

	reg, err := services.New(cfg, db, store)
	if err != nil {
		logger.L.Fatalf("Invalid service configuration: %v", err)
	}

	app := fiber.New(fiber.Config{AppName: "cascade"})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app, reg, routes.Options{
		WebhookSecret: cfg.WebhookSecret,
		Health:        handlers.NewHealthHandler(sqlDB, store),
		AuthRateLimit: cfg.AuthRateLimit,
	})

	go func() {
		<-ctx.Done()
		logger.L.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.L.Errorf("Graceful shutdown failed: %v", err)
		}
	}()

	logger.L.Infof("Listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.L.Errorf("Server stopped: %v", err)
	}
}

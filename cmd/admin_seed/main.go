package main

import (
	"context"
	"errors"

	"cascade/internal/config"
	apperrors "cascade/internal/errors"
	"cascade/internal/logger"
	"cascade/internal/models"
	"cascade/internal/repositories"
	"cascade/internal/repositories/cache"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	adminEmail := config.GetEnv("ADMIN_EMAIL", "")
	adminPassword := config.GetEnv("ADMIN_PASSWORD", "")
	if adminEmail == "" || adminPassword == "" {
		logger.L.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	db, err := repositories.InitDB(cfg.DB)
	if err != nil {
		logger.L.Fatalf("Database setup failed: %v", err)
	}
	store := cache.NewCacheService(cache.NewRedisClient(cfg.Redis), cfg.CacheTTL)
	defer func() {
		if err := repositories.CloseDB(db); err != nil {
			logger.L.Warnf("Failed to close PostgreSQL connection: %v", err)
		}
		if err := store.Close(); err != nil {
			logger.L.Warnf("Failed to close Redis connection: %v", err)
		}
	}()

	ctx := context.Background()
	users := repositories.NewUserRepository(db, store)

	if _, err := users.GetByEmail(ctx, adminEmail); err == nil {
		logger.L.Info("Admin user already exists")
		return
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		logger.L.Fatalf("Failed to look up admin: %v", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.L.Fatalf("Failed to hash password: %v", err)
	}

	admin := &models.User{
		Email:        adminEmail,
		Password:     string(hashedPassword),
		Name:         "Administrator",
		Role:         models.RoleAdmin,
		TokenVersion: 1,
	}
	if err := users.Create(ctx, admin); err != nil {
		logger.L.Fatalf("Failed to create admin user: %v", err)
	}

	logger.L.Infof("Admin account %d created", admin.ID)
}

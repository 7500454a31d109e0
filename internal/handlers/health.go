package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CacheHealth is satisfied by the redis cache service.
type CacheHealth interface {
	HealthCheck(ctx context.Context) error
	PoolStats() *redis.PoolStats
}

type HealthHandler struct {
	db    Pinger
	cache CacheHealth
}

func NewHealthHandler(db Pinger, cache CacheHealth) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	services := fiber.Map{"database": "connected", "redis": "connected"}

	if err := h.db.PingContext(ctx); err != nil {
		status = fiber.StatusServiceUnavailable
		services["database"] = err.Error()
	}
	if err := h.cache.HealthCheck(ctx); err != nil {
		status = fiber.StatusServiceUnavailable
		services["redis"] = err.Error()
	}

	body := fiber.Map{
		"status":   "ok",
		"services": services,
	}
	if poolStats := h.cache.PoolStats(); poolStats != nil {
		body["pool_stats"] = fiber.Map{
			"hits":        poolStats.Hits,
			"misses":      poolStats.Misses,
			"timeouts":    poolStats.Timeouts,
			"total_conns": poolStats.TotalConns,
			"idle_conns":  poolStats.IdleConns,
			"stale_conns": poolStats.StaleConns,
		}
	}
	if status != fiber.StatusOK {
		body["status"] = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{"success": status == fiber.StatusOK, "data": body})
}

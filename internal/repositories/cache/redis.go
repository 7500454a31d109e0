package cache

import (
	"net"
	"time"

	"cascade/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the client backing the read-model cache. Callers
// treat cache errors as misses.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
}

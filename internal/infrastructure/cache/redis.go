// Package cache connects to the Redis instance backing idempotent requests.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"library-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// Open returns nil without error when REDIS_ADDR is empty; callers then run
// without the idempotency layer.
func Open(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		slog.Info("redis disabled")
		return nil, nil
	}
	return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
}

func OpenRedis(ctx context.Context, addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	slog.Info("redis connected", "addr", addr, "db", db)
	return r, nil
}

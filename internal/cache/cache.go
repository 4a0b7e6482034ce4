// Package cache wraps the optional redis connection. When redis is not
// configured every operation is a no-op, so callers never branch on
// availability themselves.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/automeet/automeet/backend/internal/config"
)

// Cache is a thin throttle/flag store over redis.
type Cache struct {
	client *redis.Client
}

// New connects to redis when configured; otherwise returns a disabled
// cache whose operations succeed without effect.
func New(cfg config.Config) *Cache {
	if !cfg.RedisEnabled() {
		return &Cache{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Username: cfg.RedisUsername,
		Password: cfg.RedisPassword,
	})
	return &Cache{client: client}
}

// Enabled reports whether a redis connection is configured.
func (c *Cache) Enabled() bool { return c.client != nil }

// Throttle marks key for ttl and reports whether it was already marked.
// A disabled cache never throttles.
func (c *Cache) Throttle(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	ok, err := c.client.SetNX(ctx, fmt.Sprintf("throttle:%s", key), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return !ok, nil
}

// Close releases the redis connection.
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

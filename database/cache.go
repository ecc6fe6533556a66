package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"olympool/config"
	"olympool/metrics"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin JSON layer over redis. A nil *Cache or one built from an
// empty address is a no-op: every lookup misses and every write succeeds.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// NewCache connects to redis when an address is configured
func NewCache(ctx context.Context, cfg config.RedisConfig, log *slog.Logger) (*Cache, error) {
	if cfg.Addr == "" {
		log.Info("Redis address not set, caching disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{client: client, ttl: ttl, log: log}, nil
}

// NewCacheFromClient wraps an existing client
func NewCacheFromClient(client *redis.Client, ttl time.Duration, log *slog.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, log: log}
}

// Get decodes the cached value of key into dest and reports whether it was found
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheMisses.Inc()
		return false, nil
	}
	if err != nil {
		metrics.CacheMisses.Inc()
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		metrics.CacheMisses.Inc()
		return false, err
	}

	metrics.CacheHits.Inc()
	return true, nil
}

// Set stores value under key with the configured TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate removes the given keys. Failures are only logged.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("Failed to invalidate cache", "keys", keys, "error", err)
	}
}

// Close releases the redis connection
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

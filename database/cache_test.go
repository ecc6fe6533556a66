package database

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"olympool/config"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	cache, err := NewCache(ctx, config.RedisConfig{}, log)
	require.NoError(t, err)
	assert.Nil(t, cache)

	var dest map[string]int
	found, err := cache.Get(ctx, "key", &dest)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, cache.Set(ctx, "key", map[string]int{"a": 1}))
	cache.Invalidate(ctx, "key")
	assert.NoError(t, cache.Close())
}

func TestCacheUnreachableMisses(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	cache := NewCacheFromClient(client, time.Minute, log)
	defer cache.Close()

	var dest map[string]int
	found, err := cache.Get(ctx, "key", &dest)
	assert.Error(t, err)
	assert.False(t, found)

	// failures are logged, never returned
	cache.Invalidate(ctx, "key")
}

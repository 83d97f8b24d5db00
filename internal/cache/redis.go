package cache

import (
	"context"
	"encoding/json"
	"time"

	"eshop/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache keys for public catalog listings. Writes to the catalog drop these
// keys; per-category listings rely on the TTL alone.
const (
	KeyCategories = "catalog:categories"
	KeyProducts   = "catalog:products"
)

// Cache is a thin JSON read-through cache over redis. Every method degrades
// to a no-op on connection problems so the catalog keeps serving from the
// database when redis is down.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to redis and returns a Cache, or nil when addr is empty or
// the server is unreachable. Callers treat a nil *Cache as "caching off".
func New(addr, password string, db int, ttl time.Duration) *Cache {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, caching disabled", zap.String("addr", addr), zap.Error(err))
		return nil
	}

	return &Cache{client: client, ttl: ttl}
}

// Get unmarshals the cached value for key into dest. Returns false on miss
// or any error.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores val under key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, val interface{}) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.Debug("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops the given keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Debug("cache invalidate failed", zap.Error(err))
	}
}

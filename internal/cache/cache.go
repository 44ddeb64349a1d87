package cache

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Cache provides an abstraction over caching operations.
// This interface allows sessions and toasts to be stored without depending directly on Redis.
type Cache interface {
	// Get retrieves a value by key, ErrMiss when absent
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value with an optional TTL (0 = no expiration)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// SetNX sets a key only if it doesn't exist (returns true if set, false if already exists)
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)

	// Expire resets the TTL of an existing key; missing keys are ignored
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Delete removes keys
	Delete(ctx context.Context, keys ...string) error
}

// RedisCache implements Cache using Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis-backed cache
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return v, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, key, value, ttl).Result()
}

func (c *RedisCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return c.client.Persist(ctx, key).Err()
	}
	return c.client.PExpire(ctx, key, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// MemoryCache is the single-instance fallback used when Redis is unavailable.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache creates an in-process cache; expired items are purged every cleanup interval.
func NewMemoryCache(cleanup time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(gocache.NoExpiration, cleanup)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.c.Get(key)
	if !ok {
		return "", ErrMiss
	}
	s, _ := v.(string)
	return s, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	c.c.Set(key, value, memoryTTL(ttl))
	return nil
}

func (c *MemoryCache) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	if err := c.c.Add(key, value, memoryTTL(ttl)); err != nil {
		return false, nil
	}
	return true, nil
}

func (c *MemoryCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	v, ok := c.c.Get(key)
	if !ok {
		return nil
	}
	c.c.Set(key, v, memoryTTL(ttl))
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		c.c.Delete(k)
	}
	return nil
}

// go-cache treats 0 as "use the default", which is NoExpiration here.
func memoryTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return gocache.NoExpiration
	}
	return ttl
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisCache(rdb), mr
}

func TestRedisCache_MissAndTTL(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	if _, err := c.Get(ctx, "absent"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}

	if err := c.Set(ctx, "k", "v", 3*time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(2999 * time.Millisecond)
	if v, err := c.Get(ctx, "k"); err != nil || v != "v" {
		t.Fatalf("expected value before expiry, got %q %v", v, err)
	}
	mr.FastForward(time.Millisecond)
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss after expiry, got %v", err)
	}
}

func TestRedisCache_SetNXAndExpire(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	ok, err := c.SetNX(ctx, "lock", "1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first SetNX to win: %v %v", ok, err)
	}
	ok, err = c.SetNX(ctx, "lock", "2", time.Minute)
	if err != nil || ok {
		t.Fatalf("expected second SetNX to lose: %v %v", ok, err)
	}

	if err := c.Expire(ctx, "lock", 10*time.Second); err != nil {
		t.Fatalf("Expire: %v", err)
	}
	if ttl := mr.TTL("lock"); ttl != 10*time.Second {
		t.Fatalf("expected 10s ttl, got %v", ttl)
	}

	if err := c.Delete(ctx, "lock"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if mr.Exists("lock") {
		t.Fatalf("expected key deleted")
	}
}

func TestMemoryCache_Semantics(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	if _, err := c.Get(ctx, "absent"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
	if err := c.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ok, _ := c.SetNX(ctx, "k", "other", 0); ok {
		t.Fatalf("expected SetNX to fail on existing key")
	}
	if v, _ := c.Get(ctx, "k"); v != "v" {
		t.Fatalf("expected v, got %q", v)
	}

	if err := c.Set(ctx, "short", "x", 20*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	if _, err := c.Get(ctx, "short"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected expiry, got %v", err)
	}

	_ = c.Delete(ctx, "k")
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected delete, got %v", err)
	}
}

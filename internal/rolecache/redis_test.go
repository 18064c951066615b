package rolecache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/dangphu2412/handons-design-pattern/internal/auth"
)

func newTestRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client)
}

func TestRedisCacheSetAndLookup(t *testing.T) {
	cache := newTestRedisCache(t)
	ctx := context.Background()

	err := cache.Set(ctx, "u1", auth.RoleKeySet{"VISITOR": true, "ADMIN": true})
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	keys, err := cache.Lookup(ctx, "u1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(keys) != 2 || !keys["VISITOR"] || !keys["ADMIN"] {
		t.Fatalf("unexpected key set: %v", keys)
	}
}

func TestRedisCacheOverwritesWithoutMerging(t *testing.T) {
	cache := newTestRedisCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "u1", auth.RoleKeySet{"ADMIN": true}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := cache.Set(ctx, "u1", auth.RoleKeySet{"VISITOR": true}); err != nil {
		t.Fatalf("Set again: %v", err)
	}
	keys, err := cache.Lookup(ctx, "u1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if keys["ADMIN"] {
		t.Fatalf("stale grant survived overwrite: %v", keys)
	}
	if len(keys) != 1 || !keys["VISITOR"] {
		t.Fatalf("unexpected key set: %v", keys)
	}
}

func TestRedisCacheSkipsRevokedFlags(t *testing.T) {
	cache := newTestRedisCache(t)
	ctx := context.Background()

	err := cache.Set(ctx, "u1", auth.RoleKeySet{"VISITOR": true, "ADMIN": false})
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	keys, err := cache.Lookup(ctx, "u1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if keys["ADMIN"] {
		t.Fatalf("revoked key written to the cache: %v", keys)
	}
}

func TestRedisCacheLookupMissingUser(t *testing.T) {
	cache := newTestRedisCache(t)

	keys, err := cache.Lookup(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected empty set, got %v", keys)
	}
}

func TestRedisCacheSetEmptyClearsEntry(t *testing.T) {
	cache := newTestRedisCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "u1", auth.RoleKeySet{"VISITOR": true}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := cache.Set(ctx, "u1", auth.RoleKeySet{}); err != nil {
		t.Fatalf("Set empty: %v", err)
	}
	keys, err := cache.Lookup(ctx, "u1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected cleared entry, got %v", keys)
	}
}

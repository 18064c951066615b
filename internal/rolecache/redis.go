// Package rolecache stores the role keys currently granted to each user in a
// fast-lookup store independent of the primary datastore. The auth core only
// writes entries; downstream authorization reads them.
package rolecache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dangphu2412/handons-design-pattern/internal/auth"
)

const keyPrefix = "auth:roles"

var _ auth.RoleCache = (*RedisCache)(nil)

// RedisCache keeps each user's role key set in a Redis hash. Entries are
// replaced wholesale so the cache never merges with stale grants.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps an existing Redis client.
func NewRedis(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, prefix: keyPrefix}
}

func (c *RedisCache) key(userID string) string {
	return c.prefix + ":" + userID
}

// Set overwrites the cached key set for userID. Last write wins.
func (c *RedisCache) Set(ctx context.Context, userID string, keys auth.RoleKeySet) error {
	fields := make(map[string]any, len(keys))
	for key, granted := range keys {
		if granted {
			fields[key] = 1
		}
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.key(userID))
		if len(fields) > 0 {
			pipe.HSet(ctx, c.key(userID), fields)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rolecache: set %s: %w", userID, err)
	}
	return nil
}

// Lookup returns the cached key set for userID. A missing entry yields an
// empty set.
func (c *RedisCache) Lookup(ctx context.Context, userID string) (auth.RoleKeySet, error) {
	raw, err := c.client.HGetAll(ctx, c.key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("rolecache: lookup %s: %w", userID, err)
	}
	keys := make(auth.RoleKeySet, len(raw))
	for key := range raw {
		keys[key] = true
	}
	return keys, nil
}

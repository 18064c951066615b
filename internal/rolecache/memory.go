package rolecache

import (
	"context"
	"sync"

	"github.com/dangphu2412/handons-design-pattern/internal/auth"
)

var _ auth.RoleCache = (*MemCache)(nil)

// MemCache is an in-memory cache for tests and Redis-less runs.
type MemCache struct {
	mu      sync.Mutex
	entries map[string]auth.RoleKeySet
}

func NewMem() *MemCache {
	return &MemCache{entries: make(map[string]auth.RoleKeySet)}
}

func (c *MemCache) Set(ctx context.Context, userID string, keys auth.RoleKeySet) error {
	copied := make(auth.RoleKeySet, len(keys))
	for key, granted := range keys {
		if granted {
			copied[key] = true
		}
	}
	c.mu.Lock()
	c.entries[userID] = copied
	c.mu.Unlock()
	return nil
}

func (c *MemCache) Lookup(ctx context.Context, userID string) (auth.RoleKeySet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make(auth.RoleKeySet, len(c.entries[userID]))
	for key := range c.entries[userID] {
		keys[key] = true
	}
	return keys, nil
}

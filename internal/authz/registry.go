// Package authz holds the authorization strategy registry consulted by
// request-time authorization checks.
package authz

import (
	"context"
	"errors"
	"sync"

	"github.com/dangphu2412/handons-design-pattern/internal/obs"
)

// ErrForbidden is returned by strategies that deny the request.
var ErrForbidden = errors.New("authz: forbidden")

// Strategy authorizes the request bound to ctx. Implementations inspect the
// authenticated principal placed on the context by the HTTP layer.
type Strategy interface {
	Authorize(ctx context.Context) error
}

// Registry maps strategy identifiers to strategies. It is constructed once
// at process startup, populated before traffic begins, and passed by handle
// to every component that needs lookups; there is no ambient global.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Strategy)}
}

// Register inserts or overwrites the strategy for id. The last registration
// for an identifier wins; there is no removal.
func (r *Registry) Register(id string, strategy Strategy) {
	r.mu.Lock()
	r.strategies[id] = strategy
	r.mu.Unlock()
	obs.LogJSON(map[string]any{
		"level":    "info",
		"msg":      "registered authorization strategy",
		"strategy": id,
	})
}

// Lookup returns the strategy registered under id.
func (r *Registry) Lookup(id string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	strategy, ok := r.strategies[id]
	return strategy, ok
}

package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultMaxViews = 1024
	DefaultViewTTL  = 30 * time.Minute
)

// Registry keeps the dashboard views of recently active sessions.
type Registry struct {
	mu    sync.Mutex
	views *expirable.LRU[string, *View]
}

func NewRegistry(size int, ttl time.Duration) *Registry {
	if size <= 0 {
		size = DefaultMaxViews
	}
	if ttl <= 0 {
		ttl = DefaultViewTTL
	}
	return &Registry{views: expirable.NewLRU[string, *View](size, nil, ttl)}
}

// View returns the session's view, creating it on first use.
func (r *Registry) View(sessionID string) *View {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.views.Get(sessionID); ok {
		return v
	}
	v := NewView()
	r.views.Add(sessionID, v)
	return v
}

// Peek returns the session's view without creating or refreshing it.
func (r *Registry) Peek(sessionID string) (*View, bool) {
	return r.views.Peek(sessionID)
}

// Drop resets and forgets the session's view. Its signature fits session teardown hooks.
func (r *Registry) Drop(_ context.Context, sessionID string) {
	r.mu.Lock()
	v, ok := r.views.Peek(sessionID)
	r.views.Remove(sessionID)
	r.mu.Unlock()
	if ok {
		v.Reset()
	}
}

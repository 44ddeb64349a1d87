// Package toast holds the one transient notification each session may show.
package toast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/cache"
	"storefront/internal/logging"
)

// DefaultTTL is how long a toast stays visible.
const DefaultTTL = 3000 * time.Millisecond

// EventToast is the realtime event type carrying a toast.
const EventToast = "toast"

type Kind string

const (
	Success Kind = "success"
	Info    Kind = "info"
	Error   Kind = "error"
)

type Toast struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	// ShownAt is when the toast replaced the previous one.
	ShownAt time.Time `json:"shown_at"`
	TTLMS   int64     `json:"ttl_ms"`
}

// Remaining is the visible time left relative to now, never negative.
func (t Toast) Remaining(now time.Time) time.Duration {
	left := time.Duration(t.TTLMS)*time.Millisecond - now.Sub(t.ShownAt)
	if left < 0 {
		return 0
	}
	return left
}

// Publisher pushes an event to the open tabs of one session.
type Publisher interface {
	PublishSession(ctx context.Context, sessionID, eventType string, data any) error
}

type Store struct {
	cache cache.Cache
	ttl   time.Duration
	pub   Publisher
	now   func() time.Time
}

// NewStore returns a store whose toasts expire after ttl (DefaultTTL when <= 0).
// pub may be nil.
func NewStore(c cache.Cache, ttl time.Duration, pub Publisher) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{cache: c, ttl: ttl, pub: pub, now: time.Now}
}

func key(sessionID string) string { return "toast:" + sessionID }

// Show replaces the session's toast and restarts its expiry.
func (s *Store) Show(ctx context.Context, sessionID string, kind Kind, message string) error {
	if sessionID == "" {
		return errors.New("toast: empty session id")
	}
	t := Toast{Kind: kind, Message: message, ShownAt: s.now().UTC(), TTLMS: s.ttl.Milliseconds()}
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("toast: encode: %w", err)
	}
	if err := s.cache.Set(ctx, key(sessionID), string(raw), s.ttl); err != nil {
		return fmt.Errorf("toast: store: %w", err)
	}
	if s.pub != nil {
		if err := s.pub.PublishSession(ctx, sessionID, EventToast, t); err != nil {
			logging.FromContext(ctx).Warn("toast publish failed", "err", err)
		}
	}
	return nil
}

// Current returns the session's toast while it is unexpired.
func (s *Store) Current(ctx context.Context, sessionID string) (Toast, bool) {
	if sessionID == "" {
		return Toast{}, false
	}
	raw, err := s.cache.Get(ctx, key(sessionID))
	if err != nil {
		return Toast{}, false
	}
	var t Toast
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return Toast{}, false
	}
	return t, true
}

// Dismiss removes the session's toast early.
func (s *Store) Dismiss(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, key(sessionID))
}

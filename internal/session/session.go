// Package session keeps per-browser console state server-side.
//
// The browser only holds an opaque random ID in a cookie. The bearer token,
// the sidebar flag and anything else the console remembers live in the cache
// under that ID and expire together after the idle TTL.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"storefront/internal/cache"
)

const (
	DefaultCookieName = "storefront_sid"
	DefaultIdleTTL    = 24 * time.Hour

	idBytes = 32
)

// ErrNoSession is returned when a request carries no live session.
var ErrNoSession = errors.New("session: no session")

// Session identifies one browser's console state.
type Session struct {
	ID string
	// Fresh is set when the session was created by this request.
	Fresh bool
}

type Options struct {
	CookieName string
	IdleTTL    time.Duration
}

// TeardownFunc drops state another package keeps for a session.
type TeardownFunc func(ctx context.Context, id string)

type Manager struct {
	store      cache.Cache
	cookieName string
	ttl        time.Duration

	mu       sync.RWMutex
	teardown []TeardownFunc
}

func NewManager(store cache.Cache, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultIdleTTL
	}
	return &Manager{store: store, cookieName: opts.CookieName, ttl: opts.IdleTTL}
}

func (m *Manager) CookieName() string { return m.cookieName }

// OnReset registers fn to run whenever a session is reset.
func (m *Manager) OnReset(fn TeardownFunc) {
	m.mu.Lock()
	m.teardown = append(m.teardown, fn)
	m.mu.Unlock()
}

func aliveKey(id string) string   { return "session:" + id + ":alive" }
func tokenKey(id string) string   { return "session:" + id + ":token" }
func sidebarKey(id string) string { return "session:" + id + ":sidebar" }

func (m *Manager) keys(id string) []string {
	return []string{aliveKey(id), tokenKey(id), sidebarKey(id)}
}

// Load returns the session named by the request cookie when it is still live,
// sliding its expiry forward.
func (m *Manager) Load(r *http.Request) (Session, bool) {
	c, err := r.Cookie(m.cookieName)
	if err != nil || !validID(c.Value) {
		return Session{}, false
	}
	ctx := r.Context()
	if _, err := m.store.Get(ctx, aliveKey(c.Value)); err != nil {
		return Session{}, false
	}
	for _, k := range m.keys(c.Value) {
		_ = m.store.Expire(ctx, k, m.ttl)
	}
	return Session{ID: c.Value}, true
}

// Ensure loads the request's session or starts a new one and sets its cookie.
func (m *Manager) Ensure(w http.ResponseWriter, r *http.Request) (Session, error) {
	if s, ok := m.Load(r); ok {
		return s, nil
	}
	return m.create(r.Context(), w, r)
}

func (m *Manager) create(ctx context.Context, w http.ResponseWriter, r *http.Request) (Session, error) {
	for attempt := 0; attempt < 3; attempt++ {
		id, err := RandomToken(idBytes)
		if err != nil {
			return Session{}, err
		}
		ok, err := m.store.SetNX(ctx, aliveKey(id), "1", m.ttl)
		if err != nil {
			return Session{}, fmt.Errorf("session: create: %w", err)
		}
		if !ok {
			continue
		}
		m.setCookie(w, r, id, int(m.ttl/time.Second))
		return Session{ID: id, Fresh: true}, nil
	}
	return Session{}, errors.New("session: could not allocate id")
}

// Token returns the stored bearer token, "" when none is stored.
func (m *Manager) Token(ctx context.Context, s Session) (string, error) {
	if s.ID == "" {
		return "", ErrNoSession
	}
	tok, err := m.store.Get(ctx, tokenKey(s.ID))
	if errors.Is(err, cache.ErrMiss) {
		return "", nil
	}
	return tok, err
}

func (m *Manager) SetToken(ctx context.Context, s Session, token string) error {
	if s.ID == "" {
		return ErrNoSession
	}
	return m.store.Set(ctx, tokenKey(s.ID), token, m.ttl)
}

func (m *Manager) ClearToken(ctx context.Context, s Session) error {
	if s.ID == "" {
		return ErrNoSession
	}
	return m.store.Delete(ctx, tokenKey(s.ID))
}

// SidebarOpen defaults to closed.
func (m *Manager) SidebarOpen(ctx context.Context, s Session) bool {
	if s.ID == "" {
		return false
	}
	v, err := m.store.Get(ctx, sidebarKey(s.ID))
	return err == nil && v == "1"
}

func (m *Manager) SetSidebarOpen(ctx context.Context, s Session, open bool) error {
	if s.ID == "" {
		return ErrNoSession
	}
	if !open {
		return m.store.Delete(ctx, sidebarKey(s.ID))
	}
	return m.store.Set(ctx, sidebarKey(s.ID), "1", m.ttl)
}

// Reset drops everything stored for s, runs the teardown hooks and starts a
// new session under a fresh ID.
func (m *Manager) Reset(ctx context.Context, w http.ResponseWriter, r *http.Request, s Session) (Session, error) {
	if s.ID != "" {
		if err := m.store.Delete(ctx, m.keys(s.ID)...); err != nil {
			return Session{}, fmt.Errorf("session: reset: %w", err)
		}
		m.mu.RLock()
		hooks := append([]TeardownFunc(nil), m.teardown...)
		m.mu.RUnlock()
		for _, fn := range hooks {
			fn(ctx, s.ID)
		}
	}
	return m.create(ctx, w, r)
}

func (m *Manager) setCookie(w http.ResponseWriter, r *http.Request, value string, maxAge int) {
	isSecure := r.TLS != nil ||
		r.Header.Get("X-Forwarded-Proto") == "https" ||
		r.Header.Get("X-Forwarded-Ssl") == "on" ||
		r.Header.Get("X-Forwarded-Scheme") == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		Domain:   os.Getenv("COOKIE_DOMAIN"),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   isSecure,
		// Lax so the console survives arriving from a link.
		SameSite: http.SameSiteLaxMode,
	})
}

// RandomToken returns n random bytes encoded as unpadded base64url.
func RandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func validID(v string) bool {
	if len(v) != base64.RawURLEncoding.EncodedLen(idBytes) {
		return false
	}
	raw, err := base64.RawURLEncoding.DecodeString(v)
	return err == nil && len(raw) == idBytes
}

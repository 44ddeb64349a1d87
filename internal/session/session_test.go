package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/cache"
	"storefront/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newManager(t *testing.T) (*session.Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return session.NewManager(cache.NewRedisCache(client), session.Options{IdleTTL: time.Hour}), mr
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.DefaultCookieName {
			return c
		}
	}
	t.Fatalf("no session cookie set")
	return nil
}

func TestEnsure_CreatesAndReloads(t *testing.T) {
	m, _ := newManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	s, err := m.Ensure(rec, req)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if !s.Fresh || s.ID == "" {
		t.Fatalf("expected fresh session, got %+v", s)
	}
	c := sessionCookie(t, rec)
	if !c.HttpOnly || c.SameSite != http.SameSiteLaxMode || c.Secure {
		t.Fatalf("unexpected cookie attributes: %+v", c)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req2.AddCookie(c)
	rec2 := httptest.NewRecorder()
	s2, err := m.Ensure(rec2, req2)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if s2.ID != s.ID || s2.Fresh {
		t.Fatalf("expected same session, got %+v", s2)
	}
	if len(rec2.Result().Cookies()) != 0 {
		t.Fatalf("expected no new cookie for an existing session")
	}
}

func TestEnsure_SecureBehindProxy(t *testing.T) {
	m, _ := newManager(t)
	req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	if _, err := m.Ensure(rec, req); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if !sessionCookie(t, rec).Secure {
		t.Fatalf("expected Secure cookie behind https proxy")
	}
}

func TestLoad_RejectsForgedAndExpired(t *testing.T) {
	m, mr := newManager(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "not-a-session"})
	if _, ok := m.Load(req); ok {
		t.Fatalf("expected forged cookie to be rejected")
	}

	rec := httptest.NewRecorder()
	if _, err := m.Ensure(rec, httptest.NewRequest(http.MethodGet, "/", nil)); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	c := sessionCookie(t, rec)

	mr.FastForward(2 * time.Hour)
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(c)
	if _, ok := m.Load(req2); ok {
		t.Fatalf("expected idle session to expire")
	}
}

func TestToken_RoundTripAndClear(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	s, err := m.Ensure(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	if tok, err := m.Token(ctx, s); err != nil || tok != "" {
		t.Fatalf("expected empty token, got %q %v", tok, err)
	}
	if err := m.SetToken(ctx, s, "abc"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if tok, _ := m.Token(ctx, s); tok != "abc" {
		t.Fatalf("expected abc, got %q", tok)
	}

	src := m.TokenSource()
	if got := src.Token(session.NewContext(ctx, s)); got != "abc" {
		t.Fatalf("token source: expected abc, got %q", got)
	}
	if got := src.Token(ctx); got != "" {
		t.Fatalf("token source without session: expected empty, got %q", got)
	}

	if err := m.ClearToken(ctx, s); err != nil {
		t.Fatalf("ClearToken: %v", err)
	}
	if tok, _ := m.Token(ctx, s); tok != "" {
		t.Fatalf("expected cleared token, got %q", tok)
	}
}

func TestSidebar(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	s, _ := m.Ensure(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if m.SidebarOpen(ctx, s) {
		t.Fatalf("sidebar should start closed")
	}
	_ = m.SetSidebarOpen(ctx, s, true)
	if !m.SidebarOpen(ctx, s) {
		t.Fatalf("sidebar should be open")
	}
	_ = m.SetSidebarOpen(ctx, s, false)
	if m.SidebarOpen(ctx, s) {
		t.Fatalf("sidebar should be closed")
	}
}

func TestReset_RotatesAndTearsDown(t *testing.T) {
	m, mr := newManager(t)
	ctx := context.Background()

	var tornDown []string
	m.OnReset(func(_ context.Context, id string) { tornDown = append(tornDown, id) })

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	s, _ := m.Ensure(httptest.NewRecorder(), req)
	_ = m.SetToken(ctx, s, "abc")
	_ = m.SetSidebarOpen(ctx, s, true)

	rec := httptest.NewRecorder()
	next, err := m.Reset(ctx, rec, req, s)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if next.ID == s.ID || !next.Fresh {
		t.Fatalf("expected rotated session, got %+v", next)
	}
	if sessionCookie(t, rec).Value != next.ID {
		t.Fatalf("cookie should carry the new id")
	}
	if len(tornDown) != 1 || tornDown[0] != s.ID {
		t.Fatalf("teardown hooks: %v", tornDown)
	}
	for _, k := range []string{"session:" + s.ID + ":alive", "session:" + s.ID + ":token", "session:" + s.ID + ":sidebar"} {
		if mr.Exists(k) {
			t.Fatalf("key %s survived reset", k)
		}
	}
	if tok, _ := m.Token(ctx, next); tok != "" {
		t.Fatalf("new session must not inherit the token")
	}
}

func TestRandomToken(t *testing.T) {
	a, err := session.RandomToken(32)
	if err != nil {
		t.Fatalf("RandomToken: %v", err)
	}
	b, _ := session.RandomToken(32)
	if a == b || len(a) != 43 {
		t.Fatalf("unexpected tokens %q %q", a, b)
	}
}

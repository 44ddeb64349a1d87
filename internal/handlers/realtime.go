package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"storefront/internal/auth"
	"storefront/internal/logging"
	"storefront/internal/middleware"
	"storefront/internal/realtime"
	"storefront/internal/session"
)

const (
	defaultMaxConnections      = 500
	defaultMaxConnectionsPerIP = 20
)

// WebSocketOptions configures realtime WebSocket behavior.
type WebSocketOptions struct {
	TrustProxy          bool
	MaxConnections      int
	MaxConnectionsPerIP int
}

// NewAdminWebSocketHandler streams the session's toasts and dashboard
// refreshes to an admin tab. It runs behind the admin guard, so only the
// session cookie identifies the subscriber.
func NewAdminWebSocketHandler(hub *realtime.Hub, opts WebSocketOptions) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			// Browsers always send Origin on WebSocket handshakes.
			return origin != "" && middleware.AllowedOrigin(r, origin)
		},
	}
	maxTotal := resolveLimit(opts.MaxConnections, "REALTIME_WS_MAX_CONNECTIONS", defaultMaxConnections)
	maxPerIP := resolveLimit(opts.MaxConnectionsPerIP, "REALTIME_WS_MAX_CONNECTIONS_PER_IP", defaultMaxConnectionsPerIP)
	limiter := newWSLimiter(maxTotal, maxPerIP)
	return func(w http.ResponseWriter, r *http.Request) {
		if hub == nil {
			writeJSON(w, http.StatusServiceUnavailable, apiError{Code: "service_unavailable", Message: "realtime not configured"})
			return
		}
		s, ok := session.FromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, apiError{Code: "unauthorized", Message: "unauthorized"})
			return
		}

		ip := middleware.ClientIP(r, opts.TrustProxy)
		if !limiter.acquire(ip) {
			writeJSON(w, http.StatusTooManyRequests, apiError{Code: "rate_limited", Message: "too many realtime connections"})
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			limiter.release(ip)
			slog.WarnContext(r.Context(), "websocket upgrade failed", "error", err, "origin", r.Header.Get("Origin"))
			// Upgrade() already wrote the error response
			return
		}

		admin, _ := auth.AdminFromContext(r.Context())
		logging.FromContext(r.Context()).Info("websocket connected", "admin", admin.Name)

		realtime.NewClient(hub, conn, s.ID, func() {
			limiter.release(ip)
		}).Run()
	}
}

type wsLimiter struct {
	mu       sync.Mutex
	byIP     map[string]int
	total    int
	maxTotal int
	maxPerIP int
}

func newWSLimiter(maxTotal, maxPerIP int) *wsLimiter {
	return &wsLimiter{
		byIP:     make(map[string]int),
		maxTotal: maxTotal,
		maxPerIP: maxPerIP,
	}
}

func (l *wsLimiter) acquire(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.maxTotal > 0 && l.total >= l.maxTotal {
		return false
	}
	if l.maxPerIP > 0 && l.byIP[ip] >= l.maxPerIP {
		return false
	}
	l.total++
	l.byIP[ip]++
	return true
}

func (l *wsLimiter) release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.total > 0 {
		l.total--
	}
	if l.byIP[ip] > 0 {
		l.byIP[ip]--
		if l.byIP[ip] == 0 {
			delete(l.byIP, ip)
		}
	}
}

func resolveLimit(current int, env string, fallback int) int {
	if current > 0 {
		return current
	}
	if raw := strings.TrimSpace(os.Getenv(env)); raw != "" {
		if val, err := strconv.Atoi(raw); err == nil && val > 0 {
			return val
		}
	}
	return fallback
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RateLimitOptions struct {
	TrustProxy bool
	// LoginPath is the console login route. Defaults to /admin/login.
	LoginPath string
	// OnLimited renders the rejection. Defaults to a JSON 429.
	OnLimited func(w http.ResponseWriter, r *http.Request, retryAfter time.Duration)
	Now       func() time.Time
}

type rateRule struct {
	routeKey string
	limit    int64
	window   time.Duration
}

var incrExpireScript = redis.NewScript(`
local v = redis.call('INCR', KEYS[1])
if v == 1 then
  redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {v, ttl}
`)

var rateRules = []rateRule{
	// Credential guessing goes through the login form.
	{routeKey: "admin_login", limit: 10, window: 1 * time.Minute},
	{routeKey: "admin_login", limit: 50, window: 1 * time.Hour},
	// Every refresh is a backend aggregate query.
	{routeKey: "dashboard_refresh", limit: 20, window: 1 * time.Minute},
	// Mutations proxied to the backend.
	{routeKey: "admin_write", limit: 120, window: 1 * time.Minute},
}

// RateLimit applies Redis-backed fixed-window rate limiting per client IP.
// If Redis is unavailable (rdb == nil), it becomes a no-op.
func RateLimit(rdb *redis.Client, opt RateLimitOptions) func(http.Handler) http.Handler {
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.LoginPath == "" {
		opt.LoginPath = "/admin/login"
	}
	if opt.OnLimited == nil {
		opt.OnLimited = writeRateLimited
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rdb == nil {
				next.ServeHTTP(w, r)
				return
			}

			route := classifyRoute(r, opt.LoginPath)
			if route == "" {
				next.ServeHTTP(w, r)
				return
			}

			ip := strings.TrimSpace(ClientIP(r, opt.TrustProxy))
			if ip == "" {
				// Cannot identify; fail open to avoid accidental lockouts.
				next.ServeHTTP(w, r)
				return
			}
			now := opt.Now()

			for _, rr := range rateRules {
				if rr.routeKey != route {
					continue
				}
				count, ttl, resetUnix, err := hitFixedWindow(r.Context(), rdb, rr.routeKey, "ip:"+ip, rr.window, now)
				if err != nil {
					// Redis error: fail open.
					continue
				}
				remaining := rr.limit - count
				if remaining < 0 {
					remaining = 0
				}

				w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(rr.limit, 10))
				w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetUnix, 10))

				if count > rr.limit {
					retryAfter := ttl
					if retryAfter <= 0 {
						retryAfter = int64(rr.window.Seconds())
					}
					w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
					opt.OnLimited(w, r, time.Duration(retryAfter)*time.Second)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeRateLimited(w http.ResponseWriter, _ *http.Request, _ time.Duration) {
	writeJSONError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"code": code, "message": message})
}

func hitFixedWindow(ctx context.Context, rdb *redis.Client, routeKey string, subject string, window time.Duration, now time.Time) (count int64, ttlSeconds int64, resetUnix int64, err error) {
	windowSeconds := int64(window.Seconds())
	if windowSeconds <= 0 {
		return 0, 0, 0, nil
	}

	start := (now.Unix() / windowSeconds) * windowSeconds
	resetUnix = start + windowSeconds
	key := "rl:" + routeKey + ":" + subject + ":" + strconv.FormatInt(windowSeconds, 10) + ":" + strconv.FormatInt(start, 10)

	// Keep this fast; do not let Redis stalls block the console.
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()

	res, err := incrExpireScript.Run(ctx, rdb, []string{key}, windowSeconds).Result()
	if err != nil {
		return 0, 0, resetUnix, err
	}

	arr, ok := res.([]any)
	if !ok || len(arr) < 2 {
		return 0, 0, resetUnix, nil
	}

	// go-redis returns int64 for integers.
	if v, ok := arr[0].(int64); ok {
		count = v
	}
	if v, ok := arr[1].(int64); ok {
		ttlSeconds = v
	}
	return count, ttlSeconds, resetUnix, nil
}

// classifyRoute maps console requests to stable route keys for rate limiting.
// Reads are never limited.
func classifyRoute(r *http.Request, loginPath string) string {
	if r.Method != http.MethodPost {
		return ""
	}
	path := strings.TrimRight(r.URL.Path, "/")
	switch {
	case path == strings.TrimRight(loginPath, "/"):
		return "admin_login"
	case path == "/admin/dashboard/refresh":
		return "dashboard_refresh"
	case path == "/admin/logout", path == "/admin/sidebar/toggle":
		return ""
	case strings.HasPrefix(path, "/admin/"):
		return "admin_write"
	}
	return ""
}

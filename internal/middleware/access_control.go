package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type AccessControlOptions struct {
	TrustProxy bool
}

// AccessControl turns away client IPs on the console deny lists in Redis.
//
// Data model:
//   - deny:ip (SET) contains raw IP strings (e.g. "203.0.113.10")
//   - deny:ip:{ip} (STRING with TTL) is a temporary ban
func AccessControl(rdb *redis.Client, opt AccessControlOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rdb == nil {
				next.ServeHTTP(w, r)
				return
			}
			ip := ClientIP(r, opt.TrustProxy)
			if ip != "" && denied(r.Context(), rdb, ip) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// denied fails open on Redis errors.
func denied(ctx context.Context, rdb *redis.Client, ip string) bool {
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()

	if ok, err := rdb.SIsMember(ctx, "deny:ip", ip).Result(); err == nil && ok {
		return true
	}
	if v, err := rdb.Get(ctx, "deny:ip:"+ip).Result(); err == nil && strings.TrimSpace(v) != "" {
		return true
	}
	return false
}

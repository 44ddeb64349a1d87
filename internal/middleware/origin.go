package middleware

import (
	"net/http"
	"net/url"
	"os"
	"strings"
)

// allowedOrigins reads ALLOWED_ORIGINS (comma-separated) for deployments
// where the console is reached through another host name.
func allowedOrigins() []string {
	raw := os.Getenv("ALLOWED_ORIGINS")
	if raw == "" {
		return nil
	}
	origins := strings.Split(raw, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}
	return origins
}

// AllowedOrigin reports whether origin is the request's own host or an
// explicitly allowed origin. Matching is exact, never by prefix.
func AllowedOrigin(r *http.Request, origin string) bool {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return false
	}
	if u, err := url.Parse(origin); err == nil && u.Host != "" && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range allowedOrigins() {
		if allowed == origin {
			return true
		}
	}
	return false
}

// SameOrigin rejects state-changing requests sent from other sites. The
// session cookie is SameSite=Lax, which still lets top-level cross-site
// GETs through, so only unsafe methods are checked.
func SameOrigin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			origin := r.Header.Get("Origin")
			if origin == "" {
				if ref, err := url.Parse(r.Header.Get("Referer")); err == nil && ref.Host != "" {
					origin = ref.Scheme + "://" + ref.Host
				}
			}
			if origin != "" && !AllowedOrigin(r, origin) {
				writeJSONError(w, http.StatusForbidden, "forbidden_origin", "cross-origin request rejected")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

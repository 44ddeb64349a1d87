package middleware

import (
	"log/slog"
	"net/http"

	"storefront/internal/logging"
	"storefront/internal/session"
)

// Sessions attaches the browser's session to the request context, starting
// one when the request has none.
func Sessions(m *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := m.Ensure(w, r)
			if err != nil {
				slog.ErrorContext(r.Context(), "session unavailable", "error", err)
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}
			ctx := session.NewContext(r.Context(), s)
			ctx = logging.WithSession(ctx, s.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

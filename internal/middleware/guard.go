package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"storefront/internal/auth"
	"storefront/internal/guard"
	"storefront/internal/logging"
	"storefront/internal/session"
	"storefront/internal/toast"
)

type GuardOptions struct {
	Sessions *session.Manager
	Decoder  guard.Decoder
	Toasts   *toast.Store

	LoginPath    string
	HomePath     string
	RequiredRole string
}

// AdminGuard evaluates the session's token on every request and applies
// the decision: it clears a rejected token, shows its toast once and
// redirects, or serves the request with the admin and render mode in
// context. Nothing is written before the decision exists.
//
// It must run after Sessions.
func AdminGuard(opt GuardOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			s, ok := session.FromContext(ctx)
			if !ok {
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}

			token, err := opt.Sessions.Token(ctx, s)
			if err != nil {
				// Unreadable storage counts as no token.
				slog.WarnContext(ctx, "session token read failed", "error", err)
				token = ""
			}

			d := guard.Evaluate(guard.Input{
				Token:        token,
				Path:         r.URL.Path,
				LoginPath:    opt.LoginPath,
				HomePath:     opt.HomePath,
				RequiredRole: opt.RequiredRole,
			}, opt.Decoder)

			if d.ClearToken {
				if err := opt.Sessions.ClearToken(ctx, s); err != nil {
					slog.ErrorContext(ctx, "session token clear failed", "error", err)
				}
			}
			if d.Notice != nil && opt.Toasts != nil {
				if err := opt.Toasts.Show(ctx, s.ID, d.Notice.Kind, d.Notice.Message); err != nil {
					slog.ErrorContext(ctx, "toast failed", "error", err)
				}
			}
			switch d.State {
			case guard.Authenticated:
				logging.FromContext(ctx).Debug("admin guard passed", "admin", d.DisplayName)
			default:
				if d.ClearToken {
					logging.Audit(ctx, "admin.guard", logging.OutcomeDenied, slog.String("reason", d.Reason))
				}
			}

			if d.Redirect != "" {
				if d.State != guard.Authenticated && wantsJSON(r) {
					writeJSONError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
					return
				}
				http.Redirect(w, r, d.Redirect, http.StatusSeeOther)
				return
			}

			if d.State == guard.Authenticated {
				admin := auth.Admin{Name: d.DisplayName, Role: d.Role}
				noteAdmin(r, admin)
				ctx = auth.WithAdmin(ctx, admin)
			}
			ctx = guard.NewContext(ctx, d)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// wantsJSON marks script and websocket endpoints, which cannot follow a redirect to a form.
func wantsJSON(r *http.Request) bool {
	if strings.HasSuffix(r.URL.Path, ".json") {
		return true
	}
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

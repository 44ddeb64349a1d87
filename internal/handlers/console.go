// Package handlers serves the admin console: login, the guarded pages and
// the form posts that proxy mutations to the storefront backend.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"storefront/internal/apiclient"
	"storefront/internal/config"
	"storefront/internal/dashboard"
	"storefront/internal/guard"
	"storefront/internal/layout"
	"storefront/internal/logging"
	"storefront/internal/realtime"
	"storefront/internal/session"
	"storefront/internal/toast"
	"storefront/internal/views"
)

// Console holds what the console's handlers share.
type Console struct {
	Backend    *apiclient.Client
	Sessions   *session.Manager
	Toasts     *toast.Store
	Dashboards *dashboard.Registry
	Views      *views.Renderer
	Hub        *realtime.Hub
	Decoder    guard.Decoder
	Settings   config.ConsoleConfig
}

// NewConsole wires the session teardown that resets a session's dashboard.
func NewConsole(c Console) *Console {
	if c.Settings.LoginPath == "" {
		c.Settings.LoginPath = guard.DefaultLoginPath
	}
	if c.Settings.HomePath == "" {
		c.Settings.HomePath = guard.DefaultHomePath
	}
	if c.Settings.RequiredRole == "" {
		c.Settings.RequiredRole = guard.DefaultRole
	}
	if c.Sessions != nil && c.Dashboards != nil {
		c.Sessions.OnReset(c.Dashboards.Drop)
	}
	return &c
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// render fills in the shell and the session's live toast, then writes the page.
func (c *Console) render(w http.ResponseWriter, r *http.Request, name, title string, content any) {
	ctx := r.Context()
	d := guard.FromContext(ctx)
	p := views.Page{
		Title:   title,
		Path:    r.URL.Path,
		Render:  d.Render,
		Now:     time.Now(),
		Content: content,
	}
	if s, ok := session.FromContext(ctx); ok {
		if d.Render == guard.RenderShell {
			p.Shell = layout.Build(c.Settings.Name, d.DisplayName, r.URL.Path,
				layout.ViewportFromRequest(r), c.Sessions.SidebarOpen(ctx, s))
		}
		if t, ok := c.Toasts.Current(ctx, s.ID); ok {
			p.Toast = &t
		}
	}
	if err := c.Views.Render(w, http.StatusOK, name, p); err != nil {
		slog.ErrorContext(ctx, "render failed", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (c *Console) notify(ctx context.Context, kind toast.Kind, message string) {
	s, ok := session.FromContext(ctx)
	if !ok {
		return
	}
	if err := c.Toasts.Show(ctx, s.ID, kind, message); err != nil {
		slog.ErrorContext(ctx, "toast failed", "error", err)
	}
}

// backendFailed reports err as an error toast. A backend that no longer
// accepts the token ends the login: the token is dropped and the admin is
// sent back to the login page. It reports whether it already redirected.
func (c *Console) backendFailed(w http.ResponseWriter, r *http.Request, op string, err error) bool {
	ctx := r.Context()
	logging.FromContext(ctx).Warn("backend call failed", slog.String("op", op), slog.Int("status", apiclient.StatusOf(err)), slog.Any("error", err))
	c.notify(ctx, toast.Error, apiclient.Message(err))
	if !apiclient.IsUnauthorized(err) {
		return false
	}
	if s, ok := session.FromContext(ctx); ok {
		if err := c.Sessions.ClearToken(ctx, s); err != nil {
			slog.ErrorContext(ctx, "session token clear failed", "error", err)
		}
	}
	logging.Audit(ctx, "admin.backend_rejected", logging.OutcomeDenied, slog.String("op", op))
	http.Redirect(w, r, c.Settings.LoginPath, http.StatusSeeOther)
	return true
}

// mutate runs one backend write for a form post and redirects back to the list.
func (c *Console) mutate(w http.ResponseWriter, r *http.Request, op, back, success string, fn func(ctx context.Context) error) {
	ctx := r.Context()
	if err := fn(ctx); err != nil {
		if c.backendFailed(w, r, op, err) {
			return
		}
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	logging.Audit(ctx, "admin."+op, logging.OutcomeSuccess)
	c.notify(ctx, toast.Success, success)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// localPath keeps redirects inside the console.
func localPath(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "/admin") || strings.HasPrefix(raw, "//") || strings.ContainsAny(raw, "\\\r\n") {
		return fallback
	}
	return raw
}

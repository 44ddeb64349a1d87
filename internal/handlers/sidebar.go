package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"storefront/internal/layout"
	"storefront/internal/session"
)

// ToggleSidebar flips the sidebar, or sets it when the form says which way,
// and sends the browser back to the page it came from.
func (c *Console) ToggleSidebar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, ok := session.FromContext(ctx)
	if !ok {
		http.Redirect(w, r, c.Settings.HomePath, http.StatusSeeOther)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 4<<10)
	_ = r.ParseForm()

	open := !c.Sessions.SidebarOpen(ctx, s)
	if raw := r.PostForm.Get("open"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			open = v
		}
	}
	if err := c.Sessions.SetSidebarOpen(ctx, s, open); err != nil {
		slog.ErrorContext(ctx, "sidebar state store failed", "error", err)
	}
	http.Redirect(w, r, localPath(r.PostForm.Get("return"), c.Settings.HomePath), http.StatusSeeOther)
}

// closeSidebarOnArrival closes the sidebar when a mobile menu link was followed.
func (c *Console) closeSidebarOnArrival(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && layout.WantsSidebarClosed(r) {
			ctx := r.Context()
			if s, ok := session.FromContext(ctx); ok {
				if err := c.Sessions.SetSidebarOpen(ctx, s, false); err != nil {
					slog.ErrorContext(ctx, "sidebar state store failed", "error", err)
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

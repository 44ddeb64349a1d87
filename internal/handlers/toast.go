package handlers

import (
	"log/slog"
	"net/http"

	"storefront/internal/session"
)

// DismissToast closes the session's toast before it expires and returns to
// the page it was shown on.
func (c *Console) DismissToast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, 4<<10)
	_ = r.ParseForm()
	if s, ok := session.FromContext(ctx); ok {
		if err := c.Toasts.Dismiss(ctx, s.ID); err != nil {
			slog.ErrorContext(ctx, "toast dismiss failed", "error", err)
		}
	}
	http.Redirect(w, r, localPath(r.PostForm.Get("return"), c.Settings.HomePath), http.StatusSeeOther)
}

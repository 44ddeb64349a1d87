package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/dashboard"
	"storefront/internal/realtime"
	"storefront/internal/session"
)

// Dashboard loads the statistics as the page mounts, unless a refresh
// just did, and renders the cards and the chart.
func (c *Console) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, ok := session.FromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	view := c.Dashboards.View(s.ID)
	snap := view.Snapshot()
	if !view.TakeFresh() {
		var err error
		snap, err = view.FetchStatistics(ctx, c.Backend)
		if err != nil && c.backendFailed(w, r, "dashboard.fetch", err) {
			return
		}
	}
	c.render(w, r, "dashboard", "Tổng Quan", dashboard.NewModel(snap))
}

// RefreshDashboard reloads the statistics and tells the session's other
// tabs to pick them up.
func (c *Console) RefreshDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, ok := session.FromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	view := c.Dashboards.View(s.ID)
	snap, err := view.FetchStatistics(ctx, c.Backend)
	if err != nil {
		if c.backendFailed(w, r, "dashboard.refresh", err) {
			return
		}
	} else {
		c.publishRefreshed(ctx, s.ID, snap)
	}
	view.MarkFresh()
	http.Redirect(w, r, c.Settings.HomePath, http.StatusSeeOther)
}

// DashboardStats returns the session's current dashboard model without
// touching the backend.
func (c *Console) DashboardStats(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, apiError{Code: "service_unavailable", Message: "no session"})
		return
	}
	view, ok := c.Dashboards.Peek(s.ID)
	if !ok {
		writeJSON(w, http.StatusOK, dashboard.NewModel(dashboard.NewView().Snapshot()))
		return
	}
	writeJSON(w, http.StatusOK, dashboard.NewModel(view.Snapshot()))
}

type refreshedEvent struct {
	Seq       uint64    `json:"seq"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Console) publishRefreshed(ctx context.Context, sessionID string, snap dashboard.Snapshot) {
	if c.Hub == nil {
		return
	}
	err := c.Hub.PublishSession(ctx, sessionID, string(realtime.EventDashboardRefreshed), refreshedEvent{Seq: snap.Seq, UpdatedAt: snap.UpdatedAt})
	if err != nil {
		slog.WarnContext(ctx, "dashboard refresh publish failed", "error", err)
	}
}

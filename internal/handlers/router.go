package handlers

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"storefront/internal/middleware"
	"storefront/internal/toast"
)

// RouterOptions carries what the middleware stack needs beyond the console.
type RouterOptions struct {
	TrustProxy bool
	// Redis backs rate limiting and the IP deny list. Both are skipped when nil.
	Redis     *redis.Client
	WebSocket WebSocketOptions
}

// NewRouter mounts the console behind its middleware stack.
func NewRouter(c *Console, opt RouterOptions) http.Handler {
	opt.WebSocket.TrustProxy = opt.TrustProxy

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog(middleware.AccessLogOptions{TrustProxy: opt.TrustProxy}))
	r.Use(middleware.AccessControl(opt.Redis, middleware.AccessControlOptions{TrustProxy: opt.TrustProxy}))
	r.Use(middleware.SameOrigin())
	r.Use(middleware.RateLimit(opt.Redis, middleware.RateLimitOptions{
		TrustProxy: opt.TrustProxy,
		LoginPath:  c.Settings.LoginPath,
		OnLimited:  c.RateLimited,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, c.Settings.HomePath, http.StatusFound)
	})

	guarded := middleware.AdminGuard(middleware.GuardOptions{
		Sessions:     c.Sessions,
		Decoder:      c.Decoder,
		Toasts:       c.Toasts,
		LoginPath:    c.Settings.LoginPath,
		HomePath:     c.Settings.HomePath,
		RequiredRole: c.Settings.RequiredRole,
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Sessions(c.Sessions))

		// Posting credentials, leaving and closing a toast never depend on the
		// current token.
		r.Post(c.Settings.LoginPath, c.Login)
		r.Post("/admin/logout", c.Logout)
		r.Post("/admin/toast/dismiss", c.DismissToast)

		r.Group(func(r chi.Router) {
			r.Use(guarded)
			r.Use(c.closeSidebarOnArrival)

			r.Get(c.Settings.LoginPath, c.LoginPage)
			r.Get("/admin", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, c.Settings.HomePath, http.StatusFound)
			})
			r.Post("/admin/sidebar/toggle", c.ToggleSidebar)
			r.Get("/admin/ws", NewAdminWebSocketHandler(c.Hub, opt.WebSocket))

			r.Get("/admin/dashboard", c.Dashboard)
			r.Post("/admin/dashboard/refresh", c.RefreshDashboard)
			r.Get("/admin/dashboard/stats.json", c.DashboardStats)

			r.Get(productsPath, c.Products)
			r.Post(productsPath, c.AddProduct)
			r.Post(productsPath+"/{id}/delete", c.DeleteProduct)
			r.Get(categoriesPath, c.Categories)

			r.Get(ordersPath, c.Orders)
			r.Post(ordersPath+"/{id}/status", c.UpdateOrderStatus)
			r.Post(ordersPath+"/{id}/delete", c.DeleteOrder)

			r.Get(loyaltyPath, c.Loyalty)
			r.Post(loyaltyPath+"/{id}", c.UpdateLoyaltyPoint)
			r.Post(loyaltyPath+"/{id}/delete", c.DeleteLoyaltyPoint)

			r.Get(usersPath, c.Users)
			r.Post(usersPath+"/{id}/delete", c.DeleteUser)
			r.Get(commentsPath, c.Comments)
			r.Post(commentsPath+"/{id}/delete", c.DeleteComment)

			r.Get(promotionsPath, c.Promotions)
			r.Get(vouchersPath, c.Vouchers)
			r.Post(vouchersPath, c.AddVoucher)
			r.Post(vouchersPath+"/{id}/delete", c.DeleteVoucher)
		})
	})
	return r
}

// RateLimited answers a throttled form post with a toast on the page the
// admin came from. Script clients get the JSON 429.
func (c *Console) RateLimited(w http.ResponseWriter, r *http.Request, retryAfter time.Duration) {
	secs := int(math.Ceil(retryAfter.Seconds()))
	if r.Header.Get("Accept") == "application/json" {
		writeJSON(w, http.StatusTooManyRequests, apiError{Code: "rate_limited", Message: "too many requests"})
		return
	}
	if s, ok := c.Sessions.Load(r); ok {
		msg := fmt.Sprintf("Thao tác quá nhanh, vui lòng thử lại sau %d giây.", secs)
		if err := c.Toasts.Show(r.Context(), s.ID, toast.Error, msg); err != nil {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
	}
	back := c.Settings.HomePath
	if ref, err := url.Parse(r.Header.Get("Referer")); err == nil && ref.Path != "" {
		back = localPath(ref.RequestURI(), back)
	}
	if r.URL.Path == c.Settings.LoginPath {
		back = c.Settings.LoginPath
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"storefront/internal/apiclient"
	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/dashboard"
	"storefront/internal/guard"
	"storefront/internal/handlers"
	"storefront/internal/layout"
	"storefront/internal/session"
	"storefront/internal/toast"
	"storefront/internal/views"
)

type harness struct {
	t        *testing.T
	mr       *miniredis.Miniredis
	sessions *session.Manager
	toasts   *toast.Store
	console  *handlers.Console
	handler  http.Handler
	backend  *http.ServeMux
	calls    atomic.Int64
	cookie   *http.Cookie
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, mr: miniredis.RunT(t), backend: http.NewServeMux()}
	rdb := redis.NewClient(&redis.Options{Addr: h.mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := cache.NewRedisCache(rdb)
	h.sessions = session.NewManager(store, session.Options{})
	h.toasts = toast.NewStore(store, toast.DefaultTTL, nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.calls.Add(1)
		h.backend.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	client, err := apiclient.New(apiclient.Config{BaseURL: srv.URL, Tokens: h.sessions.TokenSource()})
	require.NoError(t, err)

	renderer, err := views.New()
	require.NoError(t, err)

	settings := config.DefaultConfig().Console
	h.console = handlers.NewConsole(handlers.Console{
		Backend:    client,
		Sessions:   h.sessions,
		Toasts:     h.toasts,
		Dashboards: dashboard.NewRegistry(16, 0),
		Views:      renderer,
		Decoder:    auth.NewDecoder(nil),
		Settings:   settings,
	})
	h.handler = handlers.NewRouter(h.console, handlers.RouterOptions{})
	return h
}

func (h *harness) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	h.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.DefaultCookieName {
			h.cookie = c
		}
	}
	return rec
}

func (h *harness) session() session.Session {
	h.t.Helper()
	require.NotNil(h.t, h.cookie, "no session cookie yet")
	return session.Session{ID: h.cookie.Value}
}

func adminToken(t *testing.T, name, role string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{RoleName: role, FullName: name}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return tok
}

// signIn starts a session and stores a token in it, as a completed login would.
func (h *harness) signIn(name string) string {
	h.t.Helper()
	h.do(http.MethodGet, "/admin/login", nil)
	tok := adminToken(h.t, name, "admin")
	require.NoError(h.t, h.sessions.SetToken(context.Background(), h.session(), tok))
	return tok
}

func (h *harness) toast() (toast.Toast, bool) {
	return h.toasts.Current(context.Background(), h.session().ID)
}

func writeBackendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGuard_NoTokenNeverReachesBackend(t *testing.T) {
	h := newHarness(t)
	h.backend.HandleFunc("GET /api/orders/order", func(w http.ResponseWriter, r *http.Request) {
		writeBackendJSON(w, http.StatusOK, []apiclient.Order{})
	})

	rec := h.do(http.MethodGet, "/admin/orders", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/login", rec.Header().Get("Location"))
	require.Zero(t, h.calls.Load())

	// No token is not an error worth a toast.
	_, ok := h.toast()
	require.False(t, ok)
}

func TestGuard_InvalidTokenIsClearedWithToast(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodGet, "/admin/login", nil)
	require.NoError(t, h.sessions.SetToken(context.Background(), h.session(), "not-a-jwt"))

	rec := h.do(http.MethodGet, "/admin/products", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/login", rec.Header().Get("Location"))

	tok, err := h.sessions.Token(context.Background(), h.session())
	require.NoError(t, err)
	require.Empty(t, tok)
	got, ok := h.toast()
	require.True(t, ok)
	require.Equal(t, guard.MsgInvalidToken, got.Message)
	require.Zero(t, h.calls.Load())
}

func TestShell_GreetsAdminWithFullMenu(t *testing.T) {
	h := newHarness(t)
	h.backend.HandleFunc("GET /api/categories", func(w http.ResponseWriter, r *http.Request) {
		writeBackendJSON(w, http.StatusOK, []map[string]any{{"CategoryID": 1, "CategoryName": "Nước chấm"}})
	})
	h.signIn("Minh")

	rec := h.do(http.MethodGet, "/admin/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Xin chào, Minh")
	require.Contains(t, body, "Nước chấm")
	for _, item := range layout.Menu() {
		require.Contains(t, body, `href="`+item.Path+`"`, item.Label)
	}
	require.Contains(t, body, `href="/admin/categories" class="active"`)
}

func TestLoginPage_AuthenticatedGoesHome(t *testing.T) {
	h := newHarness(t)
	h.signIn("Minh")

	rec := h.do(http.MethodGet, "/admin/login", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
}

func TestLogin_ValidatesBeforeCallingBackend(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodGet, "/admin/login", nil)

	rec := h.do(http.MethodPost, "/admin/login", url.Values{"email": {""}, "password": {"x"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/login", rec.Header().Get("Location"))
	require.Zero(t, h.calls.Load())

	page := h.do(http.MethodGet, "/admin/login", nil)
	require.Equal(t, http.StatusOK, page.Code)
	require.Contains(t, page.Body.String(), auth.ErrEmailRequired.Error())
}

func TestLogin_RotatesSessionAndStoresToken(t *testing.T) {
	h := newHarness(t)
	tok := adminToken(t, "Minh", "admin")
	var got apiclient.Credentials
	h.backend.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeBackendJSON(w, http.StatusOK, map[string]any{"token": tok, "message": "ok"})
	})
	h.do(http.MethodGet, "/admin/login", nil)
	before := h.session().ID

	rec := h.do(http.MethodPost, "/admin/login", url.Values{"email": {"minh@example.vn"}, "password": {"secret"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
	require.Equal(t, apiclient.Credentials{Email: "minh@example.vn", Password: "secret"}, got)

	after := h.session()
	require.NotEqual(t, before, after.ID)
	stored, err := h.sessions.Token(context.Background(), after)
	require.NoError(t, err)
	require.Equal(t, tok, stored)
	old, err := h.sessions.Token(context.Background(), session.Session{ID: before})
	require.NoError(t, err)
	require.Empty(t, old)
}

func TestLogin_BackendRejection(t *testing.T) {
	h := newHarness(t)
	h.backend.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeBackendJSON(w, http.StatusUnauthorized, map[string]string{"message": "Sai email hoặc mật khẩu"})
	})
	h.do(http.MethodGet, "/admin/login", nil)

	rec := h.do(http.MethodPost, "/admin/login", url.Values{"email": {"minh@example.vn"}, "password": {"bad"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/login?email=minh%40example.vn", rec.Header().Get("Location"))
	got, ok := h.toast()
	require.True(t, ok)
	require.Equal(t, toast.Error, got.Kind)
	require.Equal(t, "Sai email hoặc mật khẩu", got.Message)
}

func TestLogout_ResetsSessionAndConfirms(t *testing.T) {
	h := newHarness(t)
	h.signIn("Minh")
	before := h.session()

	rec := h.do(http.MethodPost, "/admin/logout", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/login", rec.Header().Get("Location"))

	after := h.session()
	require.NotEqual(t, before.ID, after.ID)
	tok, err := h.sessions.Token(context.Background(), before)
	require.NoError(t, err)
	require.Empty(t, tok)

	page := h.do(http.MethodGet, "/admin/login", nil)
	require.Equal(t, http.StatusOK, page.Code)
	body := page.Body.String()
	require.Contains(t, body, guard.MsgLoggedOut)
	require.Contains(t, body, "toast-info")
	require.NotContains(t, body, "Xin chào")
}

func statisticsHandler(w http.ResponseWriter, r *http.Request) {
	writeBackendJSON(w, http.StatusOK, map[string]any{
		"totalOrders":     5,
		"totalRevenueAll": "1000000",
		"totalUsers":      3,
		"totalProducts":   10,
		"products": []map[string]any{
			{"ProductName": "Tương ớt", "totalRevenue": 600000, "totalQuantity": 12},
			{"ProductName": "Nước mắm", "totalRevenue": "400000", "totalQuantity": 8},
		},
	})
}

func TestDashboard_FetchesOnMountAndRendersCards(t *testing.T) {
	h := newHarness(t)
	h.backend.HandleFunc("GET /api/statistics/static", statisticsHandler)
	h.signIn("Minh")

	rec := h.do(http.MethodGet, "/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, ">5</p>")
	require.Contains(t, body, "1.000.000₫")
	require.Contains(t, body, ">3</p>")
	require.Contains(t, body, ">10</p>")
	require.Contains(t, body, "Tương ớt")
	require.Contains(t, body, "Doanh thu: 600.000₫")
	require.EqualValues(t, 1, h.calls.Load())
}

func TestDashboard_RefreshFetchesOnce(t *testing.T) {
	h := newHarness(t)
	h.backend.HandleFunc("GET /api/statistics/static", statisticsHandler)
	h.signIn("Minh")

	rec := h.do(http.MethodPost, "/admin/dashboard/refresh", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
	require.EqualValues(t, 1, h.calls.Load())

	// The page load that follows the refresh reuses its result.
	page := h.do(http.MethodGet, "/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, page.Code)
	require.Contains(t, page.Body.String(), "1.000.000₫")
	require.EqualValues(t, 1, h.calls.Load())

	h.do(http.MethodGet, "/admin/dashboard", nil)
	require.EqualValues(t, 2, h.calls.Load())
}

func TestDashboard_FailureKeepsPageAndToasts(t *testing.T) {
	h := newHarness(t)
	h.backend.HandleFunc("GET /api/statistics/static", func(w http.ResponseWriter, r *http.Request) {
		writeBackendJSON(w, http.StatusInternalServerError, map[string]string{"message": "Lỗi máy chủ"})
	})
	h.signIn("Minh")

	rec := h.do(http.MethodGet, "/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Lỗi máy chủ")
	require.Contains(t, body, "0₫")
}

func TestDashboardStats_JSON(t *testing.T) {
	h := newHarness(t)
	h.backend.HandleFunc("GET /api/statistics/static", statisticsHandler)
	h.signIn("Minh")
	h.do(http.MethodGet, "/admin/dashboard", nil)
	calls := h.calls.Load()

	rec := h.do(http.MethodGet, "/admin/dashboard/stats.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, calls, h.calls.Load())
	var model struct {
		Summary dashboard.Summary `json:"summary"`
		Cards   []dashboard.Card  `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &model))
	require.Len(t, model.Cards, 4)
	require.Equal(t, "1.000.000₫", model.Cards[1].Value)
	require.InDelta(t, 5, model.Summary.TotalOrders, 0)
}

func TestDashboardStats_UnauthenticatedIsJSON401(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/admin/dashboard/stats.json", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestMutation_SuccessAndFailureToasts(t *testing.T) {
	h := newHarness(t)
	var status string
	h.backend.HandleFunc("PUT /api/orders/order-update/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body apiclient.OrderUpdate
		_ = json.NewDecoder(r.Body).Decode(&body)
		status = body.Status
		writeBackendJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	h.backend.HandleFunc("DELETE /api/products/product-del/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeBackendJSON(w, http.StatusConflict, map[string]string{"message": "Sản phẩm đang có trong đơn hàng"})
	})
	h.signIn("Minh")

	rec := h.do(http.MethodPost, "/admin/orders/42/status", url.Values{"status": {"Đã giao"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/orders", rec.Header().Get("Location"))
	require.Equal(t, "Đã giao", status)
	got, ok := h.toast()
	require.True(t, ok)
	require.Equal(t, toast.Success, got.Kind)

	rec = h.do(http.MethodPost, "/admin/products/7/delete", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/products", rec.Header().Get("Location"))
	got, ok = h.toast()
	require.True(t, ok)
	require.Equal(t, toast.Error, got.Kind)
	require.Equal(t, "Sản phẩm đang có trong đơn hàng", got.Message)
}

func TestToast_DismissClosesEarly(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodGet, "/admin/login", nil)
	ctx := context.Background()
	require.NoError(t, h.toasts.Show(ctx, h.session().ID, toast.Error, "Đăng nhập thất bại."))

	page := h.do(http.MethodGet, "/admin/login", nil)
	require.Equal(t, http.StatusOK, page.Code)
	require.Contains(t, page.Body.String(), `action="/admin/toast/dismiss"`)

	rec := h.do(http.MethodPost, "/admin/toast/dismiss", url.Values{"return": {"/admin/login"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/login", rec.Header().Get("Location"))
	_, ok := h.toast()
	require.False(t, ok)

	rec = h.do(http.MethodPost, "/admin/toast/dismiss", url.Values{"return": {"//evil.example"}})
	require.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
}

func TestMutation_InvalidFormSkipsBackend(t *testing.T) {
	h := newHarness(t)
	h.signIn("Minh")

	rec := h.do(http.MethodPost, "/admin/quan-ly-voucher", url.Values{"code": {"TET"}, "discount": {"abc"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/quan-ly-voucher", rec.Header().Get("Location"))
	require.Zero(t, h.calls.Load())
	got, ok := h.toast()
	require.True(t, ok)
	require.Equal(t, "Giảm không hợp lệ.", got.Message)

	rec = h.do(http.MethodPost, "/admin/orders/abc/delete", nil)
	require.Equal(t, "/admin/orders", rec.Header().Get("Location"))
	require.Zero(t, h.calls.Load())
	got, ok = h.toast()
	require.True(t, ok)
	require.Equal(t, "Dữ liệu không hợp lệ.", got.Message)
}

func TestBackendUnauthorized_EndsLogin(t *testing.T) {
	h := newHarness(t)
	h.backend.HandleFunc("GET /api/users/user-all", func(w http.ResponseWriter, r *http.Request) {
		writeBackendJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token hết hạn"})
	})
	h.signIn("Minh")

	rec := h.do(http.MethodGet, "/admin/users", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/login", rec.Header().Get("Location"))
	tok, err := h.sessions.Token(context.Background(), h.session())
	require.NoError(t, err)
	require.Empty(t, tok)
}

func TestBackendCalls_CarrySessionToken(t *testing.T) {
	h := newHarness(t)
	var header string
	h.backend.HandleFunc("GET /api/vouchers", func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		writeBackendJSON(w, http.StatusOK, []map[string]any{{"VoucherID": 1, "Code": "TET2025", "DiscountAmount": 50000}})
	})
	tok := h.signIn("Minh")

	rec := h.do(http.MethodGet, "/admin/khuyen-mai", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Bearer "+tok, header)
	require.Contains(t, rec.Body.String(), "TET2025")
	require.Contains(t, rec.Body.String(), "50.000₫")
}

func TestSidebar_ToggleAndCloseOnArrival(t *testing.T) {
	h := newHarness(t)
	h.backend.HandleFunc("GET /api/categories", func(w http.ResponseWriter, r *http.Request) {
		writeBackendJSON(w, http.StatusOK, []any{})
	})
	h.signIn("Minh")
	ctx := context.Background()

	rec := h.do(http.MethodPost, "/admin/sidebar/toggle", url.Values{"return": {"/admin/categories"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/categories", rec.Header().Get("Location"))
	require.True(t, h.sessions.SidebarOpen(ctx, h.session()))

	rec = h.do(http.MethodGet, "/admin/categories?sidebar=close", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, h.sessions.SidebarOpen(ctx, h.session()))

	rec = h.do(http.MethodPost, "/admin/sidebar/toggle", url.Values{"return": {"//evil.example/admin"}, "open": {"true"}})
	require.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
	require.True(t, h.sessions.SidebarOpen(ctx, h.session()))
}

func TestLoyalty_LookupByUser(t *testing.T) {
	h := newHarness(t)
	var hit string
	h.backend.HandleFunc("GET /api/loyalty/point/{user}", func(w http.ResponseWriter, r *http.Request) {
		hit = r.PathValue("user")
		writeBackendJSON(w, http.StatusOK, []map[string]any{{"PointID": 9, "UserID": 12, "Points": 1500, "Description": "Đơn #3"}})
	})
	h.signIn("Minh")

	rec := h.do(http.MethodGet, "/admin/loyalty?user=12", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "12", hit)
	body := rec.Body.String()
	require.Contains(t, body, "1.500")
	require.Contains(t, body, `action="/admin/loyalty/9"`)
}

package views_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/dashboard"
	"storefront/internal/guard"
	"storefront/internal/layout"
	"storefront/internal/toast"
	"storefront/internal/views"

	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Action string
	Email  string
}

func newRenderer(t *testing.T) *views.Renderer {
	t.Helper()
	r, err := views.New()
	require.NoError(t, err)
	return r
}

func TestRender_NothingWritesNothing(t *testing.T) {
	rec := httptest.NewRecorder()
	err := newRenderer(t).Render(rec, http.StatusOK, "dashboard", views.Page{Render: guard.RenderNothing})
	require.NoError(t, err)
	require.Zero(t, rec.Body.Len())
	require.Empty(t, rec.Header().Get("Content-Type"))
}

func TestRender_LoginIsOutletOnly(t *testing.T) {
	rec := httptest.NewRecorder()
	now := time.Now()
	err := newRenderer(t).Render(rec, http.StatusOK, "login", views.Page{
		Title:   "Đăng nhập",
		Path:    "/admin/login",
		Render:  guard.RenderOutletOnly,
		Toast:   &toast.Toast{Kind: toast.Error, Message: "Token không hợp lệ.", ShownAt: now, TTLMS: 3000},
		Now:     now,
		Content: loginForm{Action: "/admin/login", Email: "a@b.vn"},
	})
	require.NoError(t, err)
	body := rec.Body.String()
	require.Contains(t, body, `action="/admin/login"`)
	require.Contains(t, body, `value="a@b.vn"`)
	require.Contains(t, body, "Token không hợp lệ.")
	require.Contains(t, body, `data-ttl="3000"`)
	require.NotContains(t, body, `class="sidebar`)
	require.NotContains(t, body, "Xin chào")
}

func TestRender_DashboardShell(t *testing.T) {
	snap := dashboard.Snapshot{
		Summary:  dashboard.Summary{TotalOrders: 5, TotalRevenue: 1000000, TotalUsers: 3, TotalProducts: 10},
		Products: []dashboard.ProductPoint{{ProductName: "A", TotalRevenue: 1000000, TotalQuantity: 3}},
	}
	rec := httptest.NewRecorder()
	err := newRenderer(t).Render(rec, http.StatusOK, "dashboard", views.Page{
		Title:   "Tổng Quan",
		Path:    "/admin/dashboard",
		Render:  guard.RenderShell,
		Shell:   layout.Build("", "Minh", "/admin/dashboard", layout.Viewport{}, false),
		Content: dashboard.NewModel(snap),
	})
	require.NoError(t, err)
	body := rec.Body.String()

	require.Contains(t, body, "Xin chào, Minh")
	require.Contains(t, body, "Cholimex Admin")
	require.Contains(t, body, "1.000.000₫")
	require.Contains(t, body, "Làm mới dữ liệu")
	require.Contains(t, body, "Doanh thu (VND)")
	require.Contains(t, body, "Số lượng")
	require.Contains(t, body, `fill="#ef4444"`)
	require.Contains(t, body, `fill="#3b82f6"`)
	require.Contains(t, body, `class="active"`)

	// Menu entries appear in order.
	last := -1
	for _, item := range layout.Menu() {
		i := strings.Index(body, `href="`+item.Path+`"`)
		require.Greater(t, i, last, item.Label)
		last = i
	}
}

func TestRender_LoadingDisablesRefresh(t *testing.T) {
	rec := httptest.NewRecorder()
	err := newRenderer(t).Render(rec, http.StatusOK, "dashboard", views.Page{
		Render:  guard.RenderShell,
		Shell:   layout.Build("", "Admin", "/admin/dashboard", layout.Viewport{}, false),
		Content: dashboard.NewModel(dashboard.Snapshot{Loading: true}),
	})
	require.NoError(t, err)
	require.Contains(t, rec.Body.String(), "Đang tải...")
	require.Contains(t, rec.Body.String(), " disabled>")
}

func TestRender_Table(t *testing.T) {
	rec := httptest.NewRecorder()
	err := newRenderer(t).Render(rec, http.StatusOK, "table", views.Page{
		Render: guard.RenderShell,
		Shell:  layout.Build("", "Admin", "/admin/users", layout.Viewport{Width: 375, Known: true}, false),
		Content: views.Table{
			Heading: "Người Dùng",
			Columns: []string{"ID", "Họ tên"},
			Rows: []views.Row{{
				Cells:   []string{"7", "<b>Lan</b>"},
				Actions: []views.Action{{Label: "Xóa", Path: "/admin/users/7/delete", Danger: true, Confirm: "Xóa?"}},
			}},
		},
	})
	require.NoError(t, err)
	body := rec.Body.String()
	require.Contains(t, body, "&lt;b&gt;Lan&lt;/b&gt;")
	require.Contains(t, body, `action="/admin/users/7/delete"`)
	// Closed sidebar on mobile is not rendered.
	require.NotContains(t, body, `<aside`)
}

func TestRender_UnknownPage(t *testing.T) {
	err := newRenderer(t).Render(httptest.NewRecorder(), http.StatusOK, "nope", views.Page{Render: guard.RenderShell})
	require.Error(t, err)
}

package layout_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/layout"
)

func TestMenu_OrderAndPaths(t *testing.T) {
	want := []string{
		"Tổng Quan /admin/dashboard",
		"Sản Phẩm /admin/products",
		"Danh Mục /admin/categories",
		"Đơn Hàng /admin/orders",
		"Tích Lũy /admin/loyalty",
		"Người Dùng /admin/users",
		"Comment /admin/quan-ly-binh-luan",
		"Khuyến Mãi /admin/khuyen-mai",
		"Voucher /admin/quan-ly-voucher",
	}
	got := layout.Menu()
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i, item := range got {
		if item.Label+" "+item.Path != want[i] {
			t.Fatalf("entry %d: got %q want %q", i, item.Label+" "+item.Path, want[i])
		}
	}

	got[0].Label = "mutated"
	if layout.Menu()[0].Label != "Tổng Quan" {
		t.Fatalf("Menu must return a copy")
	}
}

func TestBuild_DesktopGreetingAndActive(t *testing.T) {
	shell := layout.Build("", "Minh", "/admin/orders/42", layout.Viewport{Width: 1280, Known: true}, false)

	if shell.Greeting != "Xin chào, Minh" || shell.Brand != "Cholimex Admin" {
		t.Fatalf("unexpected header: %+v", shell)
	}
	if !shell.ShowSidebar || shell.ShowOverlay || shell.Mobile {
		t.Fatalf("desktop always shows the sidebar without overlay: %+v", shell)
	}
	var active []string
	for _, e := range shell.Nav {
		if e.Active {
			active = append(active, e.Path)
		}
		if strings.Contains(e.Href, "?") {
			t.Fatalf("desktop links carry no query: %s", e.Href)
		}
	}
	if len(active) != 1 || active[0] != "/admin/orders" {
		t.Fatalf("unexpected active entries %v", active)
	}
}

func TestBuild_Mobile(t *testing.T) {
	closed := layout.Build("", "Minh", "/admin/dashboard", layout.Viewport{Width: 375, Known: true}, false)
	if closed.ShowSidebar || closed.ShowOverlay {
		t.Fatalf("closed mobile sidebar must not render: %+v", closed)
	}
	if closed.Nav[0].Href != "/admin/dashboard?sidebar=close" {
		t.Fatalf("mobile links close the sidebar: %s", closed.Nav[0].Href)
	}

	open := layout.Build("", "Minh", "/admin/dashboard", layout.Viewport{Width: 767, Known: true}, true)
	if !open.ShowSidebar || !open.ShowOverlay {
		t.Fatalf("open mobile sidebar renders with overlay: %+v", open)
	}

	edge := layout.Build("", "Minh", "/admin/dashboard", layout.Viewport{Width: 768, Known: true}, false)
	if edge.Mobile {
		t.Fatalf("768 is desktop")
	}
}

func TestViewportFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		hint   string
		cookie string
		want   layout.Viewport
	}{
		{"none", "", "", layout.Viewport{}},
		{"hint", "390", "", layout.Viewport{Width: 390, Known: true}},
		{"cookie", "", "1024", layout.Viewport{Width: 1024, Known: true}},
		{"hint wins", "500", "1024", layout.Viewport{Width: 500, Known: true}},
		{"garbage", "wide", "-3", layout.Viewport{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
			if tt.hint != "" {
				r.Header.Set(layout.ViewportHint, tt.hint)
			}
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: layout.ViewportCookie, Value: tt.cookie})
			}
			if got := layout.ViewportFromRequest(r); got != tt.want {
				t.Fatalf("got %+v want %+v", got, tt.want)
			}
		})
	}
}

func TestWantsSidebarClosed(t *testing.T) {
	if !layout.WantsSidebarClosed(httptest.NewRequest(http.MethodGet, "/admin/users?sidebar=close", nil)) {
		t.Fatalf("expected close request")
	}
	if layout.WantsSidebarClosed(httptest.NewRequest(http.MethodGet, "/admin/users", nil)) {
		t.Fatalf("unexpected close request")
	}
}

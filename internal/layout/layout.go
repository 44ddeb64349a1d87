// Package layout builds the admin shell: brand, greeting and the navigation sidebar.
package layout

import (
	"net/http"
	"strconv"
	"strings"
)

// MobileBreakpoint is the viewport width below which the sidebar collapses.
const MobileBreakpoint = 768

const (
	DefaultBrand = "Cholimex Admin"
	Title        = "Admin Panel"

	// ViewportCookie is kept current by the page's resize listener.
	ViewportCookie = "viewport_width"
	// ViewportHint is the client hint browsers send once asked to.
	ViewportHint = "Sec-CH-Viewport-Width"
	// CloseSidebarParam closes the sidebar on arrival.
	CloseSidebarParam = "sidebar"
)

type MenuItem struct {
	Label string
	Path  string
	Icon  string
}

var menu = []MenuItem{
	{Label: "Tổng Quan", Path: "/admin/dashboard", Icon: "home"},
	{Label: "Sản Phẩm", Path: "/admin/products", Icon: "cube"},
	{Label: "Danh Mục", Path: "/admin/categories", Icon: "tag"},
	{Label: "Đơn Hàng", Path: "/admin/orders", Icon: "cart"},
	{Label: "Tích Lũy", Path: "/admin/loyalty", Icon: "star"},
	{Label: "Người Dùng", Path: "/admin/users", Icon: "users"},
	{Label: "Comment", Path: "/admin/quan-ly-binh-luan", Icon: "users"},
	{Label: "Khuyến Mãi", Path: "/admin/khuyen-mai", Icon: "users"},
	{Label: "Voucher", Path: "/admin/quan-ly-voucher", Icon: "users"},
}

// Menu returns the navigation entries in display order.
func Menu() []MenuItem {
	out := make([]MenuItem, len(menu))
	copy(out, menu)
	return out
}

// Active reports whether path is item's page or below it.
func (m MenuItem) Active(path string) bool {
	return path == m.Path || strings.HasPrefix(path, m.Path+"/")
}

type Viewport struct {
	Width int
	Known bool
}

// Mobile is false for an unknown width: the desktop layout degrades
// gracefully through CSS breakpoints.
func (v Viewport) Mobile() bool {
	return v.Known && v.Width < MobileBreakpoint
}

// ViewportFromRequest prefers the client hint over the cookie.
func ViewportFromRequest(r *http.Request) Viewport {
	if w, ok := parseWidth(r.Header.Get(ViewportHint)); ok {
		return Viewport{Width: w, Known: true}
	}
	if c, err := r.Cookie(ViewportCookie); err == nil {
		if w, ok := parseWidth(c.Value); ok {
			return Viewport{Width: w, Known: true}
		}
	}
	return Viewport{}
}

func parseWidth(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 || f > 100000 {
		return 0, false
	}
	return int(f), true
}

// WantsSidebarClosed reports a navigation that asked to close the sidebar.
func WantsSidebarClosed(r *http.Request) bool {
	return r.URL.Query().Get(CloseSidebarParam) == "close"
}

type NavEntry struct {
	MenuItem
	Href   string
	Active bool
}

// Shell is everything the layout template needs around the page content.
type Shell struct {
	Brand       string
	Title       string
	Greeting    string
	DisplayName string
	Nav         []NavEntry
	Mobile      bool
	SidebarOpen bool
	// ShowSidebar is false only on mobile with the sidebar closed.
	ShowSidebar bool
	// ShowOverlay dims the page behind an open mobile sidebar.
	ShowOverlay bool
}

func Build(brand, displayName, path string, vp Viewport, sidebarOpen bool) Shell {
	if strings.TrimSpace(brand) == "" {
		brand = DefaultBrand
	}
	mobile := vp.Mobile()
	nav := make([]NavEntry, 0, len(menu))
	for _, item := range menu {
		href := item.Path
		if mobile {
			href += "?" + CloseSidebarParam + "=close"
		}
		nav = append(nav, NavEntry{MenuItem: item, Href: href, Active: item.Active(path)})
	}
	return Shell{
		Brand:       brand,
		Title:       Title,
		Greeting:    "Xin chào, " + displayName,
		DisplayName: displayName,
		Nav:         nav,
		Mobile:      mobile,
		SidebarOpen: sidebarOpen,
		ShowSidebar: !mobile || sidebarOpen,
		ShowOverlay: mobile && sidebarOpen,
	}
}

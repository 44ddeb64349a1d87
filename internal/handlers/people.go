package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/views"
)

const (
	usersPath    = "/admin/users"
	commentsPath = "/admin/quan-ly-binh-luan"
)

func (c *Console) Users(w http.ResponseWriter, r *http.Request) {
	table := views.Table{
		Heading: "Quản lý người dùng",
		Columns: []string{"ID", "Họ tên", "Email", "Điện thoại", "Địa chỉ", "Vai trò"},
		Empty:   "Chưa có người dùng nào.",
	}
	users, err := c.Backend.ListUsers(r.Context())
	if err != nil && c.backendFailed(w, r, "users.list", err) {
		return
	}
	for _, u := range users {
		id := idString(u.UserID)
		row := views.Row{Cells: []string{id, u.FullName, u.Email, u.Phone, u.Address, u.RoleName}}
		// Admin accounts are managed in the backend, not from this list.
		if !strings.EqualFold(u.RoleName, c.Settings.RequiredRole) {
			row.Actions = []views.Action{{
				Label:   "Xóa",
				Path:    usersPath + "/" + id + "/delete",
				Confirm: "Xóa người dùng " + u.Email + "?",
				Danger:  true,
			}}
		}
		table.Rows = append(table.Rows, row)
	}
	c.render(w, r, "table", "Người Dùng", table)
}

func (c *Console) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(r)
	if !ok {
		c.rejectForm(w, r, usersPath, errInvalidForm)
		return
	}
	c.mutate(w, r, "users.delete", usersPath, "Đã xóa người dùng.", func(ctx context.Context) error {
		return c.Backend.DeleteUser(ctx, id)
	})
}

func (c *Console) Comments(w http.ResponseWriter, r *http.Request) {
	table := views.Table{
		Heading: "Quản lý bình luận",
		Columns: []string{"ID", "Sản phẩm", "Người dùng", "Đánh giá", "Bình luận", "Ngày tạo"},
		Empty:   "Chưa có bình luận nào.",
	}
	reviews, err := c.Backend.ListReviews(r.Context())
	if err != nil && c.backendFailed(w, r, "reviews.list", err) {
		return
	}
	for _, rv := range reviews {
		id := idString(rv.ReviewID)
		product := rv.ProductName
		if product == "" {
			product = "#" + idString(rv.ProductID)
		}
		author := rv.FullName
		if author == "" {
			author = "#" + idString(rv.UserID)
		}
		table.Rows = append(table.Rows, views.Row{
			Cells: []string{id, product, author, stars(rv.Rating.Int()), rv.Comment, rv.CreatedAt},
			Actions: []views.Action{{
				Label:   "Xóa",
				Path:    commentsPath + "/" + id + "/delete",
				Confirm: "Xóa bình luận #" + id + "?",
				Danger:  true,
			}},
		})
	}
	c.render(w, r, "table", "Comment", table)
}

func (c *Console) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(r)
	if !ok {
		c.rejectForm(w, r, commentsPath, errInvalidForm)
		return
	}
	c.mutate(w, r, "reviews.delete", commentsPath, "Đã xóa bình luận.", func(ctx context.Context) error {
		return c.Backend.DeleteReview(ctx, id)
	})
}

func stars(n int64) string {
	if n < 0 || n > 5 {
		return strconv.FormatInt(n, 10)
	}
	return strings.Repeat("★", int(n)) + strings.Repeat("☆", int(5-n))
}

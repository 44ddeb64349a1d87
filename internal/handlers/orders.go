package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/apiclient"
	"storefront/internal/dashboard"
	"storefront/internal/views"
)

const (
	ordersPath  = "/admin/orders"
	loyaltyPath = "/admin/loyalty"
)

// orderStatuses are offered in the status picker. The backend stores the
// status as free text, so an unknown current status is kept as an option.
var orderStatuses = []string{"Chờ xác nhận", "Đang xử lý", "Đang giao", "Đã giao", "Đã hủy"}

func statusOptions(current string) []views.Option {
	opts := make([]views.Option, 0, len(orderStatuses)+1)
	found := false
	for _, s := range orderStatuses {
		opts = append(opts, views.Option{Value: s, Label: s, Selected: s == current})
		found = found || s == current
	}
	if !found && current != "" {
		opts = append([]views.Option{{Value: current, Label: current, Selected: true}}, opts...)
	}
	return opts
}

func (c *Console) Orders(w http.ResponseWriter, r *http.Request) {
	table := views.Table{
		Heading: "Quản lý đơn hàng",
		Columns: []string{"Mã đơn", "Khách hàng", "Tổng tiền", "Thanh toán", "Địa chỉ", "Ngày tạo", "Trạng thái"},
		Empty:   "Chưa có đơn hàng nào.",
	}
	orders, err := c.Backend.ListOrders(r.Context())
	if err != nil && c.backendFailed(w, r, "orders.list", err) {
		return
	}
	for _, o := range orders {
		id := idString(o.OrderID)
		customer := o.FullName
		if customer == "" {
			customer = "#" + idString(o.UserID)
		}
		table.Rows = append(table.Rows, views.Row{
			Cells: []string{id, customer, dashboard.FormatVND(o.TotalAmount.Float()), o.PaymentMethod, o.Address, o.CreatedAt, o.Status},
			Actions: []views.Action{
				{
					Label:  "Cập nhật",
					Path:   ordersPath + "/" + id + "/status",
					Fields: []views.Field{{Name: "status", Type: "select", Options: statusOptions(o.Status), Required: true}},
				},
				{
					Label:   "Xóa",
					Path:    ordersPath + "/" + id + "/delete",
					Confirm: "Xóa đơn hàng #" + id + "?",
					Danger:  true,
				},
			},
		})
	}
	c.render(w, r, "table", "Đơn Hàng", table)
}

func (c *Console) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(r)
	if !ok {
		c.rejectForm(w, r, ordersPath, errInvalidForm)
		return
	}
	if err := parseForm(w, r); err != nil {
		c.rejectForm(w, r, ordersPath, err)
		return
	}
	status := formString(r, "status")
	if status == "" {
		c.rejectForm(w, r, ordersPath, &fieldError{Label: "Trạng thái"})
		return
	}
	c.mutate(w, r, "orders.update", ordersPath, "Đã cập nhật đơn hàng #"+id+".", func(ctx context.Context) error {
		_, err := c.Backend.UpdateOrder(ctx, id, apiclient.OrderUpdate{Status: status})
		return err
	})
}

func (c *Console) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(r)
	if !ok {
		c.rejectForm(w, r, ordersPath, errInvalidForm)
		return
	}
	c.mutate(w, r, "orders.delete", ordersPath, "Đã xóa đơn hàng #"+id+".", func(ctx context.Context) error {
		return c.Backend.DeleteOrder(ctx, id)
	})
}

// Loyalty lists every point entry, or one customer's when ?user= is set.
func (c *Console) Loyalty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.URL.Query().Get("user")
	if n, err := strconv.ParseInt(userID, 10, 64); err != nil || n <= 0 {
		userID = ""
	}
	table := views.Table{
		Heading: "Điểm tích lũy",
		Columns: []string{"ID", "Người dùng", "Điểm", "Mô tả", "Ngày tạo"},
		Empty:   "Chưa có điểm tích lũy.",
		Forms: []views.Form{{
			Path:   loyaltyPath,
			Method: "get",
			Submit: "Tra cứu",
			Fields: []views.Field{{Name: "user", Label: "Mã người dùng", Type: "number", Value: userID}},
		}},
	}

	var (
		points []apiclient.LoyaltyPoint
		err    error
	)
	if userID != "" {
		table.Heading = "Điểm tích lũy của người dùng #" + userID
		points, err = c.Backend.UserPoints(ctx, userID)
	} else {
		points, err = c.Backend.LoyaltyPoints(ctx)
	}
	if err != nil && c.backendFailed(w, r, "loyalty.list", err) {
		return
	}

	back := loyaltyPath
	if userID != "" {
		back += "?user=" + url.QueryEscape(userID)
	}
	for _, p := range points {
		id := idString(p.PointID)
		table.Rows = append(table.Rows, views.Row{
			Cells: []string{id, "#" + idString(p.UserID), dashboard.FormatNumberVI(p.Points.Float()), p.Description, p.CreatedAt},
			Actions: []views.Action{
				{
					Label: "Lưu",
					Path:  loyaltyPath + "/" + id,
					Fields: []views.Field{
						{Name: "points", Type: "number", Value: strconv.FormatInt(p.Points.Int(), 10), Required: true},
						{Name: "description", Type: "text", Value: p.Description},
						{Name: "return", Type: "hidden", Value: back},
					},
				},
				{
					Label:   "Xóa",
					Path:    loyaltyPath + "/" + id + "/delete",
					Confirm: "Xóa mục điểm #" + id + "?",
					Danger:  true,
					Fields:  []views.Field{{Name: "return", Type: "hidden", Value: back}},
				},
			},
		})
	}
	c.render(w, r, "table", "Tích Lũy", table)
}

func (c *Console) UpdateLoyaltyPoint(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(r)
	if !ok {
		c.rejectForm(w, r, loyaltyPath, errInvalidForm)
		return
	}
	if err := parseForm(w, r); err != nil {
		c.rejectForm(w, r, loyaltyPath, err)
		return
	}
	back := localPath(formString(r, "return"), loyaltyPath)
	points, err := formInt(r, "points", "Điểm")
	if err != nil {
		c.rejectForm(w, r, back, err)
		return
	}
	update := apiclient.LoyaltyPointUpdate{Points: points, Description: formString(r, "description")}
	c.mutate(w, r, "loyalty.update", back, "Đã cập nhật điểm.", func(ctx context.Context) error {
		_, err := c.Backend.UpdateLoyaltyPoint(ctx, id, update)
		return err
	})
}

func (c *Console) DeleteLoyaltyPoint(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(r)
	if !ok {
		c.rejectForm(w, r, loyaltyPath, errInvalidForm)
		return
	}
	_ = parseForm(w, r)
	back := localPath(formString(r, "return"), loyaltyPath)
	c.mutate(w, r, "loyalty.delete", back, "Đã xóa mục điểm.", func(ctx context.Context) error {
		return c.Backend.DeleteLoyaltyPoint(ctx, id)
	})
}

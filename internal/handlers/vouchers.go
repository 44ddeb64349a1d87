package handlers

import (
	"context"
	"net/http"

	"storefront/internal/apiclient"
	"storefront/internal/dashboard"
	"storefront/internal/views"
)

const (
	promotionsPath = "/admin/khuyen-mai"
	vouchersPath   = "/admin/quan-ly-voucher"
)

var voucherColumns = []string{"ID", "Mã", "Mô tả", "Giảm", "Điểm cần", "Số lượng", "Hết hạn"}

func voucherCells(v apiclient.Voucher) []string {
	return []string{
		idString(v.VoucherID),
		v.Code,
		v.Description,
		dashboard.FormatVND(v.DiscountAmount.Float()),
		dashboard.FormatCount(v.PointsRequired.Float()),
		dashboard.FormatCount(v.Quantity.Float()),
		v.ExpiryDate,
	}
}

// Promotions shows the vouchers customers can currently redeem.
func (c *Console) Promotions(w http.ResponseWriter, r *http.Request) {
	table := views.Table{
		Heading: "Khuyến mãi đang áp dụng",
		Columns: voucherColumns,
		Empty:   "Hiện không có khuyến mãi nào.",
	}
	vouchers, err := c.Backend.AvailableVouchers(r.Context())
	if err != nil && c.backendFailed(w, r, "promotions.list", err) {
		return
	}
	for _, v := range vouchers {
		table.Rows = append(table.Rows, views.Row{Cells: voucherCells(v)})
	}
	c.render(w, r, "table", "Khuyến Mãi", table)
}

func (c *Console) Vouchers(w http.ResponseWriter, r *http.Request) {
	table := views.Table{
		Heading: "Quản lý voucher",
		Columns: voucherColumns,
		Empty:   "Chưa có voucher nào.",
		Forms: []views.Form{{
			Heading: "Thêm voucher",
			Path:    vouchersPath,
			Submit:  "Thêm",
			Fields: []views.Field{
				{Name: "code", Label: "Mã", Required: true},
				{Name: "description", Label: "Mô tả"},
				{Name: "discount", Label: "Giảm (₫)", Type: "number", Required: true},
				{Name: "points", Label: "Điểm cần", Type: "number", Required: true},
				{Name: "quantity", Label: "Số lượng", Type: "number", Required: true},
				{Name: "expiry", Label: "Hết hạn", Type: "date"},
			},
		}},
	}
	vouchers, err := c.Backend.ListVouchers(r.Context())
	if err != nil && c.backendFailed(w, r, "vouchers.list", err) {
		return
	}
	for _, v := range vouchers {
		id := idString(v.VoucherID)
		table.Rows = append(table.Rows, views.Row{
			Cells: voucherCells(v),
			Actions: []views.Action{{
				Label:   "Xóa",
				Path:    vouchersPath + "/" + id + "/delete",
				Confirm: "Xóa voucher " + v.Code + "?",
				Danger:  true,
			}},
		})
	}
	c.render(w, r, "table", "Voucher", table)
}

func voucherInput(r *http.Request) (apiclient.VoucherInput, error) {
	in := apiclient.VoucherInput{
		Code:        formString(r, "code"),
		Description: formString(r, "description"),
		ExpiryDate:  formString(r, "expiry"),
	}
	if in.Code == "" {
		return in, &fieldError{Label: "Mã"}
	}
	var err error
	if in.DiscountAmount, err = formFloat(r, "discount", "Giảm"); err != nil {
		return in, err
	}
	if in.PointsRequired, err = formInt(r, "points", "Điểm cần"); err != nil || in.PointsRequired < 0 {
		return in, &fieldError{Label: "Điểm cần"}
	}
	if in.Quantity, err = formInt(r, "quantity", "Số lượng"); err != nil || in.Quantity < 0 {
		return in, &fieldError{Label: "Số lượng"}
	}
	return in, nil
}

func (c *Console) AddVoucher(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		c.rejectForm(w, r, vouchersPath, err)
		return
	}
	in, err := voucherInput(r)
	if err != nil {
		c.rejectForm(w, r, vouchersPath, err)
		return
	}
	c.mutate(w, r, "vouchers.add", vouchersPath, "Đã thêm voucher "+in.Code+".", func(ctx context.Context) error {
		_, err := c.Backend.AddVoucher(ctx, in)
		return err
	})
}

func (c *Console) DeleteVoucher(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(r)
	if !ok {
		c.rejectForm(w, r, vouchersPath, errInvalidForm)
		return
	}
	c.mutate(w, r, "vouchers.delete", vouchersPath, "Đã xóa voucher.", func(ctx context.Context) error {
		return c.Backend.DeleteVoucher(ctx, id)
	})
}

package dashboard

import (
	"storefront/internal/chart"
)

const (
	RevenueSeries  = "Doanh thu (VND)"
	QuantitySeries = "Số lượng"
	RevenueColor   = "#ef4444"
	QuantityColor  = "#3b82f6"
)

type Card struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// Cards maps the summary onto the four overview cards, in display order.
func Cards(s Summary) []Card {
	return []Card{
		{Label: "Tổng đơn hàng", Value: FormatCount(s.TotalOrders), Color: "red", Icon: "cart"},
		{Label: "Doanh thu", Value: FormatVND(s.TotalRevenue), Color: "green", Icon: "currency"},
		{Label: "Người dùng", Value: FormatCount(s.TotalUsers), Color: "blue", Icon: "users"},
		{Label: "Sản phẩm", Value: FormatCount(s.TotalProducts), Color: "yellow", Icon: "cube"},
	}
}

// Tooltip is the hover text of one product.
func Tooltip(p ProductPoint) []string {
	return []string{
		p.ProductName,
		"Doanh thu: " + FormatVND(p.TotalRevenue),
		"Số lượng: " + FormatCount(p.TotalQuantity),
	}
}

// Chart lays out revenue (left axis) and quantity (right axis) per product.
func Chart(products []ProductPoint) chart.Chart {
	names := make([]string, len(products))
	revenue := make([]float64, len(products))
	quantity := make([]float64, len(products))
	for i, p := range products {
		names[i] = p.ProductName
		revenue[i] = p.TotalRevenue
		quantity[i] = p.TotalQuantity
	}
	c, _ := chart.DualAxis(chart.DefaultConfig(), names,
		chart.Series{Name: RevenueSeries, Color: RevenueColor, Values: revenue, Format: RevenueTick},
		chart.Series{Name: QuantitySeries, Color: QuantityColor, Values: quantity, Format: FormatCount},
		func(i int) []string { return Tooltip(products[i]) },
	)
	return c
}

// Model is what the overview page and its JSON endpoint render.
type Model struct {
	Snapshot
	Cards []Card      `json:"cards"`
	Chart chart.Chart `json:"-"`
}

func NewModel(s Snapshot) Model {
	return Model{Snapshot: s, Cards: Cards(s.Summary), Chart: Chart(s.Products)}
}

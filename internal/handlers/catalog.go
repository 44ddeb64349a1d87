package handlers

import (
	"context"
	"net/http"

	"storefront/internal/apiclient"
	"storefront/internal/dashboard"
	"storefront/internal/views"
)

const (
	productsPath   = "/admin/products"
	categoriesPath = "/admin/categories"
)

func (c *Console) Products(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	table := views.Table{
		Heading: "Quản lý sản phẩm",
		Columns: []string{"ID", "Tên sản phẩm", "Giá", "Tồn kho", "Danh mục"},
		Empty:   "Chưa có sản phẩm nào.",
	}
	products, err := c.Backend.ListProducts(ctx)
	if err != nil {
		if c.backendFailed(w, r, "products.list", err) {
			return
		}
	}
	// Categories only label rows and fill the form; a failure leaves raw IDs.
	categories, _ := c.Backend.ListCategories(ctx)
	names := make(map[int64]string, len(categories))
	options := make([]views.Option, 0, len(categories))
	for _, cat := range categories {
		names[cat.CategoryID.Int()] = cat.CategoryName
		options = append(options, views.Option{Value: idString(cat.CategoryID), Label: cat.CategoryName})
	}

	for _, p := range products {
		category := names[p.CategoryID.Int()]
		if category == "" {
			category = idString(p.CategoryID)
		}
		id := idString(p.ProductID)
		table.Rows = append(table.Rows, views.Row{
			Cells: []string{id, p.ProductName, dashboard.FormatVND(p.Price.Float()), dashboard.FormatCount(p.Stock.Float()), category},
			Actions: []views.Action{{
				Label:   "Xóa",
				Path:    productsPath + "/" + id + "/delete",
				Confirm: "Xóa sản phẩm " + p.ProductName + "?",
				Danger:  true,
			}},
		})
	}

	categoryField := views.Field{Name: "category_id", Label: "Danh mục", Type: "number", Required: true}
	if len(options) > 0 {
		categoryField.Type = "select"
		categoryField.Options = options
	}
	table.Forms = []views.Form{{
		Heading: "Thêm sản phẩm",
		Path:    productsPath,
		Submit:  "Thêm",
		Fields: []views.Field{
			{Name: "name", Label: "Tên sản phẩm", Required: true},
			{Name: "description", Label: "Mô tả", Type: "textarea"},
			{Name: "price", Label: "Giá", Type: "number", Required: true},
			{Name: "stock", Label: "Tồn kho", Type: "number", Required: true},
			categoryField,
			{Name: "image_url", Label: "Ảnh (URL)", Type: "url"},
		},
	}}
	c.render(w, r, "table", "Sản Phẩm", table)
}

func productInput(r *http.Request) (apiclient.ProductInput, error) {
	in := apiclient.ProductInput{
		ProductName: formString(r, "name"),
		Description: formString(r, "description"),
		ImageURL:    formString(r, "image_url"),
	}
	if in.ProductName == "" {
		return in, &fieldError{Label: "Tên sản phẩm"}
	}
	var err error
	if in.Price, err = formFloat(r, "price", "Giá"); err != nil {
		return in, err
	}
	if in.Stock, err = formInt(r, "stock", "Tồn kho"); err != nil || in.Stock < 0 {
		return in, &fieldError{Label: "Tồn kho"}
	}
	if in.CategoryID, err = formInt(r, "category_id", "Danh mục"); err != nil {
		return in, err
	}
	return in, nil
}

func (c *Console) AddProduct(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		c.rejectForm(w, r, productsPath, err)
		return
	}
	in, err := productInput(r)
	if err != nil {
		c.rejectForm(w, r, productsPath, err)
		return
	}
	c.mutate(w, r, "products.add", productsPath, "Đã thêm sản phẩm.", func(ctx context.Context) error {
		_, err := c.Backend.AddProduct(ctx, in)
		return err
	})
}

func (c *Console) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(r)
	if !ok {
		c.rejectForm(w, r, productsPath, errInvalidForm)
		return
	}
	c.mutate(w, r, "products.delete", productsPath, "Đã xóa sản phẩm.", func(ctx context.Context) error {
		return c.Backend.DeleteProduct(ctx, id)
	})
}

func (c *Console) Categories(w http.ResponseWriter, r *http.Request) {
	table := views.Table{
		Heading: "Danh mục sản phẩm",
		Columns: []string{"ID", "Tên danh mục", "Mô tả"},
		Empty:   "Chưa có danh mục nào.",
	}
	categories, err := c.Backend.ListCategories(r.Context())
	if err != nil && c.backendFailed(w, r, "categories.list", err) {
		return
	}
	for _, cat := range categories {
		table.Rows = append(table.Rows, views.Row{
			Cells: []string{idString(cat.CategoryID), cat.CategoryName, cat.Description},
		})
	}
	c.render(w, r, "table", "Danh Mục", table)
}

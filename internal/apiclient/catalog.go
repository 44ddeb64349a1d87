package apiclient

import (
	"context"
	"log/slog"
)

// ListProducts returns the catalog or the backend's error.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	return getList[Product](ctx, c, "/products")
}

// AllProducts never fails: any error is logged and an empty catalog returned.
// Storefront pages use it where an empty grid beats an error page. Unlike
// ListProducts it only accepts a bare array; a wrapped body counts as empty.
func (c *Client) AllProducts(ctx context.Context) []Product {
	var products []Product
	if err := c.get(ctx, "/products", &products); err != nil {
		slog.WarnContext(ctx, "product listing failed; serving empty catalog", "error", err)
		return []Product{}
	}
	if products == nil {
		return []Product{}
	}
	return products
}

func (c *Client) GetProduct(ctx context.Context, id string) (Product, error) {
	var out Product
	err := c.get(ctx, "/products/product/"+seg(id), &out)
	return out, err
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	return getList[Category](ctx, c, "/categories")
}

func (c *Client) ProductsByCategory(ctx context.Context, categoryID string) ([]Product, error) {
	return getList[Product](ctx, c, "/categories/"+seg(categoryID)+"/products")
}

func (c *Client) AddProduct(ctx context.Context, in ProductInput) (Ack, error) {
	var out Ack
	err := c.post(ctx, "/products/product-add", in, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (Ack, error) {
	var out Ack
	err := c.put(ctx, "/products/product-update/"+seg(id), in, &out)
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.delete(ctx, "/products/product-del/"+seg(id), nil)
}

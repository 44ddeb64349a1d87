package apiclient

import "context"

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (Order, error) {
	var out Order
	err := c.post(ctx, "/orders/order-add", req, &out)
	return out, err
}

func (c *Client) ProcessPayment(ctx context.Context, req PaymentRequest) (Ack, error) {
	var out Ack
	err := c.post(ctx, "/orders/payment", req, &out)
	return out, err
}

func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	return getList[Order](ctx, c, "/orders/order")
}

func (c *Client) GetOrder(ctx context.Context, id string) (Order, error) {
	var out Order
	err := c.get(ctx, "/orders/order/"+seg(id), &out)
	return out, err
}

// OrdersByUserOrder mirrors GET /orders/order-user/{id}.
func (c *Client) OrdersByUserOrder(ctx context.Context, id string) ([]Order, error) {
	return getList[Order](ctx, c, "/orders/order-user/"+seg(id))
}

func (c *Client) OrdersByUser(ctx context.Context, userID string) ([]Order, error) {
	return getList[Order](ctx, c, "/orders/orders-all/"+seg(userID))
}

func (c *Client) UpdateOrder(ctx context.Context, id string, update OrderUpdate) (Ack, error) {
	var out Ack
	err := c.put(ctx, "/orders/order-update/"+seg(id), update, &out)
	return out, err
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.delete(ctx, "/orders/order-del/"+seg(id), nil)
}

// Loyalty

// LoyaltyPoints returns the caller's own point history.
func (c *Client) LoyaltyPoints(ctx context.Context) ([]LoyaltyPoint, error) {
	return getList[LoyaltyPoint](ctx, c, "/loyalty/point")
}

// UserPoints is the admin lookup of another user's history.
func (c *Client) UserPoints(ctx context.Context, userID string) ([]LoyaltyPoint, error) {
	return getList[LoyaltyPoint](ctx, c, "/loyalty/point/"+seg(userID))
}

func (c *Client) UpdateLoyaltyPoint(ctx context.Context, id string, update LoyaltyPointUpdate) (Ack, error) {
	var out Ack
	err := c.put(ctx, "/loyalty/point-edit/"+seg(id), update, &out)
	return out, err
}

func (c *Client) DeleteLoyaltyPoint(ctx context.Context, id string) error {
	return c.delete(ctx, "/loyalty/point-del/"+seg(id), nil)
}

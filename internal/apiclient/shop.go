package apiclient

import "context"

// Cart

func (c *Client) AddToCart(ctx context.Context, req CartAddRequest) (Ack, error) {
	var out Ack
	err := c.post(ctx, "/cart/cart-add", req, &out)
	return out, err
}

func (c *Client) GetCart(ctx context.Context) ([]CartItem, error) {
	return getList[CartItem](ctx, c, "/cart")
}

func (c *Client) UpdateCartItem(ctx context.Context, cartID string, quantity int64) (Ack, error) {
	var out Ack
	err := c.put(ctx, "/cart/cart-edit/"+seg(cartID), cartEditRequest{Quantity: quantity}, &out)
	return out, err
}

func (c *Client) RemoveCartItem(ctx context.Context, cartID string) error {
	return c.delete(ctx, "/cart/del/"+seg(cartID), nil)
}

// Wishlist

func (c *Client) Wishlist(ctx context.Context) ([]WishlistItem, error) {
	return getList[WishlistItem](ctx, c, "/wishlist/wishlist-all")
}

func (c *Client) AddToWishlist(ctx context.Context, productID int64) (Ack, error) {
	var out Ack
	err := c.post(ctx, "/wishlist/wishlist-add", WishlistAddRequest{ProductID: productID}, &out)
	return out, err
}

func (c *Client) RemoveFromWishlist(ctx context.Context, productID string) error {
	return c.delete(ctx, "/wishlist/wishlist-del/"+seg(productID), nil)
}

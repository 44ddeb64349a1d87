package apiclient

import "context"

// Vouchers

func (c *Client) AvailableVouchers(ctx context.Context) ([]Voucher, error) {
	return getList[Voucher](ctx, c, "/vouchers")
}

// ListVouchers is the admin view of the same collection.
func (c *Client) ListVouchers(ctx context.Context) ([]Voucher, error) {
	return getList[Voucher](ctx, c, "/vouchers")
}

func (c *Client) RedeemedVouchers(ctx context.Context) ([]Voucher, error) {
	return getList[Voucher](ctx, c, "/vouchers/redeemed")
}

func (c *Client) RedeemVoucher(ctx context.Context, voucherID int64) (Ack, error) {
	var out Ack
	err := c.post(ctx, "/vouchers/redeem-voucher", RedeemVoucherRequest{VoucherID: voucherID}, &out)
	return out, err
}

func (c *Client) ApplyVoucher(ctx context.Context, req ApplyVoucherRequest) (ApplyVoucherResponse, error) {
	var out ApplyVoucherResponse
	err := c.post(ctx, "/vouchers/apply-voucher", req, &out)
	return out, err
}

func (c *Client) AddVoucher(ctx context.Context, in VoucherInput) (Ack, error) {
	var out Ack
	err := c.post(ctx, "/vouchers", in, &out)
	return out, err
}

func (c *Client) EditVoucher(ctx context.Context, id string, in VoucherInput) (Ack, error) {
	var out Ack
	err := c.put(ctx, "/vouchers/"+seg(id), in, &out)
	return out, err
}

func (c *Client) DeleteVoucher(ctx context.Context, id string) error {
	return c.delete(ctx, "/vouchers/"+seg(id), nil)
}

// Reviews

func (c *Client) ProductReviews(ctx context.Context, productID string) ([]Review, error) {
	return getList[Review](ctx, c, "/reviews/review/product/"+seg(productID))
}

func (c *Client) ListReviews(ctx context.Context) ([]Review, error) {
	return getList[Review](ctx, c, "/reviews/review-all")
}

func (c *Client) CreateReview(ctx context.Context, in ReviewInput) (Ack, error) {
	var out Ack
	err := c.post(ctx, "/reviews/review-add", in, &out)
	return out, err
}

func (c *Client) UpdateReview(ctx context.Context, id string, in ReviewInput) (Ack, error) {
	var out Ack
	err := c.put(ctx, "/reviews/review-update/"+seg(id), in, &out)
	return out, err
}

func (c *Client) DeleteReview(ctx context.Context, id string) error {
	return c.delete(ctx, "/reviews/review-delete/"+seg(id), nil)
}

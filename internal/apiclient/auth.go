package apiclient

import "context"

func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResponse, error) {
	var out LoginResponse
	err := c.post(ctx, "/auth/login", creds, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (Ack, error) {
	var out Ack
	err := c.post(ctx, "/auth/signup", req, &out)
	return out, err
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (Ack, error) {
	var out Ack
	err := c.post(ctx, "/auth/forgot-password", struct {
		Email string `json:"Email"`
	}{email}, &out)
	return out, err
}

func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) (Ack, error) {
	var out Ack
	err := c.post(ctx, "/auth/reset-password", req, &out)
	return out, err
}

func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) (Ack, error) {
	var out Ack
	err := c.post(ctx, "/auth/change-password", req, &out)
	return out, err
}

package apiclient

import "context"

func (c *Client) UserProfile(ctx context.Context, userID string) (User, error) {
	var out User
	err := c.get(ctx, "/users/user-profile/"+seg(userID), &out)
	return out, err
}

func (c *Client) UpdateUserProfile(ctx context.Context, userID string, update ProfileUpdate) (Ack, error) {
	var out Ack
	err := c.put(ctx, "/users/update-profile/"+seg(userID), update, &out)
	return out, err
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	return getList[User](ctx, c, "/users/user-all")
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.delete(ctx, "/users/delete-user/"+seg(userID), nil)
}

// Notifications

func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	return getList[Notification](ctx, c, "/notifications/noti")
}

func (c *Client) AllNotifications(ctx context.Context) ([]Notification, error) {
	return getList[Notification](ctx, c, "/notifications/noti-all")
}

func (c *Client) CreateNotification(ctx context.Context, in NotificationInput) (Ack, error) {
	var out Ack
	err := c.post(ctx, "/notifications/noti-add", in, &out)
	return out, err
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) (Ack, error) {
	var out Ack
	err := c.post(ctx, "/notifications/noti/read/"+seg(id), nil, &out)
	return out, err
}

func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.delete(ctx, "/notifications/noti-del/"+seg(id), nil)
}

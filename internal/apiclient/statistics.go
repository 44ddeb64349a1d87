package apiclient

import "context"

// RevenueStatistics fetches the dashboard aggregates.
func (c *Client) RevenueStatistics(ctx context.Context) (Statistics, error) {
	var out Statistics
	err := c.get(ctx, "/statistics/static", &out)
	return out, err
}

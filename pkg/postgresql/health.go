package postgresql

import (
	"context"
	"fmt"
)

// CheckHealth pings the pool and runs a trivial query. It satisfies
// healthcheck.Checker.
func (c *Client) CheckHealth(ctx context.Context) error {
	if err := c.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	var one int
	if err := c.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	return nil
}

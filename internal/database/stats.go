package database

import (
	"context"
	"fmt"
)

// Stats holds row counts of the store.
type Stats struct {
	Users    int64
	Messages int64
	Swipes   int64
}

// GetStats counts the rows of all tables.
func (c *Client) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	counts := []struct {
		model any
		dest  *int64
	}{
		{&User{}, &stats.Users},
		{&Message{}, &stats.Messages},
		{&Swipe{}, &stats.Swipes},
	}
	for _, cnt := range counts {
		if err := c.db.WithContext(ctx).Model(cnt.model).Count(cnt.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count %T: %w", cnt.model, err)
		}
	}
	return &stats, nil
}

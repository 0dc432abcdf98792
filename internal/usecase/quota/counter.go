// Package quota enforces the monthly limit on borrowing requests.
package quota

import (
	"context"
	"fmt"
	"time"

	"library-backend/internal/domain/borrowing"
)

type Counter struct {
	requests borrowing.Repository
	limit    int
}

func NewCounter(requests borrowing.Repository) *Counter {
	return &Counter{requests: requests, limit: borrowing.MonthlyRequestLimit}
}

// CountThisMonth counts the requests userID submitted in the UTC calendar
// month containing ref.
func (c *Counter) CountThisMonth(ctx context.Context, userID string, ref time.Time) (int, error) {
	from, to := borrowing.MonthWindow(ref)
	n, err := c.requests.CountRequestedBetween(ctx, userID, from, to)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Check fails with borrowing.ErrQuotaExceeded once the limit is reached.
func (c *Counter) Check(ctx context.Context, userID string, ref time.Time) error {
	n, err := c.CountThisMonth(ctx, userID, ref)
	if err != nil {
		return err
	}
	if n >= c.limit {
		return fmt.Errorf("%w: %d of %d requests used in %s", borrowing.ErrQuotaExceeded, n, c.limit, ref.UTC().Format("2006-01"))
	}
	return nil
}

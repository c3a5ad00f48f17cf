// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file computes monthly content usage for the quota
// tracker. Usage is derived, never stored: it is the count of guides plus
// blogs a user created inside the current calendar month.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// MonthWindow returns the half-open interval [first day of the month of t,
// first day of the next month) in UTC. Month boundaries are calendar-based,
// not rolling 30-day windows.
func MonthWindow(t time.Time) (from, to time.Time) {
	t = t.UTC()
	from = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	to = from.AddDate(0, 1, 0)
	return from, to
}

// CountMonthlyContent returns the number of content items (guides + blogs)
// authored by userID within the calendar month containing now. The count
// is monotonically non-decreasing within a month and resets at month
// boundaries.
func CountMonthlyContent(ctx context.Context, db *gorm.DB, userID string, now time.Time) (int64, error) {
	from, to := MonthWindow(now)

	guides, err := CountGuidesCreatedBetween(ctx, db, userID, from, to)
	if err != nil {
		return 0, err
	}
	blogs, err := CountBlogsCreatedBetween(ctx, db, userID, from, to)
	if err != nil {
		return 0, err
	}
	return guides + blogs, nil
}

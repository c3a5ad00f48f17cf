// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries
// used primarily for conditional responses (ETag generation) on the public
// listing endpoints.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/n0social/verbshift-api/internal/domain"
)

// GuidesStats returns aggregate metadata for the guides table under the
// given filter: total row count and the maximum UpdatedAt among those rows.
// When no rows match, count is 0 and maxUpdatedAt is nil.
func GuidesStats(ctx context.Context, db *gorm.DB, f ContentFilter) (count int64, maxUpdatedAt *time.Time, err error) {
	q := f.apply(db.WithContext(ctx).Model(&domain.Guide{}), "guides")

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("guides.updated_at").Order("guides.updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// BlogsStats returns aggregate metadata for the blogs table under the given
// filter: total row count and the maximum UpdatedAt among those rows.
func BlogsStats(ctx context.Context, db *gorm.DB, f ContentFilter) (count int64, maxUpdatedAt *time.Time, err error) {
	q := f.apply(db.WithContext(ctx).Model(&domain.Blog{}), "blogs")

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("blogs.updated_at").Order("blogs.updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Guide
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a guide is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/n0social/verbshift-api/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ContentFilter narrows guide/blog listings. Nil pointer fields mean
// "no constraint".
type ContentFilter struct {
	CategorySlug string
	Published    *bool
	Featured     *bool
}

// apply composes the filter onto a query rooted at the given model table.
func (f ContentFilter) apply(q *gorm.DB, table string) *gorm.DB {
	if f.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = "+table+".category_id").
			Where("categories.slug = ?", f.CategorySlug)
	}
	if f.Published != nil {
		q = q.Where(table+".published = ?", *f.Published)
	}
	if f.Featured != nil {
		q = q.Where(table+".featured = ?", *f.Featured)
	}
	return q
}

// CreateGuide inserts a new Guide row. The ID is a randomly generated UUID
// and CreatedAt is set to UTC. The caller is responsible for slug
// uniqueness at the business level; a collision surfaces as a DB error.
func CreateGuide(ctx context.Context, db *gorm.DB, g *domain.Guide) (*domain.Guide, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

// GetGuideBySlug fetches a single guide by slug, preloading its category.
// Returns ErrNotFound when absent.
func GetGuideBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Guide, error) {
	var g domain.Guide
	err := db.WithContext(ctx).
		Preload("Category").
		Where("slug = ?", slug).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// CountGuides returns the number of guides matching the filter.
func CountGuides(ctx context.Context, db *gorm.DB, f ContentFilter) (int64, error) {
	var total int64
	q := f.apply(db.WithContext(ctx).Model(&domain.Guide{}), "guides")
	err := q.Count(&total).Error
	return total, err
}

// ListGuidesPage returns a page of guides matching the filter, newest
// first, with categories preloaded.
func ListGuidesPage(ctx context.Context, db *gorm.DB, f ContentFilter, offset, limit int) ([]domain.Guide, error) {
	var out []domain.Guide
	q := f.apply(db.WithContext(ctx).Model(&domain.Guide{}), "guides")
	err := q.Preload("Category").
		Order("guides.created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// SearchGuidesByTitle returns published guides whose title contains the
// query, case-insensitively, newest first.
func SearchGuidesByTitle(ctx context.Context, db *gorm.DB, query string, limit int) ([]domain.Guide, error) {
	var out []domain.Guide
	err := db.WithContext(ctx).
		Where("published = ? AND title LIKE ?", true, "%"+query+"%").
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// FindGuideTitleLike returns the first guide whose title contains the given
// fragment (case-insensitive; LIKE is case-insensitive for ASCII in
// SQLite). Used by the near-duplicate heuristic. Returns ErrNotFound when
// nothing matches.
func FindGuideTitleLike(ctx context.Context, db *gorm.DB, fragment string) (*domain.Guide, error) {
	var g domain.Guide
	err := db.WithContext(ctx).
		Where("title LIKE ?", "%"+fragment+"%").
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// FindPublishedGuideConflict returns the first published guide with an
// equal title (case-insensitive) or any guide with the same slug. Used to
// reject duplicate publications. Returns ErrNotFound when no conflict
// exists.
func FindPublishedGuideConflict(ctx context.Context, db *gorm.DB, title, slug string) (*domain.Guide, error) {
	var g domain.Guide
	err := db.WithContext(ctx).
		Where("slug = ? OR (published = ? AND title LIKE ?)", slug, true, title).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// CountGuidesCreatedBetween counts guides owned by authorID with a creation
// timestamp in [from, to). Soft-deleted rows do not count.
func CountGuidesCreatedBetween(ctx context.Context, db *gorm.DB, authorID string, from, to time.Time) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Guide{}).
		Where("author_id = ? AND created_at >= ? AND created_at < ?", authorID, from, to).
		Count(&total).Error
	return total, err
}

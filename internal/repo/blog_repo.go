// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Blog
// model, mirroring the guide repository.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/n0social/verbshift-api/internal/domain"
)

// CreateBlog inserts a new Blog row with a UUID primary key and UTC
// creation timestamp.
func CreateBlog(ctx context.Context, db *gorm.DB, b *domain.Blog) (*domain.Blog, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

// GetBlogBySlug fetches a single blog by slug, preloading its category.
// Returns ErrNotFound when absent.
func GetBlogBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Blog, error) {
	var b domain.Blog
	err := db.WithContext(ctx).
		Preload("Category").
		Where("slug = ?", slug).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CountBlogs returns the number of blogs matching the filter.
func CountBlogs(ctx context.Context, db *gorm.DB, f ContentFilter) (int64, error) {
	var total int64
	q := f.apply(db.WithContext(ctx).Model(&domain.Blog{}), "blogs")
	err := q.Count(&total).Error
	return total, err
}

// ListBlogsPage returns a page of blogs matching the filter, newest first,
// with categories preloaded.
func ListBlogsPage(ctx context.Context, db *gorm.DB, f ContentFilter, offset, limit int) ([]domain.Blog, error) {
	var out []domain.Blog
	q := f.apply(db.WithContext(ctx).Model(&domain.Blog{}), "blogs")
	err := q.Preload("Category").
		Order("blogs.created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// SearchBlogsByTitle returns published blogs whose title contains the
// query, case-insensitively, newest first.
func SearchBlogsByTitle(ctx context.Context, db *gorm.DB, query string, limit int) ([]domain.Blog, error) {
	var out []domain.Blog
	err := db.WithContext(ctx).
		Where("published = ? AND title LIKE ?", true, "%"+query+"%").
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// FindPublishedBlogConflict returns the first published blog with an equal
// title (case-insensitive) or any blog with the same slug. Returns
// ErrNotFound when no conflict exists.
func FindPublishedBlogConflict(ctx context.Context, db *gorm.DB, title, slug string) (*domain.Blog, error) {
	var b domain.Blog
	err := db.WithContext(ctx).
		Where("slug = ? OR (published = ? AND title LIKE ?)", slug, true, title).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CountBlogsCreatedBetween counts blogs owned by authorID with a creation
// timestamp in [from, to).
func CountBlogsCreatedBetween(ctx context.Context, db *gorm.DB, authorID string, from, to time.Time) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Blog{}).
		Where("author_id = ? AND created_at >= ? AND created_at < ?", authorID, from, to).
		Count(&total).Error
	return total, err
}

// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for Category.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/n0social/verbshift-api/internal/domain"
)

// CategoryWithCounts pairs a category with the number of guides and blogs
// attached to it, for listing pages.
type CategoryWithCounts struct {
	domain.Category
	GuideCount int64 `json:"guide_count"`
	BlogCount  int64 `json:"blog_count"`
}

// ListCategories returns all categories ordered by name.
func ListCategories(ctx context.Context, db *gorm.DB) ([]domain.Category, error) {
	var out []domain.Category
	err := db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}

// ListCategoriesWithCounts returns all categories ordered by name, each
// annotated with its guide and blog counts. Two aggregate queries per
// category would be O(n); instead a correlated subquery keeps it to one
// statement.
func ListCategoriesWithCounts(ctx context.Context, db *gorm.DB) ([]CategoryWithCounts, error) {
	var out []CategoryWithCounts
	err := db.WithContext(ctx).
		Model(&domain.Category{}).
		Select(`categories.*,
			(SELECT COUNT(*) FROM guides WHERE guides.category_id = categories.id AND guides.deleted_at IS NULL) AS guide_count,
			(SELECT COUNT(*) FROM blogs  WHERE blogs.category_id  = categories.id AND blogs.deleted_at  IS NULL) AS blog_count`).
		Order("categories.name asc").
		Scan(&out).Error
	return out, err
}

// GetCategoryBySlug fetches a category by slug, or ErrNotFound.
func GetCategoryBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Category, error) {
	var c domain.Category
	err := db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCategoryByName fetches a category by exact name, or ErrNotFound.
// The bot generator resolves its randomly selected category through this.
func GetCategoryByName(ctx context.Context, db *gorm.DB, name string) (*domain.Category, error) {
	var c domain.Category
	err := db.WithContext(ctx).Where("name = ?", name).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

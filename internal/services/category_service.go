// Package services – CategoryService
//
// Categories are a small, mostly static taxonomy seeded at startup, so this
// service is a thin read layer over the repository.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/n0social/verbshift-api/internal/domain"
	"github.com/n0social/verbshift-api/internal/repo"
)

// CategoryService provides read access to the content taxonomy.
type CategoryService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{DB: db}
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return repo.ListCategories(ctx, s.DB)
}

// ListWithCounts returns all categories with per-category published guide and
// blog counts.
func (s *CategoryService) ListWithCounts(ctx context.Context) ([]repo.CategoryWithCounts, error) {
	return repo.ListCategoriesWithCounts(ctx, s.DB)
}

// GetBySlug fetches a single category.
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	cat, err := repo.GetCategoryBySlug(ctx, s.DB, slug)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return cat, nil
}

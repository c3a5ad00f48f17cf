// Package services – GuideService
//
// This file implements the GuideService, which manages the lifecycle of
// guides: creation from parsed drafts or manual authoring input, paginated
// listing with category filters, slug lookups, and title search. Publishing
// gates run here so that every write path shares the same policy and
// duplicate rules.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/n0social/verbshift-api/internal/domain"
	"github.com/n0social/verbshift-api/internal/genai"
	"github.com/n0social/verbshift-api/internal/repo"
)

const defaultPageSize = 20

// GuideService provides guide-level operations. It enforces content rules and
// resolves category references before persisting.
type GuideService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// Parser validates titles and content and derives slugs and read time.
	Parser *genai.Parser

	// Policy guards publish-time writes.
	Policy *genai.Policy
}

// NewGuideService constructs a GuideService with default parsing rules.
func NewGuideService(db *gorm.DB) *GuideService {
	return &GuideService{
		DB:     db,
		Parser: genai.NewParser(genai.ParserConfig{}),
		Policy: genai.NewPolicy(),
	}
}

// CreateGuideInput is the manual authoring payload.
type CreateGuideInput struct {
	Title        string
	Content      string
	Excerpt      string
	CoverImage   string
	CategorySlug string
	Published    bool
	Featured     bool
}

// Create validates and persists a manually authored guide.
// The slug is derived from the title; the excerpt defaults to the opening
// lines of the content when blank.
func (s *GuideService) Create(ctx context.Context, authorID string, in CreateGuideInput) (*domain.Guide, error) {
	title := strings.TrimSpace(in.Title)
	if err := s.Parser.ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := s.Parser.ValidateContent(in.Content); err != nil {
		return nil, err
	}

	excerpt := strings.TrimSpace(in.Excerpt)
	if excerpt == "" {
		excerpt = s.Parser.Excerpt(title, in.Content)
	}

	g := &domain.Guide{
		Title:      title,
		Slug:       genai.Slugify(title),
		Excerpt:    excerpt,
		Content:    in.Content,
		CoverImage: in.CoverImage,
		Published:  in.Published,
		Featured:   in.Featured,
		ReadTime:   genai.ReadTime(in.Content),
	}
	if err := s.finishCreate(ctx, authorID, g, in.CategorySlug, in.Published); err != nil {
		return nil, err
	}
	return g, nil
}

// CreateFromDraft persists a guide produced by the generation pipeline.
// The draft has already passed title/content validation and, for publish
// requests, the policy guard.
func (s *GuideService) CreateFromDraft(ctx context.Context, authorID string, d *genai.Draft, categorySlug string, publish bool) (*domain.Guide, error) {
	g := &domain.Guide{
		Title:     d.Title,
		Slug:      d.Slug,
		Excerpt:   d.Excerpt,
		Content:   d.Content,
		Published: publish,
		ReadTime:  genai.ReadTime(d.Content),
	}
	if err := s.finishCreate(ctx, authorID, g, categorySlug, publish); err != nil {
		return nil, err
	}
	return g, nil
}

// finishCreate applies the shared write gates: publish-time policy check,
// duplicate detection, category resolution, and the insert itself.
func (s *GuideService) finishCreate(ctx context.Context, authorID string, g *domain.Guide, categorySlug string, publish bool) error {
	if publish {
		if v := s.Policy.Check(g.Title, g.Excerpt, g.Content); !v.Allowed {
			return ErrPolicyViolation
		}
	}

	if _, err := repo.FindPublishedGuideConflict(ctx, s.DB, g.Title, g.Slug); err == nil {
		return ErrDuplicateContent
	} else if !errors.Is(err, repo.ErrNotFound) {
		return err
	}

	if categorySlug != "" {
		cat, err := repo.GetCategoryBySlug(ctx, s.DB, categorySlug)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
		g.CategoryID = cat.ID
	}

	g.AuthorID = authorID
	_, err := repo.CreateGuide(ctx, s.DB, g)
	return err
}

// GetBySlug fetches a single guide with its category preloaded.
func (s *GuideService) GetBySlug(ctx context.Context, slug string) (*domain.Guide, error) {
	g, err := repo.GetGuideBySlug(ctx, s.DB, slug)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrGuideNotFound
		}
		return nil, err
	}
	return g, nil
}

// ListPage returns a page of guides matching the filter (paginated).
// It applies defaults for invalid page/pageSize and returns total count.
func (s *GuideService) ListPage(ctx context.Context, f repo.ContentFilter, page, pageSize int) ([]domain.Guide, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountGuides(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Guide{}, 0, nil
	}

	items, err := repo.ListGuidesPage(ctx, s.DB, f, offset, pageSize)
	return items, total, err
}

// Search returns published guides whose titles contain the query.
func (s *GuideService) Search(ctx context.Context, query string, limit int) ([]domain.Guide, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	return repo.SearchGuidesByTitle(ctx, s.DB, query, limit)
}

// Stats returns the row count and latest update time for guides matching the
// filter, used for weak ETag generation.
func (s *GuideService) Stats(ctx context.Context, f repo.ContentFilter) (int64, *time.Time, error) {
	return repo.GuidesStats(ctx, s.DB, f)
}

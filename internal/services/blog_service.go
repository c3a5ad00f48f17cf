// Package services – BlogService
//
// This file implements the BlogService, the blog-post counterpart of
// GuideService. Blog posts share the guide write gates (publish-time policy,
// duplicate detection, category resolution) but use an exact-title duplicate
// rule and normalize body whitespace on manual authoring.
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

// BlogService provides blog-post-level operations.
type BlogService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// Parser validates titles and content and derives slugs and excerpts.
	Parser *genai.Parser

	// Policy guards publish-time writes.
	Policy *genai.Policy
}

// NewBlogService constructs a BlogService with default parsing rules.
func NewBlogService(db *gorm.DB) *BlogService {
	return &BlogService{
		DB:     db,
		Parser: genai.NewParser(genai.ParserConfig{}),
		Policy: genai.NewPolicy(),
	}
}

// CreateBlogInput is the manual authoring payload.
type CreateBlogInput struct {
	Title        string
	Content      string
	Excerpt      string
	CoverImage   string
	CategorySlug string
	Published    bool
	Featured     bool
}

// Create validates and persists a manually authored blog post.
func (s *BlogService) Create(ctx context.Context, authorID string, in CreateBlogInput) (*domain.Blog, error) {
	title := strings.TrimSpace(in.Title)
	if err := s.Parser.ValidateTitle(title); err != nil {
		return nil, err
	}
	content := genai.CleanBlogContent(in.Content)
	if err := s.Parser.ValidateContent(content); err != nil {
		return nil, err
	}

	excerpt := strings.TrimSpace(in.Excerpt)
	if excerpt == "" {
		excerpt = s.Parser.Excerpt(title, content)
	}

	b := &domain.Blog{
		Title:      title,
		Slug:       genai.Slugify(title),
		Excerpt:    excerpt,
		Content:    content,
		CoverImage: in.CoverImage,
		Published:  in.Published,
		Featured:   in.Featured,
		ReadTime:   genai.ReadTime(content),
	}
	if err := s.finishCreate(ctx, authorID, b, in.CategorySlug, in.Published); err != nil {
		return nil, err
	}
	return b, nil
}

// CreateFromDraft persists a blog post produced by the generation pipeline.
func (s *BlogService) CreateFromDraft(ctx context.Context, authorID string, d *genai.Draft, categorySlug string, publish bool) (*domain.Blog, error) {
	b := &domain.Blog{
		Title:     d.Title,
		Slug:      d.Slug,
		Excerpt:   d.Excerpt,
		Content:   d.Content,
		Published: publish,
		ReadTime:  genai.ReadTime(d.Content),
	}
	if err := s.finishCreate(ctx, authorID, b, categorySlug, publish); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BlogService) finishCreate(ctx context.Context, authorID string, b *domain.Blog, categorySlug string, publish bool) error {
	if publish {
		if v := s.Policy.Check(b.Title, b.Excerpt, b.Content); !v.Allowed {
			return ErrPolicyViolation
		}
	}

	if _, err := repo.FindPublishedBlogConflict(ctx, s.DB, b.Title, b.Slug); err == nil {
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
		b.CategoryID = cat.ID
	}

	b.AuthorID = authorID
	_, err := repo.CreateBlog(ctx, s.DB, b)
	return err
}

// GetBySlug fetches a single blog post with its category preloaded.
func (s *BlogService) GetBySlug(ctx context.Context, slug string) (*domain.Blog, error) {
	b, err := repo.GetBlogBySlug(ctx, s.DB, slug)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return b, nil
}

// ListPage returns a page of blog posts matching the filter (paginated).
func (s *BlogService) ListPage(ctx context.Context, f repo.ContentFilter, page, pageSize int) ([]domain.Blog, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountBlogs(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Blog{}, 0, nil
	}

	items, err := repo.ListBlogsPage(ctx, s.DB, f, offset, pageSize)
	return items, total, err
}

// Search returns published blog posts whose titles contain the query.
func (s *BlogService) Search(ctx context.Context, query string, limit int) ([]domain.Blog, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	return repo.SearchBlogsByTitle(ctx, s.DB, query, limit)
}

// Stats returns the row count and latest update time for blog posts matching
// the filter, used for weak ETag generation.
func (s *BlogService) Stats(ctx context.Context, f repo.ContentFilter) (int64, *time.Time, error) {
	return repo.BlogsStats(ctx, s.DB, f)
}

// Guide HTTP handlers.
//
// This file exposes REST endpoints for guide resources:
//   - GET    /guides             (list, paginated, ETag support)
//   - GET    /guides/{slug}      (read, optional HTML rendering)
//   - GET    /guides/search      (title search)
//   - POST   /guides             (manual authoring)
//
// It also hosts the shared Handlers wiring: the service contracts consumed by
// the HTTP layer and the helpers for requester identity and pagination.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/n0social/verbshift-api/internal/domain"
	"github.com/n0social/verbshift-api/internal/markdown"
	"github.com/n0social/verbshift-api/internal/repo"
	"github.com/n0social/verbshift-api/internal/services"
	"github.com/n0social/verbshift-api/internal/utils"
)

//
// Service contracts (context-aware)
//

// GuideService defines guide operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type GuideService interface {
	// Create validates and persists a manually authored guide.
	Create(ctx context.Context, authorID string, in services.CreateGuideInput) (*domain.Guide, error)
	// GetBySlug fetches a single guide with its category preloaded.
	GetBySlug(ctx context.Context, slug string) (*domain.Guide, error)
	// ListPage returns a page of guides matching the filter and the total count.
	ListPage(ctx context.Context, f repo.ContentFilter, page, pageSize int) ([]domain.Guide, int64, error)
	// Search returns published guides whose titles contain the query.
	Search(ctx context.Context, query string, limit int) ([]domain.Guide, error)
	// Stats returns row count and latest update time for ETag generation.
	Stats(ctx context.Context, f repo.ContentFilter) (int64, *time.Time, error)
}

// BlogService defines blog-post operations consumed by HTTP handlers.
type BlogService interface {
	Create(ctx context.Context, authorID string, in services.CreateBlogInput) (*domain.Blog, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Blog, error)
	ListPage(ctx context.Context, f repo.ContentFilter, page, pageSize int) ([]domain.Blog, int64, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Blog, error)
	Stats(ctx context.Context, f repo.ContentFilter) (int64, *time.Time, error)
}

// CategoryService defines taxonomy reads consumed by HTTP handlers.
type CategoryService interface {
	ListWithCounts(ctx context.Context) ([]repo.CategoryWithCounts, error)
}

// SubscriptionService defines tier reads and writes consumed by HTTP handlers.
type SubscriptionService interface {
	Get(ctx context.Context, userID string) (*domain.Subscription, error)
	SetTier(ctx context.Context, userID, tier string) (*domain.Subscription, error)
}

// QuotaService defines quota standing reads consumed by HTTP handlers.
type QuotaService interface {
	Status(ctx context.Context, userID, role string) (services.QuotaStatus, error)
}

// BotRunner defines the automated guide generator operation.
type BotRunner interface {
	Run(ctx context.Context) (*services.BotRunResult, error)
}

// IdempotencyRecord persists the outcome of a completed generation keyed by
// (user, scope, key) so later retries with the same Idempotency-Key are
// replayed from the content store.
type IdempotencyRecord func(ctx context.Context, userID, scope, key, slug string, status int) error

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for generation, guides, blogs,
// categories, subscriptions, and the bot. It depends on abstract service
// interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	genSvc   GenerationRunner
	guideSvc GuideService
	blogSvc  BlogService
	catSvc   CategoryService
	subSvc   SubscriptionService
	quotaSvc QuotaService
	botSvc   BotRunner

	// Optional: nil disables generation replay recording.
	idemRecord IdempotencyRecord
}

// New constructs and returns a Handlers instance bound to the given services.
func New(gen GenerationRunner, guides GuideService, blogs BlogService, cats CategoryService, subs SubscriptionService, quota QuotaService, bot BotRunner) *Handlers {
	return &Handlers{
		genSvc:   gen,
		guideSvc: guides,
		blogSvc:  blogs,
		catSvc:   cats,
		subSvc:   subs,
		quotaSvc: quota,
		botSvc:   bot,
	}
}

// WithIdempotencyRecord enables replay recording for POST /generate and
// returns the receiver for chaining.
func (h *Handlers) WithIdempotencyRecord(rec IdempotencyRecord) *Handlers {
	h.idemRecord = rec
	return h
}

// userID extracts the requester id from Gin context (set by upstream
// middleware). If absent, it falls back to the "X-User-ID" header, and
// finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

// userRole extracts the requester role the same way; defaults to "user".
func userRole(c *gin.Context) string {
	if v, ok := c.Get("userRole"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-Role")); h != "" {
			return h
		}
	}
	return "user"
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListGuidesResponse wraps a page of guides and pagination information.
type ListGuidesResponse struct {
	Guides     []domain.Guide `json:"guides"`
	Pagination Pagination     `json:"pagination"`
}

// CreateGuideRequest is the JSON payload for manual guide authoring.
type CreateGuideRequest struct {
	Title      string `json:"title" binding:"required,min=1,max=255" example:"How to fine-tune a language model"`
	Content    string `json:"content" binding:"required" example:"# How to fine-tune a language model\n..."`
	Excerpt    string `json:"excerpt" example:"A practical walkthrough of fine-tuning."`
	CoverImage string `json:"cover_image" example:"https://cdn.example.com/cover.png"`
	Category   string `json:"category" example:"machine-learning"`
	Published  bool   `json:"published" example:"false"`
	Featured   bool   `json:"featured" example:"false"`
}

// ContentHTMLResponse carries a rendered content body.
type ContentHTMLResponse struct {
	Slug string `json:"slug"`
	HTML string `json:"html"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// contentFilter builds the shared list filter from query params. The public
// listing defaults to published content; published=all lifts the filter and
// published=false selects drafts (authoring views).
func contentFilter(c *gin.Context) repo.ContentFilter {
	f := repo.ContentFilter{CategorySlug: strings.TrimSpace(c.Query("category"))}

	switch strings.ToLower(c.Query("published")) {
	case "all":
		// no filter
	case "false", "0":
		v := false
		f.Published = &v
	default:
		v := true
		f.Published = &v
	}

	if raw := c.Query("featured"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			f.Featured = &v
		}
	}
	return f
}

// etagFor builds a weak ETag from a resource label, filter, count, and the
// latest update time.
func etagFor(label string, f repo.ContentFilter, count int64, maxTS *time.Time) string {
	var ts int64
	if maxTS != nil {
		ts = maxTS.Unix()
	}
	pub := "any"
	if f.Published != nil {
		pub = strconv.FormatBool(*f.Published)
	}
	return fmt.Sprintf(`W/"%s:%s:%s:%d:%d"`, label, f.CategorySlug, pub, count, ts)
}

//
// Handlers
//

// ListGuides godoc
// @ID          listGuides
// @Summary     List guides (paginated)
// @Description Returns a page of guides. Defaults to published content; supports category and featured filters and weak ETag via If-None-Match.
// @Tags        Guides
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       category       query   string  false "Category slug filter"
// @Param       featured       query   bool    false "Featured filter"
// @Param       published      query   string  false "published|false|all"         default(true)
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListGuidesResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /guides [get]
func (h *Handlers) ListGuides(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)
	f := contentFilter(c)

	// ETag pre-check (best effort).
	if count, maxTS, err := h.guideSvc.Stats(ctx, f); err == nil {
		etag := etagFor("guides", f, count, maxTS)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.guideSvc.ListPage(ctx, f, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListGuidesResponse{
		Guides: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetGuide godoc
// @ID          getGuide
// @Summary     Get a guide by slug
// @Description Returns one guide. Pass format=html to receive the body rendered to HTML.
// @Tags        Guides
// @Produce     json
//
// @Param       slug    path   string  true  "Guide slug"
// @Param       format  query  string  false "markdown|html" default(markdown)
//
// @Success     200  {object} domain.Guide
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /guides/{slug} [get]
func (h *Handlers) GetGuide(c *gin.Context) {
	g, err := h.guideSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if err == services.ErrGuideNotFound {
			fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	if strings.EqualFold(c.Query("format"), "html") {
		html, err := markdown.ToHTML(g.Content)
		if err != nil {
			fail(c, http.StatusInternalServerError, ErrCodeRenderFailed, err.Error())
			return
		}
		ok(c, http.StatusOK, ContentHTMLResponse{Slug: g.Slug, HTML: html})
		return
	}
	ok(c, http.StatusOK, g)
}

// SearchGuides godoc
// @ID          searchGuides
// @Summary     Search published guides by title
// @Tags        Guides
// @Produce     json
//
// @Param       q      query  string  true  "Query string"
// @Param       limit  query  int     false "Max results" minimum(1) maximum(100) default(20)
//
// @Success     200  {array}  domain.Guide
// @Failure     400  {object} handlers.ErrorResponse "Empty query"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /guides/search [get]
func (h *Handlers) SearchGuides(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 20)
	if limit > 100 {
		limit = 100
	}
	items, err := h.guideSvc.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		if err == services.ErrEmptyQuery {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeSearchFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// CreateGuide godoc
// @ID          createGuide
// @Summary     Author a guide manually
// @Description Validates and stores a guide written by the requester. Publishing applies the policy guard and duplicate rules.
// @Tags        Guides
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.CreateGuideRequest  true  "Guide payload"
//
// @Success     201  {object}  domain.Guide
// @Failure     400  {object}  handlers.ErrorResponse "Bad request or policy violation"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown category"
// @Failure     409  {object}  handlers.ErrorResponse "Duplicate content"
// @Failure     422  {object}  handlers.ErrorResponse "Content failed validation"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /guides [post]
func (h *Handlers) CreateGuide(c *gin.Context) {
	var req CreateGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	g, err := h.guideSvc.Create(c.Request.Context(), userID(c), services.CreateGuideInput{
		Title:        req.Title,
		Content:      req.Content,
		Excerpt:      req.Excerpt,
		CoverImage:   req.CoverImage,
		CategorySlug: strings.TrimSpace(req.Category),
		Published:    req.Published,
		Featured:     req.Featured,
	})
	if err != nil {
		failGeneration(c, err)
		return
	}
	ok(c, http.StatusCreated, g)
}

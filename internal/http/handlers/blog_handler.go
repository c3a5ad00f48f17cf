// Blog HTTP handlers.
//
// This file exposes REST endpoints for blog-post resources:
//   - GET    /blogs             (list, paginated, ETag support)
//   - GET    /blogs/{slug}      (read, optional HTML rendering)
//   - GET    /blogs/search      (title search)
//   - POST   /blogs             (manual authoring)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/n0social/verbshift-api/internal/domain"
	"github.com/n0social/verbshift-api/internal/markdown"
	"github.com/n0social/verbshift-api/internal/services"
	"github.com/n0social/verbshift-api/internal/utils"
)

// ListBlogsResponse wraps a page of blog posts and pagination information.
type ListBlogsResponse struct {
	Blogs      []domain.Blog `json:"blogs"`
	Pagination Pagination    `json:"pagination"`
}

// CreateBlogRequest is the JSON payload for manual blog authoring.
type CreateBlogRequest struct {
	Title      string `json:"title" binding:"required,min=1,max=255" example:"Why small models win"`
	Content    string `json:"content" binding:"required" example:"# Why small models win\n..."`
	Excerpt    string `json:"excerpt" example:"Small models, big wins."`
	CoverImage string `json:"cover_image" example:"https://cdn.example.com/cover.png"`
	Category   string `json:"category" example:"ai-news"`
	Published  bool   `json:"published" example:"false"`
	Featured   bool   `json:"featured" example:"false"`
}

// ListBlogs godoc
// @ID          listBlogs
// @Summary     List blog posts (paginated)
// @Description Returns a page of blog posts. Defaults to published content; supports category and featured filters and weak ETag via If-None-Match.
// @Tags        Blogs
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       category       query   string  false "Category slug filter"
// @Param       featured       query   bool    false "Featured filter"
// @Param       published      query   string  false "published|false|all"         default(true)
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListBlogsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /blogs [get]
func (h *Handlers) ListBlogs(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)
	f := contentFilter(c)

	if count, maxTS, err := h.blogSvc.Stats(ctx, f); err == nil {
		etag := etagFor("blogs", f, count, maxTS)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.blogSvc.ListPage(ctx, f, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListBlogsResponse{
		Blogs: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetBlog godoc
// @ID          getBlog
// @Summary     Get a blog post by slug
// @Description Returns one blog post. Pass format=html to receive the body rendered to HTML.
// @Tags        Blogs
// @Produce     json
//
// @Param       slug    path   string  true  "Blog slug"
// @Param       format  query  string  false "markdown|html" default(markdown)
//
// @Success     200  {object} domain.Blog
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /blogs/{slug} [get]
func (h *Handlers) GetBlog(c *gin.Context) {
	b, err := h.blogSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if err == services.ErrBlogNotFound {
			fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	if strings.EqualFold(c.Query("format"), "html") {
		html, err := markdown.ToHTML(b.Content)
		if err != nil {
			fail(c, http.StatusInternalServerError, ErrCodeRenderFailed, err.Error())
			return
		}
		ok(c, http.StatusOK, ContentHTMLResponse{Slug: b.Slug, HTML: html})
		return
	}
	ok(c, http.StatusOK, b)
}

// SearchBlogs godoc
// @ID          searchBlogs
// @Summary     Search published blog posts by title
// @Tags        Blogs
// @Produce     json
//
// @Param       q      query  string  true  "Query string"
// @Param       limit  query  int     false "Max results" minimum(1) maximum(100) default(20)
//
// @Success     200  {array}  domain.Blog
// @Failure     400  {object} handlers.ErrorResponse "Empty query"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /blogs/search [get]
func (h *Handlers) SearchBlogs(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 20)
	if limit > 100 {
		limit = 100
	}
	items, err := h.blogSvc.Search(c.Request.Context(), c.Query("q"), limit)
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

// CreateBlog godoc
// @ID          createBlog
// @Summary     Author a blog post manually
// @Description Validates and stores a blog post written by the requester. Publishing applies the policy guard and duplicate rules.
// @Tags        Blogs
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.CreateBlogRequest  true  "Blog payload"
//
// @Success     201  {object}  domain.Blog
// @Failure     400  {object}  handlers.ErrorResponse "Bad request or policy violation"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown category"
// @Failure     409  {object}  handlers.ErrorResponse "Duplicate content"
// @Failure     422  {object}  handlers.ErrorResponse "Content failed validation"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /blogs [post]
func (h *Handlers) CreateBlog(c *gin.Context) {
	var req CreateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	b, err := h.blogSvc.Create(c.Request.Context(), userID(c), services.CreateBlogInput{
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
	ok(c, http.StatusCreated, b)
}

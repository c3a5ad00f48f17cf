// Generation HTTP handler.
//
// This file exposes the topic-to-post pipeline:
//   - POST /generate (quota gate, prompt composition, model call, parsing,
//     policy guard, persistence)
//
// The handler is transport-thin: it validates input, calls the generation
// service, and translates each pipeline sentinel error onto its own HTTP
// status so clients can distinguish quota exhaustion from backend failures.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/n0social/verbshift-api/internal/domain"
	"github.com/n0social/verbshift-api/internal/genai"
	"github.com/n0social/verbshift-api/internal/http/middleware"
	"github.com/n0social/verbshift-api/internal/services"
)

// GenerationRunner defines the generation pipeline operation consumed by the
// HTTP layer.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type GenerationRunner interface {
	// Generate runs the full pipeline for one request.
	Generate(ctx context.Context, userID, role string, in services.GenerateInput) (*services.GenerateResult, error)
}

// GenerateRequest is the JSON payload for content generation.
type GenerateRequest struct {
	// Topic is the subject to write about (required).
	Topic string `json:"topic" binding:"required,min=1,max=500" example:"How do I deploy a machine learning model to production?"`
	// ContentType selects "guide" or "blog"; defaults to "guide".
	ContentType string `json:"content_type" example:"guide"`
	// Personality selects the blog tone; ignored for guides.
	Personality string `json:"personality" example:"witty"`
	// Category optionally assigns the result to a category by slug.
	Category string `json:"category" example:"machine-learning"`
	// Publish makes the result publicly visible immediately.
	Publish bool `json:"publish" example:"false"`
}

// GenerateResponse is the success payload for content generation.
type GenerateResponse struct {
	Draft         *genai.Draft  `json:"draft"`
	Guide         *domain.Guide `json:"guide,omitempty"`
	Blog          *domain.Blog  `json:"blog,omitempty"`
	PolicyAllowed bool          `json:"policy_allowed"`
	PolicyReason  string        `json:"policy_reason,omitempty"`
}

// Generate godoc
// @ID          generateContent
// @Summary     Generate a guide or blog post from a topic
// @Description Runs the generation pipeline: quota check, prompt composition, model call, parsing, and policy guard. Draft requests succeed even when the policy flags the content; publish requests are blocked.
// @Tags        Generation
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID    header  string  false "User ID (demo header)"  example(user123)
// @Param       X-User-Role  header  string  false "User role"              example(user)
// @Param       body         body    handlers.GenerateRequest  true  "Generation payload"
//
// @Success     201  {object}  handlers.GenerateResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request or policy violation"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown category"
// @Failure     409  {object}  handlers.ErrorResponse  "Duplicate content"
// @Failure     422  {object}  handlers.ErrorResponse  "Generated content failed validation"
// @Failure     429  {object}  handlers.ErrorResponse  "Quota exceeded"
// @Failure     502  {object}  handlers.ErrorResponse  "Generation backend failed"
// @Failure     503  {object}  handlers.ErrorResponse  "Generation backend unavailable"
// @Failure     504  {object}  handlers.ErrorResponse  "Generation backend timed out"
// @Router      /generate [post]
func (h *Handlers) Generate(c *gin.Context) {
	// A detected replay is answered from the content store without touching
	// the model or the quota. If the stored post has since been deleted the
	// request falls through to a fresh run.
	if slug, replay := middleware.ReplaySlug(c); replay && h.serveGenerateReplay(c, slug) {
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	if contentType == "" {
		contentType = domain.ContentTypeGuide
	}

	start := time.Now()
	res, err := h.genSvc.Generate(c.Request.Context(), userID(c), userRole(c), services.GenerateInput{
		Topic:        req.Topic,
		ContentType:  contentType,
		Personality:  req.Personality,
		CategorySlug: strings.TrimSpace(req.Category),
		Publish:      req.Publish,
	})
	middleware.ObserveGeneration(contentType, generationOutcome(err), time.Since(start).Seconds())
	if err != nil {
		failGeneration(c, err)
		return
	}

	if res.Draft != nil {
		h.recordGeneration(c, res.Draft.Slug)
	}

	ok(c, http.StatusCreated, GenerateResponse{
		Draft:         res.Draft,
		Guide:         res.Guide,
		Blog:          res.Blog,
		PolicyAllowed: res.Verdict.Allowed,
		PolicyReason:  res.Verdict.Reason,
	})
}

// serveGenerateReplay answers a replayed request with the stored post.
// Returns false when the slug no longer resolves to content of either type.
func (h *Handlers) serveGenerateReplay(c *gin.Context, slug string) bool {
	ctx := c.Request.Context()
	if g, err := h.guideSvc.GetBySlug(ctx, slug); err == nil {
		ok(c, http.StatusOK, GenerateResponse{Guide: g, PolicyAllowed: true})
		return true
	}
	if b, err := h.blogSvc.GetBySlug(ctx, slug); err == nil {
		ok(c, http.StatusOK, GenerateResponse{Blog: b, PolicyAllowed: true})
		return true
	}
	return false
}

// recordGeneration persists the (user, scope, key) → slug mapping after a
// successful run so retries carrying the same Idempotency-Key replay instead
// of invoking the model again. Recording failures never fail the request.
func (h *Handlers) recordGeneration(c *gin.Context, slug string) {
	if h.idemRecord == nil {
		return
	}
	key, present := middleware.GetIdempotencyKey(c)
	if !present {
		return
	}
	scope := middleware.ScopeFromRoute(c)
	if err := h.idemRecord(c.Request.Context(), userID(c), scope, key, slug, http.StatusCreated); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency record failed")
	}
}

// generationOutcome buckets a pipeline error into the fixed metric outcome
// set.
func generationOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, services.ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, services.ErrPolicyViolation):
		return "policy_violation"
	case errors.Is(err, services.ErrDuplicateContent):
		return "duplicate"
	case errors.Is(err, genai.ErrInvalidTitle),
		errors.Is(err, genai.ErrMeaninglessContent),
		errors.Is(err, genai.ErrEmptyResult):
		return "invalid_content"
	case errors.Is(err, genai.ErrUnavailable),
		errors.Is(err, genai.ErrTimeout),
		errors.Is(err, genai.ErrRequestFailed):
		return "backend_error"
	default:
		return "error"
	}
}

// failGeneration maps pipeline errors onto the HTTP error taxonomy.
func failGeneration(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTopicRequired),
		errors.Is(err, services.ErrInvalidContentType):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrQuotaExceeded):
		fail(c, http.StatusTooManyRequests, ErrCodeQuotaExceeded, err.Error())
	case errors.Is(err, genai.ErrUnavailable):
		fail(c, http.StatusServiceUnavailable, ErrCodeGenUnavailable, err.Error())
	case errors.Is(err, genai.ErrTimeout):
		fail(c, http.StatusGatewayTimeout, ErrCodeGenTimeout, err.Error())
	case errors.Is(err, genai.ErrRequestFailed):
		logBackendFailure(c, err)
		fail(c, http.StatusBadGateway, ErrCodeGenFailed, genai.ErrRequestFailed.Error())
	case errors.Is(err, genai.ErrEmptyResult):
		fail(c, http.StatusBadGateway, ErrCodeGenEmpty, genai.ErrEmptyResult.Error())
	case errors.Is(err, genai.ErrInvalidTitle),
		errors.Is(err, genai.ErrMeaninglessContent):
		fail(c, http.StatusUnprocessableEntity, ErrCodeInvalidGenerated, err.Error())
	case errors.Is(err, services.ErrPolicyViolation):
		fail(c, http.StatusBadRequest, ErrCodePolicyViolation, err.Error())
	case errors.Is(err, services.ErrDuplicateContent):
		fail(c, http.StatusConflict, ErrCodeDuplicateContent, err.Error())
	case errors.Is(err, services.ErrCategoryNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	default:
		logBackendFailure(c, err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}

// logBackendFailure records the full wrapped error server-side. The response
// carries only the sentinel text; raw backend error detail (API credential
// messages, upstream bodies) must never reach clients.
func logBackendFailure(c *gin.Context, err error) {
	middleware.LoggerFrom(c).Error().Err(err).Msg("generation backend failure")
}

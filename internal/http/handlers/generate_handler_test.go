package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/n0social/verbshift-api/internal/domain"
	"github.com/n0social/verbshift-api/internal/genai"
	"github.com/n0social/verbshift-api/internal/http/middleware"
	"github.com/n0social/verbshift-api/internal/services"
)

func generateRouter(gen stubGenSvc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(gen, stubGuideSvc{}, stubBlogSvc{}, stubCatSvc{}, stubSubSvc{}, stubQuotaSvc{}, stubBotSvc{})
	r := gin.New()
	r.POST("/generate", h.Generate)
	return r
}

func postGenerate(r *gin.Engine, payload string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewBufferString(payload))
	req.Header.Set("X-User-ID", "u1")
	req.Header.Set("X-User-Role", "user")
	r.ServeHTTP(w, req)
	return w
}

func TestGenerate_Success(t *testing.T) {
	var got services.GenerateInput
	r := generateRouter(stubGenSvc{
		generate: func(_ context.Context, userID, role string, in services.GenerateInput) (*services.GenerateResult, error) {
			if userID != "u1" || role != "user" {
				t.Fatalf("identity = (%q, %q)", userID, role)
			}
			got = in
			return &services.GenerateResult{
				Draft:   &genai.Draft{Title: "T", Slug: "t"},
				Guide:   &domain.Guide{Slug: "t"},
				Verdict: genai.Verdict{Allowed: true},
			}, nil
		},
	})

	w := postGenerate(r, `{"topic":"refactoring legacy code","category":" ml "}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}

	// Content type defaults to guide; category slug is trimmed.
	if got.ContentType != domain.ContentTypeGuide || got.CategorySlug != "ml" {
		t.Fatalf("input = %+v", got)
	}

	var resp GenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Draft == nil || resp.Guide == nil || !resp.PolicyAllowed {
		t.Fatalf("response: %+v", resp)
	}
}

func TestGenerate_BadJSONAndMissingTopic(t *testing.T) {
	r := generateRouter(stubGenSvc{})

	if w := postGenerate(r, "{bad"); w.Code != http.StatusBadRequest {
		t.Fatalf("bad json -> %d", w.Code)
	}
	// binding:"required" rejects an absent topic before the service runs.
	if w := postGenerate(r, `{"content_type":"guide"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing topic -> %d", w.Code)
	}
}

func TestGenerate_ErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"topic required", services.ErrTopicRequired, http.StatusBadRequest, ErrCodeBadRequest},
		{"bad content type", services.ErrInvalidContentType, http.StatusBadRequest, ErrCodeBadRequest},
		{"quota", services.ErrQuotaExceeded, http.StatusTooManyRequests, ErrCodeQuotaExceeded},
		{"unavailable", genai.ErrUnavailable, http.StatusServiceUnavailable, ErrCodeGenUnavailable},
		{"timeout", genai.ErrTimeout, http.StatusGatewayTimeout, ErrCodeGenTimeout},
		{"request failed", genai.ErrRequestFailed, http.StatusBadGateway, ErrCodeGenFailed},
		{"empty result", genai.ErrEmptyResult, http.StatusBadGateway, ErrCodeGenEmpty},
		{"invalid title", genai.ErrInvalidTitle, http.StatusUnprocessableEntity, ErrCodeInvalidGenerated},
		{"meaningless content", genai.ErrMeaninglessContent, http.StatusUnprocessableEntity, ErrCodeInvalidGenerated},
		{"policy", services.ErrPolicyViolation, http.StatusBadRequest, ErrCodePolicyViolation},
		{"duplicate", services.ErrDuplicateContent, http.StatusConflict, ErrCodeDuplicateContent},
		{"category", services.ErrCategoryNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := generateRouter(stubGenSvc{
				generate: func(context.Context, string, string, services.GenerateInput) (*services.GenerateResult, error) {
					return nil, tc.err
				},
			})
			w := postGenerate(r, `{"topic":"anything"}`)
			if w.Code != tc.status {
				t.Fatalf("status = %d; want %d", w.Code, tc.status)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != tc.code {
				t.Fatalf("code = %q; want %q", resp.Code, tc.code)
			}
		})
	}
}

func TestGenerate_RecordsIdempotencyOnSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type recorded struct{ userID, scope, key, slug string }
	var rec *recorded

	h := New(stubGenSvc{
		generate: func(context.Context, string, string, services.GenerateInput) (*services.GenerateResult, error) {
			return &services.GenerateResult{
				Draft: &genai.Draft{Title: "T", Slug: "fresh-post"},
				Guide: &domain.Guide{Slug: "fresh-post"},
			}, nil
		},
	}, stubGuideSvc{}, stubBlogSvc{}, stubCatSvc{}, stubSubSvc{}, stubQuotaSvc{}, stubBotSvc{}).
		WithIdempotencyRecord(func(_ context.Context, userID, scope, key, slug string, status int) error {
			rec = &recorded{userID, scope, key, slug}
			if status != http.StatusCreated {
				t.Fatalf("status = %d", status)
			}
			return nil
		})
	r := gin.New()
	r.Use(idempotencyChain(nil))
	r.POST("/generate", h.Generate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewBufferString(`{"topic":"backups"}`))
	req.Header.Set("X-User-ID", "u1")
	req.Header.Set(middleware.HeaderIdempotencyKey, "retry-7")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}

	if rec == nil {
		t.Fatalf("result was not recorded")
	}
	if rec.userID != "u1" || rec.scope != "POST /generate" || rec.key != "retry-7" || rec.slug != "fresh-post" {
		t.Fatalf("recorded = %+v", rec)
	}

	// Without the header nothing is recorded.
	rec = nil
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/generate", bytes.NewBufferString(`{"topic":"backups"}`)))
	if w.Code != http.StatusCreated || rec != nil {
		t.Fatalf("status=%d recorded=%+v", w.Code, rec)
	}
}

func TestGenerate_ServesReplayWithoutPipeline(t *testing.T) {
	gin.SetMode(gin.TestMode)

	pipelineRuns := 0
	gen := stubGenSvc{
		generate: func(context.Context, string, string, services.GenerateInput) (*services.GenerateResult, error) {
			pipelineRuns++
			return &services.GenerateResult{
				Draft: &genai.Draft{Slug: "new-run"},
				Guide: &domain.Guide{Slug: "new-run"},
			}, nil
		},
	}
	guides := stubGuideSvc{
		get: func(_ context.Context, slug string) (*domain.Guide, error) {
			if slug == "stored-post" {
				return &domain.Guide{Slug: slug, Title: "Stored"}, nil
			}
			return nil, services.ErrGuideNotFound
		},
	}
	blogs := stubBlogSvc{
		get: func(context.Context, string) (*domain.Blog, error) {
			return nil, services.ErrBlogNotFound
		},
	}
	lookup := func(_ context.Context, _, _, key string, _ time.Time) (string, bool, error) {
		if key == "seen-before" {
			return "stored-post", true, nil
		}
		if key == "seen-but-deleted" {
			return "gone-post", true, nil
		}
		return "", false, nil
	}

	h := New(gen, guides, blogs, stubCatSvc{}, stubSubSvc{}, stubQuotaSvc{}, stubBotSvc{})
	r := gin.New()
	r.Use(idempotencyChain(lookup))
	r.POST("/generate", h.Generate)

	// Replay: answered from the content store, pipeline untouched.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewBufferString(`{"topic":"backups"}`))
	req.Header.Set(middleware.HeaderIdempotencyKey, "seen-before")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("replay status = %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"stored-post"`) || pipelineRuns != 0 {
		t.Fatalf("runs=%d body=%s", pipelineRuns, w.Body.String())
	}

	// Record outlived the content: falls through to a fresh run.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/generate", bytes.NewBufferString(`{"topic":"backups"}`))
	req.Header.Set(middleware.HeaderIdempotencyKey, "seen-but-deleted")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated || pipelineRuns != 1 {
		t.Fatalf("fallthrough status=%d runs=%d", w.Code, pipelineRuns)
	}
}

// idempotencyChain builds the validator the router installs in front of the
// generation endpoint.
func idempotencyChain(lookup middleware.IdempotencyLookup) gin.HandlerFunc {
	return middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, lookup)
}

func TestGenerate_BackendDetailNeverLeaks(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			"wrapped credential error",
			fmt.Errorf("%w: %v", genai.ErrRequestFailed, "401 Incorrect API key provided: sk-proj-SECRET123"),
			genai.ErrRequestFailed.Error(),
		},
		{
			"unknown storage error",
			errors.New("dial tcp 10.0.0.5:5432: password=hunter2"),
			"internal error",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := generateRouter(stubGenSvc{
				generate: func(context.Context, string, string, services.GenerateInput) (*services.GenerateResult, error) {
					return nil, tc.err
				},
			})
			w := postGenerate(r, `{"topic":"anything"}`)

			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Message != tc.want {
				t.Fatalf("message = %q; want %q", resp.Message, tc.want)
			}
			if strings.Contains(w.Body.String(), "SECRET123") || strings.Contains(w.Body.String(), "hunter2") {
				t.Fatalf("backend detail leaked: %s", w.Body.String())
			}
		})
	}
}

func TestGenerationOutcome(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{services.ErrQuotaExceeded, "quota_exceeded"},
		{services.ErrPolicyViolation, "policy_violation"},
		{services.ErrDuplicateContent, "duplicate"},
		{genai.ErrInvalidTitle, "invalid_content"},
		{genai.ErrMeaninglessContent, "invalid_content"},
		{genai.ErrEmptyResult, "invalid_content"},
		{genai.ErrUnavailable, "backend_error"},
		{genai.ErrTimeout, "backend_error"},
		{genai.ErrRequestFailed, "backend_error"},
		{errors.New("boom"), "error"},
	}
	for _, tc := range cases {
		if got := generationOutcome(tc.err); got != tc.want {
			t.Fatalf("generationOutcome(%v) = %q; want %q", tc.err, got, tc.want)
		}
	}
}

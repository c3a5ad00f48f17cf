package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestHelpers_GetIdempotencyKey_ReplaySlug_UserIDFromCtx(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	// Defaults: nothing stashed.
	if k, ok := GetIdempotencyKey(c); ok || k != "" {
		t.Fatalf("expected no key by default, got %q ok=%v", k, ok)
	}
	if IsReplay(c) {
		t.Fatalf("expected IsReplay=false by default")
	}
	if s, ok := ReplaySlug(c); ok || s != "" {
		t.Fatalf("expected no replay slug by default, got %q", s)
	}

	// Stashed key round-trips.
	c.Set(ctxKeyIdemKey, "abc-123")
	if k, ok := GetIdempotencyKey(c); !ok || k != "abc-123" {
		t.Fatalf("expected key abc-123, got %q ok=%v", k, ok)
	}

	// Stashed slug flips IsReplay.
	c.Set(ctxKeyIdemSlug, "how-to-train-a-model")
	if !IsReplay(c) {
		t.Fatalf("expected IsReplay=true")
	}
	if s, _ := ReplaySlug(c); s != "how-to-train-a-model" {
		t.Fatalf("unexpected replay slug %q", s)
	}

	// Non-string values are ignored.
	c.Set(ctxKeyIdemSlug, 42)
	if IsReplay(c) {
		t.Fatalf("expected IsReplay=false for non-string slug")
	}

	// userIDFromCtx: context value wins, header next, fallback last.
	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Request = httptest.NewRequest(http.MethodPost, "/generate", nil)
	if got := userIDFromCtx(c2); got != "demo-user" {
		t.Fatalf("expected demo-user fallback, got %q", got)
	}
	c2.Request.Header.Set("X-User-ID", "hdr-user")
	if got := userIDFromCtx(c2); got != "hdr-user" {
		t.Fatalf("expected header user, got %q", got)
	}
	c2.Set("userID", "ctx-user")
	if got := userIDFromCtx(c2); got != "ctx-user" {
		t.Fatalf("expected context user, got %q", got)
	}
}

func TestIdempotencyValidator_NoHeader_IsNoop(t *testing.T) {
	gin.SetMode(gin.TestMode)

	lookupCalled := false
	lookup := func(_ context.Context, _, _, _ string, _ time.Time) (string, bool, error) {
		lookupCalled = true
		return "", false, nil
	}

	r := gin.New()
	r.Use(IdempotencyValidator(IdempotencyOptions{}, lookup))
	r.POST("/generate", func(c *gin.Context) {
		if _, ok := GetIdempotencyKey(c); ok {
			t.Fatalf("expected no key stashed without header")
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/generate", nil))

	if w.Code != http.StatusNoContent {
		t.Fatalf("unexpected status %d", w.Code)
	}
	if lookupCalled {
		t.Fatalf("lookup should not be called when header missing")
	}
}

func TestIdempotencyValidator_RejectsBadKeys(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(IdempotencyValidator(IdempotencyOptions{MaxLen: 16}, nil))
	r.POST("/generate", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for name, key := range map[string]string{
		"too long":      strings.Repeat("a", 17),
		"bad character": "abc def",
		"unicode":       "ключ",
	} {
		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		req.Header.Set(HeaderIdempotencyKey, key)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, w.Code)
		}
	}
}

func TestIdempotencyValidator_LookupMissAndHit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("nil lookup stashes key only", func(t *testing.T) {
		r := gin.New()
		r.Use(IdempotencyValidator(IdempotencyOptions{}, nil))
		r.POST("/generate", func(c *gin.Context) {
			if k, ok := GetIdempotencyKey(c); !ok || k != "retry-1" {
				t.Fatalf("expected key retry-1 stashed, got %q", k)
			}
			if IsReplay(c) || IsRateBypass(c) {
				t.Fatalf("expected no replay flags with nil lookup")
			}
			c.Status(http.StatusNoContent)
		})
		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		req.Header.Set(HeaderIdempotencyKey, "retry-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNoContent {
			t.Fatalf("unexpected status %d", w.Code)
		}
	})

	t.Run("miss leaves replay flags unset", func(t *testing.T) {
		lookup := func(_ context.Context, userID, scope, key string, now time.Time) (string, bool, error) {
			if userID == "" || scope == "" || key == "" || now.IsZero() {
				t.Fatalf("lookup args not populated: uid=%q scope=%q key=%q now=%v", userID, scope, key, now)
			}
			return "", false, nil
		}
		r := gin.New()
		r.Use(IdempotencyValidator(IdempotencyOptions{}, lookup))
		r.POST("/generate", func(c *gin.Context) {
			if IsReplay(c) || IsRateBypass(c) {
				t.Fatalf("expected no replay flags on miss")
			}
			c.Status(http.StatusNoContent)
		})
		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		req.Header.Set(HeaderIdempotencyKey, "retry-2")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNoContent {
			t.Fatalf("unexpected status %d", w.Code)
		}
	})

	t.Run("hit stashes slug and rate bypass, passes scope", func(t *testing.T) {
		var gotScope, gotUser string
		lookup := func(_ context.Context, userID, scope, key string, _ time.Time) (string, bool, error) {
			gotScope, gotUser = scope, userID
			return "stored-slug", true, nil
		}
		r := gin.New()
		r.Use(IdempotencyValidator(IdempotencyOptions{}, lookup))
		r.POST("/generate", func(c *gin.Context) {
			slug, ok := ReplaySlug(c)
			if !ok || slug != "stored-slug" {
				t.Fatalf("expected stored slug, got %q ok=%v", slug, ok)
			}
			if !IsRateBypass(c) {
				t.Fatalf("expected rate bypass on replay")
			}
			c.Status(http.StatusNoContent)
		})
		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		req.Header.Set(HeaderIdempotencyKey, "retry-3")
		req.Header.Set("X-User-ID", "user-9")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNoContent {
			t.Fatalf("unexpected status %d", w.Code)
		}
		if gotScope != "POST /generate" {
			t.Fatalf("unexpected scope %q", gotScope)
		}
		if gotUser != "user-9" {
			t.Fatalf("unexpected user %q", gotUser)
		}
	})
}

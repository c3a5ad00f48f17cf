// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/n0social/verbshift-api/internal/config"
	"github.com/n0social/verbshift-api/internal/genai"
	"github.com/n0social/verbshift-api/internal/http/handlers"
	"github.com/n0social/verbshift-api/internal/http/middleware"
	"github.com/n0social/verbshift-api/internal/repo"
	"github.com/n0social/verbshift-api/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the versioned public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Gzip compression (markdown bodies compress well)
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, gen genai.TextGenerator, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key",
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Response compression. Generated guides are multi-KiB markdown.
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userID, scope, key string, now time.Time) (string, bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, scope, key, now)
			if err != nil || rec == nil {
				return "", false, nil
			}
			return rec.Slug, true, nil
		},
	))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", "X-User-Role", middleware.HeaderIdempotencyKey}
	exposeHeaders := []string{"X-Request-ID", "Content-Length", "ETag"}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (opt-in; mounted outside the API group)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/generator
	quotaSvc := services.NewQuotaService(db,
		cfg.Tiers.FreeLimit, cfg.Tiers.BasicLimit, cfg.Tiers.PremiumLimit,
		cfg.Tiers.ExemptRoles,
	)
	guideSvc := services.NewGuideService(db)
	blogSvc := services.NewBlogService(db)
	catSvc := services.NewCategoryService(db)
	subSvc := services.NewSubscriptionService(db)

	composer := &genai.Composer{MaxEmojis: cfg.OpenAI.MaxEmojis}
	genSvc := &services.GenerationService{
		DB:        db,
		Quota:     quotaSvc,
		Composer:  composer,
		Generator: gen,
		Parser:    genai.NewParser(genai.ParserConfig{}),
		Policy:    genai.NewPolicy(),
		Guides:    guideSvc,
		Blogs:     blogSvc,
		Params: services.GenerationParams{
			GuideMaxTokens:   cfg.OpenAI.GuideMaxTokens,
			GuideTemperature: cfg.OpenAI.GuideTemperature,
			BlogMaxTokens:    cfg.OpenAI.BlogMaxTokens,
			BlogTemperature:  cfg.OpenAI.BlogTemperature,
		},
	}

	botSvc := services.NewBotService(db, composer, gen, cfg.Bot.AuthorID)
	botSvc.TrendingBias = cfg.Bot.TrendingBias
	botSvc.MaxTokens = cfg.OpenAI.GuideMaxTokens
	botSvc.Temperature = cfg.OpenAI.GuideTemperature

	h := handlers.New(genSvc, guideSvc, blogSvc, catSvc, subSvc, quotaSvc, botSvc).
		WithIdempotencyRecord(func(ctx context.Context, userID, scope, key, slug string, status int) error {
			_, err := repo.CreateIdempotency(ctx, db, userID, scope, key, slug, status, cfg.IdempotencyTTL)
			if err == repo.ErrDuplicate {
				// Concurrent retry already recorded the same tuple.
				return nil
			}
			return err
		})

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Generation
		api.POST("/generate", h.Generate)

		// Guides
		api.GET("/guides", h.ListGuides)
		api.GET("/guides/search", h.SearchGuides)
		api.GET("/guides/:slug", h.GetGuide)
		api.POST("/guides", h.CreateGuide)

		// Blogs
		api.GET("/blogs", h.ListBlogs)
		api.GET("/blogs/search", h.SearchBlogs)
		api.GET("/blogs/:slug", h.GetBlog)
		api.POST("/blogs", h.CreateBlog)

		// Categories
		api.GET("/categories", h.ListCategories)

		// Account
		api.GET("/me/subscription", h.GetSubscription)
		api.PUT("/me/subscription", h.UpdateSubscription)
		api.GET("/me/quota", h.GetQuota)

		// Admin
		api.POST("/admin/bot/run", h.RunBot)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

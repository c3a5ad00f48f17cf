// Package services – GenerationService
//
// This file implements the content-generation pipeline: quota gate, prompt
// composition, external model call, markdown parsing, and the policy guard.
// The pipeline is sequential per request; each stage returns a sentinel error
// that the handler layer maps onto a distinct HTTP status.
//
// Policy enforcement is asymmetric on purpose: a blocked verdict aborts only
// publish requests, while draft requests still succeed and carry the verdict
// back to the caller as an advisory flag.
//
// Observability: Generate is OpenTelemetry-instrumented with one child span
// per pipeline stage so slow model calls are visible in traces.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/n0social/verbshift-api/internal/domain"
	"github.com/n0social/verbshift-api/internal/genai"
)

// QuotaChecker is the quota contract required by GenerationService.
type QuotaChecker interface {
	Check(ctx context.Context, userID, role string) error
}

// GenerationParams carries per-content-type sampling settings for the model.
type GenerationParams struct {
	GuideMaxTokens   int64
	GuideTemperature float64
	BlogMaxTokens    int64
	BlogTemperature  float64
}

// GenerationService orchestrates the full topic-to-post pipeline.
type GenerationService struct {
	DB        *gorm.DB
	Quota     QuotaChecker
	Composer  *genai.Composer
	Generator genai.TextGenerator
	Parser    *genai.Parser
	Policy    *genai.Policy
	Guides    *GuideService
	Blogs     *BlogService
	Params    GenerationParams
}

// GenerateInput is the validated request for a single generation run.
type GenerateInput struct {
	Topic        string
	ContentType  string // domain.ContentTypeGuide or domain.ContentTypeBlog
	Personality  string // blog tone; ignored for guides
	CategorySlug string // optional
	Publish      bool
}

// GenerateResult is the outcome of a generation run. Exactly one of Guide or
// Blog is set, matching the requested content type.
type GenerateResult struct {
	Draft   *genai.Draft
	Guide   *domain.Guide
	Blog    *domain.Blog
	Verdict genai.Verdict
}

// Generate runs quota check, prompt composition, the model call, parsing, the
// policy guard, and persistence for one request.
func (s *GenerationService) Generate(ctx context.Context, userID, role string, in GenerateInput) (*GenerateResult, error) {
	tr := otel.Tracer("services/GenerationService")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("content.type", in.ContentType),
			attribute.Bool("content.publish", in.Publish),
		),
	)
	defer span.End()

	in.Topic = strings.TrimSpace(in.Topic)
	if in.Topic == "" {
		return nil, ErrTopicRequired
	}
	switch in.ContentType {
	case domain.ContentTypeGuide, domain.ContentTypeBlog:
	default:
		return nil, ErrInvalidContentType
	}

	if err := s.Quota.Check(ctx, userID, role); err != nil {
		span.SetStatus(codes.Error, "quota")
		return nil, err
	}

	prompt, maxTokens, temperature := s.compose(in)

	_, callSpan := tr.Start(ctx, "model.generate",
		trace.WithAttributes(attribute.Int64("model.max_tokens", maxTokens)),
	)
	raw, err := s.Generator.Generate(ctx, prompt, maxTokens, temperature)
	callSpan.End()
	if err != nil {
		span.SetStatus(codes.Error, "model")
		return nil, err
	}

	draft, err := s.Parser.Parse(raw, in.Topic, in.ContentType)
	if err != nil {
		span.SetStatus(codes.Error, "parse")
		return nil, err
	}

	verdict := s.Policy.Check(draft.Title, draft.Excerpt, draft.Content)
	if !verdict.Allowed && in.Publish {
		span.SetAttributes(attribute.String("policy.reason", verdict.Reason))
		span.SetStatus(codes.Error, "policy")
		return nil, ErrPolicyViolation
	}

	res := &GenerateResult{Draft: draft, Verdict: verdict}
	switch in.ContentType {
	case domain.ContentTypeGuide:
		g, err := s.Guides.CreateFromDraft(ctx, userID, draft, in.CategorySlug, in.Publish)
		if err != nil {
			return nil, err
		}
		res.Guide = g
	case domain.ContentTypeBlog:
		b, err := s.Blogs.CreateFromDraft(ctx, userID, draft, in.CategorySlug, in.Publish)
		if err != nil {
			return nil, err
		}
		res.Blog = b
	}
	return res, nil
}

// compose picks the prompt and sampling parameters for the request.
func (s *GenerationService) compose(in GenerateInput) (prompt string, maxTokens int64, temperature float64) {
	if in.ContentType == domain.ContentTypeBlog {
		tone, _ := genai.ParseTone(in.Personality)
		return s.Composer.BlogPrompt(in.Topic, tone), s.Params.BlogMaxTokens, s.Params.BlogTemperature
	}
	return s.Composer.GuidePrompt(in.Topic), s.Params.GuideMaxTokens, s.Params.GuideTemperature
}

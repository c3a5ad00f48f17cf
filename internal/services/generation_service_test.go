package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/n0social/verbshift-api/internal/domain"
	"github.com/n0social/verbshift-api/internal/genai"
	"github.com/n0social/verbshift-api/internal/repo"
)

// newServiceDB opens a throwaway SQLite database with the full schema.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("svc_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name, slug string) *domain.Category {
	t.Helper()
	c := &domain.Category{ID: "cat-" + slug, Name: name, Slug: slug, CreatedAt: time.Now().UTC()}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

// fakeGenerator records the last call and returns canned output.
type fakeGenerator struct {
	calls       int
	prompt      string
	maxTokens   int64
	temperature float64

	out string
	err error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, maxTokens int64, temperature float64) (string, error) {
	f.calls++
	f.prompt = prompt
	f.maxTokens = maxTokens
	f.temperature = temperature
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

// validGuideMarkdown builds model output that clears every content gate.
func validGuideMarkdown(title string) string {
	return "# " + title + "\n\n" +
		strings.Repeat("Follow each step carefully and verify the result before moving on. ", 6) +
		"\n\nReferences:\nhttps://example.com/docs\n"
}

func newGenService(db *gorm.DB, gen genai.TextGenerator) *GenerationService {
	return &GenerationService{
		DB:        db,
		Quota:     NewQuotaService(db, 5, 20, 100, []string{"admin"}),
		Composer:  genai.NewComposer(),
		Generator: gen,
		Parser:    genai.NewParser(genai.ParserConfig{}),
		Policy:    genai.NewPolicy(),
		Guides:    NewGuideService(db),
		Blogs:     NewBlogService(db),
		Params: GenerationParams{
			GuideMaxTokens:   1800,
			GuideTemperature: 0.7,
			BlogMaxTokens:    700,
			BlogTemperature:  0.95,
		},
	}
}

// ----- Tests -----

func TestGenerate_GuideDraftPersists(t *testing.T) {
	db := newServiceDB(t)
	seedCategory(t, db, "ML", "ml")
	gen := &fakeGenerator{out: validGuideMarkdown("Train Your First Model")}
	svc := newGenService(db, gen)

	res, err := svc.Generate(context.Background(), "u1", "user", GenerateInput{
		Topic:        "training models",
		ContentType:  domain.ContentTypeGuide,
		CategorySlug: "ml",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Guide == nil || res.Blog != nil {
		t.Fatalf("expected guide result, got %+v", res)
	}
	if res.Guide.Published {
		t.Fatalf("draft request must not publish")
	}
	if res.Guide.CategoryID != "cat-ml" {
		t.Fatalf("category not resolved: %+v", res.Guide)
	}
	if !res.Verdict.Allowed {
		t.Fatalf("clean content should pass policy: %+v", res.Verdict)
	}

	// Persisted and retrievable.
	stored, err := repo.GetGuideBySlug(context.Background(), db, res.Guide.Slug)
	if err != nil {
		t.Fatalf("stored guide missing: %v", err)
	}
	if stored.AuthorID != "u1" {
		t.Fatalf("author = %q", stored.AuthorID)
	}

	// Guide requests use guide sampling and the how-to prompt.
	if gen.maxTokens != 1800 || gen.temperature != 0.7 {
		t.Fatalf("sampling = (%d, %v)", gen.maxTokens, gen.temperature)
	}
	if !strings.Contains(gen.prompt, "how-to guide") {
		t.Fatalf("prompt = %q", gen.prompt)
	}
}

func TestGenerate_BlogUsesToneAndBlogSampling(t *testing.T) {
	db := newServiceDB(t)
	gen := &fakeGenerator{out: validGuideMarkdown("Why Slow Mornings Win")}
	svc := newGenService(db, gen)

	res, err := svc.Generate(context.Background(), "u1", "user", GenerateInput{
		Topic:       "slow mornings",
		ContentType: domain.ContentTypeBlog,
		Personality: "witty",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Blog == nil || res.Guide != nil {
		t.Fatalf("expected blog result, got %+v", res)
	}
	if res.Draft.References != nil {
		t.Fatalf("blog drafts carry no references: %+v", res.Draft)
	}
	if gen.maxTokens != 700 || gen.temperature != 0.95 {
		t.Fatalf("sampling = (%d, %v)", gen.maxTokens, gen.temperature)
	}
	if !strings.Contains(gen.prompt, "playful writer") {
		t.Fatalf("witty voice missing from prompt: %q", gen.prompt)
	}
}

func TestGenerate_InputValidation(t *testing.T) {
	db := newServiceDB(t)
	gen := &fakeGenerator{out: "unused"}
	svc := newGenService(db, gen)
	ctx := context.Background()

	if _, err := svc.Generate(ctx, "u1", "user", GenerateInput{Topic: "   ", ContentType: "guide"}); !errors.Is(err, ErrTopicRequired) {
		t.Fatalf("want ErrTopicRequired, got %v", err)
	}
	if _, err := svc.Generate(ctx, "u1", "user", GenerateInput{Topic: "x", ContentType: "poem"}); !errors.Is(err, ErrInvalidContentType) {
		t.Fatalf("want ErrInvalidContentType, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("generator must not run on invalid input")
	}
}

func TestGenerate_QuotaExceededSkipsModelCall(t *testing.T) {
	db := newServiceDB(t)
	gen := &fakeGenerator{out: validGuideMarkdown("Should Not Run")}
	svc := newGenService(db, gen)
	svc.Quota = NewQuotaService(db, 0, 0, 0, nil) // zero allowance everywhere

	_, err := svc.Generate(context.Background(), "u1", "user", GenerateInput{
		Topic:       "anything",
		ContentType: domain.ContentTypeGuide,
	})
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("want ErrQuotaExceeded, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("model was called despite exhausted quota")
	}
}

func TestGenerate_BackendErrorPropagates(t *testing.T) {
	db := newServiceDB(t)
	gen := &fakeGenerator{err: genai.ErrUnavailable}
	svc := newGenService(db, gen)

	_, err := svc.Generate(context.Background(), "u1", "user", GenerateInput{
		Topic:       "anything",
		ContentType: domain.ContentTypeGuide,
	})
	if !errors.Is(err, genai.ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}

func TestGenerate_ParseFailure(t *testing.T) {
	db := newServiceDB(t)
	gen := &fakeGenerator{out: "# ab\ntiny"}
	svc := newGenService(db, gen)

	_, err := svc.Generate(context.Background(), "u1", "user", GenerateInput{
		Topic:       "anything",
		ContentType: domain.ContentTypeGuide,
	})
	if !errors.Is(err, genai.ErrInvalidTitle) {
		t.Fatalf("want ErrInvalidTitle, got %v", err)
	}
}

func TestGenerate_PolicyAsymmetry(t *testing.T) {
	db := newServiceDB(t)
	blocked := validGuideMarkdown("Understanding Violence in Cinema")
	gen := &fakeGenerator{out: blocked}
	svc := newGenService(db, gen)
	ctx := context.Background()

	// Publish request: blocked verdict aborts, nothing persisted.
	_, err := svc.Generate(ctx, "u1", "user", GenerateInput{
		Topic:       "film history",
		ContentType: domain.ContentTypeGuide,
		Publish:     true,
	})
	if !errors.Is(err, ErrPolicyViolation) {
		t.Fatalf("want ErrPolicyViolation, got %v", err)
	}
	var count int64
	if err := db.Model(&domain.Guide{}).Count(&count).Error; err != nil || count != 0 {
		t.Fatalf("guides persisted = %d, err %v; want 0", count, err)
	}

	// Draft request: succeeds with an advisory verdict.
	res, err := svc.Generate(ctx, "u1", "user", GenerateInput{
		Topic:       "film history",
		ContentType: domain.ContentTypeGuide,
	})
	if err != nil {
		t.Fatalf("draft Generate: %v", err)
	}
	if res.Verdict.Allowed || res.Verdict.Reason != "violence-related content" {
		t.Fatalf("verdict = %+v", res.Verdict)
	}
	if res.Guide == nil || res.Guide.Published {
		t.Fatalf("draft not persisted correctly: %+v", res.Guide)
	}
}

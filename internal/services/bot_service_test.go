package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/n0social/verbshift-api/internal/domain"
	"github.com/n0social/verbshift-api/internal/genai"
	"github.com/n0social/verbshift-api/internal/repo"
)

func newBotService(t *testing.T, gen genai.TextGenerator) (*BotService, *domain.Category) {
	t.Helper()
	db := newServiceDB(t)
	cat := seedCategory(t, db, "Getting Started", "getting-started")
	svc := NewBotService(db, genai.NewComposer(), gen, "guide-bot")
	svc.Seed(42)
	return svc, cat
}

func TestBotRun_PublishesGuide(t *testing.T) {
	gen := &fakeGenerator{out: validGuideMarkdown("Automate Your Weekly Reports")}
	svc, cat := newBotService(t, gen)

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Created || res.Guide == nil {
		t.Fatalf("expected a created guide, got %+v", res)
	}
	if res.Topic == "" {
		t.Fatalf("topic not reported")
	}
	if !res.Guide.Published || res.Guide.Featured {
		t.Fatalf("bot guides publish unfeatured: %+v", res.Guide)
	}
	if res.Guide.AuthorID != "guide-bot" || res.Guide.CategoryID != cat.ID {
		t.Fatalf("ownership fields: %+v", res.Guide)
	}

	// Prompt carries the expert-writer framing plus the varied knobs.
	if !strings.Contains(gen.prompt, "You are an expert technical writer. Write a ") {
		t.Fatalf("prompt = %q", gen.prompt)
	}
	if !strings.Contains(gen.prompt, res.Topic) {
		t.Fatalf("topic missing from prompt %q", gen.prompt)
	}

	if _, err := repo.GetGuideBySlug(context.Background(), svc.DB, res.Guide.Slug); err != nil {
		t.Fatalf("guide not persisted: %v", err)
	}
}

func TestBotRun_NoCategoriesIsSkip(t *testing.T) {
	db := newServiceDB(t)
	gen := &fakeGenerator{out: validGuideMarkdown("Never Used")}
	svc := NewBotService(db, genai.NewComposer(), gen, "guide-bot")
	svc.Seed(1)

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Created || res.Message != "no categories found" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if gen.calls != 0 {
		t.Fatalf("model called without categories")
	}
}

func TestBotRun_SimilarTitleIsSkip(t *testing.T) {
	gen := &fakeGenerator{out: validGuideMarkdown("How to Back Up Your Laptop Nightly")}
	svc, cat := newBotService(t, gen)
	ctx := context.Background()

	// Existing guide sharing the first four title words triggers the
	// similarity skip.
	existing := &domain.Guide{
		Title:      "How to Back Up Kubernetes Volumes",
		Slug:       "existing-backup-guide",
		Content:    "body",
		AuthorID:   "someone",
		CategoryID: cat.ID,
	}
	if _, err := repo.CreateGuide(ctx, svc.DB, existing); err != nil {
		t.Fatalf("seed guide: %v", err)
	}

	res, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Created {
		t.Fatalf("similar title should skip, got %+v", res)
	}
	if !strings.Contains(res.Message, "similar guide already exists") {
		t.Fatalf("message = %q", res.Message)
	}
}

func TestBotRun_InvalidGenerationIsSkip(t *testing.T) {
	gen := &fakeGenerator{out: "# ab\ntiny"}
	svc, _ := newBotService(t, gen)

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Created || res.Message != "generated content failed validation" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestBotRun_PolicyBlockIsSkip(t *testing.T) {
	gen := &fakeGenerator{out: validGuideMarkdown("Writing About Violence Responsibly")}
	svc, _ := newBotService(t, gen)

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Created || !strings.HasPrefix(res.Message, "content blocked by policy: ") {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestBotRun_BackendErrorIsError(t *testing.T) {
	gen := &fakeGenerator{err: genai.ErrRequestFailed}
	svc, _ := newBotService(t, gen)

	if _, err := svc.Run(context.Background()); !errors.Is(err, genai.ErrRequestFailed) {
		t.Fatalf("want ErrRequestFailed, got %v", err)
	}
}

func TestBotPickTopic_TrendingBias(t *testing.T) {
	db := newServiceDB(t)
	svc := NewBotService(db, genai.NewComposer(), &fakeGenerator{}, "guide-bot")
	svc.Seed(7)

	// Bias 1.0 always draws from the trending list.
	svc.TrendingBias = 1
	trending := map[string]bool{}
	for _, tp := range botTrendingTopics {
		trending[tp] = true
	}
	for i := 0; i < 50; i++ {
		if topic := svc.pickTopic(); !trending[topic] {
			t.Fatalf("non-trending topic %q under full bias", topic)
		}
	}

	// Bias 0 never does.
	svc.TrendingBias = 0
	for i := 0; i < 50; i++ {
		topic := svc.pickTopic()
		found := false
		for _, pool := range botTopicPools {
			for _, cand := range pool.Topics {
				if cand == topic {
					found = true
				}
			}
		}
		if !found {
			t.Fatalf("topic %q not from any pool", topic)
		}
	}
}

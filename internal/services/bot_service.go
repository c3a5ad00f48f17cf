// Package services – BotService
//
// This file implements the automated guide generator. Each run draws a topic
// (trending topics win a configurable fraction of the time), varies the
// presentation with random format/audience/depth picks, generates a guide,
// and publishes it under the bot author when it clears the title, duplicate,
// content, and policy gates.
//
// A run that fails a content gate is a skip, not an error: the result carries
// the reason and the caller decides whether to retry later. Hard failures
// (database, generation backend) surface as errors.
package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/n0social/verbshift-api/internal/domain"
	"github.com/n0social/verbshift-api/internal/genai"
	"github.com/n0social/verbshift-api/internal/repo"
)

// botTopicPool groups candidate topics by theme. Themes are prompt material
// only; the stored category is drawn from the categories table.
type botTopicPool struct {
	Theme  string
	Topics []string
}

var botTopicPools = []botTopicPool{
	{
		Theme: "AI & Machine Learning",
		Topics: []string{
			"How do I train a neural network for image classification?",
			"What is overfitting in machine learning and how can I prevent it?",
			"How do I use transfer learning in deep learning?",
			"How do I deploy a machine learning model to production?",
			"How do I interpret SHAP values in model explainability?",
			"How do I use reinforcement learning for game AI?",
			"How do I use AI for climate change research?",
			"How do I use ChatGPT for business automation?",
		},
	},
	{
		Theme: "IT & Troubleshooting",
		Topics: []string{
			"How do I troubleshoot a slow computer?",
			"How do I recover deleted files on Windows?",
			"How do I fix printer connection issues?",
			"How do I set up a VPN for remote work?",
			"How do I secure my crypto wallet?",
		},
	},
	{
		Theme: "Software & Productivity",
		Topics: []string{
			"How do I automate tasks with Zapier?",
			"How do I create formulas in Excel?",
			"How do I use Notion for project management?",
			"How do I set up email filters in Gmail?",
			"How do I organize files in Google Drive?",
		},
	},
	{
		Theme: "Web Development",
		Topics: []string{
			"How do I build a responsive website with Tailwind CSS?",
			"How do I deploy a Next.js app to Vercel?",
			"How do I create a REST API with Express.js?",
			"How do I optimize images for the web?",
			"How do I set up SEO for a blog?",
		},
	},
	{
		Theme: "Design & Creativity",
		Topics: []string{
			"How do I design a logo in Figma?",
			"How do I create social media graphics in Canva?",
			"How do I animate SVGs for the web?",
			"How do I create viral TikTok content?",
			"How do I get started with drone photography?",
		},
	},
	{
		Theme: "Business & Personal Growth",
		Topics: []string{
			"How do I start a meditation practice?",
			"How do I improve sleep quality?",
			"How do I improve my public speaking confidence?",
			"How do I manage stress at work?",
			"How do I build resilience and emotional intelligence?",
			"How do I improve work-life balance?",
			"How do I write a business plan?",
			"How do I run a successful email marketing campaign?",
			"How do I set up an online store with Shopify?",
			"How do I analyze website traffic with Google Analytics?",
			"How do I manage remote teams effectively?",
			"How do I start a podcast?",
			"How do I create a personal budget?",
			"How do I start investing in stocks?",
			"How do I understand cryptocurrency basics?",
		},
	},
	{
		Theme: "Science & Education",
		Topics: []string{
			"How do I conduct a simple chemistry experiment at home?",
			"How do I learn astronomy basics?",
			"How do I build a model rocket?",
			"How do I teach about renewable energy?",
		},
	},
}

// botTrendingTopics is a static stand-in until a real trends feed is wired.
var botTrendingTopics = []string{
	"How do I use AI for climate change research?",
	"How do I create viral TikTok content?",
	"How do I secure my crypto wallet?",
	"How do I use ChatGPT for business automation?",
	"How do I get started with drone photography?",
}

var botFormats = []string{
	"step-by-step guide",
	"FAQ",
	"checklist",
	"troubleshooting manual",
	"case study",
	"quick tips",
	"story format",
	"visual walkthrough",
}

var botAudiences = []string{
	"for beginners",
	"for advanced users",
	"for professionals",
	"for hobbyists",
	"for educators",
	"for business owners",
}

var botDepths = []string{
	"Include advanced tips and troubleshooting.",
	"Add a real-world case study or example.",
	"Explain common mistakes and how to avoid them.",
	"Provide a checklist for success.",
	"Suggest resources for further learning.",
	"Break down the process for beginners and experts.",
	"Highlight industry best practices.",
	"Include a summary and actionable next steps.",
}

// duplicateTitleWords is how many leading title words the similarity
// heuristic matches on.
const duplicateTitleWords = 4

// BotService runs unattended guide generation.
type BotService struct {
	DB        *gorm.DB
	Composer  *genai.Composer
	Generator genai.TextGenerator
	Parser    *genai.Parser
	Policy    *genai.Policy

	// AuthorID is the user the bot publishes as.
	AuthorID string

	// TrendingBias is the probability of drawing from the trending list.
	TrendingBias float64

	// MaxTokens and Temperature are the model sampling settings for bot runs.
	MaxTokens   int64
	Temperature float64

	rng *rand.Rand
}

// NewBotService constructs a BotService seeded from the wall clock.
func NewBotService(db *gorm.DB, composer *genai.Composer, gen genai.TextGenerator, authorID string) *BotService {
	return &BotService{
		DB:           db,
		Composer:     composer,
		Generator:    gen,
		Parser:       genai.NewParser(genai.ParserConfig{}),
		Policy:       genai.NewPolicy(),
		AuthorID:     authorID,
		TrendingBias: 0.2,
		MaxTokens:    1800,
		Temperature:  0.7,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed resets the internal random source; used to make runs reproducible.
func (s *BotService) Seed(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
}

// BotRunResult reports the outcome of one bot run. Created is false when a
// content gate skipped the run; Message explains why.
type BotRunResult struct {
	Created bool          `json:"created"`
	Message string        `json:"message"`
	Topic   string        `json:"topic,omitempty"`
	Guide   *domain.Guide `json:"guide,omitempty"`
}

// Run executes one full bot cycle: topic selection, generation, gates, and
// publication.
func (s *BotService) Run(ctx context.Context) (*BotRunResult, error) {
	tr := otel.Tracer("services/BotService")
	ctx, span := tr.Start(ctx, "Run")
	defer span.End()

	topic := s.pickTopic()
	span.SetAttributes(attribute.String("bot.topic", topic))

	format := botFormats[s.rng.Intn(len(botFormats))]
	audience := botAudiences[s.rng.Intn(len(botAudiences))]
	depth := botDepths[s.rng.Intn(len(botDepths))]
	prompt := s.Composer.BotPrompt(format, audience, topic, depth)

	cats, err := repo.ListCategories(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return &BotRunResult{Message: "no categories found", Topic: topic}, nil
	}
	category := cats[s.rng.Intn(len(cats))]

	raw, err := s.Generator.Generate(ctx, prompt, s.MaxTokens, s.Temperature)
	if err != nil {
		return nil, err
	}

	draft, err := s.Parser.Parse(raw, topic, domain.ContentTypeGuide)
	if err != nil {
		if errors.Is(err, genai.ErrInvalidTitle) || errors.Is(err, genai.ErrMeaninglessContent) || errors.Is(err, genai.ErrEmptyResult) {
			return &BotRunResult{Message: "generated content failed validation", Topic: topic}, nil
		}
		return nil, err
	}

	// Similarity heuristic: an existing guide whose title contains the first
	// few words of the new title counts as a duplicate.
	fragment := genai.FirstWords(draft.Title, duplicateTitleWords)
	similar, err := repo.FindGuideTitleLike(ctx, s.DB, fragment)
	switch {
	case err == nil:
		return &BotRunResult{
			Message: fmt.Sprintf("similar guide already exists: %q", similar.Title),
			Topic:   topic,
		}, nil
	case !errors.Is(err, repo.ErrNotFound):
		return nil, err
	}

	if v := s.Policy.Check(draft.Title, draft.Excerpt, draft.Content); !v.Allowed {
		return &BotRunResult{Message: "content blocked by policy: " + v.Reason, Topic: topic}, nil
	}

	g := &domain.Guide{
		Title:      draft.Title,
		Slug:       draft.Slug,
		Excerpt:    draft.Excerpt,
		Content:    draft.Content,
		Published:  true,
		Featured:   false,
		ReadTime:   genai.ReadTime(draft.Content),
		AuthorID:   s.AuthorID,
		CategoryID: category.ID,
	}
	if _, err := repo.CreateGuide(ctx, s.DB, g); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("guide.slug", g.Slug))
	return &BotRunResult{
		Created: true,
		Message: "guide generated and saved: " + g.Title,
		Topic:   topic,
		Guide:   g,
	}, nil
}

// pickTopic draws a topic, preferring the trending list TrendingBias of the
// time.
func (s *BotService) pickTopic() string {
	if len(botTrendingTopics) > 0 && s.rng.Float64() < s.TrendingBias {
		return botTrendingTopics[s.rng.Intn(len(botTrendingTopics))]
	}
	pool := botTopicPools[s.rng.Intn(len(botTopicPools))]
	return pool.Topics[s.rng.Intn(len(pool.Topics))]
}

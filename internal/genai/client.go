// Package genai – generation client.
//
// This file implements the outbound call to the external text-generation
// service through the official openai-go SDK. The client performs a single
// bounded-timeout attempt by default; the attempt count is configuration so
// callers can opt into retries without changing the pipeline contract.
package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// TextGenerator abstracts the external generation service so the pipeline
// and its tests do not depend on a live API.
type TextGenerator interface {
	// Generate sends prompt as a system instruction and returns the raw
	// completion text. maxTokens bounds output length; temperature controls
	// sampling.
	Generate(ctx context.Context, prompt string, maxTokens int64, temperature float64) (string, error)
}

// ClientConfig holds the settings for the OpenAI-backed generator.
type ClientConfig struct {
	APIKey  string
	BaseURL string // optional override, e.g. a proxy
	Model   string // defaults to "gpt-4.1"
	// Timeout bounds each attempt. Defaults to 60s: generation is
	// token-bounded and can be slow.
	Timeout time.Duration
	// MaxAttempts is the number of tries per Generate call. Defaults to 1;
	// observed production behavior performs no automatic retry.
	MaxAttempts int
	// RetryDelay spaces attempts when MaxAttempts > 1.
	RetryDelay time.Duration
}

// OpenAIClient implements TextGenerator using chat completions.
type OpenAIClient struct {
	model    string
	timeout  time.Duration
	attempts int
	delay    time.Duration
	opts     []option.RequestOption
	haveKey  bool
}

// NewOpenAIClient constructs the generator. A missing API key does not fail
// construction; Generate reports ErrUnavailable instead, so the service can
// boot without credentials and surface a uniform failure to callers.
func NewOpenAIClient(cfg ClientConfig) *OpenAIClient {
	c := &OpenAIClient{
		model:    cfg.Model,
		timeout:  cfg.Timeout,
		attempts: cfg.MaxAttempts,
		delay:    cfg.RetryDelay,
		haveKey:  strings.TrimSpace(cfg.APIKey) != "",
	}
	if c.model == "" {
		c.model = "gpt-4.1"
	}
	if c.timeout <= 0 {
		c.timeout = 60 * time.Second
	}
	if c.attempts <= 0 {
		c.attempts = 1
	}
	if c.haveKey {
		c.opts = append(c.opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		c.opts = append(c.opts, option.WithBaseURL(cfg.BaseURL))
	}
	return c
}

// Generate performs up to MaxAttempts calls to the chat-completions API and
// returns the first usable completion. Failures map to the pipeline's typed
// errors; the underlying SDK error is wrapped, never surfaced verbatim to
// end users.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, maxTokens int64, temperature float64) (string, error) {
	if !c.haveKey {
		return "", ErrUnavailable
	}

	client := openai.NewClient(c.opts...)
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 && c.delay > 0 {
			select {
			case <-ctx.Done():
				return "", classifyCtxErr(ctx.Err())
			case <-time.After(c.delay):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := client.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
			Model: openai.ChatModel(c.model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(prompt),
			},
			MaxTokens:   openai.Int(maxTokens),
			Temperature: openai.Float(temperature),
		})
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				lastErr = ErrTimeout
			} else if errors.Is(err, context.Canceled) {
				return "", classifyCtxErr(err)
			} else {
				lastErr = fmt.Errorf("%w: %v", ErrRequestFailed, err)
			}
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = ErrEmptyResult
			continue
		}
		text := strings.TrimSpace(resp.Choices[0].Message.Content)
		if text == "" {
			lastErr = ErrEmptyResult
			continue
		}
		return text, nil
	}
	return "", lastErr
}

// classifyCtxErr maps a context error to the pipeline taxonomy.
func classifyCtxErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}

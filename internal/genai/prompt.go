// Package genai – prompt composition.
//
// The Composer builds the exact system instruction sent to the generation
// service. Composition is a pure function of its inputs: identical
// (contentType, topic, tone) triples always yield byte-identical prompts,
// which keeps generation runs reproducible and unit-testable.
package genai

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tone selects the writing personality for blog generation. Guides ignore
// tone entirely; they are always strict how-to documents.
type Tone string

// The fixed set of supported blog tones.
const (
	ToneFriendly      Tone = "friendly"
	ToneWitty         Tone = "witty"
	ToneProfessional  Tone = "professional"
	ToneInspirational Tone = "inspirational"
	ToneChill         Tone = "chill"
)

// Tones returns the supported tone values in a stable order.
func Tones() []Tone {
	return []Tone{ToneFriendly, ToneWitty, ToneProfessional, ToneInspirational, ToneChill}
}

// ParseTone normalizes a user-supplied tone string. Unknown or empty values
// fall back to ToneFriendly; ok reports whether the input was recognized.
func ParseTone(s string) (t Tone, ok bool) {
	switch Tone(strings.ToLower(strings.TrimSpace(s))) {
	case ToneFriendly:
		return ToneFriendly, true
	case ToneWitty:
		return ToneWitty, true
	case ToneProfessional:
		return ToneProfessional, true
	case ToneInspirational:
		return ToneInspirational, true
	case ToneChill:
		return ToneChill, true
	case "":
		return ToneFriendly, false
	default:
		return ToneFriendly, false
	}
}

// personality describes the voice used for a blog tone.
var personalityMatrix = map[Tone]string{
	ToneFriendly:      "a warm, encouraging writer who talks to the reader like a helpful friend",
	ToneWitty:         "a sharp, playful writer who uses clever turns of phrase and light humor",
	ToneProfessional:  "a precise, authoritative writer with a businesslike, confident voice",
	ToneInspirational: "an uplifting writer who motivates the reader and ends on a hopeful note",
	ToneChill:         "a relaxed, conversational writer who keeps things casual and low-pressure",
}

// Composer builds generation prompts. The emoji budget is injected rather
// than hardcoded so callers can tighten or relax decoration limits without
// touching prompt text elsewhere.
type Composer struct {
	// MaxEmojis caps decorative symbols the blog prompt permits.
	// Values <= 0 default to 3.
	MaxEmojis int
}

// NewComposer constructs a Composer with the default emoji budget.
func NewComposer() *Composer { return &Composer{MaxEmojis: 3} }

// GuidePrompt returns the system instruction for how-to guide generation.
// The instruction is self-contained: no outline negotiation, no taxonomy,
// a single leading "# Title" heading, and strictly step-by-step structure.
func (c *Composer) GuidePrompt(topic string) string {
	var b strings.Builder
	b.WriteString("You are an expert technical writer. Write a complete, practical how-to guide for: ")
	b.WriteString(strings.TrimSpace(topic))
	b.WriteString("\n\nRequirements:\n")
	b.WriteString("- Format the entire answer as markdown.\n")
	b.WriteString("- Begin with exactly one top-level heading line of the form \"# <Title>\".\n")
	b.WriteString("- After the title, write a short introduction, then numbered step-by-step instructions (Step 1, Step 2, ...).\n")
	b.WriteString("- Every step must be concrete and actionable; no filler, no marketing language.\n")
	b.WriteString("- Finish with a \"References:\" section listing source URLs, one per line.\n")
	b.WriteString("- Do not ask questions, propose outlines, or mention categories. Produce the finished guide only.")
	return b.String()
}

// BotPrompt returns the system instruction used by the automated guide bot.
// The bot varies presentation (format, audience, depth) per run while keeping
// the same expert-writer framing as GuidePrompt.
func (c *Composer) BotPrompt(format, audience, topic, depth string) string {
	return fmt.Sprintf("You are an expert technical writer. Write a %s %s for: %s. %s",
		format, audience, strings.TrimSpace(topic), depth)
}

// BlogPrompt returns the system instruction for blog generation in the
// given tone. Unknown tones are treated as friendly (callers should reject
// invalid tones at the boundary; this keeps the composer total).
func (c *Composer) BlogPrompt(topic string, tone Tone) string {
	voice, ok := personalityMatrix[tone]
	if !ok {
		tone = ToneFriendly
		voice = personalityMatrix[tone]
	}
	budget := c.MaxEmojis
	if budget <= 0 {
		budget = 3
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s. Write a markdown blog post about: %s\n\n", voice, strings.TrimSpace(topic))
	b.WriteString("Requirements:\n")
	b.WriteString("- Begin with exactly one top-level heading line of the form \"# <Title>\".\n")
	fmt.Fprintf(&b, "- Keep a consistent %s voice throughout and write for a general audience.\n",
		cases.Title(language.English).String(string(tone)))
	fmt.Fprintf(&b, "- Use at most %d emoji in the entire post; fewer is better.\n", budget)
	b.WriteString("- No references section, no calls to action, no sales pitch.")
	return b.String()
}

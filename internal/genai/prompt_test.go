package genai

import (
	"strings"
	"testing"
)

func TestParseTone(t *testing.T) {
	cases := []struct {
		in   string
		want Tone
		ok   bool
	}{
		{"friendly", ToneFriendly, true},
		{"  WITTY ", ToneWitty, true},
		{"Professional", ToneProfessional, true},
		{"inspirational", ToneInspirational, true},
		{"chill", ToneChill, true},
		// unknown and empty both fall back to friendly
		{"sarcastic", ToneFriendly, false},
		{"", ToneFriendly, false},
	}
	for _, tc := range cases {
		got, ok := ParseTone(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseTone(%q) = (%q, %v); want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTones_StableOrder(t *testing.T) {
	want := []Tone{ToneFriendly, ToneWitty, ToneProfessional, ToneInspirational, ToneChill}
	got := Tones()
	if len(got) != len(want) {
		t.Fatalf("len = %d; want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tones()[%d] = %q; want %q", i, got[i], want[i])
		}
	}
}

func TestGuidePrompt_DeterministicAndComplete(t *testing.T) {
	c := NewComposer()

	a := c.GuidePrompt("  backup strategies  ")
	b := c.GuidePrompt("backup strategies")
	if a != b {
		t.Fatalf("identical topics must compose byte-identical prompts")
	}
	for _, frag := range []string{
		"expert technical writer",
		"backup strategies",
		"# <Title>",
		"References:",
		"Do not ask questions",
	} {
		if !strings.Contains(a, frag) {
			t.Fatalf("guide prompt missing %q:\n%s", frag, a)
		}
	}
}

func TestBotPrompt(t *testing.T) {
	c := NewComposer()
	got := c.BotPrompt("step-by-step tutorial", "for beginners", " Topic X ", "Keep it under 800 words.")
	want := "You are an expert technical writer. Write a step-by-step tutorial for beginners for: Topic X. Keep it under 800 words."
	if got != want {
		t.Fatalf("BotPrompt = %q; want %q", got, want)
	}
}

func TestBlogPrompt_ToneAndBudget(t *testing.T) {
	c := &Composer{MaxEmojis: 2}

	got := c.BlogPrompt("morning routines", ToneWitty)
	for _, frag := range []string{
		personalityMatrix[ToneWitty],
		"morning routines",
		"Witty voice",
		"at most 2 emoji",
		"No references section",
	} {
		if !strings.Contains(got, frag) {
			t.Fatalf("blog prompt missing %q:\n%s", frag, got)
		}
	}

	// Unknown tones compose as friendly; zero budget defaults to 3.
	def := (&Composer{}).BlogPrompt("x topic", Tone("bogus"))
	if !strings.Contains(def, personalityMatrix[ToneFriendly]) {
		t.Fatalf("unknown tone did not fall back to friendly:\n%s", def)
	}
	if !strings.Contains(def, "Friendly voice") || !strings.Contains(def, "at most 3 emoji") {
		t.Fatalf("defaults not applied:\n%s", def)
	}

	// Determinism across calls.
	if c.BlogPrompt("morning routines", ToneWitty) != got {
		t.Fatalf("identical inputs must compose byte-identical prompts")
	}
}

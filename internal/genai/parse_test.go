package genai

import (
	"errors"
	"strings"
	"testing"
)

func TestStripDecorations_RemovesEmojiAndIsIdempotent(t *testing.T) {
	p := NewParser(ParserConfig{})

	in := "Deploy 🚀 your app ✅ today 🎉"
	once := p.StripDecorations(in)
	if strings.ContainsAny(once, "🚀✅🎉") {
		t.Fatalf("decorations survived: %q", once)
	}
	if got := p.StripDecorations(once); got != once {
		t.Fatalf("not idempotent: %q vs %q", got, once)
	}
	// Plain text passes through untouched.
	if got := p.StripDecorations("plain ascii, ünïcödé ok"); got != "plain ascii, ünïcödé ok" {
		t.Fatalf("mangled plain text: %q", got)
	}
}

func TestStripDecorations_CustomRanges(t *testing.T) {
	// Only strip lowercase 'x' to prove ranges are injected, not hardcoded.
	p := NewParser(ParserConfig{EmojiRanges: [][2]rune{{'x', 'x'}}})
	if got := p.StripDecorations("axbxc 🚀"); got != "abc 🚀" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractTitle(t *testing.T) {
	p := NewParser(ParserConfig{})

	cases := []struct {
		raw   string
		topic string
		want  string
	}{
		// first "# " line wins
		{"# Hello World\nbody", "t", "Hello World"},
		{"intro\n# Second Line Title\n# Another", "t", "Second Line Title"},
		// trimmed
		{"#   Spaced Out   \nbody", "t", "Spaced Out"},
		// "##" is not a title line
		{"## Subheading\nbody", "fallback topic", "fallback topic"},
		// no heading -> topic verbatim
		{"no headings here", "My Topic", "My Topic"},
	}
	for _, tc := range cases {
		if got := p.ExtractTitle(tc.raw, tc.topic); got != tc.want {
			t.Fatalf("ExtractTitle(%q) = %q; want %q", tc.raw, got, tc.want)
		}
	}
}

func TestValidateTitle(t *testing.T) {
	p := NewParser(ParserConfig{})

	if err := p.ValidateTitle("Valid Guide Title"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// below the 5-rune floor (after trim)
	if err := p.ValidateTitle("  ab  "); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("want ErrInvalidTitle, got %v", err)
	}
	// placeholder denylist, case-insensitive
	if err := p.ValidateTitle("UNTITLED document"); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("want ErrInvalidTitle, got %v", err)
	}
	if err := p.ValidateTitle("How to Load Data into Postgres"); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("want ErrInvalidTitle for placeholder fragment, got %v", err)
	}
}

func TestValidateContent(t *testing.T) {
	p := NewParser(ParserConfig{})

	long := strings.Repeat("word ", 40)
	if err := p.ValidateContent(long); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.ValidateContent("too short"); !errors.Is(err, ErrMeaninglessContent) {
		t.Fatalf("want ErrMeaninglessContent, got %v", err)
	}
	if err := p.ValidateContent(long + " no content"); !errors.Is(err, ErrMeaninglessContent) {
		t.Fatalf("want ErrMeaninglessContent for placeholder, got %v", err)
	}
}

func TestExcerpt(t *testing.T) {
	p := NewParser(ParserConfig{})

	raw := "# Title Line\nfirst\n\nsecond\nthird\nfourth"
	got := p.Excerpt("My Title", raw)
	want := "My Title\nfirst second third"
	if got != want {
		t.Fatalf("Excerpt = %q; want %q", got, want)
	}

	// Long previews are clipped at 180 runes with an ellipsis.
	long := strings.Repeat("abcdefghij ", 30)
	got = p.Excerpt("T", long)
	body := strings.TrimPrefix(got, "T\n")
	if !strings.HasSuffix(body, "...") {
		t.Fatalf("expected ellipsis, got %q", body)
	}
	if len([]rune(body)) != 183 {
		t.Fatalf("clipped length = %d runes; want 183", len([]rune(body)))
	}
}

func TestReferences(t *testing.T) {
	p := NewParser(ParserConfig{})

	raw := "# T\nbody\n\nReferences:\nhttps://a.example\n\nhttps://b.example\n"
	refs := p.References(raw)
	if len(refs) != 2 || refs[0] != "https://a.example" || refs[1] != "https://b.example" {
		t.Fatalf("unexpected refs: %#v", refs)
	}
	// Case-insensitive marker, no colon required.
	if refs := p.References("intro\nREFERENCES\nx"); len(refs) != 1 || refs[0] != "x" {
		t.Fatalf("unexpected refs: %#v", refs)
	}
	if refs := p.References("no section here"); refs != nil {
		t.Fatalf("want nil, got %#v", refs)
	}
}

func TestParse_GuideHappyPath(t *testing.T) {
	p := NewParser(ParserConfig{})

	raw := "# Set Up CI Pipelines 🚀\n" +
		strings.Repeat("Step text about pipelines and runners. ", 6) + "\n\n" +
		"References:\nhttps://docs.example/ci\n"
	d, err := p.Parse(raw, "ci pipelines", "guide")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Title != "Set Up CI Pipelines" {
		t.Fatalf("title = %q", d.Title)
	}
	if d.Slug != "set-up-ci-pipelines" {
		t.Fatalf("slug = %q", d.Slug)
	}
	if len(d.References) != 1 || d.References[0] != "https://docs.example/ci" {
		t.Fatalf("refs = %#v", d.References)
	}
	if !strings.HasPrefix(d.Excerpt, "Set Up CI Pipelines\n") {
		t.Fatalf("excerpt = %q", d.Excerpt)
	}
}

func TestParse_BlogSkipsReferencesAndCleans(t *testing.T) {
	p := NewParser(ParserConfig{})

	raw := "# A Blog Post Title\r\n" +
		strings.Repeat("Relaxed blog prose about habits. ", 6) + "\r\n\r\n\r\n\r\n" +
		"References:\nhttps://should-not-appear\n"
	d, err := p.Parse(raw, "habits", "blog")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.References != nil {
		t.Fatalf("blog drafts carry no references, got %#v", d.References)
	}
	if strings.Contains(d.Content, "\r") {
		t.Fatalf("CRLF survived cleanup: %q", d.Content)
	}
	if strings.Contains(d.Content, "\n\n\n") {
		t.Fatalf("blank-line run survived cleanup")
	}
}

func TestParse_ErrorPaths(t *testing.T) {
	p := NewParser(ParserConfig{})

	if _, err := p.Parse("  \n\t ", "topic", "guide"); !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("want ErrEmptyResult, got %v", err)
	}
	// Emoji-only output collapses to empty after stripping.
	if _, err := p.Parse("🚀🎉✅", "topic", "guide"); !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("want ErrEmptyResult, got %v", err)
	}
	long := strings.Repeat("body text ", 20)
	if _, err := p.Parse("# ab\n"+long, "topic", "guide"); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("want ErrInvalidTitle, got %v", err)
	}
	if _, err := p.Parse("# A Fine Title\ntiny", "topic", "guide"); !errors.Is(err, ErrMeaninglessContent) {
		t.Fatalf("want ErrMeaninglessContent, got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Hello World", "hello-world"},
		{"  A -- B  ", "a-b"},
		{"C++ & Go: A Comparison!", "c-go-a-comparison"},
		{"already-a-slug", "already-a-slug"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q; want %q", tc.in, got, tc.want)
		}
		if again := Slugify(Slugify(tc.in)); again != tc.want {
			t.Fatalf("Slugify not idempotent on %q: %q", tc.in, again)
		}
	}
}

func TestCleanBlogContent(t *testing.T) {
	in := "a  \r\nb\t\n\n\n\nc\n"
	want := "a\nb\n\nc"
	if got := CleanBlogContent(in); got != want {
		t.Fatalf("CleanBlogContent = %q; want %q", got, want)
	}
	if got := CleanBlogContent(want); got != want {
		t.Fatalf("not idempotent: %q", got)
	}
}

func TestFirstWords(t *testing.T) {
	if got := FirstWords("one  two\tthree four five", 4); got != "one two three four" {
		t.Fatalf("got %q", got)
	}
	if got := FirstWords("one two", 4); got != "one two" {
		t.Fatalf("got %q", got)
	}
	if got := FirstWords("", 4); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestReadTime(t *testing.T) {
	cases := []struct {
		words int
		want  int
	}{
		{0, 1},
		{1, 1},
		{200, 1},
		{201, 2},
		{1000, 5},
	}
	for _, tc := range cases {
		content := strings.TrimSpace(strings.Repeat("w ", tc.words))
		if got := ReadTime(content); got != tc.want {
			t.Fatalf("ReadTime(%d words) = %d; want %d", tc.words, got, tc.want)
		}
	}
}

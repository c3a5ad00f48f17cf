// Package genai – result parsing.
//
// The Parser turns raw generated markdown into the structured fields of a
// Draft: it strips pictographic decoration, extracts and validates the
// title, builds the excerpt and slug, and collects the references section.
// Every step is deterministic; the denylists and Unicode ranges are
// injected configuration so tests can substitute policies.
package genai

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Draft is the structured result of a successful generation run. It is
// handed to the caller, which owns the decision to persist it as a guide
// or blog entity.
type Draft struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Excerpt    string   `json:"excerpt"`
	Content    string   `json:"content"`
	References []string `json:"references"`
}

// defaultEmojiRanges enumerates the Unicode blocks stripped from generated
// text: Misc Symbols & Dingbats, Emoticons, Misc Symbols & Pictographs,
// Transport & Map Symbols, Alchemical Symbols, Geometric Shapes Extended,
// Supplemental Arrows-C, Supplemental Symbols and Pictographs, Chess
// Symbols, and Symbols and Pictographs Extended-A.
var defaultEmojiRanges = [][2]rune{
	{0x2600, 0x27BF},
	{0x1F600, 0x1F64F},
	{0x1F300, 0x1F5FF},
	{0x1F680, 0x1F6FF},
	{0x1F700, 0x1F77F},
	{0x1F780, 0x1F7FF},
	{0x1F800, 0x1F8FF},
	{0x1F900, 0x1F9FF},
	{0x1FA00, 0x1FA6F},
	{0x1FA70, 0x1FAFF},
}

// defaultPlaceholders are title/content fragments that indicate the model
// produced filler instead of an article.
var defaultPlaceholders = []string{"load data", "untitled", "no content"}

// referencesRE matches the line that opens a references section.
var referencesRE = regexp.MustCompile(`(?i)references:?`)

// ParserConfig tunes the Parser. Zero values select the defaults observed
// in production: 5-rune title floor, 100-rune content floor, the standard
// emoji blocks, and the stock placeholder denylist.
type ParserConfig struct {
	PlaceholderTerms []string
	MinTitleRunes    int
	MinContentRunes  int
	EmojiRanges      [][2]rune
	// ExcerptLines / ExcerptMaxLen bound the preview text.
	ExcerptLines  int
	ExcerptMaxLen int
}

// Parser extracts structured fields from raw generated markdown.
// It is immutable after construction and safe for concurrent use.
type Parser struct {
	placeholderRE *regexp.Regexp
	minTitle      int
	minContent    int
	ranges        [][2]rune
	excerptLines  int
	excerptMaxLen int
}

// NewParser constructs a Parser, applying defaults for unset config fields.
func NewParser(cfg ParserConfig) *Parser {
	terms := cfg.PlaceholderTerms
	if len(terms) == 0 {
		terms = defaultPlaceholders
	}
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(t)))
	}
	p := &Parser{
		placeholderRE: regexp.MustCompile(`(?i)` + strings.Join(quoted, "|")),
		minTitle:      cfg.MinTitleRunes,
		minContent:    cfg.MinContentRunes,
		ranges:        cfg.EmojiRanges,
		excerptLines:  cfg.ExcerptLines,
		excerptMaxLen: cfg.ExcerptMaxLen,
	}
	if p.minTitle <= 0 {
		p.minTitle = 5
	}
	if p.minContent <= 0 {
		p.minContent = 100
	}
	if len(p.ranges) == 0 {
		p.ranges = defaultEmojiRanges
	}
	if p.excerptLines <= 0 {
		p.excerptLines = 3
	}
	if p.excerptMaxLen <= 0 {
		p.excerptMaxLen = 180
	}
	return p
}

// StripDecorations removes every character falling in the configured emoji
// blocks, preserving the order and content of all remaining characters.
// The filter is idempotent: stripping twice equals stripping once.
func (p *Parser) StripDecorations(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !p.isDecoration(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (p *Parser) isDecoration(r rune) bool {
	for _, rg := range p.ranges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}

// ExtractTitle returns the text of the first markdown "# " heading line,
// trimmed of surrounding whitespace. When no such line exists, the original
// topic string is returned verbatim.
func (p *Parser) ExtractTitle(raw, topic string) string {
	for _, line := range strings.Split(raw, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return topic
}

// ValidateTitle rejects titles shorter than the configured floor or
// matching the placeholder denylist.
func (p *Parser) ValidateTitle(title string) error {
	if utf8.RuneCountInString(strings.TrimSpace(title)) < p.minTitle {
		return ErrInvalidTitle
	}
	if p.placeholderRE.MatchString(title) {
		return ErrInvalidTitle
	}
	return nil
}

// ValidateContent rejects bodies shorter than the configured floor or
// matching the placeholder denylist.
func (p *Parser) ValidateContent(content string) error {
	if utf8.RuneCountInString(strings.TrimSpace(content)) < p.minContent {
		return ErrMeaninglessContent
	}
	if p.placeholderRE.MatchString(content) {
		return ErrMeaninglessContent
	}
	return nil
}

// Excerpt builds the listing preview: the title, a line break, then up to
// the first excerptLines non-heading lines joined with a single space,
// truncated to excerptMaxLen characters with an ellipsis when cut.
func (p *Parser) Excerpt(title, raw string) string {
	var preview []string
	for _, line := range strings.Split(raw, "\n") {
		if line == "" || strings.HasPrefix(line, "# ") {
			continue
		}
		preview = append(preview, line)
		if len(preview) == p.excerptLines {
			break
		}
	}
	joined := strings.Join(preview, " ")
	clipped := joined
	if utf8.RuneCountInString(joined) > p.excerptMaxLen {
		clipped = string([]rune(joined)[:p.excerptMaxLen]) + "..."
	}
	return strings.TrimSpace(title + "\n" + clipped)
}

// References collects the references section of a guide: every non-blank
// line after the first line matching "references" (optionally followed by a
// colon), in order. Returns nil when no such section exists.
func (p *Parser) References(raw string) []string {
	lines := strings.Split(raw, "\n")
	start := -1
	for i, line := range lines {
		if referencesRE.MatchString(line) {
			start = i
			break
		}
	}
	if start == -1 {
		return nil
	}
	var refs []string
	for _, line := range lines[start+1:] {
		if t := strings.TrimSpace(line); t != "" {
			refs = append(refs, t)
		}
	}
	return refs
}

// Parse runs the full extraction for one generation result: decoration
// stripping, blog cleanup, title extraction/validation, content validation,
// excerpt, slug, and (guides only) references.
func (p *Parser) Parse(raw, topic, contentType string) (*Draft, error) {
	clean := p.StripDecorations(raw)
	if contentType == "blog" {
		clean = CleanBlogContent(clean)
	}
	if strings.TrimSpace(clean) == "" {
		return nil, ErrEmptyResult
	}

	title := p.ExtractTitle(clean, topic)
	if err := p.ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := p.ValidateContent(clean); err != nil {
		return nil, err
	}

	d := &Draft{
		Title:   title,
		Slug:    Slugify(title),
		Excerpt: p.Excerpt(title, clean),
		Content: clean,
	}
	if contentType == "guide" {
		d.References = p.References(clean)
	}
	return d, nil
}

// slugStripRE removes characters outside the slug alphabet; slugSepRE
// collapses whitespace/hyphen runs to a single hyphen.
var (
	slugStripRE = regexp.MustCompile(`[^a-z0-9\- ]`)
	slugSepRE   = regexp.MustCompile(`[\s\-]+`)
)

// Slugify derives a URL slug: lowercase, strip characters outside
// [a-z0-9- ], collapse whitespace and hyphen runs to single hyphens, and
// trim leading/trailing hyphens. Idempotent: Slugify(Slugify(x)) == Slugify(x).
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = slugStripRE.ReplaceAllString(s, "")
	s = slugSepRE.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// blankRunRE collapses runs of three or more newlines (possibly with
// interior spaces) down to a single blank line.
var blankRunRE = regexp.MustCompile(`\n[ \t]*\n([ \t]*\n)+`)

// CleanBlogContent normalizes blog output: CRLF to LF, trailing whitespace
// trimmed per line, and excess blank lines collapsed. Idempotent.
func CleanBlogContent(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	s = strings.Join(lines, "\n")
	s = blankRunRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// FirstWords returns the first n whitespace-separated words of s joined by
// single spaces. Used by the near-duplicate title heuristic.
func FirstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}

// ReadTime estimates reading time in minutes at 200 words per minute,
// rounded up with a floor of one minute.
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 1
	}
	mins := (words + 199) / 200
	if mins < 1 {
		mins = 1
	}
	return mins
}

// String implements fmt.Stringer for diagnostics; it never exposes content.
func (d *Draft) String() string {
	return fmt.Sprintf("draft(title=%q slug=%q refs=%d)", d.Title, d.Slug, len(d.References))
}

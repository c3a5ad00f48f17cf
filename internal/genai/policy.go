// Package genai – content-policy guard.
//
// The Policy screens drafts against denylist pattern families before they
// can be published. The check is advisory for unpublished drafts and
// blocking for publish-immediately requests; that asymmetry is enforced by
// the calling service, not here. Patterns are injected configuration so
// tests can substitute policies.
package genai

import "regexp"

// Verdict is the outcome of a policy check. Computed fresh per draft and
// never persisted.
type Verdict struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// policyFamily pairs a denylist pattern with the human-readable reason
// reported when it matches.
type policyFamily struct {
	re     *regexp.Regexp
	reason string
}

// defaultFamilies are the production denylist families: violence-related
// terms, sexual-content terms, and hate-speech terms.
var defaultFamilies = []policyFamily{
	{regexp.MustCompile(`(?i)violence|kill|murder|shoot|attack|abuse|assault|rape|terror`), "violence-related content"},
	{regexp.MustCompile(`(?i)sex|sexual|porn|nude|explicit|erotic|fetish|incest|orgy|xxx`), "sexual content"},
	{regexp.MustCompile(`(?i)hate|racist|homophobic|transphobic|slur|bigot|nazi|genocide`), "hate speech"},
}

// Policy screens text against a fixed set of forbidden-pattern families.
// It is immutable after construction and safe for concurrent use.
type Policy struct {
	families []policyFamily
}

// NewPolicy returns the default content policy.
func NewPolicy() *Policy { return &Policy{families: defaultFamilies} }

// PatternReason is one configurable denylist entry.
type PatternReason struct {
	Pattern string
	Reason  string
}

// NewPolicyFromPatterns builds a policy from ordered (pattern, reason)
// pairs. Order is significant: when text matches several families, Check
// reports the reason of the first one. Invalid patterns are reported via
// the error return; no partial policy is produced.
func NewPolicyFromPatterns(patterns []PatternReason) (*Policy, error) {
	fams := make([]policyFamily, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, err
		}
		fams = append(fams, policyFamily{re: re, reason: p.Reason})
	}
	return &Policy{families: fams}, nil
}

// Check screens the concatenation of title, excerpt, and content. The first
// matching family determines the verdict's reason.
func (p *Policy) Check(title, excerpt, content string) Verdict {
	haystack := title + " " + excerpt + " " + content
	for _, f := range p.families {
		if f.re.MatchString(haystack) {
			return Verdict{Allowed: false, Reason: f.reason}
		}
	}
	return Verdict{Allowed: true}
}

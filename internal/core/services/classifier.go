package services

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driving"
)

// Ensure Classifier implements the interface.
var _ driving.Classifier = (*Classifier)(nil)

var (
	punctuationPattern = regexp.MustCompile("[.,/#!$%^&*;:{}=\\-_`~()]")
	whitespacePattern  = regexp.MustCompile(`\s{2,}`)
)

// Classifier decides whether a lead name denotes a school, using a keyword
// dictionary compiled into one pattern at construction.
type Classifier struct {
	mode     domain.MatchMode
	keywords []string
	pattern  *regexp.Regexp
}

// NewClassifier compiles the keywords. An empty or nil dictionary yields a
// classifier that never matches. Unknown modes fall back to whole-word.
func NewClassifier(keywords []string, mode domain.MatchMode) *Classifier {
	if !mode.IsValid() {
		mode = domain.MatchWord
	}

	seen := make(map[string]bool, len(keywords))
	normalised := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.Join(strings.Fields(stripPunctuation(foldName(kw))), " ")
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		normalised = append(normalised, kw)
	}

	// Longest first so alternation prefers the most specific keyword.
	sort.Slice(normalised, func(i, j int) bool {
		if len(normalised[i]) != len(normalised[j]) {
			return len(normalised[i]) > len(normalised[j])
		}
		return normalised[i] < normalised[j]
	})

	c := &Classifier{mode: mode, keywords: normalised}
	if len(normalised) == 0 {
		return c
	}

	quoted := make([]string, len(normalised))
	for i, kw := range normalised {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	expr := "(?:" + strings.Join(quoted, "|") + ")"
	if mode == domain.MatchWord {
		expr = `\b` + expr + `\b`
	}
	c.pattern = regexp.MustCompile("(?i)" + expr)
	return c
}

// IsSchool reports whether the name matches any keyword. Names containing a
// ".com" domain are never schools.
func (c *Classifier) IsSchool(name string) bool {
	if c == nil || c.pattern == nil {
		return false
	}
	folded := foldName(name)
	if strings.Contains(folded, ".com") {
		return false
	}
	text := stripPunctuation(folded)
	if text == "" {
		return false
	}
	return c.pattern.MatchString(text)
}

// Mode returns the matching mode in use.
func (c *Classifier) Mode() domain.MatchMode {
	return c.mode
}

// Keywords returns the normalised dictionary, longest first.
func (c *Classifier) Keywords() []string {
	out := make([]string, len(c.keywords))
	copy(out, c.keywords)
	return out
}

// foldName applies NFKC compatibility normalisation and lower-cases.
func foldName(s string) string {
	return strings.ToLower(norm.NFKC.String(s))
}

// stripPunctuation replaces punctuation with spaces and collapses runs of
// whitespace.
func stripPunctuation(s string) string {
	s = punctuationPattern.ReplaceAllString(s, " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

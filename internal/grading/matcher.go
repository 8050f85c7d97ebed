package grading

import (
	"errors"
	"fmt"
	"regexp"
)

// Matcher reports which of a fixed set of tokens occur in a submission.
// Tokens are matched literally: regex metacharacters such as the "$" in "$in"
// are quoted before compiling.
type Matcher struct {
	tokens   []string
	patterns []*regexp.Regexp
}

// NewMatcher compiles one literal pattern per token. Empty tokens and tokens
// that are not valid UTF-8 are rejected.
func NewMatcher(tokens []string) (*Matcher, error) {
	m := &Matcher{
		tokens:   make([]string, 0, len(tokens)),
		patterns: make([]*regexp.Regexp, 0, len(tokens)),
	}
	for _, t := range tokens {
		if t == "" {
			return nil, errors.New("empty required token")
		}
		re, err := regexp.Compile(regexp.QuoteMeta(t))
		if err != nil {
			return nil, fmt.Errorf("required token %q: %w", t, err)
		}
		m.tokens = append(m.tokens, t)
		m.patterns = append(m.patterns, re)
	}
	return m, nil
}

// has reports whether token i is present anywhere in text.
func (m *Matcher) has(text string, i int) bool {
	if text == "" {
		return false
	}
	return m.patterns[i].MatchString(text)
}

// Missing returns the tokens absent from text, in declaration order.
func (m *Matcher) Missing(text string) []string {
	var missing []string
	for i, t := range m.tokens {
		if !m.has(text, i) {
			missing = append(missing, t)
		}
	}
	return missing
}

// Tokens returns a copy of the required tokens in declaration order.
func (m *Matcher) Tokens() []string {
	return append([]string(nil), m.tokens...)
}

// Package diff parses unified diff text into per-file segments and tallies
// changed lines by file category.
package diff

import (
	"fmt"
	"regexp"

	"github.com/huangsam/diffeffort/schema"
)

// compiledRule pairs a category rule with its compiled pattern.
type compiledRule struct {
	schema.CategoryRule
	re *regexp.Regexp
}

// Matcher classifies file paths using an ordered list of category rules.
// It is immutable after construction and safe for concurrent use.
type Matcher struct {
	rules []compiledRule
}

// NewMatcher compiles every rule pattern once.
func NewMatcher(rules []schema.CategoryRule) (*Matcher, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		if r.Label == "" {
			return nil, fmt.Errorf("category rule %d has an empty label", i+1)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q for category %q: %w", r.Pattern, r.Label, err)
		}
		compiled = append(compiled, compiledRule{CategoryRule: r, re: re})
	}
	return &Matcher{rules: compiled}, nil
}

// Rules returns a copy of the configured rules in order.
func (m *Matcher) Rules() []schema.CategoryRule {
	out := make([]schema.CategoryRule, len(m.rules))
	for i, r := range m.rules {
		out[i] = r.CategoryRule
	}
	return out
}

// Classify returns the label of the first rule matching path, or
// schema.UnclassifiedLabel when none does.
func (m *Matcher) Classify(path string) string {
	for _, r := range m.rules {
		if r.re.MatchString(path) {
			return r.Label
		}
	}
	return schema.UnclassifiedLabel
}

// matchesSegment reports whether rule i matches either side of a segment header.
func (m *Matcher) matchesSegment(i int, seg Segment) bool {
	re := m.rules[i].re
	if re.MatchString(seg.Path) {
		return true
	}
	return seg.OldPath != seg.Path && re.MatchString(seg.OldPath)
}

// classifySegment is Classify applied to both header paths.
func (m *Matcher) classifySegment(seg Segment) string {
	for i, r := range m.rules {
		if m.matchesSegment(i, seg) {
			return r.Label
		}
	}
	return schema.UnclassifiedLabel
}

// Package moderation provides the content filter applied to post and comment
// text on create and update.
package moderation

import (
	"regexp"

	"aspira/internal/errors"
)

// forbiddenWords are matched on word boundaries, case-insensitively. Ordering
// is fixed; the first match rejects.
var forbiddenWords = []string{
	`seks`, `porno`, `nude`, `erotic`, `dewasa`,
	`18\+`, `xxx`, `naked`, `vulgar`, `genital`,
}

// Filter rejects text containing any forbidden keyword. It is pure and safe
// for concurrent use; patterns are compiled once at construction.
type Filter struct {
	patterns []*regexp.Regexp
}

// NewFilter compiles the forbidden word patterns.
func NewFilter() *Filter {
	patterns := make([]*regexp.Regexp, 0, len(forbiddenWords))
	for _, w := range forbiddenWords {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+w+`\b`))
	}
	return &Filter{patterns: patterns}
}

// Check returns ErrForbiddenContent when the text contains a forbidden word.
// The error never reveals which word matched.
func (f *Filter) Check(text string) error {
	for _, p := range f.patterns {
		if p.MatchString(text) {
			return errors.ErrForbiddenContent
		}
	}
	return nil
}

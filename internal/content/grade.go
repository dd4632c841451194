package content

import (
	"strings"
	"unicode"
)

// Grade reports whether answer matches one of the accepted answers. Case,
// surrounding whitespace, repeated spaces and trailing punctuation are ignored.
func (e Exercise) Grade(answer string) bool {
	given := normalizeAnswer(answer)
	if given == "" {
		return false
	}
	for _, accepted := range e.Answer {
		if normalizeAnswer(accepted) == given {
			return true
		}
	}
	return false
}

func normalizeAnswer(s string) string {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	return strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsPunct(r)
	})
}

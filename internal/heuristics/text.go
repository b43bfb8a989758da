package heuristics

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Package-level compiled regex patterns for performance
var (
	multiSpacePattern = regexp.MustCompile(`\s+`)
	termTrimChars     = ",.!?;:'\"()[]{}"
)

// minTermLength is the shortest query word that counts for relevance
const minTermLength = 3

// normalizePhrase lower-cases s and replaces everything but letters, digits
// and '&' with single spaces, so "T-Shirt" and "t shirt" compare equal.
func normalizePhrase(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '&' {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(mapped, " "))
}

// QueryTerms returns the lower-cased words of query longer than two characters
func QueryTerms(query string) []string {
	var terms []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, termTrimChars)
		if utf8.RuneCountInString(word) >= minTermLength {
			terms = append(terms, word)
		}
	}
	return terms
}

// IsRelevant reports whether text shares at least one of terms.
// An empty term list accepts everything.
func IsRelevant(terms []string, text string) bool {
	if len(terms) == 0 {
		return true
	}
	return containsAny(strings.ToLower(text), terms)
}

package heuristics

import (
	"strings"

	"github.com/ecoshop/backend/internal/domain"
)

type categoryPhrases struct {
	category string
	name     string
	aliases  []string
}

// CategoryMatcher maps a free-text query onto one of a fixed set of categories
type CategoryMatcher struct {
	categories []categoryPhrases
}

// NewCategoryMatcher creates a matcher. Categories are tried in the given order.
func NewCategoryMatcher(table []domain.CategoryAliases) *CategoryMatcher {
	categories := make([]categoryPhrases, 0, len(table))
	for _, entry := range table {
		phrases := categoryPhrases{
			category: entry.Category,
			name:     normalizePhrase(entry.Category),
		}
		for _, alias := range entry.Aliases {
			if a := normalizePhrase(alias); a != "" {
				phrases.aliases = append(phrases.aliases, a)
			}
		}
		categories = append(categories, phrases)
	}
	return &CategoryMatcher{categories: categories}
}

// Match returns the category for query. It prefers an exact category name,
// then a category name or alias appearing as whole words in the query, then a
// category name that contains the query.
func (m *CategoryMatcher) Match(query string) (string, bool) {
	q := normalizePhrase(query)
	if q == "" {
		return "", false
	}

	for _, c := range m.categories {
		if c.name == q {
			return c.category, true
		}
	}

	padded := " " + q + " "
	for _, c := range m.categories {
		if strings.Contains(padded, " "+c.name+" ") {
			return c.category, true
		}
		for _, alias := range c.aliases {
			if strings.Contains(padded, " "+alias+" ") {
				return c.category, true
			}
		}
	}

	if len(q) >= minTermLength {
		for _, c := range m.categories {
			if strings.Contains(c.name, q) {
				return c.category, true
			}
		}
	}

	return "", false
}

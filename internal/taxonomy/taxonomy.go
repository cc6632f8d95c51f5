// Package taxonomy holds the ordered category rule table used to classify
// catalog items. The order of the table is significant: the classifier
// returns the first category that accepts.
package taxonomy

import (
	"regexp"

	"github.com/whpcodes/catalog-service/internal/features"
)

// DefaultLabel is assigned when no category accepts or the description is empty.
const DefaultLabel = "Other"

// Category is one rule set. Keywords are matched as whole words after
// normalization; StrongIndicators run against the lowercase corpus.
type Category struct {
	Label            string
	Primary          []string
	Supporting       []string
	Exclusions       []string
	StrongIndicators []*regexp.Regexp
	// MinimumMatches is the primary match count the contextual strategy
	// requires. Weak, generic categories need 2.
	MinimumMatches int
}

// Taxonomy is an immutable, ordered set of categories.
type Taxonomy struct {
	defaultLabel string
	categories   []Category
}

// New builds a Taxonomy, normalizing every keyword. Categories with a zero
// MinimumMatches get 1.
func New(defaultLabel string, categories []Category) *Taxonomy {
	if defaultLabel == "" {
		defaultLabel = DefaultLabel
	}

	cats := make([]Category, len(categories))
	for i, c := range categories {
		c.Primary = normalizeAll(c.Primary)
		c.Supporting = normalizeAll(c.Supporting)
		c.Exclusions = normalizeAll(c.Exclusions)
		if c.MinimumMatches < 1 {
			c.MinimumMatches = 1
		}
		cats[i] = c
	}

	return &Taxonomy{defaultLabel: defaultLabel, categories: cats}
}

// Default returns the production taxonomy.
func Default() *Taxonomy {
	return New(DefaultLabel, defaultCategories())
}

// WithDefaultLabel returns a copy of t using label as the fallback.
func (t *Taxonomy) WithDefaultLabel(label string) *Taxonomy {
	if label == "" {
		return t
	}
	return &Taxonomy{defaultLabel: label, categories: t.categories}
}

// DefaultLabel returns the fallback label.
func (t *Taxonomy) DefaultLabel() string {
	return t.defaultLabel
}

// Categories returns the categories in priority order.
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	copy(out, t.categories)
	return out
}

// Labels returns category labels in priority order, followed by the default.
func (t *Taxonomy) Labels() []string {
	labels := make([]string, 0, len(t.categories)+1)
	for _, c := range t.categories {
		labels = append(labels, c.Label)
	}
	return append(labels, t.defaultLabel)
}

func normalizeAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		n := features.NormalizeWords(kw)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

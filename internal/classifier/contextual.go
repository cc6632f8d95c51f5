package classifier

import (
	"regexp"
	"strings"

	"github.com/whpcodes/catalog-service/internal/features"
	"github.com/whpcodes/catalog-service/internal/taxonomy"
)

// ContextualScorer is the primary-pattern plus context-reinforcement
// strategy. Primary keywords become whole-word patterns whose matches are
// counted globally; supporting keywords are context checked as substrings.
type ContextualScorer struct {
	categories []taxonomy.Category
	primary    [][]*regexp.Regexp
	exclusions [][]*regexp.Regexp
}

// NewContextualScorer compiles patterns for every category in tax.
func NewContextualScorer(tax *taxonomy.Taxonomy) *ContextualScorer {
	cats := tax.Categories()
	s := &ContextualScorer{
		categories: cats,
		primary:    make([][]*regexp.Regexp, len(cats)),
		exclusions: make([][]*regexp.Regexp, len(cats)),
	}
	for i, c := range cats {
		s.primary[i] = compileWordPatterns(c.Primary)
		s.exclusions[i] = compileWordPatterns(c.Exclusions)
	}
	return s
}

// Name implements Scorer.
func (s *ContextualScorer) Name() string { return StrategyContextual }

// Score implements Scorer.
func (s *ContextualScorer) Score(f features.Features) []Decision {
	decisions := make([]Decision, len(s.categories))
	for i, c := range s.categories {
		decisions[i] = s.decide(i, c, f)
	}
	return decisions
}

func (s *ContextualScorer) decide(i int, c taxonomy.Category, f features.Features) Decision {
	d := Decision{Label: c.Label}

	for _, re := range s.primary[i] {
		d.PrimaryHits += len(re.FindAllStringIndex(f.Words, -1))
	}
	d.Score = d.PrimaryHits
	if d.PrimaryHits < c.MinimumMatches {
		d.Reason = ReasonTooFewMatches
		return d
	}

	for _, re := range s.exclusions[i] {
		if re.MatchString(f.Words) {
			d.Reason = ReasonExclusion
			return d
		}
	}

	for _, word := range c.Supporting {
		if strings.Contains(f.Words, word) {
			d.SupportingHits++
		}
	}

	required := 2
	if d.PrimaryHits >= 2 {
		required = 1
	}
	if d.SupportingHits >= required {
		d.Accepted = true
		d.Reason = ReasonScore
		return d
	}
	d.Reason = ReasonNoContext
	return d
}

func compileWordPatterns(keywords []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(keywords))
	for _, kw := range keywords {
		body := strings.ReplaceAll(regexp.QuoteMeta(kw), " ", `\s+`)
		out = append(out, regexp.MustCompile(`(?i)\b`+body+`\b`))
	}
	return out
}

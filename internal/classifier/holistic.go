package classifier

import (
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/whpcodes/catalog-service/internal/features"
	"github.com/whpcodes/catalog-service/internal/taxonomy"
)

type keywordRole int

const (
	rolePrimary keywordRole = iota
	roleSupporting
	roleExclusion
)

type keywordRef struct {
	category int
	role     keywordRole
}

// HolisticScorer is the weighted keyword strategy: exclusions reject,
// strong indicators accept, otherwise 2 per primary hit plus 1 per
// supporting hit. All keywords are found in one Aho-Corasick pass.
type HolisticScorer struct {
	categories []taxonomy.Category
	thresholds Thresholds

	// Matcher.Match mutates internal state and must not run concurrently.
	mu       sync.Mutex
	matcher  *ahocorasick.Matcher
	keywords []string
	refs     [][]keywordRef
}

// NewHolisticScorer builds the automaton over every keyword in tax.
func NewHolisticScorer(tax *taxonomy.Taxonomy, th Thresholds) *HolisticScorer {
	s := &HolisticScorer{
		categories: tax.Categories(),
		thresholds: th,
	}

	index := make(map[string]int)
	add := func(category int, role keywordRole, kw string) {
		padded := " " + kw + " "
		i, ok := index[padded]
		if !ok {
			i = len(s.keywords)
			index[padded] = i
			s.keywords = append(s.keywords, padded)
			s.refs = append(s.refs, nil)
		}
		s.refs[i] = append(s.refs[i], keywordRef{category: category, role: role})
	}

	for ci, c := range s.categories {
		for _, kw := range c.Primary {
			add(ci, rolePrimary, kw)
		}
		for _, kw := range c.Supporting {
			add(ci, roleSupporting, kw)
		}
		for _, kw := range c.Exclusions {
			add(ci, roleExclusion, kw)
		}
	}

	if len(s.keywords) > 0 {
		s.matcher = ahocorasick.NewStringMatcher(s.keywords)
	}
	return s
}

// Name implements Scorer.
func (s *HolisticScorer) Name() string { return StrategyHolistic }

type hitCounts struct {
	primary, supporting, exclusion int
}

// Score implements Scorer.
func (s *HolisticScorer) Score(f features.Features) []Decision {
	counts := make([]hitCounts, len(s.categories))
	for _, hit := range s.match(f.Words) {
		for _, ref := range s.refs[hit] {
			switch ref.role {
			case rolePrimary:
				counts[ref.category].primary++
			case roleSupporting:
				counts[ref.category].supporting++
			case roleExclusion:
				counts[ref.category].exclusion++
			}
		}
	}

	decisions := make([]Decision, len(s.categories))
	for i, c := range s.categories {
		decisions[i] = s.decide(c, counts[i], f.Corpus)
	}
	return decisions
}

func (s *HolisticScorer) decide(c taxonomy.Category, n hitCounts, corpus string) Decision {
	d := Decision{
		Label:          c.Label,
		PrimaryHits:    n.primary,
		SupportingHits: n.supporting,
	}

	if n.exclusion > 0 {
		d.Reason = ReasonExclusion
		return d
	}
	for _, re := range c.StrongIndicators {
		if re.MatchString(corpus) {
			d.Accepted = true
			d.Reason = ReasonStrongIndicator
			d.Score = 2*n.primary + n.supporting
			return d
		}
	}

	d.Score = 2*n.primary + n.supporting
	if d.Score >= s.thresholds.MinScore && n.primary >= s.thresholds.MinPrimary {
		d.Accepted = true
		d.Reason = ReasonScore
		return d
	}
	d.Reason = ReasonBelowThreshold
	return d
}

// match returns the indices of distinct keywords present in words.
func (s *HolisticScorer) match(words string) []int {
	if s.matcher == nil || words == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matcher.Match([]byte(words))
}

// Package classifier assigns a category label to a catalog item by scoring
// its text against the ordered taxonomy.
package classifier

import (
	"fmt"

	"github.com/whpcodes/catalog-service/internal/features"
	"github.com/whpcodes/catalog-service/internal/taxonomy"
)

// Strategy names.
const (
	StrategyHolistic   = "holistic"
	StrategyContextual = "contextual"
)

// Decision reasons.
const (
	ReasonExclusion       = "exclusion"
	ReasonStrongIndicator = "strong_indicator"
	ReasonScore           = "score"
	ReasonBelowThreshold  = "below_threshold"
	ReasonTooFewMatches   = "too_few_matches"
	ReasonNoContext       = "insufficient_context"
)

// Decision is one category's verdict for one item.
type Decision struct {
	Label          string `json:"label"`
	Accepted       bool   `json:"accepted"`
	Reason         string `json:"reason"`
	Score          int    `json:"score"`
	PrimaryHits    int    `json:"primary_hits"`
	SupportingHits int    `json:"supporting_hits"`
}

// Scorer evaluates every category of a taxonomy against extracted features.
// Decisions are returned in taxonomy order. Implementations are pure.
type Scorer interface {
	Name() string
	Score(f features.Features) []Decision
}

// Thresholds for the holistic strategy.
type Thresholds struct {
	MinScore   int
	MinPrimary int
}

// DefaultThresholds accept at score >= 3 with at least one primary hit.
var DefaultThresholds = Thresholds{MinScore: 3, MinPrimary: 1}

// NewScorer returns the scorer registered under name.
func NewScorer(name string, tax *taxonomy.Taxonomy, th Thresholds) (Scorer, error) {
	switch name {
	case StrategyHolistic, "":
		return NewHolisticScorer(tax, th), nil
	case StrategyContextual:
		return NewContextualScorer(tax), nil
	default:
		return nil, fmt.Errorf("unknown classifier strategy %q", name)
	}
}

package classifier

import (
	"github.com/whpcodes/catalog-service/internal/features"
	"github.com/whpcodes/catalog-service/internal/taxonomy"
)

// Classifier returns the first category whose scorer accepts, in taxonomy
// order, or the taxonomy's default label.
type Classifier struct {
	defaultLabel string
	scorer       Scorer
}

// New returns a Classifier using scorer and the default label of tax.
func New(tax *taxonomy.Taxonomy, scorer Scorer) *Classifier {
	return &Classifier{defaultLabel: tax.DefaultLabel(), scorer: scorer}
}

// Explanation details how a label was chosen.
type Explanation struct {
	Label          string     `json:"label"`
	Strategy       string     `json:"strategy"`
	HasDescription bool       `json:"has_description"`
	Decisions      []Decision `json:"decisions,omitempty"`
}

// Classify returns the category label for an item. It never fails: text
// that matches nothing falls through to the default label.
func (c *Classifier) Classify(name string, description *string) string {
	return c.Explain(name, description).Label
}

// Explain is Classify with the per-category decisions attached. Items
// without a description get the default label and no rules are evaluated.
func (c *Classifier) Explain(name string, description *string) Explanation {
	f := features.Extract(name, description)
	exp := Explanation{
		Label:          c.defaultLabel,
		Strategy:       c.scorer.Name(),
		HasDescription: f.HasDescription,
	}
	if !f.HasDescription {
		return exp
	}

	exp.Decisions = c.scorer.Score(f)
	for _, d := range exp.Decisions {
		if d.Accepted {
			exp.Label = d.Label
			break
		}
	}
	return exp
}

// Strategy returns the scorer name.
func (c *Classifier) Strategy() string {
	return c.scorer.Name()
}

// DefaultLabel returns the fallback label.
func (c *Classifier) DefaultLabel() string {
	return c.defaultLabel
}

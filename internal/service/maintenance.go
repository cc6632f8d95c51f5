package service

import (
	"context"
	"sort"

	"github.com/whpcodes/catalog-service/internal/classifier"
	"github.com/whpcodes/catalog-service/internal/concurrency"
	"github.com/whpcodes/catalog-service/internal/models"
	"github.com/whpcodes/catalog-service/internal/pricing"
)

// Change is one planned field rewrite.
type Change struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// ClassificationPlan is the outcome of classifying the whole catalog.
type ClassificationPlan struct {
	Total        int
	Distribution map[string]int
	Changes      []Change
	Explanations map[string]classifier.Explanation
}

// PricePlan is the outcome of normalizing every price.
type PricePlan struct {
	Total   int
	Changes []Change
}

// Maintainer plans catalog-wide rewrites concurrently and applies them one
// write at a time.
type Maintainer struct {
	whops   WhopStore
	workers int
}

func NewMaintainer(whops WhopStore, workers int) *Maintainer {
	if workers <= 0 {
		workers = 4
	}
	return &Maintainer{whops: whops, workers: workers}
}

// PlanClassification classifies every whop with c.
func (m *Maintainer) PlanClassification(ctx context.Context, c *classifier.Classifier) (*ClassificationPlan, error) {
	all, err := m.whops.All(ctx)
	if err != nil {
		return nil, err
	}

	explanations := concurrency.Map(ctx, m.workers, all, func(_ context.Context, w models.Whop) classifier.Explanation {
		return c.Explain(w.Name, w.Description)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plan := &ClassificationPlan{
		Total:        len(all),
		Distribution: make(map[string]int),
		Explanations: make(map[string]classifier.Explanation),
	}
	for i, w := range all {
		exp := explanations[i]
		plan.Distribution[exp.Label]++
		if exp.Label != w.CategoryText() {
			plan.Changes = append(plan.Changes, Change{ID: w.ID, Name: w.Name, Before: w.CategoryText(), After: exp.Label})
			plan.Explanations[w.ID] = exp
		}
	}
	sortChanges(plan.Changes)
	return plan, nil
}

// PlanPrices normalizes every whop's price with n.
func (m *Maintainer) PlanPrices(ctx context.Context, n *pricing.Normalizer) (*PricePlan, error) {
	all, err := m.whops.All(ctx)
	if err != nil {
		return nil, err
	}

	prices := concurrency.Map(ctx, m.workers, all, func(_ context.Context, w models.Whop) string {
		return n.Normalize(w.PriceText(), w.Name, w.DescriptionText())
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plan := &PricePlan{Total: len(all)}
	for i, w := range all {
		if prices[i] != w.PriceText() {
			plan.Changes = append(plan.Changes, Change{ID: w.ID, Name: w.Name, Before: w.PriceText(), After: prices[i]})
		}
	}
	sortChanges(plan.Changes)
	return plan, nil
}

// ApplyCategories writes planned categories sequentially.
func (m *Maintainer) ApplyCategories(ctx context.Context, changes []Change) *models.BulkResult {
	return apply(ctx, changes, m.whops.UpdateCategory)
}

// ApplyPrices writes planned prices sequentially.
func (m *Maintainer) ApplyPrices(ctx context.Context, changes []Change) *models.BulkResult {
	return apply(ctx, changes, m.whops.UpdatePrice)
}

func apply(ctx context.Context, changes []Change, write func(ctx context.Context, id, value string) error) *models.BulkResult {
	res := &models.BulkResult{}
	for _, c := range changes {
		if ctx.Err() != nil {
			res.Record(c.ID, ctx.Err())
			continue
		}
		res.Record(c.ID, translate(write(ctx, c.ID, c.After)))
	}
	return res
}

func sortChanges(changes []Change) {
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Name < changes[j].Name })
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whpcodes/catalog-service/internal/models"
)

func maintenanceWhops() *fakeWhops {
	return newFakeWhops(
		models.Whop{
			ID: "w1", Name: "Betting Hub",
			Description: models.StringPtr("sports betting picks in our discord"),
			Category:    models.StringPtr("Business"),
			Price:       models.StringPtr("15 USD / week"),
		},
		models.Whop{
			ID: "w2", Name: "Quiet Corner",
			Category: models.StringPtr("Other"),
			Price:    models.StringPtr("$5/month"),
		},
		models.Whop{
			ID: "w3", Name: "Income Lab",
			Description: models.StringPtr("I made $35,000 in a single month"),
			Price:       models.StringPtr("$35,000"),
		},
	)
}

func TestMaintainer_PlanAndApplyClassification(t *testing.T) {
	whops := maintenanceWhops()
	m := NewMaintainer(whops, 2)
	ctx := context.Background()

	plan, err := m.PlanClassification(ctx, newTestClassifier())
	require.NoError(t, err)
	assert.Equal(t, 3, plan.Total)
	assert.Equal(t, 1, plan.Distribution["Sports Betting"])
	assert.Equal(t, 2, plan.Distribution["Other"])

	require.Len(t, plan.Changes, 2)
	assert.Equal(t, Change{ID: "w1", Name: "Betting Hub", Before: "Business", After: "Sports Betting"}, plan.Changes[0])
	assert.Equal(t, "w3", plan.Changes[1].ID)
	assert.Contains(t, plan.Explanations, "w1")

	res := m.ApplyCategories(ctx, plan.Changes)
	assert.Equal(t, 2, res.Succeeded)

	w, _ := whops.Get(ctx, "w1")
	assert.Equal(t, "Sports Betting", w.CategoryText())
}

func TestMaintainer_PlanAndApplyPrices(t *testing.T) {
	whops := maintenanceWhops()
	whops.failIDs["w3"] = true
	m := NewMaintainer(whops, 0)
	ctx := context.Background()

	plan, err := m.PlanPrices(ctx, newTestNormalizer())
	require.NoError(t, err)
	require.Len(t, plan.Changes, 2)
	assert.Equal(t, Change{ID: "w1", Name: "Betting Hub", Before: "15 USD / week", After: "15 USD/week"}, plan.Changes[0])
	assert.Equal(t, "N/A", plan.Changes[1].After)

	res := m.ApplyPrices(ctx, plan.Changes)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
}

func TestMaintainer_Cancelled(t *testing.T) {
	m := NewMaintainer(maintenanceWhops(), 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.PlanPrices(ctx, newTestNormalizer())
	assert.ErrorIs(t, err, context.Canceled)
}

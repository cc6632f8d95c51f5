package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whpcodes/catalog-service/internal/cache"
	"github.com/whpcodes/catalog-service/internal/models"
)

type catalogFixture struct {
	svc     *CatalogService
	whops   *fakeWhops
	promos  *fakePromos
	reviews *fakeReviews
	cache   *cache.MemoryCache
}

func newCatalogFixture(seed ...models.Whop) *catalogFixture {
	whops := newFakeWhops(seed...)
	f := &catalogFixture{
		whops:   whops,
		promos:  newFakePromos(whops),
		reviews: newFakeReviews(whops),
		cache:   cache.NewMemoryCache(),
	}
	f.svc = NewCatalogService(CatalogDeps{
		Whops:      f.whops,
		Promos:     f.promos,
		Reviews:    f.reviews,
		Classifier: newTestClassifier(),
		Normalizer: newTestNormalizer(),
		Cache:      f.cache,
	})
	f.svc.newID = seqIDs("id-")
	return f
}

func TestCatalog_CreateClassifiesAndNormalizes(t *testing.T) {
	f := newCatalogFixture()

	w, err := f.svc.Create(context.Background(), models.WhopInput{
		Name:        "Betting Hub",
		Description: models.StringPtr("Daily sports betting picks shared in our discord"),
		Price:       models.StringPtr("15 USD / week"),
	})
	require.NoError(t, err)

	assert.Equal(t, "id-1", w.ID)
	assert.Equal(t, "betting-hub", w.Slug)
	assert.Equal(t, "Sports Betting", w.CategoryText())
	assert.Equal(t, "15 USD/week", w.PriceText())
}

func TestCatalog_CreateKeepsExplicitCategory(t *testing.T) {
	f := newCatalogFixture()

	w, err := f.svc.Create(context.Background(), models.WhopInput{
		Name:     "Betting Hub",
		Category: models.StringPtr("Custom"),
		Price:    models.StringPtr("FREE"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Custom", w.CategoryText())
	assert.Equal(t, "Free", w.PriceText())
}

func TestCatalog_CreateWithoutDescriptionIsOther(t *testing.T) {
	f := newCatalogFixture()

	w, err := f.svc.Create(context.Background(), models.WhopInput{Name: "Sports Betting Picks"})
	require.NoError(t, err)
	assert.Equal(t, "Other", w.CategoryText())
	assert.Nil(t, w.Price)
}

func TestCatalog_CreateValidation(t *testing.T) {
	f := newCatalogFixture()

	tests := []struct {
		name  string
		in    models.WhopInput
		field string
	}{
		{"missing name", models.WhopInput{Name: "  "}, "name"},
		{"symbol-only slug", models.WhopInput{Name: "!!!"}, "slug"},
		{"bad website", models.WhopInput{Name: "A", Website: models.StringPtr("ftp://x")}, "website"},
		{"bad affiliate link", models.WhopInput{Name: "A", AffiliateLink: models.StringPtr("not a url")}, "affiliateLink"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestCatalog_DuplicateSlugIsValidationError(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.svc.Create(context.Background(), models.WhopInput{Name: "Options Flow"})
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), models.WhopInput{Name: "options  flow"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "slug", ve.Field)

	res, err := f.svc.Import(context.Background(), []models.WhopInput{{Name: "Chart Room"}, {Name: "Chart Room"}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, "slug: already exists", res.Errors["Chart Room"])
}

func TestCatalog_GetAndNotFound(t *testing.T) {
	f := newCatalogFixture(models.Whop{ID: "w1", Name: "A"})
	f.reviews.byID["r1"] = models.Review{ID: "r1", WhopID: "w1", Verified: true}
	f.reviews.byID["r2"] = models.Review{ID: "r2", WhopID: "w1"}

	d, err := f.svc.Get(context.Background(), "w1")
	require.NoError(t, err)
	assert.Len(t, d.Reviews, 1, "only verified reviews are public")
	assert.NotNil(t, d.PromoCodes)

	_, err = f.svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_ListClampsPaging(t *testing.T) {
	var seed []models.Whop
	for i := 0; i < 5; i++ {
		seed = append(seed, models.Whop{ID: string(rune('a' + i)), Name: "Item"})
	}
	f := newCatalogFixture(seed...)

	page, err := f.svc.List(context.Background(), ListParams{Page: 0, PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, MaxPageSize, page.PageSize)
	assert.Equal(t, 5, page.Total)

	page, err = f.svc.List(context.Background(), ListParams{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	page, err = f.svc.List(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, page.PageSize)
}

func TestCatalog_UpdateMissing(t *testing.T) {
	f := newCatalogFixture()
	_, err := f.svc.Update(context.Background(), "nope", models.WhopInput{Name: "A"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_BulkDeletePartialFailure(t *testing.T) {
	f := newCatalogFixture(models.Whop{ID: "a"}, models.Whop{ID: "b"}, models.Whop{ID: "c"})
	f.whops.failIDs["b"] = true

	res, err := f.svc.BulkDelete(context.Background(), []string{"a", "b", "c", "zzz"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 2, res.Failed)
	assert.Contains(t, res.Errors, "b")
	assert.Equal(t, ErrNotFound.Error(), res.Errors["zzz"])

	_, err = f.whops.Get(context.Background(), "a")
	assert.Error(t, err, "earlier deletions are not rolled back")

	_, err = f.svc.BulkDelete(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCatalog_Import(t *testing.T) {
	f := newCatalogFixture()
	f.whops.failIDs["Broken"] = true

	res, err := f.svc.Import(context.Background(), []models.WhopInput{
		{Name: "Options Flow", Description: models.StringPtr("Options trading alerts and stock market breakdowns")},
		{Name: ""},
		{Name: "Broken"},
		{Name: "Scale Your Salary (3M+VA)", Price: models.StringPtr("$3,000,000")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 2, res.Failed)
	assert.Contains(t, res.Errors, "#2")
	assert.Contains(t, res.Errors, "Broken")

	all, _ := f.whops.All(context.Background())
	prices := map[string]string{}
	for _, w := range all {
		prices[w.Name] = w.PriceText()
	}
	assert.Equal(t, "$1,750/month", prices["Scale Your Salary (3M+VA)"])
}

func TestCatalog_WritesPurgeRecommendationCache(t *testing.T) {
	f := newCatalogFixture(models.Whop{ID: "w1", Name: "A"})
	ctx := context.Background()
	key := cache.RecommendationsKey("w1", 4, false)
	require.NoError(t, f.cache.Set(ctx, key, []byte("{}"), 0))

	require.NoError(t, f.svc.Delete(ctx, "w1"))

	_, ok, _ := f.cache.Get(ctx, key)
	assert.False(t, ok)
}

func TestCatalog_PromoCodes(t *testing.T) {
	f := newCatalogFixture(models.Whop{ID: "w1", Name: "A"})
	ctx := context.Background()

	p, err := f.svc.CreatePromo(ctx, "w1", models.PromoCodeInput{Title: "20% off", Code: models.StringPtr(" SAVE20 "), Value: "20%"})
	require.NoError(t, err)
	assert.Equal(t, models.PromoDiscount, p.Type)
	assert.Equal(t, "SAVE20", *p.Code)

	_, err = f.svc.CreatePromo(ctx, "missing", models.PromoCodeInput{Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.CreatePromo(ctx, "w1", models.PromoCodeInput{Title: "x", Type: "coupon"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	updated, err := f.svc.UpdatePromo(ctx, p.ID, models.PromoCodeInput{Title: "7 day trial", Type: models.PromoFreeTrial})
	require.NoError(t, err)
	assert.Equal(t, "w1", updated.WhopID)

	require.NoError(t, f.svc.DeletePromo(ctx, p.ID))
	assert.ErrorIs(t, f.svc.DeletePromo(ctx, p.ID), ErrNotFound)
}

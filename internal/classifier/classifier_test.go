package classifier_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whpcodes/catalog-service/internal/classifier"
	"github.com/whpcodes/catalog-service/internal/taxonomy"
)

func ptr(s string) *string { return &s }

func newClassifier(t *testing.T, strategy string) *classifier.Classifier {
	t.Helper()

	tax := taxonomy.Default()
	scorer, err := classifier.NewScorer(strategy, tax, classifier.DefaultThresholds)
	require.NoError(t, err)
	return classifier.New(tax, scorer)
}

func TestClassify_BothStrategies(t *testing.T) {
	testCases := []struct {
		name        string
		itemName    string
		description *string
		want        string
	}{
		{
			name:        "sports betting hub",
			itemName:    "Betting Hub",
			description: ptr("Premium sports betting picks every day, tracked in our discord."),
			want:        taxonomy.SportsBetting,
		},
		{
			name:        "options trading",
			itemName:    "Options Flow",
			description: ptr("Daily options trading alerts and technical analysis for stocks."),
			want:        taxonomy.Trading,
		},
		{
			name:        "trading cards excluded from trading",
			itemName:    "Card Vault",
			description: ptr("Pokemon trading cards: flip and resell with our community."),
			want:        taxonomy.Reselling,
		},
		{
			name:        "single primary hit is not enough",
			itemName:    "Daily Notes",
			description: ptr("A fitness journal."),
			want:        taxonomy.DefaultLabel,
		},
		{
			name:        "empty description short-circuits",
			itemName:    "Sports Betting Picks Parlay",
			description: ptr(""),
			want:        taxonomy.DefaultLabel,
		},
		{
			name:     "nil description short-circuits",
			itemName: "Sports Betting Picks Parlay",
			want:     taxonomy.DefaultLabel,
		},
		{
			name:        "nothing matches",
			itemName:    "Cool Stuff",
			description: ptr("A place to hang out."),
			want:        taxonomy.DefaultLabel,
		},
	}

	for _, strategy := range []string{classifier.StrategyHolistic, classifier.StrategyContextual} {
		c := newClassifier(t, strategy)
		for _, tc := range testCases {
			t.Run(strategy+"/"+tc.name, func(t *testing.T) {
				assert.Equal(t, tc.want, c.Classify(tc.itemName, tc.description))
			})
		}
	}
}

func TestClassify_StrongIndicatorBypassesScore(t *testing.T) {
	c := newClassifier(t, classifier.StrategyHolistic)

	exp := c.Explain("Lineup", ptr("nfl picks"))
	require.Equal(t, taxonomy.SportsBetting, exp.Label)
	assert.Equal(t, classifier.ReasonStrongIndicator, exp.Decisions[0].Reason)
}

func TestClassify_Idempotent(t *testing.T) {
	c := newClassifier(t, classifier.StrategyHolistic)
	desc := ptr("Shopify dropshipping store with winning products and facebook ads")

	first := c.Classify("Store Lab", desc)
	second := c.Classify("Store Lab", desc)

	assert.Equal(t, taxonomy.ECommerce, first)
	assert.Equal(t, first, second)
}

func TestExplain_ReportsEveryCategory(t *testing.T) {
	c := newClassifier(t, classifier.StrategyContextual)

	exp := c.Explain("Betting Hub", ptr("sports betting picks in discord"))
	assert.Len(t, exp.Decisions, len(taxonomy.Default().Categories()))
	assert.Equal(t, classifier.StrategyContextual, exp.Strategy)
	assert.True(t, exp.HasDescription)

	empty := c.Explain("Betting Hub", nil)
	assert.Empty(t, empty.Decisions)
	assert.False(t, empty.HasDescription)
}

func TestHolisticScorer_ConfigurableThresholds(t *testing.T) {
	tax := taxonomy.Default()
	c := classifier.New(tax, classifier.NewHolisticScorer(tax, classifier.Thresholds{MinScore: 2, MinPrimary: 1}))

	assert.Equal(t, taxonomy.Fitness, c.Classify("Daily Notes", ptr("A fitness journal.")))
}

func TestCustomDefaultLabel(t *testing.T) {
	tax := taxonomy.Default().WithDefaultLabel("OTHER")
	c := classifier.New(tax, classifier.NewContextualScorer(tax))

	assert.Equal(t, "OTHER", c.Classify("Anything", nil))
	assert.Equal(t, "OTHER", c.DefaultLabel())
}

func TestNewScorer_UnknownStrategy(t *testing.T) {
	_, err := classifier.NewScorer("fuzzy", taxonomy.Default(), classifier.DefaultThresholds)
	require.Error(t, err)
}

func TestHolisticScorer_ConcurrentUse(t *testing.T) {
	c := newClassifier(t, classifier.StrategyHolistic)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				assert.Equal(t, taxonomy.SportsBetting,
					c.Classify("Betting Hub", ptr("sports betting picks")))
			}
		}()
	}
	wg.Wait()
}

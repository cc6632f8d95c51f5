// Package recommend ranks catalog items by content similarity to a source item.
package recommend

import (
	"sort"
	"strings"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/whpcodes/catalog-service/internal/features"
	"github.com/whpcodes/catalog-service/internal/models"
)

const (
	maxTopics    = 3
	phraseWeight = 5
	wordWeight   = 2

	// DefaultLimit is the number of recommendations returned when the caller
	// does not ask for a specific count.
	DefaultLimit = 4
	// DefaultMinScore drops weakly related candidates.
	DefaultMinScore = 20.0
)

// Weights are the pairwise similarity weights.
type Weights struct {
	SameCategory     float64
	SameTopTopic     float64
	SharedTopic      float64
	SamePrice        float64
	KeywordEach      float64
	KeywordCap       float64
	RatingFloor      float64
	RatingMultiplier float64
}

// DefaultWeights returns the production weights.
func DefaultWeights() Weights {
	return Weights{
		SameCategory:     100,
		SameTopTopic:     80,
		SharedTopic:      25,
		SamePrice:        10,
		KeywordEach:      3,
		KeywordCap:       30,
		RatingFloor:      4.0,
		RatingMultiplier: 2,
	}
}

// Options configure a Ranker. Zero values fall back to the defaults.
type Options struct {
	Weights  *Weights
	MinScore float64
	Limit    int
}

// Profile is the derived view of one item.
type Profile struct {
	Topics   []string `json:"topics"`
	Keywords []string `json:"keywords"`

	keywordSet map[string]struct{}
}

// Breakdown itemizes a candidate's similarity score.
type Breakdown struct {
	SameCategory   float64  `json:"sameCategory"`
	SameTopTopic   float64  `json:"sameTopTopic"`
	SharedTopics   float64  `json:"sharedTopics"`
	SamePrice      float64  `json:"samePrice"`
	Keywords       float64  `json:"keywords"`
	Rating         float64  `json:"rating"`
	SharedKeywords []string `json:"sharedKeywords,omitempty"`
	Topics         []string `json:"topics,omitempty"`
}

// Scored is a candidate with its similarity score.
type Scored struct {
	Whop      models.Whop `json:"whop"`
	Score     float64     `json:"score"`
	Breakdown Breakdown   `json:"breakdown"`
}

// Result is a full ranking pass, including what was filtered out.
type Result struct {
	Source    Profile  `json:"source"`
	Items     []Scored `json:"items"`
	Evaluated int      `json:"evaluated"`
	Qualified int      `json:"qualified"`
}

// Ranker scores candidates against a source item. Safe for concurrent use.
type Ranker struct {
	topics   []Topic
	weights  Weights
	minScore float64
	limit    int

	// Matcher.Match mutates internal state and must not run concurrently.
	mu       sync.Mutex
	matcher  *ahocorasick.Matcher
	keywords []string
}

// NewRanker builds a Ranker over topics.
func NewRanker(topics []Topic, opts Options) *Ranker {
	r := &Ranker{
		topics:   topics,
		weights:  DefaultWeights(),
		minScore: DefaultMinScore,
		limit:    DefaultLimit,
	}
	if opts.Weights != nil {
		r.weights = *opts.Weights
	}
	if opts.MinScore > 0 {
		r.minScore = opts.MinScore
	}
	if opts.Limit > 0 {
		r.limit = opts.Limit
	}

	seen := make(map[string]bool)
	var padded []string
	for _, t := range topics {
		for _, kw := range append(append([]string{}, t.Phrases...), t.Words...) {
			kw = features.NormalizeWords(kw)
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			r.keywords = append(r.keywords, kw)
			padded = append(padded, " "+kw+" ")
		}
	}
	if len(padded) > 0 {
		r.matcher = ahocorasick.NewStringMatcher(padded)
	}
	return r
}

// Profile derives the top topics and domain keywords of w.
func (r *Ranker) Profile(w models.Whop) Profile {
	f := features.Extract(w.Name, w.Description)
	set := r.domainKeywords(f.Words)

	p := Profile{
		Topics:     r.topTopics(f.Words),
		Keywords:   make([]string, 0, len(set)),
		keywordSet: set,
	}
	for kw := range set {
		p.Keywords = append(p.Keywords, kw)
	}
	sort.Strings(p.Keywords)
	return p
}

func (r *Ranker) topTopics(words string) []string {
	counts := make(map[string]int)
	for _, tok := range strings.Fields(words) {
		counts[tok]++
	}

	type topicScore struct {
		name  string
		score int
		order int
	}
	var scored []topicScore
	for i, t := range r.topics {
		score := 0
		for _, p := range t.Phrases {
			p = features.NormalizeWords(p)
			if p != "" && strings.Contains(words, " "+p+" ") {
				score += len(strings.Fields(p)) * phraseWeight
			}
		}
		for _, w := range t.Words {
			score += counts[features.NormalizeWords(w)] * wordWeight
		}
		if score > 0 {
			scored = append(scored, topicScore{name: t.Name, score: score, order: i})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].order < scored[j].order
	})
	if len(scored) > maxTopics {
		scored = scored[:maxTopics]
	}

	out := make([]string, len(scored))
	for i, s := range scored {
		out[i] = s.name
	}
	return out
}

func (r *Ranker) domainKeywords(words string) map[string]struct{} {
	set := make(map[string]struct{})
	if r.matcher == nil || strings.TrimSpace(words) == "" {
		return set
	}
	r.mu.Lock()
	hits := r.matcher.Match([]byte(words))
	r.mu.Unlock()
	for _, i := range hits {
		set[r.keywords[i]] = struct{}{}
	}
	return set
}

// Recommend returns at most limit candidates most similar to source, best
// first. The source itself is never returned. limit <= 0 uses the
// configured default.
func (r *Ranker) Recommend(source models.Whop, candidates []models.Whop, limit int) []Scored {
	return r.Rank(source, candidates, limit).Items
}

// Rank is Recommend with the source profile and filter counts attached.
func (r *Ranker) Rank(source models.Whop, candidates []models.Whop, limit int) Result {
	if limit <= 0 {
		limit = r.limit
	}

	src := r.Profile(source)
	res := Result{Source: src, Items: []Scored{}}

	for _, c := range candidates {
		if c.ID == source.ID {
			continue
		}
		res.Evaluated++

		b := r.similarity(source, src, c, r.Profile(c))
		score := b.SameCategory + b.SameTopTopic + b.SharedTopics + b.SamePrice + b.Keywords + b.Rating
		if score < r.minScore {
			continue
		}
		res.Items = append(res.Items, Scored{Whop: c, Score: score, Breakdown: b})
	}
	res.Qualified = len(res.Items)

	sort.SliceStable(res.Items, func(i, j int) bool {
		a, b := res.Items[i], res.Items[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Whop.Rating != b.Whop.Rating {
			return a.Whop.Rating > b.Whop.Rating
		}
		return a.Whop.CreatedAt.After(b.Whop.CreatedAt)
	})
	if len(res.Items) > limit {
		res.Items = res.Items[:limit]
	}
	return res
}

func (r *Ranker) similarity(source models.Whop, sp Profile, cand models.Whop, cp Profile) Breakdown {
	w := r.weights
	b := Breakdown{Topics: cp.Topics}

	if cat := strings.TrimSpace(source.CategoryText()); cat != "" && cat == strings.TrimSpace(cand.CategoryText()) {
		b.SameCategory = w.SameCategory
	}

	topMatch := len(sp.Topics) > 0 && len(cp.Topics) > 0 && sp.Topics[0] == cp.Topics[0]
	if topMatch {
		b.SameTopTopic = w.SameTopTopic
	}
	shared := 0
	for _, t := range sp.Topics {
		for _, u := range cp.Topics {
			if t == u {
				shared++
			}
		}
	}
	if topMatch {
		shared--
	}
	b.SharedTopics = float64(shared) * w.SharedTopic

	if price := strings.TrimSpace(source.PriceText()); price != "" && price == strings.TrimSpace(cand.PriceText()) {
		b.SamePrice = w.SamePrice
	}

	for _, kw := range sp.Keywords {
		if _, ok := cp.keywordSet[kw]; ok {
			b.SharedKeywords = append(b.SharedKeywords, kw)
		}
	}
	b.Keywords = float64(len(b.SharedKeywords)) * w.KeywordEach
	if b.Keywords > w.KeywordCap {
		b.Keywords = w.KeywordCap
	}

	if cand.Rating > w.RatingFloor {
		b.Rating = cand.Rating * w.RatingMultiplier
	}
	return b
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/whpcodes/catalog-service/internal/classifier"
	"github.com/whpcodes/catalog-service/internal/models"
	"github.com/whpcodes/catalog-service/internal/pricing"
	"github.com/whpcodes/catalog-service/internal/repository"
	"github.com/whpcodes/catalog-service/internal/taxonomy"
)

var errBoom = errors.New("boom")

type fakeWhops struct {
	mu      sync.Mutex
	byID    map[string]models.Whop
	failIDs map[string]bool
	clock   time.Time
}

func newFakeWhops(whops ...models.Whop) *fakeWhops {
	f := &fakeWhops{
		byID:    make(map[string]models.Whop),
		failIDs: make(map[string]bool),
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, w := range whops {
		f.byID[w.ID] = w
	}
	return f
}

func (f *fakeWhops) List(_ context.Context, filter models.WhopFilter) ([]models.Whop, int, error) {
	all, _ := f.All(context.Background())
	var matched []models.Whop
	for _, w := range all {
		if filter.Category != "" && w.CategoryText() != filter.Category {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(w.Name), strings.ToLower(filter.Query)) {
			continue
		}
		matched = append(matched, w)
	}
	total := len(matched)
	if filter.Offset >= len(matched) {
		return []models.Whop{}, total, nil
	}
	matched = matched[filter.Offset:]
	if len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (f *fakeWhops) All(context.Context) ([]models.Whop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Whop, 0, len(f.byID))
	for _, w := range f.byID {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeWhops) Get(_ context.Context, id string) (*models.Whop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (f *fakeWhops) Create(_ context.Context, w *models.Whop) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[w.Name] {
		return errBoom
	}
	for _, existing := range f.byID {
		if w.Slug != "" && existing.Slug == w.Slug {
			return repository.ErrDuplicate
		}
	}
	f.clock = f.clock.Add(time.Minute)
	w.CreatedAt, w.UpdatedAt = f.clock, f.clock
	f.byID[w.ID] = *w
	return nil
}

func (f *fakeWhops) Update(_ context.Context, w *models.Whop) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.byID[w.ID]
	if !ok {
		return repository.ErrNotFound
	}
	w.Rating, w.CreatedAt = old.Rating, old.CreatedAt
	f.byID[w.ID] = *w
	return nil
}

func (f *fakeWhops) UpdateCategory(_ context.Context, id, category string) error {
	return f.mutate(id, func(w *models.Whop) { w.Category = &category })
}

func (f *fakeWhops) UpdatePrice(_ context.Context, id, price string) error {
	return f.mutate(id, func(w *models.Whop) { w.Price = &price })
}

func (f *fakeWhops) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[id] {
		return errBoom
	}
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeWhops) mutate(id string, fn func(w *models.Whop)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[id] {
		return errBoom
	}
	w, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&w)
	f.byID[id] = w
	return nil
}

type fakePromos struct {
	whops *fakeWhops
	byID  map[string]models.PromoCode
}

func newFakePromos(whops *fakeWhops) *fakePromos {
	return &fakePromos{whops: whops, byID: make(map[string]models.PromoCode)}
}

func (f *fakePromos) ListByWhop(_ context.Context, whopID string) ([]models.PromoCode, error) {
	out := []models.PromoCode{}
	for _, p := range f.byID {
		if p.WhopID == whopID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePromos) Get(_ context.Context, id string) (*models.PromoCode, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (f *fakePromos) Create(ctx context.Context, p *models.PromoCode) error {
	if _, err := f.whops.Get(ctx, p.WhopID); err != nil {
		return err
	}
	f.byID[p.ID] = *p
	return nil
}

func (f *fakePromos) Update(_ context.Context, p *models.PromoCode) error {
	old, ok := f.byID[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	p.WhopID = old.WhopID
	f.byID[p.ID] = *p
	return nil
}

func (f *fakePromos) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeReviews struct {
	whops *fakeWhops
	byID  map[string]models.Review
}

func newFakeReviews(whops *fakeWhops) *fakeReviews {
	return &fakeReviews{whops: whops, byID: make(map[string]models.Review)}
}

func (f *fakeReviews) ListByWhop(_ context.Context, whopID string, verifiedOnly bool) ([]models.Review, error) {
	out := []models.Review{}
	for _, r := range f.byID {
		if r.WhopID == whopID && (!verifiedOnly || r.Verified) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviews) List(_ context.Context, verified *bool) ([]models.Review, error) {
	out := []models.Review{}
	for _, r := range f.byID {
		if verified == nil || r.Verified == *verified {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviews) Create(ctx context.Context, r *models.Review) error {
	if _, err := f.whops.Get(ctx, r.WhopID); err != nil {
		return err
	}
	f.byID[r.ID] = *r
	return nil
}

func (f *fakeReviews) Verify(_ context.Context, id string) error {
	r, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.Verified = true
	f.byID[id] = r
	return f.recompute(r.WhopID)
}

func (f *fakeReviews) Delete(_ context.Context, id string) error {
	r, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return f.recompute(r.WhopID)
}

func (f *fakeReviews) recompute(whopID string) error {
	sum, n := 0.0, 0
	for _, r := range f.byID {
		if r.WhopID == whopID && r.Verified {
			sum += r.Rating
			n++
		}
	}
	return f.whops.mutate(whopID, func(w *models.Whop) {
		w.Rating = 0
		if n > 0 {
			w.Rating = sum / float64(n)
		}
	})
}

type fakeEvents struct {
	mu       sync.Mutex
	inserted [][]models.TrackingEvent
	rows     []models.TrackingEventRow
	lastQ    repository.EventQuery
	err      error
	failures int
	calls    int
}

func (f *fakeEvents) InsertBatch(_ context.Context, events []models.TrackingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	if f.failures > 0 {
		f.failures--
		return errBoom
	}
	batch := append([]models.TrackingEvent(nil), events...)
	f.inserted = append(f.inserted, batch)
	return nil
}

func (f *fakeEvents) Events(_ context.Context, q repository.EventQuery) ([]models.TrackingEventRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQ = q
	rows := f.rows
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return rows, nil
}

func (f *fakeEvents) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.inserted {
		n += len(b)
	}
	return n
}

func newTestClassifier() *classifier.Classifier {
	tax := taxonomy.Default()
	return classifier.New(tax, classifier.NewHolisticScorer(tax, classifier.DefaultThresholds))
}

func newTestNormalizer() *pricing.Normalizer {
	return pricing.NewNormalizer(pricing.NewOverrideTable([]pricing.Override{
		{Name: "Scale Your Salary (3M+VA)", Price: "$1,750/month"},
	}))
}

func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

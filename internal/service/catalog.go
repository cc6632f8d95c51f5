package service

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/whpcodes/catalog-service/internal/cache"
	"github.com/whpcodes/catalog-service/internal/classifier"
	"github.com/whpcodes/catalog-service/internal/metrics"
	"github.com/whpcodes/catalog-service/internal/models"
	"github.com/whpcodes/catalog-service/internal/pricing"
	"github.com/whpcodes/catalog-service/pkg/logger"
)

// Listing page sizes.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	maxNameLength   = 200
)

// CatalogDeps wires a CatalogService.
type CatalogDeps struct {
	Whops      WhopStore
	Promos     PromoStore
	Reviews    ReviewStore
	Classifier *classifier.Classifier
	Normalizer *pricing.Normalizer
	// Cache is optional; writes purge cached recommendations from it.
	Cache   cache.Cache
	Log     logger.Logger
	Metrics *metrics.Metrics
}

// CatalogService manages whops, their promo codes and their reviews.
type CatalogService struct {
	whops      WhopStore
	promos     PromoStore
	reviews    ReviewStore
	classifier *classifier.Classifier
	normalizer *pricing.Normalizer
	cache      cache.Cache
	log        logger.Logger
	metrics    *metrics.Metrics
	newID      func() string
}

func NewCatalogService(d CatalogDeps) *CatalogService {
	log := d.Log
	if log == nil {
		log = logger.NewNop()
	}
	return &CatalogService{
		whops:      d.Whops,
		promos:     d.Promos,
		reviews:    d.Reviews,
		classifier: d.Classifier,
		normalizer: d.Normalizer,
		cache:      d.Cache,
		log:        log,
		metrics:    d.Metrics,
		newID:      uuid.NewString,
	}
}

// ListParams are the public listing query parameters.
type ListParams struct {
	Category string
	Query    string
	Page     int
	PageSize int
}

// Page is one page of a listing.
type Page struct {
	Items    []models.Whop `json:"items"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

// List returns one page of the catalog, newest first.
func (s *CatalogService) List(ctx context.Context, p ListParams) (*Page, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PageSize <= 0:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}

	items, total, err := s.whops.List(ctx, models.WhopFilter{
		Category: strings.TrimSpace(p.Category),
		Query:    strings.TrimSpace(p.Query),
		Limit:    p.PageSize,
		Offset:   (p.Page - 1) * p.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return &Page{Items: items, Total: total, Page: p.Page, PageSize: p.PageSize}, nil
}

// Get returns a whop with its promo codes and verified reviews.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.WhopDetail, error) {
	w, err := s.whops.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	codes, err := s.promos.ListByWhop(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByWhop(ctx, id, true)
	if err != nil {
		return nil, err
	}
	return &models.WhopDetail{Whop: *w, PromoCodes: codes, Reviews: reviews}, nil
}

// Create validates in, classifies it when no category is given, normalizes
// its price and stores it.
func (s *CatalogService) Create(ctx context.Context, in models.WhopInput) (*models.Whop, error) {
	w, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	w.ID = s.newID()
	if err := s.whops.Create(ctx, w); err != nil {
		return nil, translate(err)
	}
	s.invalidate(ctx)
	s.log.Info("Created whop", logger.String("id", w.ID), logger.String("category", w.CategoryText()))
	return w, nil
}

// Update replaces the editable fields of a whop.
func (s *CatalogService) Update(ctx context.Context, id string, in models.WhopInput) (*models.Whop, error) {
	w, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	w.ID = id
	if err := s.whops.Update(ctx, w); err != nil {
		return nil, translate(err)
	}
	s.invalidate(ctx)
	return w, nil
}

// Delete removes a whop with its promo codes and reviews.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.whops.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.invalidate(ctx)
	return nil
}

// BulkDelete deletes ids one by one. Earlier deletions stand when a later
// one fails.
func (s *CatalogService) BulkDelete(ctx context.Context, ids []string) (*models.BulkResult, error) {
	if len(ids) == 0 {
		return nil, invalid("ids", "at least one id is required")
	}
	res := &models.BulkResult{}
	for _, id := range ids {
		err := s.whops.Delete(ctx, id)
		res.Record(id, translate(err))
	}
	if res.Succeeded > 0 {
		s.invalidate(ctx)
	}
	s.log.Info("Bulk deleted whops", logger.Int("succeeded", res.Succeeded), logger.Int("failed", res.Failed))
	return res, nil
}

// Import creates every item in order. Failures are keyed by item name.
func (s *CatalogService) Import(ctx context.Context, items []models.WhopInput) (*models.BulkResult, error) {
	if len(items) == 0 {
		return nil, invalid("items", "at least one item is required")
	}
	res := &models.BulkResult{}
	for i, in := range items {
		key := strings.TrimSpace(in.Name)
		if key == "" {
			key = "#" + strconv.Itoa(i+1)
		}
		w, err := s.prepare(in)
		if err == nil {
			w.ID = s.newID()
			err = translate(s.whops.Create(ctx, w))
		}
		res.Record(key, err)
	}
	if res.Succeeded > 0 {
		s.invalidate(ctx)
	}
	s.log.Info("Imported whops", logger.Int("succeeded", res.Succeeded), logger.Int("failed", res.Failed))
	return res, nil
}

// prepare validates in and derives the stored whop.
func (s *CatalogService) prepare(in models.WhopInput) (*models.Whop, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if len(name) > maxNameLength {
		return nil, invalid("name", "is too long")
	}

	slug := models.Slugify(in.Slug)
	if slug == "" {
		slug = models.Slugify(name)
	}
	if slug == "" {
		return nil, invalid("slug", "must contain a letter or digit")
	}

	if !validOptionalURL(in.AffiliateLink) {
		return nil, invalid("affiliateLink", "must be an http(s) URL")
	}
	if !validOptionalURL(in.Website) {
		return nil, invalid("website", "must be an http(s) URL")
	}

	w := &models.Whop{
		Name:          name,
		Slug:          slug,
		Description:   trimPtr(in.Description),
		Category:      trimPtr(in.Category),
		AffiliateLink: trimPtr(in.AffiliateLink),
		Website:       trimPtr(in.Website),
	}

	if w.Category == nil && s.classifier != nil {
		label := s.classifier.Classify(w.Name, w.Description)
		w.Category = &label
		s.metrics.Classified(s.classifier.Strategy(), label)
	}
	if in.Price != nil && s.normalizer != nil {
		price := s.normalizer.Normalize(*in.Price, w.Name, w.DescriptionText())
		w.Price = &price
	} else {
		w.Price = trimPtr(in.Price)
	}
	return w, nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, cache.RecommendationsPrefix); err != nil {
		s.log.Warn("Failed to purge recommendation cache", logger.Error(err))
	}
}

func validOptionalURL(raw *string) bool {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return true
	}
	u, err := url.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return models.StringPtr(strings.TrimSpace(*s))
}

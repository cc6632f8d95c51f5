package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/whpcodes/catalog-service/internal/cache"
	"github.com/whpcodes/catalog-service/internal/metrics"
	"github.com/whpcodes/catalog-service/internal/models"
	"github.com/whpcodes/catalog-service/internal/recommend"
	"github.com/whpcodes/catalog-service/pkg/logger"
)

const maxRecommendationLimit = 20

// RecommendationResponse is the body of the recommendations endpoint.
type RecommendationResponse struct {
	Recommendations []models.Whop        `json:"recommendations"`
	Total           int                  `json:"total"`
	Debug           *RecommendationDebug `json:"debug,omitempty"`
}

// RecommendationDebug explains a ranking.
type RecommendationDebug struct {
	Source    recommend.Profile `json:"source"`
	Evaluated int               `json:"evaluated"`
	Qualified int               `json:"qualified"`
	Scores    []ScoreDebug      `json:"scores"`
}

// ScoreDebug is one returned candidate's score.
type ScoreDebug struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Score     float64             `json:"score"`
	Breakdown recommend.Breakdown `json:"breakdown"`
}

// RecommendationService ranks the catalog against one whop and caches the
// rendered result.
type RecommendationService struct {
	whops   WhopStore
	ranker  *recommend.Ranker
	cache   cache.Cache
	ttl     time.Duration
	limit   int
	log     logger.Logger
	metrics *metrics.Metrics
}

func NewRecommendationService(
	whops WhopStore,
	ranker *recommend.Ranker,
	c cache.Cache,
	ttl time.Duration,
	defaultLimit int,
	log logger.Logger,
	m *metrics.Metrics,
) *RecommendationService {
	if defaultLimit <= 0 {
		defaultLimit = recommend.DefaultLimit
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &RecommendationService{
		whops:   whops,
		ranker:  ranker,
		cache:   c,
		ttl:     ttl,
		limit:   defaultLimit,
		log:     log,
		metrics: m,
	}
}

// Recommend returns the whops most similar to id. A missing source is
// ErrNotFound; too few similar whops is an empty, successful result.
func (s *RecommendationService) Recommend(ctx context.Context, id string, limit int, debug bool) (*RecommendationResponse, error) {
	if limit <= 0 {
		limit = s.limit
	}
	if limit > maxRecommendationLimit {
		limit = maxRecommendationLimit
	}

	key := cache.RecommendationsKey(id, limit, debug)
	if resp, ok := s.cached(ctx, key); ok {
		s.metrics.RecommendationServed(true)
		return resp, nil
	}

	source, err := s.whops.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	candidates, err := s.whops.All(ctx)
	if err != nil {
		return nil, err
	}

	result := s.ranker.Rank(*source, candidates, limit)
	resp := &RecommendationResponse{
		Recommendations: make([]models.Whop, len(result.Items)),
		Total:           len(result.Items),
	}
	for i, item := range result.Items {
		resp.Recommendations[i] = item.Whop
	}
	if debug {
		resp.Debug = &RecommendationDebug{
			Source:    result.Source,
			Evaluated: result.Evaluated,
			Qualified: result.Qualified,
			Scores:    make([]ScoreDebug, len(result.Items)),
		}
		for i, item := range result.Items {
			resp.Debug.Scores[i] = ScoreDebug{
				ID:        item.Whop.ID,
				Name:      item.Whop.Name,
				Score:     item.Score,
				Breakdown: item.Breakdown,
			}
		}
	}

	s.store(ctx, key, resp)
	s.metrics.RecommendationServed(false)
	return resp, nil
}

func (s *RecommendationService) cached(ctx context.Context, key string) (*RecommendationResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("Recommendation cache read failed", logger.String("key", key), logger.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var resp RecommendationResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		s.log.Warn("Discarding malformed cached recommendations", logger.String("key", key), logger.Error(err))
		return nil, false
	}
	return &resp, true
}

func (s *RecommendationService) store(ctx context.Context, key string, resp *RecommendationResponse) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		s.log.Warn("Failed to encode recommendations", logger.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.log.Warn("Recommendation cache write failed", logger.String("key", key), logger.Error(err))
	}
}

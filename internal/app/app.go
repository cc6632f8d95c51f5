// Package app builds the components shared by the catalog binaries from
// configuration.
package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/whpcodes/catalog-service/internal/cache"
	"github.com/whpcodes/catalog-service/internal/classifier"
	"github.com/whpcodes/catalog-service/internal/config"
	"github.com/whpcodes/catalog-service/internal/metrics"
	"github.com/whpcodes/catalog-service/internal/pricing"
	"github.com/whpcodes/catalog-service/internal/recommend"
	"github.com/whpcodes/catalog-service/internal/taxonomy"
	"github.com/whpcodes/catalog-service/pkg/db"
	"github.com/whpcodes/catalog-service/pkg/logger"
)

// NewLogger builds the service logger.
func NewLogger(cfg *config.Config) (logger.Logger, error) {
	return logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
}

// OpenDatabase opens the PostgreSQL pool.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	return db.NewPostgresConnection(ctx, db.PostgresConfig{
		DSN:             cfg.Database.DSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
}

// NewClassifier builds the classifier for strategy, or the configured one
// when strategy is empty.
func NewClassifier(cfg *config.Config, strategy string) (*classifier.Classifier, error) {
	if strategy == "" {
		strategy = cfg.Classifier.Strategy
	}
	tax := taxonomy.Default().WithDefaultLabel(cfg.Classifier.DefaultLabel)
	scorer, err := classifier.NewScorer(strategy, tax, classifier.Thresholds{
		MinScore:   cfg.Classifier.MinScore,
		MinPrimary: cfg.Classifier.MinPrimary,
	})
	if err != nil {
		return nil, err
	}
	return classifier.New(tax, scorer), nil
}

// NewRanker builds the recommendation ranker with the configured weights.
func NewRanker(cfg *config.Config) *recommend.Ranker {
	w := cfg.Recommendations.Weights
	return recommend.NewRanker(recommend.DefaultTopics(), recommend.Options{
		Weights: &recommend.Weights{
			SameCategory:     w.SameCategory,
			SameTopTopic:     w.SameTopTopic,
			SharedTopic:      w.SharedTopic,
			SamePrice:        w.SamePrice,
			KeywordEach:      w.KeywordEach,
			KeywordCap:       w.KeywordCap,
			RatingFloor:      w.RatingFloor,
			RatingMultiplier: w.RatingMultiplier,
		},
		MinScore: cfg.Recommendations.MinScore,
		Limit:    cfg.Recommendations.Limit,
	})
}

// LoadOverrideTable loads the price override file at path into a table.
func LoadOverrideTable(path string, m *metrics.Metrics) (*pricing.OverrideTable, error) {
	entries, err := pricing.LoadOverrides(path)
	m.OverrideReload(len(entries), err)
	if err != nil {
		return nil, err
	}
	return pricing.NewOverrideTable(entries), nil
}

// NewCache returns a Redis-backed cache when Redis is configured, otherwise
// an in-process one. The returned close func is never nil.
func NewCache(cfg *config.Config, log logger.Logger) (cache.Cache, func() error, error) {
	if cfg.Redis.Address == "" {
		log.Info("Redis not configured, using in-process recommendation cache")
		return cache.NewMemoryCache(), func() error { return nil }, nil
	}
	client, err := cache.NewRedisClient(cache.RedisConfig{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	log.Info("Connected to Redis", logger.String("address", cfg.Redis.Address))
	return cache.NewRedisCache(client), client.Close, nil
}

package handlers

import (
	"context"

	"github.com/whpcodes/catalog-service/internal/models"
	"github.com/whpcodes/catalog-service/internal/service"
)

// Services required by the handlers (interfaces so tests can stub them).

// Catalog manages whops, promo codes and reviews.
type Catalog interface {
	List(ctx context.Context, p service.ListParams) (*service.Page, error)
	Get(ctx context.Context, id string) (*models.WhopDetail, error)
	Create(ctx context.Context, in models.WhopInput) (*models.Whop, error)
	Update(ctx context.Context, id string, in models.WhopInput) (*models.Whop, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) (*models.BulkResult, error)
	Import(ctx context.Context, items []models.WhopInput) (*models.BulkResult, error)

	CreatePromo(ctx context.Context, whopID string, in models.PromoCodeInput) (*models.PromoCode, error)
	UpdatePromo(ctx context.Context, id string, in models.PromoCodeInput) (*models.PromoCode, error)
	DeletePromo(ctx context.Context, id string) error

	SubmitReview(ctx context.Context, whopID string, in models.ReviewInput) (*models.Review, error)
	Reviews(ctx context.Context, verified *bool) ([]models.Review, error)
	VerifyReview(ctx context.Context, id string) error
	DeleteReview(ctx context.Context, id string) error
	BulkVerifyReviews(ctx context.Context, ids []string) (*models.BulkResult, error)
	BulkDeleteReviews(ctx context.Context, ids []string) (*models.BulkResult, error)
}

// Recommender ranks similar whops.
type Recommender interface {
	Recommend(ctx context.Context, id string, limit int, debug bool) (*service.RecommendationResponse, error)
}

// EventTracker buffers tracking events.
type EventTracker interface {
	Track(in service.TrackingInput) (*models.TrackingEvent, error)
}

// AnalyticsReader aggregates tracking events.
type AnalyticsReader interface {
	Get(ctx context.Context, q service.AnalyticsQuery) (*service.Analytics, error)
}

var (
	_ Catalog         = (*service.CatalogService)(nil)
	_ Recommender     = (*service.RecommendationService)(nil)
	_ EventTracker    = (*service.Tracker)(nil)
	_ AnalyticsReader = (*service.AnalyticsService)(nil)
)

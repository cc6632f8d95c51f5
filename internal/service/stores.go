// Package service holds the catalog's business logic between the HTTP
// handlers and the repositories.
package service

import (
	"context"

	"github.com/whpcodes/catalog-service/internal/models"
	"github.com/whpcodes/catalog-service/internal/repository"
)

// Repos required by the services. Interfaces allow tests to use fakes.

type WhopStore interface {
	List(ctx context.Context, f models.WhopFilter) ([]models.Whop, int, error)
	All(ctx context.Context) ([]models.Whop, error)
	Get(ctx context.Context, id string) (*models.Whop, error)
	Create(ctx context.Context, w *models.Whop) error
	Update(ctx context.Context, w *models.Whop) error
	UpdateCategory(ctx context.Context, id, category string) error
	UpdatePrice(ctx context.Context, id, price string) error
	Delete(ctx context.Context, id string) error
}

type PromoStore interface {
	ListByWhop(ctx context.Context, whopID string) ([]models.PromoCode, error)
	Get(ctx context.Context, id string) (*models.PromoCode, error)
	Create(ctx context.Context, p *models.PromoCode) error
	Update(ctx context.Context, p *models.PromoCode) error
	Delete(ctx context.Context, id string) error
}

type ReviewStore interface {
	ListByWhop(ctx context.Context, whopID string, verifiedOnly bool) ([]models.Review, error)
	List(ctx context.Context, verified *bool) ([]models.Review, error)
	Create(ctx context.Context, r *models.Review) error
	Verify(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type EventStore interface {
	InsertBatch(ctx context.Context, events []models.TrackingEvent) error
	Events(ctx context.Context, q repository.EventQuery) ([]models.TrackingEventRow, error)
}

var (
	_ WhopStore   = (*repository.ItemRepo)(nil)
	_ PromoStore  = (*repository.PromoRepo)(nil)
	_ ReviewStore = (*repository.ReviewRepo)(nil)
	_ EventStore  = (*repository.TrackingRepo)(nil)
)

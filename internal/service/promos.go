package service

import (
	"context"
	"strings"

	"github.com/whpcodes/catalog-service/internal/models"
)

// CreatePromo adds a promo code to a whop.
func (s *CatalogService) CreatePromo(ctx context.Context, whopID string, in models.PromoCodeInput) (*models.PromoCode, error) {
	p, err := preparePromo(in)
	if err != nil {
		return nil, err
	}
	p.ID = s.newID()
	p.WhopID = whopID
	if err := s.promos.Create(ctx, p); err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// UpdatePromo replaces a promo code's fields. Its whop does not change.
func (s *CatalogService) UpdatePromo(ctx context.Context, id string, in models.PromoCodeInput) (*models.PromoCode, error) {
	p, err := preparePromo(in)
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.promos.Update(ctx, p); err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (s *CatalogService) DeletePromo(ctx context.Context, id string) error {
	return translate(s.promos.Delete(ctx, id))
}

func preparePromo(in models.PromoCodeInput) (*models.PromoCode, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	if in.Type == "" {
		in.Type = models.PromoDiscount
	}
	if !in.Type.Valid() {
		return nil, invalid("type", "must be one of discount, free_trial, bonus, cashback")
	}
	return &models.PromoCode{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Code:        trimPtr(in.Code),
		Type:        in.Type,
		Value:       strings.TrimSpace(in.Value),
	}, nil
}

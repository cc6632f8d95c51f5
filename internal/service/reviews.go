package service

import (
	"context"
	"strings"

	"github.com/whpcodes/catalog-service/internal/models"
	"github.com/whpcodes/catalog-service/pkg/logger"
)

const maxReviewLength = 5000

// SubmitReview stores an end-user review pending moderation.
func (s *CatalogService) SubmitReview(ctx context.Context, whopID string, in models.ReviewInput) (*models.Review, error) {
	author := strings.TrimSpace(in.Author)
	content := strings.TrimSpace(in.Content)
	switch {
	case author == "":
		return nil, invalid("author", "is required")
	case content == "":
		return nil, invalid("content", "is required")
	case len(content) > maxReviewLength:
		return nil, invalid("content", "is too long")
	case in.Rating < models.MinRating || in.Rating > models.MaxRating:
		return nil, invalid("rating", "must be between 1 and 5")
	}

	r := &models.Review{
		ID:      s.newID(),
		WhopID:  whopID,
		Author:  author,
		Content: content,
		Rating:  in.Rating,
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, translate(err)
	}
	return r, nil
}

// Reviews lists reviews for moderation; nil verified lists all.
func (s *CatalogService) Reviews(ctx context.Context, verified *bool) ([]models.Review, error) {
	return s.reviews.List(ctx, verified)
}

// VerifyReview publishes a review and refreshes its whop's rating.
func (s *CatalogService) VerifyReview(ctx context.Context, id string) error {
	if err := s.reviews.Verify(ctx, id); err != nil {
		return translate(err)
	}
	s.invalidate(ctx)
	return nil
}

// DeleteReview removes a review and refreshes its whop's rating.
func (s *CatalogService) DeleteReview(ctx context.Context, id string) error {
	if err := s.reviews.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.invalidate(ctx)
	return nil
}

// BulkVerifyReviews verifies ids one by one without rollback.
func (s *CatalogService) BulkVerifyReviews(ctx context.Context, ids []string) (*models.BulkResult, error) {
	return s.bulkReviews(ctx, "verified", ids, s.reviews.Verify)
}

// BulkDeleteReviews deletes ids one by one without rollback.
func (s *CatalogService) BulkDeleteReviews(ctx context.Context, ids []string) (*models.BulkResult, error) {
	return s.bulkReviews(ctx, "deleted", ids, s.reviews.Delete)
}

func (s *CatalogService) bulkReviews(ctx context.Context, verb string, ids []string, op func(context.Context, string) error) (*models.BulkResult, error) {
	if len(ids) == 0 {
		return nil, invalid("ids", "at least one id is required")
	}
	res := &models.BulkResult{}
	for _, id := range ids {
		res.Record(id, translate(op(ctx, id)))
	}
	if res.Succeeded > 0 {
		s.invalidate(ctx)
	}
	s.log.Info("Bulk "+verb+" reviews", logger.Int("succeeded", res.Succeeded), logger.Int("failed", res.Failed))
	return res, nil
}

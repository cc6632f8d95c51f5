package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/whpcodes/catalog-service/internal/models"
)

const reviewColumns = `id, whop_id, author, content, rating, verified, created_at`

// ReviewRepo stores reviews and keeps each whop's rating equal to the
// average of its verified reviews.
type ReviewRepo struct {
	db *sqlx.DB
}

func NewReviewRepo(db *sqlx.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// ListByWhop returns reviews of one whop, newest first.
func (r *ReviewRepo) ListByWhop(ctx context.Context, whopID string, verifiedOnly bool) ([]models.Review, error) {
	reviews := []models.Review{}
	query := `SELECT ` + reviewColumns + ` FROM reviews
		WHERE whop_id = $1 AND (NOT $2 OR verified)
		ORDER BY created_at DESC, id`
	if err := r.db.SelectContext(ctx, &reviews, query, whopID, verifiedOnly); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// List returns reviews for moderation. A nil verified lists all of them.
func (r *ReviewRepo) List(ctx context.Context, verified *bool) ([]models.Review, error) {
	reviews := []models.Review{}
	query := `SELECT ` + reviewColumns + ` FROM reviews
		WHERE ($1::boolean IS NULL OR verified = $1)
		ORDER BY created_at DESC, id`
	if err := r.db.SelectContext(ctx, &reviews, query, verified); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// Create inserts rv. A whop_id that does not exist yields ErrNotFound.
// Verified reviews update the whop rating in the same transaction.
func (r *ReviewRepo) Create(ctx context.Context, rv *models.Review) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO reviews (id, whop_id, author, content, rating, verified)
			SELECT $1, w.id, $3, $4, $5, $6 FROM whops w WHERE w.id = $2
			RETURNING created_at`

		err := tx.QueryRowxContext(ctx, query,
			rv.ID, rv.WhopID, rv.Author, rv.Content, rv.Rating, rv.Verified,
		).Scan(&rv.CreatedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("insert review: %w", err)
		}
		if !rv.Verified {
			return nil
		}
		return recomputeRating(ctx, tx, rv.WhopID)
	})
}

// Verify marks a review verified and recomputes its whop's rating.
func (r *ReviewRepo) Verify(ctx context.Context, id string) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		var whopID string
		err := tx.QueryRowxContext(ctx,
			`UPDATE reviews SET verified = TRUE WHERE id = $1 RETURNING whop_id`, id,
		).Scan(&whopID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("verify review %s: %w", id, err)
		}
		return recomputeRating(ctx, tx, whopID)
	})
}

// Delete removes a review and recomputes its whop's rating.
func (r *ReviewRepo) Delete(ctx context.Context, id string) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		var whopID string
		err := tx.QueryRowxContext(ctx,
			`DELETE FROM reviews WHERE id = $1 RETURNING whop_id`, id,
		).Scan(&whopID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("delete review %s: %w", id, err)
		}
		return recomputeRating(ctx, tx, whopID)
	})
}

// recomputeRating locks the whop row so concurrent moderation of the same
// whop serializes.
func recomputeRating(ctx context.Context, tx *sqlx.Tx, whopID string) error {
	var locked string
	err := tx.QueryRowxContext(ctx, `SELECT id FROM whops WHERE id = $1 FOR UPDATE`, whopID).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("lock whop %s: %w", whopID, err)
	}

	query := `
		UPDATE whops
		SET rating = COALESCE((SELECT AVG(rating) FROM reviews WHERE whop_id = $1 AND verified), 0),
		    updated_at = NOW()
		WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, whopID); err != nil {
		return fmt.Errorf("recompute rating %s: %w", whopID, err)
	}
	return nil
}

func (r *ReviewRepo) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

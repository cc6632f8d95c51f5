package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/whpcodes/catalog-service/internal/models"
)

const promoColumns = `id, whop_id, title, description, code, type, value, created_at`

// PromoRepo stores promo codes.
type PromoRepo struct {
	db *sqlx.DB
}

func NewPromoRepo(db *sqlx.DB) *PromoRepo {
	return &PromoRepo{db: db}
}

// ListByWhop returns the codes of one whop, oldest first.
func (r *PromoRepo) ListByWhop(ctx context.Context, whopID string) ([]models.PromoCode, error) {
	codes := []models.PromoCode{}
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE whop_id = $1 ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &codes, query, whopID); err != nil {
		return nil, fmt.Errorf("list promo codes: %w", err)
	}
	return codes, nil
}

func (r *PromoRepo) Get(ctx context.Context, id string) (*models.PromoCode, error) {
	var p models.PromoCode
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE id = $1`
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get promo code %s: %w", id, err)
	}
	return &p, nil
}

// Create inserts p. A whop_id that does not exist yields ErrNotFound.
func (r *PromoRepo) Create(ctx context.Context, p *models.PromoCode) error {
	query := `
		INSERT INTO promo_codes (id, whop_id, title, description, code, type, value)
		SELECT $1, w.id, $3, $4, $5, $6, $7 FROM whops w WHERE w.id = $2
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.ID, p.WhopID, p.Title, p.Description, p.Code, p.Type, p.Value,
	).Scan(&p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("insert promo code: %w", err)
	}
	return nil
}

func (r *PromoRepo) Update(ctx context.Context, p *models.PromoCode) error {
	query := `
		UPDATE promo_codes
		SET title = $2, description = $3, code = $4, type = $5, value = $6
		WHERE id = $1
		RETURNING whop_id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.ID, p.Title, p.Description, p.Code, p.Type, p.Value,
	).Scan(&p.WhopID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update promo code %s: %w", p.ID, err)
	}
	return nil
}

func (r *PromoRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM promo_codes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete promo code %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

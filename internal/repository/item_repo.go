package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/whpcodes/catalog-service/internal/models"
)

const whopColumns = `id, name, slug, description, category, price, rating,
	affiliate_link, website, created_at, updated_at`

// ItemRepo stores whops.
type ItemRepo struct {
	db *sqlx.DB
}

func NewItemRepo(db *sqlx.DB) *ItemRepo {
	return &ItemRepo{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns one page of whops matching f, newest first, and the total
// number of matches. Query is matched literally as a substring.
func (r *ItemRepo) List(ctx context.Context, f models.WhopFilter) ([]models.Whop, int, error) {
	where := `
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' ESCAPE '\'
		               OR description ILIKE '%' || $2 || '%' ESCAPE '\')`
	q := likeEscaper.Replace(f.Query)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM whops`+where, f.Category, q); err != nil {
		return nil, 0, fmt.Errorf("count whops: %w", err)
	}

	query := `SELECT ` + whopColumns + ` FROM whops` + where + `
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4`

	whops := []models.Whop{}
	if err := r.db.SelectContext(ctx, &whops, query, f.Category, q, f.Limit, f.Offset); err != nil {
		return nil, 0, fmt.Errorf("list whops: %w", err)
	}
	return whops, total, nil
}

// All returns every whop, newest first.
func (r *ItemRepo) All(ctx context.Context) ([]models.Whop, error) {
	whops := []models.Whop{}
	query := `SELECT ` + whopColumns + ` FROM whops ORDER BY created_at DESC, id`
	if err := r.db.SelectContext(ctx, &whops, query); err != nil {
		return nil, fmt.Errorf("select whops: %w", err)
	}
	return whops, nil
}

// Get returns the whop with id.
func (r *ItemRepo) Get(ctx context.Context, id string) (*models.Whop, error) {
	var w models.Whop
	query := `SELECT ` + whopColumns + ` FROM whops WHERE id = $1`
	if err := r.db.GetContext(ctx, &w, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get whop %s: %w", id, err)
	}
	return &w, nil
}

// Create inserts w. ID must be set; timestamps are filled from the database.
func (r *ItemRepo) Create(ctx context.Context, w *models.Whop) error {
	query := `
		INSERT INTO whops (id, name, slug, description, category, price, rating, affiliate_link, website)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		w.ID, w.Name, w.Slug, w.Description, w.Category, w.Price, w.Rating, w.AffiliateLink, w.Website,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert whop %s: %w", w.Slug, ErrDuplicate)
		}
		return fmt.Errorf("insert whop: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of w. Rating is owned by reviews.
func (r *ItemRepo) Update(ctx context.Context, w *models.Whop) error {
	query := `
		UPDATE whops
		SET name = $2, slug = $3, description = $4, category = $5, price = $6,
		    affiliate_link = $7, website = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING rating, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		w.ID, w.Name, w.Slug, w.Description, w.Category, w.Price, w.AffiliateLink, w.Website,
	).Scan(&w.Rating, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("update whop %s: %w", w.ID, ErrDuplicate)
		}
		return fmt.Errorf("update whop %s: %w", w.ID, err)
	}
	return nil
}

// UpdateCategory sets only the category.
func (r *ItemRepo) UpdateCategory(ctx context.Context, id, category string) error {
	return r.execOne(ctx, `UPDATE whops SET category = $2, updated_at = NOW() WHERE id = $1`, id, category)
}

// UpdatePrice sets only the price.
func (r *ItemRepo) UpdatePrice(ctx context.Context, id, price string) error {
	return r.execOne(ctx, `UPDATE whops SET price = $2, updated_at = NOW() WHERE id = $1`, id, price)
}

// Delete removes a whop; its promo codes and reviews cascade.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM whops WHERE id = $1`, id)
}

func (r *ItemRepo) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

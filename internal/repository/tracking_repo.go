package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/whpcodes/catalog-service/internal/models"
)

const (
	// trackingColumnsPerRow is the number of columns inserted per event.
	trackingColumnsPerRow = 5

	// trackingInsertBatchSize caps rows per INSERT statement.
	trackingInsertBatchSize = 100
)

// TrackingRepo stores append-only tracking events.
type TrackingRepo struct {
	db *sqlx.DB
}

func NewTrackingRepo(db *sqlx.DB) *TrackingRepo {
	return &TrackingRepo{db: db}
}

// InsertBatch writes events with multi-row INSERTs.
func (r *TrackingRepo) InsertBatch(ctx context.Context, events []models.TrackingEvent) error {
	for start := 0; start < len(events); start += trackingInsertBatchSize {
		end := start + trackingInsertBatchSize
		if end > len(events) {
			end = len(events)
		}
		if err := r.insertChunk(ctx, events[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *TrackingRepo) insertChunk(ctx context.Context, events []models.TrackingEvent) error {
	if len(events) == 0 {
		return nil
	}

	args := make([]any, 0, len(events)*trackingColumnsPerRow)
	var sb strings.Builder
	sb.WriteString("INSERT INTO tracking_events (id, whop_id, promo_code_id, action_type, created_at) VALUES ")

	for i, e := range events {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * trackingColumnsPerRow
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5)
		args = append(args, e.ID, e.WhopID, e.PromoCodeID, e.ActionType, e.CreatedAt)
	}

	if _, err := r.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("exec batch insert: %w", err)
	}
	return nil
}

// EventQuery selects tracking events in [From, To). Zero From means no
// lower bound; empty WhopID means every whop; Limit <= 0 means no cap.
type EventQuery struct {
	From   time.Time
	To     time.Time
	WhopID string
	Limit  int
}

// Events returns matching events joined with their whop's name, newest
// first. Events of deleted whops keep an empty name.
func (r *TrackingRepo) Events(ctx context.Context, q EventQuery) ([]models.TrackingEventRow, error) {
	var from *time.Time
	if !q.From.IsZero() {
		from = &q.From
	}

	query := `
		SELECT e.id, e.whop_id, e.promo_code_id, e.action_type, e.created_at,
		       COALESCE(w.name, '') AS whop_name
		FROM tracking_events e
		LEFT JOIN whops w ON w.id = e.whop_id
		WHERE ($1::timestamptz IS NULL OR e.created_at >= $1)
		  AND e.created_at < $2
		  AND ($3 = '' OR e.whop_id = $3)
		ORDER BY e.created_at DESC, e.id`
	args := []any{from, q.To, q.WhopID}
	if q.Limit > 0 {
		query += ` LIMIT $4`
		args = append(args, q.Limit)
	}

	rows := []models.TrackingEventRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tracking events: %w", err)
	}
	return rows, nil
}

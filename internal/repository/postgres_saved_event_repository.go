package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
)

// PostgresSavedEventRepository implements SavedEventRepository using PostgreSQL
type PostgresSavedEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSavedEventRepository creates a new PostgresSavedEventRepository
func NewPostgresSavedEventRepository(pool *pgxpool.Pool) *PostgresSavedEventRepository {
	return &PostgresSavedEventRepository{pool: pool}
}

// Save marks an event as saved for a user. Saving twice is a no-op.
func (r *PostgresSavedEventRepository) Save(ctx context.Context, userID, eventID string) error {
	query := `
		INSERT INTO saved_events (user_id, event_id, saved_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, event_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, userID, eventID, time.Now())
	return err
}

// Unsave removes a saved mark
func (r *PostgresSavedEventRepository) Unsave(ctx context.Context, userID, eventID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM saved_events WHERE user_id = $1 AND event_id = $2`,
		userID, eventID,
	)
	return err
}

// ListByUser lists the events a user has saved, newest save first
func (r *PostgresSavedEventRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events e
		JOIN saved_events s ON s.event_id = e.id
		WHERE s.user_id = $1
		ORDER BY s.saved_at DESC
	`, savedEventColumns)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// savedEventColumns is eventColumns qualified with the events alias
const savedEventColumns = `e.id, e.title,
	COALESCE(e.description, '') as description,
	COALESCE(e.event_date, '') as event_date,
	COALESCE(e.event_time, '') as event_time,
	COALESCE(e.location_address, '') as location_address,
	e.latitude, e.longitude,
	COALESCE(e.image_urls, '[]'::jsonb) as image_urls,
	e.total_tickets, e.tickets_available, e.created_by, e.created_at, e.updated_at`

// IsSaved reports whether a user has saved an event
func (r *PostgresSavedEventRepository) IsSaved(ctx context.Context, userID, eventID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM saved_events WHERE user_id = $1 AND event_id = $2)`,
		userID, eventID,
	).Scan(&exists)
	return exists, err
}

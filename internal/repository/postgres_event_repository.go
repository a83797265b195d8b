package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
)

// PostgresEventRepository implements EventRepository using PostgreSQL
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

// eventColumns defines the columns to select for events
// Using COALESCE for nullable string columns to avoid scan errors
const eventColumns = `id, title,
	COALESCE(description, '') as description,
	COALESCE(event_date, '') as event_date,
	COALESCE(event_time, '') as event_time,
	COALESCE(location_address, '') as location_address,
	latitude, longitude,
	COALESCE(image_urls, '[]'::jsonb) as image_urls,
	total_tickets, tickets_available, created_by, created_at, updated_at`

// scanEvent scans a row into an Event struct
func scanEvent(row pgx.Row) (*domain.Event, error) {
	event := &domain.Event{}
	var imagesJSON []byte

	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Date,
		&event.Time,
		&event.LocationAddress,
		&event.Latitude,
		&event.Longitude,
		&imagesJSON,
		&event.TotalTickets,
		&event.TicketsAvailable,
		&event.CreatedBy,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if imagesJSON != nil {
		json.Unmarshal(imagesJSON, &event.ImageURLs)
	}
	if event.ImageURLs == nil {
		event.ImageURLs = []string{}
	}

	return event, nil
}

// scanEvents scans multiple rows into Event structs
func scanEvents(rows pgx.Rows) ([]*domain.Event, error) {
	var events []*domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Create creates a new event
func (r *PostgresEventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (
			id, title, description, event_date, event_time, location_address,
			latitude, longitude, image_urls, total_tickets, tickets_available,
			created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
	`

	imagesJSON, _ := json.Marshal(event.ImageURLs)

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Date,
		event.Time,
		event.LocationAddress,
		event.Latitude,
		event.Longitude,
		imagesJSON,
		event.TotalTickets,
		event.TicketsAvailable,
		event.CreatedBy,
		event.CreatedAt,
		event.UpdatedAt,
	)
	return err
}

// GetByID retrieves an event by ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

// ListAll lists every event ordered by creation time
func (r *PostgresEventRepository) ListAll(ctx context.Context) ([]*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events ORDER BY created_at DESC`, eventColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListByCreator lists events created by a user
func (r *PostgresEventRepository) ListByCreator(ctx context.Context, userID string) ([]*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE created_by = $1
		ORDER BY created_at DESC
	`, eventColumns)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Search lists events matching the query, ranked title over address over
// description.
func (r *PostgresEventRepository) Search(ctx context.Context, search string) ([]*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE title ILIKE $1 OR location_address ILIKE $1 OR description ILIKE $1
		ORDER BY
			(CASE WHEN title ILIKE $1 THEN 3 ELSE 0 END) +
			(CASE WHEN location_address ILIKE $1 THEN 2 ELSE 0 END) +
			(CASE WHEN description ILIKE $1 THEN 1 ELSE 0 END) DESC,
			created_at DESC
	`, eventColumns)

	rows, err := r.pool.Query(ctx, query, "%"+search+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Update updates an event's editable fields
func (r *PostgresEventRepository) Update(ctx context.Context, event *domain.Event) error {
	query := `
		UPDATE events SET
			title = $2, description = $3, event_date = $4, event_time = $5,
			location_address = $6, latitude = $7, longitude = $8,
			image_urls = $9, updated_at = $10
		WHERE id = $1
	`

	imagesJSON, _ := json.Marshal(event.ImageURLs)

	event.UpdatedAt = time.Now()
	result, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Date,
		event.Time,
		event.LocationAddress,
		event.Latitude,
		event.Longitude,
		imagesJSON,
		event.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// Delete deletes an event by ID
func (r *PostgresEventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// DecrementTickets atomically claims one ticket. The WHERE guard keeps the
// count from ever going negative under concurrent bookings.
func (r *PostgresEventRepository) DecrementTickets(ctx context.Context, id string) (int, error) {
	query := `
		UPDATE events
		SET tickets_available = tickets_available - 1, updated_at = NOW()
		WHERE id = $1 AND tickets_available > 0
		RETURNING tickets_available
	`

	var remaining int
	err := r.pool.QueryRow(ctx, query, id).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}

	if isSerializationFailure(err) {
		return 0, fmt.Errorf("%w: %v", domain.ErrTransactionConflict, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		// Either the event is gone or it is sold out
		exists, existsErr := r.exists(ctx, id)
		if existsErr != nil {
			return 0, existsErr
		}
		if !exists {
			return 0, domain.ErrEventNotFound
		}
		return 0, domain.ErrInsufficientTickets
	}

	return 0, err
}

func (r *PostgresEventRepository) exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// isSerializationFailure reports whether the error is a Postgres
// serialization failure (SQLSTATE 40001) or deadlock (40P01).
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

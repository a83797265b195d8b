package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
)

// PostgresDeviceTokenRepository implements DeviceTokenRepository using PostgreSQL
type PostgresDeviceTokenRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresDeviceTokenRepository creates a new PostgresDeviceTokenRepository
func NewPostgresDeviceTokenRepository(pool *pgxpool.Pool) *PostgresDeviceTokenRepository {
	return &PostgresDeviceTokenRepository{pool: pool}
}

// Upsert stores or refreshes a user's device token
func (r *PostgresDeviceTokenRepository) Upsert(ctx context.Context, token *domain.DeviceToken) error {
	query := `
		INSERT INTO device_tokens (user_id, token, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, token) DO UPDATE SET updated_at = EXCLUDED.updated_at
	`
	if token.UpdatedAt.IsZero() {
		token.UpdatedAt = time.Now()
	}
	_, err := r.pool.Exec(ctx, query, token.UserID, token.Token, token.UpdatedAt)
	return err
}

// GetByUser retrieves the tokens registered for a user
func (r *PostgresDeviceTokenRepository) GetByUser(ctx context.Context, userID string) ([]*domain.DeviceToken, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, token, updated_at FROM device_tokens WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []*domain.DeviceToken
	for rows.Next() {
		t := &domain.DeviceToken{}
		if err := rows.Scan(&t.UserID, &t.Token, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// Delete removes a token
func (r *PostgresDeviceTokenRepository) Delete(ctx context.Context, userID, token string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM device_tokens WHERE user_id = $1 AND token = $2`,
		userID, token,
	)
	return err
}

package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
)

// PostgresUserProfileRepository implements UserProfileRepository using PostgreSQL
type PostgresUserProfileRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserProfileRepository creates a new PostgresUserProfileRepository
func NewPostgresUserProfileRepository(pool *pgxpool.Pool) *PostgresUserProfileRepository {
	return &PostgresUserProfileRepository{pool: pool}
}

// Upsert stores or updates a user profile
func (r *PostgresUserProfileRepository) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	query := `
		INSERT INTO user_profiles (user_id, display_name, discovery_radius_km)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			discovery_radius_km = EXCLUDED.discovery_radius_km
	`
	_, err := r.pool.Exec(ctx, query, profile.UserID, profile.DisplayName, profile.DiscoveryRadius)
	return err
}

// GetByID retrieves a user profile
func (r *PostgresUserProfileRepository) GetByID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	profile := &domain.UserProfile{}
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, COALESCE(display_name, ''), discovery_radius_km FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&profile.UserID, &profile.DisplayName, &profile.DiscoveryRadius)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

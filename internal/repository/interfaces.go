package repository

import (
	"context"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
)

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Create creates a new event
	Create(ctx context.Context, event *domain.Event) error
	// GetByID retrieves an event by ID
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	// ListAll lists every event ordered by creation time
	ListAll(ctx context.Context) ([]*domain.Event, error)
	// ListByCreator lists events created by a user
	ListByCreator(ctx context.Context, userID string) ([]*domain.Event, error)
	// Search lists events matching the query, ranked by field relevance
	Search(ctx context.Context, query string) ([]*domain.Event, error)
	// Update updates an event's editable fields
	Update(ctx context.Context, event *domain.Event) error
	// Delete deletes an event by ID
	Delete(ctx context.Context, id string) error
	// DecrementTickets atomically claims one ticket. Returns
	// domain.ErrEventNotFound when the event does not exist and
	// domain.ErrInsufficientTickets when no tickets remain.
	DecrementTickets(ctx context.Context, id string) (remaining int, err error)
}

// SavedEventRepository defines the interface for per-user saved events
type SavedEventRepository interface {
	// Save marks an event as saved for a user. Saving twice is a no-op.
	Save(ctx context.Context, userID, eventID string) error
	// Unsave removes a saved mark
	Unsave(ctx context.Context, userID, eventID string) error
	// ListByUser lists the events a user has saved
	ListByUser(ctx context.Context, userID string) ([]*domain.Event, error)
	// IsSaved reports whether a user has saved an event
	IsSaved(ctx context.Context, userID, eventID string) (bool, error)
}

// DeviceTokenRepository defines the interface for push token storage
type DeviceTokenRepository interface {
	// Upsert stores or refreshes a user's device token
	Upsert(ctx context.Context, token *domain.DeviceToken) error
	// GetByUser retrieves the tokens registered for a user
	GetByUser(ctx context.Context, userID string) ([]*domain.DeviceToken, error)
	// Delete removes a token
	Delete(ctx context.Context, userID, token string) error
}

// UserProfileRepository defines the interface for user preference storage
type UserProfileRepository interface {
	// Upsert stores or updates a user profile
	Upsert(ctx context.Context, profile *domain.UserProfile) error
	// GetByID retrieves a user profile
	GetByID(ctx context.Context, userID string) (*domain.UserProfile, error)
}

// InventoryCache caches ticket inventory for fast conflict-free booking
type InventoryCache interface {
	// Seed initializes the cached count for an event
	Seed(ctx context.Context, eventID string, available int) error
	// Claim atomically claims one ticket from the cache. Returns the
	// remaining count, or domain.ErrInsufficientTickets when empty.
	Claim(ctx context.Context, eventID string) (remaining int, err error)
	// Release returns one ticket to the cache (booking rollback)
	Release(ctx context.Context, eventID string) error
	// Get returns the cached count, with found=false on cache miss
	Get(ctx context.Context, eventID string) (available int, found bool, err error)
	// SeedAll warms the cache for a batch of events
	SeedAll(ctx context.Context, events []*domain.Event) error
}

package service

import (
	"context"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/internal/dto"
	"github.com/imcoolthanyou/Event-Hive/internal/payment"
)

// EventService handles event lifecycle and discovery reads
type EventService interface {
	// CreateEvent creates an event, geocoding the address when no
	// coordinates are given, and announces it on the events topic
	CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*domain.Event, error)
	// GetEvent retrieves an event by ID
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	// ListUpcoming lists events dated today or later, soonest first
	ListUpcoming(ctx context.Context) ([]*domain.Event, error)
	// ListNearby lists events within the query radius of the query point
	ListNearby(ctx context.Context, query domain.GeoQuery) ([]*domain.Event, error)
	// SearchEvents lists events matching the query, ranked by relevance
	SearchEvents(ctx context.Context, query string) ([]*domain.Event, error)
	// ListMyEvents lists events created by the user
	ListMyEvents(ctx context.Context, userID string) ([]*domain.Event, error)
	// UpdateEvent updates an event owned by the user
	UpdateEvent(ctx context.Context, userID, eventID string, req *dto.UpdateEventRequest) (*domain.Event, error)
	// DeleteEvent deletes an event owned by the user
	DeleteEvent(ctx context.Context, userID, eventID string) error
	// SaveEvent marks an event as saved for the user
	SaveEvent(ctx context.Context, userID, eventID string) error
	// UnsaveEvent removes a saved mark
	UnsaveEvent(ctx context.Context, userID, eventID string) error
	// ListSavedEvents lists the user's saved events
	ListSavedEvents(ctx context.Context, userID string) ([]*domain.Event, error)
}

// BookingService books tickets and creates payment orders
type BookingService interface {
	// BookTicket atomically claims one ticket for the user
	BookTicket(ctx context.Context, userID, eventID string) (*dto.BookTicketResponse, error)
	// CreateOrder creates a payment order for an event ticket
	CreateOrder(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*payment.Order, error)
}

// ProfileService manages user discovery preferences and device tokens
type ProfileService interface {
	// GetProfile retrieves the user's profile, materializing defaults
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	// UpdateProfile stores the user's profile preferences
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*domain.UserProfile, error)
	// RegisterToken registers a device push token
	RegisterToken(ctx context.Context, userID, token string) error
	// RemoveToken removes a device push token
	RemoveToken(ctx context.Context, userID, token string) error
}

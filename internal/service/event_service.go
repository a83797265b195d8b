package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/internal/dto"
	"github.com/imcoolthanyou/Event-Hive/internal/geo"
	"github.com/imcoolthanyou/Event-Hive/internal/geocode"
	"github.com/imcoolthanyou/Event-Hive/internal/repository"
	"github.com/imcoolthanyou/Event-Hive/pkg/logger"
)

// Common errors
var (
	ErrUnauthorized = errors.New("unauthorized to perform this action")
	ErrInvalidInput = errors.New("invalid input")
)

// ChangePublisher announces event mutations to discovery workers
type ChangePublisher interface {
	PublishCreated(ctx context.Context, event *domain.Event) error
	PublishUpdated(ctx context.Context, event *domain.Event) error
	PublishDeleted(ctx context.Context, eventID string) error
}

// eventService implements EventService
type eventService struct {
	eventRepo     repository.EventRepository
	savedRepo     repository.SavedEventRepository
	geocoder      geocode.Geocoder
	publisher     ChangePublisher
	inventory     repository.InventoryCache
	defaultRadius float64
	log           *logger.Logger
}

// NewEventService creates a new EventService. The geocoder, publisher and
// inventory cache may be nil; the service degrades accordingly.
func NewEventService(
	eventRepo repository.EventRepository,
	savedRepo repository.SavedEventRepository,
	geocoder geocode.Geocoder,
	publisher ChangePublisher,
	inventory repository.InventoryCache,
	defaultRadiusKm float64,
) EventService {
	return &eventService{
		eventRepo:     eventRepo,
		savedRepo:     savedRepo,
		geocoder:      geocoder,
		publisher:     publisher,
		inventory:     inventory,
		defaultRadius: defaultRadiusKm,
		log:           logger.Get(),
	}
}

// CreateEvent creates a new event
func (s *eventService) CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*domain.Event, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, errors.New(msg)
	}

	var lat, lng float64
	if req.Latitude != nil && req.Longitude != nil {
		lat, lng = *req.Latitude, *req.Longitude
	} else {
		coord, err := s.forwardGeocode(ctx, req.LocationAddress)
		if err != nil {
			return nil, err
		}
		lat, lng = coord.Latitude, coord.Longitude
	}

	if err := geo.ValidateCoordinate(lat, lng); err != nil {
		return nil, err
	}

	images := req.ImageURLs
	if images == nil {
		images = []string{}
	}

	now := time.Now()
	event := &domain.Event{
		ID:               uuid.New().String(),
		Title:            req.Title,
		Description:      req.Description,
		Date:             req.Date,
		Time:             req.Time,
		LocationAddress:  req.LocationAddress,
		Latitude:         lat,
		Longitude:        lng,
		ImageURLs:        images,
		TotalTickets:     req.TotalTickets,
		TicketsAvailable: req.TotalTickets,
		CreatedBy:        req.CreatedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.seedInventory(ctx, event)
	s.announce(ctx, func() error { return s.publisher.PublishCreated(ctx, event) }, event.ID)

	return event, nil
}

func (s *eventService) forwardGeocode(ctx context.Context, address string) (*geocode.Coordinate, error) {
	if s.geocoder == nil {
		return nil, domain.ErrAddressNotFound
	}
	return s.geocoder.Forward(ctx, address)
}

func (s *eventService) seedInventory(ctx context.Context, event *domain.Event) {
	if s.inventory == nil {
		return
	}
	if err := s.inventory.Seed(ctx, event.ID, event.TicketsAvailable); err != nil {
		s.log.Warn("inventory seed failed", zap.String("event_id", event.ID), zap.Error(err))
	}
}

// announce publishes a change record. The store is the source of truth, a
// publish failure only delays discovery.
func (s *eventService) announce(ctx context.Context, publish func() error, eventID string) {
	if s.publisher == nil {
		return
	}
	if err := publish(); err != nil {
		s.log.Error("event change publish failed", zap.String("event_id", eventID), zap.Error(err))
	}
}

// GetEvent retrieves an event by ID
func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	return event, nil
}

// ListUpcoming lists events dated today or later, soonest first. Events
// with unparseable dates are excluded.
func (s *eventService) ListUpcoming(ctx context.Context) ([]*domain.Event, error) {
	events, err := s.eventRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	upcoming := make([]*domain.Event, 0, len(events))
	for _, ev := range events {
		if ev.IsFutureOrToday(now) {
			upcoming = append(upcoming, ev)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		di, _ := upcoming[i].ParseDate()
		dj, _ := upcoming[j].ParseDate()
		return di.Before(dj)
	})

	return upcoming, nil
}

// ListNearby lists events within the query radius of the query point.
// Events with invalid stored coordinates are skipped.
func (s *eventService) ListNearby(ctx context.Context, query domain.GeoQuery) ([]*domain.Event, error) {
	if err := geo.ValidateCoordinate(query.Latitude, query.Longitude); err != nil {
		return nil, err
	}
	if query.RadiusKm <= 0 {
		query.RadiusKm = s.defaultRadius
	}

	events, err := s.eventRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	nearby := make([]*domain.Event, 0)
	for _, ev := range events {
		if geo.ValidateCoordinate(ev.Latitude, ev.Longitude) != nil {
			continue
		}
		if geo.WithinRadius(query, ev.Latitude, ev.Longitude) {
			nearby = append(nearby, ev)
		}
	}
	return nearby, nil
}

// SearchEvents lists events matching the query
func (s *eventService) SearchEvents(ctx context.Context, query string) ([]*domain.Event, error) {
	if query == "" {
		return []*domain.Event{}, nil
	}
	events, err := s.eventRepo.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

// ListMyEvents lists events created by the user
func (s *eventService) ListMyEvents(ctx context.Context, userID string) ([]*domain.Event, error) {
	return s.eventRepo.ListByCreator(ctx, userID)
}

// UpdateEvent updates an event owned by the user
func (s *eventService) UpdateEvent(ctx context.Context, userID, eventID string, req *dto.UpdateEventRequest) (*domain.Event, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, errors.New(msg)
	}

	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.CreatedBy != userID {
		return nil, ErrUnauthorized
	}

	if req.Title != "" {
		event.Title = req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Date != "" {
		event.Date = req.Date
	}
	if req.Time != nil {
		event.Time = *req.Time
	}
	if req.LocationAddress != "" {
		event.LocationAddress = req.LocationAddress
	}
	if req.Latitude != nil && req.Longitude != nil {
		if err := geo.ValidateCoordinate(*req.Latitude, *req.Longitude); err != nil {
			return nil, err
		}
		event.Latitude = *req.Latitude
		event.Longitude = *req.Longitude
	}
	if req.ImageURLs != nil {
		event.ImageURLs = req.ImageURLs
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.announce(ctx, func() error { return s.publisher.PublishUpdated(ctx, event) }, event.ID)
	return event, nil
}

// DeleteEvent deletes an event owned by the user
func (s *eventService) DeleteEvent(ctx context.Context, userID, eventID string) error {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if event.CreatedBy != userID {
		return ErrUnauthorized
	}

	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return err
	}

	s.announce(ctx, func() error { return s.publisher.PublishDeleted(ctx, eventID) }, eventID)
	return nil
}

// SaveEvent marks an event as saved for the user
func (s *eventService) SaveEvent(ctx context.Context, userID, eventID string) error {
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return err
	}
	return s.savedRepo.Save(ctx, userID, eventID)
}

// UnsaveEvent removes a saved mark
func (s *eventService) UnsaveEvent(ctx context.Context, userID, eventID string) error {
	return s.savedRepo.Unsave(ctx, userID, eventID)
}

// ListSavedEvents lists the user's saved events
func (s *eventService) ListSavedEvents(ctx context.Context, userID string) ([]*domain.Event, error) {
	events, err := s.savedRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

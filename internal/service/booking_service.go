package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/imcoolthanyou/Event-Hive/internal/booking"
	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/internal/dto"
	"github.com/imcoolthanyou/Event-Hive/internal/payment"
	"github.com/imcoolthanyou/Event-Hive/internal/repository"
	"github.com/imcoolthanyou/Event-Hive/pkg/logger"
)

// bookingService implements BookingService
type bookingService struct {
	coordinator *booking.Coordinator
	eventRepo   repository.EventRepository
	gateway     payment.Gateway
	publisher   ChangePublisher
	log         *logger.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	coordinator *booking.Coordinator,
	eventRepo repository.EventRepository,
	gateway payment.Gateway,
	publisher ChangePublisher,
) BookingService {
	return &bookingService{
		coordinator: coordinator,
		eventRepo:   eventRepo,
		gateway:     gateway,
		publisher:   publisher,
		log:         logger.Get(),
	}
}

// BookTicket atomically claims one ticket for the user
func (s *bookingService) BookTicket(ctx context.Context, userID, eventID string) (*dto.BookTicketResponse, error) {
	if eventID == "" {
		return nil, fmt.Errorf("%w: event ID is required", ErrInvalidInput)
	}

	remaining, err := s.coordinator.Book(ctx, eventID)
	if err != nil {
		return nil, err
	}

	s.log.Info("ticket booked",
		zap.String("event_id", eventID),
		zap.String("user_id", userID),
		zap.Int("remaining", remaining),
	)

	s.announceBooking(ctx, eventID)

	return &dto.BookTicketResponse{
		EventID:          eventID,
		TicketsRemaining: remaining,
	}, nil
}

// announceBooking republishes the event so discovery feeds pick up the new
// availability. Best effort.
func (s *bookingService) announceBooking(ctx context.Context, eventID string) {
	if s.publisher == nil {
		return
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil || event == nil {
		s.log.Warn("could not reload event after booking",
			zap.String("event_id", eventID), zap.Error(err))
		return
	}
	if err := s.publisher.PublishUpdated(ctx, event); err != nil {
		s.log.Warn("availability publish failed",
			zap.String("event_id", eventID), zap.Error(err))
	}
}

// CreateOrder creates a payment order for an event ticket
func (s *bookingService) CreateOrder(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*payment.Order, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, msg)
	}

	// The cache sees bookings before the replicated row does
	if available, ok := s.coordinator.CachedAvailability(ctx, req.EventID); ok && available <= 0 {
		return nil, domain.ErrInsufficientTickets
	}

	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	if event.TicketsAvailable <= 0 {
		return nil, domain.ErrInsufficientTickets
	}

	order, err := s.gateway.CreateOrder(ctx, &payment.OrderRequest{
		AmountPaise: payment.ToPaise(req.AmountRupees),
		Currency:    payment.DefaultCurrency,
		Receipt:     fmt.Sprintf("booking-%s-%s", req.EventID, userID),
		Notes: map[string]string{
			"event_id": req.EventID,
			"user_id":  userID,
		},
	})
	if err != nil {
		if !errors.Is(err, domain.ErrOrderCreationFailed) {
			err = fmt.Errorf("%w: %v", domain.ErrOrderCreationFailed, err)
		}
		return nil, err
	}

	s.log.Info("payment order created",
		zap.String("order_id", order.ID),
		zap.String("event_id", req.EventID),
		zap.Int64("amount_paise", order.AmountPaise),
	)

	return order, nil
}

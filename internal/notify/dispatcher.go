package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/pkg/logger"
)

// Notification is a nearby-event alert ready for delivery
type Notification struct {
	UserID  string            `json:"user_id"`
	Title   string            `json:"title"`
	Body    string            `json:"body"`
	EventID string            `json:"event_id"`
	Data    map[string]string `json:"data,omitempty"`
}

// Notifier delivers notifications to a user's devices
type Notifier interface {
	// RequestPermission reports whether the user allows notifications
	RequestPermission(ctx context.Context, userID string) (bool, error)
	// Dispatch delivers one notification
	Dispatch(ctx context.Context, n *Notification) error
}

// Dispatcher turns nearby sets into at-most-once notifications. An event
// notifies a given session at most once, the user's own events never
// notify, and a permission-denied delivery still counts as notified.
type Dispatcher struct {
	userID   string
	notifier Notifier
	log      *logger.Logger

	mu       sync.Mutex
	notified map[string]struct{}
}

// NewDispatcher creates a Dispatcher for one user's discovery session.
// The notified set lives for the session; a restart may re-notify.
func NewDispatcher(userID string, notifier Notifier) *Dispatcher {
	return &Dispatcher{
		userID:   userID,
		notifier: notifier,
		log:      logger.Get(),
		notified: make(map[string]struct{}),
	}
}

// OnNearby processes a recomputed nearby set
func (d *Dispatcher) OnNearby(ctx context.Context, nearby []*domain.Event) {
	for _, ev := range nearby {
		d.maybeNotify(ctx, ev)
	}
}

func (d *Dispatcher) maybeNotify(ctx context.Context, ev *domain.Event) {
	// Users never get alerted about their own events
	if ev.CreatedBy == d.userID {
		return
	}

	d.mu.Lock()
	if _, seen := d.notified[ev.ID]; seen {
		d.mu.Unlock()
		return
	}
	// Mark before dispatching: a failed delivery must not retry forever
	d.notified[ev.ID] = struct{}{}
	d.mu.Unlock()

	allowed, err := d.notifier.RequestPermission(ctx, d.userID)
	if err != nil {
		d.log.Warn("permission check failed, skipping dispatch",
			zap.String("event_id", ev.ID), zap.Error(err))
		return
	}
	if !allowed {
		d.log.Info("notification permission denied",
			zap.String("user_id", d.userID), zap.String("event_id", ev.ID))
		return
	}

	n := &Notification{
		UserID:  d.userID,
		Title:   "Event near you!",
		Body:    fmt.Sprintf("%s is happening near you at %s", ev.Title, ev.LocationAddress),
		EventID: ev.ID,
		Data: map[string]string{
			"event_id": ev.ID,
		},
	}

	if err := d.notifier.Dispatch(ctx, n); err != nil {
		if errors.Is(err, domain.ErrPermissionDenied) {
			d.log.Info("notification blocked by device",
				zap.String("event_id", ev.ID))
			return
		}
		d.log.Error("notification dispatch failed",
			zap.String("event_id", ev.ID), zap.Error(err))
	}
}

// NotifiedCount returns how many events have been notified this session
func (d *Dispatcher) NotifiedCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.notified)
}

package stream

import (
	"time"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
)

// Change types carried on the events topic
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// EventChange is the wire message for an event mutation. Deleted changes
// carry only the event ID.
type EventChange struct {
	Type       string        `json:"type"`
	EventID    string        `json:"event_id"`
	Event      *domain.Event `json:"event,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

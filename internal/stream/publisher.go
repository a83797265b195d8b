package stream

import (
	"context"
	"time"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
)

// JSONProducer produces JSON messages to a topic
type JSONProducer interface {
	ProduceJSON(ctx context.Context, topic, key string, data interface{}, headers map[string]string) error
}

// Publisher publishes event mutations to the events topic so discovery
// workers can fold them into their snapshots.
type Publisher struct {
	producer JSONProducer
	topic    string
}

// NewPublisher creates a new Publisher
func NewPublisher(producer JSONProducer, topic string) *Publisher {
	return &Publisher{producer: producer, topic: topic}
}

func (p *Publisher) publish(ctx context.Context, changeType string, eventID string, event *domain.Event) error {
	change := &EventChange{
		Type:       changeType,
		EventID:    eventID,
		Event:      event,
		OccurredAt: time.Now(),
	}
	headers := map[string]string{
		"content_type": "application/json",
		"change_type":  changeType,
	}
	// Key by event ID so changes to one event stay ordered
	return p.producer.ProduceJSON(ctx, p.topic, eventID, change, headers)
}

// PublishCreated publishes a created change
func (p *Publisher) PublishCreated(ctx context.Context, event *domain.Event) error {
	return p.publish(ctx, ChangeCreated, event.ID, event)
}

// PublishUpdated publishes an updated change
func (p *Publisher) PublishUpdated(ctx context.Context, event *domain.Event) error {
	return p.publish(ctx, ChangeUpdated, event.ID, event)
}

// PublishDeleted publishes a deleted change
func (p *Publisher) PublishDeleted(ctx context.Context, eventID string) error {
	return p.publish(ctx, ChangeDeleted, eventID, nil)
}

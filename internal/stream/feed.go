package stream

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/pkg/kafka"
	"github.com/imcoolthanyou/Event-Hive/pkg/logger"
	"github.com/imcoolthanyou/Event-Hive/pkg/retry"
)

// EventLister loads the full event set for the initial snapshot
type EventLister interface {
	ListAll(ctx context.Context) ([]*domain.Event, error)
}

// RecordSource polls batches of Kafka records
type RecordSource interface {
	Poll(ctx context.Context) ([]*kafka.Record, error)
	CommitRecords(ctx context.Context) error
}

// Feed folds the events topic into full event snapshots. It seeds from the
// repository, then applies each change record to an in-memory index and
// emits the resulting snapshot. Records that cannot be decoded go to the
// dead letter queue instead of wedging the feed.
type Feed struct {
	lister   EventLister
	source   RecordSource
	dlq      *retry.DLQHandler
	topic    string
	log      *logger.Logger
	snapshot chan []*domain.Event

	index map[string]*domain.Event
}

// NewFeed creates a new Feed
func NewFeed(lister EventLister, source RecordSource, dlq *retry.DLQHandler, topic string) *Feed {
	return &Feed{
		lister:   lister,
		source:   source,
		dlq:      dlq,
		topic:    topic,
		log:      logger.Get(),
		snapshot: make(chan []*domain.Event, 1),
		index:    make(map[string]*domain.Event),
	}
}

// Snapshots returns the channel of event snapshots. The channel holds only
// the latest snapshot; a slow consumer sees the freshest state, not a
// backlog.
func (f *Feed) Snapshots() <-chan []*domain.Event {
	return f.snapshot
}

// Run seeds the index then consumes change records until the context ends.
func (f *Feed) Run(ctx context.Context) error {
	if err := f.seed(ctx); err != nil {
		return err
	}
	f.emit()

	for {
		records, err := f.source.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Keep the last known snapshot on transient fetch errors
			f.log.Error("event feed poll failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		changed := false
		for _, rec := range records {
			if f.apply(ctx, rec) {
				changed = true
			}
		}

		if err := f.source.CommitRecords(ctx); err != nil {
			f.log.Error("event feed commit failed", zap.Error(err))
		}

		if changed {
			f.emit()
		}
	}
}

func (f *Feed) seed(ctx context.Context) error {
	events, err := f.lister.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, ev := range events {
		f.index[ev.ID] = ev
	}
	f.log.Info("event feed seeded", zap.Int("events", len(f.index)))
	return nil
}

// apply folds one record into the index. Returns true when the index changed.
func (f *Feed) apply(ctx context.Context, rec *kafka.Record) bool {
	var change EventChange
	if err := json.Unmarshal(rec.Value, &change); err != nil {
		f.toDLQ(ctx, rec, err)
		return false
	}

	switch change.Type {
	case ChangeCreated, ChangeUpdated:
		if change.Event == nil || change.Event.ID == "" {
			f.toDLQ(ctx, rec, errInvalidChange)
			return false
		}
		f.index[change.Event.ID] = change.Event
		return true
	case ChangeDeleted:
		if change.EventID == "" {
			f.toDLQ(ctx, rec, errInvalidChange)
			return false
		}
		if _, ok := f.index[change.EventID]; !ok {
			return false
		}
		delete(f.index, change.EventID)
		return true
	default:
		f.toDLQ(ctx, rec, errInvalidChange)
		return false
	}
}

var errInvalidChange = retryError("invalid event change message")

type retryError string

func (e retryError) Error() string { return string(e) }

func (f *Feed) toDLQ(ctx context.Context, rec *kafka.Record, cause error) {
	f.log.Warn("undecodable event change record",
		zap.String("topic", rec.Topic),
		zap.Int64("offset", rec.Offset),
		zap.Error(cause),
	)
	if f.dlq == nil {
		return
	}
	msgCtx := &retry.MessageContext{
		ID:      string(rec.Key),
		Topic:   rec.Topic,
		Key:     string(rec.Key),
		Payload: rec.Value,
		Headers: rec.Headers,
	}
	// Decoding is deterministic, so fail straight through to the DLQ
	err := f.dlq.ProcessWithDLQ(ctx, msgCtx, func(context.Context) error {
		return retry.Permanent(cause)
	})
	if err != nil {
		f.log.Error("failed to route record to DLQ", zap.Error(err))
	}
}

// emit replaces the pending snapshot with the current one
func (f *Feed) emit() {
	events := make([]*domain.Event, 0, len(f.index))
	for _, ev := range f.index {
		events = append(events, ev)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })

	// Drop the stale pending snapshot, if any
	select {
	case <-f.snapshot:
	default:
	}
	f.snapshot <- events
}

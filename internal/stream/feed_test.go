package stream

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/pkg/kafka"
	"github.com/imcoolthanyou/Event-Hive/pkg/retry"
)

type stubLister struct {
	events []*domain.Event
	err    error
}

func (s *stubLister) ListAll(context.Context) ([]*domain.Event, error) {
	return s.events, s.err
}

// scriptedSource serves record batches one Poll at a time, then blocks
// until the context ends. When gate is non-nil, each batch is held back
// until the test releases it, so the test can observe every intermediate
// snapshot despite the feed's latest-wins coalescing.
type scriptedSource struct {
	batches [][]*kafka.Record
	commits int
	gate    chan struct{}
}

func (s *scriptedSource) Poll(ctx context.Context) ([]*kafka.Record, error) {
	if len(s.batches) == 0 {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch, nil
}

func (s *scriptedSource) CommitRecords(context.Context) error {
	s.commits++
	return nil
}

type capturingDLQ struct {
	mu       sync.Mutex
	messages []*retry.DLQMessage
}

func (c *capturingDLQ) PublishToDLQ(_ context.Context, msg *retry.DLQMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	return nil
}

func (c *capturingDLQ) GetDLQTopic(topic string) string { return topic + ".dlq" }

func (c *capturingDLQ) captured() []*retry.DLQMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*retry.DLQMessage{}, c.messages...)
}

func changeRecord(t *testing.T, change *EventChange) *kafka.Record {
	t.Helper()
	value, err := json.Marshal(change)
	require.NoError(t, err)
	return &kafka.Record{Topic: "events.changed", Key: []byte(change.EventID), Value: value}
}

func receiveSnapshot(t *testing.T, feed *Feed) []*domain.Event {
	t.Helper()
	select {
	case snap := <-feed.Snapshots():
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestFeed_SeedsFromRepository(t *testing.T) {
	lister := &stubLister{events: []*domain.Event{
		{ID: "a", Title: "First"},
		{ID: "b", Title: "Second"},
	}}
	source := &scriptedSource{}
	feed := NewFeed(lister, source, nil, "events.changed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go feed.Run(ctx)

	snap := receiveSnapshot(t, feed)
	require.Len(t, snap, 2)
	assert.Equal(t, "a", snap[0].ID)
	assert.Equal(t, "b", snap[1].ID)
}

func TestFeed_FoldsChangesIntoSnapshots(t *testing.T) {
	lister := &stubLister{events: []*domain.Event{{ID: "a", Title: "Original"}}}
	source := &scriptedSource{gate: make(chan struct{}), batches: [][]*kafka.Record{
		{
			changeRecord(t, &EventChange{Type: ChangeCreated, EventID: "b", Event: &domain.Event{ID: "b", Title: "New"}}),
			changeRecord(t, &EventChange{Type: ChangeUpdated, EventID: "a", Event: &domain.Event{ID: "a", Title: "Renamed"}}),
		},
		{
			changeRecord(t, &EventChange{Type: ChangeDeleted, EventID: "b"}),
		},
	}}
	feed := NewFeed(lister, source, nil, "events.changed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go feed.Run(ctx)

	// Seed snapshot
	snap := receiveSnapshot(t, feed)
	require.Len(t, snap, 1)

	// After first batch: a renamed, b added
	source.gate <- struct{}{}
	snap = receiveSnapshot(t, feed)
	require.Len(t, snap, 2)
	assert.Equal(t, "Renamed", snap[0].Title)
	assert.Equal(t, "New", snap[1].Title)

	// After second batch: b deleted
	source.gate <- struct{}{}
	snap = receiveSnapshot(t, feed)
	require.Len(t, snap, 1)
	assert.Equal(t, "a", snap[0].ID)
}

func TestFeed_SeedFailureSurfaces(t *testing.T) {
	lister := &stubLister{err: errors.New("db down")}
	feed := NewFeed(lister, &scriptedSource{}, nil, "events.changed")

	err := feed.Run(context.Background())
	assert.Error(t, err)
}

func TestFeed_UndecodableRecordGoesToDLQ(t *testing.T) {
	lister := &stubLister{}
	source := &scriptedSource{batches: [][]*kafka.Record{
		{
			{Topic: "events.changed", Key: []byte("bad"), Value: []byte("not json")},
			changeRecord(t, &EventChange{Type: ChangeCreated, EventID: "a", Event: &domain.Event{ID: "a", Title: "Good"}}),
		},
	}}
	dlqPub := &capturingDLQ{}
	dlq := retry.NewDLQHandler(dlqPub, &retry.DLQHandlerConfig{
		RetryConfig: retry.DefaultConfig(),
		Source:      "feed-test",
	})
	feed := NewFeed(lister, source, dlq, "events.changed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go feed.Run(ctx)

	// Seed (empty) then the fold of the good record
	receiveSnapshot(t, feed)
	snap := receiveSnapshot(t, feed)
	require.Len(t, snap, 1)
	assert.Equal(t, "a", snap[0].ID)

	captured := dlqPub.captured()
	require.Len(t, captured, 1)
	assert.Equal(t, "events.changed", captured[0].OriginalTopic)
}

func TestFeed_UnknownChangeTypeGoesToDLQ(t *testing.T) {
	source := &scriptedSource{batches: [][]*kafka.Record{
		{changeRecord(t, &EventChange{Type: "exploded", EventID: "a"})},
	}}
	dlqPub := &capturingDLQ{}
	dlq := retry.NewDLQHandler(dlqPub, &retry.DLQHandlerConfig{
		RetryConfig: retry.DefaultConfig(),
		Source:      "feed-test",
	})
	feed := NewFeed(&stubLister{}, source, dlq, "events.changed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go feed.Run(ctx)

	receiveSnapshot(t, feed)

	deadline := time.Now().Add(2 * time.Second)
	for len(dlqPub.captured()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	require.Len(t, dlqPub.captured(), 1)
}

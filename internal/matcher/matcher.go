package matcher

import (
	"context"

	"go.uber.org/zap"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/internal/geo"
	"github.com/imcoolthanyou/Event-Hive/pkg/logger"
)

// PublishFunc receives each recomputed nearby set. It is always invoked
// from the matcher's run goroutine, so publishes are ordered.
type PublishFunc func(nearby []*domain.Event)

type queryInput struct {
	query  domain.GeoQuery
	active bool
}

// Matcher recomputes the nearby-event set whenever the user's location
// query or the event snapshot changes. Inputs coalesce: if several arrive
// while a recompute is in flight, only the latest of each kind is applied
// and a single recompute follows.
type Matcher struct {
	queryCh chan queryInput
	snapCh  chan []*domain.Event
	publish PublishFunc
	log     *logger.Logger

	query  domain.GeoQuery
	active bool
	events []*domain.Event
}

// New creates a Matcher that reports nearby sets to publish.
func New(publish PublishFunc) *Matcher {
	return &Matcher{
		queryCh: make(chan queryInput, 1),
		snapCh:  make(chan []*domain.Event, 1),
		publish: publish,
		log:     logger.Get(),
	}
}

// SetQuery replaces the active location query. A queued, not-yet-applied
// query is discarded.
func (m *Matcher) SetQuery(q domain.GeoQuery) {
	replace(m.queryCh, queryInput{query: q, active: true})
}

// ClearQuery deactivates matching. The next recompute publishes an empty
// nearby set.
func (m *Matcher) ClearQuery() {
	replace(m.queryCh, queryInput{})
}

// Update replaces the event snapshot input.
func (m *Matcher) Update(events []*domain.Event) {
	replace(m.snapCh, events)
}

// replace drops the pending value, if any, then queues the new one.
func replace[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// Run processes inputs until the context ends. Every applied input batch
// results in exactly one recompute and one publish.
func (m *Matcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case q := <-m.queryCh:
			m.query, m.active = q.query, q.active
		case events := <-m.snapCh:
			m.events = events
		}

		// Coalesce anything that arrived while we were blocked
		m.drain()
		m.recompute()
	}
}

func (m *Matcher) drain() {
	for {
		select {
		case q := <-m.queryCh:
			m.query, m.active = q.query, q.active
		case events := <-m.snapCh:
			m.events = events
		default:
			return
		}
	}
}

func (m *Matcher) recompute() {
	nearby := m.match()
	m.publish(nearby)
}

// match returns the events within the query radius. Any failure degrades
// to an empty set so the pipeline keeps running.
func (m *Matcher) match() (nearby []*domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("nearby match failed", zap.Any("panic", r))
			nearby = []*domain.Event{}
		}
	}()

	nearby = []*domain.Event{}
	if !m.active {
		return nearby
	}

	if err := geo.ValidateCoordinate(m.query.Latitude, m.query.Longitude); err != nil {
		m.log.Warn("nearby match skipped", zap.Error(err))
		return nearby
	}

	for _, ev := range m.events {
		if geo.ValidateCoordinate(ev.Latitude, ev.Longitude) != nil {
			continue
		}
		if geo.WithinRadius(m.query, ev.Latitude, ev.Longitude) {
			nearby = append(nearby, ev)
		}
	}
	return nearby
}

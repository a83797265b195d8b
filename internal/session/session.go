package session

import (
	"context"
	"sync"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/internal/matcher"
	"github.com/imcoolthanyou/Event-Hive/internal/notify"
)

// Session is one user's live discovery pipeline: a matcher recomputing the
// nearby set and a dispatcher turning new matches into notifications. The
// notified set lives as long as the session.
type Session struct {
	userID     string
	matcher    *matcher.Matcher
	dispatcher *notify.Dispatcher
	ctx        context.Context
	cancel     context.CancelFunc

	mu     sync.RWMutex
	nearby []*domain.Event
}

func newSession(userID string, notifier notify.Notifier) *Session {
	s := &Session{
		userID:     userID,
		dispatcher: notify.NewDispatcher(userID, notifier),
		nearby:     []*domain.Event{},
	}
	s.matcher = matcher.New(s.onNearby)
	return s
}

func (s *Session) start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	s.ctx = ctx
	s.cancel = cancel
	go s.matcher.Run(ctx)
}

// onNearby runs on the matcher goroutine, so set updates and dispatches
// stay ordered per session. Dispatching under the session context lets
// EndSession abort in-flight deliveries.
func (s *Session) onNearby(nearby []*domain.Event) {
	s.mu.Lock()
	s.nearby = nearby
	s.mu.Unlock()

	s.dispatcher.OnNearby(s.ctx, nearby)
}

// SetLocation replaces the session's location query
func (s *Session) SetLocation(q domain.GeoQuery) {
	s.matcher.SetQuery(q)
}

// ClearLocation deactivates matching; the nearby set empties
func (s *Session) ClearLocation() {
	s.matcher.ClearQuery()
}

// UpdateSnapshot feeds a new event snapshot into the matcher
func (s *Session) UpdateSnapshot(events []*domain.Event) {
	s.matcher.Update(events)
}

// Nearby returns the latest computed nearby set
func (s *Session) Nearby() []*domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Event, len(s.nearby))
	copy(out, s.nearby)
	return out
}

func (s *Session) stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

package session

import (
	"context"
	"sync"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/internal/geo"
	"github.com/imcoolthanyou/Event-Hive/internal/notify"
)

// Manager owns the active discovery sessions and fans event snapshots out
// to them.
type Manager struct {
	ctx           context.Context
	notifier      notify.Notifier
	defaultRadius float64

	mu       sync.RWMutex
	sessions map[string]*Session
	snapshot []*domain.Event
}

// NewManager creates a Manager. Sessions it starts stop when ctx ends.
func NewManager(ctx context.Context, notifier notify.Notifier, defaultRadiusKm float64) *Manager {
	return &Manager{
		ctx:           ctx,
		notifier:      notifier,
		defaultRadius: defaultRadiusKm,
		sessions:      make(map[string]*Session),
	}
}

// SetLocation starts or updates a user's discovery session. A radius of
// zero or less falls back to the configured default.
func (m *Manager) SetLocation(userID string, lat, lng, radiusKm float64) error {
	if err := geo.ValidateCoordinate(lat, lng); err != nil {
		return err
	}
	if radiusKm <= 0 {
		radiusKm = m.defaultRadius
	}

	s := m.getOrCreate(userID)
	s.SetLocation(domain.GeoQuery{Latitude: lat, Longitude: lng, RadiusKm: radiusKm})
	return nil
}

// ClearLocation deactivates a user's matching without ending the session,
// keeping the notified set intact.
func (m *Manager) ClearLocation(userID string) {
	m.mu.RLock()
	s := m.sessions[userID]
	m.mu.RUnlock()
	if s != nil {
		s.ClearLocation()
	}
}

// Nearby returns the latest nearby set for a user, or nil when the user
// has no session.
func (m *Manager) Nearby(userID string) []*domain.Event {
	m.mu.RLock()
	s := m.sessions[userID]
	m.mu.RUnlock()
	if s == nil {
		return nil
	}
	return s.Nearby()
}

// EndSession stops and removes a user's session
func (m *Manager) EndSession(userID string) {
	m.mu.Lock()
	s := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()
	if s != nil {
		s.stop()
	}
}

// Broadcast fans a new event snapshot out to every active session
func (m *Manager) Broadcast(events []*domain.Event) {
	m.mu.Lock()
	m.snapshot = events
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.UpdateSnapshot(events)
	}
}

// ActiveSessions returns the number of live sessions
func (m *Manager) ActiveSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) getOrCreate(userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		return s
	}

	s := newSession(userID, m.notifier)
	s.start(m.ctx)
	// Late joiners see the current snapshot immediately
	if m.snapshot != nil {
		s.UpdateSnapshot(m.snapshot)
	}
	m.sessions[userID] = s
	return s
}

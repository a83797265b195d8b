package service

import (
	"context"
	"sync"

	"github.com/imcoolthanyou/Event-Hive/internal/domain"
	"github.com/imcoolthanyou/Event-Hive/internal/geocode"
	"github.com/imcoolthanyou/Event-Hive/internal/payment"
)

// mockEventRepo is an in-memory EventRepository
type mockEventRepo struct {
	mu     sync.Mutex
	events map[string]*domain.Event

	createErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: map[string]*domain.Event{}}
}

func (m *mockEventRepo) Create(_ context.Context, event *domain.Event) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *event
	m.events[event.ID] = &cp
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	cp := *ev
	return &cp, nil
}

func (m *mockEventRepo) ListAll(_ context.Context) ([]*domain.Event, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Event, 0, len(m.events))
	for _, ev := range m.events {
		cp := *ev
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockEventRepo) ListByCreator(_ context.Context, userID string) ([]*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Event{}
	for _, ev := range m.events {
		if ev.CreatedBy == userID {
			cp := *ev
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockEventRepo) Search(_ context.Context, query string) ([]*domain.Event, error) {
	return m.ListAll(context.Background())
}

func (m *mockEventRepo) Update(_ context.Context, event *domain.Event) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *event
	m.events[event.ID] = &cp
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.events, id)
	return nil
}

func (m *mockEventRepo) DecrementTickets(_ context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[id]
	if !ok {
		return 0, domain.ErrEventNotFound
	}
	if ev.TicketsAvailable <= 0 {
		return 0, domain.ErrInsufficientTickets
	}
	ev.TicketsAvailable--
	return ev.TicketsAvailable, nil
}

// mockSavedRepo is an in-memory SavedEventRepository
type mockSavedRepo struct {
	mu     sync.Mutex
	saved  map[string]map[string]bool // userID -> eventID
	events *mockEventRepo
}

func newMockSavedRepo(events *mockEventRepo) *mockSavedRepo {
	return &mockSavedRepo{saved: map[string]map[string]bool{}, events: events}
}

func (m *mockSavedRepo) Save(_ context.Context, userID, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved[userID] == nil {
		m.saved[userID] = map[string]bool{}
	}
	m.saved[userID][eventID] = true
	return nil
}

func (m *mockSavedRepo) Unsave(_ context.Context, userID, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saved[userID], eventID)
	return nil
}

func (m *mockSavedRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Event, error) {
	m.mu.Lock()
	ids := make([]string, 0, len(m.saved[userID]))
	for id := range m.saved[userID] {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	out := []*domain.Event{}
	for _, id := range ids {
		ev, err := m.events.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if ev != nil {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *mockSavedRepo) IsSaved(_ context.Context, userID, eventID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved[userID][eventID], nil
}

// mockGeocoder resolves every address to a fixed coordinate
type mockGeocoder struct {
	coord *geocode.Coordinate
	err   error
	calls int
}

func (m *mockGeocoder) Forward(_ context.Context, address string) (*geocode.Coordinate, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if address == "" {
		return nil, domain.ErrAddressNotFound
	}
	return m.coord, nil
}

// mockPublisher records published changes
type mockPublisher struct {
	mu      sync.Mutex
	created []string
	updated []string
	deleted []string
	err     error
}

func (m *mockPublisher) PublishCreated(_ context.Context, event *domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, event.ID)
	return nil
}

func (m *mockPublisher) PublishUpdated(_ context.Context, event *domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.updated = append(m.updated, event.ID)
	return nil
}

func (m *mockPublisher) PublishDeleted(_ context.Context, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, eventID)
	return nil
}

// mockInventory records seeded counts
type mockInventory struct {
	mu     sync.Mutex
	seeded map[string]int
	err    error
}

func newMockInventory() *mockInventory {
	return &mockInventory{seeded: map[string]int{}}
}

func (m *mockInventory) Seed(_ context.Context, eventID string, available int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.seeded[eventID] = available
	return nil
}

func (m *mockInventory) Claim(_ context.Context, eventID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	n, ok := m.seeded[eventID]
	if !ok {
		return 0, domain.ErrEventNotFound
	}
	if n <= 0 {
		return 0, domain.ErrInsufficientTickets
	}
	m.seeded[eventID] = n - 1
	return n - 1, nil
}

func (m *mockInventory) Release(_ context.Context, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seeded[eventID]++
	return nil
}

func (m *mockInventory) Get(_ context.Context, eventID string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, false, m.err
	}
	n, ok := m.seeded[eventID]
	return n, ok, nil
}

func (m *mockInventory) SeedAll(ctx context.Context, events []*domain.Event) error {
	for _, ev := range events {
		if err := m.Seed(ctx, ev.ID, ev.TicketsAvailable); err != nil {
			return err
		}
	}
	return nil
}

// mockGateway returns a canned order
type mockGateway struct {
	lastReq *payment.OrderRequest
	order   *payment.Order
	err     error
}

func (m *mockGateway) CreateOrder(_ context.Context, req *payment.OrderRequest) (*payment.Order, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	if m.order != nil {
		return m.order, nil
	}
	return &payment.Order{
		ID:          "order_test_1",
		AmountPaise: req.AmountPaise,
		Currency:    req.Currency,
		Receipt:     req.Receipt,
		Status:      "created",
	}, nil
}

// mockProfileRepo is an in-memory UserProfileRepository
type mockProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*domain.UserProfile
	err      error
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: map[string]*domain.UserProfile{}}
}

func (m *mockProfileRepo) Upsert(_ context.Context, profile *domain.UserProfile) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *profile
	m.profiles[profile.UserID] = &cp
	return nil
}

func (m *mockProfileRepo) GetByID(_ context.Context, userID string) (*domain.UserProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// mockTokenRepo is an in-memory DeviceTokenRepository
type mockTokenRepo struct {
	mu     sync.Mutex
	tokens map[string][]*domain.DeviceToken
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{tokens: map[string][]*domain.DeviceToken{}}
}

func (m *mockTokenRepo) Upsert(_ context.Context, token *domain.DeviceToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens[token.UserID] {
		if t.Token == token.Token {
			t.UpdatedAt = token.UpdatedAt
			return nil
		}
	}
	m.tokens[token.UserID] = append(m.tokens[token.UserID], token)
	return nil
}

func (m *mockTokenRepo) GetByUser(_ context.Context, userID string) ([]*domain.DeviceToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.DeviceToken{}, m.tokens[userID]...), nil
}

func (m *mockTokenRepo) Delete(_ context.Context, userID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.tokens[userID][:0]
	for _, t := range m.tokens[userID] {
		if t.Token != token {
			kept = append(kept, t)
		}
	}
	m.tokens[userID] = kept
	return nil
}

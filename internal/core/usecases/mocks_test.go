package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samirrijal/yatra/internal/core/domain"
	"github.com/samirrijal/yatra/internal/core/ports"
)

// --- Mock CacheService ---

type mockCache struct {
	mu       sync.Mutex
	data     map[string][]byte
	deleteFn func(ctx context.Context, key string) error
}

func newMockCache() *mockCache { return &mockCache{data: make(map[string][]byte)} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mockCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

// --- Mock NotificationService ---

type pushed struct {
	clientID string
	level    domain.BannerLevel
	message  string
}

type mockNotifier struct {
	mu     sync.Mutex
	pushes []pushed
}

func (m *mockNotifier) Push(clientID string, level domain.BannerLevel, message string) domain.Banner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pushes = append(m.pushes, pushed{clientID, level, message})
	return domain.Banner{ID: fmt.Sprint(len(m.pushes)), Level: level, Message: message}
}

func (m *mockNotifier) all() []pushed {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]pushed(nil), m.pushes...)
}

func (m *mockNotifier) last() (pushed, bool) {
	all := m.all()
	if len(all) == 0 {
		return pushed{}, false
	}
	return all[len(all)-1], true
}

// notifierOf keeps a nil *mockNotifier from becoming a non-nil interface.
func notifierOf(n *mockNotifier) ports.NotificationService {
	if n == nil {
		return nil
	}
	return n
}

// --- Mock repositories ---

type mockCityRepo struct {
	listFn func(ctx context.Context) ([]domain.City, error)
	calls  int
}

func (m *mockCityRepo) List(ctx context.Context) ([]domain.City, error) {
	m.calls++
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

type mockOfferRepo struct {
	offers []domain.Offer
}

func (m *mockOfferRepo) List(ctx context.Context) ([]domain.Offer, error) { return m.offers, nil }

func (m *mockOfferRepo) GetByCode(ctx context.Context, code string) (*domain.Offer, error) {
	for _, o := range m.offers {
		if o.Code == code {
			o := o
			return &o, nil
		}
	}
	return nil, fmt.Errorf("offer %s: %w", code, domain.ErrNotFound)
}

type mockFAQRepo struct {
	faqs []domain.FAQ
}

func (m *mockFAQRepo) List(ctx context.Context) ([]domain.FAQ, error) { return m.faqs, nil }

type mockBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]domain.Booking
	createFn func(ctx context.Context, b *domain.Booking) error
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{bookings: make(map[string]domain.Booking)}
}

func (m *mockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	if m.createFn != nil {
		return m.createFn(ctx, b)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = *b
	return nil
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	return &b, nil
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	if b.Status != from {
		return fmt.Errorf("booking %s is %s: %w", id, b.Status, domain.ErrConflict)
	}
	b.Status = to
	b.UpdatedAt = at
	m.bookings[id] = b
	return nil
}

type mockPaymentRepo struct {
	mu       sync.Mutex
	payments map[string]domain.Payment
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{payments: make(map[string]domain.Payment)}
}

func (m *mockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.ID] = *p
	return nil
}

func (m *mockPaymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (m *mockPaymentRepo) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
	}
	p.Status = status
	p.UpdatedAt = at
	m.payments[id] = p
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu        sync.Mutex
	snapshots []domain.TrackingSession
	payments  []domain.Payment
}

func (m *mockPublisher) PublishTrackingSnapshot(ctx context.Context, s *domain.TrackingSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, *s)
	return nil
}

func (m *mockPublisher) PublishPaymentEvent(ctx context.Context, p *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = append(m.payments, *p)
	return nil
}

func (m *mockPublisher) snapshotCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.snapshots)
}

func publisherOf(p *mockPublisher) ports.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

// --- Mock PaymentProcessor ---

type mockProcessor struct {
	processFn func(ctx context.Context, p *domain.Payment) error
	processed []string
}

func (m *mockProcessor) Process(ctx context.Context, p *domain.Payment) error {
	m.processed = append(m.processed, p.ID)
	if m.processFn != nil {
		return m.processFn(ctx, p)
	}
	return nil
}

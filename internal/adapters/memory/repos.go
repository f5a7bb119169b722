package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/samirrijal/yatra/internal/core/domain"
)

// CityRepo implements ports.CityRepository over a fixed list.
type CityRepo struct {
	cities []domain.City
}

// NewCityRepo creates a CityRepo seeded with cities, or the site catalog when empty.
func NewCityRepo(cities ...domain.City) *CityRepo {
	if len(cities) == 0 {
		cities = Cities()
	}
	return &CityRepo{cities: cities}
}

func (r *CityRepo) List(ctx context.Context) ([]domain.City, error) {
	return slices.Clone(r.cities), nil
}

// OfferRepo implements ports.OfferRepository over a fixed list.
type OfferRepo struct {
	offers []domain.Offer
}

func NewOfferRepo(offers ...domain.Offer) *OfferRepo {
	if len(offers) == 0 {
		offers = Offers()
	}
	return &OfferRepo{offers: offers}
}

func (r *OfferRepo) List(ctx context.Context) ([]domain.Offer, error) {
	return slices.Clone(r.offers), nil
}

func (r *OfferRepo) GetByCode(ctx context.Context, code string) (*domain.Offer, error) {
	for _, o := range r.offers {
		if o.Code == code {
			return &o, nil
		}
	}
	return nil, fmt.Errorf("offer %s: %w", code, domain.ErrNotFound)
}

// FAQRepo implements ports.FAQRepository over a fixed list.
type FAQRepo struct {
	faqs []domain.FAQ
}

func NewFAQRepo(faqs ...domain.FAQ) *FAQRepo {
	if len(faqs) == 0 {
		faqs = FAQs()
	}
	return &FAQRepo{faqs: faqs}
}

func (r *FAQRepo) List(ctx context.Context) ([]domain.FAQ, error) {
	return slices.Clone(r.faqs), nil
}

// BookingRepo implements ports.BookingRepository in memory.
type BookingRepo struct {
	mu       sync.RWMutex
	bookings map[string]domain.Booking
}

func NewBookingRepo() *BookingRepo {
	return &BookingRepo{bookings: make(map[string]domain.Booking)}
}

func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; ok {
		return fmt.Errorf("booking %s: %w", b.ID, domain.ErrConflict)
	}
	c := *b
	c.Seats = slices.Clone(b.Seats)
	r.bookings[b.ID] = c
	return nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	b.Seats = slices.Clone(b.Seats)
	return &b, nil
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	if b.Status != from {
		return fmt.Errorf("booking %s is %s: %w", id, b.Status, domain.ErrConflict)
	}
	b.Status = to
	b.UpdatedAt = at
	r.bookings[id] = b
	return nil
}

// PaymentRepo implements ports.PaymentRepository in memory.
type PaymentRepo struct {
	mu       sync.RWMutex
	payments map[string]domain.Payment
}

func NewPaymentRepo() *PaymentRepo {
	return &PaymentRepo{payments: make(map[string]domain.Payment)}
}

func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[p.ID]; ok {
		return fmt.Errorf("payment %s: %w", p.ID, domain.ErrConflict)
	}
	r.payments[p.ID] = *p
	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (r *PaymentRepo) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
	}
	p.Status = status
	p.UpdatedAt = at
	r.payments[id] = p
	return nil
}

package ports

import (
	"context"
	"time"

	"github.com/samirrijal/yatra/internal/core/domain"
)

// CityRepository lists bookable cities.
type CityRepository interface {
	List(ctx context.Context) ([]domain.City, error)
}

// OfferRepository persists promotional offers.
type OfferRepository interface {
	List(ctx context.Context) ([]domain.Offer, error)
	GetByCode(ctx context.Context, code string) (*domain.Offer, error)
}

// FAQRepository persists support questions.
type FAQRepository interface {
	List(ctx context.Context) ([]domain.FAQ, error)
}

// BookingRepository persists seat bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	// UpdateStatus moves a booking from one status to another. It fails with
	// domain.ErrConflict when the booking is no longer in from.
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus, at time.Time) error
}

// PaymentRepository persists simulated payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, at time.Time) error
}

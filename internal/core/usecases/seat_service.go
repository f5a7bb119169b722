package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/yatra/internal/core/domain"
	"github.com/samirrijal/yatra/internal/core/ports"
	"github.com/samirrijal/yatra/internal/core/seatmap"
	"github.com/samirrijal/yatra/internal/pkg/clock"
	"github.com/samirrijal/yatra/internal/pkg/metrics"
)

const (
	MsgChooseBus      = "Please choose a bus"
	MsgSelectOneSeat  = "Please select at least one seat"
	msgSeatsSelectedF = "Seats %s selected! Redirecting to payment..."
)

// SeatService opens seat maps, toggles seats and turns a selection into a booking.
type SeatService struct {
	cache    ports.CacheService
	bookings ports.BookingRepository
	searches *SearchService
	notifier ports.NotificationService
	rand     RandSource
	clock    clock.Clock

	// serialises read-modify-write of cached maps
	mu sync.Mutex
}

// NewSeatService creates a new SeatService. searches may be nil, in which case
// seat maps are not checked against a stored search.
func NewSeatService(
	cache ports.CacheService,
	bookings ports.BookingRepository,
	searches *SearchService,
	notifier ports.NotificationService,
	rand RandSource,
	clk clock.Clock,
) *SeatService {
	if rand == nil {
		rand = NewRandSource()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &SeatService{
		cache:    cache,
		bookings: bookings,
		searches: searches,
		notifier: notifier,
		rand:     rand,
		clock:    clk,
	}
}

// Open generates a fresh seat map for busID. Every call draws a new layout.
func (s *SeatService) Open(ctx context.Context, clientID, busID, searchID string) (*domain.SeatMap, error) {
	ctx, span := tracer.Start(ctx, "SeatService.Open")
	defer span.End()

	busID = strings.TrimSpace(busID)
	if busID == "" {
		return nil, reject(s.notifier, clientID, MsgChooseBus)
	}
	if searchID != "" && s.searches != nil {
		search, err := s.searches.Get(ctx, searchID)
		if err != nil {
			return nil, err
		}
		if _, ok := search.Itinerary(busID); !ok {
			return nil, fmt.Errorf("bus %s in search %s: %w", busID, searchID, domain.ErrNotFound)
		}
	}

	m := seatmap.Generate(s.rand(), uuid.NewString(), busID)
	m.SearchID = searchID
	m.CreatedAt = s.clock.Now()

	if err := cacheSet(ctx, s.cache, seatMapKey(m.ID), m, seatMapTTL); err != nil {
		return nil, fmt.Errorf("store seat map: %w", err)
	}
	metrics.SeatMapsOpened.Inc()
	span.SetAttributes(attribute.String("seatmap.id", m.ID), attribute.Int("seatmap.booked", len(seatmap.Booked(m))))
	return &m, nil
}

// Get returns an open seat map.
func (s *SeatService) Get(ctx context.Context, id string) (*domain.SeatMap, error) {
	var m domain.SeatMap
	if !cacheGet(ctx, s.cache, "seatmap", seatMapKey(id), &m) {
		return nil, fmt.Errorf("seat map %s: %w", id, domain.ErrNotFound)
	}
	return &m, nil
}

// Toggle flips one seat between available and selected.
func (s *SeatService) Toggle(ctx context.Context, id string, seat int) (*domain.SeatMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := seatmap.Toggle(m, seat); err != nil {
		return nil, err
	}
	if err := cacheSet(ctx, s.cache, seatMapKey(id), m, seatMapTTL); err != nil {
		return nil, fmt.Errorf("store seat map: %w", err)
	}
	return m, nil
}

// Continue books the selected seats. When seats is non-empty it replaces the
// current selection first. With nothing selected the map stays open and a
// validation error is returned.
func (s *SeatService) Continue(ctx context.Context, clientID, id string, seats []int) (*domain.Booking, error) {
	ctx, span := tracer.Start(ctx, "SeatService.Continue")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(seats) > 0 {
		if err := seatmap.Select(m, seats); err != nil {
			if v, ok := domain.AsValidation(err); ok {
				return nil, reject(s.notifier, clientID, v.Message)
			}
			return nil, err
		}
	}

	selected := seatmap.Selected(*m)
	if len(selected) == 0 {
		return nil, reject(s.notifier, clientID, MsgSelectOneSeat)
	}

	now := s.clock.Now()
	booking := &domain.Booking{
		ID:        uuid.NewString(),
		BusID:     m.BusID,
		SearchID:  m.SearchID,
		Seats:     selected,
		Status:    domain.BookingPendingPayment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// The map is closed before the booking exists, so one map yields one booking.
	if s.cache != nil {
		if err := s.cache.Delete(ctx, seatMapKey(id)); err != nil {
			return nil, fmt.Errorf("close seat map %s: %w", id, err)
		}
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		if rerr := cacheSet(ctx, s.cache, seatMapKey(id), m, seatMapTTL); rerr != nil {
			slog.Warn("reopen seat map", "seatmap", id, "error", rerr)
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	metrics.BookingsCreated.Inc()
	span.SetAttributes(attribute.String("booking.id", booking.ID), attribute.Int("booking.seats", len(selected)))
	notify(s.notifier, clientID, domain.BannerSuccess, fmt.Sprintf(msgSeatsSelectedF, seatmap.JoinSeats(selected)))
	return booking, nil
}

// GetBooking returns a booking by id.
func (s *SeatService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func seatMapKey(id string) string { return "seatmap:" + id }

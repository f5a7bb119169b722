//go:build integration
// +build integration

package http_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	handler "github.com/samirrijal/yatra/internal/adapters/http"
	"github.com/samirrijal/yatra/internal/adapters/memory"
	"github.com/samirrijal/yatra/internal/adapters/postgres"
	"github.com/samirrijal/yatra/internal/core/domain"
	"github.com/samirrijal/yatra/internal/core/notify"
	"github.com/samirrijal/yatra/internal/core/tracking"
	"github.com/samirrijal/yatra/internal/core/usecases"
	"github.com/samirrijal/yatra/internal/pkg/clock"
	"github.com/samirrijal/yatra/internal/pkg/config"
)

// setupTestDB connects to the test database. The schema and catalog seed
// must already be applied with cmd/migrate.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("yatra-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

// setupTestDeps creates dependencies with real DB repos and an in-memory cache.
func setupTestDeps(t *testing.T, db *postgres.DB) (*handler.Dependencies, *usecases.InlineProcessor) {
	clk := clock.RealClock{}
	cache := memory.NewCache(clk)
	banners := notify.NewCenter(clk, notify.DefaultTTL, notify.DefaultCapacity)
	bookings := postgres.NewBookingRepo(db)

	searches := usecases.NewSearchService(cache, banners, nil, clk, 0)
	payments := usecases.NewPaymentService(postgres.NewPaymentRepo(db), bookings, nil, nil, banners, clk)
	inline := usecases.NewInlineProcessor(0, payments)
	payments.SetProcessor(inline)
	trackingSvc := usecases.NewTrackingService(nil, banners, usecases.TrackingConfig{Start: tracking.DefaultStart})

	t.Cleanup(func() {
		inline.Shutdown()
		trackingSvc.Shutdown()
	})

	return &handler.Dependencies{
		Cities:   usecases.NewCityService(postgres.NewCityRepo(db), cache),
		Searches: searches,
		Seats:    usecases.NewSeatService(cache, bookings, searches, banners, nil, clk),
		Tracking: trackingSvc,
		Offers:   usecases.NewOfferService(postgres.NewOfferRepo(db), cache, banners),
		FAQs:     usecases.NewFAQService(postgres.NewFAQRepo(db), cache, banners),
		Payments: payments,
		Banners:  banners,
		DB:       db,
	}, inline
}

// TestListCities_Integration_WithRealDB reads the seeded city list.
func TestListCities_Integration_WithRealDB(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	deps, _ := setupTestDeps(t, setupTestDB(t))
	app := setupApp(deps)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/cities", nil), -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	expectStatus(t, resp, 200)

	cities := decode[[]domain.City](t, resp)
	if len(cities) != len(memory.CityNames) || cities[0].Name != memory.CityNames[0] {
		t.Errorf("expected the seeded cities in order, got %v", cities)
	}
}

// TestReady_Integration reports the database as ok.
func TestReady_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	deps, _ := setupTestDeps(t, setupTestDB(t))
	app := setupApp(deps)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/ready", nil), -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	expectStatus(t, resp, 200)
	body := decode[struct {
		Checks map[string]string `json:"checks"`
	}](t, resp)
	if body.Checks["database"] != "ok" {
		t.Errorf("expected database ok, got %q", body.Checks["database"])
	}
}

// TestBookAndPay_Integration books a seat and pays for it against real tables.
func TestBookAndPay_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	deps, inline := setupTestDeps(t, setupTestDB(t))
	env := &testEnv{app: setupApp(deps), inline: inline, clientID: "integration"}

	resp := env.do(t, "POST", "/v1/seatmaps", map[string]string{"bus_id": "bus-1"})
	expectStatus(t, resp, 201)
	m := decode[domain.SeatMap](t, resp)

	resp = env.do(t, "POST", "/v1/seatmaps/"+m.ID+"/continue", map[string][]int{"seats": {firstFree(m)}})
	expectStatus(t, resp, 201)
	booking := decode[domain.Booking](t, resp)

	resp = env.do(t, "POST", "/v1/payments", map[string]any{
		"booking_id": booking.ID,
		"tab":        "cards",
		"card":       map[string]string{"number": "4111111111111111", "name": "Test User", "expiry": "1228", "cvv": "123"},
	})
	expectStatus(t, resp, 202)
	p := decode[domain.Payment](t, resp)
	if p.CardLast4 != "1111" {
		t.Errorf("expected last4 1111, got %q", p.CardLast4)
	}

	inline.Wait()

	resp = env.do(t, "GET", "/v1/bookings/"+booking.ID, nil)
	expectStatus(t, resp, 200)
	if got := decode[domain.Booking](t, resp); got.Status != domain.BookingConfirmed {
		t.Errorf("expected confirmed booking, got %s", got.Status)
	}
}

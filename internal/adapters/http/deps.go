package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/yatra/internal/adapters/postgres"
	"github.com/samirrijal/yatra/internal/adapters/valkey"
	"github.com/samirrijal/yatra/internal/core/notify"
	"github.com/samirrijal/yatra/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
// NATS, DB and Cache are nil when the backend is not configured.
type Dependencies struct {
	Cities    *usecases.CityService
	Searches  *usecases.SearchService
	Seats     *usecases.SeatService
	Tracking  *usecases.TrackingService
	Offers    *usecases.OfferService
	FAQs      *usecases.FAQService
	Payments  *usecases.PaymentService
	Banners   *notify.Center
	RateLimit int    // requests per minute per IP; 0 means 120
	SpecPath  string // OpenAPI document served under /docs
	NATS      *nats.Conn
	DB        *postgres.DB
	Cache     *valkey.Cache
}

package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/yatra/internal/pkg/metrics"
)

const (
	requestTimeout   = 15 * time.Second
	defaultRateLimit = 120
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting per IP
	rateLimit := deps.RateLimit
	if rateLimit <= 0 {
		rateLimit = defaultRateLimit
	}
	app.Use(limiter.New(limiter.Config{
		Max:        rateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 with a per-request timeout
	t := func(h fiber.Handler) fiber.Handler { return timeout.NewWithContext(h, requestTimeout) }
	v1 := app.Group("/v1")

	v1.Get("/cities", t(ListCitiesHandler(deps)))
	v1.Get("/cities/suggest", t(SuggestCitiesHandler(deps)))
	v1.Get("/dates/shortcuts", t(DateShortcutsHandler(deps)))

	v1.Post("/searches", t(CreateSearchHandler(deps)))
	v1.Get("/searches/tabs", t(SearchTabsHandler(deps)))
	v1.Get("/searches/:id", t(GetSearchHandler(deps)))

	v1.Post("/seatmaps", t(OpenSeatMapHandler(deps)))
	v1.Get("/seatmaps/:id", t(GetSeatMapHandler(deps)))
	v1.Post("/seatmaps/:id/toggle", t(ToggleSeatHandler(deps)))
	v1.Post("/seatmaps/:id/continue", t(ContinueSeatMapHandler(deps)))
	v1.Get("/bookings/:id", t(GetBookingHandler(deps)))

	v1.Post("/tracking", t(TrackHandler(deps)))
	v1.Get("/tracking/:id", t(GetTrackingHandler(deps)))
	v1.Delete("/tracking/:id", t(StopTrackingHandler(deps)))
	v1.Get("/tracking/:id/gtfs-rt", t(TrackingFeedHandler(deps)))

	v1.Get("/offers", t(ListOffersHandler(deps)))
	v1.Get("/offers/categories", t(OfferCategoriesHandler(deps)))
	v1.Post("/offers/:code/apply", t(ApplyOfferHandler(deps)))

	v1.Get("/faqs", t(FAQHandler(deps)))
	v1.Post("/support/chat", t(StartChatHandler(deps)))

	v1.Get("/payments/tabs", t(PaymentTabsHandler(deps)))
	v1.Post("/payments/format", t(FormatCardHandler(deps)))
	v1.Post("/payments", t(SubmitPaymentHandler(deps)))
	v1.Get("/payments/:id", t(GetPaymentHandler(deps)))

	v1.Get("/notifications", ListNotificationsHandler(deps))
	v1.Delete("/notifications/:id", DismissNotificationHandler(deps))

	// GraphQL
	app.Post("/graphql", t(GraphQLHandler(deps)))

	// API documentation (Swagger UI)
	SetupDocs(app, deps.SpecPath)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if deps.NATS == nil {
			return errUnavailable(c, "live updates unavailable, poll /v1/tracking/{id}")
		}
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}

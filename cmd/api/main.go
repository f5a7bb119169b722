package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/yatra/internal/adapters/http"
	"github.com/samirrijal/yatra/internal/adapters/memory"
	natsadapter "github.com/samirrijal/yatra/internal/adapters/nats"
	"github.com/samirrijal/yatra/internal/adapters/postgres"
	"github.com/samirrijal/yatra/internal/adapters/valkey"
	"github.com/samirrijal/yatra/internal/core/domain"
	"github.com/samirrijal/yatra/internal/core/notify"
	"github.com/samirrijal/yatra/internal/core/ports"
	"github.com/samirrijal/yatra/internal/core/tracking"
	"github.com/samirrijal/yatra/internal/core/usecases"
	"github.com/samirrijal/yatra/internal/pkg/clock"
	"github.com/samirrijal/yatra/internal/pkg/config"
	"github.com/samirrijal/yatra/internal/pkg/logging"
	"github.com/samirrijal/yatra/internal/pkg/metrics"
	"github.com/samirrijal/yatra/internal/pkg/telemetry"
	"github.com/samirrijal/yatra/internal/workflows"
)

func main() {
	cfg, err := config.Load("yatra-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	clk := clock.RealClock{}

	// Repositories: Postgres when enabled, otherwise in memory
	var (
		db       *postgres.DB
		cities   ports.CityRepository   = memory.NewCityRepo()
		offers   ports.OfferRepository  = memory.NewOfferRepo()
		faqs     ports.FAQRepository    = memory.NewFAQRepo()
		bookings ports.BookingRepository = memory.NewBookingRepo()
		payments ports.PaymentRepository = memory.NewPaymentRepo()
	)
	if cfg.Database.Enabled {
		db, err = postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		cities = postgres.NewCityRepo(db)
		offers = postgres.NewOfferRepo(db)
		faqs = postgres.NewFAQRepo(db)
		bookings = postgres.NewBookingRepo(db)
		payments = postgres.NewPaymentRepo(db)
		go poolMetrics(ctx, db)
	}

	// Cache: Valkey when enabled and reachable, otherwise in memory
	var (
		valkeyCache *valkey.Cache
		cache       ports.CacheService = memory.NewCache(clk)
	)
	if cfg.Valkey.Enabled {
		vc, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.Prefix)
		if err != nil {
			slog.Warn("valkey unavailable, using in-memory cache", "error", err)
		} else {
			defer vc.Close()
			valkeyCache, cache = vc, vc
		}
	}

	// Banners
	banners := notify.NewCenter(clk, cfg.Simulation.BannerTTL, cfg.Simulation.BannerCapacity,
		notify.WithPushHook(func(_ string, b domain.Banner) {
			metrics.BannersPushed.WithLabelValues(string(b.Level)).Inc()
		}))
	go banners.Run(ctx, time.Second)

	// NATS: publisher for snapshots and payment events, raw conn for the WebSocket relay
	var (
		publisher ports.EventPublisher
		natsConn  *nats.Conn
	)
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, events stay in process", "error", err)
		} else {
			defer pub.Close()
			publisher = pub
		}
		natsConn, err = natsadapter.RawConn(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats ws conn unavailable", "error", err)
			natsConn = nil
		} else {
			defer natsConn.Close()
		}
	}

	// Use cases
	searchSvc := usecases.NewSearchService(cache, banners, nil, clk, cfg.Simulation.SearchLatency)
	trackingSvc := usecases.NewTrackingService(publisher, banners,
		usecases.TrackingConfig{Latency: cfg.Simulation.TrackLatency, Start: cfg.Simulation.TrackingStart},
		tracking.WithInterval(cfg.Simulation.TrackingInterval),
		tracking.WithStep(cfg.Simulation.TrackingStep),
	)
	defer trackingSvc.Shutdown()
	paymentSvc := usecases.NewPaymentService(payments, bookings, nil, publisher, banners, clk)

	// Payment processing: Temporal workflow when enabled, otherwise in process
	if cfg.Temporal.Enabled {
		tc, err := client.Dial(client.Options{HostPort: cfg.Temporal.HostPort, Namespace: cfg.Temporal.Namespace})
		if err != nil {
			log.Fatalf("temporal client: %v", err)
		}
		defer tc.Close()
		paymentSvc.SetProcessor(workflows.NewProcessor(tc, cfg.Simulation.PaymentDelay))
	} else {
		inline := usecases.NewInlineProcessor(cfg.Simulation.PaymentDelay, paymentSvc)
		defer inline.Shutdown()
		paymentSvc.SetProcessor(inline)
	}

	// Payment events coming back from the broker push the success banner here
	if publisher != nil {
		sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats subscriber unavailable", "error", err)
		} else {
			defer sub.Close()
			if err := sub.SubscribePaymentEvents(ctx, paymentSvc.NotifyPaid); err != nil {
				slog.Warn("subscribe payment events", "error", err)
			}
		}
	}

	deps := &http.Dependencies{
		Cities:    usecases.NewCityService(cities, cache),
		Searches:  searchSvc,
		Seats:     usecases.NewSeatService(cache, bookings, searchSvc, banners, nil, clk),
		Tracking:  trackingSvc,
		Offers:    usecases.NewOfferService(offers, cache, banners),
		FAQs:      usecases.NewFAQService(faqs, cache, banners),
		Payments:  paymentSvc,
		Banners:   banners,
		RateLimit: cfg.Server.RateLimit,
		SpecPath:  http.DefaultSpecPath,
		NATS:      natsConn,
		DB:        db,
		Cache:     valkeyCache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Yatra API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, X-Client-ID",
		ExposeHeaders:    "Location, Link, ETag",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr,
			"database", cfg.Database.Enabled, "nats", publisher != nil,
			"valkey", valkeyCache != nil, "temporal", cfg.Temporal.Enabled)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// poolMetrics copies connection pool stats into the gauges until ctx ends.
func poolMetrics(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		metrics.UpdateDBPoolMetrics(db.Stat())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

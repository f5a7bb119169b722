package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/yatra/internal/adapters/nats"
	"github.com/samirrijal/yatra/internal/adapters/postgres"
	"github.com/samirrijal/yatra/internal/core/notify"
	"github.com/samirrijal/yatra/internal/core/ports"
	"github.com/samirrijal/yatra/internal/core/usecases"
	"github.com/samirrijal/yatra/internal/pkg/clock"
	"github.com/samirrijal/yatra/internal/pkg/config"
	"github.com/samirrijal/yatra/internal/pkg/logging"
	"github.com/samirrijal/yatra/internal/pkg/telemetry"
	"github.com/samirrijal/yatra/internal/workflows"
)

func main() {
	cfg, err := config.Load("yatra-payments")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if !cfg.Temporal.Enabled {
		log.Fatal("payments worker needs temporal.enabled=true")
	}

	ctx := context.Background()
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Completion events go through NATS so the API pushes the banner to the
	// right client. Without a broker the banner stays in this process.
	var publisher ports.EventPublisher
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, payment events not published", "error", err)
		} else {
			defer pub.Close()
			publisher = pub
		}
	}

	clk := clock.RealClock{}
	payments := usecases.NewPaymentService(
		postgres.NewPaymentRepo(db),
		postgres.NewBookingRepo(db),
		nil,
		publisher,
		notify.NewCenter(clk, cfg.Simulation.BannerTTL, cfg.Simulation.BannerCapacity),
		clk,
	)

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, workflows.TaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.PaymentWorkflow)
	w.RegisterActivity(&workflows.PaymentActivities{Payments: payments})

	slog.Info("payments worker started", "queue", workflows.TaskQueue, "nats", publisher != nil)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

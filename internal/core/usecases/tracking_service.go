package usecases

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/yatra/internal/core/domain"
	"github.com/samirrijal/yatra/internal/core/ports"
	"github.com/samirrijal/yatra/internal/core/tracking"
	"github.com/samirrijal/yatra/internal/pkg/metrics"
)

const (
	TrackByBooking = "booking"
	TrackByBus     = "bus"

	MsgEnterBookingID = "Please enter your booking ID"
	MsgEnterBusNumber = "Please enter the bus number"
	MsgSelectDate     = "Please select travel date"
	MsgTrackMethod    = "Please choose a tracking method"
)

// TrackRequest is a track-my-bus lookup.
type TrackRequest struct {
	Method    string `json:"method"`
	BookingID string `json:"booking_id"`
	BusNumber string `json:"bus_number"`
	Date      string `json:"date"`
}

// key identifies the bus being tracked; re-tracking the same key replaces the run.
func (r TrackRequest) key() string {
	if r.Method == TrackByBus {
		return "bus:" + strings.ToUpper(strings.TrimSpace(r.BusNumber))
	}
	return "booking:" + strings.TrimSpace(r.BookingID)
}

// TrackResult is a started tracking session and the map to draw it on.
type TrackResult struct {
	Session domain.TrackingSession `json:"session"`
	Map     domain.MapView         `json:"map"`
}

// TrackingConfig tunes the tracking simulation.
type TrackingConfig struct {
	Latency time.Duration
	Start   float64
}

// TrackingService starts bus tracking simulations and fans their snapshots out.
type TrackingService struct {
	tracker   *tracking.Tracker
	publisher ports.EventPublisher
	notifier  ports.NotificationService
	route     domain.TrackedRoute
	cfg       TrackingConfig
}

// NewTrackingService creates a TrackingService that owns its tracker.
// publisher and notifier may be nil.
func NewTrackingService(publisher ports.EventPublisher, notifier ports.NotificationService, cfg TrackingConfig, opts ...tracking.Option) *TrackingService {
	s := &TrackingService{
		publisher: publisher,
		notifier:  notifier,
		route:     tracking.DemoRoute(),
		cfg:       cfg,
	}
	opts = append(opts, tracking.WithObserver(s.observe))
	s.tracker = tracking.NewTracker(opts...)
	return s
}

// Track validates req and starts a simulation for it.
func (s *TrackingService) Track(ctx context.Context, clientID string, req TrackRequest) (*TrackResult, error) {
	ctx, span := tracer.Start(ctx, "TrackingService.Track")
	defer span.End()

	if req.Method == "" {
		req.Method = TrackByBooking
	}
	switch req.Method {
	case TrackByBooking:
		if strings.TrimSpace(req.BookingID) == "" {
			return nil, reject(s.notifier, clientID, MsgEnterBookingID)
		}
	case TrackByBus:
		if strings.TrimSpace(req.BusNumber) == "" {
			return nil, reject(s.notifier, clientID, MsgEnterBusNumber)
		}
	default:
		return nil, reject(s.notifier, clientID, MsgTrackMethod)
	}
	if strings.TrimSpace(req.Date) == "" {
		return nil, reject(s.notifier, clientID, MsgSelectDate)
	}

	if err := simulateLatency(ctx, s.cfg.Latency); err != nil {
		return nil, err
	}

	session, err := s.tracker.Start(req.key(), clientID, s.route, s.cfg.Start)
	if err != nil {
		return nil, err
	}
	metrics.TrackingSessionsActive.Set(float64(s.tracker.Active()))
	span.SetAttributes(attribute.String("tracking.session", session.ID), attribute.String("tracking.key", session.Key))

	return &TrackResult{Session: session, Map: tracking.BuildMapView(s.route, session)}, nil
}

// observe runs for every snapshot the tracker produces.
func (s *TrackingService) observe(ctx context.Context, snap domain.TrackingSession) {
	metrics.TrackingSnapshots.WithLabelValues(string(snap.Status)).Inc()

	if s.publisher != nil {
		if err := s.publisher.PublishTrackingSnapshot(ctx, &snap); err != nil {
			slog.Warn("publish tracking snapshot failed", "session", snap.ID, "error", err)
		}
	}
	if snap.Status != domain.TrackingInTransit {
		metrics.TrackingSessionsActive.Set(float64(s.tracker.Active()))
	}
	if snap.Status == domain.TrackingArrived {
		notify(s.notifier, snap.ClientID, domain.BannerInfo, tracking.LabelJourneyComplete)
	}
}

// Get returns the latest record of a session.
func (s *TrackingService) Get(_ context.Context, id string) (domain.TrackingSession, error) {
	return s.tracker.Get(id)
}

// Map returns the current map view of a session.
func (s *TrackingService) Map(_ context.Context, id string) (*domain.MapView, error) {
	session, err := s.tracker.Get(id)
	if err != nil {
		return nil, err
	}
	route, err := s.tracker.Route(id)
	if err != nil {
		return nil, err
	}
	view := tracking.BuildMapView(route, session)
	return &view, nil
}

// Route returns the route a session runs on.
func (s *TrackingService) Route(_ context.Context, id string) (domain.TrackedRoute, error) {
	return s.tracker.Route(id)
}

// Stop cancels a running session.
func (s *TrackingService) Stop(_ context.Context, id string) (domain.TrackingSession, error) {
	session, err := s.tracker.Stop(id)
	metrics.TrackingSessionsActive.Set(float64(s.tracker.Active()))
	return session, err
}

// Active returns the number of running simulations.
func (s *TrackingService) Active() int { return s.tracker.Active() }

// Shutdown stops every running simulation.
func (s *TrackingService) Shutdown() {
	s.tracker.Shutdown()
	metrics.TrackingSessionsActive.Set(0)
}

package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/yatra/internal/core/domain"
	"github.com/samirrijal/yatra/internal/core/tracking"
	"github.com/samirrijal/yatra/internal/core/usecases"
	"github.com/samirrijal/yatra/internal/pkg/clock"
)

func newTrackingService(t *testing.T, pub *mockPublisher, n *mockNotifier) (*usecases.TrackingService, *clock.MockClock) {
	t.Helper()
	clk := clock.NewMockClock(today)
	svc := usecases.NewTrackingService(publisherOf(pub), notifierOf(n), usecases.TrackingConfig{Start: tracking.DefaultStart}, tracking.WithClock(clk))
	t.Cleanup(svc.Shutdown)
	return svc, clk
}

func TestTrackingService_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  usecases.TrackRequest
		want string
	}{
		{"booking id missing", usecases.TrackRequest{Method: "booking", Date: "2026-10-19"}, usecases.MsgEnterBookingID},
		{"default method needs booking id", usecases.TrackRequest{BusNumber: "MH01", Date: "2026-10-19"}, usecases.MsgEnterBookingID},
		{"bus number missing", usecases.TrackRequest{Method: "bus", BookingID: "BK1", Date: "2026-10-19"}, usecases.MsgEnterBusNumber},
		{"date missing", usecases.TrackRequest{Method: "bus", BusNumber: "MH01AB1234"}, usecases.MsgSelectDate},
		{"unknown method", usecases.TrackRequest{Method: "pnr", Date: "2026-10-19"}, usecases.MsgTrackMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &mockNotifier{}
			svc, _ := newTrackingService(t, nil, n)
			_, err := svc.Track(context.Background(), "c", tt.req)
			v, ok := domain.AsValidation(err)
			if !ok || v.Message != tt.want {
				t.Fatalf("expected %q, got %v", tt.want, err)
			}
			if p, _ := n.last(); p.message != tt.want || p.level != domain.BannerError {
				t.Errorf("expected error banner %q, got %+v", tt.want, p)
			}
			if svc.Active() != 0 {
				t.Errorf("rejected request must not start a simulation")
			}
		})
	}
}

func TestTrackingService_TrackReturnsMap(t *testing.T) {
	pub := &mockPublisher{}
	svc, _ := newTrackingService(t, pub, nil)

	res, err := svc.Track(context.Background(), "c", usecases.TrackRequest{Method: "booking", BookingID: "BK1", Date: "2026-10-19"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Session.Progress != 0.65 || res.Session.Status != domain.TrackingInTransit {
		t.Errorf("unexpected session %+v", res.Session)
	}
	if res.Session.Key != "booking:BK1" {
		t.Errorf("unexpected key %q", res.Session.Key)
	}
	if res.Map.Zoom != 10 || res.Map.Polyline.Encoded == "" || len(res.Map.Markers) != 6 {
		t.Errorf("unexpected map view %+v", res.Map)
	}
	if pub.snapshotCount() != 1 {
		t.Errorf("expected the initial snapshot to be published, got %d", pub.snapshotCount())
	}

	view, err := svc.Map(context.Background(), res.Session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Markers[5].Location != res.Session.Position {
		t.Errorf("bus marker should sit at the session position")
	}
}

func TestTrackingService_ArrivalPushesBanner(t *testing.T) {
	pub := &mockPublisher{}
	n := &mockNotifier{}
	svc, clk := newTrackingService(t, pub, n)

	res, err := svc.Track(context.Background(), "client-7", usecases.TrackRequest{Method: "bus", BusNumber: "mh01ab1234", Date: "2026-10-19"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Session.Key != "bus:MH01AB1234" {
		t.Errorf("unexpected key %q", res.Session.Key)
	}

	for i := 0; i < 35; i++ {
		clk.Tick()
	}

	deadline := time.Now().Add(time.Second)
	for {
		if p, ok := n.last(); ok && p.message == tracking.LabelJourneyComplete {
			if p.clientID != "client-7" || p.level != domain.BannerInfo {
				t.Fatalf("unexpected banner %+v", p)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("arrival banner never pushed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	s, err := svc.Get(context.Background(), res.Session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != domain.TrackingArrived || s.Remaining != "Bus arrived" {
		t.Errorf("unexpected final session %+v", s)
	}
	if pub.snapshotCount() != 36 {
		t.Errorf("expected 36 snapshots, got %d", pub.snapshotCount())
	}
	if svc.Active() != 0 {
		t.Errorf("expected no active simulations after arrival")
	}
}

func TestTrackingService_RetrackAndStop(t *testing.T) {
	svc, _ := newTrackingService(t, nil, nil)
	req := usecases.TrackRequest{Method: "booking", BookingID: "BK9", Date: "2026-10-19"}

	first, err := svc.Track(context.Background(), "c", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Track(context.Background(), "c", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Active() != 1 {
		t.Fatalf("expected one active run, got %d", svc.Active())
	}

	old, _ := svc.Get(context.Background(), first.Session.ID)
	if old.Status != domain.TrackingStopped {
		t.Errorf("expected replaced run to be stopped, got %s", old.Status)
	}

	stopped, err := svc.Stop(context.Background(), second.Session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stopped.Status != domain.TrackingStopped || svc.Active() != 0 {
		t.Errorf("expected stop to end the run")
	}

	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/yatra/internal/core/domain"
	"github.com/samirrijal/yatra/internal/core/usecases"
	"github.com/samirrijal/yatra/internal/pkg/clock"
)

var today = time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC)

func newSearchService(cache *mockCache, n *mockNotifier) *usecases.SearchService {
	return usecases.NewSearchService(cache, notifierOf(n), usecases.SeededSource(11), clock.NewMockClock(today), 0)
}

func TestCityService_Suggest(t *testing.T) {
	repo := &mockCityRepo{
		listFn: func(ctx context.Context) ([]domain.City, error) {
			return []domain.City{{Name: "Mumbai"}, {Name: "Pune"}, {Name: "Thane"}, {Name: "Bhopal"}, {Name: "Patna"}}, nil
		},
	}
	svc := usecases.NewCityService(repo, newMockCache())

	got, err := svc.Suggest(context.Background(), "p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no suggestions for 1 char, got %v", got)
	}

	got, err = svc.Suggest(context.Background(), "PA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "Patna" {
		t.Fatalf("expected [Patna], got %v", got)
	}

	got, _ = svc.Suggest(context.Background(), "ne")
	if len(got) != 2 || got[0] != "Pune" || got[1] != "Thane" {
		t.Fatalf("expected [Pune Thane] in list order, got %v", got)
	}

	if repo.calls != 1 {
		t.Errorf("expected the city list to be cached after one load, repo called %d times", repo.calls)
	}
}

func TestSearchService_SameCityRejected(t *testing.T) {
	n := &mockNotifier{}
	cache := newMockCache()
	svc := newSearchService(cache, n)

	_, err := svc.Search(context.Background(), "c1", usecases.SearchRequest{From: "Mumbai", To: "mumbai ", Date: "2026-10-20"})
	v, ok := domain.AsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if v.Message != usecases.MsgSameCities {
		t.Errorf("unexpected message %q", v.Message)
	}

	p, ok := n.last()
	if !ok || p.level != domain.BannerError || p.message != usecases.MsgSameCities || p.clientID != "c1" {
		t.Errorf("expected error banner for c1, got %+v", p)
	}
	if len(cache.data) != 0 {
		t.Errorf("rejected search must not store results")
	}
}

func TestSearchService_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  usecases.SearchRequest
		want string
	}{
		{"missing from", usecases.SearchRequest{To: "Pune", Date: "2026-10-20"}, usecases.MsgFillAllFields},
		{"missing date", usecases.SearchRequest{From: "Mumbai", To: "Pune"}, usecases.MsgFillAllFields},
		{"bad date", usecases.SearchRequest{From: "Mumbai", To: "Pune", Date: "20/10/2026"}, usecases.MsgInvalidDate},
		{"past date", usecases.SearchRequest{From: "Mumbai", To: "Pune", Date: "2026-10-18"}, usecases.MsgPastDate},
		{"bad bus type", usecases.SearchRequest{From: "Mumbai", To: "Pune", Date: "2026-10-20", BusType: "boat"}, usecases.MsgInvalidBusType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &mockNotifier{}
			svc := newSearchService(newMockCache(), n)
			_, err := svc.Search(context.Background(), "c", tt.req)
			v, ok := domain.AsValidation(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if v.Message != tt.want {
				t.Errorf("expected %q, got %q", tt.want, v.Message)
			}
			if len(n.all()) != 1 {
				t.Errorf("expected exactly one banner, got %d", len(n.all()))
			}
		})
	}
}

func TestSearchService_SearchAndGet(t *testing.T) {
	cache := newMockCache()
	svc := newSearchService(cache, &mockNotifier{})

	// today is accepted
	s, err := svc.Search(context.Background(), "c", usecases.SearchRequest{From: "Mumbai", To: "Pune", Date: "2026-10-19"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Results) < 4 || len(s.Results) > 6 {
		t.Fatalf("expected 4-6 results, got %d", len(s.Results))
	}
	if s.Results[0].Date != "Monday, October 19" {
		t.Errorf("unexpected formatted date %q", s.Results[0].Date)
	}
	if !s.CreatedAt.Equal(today) {
		t.Errorf("expected created_at from clock, got %v", s.CreatedAt)
	}

	got, err := svc.Get(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Results) != len(s.Results) || got.Results[0].ID != s.Results[0].ID {
		t.Errorf("stored search differs from returned one")
	}

	_, err = svc.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchService_FilterEmptyMessage(t *testing.T) {
	svc := newSearchService(newMockCache(), &mockNotifier{})

	// try seeds until a filter leaves nothing; with four classes and at most six
	// results a volvo-only filter comes up empty quickly
	for i := 0; i < 50; i++ {
		s, err := svc.Search(context.Background(), "c", usecases.SearchRequest{From: "A", To: "B", Date: "2026-10-20", BusType: "volvo"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, it := range s.Results {
			if it.BusType != "Volvo Multi-Axle" {
				t.Fatalf("filter leaked %q", it.BusType)
			}
		}
		if len(s.Results) == 0 {
			if s.Message != usecases.MsgNoBuses {
				t.Fatalf("expected %q, got %q", usecases.MsgNoBuses, s.Message)
			}
			return
		}
		if s.Message != "" {
			t.Fatalf("unexpected message %q with results", s.Message)
		}
	}
	t.Fatal("no empty result in 50 searches")
}

func TestSearchService_LatencyHonoursContext(t *testing.T) {
	svc := usecases.NewSearchService(newMockCache(), nil, nil, clock.NewMockClock(today), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Search(ctx, "c", usecases.SearchRequest{From: "A", To: "B", Date: "2026-10-20"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSearchService_Tabs(t *testing.T) {
	svc := newSearchService(newMockCache(), nil)

	tabs, err := svc.Tabs("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tabs) != 3 || !tabs[0].Active || tabs[0].ID != usecases.SearchTabBuses {
		t.Fatalf("expected buses active by default, got %+v", tabs)
	}

	tabs, _ = svc.Tabs(usecases.SearchTabPackages)
	for _, tab := range tabs {
		if tab.Active != (tab.ID == usecases.SearchTabPackages) {
			t.Errorf("tab %s: unexpected active=%v", tab.ID, tab.Active)
		}
	}

	if _, err := svc.Tabs("flights"); err == nil {
		t.Error("expected error for unknown tab")
	}
}

func TestSearchService_DateShortcuts(t *testing.T) {
	svc := newSearchService(newMockCache(), nil)

	chips, err := svc.DateShortcuts(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chips) != 3 {
		t.Fatalf("expected 3 chips, got %d", len(chips))
	}
	if chips[0].Label != "Today" || chips[0].Date != "2026-10-19" || !chips[0].Active {
		t.Errorf("unexpected first chip %+v", chips[0])
	}
	if chips[1].Label != "Tomorrow" || chips[1].Date != "2026-10-20" || chips[1].Active {
		t.Errorf("unexpected second chip %+v", chips[1])
	}
	if chips[2].Date != "2026-10-21" || chips[2].Label != "Wed, 21 Oct" {
		t.Errorf("unexpected third chip %+v", chips[2])
	}

	chips, _ = svc.DateShortcuts(2)
	active := 0
	for _, c := range chips {
		if c.Active {
			active++
		}
	}
	if active != 1 || !chips[2].Active {
		t.Errorf("expected only the third chip active, got %+v", chips)
	}

	if _, err := svc.DateShortcuts(5); err == nil {
		t.Error("expected error for unknown chip")
	}
}

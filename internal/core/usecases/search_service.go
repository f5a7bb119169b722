package usecases

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/yatra/internal/core/domain"
	"github.com/samirrijal/yatra/internal/core/itinerary"
	"github.com/samirrijal/yatra/internal/core/ports"
	"github.com/samirrijal/yatra/internal/core/selection"
	"github.com/samirrijal/yatra/internal/pkg/clock"
	"github.com/samirrijal/yatra/internal/pkg/metrics"
)

const (
	MsgFillAllFields  = "Please fill in all fields"
	MsgSameCities     = "Departure and arrival cities cannot be the same"
	MsgInvalidDate    = "Please select a valid travel date"
	MsgPastDate       = "Travel date cannot be in the past"
	MsgInvalidBusType = "Please choose a valid bus type"
	MsgNoBuses        = "No buses found for your search"

	dateLayout = "2006-01-02"
)

// Search category tabs on the home page.
const (
	SearchTabBuses    = "buses"
	SearchTabBusHire  = "bus_hire"
	SearchTabPackages = "tour_packages"
)

var (
	searchTabs      = []string{SearchTabBuses, SearchTabBusHire, SearchTabPackages}
	searchTabLabels = map[string]string{
		SearchTabBuses:    "Bus Tickets",
		SearchTabBusHire:  "Bus Hire",
		SearchTabPackages: "Tour Packages",
	}
)

// SearchTab is one search category tab.
type SearchTab struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// SearchRequest is a bus search submitted from the home page.
type SearchRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Date    string `json:"date"`
	BusType string `json:"bus_type,omitempty"`
}

// SearchService runs mock searches and keeps their results for later lookup.
type SearchService struct {
	cache    ports.CacheService
	notifier ports.NotificationService
	rand     RandSource
	clock    clock.Clock
	latency  time.Duration
}

// NewSearchService creates a new SearchService. latency is the simulated
// backend delay before results are produced.
func NewSearchService(cache ports.CacheService, notifier ports.NotificationService, rand RandSource, clk clock.Clock, latency time.Duration) *SearchService {
	if rand == nil {
		rand = NewRandSource()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &SearchService{cache: cache, notifier: notifier, rand: rand, clock: clk, latency: latency}
}

// Search validates req, generates itineraries and stores them under a new id.
func (s *SearchService) Search(ctx context.Context, clientID string, req SearchRequest) (*domain.Search, error) {
	ctx, span := tracer.Start(ctx, "SearchService.Search", trace.WithAttributes(attribute.String("client.id", clientID)))
	defer span.End()

	from := strings.TrimSpace(req.From)
	to := strings.TrimSpace(req.To)
	date := strings.TrimSpace(req.Date)
	span.SetAttributes(attribute.String("search.from", from), attribute.String("search.to", to))

	if from == "" || to == "" || date == "" {
		metrics.SearchesTotal.WithLabelValues("rejected").Inc()
		return nil, reject(s.notifier, clientID, MsgFillAllFields)
	}
	if strings.EqualFold(from, to) {
		metrics.SearchesTotal.WithLabelValues("rejected").Inc()
		return nil, reject(s.notifier, clientID, MsgSameCities)
	}
	if err := s.checkDate(date); err != nil {
		metrics.SearchesTotal.WithLabelValues("rejected").Inc()
		return nil, reject(s.notifier, clientID, err.Error())
	}
	if req.BusType != "" && !slices.Contains(itinerary.FilterKinds, req.BusType) {
		metrics.SearchesTotal.WithLabelValues("rejected").Inc()
		return nil, reject(s.notifier, clientID, MsgInvalidBusType)
	}

	if err := simulateLatency(ctx, s.latency); err != nil {
		return nil, err
	}

	results := itinerary.Generate(s.rand(), from, to, date)
	results, err := itinerary.Filter(results, req.BusType)
	if err != nil {
		return nil, fmt.Errorf("filter results: %w", err)
	}

	search := &domain.Search{
		ID:        uuid.NewString(),
		From:      from,
		To:        to,
		Date:      date,
		BusType:   req.BusType,
		Results:   results,
		CreatedAt: s.clock.Now(),
	}
	if len(results) == 0 {
		search.Message = MsgNoBuses
	}

	if err := cacheSet(ctx, s.cache, searchKey(search.ID), search, searchTTL); err != nil {
		return nil, fmt.Errorf("store search: %w", err)
	}

	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	metrics.SearchResults.Observe(float64(len(results)))
	span.SetAttributes(attribute.Int("search.results", len(results)))
	return search, nil
}

func (s *SearchService) checkDate(date string) error {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return domain.Invalid(MsgInvalidDate)
	}
	now := s.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.Before(today) {
		return domain.Invalid(MsgPastDate)
	}
	return nil
}

// Get returns a stored search.
func (s *SearchService) Get(ctx context.Context, id string) (*domain.Search, error) {
	var search domain.Search
	if !cacheGet(ctx, s.cache, "search", searchKey(id), &search) {
		return nil, fmt.Errorf("search %s: %w", id, domain.ErrNotFound)
	}
	return &search, nil
}

func searchKey(id string) string { return "search:" + id }

// Tabs returns the search category tabs with active marked ("buses" by default).
func (s *SearchService) Tabs(active string) ([]SearchTab, error) {
	if active == "" {
		active = SearchTabBuses
	}
	g, err := selection.NewGroupWithActive(active, searchTabs...)
	if err != nil {
		return nil, domain.Invalid("Please choose a valid search category")
	}
	out := make([]SearchTab, 0, len(searchTabs))
	for _, id := range g.IDs() {
		out = append(out, SearchTab{ID: id, Label: searchTabLabels[id], Active: g.IsActive(id)})
	}
	return out, nil
}

// DateShortcuts returns the Today, Tomorrow and day-after chips with exactly
// one of them active.
func (s *SearchService) DateShortcuts(active int) ([]domain.DateShortcut, error) {
	const n = 3
	ids := make([]string, n)
	for i := range ids {
		ids[i] = strconv.Itoa(i)
	}
	group, err := selection.NewGroupWithActive(strconv.Itoa(active), ids...)
	if err != nil {
		return nil, domain.Invalid("Please choose a valid date shortcut")
	}

	now := s.clock.Now()
	out := make([]domain.DateShortcut, 0, n)
	for i, id := range group.IDs() {
		d := now.AddDate(0, 0, i)
		label := d.Format("Mon, 2 Jan")
		switch i {
		case 0:
			label = "Today"
		case 1:
			label = "Tomorrow"
		}
		out = append(out, domain.DateShortcut{
			Days:   i,
			Label:  label,
			Date:   d.Format(dateLayout),
			Active: group.IsActive(id),
		})
	}
	return out, nil
}

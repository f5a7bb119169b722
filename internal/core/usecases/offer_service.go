package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/samirrijal/yatra/internal/core/domain"
	"github.com/samirrijal/yatra/internal/core/ports"
	"github.com/samirrijal/yatra/internal/core/selection"
)

const (
	CategoryAll = "all"

	MsgUnknownCategory = "Please choose a valid offer category"
	msgOfferAppliedF   = "Offer %q applied! Use code %s at checkout."
)

// CategoryTab is one filter tab on the offers page.
type CategoryTab struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
}

// OfferService lists and applies promotional offers.
type OfferService struct {
	offers   ports.OfferRepository
	cache    ports.CacheService
	notifier ports.NotificationService
}

// NewOfferService creates a new OfferService.
func NewOfferService(offers ports.OfferRepository, cache ports.CacheService, notifier ports.NotificationService) *OfferService {
	return &OfferService{offers: offers, cache: cache, notifier: notifier}
}

func (s *OfferService) all(ctx context.Context) ([]domain.Offer, error) {
	const key = "offers:all"
	var offers []domain.Offer
	if cacheGet(ctx, s.cache, "offers", key, &offers) {
		return offers, nil
	}
	offers, err := s.offers.List(ctx)
	if err != nil {
		return nil, err
	}
	_ = cacheSet(ctx, s.cache, key, offers, catalogTTL)
	return offers, nil
}

// categories builds the tab group: "all" followed by every category in the
// order it first appears in the catalog.
func categories(offers []domain.Offer) *selection.Group {
	ids := []string{CategoryAll}
	seen := map[string]bool{CategoryAll: true}
	for _, o := range offers {
		for _, c := range o.Categories {
			if !seen[c] {
				seen[c] = true
				ids = append(ids, c)
			}
		}
	}
	return selection.NewGroup(ids...)
}

// Categories returns the filter tabs with active marked.
func (s *OfferService) Categories(ctx context.Context, active string) ([]CategoryTab, error) {
	offers, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	if active == "" {
		active = CategoryAll
	}
	g := categories(offers)
	if err := g.Select(active); err != nil {
		return nil, domain.Invalid(MsgUnknownCategory)
	}
	tabs := make([]CategoryTab, 0, len(g.IDs()))
	for _, id := range g.IDs() {
		tabs = append(tabs, CategoryTab{ID: id, Active: g.IsActive(id)})
	}
	return tabs, nil
}

// List returns the offers shown under category ("all" or empty for every offer).
func (s *OfferService) List(ctx context.Context, category string) ([]domain.Offer, error) {
	offers, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	category = strings.TrimSpace(category)
	if category == "" || category == CategoryAll {
		return offers, nil
	}
	if !categories(offers).Has(category) {
		return nil, domain.Invalid(MsgUnknownCategory)
	}
	out := make([]domain.Offer, 0, len(offers))
	for _, o := range offers {
		if o.HasCategory(category) {
			out = append(out, o)
		}
	}
	return out, nil
}

// Apply confirms an offer code for the client.
func (s *OfferService) Apply(ctx context.Context, clientID, code string) (*domain.Offer, error) {
	offer, err := s.offers.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	notify(s.notifier, clientID, domain.BannerSuccess, fmt.Sprintf(msgOfferAppliedF, offer.Title, offer.Code))
	return offer, nil
}

package usecases

import (
	"context"
	"fmt"

	"github.com/samirrijal/yatra/internal/core/domain"
	"github.com/samirrijal/yatra/internal/core/ports"
	"github.com/samirrijal/yatra/internal/core/selection"
)

const MsgChatUnavailable = "Chat support would open in a full implementation"

// FAQItem is an accordion panel.
type FAQItem struct {
	domain.FAQ
	Active bool `json:"active"`
}

// FAQService serves the support page accordion and chat button.
type FAQService struct {
	faqs     ports.FAQRepository
	cache    ports.CacheService
	notifier ports.NotificationService
}

// NewFAQService creates a new FAQService.
func NewFAQService(faqs ports.FAQRepository, cache ports.CacheService, notifier ports.NotificationService) *FAQService {
	return &FAQService{faqs: faqs, cache: cache, notifier: notifier}
}

// Accordion returns every question with at most one panel open. open marks
// the currently open panel; toggle is then clicked on top of it, which opens
// another panel or closes toggle if it was the open one.
func (s *FAQService) Accordion(ctx context.Context, open, toggle string) ([]FAQItem, error) {
	const key = "faqs:all"
	var faqs []domain.FAQ
	if !cacheGet(ctx, s.cache, "faqs", key, &faqs) {
		var err error
		faqs, err = s.faqs.List(ctx)
		if err != nil {
			return nil, err
		}
		_ = cacheSet(ctx, s.cache, key, faqs, catalogTTL)
	}

	ids := make([]string, len(faqs))
	for i, f := range faqs {
		ids[i] = f.ID
	}
	g := selection.NewGroup(ids...)
	if open != "" {
		if err := g.Select(open); err != nil {
			return nil, fmt.Errorf("faq %s: %w", open, domain.ErrNotFound)
		}
	}
	if toggle != "" {
		if _, err := g.Toggle(toggle); err != nil {
			return nil, fmt.Errorf("faq %s: %w", toggle, domain.ErrNotFound)
		}
	}

	items := make([]FAQItem, len(faqs))
	for i, f := range faqs {
		items[i] = FAQItem{FAQ: f, Active: g.IsActive(f.ID)}
	}
	return items, nil
}

// StartChat acknowledges the chat button.
func (s *FAQService) StartChat(clientID string) domain.Banner {
	if s.notifier == nil {
		return domain.Banner{Level: domain.BannerInfo, Message: MsgChatUnavailable}
	}
	return s.notifier.Push(clientID, domain.BannerInfo, MsgChatUnavailable)
}

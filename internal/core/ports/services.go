package ports

import (
	"context"

	"github.com/samirrijal/yatra/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishTrackingSnapshot(ctx context.Context, session *domain.TrackingSession) error
	PublishPaymentEvent(ctx context.Context, payment *domain.Payment) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribePaymentEvents(ctx context.Context, handler func(ctx context.Context, payment *domain.Payment) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// NotificationService pushes transient banners to a client.
type NotificationService interface {
	Push(clientID string, level domain.BannerLevel, message string) domain.Banner
}

// PaymentProcessor starts the asynchronous processing of a submitted payment.
type PaymentProcessor interface {
	Process(ctx context.Context, payment *domain.Payment) error
}

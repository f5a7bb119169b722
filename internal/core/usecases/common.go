package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/samirrijal/yatra/internal/core/domain"
	"github.com/samirrijal/yatra/internal/core/ports"
	"github.com/samirrijal/yatra/internal/pkg/metrics"
)

var tracer = otel.Tracer("github.com/samirrijal/yatra/internal/core/usecases")

// Cache lifetimes in seconds.
const (
	searchTTL  = 15 * 60
	seatMapTTL = 15 * 60
	catalogTTL = 10 * 60
)

// RandSource hands out the random generator for one operation.
type RandSource func() *rand.Rand

// NewRandSource returns a source that seeds a fresh generator per call.
func NewRandSource() RandSource {
	return func() *rand.Rand {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
}

// SeededSource returns one deterministic generator on every call.
// The generator is not safe for concurrent use; it suits the CLI and tests.
func SeededSource(seed uint64) RandSource {
	r := rand.New(rand.NewPCG(seed, seed))
	return func() *rand.Rand { return r }
}

// reject pushes msg as an error banner for the client and returns it as a
// validation error.
func reject(n ports.NotificationService, clientID, msg string) error {
	if n != nil {
		n.Push(clientID, domain.BannerError, msg)
	}
	return domain.Invalid(msg)
}

func notify(n ports.NotificationService, clientID string, level domain.BannerLevel, msg string) {
	if n != nil {
		n.Push(clientID, level, msg)
	}
}

// simulateLatency waits d or until ctx is done.
func simulateLatency(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func cacheGet(ctx context.Context, cache ports.CacheService, op, key string, v any) bool {
	if cache == nil {
		return false
	}
	data, err := cache.Get(ctx, key)
	if err != nil {
		metrics.CacheMisses.WithLabelValues(op).Inc()
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		metrics.CacheMisses.WithLabelValues(op).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(op).Inc()
	return true
}

func cacheSet(ctx context.Context, cache ports.CacheService, key string, v any, ttlSeconds int) error {
	if cache == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := cache.Set(ctx, key, data, ttlSeconds); err != nil {
		return fmt.Errorf("cache %s: %w", key, err)
	}
	return nil
}

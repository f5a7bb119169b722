package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/samirrijal/yatra/internal/pkg/clock"
)

// ErrCacheMiss is returned by Cache.Get for absent or expired keys.
var ErrCacheMiss = errors.New("cache miss")

type entry struct {
	value   []byte
	expires time.Time
}

// Cache implements ports.CacheService with per-key expiry. Expired entries
// are dropped lazily on access.
type Cache struct {
	mu    sync.Mutex
	clock clock.Clock
	data  map[string]entry
}

// NewCache creates an empty Cache. clk may be nil.
func NewCache(clk clock.Clock) *Cache {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Cache{clock: clk, data: make(map[string]entry)}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if !e.expires.IsZero() && !c.clock.Now().Before(e.expires) {
		delete(c.data, key)
		return nil, ErrCacheMiss
	}
	return append([]byte(nil), e.value...), nil
}

// Set stores value. A ttlSeconds of zero or less keeps the key until deleted.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	e := entry{value: append([]byte(nil), value...)}
	if ttlSeconds > 0 {
		e.expires = c.clock.Now().Add(time.Duration(ttlSeconds) * time.Second)
	}
	c.mu.Lock()
	c.data[key] = e
	c.mu.Unlock()
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored keys, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

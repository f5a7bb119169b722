// Package notify keeps the transient banners shown to each client.
package notify

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/yatra/internal/core/domain"
	"github.com/samirrijal/yatra/internal/pkg/clock"
)

const (
	DefaultTTL      = 5 * time.Second
	DefaultCapacity = 8
)

// Queue is a bounded FIFO of banners for one client. Banners expire after
// the TTL; when full, the oldest banner is evicted to make room.
type Queue struct {
	clock    clock.Clock
	ttl      time.Duration
	capacity int

	mu    sync.Mutex
	items []domain.Banner
}

// NewQueue creates a queue. Non-positive ttl or capacity fall back to the defaults.
func NewQueue(c clock.Clock, ttl time.Duration, capacity int) *Queue {
	if c == nil {
		c = clock.RealClock{}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{clock: c, ttl: ttl, capacity: capacity}
}

// Push appends a banner and returns it.
func (q *Queue) Push(level domain.BannerLevel, message string) domain.Banner {
	now := q.clock.Now()
	b := domain.Banner{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(q.ttl),
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.expire(now)
	q.items = append(q.items, b)
	if over := len(q.items) - q.capacity; over > 0 {
		q.items = slices.Delete(q.items, 0, over)
	}
	return b
}

// Active returns the unexpired banners, oldest first.
func (q *Queue) Active() []domain.Banner {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.expire(q.clock.Now())
	return slices.Clone(q.items)
}

// Dismiss removes a banner by id and reports whether it was present.
func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	i := slices.IndexFunc(q.items, func(b domain.Banner) bool { return b.ID == id })
	if i < 0 {
		return false
	}
	q.items = slices.Delete(q.items, i, i+1)
	return true
}

// Len returns the number of unexpired banners.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.expire(q.clock.Now())
	return len(q.items)
}

func (q *Queue) expire(now time.Time) {
	q.items = slices.DeleteFunc(q.items, func(b domain.Banner) bool {
		return !now.Before(b.ExpiresAt)
	})
}

// Center holds one Queue per client.
type Center struct {
	clock    clock.Clock
	ttl      time.Duration
	capacity int
	onPush   func(clientID string, b domain.Banner)

	mu     sync.Mutex
	queues map[string]*Queue
}

// CenterOption configures a Center.
type CenterOption func(*Center)

// WithPushHook registers fn to run after every push.
func WithPushHook(fn func(clientID string, b domain.Banner)) CenterOption {
	return func(c *Center) { c.onPush = fn }
}

// NewCenter creates a Center whose queues share ttl and capacity.
func NewCenter(c clock.Clock, ttl time.Duration, capacity int, opts ...CenterOption) *Center {
	if c == nil {
		c = clock.RealClock{}
	}
	center := &Center{
		clock:    c,
		ttl:      ttl,
		capacity: capacity,
		queues:   make(map[string]*Queue),
	}
	for _, o := range opts {
		o(center)
	}
	return center
}

// Push adds a banner to the client's queue. The queue lookup and the append
// happen under c.mu so Sweep cannot drop the queue in between.
func (c *Center) Push(clientID string, level domain.BannerLevel, message string) domain.Banner {
	c.mu.Lock()
	q, ok := c.queues[clientID]
	if !ok {
		q = NewQueue(c.clock, c.ttl, c.capacity)
		c.queues[clientID] = q
	}
	b := q.Push(level, message)
	c.mu.Unlock()

	if c.onPush != nil {
		c.onPush(clientID, b)
	}
	return b
}

// Active returns the client's unexpired banners.
func (c *Center) Active(clientID string) []domain.Banner {
	c.mu.Lock()
	q, ok := c.queues[clientID]
	c.mu.Unlock()
	if !ok {
		return []domain.Banner{}
	}
	return q.Active()
}

// Dismiss removes one of the client's banners.
func (c *Center) Dismiss(clientID, id string) bool {
	c.mu.Lock()
	q, ok := c.queues[clientID]
	c.mu.Unlock()
	return ok && q.Dismiss(id)
}

// Sweep drops the queues that have no live banners and returns how many remain.
func (c *Center) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, q := range c.queues {
		if q.Len() == 0 {
			delete(c.queues, id)
		}
	}
	return len(c.queues)
}

// Run sweeps on every tick of interval until ctx is done.
func (c *Center) Run(ctx context.Context, interval time.Duration) {
	t := c.clock.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			c.Sweep()
		}
	}
}

package tracking

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"github.com/samirrijal/yatra/internal/core/domain"
	"github.com/samirrijal/yatra/internal/pkg/clock"
)

// Observer receives every snapshot a tracking run produces, including the
// initial record, the arrival record and the stopped record.
type Observer func(ctx context.Context, s domain.TrackingSession)

// Tracker runs tracking simulations. It owns at most one running session per
// tracking key; starting the same key again cancels the previous ticker first.
type Tracker struct {
	clock     clock.Clock
	interval  time.Duration
	step      float64
	retention time.Duration
	observer  Observer

	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup

	startMu sync.Mutex
	mu      sync.Mutex
	runs    map[string]*run // by key
	latest  map[string]domain.TrackingSession
	routes  map[string]domain.TrackedRoute // by session id
}

type run struct {
	id     string
	key    string
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the clock that drives the tickers.
func WithClock(c clock.Clock) Option { return func(t *Tracker) { t.clock = c } }

// WithInterval sets the time between progress steps.
func WithInterval(d time.Duration) Option { return func(t *Tracker) { t.interval = d } }

// WithStep sets how much progress each tick adds.
func WithStep(step float64) Option { return func(t *Tracker) { t.step = step } }

// WithObserver registers o to receive every snapshot.
func WithObserver(o Observer) Option { return func(t *Tracker) { t.observer = o } }

// WithRetention sets how long finished sessions stay readable.
func WithRetention(d time.Duration) Option { return func(t *Tracker) { t.retention = d } }

// NewTracker creates a tracker. Defaults: real clock, 3s interval, 0.01 step,
// finished sessions kept for 15 minutes.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		clock:     clock.RealClock{},
		interval:  DefaultInterval,
		step:      DefaultStep,
		retention: 15 * time.Minute,
		runs:      make(map[string]*run),
		latest:    make(map[string]domain.TrackingSession),
		routes:    make(map[string]domain.TrackedRoute),
	}
	for _, o := range opts {
		o(t)
	}
	t.ctx, t.cancel = context.WithCancel(context.Background())
	return t
}

// Start begins a tracking run for key on route at progress start and returns
// the initial record. Any run already active for key is stopped first.
func (t *Tracker) Start(key, clientID string, route domain.TrackedRoute, start float64) (domain.TrackingSession, error) {
	if err := t.ctx.Err(); err != nil {
		return domain.TrackingSession{}, fmt.Errorf("tracker shut down: %w", err)
	}

	t.startMu.Lock()
	defer t.startMu.Unlock()

	now := t.clock.Now()
	s, err := NewSession(uuid.NewString(), key, clientID, route, start, now)
	if err != nil {
		return domain.TrackingSession{}, err
	}

	t.mu.Lock()
	old := t.runs[key]
	delete(t.runs, key)
	t.mu.Unlock()
	if old != nil {
		old.cancel()
		<-old.done
		slog.Debug("tracking run replaced", "key", key, "old", old.id, "new", s.ID)
	}

	t.mu.Lock()
	t.prune(now)
	t.latest[s.ID] = s
	t.routes[s.ID] = route
	var r *run
	if s.Status == domain.TrackingInTransit {
		ctx, cancel := context.WithCancel(t.ctx)
		r = &run{id: s.ID, key: key, cancel: cancel, done: make(chan struct{})}
		t.runs[key] = r
		ticker := t.clock.NewTicker(t.interval)
		t.wg.Go(func() { t.loop(ctx, r, ticker, route, s) })
	}
	t.mu.Unlock()

	t.emit(t.ctx, s)
	return s, nil
}

func (t *Tracker) loop(ctx context.Context, r *run, ticker clock.Ticker, route domain.TrackedRoute, cur domain.TrackingSession) {
	defer close(r.done)

	for {
		select {
		case <-ctx.Done():
			ticker.Stop()
			cur.Status = domain.TrackingStopped
			cur.UpdatedAt = t.clock.Now()
			t.store(cur)
			t.emit(context.WithoutCancel(ctx), cur)
			return

		case now := <-ticker.C():
			next, err := Advance(route, cur, t.step, now)
			if err != nil {
				ticker.Stop()
				slog.Error("tracking advance failed", "session", cur.ID, "error", err)
				t.release(r)
				return
			}
			cur = next
			if cur.Status == domain.TrackingArrived {
				ticker.Stop()
				t.store(cur)
				t.release(r)
				t.emit(ctx, cur)
				return
			}
			t.store(cur)
			t.emit(ctx, cur)
		}
	}
}

func (t *Tracker) emit(ctx context.Context, s domain.TrackingSession) {
	if t.observer != nil {
		t.observer(ctx, s)
	}
}

func (t *Tracker) store(s domain.TrackingSession) {
	t.mu.Lock()
	t.latest[s.ID] = s
	t.mu.Unlock()
}

// release drops r from the running set if it is still the owner of its key.
func (t *Tracker) release(r *run) {
	t.mu.Lock()
	if t.runs[r.key] == r {
		delete(t.runs, r.key)
	}
	t.mu.Unlock()
}

// prune forgets finished sessions older than the retention window. Caller holds mu.
func (t *Tracker) prune(now time.Time) {
	running := make(map[string]bool, len(t.runs))
	for _, r := range t.runs {
		running[r.id] = true
	}
	for id, s := range t.latest {
		if !running[id] && now.Sub(s.UpdatedAt) > t.retention {
			delete(t.latest, id)
			delete(t.routes, id)
		}
	}
}

// Get returns the latest record of a session.
func (t *Tracker) Get(id string) (domain.TrackingSession, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.latest[id]
	if !ok {
		return domain.TrackingSession{}, fmt.Errorf("tracking session %s: %w", id, domain.ErrNotFound)
	}
	return s, nil
}

// Route returns the route a session runs on.
func (t *Tracker) Route(id string) (domain.TrackedRoute, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.routes[id]
	if !ok {
		return domain.TrackedRoute{}, fmt.Errorf("tracking session %s: %w", id, domain.ErrNotFound)
	}
	return r, nil
}

// Stop cancels a running session and returns its final record.
// Stopping a finished session returns it unchanged.
func (t *Tracker) Stop(id string) (domain.TrackingSession, error) {
	t.mu.Lock()
	var target *run
	for key, r := range t.runs {
		if r.id == id {
			target = r
			delete(t.runs, key)
			break
		}
	}
	t.mu.Unlock()

	if target != nil {
		target.cancel()
		<-target.done
	}
	return t.Get(id)
}

// Active returns the number of running sessions.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.runs)
}

// Shutdown stops every running session and waits for their goroutines.
func (t *Tracker) Shutdown() {
	t.cancel()
	t.wg.Wait()
	t.mu.Lock()
	clear(t.runs)
	t.mu.Unlock()
}

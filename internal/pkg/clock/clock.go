// Package clock provides time abstraction for testing and production use.
// Simulations tick through a Clock so tests can fire ticks by hand.
package clock

import (
	"sync"
	"time"
)

// Clock provides an abstraction for time operations.
// Use RealClock in production and MockClock in tests.
type Clock interface {
	// Now returns the current time
	Now() time.Time
	// NewTicker returns a ticker firing every d
	NewTicker(d time.Duration) Ticker
}

// Ticker is the subset of *time.Ticker the simulations use.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// RealClock implements Clock using actual system time.
type RealClock struct{}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// NewTicker wraps time.NewTicker.
func (RealClock) NewTicker(d time.Duration) Ticker {
	return realTicker{time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// MockClock implements Clock and provides a controllable, thread-safe time for tests.
// Tickers created from it only fire when Tick is called.
type MockClock struct {
	mu          sync.Mutex
	currentTime time.Time
	tickers     []*MockTicker
	created     []*MockTicker
}

// NewMockClock creates a new MockClock set to the specified time.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{currentTime: t}
}

// Now returns the mock clock's current time.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime
}

// Set changes the mock clock's current time.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// Advance moves the mock clock by the specified duration.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}

// NewTicker registers a manual ticker.
func (m *MockClock) NewTicker(d time.Duration) Ticker {
	t := &MockTicker{c: make(chan time.Time), done: make(chan struct{}), period: d}
	m.mu.Lock()
	m.tickers = append(m.tickers, t)
	m.created = append(m.created, t)
	m.mu.Unlock()
	return t
}

// Tick advances the clock by the oldest live ticker's period and delivers one tick
// to every ticker that has not been stopped. It blocks until each receiver
// has taken its tick.
func (m *MockClock) Tick() {
	m.mu.Lock()
	live := make([]*MockTicker, 0, len(m.tickers))
	for _, t := range m.tickers {
		if !t.Stopped() {
			live = append(live, t)
		}
	}
	m.tickers = live
	var period time.Duration
	if len(live) > 0 {
		period = live[0].period
	}
	m.currentTime = m.currentTime.Add(period)
	now := m.currentTime
	m.mu.Unlock()

	for _, t := range live {
		select {
		case t.c <- now:
		case <-t.done:
		}
	}
}

// Created returns every ticker made by this clock, stopped or not, in creation order.
func (m *MockClock) Created() []*MockTicker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockTicker(nil), m.created...)
}

// Tickers returns how many tickers are still running.
func (m *MockClock) Tickers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tickers {
		if !t.Stopped() {
			n++
		}
	}
	return n
}

// MockTicker is a Ticker driven by MockClock.Tick.
type MockTicker struct {
	c      chan time.Time
	done   chan struct{}
	period time.Duration

	mu    sync.Mutex
	stops int
}

func (t *MockTicker) C() <-chan time.Time { return t.c }

// Stop stops the ticker. Repeated calls are counted but have no further effect.
func (t *MockTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stops == 0 {
		close(t.done)
	}
	t.stops++
}

// Stopped reports whether Stop has been called.
func (t *MockTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stops > 0
}

// StopCount returns how many times Stop was called.
func (t *MockTicker) StopCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stops
}

package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClockAdvance(t *testing.T) {
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	c := NewMockClock(start)
	c.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestMockClockTickDeliversAndAdvances(t *testing.T) {
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	c := NewMockClock(start)
	tk := c.NewTicker(3 * time.Second)

	got := make(chan time.Time, 1)
	go func() { got <- <-tk.C() }()

	c.Tick()
	select {
	case ts := <-got:
		assert.Equal(t, start.Add(3*time.Second), ts)
	case <-time.After(time.Second):
		t.Fatal("tick not delivered")
	}
}

func TestMockClockTickSkipsStoppedTickers(t *testing.T) {
	c := NewMockClock(time.Now())
	tk := c.NewTicker(time.Second)
	tk.Stop()
	tk.Stop()

	done := make(chan struct{})
	go func() {
		c.Tick()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Tick blocked on a stopped ticker")
	}

	require.Len(t, c.Created(), 1)
	assert.Equal(t, 2, c.Created()[0].StopCount())
	assert.Equal(t, 0, c.Tickers())
}

func TestRealClockTicker(t *testing.T) {
	tk := RealClock{}.NewTicker(5 * time.Millisecond)
	defer tk.Stop()
	select {
	case <-tk.C():
	case <-time.After(time.Second):
		t.Fatal("real ticker never fired")
	}
}

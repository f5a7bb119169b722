package notify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/yatra/internal/core/domain"
	"github.com/samirrijal/yatra/internal/pkg/clock"
)

var epoch = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func TestQueue_PushAndExpire(t *testing.T) {
	clk := clock.NewMockClock(epoch)
	q := NewQueue(clk, 5*time.Second, 4)

	b := q.Push(domain.BannerError, "Please fill in all fields")
	assert.Equal(t, domain.BannerError, b.Level)
	assert.Equal(t, epoch.Add(5*time.Second), b.ExpiresAt)
	require.Len(t, q.Active(), 1)

	clk.Advance(4 * time.Second)
	assert.Len(t, q.Active(), 1)

	clk.Advance(time.Second)
	assert.Empty(t, q.Active())
}

func TestQueue_FIFOOrder(t *testing.T) {
	clk := clock.NewMockClock(epoch)
	q := NewQueue(clk, time.Minute, 10)

	q.Push(domain.BannerError, "first")
	clk.Advance(time.Millisecond)
	q.Push(domain.BannerSuccess, "second")
	clk.Advance(time.Millisecond)
	q.Push(domain.BannerInfo, "third")

	var got []string
	for _, b := range q.Active() {
		got = append(got, b.Message)
	}
	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestQueue_EvictsOldestWhenFull(t *testing.T) {
	q := NewQueue(clock.NewMockClock(epoch), time.Minute, 3)
	for i := 1; i <= 5; i++ {
		q.Push(domain.BannerInfo, fmt.Sprintf("m%d", i))
	}

	active := q.Active()
	require.Len(t, active, 3)
	assert.Equal(t, "m3", active[0].Message)
	assert.Equal(t, "m5", active[2].Message)
}

func TestQueue_Dismiss(t *testing.T) {
	q := NewQueue(clock.NewMockClock(epoch), time.Minute, 3)
	a := q.Push(domain.BannerInfo, "a")
	q.Push(domain.BannerInfo, "b")

	assert.True(t, q.Dismiss(a.ID))
	assert.False(t, q.Dismiss(a.ID))
	require.Len(t, q.Active(), 1)
	assert.Equal(t, "b", q.Active()[0].Message)
}

func TestQueue_Defaults(t *testing.T) {
	q := NewQueue(nil, 0, 0)
	assert.Equal(t, DefaultTTL, q.ttl)
	assert.Equal(t, DefaultCapacity, q.capacity)
}

func TestCenter_SeparatesClients(t *testing.T) {
	clk := clock.NewMockClock(epoch)
	var pushed []string
	c := NewCenter(clk, 5*time.Second, 4, WithPushHook(func(clientID string, b domain.Banner) {
		pushed = append(pushed, clientID+":"+b.Message)
	}))

	c.Push("alice", domain.BannerError, "oops")
	c.Push("bob", domain.BannerSuccess, "done")

	require.Len(t, c.Active("alice"), 1)
	assert.Equal(t, "oops", c.Active("alice")[0].Message)
	assert.Equal(t, "done", c.Active("bob")[0].Message)
	assert.Empty(t, c.Active("carol"))
	assert.Equal(t, []string{"alice:oops", "bob:done"}, pushed)
}

func TestCenter_Dismiss(t *testing.T) {
	c := NewCenter(clock.NewMockClock(epoch), time.Minute, 4)
	b := c.Push("alice", domain.BannerInfo, "hi")

	assert.False(t, c.Dismiss("bob", b.ID))
	assert.True(t, c.Dismiss("alice", b.ID))
	assert.Empty(t, c.Active("alice"))
}

func TestCenter_Sweep(t *testing.T) {
	clk := clock.NewMockClock(epoch)
	c := NewCenter(clk, 5*time.Second, 4)
	c.Push("alice", domain.BannerInfo, "hi")
	clk.Advance(3 * time.Second)
	c.Push("bob", domain.BannerInfo, "hi")

	assert.Equal(t, 2, c.Sweep())
	clk.Advance(3 * time.Second)
	assert.Equal(t, 1, c.Sweep())
	clk.Advance(3 * time.Second)
	assert.Equal(t, 0, c.Sweep())
}

func TestCenter_PushIntoDrainedQueueSurvivesSweep(t *testing.T) {
	clk := clock.NewMockClock(epoch)
	c := NewCenter(clk, 5*time.Second, 4)
	c.Push("alice", domain.BannerInfo, "old")
	clk.Advance(6 * time.Second) // alice's queue is now empty but still registered

	b := c.Push("alice", domain.BannerError, "new")
	assert.Equal(t, 1, c.Sweep())

	active := c.Active("alice")
	require.Len(t, active, 1)
	assert.Equal(t, b.ID, active[0].ID)
}

func TestCenter_ConcurrentPushAndSweep(t *testing.T) {
	c := NewCenter(clock.NewMockClock(epoch), 5*time.Second, 4)

	stop := make(chan struct{})
	swept := make(chan struct{})
	go func() {
		defer close(swept)
		for {
			select {
			case <-stop:
				return
			default:
				c.Sweep()
			}
		}
	}()

	for i := range 2000 {
		client := fmt.Sprintf("client-%d", i)
		b := c.Push(client, domain.BannerInfo, "hi")
		active := c.Active(client)
		if !assert.Len(t, active, 1, "banner lost for %s", client) {
			break
		}
		assert.Equal(t, b.ID, active[0].ID)
	}

	close(stop)
	<-swept
}

func TestCenter_RunSweepsOnTick(t *testing.T) {
	clk := clock.NewMockClock(epoch)
	c := NewCenter(clk, time.Second, 4)
	c.Push("alice", domain.BannerInfo, "hi")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, 10*time.Second)
		close(done)
	}()

	require.Eventually(t, func() bool { return clk.Tickers() == 1 }, time.Second, time.Millisecond)
	clk.Tick() // advances 10s, past the banner TTL, then sweeps

	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return len(c.queues) == 0
	}, time.Second, time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, 1, clk.Created()[0].StopCount())
}

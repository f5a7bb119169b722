package seatmap

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/yatra/internal/core/domain"
)

func rng(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, 1)) }

func TestGenerate_Layout(t *testing.T) {
	m := Generate(rng(1), "map-1", "bus-3")

	assert.Equal(t, "map-1", m.ID)
	assert.Equal(t, "bus-3", m.BusID)
	require.Len(t, m.Rows, Rows)

	n := 0
	for i, row := range m.Rows {
		assert.Equal(t, i+1, row.Label)
		require.Len(t, row.Seats, Cols)
		for j, s := range row.Seats {
			n++
			assert.Equal(t, n, s.Number)
			assert.Equal(t, (s.Row-1)*Cols+s.Col, s.Number)
			assert.Equal(t, j+1, s.Col)
			assert.Equal(t, s.Col <= 2, s.LeftSide)
			assert.Contains(t, []domain.SeatState{domain.SeatAvailable, domain.SeatBooked}, s.State)
		}
	}
	assert.Equal(t, Capacity, n)
	assert.Empty(t, Selected(m))
}

func TestGenerate_BookedRatio(t *testing.T) {
	r := rng(99)
	booked := 0
	const maps = 500
	for i := 0; i < maps; i++ {
		booked += len(Booked(Generate(r, "m", "bus-1")))
	}
	ratio := float64(booked) / float64(maps*Capacity)
	assert.InDelta(t, BookedRatio, ratio, 0.02)
}

func TestGenerate_IndependentOpenings(t *testing.T) {
	r := rng(5)
	a := Generate(r, "a", "bus-1")
	b := Generate(r, "b", "bus-1")
	assert.NotEqual(t, Booked(a), Booked(b))
}

func firstWithState(m domain.SeatMap, state domain.SeatState) int {
	for _, r := range m.Rows {
		for _, s := range r.Seats {
			if s.State == state {
				return s.Number
			}
		}
	}
	return 0
}

func TestToggle(t *testing.T) {
	m := Generate(rng(2), "m", "bus-1")
	free := firstWithState(m, domain.SeatAvailable)
	require.NotZero(t, free)

	state, err := Toggle(&m, free)
	require.NoError(t, err)
	assert.Equal(t, domain.SeatSelected, state)
	assert.Equal(t, []int{free}, Selected(m))

	state, err = Toggle(&m, free)
	require.NoError(t, err)
	assert.Equal(t, domain.SeatAvailable, state)
	assert.Empty(t, Selected(m))
}

func TestToggle_Booked(t *testing.T) {
	m := Generate(rng(2), "m", "bus-1")
	taken := firstWithState(m, domain.SeatBooked)
	require.NotZero(t, taken)

	state, err := Toggle(&m, taken)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, domain.SeatBooked, state)
}

func TestToggle_Unknown(t *testing.T) {
	m := Generate(rng(2), "m", "bus-1")
	_, err := Toggle(&m, 41)
	_, ok := domain.AsValidation(err)
	assert.True(t, ok)
}

func TestSelect(t *testing.T) {
	m := Generate(rng(8), "m", "bus-1")
	var free []int
	for _, r := range m.Rows {
		for _, s := range r.Seats {
			if s.State == domain.SeatAvailable && len(free) < 3 {
				free = append(free, s.Number)
			}
		}
	}
	require.Len(t, free, 3)

	require.NoError(t, Select(&m, free))
	assert.Equal(t, free, Selected(m))

	require.NoError(t, Select(&m, free[:1]))
	assert.Equal(t, free[:1], Selected(m))

	taken := firstWithState(m, domain.SeatBooked)
	err := Select(&m, []int{free[1], taken})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, free[:1], Selected(m), "failed select must not change the map")
}

func TestJoinSeats(t *testing.T) {
	assert.Equal(t, "3, 7", JoinSeats([]int{3, 7}))
	assert.Equal(t, "12", JoinSeats([]int{12}))
	assert.Equal(t, "", JoinSeats(nil))
}

// Package seatmap builds and mutates the per-opening seat grid of a bus.
package seatmap

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"

	"github.com/samirrijal/yatra/internal/core/domain"
)

const (
	Rows        = 10
	Cols        = 4
	Capacity    = Rows * Cols
	BookedRatio = 0.3
	leftCols    = 2
)

// Generate lays out a fresh Rows x Cols grid for busID. Each seat is booked
// independently with probability BookedRatio; every call draws anew.
func Generate(rng *rand.Rand, id, busID string) domain.SeatMap {
	m := domain.SeatMap{
		ID:    id,
		BusID: busID,
		Rows:  make([]domain.SeatRow, 0, Rows),
	}
	for row := 1; row <= Rows; row++ {
		r := domain.SeatRow{Label: row, Seats: make([]domain.Seat, 0, Cols)}
		for col := 1; col <= Cols; col++ {
			state := domain.SeatAvailable
			if rng.Float64() < BookedRatio {
				state = domain.SeatBooked
			}
			r.Seats = append(r.Seats, domain.Seat{
				Number:   (row-1)*Cols + col,
				Row:      row,
				Col:      col,
				State:    state,
				LeftSide: col <= leftCols,
			})
		}
		m.Rows = append(m.Rows, r)
	}
	return m
}

// Toggle flips seat n between available and selected and returns its new state.
// Booked seats cannot be toggled.
func Toggle(m *domain.SeatMap, n int) (domain.SeatState, error) {
	seat := m.Seat(n)
	if seat == nil {
		return "", domain.Invalid(fmt.Sprintf("Seat %d does not exist", n))
	}
	switch seat.State {
	case domain.SeatBooked:
		return seat.State, fmt.Errorf("seat %d is already booked: %w", n, domain.ErrConflict)
	case domain.SeatSelected:
		seat.State = domain.SeatAvailable
	default:
		seat.State = domain.SeatSelected
	}
	return seat.State, nil
}

// Select replaces the current selection with seats. It fails without
// changing anything if any seat is unknown or booked.
func Select(m *domain.SeatMap, seats []int) error {
	for _, n := range seats {
		seat := m.Seat(n)
		if seat == nil {
			return domain.Invalid(fmt.Sprintf("Seat %d does not exist", n))
		}
		if seat.State == domain.SeatBooked {
			return fmt.Errorf("seat %d is already booked: %w", n, domain.ErrConflict)
		}
	}
	want := make(map[int]bool, len(seats))
	for _, n := range seats {
		want[n] = true
	}
	for r := range m.Rows {
		for c := range m.Rows[r].Seats {
			s := &m.Rows[r].Seats[c]
			if s.State == domain.SeatBooked {
				continue
			}
			if want[s.Number] {
				s.State = domain.SeatSelected
			} else {
				s.State = domain.SeatAvailable
			}
		}
	}
	return nil
}

// Selected returns the selected seat numbers in ascending order.
func Selected(m domain.SeatMap) []int {
	var out []int
	for _, r := range m.Rows {
		for _, s := range r.Seats {
			if s.State == domain.SeatSelected {
				out = append(out, s.Number)
			}
		}
	}
	sort.Ints(out)
	return out
}

// Booked returns the booked seat numbers in ascending order.
func Booked(m domain.SeatMap) []int {
	var out []int
	for _, r := range m.Rows {
		for _, s := range r.Seats {
			if s.State == domain.SeatBooked {
				out = append(out, s.Number)
			}
		}
	}
	sort.Ints(out)
	return out
}

// JoinSeats renders seat numbers as "3, 7".
func JoinSeats(seats []int) string {
	parts := make([]string, len(seats))
	for i, n := range seats {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

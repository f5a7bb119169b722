package itinerary

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/yatra/internal/core/domain"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestGenerate_Shape(t *testing.T) {
	for seed := uint64(0); seed < 200; seed++ {
		results := Generate(seeded(seed), "Mumbai", "Pune", "2026-10-20")

		require.GreaterOrEqual(t, len(results), MinResults)
		require.LessOrEqual(t, len(results), MaxResults)

		for i, it := range results {
			if i > 0 {
				assert.LessOrEqual(t, results[i-1].Departure.Time, it.Departure.Time, "seed %d not sorted", seed)
			}
			assert.True(t, strings.HasPrefix(it.ID, "bus-"))
			assert.Contains(t, Operators, it.Operator)
			assert.GreaterOrEqual(t, it.Price, 300)
			assert.Less(t, it.Price, 1000)
			assert.GreaterOrEqual(t, it.Seats, 5)
			assert.Less(t, it.Seats, 25)
			assert.Equal(t, "Mumbai", it.Departure.City)
			assert.Equal(t, "Pune", it.Arrival.City)
			assert.Equal(t, "Tuesday, October 20", it.Date)

			assert.Regexp(t, `^(0[6-9]|1[0-7]):[0-5][05]$`, it.Departure.Time)
			assert.Regexp(t, `^([01][0-9]|2[0-3]):[0-5][05]$`, it.Arrival.Time)
			assert.GreaterOrEqual(t, it.DurationMinutes, 4*60)
			assert.Less(t, it.DurationMinutes, 12*60)
		}
	}
}

func TestGenerate_AmenitiesFollowClass(t *testing.T) {
	byName := make(map[string][]domain.Amenity, len(Classes))
	for _, c := range Classes {
		byName[c.Name] = c.Amenities
	}
	for _, it := range Generate(seeded(7), "Delhi", "Jaipur", "2026-10-20") {
		want, ok := byName[it.BusType]
		require.True(t, ok, "unknown class %q", it.BusType)
		assert.Equal(t, want, it.Amenities)
	}
}

func TestGenerate_AmenitiesAreCopied(t *testing.T) {
	results := Generate(seeded(3), "Mumbai", "Pune", "2026-10-20")
	results[0].Amenities[0] = "mutated"
	for _, c := range Classes {
		assert.NotContains(t, c.Amenities, domain.Amenity("mutated"))
	}
}

func TestGenerate_SameSeedSameResults(t *testing.T) {
	a := Generate(seeded(42), "Mumbai", "Goa", "2026-10-20")
	b := Generate(seeded(42), "Mumbai", "Goa", "2026-10-20")
	assert.Equal(t, a, b)
}

func TestAddClock(t *testing.T) {
	tests := []struct {
		name                     string
		h, m, dh, dm             int
		wantH, wantM, wantOffset int
	}{
		{"plain", 6, 0, 4, 0, 10, 0, 0},
		{"minute carry", 9, 55, 4, 10, 14, 5, 0},
		{"past midnight", 17, 55, 10, 10, 4, 5, 1},
		{"exact midnight", 12, 0, 12, 0, 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m, off := addClock(tt.h, tt.m, tt.dh, tt.dm)
			assert.Equal(t, tt.wantH, h)
			assert.Equal(t, tt.wantM, m)
			assert.Equal(t, tt.wantOffset, off)
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Monday, January 5", FormatDate("2026-01-05"))
	assert.Equal(t, "not-a-date", FormatDate("not-a-date"))
}

func TestFilter(t *testing.T) {
	results := []domain.Itinerary{
		{ID: "bus-1", BusType: Classes[0].Name, Amenities: Classes[0].Amenities},
		{ID: "bus-2", BusType: Classes[1].Name, Amenities: Classes[1].Amenities},
		{ID: "bus-3", BusType: Classes[2].Name, Amenities: Classes[2].Amenities},
		{ID: "bus-4", BusType: Classes[3].Name, Amenities: Classes[3].Amenities},
	}

	ids := func(in []domain.Itinerary) []string {
		out := make([]string, 0, len(in))
		for _, it := range in {
			out = append(out, it.ID)
		}
		return out
	}

	tests := []struct {
		kind string
		want []string
	}{
		{"", []string{"bus-1", "bus-2", "bus-3", "bus-4"}},
		{FilterAll, []string{"bus-1", "bus-2", "bus-3", "bus-4"}},
		{FilterAC, []string{"bus-1", "bus-3", "bus-4"}},
		{FilterNonAC, []string{"bus-2"}},
		{FilterSleeper, []string{"bus-1"}},
		{FilterSeater, []string{"bus-2", "bus-3"}},
		{FilterVolvo, []string{"bus-4"}},
	}
	for _, tt := range tests {
		t.Run("kind="+tt.kind, func(t *testing.T) {
			got, err := Filter(results, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	_, err := Filter(results, "hovercraft")
	assert.Error(t, err)
}

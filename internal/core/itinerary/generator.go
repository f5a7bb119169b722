// Package itinerary synthesizes mock bus itineraries for a search.
package itinerary

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/samirrijal/yatra/internal/core/domain"
)

const (
	MinResults = 4
	MaxResults = 6

	MinPrice = 300
	MaxPrice = 999
	MinSeats = 5
	MaxSeats = 24

	dateLayout    = "2006-01-02"
	displayLayout = "Monday, January 2"
)

// Operators is the fixed set of bus operators results are drawn from.
var Operators = []string{
	"Sharma Travels", "Patel Tours", "Royal Express",
	"GreenLine Buses", "City Travels", "Star Buses",
}

// Classes is the bus class lookup; amenities are determined by class.
var Classes = []domain.BusClass{
	{Name: "AC Sleeper (2+1)", Amenities: []domain.Amenity{domain.AmenityAC, domain.AmenityCharging, domain.AmenityWater, domain.AmenityBlanket}},
	{Name: "Non-AC Seater (2+2)", Amenities: []domain.Amenity{domain.AmenityWater}},
	{Name: "AC Seater (2+2)", Amenities: []domain.Amenity{domain.AmenityAC, domain.AmenityCharging}},
	{Name: "Volvo Multi-Axle", Amenities: []domain.Amenity{domain.AmenityAC, domain.AmenityCharging, domain.AmenityWater, domain.AmenityBlanket, domain.AmenityWiFi}},
}

// Generate returns 4-6 itineraries between origin and destination on date,
// sorted by departure time. It never fails.
func Generate(rng *rand.Rand, origin, destination, date string) []domain.Itinerary {
	formatted := FormatDate(date)
	n := MinResults + rng.IntN(MaxResults-MinResults+1)

	results := make([]domain.Itinerary, 0, n)
	for i := 0; i < n; i++ {
		depHour := 6 + rng.IntN(12)
		depMin := rng.IntN(12) * 5
		durHours := 4 + rng.IntN(8)
		durMins := rng.IntN(12) * 5

		arrHour, arrMin, dayOffset := addClock(depHour, depMin, durHours, durMins)
		class := Classes[rng.IntN(len(Classes))]

		results = append(results, domain.Itinerary{
			ID:       fmt.Sprintf("bus-%d", i+1),
			Operator: Operators[rng.IntN(len(Operators))],
			BusType:  class.Name,
			// copy so callers can't mutate the lookup table
			Amenities: append([]domain.Amenity(nil), class.Amenities...),
			Departure: domain.Endpoint{
				Time: clockString(depHour, depMin),
				City: origin,
			},
			Arrival: domain.Endpoint{
				Time:      clockString(arrHour, arrMin),
				City:      destination,
				DayOffset: dayOffset,
			},
			Duration:        fmt.Sprintf("%dh %dm", durHours, durMins),
			DurationMinutes: durHours*60 + durMins,
			Price:           MinPrice + rng.IntN(MaxPrice-MinPrice+1),
			Seats:           MinSeats + rng.IntN(MaxSeats-MinSeats+1),
			Date:            formatted,
		})
	}

	// "HH:MM" compares correctly as a string because hours are always two digits.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Departure.Time < results[j].Departure.Time
	})
	return results
}

// addClock adds a duration to a wall-clock time, carrying minutes into hours
// and wrapping hours past midnight into a day offset.
func addClock(hour, minute, durHours, durMins int) (h, m, dayOffset int) {
	total := hour*60 + minute + durHours*60 + durMins
	dayOffset = total / (24 * 60)
	total %= 24 * 60
	return total / 60, total % 60, dayOffset
}

func clockString(h, m int) string {
	return fmt.Sprintf("%02d:%02d", h, m)
}

// FormatDate renders a YYYY-MM-DD date as "Monday, January 2".
// Unparseable input is returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(displayLayout)
}

// Filter kinds accepted by Filter.
const (
	FilterAll     = "all"
	FilterAC      = "ac"
	FilterNonAC   = "non_ac"
	FilterSleeper = "sleeper"
	FilterSeater  = "seater"
	FilterVolvo   = "volvo"
)

// FilterKinds lists the accepted filter kinds in display order.
var FilterKinds = []string{FilterAll, FilterAC, FilterNonAC, FilterSleeper, FilterSeater, FilterVolvo}

// Filter keeps the itineraries matching kind. An empty kind means all.
func Filter(results []domain.Itinerary, kind string) ([]domain.Itinerary, error) {
	var match func(domain.Itinerary) bool
	switch kind {
	case "", FilterAll:
		return results, nil
	case FilterAC:
		match = func(it domain.Itinerary) bool { return hasAmenity(it, domain.AmenityAC) }
	case FilterNonAC:
		match = func(it domain.Itinerary) bool { return !hasAmenity(it, domain.AmenityAC) }
	case FilterSleeper:
		match = func(it domain.Itinerary) bool { return strings.Contains(it.BusType, "Sleeper") }
	case FilterSeater:
		match = func(it domain.Itinerary) bool { return strings.Contains(it.BusType, "Seater") }
	case FilterVolvo:
		match = func(it domain.Itinerary) bool { return strings.Contains(it.BusType, "Volvo") }
	default:
		return nil, fmt.Errorf("unknown bus type filter %q", kind)
	}

	out := make([]domain.Itinerary, 0, len(results))
	for _, it := range results {
		if match(it) {
			out = append(out, it)
		}
	}
	return out, nil
}

func hasAmenity(it domain.Itinerary, a domain.Amenity) bool {
	for _, x := range it.Amenities {
		if x == a {
			return true
		}
	}
	return false
}

// Package tracking simulates a bus moving along a fixed route and produces
// the values a map renderer needs to draw it.
package tracking

import (
	"errors"
	"math"

	"github.com/samirrijal/yatra/internal/core/domain"
	"github.com/samirrijal/yatra/internal/pkg/geospatial"
)

// ErrTooFewWaypoints is returned when a route has fewer than two points.
var ErrTooFewWaypoints = errors.New("tracking: at least two waypoints required")

// Interpolate returns the point at fraction p of the piecewise-linear path
// through waypoints. Segments are weighted equally regardless of length.
// p is clamped to [0,1]; p=0 and p=1 return the first and last waypoint exactly.
func Interpolate(waypoints []domain.GeoPoint, p float64) (domain.GeoPoint, error) {
	if len(waypoints) < 2 {
		return domain.GeoPoint{}, ErrTooFewWaypoints
	}
	seg, frac := locate(len(waypoints), p)
	a, b := waypoints[seg], waypoints[seg+1]
	return domain.GeoPoint{
		Lat: lerp(a.Lat, b.Lat, frac),
		Lon: lerp(a.Lon, b.Lon, frac),
	}, nil
}

// locate maps progress onto a segment index in [0, n-2] and a fraction within it.
func locate(n int, p float64) (int, float64) {
	p = clamp(p)
	span := p * float64(n-1)
	seg := int(math.Floor(span))
	if seg > n-2 {
		seg = n - 2
	}
	return seg, span - float64(seg)
}

// lerp is written as a weighted sum so that f=0 and f=1 hit the endpoints exactly.
func lerp(a, b, f float64) float64 {
	return a*(1-f) + b*f
}

func clamp(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// RemainingKm is the great-circle distance left along the route from progress p.
func RemainingKm(waypoints []domain.GeoPoint, p float64) float64 {
	if len(waypoints) < 2 {
		return 0
	}
	seg, frac := locate(len(waypoints), p)
	pos := domain.GeoPoint{
		Lat: lerp(waypoints[seg].Lat, waypoints[seg+1].Lat, frac),
		Lon: lerp(waypoints[seg].Lon, waypoints[seg+1].Lon, frac),
	}

	path := [][2]float64{{pos.Lat, pos.Lon}}
	for _, wp := range waypoints[seg+1:] {
		path = append(path, [2]float64{wp.Lat, wp.Lon})
	}
	return math.Round(geospatial.PathLength(path...)/100) / 10
}

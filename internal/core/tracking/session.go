package tracking

import (
	"fmt"
	"math"
	"time"

	"github.com/samirrijal/yatra/internal/core/domain"
)

const (
	DefaultInterval = 3 * time.Second
	DefaultStep     = 0.01
	DefaultStart    = 0.65

	nextStopThreshold = 0.8

	LabelNextStopNear    = "Lonavala (in 15 min)"
	LabelNextStopFar     = "Pune Station (in 30 min)"
	LabelDestination     = "Destination reached"
	LabelArrived         = "Bus arrived"
	LabelJourneyComplete = "Journey completed"
)

// DemoRoute is the Mumbai to Pune route every tracking lookup resolves to.
func DemoRoute() domain.TrackedRoute {
	return domain.TrackedRoute{
		ID:   "mumbai-pune",
		Name: "Mumbai → Pune",
		Stops: []domain.RouteStop{
			{Name: "Mumbai", Role: "Start", Location: domain.GeoPoint{Lat: 19.0760, Lon: 72.8777}},
			{Name: "Thane", Role: "Stop 1", Location: domain.GeoPoint{Lat: 19.2183, Lon: 72.9781}},
			{Name: "Kalamboli", Role: "Stop 2", Location: domain.GeoPoint{Lat: 19.0330, Lon: 73.0297}},
			{Name: "Lonavala", Role: "Next Stop", Location: domain.GeoPoint{Lat: 18.7522, Lon: 73.4059}},
			{Name: "Pune", Role: "Destination", Location: domain.GeoPoint{Lat: 18.5204, Lon: 73.8567}},
		},
		Vehicle:        domain.TrackedVehicle{Registration: "MH01AB1234", Operator: "Sharma Travels"},
		JourneyMinutes: 180,
	}
}

// NextStopLabel returns the next-stop text for progress p.
func NextStopLabel(p float64, status domain.TrackingStatus) string {
	if status == domain.TrackingArrived {
		return LabelDestination
	}
	if p < nextStopThreshold {
		return LabelNextStopNear
	}
	return LabelNextStopFar
}

// RemainingLabel formats the time left as "1h 3m remaining", dropping the
// hour part when it is zero.
func RemainingLabel(p float64, journeyMinutes int, status domain.TrackingStatus) string {
	if status == domain.TrackingArrived {
		return LabelArrived
	}
	mins := int(math.Round((1 - clamp(p)) * float64(journeyMinutes)))
	if h := mins / 60; h > 0 {
		return fmt.Sprintf("%dh %dm remaining", h, mins%60)
	}
	return fmt.Sprintf("%dm remaining", mins)
}

// NewSession builds the first record of a tracking run at progress start.
func NewSession(id, key, clientID string, route domain.TrackedRoute, start float64, now time.Time) (domain.TrackingSession, error) {
	s := domain.TrackingSession{
		ID:        id,
		Key:       key,
		ClientID:  clientID,
		RouteID:   route.ID,
		Progress:  round(clamp(start)),
		Status:    domain.TrackingInTransit,
		StartedAt: now,
	}
	if s.Progress >= 1 {
		s.Status = domain.TrackingArrived
	}
	return fill(route, s, now)
}

// Advance returns the record that follows prev after one tick of step.
// Progress never decreases and stops at 1, at which point the status becomes
// arrived. Records that are no longer in transit are returned unchanged.
func Advance(route domain.TrackedRoute, prev domain.TrackingSession, step float64, now time.Time) (domain.TrackingSession, error) {
	if prev.Status != domain.TrackingInTransit {
		return prev, nil
	}
	next := prev
	next.Progress = min(round(prev.Progress+max(step, 0)), 1)
	next.Ticks++
	if next.Progress >= 1 {
		next.Status = domain.TrackingArrived
	}
	return fill(route, next, now)
}

func fill(route domain.TrackedRoute, s domain.TrackingSession, now time.Time) (domain.TrackingSession, error) {
	pts := route.Waypoints()
	pos, err := Interpolate(pts, s.Progress)
	if err != nil {
		return s, fmt.Errorf("route %s: %w", route.ID, err)
	}
	s.Position = pos
	s.NextStop = NextStopLabel(s.Progress, s.Status)
	s.Remaining = RemainingLabel(s.Progress, route.JourneyMinutes, s.Status)
	s.RemainingKm = RemainingKm(pts, s.Progress)
	s.UpdatedAt = now
	return s, nil
}

// round trims accumulated float error so repeated steps land on 1 exactly.
func round(p float64) float64 {
	return math.Round(p*1e6) / 1e6
}

package domain

import "time"

// RouteStop is a named waypoint on a tracked route.
type RouteStop struct {
	Name     string   `json:"name"`
	Role     string   `json:"role"`
	Location GeoPoint `json:"location"`
}

// TrackedVehicle identifies the bus shown on the tracking map.
type TrackedVehicle struct {
	Registration string `json:"registration"`
	Operator     string `json:"operator"`
}

// TrackedRoute is a fixed route used by the tracking simulation.
type TrackedRoute struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Stops          []RouteStop    `json:"stops"`
	Vehicle        TrackedVehicle `json:"vehicle"`
	JourneyMinutes int            `json:"journey_minutes"`
}

// Waypoints returns the ordered stop locations.
func (r TrackedRoute) Waypoints() []GeoPoint {
	pts := make([]GeoPoint, len(r.Stops))
	for i, s := range r.Stops {
		pts[i] = s.Location
	}
	return pts
}

// TrackingStatus is the state of a tracking session.
type TrackingStatus string

const (
	TrackingInTransit TrackingStatus = "in_transit"
	TrackingArrived   TrackingStatus = "arrived"
	TrackingStopped   TrackingStatus = "stopped"
)

// TrackingSession is the explicit state record of one tracking run.
// Each tick produces a new record from the previous one.
type TrackingSession struct {
	ID          string         `json:"id"`
	Key         string         `json:"key"`
	ClientID    string         `json:"-"`
	RouteID     string         `json:"route_id"`
	Progress    float64        `json:"progress"`
	Status      TrackingStatus `json:"status"`
	Position    GeoPoint       `json:"position"`
	NextStop    string         `json:"next_stop"`
	Remaining   string         `json:"remaining"`
	RemainingKm float64        `json:"remaining_km"`
	Ticks       int            `json:"ticks"`
	StartedAt   time.Time      `json:"started_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Popup is the text bound to a map marker.
type Popup struct {
	Title string   `json:"title"`
	Lines []string `json:"lines,omitempty"`
}

// MarkerIcon is the custom icon markup handed to the map renderer.
type MarkerIcon struct {
	HTML      string `json:"html"`
	ClassName string `json:"class_name"`
	Size      [2]int `json:"size"`
}

// Marker is a single placement on the map surface.
type Marker struct {
	Kind         string     `json:"kind"` // "stop" | "bus"
	Location     GeoPoint   `json:"location"`
	Icon         MarkerIcon `json:"icon"`
	Popup        Popup      `json:"popup"`
	ZIndexOffset int        `json:"z_index_offset,omitempty"`
}

// PolylineStyle carries the route line style attributes.
type PolylineStyle struct {
	Color     string  `json:"color"`
	Weight    int     `json:"weight"`
	Opacity   float64 `json:"opacity"`
	DashArray string  `json:"dash_array"`
}

// Polyline is the route line drawn on the map.
type Polyline struct {
	Coordinates []GeoPoint    `json:"coordinates"`
	Encoded     string        `json:"encoded"`
	Style       PolylineStyle `json:"style"`
}

// MapView is everything the map renderer needs for one tracking session.
type MapView struct {
	Center     GeoPoint `json:"center"`
	Zoom       int      `json:"zoom"`
	FitBounds  Bounds   `json:"fit_bounds"`
	FitPadding [2]int   `json:"fit_padding"`
	Polyline   Polyline `json:"polyline"`
	Markers    []Marker `json:"markers"`
}

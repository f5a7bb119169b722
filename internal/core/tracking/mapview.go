package tracking

import (
	"fmt"

	"github.com/twpayne/go-polyline"

	"github.com/samirrijal/yatra/internal/core/domain"
)

// Map presentation defaults for the tracking page.
var (
	DefaultCenter = domain.GeoPoint{Lat: 19.0760, Lon: 72.8777}

	RouteStyle = domain.PolylineStyle{
		Color:     "#1f4068",
		Weight:    4,
		Opacity:   0.7,
		DashArray: "10, 10",
	}
)

const (
	DefaultZoom   = 10
	fitPadding    = 50
	busZIndex     = 1000
	stopIconClass = "map-stop-marker-container"
	busIconClass  = "map-bus-marker"
)

// BuildMapView produces the map surface description for a session:
// the route line, a marker per stop and the bus marker at the session position.
func BuildMapView(route domain.TrackedRoute, s domain.TrackingSession) domain.MapView {
	pts := route.Waypoints()

	coords := make([][]float64, len(pts))
	for i, p := range pts {
		coords[i] = []float64{p.Lat, p.Lon}
	}

	markers := make([]domain.Marker, 0, len(route.Stops)+1)
	for _, stop := range route.Stops {
		markers = append(markers, domain.Marker{
			Kind:     "stop",
			Location: stop.Location,
			Icon: domain.MarkerIcon{
				HTML:      fmt.Sprintf(`<div class="map-stop-marker">%s</div>`, stop.Name),
				ClassName: stopIconClass,
				Size:      [2]int{100, 20},
			},
			Popup: domain.Popup{Title: stop.Name, Lines: []string{stop.Role}},
		})
	}
	markers = append(markers, domain.Marker{
		Kind:     "bus",
		Location: s.Position,
		Icon: domain.MarkerIcon{
			HTML:      `<i class="fas fa-bus"></i>`,
			ClassName: busIconClass,
			Size:      [2]int{30, 30},
		},
		Popup:        domain.Popup{Title: "Your Bus", Lines: []string{route.Vehicle.Registration, route.Vehicle.Operator}},
		ZIndexOffset: busZIndex,
	})

	return domain.MapView{
		Center:     DefaultCenter,
		Zoom:       DefaultZoom,
		FitBounds:  domain.BoundsOf(pts),
		FitPadding: [2]int{fitPadding, fitPadding},
		Polyline: domain.Polyline{
			Coordinates: pts,
			Encoded:     string(polyline.EncodeCoords(coords)),
			Style:       RouteStyle,
		},
		Markers: markers,
	}
}

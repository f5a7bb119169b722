// Package gtfsrt exports tracking sessions as GTFS-Realtime vehicle
// position feeds.
package gtfsrt

import (
	"math"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/samirrijal/yatra/internal/core/domain"
)

const (
	ContentType = "application/x-protobuf"
	version     = "2.0"
)

// nextStop returns the zero-based index of the stop the vehicle is heading to.
func nextStop(stops int, s domain.TrackingSession) int {
	if stops < 2 {
		return 0
	}
	if s.Status == domain.TrackingArrived {
		return stops - 1
	}
	i := int(math.Floor(s.Progress*float64(stops-1))) + 1
	return min(max(i, 1), stops-1)
}

// VehiclePosition converts a session snapshot into a GTFS-RT VehiclePosition.
func VehiclePosition(route domain.TrackedRoute, s domain.TrackingSession) *gtfs.VehiclePosition {
	status := gtfs.VehiclePosition_IN_TRANSIT_TO
	if s.Status != domain.TrackingInTransit {
		status = gtfs.VehiclePosition_STOPPED_AT
	}
	next := nextStop(len(route.Stops), s)

	vp := &gtfs.VehiclePosition{
		Trip: &gtfs.TripDescriptor{
			TripId:    proto.String(s.ID),
			RouteId:   proto.String(route.ID),
			StartDate: proto.String(s.StartedAt.Format("20060102")),
		},
		Vehicle: &gtfs.VehicleDescriptor{
			Id:           proto.String(route.Vehicle.Registration),
			Label:        proto.String(route.Vehicle.Operator),
			LicensePlate: proto.String(route.Vehicle.Registration),
		},
		Position: &gtfs.Position{
			Latitude:  proto.Float32(float32(s.Position.Lat)),
			Longitude: proto.Float32(float32(s.Position.Lon)),
		},
		CurrentStatus:       status.Enum(),
		CurrentStopSequence: proto.Uint32(uint32(next + 1)),
		Timestamp:           proto.Uint64(uint64(s.UpdatedAt.Unix())),
	}
	if len(route.Stops) > 0 {
		vp.StopId = proto.String(route.Stops[next].Name)
	}
	return vp
}

// Feed builds a full-dataset feed holding one entity per session.
func Feed(route domain.TrackedRoute, sessions ...domain.TrackingSession) *gtfs.FeedMessage {
	var ts uint64
	entities := make([]*gtfs.FeedEntity, 0, len(sessions))
	for _, s := range sessions {
		if u := uint64(s.UpdatedAt.Unix()); u > ts {
			ts = u
		}
		entities = append(entities, &gtfs.FeedEntity{
			Id:      proto.String(s.ID),
			Vehicle: VehiclePosition(route, s),
		})
	}
	return &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String(version),
			Incrementality:      gtfs.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(ts),
		},
		Entity: entities,
	}
}

// Encode marshals the feed for sessions to protobuf wire format.
func Encode(route domain.TrackedRoute, sessions ...domain.TrackingSession) ([]byte, error) {
	return proto.Marshal(Feed(route, sessions...))
}

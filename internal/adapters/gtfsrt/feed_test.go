package gtfsrt_test

import (
	"testing"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/samirrijal/yatra/internal/adapters/gtfsrt"
	"github.com/samirrijal/yatra/internal/core/domain"
	"github.com/samirrijal/yatra/internal/core/tracking"
)

func TestEncode_RoundTrip(t *testing.T) {
	route := tracking.DemoRoute()
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	s, err := tracking.NewSession("sess-1", "booking:BK1", "c", route, tracking.DefaultStart, now)
	require.NoError(t, err)

	data, err := gtfsrt.Encode(route, s)
	require.NoError(t, err)

	var feed gtfs.FeedMessage
	require.NoError(t, proto.Unmarshal(data, &feed))

	assert.Equal(t, "2.0", feed.GetHeader().GetGtfsRealtimeVersion())
	assert.Equal(t, gtfs.FeedHeader_FULL_DATASET, feed.GetHeader().GetIncrementality())
	assert.Equal(t, uint64(now.Unix()), feed.GetHeader().GetTimestamp())
	require.Len(t, feed.Entity, 1)

	vp := feed.Entity[0].GetVehicle()
	assert.Equal(t, "sess-1", vp.GetTrip().GetTripId())
	assert.Equal(t, "mumbai-pune", vp.GetTrip().GetRouteId())
	assert.Equal(t, "20261019", vp.GetTrip().GetStartDate())
	assert.Equal(t, "MH01AB1234", vp.GetVehicle().GetId())
	assert.Equal(t, gtfs.VehiclePosition_IN_TRANSIT_TO, vp.GetCurrentStatus())
	assert.InDelta(t, s.Position.Lat, vp.GetPosition().GetLatitude(), 1e-4)
	assert.InDelta(t, s.Position.Lon, vp.GetPosition().GetLongitude(), 1e-4)

	// 0.65 over four segments is inside the third, heading to the fourth stop
	assert.Equal(t, uint32(4), vp.GetCurrentStopSequence())
	assert.Equal(t, route.Stops[3].Name, vp.GetStopId())
}

func TestVehiclePosition_Arrived(t *testing.T) {
	route := tracking.DemoRoute()
	s, err := tracking.NewSession("sess-2", "bus:X", "c", route, 1, time.Now())
	require.NoError(t, err)
	require.Equal(t, domain.TrackingArrived, s.Status)

	vp := gtfsrt.VehiclePosition(route, s)
	assert.Equal(t, gtfs.VehiclePosition_STOPPED_AT, vp.GetCurrentStatus())
	assert.Equal(t, uint32(len(route.Stops)), vp.GetCurrentStopSequence())
	assert.Equal(t, route.Stops[len(route.Stops)-1].Name, vp.GetStopId())
}

func TestFeed_Empty(t *testing.T) {
	feed := gtfsrt.Feed(tracking.DemoRoute())
	assert.Empty(t, feed.Entity)
	assert.Equal(t, uint64(0), feed.GetHeader().GetTimestamp())
}

package scenario

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rttrainer/pkg/geo"
	"rttrainer/pkg/model"
)

func routeOf(wps []model.Waypoint) []orb.Point {
	out := make([]orb.Point, len(wps))
	for i, w := range wps {
		out[i] = w.Location
	}
	return out
}

func TestEnd_Controlled(t *testing.T) {
	points, err := Generate(testInput("ABC123", model.AirportTypeCivilAirfield, model.AirportTypeIFR, false))
	require.NoError(t, err)

	n := len(model.EndControlledStages)
	require.GreaterOrEqual(t, len(points), n)
	end := points[len(points)-n:]
	assert.Equal(t, model.EndControlledStages, stagesOf(end))

	// arrival is timed backwards from touchdown
	landing := end[0].TimeAtPoint + 10
	for i, off := range endControlledOffsets {
		assert.Equal(t, landing+off, end[i].TimeAtPoint, "stage %s", end[i].Stage)
	}

	assert.Equal(t, "Sywell Approach", end[0].UpdateData.CurrentTarget)
	assert.Equal(t, "Sywell Tower", end[5].UpdateData.CurrentTarget)
	assert.Equal(t, "Sywell Tower", end[4].UpdateData.NextTarget)
	assert.True(t, end[3].UpdateData.CallsignModified)

	last := end[n-1]
	assert.Equal(t, orb.Point{-0.9, 52.2}, last.Pose.Position)
	assert.InDelta(t, geo.RouteLength(routeOf(testWaypoints())), last.DistanceAlongRoute, 1)
}

func TestEnd_Uncontrolled(t *testing.T) {
	points, err := Generate(testInput("ABC123", model.AirportTypeInternational, model.AirportTypeCivilAirfield, false))
	require.NoError(t, err)

	n := len(model.EndUncontrolledStages)
	end := points[len(points)-n:]
	assert.Equal(t, model.EndUncontrolledStages, stagesOf(end))
	assert.Equal(t, "Sywell Information", end[0].UpdateData.CurrentTarget)
	assert.Equal(t, "122.700", end[0].UpdateData.CurrentTargetFrequency)
	assert.NotEmpty(t, end[0].UpdateData.Runway)
	assert.Contains(t, []string{"left hand", "right hand"}, end[0].UpdateData.CircuitDirection)
}

func TestEnd_ApproachPoses(t *testing.T) {
	points, err := Generate(testInput("ABC123", model.AirportTypeCivilAirfield, model.AirportTypeIFR, false))
	require.NoError(t, err)

	n := len(model.EndControlledStages)
	end := points[len(points)-n:]
	ap := testAirports(0, 0)[1]

	threshold := end[14].Pose.Position
	join := geo.Distance(threshold, end[0].Pose.Position) / 1000
	follow := geo.Distance(threshold, end[8].Pose.Position) / 1000
	final := geo.Distance(threshold, end[11].Pose.Position) / 1000

	assert.InDelta(t, joinKm, join, joinJitterKm+0.1)
	assert.InDelta(t, followKm, follow, followJitterKm+0.1)
	assert.InDelta(t, finalKm, final, finalJitterKm+0.1)
	assert.Equal(t, ap.ElevationFt+joinAltitudeFt, end[0].Pose.AltitudeFt)
	assert.Equal(t, ap.ElevationFt+finalAltitudeFt, end[11].Pose.AltitudeFt)
}

package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rttrainer/pkg/geo"
	"rttrainer/pkg/model"
)

func TestStart_ControlledBranch(t *testing.T) {
	tests := []struct {
		name       string
		airType    int
		controlled bool
	}{
		{"international", model.AirportTypeInternational, true},
		{"ifr", model.AirportTypeIFR, true},
		{"civil airfield", model.AirportTypeCivilAirfield, false},
		{"glider site", model.AirportTypeGliderSite, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, err := Generate(testInput("ABC123", tt.airType, 0, false))
			require.NoError(t, err)
			assert.Equal(t, tt.controlled, containsStage(points, model.StageDepartureInformationRequest))
			assert.Equal(t, tt.controlled, containsStage(points, model.StageReadbackDepartureInformation))
			assert.Equal(t, !tt.controlled, containsStage(points, model.StageRequestTaxiInformation))
		})
	}
}

func TestStart_ControlledOffsets(t *testing.T) {
	points, err := Generate(testInput("ABC123", model.AirportTypeInternational, 0, false))
	require.NoError(t, err)

	t0 := points[0].TimeAtPoint
	assert.GreaterOrEqual(t, t0, 540)
	assert.Less(t, t0, 960)
	for i, off := range startControlledOffsets {
		assert.Equal(t, t0+off, points[i].TimeAtPoint, "stage %s", points[i].Stage)
	}
}

func TestStart_UncontrolledOffsets(t *testing.T) {
	points, err := Generate(testInput("ABC123", model.AirportTypeCivilAirfield, 0, false))
	require.NoError(t, err)

	t0 := points[0].TimeAtPoint
	for i, off := range startUncontrolledOffsets {
		assert.Equal(t, t0+off, points[i].TimeAtPoint, "stage %s", points[i].Stage)
	}
	assert.Equal(t, model.StageAnnounceLeavingZone, points[len(startUncontrolledOffsets)-1].Stage)
}

func TestStart_Contacts(t *testing.T) {
	points, err := Generate(testInput("ABC123", model.AirportTypeInternational, 0, false))
	require.NoError(t, err)

	assert.Equal(t, "Wellesbourne Mountford Ground", points[0].UpdateData.CurrentTarget)
	assert.Equal(t, "121.800", points[0].UpdateData.CurrentTargetFrequency)
	assert.False(t, points[0].UpdateData.CallsignModified)
	assert.True(t, points[1].UpdateData.CallsignModified)

	ready := points[5]
	assert.Equal(t, model.StageReadyForDeparture, ready.Stage)
	assert.Equal(t, "Wellesbourne Mountford Tower", ready.UpdateData.CurrentTarget)
	assert.Equal(t, "118.500", ready.UpdateData.CurrentTargetFrequency)

	// next contact is the first airspace entered after the zone
	assert.Equal(t, "Middle Approach", points[8].UpdateData.NextTarget)

	// squawk applies from the taxi request onward
	assert.Equal(t, "7000", points[2].UpdateData.CurrentTransponderFrequency)
	assert.Equal(t, points[2].UpdateData.NextSquawk, points[3].UpdateData.CurrentTransponderFrequency)
	assert.NotEqual(t, "7000", points[3].UpdateData.CurrentTransponderFrequency)
}

func TestStart_Poses(t *testing.T) {
	points, err := Generate(testInput("ABC123", model.AirportTypeInternational, 0, false))
	require.NoError(t, err)

	apron := points[0].Pose
	assert.Equal(t, 159.0, apron.AltitudeFt)
	assert.Zero(t, apron.AirspeedKt)

	climb := points[8].Pose
	assert.Equal(t, 159.0+1200, climb.AltitudeFt)
	assert.Equal(t, 70.0, climb.AirspeedKt)

	// leaving the zone happens on the zone boundary
	exit := points[11]
	assert.Equal(t, model.StageReportLeavingZone, exit.Stage)
	assert.InDelta(t, -1.57, exit.Pose.Position[0], 0.001)
	assert.Greater(t, exit.DistanceAlongRoute, 0.0)
}

func TestStart_ZoneExitFallback(t *testing.T) {
	assert.Equal(t, 4.0, UncontrolledZoneExitDistanceKm)

	in := testInput("ABC123", model.AirportTypeCivilAirfield, 0, false)
	in.Airspaces = in.Airspaces[1:] // no zone around the departure airport
	points, err := Generate(in)
	require.NoError(t, err)

	exit := points[len(model.StartUncontrolledStages)-1]
	require.Equal(t, model.StageAnnounceLeavingZone, exit.Stage)
	assert.InDelta(t, UncontrolledZoneExitDistanceKm*1000, exit.DistanceAlongRoute, 0.001)
	assert.InDelta(t, UncontrolledZoneExitDistanceKm*1000, geo.Distance(in.Waypoints[0].Location, exit.Pose.Position), 5)
}

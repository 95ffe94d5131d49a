package scenario

import (
	"github.com/paulmach/orb"

	"rttrainer/pkg/model"
)

func box(lon, lat, half float64) orb.Polygon {
	return orb.Polygon{{
		{lon - half, lat - half}, {lon + half, lat - half}, {lon + half, lat + half}, {lon - half, lat + half}, {lon - half, lat - half},
	}}
}

func testAirports(startType, endType int) []model.Airport {
	return []model.Airport{
		{
			ID:          "ap-start",
			Name:        "Wellesbourne Mountford Airfield",
			Type:        startType,
			Location:    orb.Point{-1.6, 52.19},
			ElevationFt: 159,
			Runways: []model.Runway{
				{Designator: "18", TrueHeading: 180, LengthM: 900},
				{Designator: "36", TrueHeading: 0, LengthM: 900},
				{Designator: "23", TrueHeading: 230, LengthM: 900, MainRunway: true},
				{Designator: "05", TrueHeading: 50, LengthM: 900},
			},
			Frequencies: []model.Frequency{
				{Value: "118.500", Type: model.FrequencyTower},
				{Value: "121.800", Type: model.FrequencyGround},
			},
		},
		{
			ID:          "ap-end",
			Name:        "Sywell Aerodrome",
			Type:        endType,
			Location:    orb.Point{-0.9, 52.2},
			ElevationFt: 429,
			Runways: []model.Runway{
				{Designator: "21", TrueHeading: 210, LengthM: 1000},
				{Designator: "03", TrueHeading: 30, LengthM: 1000},
			},
			Frequencies: []model.Frequency{
				{Value: "122.700", Type: model.FrequencyInformation},
			},
		},
	}
}

var surface = model.VerticalLimit{Value: 0, Unit: model.UnitFeet}

func testAirspaces() []model.Airspace {
	return []model.Airspace{
		{ID: "atz-start", Name: "Wellesbourne ATZ", Type: model.AirspaceTypeATZ, Geometry: box(-1.6, 52.19, 0.03), LowerLimit: surface},
		{ID: "ctr-mid", Name: "Middle CTR", Type: model.AirspaceTypeCTR, Geometry: box(-1.2, 52.2, 0.1), LowerLimit: surface},
		{ID: "tma-high", Name: "High TMA", Type: 7, Geometry: box(-1.2, 52.2, 0.5), LowerLimit: model.VerticalLimit{Value: 55, Unit: model.UnitFlightLevel}},
	}
}

func testWaypoints() []model.Waypoint {
	return []model.Waypoint{
		{ID: "w0", Type: model.WaypointAirport, Location: orb.Point{-1.6, 52.19}, Index: 0, Name: "Wellesbourne", ReferenceObjectID: "ap-start"},
		{ID: "w1", Type: model.WaypointGPS, Location: orb.Point{-1.2, 52.2}, Index: 1, Name: "Middle"},
		{ID: "w2", Type: model.WaypointAirport, Location: orb.Point{-0.9, 52.2}, Index: 2, Name: "Sywell", ReferenceObjectID: "ap-end"},
	}
}

func testInput(seed string, startType, endType int, emergency bool) Input {
	return Input{
		Seed:         seed,
		Callsign:     "G-OFLY",
		Prefix:       "Student",
		AircraftType: "PA28",
		Waypoints:    testWaypoints(),
		Airports:     testAirports(startType, endType),
		Airspaces:    testAirspaces(),
		HasEmergency: emergency,
	}
}

func stagesOf(points []model.ScenarioPoint) []model.Stage {
	out := make([]model.Stage, len(points))
	for i, p := range points {
		out[i] = p.Stage
	}
	return out
}

func containsStage(points []model.ScenarioPoint, s model.Stage) bool {
	for _, p := range points {
		if p.Stage == s {
			return true
		}
	}
	return false
}

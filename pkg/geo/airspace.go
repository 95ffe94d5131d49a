package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"rttrainer/pkg/model"
)

// MaxFlightLevel is the ceiling the generator assumes for the aircraft.
// Airspaces whose base is above it are ignored.
const MaxFlightLevel = 30

// LowerLimitFL converts the airspace base to a flight level.
func LowerLimitFL(a *model.Airspace) float64 {
	return LimitToFL(a.LowerLimit)
}

// LimitToFL converts a vertical limit to hundreds of feet.
func LimitToFL(l model.VerticalLimit) float64 {
	switch l.Unit {
	case model.UnitFlightLevel:
		return l.Value
	case model.UnitMeters:
		return l.Value / 30.48
	default:
		return l.Value / 100
	}
}

// ContainsPoint reports whether the point lies inside the airspace polygon.
func ContainsPoint(a *model.Airspace, p orb.Point) bool {
	if len(a.Geometry) == 0 {
		return false
	}
	if !a.Geometry.Bound().Contains(p) {
		return false
	}
	return planar.PolygonContains(a.Geometry, p)
}

// IsInAirspace reports whether the point is inside the airspace and the
// airspace base is at or below maxFL.
func IsInAirspace(p orb.Point, a *model.Airspace, maxFL float64) bool {
	return LowerLimitFL(a) <= maxFL && ContainsPoint(a, p)
}

// IsAirspaceIncludedInRoute reports whether the route crosses the airspace
// boundary or, for airspaces reachable below maxFL, has a vertex inside it.
// Single point routes only get the containment test.
func IsAirspaceIncludedInRoute(route []orb.Point, a *model.Airspace, maxFL float64) bool {
	if len(route) > 1 {
		for i := 0; i < len(route)-1; i++ {
			if len(segmentPolygonCrossings(route[i], route[i+1], a.Geometry)) > 0 {
				return true
			}
		}
	}
	if LowerLimitFL(a) > maxFL {
		return false
	}
	for _, p := range route {
		if ContainsPoint(a, p) {
			return true
		}
	}
	return false
}

// AirspacesOnRoute filters airspaces to those included in the route.
func AirspacesOnRoute(route []orb.Point, airspaces []model.Airspace, maxFL float64) []model.Airspace {
	var out []model.Airspace
	for i := range airspaces {
		if IsAirspaceIncludedInRoute(route, &airspaces[i], maxFL) {
			out = append(out, airspaces[i])
		}
	}
	return out
}

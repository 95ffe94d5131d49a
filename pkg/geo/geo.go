// Package geo holds the route and airspace geometry used by the scenario
// generator. Points are orb.Point values in [lon, lat] order.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// ErrInvalidRoute is returned when a route has too few points for the
// requested operation.
var ErrInvalidRoute = errors.New("invalid route")

// CollinearToleranceM is the slack used when deciding whether a point lies on
// a route segment.
const CollinearToleranceM = 5.0

// Distance returns the great circle distance between two points in meters.
func Distance(p1, p2 orb.Point) float64 {
	return orbgeo.DistanceHaversine(p1, p2)
}

// DistanceKm is Distance in kilometers.
func DistanceKm(p1, p2 orb.Point) float64 {
	return Distance(p1, p2) / 1000
}

// Bearing returns the initial bearing from p1 to p2 in degrees [0, 360).
func Bearing(p1, p2 orb.Point) float64 {
	return NormalizeBearing(orbgeo.Bearing(p1, p2))
}

// DestinationPoint returns the point reached from start after distMeters on
// the given bearing.
func DestinationPoint(start orb.Point, distMeters, bearing float64) orb.Point {
	return orbgeo.PointAtBearingAndDistance(start, bearing, distMeters)
}

// NormalizeBearing maps any angle onto [0, 360).
func NormalizeBearing(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// NormalizeAngle normalizes an angle difference to the range [-180, 180].
func NormalizeAngle(angleDeg float64) float64 {
	for angleDeg > 180 {
		angleDeg -= 360
	}
	for angleDeg < -180 {
		angleDeg += 360
	}
	return angleDeg
}

// Reciprocal returns the opposite bearing.
func Reciprocal(bearing float64) float64 {
	return NormalizeBearing(bearing + 180)
}

// Interpolate returns the point at fraction f of the way from a to b along
// the great circle.
func Interpolate(a, b orb.Point, f float64) orb.Point {
	d := Distance(a, b)
	if d == 0 {
		return a
	}
	return DestinationPoint(a, d*f, Bearing(a, b))
}

// RouteLength returns the total length of the polyline in meters.
func RouteLength(route []orb.Point) float64 {
	var total float64
	for i := 1; i < len(route); i++ {
		total += Distance(route[i-1], route[i])
	}
	return total
}

// PointAlongRoute returns the position and track after distMeters along the
// route. Distances past the end clamp to the last point.
func PointAlongRoute(route []orb.Point, distMeters float64) (orb.Point, float64, error) {
	if len(route) < 2 {
		return orb.Point{}, 0, fmt.Errorf("point along route with %d points: %w", len(route), ErrInvalidRoute)
	}
	if distMeters <= 0 {
		return route[0], Bearing(route[0], route[1]), nil
	}
	var walked float64
	for i := 1; i < len(route); i++ {
		seg := Distance(route[i-1], route[i])
		brg := Bearing(route[i-1], route[i])
		if walked+seg >= distMeters {
			return DestinationPoint(route[i-1], distMeters-walked, brg), brg, nil
		}
		walked += seg
	}
	n := len(route)
	return route[n-1], Bearing(route[n-2], route[n-1]), nil
}

// CalculateDistanceAlongRoute walks the route and returns the distance in
// meters from the first point to target. The target counts as lying on a
// segment when the detour through it is shorter than CollinearToleranceM.
// A target that lies on no segment yields the full route length.
func CalculateDistanceAlongRoute(route []orb.Point, target orb.Point) (float64, error) {
	if len(route) < 2 {
		return 0, fmt.Errorf("distance along route with %d points: %w", len(route), ErrInvalidRoute)
	}
	var total float64
	for i := 0; i < len(route)-1; i++ {
		seg := Distance(route[i], route[i+1])
		toTarget := Distance(route[i], target)
		toNext := Distance(target, route[i+1])
		if toTarget+toNext-seg < CollinearToleranceM {
			return total + toTarget, nil
		}
		total += seg
	}
	return total, nil
}

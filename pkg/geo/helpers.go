package geo

import (
	"math"

	"github.com/paulmach/orb"

	"rttrainer/pkg/model"
)

// DistanceToAirspaceKm is the distance from p to the nearest point of the
// airspace boundary, or 0 when p is inside.
func DistanceToAirspaceKm(p orb.Point, a *model.Airspace) float64 {
	if ContainsPoint(a, p) {
		return 0
	}
	return distanceToPolygon(p, a.Geometry) / 1000
}

// distanceToPolygon is the minimum distance in meters from point to the
// polygon boundary.
func distanceToPolygon(point orb.Point, poly orb.Polygon) float64 {
	minDist := math.MaxFloat64
	for _, ring := range poly {
		for i := 0; i < len(ring)-1; i++ {
			if d := distanceToSegment(point, ring[i], ring[i+1]); d < minDist {
				minDist = d
			}
		}
	}
	return minDist
}

// distanceToSegment projects p onto the segment in a local equirectangular
// frame and measures the great-circle distance to the closest point.
func distanceToSegment(p, a, b orb.Point) float64 {
	k := math.Cos(p[1] * math.Pi / 180)
	dx := (b[0] - a[0]) * k
	dy := b[1] - a[1]
	if dx == 0 && dy == 0 {
		return Distance(p, a)
	}

	t := (((p[0]-a[0])*k)*dx + (p[1]-a[1])*dy) / (dx*dx + dy*dy)
	switch {
	case t < 0:
		return Distance(p, a)
	case t > 1:
		return Distance(p, b)
	}
	return Distance(p, Interpolate(a, b, t))
}

package geo

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"

	"rttrainer/pkg/model"
)

// probeDistanceM is how far past a crossing the entering test looks.
const probeDistanceM = 5.0

// Intersection is one crossing of an airspace boundary by the route.
type Intersection struct {
	AirspaceID         string    `json:"airspace_id"`
	Point              orb.Point `json:"point"`
	Segment            int       `json:"segment"`              // index of the route segment start
	DistanceAlongRoute float64   `json:"distance_along_route"` // meters
	Entering           bool      `json:"entering"`
}

// FindIntersections returns every boundary crossing of the route with the
// airspaces whose base is at or below MaxFlightLevel, sorted by distance
// along the route.
func FindIntersections(route []orb.Point, airspaces []model.Airspace) ([]Intersection, error) {
	return FindIntersectionsBelow(route, airspaces, MaxFlightLevel)
}

// FindIntersectionsBelow is FindIntersections with an explicit ceiling.
func FindIntersectionsBelow(route []orb.Point, airspaces []model.Airspace, maxFL float64) ([]Intersection, error) {
	if len(route) < 2 {
		return nil, fmt.Errorf("find intersections with %d points: %w", len(route), ErrInvalidRoute)
	}

	// cumulative distance at each vertex
	cum := make([]float64, len(route))
	for i := 1; i < len(route); i++ {
		cum[i] = cum[i-1] + Distance(route[i-1], route[i])
	}

	var out []Intersection
	for ai := range airspaces {
		a := &airspaces[ai]
		if LowerLimitFL(a) > maxFL || len(a.Geometry) == 0 {
			continue
		}
		var found []Intersection
		for si := 0; si < len(route)-1; si++ {
			start, end := route[si], route[si+1]
			brg := Bearing(start, end)
			for _, p := range segmentPolygonCrossings(start, end, a.Geometry) {
				d := cum[si] + Distance(start, p)
				if containsDistance(found, d) {
					// crossing through a polygon vertex hits two edges
					continue
				}
				probe := DestinationPoint(p, probeDistanceM, brg)
				found = append(found, Intersection{
					AirspaceID:         a.ID,
					Point:              p,
					Segment:            si,
					DistanceAlongRoute: d,
					Entering:           ContainsPoint(a, probe),
				})
			}
		}
		out = append(out, found...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceAlongRoute != out[j].DistanceAlongRoute {
			return out[i].DistanceAlongRoute < out[j].DistanceAlongRoute
		}
		// exits first when two boundaries coincide
		if out[i].Entering != out[j].Entering {
			return !out[i].Entering
		}
		return out[i].AirspaceID < out[j].AirspaceID
	})
	return out, nil
}

func containsDistance(list []Intersection, d float64) bool {
	for _, x := range list {
		if math.Abs(x.DistanceAlongRoute-d) < 1 {
			return true
		}
	}
	return false
}

// segmentPolygonCrossings returns the points where segment ab crosses any
// ring of the polygon, ordered from a to b.
func segmentPolygonCrossings(a, b orb.Point, poly orb.Polygon) []orb.Point {
	var pts []orb.Point
	var ts []float64
	for _, ring := range poly {
		for i := 0; i < len(ring)-1; i++ {
			if p, t, ok := segmentIntersection(a, b, ring[i], ring[i+1]); ok {
				pts = append(pts, p)
				ts = append(ts, t)
			}
		}
	}
	idx := make([]int, len(pts))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return ts[idx[i]] < ts[idx[j]] })
	sorted := make([]orb.Point, len(pts))
	for i, k := range idx {
		sorted[i] = pts[k]
	}
	return sorted
}

// segmentIntersection intersects segments p1p2 and p3p4 in the lon/lat plane.
// t is the parameter of the crossing along p1p2. Parallel segments never
// intersect.
func segmentIntersection(p1, p2, p3, p4 orb.Point) (orb.Point, float64, bool) {
	d1x, d1y := p2[0]-p1[0], p2[1]-p1[1]
	d2x, d2y := p4[0]-p3[0], p4[1]-p3[1]
	den := d1x*d2y - d1y*d2x
	if math.Abs(den) < 1e-15 {
		return orb.Point{}, 0, false
	}
	ex, ey := p3[0]-p1[0], p3[1]-p1[1]
	t := (ex*d2y - ey*d2x) / den
	u := (ex*d1y - ey*d1x) / den
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return orb.Point{}, 0, false
	}
	return orb.Point{p1[0] + t*d1x, p1[1] + t*d1y}, t, true
}

package route

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"rttrainer/pkg/aero"
	"rttrainer/pkg/geo"
	"rttrainer/pkg/model"
	"rttrainer/pkg/seed"
)

var (
	ErrInvalidRoute         = errors.New("invalid route")
	ErrRouteSearchExhausted = errors.New("no route found for seed")
)

// SearchOptions bound the seeded route search.
type SearchOptions struct {
	MaxAttempts      int
	MATZRadiusKm     float64 // how far from the departure a MATZ may start
	MinLegKm         float64 // destination distance from the MATZ, bounds
	MaxLegKm         float64
	MaxBearingOffDeg float64 // how far the destination may sit off the departure-MATZ line
}

// DefaultSearchOptions returns the bounds used for MATZ training routes.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		MaxAttempts:      200,
		MATZRadiusKm:     40,
		MinLegKm:         5,
		MaxLegKm:         40,
		MaxBearingOffDeg: 60,
	}
}

// SearchMATZRoute picks, deterministically for the seed, a departure
// airport with a MATZ nearby and a destination beyond it. The result has
// four waypoints: departure, MATZ entry, MATZ exit and destination.
func SearchMATZRoute(seedString string, airports []model.Airport, airspaces []model.Airspace, opts SearchOptions) ([]model.Waypoint, error) {
	departures := usableAirports(airports)
	var matzs []model.Airspace
	for _, a := range airspaces {
		if a.IsMATZ() && len(a.Geometry) > 0 {
			matzs = append(matzs, a)
		}
	}
	if len(departures) < 2 || len(matzs) == 0 {
		return nil, fmt.Errorf("%d airports, %d MATZs: %w", len(departures), len(matzs), ErrRouteSearchExhausted)
	}

	rng := seed.NewRand(seed.StringToNumber(seedString), "route")
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		start := departures[rng.Intn(len(departures))]

		var near []model.Airspace
		for i := range matzs {
			d := geo.DistanceToAirspaceKm(start.Location, &matzs[i])
			if d > 0 && d <= opts.MATZRadiusKm {
				near = append(near, matzs[i])
			}
		}
		if len(near) == 0 {
			continue
		}
		matz := near[rng.Intn(len(near))]

		dests := destinationsBeyond(start, &matz, departures, opts)
		if len(dests) == 0 {
			continue
		}
		dest := dests[rng.Intn(len(dests))]

		entry, exit, ok := crossing(start.Location, dest.Location, &matz)
		if !ok {
			continue
		}

		slog.Debug("Route found", "seed", seedString, "attempt", attempt, "from", start.ID, "matz", matz.ID, "to", dest.ID)
		short := aero.AirspaceShortName(matz.Name)
		return Renumber([]model.Waypoint{
			{ID: seedString + "-dep", Type: model.WaypointAirport, Location: start.Location, Name: aero.ShortName(start.Name), ReferenceObjectID: start.ID},
			{ID: seedString + "-entry", Type: model.WaypointNewAirspace, Location: entry, Name: short + " MATZ entry", ReferenceObjectID: matz.ID},
			{ID: seedString + "-exit", Type: model.WaypointGPS, Location: exit, Name: short + " MATZ exit"},
			{ID: seedString + "-dest", Type: model.WaypointAirport, Location: dest.Location, Name: aero.ShortName(dest.Name), ReferenceObjectID: dest.ID},
		}), nil
	}
	return nil, fmt.Errorf("seed %q after %d attempts: %w", seedString, opts.MaxAttempts, ErrRouteSearchExhausted)
}

// usableAirports returns fixed-wing airports sorted by id so the search
// does not depend on input order.
func usableAirports(airports []model.Airport) []model.Airport {
	var out []model.Airport
	for _, a := range airports {
		switch a.Type {
		case model.AirportTypeClosed, model.AirportTypeHeliCivil, model.AirportTypeHeliMilitary, model.AirportTypeWater:
			continue
		}
		if len(a.Runways) == 0 {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func destinationsBeyond(start model.Airport, matz *model.Airspace, airports []model.Airport, opts SearchOptions) []model.Airport {
	center, _ := planar.CentroidArea(matz.Geometry)
	heading := geo.Bearing(start.Location, center)

	var out []model.Airport
	for _, a := range airports {
		if a.ID == start.ID || geo.ContainsPoint(matz, a.Location) {
			continue
		}
		d := geo.DistanceKm(center, a.Location)
		if d < opts.MinLegKm || d > opts.MaxLegKm {
			continue
		}
		off := geo.NormalizeAngle(geo.Bearing(center, a.Location) - heading)
		if off < -opts.MaxBearingOffDeg || off > opts.MaxBearingOffDeg {
			continue
		}
		out = append(out, a)
	}
	return out
}

// crossing returns where the direct line enters and then leaves the MATZ.
func crossing(from, to orb.Point, matz *model.Airspace) (orb.Point, orb.Point, bool) {
	xs, err := geo.FindIntersectionsBelow([]orb.Point{from, to}, []model.Airspace{*matz}, 1000)
	if err != nil {
		return orb.Point{}, orb.Point{}, false
	}
	for i := 0; i+1 < len(xs); i++ {
		if xs[i].Entering && !xs[i+1].Entering {
			return xs[i].Point, xs[i+1].Point, true
		}
	}
	return orb.Point{}, orb.Point{}, false
}

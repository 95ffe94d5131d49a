// Package scenario builds the timeline of radio call opportunities for a
// route: ground operations at the departure airport, zone changes along the
// way, an optional PAN-PAN and the arrival at the destination.
package scenario

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/paulmach/orb"

	"rttrainer/pkg/aero"
	"rttrainer/pkg/geo"
	"rttrainer/pkg/model"
	"rttrainer/pkg/seed"
)

var (
	// ErrInvalidInput is returned for empty waypoints or airspaces and
	// routes that cannot be walked.
	ErrInvalidInput = errors.New("invalid scenario input")
	// ErrInconsistentTimeline is returned when a generated timeline breaks
	// its ordering guarantees.
	ErrInconsistentTimeline = errors.New("inconsistent scenario timeline")
)

// Input is everything a scenario is derived from.
type Input struct {
	Seed         string
	Callsign     string
	Prefix       string
	AircraftType string
	Waypoints    []model.Waypoint
	Airports     []model.Airport
	Airspaces    []model.Airspace
	HasEmergency bool

	// Zones maps airports to their zone airspace. Built from the airspaces
	// when nil.
	Zones aero.ZoneIndex
}

// Recorder receives generation statistics.
type Recorder interface {
	ObserveScenario(outcome string, points int, elapsed time.Duration)
}

// Generator builds scenarios. It holds no per-scenario state and is safe
// for concurrent use.
type Generator struct {
	opts     Options
	recorder Recorder
}

// NewGenerator returns a generator. rec may be nil.
func NewGenerator(opts Options, rec Recorder) *Generator {
	return &Generator{opts: opts, recorder: rec}
}

// Options returns the generator options.
func (g *Generator) Options() Options {
	return g.opts
}

// Generate builds the scenario with default options.
func Generate(in Input) ([]model.ScenarioPoint, error) {
	return NewGenerator(DefaultOptions(), nil).Generate(in)
}

// Generate builds the full timeline for the input. The result is a pure
// function of the input and the options.
func (g *Generator) Generate(in Input) ([]model.ScenarioPoint, error) {
	start := time.Now()
	points, err := g.generate(in)
	if g.recorder != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		g.recorder.ObserveScenario(outcome, len(points), time.Since(start))
	}
	return points, err
}

func (g *Generator) generate(in Input) ([]model.ScenarioPoint, error) {
	if len(in.Waypoints) < 2 {
		return nil, fmt.Errorf("%d waypoints: %w", len(in.Waypoints), ErrInvalidInput)
	}
	if len(in.Airspaces) == 0 {
		return nil, fmt.Errorf("no airspaces: %w", ErrInvalidInput)
	}

	b, err := g.newBuilder(in)
	if err != nil {
		return nil, err
	}

	if b.startAirport != nil {
		b.buildStart()
	} else {
		b.clock = float64(seed.TimeInMinutes(b.seedNum, g.opts.StartTimeMin, g.opts.StartTimeMax))
	}
	b.buildAirborne()
	if in.HasEmergency {
		b.spliceEmergency()
	}
	if b.endAirport != nil {
		b.buildEnd()
	}

	if err := Validate(b.points); err != nil {
		return nil, err
	}
	slog.Debug("Scenario generated",
		"seed", in.Seed,
		"points", len(b.points),
		"intersections", len(b.intersections),
		"emergency", in.HasEmergency,
	)
	return b.points, nil
}

// builder carries the running state of one generation.
type builder struct {
	opts    Options
	in      Input
	seedNum uint32

	waypoints []model.Waypoint
	route     []orb.Point
	wpDist    []float64 // cumulative meters at each waypoint
	routeLen  float64

	startAirport, endAirport *model.Airport
	startZone, endZone       *model.Airspace
	intersections            []geo.Intersection

	points     []model.ScenarioPoint
	clock      float64 // minutes from midnight
	squawk     string
	pressure   int
	modified   bool
	candidates []int
}

func (g *Generator) newBuilder(in Input) (*builder, error) {
	wps := make([]model.Waypoint, len(in.Waypoints))
	copy(wps, in.Waypoints)
	sort.SliceStable(wps, func(i, j int) bool { return wps[i].Index < wps[j].Index })
	for i := range wps {
		if wps[i].Index != i {
			return nil, fmt.Errorf("waypoint indices not dense at %d: %w", i, ErrInvalidInput)
		}
	}

	b := &builder{
		opts:      g.opts,
		in:        in,
		seedNum:   seed.StringToNumber(in.Seed),
		waypoints: wps,
		squawk:    g.opts.ConspicuitySquawk,
	}

	b.route = make([]orb.Point, len(wps))
	b.wpDist = make([]float64, len(wps))
	for i, w := range wps {
		b.route[i] = w.Location
		if i > 0 {
			b.wpDist[i] = b.wpDist[i-1] + geo.Distance(wps[i-1].Location, w.Location)
		}
	}
	b.routeLen = b.wpDist[len(wps)-1]

	b.startAirport = model.FindAirport(in.Airports, wps[0].ReferenceObjectID)
	b.endAirport = model.FindAirport(in.Airports, wps[len(wps)-1].ReferenceObjectID)

	zones := in.Zones
	if zones == nil {
		var err error
		zones, err = aero.NewZoneIndex(in.Airports, in.Airspaces, nil)
		if err != nil {
			return nil, err
		}
	}
	if b.startAirport != nil {
		b.startZone = zones.Zone(b.startAirport.ID, in.Airspaces)
	}
	if b.endAirport != nil {
		b.endZone = zones.Zone(b.endAirport.ID, in.Airspaces)
	}

	xs, err := geo.FindIntersectionsBelow(b.route, in.Airspaces, g.opts.MaxFlightLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	b.intersections = xs
	b.pressure = aero.SampleWeather(in.Seed, "regional").Pressure
	return b, nil
}

// add appends a point, clamping time and distance so neither ever goes
// backwards.
func (b *builder) add(stage model.Stage, pose model.AircraftPose, upd model.UpdateData, at float64, dist float64) int {
	t := int(math.Floor(at))
	if n := len(b.points); n > 0 {
		last := b.points[n-1]
		if t < last.TimeAtPoint {
			t = last.TimeAtPoint
		}
		if dist < last.DistanceAlongRoute {
			dist = last.DistanceAlongRoute
		}
	}
	if dist > b.routeLen {
		dist = b.routeLen
	}
	b.points = append(b.points, model.ScenarioPoint{
		Index:              len(b.points),
		Stage:              stage,
		Pose:               pose,
		UpdateData:         upd,
		NextWaypointIndex:  b.nextWaypoint(dist),
		TimeAtPoint:        t,
		DistanceAlongRoute: dist,
	})
	return len(b.points) - 1
}

// nextWaypoint returns the index of the first waypoint beyond dist.
func (b *builder) nextWaypoint(dist float64) int {
	for i, d := range b.wpDist {
		if d > dist+1 {
			return i
		}
	}
	return len(b.wpDist) - 1
}

// update returns the shared context with the given contact.
func (b *builder) update(target string, freq string) model.UpdateData {
	return model.UpdateData{
		CurrentTarget:               target,
		CurrentTargetFrequency:      freq,
		CurrentTransponderFrequency: b.squawk,
		CurrentPressure:             b.pressure,
		CallsignModified:            b.modified,
	}
}

func (b *builder) lastTime() float64 {
	if n := len(b.points); n > 0 {
		return math.Max(b.clock, float64(b.points[n-1].TimeAtPoint))
	}
	return b.clock
}

func (b *builder) lastDist() float64 {
	if n := len(b.points); n > 0 {
		return b.points[n-1].DistanceAlongRoute
	}
	return 0
}

// cruisePose is the en route state at p heading on track.
func (b *builder) cruisePose(p orb.Point, track float64) model.AircraftPose {
	return model.AircraftPose{
		Position:    p,
		TrueHeading: track,
		AltitudeFt:  b.opts.CruiseAltitudeFt,
		AirspeedKt:  b.opts.CruiseAirspeedKt,
	}
}

// nextContact returns the first airspace unit entered after the departure
// zone, or the FIS fallback.
func (b *builder) nextContact() (string, string) {
	for _, x := range b.intersections {
		if !x.Entering || b.isTerminalZone(x.AirspaceID) {
			continue
		}
		if as := model.FindAirspace(b.in.Airspaces, x.AirspaceID); as != nil {
			name, f := aero.AirspaceStation(as, b.seedNum)
			return name, f.Value
		}
	}
	return b.opts.FISName, b.opts.FISFrequency
}

// isTerminalZone reports whether the airspace is the zone of the departure
// or destination airport.
func (b *builder) isTerminalZone(id string) bool {
	return b.startZone != nil && b.startZone.ID == id || b.endZone != nil && b.endZone.ID == id
}

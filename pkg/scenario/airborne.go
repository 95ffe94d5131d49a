package scenario

import (
	"fmt"

	"github.com/paulmach/orb"

	"rttrainer/pkg/aero"
	"rttrainer/pkg/geo"
	"rttrainer/pkg/model"
	"rttrainer/pkg/seed"
)

// crossing is one boundary event with everything the stage emitters need.
type crossing struct {
	x        geo.Intersection
	airspace *model.Airspace
	pre      model.AircraftPose
	preDist  float64
	boundary model.AircraftPose
}

// buildAirborne turns the boundary crossings into zone change calls. The
// departure and destination zones are covered by the ground phases and are
// skipped here.
func (b *builder) buildAirborne() {
	var xs []geo.Intersection
	for _, x := range b.intersections {
		if !b.isTerminalZone(x.AirspaceID) {
			xs = append(xs, x)
		}
	}

	for i := 0; i < len(xs); i++ {
		x := xs[i]
		as := model.FindAirspace(b.in.Airspaces, x.AirspaceID)
		if as == nil {
			continue
		}

		var next *model.Airspace
		switching := false
		if i+1 < len(xs) && (xs[i+1].DistanceAlongRoute-x.DistanceAlongRoute)/1000 < SwitchingThresholdKm {
			next = model.FindAirspace(b.in.Airspaces, xs[i+1].AirspaceID)
			switching = next != nil
		}
		if switching && next.Name == as.Name {
			// same unit on both sides of the boundary
			i++
			continue
		}

		b.clock = b.lastTime() + b.opts.flightMinutes((x.DistanceAlongRoute-b.lastDist())/1000)
		c := b.crossingAt(x, as)

		if x.Entering {
			b.enterZone(c)
			continue
		}
		nextName, nextFreq := b.opts.FISName, b.opts.FISFrequency
		if switching && xs[i+1].Entering {
			name, f := aero.AirspaceStation(next, b.seedNum)
			nextName, nextFreq = name, f.Value
		}
		b.exitZone(c, nextName, nextFreq)
	}
	b.clock = b.lastTime()
}

func (b *builder) crossingAt(x geo.Intersection, as *model.Airspace) crossing {
	track := geo.Bearing(b.route[x.Segment], b.route[x.Segment+1])
	preDist := x.DistanceAlongRoute - b.opts.PreIntersectionKm*1000
	var prePoint orb.Point
	if preDist <= b.lastDist() {
		preDist = b.lastDist()
		prePoint, _, _ = geo.PointAlongRoute(b.route, preDist)
	} else {
		prePoint = geo.DestinationPoint(x.Point, b.opts.PreIntersectionKm*1000, geo.Reciprocal(track))
	}
	return crossing{
		x:        x,
		airspace: as,
		pre:      b.cruisePose(prePoint, track),
		preDist:  preDist,
		boundary: b.cruisePose(x.Point, track),
	}
}

// exitZone emits the frequency change request when leaving an airspace.
func (b *builder) exitZone(c crossing, nextName, nextFreq string) {
	name, f := aero.AirspaceStation(c.airspace, b.seedNum)
	t := b.clock

	mk := func() model.UpdateData {
		upd := b.update(name, f.Value)
		upd.AirspaceName = c.airspace.Name
		upd.NextTarget = nextName
		upd.NextTargetFrequency = nextFreq
		upd.CurrentContext = fmt.Sprintf("You are about to leave %s. Request a frequency change to %s on %s.", c.airspace.Name, nextName, nextFreq)
		return upd
	}

	first := b.add(model.StageRequestFrequencyChange, c.pre, mk(), t, c.preDist)
	upd := mk()
	upd.CurrentContext = "Acknowledge the frequency change approval."
	b.add(model.StageAcknowledgeApproval, c.pre, upd, t+1, c.preDist)

	b.candidates = append(b.candidates, first)
	b.clock = t + 1
}

// enterZone emits the initial contact, the pass message, the squawk
// readback and the entry clearance readback.
func (b *builder) enterZone(c crossing) {
	name, f := aero.AirspaceStation(c.airspace, b.seedNum)
	squawk := seed.RandomSquawk(b.seedNum, c.airspace.ID)
	qnh := aero.SampleWeather(b.in.Seed, c.airspace.ID).Pressure
	matz := c.airspace.IsMATZ()
	t := b.clock

	mk := func(ctx string) model.UpdateData {
		upd := b.update(name, f.Value)
		upd.AirspaceName = c.airspace.Name
		upd.MATZPenetration = matz
		upd.NextSquawk = squawk
		upd.CurrentContext = ctx
		return upd
	}

	first := b.add(model.StageContactNewFrequency, c.pre,
		mk(fmt.Sprintf("You are approaching %s. Make initial contact with %s on %s.", c.airspace.Name, name, f.Value)),
		t+1, c.preDist)
	passCtx := "Pass your message: aircraft type, route, position, altitude and intentions."
	if matz {
		passCtx = "Pass your message and request MATZ penetration."
	}
	b.add(model.StagePassMessage, c.pre, mk(passCtx), t+2, c.preDist)
	b.add(model.StageSquawk, c.boundary, mk(fmt.Sprintf("Read back the squawk %s.", squawk)), t+2, c.x.DistanceAlongRoute)

	b.squawk = squawk
	b.pressure = qnh
	b.add(model.StageReadbackApproval, c.boundary, mk("Read back the entry clearance."), t+3, c.x.DistanceAlongRoute)

	b.candidates = append(b.candidates, first)
	b.clock = t + 3
}

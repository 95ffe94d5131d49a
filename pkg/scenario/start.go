package scenario

import (
	"fmt"

	"github.com/paulmach/orb"

	"rttrainer/pkg/aero"
	"rttrainer/pkg/geo"
	"rttrainer/pkg/model"
	"rttrainer/pkg/seed"
)

// Minutes after the start time at which each departure call happens.
var (
	startControlledOffsets   = []int{0, 0, 1, 1, 5, 8, 9, 9, 12, 15, 15, 18}
	startUncontrolledOffsets = []int{0, 1, 2, 6, 7, 8, 11}
)

type startPose int

const (
	poseApron startPose = iota
	poseRunway
	poseClimb
	poseZoneExit
)

var (
	startControlledPoses = []startPose{
		poseApron, poseApron, poseApron, poseApron, poseApron,
		poseRunway, poseRunway, poseRunway,
		poseClimb, poseClimb, poseClimb,
		poseZoneExit,
	}
	startUncontrolledPoses = []startPose{
		poseApron, poseApron, poseApron,
		poseRunway, poseRunway, poseRunway,
		poseZoneExit,
	}
)

// zoneExit returns where the aircraft leaves the departure zone and how far
// along the route that is. The zone's own boundary is used when known.
func (b *builder) zoneExit() (orb.Point, float64) {
	if b.startZone != nil {
		for _, x := range b.intersections {
			if x.AirspaceID == b.startZone.ID && !x.Entering {
				return x.Point, x.DistanceAlongRoute
			}
		}
	}
	d := b.opts.ZoneExitDistanceKm * 1000
	if d > b.routeLen {
		d = b.routeLen
	}
	p, _, _ := geo.PointAlongRoute(b.route, d)
	return p, d
}

func (b *builder) buildStart() {
	ap := b.startAirport
	controlled := aero.IsControlled(ap)

	startTime := seed.TimeInMinutes(b.seedNum, b.opts.StartTimeMin, b.opts.StartTimeMax)
	wx := aero.SampleWeather(b.in.Seed, ap.ID)
	rwy := aero.RunwayForWind(ap, wx.WindDirection, true)
	hold := aero.HoldingPoint(b.seedNum, ap.ID)
	threshold := aero.RunwayThreshold(ap, rwy)
	hdg := float64(rwy.TrueHeading)

	parked := aero.ParkedFrequency(ap, b.seedNum)
	parkedName := aero.StationName(ap, parked)
	tower := aero.TowerFrequency(ap, b.seedNum)
	towerName := aero.StationName(ap, tower)
	nextName, nextFreq := b.nextContact()

	exitPos, exitDist := b.zoneExit()
	track := geo.Bearing(b.route[0], b.route[1])

	poses := map[startPose]model.AircraftPose{
		poseApron:  {Position: ap.Location, TrueHeading: hdg, AltitudeFt: ap.ElevationFt},
		poseRunway: {Position: threshold, TrueHeading: hdg, AltitudeFt: ap.ElevationFt},
		poseClimb: {
			Position:    geo.DestinationPoint(threshold, rwy.LengthM+1500, hdg),
			TrueHeading: hdg,
			AltitudeFt:  ap.ElevationFt + b.opts.ClimbAltitudeFt,
			AirspeedKt:  b.opts.ClimbAirspeedKt,
		},
		poseZoneExit: b.cruisePose(exitPos, track),
	}
	dists := map[startPose]float64{poseZoneExit: exitDist}

	stages, offsets, layout := model.StartControlledStages, startControlledOffsets, startControlledPoses
	if !controlled {
		stages, offsets, layout = model.StartUncontrolledStages, startUncontrolledOffsets, startUncontrolledPoses
	}
	squawk := seed.RandomSquawk(b.seedNum, ap.ID)
	short := aero.ShortName(ap.Name)

	for i, stage := range stages {
		target, freq := parkedName, parked.Value
		if controlled && i >= 5 {
			target, freq = towerName, tower.Value
		}
		// departure squawk is given with the departure information and
		// must be set from the taxi request onward
		if controlled && stage == model.StageTaxiRequest {
			b.squawk = squawk
		}
		// ATC abbreviates the callsign in its first reply
		b.modified = i > 0

		upd := b.update(target, freq)
		upd.CurrentPressure = wx.Pressure
		upd.AirportName = short
		upd.Runway = rwy.Designator
		upd.HoldingPoint = hold
		upd.WindDirection = wx.WindDirection
		upd.WindSpeed = wx.WindSpeed
		upd.Temperature = wx.Temperature
		upd.DewPoint = wx.DewPoint
		upd.NextTarget = nextName
		upd.NextTargetFrequency = nextFreq
		if b.startZone != nil {
			upd.AirspaceName = b.startZone.Name
		}
		if controlled {
			upd.NextSquawk = squawk
		}
		upd.CurrentContext = startContext(stage, short, target, freq, rwy.Designator, hold, nextName)

		b.add(stage, poses[layout[i]], upd, float64(startTime+offsets[i]), dists[layout[i]])
	}
	b.clock = b.lastTime()
	b.pressure = wx.Pressure
}

func startContext(stage model.Stage, airport, target, freq, runway, hold, next string) string {
	switch stage {
	case model.StageRadioCheck:
		return fmt.Sprintf("You are parked at %s. Make a radio check with %s on %s.", airport, target, freq)
	case model.StageDepartureInformationRequest:
		return fmt.Sprintf("Request departure information from %s.", target)
	case model.StageReadbackDepartureInformation:
		return "Read back the departure information."
	case model.StageTaxiRequest:
		return fmt.Sprintf("Request taxi for departure from %s.", target)
	case model.StageTaxiClearanceReadback:
		return fmt.Sprintf("Read back the taxi clearance to holding point %s, runway %s.", hold, runway)
	case model.StageReadyForDeparture:
		return fmt.Sprintf("You are at holding point %s. Tell %s you are ready for departure.", hold, target)
	case model.StageReadbackAfterDepartureInformation:
		return "Read back the after departure instructions."
	case model.StageReadbackClearance:
		return "Read back the take off clearance."
	case model.StageReadbackNextContact:
		return fmt.Sprintf("Read back the instruction to contact %s next.", next)
	case model.StageContactNextFrequency:
		return fmt.Sprintf("Request a frequency change to %s.", next)
	case model.StageAcknowledgeNewFrequencyRequest:
		return "Acknowledge the frequency change approval."
	case model.StageReportLeavingZone:
		return "Report leaving the zone."
	case model.StageRequestTaxiInformation:
		return fmt.Sprintf("Request taxi information from %s.", target)
	case model.StageAnnounceTaxiing:
		return fmt.Sprintf("Announce you are taxiing to holding point %s, runway %s.", hold, runway)
	case model.StageAcknowledgeTraffic:
		return "Acknowledge the traffic information."
	case model.StageAnnounceTakingOff:
		return fmt.Sprintf("Announce you are lining up and taking off from runway %s.", runway)
	case model.StageAnnounceLeavingZone:
		return "Announce leaving the zone."
	}
	return ""
}

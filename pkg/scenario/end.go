package scenario

import (
	"fmt"
	"math"

	"rttrainer/pkg/aero"
	"rttrainer/pkg/geo"
	"rttrainer/pkg/model"
	"rttrainer/pkg/seed"
)

// Minutes relative to touchdown for each arrival call.
var (
	endControlledOffsets   = []int{-10, -10, -9, -8, -8, -7, -7, -6, -6, -5, -4, -2, -2, -1, 0, 1, 2}
	endUncontrolledOffsets = []int{-10, -9, -9, -6, -4, -2, 0, 2}
)

type endPose int

const (
	poseJoin endPose = iota
	poseOverhead
	poseFollow
	poseFinal
	poseThreshold
	poseParked
)

var (
	endControlledPoses = []endPose{
		poseJoin, poseJoin, poseJoin, poseJoin, poseJoin, poseJoin, poseJoin,
		poseFollow, poseFollow, poseFollow, poseFollow,
		poseFinal, poseFinal, poseFinal,
		poseThreshold, poseThreshold,
		poseParked,
	}
	endUncontrolledPoses = []endPose{
		poseJoin, poseJoin, poseJoin,
		poseOverhead, poseFollow, poseFinal, poseThreshold, poseParked,
	}
)

// Approach offsets in km before the threshold, their jitter and the
// heights above the airport flown at each.
const (
	joinKm          = 16.0
	joinJitterKm    = 1.0
	followKm        = 7.0
	followJitterKm  = 0.5
	finalKm         = 4.0
	finalJitterKm   = 0.3
	thresholdKm     = 0.05
	overheadKm      = 8.0
	joinAltitudeFt  = 2000.0
	followAltFt     = 1000.0
	finalAltitudeFt = 500.0
	thresholdFt     = 50.0
)

func (b *builder) buildEnd() {
	ap := b.endAirport
	controlled := aero.IsControlled(ap)

	wx := aero.SampleWeather(b.in.Seed, ap.ID)
	rwy := aero.RunwayForWind(ap, wx.WindDirection, false)
	threshold := aero.RunwayThreshold(ap, rwy)
	hdg := float64(rwy.TrueHeading)
	back := geo.Reciprocal(hdg)
	r := seed.NewRand(b.seedNum, ap.ID+"/arrival")

	remainingKm := math.Max(b.routeLen-b.lastDist(), 0) / 1000
	landing := b.lastTime() + b.opts.flightMinutes(remainingKm) + float64(b.opts.ArrivalBufferMin)

	approachAt := func(km, alt, speed float64) model.AircraftPose {
		return model.AircraftPose{
			Position:    geo.DestinationPoint(threshold, km*1000, back),
			TrueHeading: hdg,
			AltitudeFt:  ap.ElevationFt + alt,
			AirspeedKt:  speed,
		}
	}
	join := r.Jitter(joinKm, joinJitterKm)
	follow := r.Jitter(followKm, followJitterKm)
	final := r.Jitter(finalKm, finalJitterKm)

	poses := map[endPose]model.AircraftPose{
		poseJoin:      approachAt(join, joinAltitudeFt, b.opts.CruiseAirspeedKt),
		poseOverhead:  {Position: ap.Location, TrueHeading: hdg, AltitudeFt: ap.ElevationFt + joinAltitudeFt, AirspeedKt: b.opts.CruiseAirspeedKt},
		poseFollow:    approachAt(follow, followAltFt, 80),
		poseFinal:     approachAt(final, finalAltitudeFt, 70),
		poseThreshold: approachAt(thresholdKm, thresholdFt, 60),
		poseParked:    {Position: ap.Location, TrueHeading: hdg, AltitudeFt: ap.ElevationFt},
	}
	dists := map[endPose]float64{
		poseJoin:      b.routeLen - join*1000,
		poseOverhead:  b.routeLen - overheadKm*1000,
		poseFollow:    b.routeLen - follow*1000,
		poseFinal:     b.routeLen - final*1000,
		poseThreshold: b.routeLen - thresholdKm*1000,
		poseParked:    b.routeLen,
	}

	stages, offsets, layout := model.EndControlledStages, endControlledOffsets, endControlledPoses
	if !controlled {
		stages, offsets, layout = model.EndUncontrolledStages, endUncontrolledOffsets, endUncontrolledPoses
	}

	approach := aero.ApproachFrequency(ap, b.seedNum)
	approachName := aero.StationName(ap, approach)
	tower := aero.TowerFrequency(ap, b.seedNum)
	towerName := aero.StationName(ap, tower)
	short := aero.ShortName(ap.Name)
	circuit := aero.CircuitDirection(b.seedNum, ap.ID)
	taxiway := aero.HoldingPoint(b.seedNum, ap.ID+"/vacate")

	b.pressure = wx.Pressure
	for i, stage := range stages {
		target, freq := approachName, approach.Value
		if !controlled {
			target, freq = towerName, tower.Value
		} else if i >= 5 {
			target, freq = towerName, tower.Value
		}
		if controlled && stage == model.StageReadbackOverheadJoinClearance {
			b.modified = true
		}

		upd := b.update(target, freq)
		upd.AirportName = short
		upd.Runway = rwy.Designator
		upd.HoldingPoint = taxiway
		upd.CircuitDirection = circuit
		upd.WindDirection = wx.WindDirection
		upd.WindSpeed = wx.WindSpeed
		upd.Temperature = wx.Temperature
		upd.DewPoint = wx.DewPoint
		if b.endZone != nil {
			upd.AirspaceName = b.endZone.Name
		}
		if controlled && stage == model.StageContactTower {
			upd.NextTarget, upd.NextTargetFrequency = towerName, tower.Value
		}
		upd.CurrentContext = endContext(stage, short, target, freq, rwy.Designator, circuit)

		p := layout[i]
		b.add(stage, poses[p], upd, landing+float64(offsets[i]), dists[p])
	}
	b.clock = b.lastTime()
}

func endContext(stage model.Stage, airport, target, freq, runway, circuit string) string {
	switch stage {
	case model.StageRequestJoin:
		return fmt.Sprintf("You are approaching %s. Call %s on %s and request to join.", airport, target, freq)
	case model.StageReportDetails:
		return "Pass your details: aircraft type, position, altitude and intentions."
	case model.StageReadbackOverheadJoinClearance:
		return "Read back the overhead join clearance."
	case model.StageReportAirportInSight:
		return fmt.Sprintf("Report %s in sight.", airport)
	case model.StageContactTower:
		return "Read back the instruction to contact the tower."
	case model.StageReportStatus:
		return fmt.Sprintf("Call %s on %s and report your position and intentions.", target, freq)
	case model.StageReadbackLandingInformation:
		return "Read back the landing information."
	case model.StageReportDescending:
		return "Report descending on the dead side."
	case model.StageWilcoReportDownwind:
		return "Acknowledge the instruction to report downwind."
	case model.StageReportDownwind:
		return fmt.Sprintf("Report downwind for runway %s.", runway)
	case model.StageWilcoFollowTraffic:
		return "Acknowledge the instruction to follow traffic."
	case model.StageReportFinal:
		return fmt.Sprintf("Report final for runway %s.", runway)
	case model.StageReadbackContinueApproach:
		return "Read back the instruction to continue the approach."
	case model.StageReadbackLandingClearance:
		return "Read back the landing clearance."
	case model.StageReadbackVacateRunwayRequest:
		return "Read back the vacate instruction."
	case model.StageReportVacatedRunway:
		return "Report runway vacated."
	case model.StageReadbackTaxiInformation:
		return "Read back the taxi instructions."
	case model.StageRequestAirfieldInformation:
		return fmt.Sprintf("Call %s on %s and request airfield information.", target, freq)
	case model.StageReportArrivalDetails:
		return "Pass your arrival details."
	case model.StageReadbackAirfieldInformation:
		return "Read back the airfield information."
	case model.StageAnnounceOverhead:
		return fmt.Sprintf("Announce overhead %s at 2000 feet.", airport)
	case model.StageAnnounceDownwind:
		return fmt.Sprintf("Announce downwind %s for runway %s.", circuit, runway)
	case model.StageAnnounceFinal:
		return fmt.Sprintf("Announce final for runway %s.", runway)
	case model.StageAnnounceVacatedRunway:
		return "Announce runway vacated."
	case model.StageAnnounceTaxiingToParking:
		return "Announce taxiing to parking."
	}
	return ""
}

package scenario

import (
	"fmt"

	"rttrainer/pkg/geo"
	"rttrainer/pkg/model"
	"rttrainer/pkg/seed"
)

// Minutes after the emergency begins for each PAN-PAN call.
var emergencyOffsets = []int{0, 1, 4}

// spliceEmergency inserts the PAN-PAN sequence before one of the airborne
// candidate points. The position and time are interpolated between the
// candidate and the point before it. Later points are shifted so time
// never goes backwards.
func (b *builder) spliceEmergency() {
	if len(b.candidates) == 0 {
		return
	}
	ci := b.candidates[int(b.seedNum%uint32(len(b.candidates)))]
	etype := model.EmergencyTypes[int(b.seedNum%uint32(len(model.EmergencyTypes)-1))+1]
	frac := seed.NewRand(b.seedNum, "emergency").Between(0.05, 0.90)

	cand := b.points[ci]
	var prevPose model.AircraftPose
	var prevTime int
	var prevDist float64
	var prevUpd model.UpdateData
	if ci > 0 {
		prev := b.points[ci-1]
		prevPose, prevTime, prevDist, prevUpd = prev.Pose, prev.TimeAtPoint, prev.DistanceAlongRoute, prev.UpdateData
	} else {
		prevPose = b.cruisePose(b.route[0], geo.Bearing(b.route[0], b.route[1]))
		prevTime, prevDist = cand.TimeAtPoint, 0
		prevUpd = b.update(b.opts.FISName, b.opts.FISFrequency)
	}

	pos := geo.Interpolate(prevPose.Position, cand.Pose.Position, frac)
	at := prevTime + int(frac*float64(cand.TimeAtPoint-prevTime))
	dist := prevDist + frac*(cand.DistanceAlongRoute-prevDist)
	pose := b.cruisePose(pos, geo.Bearing(prevPose.Position, cand.Pose.Position))
	if prevPose.Position == cand.Pose.Position {
		pose.TrueHeading = cand.Pose.TrueHeading
	}

	// the emergency is declared to whoever the aircraft is talking to
	upd := prevUpd
	upd.Emergency = etype
	upd.NextTarget, upd.NextTargetFrequency, upd.NextSquawk = "", "", ""
	upd.MATZPenetration = false

	contexts := []string{
		fmt.Sprintf("You have a %s. Declare a PAN-PAN to %s.", etype, upd.CurrentTarget),
		"Acknowledge the instructions.",
		"The problem has resolved itself. Cancel the PAN-PAN.",
	}

	inserted := make([]model.ScenarioPoint, len(model.EmergencyStages))
	for i, stage := range model.EmergencyStages {
		u := upd
		u.CurrentContext = contexts[i]
		inserted[i] = model.ScenarioPoint{
			Stage:              stage,
			Pose:               pose,
			UpdateData:         u,
			NextWaypointIndex:  b.nextWaypoint(dist),
			TimeAtPoint:        at + emergencyOffsets[i],
			DistanceAlongRoute: dist,
		}
	}

	shift := inserted[len(inserted)-1].TimeAtPoint - cand.TimeAtPoint
	rest := make([]model.ScenarioPoint, len(b.points)-ci)
	copy(rest, b.points[ci:])
	if shift > 0 {
		for i := range rest {
			rest[i].TimeAtPoint += shift
		}
	}

	b.points = append(append(b.points[:ci], inserted...), rest...)
	for i := range b.points {
		b.points[i].Index = i
	}
	b.clock = b.lastTime()
}

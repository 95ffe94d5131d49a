package radiocall

import (
	"fmt"
	"math"

	"rttrainer/pkg/model"
	"rttrainer/pkg/phraseology"
)

// defaultDepartureAltitudeFt is used when the timeline has no zone exit.
const defaultDepartureAltitudeFt = 2000

// altitude rounds the point's altitude to the nearest hundred feet.
func altitude(p *model.ScenarioPoint) int {
	return int(math.Round(p.Pose.AltitudeFt/100) * 100)
}

// spokenQNH is the pilot's form of the pressure setting.
func spokenQNH(hpa int) string {
	s := "QNH " + phraseology.SayPressure(hpa)
	if hpa < 1000 {
		s += " hectopascals"
	}
	return s
}

func atcQNH(hpa int) string {
	return fmt.Sprintf("QNH %d", hpa)
}

func atcWind(u *model.UpdateData) string {
	return fmt.Sprintf("wind %03d degrees %d knots", u.WindDirection, u.WindSpeed)
}

func spokenRunway(designator string) string {
	return "runway " + phraseology.SayRunway(designator)
}

func spokenFrequency(freq string) string {
	return phraseology.SayFrequency(freq)
}

// departureAltitude is the altitude the aircraft leaves the zone at.
func (c *Call) departureAltitude() int {
	for i := c.ctx.Index; i < len(c.ctx.Points); i++ {
		switch c.ctx.Points[i].Stage {
		case model.StageReportLeavingZone, model.StageAnnounceLeavingZone:
			return altitude(&c.ctx.Points[i])
		}
	}
	return defaultDepartureAltitudeFt
}

// destination is the name of the last waypoint.
func (c *Call) destination() string {
	if n := len(c.ctx.Waypoints); n > 0 {
		return c.ctx.Waypoints[n-1].Name
	}
	return ""
}

// departure is the name of the first waypoint.
func (c *Call) departure() string {
	if len(c.ctx.Waypoints) > 0 {
		return c.ctx.Waypoints[0].Name
	}
	return ""
}

// initialCall checks the opening of a call: station, then callsign.
func (c *Call) initialCall() {
	c.AssertStartsWithTarget()
	c.AssertCallsign()
	c.AssertInOrder("Say the station you are calling before your callsign.", model.SeverityMinor,
		c.upd().CurrentTarget, c.Callsign())
}

// atc prefixes a reply with the callsign as ATC uses it.
func (c *Call) atc(parts ...string) string {
	return Join(append([]string{c.ATCCallsign()}, parts...)...)
}

// atcStation is a reply that identifies the station, as in an initial
// contact.
func (c *Call) atcStation(parts ...string) string {
	return Join(append([]string{c.ATCCallsign(), c.upd().CurrentTarget}, parts...)...)
}

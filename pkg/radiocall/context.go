// Package radiocall validates a trainee's radio call against the
// phraseology expected at the current scenario point and produces the
// ATC reply and the canonical call.
package radiocall

import (
	"fmt"
	"math"

	"rttrainer/pkg/geo"
	"rttrainer/pkg/model"
	"rttrainer/pkg/phraseology"
)

// Context is everything a parse needs. It is passed by value and never
// mutated by the parser.
type Context struct {
	Points       []model.ScenarioPoint
	Index        int
	Waypoints    []model.Waypoint
	Callsign     string
	Prefix       string
	AircraftType string
}

// Current returns the scenario point the call is made at.
func (c Context) Current() (*model.ScenarioPoint, error) {
	return model.PointAt(c.Points, c.Index)
}

// Next returns the point after the current one, or nil at the end of the
// timeline.
func (c Context) Next() *model.ScenarioPoint {
	if c.Index+1 < len(c.Points) {
		return &c.Points[c.Index+1]
	}
	return nil
}

// NextWaypoint returns the waypoint the aircraft is heading to at the
// current point.
func (c Context) NextWaypoint() (*model.Waypoint, error) {
	p, err := c.Current()
	if err != nil {
		return nil, err
	}
	return model.WaypointAt(c.Waypoints, p.NextWaypointIndex)
}

var cardinals = []string{"north", "north east", "east", "south east", "south", "south west", "west", "north west"}

// Position describes the aircraft relative to the waypoint it is heading
// to, e.g. "five miles south west of Banbury". Inside one mile it is
// "overhead Banbury".
func (c Context) Position() (string, error) {
	p, err := c.Current()
	if err != nil {
		return "", err
	}
	wp, err := c.NextWaypoint()
	if err != nil {
		return "", err
	}
	nm := geo.Distance(wp.Location, p.Pose.Position) / 1852
	if nm < 1 {
		return "overhead " + wp.Name, nil
	}
	brg := geo.Bearing(wp.Location, p.Pose.Position)
	dir := cardinals[int(math.Round(brg/45))%len(cardinals)]
	return fmt.Sprintf("%s miles %s of %s", phraseology.SayDigits(fmt.Sprint(int(math.Round(nm)))), dir, wp.Name), nil
}

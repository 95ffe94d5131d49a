package model

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// ErrUnresolvedReference indicates a lookup expected a waypoint, airspace,
// airport or scenario point that does not exist at the requested position.
var ErrUnresolvedReference = errors.New("unresolved reference")

// EmergencyType is the problem declared in a PAN-PAN call.
type EmergencyType string

const (
	EmergencyNone               EmergencyType = ""
	EmergencyRoughRunningEngine EmergencyType = "rough running engine"
	EmergencyLowOilPressure     EmergencyType = "low oil pressure"
	EmergencyUnwellPassenger    EmergencyType = "unwell passenger"
)

// EmergencyTypes lists all emergency types; index 0 is EmergencyNone.
var EmergencyTypes = []EmergencyType{
	EmergencyNone,
	EmergencyRoughRunningEngine,
	EmergencyLowOilPressure,
	EmergencyUnwellPassenger,
}

// AircraftPose is the kinematic state of the aircraft at a scenario point.
type AircraftPose struct {
	Position    orb.Point `json:"position"` // lon, lat
	TrueHeading float64   `json:"true_heading"`
	AltitudeFt  float64   `json:"altitude_ft"`
	AirspeedKt  float64   `json:"airspeed_kt"`
}

// UpdateData is the context a scenario point carries by value so it can be
// rendered and parsed without the reference data it was derived from.
type UpdateData struct {
	CurrentTarget               string        `json:"current_target"`
	CurrentTargetFrequency      string        `json:"current_target_frequency"`
	CurrentTransponderFrequency string        `json:"current_transponder_frequency"`
	CurrentPressure             int           `json:"current_pressure"`
	Emergency                   EmergencyType `json:"emergency,omitempty"`
	CallsignModified            bool          `json:"callsign_modified"`
	CurrentContext              string        `json:"current_context"`

	NextTarget          string `json:"next_target,omitempty"`
	NextTargetFrequency string `json:"next_target_frequency,omitempty"`
	NextSquawk          string `json:"next_squawk,omitempty"`

	AirportName      string `json:"airport_name,omitempty"`
	AirspaceName     string `json:"airspace_name,omitempty"`
	Runway           string `json:"runway,omitempty"`
	HoldingPoint     string `json:"holding_point,omitempty"`
	CircuitDirection string `json:"circuit_direction,omitempty"`
	WindDirection    int    `json:"wind_direction"`
	WindSpeed        int    `json:"wind_speed"`
	Temperature      int    `json:"temperature"`
	DewPoint         int    `json:"dew_point"`
	MATZPenetration  bool   `json:"matz_penetration,omitempty"`
}

// ScenarioPoint is one radio call opportunity on the timeline.
type ScenarioPoint struct {
	Index              int          `json:"index"`
	Stage              Stage        `json:"stage"`
	Pose               AircraftPose `json:"pose"`
	UpdateData         UpdateData   `json:"update_data"`
	NextWaypointIndex  int          `json:"next_waypoint_index"`
	TimeAtPoint        int          `json:"time_at_point"` // minutes from midnight
	DistanceAlongRoute float64      `json:"distance_along_route"`
}

// PointAt returns points[i] or ErrUnresolvedReference.
func PointAt(points []ScenarioPoint, i int) (*ScenarioPoint, error) {
	if i < 0 || i >= len(points) {
		return nil, fmt.Errorf("scenario point %d of %d: %w", i, len(points), ErrUnresolvedReference)
	}
	return &points[i], nil
}

// WaypointAt returns waypoints[i] or ErrUnresolvedReference.
func WaypointAt(waypoints []Waypoint, i int) (*Waypoint, error) {
	if i < 0 || i >= len(waypoints) {
		return nil, fmt.Errorf("waypoint %d of %d: %w", i, len(waypoints), ErrUnresolvedReference)
	}
	return &waypoints[i], nil
}

// FormatTime renders minutes from midnight as HH:MM.
func FormatTime(minutes int) string {
	m := ((minutes % 1440) + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

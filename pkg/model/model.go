// Package model holds the shared data model of the scenario generator and
// the radio call parser: route waypoints, aeronautical reference data and the
// generated scenario timeline.
package model

import (
	"github.com/paulmach/orb"
)

// WaypointType classifies a route waypoint.
type WaypointType int

const (
	WaypointAirport WaypointType = iota
	WaypointGPS
	WaypointNewAirspace
	WaypointNDB
	WaypointVOR
	WaypointDME
	WaypointFix
	WaypointIntersection
	WaypointEmergency
)

func (t WaypointType) String() string {
	switch t {
	case WaypointAirport:
		return "airport"
	case WaypointGPS:
		return "gps"
	case WaypointNewAirspace:
		return "new_airspace"
	case WaypointNDB:
		return "ndb"
	case WaypointVOR:
		return "vor"
	case WaypointDME:
		return "dme"
	case WaypointFix:
		return "fix"
	case WaypointIntersection:
		return "intersection"
	case WaypointEmergency:
		return "emergency"
	default:
		return "unknown"
	}
}

// Waypoint is a named point on the route. Index is the position in the
// ordered route and is kept dense (0..N-1) by the route editing helpers.
type Waypoint struct {
	ID                string       `json:"id"`
	Type              WaypointType `json:"type"`
	Location          orb.Point    `json:"location"` // lon, lat
	Index             int          `json:"index"`
	Name              string       `json:"name"`
	ReferenceObjectID string       `json:"reference_object_id,omitempty"`
}

// Airport types, numbered as the upstream open aeronautical data set numbers them.
const (
	AirportTypeCivilMilitary = 0
	AirportTypeGliderSite    = 1
	AirportTypeCivilAirfield = 2
	AirportTypeInternational = 3
	AirportTypeHeliMilitary  = 4
	AirportTypeMilitary      = 5
	AirportTypeUltralight    = 6
	AirportTypeHeliCivil     = 7
	AirportTypeClosed        = 8
	AirportTypeIFR           = 9
	AirportTypeWater         = 10
	AirportTypeLandingStrip  = 11
	AirportTypeAgricultural  = 12
	AirportTypeAltiport      = 13
)

// FrequencyType classifies an ATC frequency.
type FrequencyType int

const (
	FrequencyApproach    FrequencyType = 0
	FrequencyApron       FrequencyType = 1
	FrequencyArrival     FrequencyType = 2
	FrequencyCenter      FrequencyType = 3
	FrequencyCTAF        FrequencyType = 4
	FrequencyDelivery    FrequencyType = 5
	FrequencyDeparture   FrequencyType = 6
	FrequencyFIS         FrequencyType = 7
	FrequencyGliding     FrequencyType = 8
	FrequencyGround      FrequencyType = 9
	FrequencyInformation FrequencyType = 10
	FrequencyMulticom    FrequencyType = 11
	FrequencyUnicom      FrequencyType = 12
	FrequencyRadar       FrequencyType = 13
	FrequencyTower       FrequencyType = 14
	FrequencyATIS        FrequencyType = 15
	FrequencyAirGround   FrequencyType = 16
	FrequencyOther       FrequencyType = 17
	FrequencyAFIS        FrequencyType = 22
)

// Label returns the callsign suffix a unit on this frequency answers to,
// e.g. "Tower" for "Wellesbourne Tower".
func (t FrequencyType) Label() string {
	switch t {
	case FrequencyApproach, FrequencyArrival:
		return "Approach"
	case FrequencyApron:
		return "Apron"
	case FrequencyCenter:
		return "Control"
	case FrequencyDelivery:
		return "Delivery"
	case FrequencyDeparture:
		return "Departure"
	case FrequencyGround:
		return "Ground"
	case FrequencyInformation, FrequencyFIS, FrequencyAFIS:
		return "Information"
	case FrequencyRadar:
		return "Radar"
	case FrequencyTower:
		return "Tower"
	case FrequencyATIS:
		return "ATIS"
	case FrequencyAirGround:
		return "Radio"
	default:
		return "Radio"
	}
}

// Frequency is a named radio frequency ("XXX.XXX" MHz).
type Frequency struct {
	Value   string        `json:"value"`
	Type    FrequencyType `json:"type"`
	Name    string        `json:"name,omitempty"`
	Primary bool          `json:"primary,omitempty"`
}

// Runway is one landing/takeoff direction of an airport runway.
type Runway struct {
	Designator  string     `json:"designator"`
	TrueHeading int        `json:"true_heading"`
	LengthM     float64    `json:"length_m"`
	TakeOffOnly bool       `json:"take_off_only,omitempty"`
	LandingOnly bool       `json:"landing_only,omitempty"`
	MainRunway  bool       `json:"main_runway,omitempty"`
	Threshold   *orb.Point `json:"threshold,omitempty"`
}

// Airport is immutable reference data loaded once per session.
type Airport struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	ICAOCode    string      `json:"icao_code,omitempty"`
	Type        int         `json:"type"`
	Location    orb.Point   `json:"location"`
	ElevationFt float64     `json:"elevation_ft"`
	Runways     []Runway    `json:"runways"`
	Frequencies []Frequency `json:"frequencies"`
}

// Airspace types used by the generator and parser.
const (
	AirspaceTypeCTR  = 4
	AirspaceTypeATZ  = 13
	AirspaceTypeMATZ = 14
)

// LimitUnit is the unit of an airspace vertical limit.
type LimitUnit int

const (
	UnitMeters      LimitUnit = 0
	UnitFeet        LimitUnit = 1
	UnitFlightLevel LimitUnit = 6
)

// VerticalLimit is one vertical bound of an airspace.
type VerticalLimit struct {
	Value          float64   `json:"value"`
	Unit           LimitUnit `json:"unit"`
	ReferenceDatum int       `json:"reference_datum"`
}

// Airspace is immutable reference data loaded once per session.
type Airspace struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Type        int           `json:"type"`
	ICAOClass   int           `json:"icao_class"`
	Geometry    orb.Polygon   `json:"geometry"`
	LowerLimit  VerticalLimit `json:"lower_limit"`
	UpperLimit  VerticalLimit `json:"upper_limit"`
	Controlled  bool          `json:"controlled,omitempty"`
	OnDemand    bool          `json:"on_demand,omitempty"`
	OnRequest   bool          `json:"on_request,omitempty"`
	ByNotam     bool          `json:"by_notam,omitempty"`
	Frequencies []Frequency   `json:"frequencies,omitempty"`
}

// IsMATZ reports whether the airspace is a Military Aerodrome Traffic Zone.
func (a *Airspace) IsMATZ() bool {
	return a.Type == AirspaceTypeMATZ
}

// FindAirport returns the airport with the given id, or nil.
func FindAirport(airports []Airport, id string) *Airport {
	if id == "" {
		return nil
	}
	for i := range airports {
		if airports[i].ID == id {
			return &airports[i]
		}
	}
	return nil
}

// FindAirspace returns the airspace with the given id, or nil.
func FindAirspace(airspaces []Airspace, id string) *Airspace {
	if id == "" {
		return nil
	}
	for i := range airspaces {
		if airspaces[i].ID == id {
			return &airspaces[i]
		}
	}
	return nil
}

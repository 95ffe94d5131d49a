package scenario

// UncontrolledZoneExitDistanceKm is how far along the initial route bearing
// the aircraft reports leaving the zone of a departure airport without a
// zone airspace.
const UncontrolledZoneExitDistanceKm = 4.0

// Timeline pacing.
const (
	AircraftAverageSpeedKmPerMin = 3.75
	FlightTimeMultiplier         = 1.3
	PreIntersectionKm            = 0.5
	SwitchingThresholdKm         = 0.01
	ArrivalBufferMin             = 10
)

// Options tunes scenario generation. The zero value is not useful, start
// from DefaultOptions.
type Options struct {
	StartTimeMin int // minutes from midnight, inclusive
	StartTimeMax int // exclusive

	CruiseAltitudeFt float64
	CruiseAirspeedKt float64
	ClimbAltitudeFt  float64
	ClimbAirspeedKt  float64

	AverageSpeedKmPerMin float64
	FlightTimeMultiplier float64
	ZoneExitDistanceKm   float64
	PreIntersectionKm    float64
	ArrivalBufferMin     int
	MaxFlightLevel       float64

	// FIS is called when leaving controlled airspace with nothing else
	// to contact.
	FISName      string
	FISFrequency string

	// Conspicuity code set before any squawk is assigned.
	ConspicuitySquawk string
}

// DefaultOptions returns the standard pacing and UK defaults.
func DefaultOptions() Options {
	return Options{
		StartTimeMin:         9 * 60,
		StartTimeMax:         16 * 60,
		CruiseAltitudeFt:     2000,
		CruiseAirspeedKt:     100,
		ClimbAltitudeFt:      1200,
		ClimbAirspeedKt:      70,
		AverageSpeedKmPerMin: AircraftAverageSpeedKmPerMin,
		FlightTimeMultiplier: FlightTimeMultiplier,
		ZoneExitDistanceKm:   UncontrolledZoneExitDistanceKm,
		PreIntersectionKm:    PreIntersectionKm,
		ArrivalBufferMin:     ArrivalBufferMin,
		MaxFlightLevel:       30,
		FISName:              "London Information",
		FISFrequency:         "124.600",
		ConspicuitySquawk:    "7000",
	}
}

// flightMinutes converts a leg length to elapsed minutes.
func (o Options) flightMinutes(km float64) float64 {
	if o.AverageSpeedKmPerMin <= 0 {
		return 0
	}
	return km / o.AverageSpeedKmPerMin * o.FlightTimeMultiplier
}

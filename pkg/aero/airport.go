// Package aero derives operational facts from airport and airspace records:
// who to call, on what frequency, which runway is in use and what the
// weather is doing.
package aero

import (
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"

	"rttrainer/pkg/geo"
	"rttrainer/pkg/model"
	"rttrainer/pkg/seed"
)

// IsControlled reports whether the airport has a tower or approach service.
func IsControlled(a *model.Airport) bool {
	return a.Type == model.AirportTypeInternational || a.Type == model.AirportTypeIFR
}

// FrequencyByType returns the first frequency of the first listed type the
// airport publishes, or nil.
func FrequencyByType(freqs []model.Frequency, types ...model.FrequencyType) *model.Frequency {
	for _, t := range types {
		for i := range freqs {
			if freqs[i].Type == t {
				return &freqs[i]
			}
		}
	}
	return nil
}

// parkedPriority is the order in which a parked aircraft picks its first
// contact.
var parkedPriority = []model.FrequencyType{
	model.FrequencyGround,
	model.FrequencyTower,
	model.FrequencyInformation,
	model.FrequencyAFIS,
	model.FrequencyAirGround,
}

// ParkedFrequency returns the first frequency a parked aircraft calls.
// Airports without any usable frequency get a seeded synthetic one so every
// airport resolves to some contact.
func ParkedFrequency(a *model.Airport, seedNum uint32) model.Frequency {
	if f := FrequencyByType(a.Frequencies, parkedPriority...); f != nil {
		return *f
	}
	t := model.FrequencyAirGround
	if IsControlled(a) {
		t = model.FrequencyTower
	}
	return model.Frequency{
		Value: seed.RandomFrequency(seedNum, a.ID),
		Type:  t,
		Name:  a.Name,
	}
}

// TowerFrequency returns the frequency used from the holding point onward.
// Airports without a tower fall back to the parked frequency.
func TowerFrequency(a *model.Airport, seedNum uint32) model.Frequency {
	if f := FrequencyByType(a.Frequencies, model.FrequencyTower); f != nil {
		return *f
	}
	if IsControlled(a) {
		return model.Frequency{
			Value: seed.RandomFrequency(seedNum, a.ID+"/twr"),
			Type:  model.FrequencyTower,
			Name:  a.Name,
		}
	}
	return ParkedFrequency(a, seedNum)
}

// ApproachFrequency returns the frequency an inbound aircraft first calls.
func ApproachFrequency(a *model.Airport, seedNum uint32) model.Frequency {
	if f := FrequencyByType(a.Frequencies, model.FrequencyApproach, model.FrequencyRadar, model.FrequencyArrival); f != nil {
		return *f
	}
	if IsControlled(a) {
		return model.Frequency{
			Value: seed.RandomFrequency(seedNum, a.ID+"/app"),
			Type:  model.FrequencyApproach,
			Name:  a.Name,
		}
	}
	return ParkedFrequency(a, seedNum)
}

var nameSuffixes = []string{" Airport", " Aerodrome", " Airfield", " Aeroclub", " Airstrip", " Heliport"}

// ShortName strips the trailing facility word from an airport name, so
// "Wellesbourne Mountford Airfield" becomes "Wellesbourne Mountford".
func ShortName(name string) string {
	name = strings.TrimSpace(name)
	for _, s := range nameSuffixes {
		if strings.HasSuffix(strings.ToLower(name), strings.ToLower(s)) {
			return strings.TrimSpace(name[:len(name)-len(s)])
		}
	}
	return name
}

// StationName is the callsign of the unit on the given frequency, e.g.
// "Wellesbourne Information".
func StationName(a *model.Airport, f model.Frequency) string {
	return ShortName(a.Name) + " " + f.Type.Label()
}

// RunwayForWind returns the runway most into wind. takeoff selects runways
// usable for departure, otherwise for landing. Airports without runway data
// get a synthetic runway aligned with the wind.
func RunwayForWind(a *model.Airport, windDirection int, takeoff bool) model.Runway {
	best := -1
	bestDiff := math.MaxFloat64
	for i, r := range a.Runways {
		if takeoff && r.LandingOnly || !takeoff && r.TakeOffOnly {
			continue
		}
		diff := math.Abs(geo.NormalizeAngle(float64(r.TrueHeading - windDirection)))
		if diff < bestDiff || diff == bestDiff && r.MainRunway && !a.Runways[best].MainRunway {
			best, bestDiff = i, diff
		}
	}
	if best >= 0 {
		return a.Runways[best]
	}
	hdg := int(math.Round(geo.NormalizeBearing(float64(windDirection))/10)) * 10
	if hdg == 0 {
		hdg = 360
	}
	return model.Runway{
		Designator:  RunwayDesignator(hdg),
		TrueHeading: hdg % 360,
		MainRunway:  true,
	}
}

// RunwayDesignator turns a heading into a two digit runway number.
func RunwayDesignator(heading int) string {
	n := int(math.Round(float64(heading)/10)) % 36
	if n <= 0 {
		n += 36
	}
	return fmt.Sprintf("%02d", n)
}

// HoldingPoint returns a seeded holding point name such as "A1".
func HoldingPoint(seedNum uint32, airportID string) string {
	r := seed.NewRand(seedNum, airportID+"/hold")
	return fmt.Sprintf("%c%d", 'A'+r.Intn(4), 1+r.Intn(3))
}

// CircuitDirection returns "left hand" or "right hand" for the airport.
func CircuitDirection(seedNum uint32, airportID string) string {
	if seed.Mix(seedNum, airportID+"/circuit")%2 == 0 {
		return "left hand"
	}
	return "right hand"
}

// RunwayThreshold returns the threshold position, estimating it from the
// airport point and runway length when the record has none.
func RunwayThreshold(a *model.Airport, r model.Runway) orb.Point {
	if r.Threshold != nil {
		return *r.Threshold
	}
	return geo.DestinationPoint(a.Location, r.LengthM/2, geo.Reciprocal(float64(r.TrueHeading)))
}

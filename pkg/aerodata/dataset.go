// Package aerodata loads the airport and airspace reference data the
// scenario generator runs on, from files or from the OpenAIP API, and
// keeps a compressed copy in the blob cache.
package aerodata

import (
	"errors"
	"fmt"
	"time"

	"rttrainer/pkg/aero"
	"rttrainer/pkg/model"
)

// ErrDataAvailability means the source returned too little data to
// generate plausible scenarios.
var ErrDataAvailability = errors.New("aeronautical data unavailable")

// Dataset is one consistent snapshot of reference data.
type Dataset struct {
	Version   string           `json:"version" msgpack:"version"`
	FetchedAt time.Time        `json:"fetched_at" msgpack:"fetched_at"`
	Airports  []model.Airport  `json:"airports" msgpack:"airports"`
	Airspaces []model.Airspace `json:"airspaces" msgpack:"airspaces"`

	Zones aero.ZoneIndex `json:"-" msgpack:"-"`
}

func versionOf(fetched time.Time, airports, airspaces int) string {
	return fmt.Sprintf("%s-%d-%d", fetched.UTC().Format("20060102T1504"), airports, airspaces)
}

// Airport returns the airport with the given id, or nil.
func (d *Dataset) Airport(id string) *model.Airport {
	return model.FindAirport(d.Airports, id)
}

// Airspace returns the airspace with the given id, or nil.
func (d *Dataset) Airspace(id string) *model.Airspace {
	return model.FindAirspace(d.Airspaces, id)
}

// Check enforces the plausibility thresholds.
func (d *Dataset) Check(minAirports, minAirspaces int) error {
	if len(d.Airports) < minAirports || len(d.Airspaces) < minAirspaces {
		return fmt.Errorf("%w: %d airports (need %d), %d airspaces (need %d)",
			ErrDataAvailability, len(d.Airports), minAirports, len(d.Airspaces), minAirspaces)
	}
	return nil
}

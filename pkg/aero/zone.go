package aero

import (
	"fmt"
	"sort"
	"strings"

	"rttrainer/pkg/geo"
	"rttrainer/pkg/model"
	"rttrainer/pkg/seed"
)

// ZoneIndex maps an airport id to the id of the airspace forming its zone.
// It is built once when reference data is loaded.
type ZoneIndex map[string]string

// NewZoneIndex associates every airport with its zone. Explicit entries win.
// Otherwise the CTR, ATZ or MATZ containing the airport is used, preferring
// the lowest base and then the smallest id. Explicit entries naming an
// unknown airspace are an error.
func NewZoneIndex(airports []model.Airport, airspaces []model.Airspace, explicit map[string]string) (ZoneIndex, error) {
	idx := make(ZoneIndex, len(airports))
	for apID, asID := range explicit {
		if model.FindAirspace(airspaces, asID) == nil {
			return nil, fmt.Errorf("zone for airport %s: airspace %s: %w", apID, asID, model.ErrUnresolvedReference)
		}
		idx[apID] = asID
	}

	for i := range airports {
		ap := &airports[i]
		if _, ok := idx[ap.ID]; ok {
			continue
		}
		var candidates []*model.Airspace
		for j := range airspaces {
			as := &airspaces[j]
			if !isZoneType(as.Type) {
				continue
			}
			if geo.ContainsPoint(as, ap.Location) {
				candidates = append(candidates, as)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		sort.Slice(candidates, func(a, b int) bool {
			la, lb := geo.LowerLimitFL(candidates[a]), geo.LowerLimitFL(candidates[b])
			if la != lb {
				return la < lb
			}
			return candidates[a].ID < candidates[b].ID
		})
		idx[ap.ID] = candidates[0].ID
	}
	return idx, nil
}

func isZoneType(t int) bool {
	return t == model.AirspaceTypeCTR || t == model.AirspaceTypeATZ || t == model.AirspaceTypeMATZ
}

// Zone returns the zone airspace of the airport, or nil.
func (z ZoneIndex) Zone(airportID string, airspaces []model.Airspace) *model.Airspace {
	if z == nil {
		return nil
	}
	id, ok := z[airportID]
	if !ok {
		return nil
	}
	return model.FindAirspace(airspaces, id)
}

var airspaceSuffixes = []string{" CTR", " CTA", " ATZ", " MATZ", " TMA", " FIR", " Zone"}

// AirspaceShortName drops the airspace class suffix from a name.
func AirspaceShortName(name string) string {
	name = strings.TrimSpace(name)
	for _, s := range airspaceSuffixes {
		if strings.HasSuffix(strings.ToUpper(name), strings.ToUpper(s)) {
			return strings.TrimSpace(name[:len(name)-len(s)])
		}
	}
	return name
}

// AirspaceStation returns who to call inside the airspace and on what
// frequency. Published frequencies are used when present, otherwise a
// seeded frequency is generated.
func AirspaceStation(a *model.Airspace, seedNum uint32) (string, model.Frequency) {
	short := AirspaceShortName(a.Name)
	if len(a.Frequencies) > 0 {
		f := a.Frequencies[0]
		for _, x := range a.Frequencies {
			if x.Primary {
				f = x
				break
			}
		}
		return short + " " + f.Type.Label(), f
	}

	f := model.Frequency{Value: seed.RandomFrequency(seedNum, a.ID), Name: a.Name}
	switch a.Type {
	case model.AirspaceTypeMATZ:
		f.Type = model.FrequencyRadar
		return short + " Zone", f
	case model.AirspaceTypeATZ:
		f.Type = model.FrequencyInformation
	case model.AirspaceTypeCTR:
		f.Type = model.FrequencyApproach
	default:
		f.Type = model.FrequencyRadar
	}
	return short + " " + f.Type.Label(), f
}

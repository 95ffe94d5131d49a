package aerodata

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"rttrainer/pkg/model"
)

// Records as served by the OpenAIP core API. Only the fields the trainer
// reads are declared.

type apiPage[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

type apiFrequency struct {
	Value   string `json:"value"`
	Type    int    `json:"type"`
	Name    string `json:"name"`
	Primary bool   `json:"primary"`
}

type apiValue struct {
	Value float64 `json:"value"`
	Unit  int     `json:"unit"`
}

type apiRunway struct {
	Designator  string `json:"designator"`
	TrueHeading int    `json:"trueHeading"`
	Dimension   struct {
		Length apiValue `json:"length"`
	} `json:"dimension"`
	TakeOffOnly bool `json:"takeOffOnly"`
	LandingOnly bool `json:"landingOnly"`
	MainRunway  bool `json:"mainRunway"`
}

type apiAirport struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	ICAOCode string `json:"icaoCode"`
	Type     int    `json:"type"`
	Geometry struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
	Elevation   apiValue       `json:"elevation"`
	Runways     []apiRunway    `json:"runways"`
	Frequencies []apiFrequency `json:"frequencies"`
}

type apiLimit struct {
	Value          float64 `json:"value"`
	Unit           int     `json:"unit"`
	ReferenceDatum int     `json:"referenceDatum"`
}

type apiAirspace struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Type        int             `json:"type"`
	ICAOClass   int             `json:"icaoClass"`
	Geometry    json.RawMessage `json:"geometry"`
	LowerLimit  apiLimit        `json:"lowerLimit"`
	UpperLimit  apiLimit        `json:"upperLimit"`
	OnDemand    bool            `json:"onDemand"`
	OnRequest   bool            `json:"onRequest"`
	ByNotam     bool            `json:"byNotam"`
	Frequencies []apiFrequency  `json:"frequencies"`
}

const feetPerMeter = 3.28084

func convertFrequencies(in []apiFrequency) []model.Frequency {
	out := make([]model.Frequency, 0, len(in))
	for _, f := range in {
		out = append(out, model.Frequency{Value: f.Value, Type: model.FrequencyType(f.Type), Name: f.Name, Primary: f.Primary})
	}
	return out
}

func (a *apiAirport) toModel() (model.Airport, error) {
	if len(a.Geometry.Coordinates) < 2 {
		return model.Airport{}, fmt.Errorf("airport %s has no position", a.ID)
	}
	elev := a.Elevation.Value
	if a.Elevation.Unit == int(model.UnitMeters) {
		elev *= feetPerMeter
	}
	ap := model.Airport{
		ID:          a.ID,
		Name:        a.Name,
		ICAOCode:    a.ICAOCode,
		Type:        a.Type,
		Location:    orb.Point{a.Geometry.Coordinates[0], a.Geometry.Coordinates[1]},
		ElevationFt: elev,
		Frequencies: convertFrequencies(a.Frequencies),
	}
	for _, r := range a.Runways {
		ap.Runways = append(ap.Runways, model.Runway{
			Designator:  r.Designator,
			TrueHeading: r.TrueHeading,
			LengthM:     r.Dimension.Length.Value,
			TakeOffOnly: r.TakeOffOnly,
			LandingOnly: r.LandingOnly,
			MainRunway:  r.MainRunway,
		})
	}
	return ap, nil
}

func (a *apiAirspace) toModel() (model.Airspace, error) {
	g, err := geojson.UnmarshalGeometry(a.Geometry)
	if err != nil {
		return model.Airspace{}, fmt.Errorf("airspace %s geometry: %w", a.ID, err)
	}
	var poly orb.Polygon
	switch v := g.Geometry().(type) {
	case orb.Polygon:
		poly = v
	case orb.MultiPolygon:
		if len(v) > 0 {
			poly = v[0]
		}
	}
	if len(poly) == 0 {
		return model.Airspace{}, fmt.Errorf("airspace %s has no polygon", a.ID)
	}
	limit := func(l apiLimit) model.VerticalLimit {
		return model.VerticalLimit{Value: l.Value, Unit: model.LimitUnit(l.Unit), ReferenceDatum: l.ReferenceDatum}
	}
	return model.Airspace{
		ID:          a.ID,
		Name:        a.Name,
		Type:        a.Type,
		ICAOClass:   a.ICAOClass,
		Geometry:    poly,
		LowerLimit:  limit(a.LowerLimit),
		UpperLimit:  limit(a.UpperLimit),
		OnDemand:    a.OnDemand,
		OnRequest:   a.OnRequest,
		ByNotam:     a.ByNotam,
		Frequencies: convertFrequencies(a.Frequencies),
	}, nil
}

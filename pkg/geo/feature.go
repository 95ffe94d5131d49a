package geo

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"rttrainer/pkg/model"
)

// RouteFeatureCollection renders the route, the airspaces it touches and
// the scenario points as a GeoJSON collection for map display.
func RouteFeatureCollection(waypoints []model.Waypoint, airspaces []model.Airspace, points []model.ScenarioPoint) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	line := make(orb.LineString, 0, len(waypoints))
	for _, w := range waypoints {
		line = append(line, w.Location)
		f := geojson.NewFeature(w.Location)
		f.Properties["kind"] = "waypoint"
		f.Properties["name"] = w.Name
		f.Properties["index"] = w.Index
		f.Properties["type"] = w.Type.String()
		fc.Append(f)
	}
	if len(line) > 1 {
		f := geojson.NewFeature(line)
		f.Properties["kind"] = "route"
		fc.Append(f)
	}

	for _, a := range airspaces {
		f := geojson.NewFeature(a.Geometry)
		f.ID = a.ID
		f.Properties["kind"] = "airspace"
		f.Properties["name"] = a.Name
		f.Properties["type"] = a.Type
		f.Properties["lower_fl"] = LimitToFL(a.LowerLimit)
		fc.Append(f)
	}

	for _, p := range points {
		f := geojson.NewFeature(p.Pose.Position)
		f.Properties["kind"] = "scenario_point"
		f.Properties["index"] = p.Index
		f.Properties["stage"] = string(p.Stage)
		f.Properties["time"] = model.FormatTime(p.TimeAtPoint)
		f.Properties["altitude_ft"] = p.Pose.AltitudeFt
		fc.Append(f)
	}
	return fc
}

// AirspacesFromGeoJSON reads airspace polygons from a feature collection.
// Properties: id, name, type, lower_value, lower_unit, icao_class.
func AirspacesFromGeoJSON(data []byte) ([]model.Airspace, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse geojson: %w", err)
	}

	var out []model.Airspace
	for i, f := range fc.Features {
		poly, ok := f.Geometry.(orb.Polygon)
		if !ok {
			continue
		}
		id := getStringProp(f.Properties, "id")
		if id == "" {
			id = fmt.Sprintf("feature-%d", i)
		}
		out = append(out, model.Airspace{
			ID:        id,
			Name:      getStringProp(f.Properties, "name"),
			Type:      int(f.Properties.MustFloat64("type", 0)),
			ICAOClass: int(f.Properties.MustFloat64("icao_class", 0)),
			Geometry:  poly,
			LowerLimit: model.VerticalLimit{
				Value: f.Properties.MustFloat64("lower_value", 0),
				Unit:  model.LimitUnit(f.Properties.MustFloat64("lower_unit", float64(model.UnitFeet))),
			},
		})
	}
	return out, nil
}

// getStringProp safely extracts a string property from GeoJSON properties.
func getStringProp(props geojson.Properties, key string) string {
	if val, ok := props[key]; ok {
		if s, ok := val.(string); ok {
			return s
		}
		if f, ok := val.(json.Number); ok {
			return string(f)
		}
	}
	return ""
}

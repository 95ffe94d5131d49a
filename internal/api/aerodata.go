package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"rttrainer/pkg/aerodata"
	"rttrainer/pkg/geo"
	"rttrainer/pkg/model"
)

// AerodataHandler serves the loaded reference data for the map.
type AerodataHandler struct {
	data *aerodata.Dataset

	// The unfiltered airspace collection is large and never changes.
	once     sync.Once
	allResp  []byte
	allError error
}

// NewAerodataHandler creates a new AerodataHandler.
func NewAerodataHandler(data *aerodata.Dataset) *AerodataHandler {
	return &AerodataHandler{data: data}
}

// AerodataSummary describes the loaded dataset.
type AerodataSummary struct {
	Version   string    `json:"version"`
	FetchedAt time.Time `json:"fetched_at"`
	Airports  int       `json:"airports"`
	Airspaces int       `json:"airspaces"`
	Zones     int       `json:"zones"`
	MATZs     int       `json:"matzs"`
}

// HandleSummary serves GET /api/aerodata.
func (h *AerodataHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	matz := 0
	for i := range h.data.Airspaces {
		if h.data.Airspaces[i].IsMATZ() {
			matz++
		}
	}
	writeJSON(w, http.StatusOK, AerodataSummary{
		Version:   h.data.Version,
		FetchedAt: h.data.FetchedAt,
		Airports:  len(h.data.Airports),
		Airspaces: len(h.data.Airspaces),
		Zones:     len(h.data.Zones),
		MATZs:     matz,
	})
}

// HandleAirports serves GET /api/aerodata/airports, optionally limited to
// the min_lat, max_lat, min_lon, max_lon box.
func (h *AerodataHandler) HandleAirports(w http.ResponseWriter, r *http.Request) {
	box, ok, err := parseBounds(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	out := make([]model.Airport, 0, len(h.data.Airports))
	for _, a := range h.data.Airports {
		if !ok || box.Contains(a.Location) {
			out = append(out, a)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleAirspaces serves GET /api/aerodata/airspaces as GeoJSON, with the
// same optional box as HandleAirports.
func (h *AerodataHandler) HandleAirspaces(w http.ResponseWriter, r *http.Request) {
	box, ok, err := parseBounds(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	if !ok {
		h.once.Do(func() {
			h.allResp, h.allError = json.Marshal(airspaceCollection(h.data.Airspaces, nil))
		})
		if h.allError != nil {
			http.Error(w, "encoding error", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(h.allResp)
		return
	}
	writeJSON(w, http.StatusOK, airspaceCollection(h.data.Airspaces, &box))
}

func airspaceCollection(airspaces []model.Airspace, box *orb.Bound) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, a := range airspaces {
		if box != nil && !a.Geometry.Bound().Intersects(*box) {
			continue
		}
		f := geojson.NewFeature(a.Geometry)
		f.ID = a.ID
		f.Properties["name"] = a.Name
		f.Properties["type"] = a.Type
		f.Properties["lower_fl"] = geo.LimitToFL(a.LowerLimit)
		f.Properties["upper_fl"] = geo.LimitToFL(a.UpperLimit)
		f.Properties["matz"] = a.IsMATZ()
		fc.Append(f)
	}
	return fc
}

// parseBounds reads the optional bounding box. ok is false when no bound
// was given at all.
func parseBounds(r *http.Request) (box orb.Bound, ok bool, err error) {
	q := r.URL.Query()
	keys := []string{"min_lat", "max_lat", "min_lon", "max_lon"}
	present := 0
	vals := make([]float64, len(keys))
	for i, k := range keys {
		s := q.Get(k)
		if s == "" {
			continue
		}
		present++
		if vals[i], err = strconv.ParseFloat(s, 64); err != nil {
			return orb.Bound{}, false, errBadBounds
		}
	}
	switch present {
	case 0:
		return orb.Bound{}, false, nil
	case len(keys):
		return orb.Bound{Min: orb.Point{vals[2], vals[0]}, Max: orb.Point{vals[3], vals[1]}}, true, nil
	default:
		return orb.Bound{}, false, errBadBounds
	}
}

var errBadBounds = errors.New("min_lat, max_lat, min_lon, max_lon are required together and must be numbers")

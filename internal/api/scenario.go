package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"rttrainer/pkg/aerodata"
	"rttrainer/pkg/config"
	"rttrainer/pkg/geo"
	"rttrainer/pkg/model"
	"rttrainer/pkg/route"
	"rttrainer/pkg/scenario"
	"rttrainer/pkg/seed"
	"rttrainer/pkg/store"
)

// ScenarioRequest asks for a scenario. Empty fields take the configured
// defaults; without waypoints a MATZ route is searched from the seed.
type ScenarioRequest struct {
	Seed         string           `json:"seed"`
	Callsign     string           `json:"callsign,omitempty"`
	Prefix       string           `json:"prefix,omitempty"`
	AircraftType string           `json:"aircraft_type,omitempty"`
	Waypoints    []model.Waypoint `json:"waypoints,omitempty"`
	Emergency    *bool            `json:"emergency,omitempty"`
}

// RouteEdit is one edit of an existing route.
type RouteEdit struct {
	Op       string          `json:"op"` // "insert", "remove", "move"
	Index    int             `json:"index"`
	To       int             `json:"to,omitempty"`
	Waypoint *model.Waypoint `json:"waypoint,omitempty"`
}

// RouteRequest either searches a route for Seed or applies Edit to
// Waypoints.
type RouteRequest struct {
	Seed      string           `json:"seed"`
	Waypoints []model.Waypoint `json:"waypoints,omitempty"`
	Edit      *RouteEdit       `json:"edit,omitempty"`
}

// ScenarioHandler generates, persists and lists scenarios.
type ScenarioHandler struct {
	data   *aerodata.Dataset
	gen    *scenario.Cache
	store  store.ScenarioStore
	prov   config.Provider
	search route.SearchOptions
	maxFL  float64
}

// NewScenarioHandler creates a ScenarioHandler. st may be nil to skip
// persistence.
func NewScenarioHandler(data *aerodata.Dataset, gen *scenario.Cache, st store.ScenarioStore, prov config.Provider, search route.SearchOptions, maxFL float64) *ScenarioHandler {
	return &ScenarioHandler{data: data, gen: gen, store: st, prov: prov, search: search, maxFL: maxFL}
}

// Build generates and stores the scenario for req.
func (h *ScenarioHandler) Build(ctx context.Context, req ScenarioRequest) (*store.Scenario, error) {
	req.Seed = strings.TrimSpace(req.Seed)
	if req.Seed == "" {
		req.Seed = strconv.FormatUint(uint64(uuid.New().ID()), 10)
	}
	if req.Callsign == "" {
		req.Callsign = h.prov.Callsign(ctx)
	}
	if req.Prefix == "" {
		req.Prefix = h.prov.Prefix(ctx)
	}
	if req.AircraftType == "" {
		req.AircraftType = h.prov.AircraftType(ctx)
	}

	wps := req.Waypoints
	if len(wps) == 0 {
		var err error
		if wps, err = route.SearchMATZRoute(req.Seed, h.data.Airports, h.data.Airspaces, h.search); err != nil {
			return nil, err
		}
	}
	wps = route.Renumber(wps)
	if err := route.Validate(wps); err != nil {
		return nil, fmt.Errorf("%w: %w", scenario.ErrInvalidInput, err)
	}

	emergency := h.emergency(ctx, req)
	points, err := h.gen.Generate(h.data.Version, scenario.Input{
		Seed:         req.Seed,
		Callsign:     req.Callsign,
		Prefix:       req.Prefix,
		AircraftType: req.AircraftType,
		Waypoints:    wps,
		Airports:     h.data.Airports,
		Airspaces:    h.data.Airspaces,
		HasEmergency: emergency,
		Zones:        h.data.Zones,
	})
	if err != nil {
		return nil, err
	}

	sc := &store.Scenario{
		ID:           uuid.NewString(),
		Seed:         req.Seed,
		Callsign:     req.Callsign,
		Prefix:       req.Prefix,
		AircraftType: req.AircraftType,
		HasEmergency: emergency,
		DataVersion:  h.data.Version,
		Waypoints:    wps,
		Points:       points,
	}
	if h.store != nil {
		if err := h.store.SaveScenario(ctx, sc); err != nil {
			return nil, fmt.Errorf("save scenario: %w", err)
		}
	}
	return sc, nil
}

// emergency decides whether the scenario includes a PAN-PAN. An explicit
// request wins; otherwise the seed decides against the configured chance.
func (h *ScenarioHandler) emergency(ctx context.Context, req ScenarioRequest) bool {
	if req.Emergency != nil {
		return *req.Emergency
	}
	chance := h.prov.EmergencyChance(ctx)
	if chance <= 0 {
		return false
	}
	return seed.NewRand(seed.StringToNumber(req.Seed), "emergency").Float64() < chance
}

// Lookup returns a stored scenario.
func (h *ScenarioHandler) Lookup(ctx context.Context, id string) (*store.Scenario, error) {
	if h.store == nil {
		return nil, store.ErrNotFound
	}
	return h.store.GetScenario(ctx, id)
}

// HandleGenerate serves POST /api/scenario.
func (h *ScenarioHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req ScenarioRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sc, err := h.Build(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sc)
}

// HandleMap serves POST /api/scenario/map: the scenario as GeoJSON with the
// airspaces along the route.
func (h *ScenarioHandler) HandleMap(w http.ResponseWriter, r *http.Request) {
	var req ScenarioRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sc, err := h.Build(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	line := make([]orb.Point, len(sc.Waypoints))
	for i, wp := range sc.Waypoints {
		line[i] = wp.Location
	}
	crossed := geo.AirspacesOnRoute(line, h.data.Airspaces, h.maxFL)
	fc := geo.RouteFeatureCollection(sc.Waypoints, crossed, sc.Points)
	fc.ExtraMembers = map[string]any{"scenario_id": sc.ID, "seed": sc.Seed}

	w.Header().Set("Content-Type", "application/geo+json")
	writeJSON(w, http.StatusOK, fc)
}

// HandleList serves GET /api/scenarios.
func (h *ScenarioHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusOK, []store.ScenarioSummary{})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.store.ListScenarios(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []store.ScenarioSummary{}
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleGet serves GET /api/scenarios/{id}.
func (h *ScenarioHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sc, err := h.Lookup(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

// HandleRoute serves POST /api/route.
func (h *ScenarioHandler) HandleRoute(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		wps []model.Waypoint
		err error
	)
	if req.Edit != nil {
		wps, err = applyEdit(req.Waypoints, req.Edit)
	} else {
		wps, err = route.SearchMATZRoute(req.Seed, h.data.Airports, h.data.Airspaces, h.search)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"waypoints": wps,
		"valid":     route.Validate(wps) == nil,
	})
}

func applyEdit(wps []model.Waypoint, e *RouteEdit) ([]model.Waypoint, error) {
	switch e.Op {
	case "insert":
		if e.Waypoint == nil {
			return nil, fmt.Errorf("insert without waypoint: %w", route.ErrInvalidRoute)
		}
		return route.Insert(wps, e.Index, *e.Waypoint)
	case "remove":
		return route.Remove(wps, e.Index)
	case "move":
		return route.Move(wps, e.Index, e.To)
	default:
		return nil, fmt.Errorf("unknown edit %q: %w", e.Op, route.ErrInvalidRoute)
	}
}

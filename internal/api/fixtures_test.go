package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"rttrainer/pkg/aero"
	"rttrainer/pkg/aerodata"
	"rttrainer/pkg/config"
	"rttrainer/pkg/model"
	"rttrainer/pkg/radiocall"
	"rttrainer/pkg/route"
	"rttrainer/pkg/scenario"
	"rttrainer/pkg/session"
	"rttrainer/pkg/store"
)

// memStore is an in-memory stand-in for the SQLite store.
type memStore struct {
	mu        sync.Mutex
	scenarios map[string]*store.Scenario
	order     []string
	attempts  []model.Attempt
	state     map[string]string
}

func newMemStore() *memStore {
	return &memStore{scenarios: map[string]*store.Scenario{}, state: map[string]string{}}
}

func (m *memStore) SaveScenario(_ context.Context, sc *store.Scenario) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sc.CreatedAt = time.Now()
	m.scenarios[sc.ID] = sc
	m.order = append(m.order, sc.ID)
	return nil
}

func (m *memStore) GetScenario(_ context.Context, id string) (*store.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sc, ok := m.scenarios[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return sc, nil
}

func (m *memStore) ListScenarios(_ context.Context, limit int) ([]store.ScenarioSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.ScenarioSummary
	for i := len(m.order) - 1; i >= 0; i-- {
		sc := m.scenarios[m.order[i]]
		out = append(out, store.ScenarioSummary{ID: sc.ID, Seed: sc.Seed, Callsign: sc.Callsign, Points: len(sc.Points), CreatedAt: sc.CreatedAt})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) SaveAttempt(_ context.Context, a *model.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, *a)
	return nil
}

func (m *memStore) ListAttempts(_ context.Context, sessionID string) ([]model.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Attempt
	for _, a := range m.attempts {
		if a.SessionID == sessionID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out, nil
}

func (m *memStore) GetState(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.state[key]
	return v, ok
}

func (m *memStore) SetState(_ context.Context, key, val string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state[key] = val
	return nil
}

func (m *memStore) DeleteState(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.state, key)
	return nil
}

func square(lon, lat, half float64) orb.Polygon {
	return orb.Polygon{{
		{lon - half, lat - half}, {lon + half, lat - half}, {lon + half, lat + half}, {lon - half, lat + half}, {lon - half, lat - half},
	}}
}

var surface = model.VerticalLimit{Value: 0, Unit: model.UnitFeet}

func testDataset(t *testing.T) *aerodata.Dataset {
	t.Helper()
	airports := []model.Airport{
		{
			ID:          "ap-start",
			Name:        "Wellesbourne Mountford Airfield",
			Type:        model.AirportTypeCivilAirfield,
			Location:    orb.Point{-1.6, 52.19},
			ElevationFt: 159,
			Runways: []model.Runway{
				{Designator: "23", TrueHeading: 230, LengthM: 900, MainRunway: true},
				{Designator: "05", TrueHeading: 50, LengthM: 900},
			},
			Frequencies: []model.Frequency{{Value: "124.025", Type: model.FrequencyInformation}},
		},
		{
			ID:          "ap-end",
			Name:        "Sywell Aerodrome",
			Type:        model.AirportTypeCivilAirfield,
			Location:    orb.Point{-0.9, 52.2},
			ElevationFt: 429,
			Runways: []model.Runway{
				{Designator: "21", TrueHeading: 210, LengthM: 1000},
				{Designator: "03", TrueHeading: 30, LengthM: 1000},
			},
			Frequencies: []model.Frequency{{Value: "122.700", Type: model.FrequencyInformation}},
		},
	}
	airspaces := []model.Airspace{
		{ID: "atz-start", Name: "Wellesbourne ATZ", Type: model.AirspaceTypeATZ, Geometry: square(-1.6, 52.19, 0.03), LowerLimit: surface},
		{ID: "ctr-mid", Name: "Middle CTR", Type: model.AirspaceTypeCTR, Geometry: square(-1.2, 52.2, 0.1), LowerLimit: surface},
	}
	zones, err := aero.NewZoneIndex(airports, airspaces, nil)
	require.NoError(t, err)
	return &aerodata.Dataset{
		Version:   "test-1",
		FetchedAt: time.Date(2026, 1, 18, 6, 0, 0, 0, time.UTC),
		Airports:  airports,
		Airspaces: airspaces,
		Zones:     zones,
	}
}

func testWaypoints() []model.Waypoint {
	return []model.Waypoint{
		{ID: "w0", Type: model.WaypointAirport, Location: orb.Point{-1.6, 52.19}, Name: "Wellesbourne", ReferenceObjectID: "ap-start"},
		{ID: "w1", Type: model.WaypointGPS, Location: orb.Point{-1.2, 52.2}, Index: 1, Name: "Middle"},
		{ID: "w2", Type: model.WaypointAirport, Location: orb.Point{-0.9, 52.2}, Index: 2, Name: "Sywell", ReferenceObjectID: "ap-end"},
	}
}

// testEnv is a fully wired server over in-memory state.
type testEnv struct {
	srv       *httptest.Server
	store     *memStore
	data      *aerodata.Dataset
	scenarios *ScenarioHandler
	sessions  *session.Manager
	shutdowns chan struct{}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := newMemStore()
	data := testDataset(t)

	cache, err := scenario.NewCache(scenario.NewGenerator(scenario.DefaultOptions(), nil), 8)
	require.NoError(t, err)
	parser, err := radiocall.NewParser()
	require.NoError(t, err)

	prov := config.NewProvider(config.DefaultConfig(), st)
	mgr := session.NewManager(parser, session.DefaultPolicy(), time.Hour,
		session.WithAttemptSink(st),
		session.WithPolicySource(func() session.Policy {
			ctx := context.Background()
			return session.Policy{RevealThreshold: prov.RevealThreshold(ctx), DeclineCooldown: prov.DeclineCooldown(ctx)}
		}))

	scenarios := NewScenarioHandler(data, cache, st, prov, route.DefaultSearchOptions(), 30)
	env := &testEnv{store: st, data: data, scenarios: scenarios, sessions: mgr, shutdowns: make(chan struct{}, 1)}
	h := Handlers{
		Scenarios: scenarios,
		Sessions:  NewSessionHandler(mgr, scenarios, st),
		Settings:  NewSettingsHandler(st, prov),
		Aerodata:  NewAerodataHandler(data),
		Stats:     NewStatsHandler(nil, mgr, cache, data),
	}
	srv := NewServer("", h, func() { env.shutdowns <- struct{}{} })
	env.srv = httptest.NewServer(srv.Handler)
	t.Cleanup(env.srv.Close)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

package aerodata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rttrainer/pkg/cache"
	"rttrainer/pkg/model"
	"rttrainer/pkg/request"
)

func square(lon, lat, half float64) orb.Polygon {
	return orb.Polygon{{
		{lon - half, lat - half}, {lon + half, lat - half}, {lon + half, lat + half}, {lon - half, lat + half}, {lon - half, lat - half},
	}}
}

type fakeSource struct {
	airports  []model.Airport
	airspaces []model.Airspace
	err       error
	calls     int32
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Airports(ctx context.Context) ([]model.Airport, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.airports, f.err
}

func (f *fakeSource) Airspaces(ctx context.Context) ([]model.Airspace, error) {
	return f.airspaces, nil
}

func fixtureSource() *fakeSource {
	return &fakeSource{
		airports: []model.Airport{
			{ID: "ap-w", Name: "Wellesbourne", Location: orb.Point{-1.6, 52.19}},
			{ID: "ap-s", Name: "Sywell", Location: orb.Point{-0.9, 52.2}},
		},
		airspaces: []model.Airspace{
			{ID: "atz-w", Name: "Wellesbourne ATZ", Type: model.AirspaceTypeATZ, Geometry: square(-1.6, 52.19, 0.03)},
		},
	}
}

func smallOptions() Options {
	return Options{MinAirports: 2, MinAirspaces: 1, CacheTTL: time.Hour, CacheKey: "test:dataset"}
}

func TestLoader_Load(t *testing.T) {
	src := fixtureSource()
	ds, err := NewLoader(src, nil, smallOptions()).Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, ds.Airports, 2)
	assert.NotEmpty(t, ds.Version)
	assert.Equal(t, "atz-w", ds.Zones["ap-w"])
	assert.NotNil(t, ds.Airport("ap-s"))
	assert.Nil(t, ds.Airspace("nope"))
}

func TestLoader_Thresholds(t *testing.T) {
	opts := smallOptions()
	opts.MinAirspaces = 5
	_, err := NewLoader(fixtureSource(), nil, opts).Load(context.Background())
	assert.ErrorIs(t, err, ErrDataAvailability)
}

func TestLoader_SourceError(t *testing.T) {
	src := fixtureSource()
	src.err = errors.New("boom")
	_, err := NewLoader(src, nil, smallOptions()).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fake")
}

func TestLoader_Cache(t *testing.T) {
	c, err := cache.NewTiered(nil, 4)
	require.NoError(t, err)
	src := fixtureSource()
	l := NewLoader(src, c, smallOptions())
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return start }

	first, err := l.Load(context.Background())
	require.NoError(t, err)
	second, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls), "second load served from cache")
	assert.Equal(t, first.Version, second.Version)
	assert.Equal(t, first.Airspaces, second.Airspaces)
	assert.Equal(t, "atz-w", second.Zones["ap-w"], "zones rebuilt after decoding")

	l.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err = l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&src.calls), "expired cache refetches")
}

func TestEncodeDecode(t *testing.T) {
	src := fixtureSource()
	ds := &Dataset{Version: "v", FetchedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Airports: src.airports, Airspaces: src.airspaces}

	blob, err := Encode(ds)
	require.NoError(t, err)
	got, err := Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, ds.Airports, got.Airports)
	assert.True(t, ds.FetchedAt.Equal(got.FetchedAt))

	_, err = Decode([]byte("garbage"))
	assert.Error(t, err)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	src := fixtureSource()

	apPath := filepath.Join(dir, "airports.json")
	b, err := json.Marshal(src.airports)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(apPath, b, 0o644))

	gjPath := filepath.Join(dir, "airspaces.geojson")
	gj := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"id":"m1","name":"Test MATZ","type":14},
		"geometry":{"type":"Polygon","coordinates":[[[0,52],[0.2,52],[0.2,52.2],[0,52.2],[0,52]]]}}]}`
	require.NoError(t, os.WriteFile(gjPath, []byte(gj), 0o644))

	jsonPath := filepath.Join(dir, "airspaces.json")
	b, err = json.Marshal(src.airspaces)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(jsonPath, b, 0o644))

	fs := &FileSource{AirportsPath: apPath, AirspacesPath: gjPath}
	airports, err := fs.Airports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, src.airports, airports)

	airspaces, err := fs.Airspaces(context.Background())
	require.NoError(t, err)
	require.Len(t, airspaces, 1)
	assert.True(t, airspaces[0].IsMATZ())

	fs.AirspacesPath = jsonPath
	airspaces, err = fs.Airspaces(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "atz-w", airspaces[0].ID)

	fs.AirportsPath = filepath.Join(dir, "missing.json")
	_, err = fs.Airports(context.Background())
	assert.Error(t, err)
}

func TestAPISource(t *testing.T) {
	var sawKey atomic.Value
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawKey.Store(r.Header.Get("x-openaip-api-key"))
		page := r.URL.Query().Get("page")
		switch r.URL.Path {
		case "/api/airports":
			fmt.Fprintf(w, `{"page":%s,"totalPages":2,"items":[{"_id":"ap-%s","name":"Field %s","type":2,
				"geometry":{"type":"Point","coordinates":[-1.6,52.19]},"elevation":{"value":48,"unit":0},
				"runways":[{"designator":"23","trueHeading":230,"dimension":{"length":{"value":900,"unit":0}}}],
				"frequencies":[{"value":"124.025","type":10,"name":"INFO","primary":true}]}]}`, page, page, page)
		case "/api/airspaces":
			fmt.Fprint(w, `{"page":1,"totalPages":1,"items":[
				{"_id":"as-1","name":"Test MATZ","type":14,"icaoClass":6,
				 "geometry":{"type":"Polygon","coordinates":[[[0,52],[0.2,52],[0.2,52.2],[0,52.2],[0,52]]]},
				 "lowerLimit":{"value":0,"unit":1,"referenceDatum":0},"upperLimit":{"value":3000,"unit":1,"referenceDatum":1}},
				{"_id":"as-bad","name":"Broken","type":4,"geometry":{"type":"Point","coordinates":[0,0]}}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer svr.Close()

	client := request.New(nil, nil, request.Options{Timeout: 5 * time.Second, MaxAttempts: 1})
	src := &APISource{Client: client, BaseURL: svr.URL + "/api/", APIKey: "secret", Country: "GB"}

	airports, err := src.Airports(context.Background())
	require.NoError(t, err)
	require.Len(t, airports, 2)
	assert.Equal(t, "ap-1", airports[0].ID)
	assert.InDelta(t, 157.5, airports[0].ElevationFt, 0.1)
	assert.Equal(t, 230, airports[0].Runways[0].TrueHeading)
	assert.Equal(t, model.FrequencyInformation, airports[0].Frequencies[0].Type)
	assert.Equal(t, "secret", sawKey.Load())

	airspaces, err := src.Airspaces(context.Background())
	require.NoError(t, err)
	require.Len(t, airspaces, 1, "non polygon geometry skipped")
	assert.Equal(t, model.UnitFeet, airspaces[0].LowerLimit.Unit)
	assert.Equal(t, 1, airspaces[0].UpperLimit.ReferenceDatum)
}

package aero

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rttrainer/pkg/model"
)

func TestIsControlled(t *testing.T) {
	for typ := 0; typ <= 13; typ++ {
		a := model.Airport{Type: typ}
		want := typ == 3 || typ == 9
		assert.Equal(t, want, IsControlled(&a), "type %d", typ)
	}
}

func TestParkedFrequency(t *testing.T) {
	tests := []struct {
		name     string
		freqs    []model.Frequency
		wantType model.FrequencyType
		wantVal  string
	}{
		{
			name: "ground preferred",
			freqs: []model.Frequency{
				{Value: "118.500", Type: model.FrequencyTower},
				{Value: "121.800", Type: model.FrequencyGround},
			},
			wantType: model.FrequencyGround,
			wantVal:  "121.800",
		},
		{
			name: "tower before information",
			freqs: []model.Frequency{
				{Value: "124.025", Type: model.FrequencyInformation},
				{Value: "118.500", Type: model.FrequencyTower},
			},
			wantType: model.FrequencyTower,
			wantVal:  "118.500",
		},
		{
			name:     "air ground last",
			freqs:    []model.Frequency{{Value: "130.450", Type: model.FrequencyAirGround}, {Value: "129.975", Type: model.FrequencyOther}},
			wantType: model.FrequencyAirGround,
			wantVal:  "130.450",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := model.Airport{ID: "ap", Frequencies: tt.freqs}
			got := ParkedFrequency(&a, 1)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantVal, got.Value)
		})
	}

	t.Run("synthetic fallback is seeded", func(t *testing.T) {
		a := model.Airport{ID: "nofreq", Name: "Nowhere Airfield"}
		f1 := ParkedFrequency(&a, 99)
		f2 := ParkedFrequency(&a, 99)
		assert.Equal(t, f1, f2)
		assert.NotEmpty(t, f1.Value)
		assert.Equal(t, "Nowhere Radio", StationName(&a, f1))
	})
}

func TestShortName(t *testing.T) {
	assert.Equal(t, "Wellesbourne Mountford", ShortName("Wellesbourne Mountford Airfield"))
	assert.Equal(t, "Oxford", ShortName("Oxford Airport"))
	assert.Equal(t, "Sywell", ShortName("Sywell"))
	assert.Equal(t, "Brize Norton", AirspaceShortName("Brize Norton CTR"))
	assert.Equal(t, "BENSON", AirspaceShortName("BENSON MATZ"))
}

func TestRunwayForWind(t *testing.T) {
	a := model.Airport{Runways: []model.Runway{
		{Designator: "06", TrueHeading: 60},
		{Designator: "24", TrueHeading: 240},
		{Designator: "36", TrueHeading: 0, LandingOnly: true},
	}}

	assert.Equal(t, "24", RunwayForWind(&a, 250, true).Designator)
	assert.Equal(t, "06", RunwayForWind(&a, 70, false).Designator)
	// landing only runway skipped for departure
	assert.Equal(t, "06", RunwayForWind(&a, 10, true).Designator)
	assert.Equal(t, "36", RunwayForWind(&a, 10, false).Designator)

	empty := model.Airport{}
	r := RunwayForWind(&empty, 354, true)
	assert.Equal(t, "35", r.Designator)
	assert.Equal(t, 350, r.TrueHeading)
}

func TestRunwayDesignator(t *testing.T) {
	assert.Equal(t, "36", RunwayDesignator(0))
	assert.Equal(t, "36", RunwayDesignator(360))
	assert.Equal(t, "09", RunwayDesignator(92))
	assert.Equal(t, "27", RunwayDesignator(268))
}

func TestSampleWeather(t *testing.T) {
	w := SampleWeather("ABC123", "ap-1")
	assert.Equal(t, w, SampleWeather("ABC123", "ap-1"))
	assert.Zero(t, w.WindDirection%10)
	assert.Greater(t, w.WindDirection, 0)
	assert.LessOrEqual(t, w.WindDirection, 360)
	assert.GreaterOrEqual(t, w.WindSpeed, 0)
	assert.LessOrEqual(t, w.DewPoint, w.Temperature)
	assert.InDelta(t, 1013, w.Pressure, 40)
}

func TestZoneIndex(t *testing.T) {
	poly := orb.Polygon{{{0, 52}, {0.2, 52}, {0.2, 52.2}, {0, 52.2}, {0, 52}}}
	airspaces := []model.Airspace{
		{ID: "tma", Type: 7, Geometry: poly},
		{ID: "ctr-b", Type: model.AirspaceTypeCTR, Geometry: poly, LowerLimit: model.VerticalLimit{Value: 0, Unit: model.UnitFeet}},
		{ID: "atz-a", Type: model.AirspaceTypeATZ, Geometry: poly, LowerLimit: model.VerticalLimit{Value: 0, Unit: model.UnitFeet}},
		{ID: "matz", Type: model.AirspaceTypeMATZ, Geometry: poly, LowerLimit: model.VerticalLimit{Value: 1500, Unit: model.UnitFeet}},
	}
	airports := []model.Airport{
		{ID: "inside", Location: orb.Point{0.1, 52.1}},
		{ID: "outside", Location: orb.Point{1, 53}},
		{ID: "mapped", Location: orb.Point{1, 53}},
	}

	idx, err := NewZoneIndex(airports, airspaces, map[string]string{"mapped": "matz"})
	require.NoError(t, err)
	assert.Equal(t, "atz-a", idx["inside"])
	assert.Equal(t, "matz", idx["mapped"])
	assert.Nil(t, idx.Zone("outside", airspaces))
	require.NotNil(t, idx.Zone("inside", airspaces))

	_, err = NewZoneIndex(airports, airspaces, map[string]string{"inside": "missing"})
	assert.True(t, errors.Is(err, model.ErrUnresolvedReference))
}

func TestAirspaceStation(t *testing.T) {
	matz := model.Airspace{ID: "m1", Name: "Benson MATZ", Type: model.AirspaceTypeMATZ}
	name, f := AirspaceStation(&matz, 5)
	assert.Equal(t, "Benson Zone", name)
	assert.NotEmpty(t, f.Value)

	ctr := model.Airspace{ID: "c1", Name: "Brize Norton CTR", Type: model.AirspaceTypeCTR,
		Frequencies: []model.Frequency{{Value: "124.275", Type: model.FrequencyRadar}, {Value: "119.000", Type: model.FrequencyApproach, Primary: true}}}
	name, f = AirspaceStation(&ctr, 5)
	assert.Equal(t, "Brize Norton Approach", name)
	assert.Equal(t, "119.000", f.Value)
}

package geo

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rttrainer/pkg/model"
)

func square(id string, minLon, minLat, maxLon, maxLat float64, lower model.VerticalLimit) model.Airspace {
	return model.Airspace{
		ID:   id,
		Name: id,
		Type: model.AirspaceTypeCTR,
		Geometry: orb.Polygon{{
			{minLon, minLat}, {maxLon, minLat}, {maxLon, maxLat}, {minLon, maxLat}, {minLon, minLat},
		}},
		LowerLimit: lower,
	}
}

var ground = model.VerticalLimit{Value: 0, Unit: model.UnitFeet}

func TestLimitToFL(t *testing.T) {
	tests := []struct {
		name  string
		limit model.VerticalLimit
		want  float64
	}{
		{"flight level unchanged", model.VerticalLimit{Value: 55, Unit: model.UnitFlightLevel}, 55},
		{"feet", model.VerticalLimit{Value: 5500, Unit: model.UnitFeet}, 55},
		{"meters", model.VerticalLimit{Value: 1676.4, Unit: model.UnitMeters}, 55},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, LimitToFL(tt.limit), 0.01)
		})
	}
}

func TestIsInAirspace(t *testing.T) {
	low := square("low", 0, 52, 0.2, 52.2, ground)
	high := square("high", 0, 52, 0.2, 52.2, model.VerticalLimit{Value: 65, Unit: model.UnitFlightLevel})

	inside := orb.Point{0.1, 52.1}
	outside := orb.Point{0.3, 52.1}

	assert.True(t, IsInAirspace(inside, &low, MaxFlightLevel))
	assert.False(t, IsInAirspace(outside, &low, MaxFlightLevel))
	assert.False(t, IsInAirspace(inside, &high, MaxFlightLevel))
	assert.True(t, IsInAirspace(inside, &high, 70))
}

func TestIsAirspaceIncludedInRoute(t *testing.T) {
	a := square("a", 0, 52, 0.2, 52.2, ground)
	high := square("high", 0, 52, 0.2, 52.2, model.VerticalLimit{Value: 65, Unit: model.UnitFlightLevel})

	tests := []struct {
		name  string
		route []orb.Point
		space *model.Airspace
		want  bool
	}{
		{"crosses boundary", []orb.Point{{-0.1, 52.1}, {0.3, 52.1}}, &a, true},
		{"entirely inside", []orb.Point{{0.05, 52.1}, {0.15, 52.1}}, &a, true},
		{"misses", []orb.Point{{-0.1, 52.3}, {0.3, 52.3}}, &a, false},
		{"single point inside", []orb.Point{{0.1, 52.1}}, &a, true},
		{"single point outside", []orb.Point{{0.5, 52.1}}, &a, false},
		{"inside but above ceiling", []orb.Point{{0.05, 52.1}, {0.15, 52.1}}, &high, false},
		{"crossing counts regardless of base", []orb.Point{{-0.1, 52.1}, {0.3, 52.1}}, &high, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAirspaceIncludedInRoute(tt.route, tt.space, MaxFlightLevel))
		})
	}

	on := AirspacesOnRoute([]orb.Point{{-0.1, 52.1}, {0.3, 52.1}}, []model.Airspace{a, square("far", 5, 5, 6, 6, ground)}, MaxFlightLevel)
	require.Len(t, on, 1)
	assert.Equal(t, "a", on[0].ID)
}

func TestFindIntersections(t *testing.T) {
	a := square("a", 0, 52, 0.2, 52.2, ground)

	t.Run("enter then exit convex polygon", func(t *testing.T) {
		route := []orb.Point{{-0.1, 52.1}, {0.3, 52.1}}
		got, err := FindIntersections(route, []model.Airspace{a})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.True(t, got[0].Entering)
		assert.False(t, got[1].Entering)
		assert.Less(t, got[0].DistanceAlongRoute, got[1].DistanceAlongRoute)
		assert.InDelta(t, 0.0, got[0].Point[0], 1e-9)
		assert.InDelta(t, 0.2, got[1].Point[0], 1e-9)
	})

	t.Run("reverse direction", func(t *testing.T) {
		route := []orb.Point{{0.3, 52.1}, {-0.1, 52.1}}
		got, err := FindIntersections(route, []model.Airspace{a})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.InDelta(t, 0.2, got[0].Point[0], 1e-9)
		assert.True(t, got[0].Entering)
	})

	t.Run("distance matches walking the route", func(t *testing.T) {
		route := []orb.Point{{-0.1, 52.3}, {-0.1, 52.1}, {0.3, 52.1}}
		got, err := FindIntersections(route, []model.Airspace{a})
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, x := range got {
			assert.Equal(t, 1, x.Segment)
			d, err := CalculateDistanceAlongRoute(route, x.Point)
			require.NoError(t, err)
			assert.InDelta(t, d, x.DistanceAlongRoute, 1)
		}
	})

	t.Run("high airspace ignored", func(t *testing.T) {
		high := square("high", 0, 52, 0.2, 52.2, model.VerticalLimit{Value: 45, Unit: model.UnitFlightLevel})
		got, err := FindIntersections([]orb.Point{{-0.1, 52.1}, {0.3, 52.1}}, []model.Airspace{high})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("sorted across airspaces", func(t *testing.T) {
		b := square("b", 0.4, 52, 0.6, 52.2, ground)
		got, err := FindIntersections([]orb.Point{{-0.1, 52.1}, {0.7, 52.1}}, []model.Airspace{b, a})
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, []string{"a", "a", "b", "b"}, []string{got[0].AirspaceID, got[1].AirspaceID, got[2].AirspaceID, got[3].AirspaceID})
		for i := 1; i < len(got); i++ {
			assert.LessOrEqual(t, got[i-1].DistanceAlongRoute, got[i].DistanceAlongRoute)
		}
	})

	t.Run("short route", func(t *testing.T) {
		_, err := FindIntersections([]orb.Point{{0, 0}}, []model.Airspace{a})
		assert.True(t, errors.Is(err, ErrInvalidRoute))
	})
}

func TestDistanceToAirspaceKm(t *testing.T) {
	a := square("a", 0, 52, 0.2, 52.2, ground)

	tests := []struct {
		name string
		p    orb.Point
		want float64
	}{
		{"inside", orb.Point{0.1, 52.1}, 0},
		{"east of the box", orb.Point{0.3, 52.1}, 6.83},
		{"north of the box", orb.Point{0.1, 52.3}, 11.12},
		{"past the corner", orb.Point{0.3, 52.3}, 13.05},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DistanceToAirspaceKm(tt.p, &a), 0.1)
		})
	}
}

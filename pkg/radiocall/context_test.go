package radiocall

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rttrainer/pkg/geo"
	"rttrainer/pkg/model"
)

func TestContext_Position(t *testing.T) {
	banbury := orb.Point{-1.34, 52.06}
	wps := []model.Waypoint{{Name: "Start"}, {Name: "Banbury", Location: banbury}}

	tests := []struct {
		name string
		pos  orb.Point
		want string
	}{
		{"overhead", banbury, "overhead Banbury"},
		{"north", geo.DestinationPoint(banbury, 5*1852, 0), "five miles north of Banbury"},
		{"south west", geo.DestinationPoint(banbury, 12*1852, 225), "one two miles south west of Banbury"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := Context{
				Points:    []model.ScenarioPoint{{Pose: model.AircraftPose{Position: tt.pos}, NextWaypointIndex: 1}},
				Waypoints: wps,
			}
			got, err := ctx.Position()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContext_Next(t *testing.T) {
	ctx := Context{Points: make([]model.ScenarioPoint, 2)}
	assert.NotNil(t, ctx.Next())
	ctx.Index = 1
	assert.Nil(t, ctx.Next())
}

package radiocall

import (
	"errors"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rttrainer/pkg/model"
)

func singlePoint(stage model.Stage, upd model.UpdateData) Context {
	return Context{
		Points: []model.ScenarioPoint{{
			Stage:             stage,
			UpdateData:        upd,
			Pose:              model.AircraftPose{Position: orb.Point{-1.3, 52.1}, AltitudeFt: 2000},
			NextWaypointIndex: 1,
		}},
		Waypoints: []model.Waypoint{
			{ID: "w0", Name: "Wellesbourne", Location: orb.Point{-1.6, 52.19}},
			{ID: "w1", Name: "Banbury", Location: orb.Point{-1.34, 52.06}, Index: 1},
		},
		Callsign:     "G-OFLY",
		Prefix:       "Student",
		AircraftType: "PA28",
	}
}

func newTestParser(t *testing.T, opts ...Option) *Parser {
	t.Helper()
	p, err := NewParser(opts...)
	require.NoError(t, err)
	return p
}

func TestParseCall_RadioCheck(t *testing.T) {
	p := newTestParser(t)
	ctx := singlePoint(model.StageRadioCheck, model.UpdateData{
		CurrentTarget:          "Wellesbourne Information",
		CurrentTargetFrequency: "118.355",
	})

	res, err := p.ParseCall("wellesbourne information student golf oscar foxtrot lima yankee radio check one one eight decimal three five five", ctx)
	require.NoError(t, err)
	assert.False(t, res.HasSevere(), "mistakes: %v", res.Mistakes)
	assert.Contains(t, res.ResponseCall, "readability 5")
	assert.Equal(t, "Wellesbourne Information, Student Golf Oscar Foxtrot Lima Yankee, radio check one one eight decimal three five five", res.ExpectedUserCall)
}

func TestParseCall_Callsign(t *testing.T) {
	p := newTestParser(t)
	upd := model.UpdateData{CurrentTarget: "Wellesbourne Information", CurrentTargetFrequency: "118.355"}

	tests := []struct {
		name   string
		call   string
		severe bool
		minor  bool
	}{
		{"phonetic with prefix", "Wellesbourne Information, Student Golf Oscar Foxtrot Lima Yankee, radio check 118.355", false, false},
		{"raw registration", "Wellesbourne Information, G-OFLY, radio check 118.355", true, false},
		{"missing prefix", "Wellesbourne Information, Golf Oscar Foxtrot Lima Yankee, radio check 118.355", false, true},
		{"niner style digits", "Wellesbourne Information, Student Golf Oscar Foxtrot Lima Yankee, radio check wun wun ate decimal tree fiver fiver", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.ParseCall(tt.call, singlePoint(model.StageRadioCheck, upd))
			require.NoError(t, err)
			severe, minor := res.Count()
			assert.Equal(t, tt.severe, severe > 0, "mistakes: %v", res.Mistakes)
			assert.Equal(t, tt.minor, minor > 0, "mistakes: %v", res.Mistakes)
		})
	}
}

func TestParseCall_AbbreviatedCallsign(t *testing.T) {
	p := newTestParser(t)
	upd := model.UpdateData{CurrentTarget: "Wellesbourne Tower", CallsignModified: true}

	for _, call := range []string{"wilco student golf lima yankee", "wilco student golf oscar foxtrot lima yankee"} {
		res, err := p.ParseCall(call, singlePoint(model.StageWilco, upd))
		require.NoError(t, err)
		assert.True(t, res.IsFlawless(), "%q: %v", call, res.Mistakes)
	}

	// the short form is only valid once ATC has used it
	upd.CallsignModified = false
	res, err := p.ParseCall("wilco student golf lima yankee", singlePoint(model.StageWilco, upd))
	require.NoError(t, err)
	assert.True(t, res.HasSevere())
}

func TestParseCall_PassMessageMATZ(t *testing.T) {
	p := newTestParser(t)
	upd := model.UpdateData{CurrentTarget: "Benson Zone", MATZPenetration: true, NextSquawk: "4521"}

	res, err := p.ParseCall("Student Golf Oscar Foxtrot Lima Yankee, PA28, 5 miles north of Banbury, two thousand feet, request basic service",
		singlePoint(model.StagePassMessage, upd))
	require.NoError(t, err)
	assert.True(t, res.HasSevere())
	assert.Contains(t, res.ExpectedUserCall, "request MATZ penetration")

	res, err = p.ParseCall("Student Golf Oscar Foxtrot Lima Yankee, PA28, 5 miles north of Banbury, two thousand feet, request MATZ penetration",
		singlePoint(model.StagePassMessage, upd))
	require.NoError(t, err)
	assert.False(t, res.HasSevere(), "mistakes: %v", res.Mistakes)
	assert.Contains(t, res.ResponseCall, "squawk 4521")
}

func TestParseCall_Readbacks(t *testing.T) {
	p := newTestParser(t)
	upd := model.UpdateData{
		CurrentTarget:   "Wellesbourne Ground",
		Runway:          "23",
		CurrentPressure: 998,
		NextSquawk:      "4721",
	}

	tests := []struct {
		name   string
		call   string
		severe bool
		minor  int
	}{
		{"complete", "runway two three, QNH niner niner eight hectopascals, squawk four seven two one, student golf oscar foxtrot lima yankee", false, 0},
		{"wrong squawk", "runway two three, QNH 998 hectopascals, squawk 4712, student golf oscar foxtrot lima yankee", true, 0},
		{"missing unit", "runway 23, QNH 998, squawk 4721, student golf oscar foxtrot lima yankee", false, 1},
		{"callsign first", "student golf oscar foxtrot lima yankee, runway 23, QNH 998 hPa, squawk 4721", false, 1},
		{"missing runway", "QNH 998 hectopascals, squawk 4721, student golf oscar foxtrot lima yankee", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.ParseCall(tt.call, singlePoint(model.StageReadbackDepartureInformation, upd))
			require.NoError(t, err)
			severe, minor := res.Count()
			assert.Equal(t, tt.severe, severe > 0, "mistakes: %v", res.Mistakes)
			assert.Equal(t, tt.minor, minor, "mistakes: %v", res.Mistakes)
			assert.Empty(t, res.ResponseCall)
		})
	}
}

func TestParseCall_Emergency(t *testing.T) {
	p := newTestParser(t)
	upd := model.UpdateData{CurrentTarget: "London Information", Emergency: model.EmergencyRoughRunningEngine}

	res, err := p.ParseCall("pan pan london information student golf oscar foxtrot lima yankee PA28 rough running engine 5 miles north of banbury two thousand feet",
		singlePoint(model.StageDeclareEmergency, upd))
	require.NoError(t, err)
	assert.False(t, res.HasSevere(), "mistakes: %v", res.Mistakes)
	assert.Contains(t, res.Mistakes, model.Mistake{Description: "Say PAN PAN three times.", Severity: model.SeverityMinor})

	res, err = p.ParseCall("london information student golf oscar foxtrot lima yankee engine trouble",
		singlePoint(model.StageDeclareEmergency, upd))
	require.NoError(t, err)
	assert.True(t, res.HasSevere())
}

func TestParseCall_EmptyCall(t *testing.T) {
	p := newTestParser(t)
	res, err := p.ParseCall("  ", singlePoint(model.StageRoger, model.UpdateData{}))
	require.NoError(t, err)
	require.Len(t, res.Mistakes, 1)
	assert.Equal(t, model.SeveritySevere, res.Mistakes[0].Severity)
	assert.NotEmpty(t, res.ExpectedUserCall)
}

func TestParseCall_Errors(t *testing.T) {
	p := newTestParser(t)

	_, err := p.ParseCall("roger", singlePoint("NoSuchStage", model.UpdateData{}))
	assert.True(t, errors.Is(err, ErrUnimplementedStage))

	ctx := singlePoint(model.StageRoger, model.UpdateData{})
	ctx.Index = 4
	_, err = p.ParseCall("roger", ctx)
	assert.True(t, errors.Is(err, model.ErrUnresolvedReference))

	// position lookups need the waypoint the point is heading to
	ctx = singlePoint(model.StagePassMessage, model.UpdateData{})
	ctx.Points[0].NextWaypointIndex = 9
	_, err = p.ParseCall("student golf oscar foxtrot lima yankee", ctx)
	assert.True(t, errors.Is(err, model.ErrUnresolvedReference))
}

type parseRecord struct {
	stage         string
	severe, minor int
}

type fakeRecorder struct{ records []parseRecord }

func (f *fakeRecorder) ObserveParse(stage string, severe, minor int, _ time.Duration) {
	f.records = append(f.records, parseRecord{stage, severe, minor})
}

func TestParseCall_Recorder(t *testing.T) {
	rec := &fakeRecorder{}
	p := newTestParser(t, WithRecorder(rec))

	_, err := p.ParseCall("roger", singlePoint(model.StageRoger, model.UpdateData{}))
	require.NoError(t, err)
	require.Len(t, rec.records, 1)
	assert.Equal(t, parseRecord{"Roger", 1, 0}, rec.records[0])
}

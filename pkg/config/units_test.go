package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"10s", 10 * time.Second, false},
		{"1.5h", 90 * time.Minute, false},
		{"1d", Day, false},
		{"13w", 13 * Week, false},
		{"2d2h", 50 * time.Hour, false},
		{"", 0, false},
		{"invalid", 0, true},
		{"3x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseDistance(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		wantErr  bool
	}{
		{"4km", 4000, false},
		{"500m", 500, false},
		{"1nm", 1852, false},
		{"2000ft", 609.6, false},
		{"500", 500, false},
		{"10x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDistance(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestUnitStrings(t *testing.T) {
	assert.Equal(t, "13w", Duration(13*Week).String())
	assert.Equal(t, "30d", Duration(30*Day).String())
	assert.Equal(t, "2h0m0s", Duration(2*time.Hour).String())
	assert.Equal(t, "0s", Duration(0).String())

	assert.Equal(t, "4km", Distance(4000).String())
	assert.Equal(t, "0.5km", Distance(500).String())
	assert.Equal(t, "2nm", Distance(3704).String())
	assert.Equal(t, "12.5m", Distance(12.5).String())
}

func TestUnitsRoundTripYAML(t *testing.T) {
	type section struct {
		Retention Duration `yaml:"retention"`
		Exit      Distance `yaml:"exit"`
	}

	in := section{Retention: Duration(13 * Week), Exit: Distance(4000)}
	b, err := yaml.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), "retention: 13w")
	assert.Contains(t, string(b), "exit: 4km")

	var out section
	require.NoError(t, yaml.Unmarshal(b, &out))
	assert.Equal(t, in, out)

	require.NoError(t, yaml.Unmarshal([]byte("exit: 750\n"), &out))
	assert.Equal(t, Distance(750), out.Exit, "bare numbers are meters")
}

func TestUnitHelpers(t *testing.T) {
	assert.InDelta(t, 4.5, Distance(4500).Km(), 1e-12)
	assert.Equal(t, 90*time.Second, Duration(90*time.Second).Std())
}

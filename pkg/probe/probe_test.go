package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	probes := []Probe{
		{
			Name:     "Database",
			Check:    func(ctx context.Context) error { return nil },
			Critical: true,
		},
		{
			Name:  "Aerodata freshness",
			Check: func(ctx context.Context) error { return errors.New("stale") },
		},
		{
			Name: "Slow upstream",
			Check: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
			Timeout: 10 * time.Millisecond,
		},
	}

	results := Run(context.Background(), probes)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Error)
	assert.Equal(t, "PASS", results[0].Status())
	assert.EqualError(t, results[1].Error, "stale")
	assert.Equal(t, "WARN", results[1].Status())
	assert.ErrorIs(t, results[2].Error, context.DeadlineExceeded)
	assert.Equal(t, "Slow upstream", results[2].Probe.Name)
}

func TestAnalyzeResults(t *testing.T) {
	boom := errors.New("fail")
	tests := []struct {
		name    string
		results []Result
		wantErr bool
	}{
		{"All Pass", []Result{{Probe: Probe{Name: "P1", Critical: true}}}, false},
		{"Critical Failure", []Result{{Probe: Probe{Name: "P1", Critical: true}, Error: boom}}, true},
		{"Non-Critical Failure", []Result{{Probe: Probe{Name: "P1"}, Error: boom}}, false},
		{"Mixed Failure", []Result{
			{Probe: Probe{Name: "P1"}, Error: boom},
			{Probe: Probe{Name: "P2", Critical: true}, Error: boom},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AnalyzeResults(tt.results)
			if tt.wantErr {
				assert.ErrorIs(t, err, boom)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

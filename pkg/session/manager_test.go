package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rttrainer/pkg/model"
)

type memorySink struct {
	mu       sync.Mutex
	attempts []model.Attempt
	err      error
}

func (m *memorySink) SaveAttempt(_ context.Context, a *model.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, *a)
	return m.err
}

type lastGauge struct{ n int }

func (g *lastGauge) SetActiveSessions(n int) { g.n = n }

func TestManager_Lifecycle(t *testing.T) {
	sink := &memorySink{}
	gauge := &lastGauge{}
	m := NewManager(newTestParser(t), DefaultPolicy(), time.Hour, WithAttemptSink(sink), WithGauge(gauge))

	s := m.Start(testScenario())
	require.NotEmpty(t, s.ID)
	assert.Equal(t, 1, gauge.n)
	assert.Equal(t, "118.355", s.Radio.Frequency, "radio preset to the first station")

	_, err := m.Submit(context.Background(), s.ID, radioCheckCall)
	assert.ErrorIs(t, err, ErrRadioOff)

	require.NoError(t, m.SetEquipment(s.ID, Radio{On: true, Frequency: "118.355"}, Transponder{On: true, Code: "7000"}))
	turn, err := m.Submit(context.Background(), s.ID, radioCheckCall)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdvance, turn.Outcome)

	snap, err := m.Snapshot(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Cursor)
	require.NotNil(t, snap.Point)
	assert.Equal(t, model.StageDepartureInformationRequest, snap.Point.Stage)
	assert.Equal(t, 2, snap.Points)

	res, err := m.Results(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Summary.Calls)

	require.Len(t, sink.attempts, 1)
	assert.Equal(t, s.ID, sink.attempts[0].SessionID)
	assert.Equal(t, model.StageRadioCheck, sink.attempts[0].Stage)

	assert.True(t, m.End(s.ID))
	assert.Equal(t, 0, gauge.n)
	_, err = m.Snapshot(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_SinkFailureDoesNotFailCall(t *testing.T) {
	sink := &memorySink{err: errors.New("disk full")}
	m := NewManager(newTestParser(t), DefaultPolicy(), time.Hour, WithAttemptSink(sink))
	s := m.Start(testScenario())
	require.NoError(t, m.SetEquipment(s.ID, Radio{On: true, Frequency: "118.355"}, Transponder{On: true, Code: "7000"}))

	_, err := m.Submit(context.Background(), s.ID, radioCheckCall)
	assert.NoError(t, err)
}

func TestManager_Subscribe(t *testing.T) {
	m := NewManager(newTestParser(t), DefaultPolicy(), time.Hour)
	s := m.Start(testScenario())

	events, cancel, err := m.Subscribe(s.ID)
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, m.SetEquipment(s.ID, Radio{On: true, Frequency: "118.355"}, Transponder{On: true, Code: "7000"}))
	_, err = m.Submit(context.Background(), s.ID, radioCheckCall)
	require.NoError(t, err)

	ev := <-events
	assert.Equal(t, "radio", ev.Kind)
	ev = <-events
	assert.Equal(t, "turn", ev.Kind)
	require.NotNil(t, ev.Turn)
	assert.Equal(t, OutcomeAdvance, ev.Turn.Outcome)

	m.End(s.ID)
	_, open := <-events
	assert.False(t, open, "channel closed when the session ends")
	cancel()
}

func TestManager_UnknownSession(t *testing.T) {
	m := NewManager(newTestParser(t), DefaultPolicy(), time.Hour)

	_, err := m.Submit(context.Background(), "nope", "hello")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Reveal("nope", true)
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = m.Subscribe("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, m.End("nope"))
}

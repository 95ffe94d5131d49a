package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"rttrainer/pkg/apisession"
	"rttrainer/pkg/model"
	"rttrainer/pkg/radiocall"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// AttemptSink persists attempts as they are made.
type AttemptSink interface {
	SaveAttempt(ctx context.Context, a *model.Attempt) error
}

// Gauge tracks the number of live sessions.
type Gauge interface {
	SetActiveSessions(n int)
}

// Event is published to subscribers after every change to a session.
type Event struct {
	Kind    string    `json:"kind"` // "turn", "reveal", "radio", "finished"
	Session string    `json:"session"`
	Cursor  int       `json:"cursor"`
	Turn    *Turn     `json:"turn,omitempty"`
	Text    string    `json:"text,omitempty"`
	At      time.Time `json:"at"`
}

// Manager owns the live sessions of the server.
type Manager struct {
	store    *apisession.Store[Session]
	parser   *radiocall.Parser
	policy   Policy
	policyFn func() Policy
	sink     AttemptSink
	gauge    Gauge

	subMu sync.Mutex
	subs  map[string]map[chan Event]struct{}
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithAttemptSink persists every attempt.
func WithAttemptSink(s AttemptSink) ManagerOption {
	return func(m *Manager) { m.sink = s }
}

// WithGauge reports the live session count.
func WithGauge(g Gauge) ManagerOption {
	return func(m *Manager) { m.gauge = g }
}

// WithPolicySource reads the retry policy for every new session from fn,
// so runtime settings apply without a restart.
func WithPolicySource(fn func() Policy) ManagerOption {
	return func(m *Manager) { m.policyFn = fn }
}

// NewManager creates a manager whose sessions expire after ttl of inactivity.
func NewManager(parser *radiocall.Parser, policy Policy, ttl time.Duration, opts ...ManagerOption) *Manager {
	m := &Manager{
		parser: parser,
		policy: policy,
		subs:   make(map[string]map[chan Event]struct{}),
	}
	for _, o := range opts {
		o(m)
	}
	m.store = apisession.New(ttl, apisession.WithEvictHook(func(id string, _ *Session) {
		slog.Debug("Session expired", "id", id)
		m.closeSubscribers(id)
		m.reportCount()
	}))
	return m
}

// Start registers a new session for sc and returns it.
func (m *Manager) Start(sc Scenario) *Session {
	policy := m.policy
	if m.policyFn != nil {
		policy = m.policyFn()
	}
	s := New(uuid.NewString(), sc, m.parser, policy)
	if len(sc.Points) > 0 {
		// the radio starts on the first station so the trainee only has to switch it on
		u := sc.Points[0].UpdateData
		s.Radio.Frequency = u.CurrentTargetFrequency
		s.Transponder.Code = u.CurrentTransponderFrequency
	}
	m.store.Put(s.ID, s)
	m.reportCount()
	slog.Info("Session started", "id", s.ID, "seed", sc.Seed, "points", len(sc.Points))
	return s
}

// With runs fn with exclusive access to the session.
func (m *Manager) With(id string, fn func(s *Session) error) error {
	s, ok := m.store.Lookup(id)
	if !ok {
		return ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

// Submit makes a call in session id and persists the attempt.
func (m *Manager) Submit(ctx context.Context, id, text string) (Turn, error) {
	var (
		turn    Turn
		attempt *model.Attempt
	)
	err := m.With(id, func(s *Session) error {
		var err error
		turn, err = s.Submit(text)
		if err != nil {
			return err
		}
		a := s.Attempts[len(s.Attempts)-1]
		attempt = &a
		return nil
	})
	if err != nil {
		return Turn{}, err
	}

	if m.sink != nil {
		if err := m.sink.SaveAttempt(ctx, attempt); err != nil {
			slog.Warn("Failed to persist attempt", "session", id, "error", err)
		}
	}
	kind := "turn"
	if turn.Outcome == OutcomeFinished {
		kind = "finished"
	}
	m.publish(Event{Kind: kind, Session: id, Cursor: turn.Cursor, Turn: &turn, At: time.Now()})
	return turn, nil
}

// Reveal answers the reveal offer in session id.
func (m *Manager) Reveal(id string, accept bool) (string, error) {
	var (
		text   string
		cursor int
	)
	err := m.With(id, func(s *Session) error {
		var err error
		text, err = s.Reveal(accept)
		cursor = s.Cursor
		return err
	})
	if err != nil {
		return "", err
	}
	if accept {
		m.publish(Event{Kind: "reveal", Session: id, Cursor: cursor, Text: text, At: time.Now()})
	}
	return text, nil
}

// SetEquipment replaces the radio and transponder state.
func (m *Manager) SetEquipment(id string, radio Radio, xpdr Transponder) error {
	var cursor int
	err := m.With(id, func(s *Session) error {
		s.Radio = radio
		s.Transponder = xpdr
		cursor = s.Cursor
		return nil
	})
	if err != nil {
		return err
	}
	m.publish(Event{Kind: "radio", Session: id, Cursor: cursor, At: time.Now()})
	return nil
}

// Snapshot is a consistent copy of the client visible session state.
type Snapshot struct {
	ID             string               `json:"id"`
	Cursor         int                  `json:"cursor"`
	FailedAttempts int                  `json:"failed_attempts"`
	Finished       bool                 `json:"finished"`
	Radio          Radio                `json:"radio"`
	Transponder    Transponder          `json:"transponder"`
	Point          *model.ScenarioPoint `json:"point,omitempty"`
	Points         int                  `json:"points"`
}

// Snapshot returns the state of session id.
func (m *Manager) Snapshot(id string) (Snapshot, error) {
	var snap Snapshot
	err := m.With(id, func(s *Session) error {
		snap = Snapshot{
			ID:             s.ID,
			Cursor:         s.Cursor,
			FailedAttempts: s.FailedAttempts,
			Finished:       s.Finished,
			Radio:          s.Radio,
			Transponder:    s.Transponder,
			Points:         len(s.Scenario.Points),
		}
		if p, err := s.Current(); err == nil {
			cp := *p
			snap.Point = &cp
		}
		return nil
	})
	return snap, err
}

// Results returns the aggregated attempts of session id.
func (m *Manager) Results(id string) (Results, error) {
	var r Results
	err := m.With(id, func(s *Session) error {
		r = s.Results()
		return nil
	})
	return r, err
}

// End removes session id.
func (m *Manager) End(id string) bool {
	ok := m.store.Delete(id)
	if ok {
		m.closeSubscribers(id)
		m.reportCount()
	}
	return ok
}

// Sweep evicts expired sessions. It is meant to run on a ticker.
func (m *Manager) Sweep() {
	m.store.Cleanup()
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep()
		}
	}
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	return m.store.Len()
}

// Subscribe returns a channel of events for session id and a function
// that cancels the subscription. Slow subscribers miss events.
func (m *Manager) Subscribe(id string) (<-chan Event, func(), error) {
	if _, ok := m.store.Lookup(id); !ok {
		return nil, nil, ErrNotFound
	}
	ch := make(chan Event, 16)
	m.subMu.Lock()
	if m.subs[id] == nil {
		m.subs[id] = make(map[chan Event]struct{})
	}
	m.subs[id][ch] = struct{}{}
	m.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.subMu.Lock()
			defer m.subMu.Unlock()
			if set, ok := m.subs[id]; ok {
				if _, ok := set[ch]; ok {
					delete(set, ch)
					close(ch)
				}
				if len(set) == 0 {
					delete(m.subs, id)
				}
			}
		})
	}
	return ch, cancel, nil
}

func (m *Manager) publish(ev Event) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for ch := range m.subs[ev.Session] {
		select {
		case ch <- ev:
		default:
			slog.Debug("Dropping session event", "session", ev.Session, "kind", ev.Kind)
		}
	}
}

func (m *Manager) closeSubscribers(id string) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for ch := range m.subs[id] {
		close(ch)
	}
	delete(m.subs, id)
}

func (m *Manager) reportCount() {
	if m.gauge != nil {
		m.gauge.SetActiveSessions(m.store.Len())
	}
}

// Package session owns the practice loop around the parser: the cursor
// into the timeline, the attempt counter, the simulated radio and
// transponder, and the results of a run.
package session

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"rttrainer/pkg/feedback"
	"rttrainer/pkg/model"
	"rttrainer/pkg/phraseology"
	"rttrainer/pkg/radiocall"
)

var (
	ErrRadioOff         = errors.New("radio is off")
	ErrWrongFrequency   = errors.New("radio is not tuned to the station")
	ErrWrongSquawk      = errors.New("transponder code does not match")
	ErrScenarioFinished = errors.New("scenario finished")
)

// RevealAccepted is the attempt counter after the trainee has chosen to
// see the expected call.
const RevealAccepted = -1

// Policy controls when the expected call is offered.
type Policy struct {
	RevealThreshold int // failed attempts before the reveal is offered
	DeclineCooldown int // further failures before it is offered again
}

// DefaultPolicy offers the reveal after three failures.
func DefaultPolicy() Policy {
	return Policy{RevealThreshold: 3, DeclineCooldown: 3}
}

// Outcome is what the caller should do after a submitted call.
type Outcome string

const (
	OutcomeAdvance     Outcome = "advance"
	OutcomeSayAgain    Outcome = "say_again"
	OutcomeOfferReveal Outcome = "offer_reveal"
	OutcomeFinished    Outcome = "finished"
)

// Radio is the simulated COM radio.
type Radio struct {
	On        bool   `json:"on"`
	Frequency string `json:"frequency"`
	Standby   string `json:"standby"`
}

// Swap exchanges the active and standby frequencies.
func (r *Radio) Swap() {
	r.Frequency, r.Standby = r.Standby, r.Frequency
}

// Transponder is the simulated transponder.
type Transponder struct {
	On   bool   `json:"on"`
	Code string `json:"code"`
}

// Scenario is the input of a practice run.
type Scenario struct {
	Seed         string                `json:"seed"`
	Callsign     string                `json:"callsign"`
	Prefix       string                `json:"prefix"`
	AircraftType string                `json:"aircraft_type"`
	Points       []model.ScenarioPoint `json:"points"`
	Waypoints    []model.Waypoint      `json:"waypoints"`
}

// Turn is the outcome of one submitted call.
type Turn struct {
	Outcome Outcome           `json:"outcome"`
	Result  model.ParseResult `json:"result"`
	Reply   string            `json:"reply"`
	Cursor  int               `json:"cursor"`
}

// Session is one practice run. Methods are not safe for concurrent use;
// the Manager serialises access.
type Session struct {
	ID             string      `json:"id"`
	Scenario       Scenario    `json:"scenario"`
	Cursor         int         `json:"cursor"`
	FailedAttempts int         `json:"failed_attempts"`
	Radio          Radio       `json:"radio"`
	Transponder    Transponder `json:"transponder"`
	Finished       bool        `json:"finished"`

	Attempts []model.Attempt `json:"attempts"`

	mu       sync.Mutex
	parser   *radiocall.Parser
	policy   Policy
	expected string
	now      func() time.Time
}

// New starts a session at the first scenario point.
func New(id string, sc Scenario, parser *radiocall.Parser, policy Policy) *Session {
	return &Session{
		ID:       id,
		Scenario: sc,
		parser:   parser,
		policy:   policy,
		now:      time.Now,
	}
}

func (s *Session) context() radiocall.Context {
	return radiocall.Context{
		Points:       s.Scenario.Points,
		Index:        s.Cursor,
		Waypoints:    s.Scenario.Waypoints,
		Callsign:     s.Scenario.Callsign,
		Prefix:       s.Scenario.Prefix,
		AircraftType: s.Scenario.AircraftType,
	}
}

// Current returns the point the next call is made at.
func (s *Session) Current() (*model.ScenarioPoint, error) {
	return model.PointAt(s.Scenario.Points, s.Cursor)
}

// CheckEquipment verifies that the radio is on and tuned to the station
// and that the transponder shows the expected code.
func (s *Session) CheckEquipment() error {
	p, err := s.Current()
	if err != nil {
		return err
	}
	u := p.UpdateData
	if !s.Radio.On {
		return ErrRadioOff
	}
	if u.CurrentTargetFrequency != "" && !SameFrequency(s.Radio.Frequency, u.CurrentTargetFrequency) {
		return fmt.Errorf("%w: tuned %s, %s is on %s", ErrWrongFrequency, s.Radio.Frequency, u.CurrentTarget, u.CurrentTargetFrequency)
	}
	if code := u.CurrentTransponderFrequency; code != "" {
		if !s.Transponder.On {
			return fmt.Errorf("%w: transponder is off", ErrWrongSquawk)
		}
		if s.Transponder.Code != code {
			return fmt.Errorf("%w: set %s, expected %s", ErrWrongSquawk, s.Transponder.Code, code)
		}
	}
	return nil
}

// Submit checks the equipment, parses the call and applies the retry
// policy. Equipment errors reject the call before it is parsed.
func (s *Session) Submit(text string) (Turn, error) {
	if s.Finished {
		return Turn{}, ErrScenarioFinished
	}
	if err := s.CheckEquipment(); err != nil {
		return Turn{}, err
	}
	p, err := s.Current()
	if err != nil {
		return Turn{}, err
	}
	res, err := s.parser.ParseCall(text, s.context())
	if err != nil {
		return Turn{}, err
	}
	s.expected = res.ExpectedUserCall
	s.Attempts = append(s.Attempts, model.Attempt{
		SessionID: s.ID,
		Index:     p.Index,
		Stage:     p.Stage,
		Call:      text,
		Mistakes:  res.Mistakes,
		At:        s.now(),
	})

	turn := Turn{Result: res, Cursor: s.Cursor}
	if res.HasSevere() {
		s.FailedAttempts++
		turn.Outcome = OutcomeSayAgain
		turn.Reply = Join(phraseology.CurrentCallsign(s.Scenario.Callsign, s.Scenario.Prefix, p.UpdateData.CallsignModified), "say again")
		if s.FailedAttempts >= s.policy.RevealThreshold {
			turn.Outcome = OutcomeOfferReveal
		}
		return turn, nil
	}

	turn.Reply = res.ResponseCall
	s.FailedAttempts = 0
	if s.Cursor >= len(s.Scenario.Points)-1 {
		s.Finished = true
		turn.Outcome = OutcomeFinished
		return turn, nil
	}
	s.Cursor++
	turn.Cursor = s.Cursor
	turn.Outcome = OutcomeAdvance
	return turn, nil
}

// Reveal answers the reveal offer. Accepting returns the expected call
// and sets the counter to RevealAccepted; declining sets it to the
// negative cooldown.
func (s *Session) Reveal(accept bool) (string, error) {
	if s.Finished {
		return "", ErrScenarioFinished
	}
	if !accept {
		s.FailedAttempts = -s.policy.DeclineCooldown
		return "", nil
	}
	if s.expected == "" {
		res, err := s.parser.ParseCall("", s.context())
		if err != nil {
			return "", err
		}
		s.expected = res.ExpectedUserCall
	}
	s.FailedAttempts = RevealAccepted
	if n := len(s.Attempts); n > 0 && s.Attempts[n-1].Index == s.Cursor {
		s.Attempts[n-1].Revealed = true
	}
	return s.expected, nil
}

// PointResult summarises the attempts at one scenario point.
type PointResult struct {
	Index    int         `json:"index"`
	Stage    model.Stage `json:"stage"`
	Attempts int         `json:"attempts"`
	Severe   int         `json:"severe"`
	Minor    int         `json:"minor"`
	Revealed bool        `json:"revealed"`
	Passed   bool        `json:"passed"`
}

// Results aggregates the run.
type Results struct {
	Points  []PointResult    `json:"points"`
	Summary feedback.Summary `json:"summary"`
}

// Results returns per point and overall statistics of the attempts so far.
func (s *Session) Results() Results {
	var out Results
	byIndex := make(map[int]int)
	for _, a := range s.Attempts {
		i, ok := byIndex[a.Index]
		if !ok {
			i = len(out.Points)
			byIndex[a.Index] = i
			out.Points = append(out.Points, PointResult{Index: a.Index, Stage: a.Stage})
		}
		r := a.Result()
		severe, minor := r.Count()
		pr := &out.Points[i]
		pr.Attempts++
		pr.Severe += severe
		pr.Minor += minor
		pr.Revealed = pr.Revealed || a.Revealed
		if severe == 0 {
			pr.Passed = true
		}
		out.Summary.Add(r)
	}
	return out
}

// SameFrequency compares two frequencies in MHz to the kHz, so "118.5"
// and "118.500" match.
func SameFrequency(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA != nil || errB != nil {
		return a == b
	}
	return math.Round(fa*1000) == math.Round(fb*1000)
}

// Join is radiocall.Join, re-exported for reply building.
var Join = radiocall.Join

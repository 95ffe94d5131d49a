package model

import "time"

// Attempt is one submitted call at a scenario point, kept for results and
// persistence.
type Attempt struct {
	SessionID string    `json:"session_id"`
	Index     int       `json:"index"`
	Stage     Stage     `json:"stage"`
	Call      string    `json:"call"`
	Mistakes  []Mistake `json:"mistakes"`
	Revealed  bool      `json:"revealed,omitempty"`
	At        time.Time `json:"at"`
}

// Result rebuilds the parse outcome of the attempt.
func (a Attempt) Result() ParseResult {
	return ParseResult{Mistakes: a.Mistakes}
}

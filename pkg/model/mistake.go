package model

// Severity classifies a phraseology mistake.
type Severity int

const (
	// SeverityMinor mistakes are reported but do not block the scenario.
	SeverityMinor Severity = iota
	// SeveritySevere mistakes block scenario advancement.
	SeveritySevere
)

func (s Severity) String() string {
	if s == SeveritySevere {
		return "severe"
	}
	return "minor"
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	if string(b) == "severe" {
		*s = SeveritySevere
	} else {
		*s = SeverityMinor
	}
	return nil
}

// Mistake is one phraseology deviation found in a radio call.
type Mistake struct {
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// ParseResult is what the parser returns for one call.
type ParseResult struct {
	Mistakes         []Mistake `json:"mistakes"`
	ResponseCall     string    `json:"response_call"`
	ExpectedUserCall string    `json:"expected_user_call"`
}

// HasSevere reports whether any mistake blocks advancement.
func (r *ParseResult) HasSevere() bool {
	for _, m := range r.Mistakes {
		if m.Severity == SeveritySevere {
			return true
		}
	}
	return false
}

// IsFlawless reports whether no mistakes were found.
func (r *ParseResult) IsFlawless() bool {
	return len(r.Mistakes) == 0
}

// Count returns the number of severe and minor mistakes.
func (r *ParseResult) Count() (severe, minor int) {
	for _, m := range r.Mistakes {
		if m.Severity == SeveritySevere {
			severe++
		} else {
			minor++
		}
	}
	return severe, minor
}

// Package feedback collects phraseology mistakes for one parse of a radio
// call.
package feedback

import "rttrainer/pkg/model"

// Collector accumulates mistakes. A Collector is scoped to a single parse
// and is not safe for concurrent use.
type Collector struct {
	mistakes []model.Mistake
	seen     map[string]bool
}

// New returns an empty collector.
func New() *Collector {
	return &Collector{seen: make(map[string]bool)}
}

// Push records a mistake. Repeated descriptions are recorded once, keeping
// the highest severity.
func (c *Collector) Push(description string, severity model.Severity) {
	if c.seen[description] {
		for i := range c.mistakes {
			if c.mistakes[i].Description == description && severity > c.mistakes[i].Severity {
				c.mistakes[i].Severity = severity
			}
		}
		return
	}
	c.seen[description] = true
	c.mistakes = append(c.mistakes, model.Mistake{Description: description, Severity: severity})
}

// Severe records a blocking mistake.
func (c *Collector) Severe(description string) {
	c.Push(description, model.SeveritySevere)
}

// Minor records a non blocking mistake.
func (c *Collector) Minor(description string) {
	c.Push(description, model.SeverityMinor)
}

// Mistakes returns a copy of the recorded mistakes in insertion order.
func (c *Collector) Mistakes() []model.Mistake {
	out := make([]model.Mistake, len(c.mistakes))
	copy(out, c.mistakes)
	return out
}

// Result builds the parse result for the collected mistakes.
func (c *Collector) Result(responseCall, expectedUserCall string) model.ParseResult {
	return model.ParseResult{
		Mistakes:         c.Mistakes(),
		ResponseCall:     responseCall,
		ExpectedUserCall: expectedUserCall,
	}
}

// Summary aggregates parse results, e.g. over a whole session.
type Summary struct {
	Calls    int `json:"calls"`
	Flawless int `json:"flawless"`
	Severe   int `json:"severe"`
	Minor    int `json:"minor"`
}

// Add folds one result into the summary.
func (s *Summary) Add(r model.ParseResult) {
	s.Calls++
	if r.IsFlawless() {
		s.Flawless++
	}
	sev, minor := r.Count()
	s.Severe += sev
	s.Minor += minor
}

// FlawlessRatio is the share of calls without any mistake.
func (s Summary) FlawlessRatio() float64 {
	if s.Calls == 0 {
		return 0
	}
	return float64(s.Flawless) / float64(s.Calls)
}

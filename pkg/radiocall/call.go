package radiocall

import (
	"fmt"
	"strings"

	"rttrainer/pkg/feedback"
	"rttrainer/pkg/logging"
	"rttrainer/pkg/model"
	"rttrainer/pkg/phraseology"
)

// Call is one radio call under evaluation. Assertions push mistakes into
// the call's collector; a Call lives for a single parse.
type Call struct {
	Text string

	ctx   Context
	point *model.ScenarioPoint
	next  *model.ScenarioPoint
	words []string
	fb    *feedback.Collector
}

func newCall(text string, ctx Context, point *model.ScenarioPoint) *Call {
	next := ctx.Next()
	if next == nil {
		next = point
	}
	return &Call{
		Text:  text,
		ctx:   ctx,
		point: point,
		next:  next,
		words: phraseology.Words(text),
		fb:    feedback.New(),
	}
}

// Point is the scenario point the call is made at.
func (c *Call) Point() *model.ScenarioPoint { return c.point }

func (c *Call) upd() *model.UpdateData { return &c.point.UpdateData }

// Callsign is the canonical callsign form at this point.
func (c *Call) Callsign() string {
	return phraseology.CurrentCallsign(c.ctx.Callsign, c.ctx.Prefix, c.upd().CallsignModified)
}

// ATCCallsign is the form ATC uses in its reply.
func (c *Call) ATCCallsign() string {
	return phraseology.CurrentCallsign(c.ctx.Callsign, c.ctx.Prefix, c.next.UpdateData.CallsignModified)
}

// Has reports whether the call contains phrase as consecutive words.
func (c *Call) Has(phrase string) bool {
	return phraseology.IndexPhrase(c.words, phraseology.Words(phrase)) >= 0
}

// HasAny reports whether the call contains any of the phrases.
func (c *Call) HasAny(phrases ...string) bool {
	for _, p := range phrases {
		if c.Has(p) {
			return true
		}
	}
	return false
}

func (c *Call) callsignForms() [][]string {
	var out [][]string
	for _, f := range phraseology.CallsignForms(c.ctx.Callsign, c.ctx.Prefix, c.upd().CallsignModified) {
		out = append(out, phraseology.Words(f))
	}
	return out
}

// AssertCallsign checks that one of the valid callsign forms is present.
// A spelled registration without the prefix is a minor mistake.
func (c *Call) AssertCallsign() bool {
	for _, f := range c.callsignForms() {
		if phraseology.IndexPhrase(c.words, f) >= 0 {
			return true
		}
	}
	if c.ctx.Prefix != "" {
		for _, f := range phraseology.CallsignForms(c.ctx.Callsign, "", c.upd().CallsignModified) {
			if phraseology.IndexPhrase(c.words, phraseology.Words(f)) >= 0 {
				c.fb.Minor(fmt.Sprintf("Include the prefix %q with your callsign.", c.ctx.Prefix))
				return true
			}
		}
	}
	c.fb.Severe(fmt.Sprintf("Include your callsign, spelled phonetically: %s.", c.Callsign()))
	return false
}

// AssertEndsWithCallsign checks that a readback finishes with the callsign.
func (c *Call) AssertEndsWithCallsign() {
	if !c.AssertCallsign() {
		return
	}
	for _, f := range c.callsignForms() {
		if phraseology.EndsWithPhrase(c.words, f) {
			return
		}
	}
	c.fb.Minor("End a readback with your callsign.")
}

// AssertStartsWithTarget checks that the call opens with the station
// being called.
func (c *Call) AssertStartsWithTarget() {
	target := c.upd().CurrentTarget
	tw := phraseology.Words(target)
	switch {
	case phraseology.StartsWithPhrase(c.words, tw):
	case phraseology.IndexPhrase(c.words, tw) >= 0:
		c.fb.Minor(fmt.Sprintf("Start the call with the station you are calling: %s.", target))
	default:
		c.fb.Severe(fmt.Sprintf("Address the station you are calling: %s.", target))
	}
}

// AssertPhrase pushes a mistake unless phrase appears as consecutive words.
func (c *Call) AssertPhrase(phrase, description string, severity model.Severity) bool {
	if c.Has(phrase) {
		return true
	}
	c.fb.Push(description, severity)
	return false
}

// AssertAnyPhrase pushes a mistake unless one of phrases appears.
func (c *Call) AssertAnyPhrase(description string, severity model.Severity, phrases ...string) bool {
	if c.HasAny(phrases...) {
		return true
	}
	c.fb.Push(description, severity)
	return false
}

// AssertInOrder checks that the phrases appear in the given order.
// Missing phrases are left to the presence assertions.
func (c *Call) AssertInOrder(description string, severity model.Severity, phrases ...string) {
	last := -1
	for _, p := range phrases {
		i := phraseology.IndexPhrase(c.words, phraseology.Words(p))
		if i < 0 {
			return
		}
		if i < last {
			c.fb.Push(description, severity)
			return
		}
		last = i
	}
}

// AssertFrequency accepts the frequency with or without trailing zeros.
func (c *Call) AssertFrequency(freq string) bool {
	if freq == "" {
		return true
	}
	return c.AssertAnyPhrase(fmt.Sprintf("Include the frequency %s.", freq), model.SeveritySevere,
		phraseology.SayFrequency(freq), phraseology.SayFrequencyFull(freq))
}

// AssertRunway checks for "runway" followed by the designator.
func (c *Call) AssertRunway(designator string) bool {
	if designator == "" {
		return true
	}
	return c.AssertPhrase("runway "+phraseology.SayRunway(designator),
		fmt.Sprintf("Include the runway: runway %s.", designator), model.SeveritySevere)
}

// AssertPressure checks for the QNH. Values below 1000 must carry the unit.
func (c *Call) AssertPressure(hpa int) {
	if hpa == 0 {
		return
	}
	if !c.AssertPhrase(phraseology.SayPressure(hpa), fmt.Sprintf("Read back the pressure setting %d.", hpa), model.SeveritySevere) {
		return
	}
	if hpa < 1000 && !c.Has("hectopascals") {
		c.fb.Minor("Pressure settings below one thousand must be followed by hectopascals.")
	}
	if !c.HasAny("qnh", "q n h") {
		c.fb.Minor("Say QNH before the pressure setting.")
	}
}

// AssertAltitude checks the altitude in feet.
func (c *Call) AssertAltitude(feet int) bool {
	return c.AssertPhrase(phraseology.SayAltitude(feet),
		fmt.Sprintf("Include your altitude: %s.", phraseology.SayAltitude(feet)), model.SeveritySevere)
}

// AssertSquawk checks the transponder code.
func (c *Call) AssertSquawk(code string) {
	if code == "" {
		return
	}
	if !c.AssertPhrase(phraseology.SaySquawk(code), fmt.Sprintf("Read back the squawk code %s.", code), model.SeveritySevere) {
		return
	}
	if !c.Has("squawk") {
		c.fb.Minor("Say squawk before the code.")
	}
}

// AssertHoldingPoint checks the holding point designator.
func (c *Call) AssertHoldingPoint(hold string) {
	if hold == "" {
		return
	}
	c.AssertPhrase(phraseology.Phonetic(hold),
		fmt.Sprintf("Include the holding point %s.", phraseology.Phonetic(hold)), model.SeveritySevere)
}

// AssertAircraftType checks for the aircraft type, spelled or as written.
func (c *Call) AssertAircraftType() {
	t := c.ctx.AircraftType
	if t == "" {
		return
	}
	c.AssertAnyPhrase(fmt.Sprintf("Include your aircraft type %s.", t), model.SeverityMinor, t, phraseology.Phonetic(t))
}

// AssertPosition checks that the next waypoint is referenced.
func (c *Call) AssertPosition() error {
	wp, err := c.ctx.NextWaypoint()
	if err != nil {
		return err
	}
	c.AssertAnyPhrase(fmt.Sprintf("Give your position relative to %s.", wp.Name), model.SeverityMinor, wp.Name, "overhead")
	return nil
}

// AssertNotPhrase pushes a mistake when phrase is present.
func (c *Call) AssertNotPhrase(phrase, description string, severity model.Severity) {
	if c.Has(phrase) {
		c.fb.Push(description, severity)
	}
}

// AssertWilco checks the acknowledgement of an instruction.
func (c *Call) AssertWilco() {
	if !c.AssertPhrase("wilco", "Acknowledge an instruction with wilco.", model.SeveritySevere) {
		return
	}
	c.AssertNotPhrase("roger wilco", "Wilco already means roger, say wilco alone.", model.SeverityMinor)
}

// Severe records a blocking mistake.
func (c *Call) Severe(description string) {
	logging.TraceDefault("Severe mistake", "stage", c.point.Stage, "mistake", description)
	c.fb.Severe(description)
}

// Minor records a non blocking mistake.
func (c *Call) Minor(description string) {
	logging.TraceDefault("Minor mistake", "stage", c.point.Stage, "mistake", description)
	c.fb.Minor(description)
}

// Join builds a call from its parts, skipping empty ones.
func Join(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

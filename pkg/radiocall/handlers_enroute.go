package radiocall

import (
	"fmt"

	"rttrainer/pkg/model"
	"rttrainer/pkg/phraseology"
)

func registerEnroute(r Registry) {
	r.register(contactNewFrequency, model.StageContactNewFrequency)
	r.register(passMessage, model.StagePassMessage)
	r.register(squawk, model.StageSquawk)
	r.register(readbackApproval, model.StageReadbackApproval)

	r.register(declareEmergency, model.StageDeclareEmergency)
	r.register(wilcoInstructions, model.StageWilcoInstructions)
	r.register(cancelPanPan, model.StageCancelPanPan)
}

func contactNewFrequency(c *Call) (Reply, error) {
	u := c.upd()
	c.initialCall()

	return Reply{
		Expected: Join(u.CurrentTarget, c.Callsign()),
		Response: c.atcStation("pass your message"),
	}, nil
}

// serviceRequest is what the pilot asks for when entering an airspace.
func serviceRequest(u *model.UpdateData) string {
	if u.MATZPenetration {
		return "request MATZ penetration"
	}
	return "request basic service"
}

func passMessage(c *Call) (Reply, error) {
	u := c.upd()
	pos, err := c.ctx.Position()
	if err != nil {
		return Reply{}, err
	}
	alt := altitude(c.point)

	c.AssertCallsign()
	c.AssertAircraftType()
	if err := c.AssertPosition(); err != nil {
		return Reply{}, err
	}
	c.AssertAltitude(alt)
	if u.MATZPenetration {
		c.AssertPhrase("request matz penetration", "Request MATZ penetration.", model.SeveritySevere)
	} else {
		c.AssertAnyPhrase("Say which service you request.", model.SeverityMinor,
			"request basic service", "request traffic service", "request zone transit", "request transit")
	}

	next := c.next.UpdateData
	return Reply{
		Expected: Join(c.Callsign(), c.ctx.AircraftType, "from "+c.departure()+" to "+c.destination(),
			pos, phraseology.SayAltitude(alt), serviceRequest(u)),
		Response: c.atc("squawk " + next.NextSquawk),
	}, nil
}

func squawk(c *Call) (Reply, error) {
	u := c.upd()
	c.AssertSquawk(u.NextSquawk)
	c.AssertEndsWithCallsign()

	next := c.next.UpdateData
	granted := "basic service"
	if u.MATZPenetration {
		granted = "MATZ penetration approved"
	}
	return Reply{
		Expected: Join("squawk "+phraseology.SaySquawk(u.NextSquawk), c.Callsign()),
		Response: c.atc("identified", granted, atcQNH(next.CurrentPressure)),
	}, nil
}

func readbackApproval(c *Call) (Reply, error) {
	u := c.upd()
	if u.MATZPenetration {
		c.AssertPhrase("matz penetration", "Read back the MATZ penetration approval.", model.SeveritySevere)
	} else {
		c.AssertPhrase("basic service", "Read back the service you were given.", model.SeverityMinor)
	}
	c.AssertPressure(u.CurrentPressure)
	c.AssertEndsWithCallsign()

	granted := "basic service"
	if u.MATZPenetration {
		granted = "MATZ penetration approved"
	}
	return Reply{
		Expected: Join(granted, spokenQNH(u.CurrentPressure), c.Callsign()),
	}, nil
}

func declareEmergency(c *Call) (Reply, error) {
	u := c.upd()
	pos, err := c.ctx.Position()
	if err != nil {
		return Reply{}, err
	}
	alt := altitude(c.point)

	switch {
	case c.Has("pan pan pan pan pan pan"):
	case c.Has("pan pan"):
		c.Minor("Say PAN PAN three times.")
	default:
		c.Severe("Start an urgency call with PAN PAN, PAN PAN, PAN PAN.")
	}
	c.AssertPhrase(u.CurrentTarget, "Address the station you are calling: "+u.CurrentTarget+".", model.SeveritySevere)
	c.AssertCallsign()
	c.AssertAircraftType()
	c.AssertPhrase(string(u.Emergency), fmt.Sprintf("State the nature of the problem: %s.", u.Emergency), model.SeveritySevere)
	if err := c.AssertPosition(); err != nil {
		return Reply{}, err
	}
	c.AssertAltitude(alt)

	return Reply{
		Expected: Join("PAN PAN, PAN PAN, PAN PAN", u.CurrentTarget, c.Callsign(), c.ctx.AircraftType,
			string(u.Emergency), pos, phraseology.SayAltitude(alt), "heading "+phraseology.SayHeading(int(c.point.Pose.TrueHeading)),
			"continuing to "+c.destination()),
		Response: c.atc("roger PAN", "report if the situation changes"),
	}, nil
}

func wilcoInstructions(c *Call) (Reply, error) {
	c.AssertWilco()
	c.AssertEndsWithCallsign()

	return Reply{
		Expected: Join("wilco", c.Callsign()),
	}, nil
}

func cancelPanPan(c *Call) (Reply, error) {
	u := c.upd()
	c.AssertPhrase(u.CurrentTarget, "Address the station you are calling: "+u.CurrentTarget+".", model.SeverityMinor)
	c.AssertCallsign()
	c.AssertAnyPhrase("Say cancel PAN.", model.SeveritySevere, "cancel pan")

	return Reply{
		Expected: Join(u.CurrentTarget, c.Callsign(), "cancel PAN", "problem resolved", "continuing to "+c.destination()),
		Response: c.atc("PAN cancelled"),
	}, nil
}

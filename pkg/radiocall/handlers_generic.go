package radiocall

import (
	"rttrainer/pkg/model"
	"rttrainer/pkg/phraseology"
)

// Stages that are not generated on the timeline but can be practised on
// their own.
func registerGeneric(r Registry) {
	r.register(vfrPositionReport, model.StageVFRPositionReport)
	r.register(requestMATZPenetration, model.StageRequestMATZPenetration)
	r.register(reportMATZPenetrationDetails, model.StageReportMATZPenetrationDetail)
	r.register(readbackMATZPenetration, model.StageReadbackMATZPenetration)
	r.register(roger, model.StageRoger)
	r.register(wilco, model.StageWilco)
}

func vfrPositionReport(c *Call) (Reply, error) {
	u := c.upd()
	pos, err := c.ctx.Position()
	if err != nil {
		return Reply{}, err
	}
	alt := altitude(c.point)

	c.initialCall()
	if err := c.AssertPosition(); err != nil {
		return Reply{}, err
	}
	c.AssertAltitude(alt)

	return Reply{
		Expected: Join(u.CurrentTarget, c.Callsign(), pos, phraseology.SayAltitude(alt)),
		Response: c.atc("roger"),
	}, nil
}

func requestMATZPenetration(c *Call) (Reply, error) {
	u := c.upd()
	c.initialCall()
	c.AssertPhrase("request matz penetration", "Request MATZ penetration.", model.SeveritySevere)

	return Reply{
		Expected: Join(u.CurrentTarget, c.Callsign(), "request MATZ penetration"),
		Response: c.atcStation("pass your message"),
	}, nil
}

func reportMATZPenetrationDetails(c *Call) (Reply, error) {
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
	c.AssertPhrase("matz", "Say that you want to cross the MATZ.", model.SeveritySevere)

	return Reply{
		Expected: Join(c.Callsign(), c.ctx.AircraftType, pos, phraseology.SayAltitude(alt), "request MATZ penetration"),
		Response: c.atc("MATZ penetration approved", "maintain "+phraseology.SayAltitude(alt), atcQNH(u.CurrentPressure)),
	}, nil
}

func readbackMATZPenetration(c *Call) (Reply, error) {
	u := c.upd()
	alt := altitude(c.point)
	c.AssertPhrase("matz penetration", "Read back the MATZ penetration approval.", model.SeveritySevere)
	c.AssertAltitude(alt)
	c.AssertPressure(u.CurrentPressure)
	c.AssertEndsWithCallsign()

	return Reply{
		Expected: Join("MATZ penetration approved", "maintain "+phraseology.SayAltitude(alt), spokenQNH(u.CurrentPressure), c.Callsign()),
	}, nil
}

func roger(c *Call) (Reply, error) {
	c.AssertPhrase("roger", "Acknowledge with roger.", model.SeveritySevere)
	c.AssertEndsWithCallsign()
	return Reply{Expected: Join("roger", c.Callsign())}, nil
}

func wilco(c *Call) (Reply, error) {
	c.AssertWilco()
	c.AssertEndsWithCallsign()
	return Reply{Expected: Join("wilco", c.Callsign())}, nil
}

package radiocall

import (
	"rttrainer/pkg/model"
	"rttrainer/pkg/phraseology"
)

func registerEnd(r Registry) {
	r.register(requestJoin, model.StageRequestJoin)
	r.register(reportDetails, model.StageReportDetails, model.StageReportArrivalDetails)
	r.register(readbackOverheadJoinClearance, model.StageReadbackOverheadJoinClearance)
	r.register(reportAirportInSight, model.StageReportAirportInSight)
	r.register(contactTower, model.StageContactTower)
	r.register(reportStatus, model.StageReportStatus)
	r.register(readbackLandingInformation, model.StageReadbackLandingInformation, model.StageReadbackAirfieldInformation)
	r.register(reportDescending, model.StageReportDescending)
	r.register(wilcoReportDownwind, model.StageWilcoReportDownwind)
	r.register(reportDownwind, model.StageReportDownwind, model.StageAnnounceDownwind)
	r.register(wilcoFollowTraffic, model.StageWilcoFollowTraffic)
	r.register(reportFinal, model.StageReportFinal, model.StageAnnounceFinal)
	r.register(readbackContinueApproach, model.StageReadbackContinueApproach)
	r.register(readbackLandingClearance, model.StageReadbackLandingClearance)
	r.register(readbackVacateRunwayRequest, model.StageReadbackVacateRunwayRequest)
	r.register(reportVacatedRunway, model.StageReportVacatedRunway, model.StageAnnounceVacatedRunway)
	r.register(readbackTaxiInformation, model.StageReadbackTaxiInformation)

	r.register(requestAirfieldInformation, model.StageRequestAirfieldInformation)
	r.register(announceOverhead, model.StageAnnounceOverhead)
	r.register(announceTaxiingToParking, model.StageAnnounceTaxiingToParking)
}

func requestJoin(c *Call) (Reply, error) {
	u := c.upd()
	c.initialCall()
	c.AssertPhrase("request join", "Request to join.", model.SeveritySevere)

	return Reply{
		Expected: Join(u.CurrentTarget, c.Callsign(), "request join"),
		Response: c.atcStation("pass your message"),
	}, nil
}

func reportDetails(c *Call) (Reply, error) {
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
	c.AssertPhrase(c.destination(), "Say where you are landing: "+c.destination()+".", model.SeverityMinor)

	expected := Join(c.Callsign(), c.ctx.AircraftType, "from "+c.departure()+" to "+c.destination(),
		pos, phraseology.SayAltitude(alt))
	if c.point.Stage == model.StageReportArrivalDetails {
		return Reply{
			Expected: expected,
			Response: c.atc("runway "+u.Runway+" in use", u.CircuitDirection+" circuit", atcQNH(u.CurrentPressure), atcWind(u)),
		}, nil
	}

	join := altitude(c.next)
	return Reply{
		Expected: expected,
		Response: c.atc("join overhead at "+phraseology.SayAltitude(join), "runway "+u.Runway,
			u.CircuitDirection+" circuit", atcQNH(u.CurrentPressure)),
	}, nil
}

func readbackOverheadJoinClearance(c *Call) (Reply, error) {
	u := c.upd()
	alt := altitude(c.point)
	c.AssertPhrase("overhead", "Read back the overhead join.", model.SeveritySevere)
	c.AssertAltitude(alt)
	c.AssertRunway(u.Runway)
	c.AssertPhrase(u.CircuitDirection, "Read back the circuit direction: "+u.CircuitDirection+".", model.SeverityMinor)
	c.AssertPressure(u.CurrentPressure)
	c.AssertEndsWithCallsign()

	return Reply{
		Expected: Join("join overhead at "+phraseology.SayAltitude(alt), spokenRunway(u.Runway),
			u.CircuitDirection+" circuit", spokenQNH(u.CurrentPressure), c.Callsign()),
		Response: c.atc("report airfield in sight"),
	}, nil
}

func reportAirportInSight(c *Call) (Reply, error) {
	c.AssertCallsign()
	c.AssertAnyPhrase("Report the airfield in sight.", model.SeveritySevere, "in sight")

	next := c.next.UpdateData
	return Reply{
		Expected: Join(c.Callsign(), "airfield in sight"),
		Response: c.atc("contact "+next.NextTarget+" on "+next.NextTargetFrequency),
	}, nil
}

func contactTower(c *Call) (Reply, error) {
	u := c.upd()
	c.AssertPhrase(u.NextTarget, "Read back the station to contact: "+u.NextTarget+".", model.SeverityMinor)
	c.AssertFrequency(u.NextTargetFrequency)
	c.AssertEndsWithCallsign()

	return Reply{
		Expected: Join("contact "+u.NextTarget+" "+spokenFrequency(u.NextTargetFrequency), c.Callsign()),
	}, nil
}

func reportStatus(c *Call) (Reply, error) {
	u := c.upd()
	alt := altitude(c.point)
	c.initialCall()
	c.AssertAltitude(alt)
	c.AssertPhrase("overhead join", "Say that you are joining overhead.", model.SeverityMinor)

	return Reply{
		Expected: Join(u.CurrentTarget, c.Callsign(), phraseology.SayAltitude(alt), "for overhead join"),
		Response: c.atcStation("runway "+u.Runway, u.CircuitDirection+" circuit", atcQNH(u.CurrentPressure),
			"report descending dead side"),
	}, nil
}

func readbackLandingInformation(c *Call) (Reply, error) {
	u := c.upd()
	c.AssertRunway(u.Runway)
	c.AssertPhrase(u.CircuitDirection, "Read back the circuit direction: "+u.CircuitDirection+".", model.SeverityMinor)
	c.AssertPressure(u.CurrentPressure)
	c.AssertEndsWithCallsign()

	r := Reply{
		Expected: Join(spokenRunway(u.Runway), u.CircuitDirection+" circuit", spokenQNH(u.CurrentPressure), c.Callsign()),
	}
	if c.point.Stage == model.StageReadbackLandingInformation {
		r.Expected = Join(spokenRunway(u.Runway), u.CircuitDirection+" circuit", spokenQNH(u.CurrentPressure), "wilco", c.Callsign())
	}
	return r, nil
}

func reportDescending(c *Call) (Reply, error) {
	c.AssertCallsign()
	c.AssertPhrase("descending", "Report descending.", model.SeveritySevere)

	return Reply{
		Expected: Join(c.Callsign(), "descending dead side"),
		Response: c.atc("report downwind"),
	}, nil
}

func wilcoReportDownwind(c *Call) (Reply, error) {
	c.AssertWilco()
	c.AssertEndsWithCallsign()
	return Reply{Expected: Join("wilco", c.Callsign())}, nil
}

func reportDownwind(c *Call) (Reply, error) {
	u := c.upd()
	c.AssertCallsign()
	c.AssertPhrase("downwind", "Report downwind.", model.SeveritySevere)

	if c.point.Stage == model.StageAnnounceDownwind {
		c.AssertRunway(u.Runway)
		return Reply{
			Expected: Join(c.Callsign(), "downwind "+u.CircuitDirection, spokenRunway(u.Runway)),
			Response: c.atc("roger"),
		}, nil
	}
	return Reply{
		Expected: Join(c.Callsign(), "downwind"),
		Response: c.atc("number two, follow the Cessna 152 on base"),
	}, nil
}

func wilcoFollowTraffic(c *Call) (Reply, error) {
	c.AssertPhrase("number two", "Read back your position in the circuit: number two.", model.SeverityMinor)
	c.AssertWilco()
	c.AssertEndsWithCallsign()
	return Reply{Expected: Join("number two", "wilco", c.Callsign())}, nil
}

func reportFinal(c *Call) (Reply, error) {
	u := c.upd()
	c.AssertCallsign()
	c.AssertPhrase("final", "Report final.", model.SeveritySevere)

	if c.point.Stage == model.StageAnnounceFinal {
		c.AssertRunway(u.Runway)
		return Reply{
			Expected: Join(c.Callsign(), "final", spokenRunway(u.Runway)),
			Response: c.atc("land at your discretion", atcWind(u)),
		}, nil
	}
	return Reply{
		Expected: Join(c.Callsign(), "final"),
		Response: c.atc("continue approach", atcWind(u)),
	}, nil
}

func readbackContinueApproach(c *Call) (Reply, error) {
	u := c.upd()
	c.AssertPhrase("continue", "Read back continue approach.", model.SeveritySevere)
	c.AssertEndsWithCallsign()

	return Reply{
		Expected: Join("continue approach", c.Callsign()),
		Response: c.atc("runway "+u.Runway, "cleared to land", atcWind(u)),
	}, nil
}

func readbackLandingClearance(c *Call) (Reply, error) {
	u := c.upd()
	c.AssertRunway(u.Runway)
	c.AssertPhrase("cleared to land", "Read back cleared to land.", model.SeveritySevere)
	c.AssertEndsWithCallsign()

	return Reply{
		Expected: Join(spokenRunway(u.Runway), "cleared to land", c.Callsign()),
		Response: c.atc("vacate at " + u.HoldingPoint),
	}, nil
}

func readbackVacateRunwayRequest(c *Call) (Reply, error) {
	u := c.upd()
	c.AssertPhrase("vacate", "Read back the vacate instruction.", model.SeveritySevere)
	c.AssertHoldingPoint(u.HoldingPoint)
	c.AssertEndsWithCallsign()

	return Reply{
		Expected: Join("vacate at "+phraseology.Phonetic(u.HoldingPoint), c.Callsign()),
	}, nil
}

func reportVacatedRunway(c *Call) (Reply, error) {
	c.AssertCallsign()
	c.AssertPhrase("vacated", "Report runway vacated.", model.SeveritySevere)

	resp := c.atc("taxi to the parking area")
	if c.point.Stage == model.StageAnnounceVacatedRunway {
		resp = c.atc("roger")
	}
	return Reply{
		Expected: Join(c.Callsign(), "runway vacated"),
		Response: resp,
	}, nil
}

func readbackTaxiInformation(c *Call) (Reply, error) {
	c.AssertPhrase("taxi", "Read back the taxi instruction.", model.SeveritySevere)
	c.AssertEndsWithCallsign()

	return Reply{
		Expected: Join("taxi to the parking area", c.Callsign()),
	}, nil
}

func requestAirfieldInformation(c *Call) (Reply, error) {
	u := c.upd()
	c.initialCall()
	c.AssertAnyPhrase("Request airfield information.", model.SeveritySevere,
		"request airfield information", "request aerodrome information", "request join information")

	return Reply{
		Expected: Join(u.CurrentTarget, c.Callsign(), "request airfield information"),
		Response: c.atcStation("pass your message"),
	}, nil
}

func announceOverhead(c *Call) (Reply, error) {
	alt := altitude(c.point)
	c.AssertCallsign()
	c.AssertPhrase("overhead", "Announce that you are overhead.", model.SeveritySevere)
	c.AssertPhrase(phraseology.SayAltitude(alt), "Include your altitude: "+phraseology.SayAltitude(alt)+".", model.SeverityMinor)

	return Reply{
		Expected: Join(c.Callsign(), "overhead at "+phraseology.SayAltitude(alt), "descending dead side"),
		Response: c.atc("roger"),
	}, nil
}

func announceTaxiingToParking(c *Call) (Reply, error) {
	c.AssertCallsign()
	c.AssertPhrase("taxiing", "Announce that you are taxiing to parking.", model.SeveritySevere)

	return Reply{
		Expected: Join(c.Callsign(), "taxiing to parking"),
		Response: c.atc("roger"),
	}, nil
}

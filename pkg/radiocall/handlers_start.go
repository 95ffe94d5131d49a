package radiocall

import (
	"rttrainer/pkg/model"
	"rttrainer/pkg/phraseology"
)

func registerStart(r Registry) {
	r.register(radioCheck, model.StageRadioCheck)
	r.register(departureInformationRequest, model.StageDepartureInformationRequest)
	r.register(readbackDepartureInformation, model.StageReadbackDepartureInformation)
	r.register(taxiRequest, model.StageTaxiRequest)
	r.register(taxiClearanceReadback, model.StageTaxiClearanceReadback)
	r.register(readyForDeparture, model.StageReadyForDeparture)
	r.register(readbackAfterDepartureInformation, model.StageReadbackAfterDepartureInformation)
	r.register(readbackClearance, model.StageReadbackClearance)
	r.register(readbackNextContact, model.StageReadbackNextContact)
	r.register(requestFrequencyChange, model.StageContactNextFrequency, model.StageRequestFrequencyChange)
	r.register(acknowledgeFrequencyChange, model.StageAcknowledgeNewFrequencyRequest, model.StageAcknowledgeApproval)
	r.register(reportLeavingZone, model.StageReportLeavingZone)

	r.register(requestTaxiInformation, model.StageRequestTaxiInformation)
	r.register(announceTaxiing, model.StageAnnounceTaxiing)
	r.register(acknowledgeTraffic, model.StageAcknowledgeTraffic)
	r.register(announceTakingOff, model.StageAnnounceTakingOff)
	r.register(announceLeavingZone, model.StageAnnounceLeavingZone)
}

func radioCheck(c *Call) (Reply, error) {
	u := c.upd()
	c.initialCall()
	c.AssertPhrase("radio check", "Say radio check.", model.SeveritySevere)
	c.AssertFrequency(u.CurrentTargetFrequency)
	c.AssertInOrder("Give the frequency after radio check.", model.SeverityMinor,
		"radio check", spokenFrequency(u.CurrentTargetFrequency))

	return Reply{
		Expected: Join(u.CurrentTarget, c.Callsign(), "radio check "+spokenFrequency(u.CurrentTargetFrequency)),
		Response: c.atcStation("readability 5"),
	}, nil
}

func departureInformationRequest(c *Call) (Reply, error) {
	u := c.upd()
	c.initialCall()
	c.AssertAnyPhrase("Request departure information.", model.SeveritySevere,
		"request departure information", "request departure info")

	return Reply{
		Expected: Join(u.CurrentTarget, c.Callsign(), "request departure information"),
		Response: c.atc("departure runway "+u.Runway, atcWind(u), atcQNH(u.CurrentPressure),
			"squawk "+u.NextSquawk),
	}, nil
}

func readbackDepartureInformation(c *Call) (Reply, error) {
	u := c.upd()
	c.AssertRunway(u.Runway)
	c.AssertPressure(u.CurrentPressure)
	c.AssertSquawk(u.NextSquawk)
	c.AssertEndsWithCallsign()

	return Reply{
		Expected: Join(spokenRunway(u.Runway), spokenQNH(u.CurrentPressure),
			"squawk "+phraseology.SaySquawk(u.NextSquawk), c.Callsign()),
	}, nil
}

func taxiRequest(c *Call) (Reply, error) {
	u := c.upd()
	c.initialCall()
	c.AssertAircraftType()
	c.AssertPhrase("request taxi", "Request taxi.", model.SeveritySevere)

	return Reply{
		Expected: Join(u.CurrentTarget, c.Callsign(), c.ctx.AircraftType, "at the parking area", "request taxi"),
		Response: c.atc("taxi holding point "+u.HoldingPoint, "runway "+u.Runway),
	}, nil
}

func taxiClearanceReadback(c *Call) (Reply, error) {
	u := c.upd()
	c.AssertPhrase("taxi", "Read back the taxi instruction.", model.SeveritySevere)
	c.AssertHoldingPoint(u.HoldingPoint)
	c.AssertRunway(u.Runway)
	c.AssertEndsWithCallsign()

	return Reply{
		Expected: Join("taxi holding point "+phraseology.Phonetic(u.HoldingPoint), spokenRunway(u.Runway), c.Callsign()),
	}, nil
}

func readyForDeparture(c *Call) (Reply, error) {
	u := c.upd()
	c.initialCall()
	c.AssertPhrase("ready for departure", "Say ready for departure.", model.SeveritySevere)

	reply := Reply{
		Expected: Join(u.CurrentTarget, c.Callsign(), "ready for departure"),
	}
	if c.next.Stage == model.StageAcknowledgeTraffic {
		reply.Response = c.atc("traffic is a Cessna 152 joining downwind, runway "+u.Runway, atcWind(u))
	} else {
		reply.Response = c.atc("after departure climb not above "+phraseology.SayAltitude(c.departureAltitude()),
			"hold position")
	}
	return reply, nil
}

func readbackAfterDepartureInformation(c *Call) (Reply, error) {
	u := c.upd()
	alt := c.departureAltitude()
	c.AssertPhrase("not above", "Read back climb not above.", model.SeverityMinor)
	c.AssertAltitude(alt)
	c.AssertAnyPhrase("Read back hold position.", model.SeveritySevere, "holding", "hold position")
	c.AssertEndsWithCallsign()

	return Reply{
		Expected: Join("climb not above "+phraseology.SayAltitude(alt), "holding", c.Callsign()),
		Response: c.atc("runway "+u.Runway, "cleared for take-off", atcWind(u)),
	}, nil
}

func readbackClearance(c *Call) (Reply, error) {
	u := c.upd()
	c.AssertRunway(u.Runway)
	c.AssertPhrase("cleared for take off", "Read back cleared for take-off.", model.SeveritySevere)
	c.AssertEndsWithCallsign()

	next := c.next.UpdateData
	return Reply{
		Expected: Join(spokenRunway(u.Runway), "cleared for take-off", c.Callsign()),
		Response: c.atc("after leaving the zone contact "+next.NextTarget+" on "+next.NextTargetFrequency),
	}, nil
}

func readbackNextContact(c *Call) (Reply, error) {
	u := c.upd()
	c.AssertPhrase(u.NextTarget, "Read back the station to contact: "+u.NextTarget+".", model.SeveritySevere)
	c.AssertFrequency(u.NextTargetFrequency)
	c.AssertEndsWithCallsign()

	return Reply{
		Expected: Join("contact "+u.NextTarget+" "+spokenFrequency(u.NextTargetFrequency), c.Callsign()),
	}, nil
}

func requestFrequencyChange(c *Call) (Reply, error) {
	u := c.upd()
	c.initialCall()
	c.AssertPhrase("request frequency change", "Request a frequency change.", model.SeveritySevere)
	c.AssertPhrase(u.NextTarget, "Say which station you are changing to: "+u.NextTarget+".", model.SeverityMinor)
	c.AssertFrequency(u.NextTargetFrequency)

	return Reply{
		Expected: Join(u.CurrentTarget, c.Callsign(),
			"request frequency change to "+u.NextTarget+" on "+spokenFrequency(u.NextTargetFrequency)),
		Response: c.atc("frequency change approved"),
	}, nil
}

func acknowledgeFrequencyChange(c *Call) (Reply, error) {
	u := c.upd()
	c.AssertAnyPhrase("Acknowledge the approval.", model.SeverityMinor, "changing", "roger", "wilco")
	c.AssertEndsWithCallsign()

	return Reply{
		Expected: Join("changing to "+u.NextTarget, c.Callsign()),
	}, nil
}

func reportLeavingZone(c *Call) (Reply, error) {
	c.AssertCallsign()
	c.AssertAnyPhrase("Report leaving the zone.", model.SeveritySevere, "leaving the zone", "leaving zone", "leaving the control zone")

	return Reply{
		Expected: Join(c.Callsign(), "leaving the zone"),
		Response: c.atc("roger"),
	}, nil
}

func requestTaxiInformation(c *Call) (Reply, error) {
	u := c.upd()
	c.initialCall()
	c.AssertAircraftType()
	c.AssertAnyPhrase("Request taxi information.", model.SeveritySevere, "request taxi information", "request taxi")

	return Reply{
		Expected: Join(u.CurrentTarget, c.Callsign(), c.ctx.AircraftType, "at the parking area", "request taxi information"),
		Response: c.atc("runway "+u.Runway, atcWind(u), atcQNH(u.CurrentPressure)),
	}, nil
}

func announceTaxiing(c *Call) (Reply, error) {
	u := c.upd()
	c.AssertCallsign()
	c.AssertPhrase("taxiing", "Announce that you are taxiing.", model.SeveritySevere)
	c.AssertHoldingPoint(u.HoldingPoint)
	c.AssertRunway(u.Runway)
	c.AssertPressure(u.CurrentPressure)

	return Reply{
		Expected: Join(c.Callsign(), "taxiing to holding point "+phraseology.Phonetic(u.HoldingPoint),
			spokenRunway(u.Runway), spokenQNH(u.CurrentPressure)),
		Response: c.atc("roger"),
	}, nil
}

func acknowledgeTraffic(c *Call) (Reply, error) {
	c.AssertAnyPhrase("Acknowledge the traffic information.", model.SeverityMinor, "traffic in sight", "looking", "roger")
	c.AssertEndsWithCallsign()

	return Reply{
		Expected: Join("traffic in sight", c.Callsign()),
	}, nil
}

func announceTakingOff(c *Call) (Reply, error) {
	u := c.upd()
	c.AssertCallsign()
	c.AssertAnyPhrase("Announce that you are taking off.", model.SeveritySevere, "taking off", "departing")
	c.AssertRunway(u.Runway)

	return Reply{
		Expected: Join(c.Callsign(), "lining up and taking off", spokenRunway(u.Runway)),
		Response: c.atc("roger"),
	}, nil
}

func announceLeavingZone(c *Call) (Reply, error) {
	u := c.upd()
	c.initialCall()
	c.AssertAnyPhrase("Announce leaving the zone.", model.SeveritySevere, "leaving the zone", "leaving zone", "leaving the frequency")
	c.AssertPhrase(u.NextTarget, "Say which station you are changing to: "+u.NextTarget+".", model.SeverityMinor)

	return Reply{
		Expected: Join(u.CurrentTarget, c.Callsign(), "leaving the zone", "changing to "+u.NextTarget),
		Response: c.atc("roger"),
	}, nil
}

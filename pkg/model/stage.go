package model

// Stage identifies one discrete radio call opportunity in the scenario
// timeline. It is the dispatch key of the radio call parser.
type Stage string

// Departure, controlled airport.
const (
	StageRadioCheck                        Stage = "RadioCheck"
	StageDepartureInformationRequest       Stage = "DepartureInformationRequest"
	StageReadbackDepartureInformation      Stage = "ReadbackDepartureInformation"
	StageTaxiRequest                       Stage = "TaxiRequest"
	StageTaxiClearanceReadback             Stage = "TaxiClearanceReadback"
	StageReadyForDeparture                 Stage = "ReadyForDeparture"
	StageReadbackAfterDepartureInformation Stage = "ReadbackAfterDepartureInformation"
	StageReadbackClearance                 Stage = "ReadbackClearance"
	StageReadbackNextContact               Stage = "ReadbackNextContact"
	StageContactNextFrequency              Stage = "ContactNextFrequency"
	StageAcknowledgeNewFrequencyRequest    Stage = "AcknowledgeNewFrequencyRequest"
	StageReportLeavingZone                 Stage = "ReportLeavingZone"
)

// Departure, uncontrolled airport.
const (
	StageRequestTaxiInformation Stage = "RequestTaxiInformation"
	StageAnnounceTaxiing        Stage = "AnnounceTaxiing"
	StageAcknowledgeTraffic     Stage = "AcknowledgeTraffic"
	StageAnnounceTakingOff      Stage = "AnnounceTakingOff"
	StageAnnounceLeavingZone    Stage = "AnnounceLeavingZone"
)

// En route zone changes.
const (
	StageRequestFrequencyChange Stage = "RequestFrequencyChange"
	StageAcknowledgeApproval    Stage = "AcknowledgeApproval"
	StageContactNewFrequency    Stage = "ContactNewFrequency"
	StagePassMessage            Stage = "PassMessage"
	StageSquawk                 Stage = "Squawk"
	StageReadbackApproval       Stage = "ReadbackApproval"
)

// PAN-PAN sequence.
const (
	StageDeclareEmergency  Stage = "DeclareEmergency"
	StageWilcoInstructions Stage = "WilcoInstructions"
	StageCancelPanPan      Stage = "CancelPanPan"
)

// Arrival, controlled airport.
const (
	StageRequestJoin                   Stage = "RequestJoin"
	StageReportDetails                 Stage = "ReportDetails"
	StageReadbackOverheadJoinClearance Stage = "ReadbackOverheadJoinClearance"
	StageReportAirportInSight          Stage = "ReportAirportInSight"
	StageContactTower                  Stage = "ContactTower"
	StageReportStatus                  Stage = "ReportStatus"
	StageReadbackLandingInformation    Stage = "ReadbackLandingInformation"
	StageReportDescending              Stage = "ReportDescending"
	StageWilcoReportDownwind           Stage = "WilcoReportDownwind"
	StageReportDownwind                Stage = "ReportDownwind"
	StageWilcoFollowTraffic            Stage = "WilcoFollowTraffic"
	StageReportFinal                   Stage = "ReportFinal"
	StageReadbackContinueApproach      Stage = "ReadbackContinueApproach"
	StageReadbackLandingClearance      Stage = "ReadbackLandingClearance"
	StageReadbackVacateRunwayRequest   Stage = "ReadbackVacateRunwayRequest"
	StageReportVacatedRunway           Stage = "ReportVacatedRunway"
	StageReadbackTaxiInformation       Stage = "ReadbackTaxiInformation"
)

// Arrival, uncontrolled airport.
const (
	StageRequestAirfieldInformation  Stage = "RequestAirfieldInformation"
	StageReportArrivalDetails        Stage = "ReportArrivalDetails"
	StageReadbackAirfieldInformation Stage = "ReadbackAirfieldInformation"
	StageAnnounceOverhead            Stage = "AnnounceOverhead"
	StageAnnounceDownwind            Stage = "AnnounceDownwind"
	StageAnnounceFinal               Stage = "AnnounceFinal"
	StageAnnounceVacatedRunway       Stage = "AnnounceVacatedRunway"
	StageAnnounceTaxiingToParking    Stage = "AnnounceTaxiingToParking"
)

// Generic stages the parser understands outside of the generated timeline.
const (
	StageVFRPositionReport           Stage = "VFRPositionReport"
	StageRequestMATZPenetration      Stage = "RequestMATZPenetration"
	StageReportMATZPenetrationDetail Stage = "ReportMATZPenetrationDetails"
	StageReadbackMATZPenetration     Stage = "ReadbackMATZPenetration"
	StageRoger                       Stage = "Roger"
	StageWilco                       Stage = "Wilco"
)

// StartControlledStages is the departure sequence at an airport with a
// tower or approach service.
var StartControlledStages = []Stage{
	StageRadioCheck,
	StageDepartureInformationRequest,
	StageReadbackDepartureInformation,
	StageTaxiRequest,
	StageTaxiClearanceReadback,
	StageReadyForDeparture,
	StageReadbackAfterDepartureInformation,
	StageReadbackClearance,
	StageReadbackNextContact,
	StageContactNextFrequency,
	StageAcknowledgeNewFrequencyRequest,
	StageReportLeavingZone,
}

// StartUncontrolledStages is the departure sequence at an information or
// air/ground airfield.
var StartUncontrolledStages = []Stage{
	StageRadioCheck,
	StageRequestTaxiInformation,
	StageAnnounceTaxiing,
	StageReadyForDeparture,
	StageAcknowledgeTraffic,
	StageAnnounceTakingOff,
	StageAnnounceLeavingZone,
}

// ExitZoneStages are emitted when leaving an airspace en route.
var ExitZoneStages = []Stage{
	StageRequestFrequencyChange,
	StageAcknowledgeApproval,
}

// EnterZoneStages are emitted when entering an airspace en route.
var EnterZoneStages = []Stage{
	StageContactNewFrequency,
	StagePassMessage,
	StageSquawk,
	StageReadbackApproval,
}

// EmergencyStages is the PAN-PAN sub-sequence spliced into the airborne phase.
var EmergencyStages = []Stage{
	StageDeclareEmergency,
	StageWilcoInstructions,
	StageCancelPanPan,
}

// EndControlledStages is the arrival sequence at a controlled airport.
var EndControlledStages = []Stage{
	StageRequestJoin,
	StageReportDetails,
	StageReadbackOverheadJoinClearance,
	StageReportAirportInSight,
	StageContactTower,
	StageReportStatus,
	StageReadbackLandingInformation,
	StageReportDescending,
	StageWilcoReportDownwind,
	StageReportDownwind,
	StageWilcoFollowTraffic,
	StageReportFinal,
	StageReadbackContinueApproach,
	StageReadbackLandingClearance,
	StageReadbackVacateRunwayRequest,
	StageReportVacatedRunway,
	StageReadbackTaxiInformation,
}

// EndUncontrolledStages is the arrival sequence at an uncontrolled airfield.
var EndUncontrolledStages = []Stage{
	StageRequestAirfieldInformation,
	StageReportArrivalDetails,
	StageReadbackAirfieldInformation,
	StageAnnounceOverhead,
	StageAnnounceDownwind,
	StageAnnounceFinal,
	StageAnnounceVacatedRunway,
	StageAnnounceTaxiingToParking,
}

// GenericStages are parsed on request but never emitted by the generator.
var GenericStages = []Stage{
	StageVFRPositionReport,
	StageRequestMATZPenetration,
	StageReportMATZPenetrationDetail,
	StageReadbackMATZPenetration,
	StageRoger,
	StageWilco,
}

// AllStages returns every stage value, without duplicates, in catalogue order.
func AllStages() []Stage {
	groups := [][]Stage{
		StartControlledStages,
		StartUncontrolledStages,
		ExitZoneStages,
		EnterZoneStages,
		EmergencyStages,
		EndControlledStages,
		EndUncontrolledStages,
		GenericStages,
	}
	seen := make(map[Stage]bool)
	var all []Stage
	for _, g := range groups {
		for _, s := range g {
			if seen[s] {
				continue
			}
			seen[s] = true
			all = append(all, s)
		}
	}
	return all
}

// IsValid reports whether s is a known stage.
func (s Stage) IsValid() bool {
	for _, v := range AllStages() {
		if v == s {
			return true
		}
	}
	return false
}

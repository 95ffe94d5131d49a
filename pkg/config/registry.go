package config

// Persistent state keys (Registry)
const (
	KeyCallsign        = "callsign"
	KeyPrefix          = "callsign_prefix"
	KeyAircraftType    = "aircraft_type"
	KeyRevealThreshold = "reveal_threshold"
	KeyDeclineCooldown = "decline_cooldown"
	KeyEmergencyChance = "emergency_chance"
)

// RuntimeKeys lists the keys that may be changed through the settings API.
var RuntimeKeys = []string{
	KeyCallsign,
	KeyPrefix,
	KeyAircraftType,
	KeyRevealThreshold,
	KeyDeclineCooldown,
	KeyEmergencyChance,
}

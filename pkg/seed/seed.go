// Package seed derives every "random" value of a scenario from a user
// visible seed string and the id of the entity the value belongs to, so the
// same seed always reproduces the same scenario.
package seed

import (
	"fmt"
	"math"
)

// Frequency band used for synthetic frequencies, in kHz.
const (
	minFrequencyKHz = 118000
	maxFrequencyKHz = 137000
	channelKHz      = 5
)

// reserved squawk codes that must never be assigned
var reservedSquawks = map[int]bool{
	0o0000: true,
	0o2000: true,
	0o7000: true,
	0o7500: true,
	0o7600: true,
	0o7700: true,
}

// StringToNumber hashes a string with djb2.
func StringToNumber(s string) uint32 {
	var h uint32 = 5381
	for i := 0; i < len(s); i++ {
		h = h*33 + uint32(s[i])
	}
	return h
}

// Mix combines a numeric seed with an entity id.
func Mix(seed uint32, objectID string) uint32 {
	h := StringToNumber(objectID)
	x := seed ^ (h * 0x9e3779b1)
	x ^= x >> 16
	x *= 0x85ebca6b
	x ^= x >> 13
	x *= 0xc2b2ae35
	x ^= x >> 16
	return x
}

// RandomFrequency returns a VHF frequency "XXX.XXX" in [118.000, 137.000)
// on a 5 kHz raster.
func RandomFrequency(seed uint32, objectID string) string {
	channels := uint32((maxFrequencyKHz - minFrequencyKHz) / channelKHz)
	khz := minFrequencyKHz + int(Mix(seed, objectID)%channels)*channelKHz
	return fmt.Sprintf("%03d.%03d", khz/1000, khz%1000)
}

// RandomSquawk returns a four digit octal transponder code that avoids the
// emergency and conspicuity codes.
func RandomSquawk(seed uint32, objectID string) string {
	code := int(Mix(seed, objectID) % 0o10000)
	for reservedSquawks[code] {
		code = (code + 1) % 0o10000
	}
	return fmt.Sprintf("%04o", code)
}

// TimeInMinutes returns a time of day in [min, max) minutes from midnight.
func TimeInMinutes(seed uint32, min, max int) int {
	if max <= min {
		return min
	}
	return min + int(seed%uint32(max-min))
}

// NormalDistribution samples N(mean, std) with a Box-Muller transform fed by
// the two halves of the hash of seedString. The hash is avalanched first so
// seeds differing in one trailing character land far apart.
func NormalDistribution(seedString string, mean, std float64) float64 {
	h := Mix(StringToNumber(seedString), "")
	u1 := (float64(h>>16) + 1) / 65537
	u2 := (float64(h&0xffff) + 1) / 65537
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + z*std
}

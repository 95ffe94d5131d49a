package phraseology

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhonetic(t *testing.T) {
	assert.Equal(t, "Golf Oscar Foxtrot Lima Yankee", Phonetic("G-OFLY"))
	assert.Equal(t, "November one two three", Phonetic("N123"))
	assert.Equal(t, "", Phonetic("--"))
}

func TestSayers(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"frequency trimmed", SayFrequency("118.500"), "one one eight decimal five"},
		{"frequency all digits", SayFrequency("118.355"), "one one eight decimal three five five"},
		{"frequency full", SayFrequencyFull("118.500"), "one one eight decimal five zero zero"},
		{"frequency zero decimals", SayFrequency("121.000"), "one two one decimal zero"},
		{"runway", SayRunway("09L"), "zero nine left"},
		{"runway plain", SayRunway("24"), "two four"},
		{"altitude thousands", SayAltitude(2000), "two thousand feet"},
		{"altitude mixed", SayAltitude(2500), "two thousand five hundred feet"},
		{"altitude hundreds", SayAltitude(800), "eight hundred feet"},
		{"altitude tens of thousands", SayAltitude(12000), "one two thousand feet"},
		{"pressure", SayPressure(998), "nine nine eight"},
		{"heading", SayHeading(90), "zero nine zero"},
		{"heading north", SayHeading(0), "three six zero"},
		{"squawk", SaySquawk("7421"), "seven four two one"},
		{"flight level", SayFlightLevel(45), "flight level four five"},
		{"time", SayTime(9*60 + 5), "zero nine zero five"},
		{"minutes", SayMinutes(9*60 + 5), "zero five"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestCallsignForms(t *testing.T) {
	full := CallsignForms("G-OFLY", "Student", false)
	assert.Equal(t, []string{"Student Golf Oscar Foxtrot Lima Yankee"}, full)

	both := CallsignForms("G-OFLY", "Student", true)
	assert.Equal(t, []string{"Student Golf Oscar Foxtrot Lima Yankee", "Student Golf Lima Yankee"}, both)

	assert.Equal(t, "Golf Lima Yankee", CurrentCallsign("G-OFLY", "", true))
	assert.Equal(t, "Golf Alpha Bravo", AbbreviatedCallsign("GAB", ""))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Wellesbourne Information, G-OFLY!", "wellesbourne information g ofly"},
		{"one one eight decimal tree fiver fiver", "one one eight decimal three five five"},
		{"118.355", "one one eight decimal three five five"},
		{"QNH 1013 hPa", "qnh one zero one three hectopascals"},
		{"X-ray niner", "xray nine"},
		{"  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestPhraseMatching(t *testing.T) {
	words := Words("student golf oscar foxtrot lima yankee request join")

	assert.True(t, ContainsPhrase("student golf oscar foxtrot lima yankee request join", "request join"))
	assert.False(t, ContainsPhrase("request to join", "request join"))
	assert.Equal(t, 6, IndexPhrase(words, []string{"request", "join"}))
	assert.Equal(t, -1, IndexPhrase(words, []string{"join", "request"}))
	assert.True(t, StartsWithPhrase(words, Words("Student Golf")))
	assert.True(t, EndsWithPhrase(words, []string{"join"}))
	assert.False(t, EndsWithPhrase([]string{"a"}, []string{"a", "b"}))
	assert.True(t, ContainsInOrder(words, []string{"student", "request"}))
	assert.False(t, ContainsInOrder(words, []string{"request", "student"}))
}

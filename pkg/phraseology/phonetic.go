// Package phraseology renders values the way they are spoken on the radio
// and normalises free text calls so they can be compared word by word.
package phraseology

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var phoneticAlphabet = map[rune]string{
	'a': "Alpha", 'b': "Bravo", 'c': "Charlie", 'd': "Delta", 'e': "Echo",
	'f': "Foxtrot", 'g': "Golf", 'h': "Hotel", 'i': "India", 'j': "Juliet",
	'k': "Kilo", 'l': "Lima", 'm': "Mike", 'n': "November", 'o': "Oscar",
	'p': "Papa", 'q': "Quebec", 'r': "Romeo", 's': "Sierra", 't': "Tango",
	'u': "Uniform", 'v': "Victor", 'w': "Whiskey", 'x': "Xray", 'y': "Yankee",
	'z': "Zulu",
}

var digitNames = []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}

// SayDigit returns the spoken form of a single digit.
func SayDigit(n int) string {
	return digitNames[n]
}

// Phonetic spells letters and digits of s, skipping everything else.
// "G-OFLY" becomes "Golf Oscar Foxtrot Lima Yankee".
func Phonetic(s string) string {
	var words []string
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= '0' && r <= '9':
			words = append(words, SayDigit(int(r-'0')))
		case unicode.IsLetter(r):
			if w, ok := phoneticAlphabet[r]; ok {
				words = append(words, w)
			}
		}
	}
	return strings.Join(words, " ")
}

// SayDigits spells every digit of s. A '.' becomes "decimal".
func SayDigits(s string) string {
	var words []string
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			words = append(words, SayDigit(int(r-'0')))
		case r == '.':
			words = append(words, "decimal")
		}
	}
	return strings.Join(words, " ")
}

// SayFrequency renders "118.500" as "one one eight decimal five". Trailing
// zeros after the first decimal digit are dropped as on the radio.
func SayFrequency(f string) string {
	if i := strings.IndexByte(f, '.'); i >= 0 {
		trimmed := strings.TrimRight(f, "0")
		if len(trimmed) <= i+1 {
			trimmed = f[:i+2]
		}
		f = trimmed
	}
	return SayDigits(f)
}

// SayFrequencyFull renders every digit of the frequency.
func SayFrequencyFull(f string) string {
	return SayDigits(f)
}

// SayRunway renders "09L" as "zero nine left".
func SayRunway(designator string) string {
	d := strings.ToUpper(strings.TrimSpace(designator))
	suffix := ""
	switch {
	case strings.HasSuffix(d, "L"):
		suffix = " left"
	case strings.HasSuffix(d, "R"):
		suffix = " right"
	case strings.HasSuffix(d, "C"):
		suffix = " centre"
	}
	return SayDigits(strings.TrimRight(d, "LRC")) + suffix
}

// SayAltitude renders feet in group form: 2500 is "two thousand five
// hundred feet".
func SayAltitude(feet int) string {
	feet = 100 * (feet / 100)
	th, hu := feet/1000, (feet%1000)/100
	var parts []string
	if th > 0 {
		parts = append(parts, sayNumber(th), "thousand")
	}
	if hu > 0 {
		parts = append(parts, SayDigit(hu), "hundred")
	}
	if len(parts) == 0 {
		parts = append(parts, "zero")
	}
	return strings.Join(parts, " ") + " feet"
}

// SayFlightLevel renders FL45 as "flight level four five".
func SayFlightLevel(fl int) string {
	return "flight level " + SayDigits(strconv.Itoa(fl))
}

// SayPressure renders a QNH as digits, "one zero one three".
func SayPressure(hpa int) string {
	return SayDigits(strconv.Itoa(hpa))
}

// SayHeading renders a heading as three digits.
func SayHeading(deg int) string {
	deg = ((deg % 360) + 360) % 360
	if deg == 0 {
		deg = 360
	}
	return SayDigits(fmt.Sprintf("%03d", deg))
}

// SaySquawk renders a transponder code digit by digit.
func SaySquawk(code string) string {
	return SayDigits(code)
}

// SayTime renders minutes from midnight as the four digit UTC time.
func SayTime(minutes int) string {
	m := ((minutes % 1440) + 1440) % 1440
	return SayDigits(fmt.Sprintf("%02d%02d", m/60, m%60))
}

// SayMinutes renders only the minutes of the hour, used in position reports.
func SayMinutes(minutes int) string {
	m := ((minutes % 60) + 60) % 60
	return SayDigits(fmt.Sprintf("%02d", m))
}

// sayNumber speaks small numbers the way thousands are spoken: 1-9 as a
// digit, larger as digits ("one one thousand").
func sayNumber(n int) string {
	if n < 10 {
		return SayDigit(n)
	}
	return SayDigits(strconv.Itoa(n))
}

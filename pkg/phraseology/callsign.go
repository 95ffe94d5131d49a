package phraseology

import (
	"strings"
	"unicode"
)

// CallsignForms returns every spoken form of the aircraft callsign that is
// acceptable in a call. The full form is always valid. Once ATC has
// abbreviated the callsign the short form (first character and last two)
// is accepted as well.
func CallsignForms(callsign, prefix string, modified bool) []string {
	forms := []string{FullCallsign(callsign, prefix)}
	if modified {
		if short := AbbreviatedCallsign(callsign, prefix); short != forms[0] {
			forms = append(forms, short)
		}
	}
	return forms
}

// FullCallsign is the prefix followed by the spelled registration.
func FullCallsign(callsign, prefix string) string {
	return joinPrefix(prefix, Phonetic(callsign))
}

// AbbreviatedCallsign keeps the first and the last two characters of the
// registration, so G-OFLY becomes "Golf Lima Yankee".
func AbbreviatedCallsign(callsign, prefix string) string {
	chars := alnum(callsign)
	if len(chars) <= 3 {
		return FullCallsign(callsign, prefix)
	}
	short := string(chars[0]) + string(chars[len(chars)-2:])
	return joinPrefix(prefix, Phonetic(short))
}

// CurrentCallsign is the form ATC and the canonical call use at a point.
func CurrentCallsign(callsign, prefix string, modified bool) string {
	if modified {
		return AbbreviatedCallsign(callsign, prefix)
	}
	return FullCallsign(callsign, prefix)
}

func joinPrefix(prefix, s string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return s
	}
	return prefix + " " + s
}

func alnum(s string) []rune {
	var out []rune
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return out
}

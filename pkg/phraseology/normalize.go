package phraseology

import (
	"strings"
	"unicode"
)

// alternates maps accepted variants to one canonical word.
var alternates = map[string]string{
	// digits
	"niner": "nine", "fiver": "five", "fife": "five", "tree": "three",
	"fower": "four", "wun": "one", "tousand": "thousand",
	// alphabet
	"alfa": "alpha", "juliett": "juliet", "whisky": "whiskey",
	// units and words
	"point": "decimal", "center": "centre", "ft": "feet",
	"hpa": "hectopascals", "millibars": "hectopascals", "mb": "hectopascals",
}

// Normalize lower cases the call, strips punctuation, spells out typed
// digits and folds accepted variants ("niner", "fiver") to one canonical
// form. The result is a single space separated string.
func Normalize(call string) string {
	return strings.Join(Words(call), " ")
}

// Words is Normalize split into words.
func Words(call string) []string {
	call = strings.ToLower(call)
	var b strings.Builder
	runes := []rune(call)
	for i, r := range runes {
		switch {
		case r >= '0' && r <= '9':
			b.WriteByte(' ')
			b.WriteString(digitNames[r-'0'])
			b.WriteByte(' ')
		case r == '.' && i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]):
			b.WriteString(" decimal ")
		case r == '-' && i > 0 && runes[i-1] == 'x':
			// keep x-ray together
		case unicode.IsLetter(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	out := make([]string, 0, len(fields))
	for _, w := range fields {
		if alt, ok := alternates[w]; ok {
			w = alt
		}
		out = append(out, w)
	}
	return out
}

// ContainsPhrase reports whether the normalised call contains phrase as
// consecutive whole words.
func ContainsPhrase(call, phrase string) bool {
	return IndexPhrase(Words(call), Words(phrase)) >= 0
}

// IndexPhrase returns the word index of the first occurrence of phrase in
// words, or -1.
func IndexPhrase(words, phrase []string) int {
	if len(phrase) == 0 {
		return 0
	}
outer:
	for i := 0; i+len(phrase) <= len(words); i++ {
		for j := range phrase {
			if words[i+j] != phrase[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}

// StartsWithPhrase reports whether words begin with phrase.
func StartsWithPhrase(words, phrase []string) bool {
	return len(phrase) <= len(words) && IndexPhrase(words[:len(phrase)], phrase) == 0
}

// EndsWithPhrase reports whether words end with phrase.
func EndsWithPhrase(words, phrase []string) bool {
	if len(phrase) > len(words) {
		return false
	}
	return IndexPhrase(words[len(words)-len(phrase):], phrase) == 0
}

// ContainsInOrder reports whether every word of seq appears in words in the
// given order, not necessarily adjacent.
func ContainsInOrder(words, seq []string) bool {
	j := 0
	for _, w := range words {
		if j < len(seq) && w == seq[j] {
			j++
		}
	}
	return j == len(seq)
}

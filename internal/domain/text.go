package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// WordDelimiters are replaced by a space before a text is split into words.
const WordDelimiters = ".,/\\!@?:;-+=\n()\"'«»*"

var delimiterSet = func() map[rune]struct{} {
	m := make(map[rune]struct{}, len(WordDelimiters))
	for _, r := range WordDelimiters {
		m[r] = struct{}{}
	}
	return m
}()

// NormalizeLine replaces every delimiter rune with a single space.
func NormalizeLine(line string) string {
	return strings.Map(func(r rune) rune {
		if _, ok := delimiterSet[r]; ok {
			return ' '
		}
		return r
	}, line)
}

// Tokenize splits raw text into words. Empty text yields an empty slice.
func Tokenize(text string) []string {
	return strings.Fields(NormalizeLine(text))
}

// LooksLikeAbbreviation is the structural heuristic used by the finder:
// at least two uppercase letters, and uppercase letters make up at least
// half of the token. Every rune counts toward the length, punctuation and
// digits included. Case is decided by unicode.IsUpper, so Cyrillic and other
// cased scripts are classified the same way as Latin.
func LooksLikeAbbreviation(token string) bool {
	upper, total := 0, 0
	for _, r := range token {
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return upper >= 2 && upper*2 >= total
}

// NormalizeName trims surrounding whitespace and applies NFC so that names typed
// in a form and names extracted from a document compare equal.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// NormalizeText applies NFC to extracted document text.
func NormalizeText(text string) string {
	return norm.NFC.String(text)
}

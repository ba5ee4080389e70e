// Package textutil holds the text canonicalisation shared by the classifier,
// matcher and pricing components.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Canonicalize trims, NFC-normalises and case-folds s, collapsing inner whitespace.
func Canonicalize(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	s = cases.Fold().String(s) // Casers are stateful; one per call
	return strings.Join(strings.Fields(s), " ")
}

// Words splits canonical text into word tokens. Devanagari vowel signs are
// kept with their base letters.
func Words(s string) []string {
	return strings.FieldsFunc(Canonicalize(s), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r))
	})
}

// Phrase is a word sequence padded with single spaces so that phrase
// containment respects word boundaries.
type Phrase string

// NewPhrase builds the padded word form of s.
func NewPhrase(s string) Phrase {
	return Phrase(" " + strings.Join(Words(s), " ") + " ")
}

// Contains reports whether the words of term occur contiguously in p.
func (p Phrase) Contains(term string) bool {
	t := NewPhrase(term)
	if strings.TrimSpace(string(t)) == "" {
		return false
	}
	return strings.Contains(string(p), string(t))
}

// HasDevanagari reports whether s contains any Devanagari rune.
func HasDevanagari(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Devanagari, r) {
			return true
		}
	}
	return false
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Title upper-cases the first letter of every word.
func Title(s string) string {
	return cases.Title(language.Und).String(s)
}

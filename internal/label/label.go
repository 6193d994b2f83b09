// Package label turns free-form text entered by form operators and registrants
// into stable ASCII identifiers used for matching and for file names.
package label

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Normalize folds text to lower-case ASCII words joined by hyphens.
// Accents are stripped after canonical decomposition and any other non-ASCII
// rune is dropped, so "Certificat Médical (PDF)" becomes "certificat-medical-pdf".
// Normalize is idempotent.
func Normalize(text string) string {
	folded := foldASCII(text)
	words := strings.Fields(nonAlphanumeric.ReplaceAllString(folded, " "))
	return strings.ToLower(strings.Join(words, "-"))
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(text string) string {
	if text == "" {
		return ""
	}
	rs := []rune(strings.ToLower(text))
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}

// Contains reports whether the normalized form of text contains any of the
// given normalized fragments.
func Contains(text string, fragments ...string) bool {
	normalized := Normalize(text)
	for _, f := range fragments {
		if strings.Contains(normalized, f) {
			return true
		}
	}
	return false
}

func foldASCII(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.Predicate(isNonASCII)))
	folded, _, err := transform.String(t, text)
	if err != nil {
		// invalid UTF-8; strip byte-wise instead
		return strings.Map(func(r rune) rune {
			if isNonASCII(r) {
				return -1
			}
			return r
		}, text)
	}
	return folded
}

func isNonASCII(r rune) bool {
	return r > unicode.MaxASCII
}

// Package textnorm folds free text for equality comparisons: option labels,
// diagnostic question texts and impediment names are matched after
// lower-casing, stripping diacritics and collapsing whitespace.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the comparison key for s. "  ¿Nivel de Lectura? " and
// "¿nivel de lectura?" fold to the same key; so do "Sí" and "si".
func Fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(out)
	return strings.Join(strings.Fields(out), " ")
}

// Equal reports whether a and b fold to the same key.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}

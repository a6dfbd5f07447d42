package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonWordRe    = regexp.MustCompile(`[^\w/]+`)

	// NFD decomposition followed by removal of combining marks strips accents
	// ("Consultor de Operações" and "Consultor de Operacoes" normalize alike).
	accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// StripAccents removes diacritical marks from s.
func StripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeKey produces the canonical catalog key for a raw name:
// accent-stripped, trimmed, upper-cased, runs of whitespace collapsed to "_".
func NormalizeKey(s string) string {
	s = StripAccents(s)
	s = strings.TrimSpace(s)
	s = strings.ToUpper(s)
	return whitespaceRe.ReplaceAllString(s, "_")
}

// NormText cleans free-text cell values: accent-stripped, inner whitespace
// collapsed to single spaces, trimmed.
func NormText(s string) string {
	s = StripAccents(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormHeader canonicalizes a spreadsheet header for synonym matching:
// NormText, lower-cased, non-word runs replaced with "_" (keeps "/").
func NormHeader(s string) string {
	s = strings.ToLower(NormText(s))
	return nonWordRe.ReplaceAllString(s, "_")
}

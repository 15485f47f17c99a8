package vocab

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold produces the canonical lookup key for an alias or a scanned token:
// NFKC-normalized, accent-stripped, lowercased, inner whitespace collapsed.
// Two aliases with the same fold are the same alias.
func Fold(s string) string {
	s = norm.NFKC.String(s)
	if out, _, err := transform.String(stripAccents, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// CleanText normalizes raw field text before scanning: NFKC plus removal of
// control characters other than newline and tab.
func CleanText(s string) string {
	s = norm.NFKC.String(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

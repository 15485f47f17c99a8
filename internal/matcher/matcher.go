// Package matcher scans free text for vocabulary aliases and resolves them to
// canonical terms. Matching is pure: a CategoryMatcher is immutable after
// Compile and safe to share across workers.
package matcher

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/micropapers/papertag/internal/vocab"
)

type aliasPattern struct {
	re        *regexp.Regexp
	canonical string
	emitMatch bool
	order     int
}

// CategoryMatcher matches one category's aliases against text.
type CategoryMatcher struct {
	category string
	aliases  []aliasPattern
}

// Compile builds a matcher from the category's entries. Literal aliases are
// compiled into quoted case-insensitive patterns, so every candidate span is
// a byte offset into the same input string. The entry index is the declaration
// order used to break ties between overlapping matches.
func Compile(category string, entries []vocab.Entry) (*CategoryMatcher, error) {
	m := &CategoryMatcher{category: category}
	for i, e := range entries {
		forms := append([]string{e.Canonical}, e.Aliases...)
		for _, alias := range forms {
			alias = strings.TrimSpace(alias)
			if alias == "" {
				continue
			}
			re, err := regexp.Compile("(?i:" + regexp.QuoteMeta(alias) + ")")
			if err != nil {
				return nil, vocab.NewMalformedAliasPattern(category, alias, err)
			}
			m.aliases = append(m.aliases, aliasPattern{
				re:        re,
				canonical: e.Canonical,
				order:     i,
			})
		}
		for _, p := range e.Patterns {
			re, err := regexp.Compile("(?i:" + p + ")")
			if err != nil {
				return nil, vocab.NewMalformedAliasPattern(category, p, err)
			}
			m.aliases = append(m.aliases, aliasPattern{
				re:        re,
				canonical: e.Canonical,
				emitMatch: e.EmitMatch,
				order:     i,
			})
		}
	}
	return m, nil
}

// Category returns the category this matcher scans for.
func (m *CategoryMatcher) Category() string { return m.category }

type span struct {
	start, end int
	order      int
	emit       string
}

// Match returns the sorted set of canonical terms whose aliases occur in the
// text. Overlapping candidate spans are resolved longest-match-first, with
// declaration order as the tiebreak, so "LSM 880" beats a bare "LSM" and the
// earlier-declared term wins an exact tie.
func (m *CategoryMatcher) Match(text string) []string {
	if text == "" {
		return nil
	}
	text = vocab.CleanText(text)

	var spans []span
	for _, a := range m.aliases {
		for _, loc := range a.re.FindAllStringIndex(text, -1) {
			if !wordBoundary(text, loc[0], loc[1]) {
				continue
			}
			emit := a.canonical
			if a.emitMatch {
				emit = cleanIdentifier(text[loc[0]:loc[1]])
			}
			spans = append(spans, span{start: loc[0], end: loc[1], order: a.order, emit: emit})
		}
	}
	if len(spans) == 0 {
		return nil
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		li, lj := spans[i].end-spans[i].start, spans[j].end-spans[j].start
		if li != lj {
			return li > lj
		}
		return spans[i].order < spans[j].order
	})

	set := map[string]struct{}{}
	lastEnd := 0
	for _, s := range spans {
		if s.start < lastEnd {
			continue
		}
		set[s.emit] = struct{}{}
		lastEnd = s.end
	}

	out := make([]string, 0, len(set))
	for term := range set {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

// wordBoundary rejects matches glued to a letter or digit on either side, so
// "SP8" never fires inside "SP800".
func wordBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

var identifierSpace = regexp.MustCompile(`:\s+`)

// cleanIdentifier normalizes an emit-match span into a bare identifier:
// whitespace trimmed, "RRID: X" collapsed to "RRID:X", URL scheme dropped.
func cleanIdentifier(s string) string {
	s = strings.TrimSpace(s)
	s = identifierSpace.ReplaceAllString(s, ":")
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	return s
}

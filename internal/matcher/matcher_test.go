package matcher

import (
	"reflect"
	"testing"

	"github.com/micropapers/papertag/internal/vocab"
)

func compile(t *testing.T, entries []vocab.Entry) *CategoryMatcher {
	t.Helper()
	m, err := Compile("test", entries)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestMatchCaseInsensitive(t *testing.T) {
	m := compile(t, []vocab.Entry{
		{Canonical: "Confocal Microscopy", Aliases: []string{"confocal"}},
	})
	for _, text := range []string{
		"We used CONFOCAL imaging.",
		"Standard Confocal setup.",
		"confocal",
	} {
		if got := m.Match(text); !reflect.DeepEqual(got, []string{"Confocal Microscopy"}) {
			t.Fatalf("Match(%q) = %v", text, got)
		}
	}
}

// "SP8" must not fire inside "SP800".
func TestWordBoundary(t *testing.T) {
	m := compile(t, []vocab.Entry{
		{Canonical: "SP8", Aliases: []string{"Leica SP8"}},
	})
	if got := m.Match("calibrated per NIST SP800-90A"); got != nil {
		t.Fatalf("SP8 matched inside SP800: %v", got)
	}
	if got := m.Match("imaged on a Leica SP8 microscope"); !reflect.DeepEqual(got, []string{"SP8"}) {
		t.Fatalf("expected SP8 match, got %v", got)
	}
	if got := m.Match("an SP8, followed by fixation"); !reflect.DeepEqual(got, []string{"SP8"}) {
		t.Fatalf("punctuation must be a boundary, got %v", got)
	}
}

// Text containing "LSM 880" yields the specific model, not a bare family
// alias, when the dictionary defines both.
func TestLongestMatchWins(t *testing.T) {
	m := compile(t, []vocab.Entry{
		{Canonical: "LSM", Aliases: []string{}},
		{Canonical: "LSM 880", Aliases: []string{"LSM880"}},
	})
	if got := m.Match("acquired on a Zeiss LSM 880 with Airyscan"); !reflect.DeepEqual(got, []string{"LSM 880"}) {
		t.Fatalf("expected longest match to win, got %v", got)
	}
	// A standalone family mention elsewhere still tags.
	got := m.Match("an LSM 880 and an older LSM")
	want := []string{"LSM", "LSM 880"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// When two distinct canonicals tie on the same span, the one declared first
// in the alias table wins.
func TestDeclarationOrderTiebreak(t *testing.T) {
	first := compile(t, []vocab.Entry{
		{Canonical: "Alpha", Patterns: []string{`sh[a-z]+ term`}},
		{Canonical: "Beta", Patterns: []string{`shared t[a-z]+`}},
	})
	if got := first.Match("a shared term appears"); !reflect.DeepEqual(got, []string{"Alpha"}) {
		t.Fatalf("expected declaration order to pick Alpha, got %v", got)
	}

	reversed := compile(t, []vocab.Entry{
		{Canonical: "Beta", Patterns: []string{`sh[a-z]+ term`}},
		{Canonical: "Alpha", Patterns: []string{`shared t[a-z]+`}},
	})
	if got := reversed.Match("a shared term appears"); !reflect.DeepEqual(got, []string{"Beta"}) {
		t.Fatalf("expected declaration order to pick Beta, got %v", got)
	}
}

func TestPatternEmitMatch(t *testing.T) {
	m := compile(t, []vocab.Entry{
		{Canonical: "RRID", Patterns: []string{`RRID:\s?[A-Z]+_[A-Za-z0-9_-]+`}, EmitMatch: true},
	})
	got := m.Match("antibodies (RRID:AB_2307443 and RRID: AB_90755) were used")
	want := []string{"RRID:AB_2307443", "RRID:AB_90755"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPatternEmitMatchStripsScheme(t *testing.T) {
	m := compile(t, []vocab.Entry{
		{Canonical: "ROR", Patterns: []string{`(?:https?://)?ror\.org/0[a-z0-9]{6}[0-9]{2}`}, EmitMatch: true},
	})
	got := m.Match("funded via https://ror.org/042nb2s44")
	want := []string{"ror.org/042nb2s44"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestMatchEmptyText(t *testing.T) {
	m := compile(t, []vocab.Entry{{Canonical: "GFP"}})
	if got := m.Match(""); got != nil {
		t.Fatalf("empty text must match nothing, got %v", got)
	}
}

func TestMatchDeduplicates(t *testing.T) {
	m := compile(t, []vocab.Entry{
		{Canonical: "GFP", Aliases: []string{"green fluorescent protein", "EGFP"}},
	})
	got := m.Match("GFP and EGFP and green fluorescent protein")
	if !reflect.DeepEqual(got, []string{"GFP"}) {
		t.Fatalf("expected single deduplicated canonical, got %v", got)
	}
}

func TestCompileRejectsBadPattern(t *testing.T) {
	_, err := Compile("rrids", []vocab.Entry{
		{Canonical: "RRID", Patterns: []string{`RRID:[`}},
	})
	if !vocab.IsMalformedAliasPattern(err) {
		t.Fatalf("expected malformed_alias_pattern, got %v", err)
	}
}

func TestDefaultVocabularyScenario(t *testing.T) {
	table := vocab.DefaultTable()
	entries, err := table.Lookup(vocab.CategoryModels)
	if err != nil {
		t.Fatal(err)
	}
	m := compile(t, entries)
	got := m.Match("Images were acquired on a Zeiss LSM 880 and a Leica TCS SP8.")
	want := []string{"LSM 880", "SP8"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// Lowercasing "İ" grows the string by a byte per occurrence. Literal and
// pattern spans must share one coordinate system, or overlap resolution
// wrongly suppresses a match adjacent to such characters.
func TestMatchMixedSpansWithLengthChangingCase(t *testing.T) {
	m := compile(t, []vocab.Entry{
		{Canonical: "LSM 880", Aliases: []string{"Zeiss LSM 880"}},
		{Canonical: "RRID", Patterns: []string{`RRID:\s?[A-Z]+_[A-Za-z0-9_-]+`}, EmitMatch: true},
	})
	got := m.Match("İİ LSM 880 RRID:AB_12345")
	want := []string{"LSM 880", "RRID:AB_12345"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

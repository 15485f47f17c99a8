// Package consistency audits the category vocabularies of the extraction,
// normalization, and consumption stages for drift. The checker is a pure diff
// over static configuration: it never affects tagging, and its report is meant
// to run as a CI gate rather than be written by hand.
package consistency

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StageExtraction    = "extraction"
	StageNormalization = "normalization"
	StageConsumption   = "consumption"
)

// Severity grades a finding. Blockers fail the CI gate.
type Severity string

const (
	SeverityNone    Severity = "none"
	SeverityMinor   Severity = "minor"
	SeverityBlocker Severity = "blocker"
)

// Finding kinds, in report order.
const (
	KindExtractedNotNormalized = "extracted_not_normalized"
	KindNormalizedNotConsumed  = "normalized_not_consumed"
	KindConsumedNotProduced    = "consumed_not_produced"
	KindNormalizedNotExtracted = "normalized_not_extracted"
	KindFieldNameMismatch      = "field_name_mismatch"
	KindTermDrift              = "term_drift"
)

var kindOrder = map[string]int{
	KindExtractedNotNormalized: 0,
	KindNormalizedNotConsumed:  1,
	KindConsumedNotProduced:    2,
	KindNormalizedNotExtracted: 3,
	KindFieldNameMismatch:      4,
	KindTermDrift:              5,
}

// StageCategory describes one category as a stage sees it: the record field
// it reads or writes and, where the stage maintains one, its term list.
type StageCategory struct {
	Field string   `yaml:"field,omitempty" json:"field,omitempty"`
	Terms []string `yaml:"terms,omitempty" json:"terms,omitempty"`
}

// StageVocabulary is one stage's view of the category space.
type StageVocabulary struct {
	Stage      string                   `yaml:"stage" json:"stage"`
	Categories map[string]StageCategory `yaml:"categories" json:"categories"`
}

// LoadStage reads a stage vocabulary file (YAML, or JSON by extension).
// An unparseable file is a hard error; findings never are.
func LoadStage(path string) (StageVocabulary, error) {
	var sv StageVocabulary
	raw, err := os.ReadFile(path)
	if err != nil {
		return sv, fmt.Errorf("read stage vocabulary: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(raw, &sv)
	} else {
		err = yaml.Unmarshal(raw, &sv)
	}
	if err != nil {
		return sv, fmt.Errorf("decode stage vocabulary %s: %w", path, err)
	}
	if len(sv.Categories) == 0 {
		return sv, fmt.Errorf("stage vocabulary %s: no categories", path)
	}
	return sv, nil
}

// Finding is one detected drift between stages.
type Finding struct {
	Category string   `json:"category"`
	Kind     string   `json:"kind"`
	Severity Severity `json:"severity"`
	Stages   []string `json:"stages"`
	Detail   string   `json:"detail"`
}

// Report is the ordered result of a consistency check.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Stages      []string  `json:"stages"`
	Categories  int       `json:"categories_checked"`
	Findings    []Finding `json:"findings"`
}

// HasBlocker reports whether any finding fails the gate.
func (r Report) HasBlocker() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityBlocker {
			return true
		}
	}
	return false
}

// Counts tallies findings per severity.
func (r Report) Counts() map[Severity]int {
	out := map[Severity]int{}
	for _, f := range r.Findings {
		out[f.Severity]++
	}
	return out
}

// Check diffs the three stage vocabularies. Findings are deterministic:
// ordered by category, then kind.
func Check(extraction, normalization, consumption StageVocabulary) Report {
	rep := Report{
		GeneratedAt: time.Now().UTC(),
		Stages:      []string{StageExtraction, StageNormalization, StageConsumption},
	}

	all := map[string]struct{}{}
	for cat := range extraction.Categories {
		all[cat] = struct{}{}
	}
	for cat := range normalization.Categories {
		all[cat] = struct{}{}
	}
	for cat := range consumption.Categories {
		all[cat] = struct{}{}
	}
	rep.Categories = len(all)

	cats := make([]string, 0, len(all))
	for cat := range all {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	for _, cat := range cats {
		ext, inExt := extraction.Categories[cat]
		norm, inNorm := normalization.Categories[cat]
		cons, inCons := consumption.Categories[cat]

		if inExt && !inNorm {
			rep.add(Finding{
				Category: cat,
				Kind:     KindExtractedNotNormalized,
				Severity: SeverityMinor,
				Stages:   []string{StageExtraction},
				Detail:   "category is extracted but the normalization stage has no vocabulary for it; raw surface strings pass through uncleaned",
			})
		}
		if inNorm && !inCons {
			rep.add(Finding{
				Category: cat,
				Kind:     KindNormalizedNotConsumed,
				Severity: SeverityBlocker,
				Stages:   []string{StageNormalization},
				Detail:   "category is normalized and exported but the importer does not consume it; its tags are silently dropped at import",
			})
		}
		if inCons && !inNorm {
			rep.add(Finding{
				Category: cat,
				Kind:     KindConsumedNotProduced,
				Severity: SeverityBlocker,
				Stages:   []string{StageConsumption},
				Detail:   "importer expects this category but no upstream stage produces it; the imported field will always be empty",
			})
		}
		if inNorm && !inExt {
			rep.add(Finding{
				Category: cat,
				Kind:     KindNormalizedNotExtracted,
				Severity: SeverityNone,
				Stages:   []string{StageNormalization},
				Detail:   "category exists only from normalization onward; confirm this is a cleanup-stage addition, not a renamed extraction category",
			})
		}

		if f, ok := fieldMismatch(cat, ext, inExt, norm, inNorm, cons, inCons); ok {
			rep.add(f)
		}
		if f, ok := termDrift(cat, ext, inExt, norm, inNorm); ok {
			rep.add(f)
		}
	}

	sort.Slice(rep.Findings, func(i, j int) bool {
		a, b := rep.Findings[i], rep.Findings[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return kindOrder[a.Kind] < kindOrder[b.Kind]
	})
	return rep
}

func (r *Report) add(f Finding) {
	r.Findings = append(r.Findings, f)
}

// fieldMismatch flags the same logical category writing or reading different
// record field names across stages (the citation_count vs citations class of
// bug). Comparison ignores case and underscores so only real renames fire.
func fieldMismatch(cat string, ext StageCategory, inExt bool, norm StageCategory, inNorm bool, cons StageCategory, inCons bool) (Finding, bool) {
	type stageField struct {
		stage, field string
	}
	var fields []stageField
	if inExt && ext.Field != "" {
		fields = append(fields, stageField{StageExtraction, ext.Field})
	}
	if inNorm && norm.Field != "" {
		fields = append(fields, stageField{StageNormalization, norm.Field})
	}
	if inCons && cons.Field != "" {
		fields = append(fields, stageField{StageConsumption, cons.Field})
	}
	if len(fields) < 2 {
		return Finding{}, false
	}
	first := fields[0]
	var mismatched []string
	var stages []string
	for _, sf := range fields {
		stages = append(stages, sf.stage)
		if !sameLogicalField(first.field, sf.field) {
			mismatched = append(mismatched, fmt.Sprintf("%s=%q", sf.stage, sf.field))
		}
	}
	if len(mismatched) == 0 {
		return Finding{}, false
	}
	return Finding{
		Category: cat,
		Kind:     KindFieldNameMismatch,
		Severity: SeverityBlocker,
		Stages:   stages,
		Detail: fmt.Sprintf("stages disagree on the field name for this category: %s=%q vs %s",
			first.stage, first.field, strings.Join(mismatched, ", ")),
	}, true
}

func sameLogicalField(a, b string) bool {
	clean := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "")
	}
	return clean(a) == clean(b)
}

// termDrift reports canonical terms the extraction stage knows that the
// normalization stage has lost. Informational: the category itself is aligned,
// but the dictionaries are diverging.
func termDrift(cat string, ext StageCategory, inExt bool, norm StageCategory, inNorm bool) (Finding, bool) {
	if !inExt || !inNorm || len(ext.Terms) == 0 || len(norm.Terms) == 0 {
		return Finding{}, false
	}
	known := map[string]struct{}{}
	for _, t := range norm.Terms {
		known[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	var missing []string
	for _, t := range ext.Terms {
		if _, ok := known[strings.ToLower(strings.TrimSpace(t))]; !ok {
			missing = append(missing, t)
		}
	}
	if len(missing) == 0 {
		return Finding{}, false
	}
	sort.Strings(missing)
	sev := SeverityNone
	if len(missing)*10 >= len(ext.Terms) {
		// Losing a tenth of a dictionary is no longer cosmetic.
		sev = SeverityMinor
	}
	return Finding{
		Category: cat,
		Kind:     KindTermDrift,
		Severity: sev,
		Stages:   []string{StageExtraction, StageNormalization},
		Detail:   fmt.Sprintf("%d extraction term(s) missing from the normalization dictionary: %s", len(missing), strings.Join(missing, ", ")),
	}, true
}

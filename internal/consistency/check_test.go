package consistency

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func stage(name string, cats map[string]StageCategory) StageVocabulary {
	return StageVocabulary{Stage: name, Categories: cats}
}

func findByKind(t *testing.T, rep Report, category, kind string) Finding {
	t.Helper()
	for _, f := range rep.Findings {
		if f.Category == category && f.Kind == kind {
			return f
		}
	}
	t.Fatalf("no %s finding for %s in %+v", kind, category, rep.Findings)
	return Finding{}
}

// A category extracted and consumed but absent from normalization is the
// worst drift shape: the importer expects data the export never carries.
func TestCheckCategoryMissingFromNormalization(t *testing.T) {
	ext := stage(StageExtraction, map[string]StageCategory{
		"microscopy_techniques": {},
		"fluorophores":          {},
	})
	norm := stage(StageNormalization, map[string]StageCategory{
		"microscopy_techniques": {},
	})
	cons := stage(StageConsumption, map[string]StageCategory{
		"microscopy_techniques": {},
		"fluorophores":          {},
	})
	rep := Check(ext, norm, cons)

	f := findByKind(t, rep, "fluorophores", KindExtractedNotNormalized)
	if f.Severity == SeverityNone {
		t.Fatalf("extracted-not-normalized must be at least minor, got %s", f.Severity)
	}
	f = findByKind(t, rep, "fluorophores", KindConsumedNotProduced)
	if f.Severity != SeverityBlocker {
		t.Fatalf("consumed-not-produced must be blocker, got %s", f.Severity)
	}
	if !rep.HasBlocker() {
		t.Fatal("report must fail the gate")
	}
	for _, f := range rep.Findings {
		if f.Category == "microscopy_techniques" {
			t.Fatalf("aligned category flagged: %+v", f)
		}
	}
	if rep.Categories != 2 {
		t.Fatalf("categories checked = %d, want 2", rep.Categories)
	}
}

func TestCheckNormalizedNotConsumed(t *testing.T) {
	rep := Check(
		stage(StageExtraction, map[string]StageCategory{"organisms": {}}),
		stage(StageNormalization, map[string]StageCategory{"organisms": {}}),
		stage(StageConsumption, map[string]StageCategory{"cell_lines": {}}),
	)
	f := findByKind(t, rep, "organisms", KindNormalizedNotConsumed)
	if f.Severity != SeverityBlocker {
		t.Fatalf("severity = %s", f.Severity)
	}
}

func TestCheckNormalizedNotExtractedIsInformational(t *testing.T) {
	rep := Check(
		stage(StageExtraction, map[string]StageCategory{"organisms": {}}),
		stage(StageNormalization, map[string]StageCategory{"organisms": {}, "rors": {}}),
		stage(StageConsumption, map[string]StageCategory{"organisms": {}, "rors": {}}),
	)
	f := findByKind(t, rep, "rors", KindNormalizedNotExtracted)
	if f.Severity != SeverityNone {
		t.Fatalf("cleanup-stage additions are informational, got %s", f.Severity)
	}
	if rep.HasBlocker() {
		t.Fatal("no blocker expected")
	}
}

func TestCheckFieldNameMismatch(t *testing.T) {
	rep := Check(
		stage(StageExtraction, map[string]StageCategory{"citations": {Field: "citation_count"}}),
		stage(StageNormalization, map[string]StageCategory{"citations": {Field: "citation_count"}}),
		stage(StageConsumption, map[string]StageCategory{"citations": {Field: "citations"}}),
	)
	f := findByKind(t, rep, "citations", KindFieldNameMismatch)
	if f.Severity != SeverityBlocker {
		t.Fatalf("severity = %s", f.Severity)
	}
	if len(f.Stages) != 3 {
		t.Fatalf("stages = %v", f.Stages)
	}
}

// Case and underscore differences are formatting, not renames.
func TestCheckFieldNameEquivalence(t *testing.T) {
	rep := Check(
		stage(StageExtraction, map[string]StageCategory{"citations": {Field: "citation_count"}}),
		stage(StageNormalization, map[string]StageCategory{"citations": {Field: "CitationCount"}}),
		stage(StageConsumption, map[string]StageCategory{"citations": {Field: "citation_count"}}),
	)
	for _, f := range rep.Findings {
		if f.Kind == KindFieldNameMismatch {
			t.Fatalf("equivalent field names flagged: %+v", f)
		}
	}
}

func TestCheckTermDrift(t *testing.T) {
	terms := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	cons := stage(StageConsumption, map[string]StageCategory{"techniques": {}})

	small := Check(
		stage(StageExtraction, map[string]StageCategory{"techniques": {Terms: terms}}),
		stage(StageNormalization, map[string]StageCategory{"techniques": {Terms: terms[:9]}}),
		cons,
	)
	f := findByKind(t, small, "techniques", KindTermDrift)
	if f.Severity != SeverityMinor {
		t.Fatalf("losing 10%% of terms should be minor, got %s", f.Severity)
	}

	aligned := Check(
		stage(StageExtraction, map[string]StageCategory{"techniques": {Terms: terms[:3]}}),
		stage(StageNormalization, map[string]StageCategory{"techniques": {Terms: []string{"C", " b ", "a"}}}),
		cons,
	)
	for _, f := range aligned.Findings {
		if f.Kind == KindTermDrift {
			t.Fatalf("case/whitespace variants flagged as drift: %+v", f)
		}
	}
}

func TestCheckFindingOrder(t *testing.T) {
	rep := Check(
		stage(StageExtraction, map[string]StageCategory{"beta": {}, "alpha": {}}),
		stage(StageNormalization, map[string]StageCategory{}),
		stage(StageConsumption, map[string]StageCategory{"beta": {}, "alpha": {}}),
	)
	var got []string
	for _, f := range rep.Findings {
		got = append(got, f.Category+"/"+f.Kind)
	}
	want := []string{
		"alpha/" + KindExtractedNotNormalized,
		"alpha/" + KindConsumedNotProduced,
		"beta/" + KindExtractedNotNormalized,
		"beta/" + KindConsumedNotProduced,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("finding order = %v, want %v", got, want)
	}
}

func TestLoadStage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extraction.yaml")
	doc := `stage: extraction
categories:
  microscopy_techniques:
    field: microscopy_techniques
    terms: [Confocal Microscopy, STED Microscopy]
  rrids:
    field: rrids
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	sv, err := LoadStage(path)
	if err != nil {
		t.Fatal(err)
	}
	if sv.Stage != StageExtraction {
		t.Fatalf("stage = %q", sv.Stage)
	}
	if got := sv.Categories["microscopy_techniques"].Terms; len(got) != 2 {
		t.Fatalf("terms = %v", got)
	}

	bad := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(bad, []byte("stage: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadStage(bad); err == nil {
		t.Fatal("unparseable file must be a hard error")
	}
	if _, err := LoadStage(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("missing file must be a hard error")
	}
}

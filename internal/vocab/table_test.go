package vocab

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTableValidity(t *testing.T) {
	table := DefaultTable()
	cats := table.Categories()
	if len(cats) != 14 {
		t.Fatalf("expected 14 categories, got %d: %v", len(cats), cats)
	}
	for _, want := range []string{
		CategoryTechniques, CategoryBrands, CategoryModels,
		CategoryAnalysisSoftware, CategoryAcquisitionSoftware,
		CategoryFluorophores, CategoryOrganisms, CategoryCellLines,
		CategorySamplePreparation, CategoryInstitutions,
		CategoryProtocols, CategoryRepositories, CategoryRRIDs, CategoryRORs,
	} {
		if _, err := table.Lookup(want); err != nil {
			t.Fatalf("category %s missing from default table: %v", want, err)
		}
	}
}

// No alias may resolve to two canonical terms within one category, across
// the whole shipped vocabulary.
func TestDefaultTableAliasFunctionInvariant(t *testing.T) {
	table := DefaultTable()
	for _, cat := range table.Categories() {
		entries, err := table.Lookup(cat)
		if err != nil {
			t.Fatal(err)
		}
		owner := map[string]string{}
		for _, e := range entries {
			for _, alias := range append([]string{e.Canonical}, e.Aliases...) {
				key := Fold(alias)
				if prev, ok := owner[key]; ok && prev != e.Canonical {
					t.Fatalf("%s: alias %q maps to both %q and %q", cat, alias, prev, e.Canonical)
				}
				owner[key] = e.Canonical
			}
		}
	}
}

func TestNewTableRejectsDuplicateAlias(t *testing.T) {
	_, err := NewTable(map[string]CategorySpec{
		"techniques": {Entries: []Entry{
			{Canonical: "Atomic Force Microscopy", Aliases: []string{"AFM"}},
			{Canonical: "Antibody Fragment Mapping", Aliases: []string{"afm"}},
		}},
	})
	if err == nil {
		t.Fatal("expected error for duplicate alias")
	}
	var ve *Error
	if !errors.As(err, &ve) || ve.Code != CodeInvalidVocabulary {
		t.Fatalf("expected invalid_vocabulary error, got %v", err)
	}
}

func TestNewTableRejectsMalformedPattern(t *testing.T) {
	_, err := NewTable(map[string]CategorySpec{
		"rrids": {Entries: []Entry{
			{Canonical: "RRID", Patterns: []string{`RRID:[`}},
		}},
	})
	if !IsMalformedAliasPattern(err) {
		t.Fatalf("expected malformed_alias_pattern, got %v", err)
	}
}

func TestNewTableRejectsMergeToUnknownCanonical(t *testing.T) {
	_, err := NewTable(map[string]CategorySpec{
		"techniques": {
			Merges:  map[string]string{"SPIM": "Light Sheet Microscopy"},
			Entries: []Entry{{Canonical: "SPIM"}},
		},
	})
	if err == nil {
		t.Fatal("expected error for merge targeting unknown canonical")
	}
}

func TestLookupUnknownCategory(t *testing.T) {
	table := DefaultTable()
	if _, err := table.Lookup("staining_kits"); !IsUnknownCategory(err) {
		t.Fatalf("expected unknown_category, got %v", err)
	}
}

func TestMergeCollapsesHistoricalTerm(t *testing.T) {
	table := DefaultTable()
	got := table.Merge(CategoryTechniques, "Selective Plane Illumination Microscopy")
	if got != "Light Sheet Microscopy" {
		t.Fatalf("expected SPIM to merge into Light Sheet Microscopy, got %q", got)
	}
	if got := table.Merge(CategoryTechniques, "STORM"); got != "STORM" {
		t.Fatalf("unmerged term must pass through, got %q", got)
	}
}

func TestLoadYAMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.yaml")
	content := `
categories:
  fluorophores:
    entries:
      - canonical: GFP
        aliases: ["green fluorescent protein", "EGFP"]
      - canonical: mCherry
  rrids:
    hide_empty: true
    entries:
      - canonical: RRID
        patterns: ['RRID:\s?[A-Z]+_[A-Za-z0-9_-]+']
        emit_match: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	entries, err := table.Lookup("fluorophores")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Canonical != "GFP" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if !table.HideEmpty("rrids") {
		t.Fatal("rrids should carry hide_empty")
	}
	if table.HideEmpty("fluorophores") {
		t.Fatal("fluorophores should not carry hide_empty")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

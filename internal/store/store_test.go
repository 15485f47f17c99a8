package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/micropapers/papertag/internal/tagger"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "papertag.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveRunRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	res := tagger.BatchResult{
		Records: []tagger.TaggedRecord{
			{
				Record: tagger.SourceRecord{DOI: "10.1/one", Title: "STED imaging"},
				Tags:   map[string][]string{"microscopy_techniques": {"STED Microscopy"}},
			},
			{
				Record: tagger.SourceRecord{DOI: "10.1/two"},
				Tags:   map[string][]string{"microscopy_techniques": {}},
			},
		},
		Skipped:   []tagger.SkippedRecord{{Key: "10.1/bad", Reason: "record timeout after 1s"}},
		Unmatched: []tagger.UnmatchedTerm{{Term: "Obscure Institute", Count: 2}},
	}
	if err := s.SaveRun(ctx, time.Now(), res); err != nil {
		t.Fatal(err)
	}

	n, err := s.RecordCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("record count = %d, want 2", n)
	}

	doc, err := s.Record(ctx, "10.1/one")
	if err != nil {
		t.Fatal(err)
	}
	var stored map[string]any
	if err := json.Unmarshal(doc, &stored); err != nil {
		t.Fatal(err)
	}
	if stored["doi"] != "10.1/one" {
		t.Fatalf("stored doc doi = %v", stored["doi"])
	}
	terms, ok := stored["microscopy_techniques"].([]any)
	if !ok || len(terms) != 1 || terms[0] != "STED Microscopy" {
		t.Fatalf("stored techniques = %v", stored["microscopy_techniques"])
	}
}

func TestSaveRunUpsertsByKey(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := tagger.BatchResult{Records: []tagger.TaggedRecord{{
		Record: tagger.SourceRecord{DOI: "10.1/same", Title: "v1"},
		Tags:   map[string][]string{},
	}}}
	second := tagger.BatchResult{Records: []tagger.TaggedRecord{{
		Record: tagger.SourceRecord{DOI: "10.1/same", Title: "v2"},
		Tags:   map[string][]string{},
	}}}
	if err := s.SaveRun(ctx, time.Now(), first); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveRun(ctx, time.Now(), second); err != nil {
		t.Fatal(err)
	}

	n, err := s.RecordCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("re-tagging the same key must upsert, count = %d", n)
	}
	doc, err := s.Record(ctx, "10.1/same")
	if err != nil {
		t.Fatal(err)
	}
	var stored map[string]any
	if err := json.Unmarshal(doc, &stored); err != nil {
		t.Fatal(err)
	}
	if stored["title"] != "v2" {
		t.Fatalf("latest run must win, title = %v", stored["title"])
	}
}

func TestUnmatchedTermsAccumulate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := func(term string, count int) tagger.BatchResult {
		return tagger.BatchResult{Unmatched: []tagger.UnmatchedTerm{{Term: term, Count: count}}}
	}
	if err := s.SaveRun(ctx, time.Now(), run("Lab A", 2)); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveRun(ctx, time.Now().Add(time.Second), run("Lab A", 3)); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveRun(ctx, time.Now().Add(2*time.Second), run("Lab B", 1)); err != nil {
		t.Fatal(err)
	}

	all, err := s.UnmatchedTerms(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []tagger.UnmatchedTerm{{Term: "Lab A", Count: 5}, {Term: "Lab B", Count: 1}}
	if !reflect.DeepEqual(all, want) {
		t.Fatalf("unmatched = %v, want %v", all, want)
	}

	frequent, err := s.UnmatchedTerms(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(frequent) != 1 || frequent[0].Term != "Lab A" {
		t.Fatalf("minCount filter failed: %v", frequent)
	}
}

func TestRecordNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Record(context.Background(), "no-such-key"); err == nil {
		t.Fatal("expected error for missing key")
	}
}

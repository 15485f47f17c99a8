package tagger

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/micropapers/papertag/internal/vocab"
)

// SourceRecord is one paper's raw extracted fields. It is immutable input:
// tagging never modifies it, and re-tagging regenerates every tag set from
// scratch.
type SourceRecord struct {
	DOI          string   `json:"doi,omitempty"`
	PMID         string   `json:"pmid,omitempty"`
	PMCID        string   `json:"pmcid,omitempty"`
	Title        string   `json:"title,omitempty"`
	Abstract     string   `json:"abstract,omitempty"`
	Methods      string   `json:"methods,omitempty"`
	FullText     string   `json:"full_text,omitempty"`
	Affiliations []string `json:"affiliations,omitempty"`
	Journal      string   `json:"journal,omitempty"`
	Year         int      `json:"year,omitempty"`
	Authors      []string `json:"authors,omitempty"`
}

// Key returns a stable identifier for the record: DOI, else PMID, else a
// positional fallback.
func (r SourceRecord) Key(index int) string {
	if r.DOI != "" {
		return r.DOI
	}
	if r.PMID != "" {
		return "pmid:" + r.PMID
	}
	return fmt.Sprintf("record-%d", index)
}

// FieldTexts returns the scannable text chunks for a routed field name.
// Affiliations scan per entry so unmatched lines can be reported individually.
// A missing or empty field yields no chunks, which is not an error.
func (r SourceRecord) FieldTexts(field string) []string {
	switch field {
	case vocab.FieldTitle:
		return nonEmpty(r.Title)
	case vocab.FieldAbstract:
		return nonEmpty(r.Abstract)
	case vocab.FieldMethods:
		return nonEmpty(r.Methods)
	case vocab.FieldFullText:
		return nonEmpty(r.FullText)
	case vocab.FieldAffiliations:
		var out []string
		for _, a := range r.Affiliations {
			out = append(out, nonEmpty(a)...)
		}
		return out
	}
	return nil
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

// TaggedRecord is a SourceRecord plus one canonical term set per category.
// The JSON form flattens the tag sets next to the source fields under the
// export field names the corpus-site importer consumes.
type TaggedRecord struct {
	Record                SourceRecord
	Tags                  map[string][]string
	UnmatchedAffiliations []string
}

func (t TaggedRecord) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(t.Record)
	if err != nil {
		return nil, err
	}
	doc := map[string]any{}
	if err := json.Unmarshal(base, &doc); err != nil {
		return nil, err
	}
	cats := make([]string, 0, len(t.Tags))
	for cat := range t.Tags {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	for _, cat := range cats {
		terms := t.Tags[cat]
		if terms == nil {
			terms = []string{}
		}
		doc[cat] = terms
	}
	if len(t.UnmatchedAffiliations) > 0 {
		doc["unmatched_affiliations"] = t.UnmatchedAffiliations
	}
	return json.Marshal(doc)
}

// UnmatchedTerm is a surface string that resolved to no canonical term,
// aggregated across a batch. Feed for the vocabulary cleanup workflow.
type UnmatchedTerm struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// SkippedRecord identifies a record the batch driver gave up on.
type SkippedRecord struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

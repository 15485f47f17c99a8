// Package tagger turns raw paper records into tagged records: per category,
// the set of canonical vocabulary terms found in the record's eligible fields.
package tagger

import (
	"sort"

	"github.com/micropapers/papertag/internal/matcher"
	"github.com/micropapers/papertag/internal/vocab"
)

// Tagger applies one vocabulary and one routing policy. Immutable after New;
// safe for concurrent use.
type Tagger struct {
	table    *vocab.Table
	router   *vocab.Router
	matchers map[string]*matcher.CategoryMatcher
}

// New compiles a Tagger. Every vocabulary category must be routed; a gap is a
// configuration bug and fails here, before any record is processed.
func New(table *vocab.Table, router *vocab.Router) (*Tagger, error) {
	matchers := map[string]*matcher.CategoryMatcher{}
	for _, cat := range table.Categories() {
		if _, err := router.EligibleFields(cat); err != nil {
			return nil, err
		}
		entries, err := table.Lookup(cat)
		if err != nil {
			return nil, err
		}
		m, err := matcher.Compile(cat, entries)
		if err != nil {
			return nil, err
		}
		matchers[cat] = m
	}
	return &Tagger{table: table, router: router, matchers: matchers}, nil
}

// Table returns the tagger's vocabulary.
func (t *Tagger) Table() *vocab.Table { return t.table }

// Router returns the tagger's routing policy.
func (t *Tagger) Router() *vocab.Router { return t.router }

// Tag produces the full tag set for one record. Pure and idempotent: the same
// record always yields the same sets, and a field that is empty or missing
// contributes nothing. A match found while scanning one category is never
// emitted under another.
func (t *Tagger) Tag(rec SourceRecord) TaggedRecord {
	out := TaggedRecord{Record: rec, Tags: map[string][]string{}}
	for _, cat := range t.table.Categories() {
		fields, err := t.router.EligibleFields(cat)
		if err != nil {
			// Routing was validated in New; an unrouted category cannot
			// appear here.
			continue
		}
		set := map[string]struct{}{}
		for _, field := range fields {
			for _, text := range rec.FieldTexts(field) {
				for _, canonical := range t.matchers[cat].Match(text) {
					set[t.table.Merge(cat, canonical)] = struct{}{}
				}
			}
		}
		terms := make([]string, 0, len(set))
		for term := range set {
			terms = append(terms, term)
		}
		sort.Strings(terms)
		out.Tags[cat] = terms

		if t.table.HideEmpty(cat) && len(terms) == 0 {
			delete(out.Tags, cat)
		}
	}
	out.UnmatchedAffiliations = t.unmatchedAffiliations(rec)
	return out
}

// unmatchedAffiliations lists affiliation lines that produced no institution
// tag. These feed the vocabulary cleanup queue.
func (t *Tagger) unmatchedAffiliations(rec SourceRecord) []string {
	m, ok := t.matchers[vocab.CategoryInstitutions]
	if !ok {
		return nil
	}
	var unmatched []string
	for _, line := range rec.FieldTexts(vocab.FieldAffiliations) {
		if len(m.Match(line)) == 0 {
			unmatched = append(unmatched, line)
		}
	}
	return unmatched
}

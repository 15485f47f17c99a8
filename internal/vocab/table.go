package vocab

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry maps one canonical term to the surface forms that resolve to it.
// Aliases are literal strings matched case-insensitively with word-boundary
// checks; Patterns are regular expressions compiled at load time. An entry
// with EmitMatch set tags the matched text itself instead of the canonical
// string (used for identifier categories like rrids and rors).
type Entry struct {
	Canonical  string   `yaml:"canonical" json:"canonical"`
	Aliases    []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Patterns   []string `yaml:"patterns,omitempty" json:"patterns,omitempty"`
	Parent     string   `yaml:"parent,omitempty" json:"parent,omitempty"`
	ExternalID string   `yaml:"external_id,omitempty" json:"external_id,omitempty"`
	EmitMatch  bool     `yaml:"emit_match,omitempty" json:"emit_match,omitempty"`
}

// CategorySpec is one controlled vocabulary. Merges collapse a historically
// separate canonical term into a surviving one at tag time; both sides must
// name canonicals declared in Entries.
type CategorySpec struct {
	Hierarchical bool              `yaml:"hierarchical,omitempty" json:"hierarchical,omitempty"`
	HideEmpty    bool              `yaml:"hide_empty,omitempty" json:"hide_empty,omitempty"`
	Merges       map[string]string `yaml:"merges,omitempty" json:"merges,omitempty"`
	Entries      []Entry           `yaml:"entries" json:"entries"`
}

type tableFile struct {
	Categories map[string]CategorySpec `yaml:"categories" json:"categories"`
}

// Table is the alias table: immutable after Load, safe for concurrent use.
type Table struct {
	specs      map[string]CategorySpec
	categories []string
}

// NewTable validates the given category specs and builds a Table.
func NewTable(specs map[string]CategorySpec) (*Table, error) {
	if len(specs) == 0 {
		return nil, NewInvalidVocabulary("", "no categories defined")
	}
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := validateCategory(name, specs[name]); err != nil {
			return nil, err
		}
	}
	return &Table{specs: specs, categories: names}, nil
}

func validateCategory(name string, spec CategorySpec) error {
	if strings.TrimSpace(name) == "" {
		return NewInvalidVocabulary(name, "category name is empty")
	}
	if len(spec.Entries) == 0 {
		return NewInvalidVocabulary(name, "category has no entries")
	}

	canonicals := map[string]struct{}{}
	for _, e := range spec.Entries {
		canonical := strings.TrimSpace(e.Canonical)
		if canonical == "" {
			return NewInvalidVocabulary(name, "entry with empty canonical")
		}
		if _, dup := canonicals[canonical]; dup {
			return NewInvalidVocabulary(name, fmt.Sprintf("duplicate canonical %q", canonical))
		}
		canonicals[canonical] = struct{}{}
	}

	// Alias-to-canonical must be a function within the category. The canonical
	// string counts as an implicit alias of itself.
	aliasOwner := map[string]string{}
	for _, e := range spec.Entries {
		forms := append([]string{e.Canonical}, e.Aliases...)
		for _, alias := range forms {
			key := Fold(alias)
			if key == "" {
				return NewInvalidVocabulary(name, fmt.Sprintf("%q has an empty alias", e.Canonical))
			}
			if owner, ok := aliasOwner[key]; ok && owner != e.Canonical {
				return NewInvalidVocabulary(name, fmt.Sprintf("alias %q maps to both %q and %q", alias, owner, e.Canonical))
			}
			aliasOwner[key] = e.Canonical
		}
		for _, p := range e.Patterns {
			if _, err := regexp.Compile("(?i:" + p + ")"); err != nil {
				return NewMalformedAliasPattern(name, p, err)
			}
		}
		if e.Parent != "" {
			if !spec.Hierarchical {
				return NewInvalidVocabulary(name, fmt.Sprintf("%q declares a parent but category is not hierarchical", e.Canonical))
			}
			if _, ok := canonicals[e.Parent]; !ok {
				return NewInvalidVocabulary(name, fmt.Sprintf("%q has unknown parent %q", e.Canonical, e.Parent))
			}
		}
	}

	for from, to := range spec.Merges {
		if _, ok := canonicals[from]; !ok {
			return NewInvalidVocabulary(name, fmt.Sprintf("merge source %q is not a canonical term", from))
		}
		if _, ok := canonicals[to]; !ok {
			return NewInvalidVocabulary(name, fmt.Sprintf("merge target %q is not a canonical term", to))
		}
		if from == to {
			return NewInvalidVocabulary(name, fmt.Sprintf("merge %q onto itself", from))
		}
		if next, chained := spec.Merges[to]; chained {
			return NewInvalidVocabulary(name, fmt.Sprintf("merge chain %q -> %q -> %q", from, to, next))
		}
	}
	return nil
}

// Load reads a vocabulary file. Files ending in .json are decoded as JSON,
// anything else as YAML.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	var file tableFile
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("decode vocabulary %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("decode vocabulary %s: %w", path, err)
		}
	}
	return NewTable(file.Categories)
}

// Categories lists category names in sorted order.
func (t *Table) Categories() []string {
	return append([]string{}, t.categories...)
}

// Lookup returns the entries for a category in declaration order.
func (t *Table) Lookup(category string) ([]Entry, error) {
	spec, ok := t.specs[category]
	if !ok {
		return nil, NewUnknownCategory(category)
	}
	return append([]Entry{}, spec.Entries...), nil
}

// Spec returns the full category spec.
func (t *Table) Spec(category string) (CategorySpec, error) {
	spec, ok := t.specs[category]
	if !ok {
		return CategorySpec{}, NewUnknownCategory(category)
	}
	return spec, nil
}

// Merge applies the category's merge rules to a canonical term.
func (t *Table) Merge(category, canonical string) string {
	spec, ok := t.specs[category]
	if !ok {
		return canonical
	}
	if to, merged := spec.Merges[canonical]; merged {
		return to
	}
	return canonical
}

// HideEmpty reports whether the category suppresses its output field when no
// terms were found.
func (t *Table) HideEmpty(category string) bool {
	return t.specs[category].HideEmpty
}

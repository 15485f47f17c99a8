package vocab

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceRecord field names the router can route to.
const (
	FieldTitle        = "title"
	FieldAbstract     = "abstract"
	FieldMethods      = "methods"
	FieldFullText     = "full_text"
	FieldAffiliations = "affiliations"
)

var knownFields = map[string]struct{}{
	FieldTitle:        {},
	FieldAbstract:     {},
	FieldMethods:      {},
	FieldFullText:     {},
	FieldAffiliations: {},
}

// RoutingRule declares the legal source fields for a category, or marks the
// category as a deprecated alias of one or more successor categories.
type RoutingRule struct {
	Fields        []string `yaml:"fields,omitempty" json:"fields,omitempty"`
	DeprecatedFor []string `yaml:"deprecated_for,omitempty" json:"deprecated_for,omitempty"`
}

type routerFile struct {
	Routes map[string]RoutingRule `yaml:"routes" json:"routes"`
}

// Router is the field-routing policy table. It is data, not heuristics: a
// category reads exactly the fields its rule names, and nothing else.
type Router struct {
	rules map[string]RoutingRule
}

// NewRouter validates the rules and builds a Router.
func NewRouter(rules map[string]RoutingRule) (*Router, error) {
	if len(rules) == 0 {
		return nil, NewInvalidRouter("", "no routes defined")
	}
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rule := rules[name]
		deprecated := len(rule.DeprecatedFor) > 0
		if deprecated && len(rule.Fields) > 0 {
			return nil, NewInvalidRouter(name, "deprecated category must not declare fields")
		}
		if !deprecated && len(rule.Fields) == 0 {
			return nil, NewInvalidRouter(name, "category has no eligible fields")
		}
		for _, f := range rule.Fields {
			if _, ok := knownFields[f]; !ok {
				return nil, NewInvalidRouter(name, fmt.Sprintf("unknown field %q", f))
			}
		}
		for _, succ := range rule.DeprecatedFor {
			target, ok := rules[succ]
			if !ok {
				return nil, NewInvalidRouter(name, fmt.Sprintf("successor %q is not routed", succ))
			}
			if len(target.DeprecatedFor) > 0 {
				return nil, NewInvalidRouter(name, fmt.Sprintf("successor %q is itself deprecated", succ))
			}
		}
	}
	return &Router{rules: rules}, nil
}

// LoadRouter reads a routing policy file (YAML, or JSON by extension).
func LoadRouter(path string) (*Router, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read router: %w", err)
	}
	var file routerFile
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("decode router %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("decode router %s: %w", path, err)
		}
	}
	return NewRouter(file.Routes)
}

// Expand resolves a category to the categories it actually denotes: itself,
// or its successors when deprecated.
func (r *Router) Expand(category string) ([]string, error) {
	rule, ok := r.rules[category]
	if !ok {
		return nil, NewUnknownCategory(category)
	}
	if len(rule.DeprecatedFor) > 0 {
		return append([]string{}, rule.DeprecatedFor...), nil
	}
	return []string{category}, nil
}

// EligibleFields returns the set of source fields the category may read.
// A deprecated category yields the union of its successors' fields.
func (r *Router) EligibleFields(category string) ([]string, error) {
	cats, err := r.Expand(category)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	var fields []string
	for _, cat := range cats {
		for _, f := range r.rules[cat].Fields {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			fields = append(fields, f)
		}
	}
	sort.Strings(fields)
	return fields, nil
}

// Deprecated reports whether the category is a deprecated alias.
func (r *Router) Deprecated(category string) bool {
	return len(r.rules[category].DeprecatedFor) > 0
}

// Categories lists routed category names in sorted order, deprecated ones
// included.
func (r *Router) Categories() []string {
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

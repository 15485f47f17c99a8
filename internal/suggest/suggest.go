// Package suggest proposes vocabulary additions for surface strings the
// tagger could not resolve. Proposals are drafts for human review; nothing
// here ever mutates a vocabulary.
package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sort"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/micropapers/papertag/internal/tagger"
)

const systemPrompt = "You are a curator of controlled vocabularies for a microscopy literature corpus. " +
	"You map raw surface strings from papers to canonical terms. Respond with strict JSON only."

const (
	ActionMapToExisting = "map_to_existing"
	ActionNewCanonical  = "new_canonical"
	ActionIgnore        = "ignore"
)

// Proposal is one reviewed-by-a-human-later vocabulary change.
type Proposal struct {
	Surface    string   `json:"surface"`
	Action     string   `json:"action"`
	Canonical  string   `json:"canonical,omitempty"`
	Aliases    []string `json:"aliases,omitempty"`
	Reason     string   `json:"reason"`
	Confidence float64  `json:"confidence"`
}

type proposalsResponse struct {
	Proposals []Proposal `json:"proposals"`
}

type failureClass int

const (
	failureTimeout failureClass = iota
	failureRateLimit
	failureServer
	failureClient
)

// LLMCaller is the transport seam; tests fake it.
type LLMCaller interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

type AnthropicCaller struct {
	messages AnthropicMessager
}

type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

func NewAnthropicCallerFromEnv() (*AnthropicCaller, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicCaller{messages: &c.Messages}, nil
}

func (a *AnthropicCaller) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.ModelClaudeSonnet4_20250514,
		MaxTokens:   4096,
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}

// Suggester turns unmatched-term aggregates into vocabulary proposals.
type Suggester struct {
	caller LLMCaller
}

func NewSuggester(caller LLMCaller) *Suggester {
	return &Suggester{caller: caller}
}

// Propose asks for mappings for up to max unmatched terms of one category.
// Transport failures retry with backoff; malformed or invalid responses get
// one corrective reprompt each, then fail.
func (s *Suggester) Propose(ctx context.Context, category string, existing []string, unmatched []tagger.UnmatchedTerm, max int) ([]Proposal, error) {
	if len(unmatched) == 0 {
		return nil, nil
	}
	if max <= 0 || max > len(unmatched) {
		max = len(unmatched)
	}
	terms := unmatched[:max]
	prompt := buildPrompt(category, existing, terms)

	var resp proposalsResponse
	feedback := ""
	for attempt := 1; attempt <= 3; attempt++ {
		full := prompt
		if feedback != "" {
			full += "\n\n" + feedback
		}
		raw, err := s.caller.GenerateJSON(ctx, full)
		if err != nil {
			class := classifyTransportError(err)
			if class == failureTimeout || class == failureRateLimit || class == failureServer {
				if attempt < 3 {
					time.Sleep(backoffDelay(attempt))
					continue
				}
			}
			return nil, fmt.Errorf("suggest transport failure: %w", err)
		}
		clean := stripCodeFences(raw)
		if err := json.Unmarshal([]byte(clean), &resp); err != nil {
			if attempt < 3 {
				feedback = "Your previous response was not valid JSON. Respond with only valid JSON."
				continue
			}
			return nil, fmt.Errorf("suggest failed json parse: %w", err)
		}
		if err := validateProposals(resp.Proposals, existing, terms); err != nil {
			if attempt < 3 {
				feedback = fmt.Sprintf("Your response failed validation: %s. Fix these issues.", err)
				continue
			}
			return nil, fmt.Errorf("suggest failed validation: %w", err)
		}
		return resp.Proposals, nil
	}
	return nil, errors.New("suggest failed after retries")
}

func buildPrompt(category string, existing []string, terms []tagger.UnmatchedTerm) string {
	var b strings.Builder
	b.WriteString("Return valid JSON only. No markdown fences, no commentary.\n\n")
	fmt.Fprintf(&b, "Controlled vocabulary category: %s\n\n", category)
	b.WriteString("Existing canonical terms:\n")
	for _, c := range existing {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	b.WriteString("\nUnmatched surface strings (with corpus occurrence counts):\n")
	for _, t := range terms {
		fmt.Fprintf(&b, "- %q (%d)\n", t.Term, t.Count)
	}
	b.WriteString(`
For EACH surface string, decide one of:
- "map_to_existing": it denotes an existing canonical term; give that term in
  "canonical" and list alias spellings to add in "aliases".
- "new_canonical": it denotes a concept missing from the vocabulary; give the
  preferred display form in "canonical" and alias spellings in "aliases".
- "ignore": it is noise (a department name, a grant number, boilerplate).

Schema:
{"proposals":[{"surface":"...","action":"map_to_existing|new_canonical|ignore","canonical":"...","aliases":["..."],"reason":"...","confidence":0.0}]}
`)
	return b.String()
}

func validateProposals(proposals []Proposal, existing []string, terms []tagger.UnmatchedTerm) error {
	if len(proposals) == 0 {
		return errors.New("no proposals returned")
	}
	known := map[string]struct{}{}
	for _, c := range existing {
		known[c] = struct{}{}
	}
	wanted := map[string]struct{}{}
	for _, t := range terms {
		wanted[t.Term] = struct{}{}
	}
	for i, p := range proposals {
		if _, ok := wanted[p.Surface]; !ok {
			return fmt.Errorf("proposal %d: surface %q was not in the request", i, p.Surface)
		}
		switch p.Action {
		case ActionMapToExisting:
			if _, ok := known[p.Canonical]; !ok {
				return fmt.Errorf("proposal %d: %q is not an existing canonical term", i, p.Canonical)
			}
		case ActionNewCanonical:
			if strings.TrimSpace(p.Canonical) == "" {
				return fmt.Errorf("proposal %d: new_canonical without a canonical", i)
			}
		case ActionIgnore:
		default:
			return fmt.Errorf("proposal %d: unknown action %q", i, p.Action)
		}
		if p.Confidence < 0 || p.Confidence > 1 {
			return fmt.Errorf("proposal %d: confidence %v out of range", i, p.Confidence)
		}
	}
	return nil
}

// RenderVocabPatch formats accepted proposals as a YAML fragment ready to
// paste into the vocabulary file after review.
func RenderVocabPatch(category string, proposals []Proposal) string {
	byCanonical := map[string][]string{}
	var order []string
	for _, p := range proposals {
		if p.Action == ActionIgnore {
			continue
		}
		if _, seen := byCanonical[p.Canonical]; !seen {
			order = append(order, p.Canonical)
		}
		aliases := p.Aliases
		if len(aliases) == 0 {
			aliases = []string{p.Surface}
		}
		byCanonical[p.Canonical] = append(byCanonical[p.Canonical], aliases...)
	}
	sort.Strings(order)

	var b strings.Builder
	fmt.Fprintf(&b, "# proposed additions for category %s — review before merging\n", category)
	for _, canonical := range order {
		fmt.Fprintf(&b, "- canonical: %q\n  aliases:\n", canonical)
		aliases := dedupe(byCanonical[canonical])
		for _, a := range aliases {
			fmt.Fprintf(&b, "    - %q\n", a)
		}
	}
	return b.String()
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		}
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

func classifyTransportError(err error) failureClass {
	msg := strings.ToLower(err.Error())
	if errors.Is(err, context.DeadlineExceeded) {
		return failureTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return failureTimeout
	}
	switch {
	case strings.Contains(msg, "429"):
		return failureRateLimit
	case strings.Contains(msg, "status code: 5") || strings.Contains(msg, "server error"):
		return failureServer
	case strings.Contains(msg, "status code: 4"):
		return failureClient
	default:
		return failureServer
	}
}

func backoffDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 1 * time.Second
	}
	return 2 * time.Second
}

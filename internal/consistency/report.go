package consistency

import (
	"fmt"
	"strings"
	"time"
)

// BuildMarkdown renders the report as the audit document the check replaces.
func BuildMarkdown(rep Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Vocabulary Consistency Report\n\n")
	fmt.Fprintf(&b, "- Date: %s\n", rep.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Stages compared: %s\n", strings.Join(rep.Stages, " → "))
	fmt.Fprintf(&b, "- Categories checked: %d\n\n", rep.Categories)

	counts := rep.Counts()
	fmt.Fprintf(&b, "## Summary\n\n")
	if len(rep.Findings) == 0 {
		fmt.Fprintf(&b, "All stage vocabularies are aligned. No findings.\n\n")
	} else {
		fmt.Fprintf(&b, "| Severity | Findings |\n|---|---|\n")
		for _, sev := range []Severity{SeverityBlocker, SeverityMinor, SeverityNone} {
			fmt.Fprintf(&b, "| %s | %d |\n", sev, counts[sev])
		}
		b.WriteString("\n")
		if rep.HasBlocker() {
			fmt.Fprintf(&b, "**Gate: FAIL** — blocker findings must be resolved before the next import run.\n\n")
		} else {
			fmt.Fprintf(&b, "Gate: pass — no blocker findings.\n\n")
		}
	}

	if len(rep.Findings) > 0 {
		fmt.Fprintf(&b, "## Findings\n\n")
		for _, f := range rep.Findings {
			fmt.Fprintf(&b, "### `%s` — %s\n\n", f.Category, kindTitle(f.Kind))
			fmt.Fprintf(&b, "- Severity: **%s**\n", f.Severity)
			fmt.Fprintf(&b, "- Stages: %s\n", strings.Join(f.Stages, ", "))
			fmt.Fprintf(&b, "- %s\n\n", f.Detail)
		}
	}
	return b.String()
}

func kindTitle(kind string) string {
	switch kind {
	case KindExtractedNotNormalized:
		return "extracted but not normalized"
	case KindNormalizedNotConsumed:
		return "normalized but not consumed"
	case KindConsumedNotProduced:
		return "consumed but never produced"
	case KindNormalizedNotExtracted:
		return "appears only at normalization"
	case KindFieldNameMismatch:
		return "field name mismatch"
	case KindTermDrift:
		return "term drift"
	default:
		return kind
	}
}

package consistency

import (
	"strings"
	"testing"
	"time"
)

func sampleReport() Report {
	return Report{
		GeneratedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		Stages:      []string{StageExtraction, StageNormalization, StageConsumption},
		Categories:  3,
		Findings: []Finding{
			{
				Category: "fluorophores",
				Kind:     KindConsumedNotProduced,
				Severity: SeverityBlocker,
				Stages:   []string{StageConsumption},
				Detail:   "importer expects this category but no upstream stage produces it",
			},
			{
				Category: "organisms",
				Kind:     KindTermDrift,
				Severity: SeverityNone,
				Stages:   []string{StageExtraction, StageNormalization},
				Detail:   "1 extraction term(s) missing from the normalization dictionary: Xenopus laevis",
			},
		},
	}
}

func TestBuildMarkdown(t *testing.T) {
	md := BuildMarkdown(sampleReport())
	for _, want := range []string{
		"# Vocabulary Consistency Report",
		"Categories checked: 3",
		"| blocker | 1 |",
		"| none | 1 |",
		"**Gate: FAIL**",
		"### `fluorophores` — consumed but never produced",
		"Severity: **blocker**",
		"Xenopus laevis",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestBuildMarkdownCleanReport(t *testing.T) {
	rep := Report{
		GeneratedAt: time.Now().UTC(),
		Stages:      []string{StageExtraction, StageNormalization, StageConsumption},
		Categories:  14,
	}
	md := BuildMarkdown(rep)
	if !strings.Contains(md, "No findings") {
		t.Fatalf("clean report must say so:\n%s", md)
	}
	if strings.Contains(md, "## Findings") {
		t.Fatal("clean report must not render a findings section")
	}
}

func TestBuildHTML(t *testing.T) {
	html, err := BuildHTML(sampleReport())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"<h1", "Vocabulary Consistency Report",
		"<table>",
		"fluorophores",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("html missing %q", want)
		}
	}
}

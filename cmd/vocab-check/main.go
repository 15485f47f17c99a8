package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/micropapers/papertag/internal/consistency"
)

func main() {
	extractionPath := flag.String("extraction", "", "Extraction-stage vocabulary file")
	normalizationPath := flag.String("normalization", "", "Normalization-stage vocabulary file")
	consumptionPath := flag.String("consumption", "", "Consumption-stage (importer) vocabulary file")
	jsonPath := flag.String("json", "", "Write the report as JSON (stdout when empty)")
	markdownPath := flag.String("markdown", "", "Optional path for a markdown rendering")
	htmlPath := flag.String("html", "", "Optional path for an HTML rendering")
	pdfPath := flag.String("pdf", "", "Optional path for a PDF rendering (requires Chromium)")
	flag.Parse()

	if *extractionPath == "" || *normalizationPath == "" || *consumptionPath == "" {
		log.Fatal("all of -extraction, -normalization, -consumption are required")
	}

	ext, err := consistency.LoadStage(*extractionPath)
	if err != nil {
		log.Fatal(err)
	}
	norm, err := consistency.LoadStage(*normalizationPath)
	if err != nil {
		log.Fatal(err)
	}
	cons, err := consistency.LoadStage(*consumptionPath)
	if err != nil {
		log.Fatal(err)
	}

	rep := consistency.Check(ext, norm, cons)

	if err := writeJSONReport(*jsonPath, rep); err != nil {
		log.Fatal(err)
	}
	if *markdownPath != "" {
		if err := os.WriteFile(*markdownPath, []byte(consistency.BuildMarkdown(rep)), 0o644); err != nil {
			log.Fatalf("write markdown: %v", err)
		}
	}
	if *htmlPath != "" {
		html, err := consistency.BuildHTML(rep)
		if err != nil {
			log.Fatalf("render html: %v", err)
		}
		if err := os.WriteFile(*htmlPath, []byte(html), 0o644); err != nil {
			log.Fatalf("write html: %v", err)
		}
	}
	if *pdfPath != "" {
		pdf, err := consistency.NewPDFRenderer().RenderPDF(context.Background(), rep)
		if err != nil {
			log.Fatalf("render pdf: %v", err)
		}
		if err := os.WriteFile(*pdfPath, pdf, 0o644); err != nil {
			log.Fatalf("write pdf: %v", err)
		}
	}

	counts := rep.Counts()
	log.Printf("checked %d categories: %d blocker, %d minor, %d informational",
		rep.Categories, counts[consistency.SeverityBlocker], counts[consistency.SeverityMinor], counts[consistency.SeverityNone])
	if rep.HasBlocker() {
		os.Exit(1)
	}
}

func writeJSONReport(path string, rep consistency.Report) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		_, err := fmt.Println(string(b))
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

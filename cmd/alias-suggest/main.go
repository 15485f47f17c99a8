package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/micropapers/papertag/internal/suggest"
	"github.com/micropapers/papertag/internal/tagger"
	"github.com/micropapers/papertag/internal/vocab"
)

func main() {
	unmatchedPath := flag.String("unmatched", "", "Unmatched-terms JSON produced by tag-pipeline")
	category := flag.String("category", vocab.CategoryInstitutions, "Vocabulary category to propose additions for")
	vocabPath := flag.String("vocab", "", "Vocabulary file; built-in vocabulary when empty")
	max := flag.Int("max", 25, "Maximum terms to submit per request")
	flag.Parse()

	if *unmatchedPath == "" {
		log.Fatal("missing required -unmatched")
	}

	table := vocab.DefaultTable()
	if *vocabPath != "" {
		var err error
		if table, err = vocab.Load(*vocabPath); err != nil {
			log.Fatal(err)
		}
	}
	entries, err := table.Lookup(*category)
	if err != nil {
		log.Fatal(err)
	}
	existing := make([]string, 0, len(entries))
	for _, e := range entries {
		existing = append(existing, e.Canonical)
	}

	raw, err := os.ReadFile(*unmatchedPath)
	if err != nil {
		log.Fatalf("read unmatched terms: %v", err)
	}
	var unmatched []tagger.UnmatchedTerm
	if err := json.Unmarshal(raw, &unmatched); err != nil {
		log.Fatalf("decode unmatched terms: %v", err)
	}
	if len(unmatched) == 0 {
		log.Println("no unmatched terms; nothing to do")
		return
	}

	caller, err := suggest.NewAnthropicCallerFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Printf("requesting proposals for %d unmatched term(s) in %s", min(*max, len(unmatched)), *category)
	proposals, err := suggest.NewSuggester(caller).Propose(ctx, *category, existing, unmatched, *max)
	if err != nil {
		log.Fatal(err)
	}

	kept := 0
	for _, p := range proposals {
		if p.Action != suggest.ActionIgnore {
			kept++
		}
	}
	log.Printf("%d proposal(s), %d actionable", len(proposals), kept)
	fmt.Print(suggest.RenderVocabPatch(*category, proposals))
}

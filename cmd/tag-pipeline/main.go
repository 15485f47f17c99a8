package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/micropapers/papertag/internal/store"
	"github.com/micropapers/papertag/internal/tagger"
	"github.com/micropapers/papertag/internal/vocab"
)

func main() {
	vocabPath := flag.String("vocab", "", "Vocabulary file (YAML or JSON); built-in vocabulary when empty")
	routerPath := flag.String("router", "", "Field-routing policy file; built-in policy when empty")
	inputPath := flag.String("input", "", "Input records, one JSON object per line (stdin when empty)")
	outputPath := flag.String("output", "", "Output tagged records, one JSON object per line (stdout when empty)")
	dbPath := flag.String("db", "", "Optional SQLite database to persist the run")
	unmatchedPath := flag.String("unmatched", "", "Optional JSON file for aggregated unmatched terms")
	workers := flag.Int("workers", 0, "Parallel workers (default: one per CPU)")
	recordTimeout := flag.Duration("record-timeout", 0, "Per-record timeout; a timed-out record is skipped, not fatal")
	flag.Parse()

	t, err := buildTagger(*vocabPath, *routerPath)
	if err != nil {
		log.Fatal(err)
	}

	records, err := readRecords(*inputPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	started := time.Now()
	log.Printf("tagging %d record(s) across %d categories", len(records), len(t.Table().Categories()))
	res, err := t.TagBatch(ctx, records, tagger.BatchOptions{
		Workers:       *workers,
		RecordTimeout: *recordTimeout,
	})
	if err != nil {
		log.Fatalf("batch aborted: %v", err)
	}
	log.Printf("tagged %d, skipped %d, %d unmatched term(s) in %s",
		len(res.Records), len(res.Skipped), len(res.Unmatched), time.Since(started).Round(time.Millisecond))

	if err := writeRecords(*outputPath, res.Records); err != nil {
		log.Fatal(err)
	}
	if *unmatchedPath != "" {
		if err := writeUnmatched(*unmatchedPath, res.Unmatched); err != nil {
			log.Fatal(err)
		}
	}
	if *dbPath != "" {
		s, err := store.Open(*dbPath)
		if err != nil {
			log.Fatal(err)
		}
		defer s.Close()
		if err := s.SaveRun(ctx, started, res); err != nil {
			log.Fatalf("persist run: %v", err)
		}
		log.Printf("run persisted to %s", *dbPath)
	}
}

func buildTagger(vocabPath, routerPath string) (*tagger.Tagger, error) {
	table := vocab.DefaultTable()
	if vocabPath != "" {
		var err error
		if table, err = vocab.Load(vocabPath); err != nil {
			return nil, err
		}
	}
	router := vocab.DefaultRouter()
	if routerPath != "" {
		var err error
		if router, err = vocab.LoadRouter(routerPath); err != nil {
			return nil, err
		}
	}
	return tagger.New(table, router)
}

func readRecords(path string) ([]tagger.SourceRecord, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	var records []tagger.SourceRecord
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec tagger.SourceRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("input line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return records, nil
}

func writeRecords(path string, records []tagger.TaggedRecord) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}

func writeUnmatched(path string, unmatched []tagger.UnmatchedTerm) error {
	b, err := json.MarshalIndent(unmatched, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

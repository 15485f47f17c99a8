package tagger

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchOptions tunes the parallel batch driver. Zero values mean: one worker
// per CPU, no per-record timeout, standard logger.
type BatchOptions struct {
	Workers       int
	RecordTimeout time.Duration
	Logger        *log.Logger
}

// BatchResult collects a run. Records are ordered by stable record key, not
// completion order, so identical inputs always serialize identically.
type BatchResult struct {
	Records   []TaggedRecord
	Skipped   []SkippedRecord
	Unmatched []UnmatchedTerm
}

// TagBatch tags records with bounded fan-out. Records are independent and the
// tagger is read-only, so workers share it without coordination. Per-record
// failures (timeout, panic) skip the record and are logged with its key; they
// never fail the batch. Only context cancellation aborts the run.
func (t *Tagger) TagBatch(ctx context.Context, records []SourceRecord, opts BatchOptions) (BatchResult, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	type slot struct {
		key     string
		tagged  TaggedRecord
		skipped *SkippedRecord
	}
	slots := make([]slot, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			key := rec.Key(i)
			tagged, err := t.tagOne(gctx, rec, opts.RecordTimeout)
			if err != nil {
				logger.Printf("skipping record %s: %v", key, err)
				slots[i] = slot{key: key, skipped: &SkippedRecord{Key: key, Reason: err.Error()}}
				return nil
			}
			slots[i] = slot{key: key, tagged: tagged}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchResult{}, err
	}

	var res BatchResult
	var keys []string
	unmatched := map[string]int{}
	for _, s := range slots {
		if s.skipped != nil {
			res.Skipped = append(res.Skipped, *s.skipped)
			continue
		}
		res.Records = append(res.Records, s.tagged)
		keys = append(keys, s.key)
		for _, line := range s.tagged.UnmatchedAffiliations {
			unmatched[line]++
		}
	}
	sort.Sort(&byKey{keys: keys, records: res.Records})
	sort.Slice(res.Skipped, func(a, b int) bool { return res.Skipped[a].Key < res.Skipped[b].Key })

	for term, count := range unmatched {
		res.Unmatched = append(res.Unmatched, UnmatchedTerm{Term: term, Count: count})
	}
	sort.Slice(res.Unmatched, func(a, b int) bool {
		if res.Unmatched[a].Count != res.Unmatched[b].Count {
			return res.Unmatched[a].Count > res.Unmatched[b].Count
		}
		return res.Unmatched[a].Term < res.Unmatched[b].Term
	})
	return res, nil
}

// tagOne runs Tag with an optional deadline and panic isolation. Tagging is
// bounded, deterministic work; the timeout exists for the surrounding driver's
// sake, and hitting it skips the record rather than failing the batch. The
// result travels over a buffered channel so a timed-out tagging goroutine is
// abandoned, never raced with.
func (t *Tagger) tagOne(ctx context.Context, rec SourceRecord, timeout time.Duration) (TaggedRecord, error) {
	if timeout <= 0 {
		return t.tagRecovering(rec)
	}

	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		tagged TaggedRecord
		err    error
	}
	done := make(chan result, 1)
	go func() {
		tagged, err := t.tagRecovering(rec)
		done <- result{tagged: tagged, err: err}
	}()

	select {
	case r := <-done:
		return r.tagged, r.err
	case <-tctx.Done():
		return TaggedRecord{}, fmt.Errorf("record timeout after %s", timeout)
	}
}

func (t *Tagger) tagRecovering(rec SourceRecord) (tagged TaggedRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while tagging: %v", r)
		}
	}()
	return t.Tag(rec), nil
}

// byKey orders tagged records by the stable key captured at submission time,
// so keyless records keep their input position.
type byKey struct {
	keys    []string
	records []TaggedRecord
}

func (b *byKey) Len() int           { return len(b.keys) }
func (b *byKey) Less(i, j int) bool { return b.keys[i] < b.keys[j] }
func (b *byKey) Swap(i, j int) {
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
	b.records[i], b.records[j] = b.records[j], b.records[i]
}

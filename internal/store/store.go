// Package store persists tagged records and unmatched terms to SQLite for the
// corpus-site importer and the vocabulary cleanup workflow.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/micropapers/papertag/internal/tagger"
)

const schema = `
CREATE TABLE IF NOT EXISTS tagged_records (
	record_key TEXT PRIMARY KEY,
	doc        TEXT NOT NULL,
	tagged_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS unmatched_terms (
	term       TEXT PRIMARY KEY,
	count      INTEGER NOT NULL DEFAULT 0,
	first_seen TEXT NOT NULL,
	last_seen  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	run_at        TEXT PRIMARY KEY,
	records       INTEGER NOT NULL,
	skipped       INTEGER NOT NULL,
	unmatched     INTEGER NOT NULL
);
`

// Store is a write-through SQLite store. A single connection with WAL keeps
// writes serialized without a busy loop.
type Store struct {
	db *sqlx.DB
}

func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists one batch result: tagged record documents are upserted by
// key, unmatched term counters are accumulated across runs.
func (s *Store) SaveRun(ctx context.Context, runAt time.Time, res tagger.BatchResult) error {
	ts := runAt.UTC().Format(time.RFC3339Nano)
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for i, rec := range res.Records {
		doc, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tagged_records (record_key, doc, tagged_at) VALUES (?, ?, ?)
			ON CONFLICT(record_key) DO UPDATE SET doc = excluded.doc, tagged_at = excluded.tagged_at`,
			rec.Record.Key(i), string(doc), ts); err != nil {
			return fmt.Errorf("upsert record: %w", err)
		}
	}
	for _, u := range res.Unmatched {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO unmatched_terms (term, count, first_seen, last_seen) VALUES (?, ?, ?, ?)
			ON CONFLICT(term) DO UPDATE SET count = count + excluded.count, last_seen = excluded.last_seen`,
			u.Term, u.Count, ts, ts); err != nil {
			return fmt.Errorf("upsert unmatched term: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (run_at, records, skipped, unmatched) VALUES (?, ?, ?, ?)`,
		ts, len(res.Records), len(res.Skipped), len(res.Unmatched)); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return tx.Commit()
}

// Record returns the stored tagged-record document for a key.
func (s *Store) Record(ctx context.Context, key string) (json.RawMessage, error) {
	var doc string
	err := s.db.GetContext(ctx, &doc, `SELECT doc FROM tagged_records WHERE record_key = ?`, key)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("record %q not found", key)
	}
	if err != nil {
		return nil, fmt.Errorf("load record: %w", err)
	}
	return json.RawMessage(doc), nil
}

// RecordCount returns the number of stored tagged records.
func (s *Store) RecordCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM tagged_records`); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// UnmatchedTerms lists accumulated unmatched terms at or above minCount,
// most frequent first.
func (s *Store) UnmatchedTerms(ctx context.Context, minCount int) ([]tagger.UnmatchedTerm, error) {
	if minCount < 1 {
		minCount = 1
	}
	var rows []struct {
		Term  string `db:"term"`
		Count int    `db:"count"`
	}
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT term, count FROM unmatched_terms
		WHERE count >= ? ORDER BY count DESC, term ASC`, minCount); err != nil {
		return nil, fmt.Errorf("load unmatched terms: %w", err)
	}
	out := make([]tagger.UnmatchedTerm, 0, len(rows))
	for _, r := range rows {
		out = append(out, tagger.UnmatchedTerm{Term: r.Term, Count: r.Count})
	}
	return out, nil
}

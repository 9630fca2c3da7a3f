// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store keeps combined pairs in a SQLite database. Each pair is stored once
// per context, and pairs come back in the order they were first ingested.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the database at dbPath and its schema.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, maxResults: 20}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS pages (
			path TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			file_mod_time TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			context TEXT NOT NULL,
			page TEXT NOT NULL REFERENCES pages(path)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_page ON entries(page)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_context ON entries(context)`,

		// The full-text index mirrors question and answer, keyed by rowid.
		`CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts4(question, answer)`,
		`CREATE TRIGGER IF NOT EXISTS entries_ai AFTER INSERT ON entries BEGIN
			INSERT INTO entries_fts(docid, question, answer) VALUES (new.rowid, new.question, new.answer);
		END`,
		`CREATE TRIGGER IF NOT EXISTS entries_ad AFTER DELETE ON entries BEGIN
			DELETE FROM entries_fts WHERE docid = old.rowid;
		END`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from an ingestion run.
type IngestSummary struct {
	Indexed    int
	Updated    int
	Skipped    int
	Duplicates int
}

// Total returns the number of pages processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped
}

// Ingest combines each jsonl file with c and stores its pairs. Files whose
// modification time matches the last run are skipped, and a changed file
// replaces the pairs it contributed before. A file that cannot be combined
// stops the run with an error.
func (s *Store) Ingest(ctx context.Context, c *Combiner, files []string, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, path := range files {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		info, err := os.Stat(path)
		if err != nil {
			return summary, fmt.Errorf("stat %s: %w", path, err)
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM pages WHERE path = ?`, path,
		).Scan(&storedModTime)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return summary, fmt.Errorf("looking up %s: %w", path, err)
		}

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", path)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		page, err := c.ReadPage(path)
		if err != nil {
			return summary, err
		}

		dups, err := s.ingestPage(ctx, page, modTime, isUpdate)
		if err != nil {
			return summary, fmt.Errorf("storing %s: %w", path, err)
		}
		summary.Duplicates += dups

		n := len(page.Entries) - dups
		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d pairs)\n", path, n)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d pairs)\n", path, n)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, duplicates: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Duplicates)
	return summary, nil
}

// ingestPage stores the pairs of one page in a transaction and returns how
// many of them were already present.
func (s *Store) ingestPage(ctx context.Context, page *Page, modTime string, isUpdate bool) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE page = ?`, page.Path); err != nil {
			return 0, fmt.Errorf("deleting old pairs: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO pages (path, title, file_mod_time) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET title=excluded.title, file_mod_time=excluded.file_mod_time`,
		page.Path, page.Title, modTime,
	)
	if err != nil {
		return 0, fmt.Errorf("upserting page: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO entries (id, question, answer, context, page) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	dups := 0
	for _, e := range page.Entries {
		res, err := stmt.ExecContext(ctx, stableID(e), e.Question, e.Answer, e.Context, page.Path)
		if err != nil {
			return 0, fmt.Errorf("inserting pair: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			dups++
		}
	}

	return dups, tx.Commit()
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dataset-engine/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "index", "dataset.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func ingest(t *testing.T, s *Store, files ...string) IngestSummary {
	t.Helper()
	summary, err := s.Ingest(context.Background(), NewCombiner(types.DatasetConfig{}), files, &strings.Builder{})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	return summary
}

const lifetimePairs = `{"question": "What is a lifetime?", "answer": "A scope for which a reference is valid."}
{"question": "Why do lifetimes exist?", "answer": "To prevent dangling references."}`

// --- schema ---

func TestNewStoreCreatesSchema(t *testing.T) {
	store := testStore(t)

	for _, table := range []string{"pages", "entries", "entries_fts"} {
		var n int
		err := store.db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE name = ?`, table).Scan(&n)
		if err != nil {
			t.Fatal(err)
		}
		if n != 1 {
			t.Errorf("table %s missing", table)
		}
	}
}

func TestNewStoreReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.db")
	for i := 0; i < 2; i++ {
		s, err := NewStore(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		s.Close()
	}
}

// --- Ingest ---

func TestIngest(t *testing.T) {
	dir := t.TempDir()
	store := testStore(t)

	summary := ingest(t, store,
		writePage(t, dir, "ch01", "Installation - The Rust Programming Language", pairs),
		writePage(t, dir, "ch10", "Lifetimes - The Rust Programming Language", lifetimePairs),
	)
	if summary.Indexed != 2 || summary.Duplicates != 0 {
		t.Errorf("summary = %+v", summary)
	}

	entries, err := store.Entries(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
	if entries[0].Context != "Rust - Installation" || entries[3].Context != "Rust - Lifetimes" {
		t.Errorf("entries are not in ingestion order: %+v", entries)
	}
}

func TestIngestDeduplicates(t *testing.T) {
	dir := t.TempDir()
	store := testStore(t)

	repeated := pairs + "\n" + strings.SplitN(pairs, "\n", 2)[0]
	summary := ingest(t, store, writePage(t, dir, "ch01", "Installation - The Rust Programming Language", repeated))
	if summary.Duplicates != 1 {
		t.Errorf("duplicates = %d, want 1", summary.Duplicates)
	}

	entries, _ := store.Entries(context.Background())
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
}

func TestIngestSkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	store := testStore(t)
	path := writePage(t, dir, "ch01", "Installation - The Rust Programming Language", pairs)

	ingest(t, store, path)
	summary := ingest(t, store, path)
	if summary.Skipped != 1 || summary.Indexed != 0 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestIngestUpdatesChanged(t *testing.T) {
	dir := t.TempDir()
	store := testStore(t)
	path := writePage(t, dir, "ch01", "Installation - The Rust Programming Language", pairs)
	ingest(t, store, path)

	writeFile(t, path, lifetimePairs)
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	summary := ingest(t, store, path)
	if summary.Updated != 1 {
		t.Errorf("summary = %+v", summary)
	}

	entries, _ := store.Entries(context.Background())
	if len(entries) != 2 || entries[0].Question != "What is a lifetime?" {
		t.Errorf("old pairs were not replaced: %+v", entries)
	}
}

func TestIngestStopsOnMissingTitle(t *testing.T) {
	dir := t.TempDir()
	store := testStore(t)

	good := writePage(t, dir, "a", "A - The Rust Programming Language", pairs)
	bad := writePage(t, dir, "b", "B", pairs)

	summary, err := store.Ingest(context.Background(), NewCombiner(types.DatasetConfig{}), []string{good, bad}, &strings.Builder{})
	if !errors.Is(err, ErrNoTitle) {
		t.Fatalf("err = %v, want ErrNoTitle", err)
	}
	if summary.Indexed != 1 {
		t.Errorf("indexed = %d, want 1", summary.Indexed)
	}
}

func TestIngestSummaryOutput(t *testing.T) {
	dir := t.TempDir()
	store := testStore(t)
	path := writePage(t, dir, "ch01", "Installation - The Rust Programming Language", pairs)

	var log strings.Builder
	if _, err := store.Ingest(context.Background(), NewCombiner(types.DatasetConfig{}), []string{path}, &log); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"indexing " + path + " (2 pairs)", "indexed: 1, updated: 0, skipped: 0, duplicates: 0"} {
		if !strings.Contains(log.String(), want) {
			t.Errorf("log %q does not contain %q", log.String(), want)
		}
	}
}

func TestIngestSummaryTotal(t *testing.T) {
	s := IngestSummary{Indexed: 2, Updated: 1, Skipped: 3, Duplicates: 5}
	if s.Total() != 6 {
		t.Errorf("Total = %d, want 6", s.Total())
	}
}

// --- Retrieve ---

func seededStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	store := testStore(t)
	ingest(t, store,
		writePage(t, dir, "ch01", "Installation - The Rust Programming Language", pairs),
		writePage(t, dir, "ch10", "Lifetimes - The Rust Programming Language", lifetimePairs),
	)
	return store
}

func TestRetrieveFullTextSearch(t *testing.T) {
	store := seededStore(t)

	results, err := store.Retrieve(context.Background(), QueryOptions{Query: "rustup"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.Context != "Rust - Installation" || len(r.ID) != 12 {
			t.Errorf("unexpected result %+v", r)
		}
	}

	results, err = store.Retrieve(context.Background(), QueryOptions{Query: "dangling"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Question != "Why do lifetimes exist?" {
		t.Errorf("results = %+v", results)
	}
}

func TestRetrieveByContext(t *testing.T) {
	store := seededStore(t)

	results, err := store.Retrieve(context.Background(), QueryOptions{Context: "Rust - Lifetimes"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || !strings.HasSuffix(results[0].Page, "ch10.jsonl") {
		t.Errorf("results = %+v", results)
	}
}

func TestRetrieveCombinedQuery(t *testing.T) {
	store := seededStore(t)

	results, err := store.Retrieve(context.Background(), QueryOptions{Query: "rust", Context: "Rust - Lifetimes"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v", results)
	}
}

func TestRetrieveRespectsMaxResults(t *testing.T) {
	store := seededStore(t)

	results, err := store.Retrieve(context.Background(), QueryOptions{Query: "rustup", MaxResults: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestRetrieveEmptyQueryError(t *testing.T) {
	store := testStore(t)
	if _, err := store.Retrieve(context.Background(), QueryOptions{}); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("err = %v, want ErrEmptyQuery", err)
	}
}

// --- Export ---

func TestExportJSONL(t *testing.T) {
	store := seededStore(t)

	var out strings.Builder
	if err := store.ExportJSONL(context.Background(), &out); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(out.String(), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	want := `{"question":"What is a lifetime?","answer":"A scope for which a reference is valid.","context":"Rust - Lifetimes"}`
	if lines[2] != want {
		t.Errorf("line 2 = %q, want %q", lines[2], want)
	}
}

func TestExportYAML(t *testing.T) {
	store := seededStore(t)

	var out strings.Builder
	if err := store.ExportYAML(context.Background(), &out); err != nil {
		t.Fatal(err)
	}

	var results []QueryResult
	if err := yaml.Unmarshal([]byte(out.String()), &results); err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	if results[0].Question != "How do I install Rust on Linux?" || results[0].ID == "" || results[0].Page == "" {
		t.Errorf("first result = %+v", results[0])
	}
}

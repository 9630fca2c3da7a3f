// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset builds a question/answer fine-tuning dataset from a
// directory of Markdown documents. A chat model turns each document into
// jsonl pairs; the pairs of every document are then combined, stamped with
// the title of the page they came from and deduplicated in a SQLite store.
package dataset

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/dataset-engine/pkg/types"
)

// skippedDoc is the single-page rendition of a book. Its content repeats
// every chapter.
const skippedDoc = "print.md"

// ChatBackend abstracts the chat-completion API so tests can supply a mock.
type ChatBackend interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Builder turns Markdown documents into jsonl question/answer pairs.
type Builder struct {
	backend    ChatBackend
	subject    string
	maxRetries int
}

// NewBuilder returns a Builder that asks backend for pairs about the
// subject named by cfg.ContextPrefix.
func NewBuilder(backend ChatBackend, cfg types.DatasetConfig) *Builder {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	subject := cfg.ContextPrefix
	if subject == "" {
		subject = DefaultContextPrefix
	}
	return &Builder{backend: backend, subject: subject, maxRetries: maxRetries}
}

// ExtractDataset sends doc to the chat model and returns the jsonl block of
// its reply.
func (b *Builder) ExtractDataset(ctx context.Context, doc string) (string, error) {
	messages, err := conversation(b.subject, doc)
	if err != nil {
		return "", err
	}
	reply, err := callWithRetry(ctx, b.backend, messages, b.maxRetries)
	if err != nil {
		return "", err
	}
	return ExtractJSONL(reply)
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// callWithRetry calls the chat backend with exponential backoff.
func callWithRetry(ctx context.Context, backend ChatBackend, messages []Message, maxRetries int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		reply, err := backend.Complete(ctx, messages)
		if err == nil {
			return reply, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// BatchSummary holds counts from a batch extraction run.
type BatchSummary struct {
	Extracted int
	Skipped   int
	Failed    int
}

// Total returns the number of documents processed.
func (s BatchSummary) Total() int {
	return s.Extracted + s.Skipped + s.Failed
}

// HasFailures reports whether any document failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// JSONLPath returns the path of the jsonl file extracted from mdPath.
func JSONLPath(mdPath string) string {
	return strings.TrimSuffix(mdPath, filepath.Ext(mdPath)) + ".jsonl"
}

// CollectDocs returns the Markdown documents beneath docsDir in lexical
// order, leaving out the single-page rendition of the book.
func CollectDocs(docsDir string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(docsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".md" || d.Name() == skippedDoc {
			return nil
		}
		docs = append(docs, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", docsDir, err)
	}
	sort.Strings(docs)
	return docs, nil
}

// ExtractAll extracts pairs from every document beneath cfg.DocsDir and
// writes them next to the document with a .jsonl extension. Documents that
// already have a .jsonl file are skipped, so an interrupted run resumes
// where it stopped.
func ExtractAll(ctx context.Context, b *Builder, cfg types.DatasetConfig, w io.Writer) (BatchSummary, error) {
	docs, err := CollectDocs(cfg.DocsDir)
	if err != nil {
		return BatchSummary{}, err
	}

	var summary BatchSummary
	for _, mdPath := range docs {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		outPath := JSONLPath(mdPath)
		name := relName(cfg.DocsDir, mdPath)

		if _, err := os.Stat(outPath); err == nil {
			fmt.Fprintf(w, "skipped %s\n", name)
			summary.Skipped++
			continue
		}

		fmt.Fprintf(w, "extracting %s\n", name)

		doc, err := os.ReadFile(mdPath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		jsonl, err := b.ExtractDataset(ctx, string(doc))
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if err := os.WriteFile(outPath, []byte(jsonl), 0o644); err != nil {
			fmt.Fprintf(w, "failed  %s: write error: %v\n", name, err)
			summary.Failed++
			continue
		}

		fmt.Fprintf(w, "extracted %s (%d pairs)\n", name, countLines(jsonl))
		summary.Extracted++
	}

	fmt.Fprintf(w, "\nextracted: %d, skipped: %d, failed: %d\n",
		summary.Extracted, summary.Skipped, summary.Failed)
	return summary, nil
}

// relName returns path relative to dir, or path itself when it is not
// beneath dir.
func relName(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// stableID generates a deterministic ID for a pair within its context.
// The ID is the first 12 hex characters of SHA-256(context + question + answer).
func stableID(e types.DatasetEntry) string {
	h := sha256.New()
	h.Write([]byte(e.Context))
	h.Write([]byte{0})
	h.Write([]byte(e.Question))
	h.Write([]byte{0})
	h.Write([]byte(e.Answer))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

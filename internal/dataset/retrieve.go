// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/dataset-engine/pkg/types"
)

// ErrEmptyQuery is returned by Retrieve when no search term or filter is given.
var ErrEmptyQuery = errors.New("query requires search text, a context or a page")

// QueryOptions holds parameters for dataset queries.
type QueryOptions struct {
	// Query is a full-text search over questions and answers.
	Query string

	// Context filters by the exact context of a pair.
	Context string

	// Page filters by the jsonl file a pair came from.
	Page string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Context == "" && q.Page == ""
}

// QueryResult is a stored pair with its ID and source page.
type QueryResult struct {
	ID                 string `json:"id" yaml:"id"`
	types.DatasetEntry `yaml:",inline"`
	Page               string `json:"page" yaml:"page"`
}

// Retrieve returns the pairs matching opts in ingestion order.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	if opts.IsEmpty() {
		return nil, ErrEmptyQuery
	}
	return s.query(ctx, opts)
}

func (s *Store) query(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(`SELECT e.id, e.question, e.answer, e.context, e.page FROM entries e`)
	if opts.Query != "" {
		qb.WriteString(` JOIN entries_fts ON entries_fts.docid = e.rowid WHERE entries_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(` WHERE 1=1`)
	}
	if opts.Context != "" {
		qb.WriteString(` AND e.context = ?`)
		args = append(args, opts.Context)
	}
	if opts.Page != "" {
		qb.WriteString(` AND e.page = ?`)
		args = append(args, opts.Page)
	}
	qb.WriteString(` ORDER BY e.rowid`)

	if opts.MaxResults >= 0 {
		maxResults := opts.MaxResults
		if maxResults == 0 {
			maxResults = s.maxResults
		}
		qb.WriteString(` LIMIT ?`)
		args = append(args, maxResults)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying dataset: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var r QueryResult
		if err := rows.Scan(&r.ID, &r.Question, &r.Answer, &r.Context, &r.Page); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

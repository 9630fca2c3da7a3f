// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"context"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dataset-engine/pkg/types"
)

// exportAll selects every pair with no limit.
var exportAll = QueryOptions{MaxResults: -1}

// Entries returns every stored pair in ingestion order.
func (s *Store) Entries(ctx context.Context) ([]types.DatasetEntry, error) {
	results, err := s.query(ctx, exportAll)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	entries := make([]types.DatasetEntry, len(results))
	for i, r := range results {
		entries[i] = r.DatasetEntry
	}
	return entries, nil
}

// ExportJSONL writes every stored pair to w in the dataset format.
func (s *Store) ExportJSONL(ctx context.Context, w io.Writer) error {
	entries, err := s.Entries(ctx)
	if err != nil {
		return err
	}
	return WriteJSONL(w, entries)
}

// ExportYAML writes every stored pair to w as a YAML list, with IDs and
// source pages.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	results, err := s.query(ctx, exportAll)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns saved HTML pages into Markdown documents, one file
// at a time or in batches, and checks that the Markdown survives a round
// trip through the transcoder.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/dataset-engine/pkg/types"
)

// Converter transforms an HTML file into Markdown text.
type Converter interface {
	// Convert reads the HTML page at htmlPath and returns the Markdown content.
	Convert(htmlPath string) (string, error)
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Unstable  int
	Skipped   int
	Failed    int
}

// Total returns the total number of pages processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Unstable + r.Skipped + r.Failed
}

// HasFailures reports whether any page failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConversionNone is a local alias for "skip" status (markdown already exists).
const ConversionNone = types.ConversionNone

// Options controls where converted files go and whether they are verified.
type Options struct {
	types.ConversionConfig

	// Verifier checks every converted document when Verify is set. Nil
	// means a Verifier with the default mirror table.
	Verifier *Verifier
}

// OutputPath returns the Markdown path for htmlPath. An empty outDir puts
// the file next to the page.
func OutputPath(htmlPath, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(htmlPath), filepath.Ext(htmlPath))
	if outDir == "" {
		outDir = filepath.Dir(htmlPath)
	}
	return filepath.Join(outDir, base+".md")
}

// ConvertFile converts a single HTML page to Markdown and writes the result
// next to it or into opts.OutputDir. If the Markdown output already exists,
// it skips conversion and returns ConversionNone. With opts.Verify set, a
// document that does not survive a round trip is still written but returns
// ConversionPartial.
func ConvertFile(c Converter, htmlPath string, opts Options, w io.Writer) types.ConversionStatus {
	mdPath := OutputPath(htmlPath, opts.OutputDir)
	base := filepath.Base(mdPath)

	if _, err := os.Stat(mdPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", base)
		return ConversionNone
	}

	if err := os.MkdirAll(filepath.Dir(mdPath), 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return types.ConversionFailed
	}

	md, err := c.Convert(htmlPath)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return types.ConversionFailed
	}

	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return types.ConversionFailed
	}

	if !opts.Verify {
		fmt.Fprintf(w, "converted: %s\n", base)
		return types.ConversionDone
	}

	v := opts.Verifier
	if v == nil {
		v = NewVerifier(nil)
	}
	result, err := v.Verify(md)
	if err != nil {
		fmt.Fprintf(w, "unstable: %s (%v)\n", base, err)
		return types.ConversionPartial
	}
	if !result.OK() {
		fmt.Fprintf(w, "unstable: %s (%s)\n", base, result.Summary())
		return types.ConversionPartial
	}

	fmt.Fprintf(w, "converted: %s\n", base)
	return types.ConversionDone
}

// ConvertBatch processes a list of HTML pages through the converter,
// printing per-file status to w and returning a summary.
func ConvertBatch(c Converter, htmlPaths []string, opts Options, w io.Writer) BatchResult {
	var result BatchResult
	for _, p := range htmlPaths {
		switch ConvertFile(c, p, opts, w) {
		case types.ConversionDone:
			result.Converted++
		case types.ConversionPartial:
			result.Unstable++
		case ConversionNone:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d unstable, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Unstable, result.Skipped, result.Failed, result.Total())
	return result
}

// CollectHTML expands paths into the HTML pages they name. A directory
// contributes every .html file beneath it, in lexical order.
func CollectHTML(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}

		var found []string
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".html") {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}

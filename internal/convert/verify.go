// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/pdiddy/dataset-engine/internal/markdown"
)

// LineOp is the kind of change a diff line carries.
type LineOp string

const (
	LineEqual  LineOp = "equal"
	LineInsert LineOp = "insert"
	LineDelete LineOp = "delete"
)

// DiffLine is one line of a text diff.
type DiffLine struct {
	Op   LineOp `json:"op" yaml:"op"`
	Text string `json:"text" yaml:"text"`
}

// VerifyResult describes what a Markdown document looks like after it has
// been rendered to HTML and converted back.
type VerifyResult struct {
	// Stable is true when a second round trip reproduces the first.
	Stable bool `json:"stable" yaml:"stable"`

	// Structural lists the links, code, images and inline markup that the
	// round trip changed. Nil means none changed.
	Structural *markdown.Report `json:"structural,omitempty" yaml:"structural,omitempty"`

	// Lines is the line diff from the input to the first round trip. It is
	// empty when the input comes back unchanged.
	Lines        []DiffLine `json:"lines,omitempty" yaml:"lines,omitempty"`
	LinesAdded   int        `json:"lines_added" yaml:"lines_added"`
	LinesDeleted int        `json:"lines_deleted" yaml:"lines_deleted"`
}

// OK reports whether the document is stable and structurally unchanged.
func (r *VerifyResult) OK() bool {
	return r.Stable && r.Structural == nil
}

// Summary is a one-line description of the result.
func (r *VerifyResult) Summary() string {
	var parts []string
	if !r.Stable {
		parts = append(parts, "not stable")
	}
	if r.Structural != nil {
		classes := make([]string, len(r.Structural.Sections))
		for i, s := range r.Structural.Sections {
			classes[i] = s.Class
		}
		parts = append(parts, "changed "+strings.Join(classes, ", "))
	}
	parts = append(parts, fmt.Sprintf("+%d -%d lines", r.LinesAdded, r.LinesDeleted))
	return strings.Join(parts, "; ")
}

// Verifier runs Markdown round trips.
type Verifier struct {
	differ *markdown.Differ
	logger *slog.Logger
}

// NewVerifier returns a Verifier that compares structure with differ, or
// with the default mirror table when differ is nil.
func NewVerifier(differ *markdown.Differ) *Verifier {
	if differ == nil {
		differ = markdown.NewDiffer()
	}
	return &Verifier{
		differ: differ,
		logger: slog.New(slog.DiscardHandler),
	}
}

// Verify renders md to HTML and back twice and compares the passes.
func (v *Verifier) Verify(md string) (*VerifyResult, error) {
	first, err := v.roundTrip(md)
	if err != nil {
		return nil, fmt.Errorf("first round trip: %w", err)
	}
	second, err := v.roundTrip(first)
	if err != nil {
		return nil, fmt.Errorf("second round trip: %w", err)
	}

	structural, err := v.differ.Compare(md, first)
	if err != nil {
		return nil, fmt.Errorf("comparing structure: %w", err)
	}

	result := &VerifyResult{
		Stable:     first == second,
		Structural: structural,
	}
	if md != first {
		result.Lines = lineDiff(md, first)
		for _, l := range result.Lines {
			switch l.Op {
			case LineInsert:
				result.LinesAdded++
			case LineDelete:
				result.LinesDeleted++
			}
		}
	}
	return result, nil
}

// roundTrip discards unknown-tag warnings. The first conversion of a page
// reports them.
func (v *Verifier) roundTrip(md string) (string, error) {
	html, err := markdown.ToHTML(md)
	if err != nil {
		return "", err
	}
	return markdown.FromHTML(html, markdown.WithLogger(v.logger))
}

// lineDiff compares a and b line by line.
func lineDiff(a, b string) []DiffLine {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var out []DiffLine
	for _, d := range diffs {
		op := LineEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = LineInsert
		case diffmatchpatch.DiffDelete:
			op = LineDelete
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out = append(out, DiffLine{Op: op, Text: strings.TrimSuffix(line, "\n")})
		}
	}
	return out
}

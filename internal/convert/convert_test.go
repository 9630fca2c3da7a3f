// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/dataset-engine/pkg/types"
)

// fakeConverter implements Converter for testing. It returns canned Markdown
// or an error, depending on configuration.
type fakeConverter struct {
	output string
	err    error
}

func (f *fakeConverter) Convert(htmlPath string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

// setupHTML creates a temporary HTML page and returns its path and the temp dir.
func setupHTML(t *testing.T) (htmlPath, tmpDir string) {
	t.Helper()
	tmpDir = t.TempDir()
	pagesDir := filepath.Join(tmpDir, "pages")
	if err := os.MkdirAll(pagesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	htmlPath = filepath.Join(pagesDir, "ch01-01-installation.html")
	if err := os.WriteFile(htmlPath, []byte("<h1>Installation</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	return htmlPath, tmpDir
}

func TestConvertFile(t *testing.T) {
	tests := []struct {
		name       string
		converter  *fakeConverter
		verify     bool
		preCreate  bool // create output MD before running
		wantStatus types.ConversionStatus
		wantLog    string
	}{
		{
			name:       "successful conversion",
			converter:  &fakeConverter{output: "\n# Installation\n"},
			wantStatus: types.ConversionDone,
			wantLog:    "converted:",
		},
		{
			name:       "skip existing markdown",
			converter:  &fakeConverter{output: "should not be called"},
			preCreate:  true,
			wantStatus: ConversionNone,
			wantLog:    "skipped:",
		},
		{
			name:       "conversion failure",
			converter:  &fakeConverter{err: errors.New("unreadable page")},
			wantStatus: types.ConversionFailed,
			wantLog:    "failed:",
		},
		{
			name:       "verified conversion",
			converter:  &fakeConverter{output: "\n# Installation\n\nSee [the book](https://doc.rust-lang.org/book/).\n"},
			verify:     true,
			wantStatus: types.ConversionDone,
			wantLog:    "converted:",
		},
		{
			name:       "verification finds a structural change",
			converter:  &fakeConverter{output: "[a][r]\n\n[r]: http://x\n"},
			verify:     true,
			wantStatus: types.ConversionPartial,
			wantLog:    "unstable:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			htmlPath, tmpDir := setupHTML(t)
			outDir := filepath.Join(tmpDir, "markdown")

			if tt.preCreate {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(filepath.Join(outDir, "ch01-01-installation.md"), []byte("existing"), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			opts := Options{ConversionConfig: types.ConversionConfig{OutputDir: outDir, Verify: tt.verify}}
			var log bytes.Buffer

			status := ConvertFile(tt.converter, htmlPath, opts, &log)

			if status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status, tt.wantStatus)
			}
			if !strings.Contains(log.String(), tt.wantLog) {
				t.Errorf("log output %q does not contain %q", log.String(), tt.wantLog)
			}
		})
	}
}

func TestConvertFile_WritesOutput(t *testing.T) {
	htmlPath, tmpDir := setupHTML(t)
	conv := &fakeConverter{output: "\n# Installation\n\nSome content.\n"}

	var log bytes.Buffer
	status := ConvertFile(conv, htmlPath, Options{}, &log)
	if status != types.ConversionDone {
		t.Fatalf("expected ConversionDone, got %q", status)
	}

	// No output dir: the file lands next to the page.
	mdPath := filepath.Join(tmpDir, "pages", "ch01-01-installation.md")
	data, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != conv.output {
		t.Errorf("output = %q, want %q", data, conv.output)
	}
}

func TestConvertBatch(t *testing.T) {
	tmpDir := t.TempDir()
	pagesDir := filepath.Join(tmpDir, "pages")
	if err := os.MkdirAll(pagesDir, 0o755); err != nil {
		t.Fatal(err)
	}

	// Create 3 pages: one will succeed, one will be pre-existing, one will fail.
	for _, name := range []string{"a.html", "b.html", "c.html"} {
		if err := os.WriteFile(filepath.Join(pagesDir, name), []byte("<p>x</p>"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	// Pre-create output for "b" to trigger skip.
	mdDir := filepath.Join(tmpDir, "markdown")
	if err := os.MkdirAll(mdDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(mdDir, "b.md"), []byte("existing"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Converter that fails for "c.html".
	conv := &selectiveConverter{
		outputs: map[string]string{
			filepath.Join(pagesDir, "a.html"): "# Page A",
			filepath.Join(pagesDir, "b.html"): "# Page B",
		},
		errors: map[string]error{
			filepath.Join(pagesDir, "c.html"): errors.New("bad page"),
		},
	}

	paths := []string{
		filepath.Join(pagesDir, "a.html"),
		filepath.Join(pagesDir, "b.html"),
		filepath.Join(pagesDir, "c.html"),
	}

	var log bytes.Buffer
	opts := Options{ConversionConfig: types.ConversionConfig{OutputDir: mdDir}}
	result := ConvertBatch(conv, paths, opts, &log)

	if result.Converted != 1 {
		t.Errorf("converted = %d, want 1", result.Converted)
	}
	if result.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", result.Skipped)
	}
	if result.Failed != 1 {
		t.Errorf("failed = %d, want 1", result.Failed)
	}
	if !result.HasFailures() {
		t.Error("HasFailures should be true")
	}
	if result.Total() != 3 {
		t.Errorf("total = %d, want 3", result.Total())
	}

	output := log.String()
	if !strings.Contains(output, "Batch summary:") {
		t.Error("batch output should contain summary line")
	}
}

func TestCollectHTML(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"b.html", "a.html", "notes.txt", filepath.Join("sub", "c.HTML")} {
		path := filepath.Join(tmpDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("<p>x</p>"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	single := filepath.Join(tmpDir, "notes.txt")

	got, err := CollectHTML([]string{tmpDir, single})
	if err != nil {
		t.Fatalf("CollectHTML: %v", err)
	}
	want := []string{
		filepath.Join(tmpDir, "a.html"),
		filepath.Join(tmpDir, "b.html"),
		filepath.Join(tmpDir, "sub", "c.HTML"),
		single,
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("CollectHTML = %v, want %v", got, want)
	}

	if _, err := CollectHTML([]string{filepath.Join(tmpDir, "missing")}); err == nil {
		t.Error("expected error for a missing path")
	}
}

func TestOutputPath(t *testing.T) {
	if got := OutputPath("/docs/ch01.html", ""); got != filepath.Join("/docs", "ch01.md") {
		t.Errorf("OutputPath without dir = %q", got)
	}
	if got := OutputPath("/docs/ch01.html", "/out"); got != filepath.Join("/out", "ch01.md") {
		t.Errorf("OutputPath with dir = %q", got)
	}
}

// selectiveConverter returns different results per file path.
type selectiveConverter struct {
	outputs map[string]string
	errors  map[string]error
}

func (s *selectiveConverter) Convert(htmlPath string) (string, error) {
	if err, ok := s.errors[htmlPath]; ok {
		return "", err
	}
	if out, ok := s.outputs[htmlPath]; ok {
		return out, nil
	}
	return "", errors.New("unexpected path: " + htmlPath)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/dataset-engine/pkg/types"
)

// ErrNoTitle is returned when the page a jsonl file was extracted from has
// no title line.
var ErrNoTitle = errors.New("no title found in the corresponding html page")

// Defaults used when the configuration leaves them empty.
const (
	DefaultTitleSuffix   = "The Rust Programming Language"
	DefaultContextPrefix = "Rust"
	DefaultDatasetFile   = "dataset.jsonl"
)

// Page is the set of pairs extracted from one document, with the title of
// the page it was converted from.
type Page struct {
	Path    string
	Title   string
	Entries []types.DatasetEntry
}

// Combiner reads extracted jsonl files and stamps each pair with the title
// of its page.
type Combiner struct {
	title  *regexp.Regexp
	prefix string
}

// NewCombiner builds a Combiner for pages whose title reads
// "<page> - <cfg.TitleSuffix>".
func NewCombiner(cfg types.DatasetConfig) *Combiner {
	suffix := cfg.TitleSuffix
	if suffix == "" {
		suffix = DefaultTitleSuffix
	}
	prefix := cfg.ContextPrefix
	if prefix == "" {
		prefix = DefaultContextPrefix
	}
	return &Combiner{
		title:  regexp.MustCompile(`(?m)^[ \t]*<title>(.*) - ` + regexp.QuoteMeta(suffix) + `</title>[ \t\r]*$`),
		prefix: prefix,
	}
}

// HTMLPath returns the page a jsonl file was extracted from.
func HTMLPath(jsonlPath string) string {
	return strings.TrimSuffix(jsonlPath, filepath.Ext(jsonlPath)) + ".html"
}

// Title returns the page title found in html.
func (c *Combiner) Title(html string) (string, error) {
	m := c.title.FindStringSubmatch(html)
	if m == nil {
		return "", ErrNoTitle
	}
	return m[1], nil
}

// ReadPage reads the pairs of one jsonl file and sets their context to
// "<prefix> - <title>".
func (c *Combiner) ReadPage(jsonlPath string) (*Page, error) {
	f, err := os.Open(jsonlPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", jsonlPath, err)
	}
	defer f.Close()

	entries, err := ParseEntries(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", jsonlPath, err)
	}

	htmlPath := HTMLPath(jsonlPath)
	html, err := os.ReadFile(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", htmlPath, err)
	}
	title, err := c.Title(string(html))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", htmlPath, err)
	}

	context := c.prefix + " - " + title
	for i := range entries {
		entries[i].Context = context
	}
	return &Page{Path: jsonlPath, Title: title, Entries: entries}, nil
}

// CombineDataset reads every file in order and returns all of their pairs.
// The first file that cannot be read or has no page title stops the run.
func (c *Combiner) CombineDataset(files []string, w io.Writer) ([]types.DatasetEntry, error) {
	var all []types.DatasetEntry
	for _, path := range files {
		fmt.Fprintf(w, "reading %s\n", path)
		page, err := c.ReadPage(path)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Entries...)
	}
	return all, nil
}

// CollectJSONL returns the extracted jsonl files beneath docsDir in lexical
// order. The combined dataset file itself is left out.
func CollectJSONL(docsDir, datasetFile string) ([]string, error) {
	if datasetFile == "" {
		datasetFile = DefaultDatasetFile
	}
	var files []string
	err := filepath.WalkDir(docsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".jsonl" || d.Name() == datasetFile {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", docsDir, err)
	}
	sort.Strings(files)
	return files, nil
}

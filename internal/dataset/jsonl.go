// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pdiddy/dataset-engine/pkg/types"
)

// ErrNoJSONL is returned when a model response holds no fenced jsonl block.
var ErrNoJSONL = errors.New("no jsonl block in response")

// jsonlBlock matches a response that ends with a fenced jsonl (or json) block.
var jsonlBlock = regexp.MustCompile("(?s)^```jsonl?\n(.*)\n```\n*$")

// ExtractJSONL returns the body of the fenced jsonl block that makes up the
// model response. Surrounding whitespace is ignored.
func ExtractJSONL(response string) (string, error) {
	m := jsonlBlock.FindStringSubmatch(strings.TrimSpace(response))
	if m == nil {
		return "", fmt.Errorf("extracting dataset: %w", ErrNoJSONL)
	}
	return m[1], nil
}

// ParseEntries decodes one DatasetEntry per non-empty line.
func ParseEntries(r io.Reader) ([]types.DatasetEntry, error) {
	var entries []types.DatasetEntry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		var e types.DatasetEntry
		if err := json.Unmarshal([]byte(text), &e); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// WriteJSONL writes entries one per line, separated by newlines and with no
// trailing newline. HTML characters such as the angle brackets of generic
// types are written as is.
func WriteJSONL(w io.Writer, entries []types.DatasetEntry) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for i, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("marshaling entry %d: %w", i, err)
		}
	}
	_, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return err
}

// countLines returns the number of non-empty lines in s.
func countLines(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			n++
		}
	}
	return n
}

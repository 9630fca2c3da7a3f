// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pdiddy/dataset-engine/internal/markdown"
)

// HTMLConverter converts saved pages with the Markdown transcoder. Tags
// without a Markdown form are reported to its logger.
type HTMLConverter struct {
	logger *slog.Logger
}

// NewHTMLConverter creates a converter that logs to logger, or to
// slog.Default() when logger is nil.
func NewHTMLConverter(logger *slog.Logger) *HTMLConverter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTMLConverter{logger: logger}
}

// Convert reads the page at htmlPath and returns its Markdown form.
func (h *HTMLConverter) Convert(htmlPath string) (string, error) {
	data, err := os.ReadFile(htmlPath)
	if err != nil {
		return "", fmt.Errorf("reading HTML %s: %w", htmlPath, err)
	}

	md, err := markdown.FromHTML(string(data), markdown.WithLogger(h.logger.With("file", htmlPath)))
	if err != nil {
		return "", fmt.Errorf("converting %s: %w", htmlPath, err)
	}

	if strings.TrimSpace(md) == "" {
		return "", fmt.Errorf("conversion produced empty output for %s", htmlPath)
	}

	return md, nil
}

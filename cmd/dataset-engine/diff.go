// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dataset-engine/internal/markdown"
)

var diffCmd = &cobra.Command{
	Use:   "diff <left.md> <right.md>",
	Short: "Compare the links, code and inline markup of two Markdown documents",
	Long: `Diff compares two Markdown documents, typically an original and its
translation, by their structural elements: code spans, emphasis, inline
HTML, images, links and link reference definitions. Prose is ignored.

Exit status is 0 when the documents match, 1 when they differ.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	docs := make([]string, 2)
	for i, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		docs[i] = string(data)
	}

	differ := markdown.NewDiffer(markdown.WithMirrors(transcodeConfig().Mirrors))
	report, err := differ.Compare(docs[0], docs[1])
	if err != nil {
		return err
	}

	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		if err := enc.Encode(report); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	} else if report != nil {
		printReport(cmd.OutOrStdout(), report)
	}

	if report != nil {
		return exitError{code: 1}
	}
	return nil
}

var (
	classColor = color.New(color.Bold)
	leftColor  = color.New(color.FgRed)
	rightColor = color.New(color.FgGreen)
)

// printReport writes the report with the left side in red and the right
// side in green.
func printReport(w io.Writer, report *markdown.Report) {
	for _, line := range strings.Split(report.String(), "\n") {
		switch {
		case strings.HasPrefix(line, "["):
			classColor.Fprintln(w, line)
		case strings.HasPrefix(line, "L"):
			leftColor.Fprintln(w, line)
		case strings.HasPrefix(line, "R"):
			rightColor.Fprintln(w, line)
		default:
			fmt.Fprintln(w, line)
		}
	}
}

func init() {
	diffCmd.Flags().Bool("yaml", false, "print the differences as YAML")
	rootCmd.AddCommand(diffCmd)
}

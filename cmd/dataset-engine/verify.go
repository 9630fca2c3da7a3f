// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dataset-engine/internal/convert"
	"github.com/pdiddy/dataset-engine/internal/markdown"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <file.md>...",
	Short: "Check that Markdown files survive a round trip through HTML",
	Long: `Verify renders each Markdown file to HTML, converts it back and
compares the result with the input. A file passes when a second round trip
reproduces the first and no link, code span, image or inline markup was
lost. Use --diff to see the changed lines.

Exit status is 1 when any file fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

// verifyReport is one file's result in the --yaml output.
type verifyReport struct {
	File   string                `yaml:"file"`
	Result *convert.VerifyResult `yaml:"result"`
}

func runVerify(cmd *cobra.Command, args []string) error {
	asYAML, _ := cmd.Flags().GetBool("yaml")
	showDiff, _ := cmd.Flags().GetBool("diff")
	w := cmd.OutOrStdout()

	v := convert.NewVerifier(markdown.NewDiffer(markdown.WithMirrors(transcodeConfig().Mirrors)))

	var reports []verifyReport
	failed := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		result, err := v.Verify(string(data))
		if err != nil {
			return fmt.Errorf("verifying %s: %w", path, err)
		}
		if !result.OK() {
			failed++
		}

		if asYAML {
			reports = append(reports, verifyReport{File: path, Result: result})
			continue
		}
		printVerify(w, path, result, showDiff)
	}

	if asYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	}

	if failed > 0 {
		return exitError{code: 1}
	}
	return nil
}

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed, color.Bold)
)

func printVerify(w io.Writer, path string, result *convert.VerifyResult, showDiff bool) {
	if result.OK() {
		okColor.Fprint(w, "ok      ")
	} else {
		failColor.Fprint(w, "FAIL    ")
	}
	fmt.Fprintf(w, "%s (%s)\n", path, result.Summary())

	if result.Structural != nil {
		printReport(w, result.Structural)
	}
	if !showDiff {
		return
	}
	for _, l := range result.Lines {
		switch l.Op {
		case convert.LineInsert:
			rightColor.Fprintf(w, "+%s\n", l.Text)
		case convert.LineDelete:
			leftColor.Fprintf(w, "-%s\n", l.Text)
		default:
			fmt.Fprintf(w, " %s\n", l.Text)
		}
	}
}

func init() {
	verifyCmd.Flags().Bool("yaml", false, "print results as YAML")
	verifyCmd.Flags().Bool("diff", false, "print the line diff of each changed file")
	rootCmd.AddCommand(verifyCmd)
}

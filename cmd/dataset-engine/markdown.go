// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-engine/internal/markdown"
)

var markdownCmd = &cobra.Command{
	Use:   "markdown [file.html]",
	Short: "Convert an HTML fragment to Markdown",
	Long: `Markdown converts an HTML fragment to Markdown. Elements with no
Markdown form are kept as markup and reported as warnings on stderr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		html, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		out, err := markdown.FromHTML(html, markdown.WithLogger(slog.Default()))
		if err != nil {
			return err
		}
		return writeOutput(cmd, out)
	},
}

func init() {
	rootCmd.AddCommand(markdownCmd)
}

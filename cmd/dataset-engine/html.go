// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-engine/internal/markdown"
)

var htmlCmd = &cobra.Command{
	Use:   "html [file.md]",
	Short: "Render Markdown to HTML",
	Long: `Html parses a Markdown document and prints its HTML rendering. Raw
HTML blocks, including custom components such as <app-example>, are passed
through unchanged.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		out, err := markdown.ToHTML(md)
		if err != nil {
			return err
		}
		return writeOutput(cmd, out)
	},
}

func init() {
	rootCmd.AddCommand(htmlCmd)
}

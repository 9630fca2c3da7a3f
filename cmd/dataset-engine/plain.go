// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-engine/internal/markdown"
)

var plainCmd = &cobra.Command{
	Use:   "plain [file.md]",
	Short: "Print the text of a Markdown document without markup",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		out, err := markdown.ToPlainText(md)
		if err != nil {
			return err
		}
		return writeOutput(cmd, out)
	},
}

func init() {
	rootCmd.AddCommand(plainCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/dataset-engine/internal/convert"
	"github.com/pdiddy/dataset-engine/internal/markdown"
)

var convertCmd = &cobra.Command{
	Use:   "convert <page.html|dir>...",
	Short: "Convert saved HTML pages to Markdown files",
	Long: `Convert transforms saved HTML pages into Markdown, one .md file per
page. Directories are searched for .html files. Pages whose Markdown file
already exists are skipped, so an interrupted run can be resumed.

With --verify every converted file is rendered back to HTML and converted
again; files that change on the way are reported as unstable.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := convert.CollectHTML(args)
		if err != nil {
			return err
		}

		differ := markdown.NewDiffer(markdown.WithMirrors(transcodeConfig().Mirrors))
		opts := convert.Options{
			ConversionConfig: conversionConfig(),
			Verifier:         convert.NewVerifier(differ),
		}

		result := convert.ConvertBatch(convert.NewHTMLConverter(slog.Default()), paths, opts, cmd.OutOrStdout())
		if result.HasFailures() {
			return fmt.Errorf("%d page(s) failed conversion", result.Failed)
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().StringP("output-dir", "o", "", "directory for the .md files (default: next to each page)")
	convertCmd.Flags().Bool("verify", false, "check that each converted file survives a round trip")

	viper.BindPFlag("convert.output_dir", convertCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("convert.verify", convertCmd.Flags().Lookup("verify"))

	rootCmd.AddCommand(convertCmd)
}

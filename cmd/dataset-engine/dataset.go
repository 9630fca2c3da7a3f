// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/dataset-engine/internal/dataset"
	"github.com/pdiddy/dataset-engine/internal/secrets"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Build a question/answer dataset from converted documents",
	Long: `Dataset turns a directory of Markdown documents into a fine-tuning
dataset. extract asks the chat model for question/answer pairs per
document; combine stamps each pair with the title of its page and writes
them all to one jsonl file.`,
}

// --- extract subcommand ---

var datasetExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Generate question/answer pairs for every document",
	Long: `Extract sends each Markdown document under the docs directory to the
Claude API and writes the returned pairs next to it as <doc>.jsonl.
Documents that already have a .jsonl file are skipped, and print.md is
never sent.`,
	RunE: runDatasetExtract,
}

func runDatasetExtract(cmd *cobra.Command, args []string) error {
	cfg := datasetConfig()
	if cfg.APIKey == "" {
		return fmt.Errorf("no API key: put it in %s or set DATASET_ENGINE_DATASET_API_KEY",
			filepath.Join(viper.GetString("secrets_dir"), secrets.AnthropicAPIKey))
	}

	backend := &dataset.ClaudeBackend{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		UserAgent: cfg.UserAgent,
		Client:    &http.Client{Timeout: cfg.Timeout},
	}
	b := dataset.NewBuilder(backend, cfg)

	summary, err := dataset.ExtractAll(cmd.Context(), b, cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d document(s) failed extraction", summary.Failed)
	}
	return nil
}

// --- combine subcommand ---

var datasetCombineCmd = &cobra.Command{
	Use:   "combine",
	Short: "Combine the extracted pairs into one dataset file",
	Long: `Combine reads every .jsonl file under the docs directory, sets the
context of each pair to "<prefix> - <page title>" using the title of the
sibling .html page, and writes the dataset file into the docs directory.
A page without the expected title stops the run.

With --db the pairs are first stored in a SQLite database, which drops
duplicate pairs and skips files that have not changed since the last run.`,
	RunE: runDatasetCombine,
}

func runDatasetCombine(cmd *cobra.Command, args []string) error {
	cfg := datasetConfig()
	files, err := dataset.CollectJSONL(cfg.DocsDir, cfg.DatasetFile)
	if err != nil {
		return err
	}
	c := dataset.NewCombiner(cfg)
	w := cmd.OutOrStdout()
	outPath := filepath.Join(cfg.DocsDir, cfg.DatasetFile)

	if cfg.DBPath == "" {
		entries, err := c.CombineDataset(files, w)
		if err != nil {
			return err
		}
		if err := writeDataset(outPath, func(f *os.File) error {
			return dataset.WriteJSONL(f, entries)
		}); err != nil {
			return err
		}
		fmt.Fprintf(w, "wrote %d pairs to %s\n", len(entries), outPath)
		return nil
	}

	store, err := dataset.NewStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := store.Ingest(cmd.Context(), c, files, w); err != nil {
		return err
	}
	if err := writeDataset(outPath, func(f *os.File) error {
		return store.ExportJSONL(cmd.Context(), f)
	}); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %s\n", outPath)
	return nil
}

// writeDataset creates the dataset file at path and fills it with write.
func writeDataset(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dataset file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing dataset: %w", err)
	}
	return f.Close()
}

// --- search subcommand ---

var datasetSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the stored pairs",
	Long: `Search runs a full-text query over the questions and answers stored
by combine --db, optionally restricted to one context.`,
	RunE: runDatasetSearch,
}

func runDatasetSearch(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	contextFilter, _ := cmd.Flags().GetString("context")
	limit, _ := cmd.Flags().GetInt("limit")
	opts := dataset.QueryOptions{
		Query:      strings.Join(args, " "),
		Context:    contextFilter,
		MaxResults: limit,
	}
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query or --context")
	}

	results, err := store.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(cmd, results, jsonOutput)
}

func formatSearchOutput(cmd *cobra.Command, results []dataset.QueryResult, jsonOutput bool) error {
	w := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	for i, r := range results {
		classColor.Fprintf(w, "%d. %s", i+1, r.Question)
		fmt.Fprintf(w, "  [%s %s]\n", r.ID, r.Context)
		fmt.Fprintf(w, "   %s\n", r.Answer)
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var datasetExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the stored pairs to stdout as jsonl or YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "jsonl", "":
			if err := store.ExportJSONL(cmd.Context(), cmd.OutOrStdout()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		case "yaml":
			return store.ExportYAML(cmd.Context(), cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported format %q: use jsonl or yaml", format)
		}
	},
}

// openStore opens the configured database, which must already exist.
func openStore() (*dataset.Store, error) {
	cfg := datasetConfig()
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("no database: pass --db or set dataset.db_path")
	}
	if _, err := os.Stat(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return dataset.NewStore(cfg.DBPath)
}

// datasetFlags lists the persistent dataset flags and their config keys.
var datasetFlags = []struct {
	name, key, usage string
}{
	{"docs-dir", "dataset.docs_dir", "directory of Markdown documents and their .html pages"},
	{"db", "dataset.db_path", "SQLite database for deduplicated pairs"},
	{"model", "dataset.model", "Claude model identifier"},
	{"title-suffix", "dataset.title_suffix", "text after \" - \" in each page title"},
	{"context-prefix", "dataset.context_prefix", "subject prepended to each pair's context"},
}

func init() {
	for _, f := range datasetFlags {
		datasetCmd.PersistentFlags().String(f.name, "", f.usage)
		viper.BindPFlag(f.key, datasetCmd.PersistentFlags().Lookup(f.name))
	}

	datasetSearchCmd.Flags().String("context", "", "only pairs with this context (e.g. \"Rust - Installation\")")
	datasetSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	datasetSearchCmd.Flags().Bool("json", false, "output results as JSON")

	datasetExportCmd.Flags().String("format", "jsonl", "export format: jsonl or yaml")

	datasetCmd.AddCommand(datasetExtractCmd)
	datasetCmd.AddCommand(datasetCombineCmd)
	datasetCmd.AddCommand(datasetSearchCmd)
	datasetCmd.AddCommand(datasetExportCmd)

	rootCmd.AddCommand(datasetCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dataset-engine/internal/dataset"
	"github.com/pdiddy/dataset-engine/internal/secrets"
	"github.com/pdiddy/dataset-engine/pkg/types"
)

// setDefaults registers the configuration defaults with viper.
func setDefaults() {
	viper.SetDefault("dataset.docs_dir", "docs")
	viper.SetDefault("dataset.model", "claude-sonnet-4-5")
	viper.SetDefault("dataset.max_retries", 3)
	viper.SetDefault("dataset.timeout", 5*time.Minute)
	viper.SetDefault("dataset.user_agent", "dataset-engine/"+version)
	viper.SetDefault("dataset.title_suffix", dataset.DefaultTitleSuffix)
	viper.SetDefault("dataset.context_prefix", dataset.DefaultContextPrefix)
	viper.SetDefault("dataset.dataset_file", dataset.DefaultDatasetFile)
}

func transcodeConfig() types.TranscodeConfig {
	return types.TranscodeConfig{
		Mirrors: viper.GetStringMapString("transcode.mirrors"),
	}
}

func conversionConfig() types.ConversionConfig {
	return types.ConversionConfig{
		OutputDir: viper.GetString("convert.output_dir"),
		Verify:    viper.GetBool("convert.verify"),
	}
}

func datasetConfig() types.DatasetConfig {
	return types.DatasetConfig{
		AIConfig: types.AIConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("dataset.timeout"),
				UserAgent: viper.GetString("dataset.user_agent"),
			},
			Model:      viper.GetString("dataset.model"),
			APIKey:     loadedSecrets.Get(secrets.AnthropicAPIKey, viper.GetString("dataset.api_key")),
			MaxRetries: viper.GetInt("dataset.max_retries"),
		},
		DocsDir:       viper.GetString("dataset.docs_dir"),
		TitleSuffix:   viper.GetString("dataset.title_suffix"),
		ContextPrefix: viper.GetString("dataset.context_prefix"),
		DatasetFile:   viper.GetString("dataset.dataset_file"),
		DBPath:        viper.GetString("dataset.db_path"),
	}
}

// effectiveConfig is the configuration after defaults, the config file,
// environment variables and flags have been applied.
type effectiveConfig struct {
	Transcode types.TranscodeConfig  `yaml:"transcode"`
	Convert   types.ConversionConfig `yaml:"convert"`
	Dataset   types.DatasetConfig    `yaml:"dataset"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config prints the configuration the other commands would use, after
defaults, the config file, DATASET_ENGINE_* environment variables and
flags are applied. The API key is never printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := effectiveConfig{
			Transcode: transcodeConfig(),
			Convert:   conversionConfig(),
			Dataset:   datasetConfig(),
		}
		if cfg.Dataset.APIKey != "" {
			cfg.Dataset.APIKey = "<redacted>"
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

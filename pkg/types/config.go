// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the configuration and record types shared by the
// CLI and the internal packages.
package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "dataset-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call a chat-completion API.
type AIConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the AI model identifier.
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// TranscodeConfig holds settings shared by the Markdown/HTML transcoder
// commands.
type TranscodeConfig struct {
	// Mirrors maps mirrored hostnames to the host they are compared as
	// during structural diffing (e.g. "angular.io" -> "angular.cn").
	// Entries are added to the built-in table.
	Mirrors map[string]string `json:"mirrors,omitempty" yaml:"mirrors,omitempty"`
}

// ConversionConfig holds settings for the batch HTML-to-Markdown stage.
type ConversionConfig struct {
	// OutputDir receives one .md file per converted .html file. Empty means
	// next to the source file.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Verify runs a Markdown round trip on every converted file and reports
	// files whose output is not stable.
	Verify bool `json:"verify" yaml:"verify"`
}

// DatasetConfig holds settings for the question/answer dataset stage.
type DatasetConfig struct {
	AIConfig `yaml:",inline"`

	// DocsDir is the directory holding the Markdown documents and, next to
	// each one, the .html page it was converted from.
	DocsDir string `json:"docs_dir" yaml:"docs_dir"`

	// TitleSuffix is stripped from the HTML <title> when building the
	// context of each entry (e.g. "The Rust Programming Language").
	TitleSuffix string `json:"title_suffix" yaml:"title_suffix"`

	// ContextPrefix is prepended to the page title in each entry's context
	// (e.g. "Rust").
	ContextPrefix string `json:"context_prefix" yaml:"context_prefix"`

	// DatasetFile is the name of the combined output file inside DocsDir.
	DatasetFile string `json:"dataset_file" yaml:"dataset_file"`

	// DBPath is the SQLite database used to deduplicate combined entries.
	DBPath string `json:"db_path" yaml:"db_path"`
}

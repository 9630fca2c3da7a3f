// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConversionStatus indicates the outcome of converting one HTML page to Markdown.
type ConversionStatus string

const (
	ConversionNone    ConversionStatus = "none"
	ConversionDone    ConversionStatus = "converted"
	ConversionPartial ConversionStatus = "partial"
	ConversionFailed  ConversionStatus = "failed"
)

// DatasetEntry is one question/answer pair of the fine-tuning dataset.
type DatasetEntry struct {
	// Question is the question generated from the document.
	Question string `json:"question" yaml:"question"`

	// Answer is the answer, drawn only from the document.
	Answer string `json:"answer" yaml:"answer"`

	// Context names the document the pair came from (e.g.
	// "Rust - Installation"). It is empty until the entry is combined.
	Context string `json:"context,omitempty" yaml:"context,omitempty"`
}

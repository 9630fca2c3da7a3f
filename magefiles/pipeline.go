//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Dataset groups the targets that run the dataset pipeline over docs/.
type Dataset mg.Namespace

// docsDir is where the saved pages, converted documents and extracted
// pairs live.
const docsDir = "docs"

// Convert turns the saved HTML pages in docs/ into Markdown next to them.
func (Dataset) Convert() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "convert", "--verify", docsDir)
}

// Extract asks the chat model for question/answer pairs per document.
func (Dataset) Extract() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "dataset", "extract", "--docs-dir", docsDir)
}

// Combine writes docs/dataset.jsonl from the extracted pairs.
func (Dataset) Combine() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "dataset", "combine", "--docs-dir", docsDir)
}

// All runs conversion, extraction and combination in order.
func (d Dataset) All() {
	mg.SerialDeps(d.Convert, d.Extract, d.Combine)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markdown transcodes between Markdown and HTML and compares two
// Markdown documents structurally.
//
// The forward path parses Markdown with goldmark, using a raw block parser
// that understands the custom component tags, and renders HTML. The reverse
// path walks an HTML DOM and writes Markdown back. StructuralDiff reports
// differences in links, images, code and inline HTML between two documents,
// which is how translated documents are checked against their source.
package markdown

import (
	"fmt"
	"reflect"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Document is a parsed Markdown document. Node segments point into Source.
type Document struct {
	// Root is the ast.Document node.
	Root ast.Node

	// Source is the Markdown the tree was parsed from.
	Source []byte

	// References holds the link reference definitions. goldmark keeps them
	// in the parser context instead of the tree.
	References []parser.Reference
}

// ParseError reports that the underlying grammar could not produce a tree.
type ParseError struct {
	Cause any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing markdown: %v", e.Cause)
}

// engine is the shared goldmark instance. Block and inline parsers are
// stateless, so it is safe for concurrent use.
var engine = goldmark.New(
	goldmark.WithParser(newParser()),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// newParser builds a parser with the default block parsers minus indented
// code blocks and goldmark's HTML blocks, plus the raw block parser. Lines
// indented by four or more columns become paragraphs.
func newParser() parser.Parser {
	return parser.NewParser(
		parser.WithBlockParsers(blockParsers()...),
		parser.WithInlineParsers(parser.DefaultInlineParsers()...),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	)
}

func blockParsers() []util.PrioritizedValue {
	disabled := []reflect.Type{
		reflect.TypeOf(parser.NewCodeBlockParser()),
		reflect.TypeOf(parser.NewHTMLBlockParser()),
	}

	var enabled []util.PrioritizedValue
	for _, v := range parser.DefaultBlockParsers() {
		if containsType(disabled, reflect.TypeOf(v.Value)) {
			continue
		}
		enabled = append(enabled, v)
	}
	return append(enabled,
		util.Prioritized(NewRawBlockParser(), rawBlockPriority),
		util.Prioritized(indentedParagraphParser{parser.NewParagraphParser()}, paragraphPriority),
	)
}

const paragraphPriority = 1000

// indentedParagraphParser opens a paragraph on a deeply indented line. No
// other enabled parser accepts one, and goldmark stops reading the document
// at a line that opens no block.
type indentedParagraphParser struct {
	parser.BlockParser
}

func (b indentedParagraphParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	if pc.BlockIndent() < 4 {
		return nil, parser.NoChildren
	}
	return b.BlockParser.Open(parent, reader, pc)
}

func (b indentedParagraphParser) CanAcceptIndentedLine() bool {
	return true
}

func containsType(types []reflect.Type, t reflect.Type) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

// Parse parses markdown into a Document.
func Parse(markdown string) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, &ParseError{Cause: r}
		}
	}()

	source := []byte(markdown)
	ctx := parser.NewContext()
	root := engine.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))
	return &Document{
		Root:       root,
		Source:     source,
		References: ctx.References(),
	}, nil
}

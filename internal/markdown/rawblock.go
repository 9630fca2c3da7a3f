// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"regexp"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// rawBlockPriority is the slot goldmark gives its own HTML block parser.
const rawBlockPriority = 900

// componentTags are the custom component tags whose bodies hold example
// markup that must survive transcoding untouched.
var componentTags = []string{"code-example", "live-example"}

// Fragments of the CommonMark open/close tag grammar, used by tier 7.
const (
	reTagName   = `[A-Za-z][A-Za-z0-9-]*`
	reAttrName  = `[a-zA-Z_:][a-zA-Z0-9:._-]*`
	reAttrValue = `(?:[^"'=<>` + "`" + `\x00-\x20]+|'[^']*'|"[^"]*")`
	reAttribute = `(?:\s+` + reAttrName + `(?:\s*=\s*` + reAttrValue + `)?)`
	reOpenTag   = `<` + reTagName + reAttribute + `*\s*/?>`
	reCloseTag  = `</` + reTagName + `\s*>`
)

// rawBlockTier is one row of the raw block taxonomy. A nil closer means the
// block runs until the next blank line.
type rawBlockTier struct {
	kind   ast.HTMLBlockType
	opener *regexp.Regexp
	closer *regexp.Regexp
}

// rawBlockTiers is ordered: the first matching opener wins.
var rawBlockTiers = []rawBlockTier{
	{
		kind:   ast.HTMLBlockType1,
		opener: regexp.MustCompile(`(?i)^<(?:script|pre|style|textarea|code-example)(?:\s|>|$)`),
		closer: regexp.MustCompile(`(?i)</(?:script|pre|style|textarea|code-example)>`),
	},
	{
		kind:   ast.HTMLBlockType2,
		opener: regexp.MustCompile(`^<!--`),
		closer: regexp.MustCompile(`-->`),
	},
	{
		kind:   ast.HTMLBlockType3,
		opener: regexp.MustCompile(`^<[?]`),
		closer: regexp.MustCompile(`\?>`),
	},
	{
		kind:   ast.HTMLBlockType4,
		opener: regexp.MustCompile(`^<![A-Z]`),
		closer: regexp.MustCompile(`>`),
	},
	{
		kind:   ast.HTMLBlockType5,
		opener: regexp.MustCompile(`^<!\[CDATA\[`),
		closer: regexp.MustCompile(`\]\]>`),
	},
	{
		kind: ast.HTMLBlockType6,
		opener: regexp.MustCompile(`(?i)^</?(?:` +
			`address|article|aside|` +
			`base|basefont|blockquote|body|` +
			`caption|center|col|colgroup|` +
			`dd|details|dialog|dir|div|dl|dt|` +
			`fieldset|figcaption|figure|footer|form|frame|frameset|` +
			`h1|h2|h3|h4|h5|h6|head|header|hr|html|` +
			`iframe|` +
			`legend|li|link|` +
			`main|menu|menuitem|` +
			`nav|noframes|` +
			`ol|optgroup|option|` +
			`p|param|` +
			`section|source|summary|` +
			`table|tbody|td|tfoot|th|thead|title|tr|track|` +
			`ul` +
			`)(?:\s|/?>|$)`),
	},
	{
		kind:   ast.HTMLBlockType7,
		opener: regexp.MustCompile(`(?i)^(?:` + reOpenTag + `|` + reCloseTag + `)\s*$`),
	},
}

// tierOf returns the taxonomy row that produced block.
func tierOf(block *ast.HTMLBlock) rawBlockTier {
	for _, t := range rawBlockTiers {
		if t.kind == block.HTMLBlockType {
			return t
		}
	}
	return rawBlockTiers[len(rawBlockTiers)-1]
}

type rawBlockParser struct{}

var defaultRawBlockParser = &rawBlockParser{}

// NewRawBlockParser returns a block parser that recognizes raw HTML regions,
// including the custom component tags, and carries their lines verbatim.
// It replaces goldmark's own HTML block parser.
func NewRawBlockParser() parser.BlockParser {
	return defaultRawBlockParser
}

func (b *rawBlockParser) Trigger() []byte {
	return []byte{'<'}
}

// Open starts a raw block when the line matches one of the tiers. A miss
// returns a nil node so the remaining block parsers get their turn.
func (b *rawBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || line[pos] != '<' {
		return nil, parser.NoChildren
	}
	rest := line[pos:]
	last := pc.LastOpenedBlock().Node

	for _, tier := range rawBlockTiers {
		// A bare tag line can not interrupt a paragraph, not even a lazy one.
		if tier.kind == ast.HTMLBlockType7 && ast.IsParagraph(last) {
			continue
		}
		if !tier.opener.Match(rest) {
			continue
		}
		node := ast.NewHTMLBlock(tier.kind)
		node.Lines().Append(segment)
		reader.AdvanceToEOL()
		return node, parser.NoChildren
	}
	return nil, parser.NoChildren
}

// Continue appends the current line verbatim. A block with a closer ends
// after the line that contains it; the others end at a blank line.
func (b *rawBlockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	block := node.(*ast.HTMLBlock)
	line, segment := reader.PeekLine()
	tier := tierOf(block)

	if tier.closer != nil {
		lines := block.Lines()
		if lines.Len() > 0 {
			prev := lines.At(lines.Len() - 1)
			if tier.closer.Match(prev.Value(reader.Source())) {
				return parser.Close
			}
		}
	} else if util.IsBlank(line) {
		return parser.Close
	}

	block.Lines().Append(segment)
	reader.AdvanceToEOL()
	return parser.Continue | parser.NoChildren
}

func (b *rawBlockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (b *rawBlockParser) CanInterruptParagraph() bool {
	return true
}

func (b *rawBlockParser) CanAcceptIndentedLine() bool {
	return false
}

// Literal returns the verbatim content of a raw block.
func Literal(block *ast.HTMLBlock, source []byte) string {
	lines := block.Lines()
	var buf []byte
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf = append(buf, seg.Value(source)...)
	}
	if block.HasClosure() {
		buf = append(buf, block.ClosureLine.Value(source)...)
	}
	return string(buf)
}

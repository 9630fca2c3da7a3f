// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/ast"
)

func TestRawBlockTiers(t *testing.T) {
	tests := []struct {
		name        string
		md          string
		wantKind    ast.HTMLBlockType
		wantLiteral string
	}{
		{
			name:        "script",
			md:          "<script>\nvar a;\n</script>\nafter",
			wantKind:    ast.HTMLBlockType1,
			wantLiteral: "<script>\nvar a;\n</script>\n",
		},
		{
			name:        "code-example spans blank lines",
			md:          "<code-example>\na\n\nb\n</code-example>",
			wantKind:    ast.HTMLBlockType1,
			wantLiteral: "<code-example>\na\n\nb\n</code-example>",
		},
		{
			name:        "closer on the opening line",
			md:          "<pre>x</pre>\nafter",
			wantKind:    ast.HTMLBlockType1,
			wantLiteral: "<pre>x</pre>\n",
		},
		{
			name:        "comment",
			md:          "<!--\nnote\n-->\ntext",
			wantKind:    ast.HTMLBlockType2,
			wantLiteral: "<!--\nnote\n-->\n",
		},
		{
			name:        "processing instruction",
			md:          "<?php echo 1; ?>\ntext",
			wantKind:    ast.HTMLBlockType3,
			wantLiteral: "<?php echo 1; ?>\n",
		},
		{
			name:        "declaration",
			md:          "<!DOCTYPE html>\ntext",
			wantKind:    ast.HTMLBlockType4,
			wantLiteral: "<!DOCTYPE html>\n",
		},
		{
			name:        "cdata",
			md:          "<![CDATA[\nx\n]]>\ntext",
			wantKind:    ast.HTMLBlockType5,
			wantLiteral: "<![CDATA[\nx\n]]>\n",
		},
		{
			name:        "block tag ends at blank line",
			md:          "<div>\n*a*\n\ntext",
			wantKind:    ast.HTMLBlockType6,
			wantLiteral: "<div>\n*a*\n",
		},
		{
			name:        "bare tag line at block start",
			md:          "<span>\ntext\n\npara",
			wantKind:    ast.HTMLBlockType7,
			wantLiteral: "<span>\ntext\n",
		},
		{
			name:        "bare closing tag",
			md:          "</custom-tag>\nx",
			wantKind:    ast.HTMLBlockType7,
			wantLiteral: "</custom-tag>\nx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.md)
			require.NoError(t, err)

			blocks := rawBlocks(doc)
			require.Len(t, blocks, 1)
			assert.Equal(t, tt.wantKind, blocks[0].HTMLBlockType)
			assert.Equal(t, tt.wantLiteral, Literal(blocks[0], doc.Source))
		})
	}
}

func TestRawBlockDoesNotSplitParagraph(t *testing.T) {
	tests := []struct {
		name     string
		md       string
		wantKind ast.NodeKind
		wantHTML string
	}{
		{
			name:     "paragraph",
			md:       "para\n<span>\nmore",
			wantKind: ast.KindParagraph,
			wantHTML: "<p>para\n<span>\nmore</p>\n",
		},
		{
			name:     "lazy continuation in a quote",
			md:       "> para\n<span>\nmore",
			wantKind: ast.KindBlockquote,
			wantHTML: "<blockquote>\n<p>para\n<span>\nmore</p>\n</blockquote>\n",
		},
		{
			name:     "lazy continuation in a list item",
			md:       "- item\n<span>",
			wantKind: ast.KindList,
			wantHTML: "<ul>\n<li>item\n<span></li>\n</ul>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.md)
			require.NoError(t, err)

			assert.Empty(t, rawBlocks(doc))
			require.Equal(t, 1, doc.Root.ChildCount())
			assert.Equal(t, tt.wantKind, doc.Root.FirstChild().Kind())

			html, err := ToHTML(tt.md)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHTML, html)
		})
	}
}

func TestRawBlockInterruptsParagraph(t *testing.T) {
	doc, err := Parse("para\n<script>\nx\n</script>")
	require.NoError(t, err)

	require.Equal(t, 2, doc.Root.ChildCount())
	assert.True(t, ast.IsParagraph(doc.Root.FirstChild()))
	blocks := rawBlocks(doc)
	require.Len(t, blocks, 1)
	assert.Equal(t, ast.HTMLBlockType1, blocks[0].HTMLBlockType)
}

func TestRawBlockNeedsShallowIndent(t *testing.T) {
	doc, err := Parse("    <div>")
	require.NoError(t, err)
	assert.Empty(t, rawBlocks(doc))
	assert.True(t, ast.IsParagraph(doc.Root.FirstChild()))
}

func TestIndentedLinesAreKept(t *testing.T) {
	html, err := ToHTML("# title\n\n    indented\n\nlast\n")
	require.NoError(t, err)
	assert.Equal(t, "<h1>title</h1>\n<p>indented</p>\n<p>last</p>\n", html)
}

func rawBlocks(doc *Document) []*ast.HTMLBlock {
	var blocks []*ast.HTMLBlock
	_ = ast.Walk(doc.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if b, ok := n.(*ast.HTMLBlock); ok && entering {
			blocks = append(blocks, b)
		}
		return ast.WalkContinue, nil
	})
	return blocks
}

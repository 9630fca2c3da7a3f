// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// ToPlainText returns the text content of markdown with the markup removed.
// Blocks end with a newline, list items keep their marker, and code and raw
// blocks are carried literally.
func ToPlainText(markdown string) (string, error) {
	doc, err := Parse(markdown)
	if err != nil {
		return "", err
	}
	return plainText(doc.Root, doc.Source), nil
}

// plainText renders the text content of the subtree rooted at n.
func plainText(n ast.Node, source []byte) string {
	var sb strings.Builder

	endLine := func() {
		s := sb.String()
		if s != "" && !strings.HasSuffix(s, "\n") {
			sb.WriteByte('\n')
		}
	}

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if node.Type() == ast.TypeBlock {
				endLine()
			}
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.String:
			sb.Write(v.Value)
		case *ast.AutoLink:
			sb.Write(v.Label(source))
		case *ast.RawHTML:
			for i := 0; i < v.Segments.Len(); i++ {
				seg := v.Segments.At(i)
				sb.Write(seg.Value(source))
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock:
			sb.WriteString(Literal(v, source))
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(source))
			}
			return ast.WalkSkipChildren, nil
		case *ast.ThematicBreak:
			sb.WriteString("***")
		case *ast.ListItem:
			sb.WriteString(listMarker(v))
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimRight(sb.String(), "\n")
}

// listMarker returns the marker a list item is written with: the bullet
// character, or the item number followed by the delimiter.
func listMarker(item *ast.ListItem) string {
	list, ok := item.Parent().(*ast.List)
	if !ok {
		return ""
	}
	if !list.IsOrdered() {
		return string(list.Marker) + " "
	}
	n := list.Start
	for c := list.FirstChild(); c != nil && c != item; c = c.NextSibling() {
		n++
	}
	return fmt.Sprintf("%d%c ", n, list.Marker)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// nestedListIndent is the prefix given to every line of a list nested in a
// list item.
const nestedListIndent = "    "

// listSeparator ends a list that is directly followed by another list of
// the same kind. Without it the two read back as one loose list.
const listSeparator = "\n<!-- -->\n"

// Option configures FromHTML.
type Option func(*domConverter)

// WithLogger sets the logger that receives warnings about tags the
// converter does not know. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *domConverter) {
		if l != nil {
			c.logger = l
		}
	}
}

// tagHandler converts one element whose children are already converted.
// ordinal is the element's position among the <li> children of an <ol>,
// starting at 1, and zero everywhere else.
type tagHandler func(n *html.Node, children string, ordinal int) string

// tagHandlers dispatches on the element name. Elements not listed here go
// through domConverter.unknown.
var tagHandlers = map[string]tagHandler{
	"h1":         heading(1),
	"h2":         heading(2),
	"h3":         heading(3),
	"h4":         heading(4),
	"h5":         heading(5),
	"h6":         heading(6),
	"p":          blankLines,
	"pre":        blankLines,
	"em":         wrap("*"),
	"strong":     wrap("**"),
	"ul":         list,
	"ol":         list,
	"li":         listItem,
	"code":       code,
	"blockquote": blockquote,
	"a":          anchor,
	"html":       passThrough,
	"head":       passThrough,
	"body":       passThrough,
	"div":        passThrough,
}

type domConverter struct {
	logger *slog.Logger
}

// FromHTML converts an HTML document or fragment to Markdown. Malformed
// input is repaired by the HTML parser; tags without a Markdown form are
// kept as markup and logged.
func FromHTML(source string, opts ...Option) (string, error) {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	c := &domConverter{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return trimLines(c.convert(doc, 0)), nil
}

func (c *domConverter) convert(n *html.Node, ordinal int) string {
	switch n.Type {
	case html.TextNode:
		if n.Data == "\n" {
			return ""
		}
		return n.Data
	case html.CommentNode:
		return "<!--" + n.Data + "-->"
	case html.DocumentNode:
		return c.children(n)
	case html.ElementNode:
		if isComponent(n.Data) {
			return "\n" + strings.TrimSpace(outerHTML(n)) + "\n"
		}
		children := c.children(n)
		if h, ok := tagHandlers[n.Data]; ok {
			return h(n, children, ordinal)
		}
		return c.unknown(n, children)
	default:
		return c.children(n)
	}
}

// children converts the child nodes of n in document order. The <li>
// children of an <ol> are numbered here, so every list counts from 1
// independently of its siblings and ancestors.
func (c *domConverter) children(n *html.Node) string {
	ordered := isElement(n, atom.Ol)

	var sb strings.Builder
	count := 0
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		ordinal := 0
		if ordered && isElement(child, atom.Li) {
			count++
			ordinal = count
		}
		sb.WriteString(c.convert(child, ordinal))
	}
	return sb.String()
}

func (c *domConverter) unknown(n *html.Node, children string) string {
	c.logger.Warn("unknown tag", "tag", n.Data)

	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(n.Data)
	writeAttrs(&sb, n.Attr)
	sb.WriteByte('>')
	if !voidTags[n.Data] {
		sb.WriteString(children)
		sb.WriteString("</")
		sb.WriteString(n.Data)
		sb.WriteByte('>')
	}

	if isBlockTag(n.Data) {
		return "\n" + sb.String() + "\n"
	}
	return sb.String()
}

func heading(level int) tagHandler {
	prefix := strings.Repeat("#", level) + " "
	return func(_ *html.Node, children string, _ int) string {
		return "\n" + prefix + children + "\n"
	}
}

func wrap(marker string) tagHandler {
	return func(_ *html.Node, children string, _ int) string {
		return marker + children + marker
	}
}

func blankLines(_ *html.Node, children string, _ int) string {
	return "\n" + children + "\n"
}

func passThrough(_ *html.Node, children string, _ int) string {
	return children
}

func list(n *html.Node, children string, _ int) string {
	if !isElement(n.Parent, atom.Li) {
		if prev := previousElement(n); prev != nil && prev.DataAtom == n.DataAtom {
			return listSeparator + "\n" + children
		}
		return "\n" + children
	}
	lines := strings.Split(children, "\n")
	for i, line := range lines {
		lines[i] = nestedListIndent + line
	}
	return strings.TrimRightFunc(strings.Join(lines, "\n"), unicode.IsSpace)
}

func listItem(n *html.Node, children string, ordinal int) string {
	if isElement(n.Parent, atom.Ol) {
		return fmt.Sprintf("%d. %s\n", ordinal, children)
	}
	return "* " + children + "\n"
}

func code(n *html.Node, children string, _ int) string {
	if class, ok := attr(n, "class"); ok {
		language := strings.TrimPrefix(class, "language-")
		return "```" + language + "\n" + strings.TrimSpace(children) + "\n```"
	}
	return "`" + children + "`"
}

func blockquote(_ *html.Node, children string, _ int) string {
	lines := strings.Split(strings.TrimSpace(children), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + line
		}
	}
	return "\n" + strings.Join(lines, "\n") + "\n"
}

func anchor(n *html.Node, children string, _ int) string {
	if href, ok := attr(n, "href"); ok {
		return "[" + children + "](" + href + ")"
	}
	return outerHTML(n)
}

// previousElement returns the sibling element before n, skipping
// whitespace-only text. It is nil when anything else comes first.
func previousElement(n *html.Node) *html.Node {
	for p := n.PrevSibling; p != nil; p = p.PrevSibling {
		switch {
		case p.Type == html.ElementNode:
			return p
		case p.Type == html.TextNode && strings.TrimSpace(p.Data) == "":
			continue
		default:
			return nil
		}
	}
	return nil
}

func isElement(n *html.Node, tag atom.Atom) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == tag
}

func isComponent(tag string) bool {
	for _, t := range componentTags {
		if t == tag {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"strings"

	"golang.org/x/net/html"
)

// html.Render escapes quotes in text nodes, which would change the example
// markup carried by custom components. outerHTML writes the node back the
// way it is normally authored: text escapes &, < and >, attribute values
// escape & and ", and both spell non-breaking spaces as &nbsp;.
var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\u00a0", "&nbsp;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "\u00a0", "&nbsp;")
)

// voidTags have no content and no end tag.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// rawTextTags hold text that is written without escaping.
var rawTextTags = map[string]bool{
	"script": true, "style": true, "xmp": true, "iframe": true,
	"noembed": true, "noframes": true, "plaintext": true,
}

// blockTags are the elements laid out as blocks. An unknown tag in this set
// is written on lines of its own.
var blockTags = map[string]bool{
	"html": true, "head": true, "body": true, "frameset": true, "script": true,
	"noscript": true, "style": true, "meta": true, "link": true, "title": true,
	"frame": true, "noframes": true, "section": true, "nav": true, "aside": true,
	"hgroup": true, "header": true, "footer": true, "p": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "ul": true,
	"ol": true, "pre": true, "div": true, "blockquote": true, "hr": true,
	"address": true, "figure": true, "figcaption": true, "form": true,
	"fieldset": true, "ins": true, "del": true, "dl": true, "dt": true,
	"dd": true, "li": true, "table": true, "caption": true, "thead": true,
	"tfoot": true, "tbody": true, "colgroup": true, "col": true, "tr": true,
	"th": true, "td": true, "video": true, "audio": true, "canvas": true,
	"details": true, "menu": true, "plaintext": true, "template": true,
	"article": true, "main": true, "svg": true, "math": true, "center": true,
	"dir": true, "applet": true, "marquee": true, "listing": true,
	"summary": true, "dialog": true,
}

func isBlockTag(tag string) bool {
	return blockTags[tag]
}

// outerHTML serializes n and its subtree.
func outerHTML(n *html.Node) string {
	var sb strings.Builder
	writeNode(&sb, n)
	return sb.String()
}

func writeNode(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if n.Parent != nil && n.Parent.Type == html.ElementNode && rawTextTags[n.Parent.Data] {
			sb.WriteString(n.Data)
			return
		}
		sb.WriteString(textEscaper.Replace(n.Data))
	case html.CommentNode:
		sb.WriteString("<!--")
		sb.WriteString(n.Data)
		sb.WriteString("-->")
	case html.ElementNode:
		sb.WriteByte('<')
		sb.WriteString(n.Data)
		writeAttrs(sb, n.Attr)
		sb.WriteByte('>')
		if voidTags[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNode(sb, c)
		}
		sb.WriteString("</")
		sb.WriteString(n.Data)
		sb.WriteByte('>')
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNode(sb, c)
		}
	}
}

// writeAttrs writes attrs in source order. An attribute without a value is
// written as its bare name.
func writeAttrs(sb *strings.Builder, attrs []html.Attribute) {
	for _, a := range attrs {
		sb.WriteByte(' ')
		if a.Namespace != "" {
			sb.WriteString(a.Namespace)
			sb.WriteByte(':')
		}
		sb.WriteString(a.Key)
		if a.Val == "" {
			continue
		}
		sb.WriteString(`="`)
		sb.WriteString(attrEscaper.Replace(a.Val))
		sb.WriteByte('"')
	}
}

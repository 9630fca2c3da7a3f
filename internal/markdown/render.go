// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// escapedComponentBlock matches a rendered code block whose content is an
// escaped custom component. Group 1 is the escaped component markup.
// Escaped content holds no raw '<', so a match never runs past the
// </code></pre> that closes the block it started in.
var escapedComponentBlock = regexp.MustCompile(
	`<pre><code(?: class="[^"]*")?>(&lt;(?:` + strings.Join(componentTags, "|") + `)[^<]*?&lt;/(?:` +
		strings.Join(componentTags, "|") + `)&gt;)\n</code></pre>`,
)

// ToHTML renders markdown as HTML. Raw blocks are written verbatim, and a
// custom component that ended up inside a code block is written back as
// markup instead of escaped text.
func ToHTML(markdown string) (string, error) {
	doc, err := Parse(markdown)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := engine.Renderer().Render(&buf, doc.Source, doc.Root); err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}

	return unescapeComponents(trimLines(buf.String())), nil
}

func unescapeComponents(s string) string {
	return escapedComponentBlock.ReplaceAllStringFunc(s, func(block string) string {
		m := escapedComponentBlock.FindStringSubmatch(block)
		return html.UnescapeString(m[1])
	})
}

// trimLines strips trailing whitespace from every line of s.
func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.Join(lines, "\n")
}

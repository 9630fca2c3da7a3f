// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"sort"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// Node classes compared by the structural differ, in report order.
const (
	ClassCode                    = "Code"
	ClassEmphasis                = "Emphasis"
	ClassStrongEmphasis          = "StrongEmphasis"
	ClassHTMLInline              = "HtmlInline"
	ClassImage                   = "Image"
	ClassLink                    = "Link"
	ClassLinkReferenceDefinition = "LinkReferenceDefinition"
)

var classOrder = []string{
	ClassCode,
	ClassEmphasis,
	ClassStrongEmphasis,
	ClassHTMLInline,
	ClassImage,
	ClassLink,
	ClassLinkReferenceDefinition,
}

// positionalClasses carry no identity besides their occurrence index.
var positionalClasses = map[string]bool{
	ClassEmphasis:       true,
	ClassStrongEmphasis: true,
}

// defaultMirrors maps mirrored hostnames to the host they are compared as.
var defaultMirrors = map[string]string{
	"angular.io": "angular.cn",
}

// Section is the difference found in one node class.
type Section struct {
	Class string `json:"class" yaml:"class"`

	// LeftOnly and RightOnly hold the canonical values found on one side
	// only. They are set for literal and destination classes.
	LeftOnly  []string `json:"left_only,omitempty" yaml:"left_only,omitempty"`
	RightOnly []string `json:"right_only,omitempty" yaml:"right_only,omitempty"`

	// Left and Right hold the plain text of every element of a positional
	// class, for a reviewer to compare by eye.
	Positional bool     `json:"positional,omitempty" yaml:"positional,omitempty"`
	Left       []string `json:"left,omitempty" yaml:"left,omitempty"`
	Right      []string `json:"right,omitempty" yaml:"right,omitempty"`
}

func (s Section) String() string {
	lines := []string{"[" + s.Class + "]"}
	if s.Positional {
		lines = append(lines,
			"L: "+strings.Join(s.Left, "；"),
			"R: "+strings.Join(s.Right, "；"),
		)
		return strings.Join(lines, "\n")
	}
	if len(s.LeftOnly) > 0 {
		lines = append(lines, "L-R: "+strings.Join(s.LeftOnly, ";"))
	}
	if len(s.RightOnly) > 0 {
		lines = append(lines, "R-L: "+strings.Join(s.RightOnly, ";"))
	}
	return strings.Join(lines, "\n")
}

// Report lists the classes in which two documents differ.
type Report struct {
	Sections []Section `json:"sections" yaml:"sections"`
}

// String renders the report as text, one block per class separated by a
// blank line.
func (r *Report) String() string {
	if r == nil {
		return ""
	}
	parts := make([]string, len(r.Sections))
	for i, s := range r.Sections {
		parts[i] = s.String()
	}
	return strings.Join(parts, "\n\n")
}

type mirror struct {
	host      string
	canonical string
}

// Differ compares Markdown documents structurally. It is safe for
// concurrent use.
type Differ struct {
	mirrors []mirror
}

// DifferOption configures a Differ.
type DifferOption func(map[string]string)

// WithMirrors adds hostnames that are compared as another host. Entries
// replace the defaults for the same hostname.
func WithMirrors(mirrors map[string]string) DifferOption {
	return func(table map[string]string) {
		for host, canonical := range mirrors {
			table[host] = canonical
		}
	}
}

// NewDiffer returns a Differ with the default mirror table and opts
// applied.
func NewDiffer(opts ...DifferOption) *Differ {
	table := make(map[string]string, len(defaultMirrors))
	for host, canonical := range defaultMirrors {
		table[host] = canonical
	}
	for _, opt := range opts {
		opt(table)
	}

	d := &Differ{}
	for host, canonical := range table {
		d.mirrors = append(d.mirrors, mirror{host: host, canonical: canonical})
	}
	sort.Slice(d.mirrors, func(i, j int) bool { return d.mirrors[i].host < d.mirrors[j].host })
	return d
}

var defaultDiffer = NewDiffer()

// StructuralDiff compares two Markdown documents with the default mirror
// table. The returned flag is false when no difference was found.
func StructuralDiff(a, b string) (string, bool, error) {
	return defaultDiffer.Diff(a, b)
}

// Diff is Compare rendered as text.
func (d *Differ) Diff(a, b string) (string, bool, error) {
	report, err := d.Compare(a, b)
	if err != nil || report == nil {
		return "", false, err
	}
	return report.String(), true, nil
}

// Compare parses both documents and returns the classes in which they
// differ, or nil when they do not.
func (d *Differ) Compare(a, b string) (*Report, error) {
	left, err := d.collect(a)
	if err != nil {
		return nil, err
	}
	right, err := d.collect(b)
	if err != nil {
		return nil, err
	}

	var report Report
	for _, class := range classOrder {
		if positionalClasses[class] {
			l, r := left.elements[class], right.elements[class]
			lo, ro := difference(ordinals(len(l)), ordinals(len(r)))
			if len(lo) == 0 && len(ro) == 0 {
				continue
			}
			report.Sections = append(report.Sections, Section{
				Class:      class,
				Positional: true,
				Left:       l,
				Right:      r,
			})
			continue
		}

		lo, ro := difference(left.values[class].list(), right.values[class].list())
		if len(lo) == 0 && len(ro) == 0 {
			continue
		}
		report.Sections = append(report.Sections, Section{Class: class, LeftOnly: lo, RightOnly: ro})
	}

	if len(report.Sections) == 0 {
		return nil, nil
	}
	return &report, nil
}

func (d *Differ) canonical(value string) string {
	for _, m := range d.mirrors {
		value = strings.ReplaceAll(value, m.host, m.canonical)
	}
	return value
}

// collection is what one document contributes to a comparison.
type collection struct {
	// values holds the canonical values of the literal and destination
	// classes.
	values map[string]*valueSet

	// elements holds the plain text of each element of a positional class,
	// in document order.
	elements map[string][]string
}

func (d *Differ) collect(markdown string) (*collection, error) {
	doc, err := Parse(markdown)
	if err != nil {
		return nil, err
	}

	c := &collection{
		values:   make(map[string]*valueSet),
		elements: make(map[string][]string),
	}
	add := func(class string, value []byte) {
		set, ok := c.values[class]
		if !ok {
			set = newValueSet()
			c.values[class] = set
		}
		set.add(d.canonical(string(value)))
	}

	source := doc.Source
	_ = ast.Walk(doc.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.CodeSpan:
			add(ClassCode, codeSpanLiteral(v, source))
		case *ast.Emphasis:
			class := ClassEmphasis
			if v.Level == 2 {
				class = ClassStrongEmphasis
			}
			c.elements[class] = append(c.elements[class], plainText(v, source))
		case *ast.RawHTML:
			var literal []byte
			for i := 0; i < v.Segments.Len(); i++ {
				seg := v.Segments.At(i)
				literal = append(literal, seg.Value(source)...)
			}
			add(ClassHTMLInline, literal)
		case *ast.Image:
			add(ClassImage, v.Destination)
		case *ast.Link:
			add(ClassLink, v.Destination)
		case *ast.AutoLink:
			add(ClassLink, v.URL(source))
		}
		return ast.WalkContinue, nil
	})

	// The parser context keeps references in a map.
	destinations := make([]string, 0, len(doc.References))
	for _, ref := range doc.References {
		destinations = append(destinations, string(ref.Destination()))
	}
	sort.Strings(destinations)
	for _, dest := range destinations {
		add(ClassLinkReferenceDefinition, []byte(dest))
	}

	return c, nil
}

func codeSpanLiteral(n *ast.CodeSpan, source []byte) []byte {
	var literal []byte
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			literal = append(literal, t.Segment.Value(source)...)
		case *ast.String:
			literal = append(literal, t.Value...)
		}
	}
	return literal
}

// valueSet is a set of strings that remembers insertion order.
type valueSet struct {
	seen   map[string]bool
	values []string
}

func newValueSet() *valueSet {
	return &valueSet{seen: make(map[string]bool)}
}

func (s *valueSet) add(v string) {
	if s.seen[v] {
		return
	}
	s.seen[v] = true
	s.values = append(s.values, v)
}

func (s *valueSet) list() []string {
	if s == nil {
		return nil
	}
	return s.values
}

// difference returns the values of a missing from b and of b missing from a,
// each in its original order.
func difference(a, b []string) (leftOnly, rightOnly []string) {
	return subtract(a, b), subtract(b, a)
}

func subtract(a, b []string) []string {
	drop := make(map[string]bool, len(b))
	for _, v := range b {
		drop[v] = true
	}
	var out []string
	for _, v := range a {
		if !drop[v] {
			out = append(out, v)
		}
	}
	return out
}

func ordinals(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i + 1)
	}
	return out
}

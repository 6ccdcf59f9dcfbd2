// Package docparser extracts a documentation sidebar structure from the
// rendered ("cooked") HTML of an index topic's first post.
//
// The parser is pure: identical input always yields identical output, and it
// performs no I/O. Unparseable or structure-less input yields an empty result,
// never an error — that is the expected outcome for ordinary prose posts.
package docparser

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Link is one candidate sidebar entry extracted from a list item. Href is the
// anchor's raw href attribute value, unmodified.
type Link struct {
	Text string
	Href string
}

// Section is an ordered group of links. An empty Title marks the implicit
// untitled "root" section created for lists that appear before any heading.
type Section struct {
	Title string
	Links []Link
}

var headingTags = map[atom.Atom]bool{
	atom.H1: true,
	atom.H2: true,
	atom.H3: true,
	atom.H4: true,
	atom.H5: true,
	atom.H6: true,
}

var listTags = map[atom.Atom]bool{
	atom.Ol: true,
	atom.Ul: true,
}

// Parse walks the top-level block elements of the cooked HTML fragment in
// document order. Headings start new named sections; list items contribute
// links to the current section, lazily creating the untitled root section when
// a valid link appears before any heading. Sections that end up with no links
// are dropped, and a result with no links at all is nil ("no structure").
func Parse(cooked string) []Section {
	nodes, err := html.ParseFragment(strings.NewReader(cooked), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil
	}

	var p parser
	for _, node := range nodes {
		if node.Type != html.ElementNode {
			continue
		}
		switch {
		case headingTags[node.DataAtom]:
			p.addSection(strings.TrimSpace(textContent(node)))
		case listTags[node.DataAtom]:
			p.addList(node)
		}
	}

	return p.result()
}

type parser struct {
	sections []Section
}

func (p *parser) addSection(title string) {
	p.sections = append(p.sections, Section{Title: title})
}

func (p *parser) addList(list *html.Node) {
	for item := list.FirstChild; item != nil; item = item.NextSibling {
		if item.Type == html.ElementNode && item.DataAtom == atom.Li {
			p.addLink(item)
		}
	}
}

func (p *parser) addLink(item *html.Node) {
	anchor := firstAnchor(item)
	if anchor == nil {
		return
	}

	text := strings.TrimSpace(leadingText(item, anchor))
	if strings.HasSuffix(text, ":") {
		text = strings.TrimSpace(strings.TrimSuffix(text, ":"))
	} else {
		text = strings.TrimSpace(textContent(anchor))
	}

	if text == "" {
		return
	}

	// Lists before the first heading share a single untitled root section.
	if len(p.sections) == 0 {
		p.addSection("")
	}

	last := &p.sections[len(p.sections)-1]
	last.Links = append(last.Links, Link{Text: text, Href: attr(anchor, "href")})
}

func (p *parser) result() []Section {
	var valid []Section
	for _, section := range p.sections {
		if len(section.Links) > 0 {
			valid = append(valid, section)
		}
	}
	return valid
}

// firstAnchor returns the first <a> element within the node in document order.
func firstAnchor(n *html.Node) *html.Node {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.DataAtom == atom.A {
			return child
		}
		if found := firstAnchor(child); found != nil {
			return found
		}
	}
	return nil
}

// leadingText concatenates the text of everything preceding the anchor within
// the list item. Used for the "Label: <a>…</a>" form, where the label before
// the colon overrides the anchor's own text.
func leadingText(item, anchor *html.Node) string {
	var sb strings.Builder
	collectLeading(item, anchor, &sb)
	return sb.String()
}

// collectLeading appends text content to sb until it reaches the anchor.
// Returns false once the anchor has been seen.
func collectLeading(n, anchor *html.Node, sb *strings.Builder) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child == anchor {
			return false
		}
		if child.Type == html.TextNode {
			sb.WriteString(child.Data)
			continue
		}
		if !collectLeading(child, anchor, sb) {
			return false
		}
	}
	return true
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

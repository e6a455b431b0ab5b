package markup

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Parse turns loose HTML text into an element tree. Tree construction is
// delegated to the tolerant builder from golang.org/x/net/html (error
// recovery, implied elements, attribute case folding, entity decoding); the
// resulting text nodes are then whitespace-normalized the same way the lexer
// normalizes content tokens, so downstream conversion sees identical text
// either way.
func Parse(input string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("building element tree: %w", err)
	}
	NormalizeWhitespace(doc)
	return doc, nil
}

// ParseReader is Parse over a byte stream of unknown encoding: the charset
// is sniffed (BOM, meta declaration, content heuristics) and the input
// decoded to UTF-8 before tree construction.
func ParseReader(r io.Reader) (*html.Node, error) {
	cr, err := charset.NewReader(r, "")
	if err != nil {
		return nil, fmt.Errorf("detecting charset: %w", err)
	}
	doc, err := html.Parse(cr)
	if err != nil {
		return nil, fmt.Errorf("building element tree: %w", err)
	}
	NormalizeWhitespace(doc)
	return doc, nil
}

// NormalizeWhitespace collapses whitespace runs in every text node of the
// tree to a single space. The leading run of a node that directly follows
// its parent's opening tag is dropped entirely; whitespace following a
// closing or self-closing tag stays significant (one space). Script and
// style payloads are left alone.
func NormalizeWhitespace(n *html.Node) {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	if n.Type == html.TextNode {
		n.Data = CollapseWhitespace(n.Data, n.PrevSibling == nil)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		NormalizeWhitespace(c)
	}
}

// CollapseWhitespace reduces every run of control characters and spaces to a
// single ' '. When dropLeading is set a leading run is removed instead of
// collapsed.
func CollapseWhitespace(s string, dropLeading bool) string {
	var b strings.Builder
	b.Grow(len(s))
	ignore := dropLeading
	for _, r := range s {
		if r <= ' ' {
			if !ignore {
				b.WriteRune(' ')
			}
			ignore = true
		} else {
			b.WriteRune(r)
			ignore = false
		}
	}
	return b.String()
}

// FirstElement returns the first element node with the given name in
// document order, or nil.
func FirstElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := FirstElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

// GetAttribute returns the value of the named attribute (case-insensitive
// for HTML elements, whose attribute keys are already lower-cased by the
// tree builder) and whether it is present.
func GetAttribute(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

// TextContent concatenates all text nodes under n in document order.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

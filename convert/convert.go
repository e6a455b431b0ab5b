// Package convert walks a parsed HTML element tree and emits the equivalent
// flow-document tree: block/inline dispatch, property cascading, implicit
// paragraph and list synthesis, and table grid reconstruction.
package convert

import (
	"io"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"hfc/css"
	"hfc/flow"
	"hfc/markup"
)

// Converter turns loose HTML into flow-document markup. It is stateless
// between calls; every Convert invocation builds its own conversion context,
// so concurrent calls on one Converter are safe.
type Converter struct {
	log *zap.Logger
}

// NewConverter creates a converter logging through the provided logger.
func NewConverter(log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{log: log.Named("convert")}
}

// Convert transforms raw HTML text into serialized flow-document markup.
// With fragment set, StartFragment/EndFragment comment markers (the
// clipboard convention) select an inline-only Span result instead of the
// full FlowDocument wrapper.
func (c *Converter) Convert(input string, fragment bool) (string, error) {
	root, err := markup.Parse(input)
	if err != nil {
		return "", err
	}
	return c.convertTree(root, fragment)
}

// ConvertReader is Convert over a byte stream of unknown encoding.
func (c *Converter) ConvertReader(r io.Reader, fragment bool) (string, error) {
	root, err := markup.ParseReader(r)
	if err != nil {
		return "", err
	}
	return c.convertTree(root, fragment)
}

// conversion is the per-call state: the source context stack scoping CSS
// matching, the discovered stylesheet, and the inline-fragment anchor. A
// fresh one is built for every top-level call.
type conversion struct {
	log    *zap.Logger
	styles *css.Stylesheet
	stack  []*html.Node

	fragmentAnchor  *html.Node     // source element enclosing the clipboard fragment
	fragmentElement *etree.Element // its emitted counterpart
}

func (c *Converter) convertTree(root *html.Node, fragment bool) (string, error) {
	cv := &conversion{
		log:    c.log,
		styles: css.NewStylesheet(c.log),
	}
	cv.styles.Discover(root)
	if fragment {
		cv.fragmentAnchor = findFragmentAnchor(root)
	}

	body := markup.FirstElement(root, "body")
	if body == nil {
		body = root
	}
	if ce := cv.log.Check(zap.DebugLevel, "Converting element tree"); ce != nil {
		ce.Write(zap.String("tree", markup.DumpTree(body)))
	}

	doc, docRoot := flow.NewDocument()

	cv.push(body)
	current, local := cv.getElementProperties(body, nil)
	cv.applyLocalProperties(docRoot, local, true)
	cv.markFragment(body, docRoot)
	for n := body.FirstChild; n != nil; n = n.NextSibling {
		n = cv.addBlock(docRoot, n, current)
	}
	cv.pop()

	if fragment {
		if span := cv.extractFragment(); span != nil {
			frag := etree.NewDocument()
			frag.AddChild(span)
			return flow.Serialize(frag)
		}
	}
	return flow.Serialize(doc)
}

// findFragmentAnchor locates the element that encloses the clipboard
// fragment. A StartFragment marker anchors at its parent; an EndFragment
// seen without a preceding StartFragment falls back to its own parent.
func findFragmentAnchor(root *html.Node) *html.Node {
	var anchor *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.CommentNode {
			switch strings.TrimSpace(n.Data) {
			case "StartFragment":
				anchor = n.Parent
				return true
			case "EndFragment":
				if anchor == nil {
					anchor = n.Parent
				}
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	return anchor
}

// extractFragment produces the inline-only result: the emitted counterpart
// of the fragment anchor if it already is a Span, else a fresh Span adopting
// that element's children. Returns nil when no marked element was emitted.
func (cv *conversion) extractFragment() *etree.Element {
	el := cv.fragmentElement
	if el == nil {
		return nil
	}
	if parent := el.Parent(); parent != nil {
		parent.RemoveChild(el)
	}
	if el.Tag == flow.ElemSpan {
		el.CreateAttr("xmlns", flow.Namespace)
		el.CreateAttr("xml:space", "preserve")
		return el
	}
	span := etree.NewElement(flow.ElemSpan)
	span.CreateAttr("xmlns", flow.Namespace)
	span.CreateAttr("xml:space", "preserve")
	children := make([]etree.Token, len(el.Child))
	copy(children, el.Child)
	for _, child := range children {
		span.AddChild(child)
	}
	return span
}

// push/pop maintain the source context stack used for stylesheet matching.
func (cv *conversion) push(n *html.Node) {
	cv.stack = append(cv.stack, n)
}

func (cv *conversion) pop() {
	cv.stack = cv.stack[:len(cv.stack)-1]
}

// markFragment records the emitted element corresponding to the fragment
// anchor, once per conversion.
func (cv *conversion) markFragment(src *html.Node, out *etree.Element) {
	if cv.fragmentAnchor != nil && cv.fragmentElement == nil && src == cv.fragmentAnchor {
		cv.fragmentElement = out
	}
}

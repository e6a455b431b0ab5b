package convert

import (
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"

	"hfc/flow"
	"hfc/markup"
)

// addInline dispatches one node in inline context.
func (cv *conversion) addInline(parent *etree.Element, node *html.Node, inherited map[string]string) {
	switch node.Type {
	case html.TextNode:
		cv.addTextRun(parent, node.Data)
		return
	case html.ElementNode:
		// handled below
	default:
		return
	}

	switch classify(node.Data) {
	case kindIgnored, kindImage:
		return
	case kindBreak:
		cv.addBreak(parent, node.Data)
		return
	}

	if markup.IsBlock(node.Data) {
		// block element inside inline content: let it convert as a block
		// sibling of the current container
		if grandParent := parent.Parent(); grandParent != nil {
			cv.addBlock(grandParent, node, inherited)
			return
		}
	}

	if node.Data == "a" {
		cv.addHyperlink(parent, node, inherited)
		return
	}
	cv.addSpanOrRun(parent, node, inherited)
}

// addSpanOrRun converts an inline element: a Run when the content is plain
// text, a Span when nested inline structure is present.
func (cv *conversion) addSpanOrRun(parent *etree.Element, node *html.Node, inherited map[string]string) {
	cv.push(node)
	defer cv.pop()
	current, local := cv.getElementProperties(node, inherited)

	textOnly := true
	for n := node.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.TextNode {
			textOnly = false
			break
		}
	}

	if textOnly {
		run := parent.CreateElement(flow.ElemRun)
		cv.applyLocalProperties(run, local, false)
		cv.markFragment(node, run)
		run.SetText(cleanText(markup.TextContent(node)))
		return
	}

	span := parent.CreateElement(flow.ElemSpan)
	cv.applyLocalProperties(span, local, false)
	cv.markFragment(node, span)
	for n := node.FirstChild; n != nil; n = n.NextSibling {
		cv.addInline(span, n, current)
	}
}

// addHyperlink converts an anchor. The href splits on the first '#' into
// navigation target and named target; an anchor without href degrades to an
// ordinary span or run.
func (cv *conversion) addHyperlink(parent *etree.Element, node *html.Node, inherited map[string]string) {
	href, ok := markup.GetAttribute(node, "href")
	if !ok || href == "" {
		cv.addSpanOrRun(parent, node, inherited)
		return
	}

	cv.push(node)
	defer cv.pop()
	current, local := cv.getElementProperties(node, inherited)

	link := parent.CreateElement(flow.ElemHyperlink)
	uri, target, _ := strings.Cut(href, "#")
	if uri != "" {
		link.CreateAttr(flow.AttrNavigateUri, uri)
	}
	if target != "" {
		link.CreateAttr(flow.AttrTargetName, target)
	}
	cv.applyLocalProperties(link, local, false)
	cv.markFragment(node, link)
	for n := node.FirstChild; n != nil; n = n.NextSibling {
		cv.addInline(link, n, current)
	}
}

// addTextRun emits one text run, dropping control characters and rewriting
// non-breaking spaces to ordinary ones since the dialect has no escape for
// them. Empty results produce no run.
func (cv *conversion) addTextRun(parent *etree.Element, text string) {
	text = cleanText(text)
	if text == "" {
		return
	}
	parent.CreateElement(flow.ElemRun).SetText(text)
}

func cleanText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\u00a0':
			b.WriteRune(' ')
		case r < ' ':
			// control characters never reach the output
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

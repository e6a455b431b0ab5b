package convert

import (
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"hfc/flow"
	"hfc/markup"
)

// elementKind classifies each HTML tag once; all dispatch points key on the
// kind instead of repeating tag lists.
type elementKind int

const (
	kindUnknown elementKind = iota
	kindSection
	kindParagraph
	kindList
	kindListItem
	kindImage
	kindTable
	kindTableStructure // td/tr/tbody and friends met outside a table
	kindBreak
	kindIgnored
)

func classify(name string) elementKind {
	switch name {
	case "html", "body", "div", "blockquote", "form", "center", "cite", "caption", "pre":
		return kindSection
	case "p", "h1", "h2", "h3", "h4", "h5", "h6", "nobr":
		return kindParagraph
	case "ul", "ol", "dir", "menu":
		return kindList
	case "li":
		return kindListItem
	case "img":
		return kindImage
	case "table":
		return kindTable
	case "tbody", "thead", "tfoot", "tr", "td", "th", "colgroup", "col":
		return kindTableStructure
	case "br", "hr":
		return kindBreak
	case "head", "title", "meta", "link", "base", "basefont", "script", "style":
		return kindIgnored
	}
	return kindUnknown
}

// addBlock dispatches one node in block context and returns the last node it
// consumed, letting callers resume sibling iteration after greedy handlers
// (implicit paragraphs, orphan list items).
func (cv *conversion) addBlock(parent *etree.Element, node *html.Node, inherited map[string]string) *html.Node {
	switch node.Type {
	case html.CommentNode, html.DoctypeNode:
		return node
	case html.TextNode:
		if strings.TrimSpace(node.Data) == "" {
			return node
		}
		return cv.addImplicitParagraph(parent, node, inherited)
	case html.ElementNode:
		// handled below
	default:
		return node
	}

	switch classify(node.Data) {
	case kindIgnored, kindImage:
		return node
	case kindSection:
		cv.addSection(parent, node, inherited)
	case kindParagraph:
		cv.addParagraph(parent, node, inherited)
	case kindList:
		cv.addList(parent, node, inherited)
	case kindListItem:
		return cv.addOrphanListItems(parent, node, inherited)
	case kindTable:
		cv.addTable(parent, node, inherited)
	case kindTableStructure:
		// stray table structure without a table: transparent container
		for n := node.FirstChild; n != nil; n = n.NextSibling {
			n = cv.addBlock(parent, n, inherited)
		}
	case kindBreak:
		cv.addBreak(parent, node.Data)
	default:
		if markup.IsBlock(node.Data) {
			cv.addSection(parent, node, inherited)
		} else {
			return cv.addImplicitParagraph(parent, node, inherited)
		}
	}
	return node
}

// addSection converts a grouping element. Without any direct block child it
// collapses to a paragraph; with no local formatting of its own the wrapper
// is elided and children attach to the caller's parent.
func (cv *conversion) addSection(parent *etree.Element, node *html.Node, inherited map[string]string) {
	hasBlockChild := false
	for n := node.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && markup.IsBlock(n.Data) {
			hasBlockChild = true
			break
		}
	}
	if !hasBlockChild {
		cv.addParagraph(parent, node, inherited)
		return
	}

	cv.push(node)
	defer cv.pop()
	current, local := cv.getElementProperties(node, inherited)

	if len(local) == 0 {
		cv.markFragment(node, parent)
		for n := node.FirstChild; n != nil; n = n.NextSibling {
			n = cv.addBlock(parent, n, current)
		}
		return
	}

	section := parent.CreateElement(flow.ElemSection)
	cv.applyLocalProperties(section, local, true)
	cv.markFragment(node, section)
	for n := node.FirstChild; n != nil; n = n.NextSibling {
		n = cv.addBlock(section, n, current)
	}
}

// addParagraph converts a paragraph-like element, its children in inline
// context.
func (cv *conversion) addParagraph(parent *etree.Element, node *html.Node, inherited map[string]string) {
	cv.push(node)
	defer cv.pop()
	current, local := cv.getElementProperties(node, inherited)

	para := parent.CreateElement(flow.ElemParagraph)
	cv.applyLocalProperties(para, local, true)
	cv.markFragment(node, para)
	for n := node.FirstChild; n != nil; n = n.NextSibling {
		cv.addInline(para, n, current)
	}
}

// addImplicitParagraph wraps loose inline content in a synthesized
// paragraph, consuming siblings until the next true block element. The
// stopping point is the returned node; an all-whitespace paragraph is
// discarded.
func (cv *conversion) addImplicitParagraph(parent *etree.Element, node *html.Node, inherited map[string]string) *html.Node {
	para := etree.NewElement(flow.ElemParagraph)

	last := node
	for n := node; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			kind := classify(n.Data)
			if kind == kindBreak && n.Data == "br" {
				para.CreateElement(flow.ElemLineBreak)
				last = n
				continue
			}
			if kind != kindUnknown && kind != kindIgnored && kind != kindImage || markup.IsBlock(n.Data) {
				break
			}
		}
		cv.addInline(para, n, inherited)
		last = n
	}

	if !hasContent(para) {
		return last
	}
	parent.AddChild(para)
	return last
}

// hasContent reports whether an emitted element carries anything beyond
// whitespace text.
func hasContent(el *etree.Element) bool {
	for _, child := range el.Child {
		switch t := child.(type) {
		case *etree.Element:
			return true
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return true
			}
		}
	}
	return false
}

// addList converts ul/ol/dir/menu. The marker comes from list-style-type
// when declared, else from the tag.
func (cv *conversion) addList(parent *etree.Element, node *html.Node, inherited map[string]string) {
	cv.push(node)
	defer cv.pop()
	current, local := cv.getElementProperties(node, inherited)

	list := parent.CreateElement(flow.ElemList)
	if marker := markerStyle(node.Data, local); marker != "" {
		list.CreateAttr(flow.AttrMarkerStyle, marker)
	}
	delete(local, "list-style-type")
	cv.applyLocalProperties(list, local, true)
	cv.markFragment(node, list)

	for n := node.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && n.Data == "li" {
			cv.addListItem(list, n, current)
		}
	}
	if len(list.ChildElements()) == 0 {
		parent.RemoveChild(list)
	}
}

// addOrphanListItems groups consecutive li siblings lacking a list wrapper.
// When the previously emitted sibling is already a List the orphans join it
// instead of opening a second one. Returns the last consumed sibling.
func (cv *conversion) addOrphanListItems(parent *etree.Element, node *html.Node, inherited map[string]string) *html.Node {
	cv.log.Debug("List item without enclosing list", zap.String("tag", node.Data))

	var list *etree.Element
	if children := parent.ChildElements(); len(children) > 0 && children[len(children)-1].Tag == flow.ElemList {
		list = children[len(children)-1]
	} else {
		list = parent.CreateElement(flow.ElemList)
	}

	last := node
	for n := node; n != nil; n = n.NextSibling {
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
			last = n
			continue
		}
		if n.Type != html.ElementNode || n.Data != "li" {
			break
		}
		cv.addListItem(list, n, inherited)
		last = n
	}
	return last
}

// addListItem converts one li, its children back in block context.
func (cv *conversion) addListItem(list *etree.Element, node *html.Node, inherited map[string]string) {
	cv.push(node)
	defer cv.pop()
	current, local := cv.getElementProperties(node, inherited)

	item := list.CreateElement(flow.ElemListItem)
	cv.applyLocalProperties(item, local, true)
	cv.markFragment(node, item)
	for n := node.FirstChild; n != nil; n = n.NextSibling {
		n = cv.addBlock(item, n, current)
	}
}

// addBreak emits a line break; a horizontal rule becomes a break, a literal
// rule placeholder run and a second break.
func (cv *conversion) addBreak(parent *etree.Element, name string) {
	parent.CreateElement(flow.ElemLineBreak)
	if name == "hr" {
		parent.CreateElement(flow.ElemRun).SetText("----------")
		parent.CreateElement(flow.ElemLineBreak)
	}
}

func markerStyle(tag string, local map[string]string) string {
	switch local["list-style-type"] {
	case "disc":
		return "Disc"
	case "circle":
		return "Circle"
	case "square":
		return "Square"
	case "decimal":
		return "Decimal"
	case "lower-roman":
		return "LowerRoman"
	case "upper-roman":
		return "UpperRoman"
	case "lower-alpha", "lower-latin":
		return "LowerLatin"
	case "upper-alpha", "upper-latin":
		return "UpperLatin"
	case "none":
		return "None"
	}
	switch tag {
	case "ol":
		return "Decimal"
	case "ul", "dir", "menu":
		return "Disc"
	}
	return ""
}

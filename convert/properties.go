package convert

import (
	"maps"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"

	"hfc/css"
	"hfc/flow"
	"hfc/markup"
)

// getElementProperties resolves the cascade for the element on top of the
// context stack: tag defaults, then presentational attributes, then the
// matched stylesheet rule, then the inline style attribute, each layer
// overriding the previous. Returns the merged (inherited + local) bag for
// the subtree and the local bag for attribute emission.
func (cv *conversion) getElementProperties(node *html.Node, inherited map[string]string) (current, local map[string]string) {
	local = map[string]string{}
	tagDefaults(node.Data, local)
	presentationalAttributes(node, local)
	if decl := cv.styles.StyleFor(node.Data, cv.stack); decl != "" {
		css.ParseDeclarations(decl, local)
	}
	if style, ok := markup.GetAttribute(node, "style"); ok {
		css.ParseDeclarations(style, local)
	}

	current = make(map[string]string, len(inherited)+len(local))
	maps.Copy(current, inherited)
	maps.Copy(current, local)
	return current, local
}

// tagDefaults seeds the local bag with the formatting a bare tag implies.
func tagDefaults(name string, props map[string]string) {
	switch name {
	case "b", "bold", "strong":
		props["font-weight"] = "bold"
	case "i", "italic", "em", "cite", "var", "address", "dfn":
		props["font-style"] = "italic"
	case "u", "ins":
		props["text-decoration-underline"] = "true"
	case "s", "strike", "del":
		props["text-decoration-line-through"] = "true"
	case "pre", "code", "tt", "samp", "kbd":
		props["font-family"] = "Courier New"
	case "center":
		props["text-align"] = "center"
	case "blockquote":
		props["margin-left"] = "16"
	case "sub", "sup", "small":
		props["font-size"] = "13"
	case "big":
		props["font-size"] = "19"
	case "h1":
		props["font-size"] = "32"
		props["font-weight"] = "bold"
	case "h2":
		props["font-size"] = "24"
		props["font-weight"] = "bold"
	case "h3":
		props["font-size"] = "19"
		props["font-weight"] = "bold"
	case "h4":
		props["font-size"] = "16"
		props["font-weight"] = "bold"
	case "h5":
		props["font-size"] = "13"
		props["font-weight"] = "bold"
	case "h6":
		props["font-size"] = "11"
		props["font-weight"] = "bold"
	case "ul", "dir", "menu":
		props["list-style-type"] = "disc"
	case "ol":
		props["list-style-type"] = "decimal"
	}
}

// The legacy font size scale 1..7.
var fontSizeScale = map[string]string{
	"1": "10", "2": "13", "3": "16", "4": "18", "5": "24", "6": "32", "7": "48",
}

// presentationalAttributes folds the legacy formatting attributes into the
// same vocabulary the CSS parser produces.
func presentationalAttributes(node *html.Node, props map[string]string) {
	if v, ok := markup.GetAttribute(node, "align"); ok {
		css.ParseDeclarations("text-align: "+v, props)
	}
	if v, ok := markup.GetAttribute(node, "bgcolor"); ok {
		css.ParseDeclarations("background-color: "+strings.TrimSpace(v), props)
	}
	if v, ok := markup.GetAttribute(node, "width"); ok {
		if w, ok := css.ParseLength(v); ok {
			props["width"] = strconv.FormatFloat(w, 'f', -1, 64)
		}
	}
	if node.Data == "font" {
		if v, ok := markup.GetAttribute(node, "face"); ok {
			props["font-family"] = strings.TrimSpace(v)
		}
		if v, ok := markup.GetAttribute(node, "size"); ok {
			if size, ok := fontSizeScale[strings.TrimSpace(v)]; ok {
				props["font-size"] = size
			}
		}
		if v, ok := markup.GetAttribute(node, "color"); ok {
			css.ParseDeclarations("color: "+strings.TrimSpace(v), props)
		}
	}
}

// applyLocalProperties writes the local bag onto an emitted element as
// dialect attributes. Block-only concepts are gated by isBlock and silently
// ignored on inline nodes; float, clear and display are recognized no-ops.
func (cv *conversion) applyLocalProperties(el *etree.Element, local map[string]string, isBlock bool) {
	if v := local["font-family"]; v != "" {
		el.CreateAttr(flow.AttrFontFamily, v)
	}
	if v := local["font-style"]; v == "italic" || v == "oblique" {
		el.CreateAttr(flow.AttrFontStyle, "Italic")
	}
	if v := fontWeightValue(local["font-weight"]); v != "" {
		el.CreateAttr(flow.AttrFontWeight, v)
	}
	if v := local["font-size"]; v != "" {
		el.CreateAttr(flow.AttrFontSize, v)
	}
	if v := local["color"]; v != "" {
		el.CreateAttr(flow.AttrForeground, v)
	}
	if v := local["background-color"]; v != "" {
		el.CreateAttr(flow.AttrBackground, v)
	}
	if v := textDecorationsValue(local); v != "" {
		el.CreateAttr(flow.AttrTextDecorations, v)
	}

	if !isBlock {
		return
	}

	if v := local["text-indent"]; v != "" {
		el.CreateAttr(flow.AttrTextIndent, v)
	}
	if v := textAlignmentValue(local["text-align"]); v != "" {
		el.CreateAttr(flow.AttrTextAlignment, v)
	}
	if v := composeThickness(local, "margin"); v != "" {
		el.CreateAttr(flow.AttrMargin, v)
	}
	if v := composeThickness(local, "padding"); v != "" {
		el.CreateAttr(flow.AttrPadding, v)
	}
	if v := composeThickness(local, "border-width"); v != "" {
		el.CreateAttr(flow.AttrBorderThickness, v)
		el.CreateAttr(flow.AttrBorderBrush, borderBrushValue(local))
	}
}

func fontWeightValue(weight string) string {
	switch weight {
	case "bold", "bolder", "600", "700", "800", "900":
		return "Bold"
	case "lighter", "100", "200", "300":
		return "Light"
	}
	return ""
}

func textDecorationsValue(local map[string]string) string {
	var parts []string
	if local["text-decoration-underline"] == "true" {
		parts = append(parts, "Underline")
	}
	if local["text-decoration-line-through"] == "true" {
		parts = append(parts, "Strikethrough")
	}
	if local["text-decoration-overline"] == "true" {
		parts = append(parts, "Overline")
	}
	return strings.Join(parts, ",")
}

func textAlignmentValue(align string) string {
	switch align {
	case "left":
		return "Left"
	case "right":
		return "Right"
	case "center":
		return "Center"
	case "justify":
		return "Justify"
	}
	return ""
}

func borderBrushValue(local map[string]string) string {
	for _, side := range []string{"top", "left", "right", "bottom"} {
		if v := local["border-color-"+side]; v != "" {
			return v
		}
	}
	return "Black"
}

// composeThickness combines four side values into one shorthand attribute:
// one value when all sides agree, "left,top" when the opposite sides agree,
// else all four in left,top,right,bottom order. Sides that are negative or
// lead with '0' clamp to "0"; absent sides default to "0".
func composeThickness(local map[string]string, prefix string) string {
	left, okL := local[prefix+"-left"]
	top, okT := local[prefix+"-top"]
	right, okR := local[prefix+"-right"]
	bottom, okB := local[prefix+"-bottom"]
	if !okL && !okT && !okR && !okB {
		return ""
	}

	left = clampSide(left)
	top = clampSide(top)
	right = clampSide(right)
	bottom = clampSide(bottom)

	if left == top && top == right && right == bottom {
		return left
	}
	if left == right && top == bottom {
		return left + "," + top
	}
	return left + "," + top + "," + right + "," + bottom
}

func clampSide(v string) string {
	if v == "" || v[0] == '-' || v[0] == '0' {
		return "0"
	}
	return v
}

package markup

// Element-classification table: which tag names open a new structural region
// (block-level) and which flow within a line (inline-level). The converter
// keys its implicit-paragraph and section-collapsing decisions on it.

var blockElements = map[string]struct{}{
	"html": {}, "body": {}, "head": {},
	"address": {}, "blockquote": {}, "center": {}, "div": {}, "dir": {},
	"dl": {}, "dt": {}, "dd": {}, "fieldset": {}, "form": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"hr": {}, "li": {}, "menu": {}, "noframes": {}, "noscript": {},
	"ol": {}, "p": {}, "pre": {}, "table": {}, "tbody": {}, "td": {},
	"tfoot": {}, "th": {}, "thead": {}, "tr": {}, "ul": {},
	"caption": {}, "colgroup": {}, "col": {},
}

var inlineElements = map[string]struct{}{
	"a": {}, "abbr": {}, "acronym": {}, "b": {}, "bdo": {}, "big": {},
	"br": {}, "button": {}, "cite": {}, "code": {}, "del": {}, "dfn": {},
	"em": {}, "font": {}, "i": {}, "img": {}, "ins": {}, "input": {},
	"kbd": {}, "label": {}, "nobr": {}, "object": {}, "q": {}, "s": {},
	"samp": {}, "select": {}, "small": {}, "span": {}, "strike": {},
	"strong": {}, "sub": {}, "sup": {}, "textarea": {}, "tt": {},
	"u": {}, "var": {},
}

// IsBlock reports whether the (lower-case) tag name is block-level.
func IsBlock(name string) bool {
	_, ok := blockElements[name]
	return ok
}

// IsInline reports whether the (lower-case) tag name is inline-level.
func IsInline(name string) bool {
	_, ok := inlineElements[name]
	return ok
}

package css

import (
	"strconv"
	"strings"
	"unicode"
)

// The value parsers share a cursor convention: each parseX inspects the
// value string at *i, consumes what it recognizes and advances *i, or leaves
// the cursor alone and returns "" - no errors, no panics. That makes
// composite parsing (the font shorthand, border, rectangle expansion) a
// plain sequence of optional steps.

// ParseDeclarations splits "name: value; name: value" text and merges every
// recognized property into the bag using the internal vocabulary
// (font-weight, margin-left, border-width-top, ...). Unparseable values are
// silently skipped.
func ParseDeclarations(styleText string, props map[string]string) {
	for pair := range strings.SplitSeq(styleText, ";") {
		name, value, found := strings.Cut(pair, ":")
		if !found {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if idx := strings.Index(strings.ToLower(value), "!important"); idx >= 0 {
			value = strings.TrimSpace(value[:idx])
		}
		if name == "" || value == "" {
			continue
		}
		processDeclaration(name, value, props)
	}
}

func processDeclaration(name, value string, props map[string]string) {
	i := 0
	switch name {
	case "font":
		parseFont(value, &i, props)
	case "font-family":
		setIfParsed(props, "font-family", parseFontFamily(value, &i))
	case "font-size":
		setIfParsed(props, "font-size", parseSize(value, &i, true))
	case "font-style":
		setIfParsed(props, "font-style", parseWordEnumeration(fontStyles, value, &i))
	case "font-weight":
		setIfParsed(props, "font-weight", parseWordEnumeration(fontWeights, value, &i))
	case "font-variant":
		setIfParsed(props, "font-variant", parseWordEnumeration(fontVariants, value, &i))
	case "line-height":
		setIfParsed(props, "line-height", parseSize(value, &i, true))

	case "color":
		setIfParsed(props, "color", parseColor(value, &i))
	case "background", "background-color":
		setIfParsed(props, "background-color", parseColor(value, &i))

	case "text-decoration":
		parseTextDecoration(value, &i, props)
	case "text-transform":
		setIfParsed(props, "text-transform", parseWordEnumeration(textTransforms, value, &i))
	case "text-indent":
		setIfParsed(props, "text-indent", parseSize(value, &i, false))
	case "text-align":
		setIfParsed(props, "text-align", parseWordEnumeration(textAligns, value, &i))

	case "width", "height":
		setIfParsed(props, name, parseSize(value, &i, true))

	case "margin", "padding":
		parseRect(value, &i, props, name, func(v string, i *int) string {
			return parseSize(v, i, true)
		})
	case "margin-left", "margin-right", "margin-top", "margin-bottom",
		"padding-left", "padding-right", "padding-top", "padding-bottom":
		setIfParsed(props, name, parseSize(value, &i, true))

	case "border":
		parseBorder(value, &i, props)
	case "border-width":
		parseRect(value, &i, props, "border-width", parseBorderWidth)
	case "border-style":
		parseRect(value, &i, props, "border-style", func(v string, i *int) string {
			return parseWordEnumeration(borderStyles, v, i)
		})
	case "border-color":
		parseRect(value, &i, props, "border-color", parseColor)
	case "border-left-width", "border-right-width", "border-top-width", "border-bottom-width":
		setIfParsed(props, sideSuffixToInternal(name), parseBorderWidth(value, &i))
	case "border-left-color", "border-right-color", "border-top-color", "border-bottom-color":
		setIfParsed(props, sideSuffixToInternal(name), parseColor(value, &i))
	case "border-left-style", "border-right-style", "border-top-style", "border-bottom-style":
		setIfParsed(props, sideSuffixToInternal(name), parseWordEnumeration(borderStyles, value, &i))

	case "list-style":
		parseListStyle(value, &i, props)
	case "list-style-type":
		setIfParsed(props, "list-style-type", parseWordEnumeration(listStyleTypes, value, &i))

	case "float":
		setIfParsed(props, "float", parseWordEnumeration(floats, value, &i))
	case "clear":
		setIfParsed(props, "clear", parseWordEnumeration(clears, value, &i))
	case "display":
		setIfParsed(props, "display", parseWordEnumeration(displays, value, &i))
	}
}

// sideSuffixToInternal rewrites CSS "border-top-width" style names into the
// internal "border-width-top" vocabulary.
func sideSuffixToInternal(name string) string {
	parts := strings.Split(name, "-") // border, side, kind
	return parts[0] + "-" + parts[2] + "-" + parts[1]
}

func setIfParsed(props map[string]string, name, value string) {
	if value != "" {
		props[name] = value
	}
}

// --- primitive parsers -----------------------------------------------------

func skipWhitespace(s string, i *int) {
	for *i < len(s) && (s[*i] == ' ' || s[*i] == '\t' || s[*i] == '\n' || s[*i] == '\r' || s[*i] == '\f') {
		*i++
	}
}

// parseWord consumes one run of word characters (letters, digits, '-').
func parseWord(s string, i *int) string {
	skipWhitespace(s, i)
	start := *i
	for *i < len(s) {
		r := rune(s[*i])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
			break
		}
		*i++
	}
	return s[start:*i]
}

// parseWordEnumeration consumes the next word only when it belongs to the
// given set, returning it lower-cased.
func parseWordEnumeration(words map[string]struct{}, s string, i *int) string {
	save := *i
	word := strings.ToLower(parseWord(s, i))
	if _, ok := words[word]; ok {
		return word
	}
	*i = save
	return ""
}

// parseSize consumes a length with an optional unit from the fixed set and
// normalizes it to CSS pixels; an absent unit means pixels already. Negative
// values are clamped to zero when the property disallows them.
func parseSize(s string, i *int, mustBeNonNegative bool) string {
	skipWhitespace(s, i)
	start := *i
	if *i < len(s) && (s[*i] == '-' || s[*i] == '+') {
		*i++
	}
	digits := 0
	for *i < len(s) && (isDigit(s[*i]) || s[*i] == '.') {
		if isDigit(s[*i]) {
			digits++
		}
		*i++
	}
	if digits == 0 {
		*i = start
		return ""
	}
	num, err := strconv.ParseFloat(s[start:*i], 64)
	if err != nil {
		*i = start
		return ""
	}

	factor := 1.0
	unitStart := *i
	unit := strings.ToLower(parseUnit(s, i))
	switch unit {
	case "", "px":
		factor = 1
	case "pt":
		factor = 96.0 / 72.0
	case "pc":
		factor = 16
	case "in":
		factor = 96
	case "cm":
		factor = 96.0 / 2.54
	case "mm":
		factor = 96.0 / 25.4
	case "em":
		factor = 16 // against the nominal 16px em box
	case "ex":
		factor = 8
	case "%":
		factor = 1 // only the relative magnitude matters downstream
	default:
		// unknown unit: leave it unconsumed and default to pixels
		*i = unitStart
	}

	px := num * factor
	if mustBeNonNegative && px < 0 {
		return "0"
	}
	return formatNumber(px)
}

// parseUnit consumes a directly attached unit suffix (letters or '%').
func parseUnit(s string, i *int) string {
	start := *i
	if *i < len(s) && s[*i] == '%' {
		*i++
		return "%"
	}
	for *i < len(s) && unicode.IsLetter(rune(s[*i])) {
		*i++
	}
	return s[start:*i]
}

// parseColor recognizes #RGB / #RRGGBB hex, rgb()/rgba() functions, the
// named-color table and the system-color table (always mapped to a fixed
// fallback since exact system colors cannot be resolved here).
func parseColor(s string, i *int) string {
	skipWhitespace(s, i)
	if *i >= len(s) {
		return ""
	}

	if s[*i] == '#' {
		*i++
		start := *i
		for *i < len(s) && isHexDigit(s[*i]) {
			*i++
		}
		hex := strings.ToLower(s[start:*i])
		switch len(hex) {
		case 3:
			return "#" + string(hex[0]) + string(hex[0]) + string(hex[1]) + string(hex[1]) + string(hex[2]) + string(hex[2])
		case 6:
			return "#" + hex
		default:
			return ""
		}
	}

	save := *i
	word := strings.ToLower(parseWord(s, i))
	switch {
	case word == "rgb" || word == "rgba":
		return parseRGBFunction(s, i)
	case isNamedColor(word):
		return word
	case isSystemColor(word):
		return systemColorFallback
	}
	*i = save
	return ""
}

const systemColorFallback = "gray"

// parseRGBFunction parses the "(r, g, b[, a])" tail of rgb()/rgba(); the
// alpha component, when present, is ignored. Whitespace before the opening
// parenthesis is tolerated.
func parseRGBFunction(s string, i *int) string {
	skipWhitespace(s, i)
	if *i >= len(s) || s[*i] != '(' {
		return ""
	}
	*i++
	end := strings.IndexByte(s[*i:], ')')
	if end < 0 {
		return ""
	}
	inner := s[*i : *i+end]
	*i += end + 1

	parts := strings.Split(inner, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return ""
	}
	var rgb [3]int
	for n := 0; n < 3; n++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[n]))
		if err != nil {
			return ""
		}
		rgb[n] = min(max(v, 0), 255)
	}
	return "#" + hexByte(rgb[0]) + hexByte(rgb[1]) + hexByte(rgb[2])
}

func hexByte(v int) string {
	const digits = "0123456789abcdef"
	return string(digits[v>>4]) + string(digits[v&0x0f])
}

// parseFont handles the font shorthand: style, variant and weight (each
// optional, in that order), then size, optional "/line-height", then family.
func parseFont(s string, i *int, props map[string]string) {
	setIfParsed(props, "font-style", parseWordEnumeration(fontStyles, s, i))
	setIfParsed(props, "font-variant", parseWordEnumeration(fontVariants, s, i))
	setIfParsed(props, "font-weight", parseWordEnumeration(fontWeights, s, i))

	size := parseSize(s, i, true)
	if size == "" {
		return
	}
	props["font-size"] = size

	skipWhitespace(s, i)
	if *i < len(s) && s[*i] == '/' {
		*i++
		setIfParsed(props, "line-height", parseSize(s, i, true))
	}

	setIfParsed(props, "font-family", parseFontFamily(s, i))
}

// parseFontFamily consumes the rest of the value as a comma-separated
// family list, unquoting each name.
func parseFontFamily(s string, i *int) string {
	skipWhitespace(s, i)
	if *i >= len(s) {
		return ""
	}
	rest := s[*i:]
	*i = len(s)

	var families []string
	for f := range strings.SplitSeq(rest, ",") {
		f = strings.TrimSpace(f)
		f = strings.Trim(f, `"'`)
		if f != "" {
			families = append(families, f)
		}
	}
	return strings.Join(families, ",")
}

// parseTextDecoration reads the decoration keywords and flags each one in
// the bag ("text-decoration-underline" = "true", ...).
func parseTextDecoration(s string, i *int, props map[string]string) {
	for {
		word := parseWordEnumeration(textDecorations, s, i)
		if word == "" {
			return
		}
		if word != "none" {
			props["text-decoration-"+word] = "true"
		}
	}
}

// parseListStyle extracts the marker type from the list-style shorthand.
func parseListStyle(s string, i *int, props map[string]string) {
	for *i < len(s) {
		if t := parseWordEnumeration(listStyleTypes, s, i); t != "" {
			props["list-style-type"] = t
			return
		}
		if parseWord(s, i) == "" {
			return
		}
	}
}

// parseBorderWidth accepts a length or one of the named widths.
func parseBorderWidth(s string, i *int) string {
	if size := parseSize(s, i, true); size != "" {
		return size
	}
	switch parseWordEnumeration(namedBorderWidths, s, i) {
	case "thin":
		return "1"
	case "medium":
		return "3"
	case "thick":
		return "5"
	}
	return ""
}

// parseBorder handles the border shorthand: width, style and color in any
// order, each applied to all four sides.
func parseBorder(s string, i *int, props map[string]string) {
	for {
		progressed := false
		if w := parseBorderWidth(s, i); w != "" {
			applyToAllSides(props, "border-width", w)
			progressed = true
		}
		if st := parseWordEnumeration(borderStyles, s, i); st != "" {
			applyToAllSides(props, "border-style", st)
			progressed = true
		}
		if c := parseColor(s, i); c != "" {
			applyToAllSides(props, "border-color", c)
			progressed = true
		}
		if !progressed {
			return
		}
	}
}

func applyToAllSides(props map[string]string, prefix, value string) {
	for _, side := range []string{"top", "right", "bottom", "left"} {
		props[prefix+"-"+side] = value
	}
}

// parseRect applies the CSS 1/2/3/4-value rectangle expansion: one value
// covers all sides, missing trailing sides mirror their opposite.
func parseRect(s string, i *int, props map[string]string, prefix string, parseOne func(string, *int) string) {
	var values []string
	for len(values) < 4 {
		v := parseOne(s, i)
		if v == "" {
			break
		}
		values = append(values, v)
	}

	var top, right, bottom, left string
	switch len(values) {
	case 0:
		return
	case 1:
		top, right, bottom, left = values[0], values[0], values[0], values[0]
	case 2:
		top, bottom = values[0], values[0]
		right, left = values[1], values[1]
	case 3:
		top = values[0]
		right, left = values[1], values[1]
		bottom = values[2]
	default:
		top, right, bottom, left = values[0], values[1], values[2], values[3]
	}
	props[prefix+"-top"] = top
	props[prefix+"-right"] = right
	props[prefix+"-bottom"] = bottom
	props[prefix+"-left"] = left
}

// ParseLength converts a standalone length string ("50", "12pt", "30px") to
// CSS pixels. Percentages and anything unparseable are rejected - callers
// treat that as "no usable width".
func ParseLength(value string) (float64, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return 0, false
	}
	factor := 1.0
	switch {
	case strings.HasSuffix(value, "pt"):
		value = strings.TrimSuffix(value, "pt")
		factor = 96.0 / 72.0
	case strings.HasSuffix(value, "px"):
		value = strings.TrimSuffix(value, "px")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, false
	}
	return v * factor, true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

var (
	fontStyles   = wordSet("normal", "italic", "oblique")
	fontVariants = wordSet("normal", "small-caps")
	fontWeights  = wordSet("normal", "bold", "bolder", "lighter",
		"100", "200", "300", "400", "500", "600", "700", "800", "900")
	textDecorations = wordSet("none", "underline", "overline", "line-through", "blink")
	textTransforms  = wordSet("none", "capitalize", "uppercase", "lowercase")
	textAligns      = wordSet("left", "right", "center", "justify")
	listStyleTypes  = wordSet("disc", "circle", "square", "decimal",
		"lower-roman", "upper-roman", "lower-alpha", "upper-alpha",
		"lower-latin", "upper-latin", "none")
	borderStyles = wordSet("none", "hidden", "dotted", "dashed", "solid",
		"double", "groove", "ridge", "inset", "outset")
	namedBorderWidths = wordSet("thin", "medium", "thick")
	floats            = wordSet("left", "right", "none")
	clears            = wordSet("left", "right", "both", "none")
	displays          = wordSet("block", "inline", "inline-block", "none")
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

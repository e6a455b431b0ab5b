package convert

import (
	"testing"

	"golang.org/x/net/html"
)

func sides(prefix, left, top, right, bottom string) map[string]string {
	m := map[string]string{}
	if left != "" {
		m[prefix+"-left"] = left
	}
	if top != "" {
		m[prefix+"-top"] = top
	}
	if right != "" {
		m[prefix+"-right"] = right
	}
	if bottom != "" {
		m[prefix+"-bottom"] = bottom
	}
	return m
}

func TestComposeThickness(t *testing.T) {
	cases := []struct {
		local map[string]string
		want  string
	}{
		// all sides equal collapse to one value
		{sides("margin", "5", "5", "5", "5"), "5"},
		// opposite sides equal collapse to a pair
		{sides("margin", "5", "8", "5", "8"), "5,8"},
		{sides("margin", "1", "2", "3", "4"), "1,2,3,4"},
		// absent sides default to zero
		{sides("margin", "16", "", "", ""), "16,0,0,0"},
		// negative and zero-leading values clamp
		{sides("margin", "-5", "0.5", "-5", "0.5"), "0"},
		{map[string]string{}, ""},
	}
	for _, c := range cases {
		if got := composeThickness(c.local, "margin"); got != c.want {
			t.Errorf("%v: got %q, want %q", c.local, got, c.want)
		}
	}
}

func TestFontWeightValue(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"bold", "Bold"},
		{"bolder", "Bold"},
		{"700", "Bold"},
		{"900", "Bold"},
		{"lighter", "Light"},
		{"200", "Light"},
		{"normal", ""},
		{"400", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := fontWeightValue(c.in); got != c.want {
			t.Errorf("%q: got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTextDecorationsValue(t *testing.T) {
	local := map[string]string{
		"text-decoration-underline":    "true",
		"text-decoration-line-through": "true",
	}
	if got := textDecorationsValue(local); got != "Underline,Strikethrough" {
		t.Errorf("got %q", got)
	}
	if got := textDecorationsValue(map[string]string{}); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestBorderBrushValue(t *testing.T) {
	if got := borderBrushValue(map[string]string{"border-color-left": "red"}); got != "red" {
		t.Errorf("got %q, want red", got)
	}
	if got := borderBrushValue(map[string]string{}); got != "Black" {
		t.Errorf("got %q, want Black", got)
	}
}

func TestTagDefaults(t *testing.T) {
	cases := []struct {
		tag  string
		want map[string]string
	}{
		{"b", map[string]string{"font-weight": "bold"}},
		{"em", map[string]string{"font-style": "italic"}},
		{"u", map[string]string{"text-decoration-underline": "true"}},
		{"strike", map[string]string{"text-decoration-line-through": "true"}},
		{"code", map[string]string{"font-family": "Courier New"}},
		{"h1", map[string]string{"font-size": "32", "font-weight": "bold"}},
		{"h6", map[string]string{"font-size": "11", "font-weight": "bold"}},
		{"blockquote", map[string]string{"margin-left": "16"}},
		{"ol", map[string]string{"list-style-type": "decimal"}},
		{"span", map[string]string{}},
	}
	for _, c := range cases {
		props := map[string]string{}
		tagDefaults(c.tag, props)
		if len(props) != len(c.want) {
			t.Errorf("%s: got %v, want %v", c.tag, props, c.want)
			continue
		}
		for k, v := range c.want {
			if props[k] != v {
				t.Errorf("%s: %s = %q, want %q", c.tag, k, props[k], v)
			}
		}
	}
}

func attrElement(name string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: name}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func TestPresentationalAttributes(t *testing.T) {
	props := map[string]string{}
	presentationalAttributes(attrElement("p", "align", "center", "bgcolor", "silver"), props)
	if props["text-align"] != "center" || props["background-color"] != "silver" {
		t.Errorf("got %v", props)
	}

	props = map[string]string{}
	presentationalAttributes(attrElement("font", "face", "Arial", "size", "5", "color", "#FF0000"), props)
	if props["font-family"] != "Arial" || props["font-size"] != "24" || props["color"] != "#ff0000" {
		t.Errorf("got %v", props)
	}

	// percentage widths carry no usable geometry
	props = map[string]string{}
	presentationalAttributes(attrElement("td", "width", "50%"), props)
	if _, ok := props["width"]; ok {
		t.Errorf("percentage width accepted: %v", props)
	}
	props = map[string]string{}
	presentationalAttributes(attrElement("td", "width", "120"), props)
	if props["width"] != "120" {
		t.Errorf("got %v, want width 120", props)
	}
}

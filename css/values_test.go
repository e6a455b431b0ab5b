package css

import (
	"maps"
	"testing"
)

func parse(t *testing.T, decl string) map[string]string {
	t.Helper()
	props := map[string]string{}
	ParseDeclarations(decl, props)
	return props
}

func TestParseDeclarations(t *testing.T) {
	cases := []struct {
		decl string
		want map[string]string
	}{
		{
			"color: red; font-weight: bold",
			map[string]string{"color": "red", "font-weight": "bold"},
		},
		{
			"color: red !important",
			map[string]string{"color": "red"},
		},
		{
			"font-style: italic; text-align: center; text-transform: uppercase",
			map[string]string{"font-style": "italic", "text-align": "center", "text-transform": "uppercase"},
		},
		{
			// unknown properties and unparseable values are skipped
			"zoom: 2; color: notacolor; font-weight: bold",
			map[string]string{"font-weight": "bold"},
		},
		{
			"text-decoration: underline line-through",
			map[string]string{
				"text-decoration-underline":    "true",
				"text-decoration-line-through": "true",
			},
		},
		{
			"list-style: inside square",
			map[string]string{"list-style-type": "square"},
		},
		{
			"float: left; clear: both; display: none",
			map[string]string{"float": "left", "clear": "both", "display": "none"},
		},
	}
	for _, c := range cases {
		if got := parse(t, c.decl); !maps.Equal(got, c.want) {
			t.Errorf("%q: got %v, want %v", c.decl, got, c.want)
		}
	}
}

func TestParseDeclarationsUnits(t *testing.T) {
	cases := []struct {
		decl string
		want string
	}{
		{"font-size: 16px", "16"},
		{"font-size: 16", "16"},
		{"font-size: 12pt", "16"},
		{"font-size: 1in", "96"},
		{"font-size: 2pc", "32"},
		{"font-size: 2.54cm", "96"},
		{"font-size: 25.4mm", "96"},
		{"font-size: 1.5em", "24"},
		{"font-size: 2ex", "16"},
		// percentages pass through by magnitude
		{"font-size: 50%", "50"},
		// negative sizes clamp to zero
		{"font-size: -4px", "0"},
	}
	for _, c := range cases {
		props := parse(t, c.decl)
		if got := props["font-size"]; got != c.want {
			t.Errorf("%q: got %q, want %q", c.decl, got, c.want)
		}
	}

	// text-indent may go negative
	if got := parse(t, "text-indent: -20px")["text-indent"]; got != "-20" {
		t.Errorf("text-indent: got %q, want -20", got)
	}
}

func TestParseDeclarationsColors(t *testing.T) {
	cases := []struct {
		decl string
		want string
	}{
		{"color: red", "red"},
		{"color: #ff8000", "#ff8000"},
		{"color: #ABC", "#aabbcc"},
		{"color: rgb(255, 0, 0)", "#ff0000"},
		{"color: rgba(0, 128, 255, 0.5)", "#0080ff"},
		// out-of-range components saturate
		{"color: rgb(300, -20, 0)", "#ff0000"},
		// system colors resolve to the neutral fallback
		{"color: buttonface", "gray"},
		{"color: WindowText", "gray"},
	}
	for _, c := range cases {
		props := parse(t, c.decl)
		if got := props["color"]; got != c.want {
			t.Errorf("%q: got %q, want %q", c.decl, got, c.want)
		}
	}

	if props := parse(t, "background: silver"); props["background-color"] != "silver" {
		t.Errorf("background: got %v, want background-color silver", props)
	}
}

func TestParseDeclarationsRectExpansion(t *testing.T) {
	cases := []struct {
		decl                     string
		top, right, bottom, left string
	}{
		{"margin: 4px", "4", "4", "4", "4"},
		{"margin: 4px 8px", "4", "8", "4", "8"},
		{"margin: 1px 2px 3px", "1", "2", "3", "2"},
		{"margin: 1px 2px 3px 4px", "1", "2", "3", "4"},
	}
	for _, c := range cases {
		props := parse(t, c.decl)
		got := [4]string{props["margin-top"], props["margin-right"], props["margin-bottom"], props["margin-left"]}
		want := [4]string{c.top, c.right, c.bottom, c.left}
		if got != want {
			t.Errorf("%q: got %v, want %v", c.decl, got, want)
		}
	}

	if props := parse(t, "padding-left: 12pt"); props["padding-left"] != "16" {
		t.Errorf("padding-left: got %v", props)
	}
}

func TestParseDeclarationsFontShorthand(t *testing.T) {
	props := parse(t, `font: italic bold 12pt/15pt "Times New Roman", serif`)
	want := map[string]string{
		"font-style":  "italic",
		"font-weight": "bold",
		"font-size":   "16",
		"line-height": "20",
		"font-family": "Times New Roman,serif",
	}
	if !maps.Equal(props, want) {
		t.Errorf("got %v, want %v", props, want)
	}

	// without a size nothing after the leading keywords applies
	props = parse(t, "font: bold serif")
	if props["font-family"] != "" {
		t.Errorf("family without size: got %v", props)
	}
}

func TestParseDeclarationsBorders(t *testing.T) {
	props := parse(t, "border: 2px solid red")
	for _, side := range []string{"top", "right", "bottom", "left"} {
		if props["border-width-"+side] != "2" {
			t.Errorf("border-width-%s: got %q, want 2", side, props["border-width-"+side])
		}
		if props["border-style-"+side] != "solid" {
			t.Errorf("border-style-%s: got %q, want solid", side, props["border-style-"+side])
		}
		if props["border-color-"+side] != "red" {
			t.Errorf("border-color-%s: got %q, want red", side, props["border-color-"+side])
		}
	}

	// per-side properties rewrite to the internal side-last vocabulary
	props = parse(t, "border-top-width: thin; border-left-color: #000000")
	if props["border-width-top"] != "1" {
		t.Errorf("thin: got %q, want 1", props["border-width-top"])
	}
	if props["border-color-left"] != "#000000" {
		t.Errorf("border-color-left: got %q", props["border-color-left"])
	}

	props = parse(t, "border-width: medium thick")
	if props["border-width-top"] != "3" || props["border-width-right"] != "5" {
		t.Errorf("named widths: got %v", props)
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"50", 50, true},
		{"30px", 30, true},
		{"12pt", 16, true},
		{" 100 ", 100, true},
		{"50%", 0, false},
		{"", 0, false},
		{"wide", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseLength(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseLength(%q): got %v, %v, want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

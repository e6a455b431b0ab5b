package convert

import (
	"strings"
	"testing"
)

func render(t *testing.T, input string, fragment bool) string {
	t.Helper()
	out, err := NewConverter(nil).Convert(input, fragment)
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}
	return out
}

func TestConvertSimpleParagraph(t *testing.T) {
	out := render(t, `<html><body><p style="color: red">Hi&nbsp;there</p></body></html>`, false)
	if !strings.HasPrefix(out, "<FlowDocument") {
		t.Fatalf("output does not open a flow document: %q", out)
	}
	if !strings.Contains(out, `Foreground="red"`) {
		t.Errorf("inline color missing: %q", out)
	}
	if !strings.Contains(out, ">Hi there<") {
		t.Errorf("non-breaking space was not rewritten: %q", out)
	}
}

func TestConvertStylesheetCascade(t *testing.T) {
	out := render(t, `<html><head><style>p { color: green }</style></head><body><p>x</p><p style="color: red">y</p></body></html>`, false)
	if !strings.Contains(out, `Foreground="green"`) {
		t.Errorf("stylesheet rule not applied: %q", out)
	}
	if !strings.Contains(out, `Foreground="red"`) {
		t.Errorf("inline style did not override: %q", out)
	}
}

func TestConvertImplicitParagraph(t *testing.T) {
	out := render(t, "<html><body>loose <b>bold</b> tail<p>block</p></body></html>", false)
	if got := strings.Count(out, "<Paragraph"); got != 2 {
		t.Fatalf("got %d paragraphs, want a synthesized one plus the real one: %q", got, out)
	}
	if !strings.Contains(out, `FontWeight="Bold"`) {
		t.Errorf("bold run missing: %q", out)
	}
}

func TestConvertDiscardsEmptyImplicitParagraph(t *testing.T) {
	out := render(t, "<html><body><p>a</p>   <p>b</p></body></html>", false)
	if got := strings.Count(out, "<Paragraph"); got != 2 {
		t.Errorf("whitespace between paragraphs produced content: %q", out)
	}
}

func TestConvertSectionElision(t *testing.T) {
	// an unstyled div contributes nothing of its own
	out := render(t, "<html><body><div><p>a</p><p>b</p></div></body></html>", false)
	if strings.Contains(out, "<Section") {
		t.Errorf("unstyled wrapper was not elided: %q", out)
	}

	// a styled one survives as a Section
	out = render(t, `<html><body><div style="text-align: center"><p>a</p><p>b</p></div></body></html>`, false)
	if !strings.Contains(out, `<Section TextAlignment="Center"`) {
		t.Errorf("styled wrapper lost: %q", out)
	}

	// without block children it degrades to a paragraph
	out = render(t, "<html><body><div>just text</div></body></html>", false)
	if strings.Contains(out, "<Section") || !strings.Contains(out, "<Paragraph") {
		t.Errorf("inline-only wrapper should become a paragraph: %q", out)
	}
}

func TestConvertHyperlink(t *testing.T) {
	out := render(t, `<html><body><p><a href="page.html#sec">go</a></p></body></html>`, false)
	if !strings.Contains(out, `NavigateUri="page.html"`) {
		t.Errorf("navigation part missing: %q", out)
	}
	if !strings.Contains(out, `TargetName="sec"`) {
		t.Errorf("target part missing: %q", out)
	}

	// no href degrades to plain inline content
	out = render(t, "<html><body><p><a>plain</a></p></body></html>", false)
	if strings.Contains(out, "<Hyperlink") {
		t.Errorf("anchor without href produced a hyperlink: %q", out)
	}
}

func TestConvertBreaks(t *testing.T) {
	out := render(t, "<html><body><p>a<br>b</p></body></html>", false)
	if !strings.Contains(out, "<LineBreak/>") {
		t.Errorf("line break missing: %q", out)
	}

	out = render(t, "<html><body><p>a<hr>b</p></body></html>", false)
	if !strings.Contains(out, ">----------<") {
		t.Errorf("rule placeholder missing: %q", out)
	}
	if got := strings.Count(out, "<LineBreak/>"); got != 2 {
		t.Errorf("got %d line breaks around the rule, want 2: %q", got, out)
	}
}

func TestConvertList(t *testing.T) {
	out := render(t, `<html><body><ul style="list-style-type: square"><li>x</li></ul></body></html>`, false)
	if !strings.Contains(out, `<List MarkerStyle="Square"`) {
		t.Errorf("marker style missing: %q", out)
	}

	// an empty list disappears
	out = render(t, "<html><body><ol></ol><p>a</p></body></html>", false)
	if strings.Contains(out, "<List") {
		t.Errorf("empty list survived: %q", out)
	}
}

func TestConvertOrphanListItems(t *testing.T) {
	out := render(t, "<html><body><li>A</li><li>B</li><li>C</li></body></html>", false)
	if got := strings.Count(out, "<List>"); got != 1 {
		t.Fatalf("got %d lists, want the orphans grouped into one: %q", got, out)
	}
	if got := strings.Count(out, "<ListItem>"); got != 3 {
		t.Errorf("got %d items, want 3: %q", got, out)
	}
}

func TestConvertFragment(t *testing.T) {
	input := `<html><body><p><!--StartFragment--><b>x</b><!--EndFragment--></p></body></html>`

	out := render(t, input, true)
	if !strings.HasPrefix(out, "<Span") {
		t.Fatalf("fragment output does not open a span: %q", out)
	}
	if !strings.Contains(out, `FontWeight="Bold"`) {
		t.Errorf("fragment content missing: %q", out)
	}
	if strings.Contains(out, "<FlowDocument") {
		t.Errorf("document wrapper leaked into fragment output: %q", out)
	}

	// same input without fragment mode keeps the full document
	out = render(t, input, false)
	if !strings.HasPrefix(out, "<FlowDocument") {
		t.Errorf("non-fragment output lost the document wrapper: %q", out)
	}
}

func TestConvertFragmentWithoutMarkers(t *testing.T) {
	// no markers anywhere: fragment mode falls back to the full document
	out := render(t, "<html><body><p>x</p></body></html>", true)
	if !strings.HasPrefix(out, "<FlowDocument") {
		t.Errorf("got %q, want a full document", out)
	}
}

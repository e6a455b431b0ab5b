package flow

import (
	"strings"
	"testing"
)

func TestNewDocument(t *testing.T) {
	doc, root := NewDocument()
	if root.Tag != ElemFlowDocument {
		t.Fatalf("root tag = %q", root.Tag)
	}
	if v := root.SelectAttrValue("xmlns", ""); v != Namespace {
		t.Errorf("xmlns = %q", v)
	}
	if v := root.SelectAttrValue("xml:space", ""); v != "preserve" {
		t.Errorf("xml:space = %q", v)
	}

	out, err := Serialize(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "<FlowDocument") {
		t.Errorf("serialized form %q", out)
	}
}

func TestSerializeAddsNoWhitespace(t *testing.T) {
	doc, root := NewDocument()
	root.CreateElement(ElemParagraph).CreateElement(ElemRun).SetText("a b")

	out, err := Serialize(doc)
	if err != nil {
		t.Fatal(err)
	}
	// indentation would become content under xml:space="preserve"
	if strings.ContainsAny(out, "\n\t") {
		t.Errorf("serialized form carries layout whitespace: %q", out)
	}
	if !strings.Contains(out, "<Paragraph><Run>a b</Run></Paragraph>") {
		t.Errorf("unexpected nesting: %q", out)
	}
}

func TestIsFlowElement(t *testing.T) {
	for _, name := range []string{ElemRun, ElemTableColumns, ElemHyperlink} {
		if !IsFlowElement(name) {
			t.Errorf("%s should belong to the dialect", name)
		}
	}
	if IsFlowElement("p") || IsFlowElement("") {
		t.Error("foreign names accepted")
	}
}

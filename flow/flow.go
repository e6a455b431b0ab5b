// Package flow names the output side of the conversion: the flow-document
// XML dialect (element and attribute vocabulary) and the document shell the
// converter emits into.
package flow

import (
	"github.com/beevik/etree"
)

// Namespace is the flow-document presentation namespace declared on the
// root element.
const Namespace = "http://schemas.microsoft.com/winfx/2006/xaml/presentation"

// Element names of the dialect.
const (
	ElemFlowDocument  = "FlowDocument"
	ElemSection       = "Section"
	ElemParagraph     = "Paragraph"
	ElemRun           = "Run"
	ElemSpan          = "Span"
	ElemHyperlink     = "Hyperlink"
	ElemLineBreak     = "LineBreak"
	ElemList          = "List"
	ElemListItem      = "ListItem"
	ElemTable         = "Table"
	ElemTableColumns  = "Table.Columns"
	ElemTableColumn   = "TableColumn"
	ElemTableRowGroup = "TableRowGroup"
	ElemTableRow      = "TableRow"
	ElemTableCell     = "TableCell"
)

// Attribute names of the dialect.
const (
	AttrFontWeight      = "FontWeight"
	AttrFontStyle       = "FontStyle"
	AttrFontSize        = "FontSize"
	AttrFontFamily      = "FontFamily"
	AttrForeground      = "Foreground"
	AttrBackground      = "Background"
	AttrTextDecorations = "TextDecorations"
	AttrTextIndent      = "TextIndent"
	AttrTextAlignment   = "TextAlignment"
	AttrMargin          = "Margin"
	AttrPadding         = "Padding"
	AttrBorderBrush     = "BorderBrush"
	AttrBorderThickness = "BorderThickness"
	AttrMarkerStyle     = "MarkerStyle"
	AttrNavigateUri     = "NavigateUri"
	AttrTargetName      = "TargetName"
	AttrColumnSpan      = "ColumnSpan"
	AttrRowSpan         = "RowSpan"
	AttrWidth           = "Width"
)

// NewDocument creates an XML document holding an empty flow-document root.
// The root carries xml:space="preserve" since all emitted text has already
// been whitespace-normalized and every remaining space is significant.
func NewDocument() (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	root := doc.CreateElement(ElemFlowDocument)
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("xml:space", "preserve")
	return doc, root
}

// Serialize renders the document without indentation; inserted whitespace
// would become document content under xml:space="preserve".
func Serialize(doc *etree.Document) (string, error) {
	doc.Indent(etree.NoIndent)
	return doc.WriteToString()
}

// IsFlowElement reports whether name belongs to the dialect's element
// vocabulary.
func IsFlowElement(name string) bool {
	switch name {
	case ElemFlowDocument, ElemSection, ElemParagraph, ElemRun, ElemSpan,
		ElemHyperlink, ElemLineBreak, ElemList, ElemListItem, ElemTable,
		ElemTableColumns, ElemTableColumn, ElemTableRowGroup, ElemTableRow,
		ElemTableCell:
		return true
	}
	return false
}

package convert

import (
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"hfc/css"
	"hfc/flow"
	"hfc/markup"
)

// Table conversion. A discovery pre-pass reconstructs a consistent column
// grid from declared cell widths and row spans; emission then replays the
// same bookkeeping to assign each cell its column span. Any row whose
// widths cannot be resolved degrades the whole table to geometry-free
// output rather than emitting a partially correct grid.

// addTable converts a table element. A table holding exactly one cell
// anywhere in its structure is collapsed: the wrapper disappears and the
// cell's children join the surrounding flow directly.
func (cv *conversion) addTable(parent *etree.Element, node *html.Node, inherited map[string]string) {
	if cell := singleCell(node); cell != nil {
		cv.log.Debug("Collapsing single-cell table")
		cv.push(node)
		defer cv.pop()
		current, _ := cv.getElementProperties(node, inherited)
		for n := cell.FirstChild; n != nil; n = n.NextSibling {
			n = cv.addBlock(parent, n, current)
		}
		return
	}

	cv.push(node)
	defer cv.pop()
	current, local := cv.getElementProperties(node, inherited)

	columnStarts := cv.analyzeTableStructure(node)

	table := parent.CreateElement(flow.ElemTable)
	cv.applyLocalProperties(table, local, true)
	cv.markFragment(node, table)
	cv.addColumnInformation(table, node, columnStarts)

	geo := newTableGeometry(columnStarts)
	var pendingGroup *etree.Element
	for n := node.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode {
			continue
		}
		switch n.Data {
		case "tbody", "thead", "tfoot":
			pendingGroup = nil
			geo.resetRowSpans()
			cv.addTableRowGroup(table, n, current, geo)
		case "tr":
			// bare rows get a synthesized row group
			if pendingGroup == nil {
				pendingGroup = table.CreateElement(flow.ElemTableRowGroup)
				geo.resetRowSpans()
			}
			cv.addTableRow(pendingGroup, n, current, geo)
		case "colgroup", "col", "caption":
			// column metadata was consumed above; captions have no place
			// in the output grid
		}
	}
}

// singleCell returns the only td/th of the table, or nil as soon as a
// second cell is found anywhere, including across different row groups.
func singleCell(table *html.Node) *html.Node {
	var cell *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") {
			if cell != nil {
				cell = nil
				return false
			}
			cell = n
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	if !walk(table) {
		return nil
	}
	return cell
}

// addColumnInformation emits Table.Columns: from inferred geometry when the
// discovery pass succeeded, else from literal colgroup/col elements, never
// both.
func (cv *conversion) addColumnInformation(table *etree.Element, node *html.Node, columnStarts []float64) {
	columns := table.CreateElement(flow.ElemTableColumns)
	if len(columnStarts) > 1 {
		for i := 0; i+1 < len(columnStarts); i++ {
			col := columns.CreateElement(flow.ElemTableColumn)
			col.CreateAttr(flow.AttrWidth, formatCoordinate(columnStarts[i+1]-columnStarts[i]))
		}
		return
	}
	for n := node.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode {
			continue
		}
		switch n.Data {
		case "colgroup":
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && c.Data == "col" {
					cv.addColumn(columns, c)
				}
			}
		case "col":
			cv.addColumn(columns, n)
		}
	}
	if len(columns.ChildElements()) == 0 {
		table.RemoveChild(columns)
	}
}

func (cv *conversion) addColumn(columns *etree.Element, col *html.Node) {
	el := columns.CreateElement(flow.ElemTableColumn)
	if v, ok := markup.GetAttribute(col, "width"); ok {
		if w, ok := css.ParseLength(v); ok && w > 0 {
			el.CreateAttr(flow.AttrWidth, formatCoordinate(w))
		}
	}
}

func (cv *conversion) addTableRowGroup(table *etree.Element, node *html.Node, inherited map[string]string, geo *tableGeometry) {
	cv.push(node)
	defer cv.pop()
	current, local := cv.getElementProperties(node, inherited)

	group := table.CreateElement(flow.ElemTableRowGroup)
	cv.applyLocalProperties(group, local, true)
	cv.markFragment(node, group)
	for n := node.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && n.Data == "tr" {
			cv.addTableRow(group, n, current, geo)
		}
	}
}

func (cv *conversion) addTableRow(group *etree.Element, node *html.Node, inherited map[string]string, geo *tableGeometry) {
	cv.push(node)
	defer cv.pop()
	current, local := cv.getElementProperties(node, inherited)

	row := group.CreateElement(flow.ElemTableRow)
	cv.applyLocalProperties(row, local, true)
	cv.markFragment(node, row)

	geo.beginRow()
	for n := node.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") {
			last := lastCellInRow(n)
			cv.addTableCell(row, n, current, geo, last)
		}
	}
	geo.endRow()
}

func lastCellInRow(cell *html.Node) bool {
	for n := cell.NextSibling; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") {
			return false
		}
	}
	return true
}

func (cv *conversion) addTableCell(row *etree.Element, node *html.Node, inherited map[string]string, geo *tableGeometry, lastInRow bool) {
	cv.push(node)
	defer cv.pop()
	current, local := cv.getElementProperties(node, inherited)

	cell := row.CreateElement(flow.ElemTableCell)

	rowSpan := intAttribute(node, "rowspan", 1)
	if rowSpan > 1 {
		cell.CreateAttr(flow.AttrRowSpan, strconv.Itoa(rowSpan))
	}

	if geo.available() {
		span := geo.placeCell(cellWidth(node), rowSpan, lastInRow)
		if span > 1 {
			cell.CreateAttr(flow.AttrColumnSpan, strconv.Itoa(span))
		}
	} else if cs := intAttribute(node, "colspan", 1); cs > 1 {
		cell.CreateAttr(flow.AttrColumnSpan, strconv.Itoa(cs))
	}

	// grid cells always carry a visible border unless styled otherwise
	if _, ok := local["border-width-top"]; !ok {
		cell.CreateAttr(flow.AttrBorderThickness, "1,1,1,1")
		cell.CreateAttr(flow.AttrBorderBrush, borderBrushValue(local))
	}
	cv.applyLocalProperties(cell, local, true)
	cv.markFragment(node, cell)

	for n := node.FirstChild; n != nil; n = n.NextSibling {
		n = cv.addBlock(cell, n, current)
	}
}

// --- geometry discovery ----------------------------------------------------

// analyzeTableStructure walks every row of the table accumulating column
// start coordinates. Returns the ascending columnStarts (terminated by the
// table width) or nil when no consistent geometry can be derived.
func (cv *conversion) analyzeTableStructure(table *html.Node) []float64 {
	if markup.FirstElement(table, "td") == nil && markup.FirstElement(table, "th") == nil {
		return nil
	}

	var columnStarts []float64
	var activeRowSpans []int
	tableWidth := 0.0

	for n := table.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode {
			continue
		}
		switch n.Data {
		case "tbody", "thead", "tfoot":
			// spans never cross row-group boundaries
			clearRowSpans(activeRowSpans)
			for r := n.FirstChild; r != nil; r = r.NextSibling {
				if r.Type == html.ElementNode && r.Data == "tr" {
					rowWidth, ok := analyzeRow(r, &columnStarts, &activeRowSpans)
					if !ok {
						cv.log.Debug("Table geometry unavailable", zap.String("reason", "unresolvable row"))
						return nil
					}
					tableWidth = max(tableWidth, rowWidth)
				}
			}
		case "tr":
			rowWidth, ok := analyzeRow(n, &columnStarts, &activeRowSpans)
			if !ok {
				cv.log.Debug("Table geometry unavailable", zap.String("reason", "unresolvable row"))
				return nil
			}
			tableWidth = max(tableWidth, rowWidth)
		}
	}

	if len(columnStarts) == 0 {
		return nil
	}
	columnStarts = append(columnStarts, tableWidth)
	if !strictlyAscending(columnStarts) {
		cv.log.Debug("Table geometry unavailable", zap.String("reason", "column starts not ascending"))
		return nil
	}
	return columnStarts
}

// analyzeRow registers one row's cells in the column grid. Returns the
// row's end coordinate, or ok=false when a cell width is missing or a span
// conflict makes the layout ambiguous.
func analyzeRow(tr *html.Node, columnStarts *[]float64, activeRowSpans *[]int) (float64, bool) {
	columnIndex := 0
	columnStart := 0.0

	for n := tr.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode || (n.Data != "td" && n.Data != "th") {
			continue
		}

		// pass over columns still covered by spanning cells from rows above
		// and over boundaries left of this cell's start coordinate
		for columnIndex < len(*columnStarts) &&
			((*activeRowSpans)[columnIndex] > 0 || (*columnStarts)[columnIndex]+epsilon < columnStart) {
			if (*activeRowSpans)[columnIndex] > 0 {
				(*activeRowSpans)[columnIndex]--
				if columnIndex+1 < len(*columnStarts) {
					columnStart = max(columnStart, (*columnStarts)[columnIndex+1])
				}
			}
			columnIndex++
		}

		width, ok := cellWidthOK(n)
		if !ok {
			return 0, false
		}

		switch {
		case columnIndex >= len(*columnStarts):
			*columnStarts = append(*columnStarts, columnStart)
			*activeRowSpans = append(*activeRowSpans, 0)
		case columnStart+epsilon < (*columnStarts)[columnIndex]:
			// the cell begins at a coordinate not in the grid yet
			*columnStarts = slices.Insert(*columnStarts, columnIndex, columnStart)
			*activeRowSpans = slices.Insert(*activeRowSpans, columnIndex, 0)
		default:
			columnStart = (*columnStarts)[columnIndex]
		}

		nextIndex, ok := nextColumnIndex(columnIndex, width, *columnStarts, *activeRowSpans)
		if !ok {
			return 0, false
		}

		rowSpan := intAttribute(n, "rowspan", 1)
		for i := columnIndex; i < nextIndex && i < len(*activeRowSpans); i++ {
			(*activeRowSpans)[i] = rowSpan - 1
		}

		columnStart += width
		columnIndex = nextIndex
	}

	// burn this row out of any trailing spans
	for ; columnIndex < len(*activeRowSpans); columnIndex++ {
		if (*activeRowSpans)[columnIndex] > 0 {
			(*activeRowSpans)[columnIndex]--
			if columnIndex < len(*columnStarts) {
				columnStart = max(columnStart, (*columnStarts)[columnIndex])
			}
		}
	}
	return columnStart, true
}

// nextColumnIndex finds the column index where the next cell begins, given
// this cell's declared width. Spanning into a column pre-occupied by an
// active row span is a conflict.
func nextColumnIndex(columnIndex int, width float64, columnStarts []float64, activeRowSpans []int) (int, bool) {
	columnStart := columnStarts[columnIndex]
	next := columnIndex + 1
	for next < len(columnStarts) && columnStarts[next] < columnStart+width-epsilon {
		if activeRowSpans[next] > 0 {
			return 0, false
		}
		next++
	}
	return next, true
}

const epsilon = 0.01

func strictlyAscending(starts []float64) bool {
	for i := 1; i < len(starts); i++ {
		if starts[i] <= starts[i-1] {
			return false
		}
	}
	return true
}

func clearRowSpans(spans []int) {
	for i := range spans {
		spans[i] = 0
	}
}

// cellWidth reads a cell's declared width for the replay pass, 0 when
// absent.
func cellWidth(cell *html.Node) float64 {
	w, _ := cellWidthOK(cell)
	return w
}

// cellWidthOK resolves the declared width of a cell from its width
// attribute or its inline style. Absent, zero or unparseable widths leave
// the table without usable geometry.
func cellWidthOK(cell *html.Node) (float64, bool) {
	if v, ok := markup.GetAttribute(cell, "width"); ok {
		if w, ok := css.ParseLength(v); ok && w > 0 {
			return w, true
		}
		return 0, false
	}
	if style, ok := markup.GetAttribute(cell, "style"); ok {
		props := map[string]string{}
		css.ParseDeclarations(style, props)
		if v, ok := props["width"]; ok {
			if w, err := strconv.ParseFloat(v, 64); err == nil && w > 0 {
				return w, true
			}
		}
	}
	return 0, false
}

func intAttribute(n *html.Node, name string, def int) int {
	v, ok := markup.GetAttribute(n, name)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || i < 1 {
		return def
	}
	return i
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// --- geometry replay -------------------------------------------------------

// tableGeometry replays the discovery bookkeeping during emission with
// fresh row-span state, handing each cell its column span.
type tableGeometry struct {
	columnStarts   []float64
	activeRowSpans []int
	columnIndex    int
}

func newTableGeometry(columnStarts []float64) *tableGeometry {
	g := &tableGeometry{columnStarts: columnStarts}
	if len(columnStarts) > 0 {
		g.activeRowSpans = make([]int, len(columnStarts)-1)
	}
	return g
}

func (g *tableGeometry) available() bool {
	return len(g.columnStarts) > 1
}

func (g *tableGeometry) resetRowSpans() {
	clearRowSpans(g.activeRowSpans)
}

func (g *tableGeometry) beginRow() {
	g.columnIndex = 0
}

func (g *tableGeometry) endRow() {
	for ; g.columnIndex < len(g.activeRowSpans); g.columnIndex++ {
		if g.activeRowSpans[g.columnIndex] > 0 {
			g.activeRowSpans[g.columnIndex]--
		}
	}
}

// placeCell assigns the current cell its column position and span. The last
// cell of a row stretches over all remaining unoccupied columns so that a
// short row still fills the full grid width.
func (g *tableGeometry) placeCell(width float64, rowSpan int, lastInRow bool) int {
	for g.columnIndex < len(g.activeRowSpans) && g.activeRowSpans[g.columnIndex] > 0 {
		g.activeRowSpans[g.columnIndex]--
		g.columnIndex++
	}
	if g.columnIndex >= len(g.activeRowSpans) {
		return 1
	}

	span := g.columnSpan(g.columnIndex, width)
	if lastInRow {
		if rest := len(g.activeRowSpans) - g.columnIndex; rest > span && g.restUnoccupied(g.columnIndex+span) {
			span = rest
		}
	}

	for i := g.columnIndex; i < g.columnIndex+span && i < len(g.activeRowSpans); i++ {
		g.activeRowSpans[i] = rowSpan - 1
	}
	g.columnIndex += span
	return span
}

// columnSpan counts how many column slices the declared width covers from
// the given index.
func (g *tableGeometry) columnSpan(index int, width float64) int {
	if width <= 0 {
		return 1
	}
	covered := 0.0
	next := index
	for covered < width-epsilon && next < len(g.columnStarts)-1 {
		covered += g.columnStarts[next+1] - g.columnStarts[next]
		next++
	}
	if next == index {
		return 1
	}
	return next - index
}

func (g *tableGeometry) restUnoccupied(from int) bool {
	for i := from; i < len(g.activeRowSpans); i++ {
		if g.activeRowSpans[i] > 0 {
			return false
		}
	}
	return true
}

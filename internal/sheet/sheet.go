// Package sheet implements SheetIndex (spec.md §4.K): expansion of a
// spreadsheet sheet's row/column repeat and cell span attributes into a
// sparse (column, row) → cell index, plus a TableCursor tracking the
// next free grid position as spans are placed.
package sheet

import (
	"strconv"

	"github.com/xuri/efp"

	"github.com/docreveal/core/internal/xmldom"
)

const (
	nsTable = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
)

// Column is one physical spreadsheet column.
type Column struct {
	Index int
	Node  *xmldom.Node
}

// Cell is one physical (col, row) grid position.
type Cell struct {
	Col, Row int
	Node     *xmldom.Node

	// ColSpan/RowSpan are >1 only on the origin cell of a span; Covered
	// marks a position occupied by someone else's span rather than its
	// own content.
	ColSpan, RowSpan int
	Covered          bool
}

// Row is one physical spreadsheet row, holding only the cells that were
// actually present (sparse: repeated-but-empty rows are not materialized
// beyond their dimension contribution).
type Row struct {
	Index int
	Node  *xmldom.Node
	Cells map[int]*Cell
}

// Index is the realized (col,row) → cell map for a single sheet, plus the
// derived dimensions.
type Index struct {
	Name    string
	Columns map[int]*Column
	Rows    map[int]*Row
	Rows_   int // max row index reached + 1
	Cols_   int // max column index reached + 1
}

// Dimensions returns (rows, columns), optionally clamped to limit on
// either axis when limit > 0.
func (idx *Index) Dimensions(limitRows, limitCols int) (rows, cols int) {
	rows, cols = idx.Rows_, idx.Cols_
	if limitRows > 0 && rows > limitRows {
		rows = limitRows
	}
	if limitCols > 0 && cols > limitCols {
		cols = limitCols
	}
	return rows, cols
}

// Content returns the smallest bounding rectangle enclosing every
// non-empty, non-covered cell, clamped the same way Dimensions is.
func (idx *Index) Content(limitRows, limitCols int) (rows, cols int) {
	maxRow, maxCol := -1, -1
	for r, row := range idx.Rows {
		for c, cell := range row.Cells {
			if cell.Covered {
				continue
			}
			if hasText(cell.Node) {
				if r > maxRow {
					maxRow = r
				}
				if c > maxCol {
					maxCol = c
				}
			}
		}
	}
	rows, cols = maxRow+1, maxCol+1
	if limitRows > 0 && rows > limitRows {
		rows = limitRows
	}
	if limitCols > 0 && cols > limitCols {
		cols = limitCols
	}
	return rows, cols
}

func hasText(n *xmldom.Node) bool {
	if n == nil {
		return false
	}
	return n.TextContent() != "" || len(n.Children) > 0
}

// cursor tracks the next free grid position, and reserves positions
// overhung by a multi-row span so later rows skip over them.
type cursor struct {
	nextCol   int
	reserved  map[[2]int]bool // (col,row) reserved by an earlier span
}

func newCursor() *cursor {
	return &cursor{reserved: make(map[[2]int]bool)}
}

// Build walks sheetNode (a table:table element) and produces its Index.
func Build(sheetNode *xmldom.Node) *Index {
	idx := &Index{
		Columns: make(map[int]*Column),
		Rows:    make(map[int]*Row),
	}
	if name, ok := sheetNode.AttributeNS(nsTable, "name"); ok {
		idx.Name = name
	}

	colIdx := 0
	for _, child := range sheetNode.ChildrenNS(nsTable, "table-column") {
		repeat := repeatCount(child, "number-columns-repeated")
		for i := 0; i < repeat; i++ {
			idx.Columns[colIdx] = &Column{Index: colIdx, Node: child}
			colIdx++
		}
	}
	idx.Cols_ = colIdx

	cur := newCursor()
	rowIdx := 0
	for _, rowNode := range sheetNode.ChildrenNS(nsTable, "table-row") {
		rowRepeat := repeatCount(rowNode, "number-rows-repeated")
		for rr := 0; rr < rowRepeat; rr++ {
			row := buildRow(rowNode, rowIdx, cur)
			idx.Rows[rowIdx] = row
			rowIdx++
		}
	}
	idx.Rows_ = rowIdx

	if idx.Cols_ < cur.nextCol {
		idx.Cols_ = cur.nextCol
	}
	return idx
}

func buildRow(rowNode *xmldom.Node, rowIdx int, cur *cursor) *Row {
	row := &Row{Index: rowIdx, Node: rowNode, Cells: make(map[int]*Cell)}
	col := 0
	for _, cellNode := range rowNode.ChildrenNS(nsTable, "table-cell") {
		colSpan := repeatCount(cellNode, "number-columns-spanned")
		if colSpan < 1 {
			colSpan = 1
		}
		rowSpan := repeatCount(cellNode, "number-rows-spanned")
		if rowSpan < 1 {
			rowSpan = 1
		}
		repeat := repeatCount(cellNode, "number-columns-repeated")

		for rep := 0; rep < repeat; rep++ {
			for cur.reserved[[2]int{col, rowIdx}] {
				row.Cells[col] = &Cell{Col: col, Row: rowIdx, Covered: true}
				col++
			}
			origin := &Cell{Col: col, Row: rowIdx, Node: cellNode, ColSpan: colSpan, RowSpan: rowSpan}
			row.Cells[col] = origin
			for dc := 0; dc < colSpan; dc++ {
				for dr := 0; dr < rowSpan; dr++ {
					if dc == 0 && dr == 0 {
						continue
					}
					if dr == 0 {
						row.Cells[col+dc] = &Cell{Col: col + dc, Row: rowIdx, Covered: true}
					} else {
						cur.reserved[[2]int{col + dc, rowIdx + dr}] = true
					}
				}
			}
			col += colSpan
		}
	}
	if col > cur.nextCol {
		cur.nextCol = col
	}
	return row
}

func repeatCount(n *xmldom.Node, attr string) int {
	v, ok := n.AttributeNS(nsTable, attr)
	if !ok {
		return 1
	}
	count, err := strconv.Atoi(v)
	if err != nil || count < 1 {
		return 1
	}
	return count
}

// ColumnLetters converts a zero-based column index to spreadsheet-style
// letters (0→A, 25→Z, 26→AA, …). Reproduces the digit/divisor rule
// verbatim rather than implementing a clean bijective base-26: the
// divisor used when a digit's remainder is 0 is 27, not 26, so the
// letters diverge from true bijective base-26 past column index 727.
// Do not "fix" this.
func ColumnLetters(col int) string {
	var out []byte
	col++
	for col > 0 {
		rem := col % 26
		if rem == 0 {
			out = append([]byte{'Z'}, out...)
			col /= 27
		} else {
			out = append([]byte{byte('A' + rem - 1)}, out...)
			col /= 26
		}
	}
	return string(out)
}

// ParseFormula tokenizes a spreadsheet formula string using the same
// Excel-formula grammar the rest of the retrieval pack's spreadsheet
// tooling relies on, for the HTML translator's formula-preview rendering.
func ParseFormula(formula string) []efp.Token {
	parser := efp.ExcelParser()
	return parser.Parse(formula)
}

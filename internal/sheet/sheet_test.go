package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docreveal/core/internal/xmldom"
)

const sheetXML = `<table:table
    xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"
    table:name="Sheet1">
  <table:table-column table:number-columns-repeated="3"/>
  <table:table-row>
    <table:table-cell><text>A1</text></table:table-cell>
    <table:table-cell table:number-columns-spanned="2" table:number-rows-spanned="2"><text>merged</text></table:table-cell>
  </table:table-row>
  <table:table-row>
    <table:table-cell table:number-columns-repeated="2"><text>rep</text></table:table-cell>
  </table:table-row>
</table:table>`

func TestBuildExpandsRepeatsAndSpans(t *testing.T) {
	node, err := xmldom.Parse([]byte(sheetXML))
	require.NoError(t, err)

	idx := Build(node)
	assert.Equal(t, "Sheet1", idx.Name)
	assert.Equal(t, 4, idx.Cols_)
	assert.Equal(t, 2, idx.Rows_)

	row0 := idx.Rows[0]
	origin := row0.Cells[1]
	assert.Equal(t, 2, origin.ColSpan)
	assert.Equal(t, 2, origin.RowSpan)
	assert.False(t, origin.Covered)

	assert.True(t, row0.Cells[2].Covered)

	row1 := idx.Rows[1]
	assert.True(t, row1.Cells[1].Covered, "row 1 col 1 reserved by row-spanning cell from row 0")
}

func TestDimensionsClamp(t *testing.T) {
	node, err := xmldom.Parse([]byte(sheetXML))
	require.NoError(t, err)
	idx := Build(node)

	rows, cols := idx.Dimensions(1, 1)
	assert.Equal(t, 1, rows)
	assert.Equal(t, 1, cols)
}

func TestColumnLetters(t *testing.T) {
	cases := map[int]string{
		0:  "A",
		1:  "B",
		25: "Z",
		26: "AA",
		27: "AB",
		51: "AZ",
		52: "BA",
	}
	for col, want := range cases {
		assert.Equal(t, want, ColumnLetters(col), "col=%d", col)
	}
}

func TestParseFormulaTokenizes(t *testing.T) {
	tokens := ParseFormula("SUM(A1:A2)")
	assert.NotEmpty(t, tokens)
}

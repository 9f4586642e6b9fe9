package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docreveal/core/internal/element"
	"github.com/docreveal/core/internal/xmldom"
	"github.com/docreveal/core/pkg/docpath"
)

const docXML = `<doc>
  <table>
    <tr><td>A</td><td>B</td></tr>
    <tr><td>C</td><td>D</td></tr>
  </table>
</doc>`

func buildCursor(t *testing.T) (*Cursor, int) {
	t.Helper()
	root, err := xmldom.Parse([]byte(docXML))
	require.NoError(t, err)

	reg := element.NewRegistry()
	rootIdx := element.NewRoot(reg)
	require.NoError(t, element.Build(reg, rootIdx, root))

	c := New(reg, nil, rootIdx)
	return c, rootIdx
}

func TestMoveToFirstChildAndParent(t *testing.T) {
	c, rootIdx := buildCursor(t)
	require.True(t, c.MoveToFirstChild())
	assert.NotEqual(t, rootIdx, c.Current())

	require.True(t, c.MoveToParent())
	assert.Equal(t, rootIdx, c.Current())

	assert.False(t, c.MoveToParent(), "cannot move above root")
}

func TestMoveToNextAndPreviousSibling(t *testing.T) {
	c, _ := buildCursor(t)
	require.True(t, c.MoveToFirstChild()) // table
	require.True(t, c.MoveToFirstChild()) // row 0

	require.True(t, c.MoveToNextSibling()) // row 1
	assert.False(t, c.MoveToNextSibling(), "no third row")

	require.True(t, c.MoveToPreviousSibling()) // back to row 0
}

func TestCurrentPathRoundTrip(t *testing.T) {
	c, _ := buildCursor(t)
	c.MoveToFirstChild()
	c.MoveToFirstChild()
	c.MoveToNextSibling()

	path := c.CurrentPath()
	assert.Equal(t, "/Child:0/Child:1", path.String())
}

func TestForEachTableRowRestoresCursor(t *testing.T) {
	c, _ := buildCursor(t)
	c.MoveToFirstChild() // table
	start := c.Current()

	var seen int
	c.ForEachTableRow(func(cur *Cursor, index int) bool {
		seen++
		return true
	})
	assert.Equal(t, 2, seen)
	assert.Equal(t, start, c.Current(), "cursor restored to table after for-each")
}

func TestMoveRewalksFromRoot(t *testing.T) {
	c, rootIdx := buildCursor(t)
	path := docpath.Path{{Kind: docpath.Child, Index: 0}, {Kind: docpath.Child, Index: 1}}
	require.NoError(t, c.Move(rootIdx, path))
	assert.Equal(t, "/Child:0/Child:1", c.CurrentPath().String())
}

func TestMoveFailsOnUnresolvablePath(t *testing.T) {
	c, rootIdx := buildCursor(t)
	path := docpath.Path{{Kind: docpath.Child, Index: 99}}
	err := c.Move(rootIdx, path)
	assert.Error(t, err)
}

// sheetShapeXML anchors two draw:frame shapes directly under a
// table:table, the same arrangement a spreadsheet's floating shapes
// take — both are built as plain TypeFrame elements (there is no
// dedicated sheet-shape constructor), so ForEachSheetShape/
// MoveToFirstSheetShape must find them via typeMatchesFilter's widening
// rather than an exact Type match.
const sheetShapeXML = `<doc
  xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"
  xmlns:draw="urn:oasis:names:tc:opendocument:xmlns:drawing:1.0">
  <table:table>
    <draw:frame/>
    <draw:frame/>
  </table:table>
</doc>`

func buildSheetShapeCursor(t *testing.T) *Cursor {
	t.Helper()
	root, err := xmldom.Parse([]byte(sheetShapeXML))
	require.NoError(t, err)

	reg := element.NewRegistry()
	rootIdx := element.NewRoot(reg)
	require.NoError(t, element.Build(reg, rootIdx, root))

	c := New(reg, nil, rootIdx)
	require.True(t, c.MoveToFirstChild()) // table:table
	return c
}

func TestMoveToFirstSheetShapeMatchesFrame(t *testing.T) {
	c := buildSheetShapeCursor(t)
	require.True(t, c.MoveToFirstSheetShape())
	assert.Equal(t, element.TypeFrame, c.reg.Get(c.Current()).Type)
}

func TestForEachSheetShapeFindsBothFrames(t *testing.T) {
	c := buildSheetShapeCursor(t)
	start := c.Current()

	var seen int
	c.ForEachSheetShape(func(cur *Cursor, index int) bool {
		seen++
		assert.Equal(t, element.TypeFrame, cur.reg.Get(cur.Current()).Type)
		return true
	})
	assert.Equal(t, 2, seen)
	assert.Equal(t, start, c.Current())
}

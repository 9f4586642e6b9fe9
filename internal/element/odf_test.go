package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docreveal/core/internal/xmldom"
)

const odfSampleXML = `<office:text
  xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0"
  xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"
  xmlns:draw="urn:oasis:names:tc:opendocument:xmlns:drawing:1.0">
  <text:p text:style-name="Standard">Hello</text:p>
  <text:list>
    <text:list-item><text:p>item one</text:p></text:list-item>
  </text:list>
  <draw:frame>
    <draw:image/>
  </draw:frame>
</office:text>`

func buildOdfTree(t *testing.T) (*Registry, int) {
	t.Helper()
	root, err := xmldom.Parse([]byte(odfSampleXML))
	require.NoError(t, err)

	reg := NewRegistry()
	rootIdx := NewRoot(reg)
	require.NoError(t, Build(reg, rootIdx, root))
	return reg, rootIdx
}

func TestOdfDispatchBuildsRealVocabulary(t *testing.T) {
	reg, rootIdx := buildOdfTree(t)
	root := reg.Get(rootIdx)

	var types []Type
	for i := root.FirstChild; i != noIndex; i = reg.Get(i).NextSibling {
		types = append(types, reg.Get(i).Type)
	}
	assert.Equal(t, []Type{TypeParagraph, TypeList, TypeFrame}, types)
}

func TestOdfListAndListItem(t *testing.T) {
	reg, rootIdx := buildOdfTree(t)
	root := reg.Get(rootIdx)
	p := reg.Get(root.FirstChild)
	list := reg.Get(p.NextSibling)
	require.Equal(t, TypeList, list.Type)

	item := reg.Get(list.FirstChild)
	assert.Equal(t, TypeListItem, item.Type)
}

func TestOdfFrameContainsImage(t *testing.T) {
	reg, rootIdx := buildOdfTree(t)
	root := reg.Get(rootIdx)
	frame := reg.Get(root.LastChild)
	require.Equal(t, TypeFrame, frame.Type)

	img := reg.Get(frame.FirstChild)
	assert.Equal(t, TypeImage, img.Type)
}

func TestBuildSheetProducesTypeSheet(t *testing.T) {
	tableXML := `<table:table
  xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"
  table:name="Sheet1">
  <table:table-row><table:table-cell/></table:table-row>
</table:table>`
	node, err := xmldom.Parse([]byte(tableXML))
	require.NoError(t, err)

	reg := NewRegistry()
	rootIdx := NewRoot(reg)
	sheetIdx, err := BuildSheet(reg, rootIdx, node)
	require.NoError(t, err)

	sheet := reg.Get(sheetIdx)
	assert.Equal(t, TypeSheet, sheet.Type)
	row := reg.Get(sheet.FirstChild)
	assert.Equal(t, TypeTableRow, row.Type)
}

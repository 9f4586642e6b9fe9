package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docreveal/core/internal/xmldom"
)

const sampleXML = `<doc>
  <p style-name="Heading">Hello<br/>World</p>
  <table>
    <tr><td>A</td><td>B</td></tr>
  </table>
  <unknown-thing>ignored</unknown-thing>
</doc>`

func buildTree(t *testing.T) (*Registry, int) {
	t.Helper()
	root, err := xmldom.Parse([]byte(sampleXML))
	require.NoError(t, err)

	reg := NewRegistry()
	rootIdx := NewRoot(reg)
	require.NoError(t, Build(reg, rootIdx, root))
	return reg, rootIdx
}

func TestBuildSkipsUnknownElements(t *testing.T) {
	reg, rootIdx := buildTree(t)
	root := reg.Get(rootIdx)

	var names []string
	for i := root.FirstChild; i != noIndex; i = reg.Get(i).NextSibling {
		names = append(names, reg.Get(i).Name)
	}
	assert.Equal(t, []string{"p", "table"}, names)
}

func TestParagraphStyleNameAndTextRunMerge(t *testing.T) {
	reg, rootIdx := buildTree(t)
	root := reg.Get(rootIdx)
	p := reg.Get(root.FirstChild)

	assert.Equal(t, "Heading", p.StyleName)

	var texts []string
	for i := p.FirstChild; i != noIndex; i = reg.Get(i).NextSibling {
		texts = append(texts, reg.Get(i).Text)
	}
	require.Len(t, texts, 1)
	assert.Equal(t, "HelloWorld", texts[0])
}

func TestTableRowAndCellWiring(t *testing.T) {
	reg, rootIdx := buildTree(t)
	root := reg.Get(rootIdx)
	table := reg.Get(root.LastChild)
	assert.Equal(t, TypeTable, table.Type)

	row := reg.Get(table.FirstChild)
	assert.Equal(t, TypeTableRow, row.Type)

	cell1 := reg.Get(row.FirstChild)
	cell2 := reg.Get(row.LastChild)
	assert.NotEqual(t, cell1.ID, cell2.ID)
	assert.Equal(t, cell1.ID, reg.Get(cell2.PrevSibling).ID)
}

func TestElementIDsAreUniqueAndStable(t *testing.T) {
	reg, rootIdx := buildTree(t)
	seen := map[ID]bool{}
	for i := 0; i < reg.Len(); i++ {
		e := reg.Get(i)
		assert.False(t, seen[e.ID], "duplicate ID at index %d", i)
		seen[e.ID] = true
	}
	assert.NotEqual(t, ID{}, reg.Get(rootIdx).ID)
}

package html

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docreveal/core/internal/cursor"
	"github.com/docreveal/core/internal/element"
	"github.com/docreveal/core/internal/style"
	"github.com/docreveal/core/internal/xmldom"
)

const textDocXML = `<doc>
  <p>Hello<br/>World</p>
</doc>`

func TestTranslateTextDocument(t *testing.T) {
	root, err := xmldom.Parse([]byte(textDocXML))
	require.NoError(t, err)

	reg := element.NewRegistry()
	rootIdx := element.NewRoot(reg)
	require.NoError(t, element.Build(reg, rootIdx, root))

	c := cursor.New(reg, nil, rootIdx)
	tr := New(c, reg, DocumentText, Options{})
	out := tr.Translate()

	assert.Contains(t, out, "<div class=\"outer-page-style\">")
	assert.Contains(t, out, "<p>")
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "<br>")
	assert.Contains(t, out, "World")
}

const presentationXML = `<office:presentation
  xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:draw="urn:oasis:names:tc:opendocument:xmlns:drawing:1.0"
  xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">
  <draw:page draw:name="Slide One"><text:p>First</text:p></draw:page>
  <draw:page draw:name="Slide Two"><text:p>Second</text:p></draw:page>
  <draw:page draw:name="Slide Three"><text:p>Third</text:p></draw:page>
</office:presentation>`

func buildPresentationCursor(t *testing.T) (*element.Registry, *cursor.Cursor) {
	t.Helper()
	root, err := xmldom.Parse([]byte(presentationXML))
	require.NoError(t, err)

	reg := element.NewRegistry()
	rootIdx := element.NewRoot(reg)
	require.NoError(t, element.Build(reg, rootIdx, root))
	return reg, cursor.New(reg, nil, rootIdx)
}

func TestTranslatePresentationRendersEveryPageByDefault(t *testing.T) {
	reg, c := buildPresentationCursor(t)
	out := New(c, reg, DocumentPresentation, Options{}).Translate()

	assert.Contains(t, out, "First")
	assert.Contains(t, out, "Second")
	assert.Contains(t, out, "Third")
}

func TestTranslatePresentationHonorsEntryPagination(t *testing.T) {
	reg, c := buildPresentationCursor(t)
	out := New(c, reg, DocumentPresentation, Options{EntryOffset: 1, EntryCount: 1}).Translate()

	assert.NotContains(t, out, "First")
	assert.Contains(t, out, "Second")
	assert.NotContains(t, out, "Third")
}

func TestStyleToCSSCollapsesUniformDirectional(t *testing.T) {
	one := "1px"
	resolved := style.ResolvedStyle{
		TableCell: style.TableCellStyle{
			Padding: style.DirectionalStyle[string]{Top: &one, Bottom: &one, Left: &one, Right: &one},
		},
	}
	css := StyleToCSS(resolved)
	assert.Contains(t, css, "padding:1px")
	assert.NotContains(t, css, "padding-top")
}

func TestStyleToCSSEmitsPerSideWhenNotUniform(t *testing.T) {
	one, two := "1px", "2px"
	resolved := style.ResolvedStyle{
		TableCell: style.TableCellStyle{
			Padding: style.DirectionalStyle[string]{Top: &one, Bottom: &two, Left: &one, Right: &one},
		},
	}
	css := StyleToCSS(resolved)
	assert.Contains(t, css, "padding-top:1px")
	assert.Contains(t, css, "padding-bottom:2px")
}

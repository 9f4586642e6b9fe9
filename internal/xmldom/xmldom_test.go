package xmldom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBuildsTree(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<office:document xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0">
  <office:body>
    <office:text>
      <style:style style:name="P1"/>
      <text:p>hello world</text:p>
    </office:text>
  </office:body>
</office:document>`)

	root, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "document", root.Name.Local)

	styles := root.Descendants("urn:oasis:names:tc:opendocument:xmlns:style:1.0", "style")
	require.Len(t, styles, 1)
	name, ok := styles[0].Attribute("name")
	assert.True(t, ok)
	assert.Equal(t, "P1", name)
}

func TestTextContentPreservesWhitespace(t *testing.T) {
	data := []byte(`<root>  <a>x</a>  </root>`)
	root, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "  x  ", root.TextContent())
}

func TestFirstChildNS(t *testing.T) {
	data := []byte(`<root><a/><b/></root>`)
	root, err := Parse(data)
	require.NoError(t, err)
	b, ok := root.FirstChildNS("", "b")
	require.True(t, ok)
	assert.Equal(t, "b", b.Name.Local)
}

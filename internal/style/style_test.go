package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docreveal/core/internal/xmldom"
)

const stylesXML = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-styles
    xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
    xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0"
    xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0">
  <office:styles>
    <style:default-style style:family="paragraph">
      <style:text-properties fo:font-size="12pt"/>
    </style:default-style>
    <style:style style:name="Base" style:family="paragraph">
      <style:text-properties fo:color="#000000"/>
      <style:paragraph-properties fo:text-align="start"/>
    </style:style>
    <style:style style:name="Heading" style:family="paragraph" style:parent-style-name="Base">
      <style:text-properties fo:font-weight="bold"/>
    </style:style>
  </office:styles>
  <office:master-styles>
    <style:master-page style:name="Standard" style:page-layout-name="PL1"/>
  </office:master-styles>
</office:document-styles>`

func TestResolveAncestorChain(t *testing.T) {
	root, err := xmldom.Parse([]byte(stylesXML))
	require.NoError(t, err)

	reg := NewRegistry()
	reg.Index(root)

	resolved := reg.Resolve(FamilyParagraph, "Heading")
	require.NotNil(t, resolved.Text.FontSize)
	assert.Equal(t, "12pt", *resolved.Text.FontSize) // from family default
	require.NotNil(t, resolved.Text.Color)
	assert.Equal(t, "#000000", *resolved.Text.Color) // from Base
	require.NotNil(t, resolved.Text.Bold)
	assert.True(t, *resolved.Text.Bold) // from Heading's own attributes
	require.NotNil(t, resolved.Paragraph.TextAlign)
	assert.Equal(t, "start", *resolved.Paragraph.TextAlign) // inherited from Base
}

func TestResolveIsCached(t *testing.T) {
	root, err := xmldom.Parse([]byte(stylesXML))
	require.NoError(t, err)

	reg := NewRegistry()
	reg.Index(root)

	first := reg.Resolve(FamilyParagraph, "Heading")
	second := reg.Resolve(FamilyParagraph, "Heading")
	assert.Equal(t, first, second)
}

func TestFirstMasterPage(t *testing.T) {
	root, err := xmldom.Parse([]byte(stylesXML))
	require.NoError(t, err)

	reg := NewRegistry()
	reg.Index(root)

	mp, ok := reg.FirstMasterPage()
	require.True(t, ok)
	assert.Equal(t, "Standard", mp.Name)
	assert.Equal(t, "PL1", mp.PageLayout)
}

func TestDirectionalStyleOverrideAndUniform(t *testing.T) {
	a, b, c := "1px", "1px", "2px"
	base := DirectionalStyle[string]{Top: &a, Bottom: &a, Left: &a, Right: &a}
	override := DirectionalStyle[string]{Right: &c}
	merged := base.Override(override)

	eq := func(x, y string) bool { return x == y }
	_, uniform := merged.Uniform(eq)
	assert.False(t, uniform)

	v, uniform := base.Uniform(eq)
	assert.True(t, uniform)
	assert.Equal(t, b, v)
}

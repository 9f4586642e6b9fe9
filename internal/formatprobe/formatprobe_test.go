package formatprobe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMagic(t *testing.T) {
	cases := []struct {
		header []byte
		want   FileType
	}{
		{[]byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00}, Zip},
		{[]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, CompoundFileBinaryFormat},
		{[]byte("%PDF-1.7"), PortableDocumentFormat},
		{[]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, PortableNetworkGraphics},
		{[]byte{0xFF, 0xD8, 0xFF, 0xE0}, Jpeg},
		{[]byte("GIF89a"), GraphicsInterchangeFormat},
		{[]byte("no match here"), Unknown},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ClassifyMagic(c.header))
	}
}

func TestClassifyExtensionPreservesOdtSxwAlias(t *testing.T) {
	assert.Equal(t, OpenDocumentText, ClassifyExtension("report.odt"))
	assert.Equal(t, OpenDocumentText, ClassifyExtension("report.sxw"))
	assert.Equal(t, OpenDocumentSpreadsheet, ClassifyExtension("pages.ods"))
	assert.Equal(t, Unknown, ClassifyExtension("archive.tar.gz"))
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, CategoryArchive, CategoryOf(Zip))
	assert.Equal(t, CategoryDocument, CategoryOf(OfficeOpenXmlDocument))
	assert.Equal(t, CategoryImage, CategoryOf(Jpeg))
	assert.Equal(t, CategoryText, CategoryOf(CommaSeparatedValues))
	assert.Equal(t, CategoryOther, CategoryOf(Unknown))
}

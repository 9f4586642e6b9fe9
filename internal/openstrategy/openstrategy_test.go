package openstrategy

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docreveal/core/internal/formatprobe"
)

func buildOdfZip(t *testing.T, mimetype string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	mw, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	require.NoError(t, err)
	_, err = mw.Write([]byte(mimetype))
	require.NoError(t, err)

	cw, err := zw.Create("content.xml")
	require.NoError(t, err)
	_, err = cw.Write([]byte(`<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"/>`))
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func buildOoxmlZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document xmlns:w="x"/>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestOpenDetectsOdfSpreadsheet(t *testing.T) {
	data := buildOdfZip(t, "application/vnd.oasis.opendocument.spreadsheet")
	r := Open(data, "")
	assert.Equal(t, VariantDocument, r.Variant)
	assert.Equal(t, FamilyOpenDocument, r.Family)
	assert.Equal(t, formatprobe.OpenDocumentSpreadsheet, r.FileType)
	require.NotNil(t, r.ZipReader)
}

func TestOpenDetectsOoxmlDocument(t *testing.T) {
	data := buildOoxmlZip(t)
	r := Open(data, "")
	assert.Equal(t, VariantDocument, r.Variant)
	assert.Equal(t, FamilyOfficeOpenXml, r.Family)
	assert.Equal(t, formatprobe.OfficeOpenXmlDocument, r.FileType)
}

func TestOpenFallsBackToGenericArchive(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("readme.txt")
	require.NoError(t, err)
	_, _ = w.Write([]byte("hello"))
	require.NoError(t, zw.Close())

	r := Open(buf.Bytes(), "")
	assert.Equal(t, VariantArchive, r.Variant)
	assert.Equal(t, formatprobe.Zip, r.FileType)
}

func TestOpenDetectsPlainText(t *testing.T) {
	r := Open([]byte("just some plain utf-8 text"), "")
	assert.Equal(t, VariantText, r.Variant)
	assert.Equal(t, formatprobe.TextFile, r.FileType)
}

func TestOpenDetectsUnknownBinary(t *testing.T) {
	r := Open([]byte{0xff, 0xfe, 0x00, 0x01, 0x02}, "")
	assert.Equal(t, VariantUnknown, r.Variant)
}

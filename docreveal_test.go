package docreveal

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildOdfTextZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	mw, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	require.NoError(t, err)
	_, err = mw.Write([]byte("application/vnd.oasis.opendocument.text"))
	require.NoError(t, err)

	cw, err := zw.Create("content.xml")
	require.NoError(t, err)
	_, err = cw.Write([]byte(`<office:document-content
  xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">
  <office:body>
    <office:text>
      <text:p>Hello, world!</text:p>
    </office:text>
  </office:body>
</office:document-content>`))
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func buildOoxmlDocumentZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r>Hello from Word</w:r></w:p>
  </w:body>
</w:document>`))
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestOpenDecodesOdfTextDocument(t *testing.T) {
	decoded, err := Open(buildOdfTextZip(t), "report.odt")
	require.NoError(t, err)

	doc, ok := decoded.(*DocumentFile)
	require.True(t, ok)
	assert.Equal(t, DocumentTypeText, doc.DocumentType())
	assert.False(t, doc.PasswordEncrypted())
	assert.Equal(t, EncryptionStateNotEncrypted, doc.EncryptionState())

	document, err := doc.Document()
	require.NoError(t, err)
	assert.Contains(t, document.HTML(), "Hello, world!")
}

func TestOpenDecodesOoxmlDocument(t *testing.T) {
	decoded, err := Open(buildOoxmlDocumentZip(t), "report.docx")
	require.NoError(t, err)

	doc, ok := decoded.(*DocumentFile)
	require.True(t, ok)
	assert.Equal(t, DocumentTypeText, doc.DocumentType())

	document, err := doc.Document()
	require.NoError(t, err)
	assert.Contains(t, document.HTML(), "Hello from Word")
}

func TestOpenClassifiesPlainTextVariants(t *testing.T) {
	csv, err := Open([]byte("a,b,c\n1,2,3"), "data.csv")
	require.NoError(t, err)
	assert.IsType(t, CsvFile{}, csv)

	js, err := Open([]byte(`{"a":1}`), "data.json")
	require.NoError(t, err)
	assert.IsType(t, JsonFile{}, js)

	txt, err := Open([]byte("just plain prose"), "notes.txt")
	require.NoError(t, err)
	assert.IsType(t, TextFile{}, txt)
}

func TestDecryptWithoutEncryptionErrors(t *testing.T) {
	decoded, err := Open(buildOdfTextZip(t), "report.odt")
	require.NoError(t, err)
	doc := decoded.(*DocumentFile)

	_, err = doc.Decrypt("whatever")
	assert.Error(t, err)
}

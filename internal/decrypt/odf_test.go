package decrypt

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docreveal/core/internal/xcrypto"
	"github.com/docreveal/core/internal/zipcodec"
)

func deflateRaw(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.BestCompression)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, fw.Close())
	return buf.Bytes()
}

func pkcs5Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padding := bytes.Repeat([]byte{byte(padLen)}, padLen)
	return append(append([]byte(nil), data...), padding...)
}

// buildEncryptedOdf synthesizes a minimal ODF-shaped archive with a single
// AES-256-CBC encrypted entry, exercising the same pipeline
// DecryptOdfArchive must reverse.
func buildEncryptedOdf(t *testing.T, password string, plaintext []byte) []byte {
	t.Helper()

	compressed := deflateRaw(t, plaintext)
	padded := pkcs5Pad(compressed, aes.BlockSize)

	salt := bytes.Repeat([]byte{0x11}, 16)
	iv := bytes.Repeat([]byte{0x22}, aes.BlockSize)
	iterations := 1024
	keySize := 32

	startKey := xcrypto.SHA1([]byte(password))
	derivedKey := xcrypto.PBKDF2HMACSHA1(startKey, salt, iterations, keySize)

	block, err := aes.NewCipher(derivedKey)
	require.NoError(t, err)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	checksum := xcrypto.SHA1(compressed)

	manifest := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0">
  <manifest:file-entry manifest:full-path="/" manifest:media-type="application/vnd.oasis.opendocument.spreadsheet"/>
  <manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml">
    <manifest:encryption-data manifest:checksum-type="sha1" manifest:checksum="%s">
      <manifest:algorithm manifest:algorithm-name="aes256_cbc" manifest:initialisation-vector="%s"/>
      <manifest:key-derivation manifest:key-derivation-name="pbkdf2" manifest:key-size="%d" manifest:iteration-count="%d" manifest:salt="%s"/>
      <manifest:start-key-generation manifest:start-key-generation-name="sha1" manifest:key-size="20"/>
    </manifest:encryption-data>
  </manifest:file-entry>
</manifest:manifest>`,
		xcrypto.Base64Encode(checksum), xcrypto.Base64Encode(iv), keySize, iterations, xcrypto.Base64Encode(salt))

	b := zipcodec.NewBuilder()
	b.Add("mimetype", []byte("application/vnd.oasis.opendocument.spreadsheet"), zip.Store)
	b.Add("content.xml", ciphertext, zip.Store)
	b.Add("META-INF/manifest.xml", []byte(manifest), zip.Deflate)

	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf))
	return buf.Bytes()
}

func TestDecryptOdfArchiveRoundTrip(t *testing.T) {
	plaintext := []byte("Page 1 contents for sheet one")
	archive := buildEncryptedOdf(t, "pages", plaintext)

	zr, err := zipcodec.OpenBytes(archive)
	require.NoError(t, err)

	fs, ok, err := DecryptOdfArchive(zr, "pages")
	require.NoError(t, err)
	require.True(t, ok)

	f, err := fs.Open(mustPath("/content.xml"))
	require.NoError(t, err)
	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(rc)
	require.NoError(t, err)
	assert.Equal(t, plaintext, out.Bytes())
}

func TestDecryptOdfArchiveWrongPassword(t *testing.T) {
	archive := buildEncryptedOdf(t, "pages", []byte("secret content"))
	zr, err := zipcodec.OpenBytes(archive)
	require.NoError(t, err)

	_, ok, err := DecryptOdfArchive(zr, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

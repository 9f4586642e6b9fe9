package xcrypto

import (
	"bytes"
	"compress/flate"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAESCBCRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	iv := make([]byte, aes.BlockSize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	_, err = rand.Read(iv)
	require.NoError(t, err)

	plain := []byte("0123456789ABCDEF0123456789ABCDEF")
	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	ct := make([]byte, len(plain))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, plain)

	got, err := AESCBCDecrypt(key, iv, ct)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestPBKDF2Deterministic(t *testing.T) {
	k1 := PBKDF2HMACSHA1([]byte("pages"), []byte("salt"), 1024, 16)
	k2 := PBKDF2HMACSHA1([]byte("pages"), []byte("salt"), 1024, 16)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 16)
}

func TestInflateRawReportsTrailingBytes(t *testing.T) {
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.BestCompression)
	require.NoError(t, err)
	_, err = fw.Write([]byte("hello, deflate"))
	require.NoError(t, err)
	require.NoError(t, fw.Close())

	compressed := buf.Bytes()
	padded := append(append([]byte(nil), compressed...), 0, 0, 0)

	out, trailing, err := InflateRaw(padded)
	require.NoError(t, err)
	assert.Equal(t, "hello, deflate", string(out))
	assert.Equal(t, 3, trailing)
}

func TestSHA1And256(t *testing.T) {
	assert.Len(t, SHA1([]byte("x")), 20)
	assert.Len(t, SHA256([]byte("x")), 32)
}

package decrypt

import (
	"bytes"
	"crypto/aes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docreveal/core/internal/xcrypto"
)

func aesECBEncryptForTest(t *testing.T, key, plaintext []byte) []byte {
	t.Helper()
	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	bs := block.BlockSize()
	require.Equal(t, 0, len(plaintext)%bs)
	out := make([]byte, len(plaintext))
	for off := 0; off < len(plaintext); off += bs {
		block.Encrypt(out[off:off+bs], plaintext[off:off+bs])
	}
	return out
}

func buildEncryptionInfo(t *testing.T, salt, encryptedVerifier, encryptedVerifierHash []byte, keySize uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	writeU16 := func(v uint16) { binary.Write(&buf, binary.LittleEndian, v) }
	writeU32 := func(v uint32) { binary.Write(&buf, binary.LittleEndian, v) }

	writeU16(4) // major
	writeU16(4) // minor
	writeU32(0x10) // StandardHeader flags

	var hdr bytes.Buffer
	hwriteU32 := func(v uint32) { binary.Write(&hdr, binary.LittleEndian, v) }
	hwriteU32(0)          // Flags
	hwriteU32(0)          // SizeExtra
	hwriteU32(0x660E)     // AlgID (AES-128, arbitrary per MS-OFFCRYPTO table)
	hwriteU32(0x8004)     // AlgIDHash (SHA1)
	hwriteU32(keySize)    // KeySize
	hwriteU32(0x18)       // ProviderType
	hwriteU32(0)          // Reserved1
	hwriteU32(0)          // Reserved2
	// CSPName: empty UTF-16LE string, just a null terminator
	hdr.Write([]byte{0x00, 0x00})

	writeU32(uint32(hdr.Len()))
	buf.Write(hdr.Bytes())

	writeU32(uint32(len(salt)))
	buf.Write(salt)
	buf.Write(encryptedVerifier)
	writeU32(uint32(len(encryptedVerifierHash)))
	buf.Write(encryptedVerifierHash)

	return buf.Bytes()
}

func TestVerifyEcmaPasswordRoundTrip(t *testing.T) {
	salt := bytes.Repeat([]byte{0x07}, 16)
	password := "secret123"
	keySize := uint32(128)

	key1 := deriveEcmaKey(salt, password, int(keySize), blockKeyVerifierInput)
	key2 := deriveEcmaKey(salt, password, int(keySize), blockKeyVerifierHash)

	verifierPlain := bytes.Repeat([]byte{0x42}, 16)
	verifierHashPlain := xcrypto.SHA1(verifierPlain)
	// zero-pad to 32 bytes for two AES blocks
	paddedHash := append(append([]byte(nil), verifierHashPlain...), make([]byte, 32-len(verifierHashPlain))...)

	encVerifier := aesECBEncryptForTest(t, key1, verifierPlain)
	encVerifierHash := aesECBEncryptForTest(t, key2, paddedHash)

	infoBytes := buildEncryptionInfo(t, salt, encVerifier, encVerifierHash, keySize)
	header, verifier, err := parseEncryptionInfo(infoBytes)
	require.NoError(t, err)
	assert.Equal(t, keySize, header.KeySize)

	ok, err := verifyEcmaPassword(header, verifier, password)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = verifyEcmaPassword(header, verifier, "wrong-password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecryptOoxmlPackageRoundTrip(t *testing.T) {
	salt := bytes.Repeat([]byte{0x09}, 16)
	password := "pages"
	keySize := uint32(128)

	key1 := deriveEcmaKey(salt, password, int(keySize), blockKeyVerifierInput)
	key2 := deriveEcmaKey(salt, password, int(keySize), blockKeyVerifierHash)
	packageKey := deriveEcmaKey(salt, password, int(keySize), blockKeyPackage)

	verifierPlain := bytes.Repeat([]byte{0x11}, 16)
	verifierHashPlain := xcrypto.SHA1(verifierPlain)
	paddedHash := append(append([]byte(nil), verifierHashPlain...), make([]byte, 32-len(verifierHashPlain))...)

	encVerifier := aesECBEncryptForTest(t, key1, verifierPlain)
	encVerifierHash := aesECBEncryptForTest(t, key2, paddedHash)
	infoBytes := buildEncryptionInfo(t, salt, encVerifier, encVerifierHash, keySize)

	plainPackage := []byte("PK\x03\x04 fake zip content padded to 32 bytes!!")
	for len(plainPackage)%16 != 0 {
		plainPackage = append(plainPackage, 0)
	}
	encPackage := aesECBEncryptForTest(t, packageKey, plainPackage)

	var pkgStream bytes.Buffer
	binary.Write(&pkgStream, binary.LittleEndian, uint64(len(plainPackage)))
	pkgStream.Write(encPackage)

	plain, err := decryptOoxmlPackageBytes(infoBytes, pkgStream.Bytes(), password)
	require.NoError(t, err)
	assert.Equal(t, plainPackage, plain)

	_, err = decryptOoxmlPackageBytes(infoBytes, pkgStream.Bytes(), "wrong")
	assert.Error(t, err)
}

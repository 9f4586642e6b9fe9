package decrypt

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/docreveal/core/internal/cfbcodec"
	"github.com/docreveal/core/internal/xcrypto"
	"github.com/docreveal/core/pkg/errors"
)

const (
	ecmaSpinCount = 50000
)

// EncryptionHeader is ECMA-376's EncryptionHeader record (little-endian,
// packed), read from the Standard Encryption EncryptionInfo stream.
type EncryptionHeader struct {
	Flags      uint32
	SizeExtra  uint32
	AlgID      uint32
	AlgIDHash  uint32
	KeySize    uint32
	ProviderType uint32
	Reserved1  uint32
	Reserved2  uint32
	CSPName    string
}

// EncryptionVerifier is ECMA-376's EncryptionVerifier record.
type EncryptionVerifier struct {
	SaltSize            uint32
	Salt                []byte
	EncryptedVerifier    []byte
	VerifierHashSize     uint32
	EncryptedVerifierHash []byte
}

const opParseEncryptionInfo = "decrypt.parseEncryptionInfo"

// parseEncryptionInfo reads the fixed version header, EncryptionHeader, and
// EncryptionVerifier out of the /EncryptionInfo stream. Every field is
// decoded as little-endian. The only byte-order check is that a version
// header reading as all zero is rejected as UnsupportedEndian; big-endian
// input is not otherwise detected.
func parseEncryptionInfo(data []byte) (EncryptionHeader, EncryptionVerifier, error) {
	const op = opParseEncryptionInfo
	var hdr EncryptionHeader
	var ver EncryptionVerifier

	if len(data) < 8 {
		return hdr, ver, errors.New(errors.KindNoOfficeOpenXmlFile, op, "EncryptionInfo stream too short")
	}
	major := binary.LittleEndian.Uint16(data[0:2])
	minor := binary.LittleEndian.Uint16(data[2:4])
	if major == 0 && minor == 0 {
		return hdr, ver, errors.New(errors.KindUnsupportedEndian, op, "EncryptionInfo version header reads as zero; refusing to guess byte order")
	}
	_ = binary.LittleEndian.Uint32(data[4:8]) // StandardHeader.flags

	r := bytes.NewReader(data[8:])
	headerSize, err := readUint32(r)
	if err != nil {
		return hdr, ver, errors.Wrap(err, errors.KindNoOfficeOpenXmlFile, op)
	}
	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return hdr, ver, errors.Wrap(err, errors.KindNoOfficeOpenXmlFile, op)
	}

	hr := bytes.NewReader(headerBytes)
	hdr.Flags, _ = readUint32(hr)
	hdr.SizeExtra, _ = readUint32(hr)
	hdr.AlgID, _ = readUint32(hr)
	hdr.AlgIDHash, _ = readUint32(hr)
	hdr.KeySize, _ = readUint32(hr)
	hdr.ProviderType, _ = readUint32(hr)
	hdr.Reserved1, _ = readUint32(hr)
	hdr.Reserved2, _ = readUint32(hr)
	cspBytes := make([]byte, hr.Len())
	io.ReadFull(hr, cspBytes)
	hdr.CSPName = utf16leToString(cspBytes)

	ver.SaltSize, err = readUint32(r)
	if err != nil {
		return hdr, ver, errors.Wrap(err, errors.KindNoOfficeOpenXmlFile, op)
	}
	ver.Salt = make([]byte, ver.SaltSize)
	if _, err := io.ReadFull(r, ver.Salt); err != nil {
		return hdr, ver, errors.Wrap(err, errors.KindNoOfficeOpenXmlFile, op)
	}
	ver.EncryptedVerifier = make([]byte, 16)
	if _, err := io.ReadFull(r, ver.EncryptedVerifier); err != nil {
		return hdr, ver, errors.Wrap(err, errors.KindNoOfficeOpenXmlFile, op)
	}
	ver.VerifierHashSize, err = readUint32(r)
	if err != nil {
		return hdr, ver, errors.Wrap(err, errors.KindNoOfficeOpenXmlFile, op)
	}
	remaining := make([]byte, r.Len())
	io.ReadFull(r, remaining)
	ver.EncryptedVerifierHash = remaining

	return hdr, ver, nil
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func utf16leToString(b []byte) string {
	out := make([]uint16, len(b)/2)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return string(utf16Decode(out))
}

func utf16Decode(s []uint16) []rune {
	var out []rune
	for _, v := range s {
		if v == 0 {
			break
		}
		out = append(out, rune(v))
	}
	return out
}

func passwordUTF16LE(password string) []byte {
	runes := []rune(password)
	out := make([]byte, 0, len(runes)*2)
	for _, r := range runes {
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], uint16(r))
		out = append(out, buf[:]...)
	}
	return out
}

// deriveEcmaKey implements the ECMA-376 Standard key derivation: an
// initial SHA1 of salt||password, 50000 rounds of SHA1(i||h), a final
// SHA1(h||00000000), then a block key SHA1(h||blockKey) truncated or
// padded (with 0x36 bytes per MS-OFFCRYPTO) to keySize/8 bytes.
func deriveEcmaKey(salt []byte, password string, keySizeBits int, blockKey []byte) []byte {
	h := xcrypto.SHA1(append(append([]byte(nil), salt...), passwordUTF16LE(password)...))
	for i := 0; i < ecmaSpinCount; i++ {
		var iBuf [4]byte
		binary.LittleEndian.PutUint32(iBuf[:], uint32(i))
		h = xcrypto.SHA1(append(iBuf[:], h...))
	}
	h = xcrypto.SHA1(append(append([]byte(nil), h...), 0, 0, 0, 0))

	finalHash := xcrypto.SHA1(append(append([]byte(nil), h...), blockKey...))

	keyBytes := keySizeBits / 8
	key := make([]byte, keyBytes)
	for i := range key {
		if i < len(finalHash) {
			key[i] = finalHash[i]
		} else {
			key[i] = 0x36
		}
	}
	return key
}

var (
	blockKeyVerifierInput = []byte{0xFE, 0xA7, 0xD2, 0x76, 0x3B, 0x4B, 0x9E, 0x79}
	blockKeyVerifierHash  = []byte{0xD7, 0xAA, 0x0F, 0x6D, 0x30, 0x61, 0x34, 0x4E}
	blockKeyPackage       = []byte{0x14, 0x6E, 0x0B, 0xE7, 0xAB, 0xAC, 0xD0, 0xD6}
)

const opVerifyEcma = "decrypt.verifyEcmaPassword"

// verifyEcmaPassword runs the two-key verifier check: decrypting the
// encrypted verifier with key 1 and SHA1-hashing it must equal decrypting
// the encrypted verifier hash with key 2.
func verifyEcmaPassword(header EncryptionHeader, verifier EncryptionVerifier, password string) (bool, error) {
	key1 := deriveEcmaKey(verifier.Salt, password, int(header.KeySize), blockKeyVerifierInput)
	key2 := deriveEcmaKey(verifier.Salt, password, int(header.KeySize), blockKeyVerifierHash)

	plainVerifier, err := xcrypto.AESECBDecrypt(key1, verifier.EncryptedVerifier)
	if err != nil {
		return false, errors.Wrap(err, errors.KindDecryptionFailed, opVerifyEcma)
	}
	hashOfVerifier := xcrypto.SHA1(plainVerifier)

	plainVerifierHash, err := xcrypto.AESECBDecrypt(key2, verifier.EncryptedVerifierHash)
	if err != nil {
		return false, errors.Wrap(err, errors.KindDecryptionFailed, opVerifyEcma)
	}

	n := len(hashOfVerifier)
	if len(plainVerifierHash) < n {
		n = len(plainVerifierHash)
	}
	return bytes.Equal(hashOfVerifier, plainVerifierHash[:n]), nil
}

const opDecryptPackage = "decrypt.DecryptOoxmlPackage"

// DecryptOoxmlPackage reads /EncryptionInfo and /EncryptedPackage from a
// CFB-wrapped encrypted OOXML document, verifies the password, and returns
// the decrypted ZIP package bytes ready for zipcodec.OpenBytes.
func DecryptOoxmlPackage(r *cfbcodec.Reader, password string) ([]byte, error) {
	const op = opDecryptPackage

	infoBytes, ok := r.Stream("EncryptionInfo")
	if !ok {
		return nil, errors.New(errors.KindNoOfficeOpenXmlFile, op, "missing /EncryptionInfo")
	}
	pkgBytes, ok := r.Stream("EncryptedPackage")
	if !ok {
		return nil, errors.New(errors.KindNoOfficeOpenXmlFile, op, "missing /EncryptedPackage")
	}

	return decryptOoxmlPackageBytes(infoBytes, pkgBytes, password)
}

// decryptOoxmlPackageBytes is the stream-agnostic core of
// DecryptOoxmlPackage, split out so it is directly testable without a real
// CFB container.
func decryptOoxmlPackageBytes(infoBytes, pkgBytes []byte, password string) ([]byte, error) {
	const op = opDecryptPackage

	header, verifier, err := parseEncryptionInfo(infoBytes)
	if err != nil {
		return nil, err
	}

	ok, err := verifyEcmaPassword(header, verifier, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(errors.KindWrongPasswordError, op, "verifier hash mismatch")
	}

	if len(pkgBytes) < 8 {
		return nil, errors.New(errors.KindNoOfficeOpenXmlFile, op, "EncryptedPackage too short")
	}
	originalSize := binary.LittleEndian.Uint64(pkgBytes[:8])
	ciphertext := pkgBytes[8:]

	packageKey := deriveEcmaKey(verifier.Salt, password, int(header.KeySize), blockKeyPackage)

	blockSize := 16
	plain := make([]byte, 0, len(ciphertext))
	for off := 0; off+blockSize <= len(ciphertext); off += blockSize {
		block, err := xcrypto.AESECBDecrypt(packageKey, ciphertext[off:off+blockSize])
		if err != nil {
			return nil, errors.Wrap(err, errors.KindDecryptionFailed, op)
		}
		plain = append(plain, block...)
	}

	if uint64(len(plain)) > originalSize {
		plain = plain[:originalSize]
	}
	return plain, nil
}

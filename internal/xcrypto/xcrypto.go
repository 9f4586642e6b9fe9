// Package xcrypto gathers every primitive the decryption pipelines need:
// base64, SHA1/SHA256, PBKDF2 key stretching, AES in ECB/CBC mode,
// Triple-DES CBC, Blowfish CFB, and a raw-DEFLATE inflate that reports its
// trailing unconsumed byte count (ODF uses that count to recover padding).
package xcrypto

import (
	"bytes"
	"compress/flate"
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"io"

	"golang.org/x/crypto/blowfish"
	"golang.org/x/crypto/pbkdf2"

	"github.com/docreveal/core/pkg/errors"
)

// Base64Encode encodes bytes using standard base64, as ODF manifests do for
// salts/IVs/checksums.
func Base64Encode(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// Base64Decode decodes standard base64.
func Base64Decode(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindDecryptionFailed, "xcrypto.Base64Decode")
	}
	return b, nil
}

// SHA1 returns the 20-byte SHA-1 digest of b.
func SHA1(b []byte) []byte {
	sum := sha1.Sum(b)
	return sum[:]
}

// SHA256 returns the 32-byte SHA-256 digest of b.
func SHA256(b []byte) []byte {
	sum := sha256.Sum256(b)
	return sum[:]
}

// PBKDF2HMACSHA1 stretches password against salt for iters rounds of
// HMAC-SHA1, producing keyLen bytes.
func PBKDF2HMACSHA1(password, salt []byte, iters, keyLen int) []byte {
	return pbkdf2.Key(password, salt, iters, keyLen, sha1.New)
}

const opAESECB = "xcrypto.AESECBDecrypt"

// AESECBDecrypt decrypts ciphertext with AES in ECB mode. Go's standard
// library deliberately omits an ECB cipher.BlockMode (it is not
// authenticated and rarely appropriate), so ECMA-376's verifier/package
// decryption — which mandates ECB — is hand-rolled block by block here.
func AESECBDecrypt(key, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindUnsupportedCryptoAlgorithm, opAESECB)
	}
	bs := block.BlockSize()
	if len(ciphertext)%bs != 0 {
		return nil, errors.New(errors.KindDecryptionFailed, opAESECB, "ciphertext length %d is not a multiple of block size %d", len(ciphertext), bs)
	}
	out := make([]byte, len(ciphertext))
	for off := 0; off < len(ciphertext); off += bs {
		block.Decrypt(out[off:off+bs], ciphertext[off:off+bs])
	}
	return out, nil
}

const opAESCBC = "xcrypto.AESCBCDecrypt"

// AESCBCDecrypt decrypts ciphertext with AES-CBC under key/iv.
func AESCBCDecrypt(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindUnsupportedCryptoAlgorithm, opAESCBC)
	}
	bs := block.BlockSize()
	if len(ciphertext)%bs != 0 {
		return nil, errors.New(errors.KindDecryptionFailed, opAESCBC, "ciphertext length %d is not a multiple of block size %d", len(ciphertext), bs)
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return out, nil
}

const opTripleDESCBC = "xcrypto.TripleDESCBCDecrypt"

// TripleDESCBCDecrypt decrypts ciphertext with 3DES-CBC under key/iv, used
// by some ODF encryption profiles.
func TripleDESCBCDecrypt(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := des.NewTripleDESCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindUnsupportedCryptoAlgorithm, opTripleDESCBC)
	}
	bs := block.BlockSize()
	if len(ciphertext)%bs != 0 {
		return nil, errors.New(errors.KindDecryptionFailed, opTripleDESCBC, "ciphertext length %d is not a multiple of block size %d", len(ciphertext), bs)
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return out, nil
}

const opBlowfishCFB = "xcrypto.BlowfishCFBDecrypt"

// BlowfishCFBDecrypt decrypts ciphertext with Blowfish-CFB under key/iv,
// the legacy ODF 1.1 default algorithm.
func BlowfishCFBDecrypt(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindUnsupportedCryptoAlgorithm, opBlowfishCFB)
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCFBDecrypter(block, iv).XORKeyStream(out, ciphertext)
	return out, nil
}

// InflateRaw decodes a raw DEFLATE stream (no zlib/gzip framing) and
// reports how many bytes of the input were left unconsumed after the final
// block — ODF relies on this count to recover PKCS#5-style padding length
// on the plaintext that preceded compression.
func InflateRaw(b []byte) (data []byte, trailingPad int, err error) {
	const op = "xcrypto.InflateRaw"
	// bytes.Reader implements io.ByteReader, so flate reads directly from
	// it one byte/block at a time instead of wrapping it in a bufio.Reader
	// that would over-read past the final block; br.Len() afterwards is
	// therefore the exact unconsumed suffix length.
	br := bytes.NewReader(b)
	fr := flate.NewReader(br)
	defer fr.Close()

	out, err := io.ReadAll(fr)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, 0, errors.Wrap(err, errors.KindDecryptionFailed, op)
	}
	return out, br.Len(), nil
}

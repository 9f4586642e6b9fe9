// Package decrypt implements the two encryption schemes this pipeline
// recognizes: ODF's per-entry META-INF/manifest.xml scheme and OOXML's
// ECMA-376 Standard Encryption scheme carried in a CFB wrapper.
package decrypt

import (
	"bytes"
	"io"

	ipath "github.com/docreveal/core/internal/path"
	"github.com/docreveal/core/internal/vfs"
	"github.com/docreveal/core/internal/xcrypto"
	"github.com/docreveal/core/internal/xmldom"
	"github.com/docreveal/core/internal/zipcodec"
	"github.com/docreveal/core/pkg/errors"
)

func mustPath(s string) ipath.Path {
	p, err := ipath.New(s)
	if err != nil {
		return ipath.Root
	}
	return p
}

func readAll(e vfs.ArchiveEntry) ([]byte, error) {
	rc, err := e.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ChecksumType enumerates the checksum algorithms manifest.xml declares.
type ChecksumType string

const (
	ChecksumSHA1     ChecksumType = "sha1"
	ChecksumSHA1_1K  ChecksumType = "sha1_1k"
	ChecksumSHA256_1K ChecksumType = "sha256_1k"
)

// Algorithm enumerates the bulk-cipher algorithms manifest.xml declares.
type Algorithm string

const (
	AlgorithmAES256CBC    Algorithm = "aes256_cbc"
	AlgorithmTripleDESCBC Algorithm = "triple_des_cbc"
	AlgorithmBlowfishCFB  Algorithm = "blowfish_cfb"
)

// StartKeyGeneration enumerates the start-key hash manifest.xml declares.
type StartKeyGeneration string

const (
	StartKeySHA1   StartKeyGeneration = "sha1"
	StartKeySHA256 StartKeyGeneration = "sha256"
)

// OdfEntry is one META-INF/manifest.xml encryption-data record.
type OdfEntry struct {
	Path               string
	ChecksumType       ChecksumType
	Checksum           []byte
	Algorithm          Algorithm
	IV                 []byte
	KeyDerivation       string // only "pbkdf2" is defined
	KeySize            int
	KeyIterations      int
	KeySalt            []byte
	StartKeyGeneration StartKeyGeneration
	StartKeySize       int
}

const odfManifestPath = "META-INF/manifest.xml"

const nsManifest = "urn:oasis:names:tc:opendocument:xmlns:manifest:1.0"

const opParseManifest = "decrypt.parseOdfManifest"

// parseOdfManifest reads every file-entry with encryption-data from
// manifest.xml.
func parseOdfManifest(data []byte) (map[string]OdfEntry, error) {
	root, err := xmldom.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindNoOpenDocumentFile, opParseManifest)
	}

	out := make(map[string]OdfEntry)
	for _, fe := range root.ChildrenNS(nsManifest, "file-entry") {
		path, _ := fe.AttributeNS(nsManifest, "full-path")
		encData, ok := fe.FirstChildNS(nsManifest, "encryption-data")
		if !ok {
			continue
		}
		entry := OdfEntry{Path: path}
		entry.ChecksumType = ChecksumType(attrOr(encData, nsManifest, "checksum-type", ""))
		if cs, ok := encData.AttributeNS(nsManifest, "checksum"); ok {
			entry.Checksum, _ = xcrypto.Base64Decode(cs)
		}

		if alg, ok := encData.FirstChildNS(nsManifest, "algorithm"); ok {
			entry.Algorithm = Algorithm(attrOr(alg, nsManifest, "algorithm-name", ""))
			if iv, ok := alg.AttributeNS(nsManifest, "initialisation-vector"); ok {
				entry.IV, _ = xcrypto.Base64Decode(iv)
			}
		}

		if kd, ok := encData.FirstChildNS(nsManifest, "key-derivation"); ok {
			entry.KeyDerivation = attrOr(kd, nsManifest, "key-derivation-name", "")
			entry.KeySize = atoiOr(attrOr(kd, nsManifest, "key-size", "32"), 32)
			entry.KeyIterations = atoiOr(attrOr(kd, nsManifest, "iteration-count", "0"), 0)
			if salt, ok := kd.AttributeNS(nsManifest, "salt"); ok {
				entry.KeySalt, _ = xcrypto.Base64Decode(salt)
			}
		}

		if sk, ok := encData.FirstChildNS(nsManifest, "start-key-generation"); ok {
			entry.StartKeyGeneration = StartKeyGeneration(attrOr(sk, nsManifest, "start-key-generation-name", "sha1"))
			entry.StartKeySize = atoiOr(attrOr(sk, nsManifest, "key-size", "20"), 20)
		} else {
			entry.StartKeyGeneration = StartKeySHA1
			entry.StartKeySize = 20
		}

		out[path] = entry
	}
	return out, nil
}

func attrOr(n *xmldom.Node, space, local, fallback string) string {
	if v, ok := n.AttributeNS(space, local); ok {
		return v
	}
	if v, ok := n.Attribute(local); ok {
		return v
	}
	return fallback
}

func atoiOr(s string, fallback int) int {
	n := 0
	any := false
	for _, r := range s {
		if r < '0' || r > '9' {
			return fallback
		}
		any = true
		n = n*10 + int(r-'0')
	}
	if !any {
		return fallback
	}
	return n
}

// decryptOdfEntry runs one manifest entry's pipeline: start_key → pbkdf2 →
// cipher decrypt → inflate_raw. The manifest checksum is computed over the
// decrypted deflate stream with its cipher-block padding stripped (the
// exact bytes that were fed to the compressor before encryption), not the
// final inflated part bytes, so both forms are returned; InflateRaw's
// trailing-byte count is what locates the padding boundary.
func decryptOdfEntry(entry OdfEntry, password string, ciphertext []byte) (compressed, plain []byte, err error) {
	const op = "decrypt.decryptOdfEntry"

	startKey := startKeyHash(entry.StartKeyGeneration, []byte(password))

	derivedKey := xcrypto.PBKDF2HMACSHA1(startKey, entry.KeySalt, entry.KeyIterations, entry.KeySize)

	var decrypted []byte
	switch entry.Algorithm {
	case AlgorithmAES256CBC:
		decrypted, err = xcrypto.AESCBCDecrypt(derivedKey, entry.IV, ciphertext)
	case AlgorithmTripleDESCBC:
		decrypted, err = xcrypto.TripleDESCBCDecrypt(derivedKey, entry.IV, ciphertext)
	case AlgorithmBlowfishCFB:
		decrypted, err = xcrypto.BlowfishCFBDecrypt(derivedKey, entry.IV, ciphertext)
	default:
		return nil, nil, errors.New(errors.KindUnsupportedCryptoAlgorithm, op, "unknown ODF algorithm %q", entry.Algorithm)
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.KindDecryptionFailed, op)
	}

	var trailingPad int
	plain, trailingPad, err = xcrypto.InflateRaw(decrypted)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.KindDecryptionFailed, op)
	}
	compressed = decrypted[:len(decrypted)-trailingPad]
	return compressed, plain, nil
}

func startKeyHash(gen StartKeyGeneration, password []byte) []byte {
	if gen == StartKeySHA256 {
		return xcrypto.SHA256(password)
	}
	return xcrypto.SHA1(password)
}

// verifyOdfChecksum checks a decrypted entry's still-compressed bytes
// against the manifest-declared checksum, over the first 1024 bytes for
// the *_1k variants or the whole stream otherwise.
func verifyOdfChecksum(entry OdfEntry, compressed []byte) bool {
	region := compressed
	switch entry.ChecksumType {
	case ChecksumSHA1_1K, ChecksumSHA256_1K:
		if len(region) > 1024 {
			region = region[:1024]
		}
	}

	var sum []byte
	switch entry.ChecksumType {
	case ChecksumSHA256_1K:
		sum = xcrypto.SHA256(region)
	default:
		sum = xcrypto.SHA1(region)
	}
	return bytes.Equal(sum, entry.Checksum)
}

// DecryptOdfArchive decrypts every entry manifest.xml declares as
// encrypted, verifying the smallest entry's checksum as the archive-level
// password check, and returns a fresh in-memory filesystem mirroring the
// original but with decrypted bodies for those entries and untouched
// bodies for everything else.
func DecryptOdfArchive(zr *zipcodec.Reader, password string) (*vfs.MemoryFilesystem, bool, error) {
	const op = "decrypt.DecryptOdfArchive"

	manifestEntry, ok := zr.Find(mustPath(odfManifestPath))
	if !ok {
		return nil, false, errors.New(errors.KindNoOpenDocumentFile, op, "archive has no %s", odfManifestPath)
	}
	manifestBytes, err := readAll(manifestEntry)
	if err != nil {
		return nil, false, errors.Wrap(err, errors.KindNoOpenDocumentFile, op)
	}

	records, err := parseOdfManifest(manifestBytes)
	if err != nil {
		return nil, false, err
	}
	if len(records) == 0 {
		return nil, false, errors.New(errors.KindNotEncryptedError, op, "manifest declares no encrypted entries")
	}

	out := vfs.NewMemoryFilesystem()

	var smallestPath string
	smallestSize := int64(-1)
	for _, raw := range zr.RawEntries() {
		rel := raw.Path().String()
		if len(rel) > 0 && rel[0] == '/' {
			rel = rel[1:]
		}
		if _, encrypted := records[rel]; encrypted {
			if smallestSize < 0 || raw.Size() < smallestSize {
				smallestSize = raw.Size()
				smallestPath = rel
			}
		}
	}

	verifiedArchive := false
	for _, raw := range zr.RawEntries() {
		if raw.Kind() != vfs.ArchiveEntryFile {
			continue
		}
		rel := raw.Path().String()
		if len(rel) > 0 && rel[0] == '/' {
			rel = rel[1:]
		}

		data, err := readAll(raw)
		if err != nil {
			return nil, false, errors.Wrap(err, errors.KindFileReadError, op)
		}

		record, encrypted := records[rel]
		if !encrypted {
			if err := out.CreateFile(mustPath("/"+rel), bytes.NewReader(data)); err != nil {
				return nil, false, err
			}
			continue
		}

		compressed, plain, derr := decryptOdfEntry(record, password, data)
		if derr != nil {
			if rel == smallestPath {
				return nil, false, nil
			}
			continue
		}
		verified := verifyOdfChecksum(record, compressed)
		if rel == smallestPath {
			verifiedArchive = verified
		}
		if !verified {
			continue
		}
		if err := out.CreateFile(mustPath("/"+rel), bytes.NewReader(plain)); err != nil {
			return nil, false, err
		}
	}

	if !verifiedArchive {
		return nil, false, nil
	}
	return out, true, nil
}

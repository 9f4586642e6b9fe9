/*
MIT License

Copyright (c) 2026 docreveal contributors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package docreveal decodes office-document bytes of unknown provenance —
// OpenDocument, Office Open XML, legacy CFB-backed Word/PowerPoint/Excel,
// PDF, images, and plain text/archives — into a navigable, HTML-renderable
// document, without the caller ever having to name the format up front.
//
// Example usage:
//
//	decoded, err := docreveal.Open(data, "report.odt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, ok := decoded.(*docreveal.DocumentFile)
//	if ok {
//	    if doc.PasswordEncrypted() {
//	        decoded, err = doc.Decrypt("hunter2")
//	        doc, ok = decoded.(*docreveal.DocumentFile)
//	    }
//	    document, _ := doc.Document()
//	    fmt.Println(document.HTML())
//	}
package docreveal

import (
	"io"
	"strings"

	"github.com/docreveal/core/internal/cfbcodec"
	"github.com/docreveal/core/internal/cursor"
	"github.com/docreveal/core/internal/decrypt"
	"github.com/docreveal/core/internal/element"
	"github.com/docreveal/core/internal/formatprobe"
	"github.com/docreveal/core/internal/html"
	"github.com/docreveal/core/internal/openstrategy"
	ipath "github.com/docreveal/core/internal/path"
	"github.com/docreveal/core/internal/style"
	"github.com/docreveal/core/internal/vfs"
	"github.com/docreveal/core/internal/xmldom"
	"github.com/docreveal/core/internal/zipcodec"
	"github.com/docreveal/core/pkg/errors"
)

// DocumentType mirrors spec.md's DecodedFile.DocumentFile.document_type.
type DocumentType int

const (
	DocumentTypeUnknown DocumentType = iota
	DocumentTypeText
	DocumentTypePresentation
	DocumentTypeSpreadsheet
	DocumentTypeDrawing
)

// EncryptionState mirrors spec.md's DecodedFile.DocumentFile.encryption_state.
type EncryptionState int

const (
	EncryptionStateUnknown EncryptionState = iota
	EncryptionStateNotEncrypted
	EncryptionStateEncrypted
	EncryptionStateDecrypted
)

// DecodedFile is the sum type OpenStrategy ultimately produces: exactly one
// of Text, Csv, Json, Image, Archive, *DocumentFile, Pdf, or Unknown, per
// spec.md §3.
type DecodedFile interface {
	isDecodedFile()
}

// TextFile is plain, non-structured text content.
type TextFile struct{ Content string }

func (TextFile) isDecodedFile() {}

// CsvFile is text content recognized as comma-separated values.
type CsvFile struct{ Content string }

func (CsvFile) isDecodedFile() {}

// JsonFile is text content recognized as JSON.
type JsonFile struct{ Content string }

func (JsonFile) isDecodedFile() {}

// ImageFile is a raster image, identified but not decoded pixel-by-pixel.
// Width and Height are the image's intrinsic pixel dimensions when
// formatprobe.ImagePixelSize could read them from the header (BMP only;
// zero otherwise).
type ImageFile struct {
	Format string
	Data   []byte
	Width  int
	Height int
}

func (ImageFile) isDecodedFile() {}

// ArchiveFile is a ZIP or CFB container that OpenStrategy could not further
// classify into a known document family.
type ArchiveFile struct {
	Zip *zipcodec.Reader
	Cfb *cfbcodec.Reader
}

func (ArchiveFile) isDecodedFile() {}

// PdfFile is raw PDF bytes; this pipeline classifies PDFs but does not
// parse their object graph (out of scope — see spec.md §4.N).
type PdfFile struct{ Data []byte }

func (PdfFile) isDecodedFile() {}

// UnknownFile is content that matched no recognized format at all.
type UnknownFile struct{ Data []byte }

func (UnknownFile) isDecodedFile() {}

// DocumentFile is a recognized office document, possibly password
// protected, possibly already decoded into a navigable Document.
type DocumentFile struct {
	documentType    DocumentType
	encryptionState EncryptionState
	result          openstrategy.Result
	doc             *Document
	buildErr        error
}

func (*DocumentFile) isDecodedFile() {}

// DocumentType reports the document's broad kind.
func (d *DocumentFile) DocumentType() DocumentType { return d.documentType }

// PasswordEncrypted reports whether the source bytes are password
// protected and have not yet been decrypted.
func (d *DocumentFile) PasswordEncrypted() bool {
	return d.encryptionState == EncryptionStateEncrypted
}

// EncryptionState reports the document's encryption lifecycle position.
func (d *DocumentFile) EncryptionState() EncryptionState { return d.encryptionState }

const opDecrypt = "docreveal.DocumentFile.Decrypt"
const opDocument = "docreveal.DocumentFile.Document"

// Document returns the navigable, translatable Document, building it on
// first access for documents that were never encrypted. Encrypted
// documents must call Decrypt first.
func (d *DocumentFile) Document() (*Document, error) {
	if d.encryptionState == EncryptionStateEncrypted {
		return nil, errors.New(errors.KindFileEncryptedError, opDocument, "document is password protected; call Decrypt first")
	}
	if d.doc == nil && d.buildErr == nil {
		d.doc, d.buildErr = buildDocument(d.result, d.documentType)
	}
	return d.doc, d.buildErr
}

// Decrypt attempts to decrypt the document with password, returning a fresh
// DecodedFile on success (always a *DocumentFile with EncryptionStateDecrypted
// for documents this pipeline can decrypt). A wrong password is reported as
// an error, not a false-but-no-error result, so callers cannot mistake it
// for "not encrypted".
func (d *DocumentFile) Decrypt(password string) (DecodedFile, error) {
	switch d.result.Family {
	case openstrategy.FamilyOpenDocument:
		mfs, ok, err := decrypt.DecryptOdfArchive(d.result.ZipReader, password)
		if err != nil {
			return nil, errors.Wrap(err, errors.KindDecryptionFailed, opDecrypt)
		}
		if !ok {
			return nil, errors.New(errors.KindWrongPasswordError, opDecrypt, "incorrect password")
		}
		doc, err := buildOdfDocumentFromFS(mfs, d.documentType)
		if err != nil {
			return nil, err
		}
		return &DocumentFile{documentType: d.documentType, encryptionState: EncryptionStateDecrypted, doc: doc}, nil

	case openstrategy.FamilyOfficeOpenXmlEncrypted:
		pkg, err := decrypt.DecryptOoxmlPackage(d.result.CfbReader, password)
		if err != nil {
			return nil, errors.Wrap(err, errors.KindDecryptionFailed, opDecrypt)
		}
		zr, err := zipcodec.OpenBytes(pkg)
		if err != nil {
			return nil, errors.Wrap(err, errors.KindNoOfficeOpenXmlFile, opDecrypt)
		}
		family, ft, ok := ooxmlKindOf(zr)
		if !ok {
			return nil, errors.New(errors.KindNoOfficeOpenXmlFile, opDecrypt, "decrypted package has no recognized part")
		}
		docType := documentTypeOf(ft)
		inner := openstrategy.Result{Family: family, FileType: ft, ZipReader: zr}
		doc, err := buildDocument(inner, docType)
		if err != nil {
			return nil, err
		}
		return &DocumentFile{documentType: docType, encryptionState: EncryptionStateDecrypted, doc: doc}, nil

	default:
		return nil, errors.New(errors.KindNotEncryptedError, opDecrypt, "file is not password protected")
	}
}

// Document is the decoded, navigable tree: an element.Registry plus the
// style.Registry resolved against it, ready for cursor navigation or
// one-shot HTML translation.
type Document struct {
	Type    DocumentType
	reg     *element.Registry
	styles  *style.Registry
	rootIdx int
}

// NewCursor returns a fresh cursor.Cursor positioned at the document root.
func (doc *Document) NewCursor() *cursor.Cursor {
	return cursor.New(doc.reg, doc.styles, doc.rootIdx)
}

// HTMLOptions configures Document.HTMLWithOptions: pagination over a
// document's logical pages, slides, or sheets (spec.md §6's
// entry_offset/entry_count config fields).
type HTMLOptions struct {
	// EntryOffset skips this many leading pages/slides/sheets.
	EntryOffset int
	// EntryCount caps how many entries (after EntryOffset) are rendered.
	// Zero means unlimited.
	EntryCount int
}

// HTML translates the whole document to HTML via internal/html, per
// spec.md §4.M's per-document-kind layout rules. It is HTMLWithOptions
// with the zero-value HTMLOptions (every entry rendered).
func (doc *Document) HTML() string {
	return doc.HTMLWithOptions(HTMLOptions{})
}

// HTMLWithOptions is HTML with pagination control.
func (doc *Document) HTMLWithOptions(opts HTMLOptions) string {
	kind := html.DocumentText
	switch doc.Type {
	case DocumentTypePresentation:
		kind = html.DocumentPresentation
	case DocumentTypeSpreadsheet:
		kind = html.DocumentSpreadsheet
	case DocumentTypeDrawing:
		kind = html.DocumentDrawing
	}
	htmlOpts := html.Options{EntryOffset: opts.EntryOffset, EntryCount: opts.EntryCount}
	return html.New(doc.NewCursor(), doc.reg, kind, htmlOpts).Translate()
}

// DecodePreference selects which engine OpenWithOptions uses to decode
// document bytes, mirroring the original implementation's ooxml-vs-
// poppler/wvware engine selection (include/odr/document.h).
type DecodePreference int

const (
	// DecodePreferenceBuiltin uses this module's own ODF/OOXML decode
	// pipeline — the only engine implemented in-core.
	DecodePreferenceBuiltin DecodePreference = iota
	// DecodePreferenceExternal delegates entirely to OpenOptions.External,
	// for callers that have wired in an out-of-process engine (pdf2htmlEX,
	// wvware) of their own; this module carries no built-in implementation
	// of one (see spec.md's Non-goals on those bridges).
	DecodePreferenceExternal
)

// ExternalDecoder is the collaborator interface a caller-supplied
// out-of-process engine implements to serve
// OpenOptions.DecodePreference == DecodePreferenceExternal.
type ExternalDecoder interface {
	Decode(data []byte, name string) (DecodedFile, error)
}

// OpenOptions configures Open beyond the bare data/name pair: which engine
// decodes the bytes, and (for DecodePreferenceExternal) which collaborator
// to delegate to.
type OpenOptions struct {
	// ExtensionHint is the optional source filename, used only as a
	// fallback for formats magic bytes cannot resolve alone.
	ExtensionHint string
	// DecodePreference selects the decode engine; zero value is
	// DecodePreferenceBuiltin.
	DecodePreference DecodePreference
	// External is consulted when DecodePreference is
	// DecodePreferenceExternal. A nil External with that preference set
	// is a caller error reported as KindUnsupportedDecoderEngine.
	External ExternalDecoder
}

const opOpen = "docreveal.Open"

// Open runs OpenStrategy against data and wraps the result in the
// appropriate DecodedFile branch. name is an optional filename used only
// as an extension hint for the cases magic bytes cannot resolve alone;
// pass "" if the caller has no filename. Open is OpenWithOptions with the
// built-in engine and no extra configuration.
func Open(data []byte, name string) (DecodedFile, error) {
	return OpenWithOptions(data, OpenOptions{ExtensionHint: name})
}

// OpenWithOptions is Open with full control over engine selection.
func OpenWithOptions(data []byte, opts OpenOptions) (DecodedFile, error) {
	if opts.DecodePreference == DecodePreferenceExternal {
		if opts.External == nil {
			return nil, errors.New(errors.KindUnsupportedDecoderEngine, opOpen, "DecodePreferenceExternal set with no External decoder")
		}
		return opts.External.Decode(data, opts.ExtensionHint)
	}

	r := openstrategy.Open(data, opts.ExtensionHint)

	switch r.Variant {
	case openstrategy.VariantText:
		return classifyText(data, opts.ExtensionHint), nil
	case openstrategy.VariantImage:
		w, h, _ := formatprobe.ImagePixelSize(r.FileType, data)
		return ImageFile{Format: string(r.FileType), Data: data, Width: w, Height: h}, nil
	case openstrategy.VariantArchive:
		return ArchiveFile{Zip: r.ZipReader, Cfb: r.CfbReader}, nil
	case openstrategy.VariantPdf:
		return PdfFile{Data: data}, nil
	case openstrategy.VariantDocument:
		return newDocumentFile(r)
	default:
		return UnknownFile{Data: data}, nil
	}
}

func classifyText(data []byte, name string) DecodedFile {
	lower := strings.ToLower(name)
	content := string(data)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return CsvFile{Content: content}
	case strings.HasSuffix(lower, ".json"):
		return JsonFile{Content: content}
	default:
		return TextFile{Content: content}
	}
}

func newDocumentFile(r openstrategy.Result) (*DocumentFile, error) {
	docType := documentTypeOf(r.FileType)

	if r.Family == openstrategy.FamilyOfficeOpenXmlEncrypted {
		return &DocumentFile{documentType: docType, encryptionState: EncryptionStateEncrypted, result: r}, nil
	}
	if r.Family == openstrategy.FamilyOpenDocument {
		encrypted, err := odfArchiveEncrypted(r.ZipReader)
		if err != nil {
			return nil, err
		}
		if encrypted {
			return &DocumentFile{documentType: docType, encryptionState: EncryptionStateEncrypted, result: r}, nil
		}
	}
	return &DocumentFile{documentType: docType, encryptionState: EncryptionStateNotEncrypted, result: r}, nil
}

func documentTypeOf(ft formatprobe.FileType) DocumentType {
	switch string(ft) {
	case "opendocument_presentation", "office_open_xml_presentation":
		return DocumentTypePresentation
	case "opendocument_spreadsheet", "office_open_xml_workbook":
		return DocumentTypeSpreadsheet
	case "opendocument_graphics":
		return DocumentTypeDrawing
	default:
		return DocumentTypeText
	}
}

const nsOdfOffice = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
const nsOdfTable = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
const nsManifest = "urn:oasis:names:tc:opendocument:xmlns:manifest:1.0"

const odfManifestPath = "META-INF/manifest.xml"

func findZip(zr *zipcodec.Reader, name string) (vfs.ArchiveEntry, bool) {
	return zr.Find(ipath.MustNew(name))
}

func readEntry(e vfs.ArchiveEntry) ([]byte, error) {
	rc, err := e.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// odfArchiveEncrypted reports whether manifest.xml declares any
// encryption-data records, without attempting to decrypt anything.
func odfArchiveEncrypted(zr *zipcodec.Reader) (bool, error) {
	const op = "docreveal.odfArchiveEncrypted"
	e, ok := findZip(zr, odfManifestPath)
	if !ok {
		return false, nil
	}
	data, err := readEntry(e)
	if err != nil {
		return false, errors.Wrap(err, errors.KindNoOpenDocumentFile, op)
	}
	root, err := xmldom.Parse(data)
	if err != nil {
		return false, errors.Wrap(err, errors.KindNoOpenDocumentFile, op)
	}
	for _, fe := range root.ChildrenNS(nsManifest, "file-entry") {
		if _, ok := fe.FirstChildNS(nsManifest, "encryption-data"); ok {
			return true, nil
		}
	}
	return false, nil
}

func ooxmlKindOf(zr *zipcodec.Reader) (openstrategy.DocumentFamily, formatprobe.FileType, bool) {
	if _, ok := findZip(zr, "word/document.xml"); ok {
		return openstrategy.FamilyOfficeOpenXml, formatprobe.OfficeOpenXmlDocument, true
	}
	if _, ok := findZip(zr, "ppt/presentation.xml"); ok {
		return openstrategy.FamilyOfficeOpenXml, formatprobe.OfficeOpenXmlPresentation, true
	}
	if _, ok := findZip(zr, "xl/workbook.xml"); ok {
		return openstrategy.FamilyOfficeOpenXml, formatprobe.OfficeOpenXmlWorkbook, true
	}
	return openstrategy.FamilyNone, formatprobe.Unknown, false
}

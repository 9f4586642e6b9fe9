// Package openstrategy implements OpenStrategy (spec.md §4.N): given raw
// bytes, probe layered, most-specific-first, for which decoded variant
// the bytes represent, delegating to the codec packages beneath it.
// Each probe may fail softly; the first success wins.
package openstrategy

import (
	"io"
	"unicode/utf8"

	"github.com/docreveal/core/internal/cfbcodec"
	"github.com/docreveal/core/internal/formatprobe"
	ipath "github.com/docreveal/core/internal/path"
	"github.com/docreveal/core/internal/vfs"
	"github.com/docreveal/core/internal/xlog"
	"github.com/docreveal/core/internal/zipcodec"
)

// Variant tags which DecodedFile branch a successful probe produced.
type Variant int

const (
	VariantUnknown Variant = iota
	VariantText
	VariantImage
	VariantArchive
	VariantDocument
	VariantPdf
)

// DocumentFamily narrows VariantDocument further.
type DocumentFamily int

const (
	FamilyNone DocumentFamily = iota
	FamilyOpenDocument
	FamilyOfficeOpenXml
	FamilyOfficeOpenXmlEncrypted
	FamilyLegacyMicrosoft
)

// Result is what OpenStrategy hands back to the caller: enough to build
// the right DecodedFile branch without re-probing.
type Result struct {
	Variant  Variant
	Family   DocumentFamily
	FileType formatprobe.FileType

	ZipReader *zipcodec.Reader
	CfbReader *cfbcodec.Reader
	Encrypted bool
}

// Open runs the layered probe described in spec.md §4.N against data.
// extensionHint is classified when magic-byte probing finds no match, but
// that classification does not change the Result: input no probe
// recognizes is reported as TextFile when it is valid UTF-8 and as
// Unknown otherwise, whatever its extension.
func Open(data []byte, extensionHint string) Result {
	magic := formatprobe.ClassifyMagic(data)

	switch magic {
	case formatprobe.Zip:
		if r, ok := tryOpenZip(data); ok {
			return r
		}
		xlog.Default.Debug("openstrategy: zip probe declined, falling through", "magic", string(magic))
	case formatprobe.CompoundFileBinaryFormat:
		if r, ok := tryOpenCfb(data); ok {
			return r
		}
		xlog.Default.Debug("openstrategy: cfb probe declined, falling through", "magic", string(magic))
	case formatprobe.PortableDocumentFormat:
		return Result{Variant: VariantPdf, FileType: magic}
	}

	switch formatprobe.CategoryOf(magic) {
	case formatprobe.CategoryImage:
		return Result{Variant: VariantImage, FileType: magic}
	}

	if magic == formatprobe.Unknown && extensionHint != "" {
		if hinted := formatprobe.ClassifyExtension(extensionHint); hinted != formatprobe.Unknown {
			magic = hinted
		}
	}

	if utf8.Valid(data) {
		return Result{Variant: VariantText, FileType: formatprobe.TextFile}
	}
	xlog.Default.Warn("openstrategy: no probe recognized the input", "bytes", len(data))
	return Result{Variant: VariantUnknown, FileType: formatprobe.Unknown}
}

// tryOpenZip attempts, in order, ODF then OOXML then generic archive —
// the specificity ordering spec.md §4.N requires for ZIP-backed files.
func tryOpenZip(data []byte) (Result, bool) {
	zr, err := zipcodec.OpenBytes(data)
	if err != nil {
		return Result{}, false
	}

	if isOdfArchive(zr) {
		return Result{Variant: VariantDocument, Family: FamilyOpenDocument, FileType: odfFileType(zr), ZipReader: zr}, true
	}
	if family, ft, ok := ooxmlArchiveKind(zr); ok {
		return Result{Variant: VariantDocument, Family: family, FileType: ft, ZipReader: zr, Encrypted: family == FamilyOfficeOpenXmlEncrypted}, true
	}
	return Result{Variant: VariantArchive, FileType: formatprobe.Zip, ZipReader: zr}, true
}

func findZip(zr *zipcodec.Reader, name string) (vfs.ArchiveEntry, bool) {
	return zr.Find(ipath.MustNew(name))
}

func isOdfArchive(zr *zipcodec.Reader) bool {
	_, hasContent := findZip(zr, "content.xml")
	_, hasMimetype := findZip(zr, "mimetype")
	return hasContent && hasMimetype
}

func odfFileType(zr *zipcodec.Reader) formatprobe.FileType {
	e, ok := findZip(zr, "mimetype")
	if !ok {
		return formatprobe.OpenDocumentText
	}
	data, err := readEntry(e)
	if err != nil {
		return formatprobe.OpenDocumentText
	}
	switch string(data) {
	case "application/vnd.oasis.opendocument.presentation":
		return formatprobe.OpenDocumentPresentation
	case "application/vnd.oasis.opendocument.spreadsheet":
		return formatprobe.OpenDocumentSpreadsheet
	case "application/vnd.oasis.opendocument.graphics":
		return formatprobe.OpenDocumentGraphics
	default:
		return formatprobe.OpenDocumentText
	}
}

func readEntry(e vfs.ArchiveEntry) ([]byte, error) {
	rc, err := e.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func ooxmlArchiveKind(zr *zipcodec.Reader) (DocumentFamily, formatprobe.FileType, bool) {
	if _, ok := findZip(zr, "word/document.xml"); ok {
		return FamilyOfficeOpenXml, formatprobe.OfficeOpenXmlDocument, true
	}
	if _, ok := findZip(zr, "ppt/presentation.xml"); ok {
		return FamilyOfficeOpenXml, formatprobe.OfficeOpenXmlPresentation, true
	}
	if _, ok := findZip(zr, "xl/workbook.xml"); ok {
		return FamilyOfficeOpenXml, formatprobe.OfficeOpenXmlWorkbook, true
	}
	return FamilyNone, formatprobe.Unknown, false
}

// tryOpenCfb attempts, in order, legacy Office then OOXML-encrypted-in-
// CFB then generic archive.
func tryOpenCfb(data []byte) (Result, bool) {
	cr, err := cfbcodec.OpenBytes(data)
	if err != nil {
		return Result{}, false
	}

	if ft, ok := legacyCfbKind(cr); ok {
		return Result{Variant: VariantDocument, Family: FamilyLegacyMicrosoft, FileType: ft, CfbReader: cr}, true
	}
	if cr.HasStream("EncryptionInfo") && cr.HasStream("EncryptedPackage") {
		return Result{Variant: VariantDocument, Family: FamilyOfficeOpenXmlEncrypted, FileType: formatprobe.OfficeOpenXmlEncrypted, CfbReader: cr, Encrypted: true}, true
	}
	return Result{Variant: VariantArchive, FileType: formatprobe.CompoundFileBinaryFormat, CfbReader: cr}, true
}

func legacyCfbKind(cr *cfbcodec.Reader) (formatprobe.FileType, bool) {
	if cr.HasStream("WordDocument") {
		return formatprobe.LegacyWordDocument, true
	}
	if cr.HasStream("PowerPoint Document") {
		return formatprobe.LegacyPowerpointPres, true
	}
	if cr.HasStream("Workbook") {
		return formatprobe.LegacyExcelWorksheets, true
	}
	return formatprobe.Unknown, false
}

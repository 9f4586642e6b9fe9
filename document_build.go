package docreveal

import (
	"io"

	"github.com/docreveal/core/internal/element"
	"github.com/docreveal/core/internal/openstrategy"
	ipath "github.com/docreveal/core/internal/path"
	"github.com/docreveal/core/internal/style"
	"github.com/docreveal/core/internal/vfs"
	"github.com/docreveal/core/internal/xmldom"
	"github.com/docreveal/core/internal/zipcodec"
	"github.com/docreveal/core/pkg/constants"
	"github.com/docreveal/core/pkg/errors"
)

const nsOoxmlWord = constants.NamespaceWordprocessingMain

// namedOpener abstracts "give me the bytes at this archive-relative path"
// over both a zipcodec.Reader (the common case) and a decrypted
// vfs.MemoryFilesystem (the post-Decrypt case), so the ODF/OOXML part
// readers below don't need to know which one produced the bytes.
type namedOpener func(name string) ([]byte, bool)

func zipOpener(zr *zipcodec.Reader) namedOpener {
	return func(name string) ([]byte, bool) {
		e, ok := findZip(zr, name)
		if !ok {
			return nil, false
		}
		data, err := readEntry(e)
		if err != nil {
			return nil, false
		}
		return data, true
	}
}

func memFsOpener(mfs *vfs.MemoryFilesystem) namedOpener {
	return func(name string) ([]byte, bool) {
		f, err := mfs.Open(ipath.MustNew("/" + name))
		if err != nil {
			return nil, false
		}
		rc, err := f.Open()
		if err != nil {
			return nil, false
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, false
		}
		return data, true
	}
}

const opBuildDocument = "docreveal.buildDocument"

// buildDocument dispatches to the ODF or OOXML part reader per the
// family OpenStrategy already determined. Legacy CFB-backed Word/
// PowerPoint/Excel documents classify successfully (DocumentFile reports
// the right DocumentType) but have no element-tree builder here — this
// pipeline's XmlParser/ElementTree stage only understands XML-bodied
// formats, and the legacy binary record formats are a different
// parsing problem entirely (out of scope, same boundary spec.md §4.G
// draws around encryption: ODF and OOXML only).
func buildDocument(r openstrategy.Result, docType DocumentType) (*Document, error) {
	switch r.Family {
	case openstrategy.FamilyOpenDocument:
		return buildOdfDocument(zipOpener(r.ZipReader), docType)
	case openstrategy.FamilyOfficeOpenXml:
		return buildOoxmlDocument(zipOpener(r.ZipReader), docType)
	case openstrategy.FamilyLegacyMicrosoft:
		if r.CfbReader != nil && r.CfbReader.WordCopyProtected() {
			return nil, errors.New(errors.KindDocumentCopyProtectedException, opBuildDocument, "legacy document is marked read-only/write-reserved; modification requires the original password")
		}
		return nil, errors.New(errors.KindUnsupportedFileType, opBuildDocument, "legacy binary Office formats have no element-tree builder")
	default:
		return nil, errors.New(errors.KindUnknownFileType, opBuildDocument, "document family %v has no builder", r.Family)
	}
}

func buildOdfDocumentFromFS(mfs *vfs.MemoryFilesystem, docType DocumentType) (*Document, error) {
	return buildOdfDocument(memFsOpener(mfs), docType)
}

const opBuildOdf = "docreveal.buildOdfDocument"

// buildOdfDocument reads content.xml (required) and styles.xml (optional —
// single-sheet/simple documents sometimes fold everything into content.xml's
// own automatic-styles), indexes both into one style.Registry, then builds
// the element tree from whichever office:body child matches the document's
// kind. Spreadsheets are special-cased: each top-level table:table becomes
// a TypeSheet via element.BuildSheet rather than the generic TypeTable a
// bare tag-dispatch would produce (see internal/element's odf.go addendum
// in DESIGN.md).
func buildOdfDocument(open namedOpener, docType DocumentType) (*Document, error) {
	contentBytes, ok := open("content.xml")
	if !ok {
		return nil, errors.New(errors.KindNoOpenDocumentFile, opBuildOdf, "archive has no content.xml")
	}
	contentRoot, err := xmldom.Parse(contentBytes)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindNoXmlFile, opBuildOdf)
	}

	styles := style.NewRegistry()
	styles.Index(contentRoot)
	if stylesBytes, ok := open("styles.xml"); ok {
		if stylesRoot, err := xmldom.Parse(stylesBytes); err == nil {
			styles.Index(stylesRoot)
		}
	}

	body, ok := contentRoot.FirstChildNS(nsOdfOffice, "body")
	if !ok {
		return nil, errors.New(errors.KindNoOpenDocumentFile, opBuildOdf, "content.xml has no office:body")
	}

	reg := element.NewRegistry()
	rootIdx := element.NewRoot(reg)

	switch docType {
	case DocumentTypeSpreadsheet:
		kindNode, ok := body.FirstChildNS(nsOdfOffice, "spreadsheet")
		if !ok {
			return nil, errors.New(errors.KindNoOpenDocumentFile, opBuildOdf, "office:body has no office:spreadsheet")
		}
		for _, child := range kindNode.Children {
			if child.Name.Space == nsOdfTable && child.Name.Local == "table" {
				if _, err := element.BuildSheet(reg, rootIdx, child); err != nil {
					return nil, errors.Wrap(err, errors.KindNoXmlFile, opBuildOdf)
				}
			}
		}
	case DocumentTypePresentation:
		kindNode, ok := body.FirstChildNS(nsOdfOffice, "presentation")
		if !ok {
			return nil, errors.New(errors.KindNoOpenDocumentFile, opBuildOdf, "office:body has no office:presentation")
		}
		if err := element.Build(reg, rootIdx, kindNode); err != nil {
			return nil, errors.Wrap(err, errors.KindNoXmlFile, opBuildOdf)
		}
	case DocumentTypeDrawing:
		kindNode, ok := body.FirstChildNS(nsOdfOffice, "drawing")
		if !ok {
			return nil, errors.New(errors.KindNoOpenDocumentFile, opBuildOdf, "office:body has no office:drawing")
		}
		if err := element.Build(reg, rootIdx, kindNode); err != nil {
			return nil, errors.Wrap(err, errors.KindNoXmlFile, opBuildOdf)
		}
	default:
		kindNode, ok := body.FirstChildNS(nsOdfOffice, "text")
		if !ok {
			return nil, errors.New(errors.KindNoOpenDocumentFile, opBuildOdf, "office:body has no office:text")
		}
		if err := element.Build(reg, rootIdx, kindNode); err != nil {
			return nil, errors.Wrap(err, errors.KindNoXmlFile, opBuildOdf)
		}
	}

	return &Document{Type: docType, reg: reg, styles: styles, rootIdx: rootIdx}, nil
}

const opBuildOoxml = "docreveal.buildOoxmlDocument"

// buildOoxmlDocument reads the one root part that carries the document's
// own XML body (word/document.xml's w:body; ppt/presentation.xml and
// xl/workbook.xml have no equivalent wrapper so their own root element is
// walked directly) and builds the element tree from it. OOXML's styling
// schema (w:styles / w:pPr / w:rPr) is a different vocabulary from ODF's
// style:style family internal/style parses, so the returned Document's
// style.Registry is deliberately empty for OOXML documents — cursor
// navigation and structural HTML translation both still work; resolved
// CSS styling for OOXML content does not, and StyleToCSS correctly emits
// nothing rather than guessing.
func buildOoxmlDocument(open namedOpener, docType DocumentType) (*Document, error) {
	partName := "word/document.xml"
	switch docType {
	case DocumentTypePresentation:
		partName = "ppt/presentation.xml"
	case DocumentTypeSpreadsheet:
		partName = "xl/workbook.xml"
	}

	data, ok := open(partName)
	if !ok {
		return nil, errors.New(errors.KindNoOfficeOpenXmlFile, opBuildOoxml, "archive has no %s", partName)
	}
	root, err := xmldom.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindNoXmlFile, opBuildOoxml)
	}

	bodyNode := root
	if b, ok := root.FirstChildNS(nsOoxmlWord, "body"); ok {
		bodyNode = b
	}

	reg := element.NewRegistry()
	rootIdx := element.NewRoot(reg)
	if err := element.Build(reg, rootIdx, bodyNode); err != nil {
		return nil, errors.Wrap(err, errors.KindNoXmlFile, opBuildOoxml)
	}

	return &Document{Type: docType, reg: reg, styles: style.NewRegistry(), rootIdx: rootIdx}, nil
}

package docreveal

import (
	"github.com/docreveal/core/internal/cfbcodec"
	"github.com/docreveal/core/internal/element"
	"github.com/docreveal/core/internal/formatprobe"
	"github.com/docreveal/core/internal/openstrategy"
)

// DocumentMeta is FileMeta's document-specific payload: the logical entry
// count (sheets, slides, or pages) and each entry's name, where cheaply
// available from the element tree.
type DocumentMeta struct {
	DocumentType DocumentType
	EntryCount   int
	EntryNames   []string
}

// FileMeta aggregates cross-cutting metadata about a decoded file beyond
// its bare DocumentType: classification confidence, encryption/copy-
// protection state, legacy summary-stream properties, and (for documents)
// DocumentMeta — the way odr::FileMeta does in the original implementation
// this module is distilled from (include/odr/file.h).
type FileMeta struct {
	Type formatprobe.FileType

	// Confidence is always 1.0 here: every FileType OpenStrategy reports
	// comes from either an exact magic-byte match or an unambiguous
	// archive-content probe (content.xml's mimetype entry, a named OOXML
	// part), never a fuzzy heuristic, unlike the original's statistics-
	// based legacy-format sniffing.
	Confidence float64

	PasswordEncrypted bool
	CopyProtected     bool

	// Summary carries \005SummaryInformation properties for legacy CFB
	// documents (zero value for ODF/OOXML sources, which carry this
	// metadata in content.xml's office:meta instead — out of this
	// pipeline's scope per spec.md's element-tree-only boundary).
	Summary cfbcodec.SummaryProperties

	// Document is nil for non-document DecodedFile kinds and for legacy
	// CFB documents, whose binary record format this pipeline does not
	// parse into an element tree (document_build.go).
	Document *DocumentMeta
}

// FileMeta reports d's aggregate metadata. For an encrypted DocumentFile
// this is everything knowable before Decrypt: type, confidence, and
// whether the source carries legacy copy-protection or full encryption;
// DocumentMeta is only populated once the element tree has been built.
func (d *DocumentFile) FileMeta() (FileMeta, error) {
	meta := FileMeta{
		Type:              d.result.FileType,
		Confidence:        1.0,
		PasswordEncrypted: d.PasswordEncrypted(),
	}

	if d.result.CfbReader != nil {
		meta.Summary = d.result.CfbReader.ReadSummary()
		meta.CopyProtected = d.result.CfbReader.WordCopyProtected()
	}

	if d.result.Family == openstrategy.FamilyLegacyMicrosoft || d.encryptionState == EncryptionStateEncrypted {
		return meta, nil
	}

	doc, err := d.Document()
	if err != nil {
		return meta, err
	}
	names := documentEntryNames(doc)
	meta.Document = &DocumentMeta{
		DocumentType: d.documentType,
		EntryCount:   len(names),
		EntryNames:   names,
	}
	return meta, nil
}

// documentEntryNames walks doc's root-level children collecting the name
// of each logical entry (slide, page, or sheet), in document order. A
// missing name (most OOXML slides, which this pipeline never opens the
// per-slide part for — see buildOoxmlDocument) yields an empty string
// rather than a shorter slice, so EntryNames always has len ==
// EntryCount.
func documentEntryNames(doc *Document) []string {
	var names []string
	root := doc.reg.Get(doc.rootIdx)
	for idx := root.FirstChild; idx != -1; {
		e := doc.reg.Get(idx)
		switch e.Type {
		case element.TypeSlide, element.TypePage, element.TypeSheet:
			names = append(names, entryName(e))
		}
		idx = e.NextSibling
	}
	return names
}

func entryName(e *element.Element) string {
	if name, ok := e.Attrs["name"]; ok {
		return name
	}
	if e.Source != nil {
		if name, ok := e.Source.Attribute("name"); ok {
			return name
		}
	}
	return ""
}

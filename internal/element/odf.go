package element

import (
	"github.com/docreveal/core/internal/xmldom"
	"github.com/docreveal/core/pkg/constants"
)

// ODF namespace URIs this package knows how to dispatch on. The baseline
// vocabulary registered in element.go's init is tag-only (no namespace)
// and exists solely for the generic-archive fallback path; these are the
// real document-format vocabularies OpenStrategy hands a populated
// content/document XML tree to. The OOXML namespace lives in
// pkg/constants, shared with the root package's own part readers.
const (
	nsOdfOffice = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
	nsOdfText   = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
	nsOdfTable  = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
	nsOdfDraw   = "urn:oasis:names:tc:opendocument:xmlns:drawing:1.0"

	nsOoxmlWord = constants.NamespaceWordprocessingMain
)

func init() {
	Register(nsOdfText, "p", constructParagraph)
	Register(nsOdfText, "h", constructParagraph)
	Register(nsOdfText, "span", constructSpan)
	Register(nsOdfText, "line-break", constructLineBreak)
	Register(nsOdfText, "list", constructList)
	Register(nsOdfText, "list-item", constructListItem)
	Register(nsOdfText, "a", constructLink)
	Register(nsOdfText, "bookmark", constructBookmark)
	Register(nsOdfText, "bookmark-start", constructBookmark)

	Register(nsOdfTable, "table", constructTable)
	Register(nsOdfTable, "table-row", constructTableRow)
	Register(nsOdfTable, "table-cell", constructTableCell)
	Register(nsOdfTable, "covered-table-cell", constructTableCell)
	Register(nsOdfTable, "table-column", constructTableColumn)

	Register(nsOdfDraw, "frame", constructFrame)
	Register(nsOdfDraw, "image", constructImage)
	Register(nsOdfDraw, "page", constructSlide)

	Register(nsOoxmlWord, "p", constructParagraph)
	Register(nsOoxmlWord, "r", constructSpan)
	Register(nsOoxmlWord, "br", constructLineBreak)
	Register(nsOoxmlWord, "tbl", constructTable)
	Register(nsOoxmlWord, "tr", constructTableRow)
	Register(nsOoxmlWord, "tc", constructTableCell)
	Register(nsOoxmlWord, "hyperlink", constructLink)
	Register(nsOoxmlWord, "bookmarkStart", constructBookmark)
}

// BuildSheet constructs a TypeSheet element from a table:table node found
// directly under a spreadsheet document's office:spreadsheet body. It is
// exported rather than dispatch-registered because the table:table tag is
// ambiguous on its own — the same tag means a generic TypeTable inside a
// text/presentation body — so the spreadsheet document builder calls this
// explicitly for each top-level sheet instead of relying on tag dispatch.
// sheet.Build consumes the same raw node independently for cell indexing.
func BuildSheet(reg *Registry, parent int, tableNode *xmldom.Node) (int, error) {
	b := &builder{reg: reg}
	idx := reg.newElement(TypeSheet, tableNode.Name.Local, tableNode)
	applyStyleRefs(reg.Get(idx), tableNode)
	reg.AppendChild(parent, idx)
	if err := b.descendChildren(idx, tableNode); err != nil {
		return noIndex, err
	}
	return idx, nil
}

func constructTableColumn(b *builder, parent int, node *xmldom.Node) (int, error) {
	idx := b.reg.newElement(TypeTableColumn, node.Name.Local, node)
	applyStyleRefs(b.reg.Get(idx), node)
	return idx, nil
}

func constructFrame(b *builder, parent int, node *xmldom.Node) (int, error) {
	idx := b.reg.newElement(TypeFrame, node.Name.Local, node)
	applyStyleRefs(b.reg.Get(idx), node)
	if err := b.descendChildren(idx, node); err != nil {
		return noIndex, err
	}
	return idx, nil
}

func constructImage(b *builder, parent int, node *xmldom.Node) (int, error) {
	idx := b.reg.newElement(TypeImage, node.Name.Local, node)
	applyStyleRefs(b.reg.Get(idx), node)
	return idx, nil
}

// constructSlide builds a draw:page, shared by presentation slides and
// drawing-document pages — both are, structurally, a page-shaped shape
// container, and the source ODF schemas use the same element for either.
func constructSlide(b *builder, parent int, node *xmldom.Node) (int, error) {
	idx := b.reg.newElement(TypeSlide, node.Name.Local, node)
	applyStyleRefs(b.reg.Get(idx), node)
	if err := b.descendChildren(idx, node); err != nil {
		return noIndex, err
	}
	return idx, nil
}

func constructList(b *builder, parent int, node *xmldom.Node) (int, error) {
	idx := b.reg.newElement(TypeList, node.Name.Local, node)
	applyStyleRefs(b.reg.Get(idx), node)
	if err := b.descendChildren(idx, node); err != nil {
		return noIndex, err
	}
	return idx, nil
}

func constructListItem(b *builder, parent int, node *xmldom.Node) (int, error) {
	idx := b.reg.newElement(TypeListItem, node.Name.Local, node)
	if err := b.descendChildren(idx, node); err != nil {
		return noIndex, err
	}
	return idx, nil
}

func constructLink(b *builder, parent int, node *xmldom.Node) (int, error) {
	idx := b.reg.newElement(TypeLink, node.Name.Local, node)
	if href, ok := node.Attribute("href"); ok {
		if e := b.reg.Get(idx); e.Attrs == nil {
			e.Attrs = map[string]string{"href": href}
		} else {
			e.Attrs["href"] = href
		}
	}
	if err := b.descendChildren(idx, node); err != nil {
		return noIndex, err
	}
	return idx, nil
}

func constructBookmark(b *builder, parent int, node *xmldom.Node) (int, error) {
	idx := b.reg.newElement(TypeBookmark, node.Name.Local, node)
	if name, ok := node.Attribute("name"); ok {
		e := b.reg.Get(idx)
		e.Attrs = map[string]string{"name": name}
	}
	return idx, nil
}

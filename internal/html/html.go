// Package html implements HtmlTranslator (spec.md §4.M): walks a
// cursor.Cursor and emits one HTML document per page, slide, sheet, or
// drawing page, including the spreadsheet grid renderer and directional
// style-to-CSS translation.
package html

import (
	"fmt"
	gohtml "html"
	"strings"

	"github.com/docreveal/core/internal/cursor"
	"github.com/docreveal/core/internal/element"
	"github.com/docreveal/core/internal/sheet"
	"github.com/docreveal/core/internal/style"
)

// DocumentType mirrors spec.md's DecodedFile.DocumentFile.document_type.
type DocumentType int

const (
	DocumentText DocumentType = iota
	DocumentPresentation
	DocumentSpreadsheet
	DocumentDrawing
)

// defaultTabFiller is the string a tab glyph expands to; configurable because
// spec.md §4.M calls it out as a configurable filler rather than a fixed
// constant.
const defaultTabFiller = "&#9;&#9;&#9;&#9;"

// writer accumulates HTML text with indentation and an open-tag stack
// so closing tags are always emitted in matching order, the way a
// hand-written pretty-printer would.
type writer struct {
	b          strings.Builder
	indent     int
	tagStack   []string
	inline     bool
	tabFiller  string
}

func newWriter() *writer {
	return &writer{tabFiller: defaultTabFiller}
}

func (w *writer) writeIndent() {
	if w.inline {
		return
	}
	w.b.WriteString(strings.Repeat("  ", w.indent))
}

func (w *writer) openTag(tag string, attrs map[string]string, inline bool) {
	w.writeIndent()
	w.b.WriteByte('<')
	w.b.WriteString(tag)
	for _, k := range sortedKeys(attrs) {
		fmt.Fprintf(&w.b, ` %s="%s"`, k, gohtml.EscapeString(attrs[k]))
	}
	w.b.WriteByte('>')
	if !inline {
		w.b.WriteByte('\n')
		w.indent++
	}
	w.tagStack = append(w.tagStack, tag)
}

func (w *writer) closeTag(inline bool) {
	tag := w.tagStack[len(w.tagStack)-1]
	w.tagStack = w.tagStack[:len(w.tagStack)-1]
	if !inline {
		w.indent--
		w.writeIndent()
	}
	w.b.WriteString("</")
	w.b.WriteString(tag)
	w.b.WriteString(">\n")
}

func (w *writer) selfClosing(tag string, attrs map[string]string) {
	w.writeIndent()
	w.b.WriteByte('<')
	w.b.WriteString(tag)
	for _, k := range sortedKeys(attrs) {
		fmt.Fprintf(&w.b, ` %s="%s"`, k, gohtml.EscapeString(attrs[k]))
	}
	w.b.WriteString(">\n")
}

func (w *writer) text(s string) {
	w.b.WriteString(gohtml.EscapeString(s))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

// Options configures translation-time knobs beyond the cursor/kind pair:
// currently just entry pagination over a document's logical pages, slides,
// or sheets, per spec.md §6's HTMLOptions config surface.
type Options struct {
	// EntryOffset skips this many leading entries (pages, slides, or
	// sheets) before rendering begins.
	EntryOffset int
	// EntryCount caps the number of entries rendered after EntryOffset.
	// Zero means unlimited.
	EntryCount int
}

// included reports whether the entry at idx (0-based, pre-offset) falls
// within the configured [EntryOffset, EntryOffset+EntryCount) window.
func (o Options) included(idx int) bool {
	if idx < o.EntryOffset {
		return false
	}
	if o.EntryCount > 0 && idx >= o.EntryOffset+o.EntryCount {
		return false
	}
	return true
}

// Translator renders a document tree rooted at a cursor into HTML.
type Translator struct {
	c    *cursor.Cursor
	reg  *element.Registry
	kind DocumentType
	opts Options
}

// New creates a Translator over an already-positioned cursor. opts'
// zero value renders every entry.
func New(c *cursor.Cursor, reg *element.Registry, kind DocumentType, opts Options) *Translator {
	return &Translator{c: c, reg: reg, kind: kind, opts: opts}
}

// Translate renders the whole document per spec.md §4.M's per-kind
// document-level layout rules.
func (t *Translator) Translate() string {
	w := newWriter()
	switch t.kind {
	case DocumentSpreadsheet:
		t.renderSpreadsheet(w)
	case DocumentPresentation, DocumentDrawing:
		t.renderPagedDocument(w)
	default:
		t.renderTextDocument(w)
	}
	return w.b.String()
}

func (t *Translator) renderTextDocument(w *writer) {
	w.openTag("div", map[string]string{"class": "outer-page-style"}, false)
	w.openTag("div", map[string]string{"class": "inner-page-style"}, false)
	t.renderChildren(w, t.c)
	w.closeTag(false)
	w.closeTag(false)
}

func (t *Translator) renderPagedDocument(w *writer) {
	pageIdx := 0
	t.c.ForEachChild(func(cur *cursor.Cursor, index int) bool {
		e := t.reg.Get(cur.Current())
		if e.Type != element.TypeSlide && e.Type != element.TypePage {
			return true
		}
		if !t.opts.included(pageIdx) {
			pageIdx++
			return true
		}
		w.openTag("div", map[string]string{"class": "page", "data-page": fmt.Sprint(pageIdx)}, false)
		// Only the page's own children are rendered; its master page is
		// not.
		t.renderChildren(w, cur)
		w.closeTag(false)
		pageIdx++
		return true
	})
}

func (t *Translator) renderChildren(w *writer, cur *cursor.Cursor) {
	cur.ForEachChild(func(inner *cursor.Cursor, index int) bool {
		t.renderElement(w, inner)
		return true
	})
}

func (t *Translator) renderElement(w *writer, cur *cursor.Cursor) {
	e := t.reg.Get(cur.Current())
	attrs := styleAttrs(cur)
	switch e.Type {
	case element.TypeParagraph:
		w.openTag("p", attrs, false)
		t.renderChildren(w, cur)
		w.closeTag(false)
	case element.TypeSpan:
		w.openTag("span", attrs, true)
		t.renderChildren(w, cur)
		w.closeTag(true)
	case element.TypeText:
		w.writeIndent()
		w.text(e.Text)
		w.b.WriteByte('\n')
	case element.TypeLineBreak:
		w.selfClosing("br", nil)
	case element.TypeTab:
		w.writeIndent()
		w.b.WriteString(w.tabFiller)
		w.b.WriteByte('\n')
	case element.TypeTable:
		w.openTag("table", attrs, false)
		t.renderChildren(w, cur)
		w.closeTag(false)
	case element.TypeTableRow:
		w.openTag("tr", attrs, false)
		t.renderChildren(w, cur)
		w.closeTag(false)
	case element.TypeTableCell:
		w.openTag("td", attrs, false)
		t.renderChildren(w, cur)
		w.closeTag(false)
	case element.TypeImage:
		w.selfClosing("img", attrs)
	case element.TypeList:
		w.openTag("ul", attrs, false)
		t.renderChildren(w, cur)
		w.closeTag(false)
	case element.TypeListItem:
		w.openTag("li", attrs, false)
		t.renderChildren(w, cur)
		w.closeTag(false)
	default:
		t.renderChildren(w, cur)
	}
}

// styleAttrs resolves the cursor's cumulative style into a single
// `style="..."` CSS attribute, per spec.md §4.M's style-translation rule.
func styleAttrs(cur *cursor.Cursor) map[string]string {
	css := StyleToCSS(cur.CurrentStyle())
	if css == "" {
		return nil
	}
	return map[string]string{"style": css}
}

// renderSpreadsheet renders one <table> per sheet child, following
// spec.md §4.M's sheet renderer: a <col> per logical column, a header
// row of spreadsheet-style column letters, row numbers in the first
// column, rectangular shape preserved for empty rows/cells, covered
// cells skipped, colspan/rowspan emitted, floating shapes rendered
// inside the (0,0) cell.
func (t *Translator) renderSpreadsheet(w *writer) {
	sheetIdx := 0
	t.c.ForEachChild(func(cur *cursor.Cursor, index int) bool {
		e := t.reg.Get(cur.Current())
		if e.Type != element.TypeSheet {
			return true
		}
		if e.Source == nil {
			return true
		}
		if !t.opts.included(sheetIdx) {
			sheetIdx++
			return true
		}
		idx := sheet.Build(e.Source)
		t.renderSheetTable(w, cur, idx)
		sheetIdx++
		return true
	})
}

func (t *Translator) renderSheetTable(w *writer, cur *cursor.Cursor, idx *sheet.Index) {
	rows, cols := idx.Dimensions(0, 0)

	w.openTag("table", map[string]string{"class": "sheet", "data-name": idx.Name}, false)

	w.selfClosing("col", map[string]string{"class": "row-header-col"})
	for c := 0; c < cols; c++ {
		w.selfClosing("col", nil)
	}

	w.openTag("tr", map[string]string{"class": "header-row"}, false)
	w.openTag("th", nil, true)
	w.closeTag(true)
	for c := 0; c < cols; c++ {
		w.openTag("th", nil, true)
		w.text(sheet.ColumnLetters(c))
		w.closeTag(true)
	}
	w.closeTag(false)

	for r := 0; r < rows; r++ {
		w.openTag("tr", nil, false)
		w.openTag("th", nil, true)
		w.text(fmt.Sprint(r + 1))
		w.closeTag(true)

		row := idx.Rows[r]
		for c := 0; c < cols; c++ {
			var cell *sheet.Cell
			if row != nil {
				cell = row.Cells[c]
			}
			if cell != nil && cell.Covered {
				continue
			}
			attrs := map[string]string{}
			if cell != nil {
				if cell.ColSpan > 1 {
					attrs["colspan"] = fmt.Sprint(cell.ColSpan)
				}
				if cell.RowSpan > 1 {
					attrs["rowspan"] = fmt.Sprint(cell.RowSpan)
				}
				if cell.Node != nil {
					if formula, ok := cell.Node.Attribute("formula"); ok && formula != "" {
						if preview := formulaPreview(formula); preview != "" {
							attrs["title"] = preview
						}
					}
				}
			}
			if len(attrs) == 0 {
				attrs = nil
			}
			w.openTag("td", attrs, true)
			if r == 0 && c == 0 {
				t.renderSheetShapes(w, cur)
			}
			if cell != nil && cell.Node != nil {
				w.text(cell.Node.TextContent())
			}
			w.closeTag(true)
		}
		w.closeTag(false)
	}

	w.closeTag(false)
}

// formulaPreview renders a cell's table:formula attribute (ODF prefixes
// the expression with a namespace tag, e.g. "of:=SUM([.A1:.A2])") as a
// plain tooltip string by stripping that prefix and re-tokenizing the
// expression through sheet.ParseFormula, so the title attribute reflects
// the grammar the rest of the pipeline understands rather than the raw
// attribute text.
func formulaPreview(formula string) string {
	expr := formula
	if i := strings.Index(expr, ":="); i >= 0 {
		expr = expr[i+2:]
	} else {
		expr = strings.TrimPrefix(expr, "=")
	}
	tokens := sheet.ParseFormula(expr)
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.TValue)
	}
	return b.String()
}

func (t *Translator) renderSheetShapes(w *writer, cur *cursor.Cursor) {
	cur.ForEachSheetShape(func(inner *cursor.Cursor, index int) bool {
		t.renderElement(w, inner)
		return true
	})
}

// StyleToCSS translates a ResolvedStyle into a CSS declaration list,
// collapsing directional sub-styles with identical sides to a single
// shorthand property and falling back to per-side properties otherwise.
func StyleToCSS(s style.ResolvedStyle) string {
	var decls []string
	if s.Text.FontSize != nil {
		decls = append(decls, fmt.Sprintf("font-size:%s", *s.Text.FontSize))
	}
	if s.Text.Color != nil {
		decls = append(decls, fmt.Sprintf("color:%s", *s.Text.Color))
	}
	if s.Text.Bold != nil && *s.Text.Bold {
		decls = append(decls, "font-weight:bold")
	}
	if s.Text.Italic != nil && *s.Text.Italic {
		decls = append(decls, "font-style:italic")
	}
	if s.Paragraph.TextAlign != nil {
		decls = append(decls, fmt.Sprintf("text-align:%s", *s.Paragraph.TextAlign))
	}
	decls = append(decls, directionalCSS("margin", s.Paragraph.Margin)...)
	decls = append(decls, directionalCSS("padding", s.TableCell.Padding)...)
	decls = append(decls, directionalCSS("border-width", s.TableCell.BorderWidth)...)
	decls = append(decls, directionalCSS("border-color", s.TableCell.BorderColor)...)
	if s.TableCell.BackgroundColor != nil {
		decls = append(decls, fmt.Sprintf("background-color:%s", *s.TableCell.BackgroundColor))
	}
	return strings.Join(decls, ";")
}

func directionalCSS(prop string, d style.DirectionalStyle[string]) []string {
	eq := func(a, b string) bool { return a == b }
	if v, uniform := d.Uniform(eq); uniform {
		if v == "" {
			return nil
		}
		return []string{fmt.Sprintf("%s:%s", prop, v)}
	}
	var out []string
	if d.Top != nil {
		out = append(out, fmt.Sprintf("%s-top:%s", prop, *d.Top))
	}
	if d.Right != nil {
		out = append(out, fmt.Sprintf("%s-right:%s", prop, *d.Right))
	}
	if d.Bottom != nil {
		out = append(out, fmt.Sprintf("%s-bottom:%s", prop, *d.Bottom))
	}
	if d.Left != nil {
		out = append(out, fmt.Sprintf("%s-left:%s", prop, *d.Left))
	}
	return out
}

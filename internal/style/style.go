// Package style implements the StyleRegistry: indexing of styles.xml and
// content.xml into font faces, default/named/page-layout/master-page pools
// (list and outline styles are not indexed), and resolution of a named style into a ResolvedStyle
// by walking its ancestor chain. The per-kind sub-style structs follow the
// teacher's plain, tag-free data-struct shape (internal/xml/style.go's
// Style/ParagraphProperties/RunProperties), generalized from one fixed
// DOCX schema to ODF's open family system.
package style

import (
	"github.com/mohae/deepcopy"

	"github.com/docreveal/core/internal/xmldom"
)

// Family is one of the seven style families spec.md §4.I names.
type Family string

const (
	FamilyText         Family = "text"
	FamilyParagraph    Family = "paragraph"
	FamilyTable        Family = "table"
	FamilyTableRow     Family = "table_row"
	FamilyTableColumn  Family = "table_column"
	FamilyTableCell    Family = "table_cell"
	FamilyGraphic      Family = "graphic"
)

// DirectionalStyle holds four optional per-side values (margins, padding,
// borders, …). Override writes every side other sets, leaving sides other
// leaves nil untouched — the field-wise merge spec.md §9 calls for.
type DirectionalStyle[T any] struct {
	Top    *T
	Bottom *T
	Left   *T
	Right  *T
}

// Override applies other's set sides onto s, returning the merged result.
func (s DirectionalStyle[T]) Override(other DirectionalStyle[T]) DirectionalStyle[T] {
	out := s
	if other.Top != nil {
		out.Top = other.Top
	}
	if other.Bottom != nil {
		out.Bottom = other.Bottom
	}
	if other.Left != nil {
		out.Left = other.Left
	}
	if other.Right != nil {
		out.Right = other.Right
	}
	return out
}

// Uniform reports whether all four sides are set and equal, the condition
// under which the HTML translator collapses to a single CSS shorthand.
func (s DirectionalStyle[T]) Uniform(equal func(a, b T) bool) (T, bool) {
	var zero T
	if s.Top == nil || s.Bottom == nil || s.Left == nil || s.Right == nil {
		return zero, false
	}
	if equal(*s.Top, *s.Bottom) && equal(*s.Bottom, *s.Left) && equal(*s.Left, *s.Right) {
		return *s.Top, true
	}
	return zero, false
}

// TextStyle is the font/character-level sub-style.
type TextStyle struct {
	FontName  *string
	FontSize  *string
	Bold      *bool
	Italic    *bool
	Underline *bool
	Color     *string
}

func (s TextStyle) Override(o TextStyle) TextStyle {
	if o.FontName != nil {
		s.FontName = o.FontName
	}
	if o.FontSize != nil {
		s.FontSize = o.FontSize
	}
	if o.Bold != nil {
		s.Bold = o.Bold
	}
	if o.Italic != nil {
		s.Italic = o.Italic
	}
	if o.Underline != nil {
		s.Underline = o.Underline
	}
	if o.Color != nil {
		s.Color = o.Color
	}
	return s
}

// ParagraphStyle is the paragraph-level sub-style.
type ParagraphStyle struct {
	TextAlign *string
	Margin    DirectionalStyle[string]
	LineHeight *string
}

func (s ParagraphStyle) Override(o ParagraphStyle) ParagraphStyle {
	if o.TextAlign != nil {
		s.TextAlign = o.TextAlign
	}
	s.Margin = s.Margin.Override(o.Margin)
	if o.LineHeight != nil {
		s.LineHeight = o.LineHeight
	}
	return s
}

// TableStyle is the table-level sub-style.
type TableStyle struct {
	Width *string
}

func (s TableStyle) Override(o TableStyle) TableStyle {
	if o.Width != nil {
		s.Width = o.Width
	}
	return s
}

// TableRowStyle is the row-level sub-style.
type TableRowStyle struct {
	Height *string
}

func (s TableRowStyle) Override(o TableRowStyle) TableRowStyle {
	if o.Height != nil {
		s.Height = o.Height
	}
	return s
}

// TableColumnStyle is the column-level sub-style.
type TableColumnStyle struct {
	Width *string
}

func (s TableColumnStyle) Override(o TableColumnStyle) TableColumnStyle {
	if o.Width != nil {
		s.Width = o.Width
	}
	return s
}

// TableCellStyle is the cell-level sub-style.
type TableCellStyle struct {
	BorderWidth     DirectionalStyle[string]
	BorderColor     DirectionalStyle[string]
	Padding         DirectionalStyle[string]
	BackgroundColor *string
}

func (s TableCellStyle) Override(o TableCellStyle) TableCellStyle {
	s.BorderWidth = s.BorderWidth.Override(o.BorderWidth)
	s.BorderColor = s.BorderColor.Override(o.BorderColor)
	s.Padding = s.Padding.Override(o.Padding)
	if o.BackgroundColor != nil {
		s.BackgroundColor = o.BackgroundColor
	}
	return s
}

// GraphicStyle is the drawing/frame-level sub-style.
type GraphicStyle struct {
	Width  *string
	Height *string
}

func (s GraphicStyle) Override(o GraphicStyle) GraphicStyle {
	if o.Width != nil {
		s.Width = o.Width
	}
	if o.Height != nil {
		s.Height = o.Height
	}
	return s
}

// ResolvedStyle is the union of every per-kind sub-style, built by
// resolve(family_default) → override(ancestor chain top-down) →
// override(own attributes).
type ResolvedStyle struct {
	Text        TextStyle
	Paragraph   ParagraphStyle
	Table       TableStyle
	TableRow    TableRowStyle
	TableColumn TableColumnStyle
	TableCell   TableCellStyle
	Graphic     GraphicStyle
}

// Override field-wise merges every sub-style.
func (s ResolvedStyle) Override(o ResolvedStyle) ResolvedStyle {
	s.Text = s.Text.Override(o.Text)
	s.Paragraph = s.Paragraph.Override(o.Paragraph)
	s.Table = s.Table.Override(o.Table)
	s.TableRow = s.TableRow.Override(o.TableRow)
	s.TableColumn = s.TableColumn.Override(o.TableColumn)
	s.TableCell = s.TableCell.Override(o.TableCell)
	s.Graphic = s.Graphic.Override(o.Graphic)
	return s
}

// namedStyle is one indexed style:style element plus its parsed own
// attributes and a reference to its parent (basedOn) name, if any.
type namedStyle struct {
	name     string
	family   Family
	parent   string
	own      ResolvedStyle
}

// PageLayout is an indexed style:page-layout (page geometry/margins).
type PageLayout struct {
	Name        string
	Width       string
	Height      string
	MarginTop   string
	MarginBottom string
	MarginLeft  string
	MarginRight string
}

// MasterPage is an indexed style:master-page; Element is the parsed
// content node (header/footer etc.) that the document tree links to.
type MasterPage struct {
	Name       string
	PageLayout string
	Element    *xmldom.Node
}

const (
	nsStyle  = "urn:oasis:names:tc:opendocument:xmlns:style:1.0"
	nsFo     = "urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0"
	nsOffice = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
	nsSVG    = "urn:oasis:names:tc:opendocument:xmlns:svg-compatible:1.0"
)

// Registry is the indexed, resolution-caching StyleRegistry.
type Registry struct {
	fontFaces     map[string]string // font-name -> font-family (CSS fallback)
	defaultStyles map[Family]ResolvedStyle
	named         map[string]*namedStyle // keyed by "family\x00name"
	pageLayouts   map[string]PageLayout
	masterPages   map[string]MasterPage
	firstMaster   string

	cache map[string]ResolvedStyle
}

// NewRegistry creates an empty registry ready for Index calls.
func NewRegistry() *Registry {
	return &Registry{
		fontFaces:     make(map[string]string),
		defaultStyles: make(map[Family]ResolvedStyle),
		named:         make(map[string]*namedStyle),
		pageLayouts:   make(map[string]PageLayout),
		masterPages:   make(map[string]MasterPage),
		cache:         make(map[string]ResolvedStyle),
	}
}

// Index walks a styles.xml or content.xml root, populating font faces,
// per-family defaults, named styles, page layouts, and master pages. It
// may be called more than once (content.xml contributes automatic styles
// in addition to styles.xml's named ones).
func (r *Registry) Index(root *xmldom.Node) {
	for _, ff := range root.Descendants(nsStyle, "font-face") {
		name, _ := ff.AttributeNS(nsStyle, "name")
		family, ok := ff.AttributeNS(nsSVG, "font-family")
		if !ok {
			family, _ = ff.Attribute("font-family")
		}
		if name != "" {
			r.fontFaces[name] = family
		}
	}

	for _, st := range root.Descendants(nsStyle, "default-style") {
		familyAttr, _ := st.AttributeNS(nsStyle, "family")
		r.defaultStyles[Family(familyAttr)] = parseStyleAttributes(st)
	}

	for _, st := range root.Descendants(nsStyle, "style") {
		name, _ := st.AttributeNS(nsStyle, "name")
		familyAttr, _ := st.AttributeNS(nsStyle, "family")
		parent, _ := st.AttributeNS(nsStyle, "parent-style-name")
		ns := &namedStyle{
			name:   name,
			family: Family(familyAttr),
			parent: parent,
			own:    parseStyleAttributes(st),
		}
		r.named[styleKey(ns.family, ns.name)] = ns
	}

	for _, pl := range root.Descendants(nsStyle, "page-layout") {
		name, _ := pl.AttributeNS(nsStyle, "name")
		layout := PageLayout{Name: name}
		if props, ok := pl.FirstChildNS(nsStyle, "page-layout-properties"); ok {
			layout.Width, _ = attrFo(props, "page-width")
			layout.Height, _ = attrFo(props, "page-height")
			layout.MarginTop, _ = attrFo(props, "margin-top")
			layout.MarginBottom, _ = attrFo(props, "margin-bottom")
			layout.MarginLeft, _ = attrFo(props, "margin-left")
			layout.MarginRight, _ = attrFo(props, "margin-right")
		}
		r.pageLayouts[name] = layout
	}

	for _, mp := range root.Descendants(nsStyle, "master-page") {
		name, _ := mp.AttributeNS(nsStyle, "name")
		pageLayoutName, _ := mp.AttributeNS(nsStyle, "page-layout-name")
		master := MasterPage{Name: name, PageLayout: pageLayoutName, Element: mp}
		r.masterPages[name] = master
		if r.firstMaster == "" {
			r.firstMaster = name
		}
	}
}

func attrFo(n *xmldom.Node, local string) (string, bool) {
	if v, ok := n.AttributeNS(nsFo, local); ok {
		return v, true
	}
	return n.Attribute(local)
}

func styleKey(family Family, name string) string { return string(family) + "\x00" + name }

// parseStyleAttributes reads the per-family property children
// (style:text-properties, style:paragraph-properties, …) of a style
// element into a ResolvedStyle carrying only this element's own
// attributes (no inheritance applied yet).
func parseStyleAttributes(st *xmldom.Node) ResolvedStyle {
	var out ResolvedStyle

	if tp, ok := st.FirstChildNS(nsStyle, "text-properties"); ok {
		out.Text = parseTextProperties(tp)
	}
	if pp, ok := st.FirstChildNS(nsStyle, "paragraph-properties"); ok {
		out.Paragraph = parseParagraphProperties(pp)
	}
	if tbp, ok := st.FirstChildNS(nsStyle, "table-properties"); ok {
		if w, ok := attrStyle(tbp, "width"); ok {
			out.Table.Width = &w
		}
	}
	if trp, ok := st.FirstChildNS(nsStyle, "table-row-properties"); ok {
		if h, ok := attrStyle(trp, "row-height"); ok {
			out.TableRow.Height = &h
		}
	}
	if tcp, ok := st.FirstChildNS(nsStyle, "table-column-properties"); ok {
		if w, ok := attrStyle(tcp, "column-width"); ok {
			out.TableColumn.Width = &w
		}
	}
	if tcellp, ok := st.FirstChildNS(nsStyle, "table-cell-properties"); ok {
		out.TableCell = parseTableCellProperties(tcellp)
	}
	if gp, ok := st.FirstChildNS(nsStyle, "graphic-properties"); ok {
		if w, ok := attrStyle(gp, "width"); ok {
			out.Graphic.Width = &w
		}
		if h, ok := attrStyle(gp, "height"); ok {
			out.Graphic.Height = &h
		}
	}
	return out
}

func attrStyle(n *xmldom.Node, local string) (string, bool) {
	if v, ok := n.AttributeNS(nsStyle, local); ok {
		return v, true
	}
	return n.Attribute(local)
}

func parseTextProperties(n *xmldom.Node) TextStyle {
	var out TextStyle
	if v, ok := attrStyle(n, "font-name"); ok {
		out.FontName = &v
	}
	if v, ok := attrFo(n, "font-size"); ok {
		out.FontSize = &v
	}
	if v, ok := attrFo(n, "font-weight"); ok {
		b := v == "bold"
		out.Bold = &b
	}
	if v, ok := attrFo(n, "font-style"); ok {
		b := v == "italic"
		out.Italic = &b
	}
	if v, ok := attrStyle(n, "text-underline-style"); ok {
		b := v != "none" && v != ""
		out.Underline = &b
	}
	if v, ok := attrFo(n, "color"); ok {
		out.Color = &v
	}
	return out
}

func parseParagraphProperties(n *xmldom.Node) ParagraphStyle {
	var out ParagraphStyle
	if v, ok := attrFo(n, "text-align"); ok {
		out.TextAlign = &v
	}
	if v, ok := attrFo(n, "margin-top"); ok {
		out.Margin.Top = &v
	}
	if v, ok := attrFo(n, "margin-bottom"); ok {
		out.Margin.Bottom = &v
	}
	if v, ok := attrFo(n, "margin-left"); ok {
		out.Margin.Left = &v
	}
	if v, ok := attrFo(n, "margin-right"); ok {
		out.Margin.Right = &v
	}
	if v, ok := attrFo(n, "line-height"); ok {
		out.LineHeight = &v
	}
	return out
}

func parseTableCellProperties(n *xmldom.Node) TableCellStyle {
	var out TableCellStyle
	if v, ok := attrFo(n, "background-color"); ok {
		out.BackgroundColor = &v
	}
	if v, ok := attrFo(n, "padding"); ok {
		out.Padding.Top, out.Padding.Bottom, out.Padding.Left, out.Padding.Right = &v, &v, &v, &v
	}
	if v, ok := attrFo(n, "border"); ok {
		out.BorderWidth.Top, out.BorderWidth.Bottom, out.BorderWidth.Left, out.BorderWidth.Right = &v, &v, &v, &v
	}
	return out
}

// Resolve builds a ResolvedStyle for (family, name): family default,
// overridden by the ancestor chain (root-most basedOn first), overridden
// by the style's own attributes. Results are cached per (family, name).
func (r *Registry) Resolve(family Family, name string) ResolvedStyle {
	key := styleKey(family, name)
	if cached, ok := r.cache[key]; ok {
		return deepcopy.Copy(cached).(ResolvedStyle)
	}

	result := r.defaultStyles[family]

	chain := r.ancestorChain(family, name)
	for _, ns := range chain {
		result = result.Override(ns.own)
	}

	r.cache[key] = result
	// Hand the caller (cursor.resolveOwn, which immediately field-wise
	// Overrides this with the element's own attributes) an independent
	// clone rather than the cached value itself, so overriding never
	// aliases a pointer field back into the cache entry.
	return deepcopy.Copy(result).(ResolvedStyle)
}

// ancestorChain returns the style's basedOn ancestors root-most first,
// followed by the style itself, detecting cycles defensively (a malformed
// stylesheet could reference its own name as an ancestor).
func (r *Registry) ancestorChain(family Family, name string) []*namedStyle {
	var chain []*namedStyle
	seen := make(map[string]bool)

	cur, ok := r.named[styleKey(family, name)]
	for ok && !seen[cur.name] {
		seen[cur.name] = true
		chain = append(chain, cur)
		if cur.parent == "" {
			break
		}
		cur, ok = r.named[styleKey(family, cur.parent)]
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// PageLayoutFor returns the indexed page-layout by name.
func (r *Registry) PageLayoutFor(name string) (PageLayout, bool) {
	pl, ok := r.pageLayouts[name]
	return pl, ok
}

// MasterPageFor returns the indexed master-page by name.
func (r *Registry) MasterPageFor(name string) (MasterPage, bool) {
	mp, ok := r.masterPages[name]
	return mp, ok
}

// FirstMasterPage returns the first master-page encountered during
// indexing, tracked for default use per spec.md §4.I.
func (r *Registry) FirstMasterPage() (MasterPage, bool) {
	if r.firstMaster == "" {
		return MasterPage{}, false
	}
	return r.MasterPageFor(r.firstMaster)
}

// FontFamily resolves a font-face name to its CSS font-family fallback
// list, or returns the name unchanged if no font-face declared it.
func (r *Registry) FontFamily(name string) string {
	if fam, ok := r.fontFaces[name]; ok {
		return fam
	}
	return name
}

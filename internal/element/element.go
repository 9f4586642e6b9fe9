// Package element implements the ElementTree: an arena-based registry of
// document elements with stable identifiers, built by dispatching on XML
// {namespace, tagname} pairs the way spec.md §9 calls for — "Vec<Element>
// with all links as indices" instead of the teacher's raw *Element
// pointer tree (internal/reader/element.go), which is fine for a
// single-pass build but cannot express the parent-pointer back-edges a
// DocumentCursor needs to walk up as well as down.
package element

import (
	"strings"

	"github.com/google/uuid"

	"github.com/docreveal/core/internal/xlog"
	"github.com/docreveal/core/internal/xmldom"
	"github.com/docreveal/core/pkg/constants"
	"github.com/docreveal/core/pkg/errors"
)

// Type tags every element's payload kind.
type Type int

const (
	TypeUnknown Type = iota
	TypeRoot
	TypeParagraph
	TypeText
	TypeLineBreak
	TypeTab
	TypeSpan
	TypeTable
	TypeTableColumn
	TypeTableRow
	TypeTableCell
	TypeList
	TypeListItem
	TypeFrame
	TypeImage
	TypeSlide
	TypePage
	TypeSheet
	TypeSheetShape
	TypeBookmark
	TypeLink
)

// ID is a stable per-element identifier, generated once at construction
// and never reused — the registry's indices may be invalidated by future
// compaction, but IDs never are.
type ID = uuid.UUID

// Element is one arena entry. Parent/FirstChild/NextSibling/PrevSibling
// are indices into the owning Registry's slice (-1 for "none"), giving
// O(1) navigation without raw pointers or cycles.
type Element struct {
	ID     ID
	Type   Type
	Name   string // local tag name, for elements with no dedicated Type
	Attrs  map[string]string
	Text   string
	Source *xmldom.Node

	// Style references resolved lazily by the cursor against the active
	// StyleRegistry; kept as bare names here to avoid a hard dependency
	// on internal/style from this package.
	StyleName   string
	StyleFamily string

	Parent      int
	FirstChild  int
	LastChild   int
	NextSibling int
	PrevSibling int
}

const noIndex = -1

// Registry is the arena: a flat slice of Element plus the dispatch table
// used to build it from an xmldom tree.
type Registry struct {
	elements []Element
}

// NewRegistry creates an empty arena, preallocated for a typical
// small-to-medium document.
func NewRegistry() *Registry {
	return &Registry{elements: make([]Element, 0, constants.DefaultElementCapacity)}
}

// Get returns the element at index i.
func (r *Registry) Get(i int) *Element { return &r.elements[i] }

// Len returns the number of elements in the arena.
func (r *Registry) Len() int { return len(r.elements) }

// newElement appends a fresh element with no links, returning its index.
func (r *Registry) newElement(typ Type, name string, source *xmldom.Node) int {
	r.elements = append(r.elements, Element{
		ID:          uuid.New(),
		Type:        typ,
		Name:        name,
		Source:      source,
		Parent:      noIndex,
		FirstChild:  noIndex,
		LastChild:   noIndex,
		NextSibling: noIndex,
		PrevSibling: noIndex,
	})
	return len(r.elements) - 1
}

// AppendChild wires child under parent, updating the sibling chain — set
// as soon as the child is appended, per spec.md §4.J.
func (r *Registry) AppendChild(parent, child int) {
	r.elements[child].Parent = parent
	p := &r.elements[parent]
	if p.FirstChild == noIndex {
		p.FirstChild = child
		p.LastChild = child
		return
	}
	prevLast := p.LastChild
	r.elements[prevLast].NextSibling = child
	r.elements[child].PrevSibling = prevLast
	p.LastChild = child
}

// dispatchKey is a {namespace, tagname} pair keying the constructor table.
type dispatchKey struct {
	space string
	local string
}

// constructor consumes one XML node under the given parent index and
// returns the new element's index (or noIndex if the node produced no
// element, e.g. pure formatting wrappers that are flattened away).
type constructor func(b *builder, parent int, node *xmldom.Node) (int, error)

var dispatch = map[dispatchKey]constructor{}

// Register adds a constructor for {space, local} to the shared dispatch
// table. Intended to be called from package init in format-specific
// adapters (ODF/OOXML) that want to extend the base element vocabulary;
// exported so callers assembling a custom pipeline can do the same.
func Register(space, local string, c constructor) {
	dispatch[dispatchKey{space, local}] = c
}

func init() {
	// A minimal, format-agnostic baseline vocabulary. ODF- and OOXML-
	// specific namespaces register their own paragraph/run/table elements
	// through Register; these generic entries exist so a bare XML tree
	// with no recognized namespace still produces a usable element tree
	// for the "generic archive" / unknown-schema fallback path.
	Register("", "p", constructParagraph)
	Register("", "span", constructSpan)
	Register("", "table", constructTable)
	Register("", "tr", constructTableRow)
	Register("", "td", constructTableCell)
	Register("", "br", constructLineBreak)
}

// builder holds the Registry that elements are added to while descending
// one XML subtree; the running text-run state is local to descendChildren.
type builder struct {
	reg *Registry
}

const opBuild = "element.Build"

// Build parses the children of root into new elements appended under
// parent (itself expected to already exist, typically TypeRoot). Unknown
// elements are silently skipped, matching spec.md §4.J's failure
// semantics; malformed input never reaches here (xmldom.Parse already
// failed with NoXml before this point).
func Build(reg *Registry, parent int, root *xmldom.Node) error {
	b := &builder{reg: reg}
	return b.descendChildren(parent, root)
}

// NewRoot creates the tree's root element.
func NewRoot(reg *Registry) int {
	return reg.newElement(TypeRoot, "root", nil)
}

func (b *builder) descendChildren(parent int, node *xmldom.Node) error {
	var textRunStart *xmldom.Node
	var textRunText strings.Builder
	flushTextRun := func() {
		if textRunStart == nil {
			return
		}
		idx := b.reg.newElement(TypeText, "text", textRunStart)
		b.reg.elements[idx].Text = textRunText.String()
		b.reg.AppendChild(parent, idx)
		textRunStart = nil
		textRunText.Reset()
	}

	for _, child := range node.Children {
		key := dispatchKey{child.Name.Space, child.Name.Local}
		ctor, known := dispatch[key]
		if !known {
			// Text-like elements (tab, line-break glyphs) merge into the
			// running text run rather than being dropped outright.
			if isTextLike(child) {
				if textRunStart == nil {
					textRunStart = child
				}
				textRunText.WriteString(child.TextContent())
				continue
			}
			xlog.Default.Debug("element: unknown node skipped", "space", child.Name.Space, "local", child.Name.Local)
			continue
		}

		flushTextRun()
		idx, err := ctor(b, parent, child)
		if err != nil {
			return errors.Wrap(err, errors.KindNoXmlFile, opBuild)
		}
		if idx != noIndex {
			b.reg.AppendChild(parent, idx)
		}
	}
	flushTextRun()
	return nil
}

func isTextLike(n *xmldom.Node) bool {
	switch n.Name.Local {
	case "tab", "br", "line-break", "s":
		return true
	}
	return false
}

func constructParagraph(b *builder, parent int, node *xmldom.Node) (int, error) {
	idx := b.reg.newElement(TypeParagraph, node.Name.Local, node)
	applyStyleRefs(b.reg.Get(idx), node)
	if err := b.descendChildren(idx, node); err != nil {
		return noIndex, err
	}
	return idx, nil
}

func constructSpan(b *builder, parent int, node *xmldom.Node) (int, error) {
	idx := b.reg.newElement(TypeSpan, node.Name.Local, node)
	applyStyleRefs(b.reg.Get(idx), node)
	if err := b.descendChildren(idx, node); err != nil {
		return noIndex, err
	}
	return idx, nil
}

func constructTable(b *builder, parent int, node *xmldom.Node) (int, error) {
	idx := b.reg.newElement(TypeTable, node.Name.Local, node)
	applyStyleRefs(b.reg.Get(idx), node)
	if err := b.descendChildren(idx, node); err != nil {
		return noIndex, err
	}
	return idx, nil
}

func constructTableRow(b *builder, parent int, node *xmldom.Node) (int, error) {
	idx := b.reg.newElement(TypeTableRow, node.Name.Local, node)
	applyStyleRefs(b.reg.Get(idx), node)
	if err := b.descendChildren(idx, node); err != nil {
		return noIndex, err
	}
	return idx, nil
}

func constructTableCell(b *builder, parent int, node *xmldom.Node) (int, error) {
	idx := b.reg.newElement(TypeTableCell, node.Name.Local, node)
	applyStyleRefs(b.reg.Get(idx), node)
	if err := b.descendChildren(idx, node); err != nil {
		return noIndex, err
	}
	return idx, nil
}

func constructLineBreak(b *builder, parent int, node *xmldom.Node) (int, error) {
	return b.reg.newElement(TypeLineBreak, node.Name.Local, node), nil
}

func applyStyleRefs(e *Element, node *xmldom.Node) {
	if v, ok := node.Attribute("style-name"); ok {
		e.StyleName = v
	}
}

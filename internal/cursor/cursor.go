// Package cursor implements DocumentCursor (spec.md §4.L): stateful,
// single-threaded navigation over an element.Registry tree, maintaining
// an element stack alongside a cumulative, lazily-recomputed style
// stack so the style at any point is always the full ancestor-resolved
// style, not just the element's own attributes.
package cursor

import (
	"github.com/docreveal/core/internal/element"
	"github.com/docreveal/core/internal/style"
	"github.com/docreveal/core/pkg/docpath"
	"github.com/docreveal/core/pkg/errors"
)

// Cursor walks an element.Registry, keeping the element stack and style
// stack in lock-step (len(styleStack) == len(elementStack) always).
type Cursor struct {
	reg        *element.Registry
	styles     *style.Registry
	elemStack  []int
	styleStack []style.ResolvedStyle
	path       docpath.Path
}

// New creates a cursor positioned at rootIdx.
func New(reg *element.Registry, styles *style.Registry, rootIdx int) *Cursor {
	c := &Cursor{reg: reg, styles: styles}
	c.elemStack = []int{rootIdx}
	c.styleStack = []style.ResolvedStyle{c.resolveOwn(rootIdx)}
	return c
}

// Current returns the element index the cursor is positioned on.
func (c *Cursor) Current() int { return c.elemStack[len(c.elemStack)-1] }

// CurrentStyle returns the cumulative resolved style at the cursor.
func (c *Cursor) CurrentStyle() style.ResolvedStyle { return c.styleStack[len(c.styleStack)-1] }

// CurrentPath returns the serialized DocumentPath of the cursor.
func (c *Cursor) CurrentPath() docpath.Path { return append(docpath.Path(nil), c.path...) }

func (c *Cursor) resolveOwn(idx int) style.ResolvedStyle {
	e := c.reg.Get(idx)
	if e.StyleName == "" || c.styles == nil {
		if len(c.styleStack) > 0 {
			return c.styleStack[len(c.styleStack)-1]
		}
		return style.ResolvedStyle{}
	}
	own := c.styles.Resolve(familyFor(e.Type), e.StyleName)
	if len(c.styleStack) > 0 {
		return c.styleStack[len(c.styleStack)-1].Override(own)
	}
	return own
}

func familyFor(t element.Type) style.Family {
	switch t {
	case element.TypeTable:
		return style.FamilyTable
	case element.TypeTableRow:
		return style.FamilyTableRow
	case element.TypeTableColumn:
		return style.FamilyTableColumn
	case element.TypeTableCell:
		return style.FamilyTableCell
	case element.TypeParagraph:
		return style.FamilyParagraph
	case element.TypeImage, element.TypeFrame:
		return style.FamilyGraphic
	default:
		return style.FamilyText
	}
}

func (c *Cursor) push(idx int, comp docpath.Component) {
	c.elemStack = append(c.elemStack, idx)
	c.styleStack = append(c.styleStack, c.resolveOwn(idx))
	c.path = append(c.path, comp)
}

func (c *Cursor) pop() {
	c.elemStack = c.elemStack[:len(c.elemStack)-1]
	c.styleStack = c.styleStack[:len(c.styleStack)-1]
	c.path = c.path[:len(c.path)-1]
}

// MoveToParent moves up one level. Returns false (no-op) at the root.
func (c *Cursor) MoveToParent() bool {
	if len(c.elemStack) <= 1 {
		return false
	}
	c.pop()
	return true
}

// MoveToFirstChild descends into the current element's first child.
func (c *Cursor) MoveToFirstChild() bool {
	e := c.reg.Get(c.Current())
	if e.FirstChild == -1 {
		return false
	}
	c.push(e.FirstChild, docpath.Component{Kind: docpath.Child, Index: 0})
	return true
}

// MoveToPreviousSibling moves to the previous sibling, if any.
func (c *Cursor) MoveToPreviousSibling() bool {
	return c.moveSibling(-1)
}

// MoveToNextSibling moves to the next sibling, if any.
func (c *Cursor) MoveToNextSibling() bool {
	return c.moveSibling(1)
}

func (c *Cursor) moveSibling(delta int) bool {
	if len(c.path) == 0 {
		return false
	}
	cur := c.reg.Get(c.Current())
	var target int
	if delta < 0 {
		target = cur.PrevSibling
	} else {
		target = cur.NextSibling
	}
	if target == -1 {
		return false
	}
	last := c.path[len(c.path)-1]
	c.pop()
	last.Index = uint32(int(last.Index) + delta)
	c.push(target, last)
	return true
}

// MoveToMasterPage pushes the given master page element onto the stack;
// only meaningful when Current() is a slide or page. Caller supplies the
// master page's element index, already built into the same registry.
func (c *Cursor) MoveToMasterPage(masterIdx int) bool {
	e := c.reg.Get(c.Current())
	if e.Type != element.TypeSlide && e.Type != element.TypePage {
		return false
	}
	c.push(masterIdx, docpath.Component{Kind: docpath.Child, Index: 0})
	return true
}

// MoveToFirstTableColumn moves into the table's column chain (a sibling
// chain rooted at the table, distinct from its row chain).
func (c *Cursor) MoveToFirstTableColumn() bool {
	return c.moveToFirstOfType(element.TypeTableColumn, docpath.Column)
}

// MoveToFirstTableRow moves into the table's row chain.
func (c *Cursor) MoveToFirstTableRow() bool {
	return c.moveToFirstOfType(element.TypeTableRow, docpath.Row)
}

// MoveToFirstSheetShape moves into the sheet-level floating shapes list.
func (c *Cursor) MoveToFirstSheetShape() bool {
	return c.moveToFirstOfType(element.TypeSheetShape, docpath.Child)
}

func (c *Cursor) moveToFirstOfType(want element.Type, kind docpath.Kind) bool {
	e := c.reg.Get(c.Current())
	for n := e.FirstChild; n != -1; n = c.reg.Get(n).NextSibling {
		if typeMatchesFilter(c.reg.Get(n).Type, want) {
			c.push(n, docpath.Component{Kind: kind, Index: 0})
			return true
		}
	}
	return false
}

// typeMatchesFilter compares an element's concrete Type against a filter
// Type, with one deliberate widening: floating shapes anchored directly on
// a sheet are built as plain TypeFrame elements (the same constructor used
// for text-document frames — draw:frame is ambiguous without this kind of
// positional context), so a TypeSheetShape filter also accepts TypeFrame.
func typeMatchesFilter(t, filter element.Type) bool {
	if t == filter {
		return true
	}
	return filter == element.TypeSheetShape && t == element.TypeFrame
}

const opMove = "cursor.Move"

// Move resets the cursor to rootIdx and re-walks path, failing if any
// component cannot be resolved.
func (c *Cursor) Move(rootIdx int, path docpath.Path) error {
	fresh := New(c.reg, c.styles, rootIdx)
	for _, comp := range path {
		if !fresh.stepInto(comp) {
			return errors.New(errors.KindInvalidPath, opMove, "cannot resolve path component %v", comp)
		}
	}
	*c = *fresh
	return nil
}

func (c *Cursor) stepInto(comp docpath.Component) bool {
	e := c.reg.Get(c.Current())
	i := uint32(0)
	for n := e.FirstChild; n != -1; n = c.reg.Get(n).NextSibling {
		if !matchesKind(c.reg.Get(n).Type, comp.Kind) {
			continue
		}
		if i == comp.Index {
			c.push(n, comp)
			return true
		}
		i++
	}
	return false
}

func matchesKind(t element.Type, kind docpath.Kind) bool {
	switch kind {
	case docpath.Column:
		return t == element.TypeTableColumn
	case docpath.Row:
		return t == element.TypeTableRow
	default:
		return true
	}
}

// Visitor is called once per sibling during a for-each walk; returning
// false stops the iteration early.
type Visitor func(c *Cursor, index int) bool

// ForEachChild iterates the current element's children, restoring the
// cursor to the starting element when done.
func (c *Cursor) ForEachChild(visit Visitor) {
	c.forEach(element.TypeUnknown, false, visit)
}

// ForEachTableColumn iterates a table's column chain.
func (c *Cursor) ForEachTableColumn(visit Visitor) {
	c.forEach(element.TypeTableColumn, true, visit)
}

// ForEachTableRow iterates a table's row chain.
func (c *Cursor) ForEachTableRow(visit Visitor) {
	c.forEach(element.TypeTableRow, true, visit)
}

// ForEachTableCell iterates a row's cell chain.
func (c *Cursor) ForEachTableCell(visit Visitor) {
	c.forEach(element.TypeTableCell, true, visit)
}

// ForEachSheetShape iterates the sheet-level floating shapes list.
func (c *Cursor) ForEachSheetShape(visit Visitor) {
	c.forEach(element.TypeSheetShape, true, visit)
}

func (c *Cursor) forEach(filter element.Type, typed bool, visit Visitor) {
	startElem := c.Current()
	startDepth := len(c.elemStack)

	e := c.reg.Get(startElem)
	i := uint32(0)
	for n := e.FirstChild; n != -1; n = c.reg.Get(n).NextSibling {
		if typed && !typeMatchesFilter(c.reg.Get(n).Type, filter) {
			continue
		}
		kind := docpath.Child
		switch filter {
		case element.TypeTableColumn:
			kind = docpath.Column
		case element.TypeTableRow:
			kind = docpath.Row
		}
		c.push(n, docpath.Component{Kind: kind, Index: i})
		cont := visit(c, int(i))
		for len(c.elemStack) > startDepth {
			c.pop()
		}
		i++
		if !cont {
			return
		}
	}
}

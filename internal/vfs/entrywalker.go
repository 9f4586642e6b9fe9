package vfs

import (
	ipath "github.com/docreveal/core/internal/path"
)

// flatEntry is one pre-order position in a flattened directory tree.
// subtreeEnd is the index of the first entry that is no longer part of this
// entry's subtree (exclusive); for a file it is simply idx+1.
type flatEntry struct {
	p          ipath.Path
	isFile     bool
	depth      int
	subtreeEnd int
}

// treeNode is an intermediate structure used only while building the
// flattened walk order from an ordered list of (path, isFile) pairs.
type treeNode struct {
	name     string
	isFile   bool
	order    []*treeNode
	byName   map[string]*treeNode
}

func newTreeNode() *treeNode {
	return &treeNode{byName: make(map[string]*treeNode)}
}

func (n *treeNode) child(name string) *treeNode {
	if c, ok := n.byName[name]; ok {
		return c
	}
	c := newTreeNode()
	c.name = name
	n.byName[name] = c
	n.order = append(n.order, c)
	return c
}

// buildEntryWalker flattens an ordered (path, isFile) list, rooted at base,
// into pre-order entries restricted to the subtree under base.
func buildEntryWalker(base ipath.Path, ordered []entrySpec) (*entryWalker, error) {
	root := newTreeNode()
	for _, e := range ordered {
		cur := root
		for i, seg := range e.segments {
			cur = cur.child(seg)
			if i == len(e.segments)-1 {
				cur.isFile = e.isFile
			}
		}
	}

	// Descend to the node rooted at base.
	cur := root
	for _, seg := range base.Segments() {
		next, ok := cur.byName[seg]
		if !ok {
			return &entryWalker{entries: nil, idx: -1}, nil
		}
		cur = next
	}

	var entries []flatEntry
	var walk func(n *treeNode, p ipath.Path, depth int)
	walk = func(n *treeNode, p ipath.Path, depth int) {
		for _, c := range n.order {
			childPath := ipath.AppendSegment(p, c.name)
			idx := len(entries)
			entries = append(entries, flatEntry{p: childPath, isFile: c.isFile, depth: depth})
			if !c.isFile {
				walk(c, childPath, depth+1)
			}
			entries[idx].subtreeEnd = len(entries)
		}
	}
	walk(cur, base, 0)

	return &entryWalker{entries: entries, idx: -1}, nil
}

type entrySpec struct {
	segments []string
	isFile   bool
}

// entryWalker is a FileWalker over a pre-flattened pre-order entry list.
type entryWalker struct {
	entries []flatEntry
	idx     int
}

func (w *entryWalker) Path() ipath.Path {
	if w.idx < 0 || w.idx >= len(w.entries) {
		return ipath.Path{}
	}
	return w.entries[w.idx].p
}

func (w *entryWalker) Depth() int {
	if w.idx < 0 || w.idx >= len(w.entries) {
		return 0
	}
	return w.entries[w.idx].depth
}

func (w *entryWalker) IsFile() bool {
	return w.idx >= 0 && w.idx < len(w.entries) && w.entries[w.idx].isFile
}

func (w *entryWalker) IsDirectory() bool {
	return w.idx >= 0 && w.idx < len(w.entries) && !w.entries[w.idx].isFile
}

func (w *entryWalker) Next() bool {
	if w.idx < 0 {
		w.idx = 0
	} else {
		w.idx++
	}
	return w.idx < len(w.entries)
}

func (w *entryWalker) FlatNext() bool {
	if w.idx < 0 {
		w.idx = 0
	} else {
		w.idx = w.entries[w.idx].subtreeEnd
	}
	return w.idx < len(w.entries)
}

func (w *entryWalker) Pop() bool {
	if w.idx < 0 || w.idx >= len(w.entries) {
		return false
	}
	curDepth := w.entries[w.idx].depth
	if curDepth == 0 {
		w.idx = len(w.entries)
		return false
	}
	// Find the nearest preceding entry at depth-1 that still encloses idx.
	for i := w.idx - 1; i >= 0; i-- {
		if w.entries[i].depth == curDepth-1 {
			w.idx = w.entries[i].subtreeEnd
			return w.idx < len(w.entries)
		}
	}
	w.idx = len(w.entries)
	return false
}

func (w *entryWalker) Clone() FileWalker {
	cp := *w
	return &cp
}

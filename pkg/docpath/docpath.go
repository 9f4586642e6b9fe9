// Package docpath implements the public DocumentPath grammar (spec.md
// §6): `/(Child|Column|Row):<u32>)*`, used both by DocumentCursor
// navigation and by the HTML translator's edit-diff JSON
// (`{"modifiedText": {"<DocumentPath>": "..."}}`).
package docpath

import (
	"strconv"
	"strings"

	"github.com/docreveal/core/pkg/errors"
)

// Kind is one of the three path-component prefixes.
type Kind int

const (
	Child Kind = iota
	Column
	Row
)

func (k Kind) String() string {
	switch k {
	case Child:
		return "Child"
	case Column:
		return "Column"
	case Row:
		return "Row"
	default:
		return "Child"
	}
}

// Component is one `/Kind:<u32>` segment.
type Component struct {
	Kind  Kind
	Index uint32
}

// Path is an ordered sequence of components identifying a unique element
// from the document root.
type Path []Component

// Format renders p in canonical `/(Child|Column|Row):<u32>` form.
func (p Path) Format() string {
	var b strings.Builder
	for _, c := range p {
		b.WriteByte('/')
		b.WriteString(c.Kind.String())
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(uint64(c.Index), 10))
	}
	return b.String()
}

// String implements fmt.Stringer.
func (p Path) String() string { return p.Format() }

const opParse = "docpath.Parse"

// Parse parses a DocumentPath string, strictly: any malformed component
// raises InvalidPath. The empty string parses to an empty Path (the
// document root). Kind prefixes are matched case-insensitively per
// spec.md §6's own inconsistent casing between its grammar example
// (`Child`) and its component-prefix list (`child`); the canonical
// Format always emits the capitalized form.
func Parse(s string) (Path, error) {
	if s == "" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "/") {
		return nil, errors.New(errors.KindInvalidPath, opParse, "path must start with '/': %q", s)
	}
	segments := strings.Split(s[1:], "/")
	path := make(Path, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			return nil, errors.New(errors.KindInvalidPath, opParse, "empty path component in %q", s)
		}
		parts := strings.SplitN(seg, ":", 2)
		if len(parts) != 2 {
			return nil, errors.New(errors.KindInvalidPath, opParse, "malformed component %q: missing ':'", seg)
		}
		kind, err := parseKind(parts[0])
		if err != nil {
			return nil, errors.Wrap(err, errors.KindInvalidPath, opParse)
		}
		n, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			return nil, errors.New(errors.KindInvalidPath, opParse, "malformed index in component %q: %v", seg, err)
		}
		path = append(path, Component{Kind: kind, Index: uint32(n)})
	}
	return path, nil
}

func parseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "child":
		return Child, nil
	case "column":
		return Column, nil
	case "row":
		return Row, nil
	default:
		return Child, errors.New(errors.KindInvalidPath, opParse, "unknown path component kind %q", s)
	}
}

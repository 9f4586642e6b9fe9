// Package path implements the normalized path algebra used by every
// filesystem and archive abstraction in the decode pipeline.
package path

import (
	"strings"

	"github.com/docreveal/core/pkg/errors"
)

const opNew = "path.New"

// Path is a normalized tuple (absolute, upwards, downwards, segments).
//
// An absolute path never has upwards > 0. downwards counts the named
// segments below the root. String re-renders the canonical form from these
// fields, and Equal compares them field by field.
type Path struct {
	absolute  bool
	upwards   uint32
	downwards uint32
	segments  []string
}

// Root is the absolute path "/".
var Root = Path{absolute: true}

// New parses s into a normalized Path.
func New(s string) (Path, error) {
	if s == "" {
		return Path{}, errors.New(errors.KindInvalidPath, opNew, "empty path")
	}

	p := Path{absolute: strings.HasPrefix(s, "/")}

	raw := strings.Split(s, "/")
	for _, seg := range raw {
		switch seg {
		case "", ".":
			// skip
		case "..":
			switch {
			case len(p.segments) > 0:
				p.segments = p.segments[:len(p.segments)-1]
				p.downwards--
			case p.absolute:
				return Path{}, errors.New(errors.KindInvalidPath, opNew, "%q walks above an absolute root", s)
			default:
				p.upwards++
			}
		default:
			p.segments = append(p.segments, seg)
			p.downwards++
		}
	}

	return p, nil
}

// MustNew parses s and panics on error; for call sites constructing paths
// from compile-time literals.
func MustNew(s string) Path {
	p, err := New(s)
	if err != nil {
		panic(err)
	}
	return p
}

// IsAbsolute reports whether the path is rooted.
func (p Path) IsAbsolute() bool { return p.absolute }

// IsRelative reports whether the path is not rooted.
func (p Path) IsRelative() bool { return !p.absolute }

// Upwards returns the number of unresolved ".." components.
func (p Path) Upwards() uint32 { return p.upwards }

// Downwards returns the number of named segments below the root.
func (p Path) Downwards() uint32 { return p.downwards }

// String renders the canonical form.
func (p Path) String() string {
	var b strings.Builder
	if p.absolute {
		b.WriteByte('/')
	} else {
		for i := uint32(0); i < p.upwards; i++ {
			if i > 0 {
				b.WriteByte('/')
			}
			b.WriteString("..")
		}
		if p.upwards > 0 && len(p.segments) > 0 {
			b.WriteByte('/')
		}
	}
	for i, seg := range p.segments {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(seg)
	}
	if !p.absolute && p.upwards == 0 && len(p.segments) == 0 {
		b.WriteByte('.')
	}
	return b.String()
}

// Equal compares two normalized paths field-wise.
func (p Path) Equal(other Path) bool {
	if p.absolute != other.absolute || p.upwards != other.upwards || p.downwards != other.downwards {
		return false
	}
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i := range p.segments {
		if p.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}

// Parent returns the path one level up. A relative path with no named
// segments gains one more ".."; only the absolute root has no parent, and
// then Parent returns false.
func (p Path) Parent() (Path, bool) {
	if len(p.segments) == 0 {
		if p.absolute {
			return Path{}, false
		}
		out := p
		out.upwards++
		return out, true
	}
	out := p
	out.segments = append([]string(nil), p.segments[:len(p.segments)-1]...)
	out.downwards--
	return out, true
}

// Segments returns a copy of the named segments below the root/upwards hops.
func (p Path) Segments() []string {
	return append([]string(nil), p.segments...)
}

// Basename returns the last named segment, or "" for the root.
func (p Path) Basename() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Extension returns the basename's extension without the leading dot.
func (p Path) Extension() string {
	base := p.Basename()
	idx := strings.LastIndexByte(base, '.')
	if idx < 0 || idx == len(base)-1 {
		return ""
	}
	return base[idx+1:]
}

// Join appends a relative path, applying "." / ".." rules against the
// receiver. other must be relative.
func (p Path) Join(other Path) (Path, error) {
	const op = "Path.Join"
	if other.absolute {
		return Path{}, errors.New(errors.KindInvalidPath, op, "cannot join an absolute path onto %q", p.String())
	}

	out := p
	out.segments = append([]string(nil), p.segments...)

	for i := uint32(0); i < other.upwards; i++ {
		if len(out.segments) > 0 {
			out.segments = out.segments[:len(out.segments)-1]
			out.downwards--
		} else if out.absolute {
			return Path{}, errors.New(errors.KindInvalidPath, op, "%q walks above an absolute root", other.String())
		} else {
			out.upwards++
		}
	}
	out.segments = append(out.segments, other.segments...)
	out.downwards += uint32(len(other.segments))

	return out, nil
}

// Rebase strips ancestor from the receiver, returning the remaining tail such
// that ancestor.Join(tail) == p.
func (p Path) Rebase(ancestor Path) (Path, error) {
	const op = "Path.Rebase"
	if !p.StartsWith(ancestor) {
		return Path{}, errors.New(errors.KindInvalidPath, op, "%q is not an ancestor of %q", ancestor.String(), p.String())
	}

	out := Path{absolute: false}
	out.upwards = p.upwards - ancestor.upwards
	out.segments = append([]string(nil), p.segments[len(ancestor.segments):]...)
	out.downwards = uint32(len(out.segments))
	return out, nil
}

// StartsWith reports whether prefix is an ancestor of (or equal to) p: their
// absoluteness matches, prefix consumes no more upward hops than p has, and
// every named segment of prefix matches the corresponding segment of p.
func (p Path) StartsWith(prefix Path) bool {
	if p.absolute != prefix.absolute || p.upwards < prefix.upwards {
		return false
	}
	if len(prefix.segments) > len(p.segments) {
		return false
	}
	for i, seg := range prefix.segments {
		if p.segments[i] != seg {
			return false
		}
	}
	return true
}

// AppendSegment returns p with a single named segment appended, without
// running the "." / ".." normalization rules (the segment is known to be a
// plain name, e.g. one produced by enumerating a directory or archive).
func AppendSegment(p Path, name string) Path {
	out := p
	out.segments = append(append([]string(nil), p.segments...), name)
	out.downwards = p.downwards + 1
	return out
}

// CommonRoot returns the longest shared ancestor of p and other.
func (p Path) CommonRoot(other Path) Path {
	out := Path{absolute: p.absolute && other.absolute}
	if p.absolute != other.absolute {
		return Path{absolute: false}
	}
	n := len(p.segments)
	if len(other.segments) < n {
		n = len(other.segments)
	}
	for i := 0; i < n; i++ {
		if p.segments[i] != other.segments[i] {
			break
		}
		out.segments = append(out.segments, p.segments[i])
		out.downwards++
	}
	return out
}

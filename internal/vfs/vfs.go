// Package vfs is the virtual path/filesystem abstraction: a uniform
// byte-file and directory-tree provider implemented over the host disk, an
// in-memory overlay, and read-only archive containers (ZIP, CFB).
package vfs

import (
	"io"

	ipath "github.com/docreveal/core/internal/path"
)

// Location reports where a File's bytes ultimately live.
type Location int

const (
	LocationDisk Location = iota
	LocationMemory
	LocationNetwork
	LocationUnknown
)

// File is a handle exposing an on-demand byte stream. A handle owns nothing
// but a reference to its backing storage: Open may be called repeatedly and
// must yield identical bytes every time.
type File interface {
	Location() Location
	Size() (int64, error)
	Open() (io.ReadCloser, error)
}

// Filesystem is the read interface every provider satisfies.
type Filesystem interface {
	Exists(p ipath.Path) bool
	IsFile(p ipath.Path) bool
	IsDirectory(p ipath.Path) bool
	Open(p ipath.Path) (File, error)
	Walker(p ipath.Path) (FileWalker, error)
}

// WriteFilesystem is the optional write extension. Not every Filesystem
// implements it (archive-backed filesystems are read-only).
type WriteFilesystem interface {
	Filesystem
	CreateFile(p ipath.Path, r io.Reader) error
	CreateDirectory(p ipath.Path) error
	Remove(p ipath.Path) error
	Copy(src, dst ipath.Path) error
	Move(src, dst ipath.Path) error
}

// FileWalker is a depth-first recursive iterator over a directory tree.
// Walkers are clonable to support multi-pass scans over the same
// filesystem.
type FileWalker interface {
	Path() ipath.Path
	Depth() int
	IsFile() bool
	IsDirectory() bool

	// Next descends into the current entry if it is a directory, otherwise
	// advances to the next sibling. It returns false when the walk is
	// exhausted.
	Next() bool

	// FlatNext advances to the next sibling without descending into the
	// current entry, even if it is a directory.
	FlatNext() bool

	// Pop leaves the current directory, resuming after it at the parent
	// level. It returns false if already at the walk root.
	Pop() bool

	Clone() FileWalker
}

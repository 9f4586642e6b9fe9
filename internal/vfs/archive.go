package vfs

import (
	"io"

	ipath "github.com/docreveal/core/internal/path"
	"github.com/docreveal/core/pkg/errors"
)

// ArchiveEntryKind distinguishes a file entry from a directory entry inside
// an archive's entry table.
type ArchiveEntryKind int

const (
	ArchiveEntryFile ArchiveEntryKind = iota
	ArchiveEntryDirectory
)

// ArchiveEntry is one (path, kind, file) tuple from an opened ZIP or CFB
// container, preserving the container's on-disk order.
type ArchiveEntry interface {
	Path() ipath.Path
	Kind() ArchiveEntryKind
	Size() int64
	Open() (io.ReadCloser, error)
}

// ArchiveReader is satisfied by the ZIP and CFB codecs: an ordered entry
// list plus equality-based lookup.
type ArchiveReader interface {
	Entries() []ArchiveEntry
	Find(p ipath.Path) (ArchiveEntry, bool)
}

// ArchiveFilesystem is a read-only Filesystem view over an ArchiveReader.
type ArchiveFilesystem struct {
	reader ArchiveReader
}

// NewArchiveFilesystem wraps an opened archive (ZIP or CFB) as a Filesystem.
func NewArchiveFilesystem(reader ArchiveReader) *ArchiveFilesystem {
	return &ArchiveFilesystem{reader: reader}
}

func (a *ArchiveFilesystem) Exists(p ipath.Path) bool {
	if p.Equal(ipath.Root) {
		return true
	}
	if _, ok := a.reader.Find(p); ok {
		return true
	}
	return a.IsDirectory(p)
}

func (a *ArchiveFilesystem) IsFile(p ipath.Path) bool {
	e, ok := a.reader.Find(p)
	return ok && e.Kind() == ArchiveEntryFile
}

func (a *ArchiveFilesystem) IsDirectory(p ipath.Path) bool {
	if p.Equal(ipath.Root) {
		return true
	}
	if e, ok := a.reader.Find(p); ok {
		return e.Kind() == ArchiveEntryDirectory
	}
	for _, e := range a.reader.Entries() {
		if e.Path().StartsWith(p) && !e.Path().Equal(p) {
			return true
		}
	}
	return false
}

func (a *ArchiveFilesystem) Open(p ipath.Path) (File, error) {
	const op = "ArchiveFilesystem.Open"
	e, ok := a.reader.Find(p)
	if !ok || e.Kind() != ArchiveEntryFile {
		return nil, errors.New(errors.KindFileNotFound, op, "%q not found in archive", p.String())
	}
	return &archiveFile{entry: e}, nil
}

func (a *ArchiveFilesystem) Walker(p ipath.Path) (FileWalker, error) {
	const op = "ArchiveFilesystem.Walker"
	if !a.Exists(p) {
		return nil, errors.New(errors.KindFileNotFound, op, "%q not found in archive", p.String())
	}

	var specs []entrySpec
	for _, e := range a.reader.Entries() {
		specs = append(specs, entrySpec{
			segments: e.Path().Segments(),
			isFile:   e.Kind() == ArchiveEntryFile,
		})
	}
	return buildEntryWalker(p, specs)
}

type archiveFile struct {
	entry ArchiveEntry
}

func (f *archiveFile) Location() Location { return LocationMemory }

func (f *archiveFile) Size() (int64, error) { return f.entry.Size(), nil }

func (f *archiveFile) Open() (io.ReadCloser, error) {
	return f.entry.Open()
}

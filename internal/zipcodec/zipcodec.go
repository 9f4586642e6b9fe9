// Package zipcodec reads ZIP central directories into ordered entry tables
// and writes ZIP archives with an explicit, caller-controlled entry order —
// the property ODF relies on to keep "mimetype" first and uncompressed.
//
// No third-party ZIP codec appears anywhere in the retrieval pack
// (adnsv-go-xl's xl/zfs.go itself is a thin wrapper over stdlib
// archive/zip), so this package is built on archive/zip rather than a
// hand-rolled central-directory parser.
package zipcodec

import (
	"archive/zip"
	"bytes"
	"io"

	ipath "github.com/docreveal/core/internal/path"
	"github.com/docreveal/core/internal/vfs"
	"github.com/docreveal/core/pkg/errors"
)

// Method mirrors the two compression methods the spec requires callers be
// able to distinguish.
type Method int

const (
	MethodStored Method = iota
	MethodDeflated
)

// Entry is one ZIP central-directory record, exposed as a fresh streaming
// reader per Stream() call (single-pass, ~4KiB buffered by archive/zip
// internally).
type Entry struct {
	path       ipath.Path
	rawName    string
	isDir      bool
	size       int64
	method     Method
	zipFile    *zip.File
}

func (e *Entry) Path() ipath.Path { return e.path }

func (e *Entry) Kind() vfs.ArchiveEntryKind {
	if e.isDir {
		return vfs.ArchiveEntryDirectory
	}
	return vfs.ArchiveEntryFile
}

func (e *Entry) Size() int64 { return e.size }

func (e *Entry) Method() Method { return e.method }

// Open implements vfs.ArchiveEntry.
func (e *Entry) Open() (io.ReadCloser, error) {
	return e.Stream()
}

// Stream returns a fresh single-pass decompressing reader over the entry's
// bytes.
func (e *Entry) Stream() (io.ReadCloser, error) {
	const op = "Entry.Stream"
	if e.zipFile == nil {
		return nil, errors.New(errors.KindNoZipFile, op, "entry %q has no backing zip.File", e.rawName)
	}
	rc, err := e.zipFile.Open()
	if err != nil {
		return nil, errors.Wrap(err, errors.KindFileReadError, op)
	}
	return rc, nil
}

// Reader exposes a ZIP archive's entries in on-disk order.
type Reader struct {
	entries []*Entry
	byPath  map[string]*Entry
}

const opOpen = "zipcodec.Open"

// Open parses the central directory of a ZIP byte source.
func Open(r io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindNoZipFile, opOpen)
	}

	out := &Reader{byPath: make(map[string]*Entry, len(zr.File))}
	for _, f := range zr.File {
		p, perr := ipath.New("/" + f.Name)
		if perr != nil {
			continue
		}
		isDir := f.FileInfo().IsDir() || len(f.Name) > 0 && f.Name[len(f.Name)-1] == '/'
		method := MethodStored
		if f.Method == zip.Deflate {
			method = MethodDeflated
		}
		e := &Entry{
			path:    p,
			rawName: f.Name,
			isDir:   isDir,
			size:    int64(f.UncompressedSize64),
			method:  method,
			zipFile: f,
		}
		out.entries = append(out.entries, e)
		out.byPath[p.String()] = e
	}
	return out, nil
}

// OpenBytes is a convenience wrapper over Open for an in-memory archive.
func OpenBytes(data []byte) (*Reader, error) {
	return Open(bytes.NewReader(data), int64(len(data)))
}

// Entries returns every entry in on-disk order, implementing
// vfs.ArchiveReader.
func (r *Reader) Entries() []vfs.ArchiveEntry {
	out := make([]vfs.ArchiveEntry, len(r.entries))
	for i, e := range r.entries {
		out[i] = e
	}
	return out
}

// Find locates an entry by normalized path equality.
func (r *Reader) Find(p ipath.Path) (vfs.ArchiveEntry, bool) {
	e, ok := r.byPath[p.String()]
	if !ok {
		return nil, false
	}
	return e, true
}

// RawEntries exposes the concrete *Entry slice for callers (the OOXML/ODF
// decoders) that need Method()/rawName-level detail beyond vfs.ArchiveEntry.
func (r *Reader) RawEntries() []*Entry { return r.entries }

// WriteEntry is one (path, bytes, compression level) tuple passed to
// Builder.Add, in the order it should appear in the output archive.
type WriteEntry struct {
	Path  string // archive-relative, no leading slash
	Data  []byte
	Level int // zip.Store writes the entry uncompressed; any other value deflates it at archive/zip's default level
	IsDir bool
}

// Builder accumulates ordered entries and serializes them with
// Write, preserving insertion order — ODF mandates an uncompressed
// "mimetype" entry first.
type Builder struct {
	entries []WriteEntry
}

// NewBuilder creates an empty archive builder.
func NewBuilder() *Builder { return &Builder{} }

// Add appends a stored-or-deflated file entry.
func (b *Builder) Add(path string, data []byte, level int) {
	b.entries = append(b.entries, WriteEntry{Path: path, Data: data, Level: level})
}

// AddDirectory appends an explicit directory entry ("/"-terminated).
func (b *Builder) AddDirectory(path string) {
	if len(path) == 0 || path[len(path)-1] != '/' {
		path += "/"
	}
	b.entries = append(b.entries, WriteEntry{Path: path, IsDir: true})
}

const opWrite = "Builder.Write"

// Write serializes the accumulated entries, in insertion order, to w.
func (b *Builder) Write(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, e := range b.entries {
		if e.IsDir {
			if _, err := zw.Create(e.Path); err != nil {
				zw.Close()
				return errors.Wrap(err, errors.KindZipSaveError, opWrite)
			}
			continue
		}

		method := zip.Deflate
		if e.Level == zip.Store {
			method = zip.Store
		}
		fh := &zip.FileHeader{Name: e.Path, Method: method}
		fw, err := zw.CreateHeader(fh)
		if err != nil {
			zw.Close()
			return errors.Wrap(err, errors.KindZipSaveError, opWrite)
		}
		if _, err := fw.Write(e.Data); err != nil {
			zw.Close()
			return errors.Wrap(err, errors.KindZipSaveError, opWrite)
		}
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, errors.KindZipSaveError, opWrite)
	}
	return nil
}

// Package cfbcodec walks a Microsoft Compound File Binary container's
// directory tree — the red-black tree that legacy Word/PowerPoint/Excel
// files and encrypted-OOXML envelopes are built from — and exposes it as an
// ordered entry list.
//
// The actual red-black tree descent (left/right/child subtree pointers,
// UCS-2LE name decoding) is implemented by github.com/richardlehane/mscfb,
// which the retrieval pack already depends on (Beakyn-excelize,
// word-extractor, pigletfly-tablib-go); this package wraps its single-pass
// Reader.Next() traversal into the cached, multi-read entry table the
// Filesystem contract requires (a File handle must yield identical bytes
// across repeated reads, which a forward-only CFB cursor cannot do on its
// own).
package cfbcodec

import (
	"bytes"
	"io"

	"github.com/richardlehane/mscfb"

	ipath "github.com/docreveal/core/internal/path"
	"github.com/docreveal/core/internal/vfs"
	"github.com/docreveal/core/pkg/errors"
)

// Entry is one CFB directory entry (a "stream" in CFB terminology; CFB has
// no true sub-storages distinct from directories for our purposes, so every
// non-leaf directory component is synthesized as ArchiveEntryDirectory).
type Entry struct {
	path   ipath.Path
	isFile bool
	data   []byte
}

func (e *Entry) Path() ipath.Path { return e.path }

func (e *Entry) Kind() vfs.ArchiveEntryKind {
	if e.isFile {
		return vfs.ArchiveEntryFile
	}
	return vfs.ArchiveEntryDirectory
}

func (e *Entry) Size() int64 { return int64(len(e.data)) }

func (e *Entry) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(e.data)), nil
}

// Reader exposes a CFB container's streams in directory-tree traversal
// order, buffered so each entry supports repeated, independent reads.
type Reader struct {
	entries []*Entry
	byPath  map[string]*Entry
}

const opOpen = "cfbcodec.Open"

// Open walks the CFB directory tree rooted at r, buffering every stream.
func Open(r io.Reader) (*Reader, error) {
	doc, err := mscfb.New(toReaderAt(r))
	if err != nil {
		return nil, errors.Wrap(err, errors.KindNoCfbFile, opOpen)
	}

	out := &Reader{byPath: make(map[string]*Entry)}
	seenDirs := make(map[string]bool)

	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry == nil {
			continue
		}
		segs := append(append([]string(nil), entry.Path...), entry.Name)

		// Synthesize directory entries for every ancestor storage so the
		// entry appears under a walkable tree, the way a ZIP's implicit
		// directories do.
		for i := 1; i < len(segs); i++ {
			dirPath := ipath.Root
			for _, s := range segs[:i] {
				dirPath = ipath.AppendSegment(dirPath, s)
			}
			key := dirPath.String()
			if !seenDirs[key] {
				seenDirs[key] = true
				de := &Entry{path: dirPath, isFile: false}
				out.entries = append(out.entries, de)
				out.byPath[key] = de
			}
		}

		p := ipath.Root
		for _, s := range segs {
			p = ipath.AppendSegment(p, s)
		}

		data := make([]byte, entry.Size)
		if entry.Size > 0 {
			if _, rerr := io.ReadFull(entry, data); rerr != nil && rerr != io.ErrUnexpectedEOF {
				return nil, errors.Wrap(rerr, errors.KindCfbFileCorrupted, opOpen)
			}
		}

		e := &Entry{path: p, isFile: true, data: data}
		out.entries = append(out.entries, e)
		out.byPath[p.String()] = e
	}

	return out, nil
}

// OpenBytes is a convenience wrapper for an in-memory CFB container.
func OpenBytes(data []byte) (*Reader, error) {
	return Open(bytes.NewReader(data))
}

func toReaderAt(r io.Reader) io.ReaderAt {
	// mscfb.New accepts an io.ReaderAt; callers already hand us one in the
	// common case (bytes.Reader, os.File). Buffering a plain io.Reader into
	// memory keeps the contract simple for callers that only have a stream.
	if ra, ok := r.(io.ReaderAt); ok {
		return ra
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return bytes.NewReader(nil)
	}
	return bytes.NewReader(data)
}

// Entries returns every entry (files and synthesized directories) in
// traversal order, implementing vfs.ArchiveReader.
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

// HasStream reports whether a top-level stream with the given name exists —
// used by the format probe to recognize legacy WordDocument / PowerPoint
// Document / Workbook / EncryptionInfo streams.
func (r *Reader) HasStream(name string) bool {
	p := ipath.AppendSegment(ipath.Root, name)
	_, ok := r.byPath[p.String()]
	return ok
}

// Stream returns the buffered bytes of a named top-level stream.
func (r *Reader) Stream(name string) ([]byte, bool) {
	p := ipath.AppendSegment(ipath.Root, name)
	e, ok := r.byPath[p.String()]
	if !ok || !e.isFile {
		return nil, false
	}
	return e.data, true
}

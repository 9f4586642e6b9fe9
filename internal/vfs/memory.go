package vfs

import (
	"bytes"
	"io"
	"strings"
	"sync"

	ipath "github.com/docreveal/core/internal/path"
	"github.com/docreveal/core/pkg/errors"
)

// MemoryFilesystem maps paths to in-memory file handles. Directory
// existence is derived from the existence of descendants unless an
// explicit directory marker was created. Safe for concurrent reads; writes
// are serialized by an internal mutex, matching the concurrency model in
// spec.md §5 (readers may run on multiple goroutines, writers must not
// race a reader of the same handle).
type MemoryFilesystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool
	order []string // insertion order, preserved for Walker
}

// NewMemoryFilesystem creates an empty virtual filesystem.
func NewMemoryFilesystem() *MemoryFilesystem {
	return &MemoryFilesystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func (m *MemoryFilesystem) Exists(p ipath.Path) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.existsLocked(p)
}

func (m *MemoryFilesystem) existsLocked(p ipath.Path) bool {
	key := p.String()
	if _, ok := m.files[key]; ok {
		return true
	}
	if m.dirs[key] {
		return true
	}
	prefix := key
	if prefix != "/" {
		prefix += "/"
	}
	for k := range m.files {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

func (m *MemoryFilesystem) IsFile(p ipath.Path) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[p.String()]
	return ok
}

func (m *MemoryFilesystem) IsDirectory(p ipath.Path) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key := p.String()
	if _, ok := m.files[key]; ok {
		return false
	}
	return m.existsLocked(p)
}

func (m *MemoryFilesystem) Open(p ipath.Path) (File, error) {
	const op = "MemoryFilesystem.Open"
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[p.String()]
	if !ok {
		return nil, errors.New(errors.KindFileNotFound, op, "%q not found", p.String())
	}
	return &memFile{data: data}, nil
}

func (m *MemoryFilesystem) Walker(p ipath.Path) (FileWalker, error) {
	const op = "MemoryFilesystem.Walker"
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.existsLocked(p) {
		return nil, errors.New(errors.KindFileNotFound, op, "%q not found", p.String())
	}

	var specs []entrySpec
	for _, key := range m.order {
		pp, err := ipath.New(key)
		if err != nil {
			continue
		}
		specs = append(specs, entrySpec{segments: pp.Segments(), isFile: true})
	}
	for key := range m.dirs {
		pp, err := ipath.New(key)
		if err != nil {
			continue
		}
		specs = append(specs, entrySpec{segments: pp.Segments(), isFile: false})
	}

	return buildEntryWalker(p, specs)
}

func (m *MemoryFilesystem) CreateFile(p ipath.Path, r io.Reader) error {
	const op = "MemoryFilesystem.CreateFile"
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, errors.KindFileWriteError, op)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := p.String()
	if _, existed := m.files[key]; !existed {
		m.order = append(m.order, key)
	}
	m.files[key] = data
	return nil
}

func (m *MemoryFilesystem) CreateDirectory(p ipath.Path) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[p.String()] = true
	return nil
}

func (m *MemoryFilesystem) Remove(p ipath.Path) error {
	const op = "MemoryFilesystem.Remove"
	m.mu.Lock()
	defer m.mu.Unlock()
	key := p.String()
	if _, ok := m.files[key]; !ok && !m.dirs[key] {
		return errors.New(errors.KindFileNotFound, op, "%q not found", p.String())
	}
	delete(m.files, key)
	delete(m.dirs, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryFilesystem) Copy(src, dst ipath.Path) error {
	const op = "MemoryFilesystem.Copy"
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[src.String()]
	if !ok {
		return errors.New(errors.KindFileNotFound, op, "%q not found", src.String())
	}
	key := dst.String()
	if _, existed := m.files[key]; !existed {
		m.order = append(m.order, key)
	}
	m.files[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryFilesystem) Move(src, dst ipath.Path) error {
	if err := m.Copy(src, dst); err != nil {
		return err
	}
	return m.Remove(src)
}

type memFile struct {
	data []byte
}

func (f *memFile) Location() Location { return LocationMemory }

func (f *memFile) Size() (int64, error) { return int64(len(f.data)), nil }

func (f *memFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

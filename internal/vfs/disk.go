package vfs

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ipath "github.com/docreveal/core/internal/path"
	"github.com/docreveal/core/pkg/errors"
)

// DiskFilesystem translates every logical path through root.Join(path) and
// delegates to the host filesystem.
type DiskFilesystem struct {
	root string
}

// NewDiskFilesystem roots a filesystem at the given absolute host directory.
func NewDiskFilesystem(root string) *DiskFilesystem {
	return &DiskFilesystem{root: filepath.Clean(root)}
}

func (d *DiskFilesystem) hostPath(p ipath.Path) string {
	rel := strings.Join(p.Segments(), string(filepath.Separator))
	return filepath.Join(d.root, rel)
}

func (d *DiskFilesystem) Exists(p ipath.Path) bool {
	_, err := os.Stat(d.hostPath(p))
	return err == nil
}

func (d *DiskFilesystem) IsFile(p ipath.Path) bool {
	info, err := os.Stat(d.hostPath(p))
	return err == nil && !info.IsDir()
}

func (d *DiskFilesystem) IsDirectory(p ipath.Path) bool {
	info, err := os.Stat(d.hostPath(p))
	return err == nil && info.IsDir()
}

func (d *DiskFilesystem) Open(p ipath.Path) (File, error) {
	const op = "DiskFilesystem.Open"
	host := d.hostPath(p)
	info, err := os.Stat(host)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindFileNotFound, op)
	}
	if info.IsDir() {
		return nil, errors.New(errors.KindFileNotFound, op, "%q is a directory", p.String())
	}
	return &diskFile{host: host, size: info.Size()}, nil
}

func (d *DiskFilesystem) Walker(p ipath.Path) (FileWalker, error) {
	const op = "DiskFilesystem.Walker"
	host := d.hostPath(p)
	info, err := os.Stat(host)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindFileNotFound, op)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.KindFileNotFound, op, "%q is not a directory", p.String())
	}

	var specs []entrySpec
	err = filepath.WalkDir(host, func(walked string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if walked == host {
			return nil
		}
		rel, err := filepath.Rel(host, walked)
		if err != nil {
			return err
		}
		specs = append(specs, entrySpec{
			segments: strings.Split(filepath.ToSlash(rel), "/"),
			isFile:   !de.IsDir(),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.KindFileReadError, op)
	}

	return buildEntryWalker(ipath.Root, specs)
}

func (d *DiskFilesystem) CreateFile(p ipath.Path, r io.Reader) error {
	const op = "DiskFilesystem.CreateFile"
	host := d.hostPath(p)
	if err := os.MkdirAll(filepath.Dir(host), 0o777); err != nil {
		return errors.Wrap(err, errors.KindFileWriteError, op)
	}
	f, err := os.Create(host)
	if err != nil {
		return errors.Wrap(err, errors.KindFileWriteError, op)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return errors.Wrap(err, errors.KindFileWriteError, op)
	}
	return nil
}

func (d *DiskFilesystem) CreateDirectory(p ipath.Path) error {
	const op = "DiskFilesystem.CreateDirectory"
	if err := os.MkdirAll(d.hostPath(p), 0o777); err != nil {
		return errors.Wrap(err, errors.KindFileWriteError, op)
	}
	return nil
}

func (d *DiskFilesystem) Remove(p ipath.Path) error {
	const op = "DiskFilesystem.Remove"
	if err := os.RemoveAll(d.hostPath(p)); err != nil {
		return errors.Wrap(err, errors.KindFileWriteError, op)
	}
	return nil
}

func (d *DiskFilesystem) Copy(src, dst ipath.Path) error {
	const op = "DiskFilesystem.Copy"
	in, err := os.Open(d.hostPath(src))
	if err != nil {
		return errors.Wrap(err, errors.KindFileReadError, op)
	}
	defer in.Close()
	return d.CreateFile(dst, in)
}

func (d *DiskFilesystem) Move(src, dst ipath.Path) error {
	const op = "DiskFilesystem.Move"
	if err := os.MkdirAll(filepath.Dir(d.hostPath(dst)), 0o777); err != nil {
		return errors.Wrap(err, errors.KindFileWriteError, op)
	}
	if err := os.Rename(d.hostPath(src), d.hostPath(dst)); err != nil {
		return errors.Wrap(err, errors.KindFileWriteError, op)
	}
	return nil
}

type diskFile struct {
	host string
	size int64
}

func (f *diskFile) Location() Location { return LocationDisk }

func (f *diskFile) Size() (int64, error) { return f.size, nil }

func (f *diskFile) Open() (io.ReadCloser, error) {
	return os.Open(f.host)
}

package vfs

import (
	"io"
	"io/fs"
	"strings"

	"github.com/cockroachdb/errors"
)

// FS wraps an fs.FS (typically an embed.FS of bundled music) as a Storage.
// Files that cannot seek are rejected at Open time; streaming decoders need
// random access.
type FS struct {
	fsys fs.FS
}

func NewFS(fsys fs.FS) FS { return FS{fsys: fsys} }

func (s FS) Open(path string) (File, error) {
	f, err := s.fsys.Open(cleanFSPath(path))
	if err != nil {
		return nil, err
	}
	seeker, ok := f.(io.Seeker)
	if !ok {
		_ = f.Close()
		return nil, errors.Newf("vfs: %s does not support seeking", path)
	}
	return fsFile{File: f, seeker: seeker}, nil
}

type fsFile struct {
	fs.File
	seeker io.Seeker
}

func (f fsFile) Seek(offset int64, whence int) (int64, error) {
	return f.seeker.Seek(offset, whence)
}

func (f fsFile) Size() (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func cleanFSPath(path string) string {
	path = strings.TrimPrefix(path, "./")
	if path == "" {
		return "."
	}
	return path
}

package vfs

import (
	"os"
	"path/filepath"
)

// OS is the default Storage, backed by the native filesystem.
type OS struct{}

func NewOS() OS { return OS{} }

func (OS) Open(path string) (File, error) {
	f, err := os.Open(filepath.FromSlash(path))
	if err != nil {
		return nil, err
	}
	return osFile{f}, nil
}

type osFile struct {
	*os.File
}

func (f osFile) Size() (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

package fota

import (
	"io"
	"os"
	"path/filepath"
)

// Storage is the flash-backed filesystem the artifact lives on. The
// downloader creates (truncating), removes and re-reads exactly one
// file through it; tests substitute an in-memory implementation.
type Storage interface {
	// Create opens the named file for writing, truncating any
	// previous content.
	Create(name string) (io.WriteCloser, error)
	// Open opens the named file for reading.
	Open(name string) (io.ReadCloser, error)
	// Remove deletes the named file.
	Remove(name string) error
}

// DirStorage implements Storage inside a root directory on the local
// filesystem.
type DirStorage struct {
	Root string
}

func (s DirStorage) path(name string) string {
	return filepath.Join(s.Root, name)
}

func (s DirStorage) Create(name string) (io.WriteCloser, error) {
	return os.Create(s.path(name))
}

func (s DirStorage) Open(name string) (io.ReadCloser, error) {
	return os.Open(s.path(name))
}

func (s DirStorage) Remove(name string) error {
	return os.Remove(s.path(name))
}

// Exists is not part of Storage; it is a convenience for callers that
// hold a DirStorage directly.
func (s DirStorage) Exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

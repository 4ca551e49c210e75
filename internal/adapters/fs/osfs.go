// Package fs provides the operating system file system, a source walker and a
// cached content hasher.
package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports"
)

var _ ports.FileSystem = (*OSFS)(nil)

// OSFS implements ports.FileSystem on the real file system.
type OSFS struct{}

// NewOSFS creates a new OSFS.
func NewOSFS() *OSFS {
	return &OSFS{}
}

// FileExists reports whether path exists and is not a directory.
func (*OSFS) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DirectoryExists reports whether path exists and is a directory.
func (*OSFS) DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ReadFile reads the entire file at path.
func (*OSFS) ReadFile(path string) ([]byte, error) {
	// #nosec G304 -- paths come from the project being built
	return os.ReadFile(path)
}

// WriteFile writes data to path, creating parent directories.
func (*OSFS) WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return err
	}
	//nolint:gosec // emitted files are meant to be world readable
	return os.WriteFile(path, data, domain.FilePerm)
}

// DeleteFile removes path. A missing file is not an error.
func (*OSFS) DeleteFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return err
	}
	return nil
}

// ReadDir lists the entries of a directory.
func (*OSFS) ReadDir(path string) ([]iofs.DirEntry, error) {
	return os.ReadDir(path)
}

package ports

import "io/fs"

// FileSystem is the file system abstraction the build engine performs all
// emit-related I/O through.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	FileExists(path string) bool
	DirectoryExists(path string) bool
	ReadFile(path string) ([]byte, error)
	// WriteFile writes data, creating parent directories as needed.
	WriteFile(path string, data []byte) error
	// DeleteFile removes a file. Deleting a missing file is not an error.
	DeleteFile(path string) error
	ReadDir(path string) ([]fs.DirEntry, error)
}

package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// skippedDirectories are never descended into.
var skippedDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every file below root. exclude receives the slash-separated
// path relative to root and may prune whole directories.
func (w *Walker) WalkFiles(root string, exclude func(rel string, isDir bool) bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable directories are skipped rather than failing the walk.
				return nil //nolint:nilerr // intentional
			}

			if path == root {
				return nil
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return nil //nolint:nilerr // unreachable for paths below root
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if skippedDirectories[d.Name()] || (exclude != nil && exclude(rel, true)) {
					return filepath.SkipDir
				}
				return nil
			}

			if exclude != nil && exclude(rel, false) {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

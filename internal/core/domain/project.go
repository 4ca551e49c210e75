package domain

import (
	"path/filepath"
	"strings"
)

// Project is a parsed project descriptor with the target options applied.
type Project struct {
	// ConfigPath is the absolute path of the tsconfig file.
	ConfigPath string
	// Options are the effective compiler options.
	Options CompilerOptions
	// FileNames are the absolute paths of the source files to emit.
	FileNames []string
	// References are the absolute config paths of referenced projects.
	References []string
	// StateFile is the incremental state path, empty when the project is not incremental.
	StateFile string
	// Diagnostics are the errors found while parsing the descriptor.
	Diagnostics []Diagnostic
}

// Dir returns the directory containing the project descriptor.
func (p *Project) Dir() string {
	return filepath.Dir(p.ConfigPath)
}

// Incremental reports whether the project persists incremental state.
func (p *Project) Incremental() bool {
	return p.Options.Bool("incremental") || p.Options.Bool("composite")
}

// StateBase returns the state file path without its .tsbuildinfo extension.
func (p *Project) StateBase() string {
	return strings.TrimSuffix(p.StateFile, BuildInfoExt)
}

// OutputFile is one file produced by an emit.
type OutputFile struct {
	Path string
	Data []byte
}

// TranspileInput is a single-file transpile request.
type TranspileInput struct {
	FileName     string
	Source       []byte
	Project      *Project
	Transformers Transformers
	// ReadFile looks up package.json files when the module format depends on
	// them. Nil disables the lookup.
	ReadFile func(path string) ([]byte, error)
}

// TranspileOutput is the result of a single-file transpile.
type TranspileOutput struct {
	Files       []OutputFile
	Diagnostics []Diagnostic
}

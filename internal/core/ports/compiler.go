package ports

import (
	"context"

	"go.trai.ch/tsmulti/internal/core/domain"
)

// BuildSession is the immutable per-worker configuration handed to a
// Compiler. It is constructed once and shared by reference.
type BuildSession struct {
	Projects []string
	Cwd      string
	Host     FileSystem
	Reporter Reporter
	// Transformers are appended to by the worker, never replaced.
	Transformers domain.Transformers
	// CompilerOptions are applied on top of every parsed project.
	CompilerOptions domain.CompilerOptions
	// ConfigureProject, when set, is called for every parsed project.
	ConfigureProject func(*domain.Project)
	Flags            domain.BuildFlags
}

// Compiler is the capability interface of a build engine.
//
//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Name returns the compiler identifier.
	Name() string
	// ParseProject reads a project descriptor. Problems are reported as
	// diagnostics on the returned project.
	ParseProject(path string, session *BuildSession) *domain.Project
	// BuildIncremental builds every session project and its references.
	BuildIncremental(ctx context.Context, session *BuildSession) domain.ExitStatus
	// WatchProject builds and then rebuilds on change until ctx is done.
	WatchProject(ctx context.Context, session *BuildSession) error
	// Clean deletes every output of the session projects.
	Clean(ctx context.Context, session *BuildSession) domain.ExitStatus
	// TranspileFile transpiles a single file without type information.
	TranspileFile(input domain.TranspileInput) domain.TranspileOutput
	// Emit writes the outputs of a parsed project and returns the written paths.
	Emit(ctx context.Context, project *domain.Project, session *BuildSession) ([]string, []domain.Diagnostic, error)
}

// TypeChecker runs a full type check of a project.
type TypeChecker interface {
	Check(ctx context.Context, project *domain.Project, cwd string) ([]domain.Diagnostic, error)
}

// CompilerLoader resolves a compiler by name at worker startup.
type CompilerLoader interface {
	Load(name, cwd string) (Compiler, error)
}

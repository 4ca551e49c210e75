// Package compilers resolves compiler names to build engines.
package compilers

import (
	"go.trai.ch/tsmulti/internal/adapters/esbuild"
	"go.trai.ch/tsmulti/internal/adapters/fs"
	"go.trai.ch/tsmulti/internal/adapters/tsc"
	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports"
)

// TranspilerName selects the esbuild engine without a type check.
const TranspilerName = "esbuild"

// Resolver finds the command line of a type checker.
type Resolver interface {
	Resolve(name, cwd string) ([]string, error)
}

// Registry implements ports.CompilerLoader.
type Registry struct {
	hasher     ports.Hasher
	walker     *fs.Walker
	newWatcher ports.WatcherFactory
	resolver   Resolver
}

var _ ports.CompilerLoader = (*Registry)(nil)

// NewRegistry creates a Registry.
func NewRegistry(hasher ports.Hasher, walker *fs.Walker, newWatcher ports.WatcherFactory, resolver Resolver) *Registry {
	return &Registry{
		hasher:     hasher,
		walker:     walker,
		newWatcher: newWatcher,
		resolver:   resolver,
	}
}

// Load returns the compiler named name. The empty name selects the
// typescript package. Any name other than "esbuild" must resolve to a tsc
// executable, which type checks every project before it is emitted.
func (r *Registry) Load(name, cwd string) (ports.Compiler, error) {
	if name == TranspilerName {
		return esbuild.New(TranspilerName, nil, r.hasher, r.walker, r.newWatcher), nil
	}
	if name == "" {
		name = domain.DefaultCompiler
	}

	command, err := r.resolver.Resolve(name, cwd)
	if err != nil {
		return nil, err
	}
	return esbuild.New(name, tsc.NewChecker(command), r.hasher, r.walker, r.newWatcher), nil
}

// Package worker runs the build of a single target inside a worker process.
package worker

import (
	"context"
	"io"

	"go.trai.ch/tsmulti/internal/adapters/host"    //nolint:depguard // Wired in engine layer
	"go.trai.ch/tsmulti/internal/adapters/report"  //nolint:depguard // Wired in engine layer
	"go.trai.ch/tsmulti/internal/adapters/rewrite" //nolint:depguard // Wired in engine layer
	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports"
	"go.trai.ch/zerr"
)

// Mode is the state a worker runs its build in.
type Mode string

const (
	// ModeTranspile transpiles every file on its own, bypassing the build engine.
	ModeTranspile Mode = "transpile"
	// ModeBuild runs one incremental build.
	ModeBuild Mode = "build"
	// ModeWatch builds and rebuilds until the worker is terminated.
	ModeWatch Mode = "watch"
	// ModeClean deletes the outputs of the projects.
	ModeClean Mode = "clean"
)

// Worker builds one target.
type Worker struct {
	loader ports.CompilerLoader
	fs     ports.FileSystem
	logger ports.Logger
	out    io.Writer
}

// New creates a Worker reporting diagnostics to out.
func New(loader ports.CompilerLoader, fs ports.FileSystem, logger ports.Logger, out io.Writer) *Worker {
	return &Worker{
		loader: loader,
		fs:     fs,
		logger: logger,
		out:    out,
	}
}

// ModeOf returns the mode a request runs in.
func ModeOf(req *domain.BuildRequest) Mode {
	switch {
	case req.Flags.Clean:
		return ModeClean
	case req.Target.TranspileOnly:
		return ModeTranspile
	case req.Flags.Watch:
		return ModeWatch
	default:
		return ModeBuild
	}
}

// Run loads the compiler and runs the build of req.
func (w *Worker) Run(ctx context.Context, req *domain.BuildRequest) domain.ExitStatus {
	name := req.Compiler
	if name == "" {
		name = domain.DefaultCompiler
	}

	compiler, err := w.loader.Load(name, req.Cwd)
	if err != nil {
		w.logger.Error(zerr.With(err, "target", req.Target.ResolvedExtname()))
		return domain.ExitDiagnosticsPresentOutputsSkipped
	}
	w.logger.Debug("loaded compiler " + compiler.Name())

	session := w.NewSession(req)

	switch ModeOf(req) {
	case ModeClean:
		return compiler.Clean(ctx, session)
	case ModeTranspile:
		if req.Flags.Watch {
			w.logger.Warn("watch is not supported with transpileOnly; building once")
		}
		return w.transpile(ctx, compiler, session)
	case ModeWatch:
		if err := compiler.WatchProject(ctx, session); err != nil {
			w.logger.Error(err)
			return domain.ExitDiagnosticsPresentOutputsSkipped
		}
		return domain.ExitSuccess
	default:
		return compiler.BuildIncremental(ctx, session)
	}
}

// NewSession builds the immutable session of req.
func (w *Worker) NewSession(req *domain.BuildRequest) *ports.BuildSession {
	target := req.Target
	extname := target.ResolvedExtname()
	overrides := target.ResolvedOverrides()

	h := host.New(w.fs, host.Config{
		Extname:   extname,
		Overrides: overrides,
		Cwd:       req.Cwd,
	})

	projects := req.Projects
	if len(projects) == 0 {
		projects = []string{"."}
	}

	return &ports.BuildSession{
		Projects: projects,
		Cwd:      req.Cwd,
		Host:     h,
		Reporter: report.New(w.out, report.Options{
			Cwd:         req.Cwd,
			Prefix:      req.ReportPrefix,
			PrefixColor: req.PrefixColor,
			Color:       req.Color,
		}),
		Transformers:    domain.Transformers{}.Merge(rewrite.New(h, extname).Transformers()),
		CompilerOptions: target.BuildOptions(),
		ConfigureProject: func(p *domain.Project) {
			if p.Incremental() && target.NeedsIsolation() {
				p.StateFile = domain.IncrementalStateKey(p.StateBase(), extname, overrides, target.OutDir)
			}
		},
		Flags: domain.BuildFlags{
			Verbose: req.Flags.Verbose,
			Dry:     req.Flags.Dry,
			Force:   req.Flags.Force,
			Watch:   req.Flags.Watch,
			Clean:   req.Flags.Clean,
		},
	}
}

// Package app implements the application layer for tsmulti.
package app

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"

	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports"
	"go.trai.ch/tsmulti/internal/engine/worker"
	"go.trai.ch/zerr"
)

// Runner runs a build plan across worker processes.
type Runner interface {
	Run(ctx context.Context, plan domain.BuildPlan) (int, error)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	runner       Runner
	compilers    ports.CompilerLoader
	fs           ports.FileSystem
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	runner Runner,
	compilers ports.CompilerLoader,
	fs ports.FileSystem,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		runner:       runner,
		compilers:    compilers,
		fs:           fs,
		logger:       log,
	}
}

// BuildOptions are the command line inputs of a build. Zero values defer to
// the configuration file.
type BuildOptions struct {
	Cwd        string
	ConfigPath string
	Compiler   string
	MaxWorkers int
	Projects   []string
	Color      bool
	Flags      domain.BuildFlags
}

// Build loads the configuration and builds every target. A non-zero worker
// status is returned as *domain.ExitError.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	a.logger.SetVerbose(opts.Flags.Verbose)

	cwd, err := filepath.Abs(opts.Cwd)
	if err != nil {
		return zerr.Wrap(err, "failed to resolve working directory")
	}

	cfg, err := a.configLoader.Load(cwd, opts.ConfigPath)
	if err != nil {
		return err
	}
	if cfg.Path != "" {
		a.logger.Debug("using config " + cfg.Path)
	}

	projects, err := a.projects(cwd, cfg, opts.Projects)
	if err != nil {
		return err
	}

	plan := domain.BuildPlan{
		Targets:    cfg.Targets,
		Projects:   projects,
		Cwd:        cwd,
		Compiler:   cfg.Compiler,
		MaxWorkers: cfg.MaxWorkers,
		Color:      opts.Color,
		Flags:      opts.Flags,
	}
	if opts.Compiler != "" {
		plan.Compiler = opts.Compiler
	}
	if opts.MaxWorkers > 0 {
		plan.MaxWorkers = opts.MaxWorkers
	}

	code, err := a.runner.Run(ctx, plan)
	if err != nil {
		return err
	}
	if code != 0 {
		return &domain.ExitError{Code: code}
	}
	return nil
}

// projects resolves CLI project arguments against cwd and configured
// projects against the config directory.
func (a *App) projects(cwd string, cfg *domain.Config, args []string) ([]string, error) {
	switch {
	case len(args) > 0:
		return a.configLoader.DiscoverProjects(cwd, args)
	case len(cfg.Projects) > 0:
		return a.configLoader.DiscoverProjects(cfg.Dir, cfg.Projects)
	default:
		return nil, nil
	}
}

// RunWorker reads one build request from stdin and runs it. Diagnostics are
// written to stdout.
func (a *App) RunWorker(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	var req domain.BuildRequest
	if err := json.NewDecoder(stdin).Decode(&req); err != nil {
		return zerr.Wrap(err, domain.ErrWorkerRequestDecode.Error())
	}
	a.logger.SetVerbose(req.Flags.Verbose)
	if p, ok := a.logger.(prefixer); ok && req.ReportPrefix != "" {
		p.SetPrefix(req.ReportPrefix)
	}

	status := worker.New(a.compilers, a.fs, a.logger, stdout).Run(ctx, &req)
	if status != domain.ExitSuccess {
		return &domain.ExitError{Code: int(status)}
	}
	return nil
}

// prefixer is implemented by loggers that can label their lines.
type prefixer interface {
	SetPrefix(prefix string)
}

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

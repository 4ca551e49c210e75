// Package esbuild implements the build engine on top of esbuild's transform
// API. It parses tsconfig projects, orders them by their references, keeps
// incremental state and emits one JavaScript file per source file.
package esbuild

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/tsmulti/internal/adapters/fs"
	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports"
)

var _ ports.Compiler = (*Engine)(nil)

// Engine is a ports.Compiler backed by esbuild. An optional TypeChecker runs
// before every emit.
type Engine struct {
	name       string
	checker    ports.TypeChecker
	hasher     ports.Hasher
	walker     *fs.Walker
	newWatcher ports.WatcherFactory
	layouts    sync.Map
}

// New creates an Engine. checker may be nil.
func New(name string, checker ports.TypeChecker, hasher ports.Hasher, walker *fs.Walker, newWatcher ports.WatcherFactory) *Engine {
	return &Engine{
		name:       name,
		checker:    checker,
		hasher:     hasher,
		walker:     walker,
		newWatcher: newWatcher,
	}
}

// Name returns the compiler identifier.
func (e *Engine) Name() string {
	return e.name
}

// ParseProject reads the project descriptor at path. A directory means its
// tsconfig.json. Problems are reported as diagnostics on the project.
func (e *Engine) ParseProject(path string, session *ports.BuildSession) *domain.Project {
	if !filepath.IsAbs(path) {
		path = filepath.Join(session.Cwd, path)
	}
	requested := filepath.Clean(path)
	configPath := requested
	isDir := session.Host.DirectoryExists(requested)
	if isDir {
		configPath = filepath.Join(requested, domain.TSConfigFileName)
	}

	project := &domain.Project{ConfigPath: configPath, Options: domain.CompilerOptions{}}
	if !session.Host.FileExists(configPath) {
		d := domain.Diagnostic{Category: domain.CategoryError}
		switch {
		case isDir:
			d.Code, d.Message = 5057, fmt.Sprintf("Cannot find a tsconfig.json file at the specified directory: '%s'.", requested)
		case strings.HasSuffix(requested, ".json"):
			d.Code, d.Message = 6053, fmt.Sprintf("File '%s' not found.", requested)
		default:
			d.Code, d.Message = 5058, fmt.Sprintf("The specified path does not exist: '%s'.", requested)
		}
		project.Diagnostics = append(project.Diagnostics, d)
		return project
	}

	loader := &configLoader{host: session.Host}
	cfg, diag := loader.load(configPath)
	if diag != nil {
		project.Diagnostics = append(project.Diagnostics, *diag)
		return project
	}

	project.Options = cfg.Options.Merge(absolutize(session.CompilerOptions, project.Dir()))
	project.References = cfg.References

	files, diags := e.discoverFiles(cfg, project.Options, configPath)
	project.FileNames = files
	project.Diagnostics = append(project.Diagnostics, diags...)

	if project.Incremental() {
		project.StateFile = defaultStateFile(project)
	}
	if session.ConfigureProject != nil {
		session.ConfigureProject(project)
	}
	return project
}

// defaultStateFile mirrors tsc's tsbuildinfo location.
func defaultStateFile(p *domain.Project) string {
	if explicit := p.Options.String("tsBuildInfoFile"); explicit != "" {
		return explicit
	}
	name := strings.TrimSuffix(filepath.Base(p.ConfigPath), filepath.Ext(p.ConfigPath)) + domain.BuildInfoExt
	if out := p.Options.String("outDir"); out != "" {
		return filepath.Join(out, name)
	}
	return filepath.Join(p.Dir(), name)
}

// BuildIncremental builds every session project and its references, then
// reports the error summary.
func (e *Engine) BuildIncremental(ctx context.Context, session *ports.BuildSession) domain.ExitStatus {
	status, errs := e.build(ctx, session)
	session.Reporter.ErrorSummary(errs)
	return status
}

// build runs one build pass and returns its status and error count.
func (e *Engine) build(ctx context.Context, session *ports.BuildSession) (domain.ExitStatus, int) {
	e.layouts.Clear()

	projects, status, diags := e.resolveProjects(session)
	if status != domain.ExitSuccess {
		for _, d := range diags {
			session.Reporter.Diagnostic(d)
		}
		return status, domain.CountErrors(diags)
	}

	if session.Flags.Verbose {
		lines := make([]string, 0, len(projects))
		for _, p := range projects {
			lines = append(lines, "    * "+e.rel(session, p.ConfigPath))
		}
		e.status(session, "Projects in this build: \n%s", strings.Join(lines, "\n"))
	}

	failed := make(map[string]bool)
	totalErrors := 0
	for _, p := range projects {
		if ctx.Err() != nil {
			return status.Worse(domain.ExitDiagnosticsPresentOutputsSkipped), totalErrors
		}

		if len(p.Diagnostics) > 0 {
			for _, d := range p.Diagnostics {
				session.Reporter.Diagnostic(d)
			}
			totalErrors += domain.CountErrors(p.Diagnostics)
			failed[p.ConfigPath] = true
			status = status.Worse(domain.ExitInvalidProjectOutputsSkipped)
			continue
		}

		if dep := firstFailed(p.References, failed); dep != "" {
			e.status(session, "Skipping build of project '%s' because its dependency '%s' has errors", e.rel(session, p.ConfigPath), e.rel(session, dep))
			failed[p.ConfigPath] = true
			status = status.Worse(domain.ExitDiagnosticsPresentOutputsSkipped)
			continue
		}

		projectStatus, errs := e.buildProject(ctx, p, session)
		totalErrors += errs
		if projectStatus != domain.ExitSuccess {
			failed[p.ConfigPath] = true
		}
		status = status.Worse(projectStatus)
	}
	return status, totalErrors
}

// resolveProjects parses the session projects and every project they
// reference, returning them in build order.
func (e *Engine) resolveProjects(session *ports.BuildSession) ([]*domain.Project, domain.ExitStatus, []domain.Diagnostic) {
	graph := domain.NewProjectGraph()

	queue := make([]*domain.Project, 0, len(session.Projects))
	for _, path := range session.Projects {
		queue = append(queue, e.ParseProject(path, session))
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if graph.Has(p.ConfigPath) {
			continue
		}
		_ = graph.AddProject(p)
		for _, ref := range p.References {
			if !graph.Has(ref) {
				queue = append(queue, e.ParseProject(ref, session))
			}
		}
	}

	if err := graph.Validate(); err != nil {
		msg := "Project references may not form a circular graph."
		if cycle := metadataValue(err, "cycle"); cycle != "" {
			msg += " Cycle detected: " + cycle
		}
		return nil, domain.ExitProjectReferenceCycleOutputsSkipped, []domain.Diagnostic{{
			Category: domain.CategoryError,
			Code:     6202,
			Message:  msg,
		}}
	}

	projects := make([]*domain.Project, 0)
	for p := range graph.Walk() {
		projects = append(projects, p)
	}
	return projects, domain.ExitSuccess, nil
}

// buildProject checks, emits and records the state of one project.
func (e *Engine) buildProject(ctx context.Context, p *domain.Project, session *ports.BuildSession) (domain.ExitStatus, int) {
	name := e.rel(session, p.ConfigPath)

	var inputs map[string]string
	optionsHash := ""
	if p.Incremental() {
		var err error
		if inputs, err = e.hashInputs(p); err != nil {
			session.Reporter.Diagnostic(domain.Diagnostic{Category: domain.CategoryError, Message: err.Error()})
			return domain.ExitDiagnosticsPresentOutputsSkipped, 1
		}
		optionsHash = e.optionsHash(p)

		if !session.Flags.Force {
			state, err := readState(session.Host, p.StateFile)
			if err != nil {
				e.status(session, "Project '%s' is out of date because its build info file cannot be read", name)
			} else if ok, reason := state.upToDate(optionsHash, inputs, session.Host); ok {
				e.status(session, "Project '%s' is up to date", name)
				return domain.ExitSuccess, 0
			} else {
				e.status(session, "Project '%s' is out of date because %s", name, reason)
			}
		}
	} else {
		e.status(session, "Project '%s' is out of date because it is not incremental", name)
	}

	if session.Flags.Dry {
		session.Reporter.Status(domain.NewMessage(fmt.Sprintf("A non-dry build would build project '%s'", name)))
		return domain.ExitSuccess, 0
	}

	e.status(session, "Building project '%s'...", p.ConfigPath)

	var diags []domain.Diagnostic
	if e.checker != nil {
		checked, err := e.checker.Check(ctx, p, session.Cwd)
		if err != nil {
			if ctx.Err() != nil {
				return domain.ExitDiagnosticsPresentOutputsSkipped, 0
			}
			checked = append(checked, domain.Diagnostic{Category: domain.CategoryError, Message: err.Error()})
		}
		diags = append(diags, checked...)
	}

	if domain.CountErrors(diags) > 0 && p.Options.Bool("noEmitOnError") {
		e.report(session, diags)
		return domain.ExitDiagnosticsPresentOutputsSkipped, domain.CountErrors(diags)
	}

	outputs, emitDiags, err := e.Emit(ctx, p, session)
	diags = append(diags, emitDiags...)
	if err != nil {
		if ctx.Err() != nil {
			return domain.ExitDiagnosticsPresentOutputsSkipped, domain.CountErrors(diags)
		}
		diags = append(diags, domain.Diagnostic{Category: domain.CategoryError, Message: err.Error()})
	}
	e.report(session, diags)

	errs := domain.CountErrors(diags)
	if p.Incremental() && p.StateFile != "" {
		state := &buildState{
			Version:     stateVersion,
			OptionsHash: optionsHash,
			Inputs:      inputs,
			Outputs:     outputs,
			Errors:      errs > 0,
		}
		if err := writeState(session.Host, p.StateFile, state); err != nil {
			session.Reporter.Diagnostic(domain.Diagnostic{Category: domain.CategoryError, Message: err.Error()})
			errs++
		}
	}

	switch {
	case errs == 0:
		return domain.ExitSuccess, 0
	case len(outputs) > 0:
		return domain.ExitDiagnosticsPresentOutputsGenerated, errs
	default:
		return domain.ExitDiagnosticsPresentOutputsSkipped, errs
	}
}

// Clean deletes every output and state file of the session projects.
func (e *Engine) Clean(_ context.Context, session *ports.BuildSession) domain.ExitStatus {
	projects, status, diags := e.resolveProjects(session)
	if status != domain.ExitSuccess {
		e.report(session, diags)
		return status
	}

	var files []string
	for _, p := range projects {
		if len(p.Diagnostics) > 0 {
			e.report(session, p.Diagnostics)
			status = status.Worse(domain.ExitInvalidProjectOutputsSkipped)
			continue
		}

		outputs := e.OutputPaths(p)
		if p.StateFile != "" {
			if state, err := readState(session.Host, p.StateFile); err == nil && state != nil {
				outputs = state.Outputs
			}
		}
		for _, out := range outputs {
			if outputExists(session.Host, out) {
				files = append(files, out)
			}
		}
		if p.StateFile != "" && session.Host.FileExists(p.StateFile) {
			files = append(files, p.StateFile)
		}
	}

	if session.Flags.Dry {
		lines := make([]string, 0, len(files))
		for _, f := range files {
			lines = append(lines, " * "+e.physical(session, f))
		}
		session.Reporter.Status(domain.NewMessage("A non-dry build would delete the following files:\n" + strings.Join(lines, "\n")))
		return status
	}

	for _, f := range files {
		if err := session.Host.DeleteFile(f); err != nil {
			session.Reporter.Diagnostic(domain.Diagnostic{Category: domain.CategoryError, Message: err.Error()})
			status = status.Worse(domain.ExitDiagnosticsPresentOutputsSkipped)
		}
	}
	return status
}

func (e *Engine) hashInputs(p *domain.Project) (map[string]string, error) {
	inputs := make(map[string]string, len(p.FileNames))
	for _, file := range p.FileNames {
		sum, err := e.hasher.HashFile(file)
		if err != nil {
			return nil, err
		}
		inputs[filepath.ToSlash(file)] = formatHash(sum)
	}
	return inputs, nil
}

// optionsHash fingerprints everything besides the inputs that affects emit.
func (e *Engine) optionsHash(p *domain.Project) string {
	data, err := json.Marshal(struct {
		Compiler string                 `json:"compiler"`
		Options  domain.CompilerOptions `json:"options"`
		Checked  bool                   `json:"checked"`
	}{e.name, p.Options, e.checker != nil})
	if err != nil {
		return ""
	}
	return formatHash(e.hasher.HashBytes(data))
}

func (e *Engine) report(session *ports.BuildSession, diags []domain.Diagnostic) {
	for _, d := range diags {
		session.Reporter.Diagnostic(d)
	}
}

// status reports a build status message in verbose mode.
func (e *Engine) status(session *ports.BuildSession, format string, args ...any) {
	if !session.Flags.Verbose {
		return
	}
	session.Reporter.Status(domain.NewMessage(fmt.Sprintf(format, args...)))
}

func (e *Engine) rel(session *ports.BuildSession, p string) string {
	if rel, err := filepath.Rel(session.Cwd, p); err == nil {
		return filepath.ToSlash(rel)
	}
	return p
}

// physical returns the on-disk name of an emitted path.
func (e *Engine) physical(session *ports.BuildSession, p string) string {
	if h, ok := session.Host.(interface{ Extname() string }); ok {
		return domain.RemapPath(p, h.Extname())
	}
	return p
}

func firstFailed(refs []string, failed map[string]bool) string {
	for _, ref := range refs {
		if failed[ref] {
			return ref
		}
	}
	return ""
}

type metadataer interface {
	Metadata() map[string]any
}

// metadataValue returns a string metadata value from the first error layer
// carrying key.
func metadataValue(err error, key string) string {
	for current := err; current != nil; current = errors.Unwrap(current) {
		if md, ok := current.(metadataer); ok {
			if v, ok := md.Metadata()[key].(string); ok {
				return v
			}
		}
	}
	return ""
}

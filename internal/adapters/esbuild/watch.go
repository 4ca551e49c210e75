package esbuild

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/tsmulti/internal/adapters/watcher"
	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports"
	"go.trai.ch/zerr"
)

// WatchProject builds the session projects and rebuilds them whenever a
// source or config file changes. It returns when ctx is done.
func (e *Engine) WatchProject(ctx context.Context, session *ports.BuildSession) error {
	session.Reporter.WatchStatus(domain.NewMessage("Starting compilation in watch mode..."))
	e.watchBuild(ctx, session)

	w, err := e.newWatcher()
	if err != nil {
		return zerr.Wrap(err, domain.ErrWatcherFailed.Error())
	}
	defer func() { _ = w.Stop() }()

	roots := e.watchRoots(session)
	if err := w.Start(ctx, roots...); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatcherFailed.Error()), "roots", strings.Join(roots, ","))
	}

	rebuild := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func([]string) {
		select {
		case rebuild <- struct{}{}:
		default:
		}
	})
	defer debouncer.Stop()

	go func() {
		for ev := range w.Events() {
			if e.relevant(ev.Path, session) {
				debouncer.Add(ev.Path)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-rebuild:
			session.Reporter.WatchStatus(domain.NewMessage("File change detected. Starting incremental compilation..."))
			e.watchBuild(ctx, session)
		}
	}
}

func (e *Engine) watchBuild(ctx context.Context, session *ports.BuildSession) {
	_, errs := e.build(ctx, session)
	if ctx.Err() != nil {
		return
	}
	noun := "errors"
	if errs == 1 {
		noun = "error"
	}
	session.Reporter.WatchStatus(domain.NewMessage(fmt.Sprintf("Found %d %s. Watching for file changes.", errs, noun)))
}

// watchRoots returns the directories of the session projects and the
// projects they reference.
func (e *Engine) watchRoots(session *ports.BuildSession) []string {
	projects, _, _ := e.resolveProjects(session)
	var roots []string
	for _, p := range projects {
		roots = append(roots, p.Dir())
	}
	if len(roots) == 0 {
		roots = append(roots, session.Cwd)
	}
	slices.Sort(roots)
	return slices.Compact(roots)
}

// relevant reports whether a change to p should trigger a rebuild. Files the
// engine writes itself never do.
func (e *Engine) relevant(p string, session *ports.BuildSession) bool {
	slashed := filepath.ToSlash(p)
	if strings.Contains(slashed, "/node_modules/") || strings.Contains(slashed, "/.git/") {
		return false
	}
	base := filepath.Base(p)
	switch {
	case strings.HasSuffix(base, domain.BuildInfoExt), strings.HasSuffix(base, ".map"):
		return false
	case base == domain.PackageJSONFileName, strings.HasPrefix(base, "tsconfig") && strings.HasSuffix(base, ".json"):
		return true
	}
	if e.writtenByEngine(p, session) {
		return false
	}
	return isSourceFile(slashed, true)
}

// writtenByEngine reports whether p lies in an output directory of the last
// build.
func (e *Engine) writtenByEngine(p string, session *ports.BuildSession) bool {
	written := false
	e.layouts.Range(func(_, value any) bool {
		lay := value.(*layout) //nolint:forcetypeassert // only layouts are stored
		if lay.outDir == "" {
			return true
		}
		if rel, err := filepath.Rel(lay.outDir, p); err == nil && !strings.HasPrefix(rel, "..") {
			written = true
			return false
		}
		return true
	})
	if written {
		return true
	}
	// Without an outDir, JavaScript next to its source is an output.
	ext := filepath.Ext(p)
	if ext == ".ts" || ext == ".tsx" || ext == ".mts" || ext == ".cts" {
		return false
	}
	base := strings.TrimSuffix(p, ext)
	for _, src := range tsExtensions {
		if session.Host.FileExists(base + src) {
			return true
		}
	}
	return false
}

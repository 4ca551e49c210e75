package esbuild

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar"
	"go.trai.ch/tsmulti/internal/core/domain"
)

var defaultExcludes = []string{"node_modules", "bower_components", "jspm_packages"}

var (
	tsExtensions = []string{".ts", ".tsx", ".mts", ".cts"}
	jsExtensions = []string{".js", ".jsx", ".mjs", ".cjs"}
)

// discoverFiles expands files, include and exclude into the sorted list of
// source files of a project.
func (e *Engine) discoverFiles(cfg *projectConfig, opts domain.CompilerOptions, configPath string) ([]string, []domain.Diagnostic) {
	dir := filepath.ToSlash(filepath.Dir(configPath))

	include := cfg.Include
	if !cfg.HasInclude && !cfg.HasFiles {
		include = []string{dir + "/**/*"}
	}

	exclude := cfg.Exclude
	if !cfg.HasExclude {
		exclude = make([]string, 0, len(defaultExcludes)+2)
		for _, d := range defaultExcludes {
			exclude = append(exclude, dir+"/"+d)
		}
		for _, key := range []string{"outDir", "declarationDir"} {
			if out := opts.String(key); out != "" {
				exclude = append(exclude, filepath.ToSlash(out))
			}
		}
	}

	allowJS := opts.Bool("allowJs")
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	// Explicit files are never excluded.
	for _, f := range cfg.Files {
		add(filepath.FromSlash(f))
	}

	for _, pattern := range include {
		pattern = normalizeInclude(pattern)
		base := patternBase(pattern)
		for file := range e.walker.WalkFiles(filepath.FromSlash(base), func(rel string, isDir bool) bool {
			return matchesAny(exclude, path.Join(base, rel), isDir)
		}) {
			slashed := filepath.ToSlash(file)
			if !isSourceFile(slashed, allowJS) {
				continue
			}
			if ok, _ := doublestar.Match(pattern, slashed); ok {
				add(file)
			}
		}
	}

	slices.Sort(files)

	if len(files) == 0 {
		return nil, []domain.Diagnostic{{
			Category: domain.CategoryError,
			Code:     18003,
			Message: fmt.Sprintf("No inputs were found in config file '%s'. Specified 'include' paths were '%s' and 'exclude' paths were '%s'.",
				configPath, quoteList(include, dir), quoteList(exclude, dir)),
		}}
	}
	return files, nil
}

// normalizeInclude treats a pattern whose last segment has neither a
// wildcard nor an extension as a directory.
func normalizeInclude(pattern string) string {
	last := path.Base(pattern)
	if !hasMeta(last) && path.Ext(last) == "" {
		return strings.TrimSuffix(pattern, "/") + "/**/*"
	}
	return pattern
}

// patternBase returns the longest leading directory of pattern without
// wildcards.
func patternBase(pattern string) string {
	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		if hasMeta(seg) {
			base := strings.Join(segments[:i], "/")
			if base == "" {
				return "/"
			}
			return base
		}
	}
	return path.Dir(pattern)
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func matchesAny(patterns []string, p string, isDir bool) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
		if !isDir {
			continue
		}
		// A directory is excluded when the pattern names everything below it.
		if ok, _ := doublestar.Match(strings.TrimSuffix(pattern, "/**/*"), p); ok {
			return true
		}
	}
	return false
}

func isSourceFile(p string, allowJS bool) bool {
	for _, dts := range []string{".d.ts", ".d.mts", ".d.cts"} {
		if strings.HasSuffix(p, dts) {
			return false
		}
	}
	ext := path.Ext(p)
	if slices.Contains(tsExtensions, ext) {
		return true
	}
	return allowJS && slices.Contains(jsExtensions, ext)
}

func quoteList(patterns []string, dir string) string {
	rel := make([]string, 0, len(patterns))
	for _, p := range patterns {
		rel = append(rel, `"`+strings.TrimPrefix(strings.TrimPrefix(p, dir), "/")+`"`)
	}
	return "[" + strings.Join(rel, ",") + "]"
}

package tsc

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/zerr"
)

// Resolver locates the tsc executable of a compiler name.
type Resolver struct {
	// ExeDir is the directory of the running tsmulti binary.
	ExeDir string
	// Env is the environment PATH is read from.
	Env []string
}

// NewResolver creates a Resolver for the running process.
func NewResolver() *Resolver {
	r := &Resolver{Env: os.Environ()}
	if exe, err := os.Executable(); err == nil {
		r.ExeDir = filepath.Dir(exe)
	}
	return r
}

// Resolve returns the command line prefix running tsc for name. name is
// either a package name providing bin/tsc or a path to an executable.
func (r *Resolver) Resolve(name, cwd string) ([]string, error) {
	if name == "" {
		name = domain.DefaultCompiler
	}

	if isPath(name) {
		p := name
		if !filepath.IsAbs(p) {
			p = filepath.Join(cwd, p)
		}
		if cmd, ok := r.command(p); ok {
			return cmd, nil
		}
		return nil, notFound(name, cwd)
	}

	for _, root := range r.roots(cwd) {
		for _, candidate := range r.candidates(root, name) {
			if cmd, ok := r.command(candidate); ok {
				return cmd, nil
			}
		}
	}

	if name == domain.DefaultCompiler {
		if p, err := lookPath("tsc", r.Env); err == nil {
			return []string{p}, nil
		}
	}
	return nil, notFound(name, cwd)
}

// roots lists cwd and its ancestors, then the binary's directory.
func (r *Resolver) roots(cwd string) []string {
	var roots []string
	for d := cwd; ; d = filepath.Dir(d) {
		roots = append(roots, d)
		if filepath.Dir(d) == d {
			break
		}
	}
	if r.ExeDir != "" {
		roots = append(roots, r.ExeDir)
	}
	return roots
}

func (r *Resolver) candidates(root, name string) []string {
	modules := filepath.Join(root, "node_modules")
	out := []string{filepath.Join(modules, filepath.FromSlash(name), "bin", "tsc")}
	if name == domain.DefaultCompiler {
		out = append(out, filepath.Join(modules, ".bin", "tsc"))
	}
	return out
}

// command returns how to run the script at p. Scripts without the executable
// bit are run with node.
func (r *Resolver) command(p string) ([]string, bool) {
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return nil, false
	}
	if findExecutable(p) == nil {
		return []string{p}, true
	}
	node, err := lookPath("node", r.Env)
	if err != nil {
		return nil, false
	}
	return []string{node, p}, true
}

func isPath(name string) bool {
	return filepath.IsAbs(name) || strings.HasPrefix(name, ".") || strings.ContainsRune(name, filepath.Separator) && !strings.HasPrefix(name, "@")
}

func notFound(name, cwd string) error {
	return zerr.With(zerr.With(domain.ErrCompilerNotFound, "compiler", name), "cwd", cwd)
}

// lookPath searches for an executable in the directories named by the PATH
// entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}

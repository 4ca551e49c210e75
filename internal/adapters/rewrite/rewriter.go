// Package rewrite rewrites relative module specifiers in emitted JavaScript
// so they carry the target's output extension.
package rewrite

import (
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports"
)

// knownExtensions are module extensions a specifier is left alone with.
var knownExtensions = map[string]bool{
	".mjs":  true,
	".cjs":  true,
	".json": true,
	".node": true,
	".jsx":  true,
	".ts":   true,
	".tsx":  true,
	".mts":  true,
	".cts":  true,
}

// sourceExtensions are tried before a specifier is treated as a directory.
var sourceExtensions = []string{".ts", ".tsx", ".mts", ".cts", ".d.ts", ".js", ".jsx"}

var _ domain.Transformer = (*Rewriter)(nil)

// Rewriter is an after-emit transformer appending the target extension to
// relative specifiers.
type Rewriter struct {
	host    ports.FileSystem
	extname string
}

// New creates a Rewriter. Directory existence is queried through host.
func New(host ports.FileSystem, extname string) *Rewriter {
	if extname == "" {
		extname = domain.DefaultExtname
	}
	return &Rewriter{host: host, extname: extname}
}

// Transformers returns the rewriter as an After hook.
func (r *Rewriter) Transformers() domain.Transformers {
	return domain.Transformers{After: []domain.Transformer{r}}
}

// Transform rewrites every relative specifier of code.
func (r *Rewriter) Transform(ctx domain.EmitContext, code []byte) ([]byte, error) {
	specs := Scan(code)
	if len(specs) == 0 {
		return code, nil
	}

	dirs := r.lookupDirs(ctx)
	jsonExempt := ctx.Project != nil && ctx.Project.Options.Bool("resolveJsonModule")

	var b strings.Builder
	b.Grow(len(code) + len(specs)*len(r.extname))
	last := 0
	for _, spec := range specs {
		rewritten, ok := r.Rewrite(spec.Value, dirs, jsonExempt)
		if !ok {
			continue
		}
		b.Write(code[last:spec.Start])
		b.WriteString(rewritten)
		last = spec.End
	}
	if last == 0 {
		return code, nil
	}
	b.Write(code[last:])
	return []byte(b.String()), nil
}

// Rewrite returns the rewritten form of spec and whether it changed. dirs are
// the directories relative paths are resolved against.
func (r *Rewriter) Rewrite(spec string, dirs []string, jsonExempt bool) (string, bool) {
	if !isRelative(spec) {
		return spec, false
	}

	if strings.HasSuffix(spec, "/") {
		return spec + "index" + r.extname, true
	}

	ext := path.Ext(spec)
	switch {
	case ext == ".json" && jsonExempt:
		return spec, false
	case knownExtensions[ext]:
		return spec, false
	case ext == domain.DefaultExtname:
		out := strings.TrimSuffix(spec, ext) + r.extname
		return out, out != spec
	}

	if r.isDirectory(spec, dirs) {
		return spec + "/index" + r.extname, true
	}
	return spec + r.extname, true
}

func (r *Rewriter) isDirectory(spec string, dirs []string) bool {
	if r.host == nil {
		return false
	}
	for _, dir := range dirs {
		target := filepath.Join(dir, filepath.FromSlash(spec))
		if !r.host.DirectoryExists(target) {
			continue
		}
		for _, ext := range sourceExtensions {
			if r.host.FileExists(target + ext) {
				return false
			}
		}
		return true
	}
	return false
}

func (r *Rewriter) lookupDirs(ctx domain.EmitContext) []string {
	dirs := make([]string, 0, 2)
	if ctx.SourceFile != "" {
		dirs = append(dirs, filepath.Dir(ctx.SourceFile))
	}
	if ctx.OutputFile != "" {
		dirs = append(dirs, filepath.Dir(ctx.OutputFile))
	}
	return dirs
}

func isRelative(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

package esbuild

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports"
)

// pathOptions are compiler options holding paths relative to the config
// file that declares them.
var pathOptions = []string{"outDir", "rootDir", "declarationDir", "tsBuildInfoFile", "baseUrl"}

// rawConfig mirrors the fields of tsconfig.json the engine reads.
type rawConfig struct {
	Extends         json.RawMessage `json:"extends"`
	CompilerOptions map[string]any  `json:"compilerOptions"`
	Files           *[]string       `json:"files"`
	Include         *[]string       `json:"include"`
	Exclude         *[]string       `json:"exclude"`
	References      []struct {
		Path string `json:"path"`
	} `json:"references"`
}

// projectConfig is a tsconfig with its extends chain resolved. Every path is
// absolute.
type projectConfig struct {
	Options    domain.CompilerOptions
	Files      []string
	Include    []string
	Exclude    []string
	HasFiles   bool
	HasInclude bool
	HasExclude bool
	References []string
}

type configLoader struct {
	host ports.FileSystem
}

// load reads the config at path and every config it extends.
func (l *configLoader) load(path string) (*projectConfig, *domain.Diagnostic) {
	return l.loadChain(path, nil)
}

func (l *configLoader) loadChain(path string, chain []string) (*projectConfig, *domain.Diagnostic) {
	for _, p := range chain {
		if p == path {
			cycle := strings.Join(append(chain, path), " -> ")
			return nil, &domain.Diagnostic{
				Category: domain.CategoryError,
				Code:     18000,
				Message:  fmt.Sprintf("Circularity detected while resolving configuration: %s", cycle),
			}
		}
	}
	chain = append(chain, path)

	data, err := l.host.ReadFile(path)
	if err != nil {
		return nil, &domain.Diagnostic{
			Category: domain.CategoryError,
			Code:     5083,
			Message:  fmt.Sprintf("Cannot read file '%s'.", path),
		}
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, parseDiagnostic(path, err)
	}
	var raw rawConfig
	if err := json.Unmarshal(std, &raw); err != nil {
		return nil, parseDiagnostic(path, err)
	}

	dir := filepath.Dir(path)
	cfg := &projectConfig{Options: domain.CompilerOptions{}}

	for _, ext := range extendsList(raw.Extends) {
		basePath, ok := l.resolveExtends(dir, ext)
		if !ok {
			return nil, &domain.Diagnostic{
				Category: domain.CategoryError,
				Code:     6053,
				Message:  fmt.Sprintf("File '%s' not found.", ext),
			}
		}
		base, diag := l.loadChain(basePath, chain)
		if diag != nil {
			return nil, diag
		}
		cfg.inherit(base)
	}

	cfg.Options = cfg.Options.Merge(absolutize(raw.CompilerOptions, dir))
	if raw.Files != nil {
		cfg.Files, cfg.HasFiles = joinAll(dir, *raw.Files), true
	}
	if raw.Include != nil {
		cfg.Include, cfg.HasInclude = joinAll(dir, *raw.Include), true
	}
	if raw.Exclude != nil {
		cfg.Exclude, cfg.HasExclude = joinAll(dir, *raw.Exclude), true
	}
	cfg.References = cfg.References[:0]
	for _, ref := range raw.References {
		cfg.References = append(cfg.References, l.referencePath(dir, ref.Path))
	}
	return cfg, nil
}

// inherit applies a base config. References are never inherited.
func (c *projectConfig) inherit(base *projectConfig) {
	c.Options = c.Options.Merge(base.Options)
	if base.HasFiles {
		c.Files, c.HasFiles = base.Files, true
	}
	if base.HasInclude {
		c.Include, c.HasInclude = base.Include, true
	}
	if base.HasExclude {
		c.Exclude, c.HasExclude = base.Exclude, true
	}
}

func (l *configLoader) resolveExtends(dir, name string) (string, bool) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../") {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if filepath.IsAbs(name) {
			p = filepath.Clean(name)
		}
		for _, candidate := range []string{p, p + ".json"} {
			if l.host.FileExists(candidate) {
				return candidate, true
			}
		}
		return "", false
	}

	// Package configs are looked up in node_modules of every ancestor.
	for d := dir; ; d = filepath.Dir(d) {
		p := filepath.Join(d, "node_modules", filepath.FromSlash(name))
		for _, candidate := range []string{p, p + ".json", filepath.Join(p, domain.TSConfigFileName)} {
			if l.host.FileExists(candidate) {
				return candidate, true
			}
		}
		if filepath.Dir(d) == d {
			return "", false
		}
	}
}

// referencePath resolves a project reference to a config file path.
func (l *configLoader) referencePath(dir, ref string) string {
	p := filepath.Join(dir, filepath.FromSlash(ref))
	if filepath.IsAbs(ref) {
		p = filepath.Clean(ref)
	}
	if strings.HasSuffix(p, ".json") && !l.host.DirectoryExists(p) {
		return p
	}
	return filepath.Join(p, domain.TSConfigFileName)
}

func extendsList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return []string{one}
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	return nil
}

func absolutize(opts map[string]any, dir string) domain.CompilerOptions {
	out := domain.CompilerOptions(opts).Clone()
	for _, key := range pathOptions {
		if s := out.String(key); s != "" && !filepath.IsAbs(s) {
			out[key] = filepath.Join(dir, filepath.FromSlash(s))
		}
	}
	return out
}

func joinAll(dir string, patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if filepath.IsAbs(p) {
			out = append(out, filepath.ToSlash(filepath.Clean(p)))
			continue
		}
		out = append(out, filepath.ToSlash(filepath.Join(dir, filepath.FromSlash(p))))
	}
	return out
}

func parseDiagnostic(path string, err error) *domain.Diagnostic {
	return &domain.Diagnostic{
		File:     path,
		Line:     1,
		Column:   1,
		Category: domain.CategoryError,
		Code:     1005,
		Message:  fmt.Sprintf("Cannot parse '%s': %v", filepath.Base(path), err),
	}
}

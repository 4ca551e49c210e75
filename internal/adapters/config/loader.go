// Package config provides the configuration loader for tsmulti.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/joho/godotenv"
	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	// EnvCompiler overrides the configured compiler.
	EnvCompiler = "TSMULTI_COMPILER"
	// EnvMaxWorkers overrides the configured worker limit.
	EnvMaxWorkers = "TSMULTI_MAX_WORKERS"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	// Getenv reads the process environment.
	Getenv func(string) string
}

var _ ports.ConfigLoader = (*Loader)(nil)

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, Getenv: os.Getenv}
}

// Load reads the configuration for cwd.
func (l *Loader) Load(cwd, configPath string) (*domain.Config, error) {
	path, err := l.findConfiguration(cwd, configPath)
	if err != nil {
		return nil, err
	}

	cfg := &domain.Config{Dir: cwd}
	if path != "" {
		var file File
		if err := readAndUnmarshalYAML(path, &file); err != nil {
			return nil, zerr.With(err, "path", path)
		}
		cfg, err = buildConfig(path, &file)
		if err != nil {
			return nil, err
		}
	}

	if err := l.applyEnv(cfg, cwd); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfiguration returns the config file for cwd, or "" when there is
// none. An explicit path must exist.
func (l *Loader) findConfiguration(cwd, configPath string) (string, error) {
	if configPath != "" {
		if !filepath.IsAbs(configPath) {
			configPath = filepath.Join(cwd, configPath)
		}
		if _, err := os.Stat(configPath); err != nil {
			return "", zerr.With(domain.ErrConfigNotFound, "path", configPath)
		}
		return configPath, nil
	}

	currentDir := cwd
	for {
		for _, name := range domain.ConfigFileNames() {
			candidate := filepath.Join(currentDir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", nil
		}
		currentDir = parentDir
	}
}

func buildConfig(path string, file *File) (*domain.Config, error) {
	cfg := &domain.Config{
		Path:     path,
		Dir:      filepath.Dir(path),
		Projects: file.Projects,
		Compiler: file.Compiler,
	}

	if file.MaxWorkers != nil {
		if *file.MaxWorkers < 1 {
			return nil, zerr.With(domain.ErrInvalidMaxWorkers, "maxWorkers", *file.MaxWorkers)
		}
		cfg.MaxWorkers = *file.MaxWorkers
	}

	cfg.Targets = make([]domain.Target, 0, len(file.Targets))
	for i := range file.Targets {
		cfg.Targets = append(cfg.Targets, buildTarget(&file.Targets[i]))
	}
	return cfg, nil
}

func buildTarget(dto *TargetDTO) domain.Target {
	var opts domain.CompilerOptions
	if len(dto.Options) > 0 || len(dto.CompilerOptions) > 0 {
		opts = make(domain.CompilerOptions, len(dto.Options)+len(dto.CompilerOptions))
		for k, v := range dto.Options {
			opts[k] = normalizeValue(v)
		}
		for k, v := range dto.CompilerOptions {
			opts[k] = normalizeValue(v)
		}
	}

	var overrides map[string]map[string]any
	if len(dto.PackageOverrides) > 0 {
		overrides = make(map[string]map[string]any, len(dto.PackageOverrides))
		for file, fields := range dto.PackageOverrides {
			normalized := make(map[string]any, len(fields))
			for k, v := range fields {
				normalized[k] = normalizeValue(v)
			}
			overrides[file] = normalized
		}
	}

	return domain.Target{
		Extname:          dto.Extname,
		OutDir:           dto.OutDir,
		Type:             domain.ModuleType(dto.Type),
		TranspileOnly:    dto.TranspileOnly,
		PackageOverrides: overrides,
		CompilerOptions:  opts,
	}
}

// normalizeValue converts YAML scalars to the types a JSON decoder yields, so
// options look the same in the orchestrator and in a worker.
func normalizeValue(v any) any {
	switch v := v.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case []any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = normalizeValue(v[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

// applyEnv applies the .env file and the process environment on top of cfg.
func (l *Loader) applyEnv(cfg *domain.Config, cwd string) error {
	dotenv, err := readEnvFile(cfg.Dir, cwd)
	if err != nil {
		return err
	}

	lookup := func(key string) string {
		if v := l.getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}

	if v := strings.TrimSpace(lookup(EnvCompiler)); v != "" {
		cfg.Compiler = v
	}

	if v := strings.TrimSpace(lookup(EnvMaxWorkers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return zerr.With(zerr.With(domain.ErrInvalidMaxWorkers, "env", EnvMaxWorkers), "value", v)
		}
		cfg.MaxWorkers = n
	}
	return nil
}

func (l *Loader) getenv(key string) string {
	if l.Getenv == nil {
		return os.Getenv(key)
	}
	return l.Getenv(key)
}

// readEnvFile reads the first .env file found in dirs. A missing file yields
// an empty map.
func readEnvFile(dirs ...string) (map[string]string, error) {
	for _, dir := range slices.Compact(dirs) {
		path := filepath.Join(dir, domain.EnvFileName)
		env, err := godotenv.Read(path)
		if err == nil {
			return env, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrEnvFileReadFailed.Error()), "path", path)
	}
	return map[string]string{}, nil
}

// DiscoverProjects expands project patterns relative to baseDir. Entries
// without glob syntax are kept even when they do not exist, so the build
// engine can report them. The result is absolute, de-duplicated and sorted.
func (l *Loader) DiscoverProjects(baseDir string, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var projects []string

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			projects = append(projects, p)
		}
	}

	for _, pattern := range patterns {
		abs := pattern
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(baseDir, abs)
		}

		if !hasMeta(pattern) {
			add(filepath.Clean(abs))
			continue
		}

		matches, err := doublestar.Glob(filepath.ToSlash(abs))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrProjectGlobFailed.Error()), "pattern", pattern)
		}
		if len(matches) == 0 && l.Logger != nil {
			l.Logger.Warn("project pattern " + strconv.Quote(pattern) + " matched nothing")
		}
		for _, m := range matches {
			add(filepath.Clean(filepath.FromSlash(m)))
		}
	}

	slices.Sort(projects)
	return projects, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is found by the loader or given by the user
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}

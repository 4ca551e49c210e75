// Package host implements the file system interceptor a worker hands to the
// compiler. It remaps emitted JavaScript paths to the target extension and
// serves virtual package.json overrides.
package host

import (
	"encoding/json"
	"errors"
	iofs "io/fs"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/tailscale/hujson"
	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*Interceptor)(nil)

var sourceMappingURLPattern = regexp.MustCompile(`(//# sourceMappingURL=)(\S+\.js\.map)`)

// Config is the immutable configuration of an Interceptor.
type Config struct {
	// Extname is the target output extension.
	Extname string
	// Overrides maps package.json paths, relative to Cwd, to the fields
	// merged over the real file.
	Overrides map[string]map[string]any
	// Cwd is the directory relative paths are resolved against.
	Cwd string
}

// Interceptor wraps a FileSystem with target-specific path remapping.
// It is safe for concurrent use once constructed.
type Interceptor struct {
	inner     ports.FileSystem
	extname   string
	cwd       string
	overrides map[string]map[string]any
}

// New creates an Interceptor over inner.
func New(inner ports.FileSystem, cfg Config) *Interceptor {
	overrides := make(map[string]map[string]any, len(cfg.Overrides))
	for key, fields := range cfg.Overrides {
		overrides[resolve(cfg.Cwd, key)] = fields
	}
	return &Interceptor{
		inner:     inner,
		extname:   cfg.Extname,
		cwd:       cfg.Cwd,
		overrides: overrides,
	}
}

// Extname returns the target extension.
func (h *Interceptor) Extname() string {
	return h.extname
}

// FileExists reports whether p exists after remapping. Overridden files
// always exist.
func (h *Interceptor) FileExists(p string) bool {
	if _, ok := h.override(p); ok {
		return true
	}
	if h.inner.FileExists(h.remap(p)) {
		return true
	}
	return domain.IsJSPath(p) && h.inner.FileExists(p)
}

// OutputExists reports whether the remapped output for p is on disk. Unlike
// FileExists it never falls back to the unmapped .js name, so a sibling
// target's output does not count.
func (h *Interceptor) OutputExists(p string) bool {
	return h.inner.FileExists(h.remap(p))
}

// ReadFile reads p after remapping. Overridden files are the real JSON
// shallow-merged with the override fields.
func (h *Interceptor) ReadFile(p string) ([]byte, error) {
	if fields, ok := h.override(p); ok {
		return h.readOverride(p, fields)
	}

	data, err := h.inner.ReadFile(h.remap(p))
	if err == nil {
		return data, nil
	}
	if errors.Is(err, iofs.ErrNotExist) && domain.IsJSPath(p) {
		return h.inner.ReadFile(p)
	}
	return nil, err
}

// WriteFile writes data to the remapped path, rewriting source map
// references to the remapped names.
func (h *Interceptor) WriteFile(p string, data []byte) error {
	switch {
	case domain.IsJSMapPath(p):
		rewritten, err := h.rewriteMapFile(data)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrSourceMapRewriteFailed.Error()), "path", p)
		}
		data = rewritten
	case domain.IsJSPath(p):
		data = h.rewriteMappingURL(data)
	}
	return h.inner.WriteFile(h.remap(p), data)
}

// DeleteFile deletes the remapped path.
func (h *Interceptor) DeleteFile(p string) error {
	return h.inner.DeleteFile(h.remap(p))
}

// DirectoryExists is passed through.
func (h *Interceptor) DirectoryExists(p string) bool {
	return h.inner.DirectoryExists(p)
}

// ReadDir is passed through.
func (h *Interceptor) ReadDir(p string) ([]iofs.DirEntry, error) {
	return h.inner.ReadDir(p)
}

func (h *Interceptor) remap(p string) string {
	return domain.RemapPath(p, h.extname)
}

func (h *Interceptor) override(p string) (map[string]any, bool) {
	if len(h.overrides) == 0 {
		return nil, false
	}
	fields, ok := h.overrides[resolve(h.cwd, p)]
	return fields, ok
}

func (h *Interceptor) readOverride(p string, fields map[string]any) ([]byte, error) {
	data, err := h.inner.ReadFile(p)
	if err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrOverrideReadFailed.Error()), "path", p)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		data = []byte("{}")
	}

	v, err := hujson.Parse(data)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrOverrideReadFailed.Error()), "path", p)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := setMember(&v, k, fields[k]); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrOverrideReadFailed.Error()), "path", p)
		}
	}
	v.Standardize()
	return v.Pack(), nil
}

func (h *Interceptor) rewriteMappingURL(data []byte) []byte {
	return sourceMappingURLPattern.ReplaceAllFunc(data, func(m []byte) []byte {
		sub := sourceMappingURLPattern.FindSubmatch(m)
		return append(append([]byte{}, sub[1]...), h.remap(string(sub[2]))...)
	})
}

func (h *Interceptor) rewriteMapFile(data []byte) ([]byte, error) {
	v, err := hujson.Parse(data)
	if err != nil {
		return nil, err
	}
	file := v.Find("/file")
	if file == nil {
		return data, nil
	}
	var name string
	if err := json.Unmarshal(file.Pack(), &name); err != nil {
		return data, nil //nolint:nilerr // a non-string file field is left alone
	}
	if err := setMember(&v, "file", h.remap(name)); err != nil {
		return nil, err
	}
	return v.Pack(), nil
}

// setMember sets a top-level member of an object, keeping the position of an
// existing member.
func setMember(v *hujson.Value, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	ptr := "/" + strings.NewReplacer("~", "~0", "/", "~1").Replace(key)
	op := "add"
	if v.Find(ptr) != nil {
		op = "replace"
	}
	patch, err := json.Marshal([]map[string]any{{"op": op, "path": ptr, "value": json.RawMessage(raw)}})
	if err != nil {
		return err
	}
	return v.Patch(patch)
}

func resolve(cwd, p string) string {
	p = domain.NormalizePath(p)
	if !path.IsAbs(p) && !filepath.IsAbs(p) && cwd != "" {
		p = path.Join(domain.NormalizePath(cwd), p)
	}
	return p
}

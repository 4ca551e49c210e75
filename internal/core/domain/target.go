package domain

import (
	"maps"
	"path"
	"strings"
)

// DefaultExtname is the extension the compiler emits JavaScript with before remapping.
const DefaultExtname = ".js"

// ModuleType is the module-format hint of a target.
type ModuleType string

const (
	// ModuleTypeCommonJS requests CommonJS semantics.
	ModuleTypeCommonJS ModuleType = "commonjs"
	// ModuleTypeModule requests ECMAScript module semantics.
	ModuleTypeModule ModuleType = "module"
)

// Target describes one compilation variant of a build.
// A Target is immutable once constructed from configuration.
type Target struct {
	Extname          string                    `json:"extname,omitempty"`
	OutDir           string                    `json:"outDir,omitempty"`
	Type             ModuleType                `json:"type,omitempty"`
	TranspileOnly    bool                      `json:"transpileOnly,omitempty"`
	PackageOverrides map[string]map[string]any `json:"packageOverrides,omitempty"`
	CompilerOptions  CompilerOptions           `json:"compilerOptions,omitempty"`
}

// ResolvedExtname returns the output extension of the target.
func (t *Target) ResolvedExtname() string {
	if t.Extname == "" {
		return DefaultExtname
	}
	return t.Extname
}

// ResolvedOutDir returns the normalized output directory of the target.
// An explicit OutDir wins over the outDir compiler option.
func (t *Target) ResolvedOutDir() string {
	dir := t.OutDir
	if dir == "" {
		dir = t.CompilerOptions.String("outDir")
	}
	if dir == "" {
		return ""
	}
	return NormalizePath(dir)
}

// ResolvedOverrides returns the package overrides in effect for the target.
// A Type hint contributes a {"type": ...} override for the root package.json
// that explicit overrides of the same file are merged on top of.
func (t *Target) ResolvedOverrides() map[string]map[string]any {
	if t.Type == "" {
		return t.PackageOverrides
	}

	out := make(map[string]map[string]any, len(t.PackageOverrides)+1)
	for k, v := range t.PackageOverrides {
		out[k] = v
	}

	merged := map[string]any{"type": string(t.Type)}
	for k, v := range t.PackageOverrides {
		if NormalizePath(k) == PackageJSONFileName {
			maps.Copy(merged, v)
			delete(out, k)
		}
	}
	out[PackageJSONFileName] = merged
	return out
}

// BuildOptions returns the compiler options the target passes to the compiler.
// Tool-level fields never reach the compiler; OutDir is translated to the
// outDir compiler option.
func (t *Target) BuildOptions() CompilerOptions {
	opts := t.CompilerOptions.Clone()
	if t.OutDir != "" {
		opts["outDir"] = t.OutDir
	}
	return opts
}

// NeedsIsolation reports whether the target's incremental state must be kept
// apart from the state of a default build of the same project.
func (t *Target) NeedsIsolation() bool {
	return t.ResolvedExtname() != DefaultExtname || len(t.ResolvedOverrides()) > 0 || t.OutDir != ""
}

// Valid reports whether the module type hint is recognized.
func (m ModuleType) Valid() bool {
	switch m {
	case "", ModuleTypeCommonJS, ModuleTypeModule:
		return true
	default:
		return false
	}
}

// CompilerOptions is an open bag of compiler options as found in tsconfig.json.
type CompilerOptions map[string]any

// Clone returns a shallow copy of the options. It never returns nil.
func (o CompilerOptions) Clone() CompilerOptions {
	out := make(CompilerOptions, len(o))
	maps.Copy(out, o)
	return out
}

// Merge returns a copy of o with every option of other applied on top.
func (o CompilerOptions) Merge(other CompilerOptions) CompilerOptions {
	out := o.Clone()
	maps.Copy(out, other)
	return out
}

// String returns the option as a string, or "" when it is absent or not a string.
func (o CompilerOptions) String(key string) string {
	s, _ := o[key].(string)
	return s
}

// Lower returns the option as a lower-cased string.
func (o CompilerOptions) Lower(key string) string {
	return strings.ToLower(o.String(key))
}

// Bool returns the option as a boolean, or false when it is absent.
func (o CompilerOptions) Bool(key string) bool {
	b, _ := o[key].(bool)
	return b
}

// Strings returns the option as a string slice, dropping non-string entries.
func (o CompilerOptions) Strings(key string) []string {
	raw, ok := o[key].([]any)
	if !ok {
		if ss, ok := o[key].([]string); ok {
			return ss
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// NormalizePath converts both separator conventions to forward slashes and
// cleans the result, so that paths reported by different layers compare equal.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}
	return path.Clean(strings.ReplaceAll(p, `\`, "/"))
}

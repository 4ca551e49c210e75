package domain

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// IncrementalStateKey returns the incremental state path for a target.
// base is the project's default state path without the .tsbuildinfo
// extension. When the target carries package overrides or its own outDir,
// a short hash of both is embedded so two targets sharing an extension can
// never share a state file.
func IncrementalStateKey(base, extname string, overrides map[string]map[string]any, outDir string) string {
	key := base + extname
	if len(overrides) > 0 || outDir != "" {
		key += "." + distinguishingHash(overrides, outDir)
	}
	return key + BuildInfoExt
}

func distinguishingHash(overrides map[string]map[string]any, outDir string) string {
	// encoding/json sorts map keys, which keeps the hash stable.
	data, err := json.Marshal(struct {
		Overrides map[string]map[string]any `json:"o,omitempty"`
		OutDir    string                    `json:"d,omitempty"`
	}{overrides, NormalizePath(outDir)})
	if err != nil {
		data = fmt.Appendf(nil, "%v|%s", overrides, outDir)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data))[:8]
}

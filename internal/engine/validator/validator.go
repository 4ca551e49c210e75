// Package validator checks a set of build targets for consistency before any
// worker is started.
package validator

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/zerr"
)

type outputKey struct {
	extname string
	outDir  string
}

// Validate returns an error describing the first invalid target.
func Validate(targets []domain.Target) error {
	seen := make(map[outputKey]int, len(targets))

	for i := range targets {
		t := &targets[i]
		ext := t.ResolvedExtname()

		if !strings.HasPrefix(ext, ".") {
			return zerr.With(zerr.With(
				zerr.Wrap(domain.ErrInvalidExtname, fmt.Sprintf(`targets[%d].extname must be started with "."`, i)),
				"index", i), "extname", ext)
		}

		if !t.Type.Valid() {
			return zerr.With(zerr.With(
				zerr.Wrap(domain.ErrInvalidModuleType, fmt.Sprintf("targets[%d].type %q is not supported", i, t.Type)),
				"index", i), "type", string(t.Type))
		}

		if err := validateOverrides(i, t.PackageOverrides); err != nil {
			return err
		}

		key := outputKey{extname: ext, outDir: t.ResolvedOutDir()}
		if prev, ok := seen[key]; ok {
			err := zerr.Wrap(domain.ErrDuplicateTargetOutput,
				fmt.Sprintf("targets[%d].extname is already used in targets[%d].extname", i, prev))
			err = zerr.With(err, "index", i)
			err = zerr.With(err, "conflict_index", prev)
			err = zerr.With(err, "extname", ext)
			return zerr.With(err, "out_dir", key.outDir)
		}
		seen[key] = i
	}

	return nil
}

func validateOverrides(index int, overrides map[string]map[string]any) error {
	// Sorted so the reported key does not depend on map iteration order.
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if path.Base(domain.NormalizePath(key)) != domain.PackageJSONFileName {
			err := zerr.Wrap(domain.ErrInvalidPackageOverride,
				fmt.Sprintf("targets[%d].packageOverrides key %q must end with %s", index, key, domain.PackageJSONFileName))
			err = zerr.With(err, "index", index)
			return zerr.With(err, "key", key)
		}
	}
	return nil
}

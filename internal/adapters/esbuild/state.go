package esbuild

import (
	"encoding/json"
	"errors"
	"io/fs"
	"strconv"

	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports"
	"go.trai.ch/zerr"
)

// stateVersion changes whenever the state layout or emit semantics change.
const stateVersion = "tsmulti-1"

// buildState is the incremental state of one project for one target.
type buildState struct {
	Version     string            `json:"version"`
	OptionsHash string            `json:"optionsHash"`
	Inputs      map[string]string `json:"inputs"`
	Outputs     []string          `json:"outputs"`
	Errors      bool              `json:"errors,omitempty"`
}

// readState loads the state file at path. A missing or empty file yields nil.
func readState(host ports.FileSystem, path string) (*buildState, error) {
	data, err := host.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStateReadFailed.Error()), "path", path)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var state buildState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStateUnmarshalFailed.Error()), "path", path)
	}
	return &state, nil
}

// writeState persists state at path.
func writeState(host ports.FileSystem, path string, state *buildState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStateMarshalFailed.Error())
	}

	if err := host.WriteFile(path, data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStateWriteFailed.Error()), "path", path)
	}
	return nil
}

// upToDate reports whether state matches the current inputs and every
// recorded output still exists. It returns the reason when it does not.
func (s *buildState) upToDate(optionsHash string, inputs map[string]string, host ports.FileSystem) (bool, string) {
	switch {
	case s == nil:
		return false, "its build info file does not exist"
	case s.Version != stateVersion:
		return false, "it was built with a different version of tsmulti"
	case s.OptionsHash != optionsHash:
		return false, "its compiler options have changed"
	case s.Errors:
		return false, "its previous build had errors"
	case len(s.Inputs) != len(inputs):
		return false, "its input files have changed"
	}
	for file, sum := range inputs {
		if s.Inputs[file] != sum {
			return false, "input '" + file + "' has changed"
		}
	}
	for _, out := range s.Outputs {
		if !outputExists(host, out) {
			return false, "output file '" + out + "' does not exist"
		}
	}
	return true, ""
}

// outputExists checks the target's own output name when the host remaps
// extensions, without falling back to the .js name.
func outputExists(host ports.FileSystem, p string) bool {
	if o, ok := host.(interface{ OutputExists(string) bool }); ok {
		return o.OutputExists(p)
	}
	return host.FileExists(p)
}

func formatHash(sum uint64) string {
	return strconv.FormatUint(sum, 16)
}

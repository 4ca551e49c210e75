package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/engine/validator"
	"go.trai.ch/zerr"
)

func metadata(t *testing.T, err error) map[string]any {
	t.Helper()
	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	return zErr.Metadata()
}

func TestValidate_Valid(t *testing.T) {
	targets := []domain.Target{
		{Extname: ".cjs", CompilerOptions: domain.CompilerOptions{"module": "commonjs"}},
		{Extname: ".mjs", CompilerOptions: domain.CompilerOptions{"module": "esnext"}},
		{},
		{OutDir: "esm"},
		{PackageOverrides: map[string]map[string]any{"lib/package.json": {"type": "module"}}, OutDir: "lib"},
	}

	assert.NoError(t, validator.Validate(targets))
}

func TestValidate_Empty(t *testing.T) {
	assert.NoError(t, validator.Validate(nil))
}

func TestValidate_InvalidExtname(t *testing.T) {
	targets := []domain.Target{{Extname: ".cjs"}, {Extname: "mjs"}}

	err := validator.Validate(targets)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidExtname)
	assert.Contains(t, err.Error(), `targets[1].extname must be started with "."`)
	assert.Equal(t, 1, metadata(t, err)["index"])
}

func TestValidate_DuplicateOutput(t *testing.T) {
	tests := []struct {
		name    string
		targets []domain.Target
		first   int
		second  int
	}{
		{
			name:    "same extension",
			targets: []domain.Target{{Extname: ".cjs"}, {Extname: ".cjs"}},
			first:   0,
			second:  1,
		},
		{
			name:    "default extension",
			targets: []domain.Target{{Extname: ".mjs"}, {}, {Extname: ".js"}},
			first:   1,
			second:  2,
		},
		{
			name: "equivalent out dirs",
			targets: []domain.Target{
				{OutDir: "dist"},
				{CompilerOptions: domain.CompilerOptions{"outDir": "./dist/"}},
			},
			first:  0,
			second: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(tt.targets)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrDuplicateTargetOutput)
			meta := metadata(t, err)
			assert.Equal(t, tt.second, meta["index"])
			assert.Equal(t, tt.first, meta["conflict_index"])
		})
	}
}

func TestValidate_DuplicateOutputMessage(t *testing.T) {
	err := validator.Validate([]domain.Target{{Extname: ".js"}, {}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "targets[1].extname is already used in targets[0].extname")
}

func TestValidate_SameExtensionDifferentOutDir(t *testing.T) {
	targets := []domain.Target{{OutDir: "cjs"}, {OutDir: "esm"}}

	assert.NoError(t, validator.Validate(targets))
}

func TestValidate_InvalidPackageOverride(t *testing.T) {
	targets := []domain.Target{
		{Extname: ".cjs"},
		{
			Extname: ".mjs",
			PackageOverrides: map[string]map[string]any{
				"package.json":         {"type": "module"},
				"src/not-package.json": {"type": "module"},
			},
		},
	}

	err := validator.Validate(targets)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidPackageOverride)
	assert.Contains(t, err.Error(), "targets[1]")
	assert.Contains(t, err.Error(), "src/not-package.json")
	meta := metadata(t, err)
	assert.Equal(t, 1, meta["index"])
	assert.Equal(t, "src/not-package.json", meta["key"])
}

func TestValidate_InvalidModuleType(t *testing.T) {
	err := validator.Validate([]domain.Target{{Type: "esm"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidModuleType)
}

package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/tsmulti/internal/core/domain"
)

func TestRemapPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		extname string
		want    string
	}{
		{"js to mjs", "dist/index.js", ".mjs", "dist/index.mjs"},
		{"map to mjs map", "dist/index.js.map", ".mjs", "dist/index.mjs.map"},
		{"default extension unchanged", "dist/index.js", ".js", "dist/index.js"},
		{"empty extension unchanged", "dist/index.js", "", "dist/index.js"},
		{"declaration unchanged", "dist/index.d.ts", ".cjs", "dist/index.d.ts"},
		{"state file unchanged", "tsconfig.tsbuildinfo", ".cjs", "tsconfig.tsbuildinfo"},
		{"json unchanged", "dist/data.json", ".cjs", "dist/data.json"},
		{"custom extension", "lib/a.b.js", ".es.js", "lib/a.b.es.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.RemapPath(tt.path, tt.extname))
		})
	}
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "src/a/package.json", domain.NormalizePath(`src\a\package.json`))
	assert.Equal(t, "dist", domain.NormalizePath("./dist/"))
	assert.Equal(t, "/repo/package.json", domain.NormalizePath("/repo//lib/../package.json"))
	assert.Empty(t, domain.NormalizePath(""))
}

func TestIsJSPath(t *testing.T) {
	assert.True(t, domain.IsJSPath("a.js"))
	assert.False(t, domain.IsJSPath("a.js.map"))
	assert.True(t, domain.IsJSMapPath("a.js.map"))
	assert.False(t, domain.IsJSMapPath("a.mjs.map"))
}

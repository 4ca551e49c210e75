package tsc_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tsmulti/internal/adapters/tsc"
	"go.trai.ch/tsmulti/internal/core/domain"
)

func TestParseOutput(t *testing.T) {
	t.Parallel()

	out := "src/index.ts(3,7): error TS2322: Type 'string' is not assignable to type 'number'.\n" +
		"src/a.ts(10,1): error TS2345: Argument of type 'X' is not assignable.\n" +
		"  Property 'y' is missing.\r\n" +
		"error TS5023: Unknown compiler option 'foo'.\n" +
		"/abs/b.ts(1,1): warning TS6133: 'x' is declared but never read.\n" +
		"some unrelated noise\n"

	diags := tsc.ParseOutput([]byte(out), "/work")
	require.Len(t, diags, 4)

	assert.Equal(t, domain.Diagnostic{
		File:     filepath.Join("/work", "src/index.ts"),
		Line:     3,
		Column:   7,
		Category: domain.CategoryError,
		Code:     2322,
		Message:  "Type 'string' is not assignable to type 'number'.",
	}, diags[0])
	assert.Equal(t, "Argument of type 'X' is not assignable.\n  Property 'y' is missing.", diags[1].Message)
	assert.False(t, diags[2].HasLocation())
	assert.Equal(t, 5023, diags[2].Code)
	assert.Equal(t, "/abs/b.ts", diags[3].File)
	assert.Equal(t, domain.CategoryWarning, diags[3].Category)
}

func TestArgs(t *testing.T) {
	t.Parallel()

	p := &domain.Project{
		ConfigPath: "/work/tsconfig.json",
		Options: domain.CompilerOptions{
			"strict":               true,
			"target":               "es2020",
			"outDir":               "/work/dist",
			"lib":                  []any{"es2020", "dom"},
			"paths":                map[string]any{"@/*": []any{"src/*"}},
			"maxNodeModuleJsDepth": float64(2),
		},
	}

	assert.Equal(t, []string{
		"--noEmit", "--pretty", "false", "--incremental", "false", "--composite", "false",
		"--lib", "es2020,dom",
		"--maxNodeModuleJsDepth", "2",
		"--strict", "true",
		"--target", "es2020",
		"-p", "/work/tsconfig.json",
	}, tsc.Args(p))
}

func writeScript(t *testing.T, p, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	//nolint:gosec // test script must be executable
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"+body), 0o755))
}

func TestCheck(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}

	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{name: "clean", body: "exit 0\n", want: 0},
		{
			name: "diagnostics",
			body: "echo \"src/index.ts(1,7): error TS2322: bad.\"\nexit 2\n",
			want: 1,
		},
		{name: "crash", body: "echo boom >&2\nexit 3\n", wantErr: true},
		{name: "exit without diagnostics", body: "exit 1\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			script := filepath.Join(dir, "tsc")
			writeScript(t, script, tt.body)

			checker := tsc.NewChecker([]string{script})
			diags, err := checker.Check(context.Background(), &domain.Project{ConfigPath: filepath.Join(dir, "tsconfig.json")}, dir)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorContains(t, err, domain.ErrTypeCheckFailed.Error())
				return
			}
			require.NoError(t, err)
			assert.Len(t, diags, tt.want)
		})
	}
}

func TestCheck_PassesArgs(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "tsc")
	writeScript(t, script, "echo \"error TS9999: $*\"\nexit 1\n")

	checker := tsc.NewChecker([]string{script})
	diags, err := checker.Check(context.Background(), &domain.Project{ConfigPath: "/p/tsconfig.json"}, dir)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "--noEmit --pretty false --incremental false --composite false -p /p/tsconfig.json", diags[0].Message)
}

func TestResolver(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}

	t.Run("package in node_modules of an ancestor", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		bin := filepath.Join(root, "node_modules", "typescript", "bin", "tsc")
		writeScript(t, bin, "exit 0\n")
		cwd := filepath.Join(root, "packages", "a")
		require.NoError(t, os.MkdirAll(cwd, 0o750))

		r := &tsc.Resolver{}
		cmd, err := r.Resolve("", cwd)
		require.NoError(t, err)
		assert.Equal(t, []string{bin}, cmd)
	})

	t.Run("bin link", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		bin := filepath.Join(root, "node_modules", ".bin", "tsc")
		writeScript(t, bin, "exit 0\n")

		r := &tsc.Resolver{}
		cmd, err := r.Resolve("typescript", root)
		require.NoError(t, err)
		assert.Equal(t, []string{bin}, cmd)
	})

	t.Run("custom package", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		bin := filepath.Join(root, "node_modules", "@scope", "ts", "bin", "tsc")
		writeScript(t, bin, "exit 0\n")

		r := &tsc.Resolver{}
		cmd, err := r.Resolve("@scope/ts", root)
		require.NoError(t, err)
		assert.Equal(t, []string{bin}, cmd)
	})

	t.Run("relative path", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		bin := filepath.Join(root, "tools", "tsc")
		writeScript(t, bin, "exit 0\n")

		r := &tsc.Resolver{}
		cmd, err := r.Resolve("./tools/tsc", root)
		require.NoError(t, err)
		assert.Equal(t, []string{bin}, cmd)
	})

	t.Run("PATH fallback", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		binDir := filepath.Join(root, "bin")
		writeScript(t, filepath.Join(binDir, "tsc"), "exit 0\n")

		r := &tsc.Resolver{Env: []string{"PATH=" + binDir}}
		cmd, err := r.Resolve("typescript", filepath.Join(root, "work"))
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(binDir, "tsc")}, cmd)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		r := &tsc.Resolver{}
		_, err := r.Resolve("not-a-compiler", t.TempDir())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrCompilerNotFound)
	})
}

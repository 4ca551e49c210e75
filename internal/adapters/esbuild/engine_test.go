package esbuild_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tsmulti/internal/adapters/esbuild"
	"go.trai.ch/tsmulti/internal/adapters/fs"
	"go.trai.ch/tsmulti/internal/adapters/host"
	"go.trai.ch/tsmulti/internal/adapters/report"
	"go.trai.ch/tsmulti/internal/adapters/rewrite"
	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(data)
}

func newEngine(t *testing.T) *esbuild.Engine {
	t.Helper()
	hasher, err := fs.NewHasher(fs.DefaultHashCacheSize)
	require.NoError(t, err)
	return esbuild.New("esbuild", nil, hasher, fs.NewWalker(), nil)
}

// newSession builds the session a worker would build for target.
func newSession(root string, target domain.Target, flags domain.BuildFlags, out *bytes.Buffer) *ports.BuildSession {
	h := host.New(fs.NewOSFS(), host.Config{
		Extname:   target.ResolvedExtname(),
		Overrides: target.ResolvedOverrides(),
		Cwd:       root,
	})
	rw := rewrite.New(h, target.ResolvedExtname())

	return &ports.BuildSession{
		Projects:        []string{"."},
		Cwd:             root,
		Host:            h,
		Reporter:        report.New(out, report.Options{Cwd: root}),
		Transformers:    rw.Transformers(),
		CompilerOptions: target.BuildOptions(),
		ConfigureProject: func(p *domain.Project) {
			if p.Incremental() && target.NeedsIsolation() {
				p.StateFile = domain.IncrementalStateKey(p.StateBase(), target.ResolvedExtname(), target.ResolvedOverrides(), target.OutDir)
			}
		},
		Flags: flags,
	}
}

const basicTSConfig = `{
  // comments are allowed
  "compilerOptions": {
    "outDir": "dist",
    "module": "commonjs",
    "sourceMap": true,
    "target": "es2020",
  },
  "include": ["src"]
}`

func TestEngine_BuildEmitsRemappedOutputs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"tsconfig.json":    basicTSConfig,
		"src/index.ts":     "import { foo } from \"./foo\";\nimport * as lib from \"./lib\";\nexport const value: number = foo + lib.bar;\n",
		"src/foo.ts":       "export const foo = 1;\n",
		"src/lib/index.ts": "export const bar = 2;\n",
	})

	var out bytes.Buffer
	e := newEngine(t)
	session := newSession(root, domain.Target{Extname: ".cjs"}, domain.BuildFlags{}, &out)

	status := e.BuildIncremental(context.Background(), session)
	require.Equal(t, domain.ExitSuccess, status, out.String())

	index := readFile(t, filepath.Join(root, "dist", "index.cjs"))
	assert.Contains(t, index, `require("./foo.cjs")`)
	assert.Contains(t, index, `require("./lib/index.cjs")`)
	assert.True(t, strings.HasSuffix(index, "//# sourceMappingURL=index.cjs.map"))

	sourceMap := readFile(t, filepath.Join(root, "dist", "index.cjs.map"))
	assert.Contains(t, sourceMap, `"file":"index.cjs"`)
	assert.Contains(t, sourceMap, `"sources":["../src/index.ts"]`)

	assert.FileExists(t, filepath.Join(root, "dist", "lib", "index.cjs"))
	assert.NoFileExists(t, filepath.Join(root, "dist", "index.js"))
	assert.Empty(t, out.String())
}

func TestEngine_ModuleFormatFollowsTypeHint(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"tsconfig.json": `{"compilerOptions": {"outDir": "dist", "module": "nodenext"}}`,
		"package.json":  `{"name": "pkg"}`,
		"index.ts":      "import { a } from \"./a.js\";\nexport default a;\n",
		"a.ts":          "export const a = 1;\n",
	})

	var out bytes.Buffer
	e := newEngine(t)
	session := newSession(root, domain.Target{Extname: ".mjs", Type: domain.ModuleTypeModule}, domain.BuildFlags{}, &out)

	require.Equal(t, domain.ExitSuccess, e.BuildIncremental(context.Background(), session), out.String())

	index := readFile(t, filepath.Join(root, "dist", "index.mjs"))
	assert.Contains(t, index, `from "./a.mjs"`)
	assert.Contains(t, index, "export {")
	assert.JSONEq(t, `{"name": "pkg"}`, readFile(t, filepath.Join(root, "package.json")))
}

func TestEngine_IdempotentIncrementalRebuild(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"tsconfig.json": `{"compilerOptions": {"outDir": "dist", "composite": true, "module": "commonjs"}}`,
		"src/index.ts":  "export const x = 1;\n",
	})

	e := newEngine(t)
	target := domain.Target{Extname: ".cjs"}

	var first bytes.Buffer
	require.Equal(t, domain.ExitSuccess, e.BuildIncremental(context.Background(), newSession(root, target, domain.BuildFlags{}, &first)))

	statePath := filepath.Join(root, "dist", "tsconfig.cjs.tsbuildinfo")
	outputPath := filepath.Join(root, "dist", "src", "index.cjs")
	if _, err := os.Stat(outputPath); err != nil {
		outputPath = filepath.Join(root, "dist", "index.cjs")
	}
	state1 := readFile(t, statePath)
	output1 := readFile(t, outputPath)

	var second bytes.Buffer
	require.Equal(t, domain.ExitSuccess, e.BuildIncremental(context.Background(), newSession(root, target, domain.BuildFlags{Verbose: true}, &second)))

	assert.Equal(t, state1, readFile(t, statePath))
	assert.Equal(t, output1, readFile(t, outputPath))
	assert.Contains(t, second.String(), "Project 'tsconfig.json' is up to date")

	var forced bytes.Buffer
	require.Equal(t, domain.ExitSuccess, e.BuildIncremental(context.Background(), newSession(root, target, domain.BuildFlags{Verbose: true, Force: true}, &forced)))
	assert.Contains(t, forced.String(), "Building project")
	assert.Equal(t, output1, readFile(t, outputPath))
}

func TestEngine_RebuildsAfterSourceChange(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"tsconfig.json": `{"compilerOptions": {"outDir": "dist", "incremental": true, "module": "commonjs"}}`,
		"index.ts":      "export const x = 1;\n",
	})

	e := newEngine(t)
	var out bytes.Buffer
	require.Equal(t, domain.ExitSuccess, e.BuildIncremental(context.Background(), newSession(root, domain.Target{}, domain.BuildFlags{}, &out)))

	writeFiles(t, root, map[string]string{"index.ts": "export const x = 22;\n"})

	out.Reset()
	require.Equal(t, domain.ExitSuccess, e.BuildIncremental(context.Background(), newSession(root, domain.Target{}, domain.BuildFlags{Verbose: true}, &out)))
	assert.Contains(t, out.String(), "is out of date because input")
	assert.Contains(t, readFile(t, filepath.Join(root, "dist", "index.js")), "22")
}

func TestEngine_IsolatesStatePerTarget(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"tsconfig.json": `{"compilerOptions": {"composite": true, "outDir": "lib"}}`,
		"index.ts":      "export const x = 1;\n",
	})

	e := newEngine(t)
	for _, target := range []domain.Target{{Extname: ".cjs", Type: domain.ModuleTypeCommonJS}, {Extname: ".mjs", Type: domain.ModuleTypeModule}} {
		var out bytes.Buffer
		require.Equal(t, domain.ExitSuccess, e.BuildIncremental(context.Background(), newSession(root, target, domain.BuildFlags{}, &out)), out.String())
	}

	matches, err := filepath.Glob(filepath.Join(root, "lib", "*.tsbuildinfo"))
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.NotEqual(t, matches[0], matches[1])
	assert.FileExists(t, filepath.Join(root, "lib", "index.cjs"))
	assert.FileExists(t, filepath.Join(root, "lib", "index.mjs"))
	assert.NoFileExists(t, filepath.Join(root, "lib", "tsconfig.tsbuildinfo"))
}

func TestEngine_MissingOutputIgnoresSiblingTarget(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"tsconfig.json": `{"compilerOptions": {"composite": true, "outDir": "dist"}}`,
		"index.ts":      "export const x = 1;\n",
	})

	e := newEngine(t)
	mjs := domain.Target{Extname: ".mjs"}
	for _, target := range []domain.Target{{}, mjs} {
		var out bytes.Buffer
		require.Equal(t, domain.ExitSuccess, e.BuildIncremental(context.Background(), newSession(root, target, domain.BuildFlags{}, &out)), out.String())
	}
	require.NoError(t, os.Remove(filepath.Join(root, "dist", "index.mjs")))
	require.FileExists(t, filepath.Join(root, "dist", "index.js"))

	var dry bytes.Buffer
	require.Equal(t, domain.ExitSuccess, e.Clean(context.Background(), newSession(root, mjs, domain.BuildFlags{Dry: true}, &dry)))
	assert.NotContains(t, dry.String(), "index.mjs")
	assert.NotContains(t, dry.String(), "index.js")

	var rebuild bytes.Buffer
	require.Equal(t, domain.ExitSuccess, e.BuildIncremental(context.Background(), newSession(root, mjs, domain.BuildFlags{Verbose: true}, &rebuild)))
	assert.Contains(t, rebuild.String(), "is out of date because output file")
	assert.NotContains(t, rebuild.String(), "is up to date")
	assert.FileExists(t, filepath.Join(root, "dist", "index.mjs"))
}

func TestEngine_InlineSourceMapFollowsRewrite(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"tsconfig.json": `{"compilerOptions": {"outDir": "dist", "module": "commonjs", "inlineSourceMap": true}}`,
		"index.ts":      "import { x } from \"./lib\";\nexport const y = x;\n",
		"lib.ts":        "export const x = 1;\n",
	})

	e := newEngine(t)
	var out bytes.Buffer
	require.Equal(t, domain.ExitSuccess, e.BuildIncremental(context.Background(), newSession(root, domain.Target{Extname: ".cjs"}, domain.BuildFlags{}, &out)), out.String())

	js := readFile(t, filepath.Join(root, "dist", "index.cjs"))
	assert.Contains(t, js, `require("./lib.cjs")`)
	assert.Contains(t, js, "//# sourceMappingURL=data:application/json;base64,")
	assert.NoFileExists(t, filepath.Join(root, "dist", "index.cjs.map"))
	assert.NoFileExists(t, filepath.Join(root, "dist", "index.js.map"))
}

func TestEngine_Clean(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"tsconfig.json": `{"compilerOptions": {"composite": true, "outDir": "dist", "sourceMap": true}}`,
		"index.ts":      "export const x = 1;\n",
	})

	e := newEngine(t)
	target := domain.Target{Extname: ".cjs"}
	var out bytes.Buffer
	require.Equal(t, domain.ExitSuccess, e.BuildIncremental(context.Background(), newSession(root, target, domain.BuildFlags{}, &out)))
	require.FileExists(t, filepath.Join(root, "dist", "index.cjs"))

	var dry bytes.Buffer
	require.Equal(t, domain.ExitSuccess, e.Clean(context.Background(), newSession(root, target, domain.BuildFlags{Dry: true}, &dry)))
	assert.Contains(t, dry.String(), "A non-dry build would delete the following files:")
	assert.Contains(t, dry.String(), "index.cjs.map")
	require.FileExists(t, filepath.Join(root, "dist", "index.cjs"))

	require.Equal(t, domain.ExitSuccess, e.Clean(context.Background(), newSession(root, target, domain.BuildFlags{}, &out)))
	assert.NoFileExists(t, filepath.Join(root, "dist", "index.cjs"))
	assert.NoFileExists(t, filepath.Join(root, "dist", "index.cjs.map"))
	assert.NoFileExists(t, filepath.Join(root, "dist", "tsconfig.cjs.tsbuildinfo"))
}

func TestEngine_DryBuildWritesNothing(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"tsconfig.json": `{"compilerOptions": {"outDir": "dist"}}`,
		"index.ts":      "export const x = 1;\n",
	})

	var out bytes.Buffer
	e := newEngine(t)
	require.Equal(t, domain.ExitSuccess, e.BuildIncremental(context.Background(), newSession(root, domain.Target{}, domain.BuildFlags{Dry: true}, &out)))
	assert.Contains(t, out.String(), "A non-dry build would build project 'tsconfig.json'")
	assert.NoDirExists(t, filepath.Join(root, "dist"))
}

func TestEngine_SyntaxErrorIsReported(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"tsconfig.json": `{"compilerOptions": {"outDir": "dist"}}`,
		"bad.ts":        "export const = 1;\n",
		"good.ts":       "export const ok = 1;\n",
	})

	var out bytes.Buffer
	e := newEngine(t)
	status := e.BuildIncremental(context.Background(), newSession(root, domain.Target{}, domain.BuildFlags{}, &out))

	assert.Equal(t, domain.ExitDiagnosticsPresentOutputsGenerated, status)
	assert.Contains(t, out.String(), "bad.ts(1,14): error: ")
	assert.Contains(t, out.String(), "Found 1 error.")
	assert.FileExists(t, filepath.Join(root, "dist", "good.js"))
}

func TestEngine_ProjectReferencesBuildFirst(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"core/tsconfig.json": `{"compilerOptions": {"composite": true, "outDir": "dist"}}`,
		"core/index.ts":      "export const core = 1;\n",
		"app/tsconfig.json":  `{"compilerOptions": {"outDir": "dist"}, "references": [{"path": "../core"}]}`,
		"app/index.ts":       "export const app = 2;\n",
	})

	var out bytes.Buffer
	e := newEngine(t)
	session := newSession(root, domain.Target{}, domain.BuildFlags{Verbose: true}, &out)
	session.Projects = []string{"app"}

	require.Equal(t, domain.ExitSuccess, e.BuildIncremental(context.Background(), session), out.String())

	text := out.String()
	assert.Contains(t, text, "    * core/tsconfig.json\n    * app/tsconfig.json")
	assert.Less(t, strings.Index(text, "core/tsconfig.json'..."), strings.Index(text, "app/tsconfig.json'..."))
	assert.FileExists(t, filepath.Join(root, "core", "dist", "index.js"))
	assert.FileExists(t, filepath.Join(root, "app", "dist", "index.js"))
}

func TestEngine_ReferenceCycle(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a/tsconfig.json": `{"references": [{"path": "../b"}]}`,
		"a/index.ts":      "export {};\n",
		"b/tsconfig.json": `{"references": [{"path": "../a"}]}`,
		"b/index.ts":      "export {};\n",
	})

	var out bytes.Buffer
	e := newEngine(t)
	session := newSession(root, domain.Target{}, domain.BuildFlags{}, &out)
	session.Projects = []string{"a"}

	assert.Equal(t, domain.ExitProjectReferenceCycleOutputsSkipped, e.BuildIncremental(context.Background(), session))
	assert.Contains(t, out.String(), "error TS6202: Project references may not form a circular graph.")
}

func TestEngine_ParseProject(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"base.json": `{"compilerOptions": {"strict": true, "outDir": "out"}, "exclude": ["src/**/*.test.ts"]}`,
		"tsconfig.json": `{
			"extends": "./base.json",
			"compilerOptions": {"incremental": true},
			"include": ["src/**/*"]
		}`,
		"src/a.ts":          "",
		"src/a.test.ts":     "",
		"src/types.d.ts":    "",
		"src/b.mts":         "",
		"src/c.js":          "",
		"out/stale.ts":      "",
		"node_modules/x.ts": "",
	})

	var out bytes.Buffer
	e := newEngine(t)
	session := newSession(root, domain.Target{OutDir: "lib"}, domain.BuildFlags{}, &out)
	p := e.ParseProject(root, session)

	require.Empty(t, p.Diagnostics)
	assert.Equal(t, filepath.Join(root, "tsconfig.json"), p.ConfigPath)
	assert.Equal(t, []string{filepath.Join(root, "src", "a.ts"), filepath.Join(root, "src", "b.mts")}, p.FileNames)
	assert.True(t, p.Options.Bool("strict"))
	assert.Equal(t, filepath.Join(root, "lib"), p.Options.String("outDir"))
	assert.Contains(t, filepath.Base(p.StateFile), "tsconfig.js.")
	assert.True(t, strings.HasSuffix(p.StateFile, ".tsbuildinfo"))
}

func TestEngine_ParseProjectMissing(t *testing.T) {
	root := t.TempDir()
	var out bytes.Buffer
	e := newEngine(t)
	p := e.ParseProject(filepath.Join(root, "nope"), newSession(root, domain.Target{}, domain.BuildFlags{}, &out))

	require.Len(t, p.Diagnostics, 1)
	assert.Equal(t, 5058, p.Diagnostics[0].Code)
}

func TestEngine_NoInputs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"tsconfig.json": `{}`})

	var out bytes.Buffer
	e := newEngine(t)
	p := e.ParseProject(".", newSession(root, domain.Target{}, domain.BuildFlags{}, &out))

	require.Len(t, p.Diagnostics, 1)
	assert.Equal(t, 18003, p.Diagnostics[0].Code)
}

func TestEngine_TranspileFile(t *testing.T) {
	e := newEngine(t)
	project := &domain.Project{
		ConfigPath: filepath.FromSlash("/p/tsconfig.json"),
		Options:    domain.CompilerOptions{"module": "commonjs", "outDir": filepath.FromSlash("/p/dist")},
		FileNames:  []string{filepath.FromSlash("/p/src/a.ts")},
	}

	res := e.TranspileFile(domain.TranspileInput{
		FileName: filepath.FromSlash("/p/src/a.ts"),
		Source:   []byte("const x: number = 1;\nexport { x };\n"),
		Project:  project,
	})
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Files, 1)
	assert.Equal(t, filepath.FromSlash("/p/dist/a.js"), res.Files[0].Path)
	assert.Contains(t, string(res.Files[0].Data), "exports")

	bad := e.TranspileFile(domain.TranspileInput{
		FileName: filepath.FromSlash("/p/src/a.ts"),
		Source:   []byte("let = ;"),
		Project:  project,
	})
	require.NotEmpty(t, bad.Diagnostics)
	assert.Equal(t, 1, bad.Diagnostics[0].Line)
	assert.Positive(t, bad.Diagnostics[0].Column)
	assert.Empty(t, bad.Files)
}

func TestEngine_OutputExtensions(t *testing.T) {
	e := newEngine(t)
	project := &domain.Project{
		ConfigPath: filepath.FromSlash("/p/tsconfig.json"),
		Options:    domain.CompilerOptions{"outDir": filepath.FromSlash("/p/out"), "sourceMap": true},
		FileNames:  []string{filepath.FromSlash("/p/src/a.ts"), filepath.FromSlash("/p/src/b.mts"), filepath.FromSlash("/p/src/c.cts")},
	}

	assert.Equal(t, []string{
		filepath.FromSlash("/p/out/a.js.map"), filepath.FromSlash("/p/out/a.js"),
		filepath.FromSlash("/p/out/b.mjs.map"), filepath.FromSlash("/p/out/b.mjs"),
		filepath.FromSlash("/p/out/c.cjs.map"), filepath.FromSlash("/p/out/c.cjs"),
	}, e.OutputPaths(project))
}

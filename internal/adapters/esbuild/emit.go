package esbuild

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// tsconfigPassthrough are the compiler options esbuild reads from a raw
// tsconfig.
var tsconfigPassthrough = []string{
	"alwaysStrict", "experimentalDecorators", "importsNotUsedAsValues", "jsx",
	"jsxFactory", "jsxFragmentFactory", "jsxImportSource", "preserveValueImports",
	"strict", "target", "useDefineForClassFields", "verbatimModuleSyntax",
}

// layout is the emit layout of a project, computed once per project.
type layout struct {
	rootDir     string
	outDir      string
	tsconfigRaw string
	target      api.Target
}

// sourceMap is the source map layout tsc writes.
type sourceMap struct {
	Version        int       `json:"version"`
	File           string    `json:"file"`
	SourceRoot     string    `json:"sourceRoot"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	Names          []string  `json:"names"`
	Mappings       string    `json:"mappings"`
}

// Emit transpiles every source file of project and writes the outputs
// through the session host. It returns the emitted paths before remapping.
func (e *Engine) Emit(ctx context.Context, project *domain.Project, session *ports.BuildSession) ([]string, []domain.Diagnostic, error) {
	if project.Options.Bool("noEmit") {
		return nil, nil, nil
	}
	if project.Options.Bool("declaration") || project.Options.Bool("composite") {
		e.status(session, "Project '%s' requests declaration files, which the %s compiler does not emit", e.rel(session, project.ConfigPath), e.name)
	}

	transformers := session.Transformers
	results := make([]domain.TranspileOutput, len(project.FileNames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range project.FileNames {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			source, err := session.Host.ReadFile(file)
			if err != nil {
				results[i] = domain.TranspileOutput{Diagnostics: []domain.Diagnostic{{
					Category: domain.CategoryError,
					Code:     6053,
					Message:  fmt.Sprintf("File '%s' not found.", file),
				}}}
				return nil
			}
			results[i] = e.TranspileFile(domain.TranspileInput{
				FileName:     file,
				Source:       source,
				Project:      project,
				Transformers: transformers,
				ReadFile:     session.Host.ReadFile,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var written []string
	var diags []domain.Diagnostic
	for _, res := range results {
		diags = append(diags, res.Diagnostics...)
		for _, out := range res.Files {
			if !session.Flags.Dry {
				if err := session.Host.WriteFile(out.Path, out.Data); err != nil {
					return written, diags, err
				}
			}
			written = append(written, out.Path)
		}
	}
	return written, diags, nil
}

// TranspileFile transpiles one file without type information. The outputs
// are returned, not written.
func (e *Engine) TranspileFile(input domain.TranspileInput) domain.TranspileOutput {
	project := input.Project
	if project == nil {
		project = &domain.Project{ConfigPath: filepath.Join(filepath.Dir(input.FileName), domain.TSConfigFileName)}
	}
	lay := e.layoutFor(project)

	outJS := lay.outputPath(input.FileName)
	emitCtx := domain.EmitContext{Project: project, SourceFile: input.FileName, OutputFile: outJS}

	code, err := domain.Apply(input.Transformers.Before, emitCtx, input.Source)
	if err != nil {
		return domain.TranspileOutput{Diagnostics: []domain.Diagnostic{transformDiagnostic(input.FileName, err)}}
	}

	opts := project.Options
	inlineMap := opts.Bool("inlineSourceMap")
	// The map is always taken out of band so it can follow the After
	// transformers; an inline map is attached afterwards.
	sourceMapMode := api.SourceMapNone
	if inlineMap || opts.Bool("sourceMap") {
		sourceMapMode = api.SourceMapExternal
	}
	sourcesContent := api.SourcesContentExclude
	if opts.Bool("inlineSources") {
		sourcesContent = api.SourcesContentInclude
	}

	result := api.Transform(string(code), api.TransformOptions{
		Loader:         loaderFor(input.FileName),
		Format:         e.formatFor(input.FileName, opts, input.ReadFile),
		Target:         lay.target,
		TsconfigRaw:    lay.tsconfigRaw,
		Sourcefile:     sourceRelative(outJS, input.FileName),
		Sourcemap:      sourceMapMode,
		SourcesContent: sourcesContent,
		SourceRoot:     opts.String("sourceRoot"),
		LogLevel:       api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		diags := make([]domain.Diagnostic, 0, len(result.Errors))
		for _, msg := range result.Errors {
			diags = append(diags, messageDiagnostic(input.FileName, msg))
		}
		return domain.TranspileOutput{Diagnostics: diags}
	}

	js, err := domain.Apply(input.Transformers.After, emitCtx, result.Code)
	if err != nil {
		return domain.TranspileOutput{Diagnostics: []domain.Diagnostic{transformDiagnostic(input.FileName, err)}}
	}

	var files []domain.OutputFile
	if sourceMapMode == api.SourceMapExternal {
		mapPath := outJS + ".map"
		mapData, err := buildSourceMap(result.Map, filepath.Base(outJS), result.Code, js)
		if err != nil {
			return domain.TranspileOutput{Diagnostics: []domain.Diagnostic{transformDiagnostic(input.FileName, err)}}
		}
		if inlineMap {
			js = append(js, "//# sourceMappingURL=data:application/json;base64,"+base64.StdEncoding.EncodeToString(mapData)...)
		} else {
			files = append(files, domain.OutputFile{Path: mapPath, Data: mapData})
			js = append(js, "//# sourceMappingURL="+filepath.Base(mapPath)...)
		}
	}
	files = append(files, domain.OutputFile{Path: outJS, Data: js})
	return domain.TranspileOutput{Files: files}
}

// OutputPaths returns every path an emit of project would write, before
// remapping.
func (e *Engine) OutputPaths(project *domain.Project) []string {
	if project.Options.Bool("noEmit") {
		return nil
	}
	lay := e.layoutFor(project)
	external := project.Options.Bool("sourceMap") && !project.Options.Bool("inlineSourceMap")

	out := make([]string, 0, len(project.FileNames)*2)
	for _, file := range project.FileNames {
		js := lay.outputPath(file)
		if external {
			out = append(out, js+".map")
		}
		out = append(out, js)
	}
	return out
}

func (e *Engine) layoutFor(project *domain.Project) *layout {
	if cached, ok := e.layouts.Load(project); ok {
		return cached.(*layout) //nolint:forcetypeassert // only layouts are stored
	}

	opts := project.Options
	lay := &layout{
		rootDir: opts.String("rootDir"),
		outDir:  opts.String("outDir"),
		target:  targetFor(opts.Lower("target")),
	}
	if lay.rootDir == "" {
		lay.rootDir = commonSourceDir(project.FileNames, project.Dir())
	}

	raw := make(map[string]any)
	for _, key := range tsconfigPassthrough {
		if v, ok := opts[key]; ok {
			raw[key] = v
		}
	}
	if data, err := json.Marshal(map[string]any{"compilerOptions": raw}); err == nil {
		lay.tsconfigRaw = string(data)
	}

	actual, _ := e.layouts.LoadOrStore(project, lay)
	return actual.(*layout) //nolint:forcetypeassert // only layouts are stored
}

// outputPath maps a source file to its JavaScript output path.
func (l *layout) outputPath(file string) string {
	out := file
	if l.outDir != "" {
		rel, err := filepath.Rel(l.rootDir, file)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = filepath.Base(file)
		}
		out = filepath.Join(l.outDir, rel)
	}

	ext := path.Ext(out)
	base := strings.TrimSuffix(out, ext)
	switch ext {
	case ".mts", ".mjs":
		return base + ".mjs"
	case ".cts", ".cjs":
		return base + ".cjs"
	default:
		return base + domain.DefaultExtname
	}
}

// commonSourceDir returns the deepest directory containing every file.
func commonSourceDir(files []string, fallback string) string {
	var common []string
	for i, f := range files {
		parts := strings.Split(filepath.ToSlash(filepath.Dir(f)), "/")
		if i == 0 {
			common = parts
			continue
		}
		n := 0
		for n < len(common) && n < len(parts) && common[n] == parts[n] {
			n++
		}
		common = common[:n]
	}
	if len(common) == 0 {
		return fallback
	}
	dir := strings.Join(common, "/")
	if dir == "" {
		dir = "/"
	}
	return filepath.FromSlash(dir)
}

func sourceRelative(outJS, source string) string {
	rel, err := filepath.Rel(filepath.Dir(outJS), source)
	if err != nil {
		return filepath.Base(source)
	}
	return filepath.ToSlash(rel)
}

// buildSourceMap returns esbuild's map for emitted, in tsc's layout, with
// its columns moved to where the After transformers left the code.
func buildSourceMap(raw []byte, file string, emitted, transformed []byte) ([]byte, error) {
	var m sourceMap
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	m.File = file
	m.Mappings = shiftMappings(m.Mappings, emitted, transformed)
	if m.Names == nil {
		m.Names = []string{}
	}
	return json.Marshal(m)
}

func loaderFor(file string) api.Loader {
	switch path.Ext(file) {
	case ".tsx":
		return api.LoaderTSX
	case ".ts", ".mts", ".cts":
		return api.LoaderTS
	case ".jsx":
		return api.LoaderJSX
	default:
		return api.LoaderJS
	}
}

func targetFor(target string) api.Target {
	switch target {
	case "es2016":
		return api.ES2016
	case "es2017":
		return api.ES2017
	case "es2018":
		return api.ES2018
	case "es2019":
		return api.ES2019
	case "es2020":
		return api.ES2020
	case "es2021":
		return api.ES2021
	case "es2022":
		return api.ES2022
	case "es2023":
		return api.ES2023
	case "es2024":
		return api.ES2024
	case "esnext":
		return api.ESNext
	default:
		// es3, es5, es6 and unset all lower to the oldest target esbuild
		// can fully emit.
		return api.ES2015
	}
}

// formatFor picks the module format of file following tsc's module option.
func (e *Engine) formatFor(file string, opts domain.CompilerOptions, readFile func(string) ([]byte, error)) api.Format {
	switch path.Ext(file) {
	case ".mts", ".mjs":
		return api.FormatESModule
	case ".cts", ".cjs":
		return api.FormatCommonJS
	}

	module := opts.Lower("module")
	switch {
	case module == "commonjs", module == "amd", module == "umd", module == "system", module == "none":
		return api.FormatCommonJS
	case strings.HasPrefix(module, "es"), module == "preserve":
		return api.FormatESModule
	}

	// node16, nodenext and an unset module follow the nearest package.json.
	if e.packageType(filepath.Dir(file), readFile) == string(domain.ModuleTypeModule) {
		return api.FormatESModule
	}
	return api.FormatCommonJS
}

// packageType returns the "type" field of the package.json nearest to dir.
func (e *Engine) packageType(dir string, readFile func(string) ([]byte, error)) string {
	if readFile == nil {
		return ""
	}
	for d := dir; ; d = filepath.Dir(d) {
		data, err := readFile(filepath.Join(d, domain.PackageJSONFileName))
		if err == nil {
			var pkg struct {
				Type string `json:"type"`
			}
			if json.Unmarshal(data, &pkg) == nil {
				return pkg.Type
			}
			return ""
		}
		if filepath.Dir(d) == d {
			return ""
		}
	}
}

func messageDiagnostic(file string, msg api.Message) domain.Diagnostic {
	d := domain.Diagnostic{
		File:     file,
		Category: domain.CategoryError,
		Message:  msg.Text,
	}
	if msg.Location != nil {
		d.Line = msg.Location.Line
		d.Column = msg.Location.Column + 1
	}
	return d
}

func transformDiagnostic(file string, err error) domain.Diagnostic {
	return domain.Diagnostic{
		File:     file,
		Category: domain.CategoryError,
		Message:  err.Error(),
	}
}

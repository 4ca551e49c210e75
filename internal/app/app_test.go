package app_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tsmulti/internal/adapters/compilers"
	"go.trai.ch/tsmulti/internal/adapters/fs"
	"go.trai.ch/tsmulti/internal/adapters/tsc"
	"go.trai.ch/tsmulti/internal/app"
	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fakeRunner struct {
	plan domain.BuildPlan
	code int
	err  error
}

func (f *fakeRunner) Run(_ context.Context, plan domain.BuildPlan) (int, error) {
	f.plan = plan
	return f.code, f.err
}

func TestApp_Build(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)
	runner := &fakeRunner{}

	targets := []domain.Target{{Extname: ".cjs"}, {Extname: ".mjs"}}
	log.EXPECT().SetVerbose(true)
	log.EXPECT().Debug("using config /work/tsmulti.yaml")
	loader.EXPECT().Load("/work", "").Return(&domain.Config{
		Path:       "/work/tsmulti.yaml",
		Dir:        "/work",
		Projects:   []string{"packages/*"},
		Targets:    targets,
		Compiler:   "typescript",
		MaxWorkers: 4,
	}, nil)
	loader.EXPECT().DiscoverProjects("/work", []string{"packages/*"}).Return([]string{"/work/packages/a"}, nil)

	a := app.New(loader, runner, nil, nil, log)
	err := a.Build(context.Background(), app.BuildOptions{
		Cwd:        "/work",
		Compiler:   "esbuild",
		Color:      true,
		Flags:      domain.BuildFlags{Verbose: true, Dry: true},
		MaxWorkers: 0,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BuildPlan{
		Targets:    targets,
		Projects:   []string{"/work/packages/a"},
		Cwd:        "/work",
		Compiler:   "esbuild",
		MaxWorkers: 4,
		Color:      true,
		Flags:      domain.BuildFlags{Verbose: true, Dry: true},
	}, runner.plan)
}

func TestApp_Build_ArgsWinOverConfigProjects(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)
	runner := &fakeRunner{}

	log.EXPECT().SetVerbose(false)
	loader.EXPECT().Load("/work/sub", "custom.yaml").Return(&domain.Config{Dir: "/work", Projects: []string{"ignored"}}, nil)
	loader.EXPECT().DiscoverProjects("/work/sub", []string{"a", "b/*"}).Return([]string{"/work/sub/a"}, nil)

	a := app.New(loader, runner, nil, nil, log)
	err := a.Build(context.Background(), app.BuildOptions{
		Cwd:        "/work/sub",
		ConfigPath: "custom.yaml",
		Projects:   []string{"a", "b/*"},
		MaxWorkers: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/work/sub/a"}, runner.plan.Projects)
	assert.Equal(t, 2, runner.plan.MaxWorkers)
}

func TestApp_Build_NoProjects(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)
	runner := &fakeRunner{}

	log.EXPECT().SetVerbose(false)
	loader.EXPECT().Load("/work", "").Return(&domain.Config{Dir: "/work"}, nil)

	a := app.New(loader, runner, nil, nil, log)
	require.NoError(t, a.Build(context.Background(), app.BuildOptions{Cwd: "/work"}))
	assert.Empty(t, runner.plan.Projects)
	assert.Empty(t, runner.plan.Targets)
}

func TestApp_Build_Errors(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockConfigLoader(ctrl)
		log := mocks.NewMockLogger(ctrl)

		log.EXPECT().SetVerbose(false)
		loader.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, domain.ErrConfigNotFound)

		err := app.New(loader, &fakeRunner{}, nil, nil, log).Build(context.Background(), app.BuildOptions{Cwd: "/work"})
		assert.ErrorIs(t, err, domain.ErrConfigNotFound)
	})

	t.Run("worker status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockConfigLoader(ctrl)
		log := mocks.NewMockLogger(ctrl)

		log.EXPECT().SetVerbose(false)
		loader.EXPECT().Load(gomock.Any(), gomock.Any()).Return(&domain.Config{Dir: "/work"}, nil)

		err := app.New(loader, &fakeRunner{code: 2}, nil, nil, log).Build(context.Background(), app.BuildOptions{Cwd: "/work"})
		var exitErr *domain.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("runner", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockConfigLoader(ctrl)
		log := mocks.NewMockLogger(ctrl)
		boom := errors.New("boom")

		log.EXPECT().SetVerbose(false)
		loader.EXPECT().Load(gomock.Any(), gomock.Any()).Return(&domain.Config{Dir: "/work"}, nil)

		err := app.New(loader, &fakeRunner{code: 1, err: boom}, nil, nil, log).Build(context.Background(), app.BuildOptions{Cwd: "/work"})
		assert.ErrorIs(t, err, boom)
	})
}

func TestApp_RunWorker(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "tsconfig.json"), []byte(`{"compilerOptions": {"outDir": "out"}}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.ts"), []byte("export const a: number = 1;\n"), 0o600))

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().SetVerbose(false)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	hasher, err := fs.NewHasher(16)
	require.NoError(t, err)
	registry := compilers.NewRegistry(hasher, fs.NewWalker(), nil, tsc.NewResolver())

	stdin := strings.NewReader(`{"target": {"extname": ".cjs"}, "projects": ["."], "cwd": "` + filepath.ToSlash(root) + `", "compiler": "esbuild", "flags": {}}`)
	var stdout bytes.Buffer

	a := app.New(nil, nil, registry, fs.NewOSFS(), log)
	require.NoError(t, a.RunWorker(context.Background(), stdin, &stdout), stdout.String())
	assert.FileExists(t, filepath.Join(root, "out", "a.cjs"))
}

func TestApp_RunWorker_BadRequest(t *testing.T) {
	a := app.New(nil, nil, nil, nil, nil)
	err := a.RunWorker(context.Background(), strings.NewReader("not json"), &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrWorkerRequestDecode.Error())
}

package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/tsmulti/internal/app"
	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fakeRunner struct {
	code int
	err  error
}

func (f *fakeRunner) Run(_ context.Context, _ domain.BuildPlan) (int, error) {
	return f.code, f.err
}

func newProvider(t *testing.T, runner app.Runner, setup func(*mocks.MockConfigLoader, *mocks.MockLogger)) ComponentProvider {
	t.Helper()
	ctrl := gomock.NewController(t)

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockCompilers := mocks.NewMockCompilerLoader(ctrl)
	mockFS := mocks.NewMockFileSystem(ctrl)
	if setup != nil {
		setup(mockLoader, mockLogger)
	}

	application := app.New(mockLoader, runner, mockCompilers, mockFS, mockLogger)

	return func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    application,
			Logger: mockLogger,
		}, func() {}, nil
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	provider := newProvider(t, &fakeRunner{}, nil)

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer), provider)
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "tsmulti version")
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_WorkerStatus verifies that a non-zero build status becomes the exit code.
func TestRun_WorkerStatus(t *testing.T) {
	provider := newProvider(t, &fakeRunner{code: 2}, func(loader *mocks.MockConfigLoader, logger *mocks.MockLogger) {
		logger.EXPECT().SetVerbose(false)
		loader.EXPECT().Load(gomock.Any(), "").Return(&domain.Config{Dir: "/work"}, nil)
	})

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"--cwd", "/work"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 2, exitCode)
	assert.Empty(t, stderr.String())
}

// TestRun_ExecutionError verifies that run logs the error and returns 1 when the build fails.
func TestRun_ExecutionError(t *testing.T) {
	loadErr := errors.New("config broken")
	provider := newProvider(t, &fakeRunner{}, func(loader *mocks.MockConfigLoader, logger *mocks.MockLogger) {
		logger.EXPECT().SetVerbose(false)
		loader.EXPECT().Load(gomock.Any(), "").Return(nil, loadErr)
		logger.EXPECT().Error(loadErr)
	})

	exitCode := run(context.Background(), []string{"--cwd", "/work"}, new(bytes.Buffer), new(bytes.Buffer), provider)
	assert.Equal(t, 1, exitCode)
}

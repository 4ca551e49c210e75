// Package process runs build workers as child processes of the running binary.
package process

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"slices"
	"sync"
	"syscall"
	"time"

	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultWaitDelay is how long a terminated worker may take to exit before it is killed.
const DefaultWaitDelay = 5 * time.Second

var _ ports.WorkerSpawner = (*Spawner)(nil)

// Spawner implements ports.WorkerSpawner by re-executing the current binary.
type Spawner struct {
	executable string
	args       []string
	env        []string
	stdout     io.Writer
	stderr     io.Writer
	waitDelay  time.Duration

	mu   sync.Mutex
	live map[*exec.Cmd]struct{}
}

// Option configures a Spawner.
type Option func(*Spawner)

// WithExecutable runs path with args before the worker subcommand.
func WithExecutable(path string, args ...string) Option {
	return func(s *Spawner) {
		s.executable = path
		s.args = args
	}
}

// WithEnv adds environment variables to every worker.
func WithEnv(env ...string) Option {
	return func(s *Spawner) {
		s.env = append(s.env, env...)
	}
}

// WithOutput sets where worker output goes. Workers inherit the parent's
// stdout and stderr by default.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(s *Spawner) {
		s.stdout = stdout
		s.stderr = stderr
	}
}

// WithWaitDelay sets the grace period of a terminated worker.
func WithWaitDelay(d time.Duration) Option {
	return func(s *Spawner) {
		s.waitDelay = d
	}
}

// NewSpawner creates a Spawner for the running executable.
func NewSpawner(opts ...Option) (*Spawner, error) {
	s := &Spawner{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		waitDelay: DefaultWaitDelay,
		live:      make(map[*exec.Cmd]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.executable == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to determine executable path")
		}
		s.executable = exe
	}
	return s, nil
}

// Spawn runs one worker for req and waits for it to exit. Cancelling ctx
// asks the worker to terminate.
func (s *Spawner) Spawn(ctx context.Context, req *domain.BuildRequest) (int, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return 0, zerr.Wrap(err, domain.ErrWorkerRequestEncode.Error())
	}

	args := append(slices.Clone(s.args), domain.WorkerCommand)
	//nolint:gosec // G204: executable is the running binary, args are fixed literals
	cmd := exec.CommandContext(ctx, s.executable, args...)
	cmd.Dir = req.Cwd
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr
	cmd.Env = append(os.Environ(), s.env...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = s.waitDelay

	s.mu.Lock()
	if err := cmd.Start(); err != nil {
		s.mu.Unlock()
		return 0, zerr.With(zerr.Wrap(err, domain.ErrWorkerSpawnFailed.Error()), "extname", req.Target.ResolvedExtname())
	}
	s.live[cmd] = struct{}{}
	s.mu.Unlock()

	err = cmd.Wait()

	s.mu.Lock()
	delete(s.live, cmd)
	s.mu.Unlock()

	return exitCode(cmd.ProcessState, err)
}

// TerminateAll signals every live worker to terminate.
func (s *Spawner) TerminateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for cmd := range s.live {
		_ = cmd.Process.Signal(syscall.SIGTERM)
	}
}

// Live returns the number of running workers.
func (s *Spawner) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// exitCode reports the worker's own status whenever it ran to exit. Wait
// returns the context error for a cancelled worker even when it exited 0.
func exitCode(state *os.ProcessState, err error) (int, error) {
	if state != nil {
		if code := state.ExitCode(); code >= 0 {
			return code, nil
		}
		// Killed by a signal.
		return 1, nil
	}
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code, nil
		}
		return 1, nil
	}
	return 1, zerr.Wrap(err, domain.ErrWorkerSpawnFailed.Error())
}

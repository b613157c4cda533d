// Package dispatch builds and executes the external trainer invocation.
// The launcher verifies the command can execute before creating the run's
// output directory, so a missing executable never leaves a stray empty
// directory behind.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sort"
	"syscall"

	"github.com/semlab/trainctl/internal/ctxlog"
)

var (
	// ErrDispatchFailed reports a command that could not be found, started,
	// or waited on.
	ErrDispatchFailed = errors.New("dispatch failed")
	// ErrDirectoryCreationFailed reports a run output directory that could
	// not be created.
	ErrDirectoryCreationFailed = errors.New("directory creation failed")
)

// Request describes one external trainer invocation. It is constructed
// once per run, never mutated, and consumed exactly once by Launch.
type Request struct {
	Command   string
	Args      []string
	Env       map[string]string
	Dir       string
	OutputDir string
}

// Launcher runs requests synchronously, streaming the child's output to
// the configured writers.
type Launcher struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewLauncher creates a Launcher writing child output to the given streams.
func NewLauncher(stdout, stderr io.Writer) *Launcher {
	return &Launcher{Stdout: stdout, Stderr: stderr}
}

// Launch resolves the command, creates the output directory, and blocks
// until the child process exits. It returns the child's exit code. An
// interrupt or termination signal received while the child runs is
// forwarded to it; the launcher keeps waiting for the child to exit.
func (l *Launcher) Launch(ctx context.Context, req Request) (int, error) {
	logger := ctxlog.FromContext(ctx)

	binary, err := exec.LookPath(req.Command)
	if err != nil {
		return 0, fmt.Errorf("%w: command %q: %v", ErrDispatchFailed, req.Command, err)
	}
	logger.Debug("Trainer binary resolved.", "binary", binary)

	if req.OutputDir != "" {
		if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrDirectoryCreationFailed, req.OutputDir, err)
		}
		logger.Debug("Run output directory ready.", "dir", req.OutputDir)
	}

	cmd := exec.CommandContext(ctx, binary, req.Args...)
	cmd.Dir = req.Dir
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	cmd.Env = append(os.Environ(), flattenEnv(req.Env)...)

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("%w: starting %q: %v", ErrDispatchFailed, req.Command, err)
	}
	logger.Info("Trainer process started.", "pid", cmd.Process.Pid, "args", req.Args)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigCh:
				logger.Warn("Forwarding signal to trainer.", "signal", sig)
				_ = cmd.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	waitErr := cmd.Wait()
	close(done)
	signal.Stop(sigCh)

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			code := exitErr.ExitCode()
			logger.Warn("Trainer process exited non-zero.", "code", code)
			return code, nil
		}
		return 0, fmt.Errorf("%w: waiting on %q: %v", ErrDispatchFailed, req.Command, waitErr)
	}

	logger.Info("Trainer process finished.", "code", 0)
	return 0, nil
}

// flattenEnv renders the request environment as sorted KEY=VALUE pairs.
func flattenEnv(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}

// Package testutil provides a standardized temp-dir harness for exercising
// the full launch pipeline in tests.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/semlab/trainctl/internal/app"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteFiles writes each relative-path/content pair under a fresh temp
// directory and returns that directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// LaunchResult holds the outcomes of a harness launch.
type LaunchResult struct {
	Code   int
	Err    error
	Stdout string
	Logs   string
	Root   string
}

// RunLaunch writes the given files under a temp root, builds a dry-run
// launcher configuration rooted there (config.hcl, checkpoints/), applies
// the caller's mutation, and runs the full pipeline.
func RunLaunch(t *testing.T, files map[string]string, mutate func(cfg *app.Config)) *LaunchResult {
	t.Helper()

	root := WriteFiles(t, files)
	cfg := app.Config{
		ConfigPath:     filepath.Join(root, "config.hcl"),
		OutputRoot:     filepath.Join(root, "checkpoints"),
		TrainerBin:     "true",
		IncludePackage: "semqa",
		LogFormat:      "text",
		LogLevel:       "debug",
		DryRun:         true,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	validated, err := app.NewConfig(cfg)
	require.NoError(t, err)

	stdout := &SafeBuffer{}
	logs := &SafeBuffer{}
	launcher := app.NewApp(stdout, logs, validated)
	code, runErr := launcher.Run(context.Background())

	return &LaunchResult{
		Code:   code,
		Err:    runErr,
		Stdout: stdout.String(),
		Logs:   logs.String(),
		Root:   root,
	}
}

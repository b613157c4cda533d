package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/semlab/trainctl/internal/app"
	"github.com/semlab/trainctl/internal/cli"
	"github.com/semlab/trainctl/internal/params"
	"github.com/semlab/trainctl/internal/resolver"
	"github.com/semlab/trainctl/internal/runid"
)

// Exit codes for failures before the trainer runs. A successful dispatch
// propagates the trainer's own exit code unchanged.
const (
	exitFailure     = 1
	exitParamError  = 2
	exitConfigError = 3
)

// main is the entrypoint for the trainctl launcher.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	code, err := run(os.Stdout, os.Stderr, os.Args[1:])
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
	os.Exit(code)
}

// run encapsulates the main application logic for easier testing and error
// handling. It returns the exit code to propagate on success.
func run(outW, errW io.Writer, args []string) (int, error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return 0, err
	}
	if shouldExit {
		return 0, nil
	}

	launcher := app.NewApp(outW, errW, appConfig)
	return launcher.Run(context.Background())
}

// exitCodeFor maps a pipeline failure to its process exit code: parameter
// validation failures exit 2, config resolution failures exit 3, and
// everything else exits 1.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, params.ErrUnknownParameter),
		errors.Is(err, params.ErrTypeMismatch),
		errors.Is(err, params.ErrInvalidChoice),
		errors.Is(err, params.ErrMissingRequired),
		errors.Is(err, runid.ErrUnsafeValue),
		errors.Is(err, app.ErrParamsFile):
		return exitParamError
	case errors.Is(err, resolver.ErrConfigNotFound),
		errors.Is(err, resolver.ErrConfigParseError):
		return exitConfigError
	default:
		return exitFailure
	}
}

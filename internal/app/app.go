package app

import (
	"io"
	"log/slog"

	"github.com/semlab/trainctl/internal/dispatch"
	"github.com/semlab/trainctl/internal/params"
	"github.com/semlab/trainctl/internal/runid"
)

// App encapsulates the launcher's dependencies, configuration, and
// lifecycle. The child trainer's stdout goes to outW; the launcher's own
// logs and the child's stderr go to errW.
type App struct {
	outW     io.Writer
	errW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *params.Registry
	scheme   runid.Scheme
	launcher *dispatch.Launcher
}

// NewApp is the constructor for the launcher. It returns a fully
// initialized App instance with its own isolated logger, the default
// hyperparameter registry, and the default run-path naming scheme.
func NewApp(outW, errW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, errW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:     outW,
		errW:     errW,
		logger:   logger,
		config:   config,
		registry: params.DefaultRegistry(),
		scheme:   runid.DefaultScheme(),
		launcher: dispatch.NewLauncher(outW, errW),
	}
}

// Registry returns the application's hyperparameter registry. This is
// primarily for testing.
func (a *App) Registry() *params.Registry {
	return a.registry
}

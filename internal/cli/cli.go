package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/semlab/trainctl/internal/app"
	"github.com/semlab/trainctl/internal/params"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app
// Config, a boolean indicating if the program should exit cleanly, or an
// ExitError. Hyperparameter flags are generated from the registry, so
// --help always enumerates the full tunable surface.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	envCfg, err := app.FromEnv()
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	flagSet := flag.NewFlagSet("trainctl", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
trainctl - configure, name, and dispatch one training run.

Usage:
  trainctl [options] [CONFIG_PATH]

Arguments:
  CONFIG_PATH
    Path to the base .hcl training config, or a directory containing
    exactly one .hcl file.

Options and hyperparameters:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", envCfg.ConfigPath, "Path to the base training config.")
	cFlag := flagSet.String("c", "", "Path to the base training config (shorthand).")
	paramsFlag := flagSet.String("params", envCfg.ParamsFile, "Path to a YAML file of hyperparameter overrides.")
	outputRootFlag := flagSet.String("output-root", envCfg.OutputRoot, "Root directory run outputs are derived under.")
	trainerFlag := flagSet.String("trainer", envCfg.TrainerBin, "Trainer CLI to dispatch to.")
	includeFlag := flagSet.String("include-package", envCfg.IncludePackage, "Package identifier passed to the trainer.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Print the assembled invocation instead of dispatching.")
	logFormatFlag := flagSet.String("log-format", envCfg.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", envCfg.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	reg := params.DefaultRegistry()
	hyperFlags := make(map[string]*string)
	for _, name := range reg.Names() {
		spec, _ := reg.Lookup(name)
		hyperFlags[name] = flagSet.String(name, "", hyperHelp(spec))
	}

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *configFlag != "" {
		path = *configFlag
	}
	if *cFlag != "" {
		path = *cFlag
	}
	if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Config path determined.", "path", path)

	if path == "" {
		slog.Debug("No config path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	var overrides []app.Override
	flagSet.Visit(func(f *flag.Flag) {
		if raw, ok := hyperFlags[f.Name]; ok {
			overrides = append(overrides, app.Override{Name: f.Name, Value: *raw})
		}
	})

	config, err := app.NewConfig(app.Config{
		ConfigPath:     path,
		ParamsFile:     *paramsFlag,
		OutputRoot:     *outputRootFlag,
		TrainerBin:     *trainerFlag,
		IncludePackage: *includeFlag,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
		DryRun:         *dryRunFlag,
		Overrides:      overrides,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// hyperHelp renders one registry spec as flag usage text.
func hyperHelp(spec *params.Spec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hyperparameter (%s): %s", spec.Type, spec.Help)
	if len(spec.Choices) > 0 {
		fmt.Fprintf(&b, " Options: %s.", strings.Join(spec.Choices, ", "))
	}
	if spec.Default != nil {
		fmt.Fprintf(&b, " (default %v)", spec.Default)
	}
	return b.String()
}

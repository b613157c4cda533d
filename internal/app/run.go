package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/semlab/trainctl/internal/ctxlog"
	"github.com/semlab/trainctl/internal/dispatch"
	"github.com/semlab/trainctl/internal/params"
	"github.com/semlab/trainctl/internal/resolver"
	"github.com/semlab/trainctl/internal/runid"
)

// Run executes the launch pipeline: build and finalize the parameter set,
// derive the run path, resolve the base config, and dispatch the trainer.
// It returns the trainer's exit code.
func (a *App) Run(ctx context.Context) (int, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	set := params.NewSet(a.registry)
	if a.config.ParamsFile != "" {
		if err := loadParamsFile(set, a.config.ParamsFile); err != nil {
			return 0, err
		}
		a.logger.Debug("Parameter overrides file applied.", "path", a.config.ParamsFile)
	}
	for _, ov := range a.config.Overrides {
		if err := set.Set(ov.Name, ov.Value); err != nil {
			return 0, err
		}
	}
	frozen, err := set.Finalize()
	if err != nil {
		return 0, err
	}
	a.logger.Debug("Parameter set finalized.", "parameters", len(frozen.Names()))

	runPath, err := runid.Derive(frozen, a.scheme)
	if err != nil {
		return 0, err
	}
	outputDir := runPath.Join(a.config.OutputRoot)
	a.logger.Info("Run path derived.", "run_path", runPath.String(), "output_dir", outputDir)

	configPath, err := resolver.Locate(a.config.ConfigPath)
	if err != nil {
		return 0, err
	}
	resolved, err := resolver.Resolve(ctx, configPath, frozen)
	if err != nil {
		return 0, err
	}
	a.logger.Info("Base config resolved.", "config", configPath, "fields", len(resolved.Fields()))

	req := a.buildRequest(configPath, outputDir, resolved)
	if a.config.DryRun {
		a.printRequest(req)
		return 0, nil
	}

	code, err := a.launcher.Launch(ctx, req)
	if err != nil {
		return 0, err
	}
	a.logger.Debug("App.Run method finished.", "exit_code", code)
	return code, nil
}

// buildRequest assembles the one-shot trainer invocation. The merged
// config travels to the child as TRAIN_* environment variables; the
// trainer CLI itself receives the config path, the serialization
// directory, and the include-package identifier.
func (a *App) buildRequest(configPath, outputDir string, resolved *resolver.Resolved) dispatch.Request {
	env := make(map[string]string)
	for name, value := range resolved.Overrides() {
		env["TRAIN_"+strings.ToUpper(name)] = value
	}
	env["TRAIN_LAUNCH_ID"] = uuid.NewString()
	env["TRAIN_RUN_DIR"] = outputDir

	return dispatch.Request{
		Command: a.config.TrainerBin,
		Args: []string{
			"train", configPath,
			"--serialization-dir", outputDir,
			"--include-package", a.config.IncludePackage,
		},
		Env:       env,
		OutputDir: outputDir,
	}
}

// printRequest writes a dry-run preview of the assembled invocation.
func (a *App) printRequest(req dispatch.Request) {
	fmt.Fprintf(a.outW, "command: %s %s\n", req.Command, strings.Join(req.Args, " "))
	fmt.Fprintf(a.outW, "output dir: %s\n", req.OutputDir)

	keys := make([]string, 0, len(req.Env))
	for k := range req.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(a.outW, "env: %s=%s\n", k, req.Env[k])
	}
}

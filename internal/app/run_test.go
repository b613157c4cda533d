package app_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semlab/trainctl/internal/app"
	"github.com/semlab/trainctl/internal/params"
	"github.com/semlab/trainctl/internal/resolver"
	"github.com/semlab/trainctl/internal/testutil"
)

const baseConfig = `
batch_size    = 16
learning_rate = 0.01
patience      = 10
`

func TestRunDryRunPipeline(t *testing.T) {
	result := testutil.RunLaunch(t, map[string]string{
		"config.hcl": baseConfig,
	}, func(cfg *app.Config) {
		cfg.Overrides = []app.Override{{Name: "batch_size", Value: "8"}}
	})

	require.NoError(t, result.Err)
	assert.Zero(t, result.Code)

	assert.Contains(t, result.Stdout, "command: true train")
	assert.Contains(t, result.Stdout, "--serialization-dir")
	assert.Contains(t, result.Stdout, "--include-package semqa")

	// Derived path encodes the overridden hyperparameters.
	assert.Contains(t, result.Stdout, filepath.Join("drop", "drop_parser", "BS_8", "LR_0.001"))
	assert.Contains(t, result.Stdout, "S_100")

	// Merged config exported for the child: override wins, base-only
	// fields survive.
	assert.Contains(t, result.Stdout, "env: TRAIN_BATCH_SIZE=8")
	assert.Contains(t, result.Stdout, "env: TRAIN_PATIENCE=10")
	assert.Contains(t, result.Stdout, "env: TRAIN_LAUNCH_ID=")

	// Dry-run must not create the output directory.
	_, err := os.Stat(filepath.Join(result.Root, "checkpoints"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunParamsFile(t *testing.T) {
	result := testutil.RunLaunch(t, map[string]string{
		"config.hcl":  baseConfig,
		"params.yaml": "batch_size: 32\ndropout: 0.5\nhard_em: true\n",
	}, func(cfg *app.Config) {
		cfg.ParamsFile = filepath.Join(cfg.OutputRoot, "..", "params.yaml")
		// CLI overrides are applied after the file and win.
		cfg.Overrides = []app.Override{{Name: "dropout", Value: "0.1"}}
	})

	require.NoError(t, result.Err)
	assert.Contains(t, result.Stdout, "env: TRAIN_BATCH_SIZE=32")
	assert.Contains(t, result.Stdout, "env: TRAIN_DROPOUT=0.1")
	assert.Contains(t, result.Stdout, "env: TRAIN_HARD_EM=true")
}

func TestRunInvalidParamsFile(t *testing.T) {
	result := testutil.RunLaunch(t, map[string]string{
		"config.hcl":  baseConfig,
		"params.yaml": "batch_size: [1, 2]\n",
	}, func(cfg *app.Config) {
		cfg.ParamsFile = filepath.Join(filepath.Dir(cfg.ConfigPath), "params.yaml")
	})

	assert.ErrorIs(t, result.Err, app.ErrParamsFile)
}

func TestRunUnknownOverride(t *testing.T) {
	result := testutil.RunLaunch(t, map[string]string{
		"config.hcl": baseConfig,
	}, func(cfg *app.Config) {
		cfg.Overrides = []app.Override{{Name: "warmup_steps", Value: "10"}}
	})

	assert.ErrorIs(t, result.Err, params.ErrUnknownParameter)
}

func TestRunMissingConfig(t *testing.T) {
	result := testutil.RunLaunch(t, nil, nil)
	assert.ErrorIs(t, result.Err, resolver.ErrConfigNotFound)
}

func TestRunDispatchesTrainer(t *testing.T) {
	script := "#!/bin/sh\n" +
		"echo \"seed=$TRAIN_SEED dir=$TRAIN_RUN_DIR\"\n" +
		"exit 5\n"

	result := testutil.RunLaunch(t, map[string]string{
		"config.hcl":  baseConfig,
		"bin/trainer": script,
	}, func(cfg *app.Config) {
		trainer := filepath.Join(filepath.Dir(cfg.ConfigPath), "bin", "trainer")
		require.NoError(t, os.Chmod(trainer, 0o755))
		cfg.TrainerBin = trainer
		cfg.DryRun = false
	})

	require.NoError(t, result.Err)
	assert.Equal(t, 5, result.Code, "trainer exit code propagates unchanged")
	assert.Contains(t, result.Stdout, "seed=100")

	outDir := filepath.Join(result.Root, "checkpoints", "drop", "drop_parser")
	_, err := os.Stat(outDir)
	assert.NoError(t, err, "output directory exists under the derived path")
}

package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semlab/trainctl/internal/params"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drop_parser.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func frozenSet(t *testing.T, build func(reg *params.Registry), overrides map[string]string) *params.Frozen {
	t.Helper()
	reg := params.NewRegistry()
	build(reg)
	set := params.NewSet(reg)
	for name, raw := range overrides {
		require.NoError(t, set.Set(name, raw))
	}
	frozen, err := set.Finalize()
	require.NoError(t, err)
	return frozen
}

func standardParams(reg *params.Registry) {
	reg.Register(params.Spec{Name: "batch_size", Type: params.TypeInt, Default: 8})
	reg.Register(params.Spec{Name: "learning_rate", Type: params.TypeFloat, Default: 0.001})
	reg.Register(params.Spec{Name: "hard_em", Type: params.TypeBool, Default: false})
	reg.Register(params.Spec{Name: "dataset", Type: params.TypeString, Default: "drop"})
}

func TestResolveMissingConfig(t *testing.T) {
	frozen := frozenSet(t, standardParams, nil)

	_, err := Resolve(context.Background(), filepath.Join(t.TempDir(), "absent.hcl"), frozen)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestResolveInvalidHCL(t *testing.T) {
	path := writeConfig(t, `batch_size = {{{`)
	frozen := frozenSet(t, standardParams, nil)

	_, err := Resolve(context.Background(), path, frozen)
	assert.ErrorIs(t, err, ErrConfigParseError)
}

func TestResolveUnsupportedBlock(t *testing.T) {
	path := writeConfig(t, `
model "drop_parser" {
  batch_size = 8
}
`)
	frozen := frozenSet(t, standardParams, nil)

	_, err := Resolve(context.Background(), path, frozen)
	require.ErrorIs(t, err, ErrConfigParseError)
	assert.ErrorContains(t, err, "model")
}

func TestResolveOverlayPrecedence(t *testing.T) {
	path := writeConfig(t, `
batch_size    = 16
learning_rate = 0.01
patience      = 10
`)
	frozen := frozenSet(t, standardParams, map[string]string{"batch_size": "32"})

	resolved, err := Resolve(context.Background(), path, frozen)
	require.NoError(t, err)

	overrides := resolved.Overrides()
	assert.Equal(t, "32", overrides["batch_size"], "parameter value wins over base config")
	assert.Equal(t, "0.001", overrides["learning_rate"], "parameter default wins over base config")
	assert.Equal(t, "10", overrides["patience"], "base-only fields survive the merge")
	assert.Equal(t, "drop", overrides["dataset"], "parameter-only fields are appended")
	assert.Equal(t, "false", overrides["hard_em"])
}

func TestResolveTrainingBlock(t *testing.T) {
	path := writeConfig(t, `
training {
  batch_size = 16
  cutoff     = 0.5
}
`)
	frozen := frozenSet(t, standardParams, nil)

	resolved, err := Resolve(context.Background(), path, frozen)
	require.NoError(t, err)

	_, ok := resolved.Value("cutoff")
	require.True(t, ok)
	assert.Equal(t, "0.5", resolved.Overrides()["cutoff"])
	assert.Equal(t, "8", resolved.Overrides()["batch_size"], "parameter default overrides the block value")
}

func TestResolveTypeConflict(t *testing.T) {
	// batch_size is a string in the base config but an int parameter; the
	// numeric value converts cleanly into the string field.
	path := writeConfig(t, `batch_size = "small"`)
	frozen := frozenSet(t, standardParams, nil)

	resolved, err := Resolve(context.Background(), path, frozen)
	require.NoError(t, err)
	assert.Equal(t, "8", resolved.Overrides()["batch_size"])
}

func TestResolveAllOrNothing(t *testing.T) {
	path := writeConfig(t, `batch_size = [1, 2]`)
	frozen := frozenSet(t, standardParams, nil)

	resolved, err := Resolve(context.Background(), path, frozen)
	require.ErrorIs(t, err, ErrConfigParseError)
	assert.Nil(t, resolved, "no partially merged state on error")
}

func TestResolveFieldsSorted(t *testing.T) {
	path := writeConfig(t, `
zeta  = 1
alpha = 2
`)
	frozen := frozenSet(t, func(reg *params.Registry) {}, nil)

	resolved, err := Resolve(context.Background(), path, frozen)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, resolved.Fields())
}

func TestLocate(t *testing.T) {
	t.Run("plain file passes through", func(t *testing.T) {
		path := writeConfig(t, `batch_size = 1`)
		got, err := Locate(path)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("directory with one hcl file", func(t *testing.T) {
		path := writeConfig(t, `batch_size = 1`)
		got, err := Locate(filepath.Dir(path))
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("empty directory fails", func(t *testing.T) {
		_, err := Locate(t.TempDir())
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("ambiguous directory fails", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(`x = 1`), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hcl"), []byte(`x = 2`), 0o644))
		_, err := Locate(dir)
		assert.ErrorIs(t, err, ErrConfigParseError)
	})

	t.Run("missing path fails", func(t *testing.T) {
		_, err := Locate(filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})
}

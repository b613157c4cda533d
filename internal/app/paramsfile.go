package app

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/semlab/trainctl/internal/params"
)

// ErrParamsFile reports a parameter overrides file that could not be read
// or decoded. Individual value failures keep their params error class.
var ErrParamsFile = errors.New("invalid parameter overrides file")

// loadParamsFile applies a flat YAML mapping of hyperparameter overrides
// to the set. Keys are applied in sorted order so failures are stable.
func loadParamsFile(set *params.Set, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrParamsFile, path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrParamsFile, path, err)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := putOverride(set, name, raw[name]); err != nil {
			return err
		}
	}
	return nil
}

// putOverride assigns one decoded YAML value, widening integers into
// float-typed parameters since YAML has no way to force "5" to be a float.
func putOverride(set *params.Set, name string, value any) error {
	if v, ok := value.(int); ok {
		if spec, found := set.Registry().Lookup(name); found && spec.Type == params.TypeFloat {
			return set.Put(name, float64(v))
		}
	}
	switch v := value.(type) {
	case bool, int, float64:
		return set.Put(name, v)
	case string:
		return set.Set(name, v)
	default:
		return fmt.Errorf("%w: key %q has unsupported value type %T", ErrParamsFile, name, value)
	}
}

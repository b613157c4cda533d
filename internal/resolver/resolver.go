// Package resolver loads the declarative base training config and overlays
// the frozen hyperparameter set onto it. Resolution is all-or-nothing: on
// any error no partially merged state is returned.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/semlab/trainctl/internal/ctxlog"
	"github.com/semlab/trainctl/internal/params"
)

var (
	// ErrConfigNotFound reports a missing base config file.
	ErrConfigNotFound = errors.New("config not found")
	// ErrConfigParseError reports a base config that is not valid HCL, or
	// an overlay value that cannot be converted to the base field's type.
	ErrConfigParseError = errors.New("config parse error")
)

// Resolved is the merged, immutable configuration handed to the dispatcher.
type Resolved struct {
	fields map[string]cty.Value
}

// Fields returns the merged field names in sorted order.
func (r *Resolved) Fields() []string {
	out := make([]string, 0, len(r.fields))
	for name := range r.fields {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Value returns the merged value for name, if present.
func (r *Resolved) Value(name string) (cty.Value, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Overrides renders every merged field canonically as a string, keyed by
// field name. This is the payload exported to the trainer's environment.
func (r *Resolved) Overrides() map[string]string {
	out := make(map[string]string, len(r.fields))
	for name, val := range r.fields {
		out[name] = renderValue(val)
	}
	return out
}

// Resolve parses the base config at path and overlays every frozen
// parameter whose name matches a base field; parameters without a match
// are appended. Parameter values always win over base values.
func Resolve(ctx context.Context, path string, frozen *params.Frozen) (*Resolved, error) {
	logger := ctxlog.FromContext(ctx)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigNotFound, path, err)
	}

	base, err := parseBase(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Base config parsed.", "path", path, "fields", len(base))

	merged := make(map[string]cty.Value, len(base))
	for name, val := range base {
		merged[name] = val
	}

	for _, name := range frozen.Names() {
		spec, _ := frozen.Spec(name)
		raw, _ := frozen.Value(name)
		val, err := toCty(spec, raw)
		if err != nil {
			return nil, err
		}
		if baseVal, ok := merged[name]; ok {
			converted, err := convert.Convert(val, baseVal.Type())
			if err != nil {
				return nil, fmt.Errorf("%w: cannot override field %q: %v", ErrConfigParseError, name, err)
			}
			val = converted
		}
		merged[name] = val
	}

	logger.Debug("Config resolution complete.", "merged_fields", len(merged))
	return &Resolved{fields: merged}, nil
}

// parseBase reads one HCL file into a flat field map. Top-level attributes
// and attributes inside a single optional `training` block are accepted;
// any other block is rejected.
func parseBase(path string) (map[string]cty.Value, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParseError, path, diags)
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("%w: %s: unexpected body type", ErrConfigParseError, path)
	}

	fields := make(map[string]cty.Value)
	collect := func(attrs hclsyntax.Attributes) error {
		for name, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return fmt.Errorf("%w: %s: attribute %q: %v", ErrConfigParseError, path, name, diags)
			}
			fields[name] = val
		}
		return nil
	}

	if err := collect(body.Attributes); err != nil {
		return nil, err
	}
	for _, block := range body.Blocks {
		if block.Type != "training" {
			return nil, fmt.Errorf("%w: %s: unsupported block %q", ErrConfigParseError, path, block.Type)
		}
		if err := collect(block.Body.Attributes); err != nil {
			return nil, err
		}
	}
	return fields, nil
}

// toCty converts a frozen parameter value into the cty value domain.
func toCty(spec *params.Spec, value any) (cty.Value, error) {
	switch spec.Type {
	case params.TypeBool:
		return cty.BoolVal(value.(bool)), nil
	case params.TypeInt:
		return cty.NumberIntVal(int64(value.(int))), nil
	case params.TypeFloat:
		return cty.NumberFloatVal(value.(float64)), nil
	case params.TypeString, params.TypePath:
		return cty.StringVal(value.(string)), nil
	default:
		return cty.NilVal, fmt.Errorf("%w: parameter %q has unsupported type %v", ErrConfigParseError, spec.Name, spec.Type)
	}
}

// renderValue produces the canonical string form of a merged field value.
func renderValue(val cty.Value) string {
	switch {
	case val.Type() == cty.Bool:
		if val.True() {
			return "true"
		}
		return "false"
	case val.Type() == cty.Number:
		return val.AsBigFloat().Text('g', -1)
	case val.Type() == cty.String:
		return val.AsString()
	default:
		return val.GoString()
	}
}

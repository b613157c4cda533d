package params

import (
	"fmt"
	"strconv"
)

// Type enumerates the value types a hyperparameter may carry.
type Type int

const (
	TypeBool Type = iota
	TypeInt
	TypeFloat
	TypeString
	TypePath
)

// String returns the human-readable name of the type, as shown in help
// output and error messages.
func (t Type) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypePath:
		return "path"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Spec describes a single registered hyperparameter. Specs are immutable
// once registered.
type Spec struct {
	Name     string
	Type     Type
	Default  any      // nil means no default
	Choices  []string // restricts string-typed values when non-empty
	Required bool
	Help     string
}

// Registry holds all registered hyperparameter specs for one application
// instance, preserving registration order for stable enumeration.
type Registry struct {
	specs map[string]*Spec
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]*Spec)}
}

// Register adds a spec to the registry. A duplicate name or a default that
// does not satisfy the spec's own type is a programmer error, so Register
// panics rather than returning an error.
func (r *Registry) Register(spec Spec) {
	if spec.Name == "" {
		panic("params: spec name must not be empty")
	}
	if _, exists := r.specs[spec.Name]; exists {
		panic(fmt.Sprintf("params: duplicate spec %q", spec.Name))
	}
	if spec.Default != nil {
		if err := checkValueType(&spec, spec.Default); err != nil {
			panic(fmt.Sprintf("params: default for %q: %v", spec.Name, err))
		}
	}
	s := spec
	r.specs[s.Name] = &s
	r.order = append(r.order, s.Name)
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (*Spec, bool) {
	s, ok := r.specs[name]
	return s, ok
}

// Names returns all registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// parseValue converts a raw string into the spec's value type.
func parseValue(spec *Spec, raw string) (any, error) {
	switch spec.Type {
	case TypeBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q expects bool, got %q", ErrTypeMismatch, spec.Name, raw)
		}
		return v, nil
	case TypeInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q expects int, got %q", ErrTypeMismatch, spec.Name, raw)
		}
		return v, nil
	case TypeFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q expects float, got %q", ErrTypeMismatch, spec.Name, raw)
		}
		return v, nil
	case TypeString, TypePath:
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: parameter %q has unsupported type %v", ErrTypeMismatch, spec.Name, spec.Type)
	}
}

// checkValueType verifies a typed value against the spec's declared type.
func checkValueType(spec *Spec, value any) error {
	ok := false
	switch spec.Type {
	case TypeBool:
		_, ok = value.(bool)
	case TypeInt:
		_, ok = value.(int)
	case TypeFloat:
		_, ok = value.(float64)
	case TypeString, TypePath:
		_, ok = value.(string)
	}
	if !ok {
		return fmt.Errorf("%w: parameter %q expects %v, got %T", ErrTypeMismatch, spec.Name, spec.Type, value)
	}
	return nil
}

// checkChoices verifies a value against the spec's allowed-value set.
func checkChoices(spec *Spec, value any) error {
	if len(spec.Choices) == 0 {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return nil
	}
	for _, choice := range spec.Choices {
		if s == choice {
			return nil
		}
	}
	return fmt.Errorf("%w: parameter %q must be one of %v, got %q", ErrInvalidChoice, spec.Name, spec.Choices, s)
}

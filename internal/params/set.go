package params

import (
	"errors"
	"fmt"
)

// Sentinel errors for the parameter validation failure classes. Callers
// branch on these with errors.Is; the wrapped message always names the
// offending parameter.
var (
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrInvalidChoice    = errors.New("invalid choice")
	ErrMissingRequired  = errors.New("missing required parameter")
	ErrFrozen           = errors.New("parameter set is frozen")
)

// Set is a mutable collection of hyperparameter values, seeded from the
// registry's defaults and overridden by caller-supplied values. Finalize
// freezes it into an immutable view.
type Set struct {
	reg    *Registry
	values map[string]any
	frozen bool
}

// NewSet creates a Set seeded with every registered default.
func NewSet(reg *Registry) *Set {
	values := make(map[string]any)
	for _, name := range reg.order {
		spec := reg.specs[name]
		if spec.Default != nil {
			values[name] = spec.Default
		}
	}
	return &Set{reg: reg, values: values}
}

// Registry returns the registry this set validates against.
func (s *Set) Registry() *Registry {
	return s.reg
}

// Set parses and assigns a raw string value. It fails with
// ErrUnknownParameter, ErrTypeMismatch, or ErrInvalidChoice without
// mutating the set.
func (s *Set) Set(name, raw string) error {
	if s.frozen {
		return fmt.Errorf("%w: cannot set %q", ErrFrozen, name)
	}
	spec, ok := s.reg.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	value, err := parseValue(spec, raw)
	if err != nil {
		return err
	}
	if err := checkChoices(spec, value); err != nil {
		return err
	}
	s.values[name] = value
	return nil
}

// Put assigns an already-typed value, validating it against the spec's
// declared type and allowed-value set.
func (s *Set) Put(name string, value any) error {
	if s.frozen {
		return fmt.Errorf("%w: cannot set %q", ErrFrozen, name)
	}
	spec, ok := s.reg.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	if err := checkValueType(spec, value); err != nil {
		return err
	}
	if err := checkChoices(spec, value); err != nil {
		return err
	}
	s.values[name] = value
	return nil
}

// Finalize checks that every required parameter has a value and returns an
// immutable frozen view. The set itself rejects further mutation afterwards.
func (s *Set) Finalize() (*Frozen, error) {
	for _, name := range s.reg.order {
		spec := s.reg.specs[name]
		if _, ok := s.values[name]; spec.Required && !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingRequired, name)
		}
	}
	s.frozen = true
	values := make(map[string]any, len(s.values))
	for k, v := range s.values {
		values[k] = v
	}
	return &Frozen{reg: s.reg, values: values}, nil
}

// Frozen is the immutable view of a finalized Set.
type Frozen struct {
	reg    *Registry
	values map[string]any
}

// Value returns the raw typed value for name, if present.
func (f *Frozen) Value(name string) (any, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Spec returns the registered spec for name.
func (f *Frozen) Spec(name string) (*Spec, bool) {
	return f.reg.Lookup(name)
}

// Names returns, in registration order, every parameter that has a value.
func (f *Frozen) Names() []string {
	var out []string
	for _, name := range f.reg.order {
		if _, ok := f.values[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Bool returns the boolean value of name, or false if absent.
func (f *Frozen) Bool(name string) bool {
	v, _ := f.values[name].(bool)
	return v
}

// Int returns the integer value of name, or zero if absent.
func (f *Frozen) Int(name string) int {
	v, _ := f.values[name].(int)
	return v
}

// Float returns the float value of name, or zero if absent.
func (f *Frozen) Float(name string) float64 {
	v, _ := f.values[name].(float64)
	return v
}

// String returns the string value of name, or the empty string if absent.
func (f *Frozen) String(name string) string {
	v, _ := f.values[name].(string)
	return v
}

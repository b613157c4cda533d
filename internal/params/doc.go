// Package params defines the typed hyperparameter registry and the
// mutable-then-frozen parameter set that every launch is built from. It
// translates loosely-typed user input (flags, YAML overrides) into
// validated, typed values before anything downstream runs.
package params
